package llmprovider

import (
	"context"
	"errors"
	"io"
)

// sliceStream yields frags, then failAfter (or io.EOF when nil).
type sliceStream struct {
	frags     []string
	failAfter error
	pos       int
	closed    bool
}

func (s *sliceStream) Next() (string, error) {
	if s.closed {
		return "", ErrStreamClosed
	}
	if s.pos < len(s.frags) {
		s.pos++
		return s.frags[s.pos-1], nil
	}
	if s.failAfter != nil {
		return "", s.failAfter
	}
	return "", io.EOF
}

func (s *sliceStream) Close() error {
	s.closed = true
	return nil
}

// mockProvider is a test implementation of the Provider interface
type mockProvider struct {
	name       string
	model      string
	shouldFail bool
	response   *Response

	// streaming behaviour
	openErr   error
	frags     []string
	streamErr error

	callCount   int
	streamCalls int
	lastStream  *sliceStream
}

func (m *mockProvider) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	m.callCount++
	if m.shouldFail {
		return nil, errors.New("mock provider error")
	}
	return m.response, nil
}

func (m *mockProvider) StreamContent(ctx context.Context, req *Request) (Stream, error) {
	m.streamCalls++
	if m.openErr != nil {
		return nil, m.openErr
	}
	m.lastStream = &sliceStream{frags: m.frags, failAfter: m.streamErr}
	return m.lastStream, nil
}

func (m *mockProvider) Name() string {
	return m.name
}

func (m *mockProvider) Model() string {
	return m.model
}

// mockLogger is a test implementation of the Logger interface
type mockLogger struct {
	infoMessages []string
	warnMessages []string
}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any) {
	m.infoMessages = append(m.infoMessages, template)
}
func (m *mockLogger) Warn(ctx context.Context, arg ...any) {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any) {
	m.warnMessages = append(m.warnMessages, template)
}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
