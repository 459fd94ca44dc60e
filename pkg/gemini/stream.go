package gemini

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"google.golang.org/genai"
)

var errStreamClosed = errors.New("gemini: stream closed")

// stream adapts the SDK's push iterator to a pull-based fragment stream.
type stream struct {
	pull   func() (*genai.GenerateContentResponse, error, bool)
	stop   func()
	err    error
	closed bool
}

func newStream(seq iter.Seq2[*genai.GenerateContentResponse, error]) *stream {
	next, stop := iter.Pull2(seq)
	return &stream{pull: next, stop: stop}
}

// Next returns the next non-empty text fragment.
func (s *stream) Next() (string, error) {
	if s.closed {
		return "", errStreamClosed
	}
	if s.err != nil {
		return "", s.err
	}

	for {
		resp, err, ok := s.pull()
		if !ok {
			s.err = io.EOF
			return "", io.EOF
		}
		if err != nil {
			s.err = fmt.Errorf("gemini: %w", err)
			return "", s.err
		}
		if resp == nil {
			continue
		}
		if text := resp.Text(); text != "" {
			return text, nil
		}
	}
}

func (s *stream) Close() error {
	s.closed = true
	s.stop()
	return nil
}
