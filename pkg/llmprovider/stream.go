package llmprovider

import (
	"context"
	"errors"
	"io"
	"strings"
	"unicode"
)

// Stream is a lazy, single-consumer sequence of text fragments.
// Next returns io.EOF once the generation is complete.
type Stream interface {
	Next() (string, error)
	Close() error
}

// Collect drains s and returns the concatenated text. s is closed afterwards.
func Collect(s Stream) (string, error) {
	defer s.Close()

	var b strings.Builder
	for {
		frag, err := s.Next()
		if errors.Is(err, io.EOF) {
			return b.String(), nil
		}
		if err != nil {
			return b.String(), err
		}
		b.WriteString(frag)
	}
}

// SplitWords cuts text into fragments of n words each, keeping whitespace,
// so that joining the fragments yields text unchanged.
func SplitWords(text string, n int) []string {
	if n <= 0 {
		n = 1
	}

	var out []string
	start, words, inWord := 0, 0, false
	for i, r := range text {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		if !inWord {
			if words == n {
				out = append(out, text[start:i])
				start, words = i, 0
			}
			words++
			inWord = true
		}
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

// chunkedStream replays a complete response as word fragments.
type chunkedStream struct {
	fragments []string
	pos       int
	closed    bool
}

// NewChunkedStream builds a simulated stream over an already generated text.
func NewChunkedStream(text string, wordsPerFragment int) Stream {
	return &chunkedStream{fragments: SplitWords(text, wordsPerFragment)}
}

func (s *chunkedStream) Next() (string, error) {
	if s.closed {
		return "", ErrStreamClosed
	}
	if s.pos >= len(s.fragments) {
		return "", io.EOF
	}
	frag := s.fragments[s.pos]
	s.pos++
	return frag, nil
}

func (s *chunkedStream) Close() error {
	s.closed = true
	return nil
}

// chanStream turns a callback-style producer into a pull-based stream.
type chanStream struct {
	frags  chan string
	errc   chan error
	cancel context.CancelFunc
	err    error
	closed bool
}

// newChanStream runs produce in its own goroutine. produce must return once emit fails.
func newChanStream(ctx context.Context, produce func(ctx context.Context, emit func(string) error) error) *chanStream {
	ctx, cancel := context.WithCancel(ctx)
	s := &chanStream{
		frags:  make(chan string),
		errc:   make(chan error, 1),
		cancel: cancel,
	}

	go func() {
		defer close(s.frags)
		s.errc <- produce(ctx, func(frag string) error {
			select {
			case s.frags <- frag:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()

	return s
}

func (s *chanStream) Next() (string, error) {
	if s.closed {
		return "", ErrStreamClosed
	}
	if s.err != nil {
		return "", s.err
	}

	if frag, ok := <-s.frags; ok {
		return frag, nil
	}

	if err := <-s.errc; err != nil {
		s.err = err
	} else {
		s.err = io.EOF
	}
	return "", s.err
}

func (s *chanStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.cancel()
	for range s.frags {
	}
	return nil
}

// primedStream has already pulled its first item, so opening errors surface before any fragment is handed out.
type primedStream struct {
	Stream
	first    string
	firstErr error
	used     bool
	closed   bool
	release  func()
}

func prime(s Stream) (*primedStream, error) {
	first, err := s.Next()
	if err != nil && !errors.Is(err, io.EOF) {
		s.Close()
		return nil, err
	}
	return &primedStream{Stream: s, first: first, firstErr: err}, nil
}

func (p *primedStream) Next() (string, error) {
	if p.closed {
		return "", ErrStreamClosed
	}
	if !p.used {
		p.used = true
		if p.firstErr != nil {
			return "", p.firstErr
		}
		return p.first, nil
	}
	return p.Stream.Next()
}

func (p *primedStream) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	err := p.Stream.Close()
	if p.release != nil {
		p.release()
	}
	return err
}
