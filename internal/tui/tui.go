// Package tui provides a Bubble Tea terminal shell for the chat engine.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"aelfgpt/internal/chat"
	"aelfgpt/internal/chat/session"
	"aelfgpt/internal/model"
)

// Run creates and runs the Bubble Tea program. It blocks until the program
// exits. Cancelling ctx quits the program.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// UserEchoMsg signals that the turn recorded the user's message.
type UserEchoMsg struct {
	Message model.Message
}

// FragmentMsg carries one streamed reply fragment.
type FragmentMsg struct {
	Text string
}

// TurnDoneMsg signals that the turn has completed.
type TurnDoneMsg struct {
	Output chat.SendMessageOutput
	Err    error
}

// channelRenderer forwards a turn's output to the UI loop.
type channelRenderer struct {
	ch chan<- tea.Msg
}

func (r channelRenderer) RenderUser(ctx context.Context, msg model.Message) error {
	return r.send(ctx, UserEchoMsg{Message: msg})
}

func (r channelRenderer) RenderFragment(ctx context.Context, fragment string) error {
	return r.send(ctx, FragmentMsg{Text: fragment})
}

func (r channelRenderer) send(ctx context.Context, msg tea.Msg) error {
	select {
	case r.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// startTurn runs one chat turn and signals completion.
func startTurn(ctx context.Context, uc chat.UseCase, sess *session.Session, text string, eventCh chan tea.Msg, doneCh chan<- TurnDoneMsg) tea.Cmd {
	return func() tea.Msg {
		out, err := uc.SendMessage(ctx, sess, chat.SendMessageInput{Content: text}, channelRenderer{ch: eventCh})
		close(eventCh)
		doneCh <- TurnDoneMsg{Output: out, Err: err}
		return nil
	}
}

// listenForEvent waits for the next event from the channel. When the channel
// closes it returns the turn's TurnDoneMsg.
func listenForEvent(ch <-chan tea.Msg, doneCh <-chan TurnDoneMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return <-doneCh
		}
		return msg
	}
}
