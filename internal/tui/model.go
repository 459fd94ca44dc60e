package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"aelfgpt/internal/chat"
	"aelfgpt/internal/chat/session"
	"aelfgpt/internal/model"
)

const inputHeight = 3

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the chat shell.
type Model struct {
	// Input is the message editor. Exported for test access.
	Input textarea.Model
	// Viewport is the scrollable transcript. Exported for test access.
	Viewport viewport.Model

	uc     chat.UseCase
	sess   *session.Session
	styles Styles

	pending string // reply text streamed so far in the running turn
	running bool
	cancel  context.CancelFunc
	eventCh chan tea.Msg
	doneCh  chan TurnDoneMsg
	status  string
	err     error
	ready   bool
}

// New creates a shell bound to one session.
func New(uc chat.UseCase, sess *session.Session, styles Styles) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask about aelf..."
	ta.ShowLineNumbers = false
	ta.Prompt = "┃ "
	ta.CharLimit = 0
	ta.SetHeight(inputHeight)
	ta.Focus()

	return Model{
		Input:  ta,
		uc:     uc,
		sess:   sess,
		styles: styles,
	}
}

// Running reports whether a turn is in flight.
func (m Model) Running() bool { return m.running }

// Err returns the error of the last turn, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case UserEchoMsg:
		m.pending = ""
		m = m.refresh()
		return m, m.listen()

	case FragmentMsg:
		m.pending += msg.Text
		m = m.refresh()
		return m, m.listen()

	case TurnDoneMsg:
		m.running = false
		m.cancel = nil
		m.eventCh = nil
		m.doneCh = nil
		m.pending = ""
		m = m.finishTurn(msg)
		m = m.refresh()
		return m, m.Input.Focus()
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	statusHeight := 1
	borderHeight := 2
	vpHeight := max(msg.Height-inputHeight-statusHeight-borderHeight, 1)

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}

	m.Input.SetWidth(msg.Width)
	return m.refresh()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyCtrlR:
		if m.running {
			return m, nil
		}
		if err := m.uc.Reset(m.sess); err != nil {
			m.err = err
		} else {
			m.err = nil
			m.status = "Conversation cleared"
		}
		return m.refresh(), nil

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submitInput(text)
	}

	if m.running {
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	if msg.Type != tea.KeyRunes {
		m.Viewport, cmd = m.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) submitInput(text string) (tea.Model, tea.Cmd) {
	m.Input.Reset()
	m.err = nil
	m.status = ""
	m.pending = ""

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.eventCh = make(chan tea.Msg, 256)
	m.doneCh = make(chan TurnDoneMsg, 1)
	m.running = true

	m.Input.Blur()

	return m, tea.Batch(
		startTurn(ctx, m.uc, m.sess, text, m.eventCh, m.doneCh),
		listenForEvent(m.eventCh, m.doneCh),
	)
}

func (m Model) listen() tea.Cmd {
	if m.eventCh == nil {
		return nil
	}
	return listenForEvent(m.eventCh, m.doneCh)
}

func (m Model) finishTurn(msg TurnDoneMsg) Model {
	switch {
	case msg.Err == nil && msg.Output.Failed():
		m.err = fmt.Errorf("turn failed at %s: %w", msg.Output.Stage, msg.Output.Cause)
	case msg.Err == nil:
		m.status = fmt.Sprintf("%d fragment(s), %d source(s)", msg.Output.Fragments, len(msg.Output.Sources))
	case errors.Is(msg.Err, chat.ErrEmptyInput), errors.Is(msg.Err, context.Canceled):
	default:
		m.err = msg.Err
	}
	return m
}

func (m Model) refresh() Model {
	if !m.ready {
		return m
	}
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	return m
}

func (m Model) renderContent() string {
	width := max(m.Viewport.Width-2, 10)
	var blocks []string
	for _, msg := range m.uc.History(m.sess) {
		blocks = append(blocks, m.renderMessage(msg, width))
	}
	if m.running && m.pending != "" {
		blocks = append(blocks, m.styles.Assistant.Width(width).Render(m.pending))
	}
	return strings.Join(blocks, "\n\n")
}

func (m Model) renderMessage(msg model.Message, width int) string {
	switch {
	case msg.Role == model.RoleUser:
		return m.styles.User.Render("You: ") + msg.Content
	case msg.IsError:
		return m.styles.Error.Width(width).Render(msg.Content)
	default:
		return m.styles.Accent.Render("AelfGPT:") + "\n" + m.styles.Assistant.Width(width).Render(msg.Content)
	}
}

func (m Model) statusLine() string {
	switch {
	case m.err != nil:
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	case m.running:
		return m.styles.Muted.Render("Generating... (Ctrl+C to cancel)")
	case m.status != "":
		return m.styles.Muted.Render(m.status + " · Enter to send, Ctrl+R to reset, Ctrl+C to quit")
	default:
		return m.styles.Muted.Render("Enter to send, Ctrl+R to reset, Ctrl+C to quit")
	}
}
