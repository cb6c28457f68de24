// Package tui implements the full-screen chat interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/mflister/lexicat/internal/conversation"
	"github.com/mflister/lexicat/internal/models"
)

// turnTimeout bounds one conversation turn including LLM and catalog calls.
const turnTimeout = 60 * time.Second

const (
	defaultPlaceholder = "Define CAC, find assets for MRR, list terms..."
	confirmPlaceholder = "Reply yes or no to confirm"
)

// Theme holds the color scheme for the chat display.
type Theme struct {
	Header lipgloss.Color
	User   lipgloss.Color
	Error  lipgloss.Color
	Hint   lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Header: lipgloss.Color("#5FAFD7"), // light blue
	User:   lipgloss.Color("#00D787"), // green
	Error:  lipgloss.Color("#FF005F"), // red
	Hint:   lipgloss.Color("#6C6C6C"), // dim gray
}

// Style functions for dynamic theming
func (t Theme) headerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Header).Bold(true)
}

func (t Theme) userStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.User).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// entry is one transcript line kept for re-rendering on resize.
type entry struct {
	role string
	text string
}

// replyMsg carries the outcome of one conversation turn.
type replyMsg struct {
	reply *models.Reply
	err   error
}

// chatModel is the bubbletea model for the chat screen.
type chatModel struct {
	engine    *conversation.Engine
	sessionID string

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	theme    Theme

	history []entry
	width   int
	height  int
	ready   bool
	waiting bool
}

// newChatModel creates a chat model bound to one engine and session.
func newChatModel(engine *conversation.Engine, sessionID string) chatModel {
	input := textinput.New()
	input.Placeholder = defaultPlaceholder
	input.Prompt = "> "
	input.Focus()

	return chatModel{
		engine:    engine,
		sessionID: sessionID,
		input:     input,
		spinner:   spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		theme:     defaultTheme,
	}
}

// Init returns the initial command.
func (m chatModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and returns the updated model.
func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg), nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			m.history = append(m.history, entry{role: models.RoleAssistant,
				text: fmt.Sprintf("⚠ Something went wrong: %v", msg.err)})
		} else {
			m.history = append(m.history, entry{role: models.RoleAssistant, text: msg.reply.Text})
		}
		m.syncPlaceholder()
		m.refreshTranscript()
		return m, nil
	}

	return m, nil
}

// handleKey routes key presses between quit, submit, scrolling, and typing.
func (m chatModel) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "ctrl+l":
		return m.clearTranscript(), nil

	case "enter":
		next, cmd := m.submit()
		return next, cmd

	case "up", "down", "pgup", "pgdown", "home", "end":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	default:
		if m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// submit sends the typed input as one conversation turn. Nothing is sent
// while another turn is in flight.
func (m chatModel) submit() (chatModel, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if m.waiting || text == "" {
		return m, nil
	}
	m.input.SetValue("")
	m.waiting = true
	m.history = append(m.history, entry{role: models.RoleUser, text: text})
	m.refreshTranscript()
	return m, tea.Batch(m.spinner.Tick, m.turnCmd(text))
}

// clearTranscript starts over: engine context, pending confirmation, and screen.
func (m chatModel) clearTranscript() chatModel {
	m.engine.Reset()
	m.history = nil
	m.syncPlaceholder()
	m.refreshTranscript()
	return m
}

// resize lays the screen out and rebuilds the markdown renderer so word
// wrap follows the new width.
func (m chatModel) resize(msg tea.WindowSizeMsg) chatModel {
	m.width = msg.Width
	m.height = msg.Height

	headerHeight := 2
	footerHeight := 3

	chatWidth := msg.Width - 2
	if chatWidth < 1 {
		chatWidth = 1
	}
	chatHeight := msg.Height - headerHeight - footerHeight
	if chatHeight < 1 {
		chatHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(viewport.WithWidth(chatWidth), viewport.WithHeight(chatHeight))
		m.ready = true
	} else {
		m.viewport.SetWidth(chatWidth)
		m.viewport.SetHeight(chatHeight)
	}
	m.input.SetWidth(chatWidth - 4)

	wrap := chatWidth - 8
	if wrap < 20 {
		wrap = 20
	}
	if renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	); err == nil {
		m.renderer = renderer
	}

	m.refreshTranscript()
	return m
}

// turnCmd runs one engine turn off the update loop.
func (m chatModel) turnCmd(text string) tea.Cmd {
	engine, sessionID := m.engine, m.sessionID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		defer cancel()

		reply, err := engine.HandleInput(ctx, sessionID, text)
		return replyMsg{reply: reply, err: err}
	}
}

// syncPlaceholder surfaces a pending confirmation in the prompt.
func (m *chatModel) syncPlaceholder() {
	if m.engine.AwaitingConfirmation() {
		m.input.Placeholder = confirmPlaceholder
	} else {
		m.input.Placeholder = defaultPlaceholder
	}
}

// refreshTranscript re-renders the history into the viewport and scrolls
// to the latest message.
func (m *chatModel) refreshTranscript() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

// renderHistory formats the whole transcript, markdown-rendering
// assistant messages when a renderer is available.
func (m *chatModel) renderHistory() string {
	if len(m.history) == 0 {
		return m.theme.hintStyle().Render("Ask about a glossary term to get started.")
	}

	var sb strings.Builder
	for _, e := range m.history {
		if e.role == models.RoleUser {
			sb.WriteString(m.theme.userStyle().Render("You ▸ " + e.text))
			sb.WriteString("\n")
			continue
		}
		if strings.HasPrefix(e.text, "⚠") {
			sb.WriteString(m.theme.errorStyle().Render(e.text))
			sb.WriteString("\n\n")
			continue
		}
		sb.WriteString(m.renderMarkdown(e.text))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderMarkdown falls back to the raw text when glamour is unavailable.
func (m *chatModel) renderMarkdown(text string) string {
	if m.renderer == nil {
		return text + "\n"
	}
	rendered, err := m.renderer.Render(text)
	if err != nil {
		return text + "\n"
	}
	return strings.TrimRight(rendered, "\n") + "\n"
}

// View renders the chat screen.
func (m chatModel) View() tea.View {
	if !m.ready {
		view := tea.NewView("Starting lexicat...\n")
		view.AltScreen = true
		return view
	}

	header := m.theme.headerStyle().Render("lexicat") +
		m.theme.hintStyle().Render("  glossary chat") + "\n\n"

	status := ""
	if m.waiting {
		status = m.spinner.View() + " " + m.theme.hintStyle().Render("thinking...")
	}

	hint := m.theme.hintStyle().Render("Enter send • Ctrl+L clear • Esc quit")

	view := tea.NewView(fmt.Sprintf("%s%s\n%s\n%s %s",
		header, m.viewport.View(), m.input.View(), status, hint))
	view.AltScreen = true
	return view
}

// RunChat runs the interactive chat UI until the user quits.
func RunChat(engine *conversation.Engine, sessionID string) error {
	model := newChatModel(engine, sessionID)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}
	return nil
}
