package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"intelliagent-terminal/internal/session"
)

const (
	// chat pane rows that are not viewport: title, scroll hint, separator, input
	chatChromeHeight = 4
	scrollFrameEvery = 16 * time.Millisecond
	timestampFormat  = "15:04:05"
)

// ChatPane renders the conversation and the question input
type ChatPane struct {
	viewport        viewport.Model
	input           textinput.Model
	mdRenderer      *glamour.TermRenderer
	rendered        map[string]string
	width           int
	height          int
	scrollThreshold int
	scrollStep      int
	smoothScrolling bool
}

func NewChatPane(scrollThreshold, scrollStep int) ChatPane {
	ti := textinput.New()
	ti.Placeholder = "Ask a question about your document..."
	ti.Prompt = "❯ "
	ti.CharLimit = 2000
	ti.PlaceholderStyle = PlaceholderStyle

	vp := viewport.New(40, 10)
	vp.MouseWheelDelta = 2

	// Arrows and page keys scroll; the input keeps left/right
	vp.KeyMap.Down = key.NewBinding(key.WithKeys("down"))
	vp.KeyMap.Up = key.NewBinding(key.WithKeys("up"))
	vp.KeyMap.PageDown = key.NewBinding(key.WithKeys("pgdown"))
	vp.KeyMap.PageUp = key.NewBinding(key.WithKeys("pgup"))
	vp.KeyMap.HalfPageDown = key.NewBinding()
	vp.KeyMap.HalfPageUp = key.NewBinding()
	vp.KeyMap.Left = key.NewBinding()
	vp.KeyMap.Right = key.NewBinding()

	return ChatPane{
		viewport:        vp,
		input:           ti,
		rendered:        make(map[string]string),
		scrollThreshold: scrollThreshold,
		scrollStep:      scrollStep,
	}
}

// Resize sets the inner size of the pane and re-renders the conversation
func (p *ChatPane) Resize(width, height int, state *session.State) {
	if width != p.width {
		p.mdRenderer = createMarkdownRenderer(width)
		p.rendered = make(map[string]string)
	}
	p.width = width
	p.height = height

	p.viewport.Width = width
	p.viewport.Height = max(height-chatChromeHeight, 1)
	p.input.Width = width - 4

	p.renderContent(state)
	p.syncScroll(state)
}

func (p *ChatPane) Focus() tea.Cmd {
	return p.input.Focus()
}

func (p *ChatPane) Blur() {
	p.input.Blur()
}

func (p ChatPane) Value() string {
	return p.input.Value()
}

func (p *ChatPane) ResetInput() {
	p.input.Reset()
}

// UpdateInput forwards msg to the question input
func (p *ChatPane) UpdateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

// IsScrollKey reports whether msg scrolls the conversation
func (p ChatPane) IsScrollKey(msg tea.KeyMsg) bool {
	km := p.viewport.KeyMap
	return key.Matches(msg, km.Up, km.Down, km.PageUp, km.PageDown)
}

// Refresh re-renders the conversation and jumps to the newest message
func (p *ChatPane) Refresh(state *session.State) {
	p.smoothScrolling = false
	p.renderContent(state)
	p.viewport.GotoBottom()
	p.syncScroll(state)
}

// Clear drops cached renders of messages no longer in the conversation
func (p *ChatPane) Clear() {
	p.rendered = make(map[string]string)
	p.input.Reset()
}

// UpdateViewport applies a user scroll (keys or mouse wheel)
func (p *ChatPane) UpdateViewport(msg tea.Msg, state *session.State) tea.Cmd {
	p.smoothScrolling = false

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	p.syncScroll(state)
	return cmd
}

// StartSmoothScroll begins animating towards the bottom of the conversation
func (p *ChatPane) StartSmoothScroll(state *session.State) tea.Cmd {
	if !state.Chat.IsScrollButtonVisible || p.smoothScrolling {
		return nil
	}

	p.smoothScrolling = true
	return nextScrollFrame()
}

// StepSmoothScroll moves one frame closer to the bottom
func (p *ChatPane) StepSmoothScroll(state *session.State) tea.Cmd {
	if !p.smoothScrolling {
		return nil
	}

	p.viewport.SetYOffset(p.viewport.YOffset + p.scrollStep)
	p.syncScroll(state)

	if p.viewport.AtBottom() {
		p.smoothScrolling = false
		return nil
	}
	return nextScrollFrame()
}

func nextScrollFrame() tea.Cmd {
	return tea.Tick(scrollFrameEvery, func(time.Time) tea.Msg {
		return scrollFrameMsg{}
	})
}

func (p *ChatPane) syncScroll(state *session.State) {
	distance := session.DistanceFromBottom(p.viewport.TotalLineCount(), p.viewport.YOffset, p.viewport.Height)
	state.UpdateScroll(distance, p.scrollThreshold)
}

func (p *ChatPane) renderContent(state *session.State) {
	var b strings.Builder

	for _, msg := range state.Chat.Messages {
		b.WriteString(p.renderMessage(msg))
		b.WriteString("\n\n")
	}

	if state.Chat.IsLoading {
		b.WriteString(AssistantMessageLabelStyle.Render("🤖 Assistant"))
		b.WriteString("\n")
		b.WriteString(AssistantMessageContentStyle.Render(TypingIndicatorStyle.Render("● ● ●")))
	}

	p.viewport.SetContent(strings.TrimRight(b.String(), "\n"))
}

func (p *ChatPane) renderMessage(msg session.Message) string {
	if out, ok := p.rendered[msg.ID]; ok {
		return out
	}

	timestamp := TimestampStyle.Render(msg.Timestamp.Format(timestampFormat))

	var out string
	switch msg.Kind {
	case session.KindUser:
		label := UserMessageLabelStyle.Render("You 👤")
		out = GetUserMessageContentStyle(p.width).Render(label + "\n" + msg.Content + "\n" + timestamp)

	case session.KindError:
		label := ErrorMessageLabelStyle.Render("⚠ Error")
		out = GetErrorMessageContentStyle(p.width).Render(label + "\n" + msg.Content + "\n" + timestamp)

	default:
		label := AssistantMessageLabelStyle.Render("🤖 Assistant")
		var b strings.Builder
		b.WriteString(label + "\n")
		b.WriteString(safeRenderMarkdown(p.mdRenderer, msg.Content))
		b.WriteString("\n")
		if msg.Metadata != nil {
			b.WriteString(MetadataStyle.Render(msg.Metadata.String()))
			b.WriteString("\n")
		}
		b.WriteString(timestamp)
		out = GetAssistantMessageContentStyle(p.width).Render(b.String())
	}

	p.rendered[msg.ID] = out
	return out
}

func (p ChatPane) View(state *session.State, spinnerView string) string {
	var b strings.Builder

	b.WriteString(PaneTitleStyle.Render("💬 Chat with your document"))
	b.WriteString("\n")
	b.WriteString(p.viewport.View())
	b.WriteString("\n")

	if state.Chat.IsScrollButtonVisible {
		hint := ScrollButtonStyle.Render(" ↓ Ctrl+B ") + HelpTextSimpleStyle.Render(" newer messages below")
		b.WriteString(lipgloss.PlaceHorizontal(p.width, lipgloss.Right, hint))
	}
	b.WriteString("\n")

	b.WriteString(SeparatorStyle.Render(strings.Repeat("─", max(p.width, 0))))
	b.WriteString("\n")

	if state.Chat.IsLoading {
		b.WriteString(spinnerView + HelpTextSimpleStyle.Render(" Waiting for the answer..."))
	} else {
		b.WriteString(p.input.View())
	}

	return b.String()
}
