package ui

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"intelliagent-terminal/internal/backend"
	"intelliagent-terminal/internal/document"
	"intelliagent-terminal/internal/history"
	"intelliagent-terminal/internal/logging"
	"intelliagent-terminal/internal/session"
)

const (
	headerHeight = 4
	helpHeight   = 2
	minPaneRows  = 10
)

// Backend is the document-QA service the client talks to
type Backend interface {
	UploadPDF(ctx context.Context, path string) (*backend.UploadResponse, error)
	Query(ctx context.Context, question string) (*backend.QueryResponse, error)
	Ping(ctx context.Context) error
	BaseURL() string
}

type focusArea int

const (
	focusUpload focusArea = iota
	focusChat
)

type backendState int

const (
	backendChecking backendState = iota
	backendOnline
	backendOffline
)

// Options tune the client model
type Options struct {
	Greeting        string
	ScrollThreshold int
	ScrollStep      int
	HistoryLimit    int
	StartDir        string
}

// ClientModel is the root model: an upload pane and a chat pane sharing one
// session state
type ClientModel struct {
	state   *session.State
	backend Backend
	history history.Store
	opts    Options

	upload  UploadPane
	chat    ChatPane
	picker  FilePickerOverlayModel
	recent  RecentSelectorOverlayModel
	spinner spinner.Model

	focus        focusArea
	backendState backendState

	width  int
	height int

	ctx        context.Context
	cancelFunc context.CancelFunc
}

// NewClientModel builds the root model. hist may be nil when history is disabled.
func NewClientModel(be Backend, hist history.Store, opts Options, width, height int) ClientModel {
	if opts.StartDir == "" {
		if wd, err := os.Getwd(); err == nil {
			opts.StartDir = wd
		}
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	ctx, cancel := context.WithCancel(context.Background())

	m := ClientModel{
		state:      session.New(opts.Greeting),
		backend:    be,
		history:    hist,
		opts:       opts,
		upload:     NewUploadPane(),
		chat:       NewChatPane(opts.ScrollThreshold, opts.ScrollStep),
		picker:     NewFilePickerOverlayModel(opts.StartDir),
		recent:     NewRecentSelectorOverlayModel(),
		spinner:    sp,
		width:      width,
		height:     height,
		ctx:        ctx,
		cancelFunc: cancel,
	}
	m.upload.Focus()
	m.layout()

	return m
}

// State exposes the session state for inspection
func (m ClientModel) State() *session.State {
	return m.state
}

func (m ClientModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.pingBackend(),
	)
}

func (m ClientModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case BackendStatus:
		if msg.Err != nil {
			m.backendState = backendOffline
			logging.Error("Backend %s is not reachable: %v", m.backend.BaseURL(), msg.Err)
		} else {
			m.backendState = backendOnline
			logging.Info("Backend %s is reachable", m.backend.BaseURL())
		}
		return m, nil

	case UploadFinished:
		m.state.FinishUpload(msg.Ticket, msg.Err)
		if msg.Err != nil {
			logging.Error("Upload of %s failed: %v", msg.File.Name, msg.Err)
		} else {
			logging.Info("Indexed %s", msg.File.Name)
		}
		return m, nil

	case AnswerReceived:
		m.state.FinishQuestion(msg.Question, msg.Answer, msg.Err)
		if msg.Err != nil {
			logging.Error("Question failed: %v", msg.Err)
		}
		m.chat.Refresh(m.state)
		return m, nil

	case scrollFrameMsg:
		return m, m.chat.StepSmoothScroll(m.state)

	case FilePicked:
		m.focusUploadPane()
		return m, m.requestUpload(msg.Path)

	case FileRejected:
		logging.Info("Rejected %s: not a PDF", msg.Path)
		m.state.RejectUpload(session.InvalidFileMessage)
		m.focusUploadPane()
		return m, nil

	case FilePickerClosed:
		m.focusUploadPane()
		return m, nil

	case RecentLoaded:
		if msg.Err != nil {
			logging.Error("Failed to load upload history: %v", msg.Err)
		}
		m.recent.SetEntries(msg.Entries, msg.Err)
		m.recent.Show()
		return m, nil

	case RecentSelected:
		m.recent.Hide()
		m.focusUploadPane()
		if _, err := os.Stat(msg.Entry.Path); errors.Is(err, os.ErrNotExist) {
			logging.Info("Recent upload %s no longer exists", msg.Entry.Path)
			m.state.RejectUpload(session.InvalidFileMessage)
			return m, m.forgetRecent(msg.Entry.Path, false)
		}
		return m, m.requestUpload(msg.Entry.Path)

	case RecentForgotten:
		return m, m.forgetRecent(msg.Path, true)

	case RecentClosed:
		m.recent.Hide()
		m.focusUploadPane()
		return m, nil
	}

	// Directory reads of the file picker arrive as their own messages
	if _, isKey := msg.(tea.KeyMsg); !isKey {
		if cmd := m.picker.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	if m.picker.IsVisible() {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			if keyMsg.String() == "ctrl+c" {
				return m.quit()
			}
			return m, m.picker.Update(msg)
		}
		return m, tea.Batch(cmds...)
	}

	if m.recent.IsVisible() {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "ctrl+c" {
			return m.quit()
		}
		if cmd := m.recent.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.state.Chat.IsVisible {
			cmds = append(cmds, m.chat.UpdateViewport(msg, m.state))
		}
		return m, tea.Batch(cmds...)
	}

	// Cursor blinking
	if m.focus == focusChat {
		cmds = append(cmds, m.chat.UpdateInput(msg))
	} else {
		cmds = append(cmds, m.upload.UpdateInput(msg))
	}
	return m, tea.Batch(cmds...)
}

func (m ClientModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "ctrl+x":
		return m.quit()

	case "tab":
		if m.state.Chat.IsVisible {
			if m.focus == focusChat {
				m.focusUploadPane()
			} else {
				m.focusChatPane()
			}
		}
		return m, nil

	case "ctrl+o":
		if m.state.Upload.IsLoading {
			return m, nil
		}
		m.blurPanes()
		return m, m.picker.Show()

	case "ctrl+r":
		if m.history == nil || m.state.Upload.IsLoading {
			return m, nil
		}
		m.blurPanes()
		return m, m.loadRecent()

	case "ctrl+l":
		if !m.state.CanReset() {
			return m, nil
		}
		logging.Info("Clearing document and conversation")
		m.state.Reset()
		m.upload.ResetInput()
		m.chat.Clear()
		m.focusUploadPane()
		m.layout()
		return m, nil

	case "ctrl+s":
		if !m.state.CanStartChat() {
			return m, nil
		}
		m.state.StartChat()
		m.chat.Clear()
		m.layout()
		m.chat.Refresh(m.state)
		m.focusChatPane()
		return m, nil

	case "ctrl+w":
		if !m.state.Chat.IsVisible {
			return m, nil
		}
		m.state.HideChat()
		m.chat.Clear()
		m.focusUploadPane()
		m.layout()
		return m, nil

	case "ctrl+b":
		if !m.state.Chat.IsVisible {
			return m, nil
		}
		return m, m.chat.StartSmoothScroll(m.state)
	}

	if m.focus == focusChat {
		return m.handleChatKey(msg)
	}
	return m.handleUploadKey(msg)
}

func (m ClientModel) handleUploadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A file dropped on the terminal arrives as a bracketed paste
	if msg.Paste {
		path, ok := document.FirstDroppedPath(string(msg.Runes))
		if !ok {
			return m, nil
		}
		m.upload.ResetInput()
		return m, m.requestUpload(path)
	}

	if msg.Type == tea.KeyEnter {
		path, ok := document.FirstDroppedPath(m.upload.Value())
		if !ok {
			return m, nil
		}
		m.upload.ResetInput()
		return m, m.requestUpload(path)
	}

	return m, m.upload.UpdateInput(msg)
}

func (m ClientModel) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.chat.IsScrollKey(msg) {
		return m, m.chat.UpdateViewport(msg, m.state)
	}

	// The input is disabled while a question is in flight
	if m.state.Chat.IsLoading {
		return m, nil
	}

	if msg.Type == tea.KeyEnter {
		m.state.SetDraft(m.chat.Value())
		question, ok := m.state.SubmitQuestion()
		if !ok {
			return m, nil
		}
		m.chat.ResetInput()
		m.chat.Refresh(m.state)
		logging.Info("Asking question (%d chars)", len(question.Text))
		return m, m.askQuestion(question)
	}

	cmd := m.chat.UpdateInput(msg)
	m.state.SetDraft(m.chat.Value())
	return m, cmd
}

// requestUpload inspects path and starts an upload when it is a PDF. Invalid
// files are reported even while another upload runs.
func (m *ClientModel) requestUpload(path string) tea.Cmd {
	info, err := document.Inspect(path)
	if err != nil {
		logging.Info("Rejected %s: %v", path, err)
		m.state.RejectUpload(session.InvalidFileMessage)
		return nil
	}

	ticket, err := m.state.BeginUpload(info)
	if errors.Is(err, session.ErrUploadInFlight) {
		logging.Debug("Ignoring %s: an upload is already running", info.Name)
		return nil
	}
	if err != nil {
		logging.Info("Rejected %s (%s): %v", info.Name, info.MIMEType, err)
		return nil
	}

	logging.Info("Uploading %s (%.2f MB)", info.Name, info.SizeMB())
	return m.uploadDocument(ticket, info)
}

func (m ClientModel) uploadDocument(ticket session.Ticket, file document.FileInfo) tea.Cmd {
	ctx, be, hist := m.ctx, m.backend, m.history

	return func() tea.Msg {
		_, err := be.UploadPDF(ctx, file.Path)
		if err == nil && hist != nil {
			entry := history.Entry{
				Path:      file.Path,
				Name:      file.Name,
				Size:      file.Size,
				Pages:     file.Pages,
				IndexedAt: time.Now(),
			}
			if herr := hist.Record(ctx, entry); herr != nil {
				logging.Error("Failed to record %s in history: %v", file.Name, herr)
			}
		}
		return UploadFinished{Ticket: ticket, File: file, Err: err}
	}
}

func (m ClientModel) askQuestion(question session.Question) tea.Cmd {
	ctx, be := m.ctx, m.backend

	return func() tea.Msg {
		resp, err := be.Query(ctx, question.Text)
		if err != nil {
			return AnswerReceived{Question: question, Err: err}
		}

		answer := &session.Answer{Text: resp.Answer}
		if resp.HasStats() {
			meta := &session.Metadata{}
			if resp.ChunksUsed != nil {
				meta.ChunksUsed = *resp.ChunksUsed
			}
			if resp.ContextLength != nil {
				meta.ContextLength = *resp.ContextLength
			}
			answer.Metadata = meta
		}
		return AnswerReceived{Question: question, Answer: answer}
	}
}

func (m ClientModel) pingBackend() tea.Cmd {
	ctx, be := m.ctx, m.backend

	return func() tea.Msg {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return BackendStatus{Err: be.Ping(pingCtx)}
	}
}

func (m ClientModel) loadRecent() tea.Cmd {
	ctx, hist, limit := m.ctx, m.history, m.opts.HistoryLimit

	return func() tea.Msg {
		entries, err := hist.Recent(ctx, limit)
		return RecentLoaded{Entries: entries, Err: err}
	}
}

// forgetRecent drops path from history, reloading the overlay list when reload is set
func (m ClientModel) forgetRecent(path string, reload bool) tea.Cmd {
	if m.history == nil {
		return nil
	}
	ctx, hist, limit := m.ctx, m.history, m.opts.HistoryLimit

	return func() tea.Msg {
		if err := hist.Forget(ctx, path); err != nil {
			logging.Error("Failed to forget %s: %v", path, err)
		}
		if !reload {
			return nil
		}
		entries, err := hist.Recent(ctx, limit)
		return RecentLoaded{Entries: entries, Err: err}
	}
}

func (m ClientModel) quit() (tea.Model, tea.Cmd) {
	m.cancelFunc()
	return m, tea.Quit
}

func (m *ClientModel) focusUploadPane() {
	m.focus = focusUpload
	m.chat.Blur()
	m.upload.Focus()
}

func (m *ClientModel) focusChatPane() {
	m.focus = focusChat
	m.upload.Blur()
	m.chat.Focus()
}

func (m *ClientModel) blurPanes() {
	m.upload.Blur()
	m.chat.Blur()
}

// paneWidths splits the window between the panes. The upload pane takes the
// whole width while the chat is hidden.
func (m ClientModel) paneWidths() (int, int) {
	if !m.state.Chat.IsVisible {
		return m.width, 0
	}
	uploadWidth := m.width * 2 / 5
	return uploadWidth, m.width - uploadWidth
}

func (m ClientModel) paneHeight() int {
	return max(m.height-headerHeight-helpHeight, minPaneRows)
}

func (m *ClientModel) layout() {
	uploadWidth, chatWidth := m.paneWidths()
	paneHeight := m.paneHeight()

	// Inner size excludes the border and horizontal padding
	m.upload.SetSize(uploadWidth-4, paneHeight-2)
	if chatWidth > 0 {
		m.chat.Resize(chatWidth-4, paneHeight-2, m.state)
	}

	m.picker.UpdateSize(m.width, m.height)
	m.recent.UpdateSize(m.width, m.height)
}

func (m ClientModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("IntelliAgent"))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("Upload a PDF and chat with AI to get answers about your document"))
	b.WriteString("\n")
	b.WriteString(m.renderBackendStatus())
	b.WriteString("\n\n")

	uploadWidth, chatWidth := m.paneWidths()
	paneHeight := m.paneHeight()

	uploadView := GetPaneStyle(uploadWidth, paneHeight, m.focus == focusUpload).
		Render(m.upload.View(m.state, m.spinner.View(), m.history != nil))

	if chatWidth > 0 {
		chatView := GetPaneStyle(chatWidth, paneHeight, m.focus == focusChat).
			Render(m.chat.View(m.state, m.spinner.View()))
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, uploadView, chatView))
	} else {
		b.WriteString(uploadView)
	}

	b.WriteString(helpStyle.Render(m.helpText()))

	baseView := b.String()

	if m.picker.IsVisible() {
		return m.picker.RenderOverlay(baseView)
	}
	return m.recent.RenderOverlay(baseView)
}

func (m ClientModel) renderBackendStatus() string {
	status := "Backend: " + m.backend.BaseURL() + " "
	switch m.backendState {
	case backendOnline:
		return statusBarStyle.Render(status + OnlineStyle.Render("● online"))
	case backendOffline:
		return statusBarStyle.Render(status + OfflineStyle.Render("● offline"))
	default:
		return statusBarStyle.Render(status + m.spinner.View() + " checking")
	}
}

func (m ClientModel) helpText() string {
	if m.focus == focusChat {
		return "Enter: Ask • ↑/↓ PgUp/PgDn: Scroll • Ctrl+B: Latest • Ctrl+W: Hide Chat • Tab: Document • Ctrl+C: Exit"
	}

	help := "Enter: Upload Path • Ctrl+O: Browse"
	if m.history != nil {
		help += " • Ctrl+R: Recent"
	}
	if m.state.Chat.IsVisible {
		help += " • Tab: Chat"
	}
	return help + " • Ctrl+C: Exit"
}
