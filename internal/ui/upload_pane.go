package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"intelliagent-terminal/internal/document"
	"intelliagent-terminal/internal/session"
)

// UploadPane renders the drop zone, the selected file and the upload status
type UploadPane struct {
	input  textinput.Model
	width  int
	height int
}

func NewUploadPane() UploadPane {
	ti := textinput.New()
	ti.Placeholder = "Drop a PDF here or type its path..."
	ti.Prompt = "📄 "
	ti.CharLimit = 4096
	ti.PlaceholderStyle = PlaceholderStyle

	return UploadPane{input: ti}
}

// SetSize sets the inner size of the pane
func (p *UploadPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = width - 6
}

func (p *UploadPane) Focus() tea.Cmd {
	return p.input.Focus()
}

func (p *UploadPane) Blur() {
	p.input.Blur()
}

func (p UploadPane) Value() string {
	return p.input.Value()
}

func (p *UploadPane) ResetInput() {
	p.input.Reset()
}

func (p *UploadPane) UpdateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p UploadPane) View(state *session.State, spinnerView string, historyEnabled bool) string {
	var sections []string

	sections = append(sections, PaneTitleStyle.Render("📄 Document"))

	if state.Upload.Error != "" {
		sections = append(sections, ErrorBannerStyle.Width(p.width-2).Render("⚠ "+state.Upload.Error))
	}

	if state.Upload.File != nil {
		sections = append(sections, p.renderFileInfo(*state.Upload.File))
	}

	switch {
	case state.Upload.IsLoading:
		sections = append(sections, LoadingBoxStyle.Width(p.width).Render(
			spinnerView+" Extracting text from PDF...\n"+
				HelpTextSimpleStyle.Render("This may take a moment"),
		))

	case state.Upload.IsIndexed:
		var b strings.Builder
		b.WriteString(SuccessTitleStyle.Render("✅ PDF Indexed Successfully!"))
		b.WriteString("\n")
		b.WriteString("You can now start chatting about this document")
		sections = append(sections, SuccessBoxStyle.Width(p.width-2).Render(b.String()))
	}

	if !state.Upload.IsLoading {
		sections = append(sections, p.renderDropZone())
	}

	sections = append(sections, p.renderActions(state, historyEnabled))

	return strings.Join(sections, "\n\n")
}

func (p UploadPane) renderDropZone() string {
	var b strings.Builder
	b.WriteString(DropZoneTextStyle.Render("Drop your PDF here"))
	b.WriteString("\n")
	b.WriteString(HelpTextSimpleStyle.Render("or type a path and press Enter"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Align(lipgloss.Left).Render(p.input.View()))

	return DropZoneStyle.Width(p.width - 2).Render(b.String())
}

func (p UploadPane) renderFileInfo(file document.FileInfo) string {
	pages := "unknown"
	if file.Pages > 0 {
		pages = fmt.Sprintf("%d", file.Pages)
	}

	lines := []string{
		FileInfoKeyStyle.Render("File:  ") + truncateName(file.Name, p.width-12),
		FileInfoKeyStyle.Render("Size:  ") + fmt.Sprintf("%.2f MB", file.SizeMB()),
		FileInfoKeyStyle.Render("Pages: ") + pages,
		FileInfoKeyStyle.Render("Type:  ") + file.MIMEType,
	}

	return FileInfoBoxStyle.Width(p.width - 2).Render(strings.Join(lines, "\n"))
}

func (p UploadPane) renderActions(state *session.State, historyEnabled bool) string {
	var hints []string

	if !state.Upload.IsLoading {
		hints = append(hints, RenderKeyHint("Ctrl+O", "Browse"))
		if historyEnabled {
			hints = append(hints, RenderKeyHint("Ctrl+R", "Recent"))
		}
	}
	if state.CanStartChat() {
		hints = append(hints, RenderKeyHint("Ctrl+S", "Start Chat"))
	}
	if state.CanReset() {
		hints = append(hints, RenderKeyHint("Ctrl+L", "Clear & Upload New"))
	}

	return strings.Join(hints, "\n")
}
