package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"intelliagent-terminal/internal/logging"
)

// FilePicked is sent when a PDF is chosen in the picker
type FilePicked struct {
	Path string
}

// FileRejected is sent when a file the picker does not allow is chosen
type FileRejected struct {
	Path string
}

// FilePickerClosed is sent when the picker closes without a choice
type FilePickerClosed struct{}

// FilePickerOverlayModel browses the file system for a PDF
type FilePickerOverlayModel struct {
	picker  filepicker.Model
	visible bool
	width   int
	height  int
}

func NewFilePickerOverlayModel(startDir string) FilePickerOverlayModel {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".pdf", ".PDF"}
	fp.CurrentDirectory = startDir
	fp.ShowPermissions = false
	fp.AutoHeight = false
	fp.Height = 12
	// Esc closes the overlay instead of walking up a directory
	fp.KeyMap.Back = key.NewBinding(key.WithKeys("h", "backspace", "left"), key.WithHelp("h", "back"))

	return FilePickerOverlayModel{picker: fp}
}

// Show opens the picker and reads the current directory
func (m *FilePickerOverlayModel) Show() tea.Cmd {
	m.visible = true
	return m.picker.Init()
}

func (m *FilePickerOverlayModel) Hide() {
	m.visible = false
}

func (m *FilePickerOverlayModel) IsVisible() bool {
	return m.visible
}

func (m *FilePickerOverlayModel) UpdateSize(width, height int) {
	m.width = width
	m.height = height

	h := height/2 - 6
	if h < 5 {
		h = 5
	}
	m.picker.Height = h
}

// Update forwards msg to the picker. Directory reads arrive as their own
// messages, so non-key messages are forwarded even while hidden.
func (m *FilePickerOverlayModel) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if !m.visible {
			return nil
		}
		if keyMsg.String() == "esc" {
			m.visible = false
			return func() tea.Msg { return FilePickerClosed{} }
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if !m.visible {
		return cmd
	}

	if ok, path := m.picker.DidSelectFile(msg); ok {
		logging.Debug("Picked file %s", path)
		m.visible = false
		return func() tea.Msg { return FilePicked{Path: path} }
	}

	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		logging.Debug("Picked disabled file %s", path)
		m.visible = false
		return func() tea.Msg { return FileRejected{Path: path} }
	}

	return cmd
}

func (m FilePickerOverlayModel) View() string {
	width := overlayWidth(m.width)

	var content strings.Builder
	content.WriteString(OverlayTitleStyle.Render("Select a PDF"))
	content.WriteString("\n")
	content.WriteString(HelpTextSimpleStyle.Render(truncateName(m.picker.CurrentDirectory, width-8)))
	content.WriteString("\n\n")
	content.WriteString(m.picker.View())
	content.WriteString("\n\n")
	content.WriteString(HelpTextSimpleStyle.Render("↑/↓: Navigate • →/Enter: Open • ←: Up • Esc: Cancel"))

	return GetOverlayBorderStyle(width).Render(content.String())
}

func (m FilePickerOverlayModel) RenderOverlay(backgroundView string) string {
	if !m.visible {
		return backgroundView
	}

	return renderOverlay(m.View(), backgroundView)
}
