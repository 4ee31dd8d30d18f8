package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"intelliagent-terminal/internal/history"
)

// RecentSelectorModel lists previously indexed documents
type RecentSelectorModel struct {
	entries         []history.Entry
	filteredEntries []history.Entry
	filterInput     textinput.Model
	selectedIndex   int
	err             error
	width           int
	height          int
}

func NewRecentSelectorModel() RecentSelectorModel {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.CharLimit = 100
	ti.PlaceholderStyle = PlaceholderStyle
	ti.Width = 40

	return RecentSelectorModel{
		filterInput: ti,
	}
}

func (m RecentSelectorModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *RecentSelectorModel) SetEntries(entries []history.Entry, err error) {
	m.entries = entries
	m.err = err
	m.updateFilteredEntries()
	if m.selectedIndex >= len(m.filteredEntries) {
		m.selectedIndex = 0
	}
}

func (m *RecentSelectorModel) reset() {
	m.filterInput.SetValue("")
	m.filterInput.Focus()
	m.selectedIndex = 0
	m.updateFilteredEntries()
}

func (m *RecentSelectorModel) updateFilteredEntries() {
	filterText := strings.ToLower(strings.TrimSpace(m.filterInput.Value()))

	if filterText == "" {
		m.filteredEntries = m.entries
		return
	}

	m.filteredEntries = []history.Entry{}
	for _, entry := range m.entries {
		if strings.Contains(strings.ToLower(entry.Name), filterText) ||
			strings.Contains(strings.ToLower(entry.Path), filterText) {
			m.filteredEntries = append(m.filteredEntries, entry)
		}
	}
}

// recentKeyMap holds the bindings of the recent-uploads overlay
type recentKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Forget key.Binding
	Close  key.Binding
}

var recentKeys = recentKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "previous")),
	Down:   key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next")),
	Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "upload again")),
	Forget: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "forget")),
	Close:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear filter / cancel")),
}

func (m RecentSelectorModel) selected() (history.Entry, bool) {
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.filteredEntries) {
		return history.Entry{}, false
	}
	return m.filteredEntries[m.selectedIndex], true
}

func (m RecentSelectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, recentKeys.Up):
			m.selectedIndex = max(m.selectedIndex-1, 0)
			return m, nil

		case key.Matches(msg, recentKeys.Down):
			m.selectedIndex = max(min(m.selectedIndex+1, len(m.filteredEntries)-1), 0)
			return m, nil

		case key.Matches(msg, recentKeys.Select):
			entry, ok := m.selected()
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg { return RecentSelected{Entry: entry} }

		case key.Matches(msg, recentKeys.Forget):
			entry, ok := m.selected()
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg { return RecentForgotten{Path: entry.Path} }

		case key.Matches(msg, recentKeys.Close):
			if m.filterInput.Value() == "" {
				return m, func() tea.Msg { return RecentClosed{} }
			}
			m.filterInput.SetValue("")
			m.refilter()
			return m, nil
		}

		// Everything else edits the filter
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.refilter()
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filterInput.Width = overlayWidth(m.width) - 12
	}

	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

// refilter applies the filter text and keeps the selection on a visible entry
func (m *RecentSelectorModel) refilter() {
	before := len(m.filteredEntries)
	m.updateFilteredEntries()
	if before != len(m.filteredEntries) || m.selectedIndex >= len(m.filteredEntries) {
		m.selectedIndex = 0
	}
}

func (m RecentSelectorModel) View() string {
	width := overlayWidth(m.width)

	if m.err != nil {
		return m.renderMessage(width, "Could not read upload history: "+m.err.Error())
	}
	if len(m.entries) == 0 {
		return m.renderMessage(width, "No documents indexed yet")
	}

	return m.renderEntryList(width)
}

func (m RecentSelectorModel) renderMessage(width int, message string) string {
	var content strings.Builder
	content.WriteString(OverlayTitleStyle.Render("Recent Uploads"))
	content.WriteString("\n\n")
	content.WriteString(GetOverlayMessageStyle(width).Render(message))
	content.WriteString("\n\n")
	content.WriteString(HelpTextSimpleStyle.Render("Press Esc to close"))

	return GetOverlayBorderStyle(width).Render(content.String())
}

func (m RecentSelectorModel) renderEntryList(width int) string {
	maxEntries := 8
	count := len(m.filteredEntries)

	var content strings.Builder

	title := fmt.Sprintf("Recent Uploads (%d)", len(m.entries))
	if count != len(m.entries) {
		title = fmt.Sprintf("Recent Uploads (%d of %d)", count, len(m.entries))
	}
	content.WriteString(OverlayTitleStyle.Render(title))
	content.WriteString("\n\n")

	content.WriteString(OverlayFilterLabelStyle.Render("Filter: "))
	content.WriteString(m.filterInput.View())
	content.WriteString("\n\n")

	if count == 0 {
		content.WriteString(GetOverlayMessageStyle(width).Render("No uploads match your filter"))
		content.WriteString("\n\n")
		content.WriteString(HelpTextSimpleStyle.Render("Type to filter • Esc: Clear filter"))
		return GetOverlayBorderStyle(width).Render(content.String())
	}

	// Keep the selected entry in view
	visibleStart := 0
	visibleEnd := count
	if count > maxEntries {
		visibleStart = m.selectedIndex - maxEntries/2
		if visibleStart < 0 {
			visibleStart = 0
		}
		visibleEnd = visibleStart + maxEntries
		if visibleEnd > count {
			visibleEnd = count
			visibleStart = visibleEnd - maxEntries
		}
	}

	for i := visibleStart; i < visibleEnd; i++ {
		entry := m.filteredEntries[i]
		name := truncateName(entry.Name, width-12)
		details := fmt.Sprintf("    %s • %s", entry.IndexedAt.Format("2006-01-02 15:04"), formatPages(entry.Pages))

		if i == m.selectedIndex {
			content.WriteString(GetOverlayItemStyle(width, "selected").Render("▶ " + name))
		} else {
			content.WriteString(GetOverlayItemStyle(width, "normal").Render("  " + name))
		}
		content.WriteString("\n")
		content.WriteString(GetOverlayItemStyle(width, "dimmed").Render(details))
		content.WriteString("\n")
	}

	if count > maxEntries {
		content.WriteString("\n")
		content.WriteString(GetOverlayItemStyle(width, "dimmed").Render(
			fmt.Sprintf("Showing %d-%d of %d uploads", visibleStart+1, visibleEnd, count),
		))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(HelpTextSimpleStyle.Render(recentKeys.helpLine()))

	return GetOverlayBorderStyle(width).Render(content.String())
}

func (k recentKeyMap) helpLine() string {
	var parts []string
	for _, b := range []key.Binding{k.Up, k.Down, k.Select, k.Forget, k.Close} {
		h := b.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

func truncateName(name string, maxLength int) string {
	if maxLength <= 0 || len(name) <= maxLength {
		return name
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	keep := maxLength - len(ext) - 3
	if keep <= 0 {
		return name[:maxLength]
	}
	if len(base) > keep {
		return base[:keep] + "..." + ext
	}
	return name
}

func formatPages(pages int) string {
	switch {
	case pages <= 0:
		return "pages unknown"
	case pages == 1:
		return "1 page"
	default:
		return fmt.Sprintf("%d pages", pages)
	}
}

// RecentSelectorOverlayModel wraps the recent-uploads list with the overlay library
type RecentSelectorOverlayModel struct {
	selector RecentSelectorModel
	visible  bool
}

func NewRecentSelectorOverlayModel() RecentSelectorOverlayModel {
	return RecentSelectorOverlayModel{
		selector: NewRecentSelectorModel(),
	}
}

func (m *RecentSelectorOverlayModel) SetEntries(entries []history.Entry, err error) {
	m.selector.SetEntries(entries, err)
}

func (m *RecentSelectorOverlayModel) Show() {
	if !m.visible {
		m.selector.reset()
	}
	m.visible = true
}

func (m *RecentSelectorOverlayModel) Hide() {
	m.visible = false
	m.selector.filterInput.Blur()
}

func (m *RecentSelectorOverlayModel) IsVisible() bool {
	return m.visible
}

func (m *RecentSelectorOverlayModel) UpdateSize(width, height int) {
	m.selector.width = width
	m.selector.height = height
	m.selector.filterInput.Width = overlayWidth(width) - 12
}

func (m *RecentSelectorOverlayModel) Update(msg tea.Msg) tea.Cmd {
	if !m.visible {
		return nil
	}

	mdl, cmd := m.selector.Update(msg)
	m.selector = mdl.(RecentSelectorModel)
	return cmd
}

func (m RecentSelectorOverlayModel) RenderOverlay(backgroundView string) string {
	if !m.visible {
		return backgroundView
	}

	return renderOverlay(m.selector.View(), backgroundView)
}

// renderOverlay places foreground at the top center of background
func renderOverlay(foreground, background string) string {
	overlayModel := overlay.New(
		&staticViewModel{content: foreground},
		&staticViewModel{content: background},
		overlay.Center, // horizontal position
		overlay.Top,    // vertical position
		0,              // x offset
		1,              // y offset (minimal top margin)
	)

	return overlayModel.View()
}

// staticViewModel is a simple model that renders static content
type staticViewModel struct {
	content string
}

func (m staticViewModel) Init() tea.Cmd {
	return nil
}

func (m staticViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

func (m staticViewModel) View() string {
	return m.content
}
