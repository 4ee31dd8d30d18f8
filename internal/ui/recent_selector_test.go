package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intelliagent-terminal/internal/history"
)

func recentEntries() []history.Entry {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	return []history.Entry{
		{Path: "/docs/invoice-march.pdf", Name: "invoice-march.pdf", Pages: 2, IndexedAt: at},
		{Path: "/docs/tax-return.pdf", Name: "tax-return.pdf", Pages: 14, IndexedAt: at.Add(-time.Hour)},
		{Path: "/docs/invoice-feb.pdf", Name: "invoice-feb.pdf", Pages: 1, IndexedAt: at.Add(-2 * time.Hour)},
	}
}

func newRecentOverlay() RecentSelectorOverlayModel {
	m := NewRecentSelectorOverlayModel()
	m.UpdateSize(240, 40)
	m.SetEntries(recentEntries(), nil)
	m.Show()
	return m
}

func TestRecentSelectorSelectsHighlightedEntry(t *testing.T) {
	m := newRecentOverlay()

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyUp})

	cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, RecentSelected{Entry: recentEntries()[1]}, cmd())
}

func TestRecentSelectorForgetsHighlightedEntry(t *testing.T) {
	m := newRecentOverlay()

	cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	require.NotNil(t, cmd)
	assert.Equal(t, RecentForgotten{Path: "/docs/invoice-march.pdf"}, cmd())
}

func TestRecentSelectorFilterNarrowsEntries(t *testing.T) {
	m := newRecentOverlay()

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("FEB")})
	require.Len(t, m.selector.filteredEntries, 1)
	assert.Contains(t, m.selector.View(), "Recent Uploads (1 of 3)")

	cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, "/docs/invoice-feb.pdf", cmd().(RecentSelected).Entry.Path)
}

func TestRecentSelectorEscClearsFilterBeforeClosing(t *testing.T) {
	m := newRecentOverlay()
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("nothing matches")})
	assert.Empty(t, m.selector.filteredEntries)

	cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "no entry to select")

	cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.Len(t, m.selector.filteredEntries, 3)

	cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, RecentClosed{}, cmd())
}

func TestRecentSelectorHelpListsBindings(t *testing.T) {
	m := newRecentOverlay()
	view := m.selector.View()
	for _, b := range []string{"enter: upload again", "ctrl+d: forget", "esc: clear filter / cancel"} {
		assert.Contains(t, view, b)
	}
}

func TestRecentSelectorIgnoresKeysWhenHidden(t *testing.T) {
	m := newRecentOverlay()
	m.Hide()
	assert.Nil(t, m.Update(tea.KeyMsg{Type: tea.KeyEnter}))
}

func TestInputsUsePlaceholderStyle(t *testing.T) {
	upload := NewUploadPane()
	chat := NewChatPane(5, 3)
	recent := NewRecentSelectorModel()

	for name, style := range map[string]lipgloss.Style{
		"upload": upload.input.PlaceholderStyle,
		"chat":   chat.input.PlaceholderStyle,
		"recent": recent.filterInput.PlaceholderStyle,
	} {
		assert.True(t, style.GetItalic(), name)
		assert.Equal(t, PlaceholderStyle.GetForeground(), style.GetForeground(), name)
	}
}
