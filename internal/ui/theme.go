package ui

import (
	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"
)

// Theme registry for the application
var Theme *tint.Registry

// Common style elements used across all views
var (
	TitleStyle          lipgloss.Style
	SubtitleStyle       lipgloss.Style
	statusBarStyle      lipgloss.Style
	helpStyle           lipgloss.Style
	HelpTextSimpleStyle lipgloss.Style
	SpinnerStyle        lipgloss.Style
	OnlineStyle         lipgloss.Style
	OfflineStyle        lipgloss.Style

	// Panes
	FocusedPaneStyle lipgloss.Style
	BlurredPaneStyle lipgloss.Style
	PaneTitleStyle   lipgloss.Style

	// Upload pane
	DropZoneStyle     lipgloss.Style
	DropZoneTextStyle lipgloss.Style
	ErrorBannerStyle  lipgloss.Style
	LoadingBoxStyle   lipgloss.Style
	FileInfoBoxStyle  lipgloss.Style
	FileInfoKeyStyle  lipgloss.Style
	SuccessBoxStyle   lipgloss.Style
	SuccessTitleStyle lipgloss.Style
	KeyHintStyle      lipgloss.Style

	// Chat pane
	UserMessageLabelStyle        lipgloss.Style
	AssistantMessageLabelStyle   lipgloss.Style
	ErrorMessageLabelStyle       lipgloss.Style
	UserMessageContentStyle      lipgloss.Style
	AssistantMessageContentStyle lipgloss.Style
	ErrorMessageContentStyle     lipgloss.Style
	TimestampStyle               lipgloss.Style
	MetadataStyle                lipgloss.Style
	TypingIndicatorStyle         lipgloss.Style
	ScrollButtonStyle            lipgloss.Style
	PlaceholderStyle             lipgloss.Style
	SeparatorStyle               lipgloss.Style

	// Overlay styles
	OverlayBorderStyle       lipgloss.Style
	OverlayTitleStyle        lipgloss.Style
	OverlayMessageStyle      lipgloss.Style
	OverlaySelectedItemStyle lipgloss.Style
	OverlayNormalItemStyle   lipgloss.Style
	OverlayDimmedItemStyle   lipgloss.Style
	OverlayFilterLabelStyle  lipgloss.Style
)

func init() {
	// Initialize with Tint theme
	tint.NewDefaultRegistry()
	tint.SetTint(tint.TintChalk)
	Theme = tint.DefaultRegistry

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(tint.Purple()).
		Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(tint.Fg()).
		Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack()).
		Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack()).
		Padding(1, 0, 0, 1)

	HelpTextSimpleStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack())

	SpinnerStyle = lipgloss.NewStyle().
		Foreground(tint.Purple())

	OnlineStyle = lipgloss.NewStyle().
		Foreground(tint.Green())

	OfflineStyle = lipgloss.NewStyle().
		Foreground(tint.Red())

	FocusedPaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tint.Purple()).
		Padding(0, 1)

	BlurredPaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tint.BrightBlack()).
		Padding(0, 1)

	PaneTitleStyle = lipgloss.NewStyle().
		Foreground(tint.White()).
		Bold(true)

	DropZoneStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(tint.BrightBlack()).
		Align(lipgloss.Center).
		Padding(1, 2)

	DropZoneTextStyle = lipgloss.NewStyle().
		Foreground(tint.White()).
		Bold(true)

	ErrorBannerStyle = lipgloss.NewStyle().
		Foreground(tint.Red()).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tint.Red()).
		Padding(0, 1)

	LoadingBoxStyle = lipgloss.NewStyle().
		Foreground(tint.White()).
		Align(lipgloss.Center).
		Padding(1, 0)

	FileInfoBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tint.BrightBlack()).
		Padding(0, 1)

	FileInfoKeyStyle = lipgloss.NewStyle().
		Foreground(tint.White()).
		Bold(true)

	SuccessBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tint.Green()).
		Padding(0, 1)

	SuccessTitleStyle = lipgloss.NewStyle().
		Foreground(tint.Green()).
		Bold(true)

	KeyHintStyle = lipgloss.NewStyle().
		Foreground(tint.Bg()).
		Background(tint.Purple()).
		Bold(true)

	UserMessageLabelStyle = lipgloss.NewStyle().
		Foreground(tint.Blue()).
		Bold(true)

	AssistantMessageLabelStyle = lipgloss.NewStyle().
		Foreground(tint.Green()).
		Bold(true)

	ErrorMessageLabelStyle = lipgloss.NewStyle().
		Foreground(tint.Red()).
		Bold(true)

	UserMessageContentStyle = lipgloss.NewStyle().
		Foreground(tint.Fg()).
		Padding(0, 1)

	AssistantMessageContentStyle = lipgloss.NewStyle().
		Foreground(tint.Fg()).
		Padding(0, 1)

	ErrorMessageContentStyle = lipgloss.NewStyle().
		Foreground(tint.Red()).
		Padding(0, 1)

	TimestampStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack())

	MetadataStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack()).
		Italic(true)

	TypingIndicatorStyle = lipgloss.NewStyle().
		Foreground(tint.Green())

	ScrollButtonStyle = lipgloss.NewStyle().
		Foreground(tint.Bg()).
		Background(tint.Blue()).
		Bold(true)

	PlaceholderStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack()).
		Italic(true)

	SeparatorStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack())

	OverlayBorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tint.Yellow()).
		Padding(1, 2)

	OverlayTitleStyle = lipgloss.NewStyle().
		Foreground(tint.Yellow()).
		Bold(true)

	OverlayMessageStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack()).
		Align(lipgloss.Center)

	OverlaySelectedItemStyle = lipgloss.NewStyle().
		Foreground(tint.Purple()).
		Background(tint.BrightBlack()).
		Bold(true)

	OverlayNormalItemStyle = lipgloss.NewStyle().
		Foreground(tint.Fg())

	OverlayDimmedItemStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack())

	OverlayFilterLabelStyle = lipgloss.NewStyle().
		Foreground(tint.White()).
		Bold(true)
}

// GetPaneStyle returns the border style of a pane sized to width x height
func GetPaneStyle(width, height int, focused bool) lipgloss.Style {
	style := BlurredPaneStyle
	if focused {
		style = FocusedPaneStyle
	}
	// Width/Height exclude the border
	return style.Width(width - 2).Height(height - 2)
}

// GetUserMessageContentStyle returns a style for user message content with given width
func GetUserMessageContentStyle(width int) lipgloss.Style {
	return UserMessageContentStyle.
		Width(width).
		Align(lipgloss.Right)
}

// GetAssistantMessageContentStyle returns a style for assistant message content with given width
func GetAssistantMessageContentStyle(width int) lipgloss.Style {
	return AssistantMessageContentStyle.
		Width(width)
}

// GetErrorMessageContentStyle returns a style for error bubbles with given width
func GetErrorMessageContentStyle(width int) lipgloss.Style {
	return ErrorMessageContentStyle.
		Width(width)
}

// GetOverlayBorderStyle returns border style with dynamic width
func GetOverlayBorderStyle(width int) lipgloss.Style {
	return OverlayBorderStyle.Width(width - 4)
}

// GetOverlayItemStyle returns item style with dynamic width
func GetOverlayItemStyle(width int, state string) lipgloss.Style {
	baseWidth := width - 8
	switch state {
	case "selected":
		return OverlaySelectedItemStyle.Width(baseWidth)
	case "dimmed":
		return OverlayDimmedItemStyle.Width(baseWidth)
	default:
		return OverlayNormalItemStyle.Width(baseWidth)
	}
}

// GetOverlayMessageStyle returns message style with dynamic width
func GetOverlayMessageStyle(width int) lipgloss.Style {
	return OverlayMessageStyle.Width(width - 8)
}

// RenderKeyHint renders a key binding like a button
func RenderKeyHint(keys, label string) string {
	return KeyHintStyle.Render(" "+keys+" ") + " " + label
}

// overlayWidth is 50% of the window, never narrower than 40 columns
func overlayWidth(windowWidth int) int {
	w := windowWidth / 2
	if w < 40 {
		w = 40
	}
	return w
}
