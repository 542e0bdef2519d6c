package components

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/loculus-project/seqsearch/internal/ui/theme"
)

// PreviewPane shows long text such as the shareable URL or the selected
// sequence's details, wrapped and scrollable
type PreviewPane struct {
	Width     int
	MaxHeight int
	Content   string
	Title     string

	Visible bool

	scrollY      int
	contentLines []string

	Theme theme.Theme
	style lipgloss.Style
}

// NewPreviewPane creates a new preview pane
func NewPreviewPane(th theme.Theme) *PreviewPane {
	return &PreviewPane{
		Width:     80,
		MaxHeight: 10,
		Theme:     th,
		style: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(th.Border).
			Padding(0, 1),
	}
}

// SetContent sets the content to display
func (p *PreviewPane) SetContent(content, title string) {
	if p.Content == content && p.Title == title {
		return
	}

	p.Content = content
	p.Title = title
	p.scrollY = 0
	p.contentLines = nil
}

func (p *PreviewPane) formatContent() {
	contentWidth := p.Width - p.style.GetHorizontalFrameSize()
	if contentWidth < 10 {
		contentWidth = 10
	}
	p.contentLines = wrapText(p.Content, contentWidth)
}

// wrapText wraps text to fit within maxWidth display cells
func wrapText(text string, maxWidth int) []string {
	if text == "" {
		return []string{}
	}

	var result []string
	for _, line := range strings.Split(text, "\n") {
		if runewidth.StringWidth(line) <= maxWidth {
			result = append(result, line)
			continue
		}

		current := ""
		currentWidth := 0
		for _, r := range line {
			rWidth := runewidth.RuneWidth(r)
			if currentWidth+rWidth > maxWidth {
				result = append(result, current)
				current = string(r)
				currentWidth = rWidth
			} else {
				current += string(r)
				currentWidth += rWidth
			}
		}
		if current != "" {
			result = append(result, current)
		}
	}

	return result
}

// Toggle toggles the pane. A pane without content stays hidden.
func (p *PreviewPane) Toggle() {
	if p.Visible {
		p.Visible = false
		p.contentLines = nil
		return
	}
	if p.Content != "" {
		p.Visible = true
		p.formatContent()
	}
}

// Height returns the rendered height including borders, 0 when hidden
func (p *PreviewPane) Height() int {
	if !p.Visible {
		return 0
	}
	return p.MaxHeight
}

func (p *PreviewPane) maxContentLines() int {
	n := p.MaxHeight - p.style.GetVerticalFrameSize() - 2 // header and footer
	if n < 1 {
		n = 1
	}
	return n
}

// IsScrollable returns true if content exceeds visible area
func (p *PreviewPane) IsScrollable() bool {
	return len(p.contentLines) > p.maxContentLines()
}

// ScrollUp scrolls content up
func (p *PreviewPane) ScrollUp() {
	if p.scrollY > 0 {
		p.scrollY--
	}
}

// ScrollDown scrolls content down
func (p *PreviewPane) ScrollDown() {
	maxScroll := len(p.contentLines) - p.maxContentLines()
	if maxScroll < 0 {
		maxScroll = 0
	}
	if p.scrollY < maxScroll {
		p.scrollY++
	}
}

// CopyContent copies the content to the clipboard
func (p *PreviewPane) CopyContent() error {
	return clipboard.WriteAll(p.Content)
}

// View renders the pane
func (p *PreviewPane) View() string {
	if !p.Visible {
		return ""
	}
	if p.contentLines == nil {
		p.formatContent()
	}

	contentWidth := p.Width - p.style.GetHorizontalFrameSize()

	titleStyle := lipgloss.NewStyle().
		Foreground(p.Theme.Info).
		Bold(true)
	header := "Preview"
	if p.Title != "" {
		header = p.Title
	}
	if runewidth.StringWidth(header) > contentWidth-4 {
		header = runewidth.Truncate(header, contentWidth-4, "...")
	}

	startLine := p.scrollY
	endLine := startLine + p.maxContentLines()
	if endLine > len(p.contentLines) {
		endLine = len(p.contentLines)
	}

	parts := []string{titleStyle.Render(header)}
	contentStyle := lipgloss.NewStyle().Foreground(p.Theme.Foreground)
	for i := startLine; i < endLine; i++ {
		parts = append(parts, contentStyle.Render(p.contentLines[i]))
	}

	helpParts := []string{}
	if p.IsScrollable() {
		helpParts = append(helpParts, "PgUp/PgDn: Scroll")
	}
	helpParts = append(helpParts, "y: Copy URL")
	helpText := strings.Join(helpParts, " │ ")
	helpStyle := lipgloss.NewStyle().
		Foreground(p.Theme.Metadata).
		Italic(true)

	footerPadding := contentWidth - runewidth.StringWidth(helpText)
	if footerPadding < 0 {
		footerPadding = 0
	}
	parts = append(parts, strings.Repeat(" ", footerPadding)+helpStyle.Render(helpText))

	innerHeight := p.MaxHeight - p.style.GetVerticalFrameSize()
	if innerHeight < 3 {
		innerHeight = 3
	}

	return p.style.
		Width(contentWidth).
		Height(innerHeight).
		MaxHeight(innerHeight).
		Render(strings.Join(parts, "\n"))
}
