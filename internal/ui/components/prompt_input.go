package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/loculus-project/seqsearch/internal/ui/theme"
)

// PromptPurpose identifies what a prompt's answer is used for
type PromptPurpose string

const (
	PromptQuickFilter PromptPurpose = "filter"
	PromptMutations   PromptPurpose = "mutations"
	PromptSuborganism PromptPurpose = "suborganism"
	PromptBookmark    PromptPurpose = "bookmark"
	PromptSelectedSeq PromptPurpose = "sequence"
	PromptNavigate    PromptPurpose = "navigate"
)

// PromptSubmitMsg is sent when a prompt is confirmed
type PromptSubmitMsg struct {
	Purpose PromptPurpose
	Value   string
}

// PromptCancelMsg is sent when a prompt is dismissed
type PromptCancelMsg struct {
	Purpose PromptPurpose
}

// PromptInput is a one-line input box shown above the status bar
type PromptInput struct {
	Input   textinput.Model
	Purpose PromptPurpose
	Label   string
	Theme   theme.Theme
	Width   int
	Visible bool
}

// NewPromptInput creates a new prompt input
func NewPromptInput(th theme.Theme) *PromptInput {
	ti := textinput.New()
	ti.CharLimit = 1024
	ti.Width = 40

	return &PromptInput{
		Input: ti,
		Theme: th,
	}
}

// Open shows the prompt prefilled with value
func (p *PromptInput) Open(purpose PromptPurpose, label, placeholder, value string) {
	p.Purpose = purpose
	p.Label = label
	p.Input.Placeholder = placeholder
	p.Input.SetValue(value)
	p.Input.CursorEnd()
	p.Input.Focus()
	p.Visible = true
}

// Close hides the prompt
func (p *PromptInput) Close() {
	p.Input.Blur()
	p.Input.SetValue("")
	p.Visible = false
}

// Update handles messages
func (p *PromptInput) Update(msg tea.Msg) (*PromptInput, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		purpose := p.Purpose
		switch msg.String() {
		case "enter":
			value := p.Input.Value()
			return p, func() tea.Msg {
				return PromptSubmitMsg{Purpose: purpose, Value: value}
			}
		case "esc":
			return p, func() tea.Msg {
				return PromptCancelMsg{Purpose: purpose}
			}
		}
	}

	var cmd tea.Cmd
	p.Input, cmd = p.Input.Update(msg)
	return p, cmd
}

// View renders the prompt
func (p *PromptInput) View() string {
	if !p.Visible {
		return ""
	}

	labelStyle := lipgloss.NewStyle().
		Foreground(p.Theme.Info).
		Bold(true)

	inputWidth := p.Width - len(p.Label) - 8
	if inputWidth < 20 {
		inputWidth = 20
	}
	p.Input.Width = inputWidth

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Theme.BorderFocused).
		Padding(0, 1).
		Width(p.Width - 2)

	return boxStyle.Render(labelStyle.Render(p.Label) + " " + p.Input.View())
}
