package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/loculus-project/seqsearch/internal/models"
	"github.com/loculus-project/seqsearch/internal/search"
	"github.com/loculus-project/seqsearch/internal/ui/theme"
)

// nullLiteral is how a logical null is typed in a multiselect value.
const nullLiteral = "null"

// ApplyValueMsg is sent when the edited value should be stored
type ApplyValueMsg struct {
	Field   string
	Updates []search.Update
}

// CloseValueEditorMsg is sent when the editor should close
type CloseValueEditorMsg struct{}

// ValueEditor edits the value of one field. Range fields get a From and a To
// input; every other kind gets one.
type ValueEditor struct {
	Width  int
	Height int
	Theme  theme.Theme

	field           models.FieldDescriptor
	keys            []string
	inputs          []textinput.Model
	focus           int
	validationError string
}

// NewValueEditor creates a new value editor
func NewValueEditor(th theme.Theme) *ValueEditor {
	return &ValueEditor{
		Width:  60,
		Height: 12,
		Theme:  th,
	}
}

// Open starts editing field, prefilled from values
func (ve *ValueEditor) Open(field models.FieldDescriptor, values search.FieldValues) {
	ve.field = field
	ve.keys = field.Keys()
	ve.inputs = make([]textinput.Model, len(ve.keys))
	ve.focus = 0
	ve.validationError = ""

	for i, key := range ve.keys {
		ti := textinput.New()
		ti.CharLimit = 512
		ti.Width = ve.Width - 16
		ti.Placeholder = placeholderFor(field, key)
		if v, ok := values[key]; ok {
			ti.SetValue(FormatFieldInput(v))
		}
		ve.inputs[i] = ti
	}
	if len(ve.inputs) > 0 {
		ve.inputs[0].Focus()
	}
}

// Field returns the field being edited
func (ve *ValueEditor) Field() models.FieldDescriptor {
	return ve.field
}

func placeholderFor(field models.FieldDescriptor, key string) string {
	switch field.Kind {
	case models.KindMultiSelect:
		return "comma separated, " + nullLiteral + " for missing"
	case models.KindBoolean:
		return "true, false or empty"
	case models.KindRange:
		if key == field.FromKey() {
			return "from"
		}
		return "to"
	default:
		return field.Label()
	}
}

// ParseFieldInput converts typed text into a field value of kind
func ParseFieldInput(kind models.FieldKind, text string) (search.Value, error) {
	text = strings.TrimSpace(text)
	switch kind {
	case models.KindMultiSelect:
		var items []search.Item
		for _, part := range strings.Split(text, ",") {
			part = strings.TrimSpace(part)
			switch {
			case part == "":
				continue
			case strings.EqualFold(part, nullLiteral):
				items = append(items, search.Null())
			default:
				items = append(items, search.Of(part))
			}
		}
		return search.List(items...), nil
	case models.KindBoolean:
		switch strings.ToLower(text) {
		case "":
			return search.Scalar(""), nil
		case "true", "yes":
			return search.Scalar("true"), nil
		case "false", "no":
			return search.Scalar("false"), nil
		default:
			return search.Value{}, fmt.Errorf("%q is not a boolean", text)
		}
	default:
		return search.Scalar(text), nil
	}
}

// FormatFieldInput renders a value the way ParseFieldInput reads it back
func FormatFieldInput(v search.Value) string {
	return v.String()
}

// Updates converts the inputs into one batch
func (ve *ValueEditor) Updates() ([]search.Update, error) {
	updates := make([]search.Update, 0, len(ve.keys))
	for i, key := range ve.keys {
		v, err := ParseFieldInput(ve.field.Kind, ve.inputs[i].Value())
		if err != nil {
			return nil, err
		}
		updates = append(updates, search.Set(key, v))
	}
	return updates, nil
}

// SetInput replaces the text of input i
func (ve *ValueEditor) SetInput(i int, text string) {
	if i >= 0 && i < len(ve.inputs) {
		ve.inputs[i].SetValue(text)
	}
}

func (ve *ValueEditor) focusInput(i int) {
	if len(ve.inputs) == 0 {
		return
	}
	ve.inputs[ve.focus].Blur()
	ve.focus = (i + len(ve.inputs)) % len(ve.inputs)
	ve.inputs[ve.focus].Focus()
}

// Update handles keyboard input
func (ve *ValueEditor) Update(msg tea.KeyMsg) (*ValueEditor, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return ve, func() tea.Msg {
			return CloseValueEditorMsg{}
		}
	case "tab", "down":
		ve.focusInput(ve.focus + 1)
		return ve, nil
	case "shift+tab", "up":
		ve.focusInput(ve.focus - 1)
		return ve, nil
	case "ctrl+u":
		for i := range ve.inputs {
			ve.inputs[i].SetValue("")
		}
		return ve, nil
	case "enter":
		updates, err := ve.Updates()
		if err != nil {
			ve.validationError = err.Error()
			return ve, nil
		}
		ve.validationError = ""
		name := ve.field.Name
		return ve, func() tea.Msg {
			return ApplyValueMsg{Field: name, Updates: updates}
		}
	}

	if len(ve.inputs) == 0 {
		return ve, nil
	}
	var cmd tea.Cmd
	ve.inputs[ve.focus], cmd = ve.inputs[ve.focus].Update(msg)
	return ve, cmd
}

// View renders the editor
func (ve *ValueEditor) View() string {
	var sections []string

	titleStyle := lipgloss.NewStyle().
		Foreground(ve.Theme.Foreground).
		Background(ve.Theme.Info).
		Padding(0, 1).
		Bold(true)
	sections = append(sections, titleStyle.Render("Edit "+ve.field.Label()))

	instructionStyle := lipgloss.NewStyle().
		Foreground(ve.Theme.Metadata).
		Padding(0, 1)
	instructions := "Enter=Apply Ctrl+U=Clear Esc=Cancel"
	if len(ve.inputs) > 1 {
		instructions = "Tab=Next " + instructions
	}
	sections = append(sections, instructionStyle.Render(instructions))

	if ve.validationError != "" {
		errorStyle := lipgloss.NewStyle().
			Foreground(ve.Theme.Error).
			Padding(0, 1).
			Bold(true)
		sections = append(sections, errorStyle.Render("Error: "+ve.validationError))
	}

	sections = append(sections, "")
	labelStyle := lipgloss.NewStyle().Foreground(ve.Theme.Column).Width(12)
	for i, key := range ve.keys {
		sections = append(sections, labelStyle.Render(key)+" "+ve.inputs[i].View())
	}

	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ve.Theme.BorderFocused).
		Foreground(ve.Theme.Foreground).
		Width(ve.Width).
		Padding(1)

	return containerStyle.Render(strings.Join(sections, "\n"))
}
