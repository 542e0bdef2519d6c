package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/loculus-project/seqsearch/internal/models"
	"github.com/loculus-project/seqsearch/internal/search"
	"github.com/loculus-project/seqsearch/internal/ui/theme"
)

func TestParseFieldInput_MultiSelect(t *testing.T) {
	v, err := ParseFieldInput(models.KindMultiSelect, " France, null ,, Spain ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := search.List(search.Of("France"), search.Null(), search.Of("Spain"))
	if !v.Equal(want) {
		t.Errorf("expected %v, got %v", want, v)
	}

	empty, _ := ParseFieldInput(models.KindMultiSelect, "  ")
	if !empty.IsList || !empty.IsEmpty() {
		t.Errorf("blank multiselect input should be the empty list, got %#v", empty)
	}
}

func TestParseFieldInput_Boolean(t *testing.T) {
	for text, want := range map[string]string{"TRUE": "true", "no": "false", "": ""} {
		v, err := ParseFieldInput(models.KindBoolean, text)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", text, err)
		}
		if v.Text != want {
			t.Errorf("%q: expected %q, got %q", text, want, v.Text)
		}
	}

	if _, err := ParseFieldInput(models.KindBoolean, "maybe"); err == nil {
		t.Error("expected an error for a non-boolean")
	}
}

func TestFormatFieldInput_RoundTrip(t *testing.T) {
	v := search.List(search.Of("A"), search.Null())
	back, _ := ParseFieldInput(models.KindMultiSelect, FormatFieldInput(v))
	if !back.Equal(v) {
		t.Errorf("expected %v, got %v", v, back)
	}
}

func TestValueEditor_RangeUpdates(t *testing.T) {
	field := models.FieldDescriptor{Name: "length", Kind: models.KindRange}
	ed := NewValueEditor(theme.DefaultTheme())
	ed.Open(field, search.FieldValues{"lengthFrom": search.Scalar("100")})

	ed.SetInput(1, "900")
	updates, err := ed.Updates()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updates) != 2 {
		t.Fatalf("expected 2 updates, got %d", len(updates))
	}
	if updates[0].Name != "lengthFrom" || updates[0].Value.Text != "100" {
		t.Errorf("unexpected from update %#v", updates[0])
	}
	if updates[1].Name != "lengthTo" || updates[1].Value.Text != "900" {
		t.Errorf("unexpected to update %#v", updates[1])
	}
}

func TestValueEditor_EnterAndEsc(t *testing.T) {
	field := models.FieldDescriptor{Name: "host", Kind: models.KindScalar}
	ed := NewValueEditor(theme.DefaultTheme())
	ed.Open(field, nil)
	ed.SetInput(0, "Homo sapiens")

	_, cmd := ed.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on enter")
	}
	msg, ok := cmd().(ApplyValueMsg)
	if !ok || msg.Field != "host" || len(msg.Updates) != 1 || msg.Updates[0].Value.Text != "Homo sapiens" {
		t.Errorf("unexpected message %#v", msg)
	}

	_, cmd = ed.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(CloseValueEditorMsg); !ok {
		t.Error("expected CloseValueEditorMsg on esc")
	}
}

func TestValueEditor_InvalidBooleanStaysOpen(t *testing.T) {
	field := models.FieldDescriptor{Name: "isRevocation", Kind: models.KindBoolean}
	ed := NewValueEditor(theme.DefaultTheme())
	ed.Open(field, nil)
	ed.SetInput(0, "perhaps")

	if _, cmd := ed.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("invalid input should not produce an apply command")
	}
	if ed.validationError == "" {
		t.Error("expected a validation error")
	}
}
