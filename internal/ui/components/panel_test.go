package components

import (
	"strings"
	"testing"
)

func TestPanel_View(t *testing.T) {
	p := &Panel{Title: "Fields", Badge: "(3)", Content: "body", Width: 20, Height: 4}

	view := p.View()
	for _, want := range []string{"Fields", "(3)", "body"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in panel view:\n%s", want, view)
		}
	}

	p.Width = 0
	if p.View() != "" {
		t.Error("zero-width panel should render nothing")
	}
}
