package help

import (
	"strings"
	"testing"

	"github.com/loculus-project/seqsearch/internal/ui/theme"
)

func TestSections_NoDuplicateKeysWithinSection(t *testing.T) {
	for _, section := range Sections() {
		seen := map[string]bool{}
		for _, kb := range section.Keys {
			if seen[kb.Key] {
				t.Errorf("section %q lists %q twice", section.Title, kb.Key)
			}
			seen[kb.Key] = true
		}
	}
}

func TestRender(t *testing.T) {
	out := Render(100, 60, theme.DefaultTheme())
	for _, want := range []string{"Keyboard Shortcuts", "Saved Searches", "Reverse order direction"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected help to contain %q", want)
		}
	}
}
