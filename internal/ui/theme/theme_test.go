package theme

import "testing"

func TestGetTheme(t *testing.T) {
	if got := GetTheme("catppuccin-mocha").Name; got != "catppuccin-mocha" {
		t.Errorf("expected catppuccin-mocha, got %q", got)
	}
	if got := GetTheme("default").Name; got != "default" {
		t.Errorf("expected default, got %q", got)
	}
	if got := GetTheme("unknown").Name; got != "default" {
		t.Errorf("unknown theme should fall back to default, got %q", got)
	}
}
