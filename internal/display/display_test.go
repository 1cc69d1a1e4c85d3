package display

import "testing"

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("this is a long line", 10); got != "this is..." {
		t.Fatalf("got %q", got)
	}
}

func TestCleanText(t *testing.T) {
	if got := CleanText("a\nb   c"); got != "a b c" {
		t.Fatalf("got %q", got)
	}
}

func TestWrapTextSplitsOnWordBoundaries(t *testing.T) {
	d := New(true)
	lines := d.wrapText("one two three four five", 10)
	if len(lines) < 2 {
		t.Fatalf("expected wrapping to produce multiple lines, got %v", lines)
	}
	for _, l := range lines {
		if len(l) > 10 {
			t.Fatalf("line %q exceeds width", l)
		}
	}
}

func TestNoColorThemeIsIdentity(t *testing.T) {
	th := NoColorTheme()
	if th.Success("x") != "x" {
		t.Fatalf("expected identity theme to pass text through unchanged")
	}
}
