package contract

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// FuzzTruncateText fuzzes the TruncateText function with random strings and widths.
func FuzzTruncateText(f *testing.F) {
	f.Add("huangsam/steward", 10)
	f.Add("", 0)
	f.Add("日本語のテキスト", 4)
	f.Add("abc", -1)

	f.Fuzz(func(t *testing.T, s string, width int) {
		got := TruncateText(s, width)
		if width > 3 && utf8.RuneCountInString(s) > width {
			if utf8.RuneCountInString(got) != width || !strings.HasSuffix(got, "...") {
				t.Errorf("TruncateText(%q, %d) = %q", s, width, got)
			}
		}
	})
}
