package contract

import (
	"strings"
	"testing"
)

// FuzzCategoryOf fuzzes CategoryOf with random relative directories.
func FuzzCategoryOf(f *testing.F) {
	seeds := []string{"", ".", "elf", "elf/x86", "pe//dll", "../escape", "a/b/c/d/e"}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, relDir string) {
		category := CategoryOf(relDir)
		if strings.Contains(category, "/") {
			t.Errorf("category %q of %q contains a separator", category, relDir)
		}
	})
}

// FuzzTruncatePath fuzzes TruncatePath with random paths and widths.
func FuzzTruncatePath(f *testing.F) {
	f.Add("inputs/elf/hello", 10)
	f.Add("", 0)
	f.Add("ünïcödé/päth", 5)

	f.Fuzz(func(t *testing.T, path string, width int) {
		got := TruncatePath(path, width)
		if width > 3 && len([]rune(got)) > width {
			t.Errorf("TruncatePath(%q, %d) = %q exceeds width", path, width, got)
		}
	})
}
