package announcement

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/closestmatch"
)

// suggestClip returns the .mp3 file next to missing whose name is closest to
// it, or "" when the directory holds none.
func suggestClip(missing string) string {
	dir := filepath.Dir(missing)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	names := []string{}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".mp3") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return ""
	}

	best := closestmatch.New(names, []int{2, 3}).Closest(filepath.Base(missing))
	if best == "" {
		return ""
	}
	return filepath.Join(dir, best)
}
