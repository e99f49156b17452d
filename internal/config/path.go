package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ExtendPath prepends dirs to the PATH of the current process so engine binaries
// installed outside the default search path can be found. Directories already
// on PATH are not repeated.
func ExtendPath(dirs []string) {
	current := filepath.SplitList(os.Getenv("PATH"))

	var prepend []string
	for _, dir := range dirs {
		if dir == "" || slices.Contains(current, dir) || slices.Contains(prepend, dir) {
			continue
		}
		prepend = append(prepend, dir)
	}
	if len(prepend) == 0 {
		return
	}

	os.Setenv("PATH", strings.Join(append(prepend, current...), string(os.PathListSeparator)))
}
