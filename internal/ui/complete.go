package ui

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// completePath lists filesystem completions for word, resolved relative to
// root. Every candidate starts with word; directories end in a slash.
func completePath(root, word string) []string {
	if word == "" {
		return nil
	}
	dir, base := splitPathWord(word)
	lookup := dir
	if !filepath.IsAbs(lookup) {
		lookup = filepath.Join(root, lookup)
	}
	entries, err := os.ReadDir(lookup)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, base) {
			continue
		}
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(base, ".") {
			continue
		}
		cand := dir + name
		if dir == "." {
			cand = name
		}
		if isDir(e, filepath.Join(lookup, name)) {
			cand += "/"
		}
		out = append(out, cand)
	}
	sort.Strings(out)
	return out
}

// splitPathWord splits "src/ma" into "src/" and "ma". A bare name is looked
// up in ".".
func splitPathWord(word string) (dir, base string) {
	i := strings.LastIndexByte(word, '/')
	if i < 0 {
		return ".", word
	}
	return word[:i+1], word[i+1:]
}

func isDir(e os.DirEntry, path string) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&os.ModeSymlink != 0 {
		if fi, err := os.Stat(path); err == nil {
			return fi.IsDir()
		}
	}
	return false
}
