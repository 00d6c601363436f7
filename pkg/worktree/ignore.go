package worktree

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// IgnoreFile is the name of the per-tree ignore file read from the root.
const IgnoreFile = ".gitletignore"

// IgnoreChecker decides whether a working-tree path is invisible to the
// repository. The last matching pattern wins, so negations can re-include.
type IgnoreChecker struct {
	patterns []ignorePattern
}

type ignorePattern struct {
	pattern  string
	negated  bool
	dirOnly  bool
	anchored bool // pattern contains a slash, so match against full path
	regex    *regexp.Regexp
}

// NewIgnoreChecker builds a checker for root. metaDir and .git are always
// ignored; patterns from root/.gitletignore are appended when present.
func NewIgnoreChecker(root, metaDir string) *IgnoreChecker {
	ic := &IgnoreChecker{}
	for _, d := range []string{metaDir, ".git"} {
		if d == "" {
			continue
		}
		ic.patterns = append(ic.patterns, ignorePattern{pattern: d, dirOnly: true})
	}

	f, err := os.Open(filepath.Join(root, IgnoreFile))
	if err != nil {
		return ic
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if p, ok := parseIgnoreLine(scanner.Text()); ok {
			ic.patterns = append(ic.patterns, p)
		}
	}
	return ic
}

func parseIgnoreLine(line string) (ignorePattern, bool) {
	line = strings.TrimRight(line, " \t")
	if line == "" || strings.HasPrefix(line, "#") {
		return ignorePattern{}, false
	}

	var p ignorePattern
	if strings.HasPrefix(line, "!") {
		p.negated = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.dirOnly = true
		line = strings.TrimRight(line, "/")
	}
	line = strings.TrimPrefix(line, "/")
	if line == "" {
		return ignorePattern{}, false
	}

	p.anchored = strings.Contains(line, "/")
	p.pattern = line
	if strings.Contains(line, "**") {
		if re, err := regexp.Compile(globToRegex(line)); err == nil {
			p.regex = re
		}
	}
	return p, true
}

// IsIgnored reports whether the slash-separated relative path is ignored.
func (ic *IgnoreChecker) IsIgnored(path string) bool {
	path = filepath.ToSlash(path)
	ignored := false
	for i := range ic.patterns {
		p := &ic.patterns[i]
		if p.matches(path) {
			ignored = !p.negated
		}
	}
	return ignored
}

func (p *ignorePattern) matches(path string) bool {
	if p.dirOnly {
		// The directory itself or anything beneath it.
		if path == p.pattern || strings.HasPrefix(path, p.pattern+"/") {
			return true
		}
		if p.anchored {
			return false
		}
		for _, seg := range strings.Split(path, "/")[:strings.Count(path, "/")] {
			if p.match(seg) {
				return true
			}
		}
		return p.match(filepath.Base(path))
	}
	if p.anchored {
		return p.match(path)
	}
	return p.match(filepath.Base(path))
}

func (p *ignorePattern) match(target string) bool {
	if p.regex != nil {
		return p.regex.MatchString(target)
	}
	matched, _ := filepath.Match(p.pattern, target)
	return matched
}

func globToRegex(pattern string) string {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]
		switch {
		case ch == '*' && i+1 < len(pattern) && pattern[i+1] == '*':
			if i+2 < len(pattern) && pattern[i+2] == '/' {
				// Zero or more leading directories.
				b.WriteString("(?:.*/)?")
				i += 2
			} else {
				b.WriteString(".*")
				i++
			}
		case ch == '*':
			b.WriteString("[^/]*")
		case ch == '?':
			b.WriteString("[^/]")
		default:
			if strings.ContainsRune(`.+()|[]{}^$\`, rune(ch)) {
				b.WriteByte('\\')
			}
			b.WriteByte(ch)
		}
	}
	b.WriteString("$")
	return b.String()
}
