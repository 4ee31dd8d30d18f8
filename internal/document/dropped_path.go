package document

import (
	"net/url"
	"strings"
)

// ParseDroppedPaths extracts file paths from text a terminal pasted when
// files were dragged onto it. Terminals differ in how they quote paths:
//
//	/Users/me/My\ Files/invoice.pdf          (macOS Terminal, iTerm2)
//	'/home/me/My Files/invoice.pdf'          (GNOME Terminal, Konsole)
//	"C:\Users\me\invoice.pdf"                (Windows Terminal)
//	file:///home/me/My%20Files/invoice.pdf   (some Linux terminals)
//
// Several dropped files arrive space separated.
func ParseDroppedPaths(input string) []string {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	// Backslashes are separators in Windows paths, not escapes
	escapes := !looksLikeWindowsPath(strings.TrimLeft(input, `"'`))

	var (
		paths   []string
		current strings.Builder
		quote   rune
		escaped bool
		started bool
	)

	flush := func() {
		if started {
			paths = append(paths, normalizeDroppedPath(current.String()))
		}
		current.Reset()
		started = false
	}

	for _, r := range input {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && escapes && quote != '\'':
			escaped = true
			started = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			started = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			current.WriteRune(r)
			started = true
		}
	}
	flush()

	result := paths[:0]
	for _, p := range paths {
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// FirstDroppedPath returns the first dropped path, matching the browser's
// files[0] behaviour when several files are dropped at once
func FirstDroppedPath(input string) (string, bool) {
	paths := ParseDroppedPaths(input)
	if len(paths) == 0 {
		return "", false
	}
	return paths[0], true
}

func normalizeDroppedPath(p string) string {
	if strings.HasPrefix(p, "file://") {
		if u, err := url.Parse(p); err == nil && u.Path != "" {
			p = u.Path
			// file:///C:/Users/... parses to /C:/Users/...
			if len(p) > 2 && p[0] == '/' && looksLikeWindowsPath(p[1:]) {
				p = p[1:]
			}
		}
	}
	return p
}

func looksLikeWindowsPath(s string) bool {
	if len(s) < 3 {
		return false
	}
	c := s[0]
	isLetter := c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z'
	return isLetter && s[1] == ':' && (s[2] == '\\' || s[2] == '/')
}
