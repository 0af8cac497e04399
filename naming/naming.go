// Package naming provides key naming policies applied by the codec when it
// writes property names.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Policy maps a declared property name to the key written on the wire.
type Policy func(string) string

// Identity writes names as declared.
func Identity(name string) string { return name }

// SnakeCase writes IsActive as is_active and HTTPServer as http_server.
func SnakeCase(name string) string {
	return join(Words(name), "_", strings.ToLower)
}

// KebabCase writes IsActive as is-active.
func KebabCase(name string) string {
	return join(Words(name), "-", strings.ToLower)
}

// CamelCase writes IsActive as isActive and HTTPServer as httpServer.
func CamelCase(name string) string {
	words := Words(name)
	for i, w := range words {
		if i == 0 {
			words[i] = strings.ToLower(w)
			continue
		}
		words[i] = upperFirst(strings.ToLower(w))
	}
	return strings.Join(words, "")
}

// LowerFirst lowercases the first rune only: IsActive becomes isActive,
// HTTPServer becomes hTTPServer.
func LowerFirst(name string) string {
	r, n := utf8.DecodeRuneInString(name)
	if n == 0 {
		return name
	}
	return string(unicode.ToLower(r)) + name[n:]
}

// Words splits name at case changes, digits following letters and the
// separators '_', '-', ' ' and '.'. A run of upper case letters followed by
// a lower case letter ends before its last letter, so "HTTPServer" is
// ["HTTP", "Server"].
func Words(name string) []string {
	rs := []rune(name)
	var (
		words []string
		start = -1
	)
	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(rs[start:end]))
		}
		start = -1
	}
	for i, r := range rs {
		if isSep(r) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		prev := rs[i-1]
		switch {
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			flush(i)
			start = i
		case unicode.IsUpper(r) && unicode.IsUpper(prev) && i+1 < len(rs) && unicode.IsLower(rs[i+1]):
			flush(i)
			start = i
		case unicode.IsDigit(r) && unicode.IsLetter(prev):
			flush(i)
			start = i
		}
	}
	flush(len(rs))
	return words
}

func isSep(r rune) bool {
	switch r {
	case '_', '-', ' ', '.':
		return true
	}
	return false
}

func upperFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

func join(words []string, sep string, f func(string) string) string {
	for i, w := range words {
		words[i] = f(w)
	}
	return strings.Join(words, sep)
}

// ByName returns the policy registered under name: identity, snake, kebab,
// camel or lower.
func ByName(name string) (Policy, bool) {
	p, ok := map[string]Policy{
		"":         Identity,
		"identity": Identity,
		"snake":    SnakeCase,
		"kebab":    KebabCase,
		"camel":    CamelCase,
		"lower":    LowerFirst,
	}[strings.ToLower(name)]
	return p, ok
}
