package navigation

import (
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Title turns a file or directory name into a display label: the first
// character is upper-cased and dashes and underscores become spaces.
func Title(name string) string {
	if name == "" {
		return ""
	}
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// Stem strips the extension from a file name.
func Stem(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}
