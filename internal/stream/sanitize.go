package stream

import (
	"runtime"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Characters Windows file systems refuse in file names. POSIX only forbids
// the path separator and NUL.
const windowsUnsafe = `<>:"/\|?*`

// SanitizeName strips characters from an item title that would corrupt
// stream state: the field separator always (it delimits queue lines and
// payload file names), path-hostile characters when the title will become a
// file name, and optionally everything outside ASCII for portable storage.
func SanitizeName(title string, kind Kind, asciiOnly bool) string {
	cut := FieldSep
	if kind == Downloaded {
		if runtime.GOOS == "windows" {
			cut += windowsUnsafe
		} else {
			cut += "/"
		}
	}
	name := strings.Map(func(r rune) rune {
		if r == 0 || strings.ContainsRune(cut, r) {
			return -1
		}
		return r
	}, title)
	if asciiOnly {
		name = stripNonASCII(name)
	}
	return name
}

// stripNonASCII decomposes accented letters, drops the combining marks, and
// removes whatever still falls outside ASCII.
func stripNonASCII(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
