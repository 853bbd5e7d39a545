package roster

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const suffixJunior = "jr"

// Normalize returns the canonical comparison form of a player name:
// lower-cased, diacritics stripped, only [a-z0-9 ] kept, the standalone
// token "jr" dropped, whitespace collapsed and trimmed.
//
//	Normalize("José Ramírez Jr.") == "jose ramirez"
func Normalize(name string) string {
	s := strings.ToLower(name)

	t := transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool {
			return !isNameRune(r)
		})),
	)
	if stripped, _, err := transform.String(t, s); err == nil {
		s = stripped
	} else {
		s = strings.Map(func(r rune) rune {
			if isNameRune(r) {
				return r
			}
			return -1
		}, s)
	}

	tokens := strings.Split(s, " ")
	kept := tokens[:0]
	for _, tok := range tokens {
		if tok == "" || tok == suffixJunior {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

// Tokens splits the normalized form of name into its words.
func Tokens(name string) []string {
	return strings.Fields(Normalize(name))
}

func isNameRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' '
}
