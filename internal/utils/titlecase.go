package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleSeparator splits an imported title into title and subtitle.
const TitleSeparator = " - "

// Words kept lower case inside a title unless they start or end it.
var smallWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true, "but": true,
	"by": true, "en": true, "for": true, "if": true, "in": true, "nor": true,
	"of": true, "on": true, "or": true, "per": true, "the": true, "to": true,
	"v": true, "v.": true, "via": true, "vs": true, "vs.": true,
}

// TitleCase capitalises a title in English headline style. Small words stay
// lower case except at either end or after a colon. Words that carry a
// capital past their first letter ("iPhone", "McCarthy", "NASA") are kept as
// written, unless the whole title is shouted in capitals.
func TitleCase(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	shouted := isUpper(s)
	caser := cases.Title(language.English)
	capitaliseNext := true
	for i, word := range words {
		last := i == len(words)-1
		lower := strings.ToLower(word)
		switch {
		case !shouted && hasInnerCapital(word):
		case smallWords[lower] && !capitaliseNext && !last:
			words[i] = lower
		default:
			words[i] = caser.String(word)
		}
		capitaliseNext = strings.HasSuffix(word, ":")
	}
	return strings.Join(words, " ")
}

// SplitTitle splits on the first TitleSeparator and title-cases both halves.
// Without a separator the whole string is the title and the subtitle is empty.
func SplitTitle(title string) (string, string) {
	main, sub, found := strings.Cut(title, TitleSeparator)
	if !found {
		return TitleCase(title), ""
	}
	return TitleCase(main), TitleCase(sub)
}

func hasInnerCapital(word string) bool {
	for i, r := range word {
		if i > 0 && unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// isUpper reports whether s has letters and none of them is lower case.
func isUpper(s string) bool {
	letters := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		letters = letters || unicode.IsLetter(r)
	}
	return letters
}
