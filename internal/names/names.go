// Package names splits personal names into their parts and renders them
// through a layout such as "{last}, {title} {first} {suffix}".
package names

import (
	"strings"
)

// Name is a parsed personal name. Empty parts are simply left blank.
type Name struct {
	Title  string
	First  string
	Middle string
	Last   string
	Suffix string
}

var titles = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "miss": true, "dr": true, "prof": true,
	"professor": true, "sir": true, "dame": true, "lord": true, "lady": true,
	"rev": true, "fr": true, "sister": true, "brother": true, "capt": true,
}

var suffixes = map[string]bool{
	"jr": true, "sr": true, "ii": true, "iii": true, "iv": true, "v": true,
	"phd": true, "md": true, "esq": true, "obe": true, "mbe": true, "kbe": true,
}

// Particles that belong to the following surname ("Le Guin", "van Vogt").
var prefixes = map[string]bool{
	"van": true, "von": true, "de": true, "der": true, "den": true, "del": true,
	"della": true, "di": true, "da": true, "du": true, "la": true, "le": true,
	"st": true, "st.": true, "ibn": true, "bin": true, "ben": true, "dos": true,
	"das": true, "ter": true, "ten": true, "al": true,
}

func key(token string) string {
	return strings.Trim(strings.ToLower(token), ".,")
}

func isSuffix(token string) bool {
	return suffixes[key(token)]
}

// Parse splits raw into title, first, middle, last and suffix. It accepts
// "First Middle Last Suffix" as well as "Last, First Middle" forms.
func Parse(raw string) Name {
	raw = strings.Join(strings.Fields(raw), " ")
	if raw == "" {
		return Name{}
	}

	if before, after, found := strings.Cut(raw, ","); found {
		after = strings.TrimSpace(after)
		if allSuffixes(after) {
			n := parseWords(strings.Fields(before))
			n.Suffix = joinNonEmpty(n.Suffix, after)
			return n
		}
		// "Last, First Middle[, Suffix]"
		rest, extraSuffix, _ := strings.Cut(after, ",")
		n := parseGiven(strings.Fields(rest))
		n.Last = strings.TrimSpace(before)
		n.Suffix = joinNonEmpty(n.Suffix, strings.TrimSpace(extraSuffix))
		return n
	}

	return parseWords(strings.Fields(raw))
}

func allSuffixes(s string) bool {
	words := strings.Fields(strings.ReplaceAll(s, ",", " "))
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if !isSuffix(w) {
			return false
		}
	}
	return true
}

// parseGiven handles the part after the comma in "Last, Title First Middle Suffix".
func parseGiven(words []string) Name {
	var n Name
	for len(words) > 0 && titles[key(words[0])] {
		n.Title = joinNonEmpty(n.Title, words[0])
		words = words[1:]
	}
	for len(words) > 0 && isSuffix(words[len(words)-1]) {
		n.Suffix = joinNonEmpty(words[len(words)-1], n.Suffix)
		words = words[:len(words)-1]
	}
	if len(words) > 0 {
		n.First = words[0]
		n.Middle = strings.Join(words[1:], " ")
	}
	return n
}

func parseWords(words []string) Name {
	var n Name
	for len(words) > 1 && titles[key(words[0])] {
		n.Title = joinNonEmpty(n.Title, words[0])
		words = words[1:]
	}
	for len(words) > 1 && isSuffix(words[len(words)-1]) {
		n.Suffix = joinNonEmpty(words[len(words)-1], n.Suffix)
		words = words[:len(words)-1]
	}

	switch len(words) {
	case 0:
		return n
	case 1:
		n.First = words[0]
		return n
	}

	lastStart := len(words) - 1
	for lastStart > 1 && prefixes[key(words[lastStart-1])] {
		lastStart--
	}
	n.First = words[0]
	n.Middle = strings.Join(words[1:lastStart], " ")
	n.Last = strings.Join(words[lastStart:], " ")
	return n
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

// Format renders the name through layout. Supported placeholders are
// {title}, {first}, {middle}, {last} and {suffix}. Blank parts collapse
// together with the whitespace and dangling commas around them.
func (n Name) Format(layout string) string {
	out := strings.NewReplacer(
		"{title}", n.Title,
		"{first}", n.First,
		"{middle}", n.Middle,
		"{last}", n.Last,
		"{suffix}", n.Suffix,
	).Replace(layout)

	out = strings.Join(strings.Fields(out), " ")
	out = strings.ReplaceAll(out, " ,", ",")
	for strings.Contains(out, ",,") {
		out = strings.ReplaceAll(out, ",,", ",")
	}
	return strings.Trim(out, ", ")
}

// String renders the name in display order.
func (n Name) String() string {
	return n.Format("{title} {first} {middle} {last} {suffix}")
}

// SortName parses raw and renders it through layout.
func SortName(raw, layout string) string {
	return Parse(raw).Format(layout)
}
