package markdown

import "strings"

// Taken from https://core.telegram.org/bots/api#markdownv2-style.
const mdV2SpecialChars = `_*[]()~` + "`" + `>#+-=|{}.!\`

// Inside the (...) part of an inline link only these need escaping.
const mdV2LinkURLSpecialChars = `)\`

//nolint:gochecknoglobals // Lookup tables meant to be immutable.
var (
	textLookup = lookupOf(mdV2SpecialChars)
	urlLookup  = lookupOf(mdV2LinkURLSpecialChars)
)

func EscapeV2(input string) string {
	return escape(input, &textLookup)
}

// Link renders an inline MarkdownV2 link with both parts escaped.
func Link(text, url string) string {
	return "[" + EscapeV2(text) + "](" + escape(url, &urlLookup) + ")"
}

func escape(input string, lookup *[256]bool) string {
	charsToEscape := 0

	for i := range len(input) {
		if lookup[input[i]] {
			charsToEscape++
		}
	}
	if charsToEscape == 0 {
		return input
	}

	var b strings.Builder
	b.Grow(len(input) + charsToEscape)

	for i := range len(input) {
		c := input[i]
		if lookup[c] {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}

	return b.String()
}

func lookupOf(chars string) [256]bool {
	var m [256]bool
	for _, c := range []byte(chars) {
		m[c] = true
	}
	return m
}
