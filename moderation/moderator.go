// Package moderation censors forbidden words in relayed chat lines.
package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Moderator masks occurrences of a forbidden word list inside arbitrary text.
// Matching is done on a folded view of the input (lowercase, leet speak
// reverted, punctuation and spacing stripped) so "B.4.D.G.E.R" still hits a
// "badger" pattern, while the replacement is applied to the original runes.
type Moderator struct {
	machine     *goahocorasick.Machine
	replacement rune
}

// mapping ties every folded rune back to its index in the original input.
type mapping struct {
	folded []rune
	origin []int
}

// NewModerator builds the Aho-Corasick automaton from the folded word list.
func NewModerator(words []string, replacement rune) (Moderator, error) {
	patterns := make([][]rune, 0, len(words))
	for _, word := range words {
		folded := foldRunes([]rune(word))
		if len(folded) == 0 {
			continue
		}
		patterns = append(patterns, folded)
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return Moderator{}, err
	}
	return Moderator{machine: machine, replacement: replacement}, nil
}

// Censor replaces every matched span of the input with the replacement rune,
// preserving length, spacing and untouched characters.
func (m *Moderator) Censor(input string) string {
	folded := fold(input)
	if len(folded.folded) == 0 {
		return input
	}

	spans := m.machine.MultiPatternSearch(folded.folded, false)
	if len(spans) == 0 {
		return input
	}

	out := []rune(input)
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(folded.origin) {
			continue
		}
		// Mask everything between the first and last matched original rune,
		// including the noise characters the folding skipped over.
		from := folded.origin[start]
		to := folded.origin[end-1]
		for i := from; i <= to; i++ {
			out[i] = m.replacement
		}
	}
	return string(out)
}

func fold(input string) mapping {
	runes := []rune(input)
	m := mapping{
		folded: make([]rune, 0, len(runes)),
		origin: make([]int, 0, len(runes)),
	}
	for i, r := range runes {
		plain := unleet(r)
		if isNoise(plain) {
			continue
		}
		m.folded = append(m.folded, unicode.ToLower(plain))
		m.origin = append(m.origin, i)
	}
	return m
}

func foldRunes(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		plain := unleet(r)
		if isNoise(plain) {
			continue
		}
		out = append(out, unicode.ToLower(plain))
	}
	return out
}

// unleet maps common leet speak characters back to their alphabet counterpart.
func unleet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	case '7':
		return 't'
	default:
		return r
	}
}

// isNoise marks characters ignored during pattern matching.
func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
