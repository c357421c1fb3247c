// Package textmatch tokenizes dataset text and finds near matches for
// misspelled county, state and occupation keys.
package textmatch

import (
	"regexp"
	"sort"
	"strings"
)

// Word lengths at which one and two typos are tolerated.
const (
	MinWordSizeFor1Typo  = 4
	MinWordSizeFor2Typos = 7
)

// nonAlphanumericRegex matches sequences of non-alphanumeric characters.
var nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Tokenize lowercases text and splits it on non-alphanumeric characters.
// "15-1252.00" yields "15", "1252", "00".
func Tokenize(text string) []string {
	split := nonAlphanumericRegex.Split(strings.ToLower(text), -1)

	tokens := make([]string, 0, len(split))
	for _, s := range split {
		if s != "" {
			tokens = append(tokens, s)
		}
	}
	return tokens
}

// MatchesAll reports whether every query token is a prefix of some token
// of text. An empty query matches everything.
func MatchesAll(text string, query []string) bool {
	if len(query) == 0 {
		return true
	}
	tokens := Tokenize(text)
	for _, q := range query {
		found := false
		for _, tok := range tokens {
			if strings.HasPrefix(tok, q) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// MaxTypos returns how many edits a term of this length may carry.
func MaxTypos(term string) int {
	n := len([]rune(term))
	switch {
	case n >= MinWordSizeFor2Typos:
		return 2
	case n >= MinWordSizeFor1Typo:
		return 1
	default:
		return 0
	}
}

// Distance is the Damerau-Levenshtein distance (adjacent transpositions
// count as one edit). Once the distance is known to exceed maxDistance it
// stops and returns maxDistance + 1.
func Distance(a, b string, maxDistance int) int {
	runesA := []rune(a)
	runesB := []rune(b)
	lenA, lenB := len(runesA), len(runesB)

	lengthDiff := lenA - lenB
	if lengthDiff < 0 {
		lengthDiff = -lengthDiff
	}
	if lengthDiff > maxDistance {
		return maxDistance + 1
	}
	if lenA == 0 {
		return lenB
	}
	if lenB == 0 {
		return lenA
	}

	// Three rows: i-2 is needed for transpositions.
	prevPrevRow := make([]int, lenB+1)
	prevRow := make([]int, lenB+1)
	currRow := make([]int, lenB+1)
	for j := 0; j <= lenB; j++ {
		prevRow[j] = j
	}

	for i := 1; i <= lenA; i++ {
		currRow[0] = i
		minInRow := i

		for j := 1; j <= lenB; j++ {
			cost := 0
			if runesA[i-1] != runesB[j-1] {
				cost = 1
			}
			currRow[j] = min(prevRow[j]+1, currRow[j-1]+1, prevRow[j-1]+cost)

			if i > 1 && j > 1 && runesA[i-1] == runesB[j-2] && runesA[i-2] == runesB[j-1] {
				currRow[j] = min(currRow[j], prevPrevRow[j-2]+1)
			}
			minInRow = min(minInRow, currRow[j])
		}

		if minInRow > maxDistance {
			return maxDistance + 1
		}
		prevPrevRow, prevRow, currRow = prevRow, currRow, prevPrevRow
	}

	return prevRow[lenB]
}

type scored struct {
	value    string
	distance int
}

// Suggest returns up to maxResults candidates close to term, nearest
// first. Comparison ignores case. Candidates that start with term rank
// ahead of everything else, so "Fresno" finds "Fresno County" and
// "15-1252" finds "15-1252.00".
func Suggest(term string, candidates []string, maxResults int) []string {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" || maxResults <= 0 {
		return nil
	}
	maxDistance := MaxTypos(needle)

	var matches []scored
	for _, c := range candidates {
		lower := strings.ToLower(c)
		if lower == needle {
			continue
		}
		if strings.HasPrefix(lower, needle) {
			matches = append(matches, scored{value: c, distance: -1})
			continue
		}
		if maxDistance == 0 {
			continue
		}
		if d := Distance(needle, lower, maxDistance); d <= maxDistance {
			matches = append(matches, scored{value: c, distance: d})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].distance != matches[j].distance {
			return matches[i].distance < matches[j].distance
		}
		return matches[i].value < matches[j].value
	})

	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.value
	}
	return out
}
