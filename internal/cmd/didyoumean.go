package cmd

import "strings"

// levenshtein computes the edit distance between two strings, operating on a
// single reusable row instead of the full matrix.
func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	row := make([]int, lb+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= la; i++ {
		prev := i - 1
		row[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			val := min(row[j]+1, row[j-1]+1, prev+cost)
			prev = row[j]
			row[j] = val
		}
	}
	return row[lb]
}

// Suggestions only fire when the typo is close; "vx prodcts" should offer
// products, but unrelated input should not offer anything.
const maxSuggestDistance = 3

// suggestCommand returns the command name closest to the unknown input, or ""
// when nothing is within the distance threshold.
func suggestCommand(unknown string, commands []string) string {
	unknown = strings.ToLower(unknown)
	bestDist := maxSuggestDistance + 1
	bestMatch := ""
	for _, cmd := range commands {
		d := levenshtein(unknown, strings.ToLower(cmd))
		if d < bestDist {
			bestDist = d
			bestMatch = cmd
		}
	}
	return bestMatch
}

// suggestFlag matches like suggestCommand but ignores leading dashes, so
// "--outpt" and "-outpt" both resolve to --output. The returned match keeps
// its original prefix.
func suggestFlag(unknown string, flags []string) string {
	stripped := strings.TrimLeft(unknown, "-")
	if stripped == "" {
		return ""
	}
	stripped = strings.ToLower(stripped)
	bestDist := maxSuggestDistance + 1
	bestMatch := ""
	for _, f := range flags {
		fStripped := strings.TrimLeft(f, "-")
		d := levenshtein(stripped, strings.ToLower(fStripped))
		if d < bestDist {
			bestDist = d
			bestMatch = f
		}
	}
	return bestMatch
}
