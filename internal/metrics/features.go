package metrics

import (
	"strings"
	"unicode/utf8"
)

// Features holds basic local text features derived from one utterance.
type Features struct {
	Bytes     int
	Runes     int
	Words     int
	Lines     int
	Sentences int
}

// CountFeatures computes byte, rune, word, line, and sentence counts for s.
func CountFeatures(s string) Features {
	return Features{
		Bytes:     len(s),
		Runes:     utf8.RuneCountInString(s),
		Words:     countWords(s),
		Lines:     countLines(s),
		Sentences: countSentences(s),
	}
}

// countWords counts words split on Unicode whitespace.
func countWords(s string) int {
	return len(strings.Fields(s))
}

// countLines returns 0 for empty strings; otherwise 1 plus the number of '\n' runes.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return 1 + strings.Count(s, "\n")
}

// countSentences counts runs of sentence-ending punctuation (. ! ?).
// Trailing text without a terminator counts as one more sentence.
func countSentences(s string) int {
	n := 0
	inTerm := false
	tail := false
	for _, r := range s {
		switch r {
		case '.', '!', '?':
			if !inTerm {
				n++
				inTerm = true
				tail = false
			}
		default:
			inTerm = false
			if !isSpace(r) {
				tail = true
			}
		}
	}
	if tail {
		n++
	}
	return n
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
