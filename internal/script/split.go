package script

import (
	"errors"
	"strings"
)

// ErrEmptyScript means no sentences could be extracted, so there is nothing
// to narrate. Raised before any synthesis call is made.
var ErrEmptyScript = errors.New("script contains no sentences")

// terminators end a sentence. The danda covers Hindi and related scripts.
var terminators = map[rune]bool{'.': true, '!': true, '?': true, '।': true}

// SplitSentences breaks a narration script into sentence units. Fragments
// are trimmed, empty ones dropped, and the terminator re-appended so the
// speech engine keeps its pause intonation. A trailing fragment with no
// terminator is kept as a sentence of its own, with a period appended.
func SplitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var b strings.Builder
	for _, r := range text {
		if terminators[r] {
			if s := strings.TrimSpace(b.String()); s != "" {
				sentences = append(sentences, s+string(r))
			}
			b.Reset()
			continue
		}
		b.WriteRune(r)
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s+".")
	}
	return sentences
}
