package language

import "strings"

// romanHindiWords are common Hindi words as they appear when typed in Latin
// script. Matching is substring-based, mirroring how transcripts arrive from
// the speech model (no reliable word boundaries in mixed-script input).
var romanHindiWords = []string{
	"kaise", "kya", "hai", "mein", "ki", "ka", "se", "par", "ho", "raha", "rahi",
	"chahta", "chahti", "nahi", "kyun", "kahan", "kaun", "kis", "kisi", "apna",
	"mera", "tera", "hamara", "tumhara", "accha", "bura", "sahi", "galat",
}

// mixedPhrases catch code-switched questions that carry no standalone Hindi
// word but are still asked by Hindi speakers.
var mixedPhrases = []string{
	"tell me about", "construction site", "site status", "progress kya",
	"kaise hai", "kya hai", "mein kya", "ki progress", "ka status",
}

// Detect classifies an utterance. The checks are ordered by reliability:
// any Devanagari rune wins outright, then the romanized word list, then the
// mixed-phrase list. Absence of signal defaults to English, so the empty
// string is English. Detection never fails.
//
// Substring matching can false-positive on English text that happens to
// contain one of the letter sequences; the classifier errs toward Hindi.
func Detect(text string) Language {
	for _, r := range text {
		if r >= 0x0900 && r <= 0x097F {
			return Hindi
		}
	}

	lower := strings.ToLower(strings.TrimSpace(text))

	for _, word := range romanHindiWords {
		if strings.Contains(lower, word) {
			return Hindi
		}
	}

	for _, phrase := range mixedPhrases {
		if strings.Contains(lower, phrase) {
			return Hindi
		}
	}

	return English
}
