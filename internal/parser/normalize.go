package parser

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var numberWords = map[string]string{
	"zero":      "0",
	"one":       "1",
	"two":       "2",
	"three":     "3",
	"four":      "4",
	"five":      "5",
	"six":       "6",
	"seven":     "7",
	"eight":     "8",
	"nine":      "9",
	"ten":       "10",
	"eleven":    "11",
	"twelve":    "12",
	"thirteen":  "13",
	"fourteen":  "14",
	"fifteen":   "15",
	"sixteen":   "16",
	"seventeen": "17",
	"eighteen":  "18",
	"nineteen":  "19",
	"twenty":    "20",
	"thirty":    "30",
	"forty":     "40",
	"fifty":     "50",
	"sixty":     "60",
}

var (
	numberWordPattern = regexp.MustCompile(`(?i)\b(zero|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|thirteen|fourteen|fifteen|sixteen|seventeen|eighteen|nineteen|twenty|thirty|forty|fifty|sixty)\b`)
	andWord           = regexp.MustCompile(`\band\b`)
	iDidPhrase        = regexp.MustCompile(`\bi did\b`)
	longDashes        = regexp.MustCompile(`[–—]`)
	articleA          = regexp.MustCompile(`\ba\b`)
)

// Normalize rewrites raw text into the canonical surface form the extractor
// expects: number words become digits, text is lowercased, "and" becomes a
// clause separator, "i did" is dropped, long dashes become hyphens and a
// standalone "a" becomes "1".
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	out := norm.NFKC.String(text)
	out = replaceNumberWords(out)
	out = strings.ToLower(out)
	out = andWord.ReplaceAllString(out, ",")
	out = iDidPhrase.ReplaceAllString(out, "")
	out = longDashes.ReplaceAllString(out, "-")
	out = articleA.ReplaceAllString(out, "1")
	return out
}

func replaceNumberWords(text string) string {
	return numberWordPattern.ReplaceAllStringFunc(text, func(word string) string {
		return numberWords[strings.ToLower(word)]
	})
}
