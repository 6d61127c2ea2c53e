package sender

import (
	"strings"
	"unicode/utf16"
)

// MaxMessageLength is the Bot API limit for one text message. Telegram
// counts it in UTF-16 code units, so most emoji take two.
const MaxMessageLength = 4096

// MaxCaptionLength is the Bot API limit for a media caption, in UTF-16 code units
const MaxCaptionLength = 1024

// TextLength returns the length of s as Telegram measures it
func TextLength(s string) int {
	n := 0
	for _, r := range s {
		n += runeUnits(r)
	}
	return n
}

func runeUnits(r rune) int {
	if n := len(utf16.Encode([]rune{r})); n > 0 {
		return n
	}
	return 1
}

// SplitText cuts text into chunks of at most limit UTF-16 code units. Chunks
// end at line breaks where possible; a single overlong line is cut hard
// between runes.
func SplitText(text string, limit int) []string {
	if limit <= 0 || TextLength(text) <= limit {
		return []string{text}
	}

	var (
		chunks []string
		cur    strings.Builder
		curLen int
	)

	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, strings.TrimRight(cur.String(), "\n"))
			cur.Reset()
			curLen = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		n := TextLength(line)

		if curLen+n > limit {
			flush()
		}

		for n > limit {
			head, rest := cutUnits(line, limit)
			chunks = append(chunks, head)
			line = rest
			n = TextLength(line)
		}

		cur.WriteString(line)
		curLen += n
	}
	flush()

	return chunks
}

// cutUnits splits s after the longest prefix of at most limit code units.
// The prefix holds at least one rune.
func cutUnits(s string, limit int) (string, string) {
	used := 0
	for i, r := range s {
		u := runeUnits(r)
		if used+u > limit && i > 0 {
			return s[:i], s[i:]
		}
		used += u
	}
	return s, ""
}
