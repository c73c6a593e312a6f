package line

import "strings"

// splitText cuts text into pieces of at most limit runes, preferring line
// breaks. Lines longer than limit are cut hard.
func splitText(text string, limit int) []string {
	if limit < 1 || runeLen(text) <= limit {
		return []string{text}
	}

	var (
		out     []string
		current strings.Builder
		size    int
	)
	flush := func() {
		if size == 0 {
			return
		}
		out = append(out, strings.TrimRight(current.String(), "\n"))
		current.Reset()
		size = 0
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		n := runeLen(line)
		if size+n > limit {
			flush()
		}
		for n > limit {
			head, rest := cutRunes(line, limit)
			out = append(out, head)
			line = rest
			n = runeLen(line)
		}
		current.WriteString(line)
		size += n
	}
	flush()

	return out
}

func runeLen(s string) int {
	return len([]rune(s))
}

func cutRunes(s string, n int) (string, string) {
	runes := []rune(s)
	return string(runes[:n]), string(runes[n:])
}
