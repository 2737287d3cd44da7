package stream

import "strings"

// SafeBoundary returns the end of the longest prefix of text that can
// render without splitting a markdown construct, or -1 when no such
// prefix exists. A boundary sits after a paragraph break, outside any
// fenced code block, with inline markers balanced. Callers holding a
// partially received document can render the prefix and keep the tail
// for the next update.
func SafeBoundary(text string) int {
	if len(text) < 20 {
		return -1
	}
	pos := len(text)
	for {
		para := strings.LastIndex(text[:pos], "\n\n")
		if para == -1 {
			return -1
		}
		end := para + 2
		if insideFence(text[:end]) {
			pos = para
			continue
		}
		if inlineBalanced(text[:end]) {
			return end
		}
		pos = para
	}
}

// insideFence reports whether the prefix ends inside an unclosed fenced
// code block, counting fence markers at line starts.
func insideFence(prefix string) bool {
	count := 0
	for _, line := range strings.Split(prefix, "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			count++
		}
	}
	return count%2 == 1
}

// inlineBalanced reports whether emphasis, strikethrough and code span
// markers all close within text. Code spans shield the other markers.
func inlineBalanced(text string) bool {
	var bold, star, underscore, strike bool
	i := 0
	for i < len(text) {
		switch {
		case text[i] == '`':
			start := i
			for i < len(text) && text[i] == '`' {
				i++
			}
			closing := strings.Repeat("`", i-start)
			rest := strings.Index(text[i:], closing)
			if rest == -1 {
				return false
			}
			i += rest + len(closing)
		case strings.HasPrefix(text[i:], "**"):
			bold = !bold
			i += 2
		case text[i] == '*':
			star = !star
			i++
		case text[i] == '_':
			underscore = !underscore
			i++
		case strings.HasPrefix(text[i:], "~~"):
			strike = !strike
			i += 2
		default:
			i++
		}
	}
	return !bold && !star && !underscore && !strike
}
