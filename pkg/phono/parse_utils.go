package phono

import "strings"

// stripCommentAndTrim removes trailing whitespace and drops whole-line
// comments introduced by ';;' or '#'.
func stripCommentAndTrim(line string) string {
	line = strings.TrimRight(line, " \t\r")
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, ";;") {
		return ""
	}
	return line
}
