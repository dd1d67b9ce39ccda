package commitmsg

import (
	"log/slog"
	"strings"
)

const (
	begin = "--- git-extra template begin ---"
	end   = "--- git-extra template end ---"
)

// extractSource returns the template source recorded in a
// commit message between begin/end markers, or "" when
// the block is absent or unterminated.
func extractSource(msg string) string {
	var lines []string

	betweenMarkers := false

	for _, line := range strings.Split(msg, "\n") {
		switch line {
		case begin:
			betweenMarkers = true
		case end:
			betweenMarkers = false
		default:
			if betweenMarkers {
				lines = append(lines, line)
			}
		}
	}

	if betweenMarkers {
		slog.Warn("unable to find end marker in commit message")

		return ""
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Generate produces a commit message with title as its
// subject and source recorded between begin/end markers.
func Generate(title, source string) string {
	var sb strings.Builder

	sb.WriteString(title)
	sb.WriteString("\n\n")
	sb.WriteString(begin)
	sb.WriteByte('\n')
	sb.WriteString(source)
	sb.WriteByte('\n')
	sb.WriteString(end)
	sb.WriteByte('\n')

	return sb.String()
}
