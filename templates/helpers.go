package templates

import (
	"strings"

	"github.com/google/uuid"
)

var dotReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// dotEscape makes s safe inside a double-quoted DOT id.
func dotEscape(s string) string {
	return dotReplacer.Replace(s)
}

func shortID(id uuid.UUID) string {
	var sb strings.Builder
	sb.WriteString("o")
	sb.WriteString(strings.ReplaceAll(id.String(), "-", "")[:12])
	return sb.String()
}
