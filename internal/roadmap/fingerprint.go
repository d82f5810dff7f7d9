package roadmap

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes a document with the generated timestamp blanked out, so
// two renders of the same counts at different times compare equal.
func Fingerprint(text string) uint64 {
	d := xxhash.New()
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			_, _ = d.WriteString("\n")
		}
		if strings.HasPrefix(line, timestampPrefix) {
			line = timestampPrefix
		}
		_, _ = d.WriteString(line)
	}
	return d.Sum64()
}

// ContentHash hashes a document verbatim.
func ContentHash(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// splitLines splits text into lines, dropping a trailing carriage return so
// CRLF documents parse like LF ones.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
