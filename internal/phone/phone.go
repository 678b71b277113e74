// Package phone canonicalizes raw phone-number strings into comparable
// identity keys.
package phone

import "strings"

// Normalize trims surrounding whitespace and nothing else: no E.164
// reformatting, no digit stripping. It is total and idempotent; empty input
// stays empty, which callers treat as "absent".
func Normalize(raw string) string {
	return strings.TrimSpace(raw)
}
