package content

import "strings"

// UsagePrefix is what the backend stores in front of every herb-library
// description. The form shows the bare text; the prefix is re-applied on save.
const UsagePrefix = "Công dụng:"

// Persisted records have accumulated a few spellings of the prefix over time.
// Stripping must recognize all of them or old records become uneditable.
var usagePrefixVariants = []string{
	"Công dụng:",
	"Công dụng :",
	"công dụng:",
	"CÔNG DỤNG:",
}

// StripUsagePrefix removes every leading usage prefix from s, repeatedly, so
// a description that was double-prefixed by an earlier bug comes back clean.
func StripUsagePrefix(s string) string {
	s = strings.TrimSpace(s)
	for {
		stripped := false
		for _, prefix := range usagePrefixVariants {
			if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
				s = strings.TrimSpace(s[len(prefix):])
				stripped = true
				break
			}
		}
		if !stripped {
			return s
		}
	}
}

// ApplyUsagePrefix returns the persisted form of a description: stripped of
// any prefixes the user may have typed, then prefixed exactly once. An empty
// description still gets the prefix, matching what the backend has always
// stored.
func ApplyUsagePrefix(s string) string {
	s = StripUsagePrefix(s)
	if s == "" {
		return UsagePrefix + " "
	}
	return UsagePrefix + " " + s
}
