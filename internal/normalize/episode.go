package normalize

import "fmt"

// EpisodeNo normalizes any string with a leading or embedded integer to
// "<N>화". A string without a digit passes through unchanged.
func EpisodeNo(s string) string {
	t := CleanText(s)
	if m := intRe.FindString(t); m != "" {
		return fmt.Sprintf("%d화", atoi(m))
	}
	return t
}

// EpisodeNum returns the integer inside an episode label, for sorting.
// Labels without a digit sort last.
func EpisodeNum(s string) int {
	if m := intRe.FindString(s); m != "" {
		return atoi(m)
	}
	return 1 << 30
}

// EpisodeCount normalizes an episode-count cell ("16", "16부작", "총 16회")
// into "<N>부작". Empty string when no digit is found.
func EpisodeCount(s string) string {
	t := CleanText(s)
	if t == "" {
		return ""
	}
	if m := intRe.FindString(t); m != "" {
		return fmt.Sprintf("%d부작", atoi(m))
	}
	return ""
}
