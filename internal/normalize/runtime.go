package normalize

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	hourMinRe  = regexp.MustCompile(`(\d+)\s*시간\s*(\d+)\s*분`)
	hourOnlyRe = regexp.MustCompile(`(\d+)\s*시간`)
	minOnlyRe  = regexp.MustCompile(`(\d+)\s*분`)
	unitRe     = regexp.MustCompile(`시간|분`)
	intRe      = regexp.MustCompile(`\d+`)
	minTailRe  = regexp.MustCompile(`\s*분\s*$`)
)

// RuntimeMinutes parses a running-time label like "1시간 10분" or "75분" into
// minutes. Text that looks like a schedule instead of a duration — a weekday
// token, a range separator, or a colon — is rejected, as is text without a
// 시간/분 unit.
func RuntimeMinutes(text string) (int, bool) {
	t := CleanText(text)
	if dayRe.MatchString(t) || strings.ContainsAny(t, "~:") {
		return 0, false
	}
	if !unitRe.MatchString(t) {
		return 0, false
	}
	if m := hourMinRe.FindStringSubmatch(t); m != nil {
		return atoi(m[1])*60 + atoi(m[2]), true
	}
	if m := hourOnlyRe.FindStringSubmatch(t); m != nil {
		return atoi(m[1]) * 60, true
	}
	if m := minOnlyRe.FindStringSubmatch(t); m != nil {
		return atoi(m[1]), true
	}
	return 0, false
}

// RuntimeLabel canonicalizes any runtime spelling ("70", "70분", "70 min",
// "70분(예정)") into "<N>분". Without a digit the cleaned text gets a 분 suffix;
// empty input stays empty.
func RuntimeLabel(s string) string {
	if m := intRe.FindString(s); m != "" {
		return fmt.Sprintf("%d분", atoi(m))
	}
	t := Key(s)
	t = minTailRe.ReplaceAllString(t, "")
	if t == "" {
		return ""
	}
	return t + "분"
}
