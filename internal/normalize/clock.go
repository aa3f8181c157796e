package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Meridiem is the am/pm context attached to a clock reading.
type Meridiem int

const (
	NoMeridiem Meridiem = iota
	AM
	PM
)

// meridiemTokens maps each am/pm marker word to its meaning. "낮" carries no
// usable context and is listed only so the regex consumes it.
var meridiemTokens = map[string]Meridiem{
	"오전":  AM,
	"새벽":  AM,
	"AM":  AM,
	"am":  AM,
	"오후":  PM,
	"저녁":  PM,
	"밤":   PM,
	"늦은밤": PM,
	"PM":  PM,
	"pm":  PM,
	"낮":   NoMeridiem,
}

// specialWords rewrites colloquial midnight/noon phrases into the plain
// 오전/오후 forms the clock parser understands.
var specialWords = []struct {
	re  *regexp.Regexp
	out string
}{
	{regexp.MustCompile(`밤\s*12\s*시`), "오전 12시"},
	{regexp.MustCompile(`자정\s*12\s*시`), "오전 12시"},
	{regexp.MustCompile(`자정`), "오전 12시"},
	{regexp.MustCompile(`정오\s*12\s*시`), "오후 12시"},
	{regexp.MustCompile(`정오`), "오후 12시"},
}

// dayTokens are the single-character weekday markers in schedule order.
const dayTokens = "월화수목금토일"

var (
	dayRe        = regexp.MustCompile(`([월화수목금토일])요일`)
	dayPairRe    = regexp.MustCompile(`([월화수목금토일])\s*·\s*([월화수목금토일])`)
	dayConnectRe = regexp.MustCompile(`([월화수목금토일])[·,/\s]*(?:및)?[·,/\s]*([월화수목금토일])`)

	meridiemWord = `(오전|오후|밤|새벽|저녁|낮)?`
	colonPairRe  = regexp.MustCompile(meridiemWord + `\s*(\d{1,2}):(\d{2}).*?[~\-–—]\s*` + meridiemWord + `\s*(\d{1,2}):(\d{2})`)
	colonRe      = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	hangulPairRe = regexp.MustCompile(meridiemWord + `\s*(\d{1,2})\s*시(?:\s*(\d{1,2})\s*분)?\s*[~\-–—]\s*` +
		meridiemWord + `\s*(\d{1,2})\s*시(?:\s*(\d{1,2})\s*분)?`)
	hangulOneRe = regexp.MustCompile(meridiemWord + `\s*(\d{1,2})\s*시(?:\s*(\d{1,2})\s*분)?`)

	amContextRe = regexp.MustCompile(`오전|새벽|\bAM\b|\bam\b`)
	pmContextRe = regexp.MustCompile(`오후|저녁|늦은밤|밤|\bPM\b|\bpm\b`)
)

// NormalizeSpecialWords applies the midnight/noon rewrite table.
func NormalizeSpecialWords(s string) string {
	t := s
	for _, w := range specialWords {
		t = w.re.ReplaceAllString(t, w.out)
	}
	return t
}

// MeridiemOf classifies a marker word; empty or unknown words yield NoMeridiem.
func MeridiemOf(word string) Meridiem {
	return meridiemTokens[strings.TrimSpace(word)]
}

// ExtractDays returns the weekday tokens named in text as "X요일" strings,
// deduplicated in order of appearance. Joined pairs like "수·목", "수/목",
// "수, 목" and "수 및 목" are expanded first.
func ExtractDays(text string) []string {
	t := dayPairRe.ReplaceAllString(text, "${1}요일 ${2}요일")
	t = dayConnectRe.ReplaceAllString(t, "${1}요일 ${2}요일")

	var out []string
	seen := make(map[string]bool)
	for _, m := range dayRe.FindAllStringSubmatch(t, -1) {
		d := m[1] + "요일"
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}

// to24Hour converts an 1-12 clock hour under a meridiem context. An hour of 12
// with an inherited (not written) PM context reads as midnight: "오후 10시 ~
// 12시" ends at 00:00, not noon.
func to24Hour(h int, m Meridiem, explicit bool) int {
	if h < 0 {
		h = 0
	}
	// A meridiem marker implies a 12-hour reading; without one an hour
	// above 12 is already on the 24-hour clock.
	if m != NoMeridiem && h > 12 {
		h = 12
	}
	if h > 23 {
		h = 23
	}
	switch m {
	case AM:
		if h == 12 {
			return 0
		}
		return h
	case PM:
		if h == 12 {
			if explicit {
				return 12
			}
			return 0
		}
		return h + 12
	default:
		return h
	}
}

func clock(h, m int) string { return fmt.Sprintf("%02d:%02d", h, m) }

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// pairContext resolves the left/right meridiem for a time range: each side
// keeps its own marker, and a side without one inherits the other side's.
func pairContext(leftWord, rightWord string) (left, right Meridiem, leftExplicit, rightExplicit bool) {
	left = MeridiemOf(leftWord)
	right = MeridiemOf(rightWord)
	leftExplicit = left != NoMeridiem
	rightExplicit = right != NoMeridiem
	if right == NoMeridiem {
		right = left
	}
	if left == NoMeridiem {
		left = right
	}
	return left, right, leftExplicit, rightExplicit
}

// TimeRange extracts a 24-hour "HH:MM" or "HH:MM~HH:MM" reading from a
// broadcast-time cell. Empty string when no clock token is present.
func TimeRange(text string) string {
	t := NormalizeSpecialWords(CleanText(text))

	// HH:MM ~ HH:MM with per-side markers.
	if m := colonPairRe.FindStringSubmatch(t); m != nil {
		l, r, le, re := pairContext(m[1], m[4])
		return clock(to24Hour(atoi(m[2]), l, le), atoi(m[3])) + "~" +
			clock(to24Hour(atoi(m[5]), r, re), atoi(m[6]))
	}

	// Bare colon times under a sentence-wide context.
	ctx := NoMeridiem
	if amContextRe.MatchString(t) {
		ctx = AM
	} else if pmContextRe.MatchString(t) {
		ctx = PM
	}
	if times := colonRe.FindAllStringSubmatch(t, 2); times != nil {
		conv := func(m []string) string {
			return clock(to24Hour(atoi(m[1]), ctx, true), atoi(m[2]))
		}
		if len(times) >= 2 {
			return conv(times[0]) + "~" + conv(times[1])
		}
		return conv(times[0])
	}

	// Hangul range: (오전/오후)? H시 M분? ~ (오전/오후)? H시 M분?
	if m := hangulPairRe.FindStringSubmatch(t); m != nil {
		l, r, le, re := pairContext(m[1], m[4])
		return clock(to24Hour(atoi(m[2]), l, le), atoi(m[3])) + "~" +
			clock(to24Hour(atoi(m[5]), r, re), atoi(m[6]))
	}

	// Single Hangul clock.
	if m := hangulOneRe.FindStringSubmatch(t); m != nil {
		return clock(to24Hour(atoi(m[2]), MeridiemOf(m[1]), true), atoi(m[3]))
	}

	return ""
}

// InferRuntime fills an empty runtime from a "HH:MM~HH:MM" slot by taking the
// end-start difference (midnight wrap allowed). A label-derived runtime is
// never overwritten, and the inferred value must land inside [minOK, maxOK].
func InferRuntime(startTime, runtime string, minOK, maxOK int) string {
	if runtime != "" {
		return runtime
	}
	left, right, ok := strings.Cut(startTime, "~")
	if !ok {
		return runtime
	}
	lh, lm, ok1 := splitClock(left)
	rh, rm, ok2 := splitClock(right)
	if !ok1 || !ok2 {
		return runtime
	}
	diff := (rh*60 + rm) - (lh*60 + lm)
	if diff < 0 {
		diff += 24 * 60
	}
	if diff < minOK || diff > maxOK {
		return runtime
	}
	return fmt.Sprintf("%d분", diff)
}

func splitClock(s string) (h, m int, ok bool) {
	hs, ms, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return 0, 0, false
	}
	h, err1 := strconv.Atoi(hs)
	m, err2 := strconv.Atoi(ms)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return h, m, true
}
