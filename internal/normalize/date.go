package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date is a parsed calendar date. Month and Day default to 1 when the source
// text omits them.
type Date struct {
	Year  int
	Month int
	Day   int
}

// Time converts to a time.Time at midnight local time.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.Local)
}

var (
	nonDateRe = regexp.MustCompile(`[^0-9\-]`)
	sepRunRe  = regexp.MustCompile(`-+`)
	dotJoinRe = regexp.MustCompile("[. \\s]+")
	dotDateRe = regexp.MustCompile(`(\d{4})\.(\d{1,2})\.(\d{1,2})`)
)

// ParseDate recognizes "2025년 1월 3일", "2025.1.3", and "2025-01-03" style
// tokens. A missing month or day defaults to 1. Malformed input returns
// ok=false, never a panic.
func ParseDate(s string) (Date, bool) {
	t := strings.TrimSpace(s)
	if t == "" {
		return Date{}, false
	}
	// Drop trailing parentheticals like "(42세)" before digit filtering.
	if i := strings.IndexAny(t, "(（"); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	t = strings.ReplaceAll(t, "년", "-")
	t = strings.ReplaceAll(t, "월", "-")
	t = strings.ReplaceAll(t, "일", "")
	t = dotJoinRe.ReplaceAllString(t, "-")
	t = nonDateRe.ReplaceAllString(t, "")
	t = strings.Trim(sepRunRe.ReplaceAllString(t, "-"), "-")

	parts := strings.Split(t, "-")
	if len(parts) == 0 || parts[0] == "" {
		return Date{}, false
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil {
		return Date{}, false
	}
	d := Date{Year: y, Month: 1, Day: 1}
	if len(parts) > 1 {
		if m, err := strconv.Atoi(parts[1]); err == nil {
			d.Month = m
		}
	}
	if len(parts) > 2 {
		if dd, err := strconv.Atoi(parts[2]); err == nil {
			d.Day = dd
		}
	}
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 31 {
		return Date{}, false
	}
	return d, true
}

// FirstDotDate finds the first "YYYY.M.D" token in text and reformats it as
// "YYYY.MM.DD". Empty string on no match.
func FirstDotDate(text string) string {
	m := dotDateRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])
	return fmt.Sprintf("%04d.%02d.%02d", y, mo, d)
}

// SplitPeriod splits a broadcast-period cell into first/end dates.
// Preference order: two lines, then a range separator in one line, then a
// single date (start only).
func SplitPeriod(raw string) (first, end string) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ""
	}

	var lines []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) >= 2 {
		return FirstDotDate(lines[0]), FirstDotDate(lines[1])
	}

	s2 := strings.NewReplacer("–", "~", "—", "~", "-", "~").Replace(s)
	if left, right, ok := strings.Cut(s2, "~"); ok {
		return FirstDotDate(left), FirstDotDate(right)
	}
	return FirstDotDate(s), ""
}

// Broadcast status labels derived from the air dates.
const (
	StatusUpcoming = "방송 예정"
	StatusAiring   = "방영중"
	StatusEnded    = "종영"
)

// Status derives the broadcast status from first/end air dates relative to
// today. With a start but no end the show is either upcoming or airing; with
// no start the status is unknown (empty).
func Status(firstDay, endDay string, today time.Time) string {
	st, stOK := ParseDate(firstDay)
	ed, edOK := ParseDate(endDay)
	if !stOK {
		return ""
	}
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.Local)

	if !edOK {
		if day.Before(st.Time()) {
			return StatusUpcoming
		}
		return StatusAiring
	}
	switch {
	case day.Before(st.Time()):
		return StatusUpcoming
	case day.After(ed.Time()):
		return StatusEnded
	default:
		return StatusAiring
	}
}
