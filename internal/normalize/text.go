// Package normalize holds the pure text normalizers shared by every scrape job.
// Each function takes text in and returns canonical text out; a miss is an empty
// string (or a false ok), never an error.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	footnoteRe   = regexp.MustCompile(`\[[^\]]*\]`)
	ctrlRe       = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f]")
	bracketRe    = regexp.MustCompile(`[《》〈〉«»「」『』<>]`)
	dblAngleRe   = regexp.MustCompile(`<<|>>`)
	quoteRe      = regexp.MustCompile("[《》〈〉«»「」『』“”‘’\"'`]+")
	filenameRe   = regexp.MustCompile(`[\\/:*?"<>|]+`)
	dramaTailRe  = regexp.MustCompile(`\s*\(드라마\)\s*$`)
	personTailRe = regexp.MustCompile(`\s*\(배우\)\s*$`)
)

// StripCtrl removes control characters that break CSV round-trips.
func StripCtrl(s string) string {
	if s == "" {
		return ""
	}
	return ctrlRe.ReplaceAllString(s, "")
}

// CleanText strips footnote markers like [1] or [주 3], collapses whitespace,
// and drops control characters.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	t := footnoteRe.ReplaceAllString(s, "")
	t = strings.Join(strings.Fields(t), " ")
	return strings.TrimSpace(StripCtrl(t))
}

// StripBrackets removes the title bracket glyphs 《》〈〉«»「」『』<> and the
// ASCII digraphs << >>, then collapses interior whitespace. Hangul content is
// untouched.
func StripBrackets(title string) string {
	if title == "" {
		return ""
	}
	t := dblAngleRe.ReplaceAllString(title, "")
	t = bracketRe.ReplaceAllString(t, "")
	return strings.Join(strings.Fields(t), " ")
}

// Key produces the normalization key used to join records across CSV files:
// NFC form, trimmed, interior whitespace collapsed. Case is preserved.
func Key(s string) string {
	t := norm.NFC.String(s)
	return strings.Join(strings.Fields(t), " ")
}

// SearchTitle prepares a scraped title for wiki/API lookup: quote glyphs and a
// trailing "(드라마)" disambiguator are removed.
func SearchTitle(s string) string {
	t := strings.TrimSpace(s)
	t = dramaTailRe.ReplaceAllString(t, "")
	t = quoteRe.ReplaceAllString(t, "")
	t = strings.Join(strings.Fields(t), " ")
	return strings.Trim(t, " .")
}

// PersonTitle prepares an actor name for wiki lookup, dropping a trailing
// "(배우)" disambiguator.
func PersonTitle(s string) string {
	t := strings.TrimSpace(s)
	t = personTailRe.ReplaceAllString(t, "")
	t = quoteRe.ReplaceAllString(t, "")
	t = strings.Join(strings.Fields(t), " ")
	return strings.Trim(t, " .")
}

// Filename replaces characters that are unsafe in file names.
func Filename(s string) string {
	t := strings.TrimSpace(filenameRe.ReplaceAllString(s, "_"))
	if t == "" {
		return "untitled"
	}
	return t
}
