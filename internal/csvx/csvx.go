// Package csvx reads and writes the flat CSV tables that couple the scrape
// jobs together. Reads tolerate UTF-8 (with or without BOM) and fall back to
// CP949 for files saved by legacy Korean tooling; writes are UTF-8 with BOM,
// LF line endings, and atomic (temp file then rename).
package csvx

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"github.com/kdramalab/kscrape/internal/normalize"
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// Table is an in-memory CSV table.
type Table struct {
	Headers []string
	Rows    [][]string
}

// ReadFile loads a CSV file, trying UTF-8 first and CP949 on decode failure.
func ReadFile(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	if !utf8.Valid(raw) {
		decoded, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), raw)
		if err != nil {
			return nil, fmt.Errorf("decode csv %s: %w", path, err)
		}
		raw = decoded
	}

	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}
	return &Table{Headers: records[0], Rows: records[1:]}, nil
}

// Column returns the index of the named header, or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Headers {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// ColumnAny returns the index of the first header matching any candidate.
func (t *Table) ColumnAny(candidates ...string) int {
	for _, c := range candidates {
		if i := t.Column(c); i >= 0 {
			return i
		}
	}
	return -1
}

// Get returns the cell at (row, col), or "" when the row is short.
func (t *Table) Get(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// TitleColumnCandidates are the column-name spellings accepted for a drama
// title, NameColumnCandidates those for a person name.
var (
	TitleColumnCandidates = []string{"title", "제목", "drama_title", "name"}
	NameColumnCandidates  = []string{"name", "이름", "actor_name"}
)

// TitleColumn locates the drama-title column or reports a startup error naming
// the accepted spellings.
func (t *Table) TitleColumn() (int, error) {
	if i := t.ColumnAny(TitleColumnCandidates...); i >= 0 {
		return i, nil
	}
	return -1, fmt.Errorf("no title column found (accepted: %s)", strings.Join(TitleColumnCandidates, ", "))
}

// NameColumn locates the person-name column.
func (t *Table) NameColumn() (int, error) {
	if i := t.ColumnAny(NameColumnCandidates...); i >= 0 {
		return i, nil
	}
	return -1, fmt.Errorf("no name column found (accepted: %s)", strings.Join(NameColumnCandidates, ", "))
}

// Values returns the trimmed, non-empty cells of one column in row order.
func (t *Table) Values(col int) []string {
	var out []string
	for _, row := range t.Rows {
		if v := t.Get(row, col); v != "" && !strings.EqualFold(v, "nan") {
			out = append(out, v)
		}
	}
	return out
}

// WriteFile serializes a table atomically: the rows land in a temp file in
// the target directory, which then replaces the destination. Output is UTF-8
// with BOM and LF endings; control characters are stripped from every cell.
func WriteFile(path string, headers []string, rows [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".csvx-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(utf8BOM); err != nil {
		tmp.Close()
		return fmt.Errorf("write BOM: %w", err)
	}

	w := csv.NewWriter(tmp)
	if err := w.Write(headers); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		clean := make([]string, len(row))
		for i, cell := range row {
			clean[i] = normalize.StripCtrl(cell)
		}
		if err := w.Write(clean); err != nil {
			tmp.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// DedupeBy drops rows whose key repeats, keeping the first occurrence.
// Rows with an empty key are kept as-is.
func DedupeBy(rows [][]string, key func(row []string) string) [][]string {
	seen := make(map[string]bool, len(rows))
	out := rows[:0:0]
	for _, row := range rows {
		k := key(row)
		if k != "" && seen[k] {
			continue
		}
		if k != "" {
			seen[k] = true
		}
		out = append(out, row)
	}
	return out
}

// WholeRowKey joins every cell, for full-row de-duplication.
func WholeRowKey(row []string) string {
	return strings.Join(row, "\x1f")
}
