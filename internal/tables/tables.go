// Package tables reads the hand-maintained tab-separated personnel and service tables.
package tables

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonathan/academic-cv/internal/types"
)

// Column names required in people.tsv.
var PeopleColumns = []string{"First", "Last", "Stage", "Start", "Stop", "URL", "Note"}

// ServiceColumn is the column required in service.tsv.
const ServiceColumn = "Service"

// MalformedTableError represents a table that cannot be read or whose rows
// do not satisfy the schema. Line is 0 when the problem is not tied to a row.
type MalformedTableError struct {
	Path    string
	Line    int
	Message string
	Cause   error
}

func (e *MalformedTableError) Error() string {
	where := e.Path
	if e.Line > 0 {
		where = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	if e.Cause != nil {
		return fmt.Sprintf("malformed table %s: %s: %v", where, e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed table %s: %s", where, e.Message)
}

func (e *MalformedTableError) Unwrap() error {
	return e.Cause
}

// ErrMalformedTable matches any *MalformedTableError with errors.Is.
var ErrMalformedTable = errors.New("malformed table")

// Is lets errors.Is(err, ErrMalformedTable) succeed.
func (e *MalformedTableError) Is(target error) bool {
	return target == ErrMalformedTable
}

// table is a header-indexed view over the rows of a TSV file.
type table struct {
	path    string
	columns map[string]int
	rows    [][]string
	lines   []int
}

func readTable(r io.Reader, path string, required []string) (*table, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &MalformedTableError{Path: path, Message: "missing header row"}
	}
	if err != nil {
		return nil, &MalformedTableError{Path: path, Message: "reading header", Cause: err}
	}

	t := &table{path: path, columns: make(map[string]int, len(header))}
	for i, col := range header {
		col = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		if _, dup := t.columns[col]; !dup {
			t.columns[col] = i
		}
	}
	var missing []string
	for _, col := range required {
		if _, ok := t.columns[strings.ToLower(col)]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MalformedTableError{Path: path, Line: 1, Message: "missing columns: " + strings.Join(missing, ", ")}
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line, _ := reader.FieldPos(0)
		if err != nil {
			return nil, &MalformedTableError{Path: path, Line: line, Message: "reading row", Cause: err}
		}
		if blank(row) {
			continue
		}
		t.rows = append(t.rows, row)
		t.lines = append(t.lines, line)
	}
	return t, nil
}

// get returns the trimmed cell for a column, or "" when the row is short.
func (t *table) get(row []string, column string) string {
	i, ok := t.columns[strings.ToLower(column)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ReadPeople loads and validates the personnel table at path.
func ReadPeople(path string) ([]types.PersonRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &MalformedTableError{Path: path, Message: "opening table", Cause: err}
	}
	defer f.Close()
	return ParsePeople(f, path)
}

// ParsePeople reads personnel rows. A Stop of "present" is stored as empty.
// Any invalid row fails the whole table.
func ParsePeople(r io.Reader, path string) ([]types.PersonRecord, error) {
	t, err := readTable(r, path, PeopleColumns)
	if err != nil {
		return nil, err
	}

	people := make([]types.PersonRecord, 0, len(t.rows))
	for i, row := range t.rows {
		p := types.PersonRecord{
			First: t.get(row, "First"),
			Last:  t.get(row, "Last"),
			Stage: types.Stage(t.get(row, "Stage")),
			Start: t.get(row, "Start"),
			Stop:  t.get(row, "Stop"),
			URL:   t.get(row, "URL"),
			Note:  t.get(row, "Note"),
		}
		if strings.EqualFold(p.Stop, "present") {
			p.Stop = ""
		}
		if err := p.Validate(); err != nil {
			return nil, &MalformedTableError{Path: path, Line: t.lines[i], Message: "invalid row", Cause: err}
		}
		people = append(people, p)
	}
	return people, nil
}

// ReadService loads the service table at path.
func ReadService(path string) ([]types.ServiceEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &MalformedTableError{Path: path, Message: "opening table", Cause: err}
	}
	defer f.Close()
	return ParseService(f, path)
}

// ParseService reads service rows, skipping rows whose Service cell is empty.
func ParseService(r io.Reader, path string) ([]types.ServiceEntry, error) {
	t, err := readTable(r, path, []string{ServiceColumn})
	if err != nil {
		return nil, err
	}
	entries := make([]types.ServiceEntry, 0, len(t.rows))
	for _, row := range t.rows {
		if text := t.get(row, ServiceColumn); text != "" {
			entries = append(entries, types.ServiceEntry{Text: text})
		}
	}
	return entries, nil
}
