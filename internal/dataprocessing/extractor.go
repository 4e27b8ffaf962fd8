package dataprocessing

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"proddash/pkg/contracts/domain"
)

// Mode controls what happens when a cell cannot be read.
type Mode string

const (
	// ModeFallback substitutes the field's default and carries on.
	ModeFallback Mode = "fallback"
	// ModeStrict rejects the document.
	ModeStrict Mode = "strict"
)

// DateFieldName is the name reported when the date serial falls back.
const DateFieldName = "date"

// ErrMalformedInput is returned for documents the extractor will not turn
// into a record.
var ErrMalformedInput = errors.New("malformed input")

// MalformedInputError describes why a document was rejected.
type MalformedInputError struct {
	Reason string
	Fields []string
}

func (e *MalformedInputError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s (%s)", ErrMalformedInput, e.Reason, strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("%s: %s", ErrMalformedInput, e.Reason)
}

func (e *MalformedInputError) Unwrap() error {
	return ErrMalformedInput
}

// Result is the outcome of one extraction.
type Result struct {
	Record *domain.ProductionRecord
	// Fallbacks names every field that took its default, in schema order.
	Fallbacks []string
	// Lines is the number of non-blank lines in the document.
	Lines int
}

// Extractor turns a daily export into a ProductionRecord using a Schema.
type Extractor struct {
	schema   Schema
	mode     Mode
	minLines int
	logger   *slog.Logger
}

// NewExtractor creates an extractor for the default export layout.
func NewExtractor(mode Mode, logger *slog.Logger) *Extractor {
	return NewExtractorWithSchema(DefaultSchema(), mode, logger)
}

// NewExtractorWithSchema creates an extractor for a custom layout.
func NewExtractorWithSchema(schema Schema, mode Mode, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if mode == "" {
		mode = ModeFallback
	}
	return &Extractor{
		schema:   schema,
		mode:     mode,
		minLines: schema.RequiredLines(),
		logger:   logger.With(slog.String("component", "extractor")),
	}
}

// Mode reports the coercion mode in use.
func (e *Extractor) Mode() Mode {
	return e.mode
}

// Extract reads every schema field from text. Documents with fewer non-blank
// lines than the schema needs are always rejected; unreadable cells are
// handled according to the extractor's mode.
func (e *Extractor) Extract(text string) (*Result, error) {
	lines := SplitLines(text)
	if len(lines) < e.minLines {
		return nil, &MalformedInputError{
			Reason: fmt.Sprintf("document has %d non-blank lines, layout needs %d", len(lines), e.minLines),
		}
	}

	doc := newDocument(lines)
	record := &domain.ProductionRecord{}
	var fallbacks []string

	if serial, ok := parseSerial(doc.cell(dateLine, dateColumn)); ok {
		record.Date = FormatReportDate(SerialToDate(serial))
	} else {
		record.Date = FallbackReportDate
		fallbacks = append(fallbacks, DateFieldName)
	}

	for _, f := range e.schema {
		v, ok := coerce(doc.cell(f.Line, f.Column), f.Kind)
		if !ok {
			v = f.Default
			fallbacks = append(fallbacks, f.Name)
		}
		f.assign(record, v)
	}

	if len(fallbacks) > 0 {
		if e.mode == ModeStrict {
			return nil, &MalformedInputError{Reason: "unreadable fields", Fields: fallbacks}
		}
		e.logger.Debug("fields fell back to defaults",
			slog.Int("count", len(fallbacks)),
			slog.Any("fields", fallbacks))
	}

	return &Result{Record: record, Fallbacks: fallbacks, Lines: len(lines)}, nil
}

// SplitLines splits on newlines, trims each line and drops blank ones. The
// fixed line indices of the layout count only the lines this returns.
func SplitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimFunc(l, isTrimmable)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func isTrimmable(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// document splits lines into fields on first use.
type document struct {
	lines  []string
	fields [][]string
}

func newDocument(lines []string) *document {
	return &document{lines: lines, fields: make([][]string, len(lines))}
}

// cell returns the raw text at line, column or "" when either is out of range.
func (d *document) cell(line, column int) string {
	if line < 0 || line >= len(d.lines) || column < 0 {
		return ""
	}
	if d.fields[line] == nil {
		d.fields[line] = strings.Split(d.lines[line], ",")
	}
	if column >= len(d.fields[line]) {
		return ""
	}
	return d.fields[line][column]
}
