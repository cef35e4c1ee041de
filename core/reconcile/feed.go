package reconcile

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
	"unicode/utf8"
)

// FeedOptions controls how a vendor feed file is tokenised.
type FeedOptions struct {
	// Delimiter separates columns. Defaults to ','.
	Delimiter rune

	// SkipHeader drops the first non-blank line.
	SkipHeader bool
}

// ParseDelimiter converts a configured delimiter string into a rune.
// "tab" and `\t` are accepted for tab separated feeds.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return ',', nil
	case "tab", `\t`:
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("invalid feed delimiter %q", s)
	}
	return r, nil
}

// FeedReader streams (SKU, value) rows from a delimited feed file.
// It holds one line in memory at a time and can be consumed exactly once.
// Quoted fields may not span lines, so a broken quote only costs its own row.
type FeedReader struct {
	closer     io.Closer
	br         *bufio.Reader
	delimiter  rune
	skipHeader bool
	line       int
	done       bool
}

// OpenFeed opens path for a single streaming pass.
func OpenFeed(path string, opts FeedOptions) (*FeedReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feed %s: %w", path, err)
	}
	return NewFeedReader(f, opts), nil
}

// NewFeedReader wraps r. If r is an io.Closer it is closed by Close.
func NewFeedReader(r io.Reader, opts FeedOptions) *FeedReader {
	delimiter := opts.Delimiter
	if delimiter == 0 {
		delimiter = ','
	}
	fr := &FeedReader{br: bufio.NewReader(r), delimiter: delimiter, skipHeader: opts.SkipHeader}
	if c, ok := r.(io.Closer); ok {
		fr.closer = c
	}
	return fr
}

// Next returns the next usable row. A *ParseError reports a malformed row;
// the caller may keep calling Next. io.EOF marks the end of the feed.
func (f *FeedReader) Next() (Row, error) {
	for {
		if f.done {
			return Row{}, io.EOF
		}

		text, err := ReadLine(f.br)
		if err != nil {
			f.done = true
			if errors.Is(err, io.EOF) {
				return Row{}, io.EOF
			}
			return Row{}, fmt.Errorf("read feed: %w", err)
		}
		f.line++
		line := f.line

		if strings.TrimSpace(text) == "" {
			continue
		}
		if f.skipHeader {
			f.skipHeader = false
			continue
		}

		record, err := SplitLine(text, f.delimiter)
		if err != nil {
			return Row{}, &ParseError{Line: line, Reason: "malformed row", Err: err}
		}
		if isBlank(record) {
			continue
		}
		if len(record) < 2 {
			return Row{}, &ParseError{Line: line, Reason: "missing value column"}
		}
		sku := strings.TrimSpace(record[0])
		if sku == "" {
			return Row{}, &ParseError{Line: line, Reason: "empty sku"}
		}
		return Row{Line: line, SKU: sku, Value: record[1]}, nil
	}
}

// ReadLine returns the next physical line of br without its line terminator.
// A final line without a newline is returned before io.EOF.
func ReadLine(br *bufio.Reader) (string, error) {
	text, err := br.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || text == "") {
		return "", err
	}
	text = strings.TrimSuffix(text, "\n")
	return strings.TrimSuffix(text, "\r"), nil
}

// SplitLine tokenises a single delimited line. Quoting follows RFC 4180 within
// the line; an unterminated or stray quote is reported as csv.ErrQuote or
// csv.ErrBareQuote.
func SplitLine(text string, delimiter rune) ([]string, error) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1

	record, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, perr.Err
		}
		return nil, err
	}
	return record, nil
}

// Rows adapts Next into a range-over-func sequence. Iteration stops after
// io.EOF or any non-parse error; parse errors are yielded and iteration continues.
func (f *FeedReader) Rows() iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		for {
			row, err := f.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(row, err) {
				return
			}
			var perr *ParseError
			if err != nil && !errors.As(err, &perr) {
				return
			}
		}
	}
}

// Close releases the underlying file.
func (f *FeedReader) Close() error {
	f.done = true
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
