package core

// tsv.go parses tab-separated tables.
//
// Source files are produced by spreadsheet exports and pandas, so the reader
// tolerates the usual artifacts:
//   - UTF-8 BOM at the start of the file (Windows exports)
//   - invalid UTF-8 sequences (replaced with U+FFFD per cell)
//   - CRLF line endings
//   - blank lines
//
// Quoting is off: a double quote is an ordinary character, so `"Jumbo" Dog`
// and `Sub 12"` are kept verbatim and one physical line is always one row.
//
// Width checks against the schema happen in Denormalize, not here, so the
// parser stays usable for header inspection.

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// skipBOM returns a reader positioned after a leading UTF-8 BOM, if any.
func skipBOM(r io.Reader) *bufio.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && string(head) == string(utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// ParseTSV reads a tab-separated table with a header row.
// The header is kept as read; column naming is positional via spec.
func ParseTSV(r io.Reader, spec TableSpec) (*RawTable, error) {
	br := skipBOM(r)
	table := &RawTable{Spec: spec}

	for line := 1; ; line++ {
		text, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read %s: %w", spec.Path, err)
		}
		if text == "" && err != nil {
			break
		}

		text = strings.TrimSuffix(text, "\n")
		text = strings.TrimSuffix(text, "\r")
		if text != "" {
			record := strings.Split(strings.ToValidUTF8(text, "\uFFFD"), "\t")
			if table.Header == nil {
				table.Header = record
			} else {
				table.Rows = append(table.Rows, record)
				table.Lines = append(table.Lines, line)
			}
		}

		if err != nil {
			break
		}
	}

	if table.Header == nil {
		return nil, &SchemaError{Table: spec.Name, Reason: "missing header row"}
	}
	return table, nil
}
