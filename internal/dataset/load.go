package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Load reads and parses the CSV file at path. It performs no caching; use a
// Cache to share one table across interactions.
func Load(path string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, classify(path, err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, classify(path, err)
	}

	return Parse(path, raw)
}

// Parse turns raw file bytes into a Table. path is used for error reporting.
func Parse(path string, raw []byte) (*Table, error) {
	if !utf8.Valid(raw) {
		return nil, &LoadError{Kind: ParseError, Path: path, Err: errors.New("file is not valid UTF-8")}
	}

	data, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), raw)
	if err != nil {
		return nil, &LoadError{Kind: Unknown, Path: path, Err: err}
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &LoadError{Kind: EmptyDataset, Path: path}
	}
	if err != nil {
		return nil, &LoadError{Kind: ParseError, Path: path, Err: err}
	}

	table := &Table{Header: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &LoadError{Kind: ParseError, Path: path, Err: err}
		}

		if len(record) > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, &LoadError{
				Kind: ParseError,
				Path: path,
				Err:  fmt.Errorf("expected %d fields in line %d, saw %d", len(header), line, len(record)),
			}
		}
		for len(record) < len(header) {
			record = append(record, "")
		}
		table.Rows = append(table.Rows, record)
	}

	if table.Len() == 0 {
		return nil, &LoadError{Kind: EmptyDataset, Path: path}
	}

	return table, nil
}

func classify(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &LoadError{Kind: NotFound, Path: path, Err: err}
	case errors.Is(err, fs.ErrPermission):
		return &LoadError{Kind: PermissionDenied, Path: path, Err: err}
	default:
		return &LoadError{Kind: Unknown, Path: path, Err: err}
	}
}
