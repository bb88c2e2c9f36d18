package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/treesquares/treesquares/pkg/errors"
)

type csvConfig struct {
	name      string
	delimiter rune
	comment   rune
}

// CSVOption configures [ReadCSV].
type CSVOption func(*csvConfig)

// WithDelimiter sets the field separator. The default is ','.
func WithDelimiter(d rune) CSVOption {
	return func(c *csvConfig) { c.delimiter = d }
}

// WithName sets the table name. [ImportCSV] defaults it to the file stem.
func WithName(name string) CSVOption {
	return func(c *csvConfig) { c.name = name }
}

// SkipComments drops lines starting with '#'.
func SkipComments() CSVOption {
	return func(c *csvConfig) { c.comment = '#' }
}

// ReadCSV decodes a CSV document whose first record is the header.
//
// Records may have fewer fields than the header; missing cells read as "".
// Blank lines are skipped. A UTF-8 byte order mark before the header is
// removed. ReadCSV does not close r.
func ReadCSV(r io.Reader, opts ...CSVOption) (*Table, error) {
	cfg := csvConfig{delimiter: ','}
	for _, opt := range opts {
		opt(&cfg)
	}

	cr := csv.NewReader(r)
	cr.Comma = cfg.delimiter
	cr.Comment = cfg.comment
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidInput, "csv has no header row")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read csv header")
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := New(cfg.name, header)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read csv")
		}
		if isBlank(rec) {
			continue
		}
		t.Append(rec)
	}
	return t, nil
}

// ImportCSV reads the CSV file at path. A missing file is reported with
// code FILE_NOT_FOUND.
func ImportCSV(path string, opts ...CSVOption) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	opts = append([]CSVOption{WithName(stem(path))}, opts...)
	t, err := ReadCSV(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// WriteCSV encodes t as comma separated values with a header row.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
