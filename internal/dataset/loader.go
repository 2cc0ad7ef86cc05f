package dataset

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Recognized column names after normalization. Only date and amount are
// mandatory; everything else degrades to an absent field downstream.
const (
	ColDate     = "date"
	ColAmount   = "amount"
	ColCity     = "city"
	ColGender   = "gender"
	ColCardType = "card_type"
	ColExpType  = "exp_type"
	ColCategory = "category"
)

// ErrMissingColumn marks a dataset that cannot be analyzed at all because a
// required column is absent. This is the fatal load error of the pipeline.
var ErrMissingColumn = errors.New("required column missing")

// RawRow is one CSV row keyed by normalized column name. Values are raw
// strings; coercion happens in the normalizer, which may drop the row.
type RawRow map[string]string

// Dataset is a parsed tabular source ready for normalization.
type Dataset struct {
	// Columns lists the normalized header names in file order.
	Columns []string

	// Rows holds every data row, including ones the normalizer will drop.
	Rows []RawRow

	// Fingerprint is the SHA-256 of the source bytes, used as cache key.
	Fingerprint string
}

// HasColumn reports whether the dataset carries the given normalized column.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Parse reads CSV bytes into a Dataset. Header names are normalized
// (trimmed, lower-cased, spaces replaced with underscores) so downstream
// lookups use a stable vocabulary. A missing date or amount column is fatal.
func Parse(data []byte) (*Dataset, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset.Parse: reading header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = NormalizeColumn(h)
	}

	ds := &Dataset{
		Columns:     columns,
		Fingerprint: Fingerprint(data),
	}

	if !ds.HasColumn(ColDate) {
		return nil, fmt.Errorf("dataset.Parse: %w: %s", ErrMissingColumn, ColDate)
	}
	if !ds.HasColumn(ColAmount) {
		return nil, fmt.Errorf("dataset.Parse: %w: %s", ErrMissingColumn, ColAmount)
	}

	for {
		record, readErr := reader.Read()
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return nil, fmt.Errorf("dataset.Parse: reading record: %w", readErr)
		}

		row := make(RawRow, len(columns))
		for i, val := range record {
			if i >= len(columns) {
				break
			}
			row[columns[i]] = strings.TrimSpace(val)
		}
		ds.Rows = append(ds.Rows, row)
	}

	return ds, nil
}

// Load reads and parses a CSV file from disk.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset.Load: %w", err)
	}
	return Parse(data)
}

// NormalizeColumn maps a raw header to the stable column vocabulary:
// trimmed, lower-cased, inner spaces replaced with underscores.
func NormalizeColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, " ", "_")
}

// Fingerprint returns the hex SHA-256 of the source bytes. Two byte-identical
// sources always analyze identically, so the fingerprint is a safe cache key.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
