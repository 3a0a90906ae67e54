package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Record is one CSV row keyed by header name.
type Record map[string]string

// CSVSource reads records from a CSV stream whose first row is the header.
type CSVSource struct {
	r      *csv.Reader
	header []string
}

// NewCSVSource reads the header row of r.
func NewCSVSource(r io.Reader) (*CSVSource, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("csv input has no header row")
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}
	return &CSVSource{r: cr, header: header}, nil
}

// Header returns the normalized column names.
func (s *CSVSource) Header() []string {
	return s.header
}

// Next implements Source. Missing trailing fields read as empty.
func (s *CSVSource) Next() (Record, error) {
	row, err := s.r.Read()
	if err != nil {
		return nil, err
	}
	rec := make(Record, len(s.header))
	for i, name := range s.header {
		if i < len(row) {
			rec[name] = strings.TrimSpace(row[i])
		} else {
			rec[name] = ""
		}
	}
	return rec, nil
}
