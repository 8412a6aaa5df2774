package csvrows

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gradeview/pkg/domain/model"
)

const utf8BOM = "\ufeff"

// Reader streams CSV rows as records keyed by the header row
type Reader struct {
	csv    *csv.Reader
	header []string
	row    int
}

// NewReader creates a Reader over in. Quotes are parsed leniently and rows
// may have a different number of cells than the header.
func NewReader(in io.Reader) *Reader {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return &Reader{csv: reader}
}

// Header returns the header fields, reading them on first use. It returns
// io.EOF for an empty input.
func (r *Reader) Header() ([]string, error) {
	if r.header != nil {
		return r.header, nil
	}

	header, err := r.read()
	if err != nil {
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	r.header = make([]string, len(header))
	copy(r.header, header)
	return r.header, nil
}

// Next returns the next data row, or io.EOF when input is exhausted
func (r *Reader) Next() (model.Record, error) {
	header, err := r.Header()
	if err != nil {
		return model.Record{}, err
	}

	cells, err := r.read()
	if err != nil {
		return model.Record{}, err
	}
	r.row++

	fields := make([]model.Field, 0, len(cells))
	for i, cell := range cells {
		key := fmt.Sprintf("_%d", i)
		if i < len(header) {
			key = header[i]
		}
		fields = append(fields, model.Field{Key: key, Value: cell})
	}
	return model.NewRecord(fields...), nil
}

// Rows returns the number of data rows read so far
func (r *Reader) Rows() int {
	return r.row
}

func (r *Reader) read() ([]string, error) {
	cells, err := r.csv.Read()
	if err == nil || errors.Is(err, csv.ErrFieldCount) {
		return cells, nil
	}
	if err == io.EOF {
		return nil, io.EOF
	}

	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return nil, goerr.Wrap(err, "malformed CSV",
			goerr.V("line", parseErr.Line),
			goerr.V("column", parseErr.Column),
			goerr.T(model.ErrTagInvalidCSV))
	}
	return nil, goerr.Wrap(err, "failed to read CSV", goerr.T(model.ErrTagFileAccess))
}
