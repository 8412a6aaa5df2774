package usecase

import (
	"context"
	"io"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gradeview/pkg/domain/interfaces"
	"github.com/secmon-lab/gradeview/pkg/domain/model"
	"github.com/secmon-lab/gradeview/pkg/service/csvrows"
)

// ConvertResult summarises a conversion run
type ConvertResult struct {
	Header []string
	Rows   int
	Sinks  []string
}

// ConvertUseCase turns a CSV export into stored records
type ConvertUseCase struct {
	sinks []interfaces.Repository
}

// NewConvert creates a ConvertUseCase writing to sinks in order
func NewConvert(sinks ...interfaces.Repository) *ConvertUseCase {
	return &ConvertUseCase{sinks: sinks}
}

// ConvertFile converts the CSV file at path
func (uc *ConvertUseCase) ConvertFile(ctx context.Context, path string) (*ConvertResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open CSV file",
			goerr.V("path", path),
			goerr.T(model.ErrTagFileAccess))
	}
	defer f.Close()

	result, err := uc.Convert(ctx, f)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to convert CSV file", goerr.V("path", path))
	}
	return result, nil
}

// Convert reads every row of in, then writes the whole sequence to each sink.
// Nothing is written if reading fails.
func (uc *ConvertUseCase) Convert(ctx context.Context, in io.Reader) (*ConvertResult, error) {
	if len(uc.sinks) == 0 {
		return nil, goerr.New("no output configured")
	}

	reader := csvrows.NewReader(in)
	records := []model.Record{}
	var header []string

	for {
		if err := ctx.Err(); err != nil {
			return nil, goerr.Wrap(err, "conversion cancelled", goerr.V("rows", reader.Rows()))
		}

		r, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read CSV row", goerr.V("row", reader.Rows()+1))
		}
		records = append(records, r)
	}
	if h, err := reader.Header(); err == nil {
		header = h
	}

	result := &ConvertResult{
		Header: header,
		Rows:   len(records),
	}
	for _, sink := range uc.sinks {
		if err := sink.PutRecords(ctx, records); err != nil {
			return nil, goerr.Wrap(err, "failed to write records", goerr.V("sink", sink.Name()))
		}
		result.Sinks = append(result.Sinks, sink.Name())
	}

	ctxlog.From(ctx).Info("CSV converted",
		"rows", result.Rows,
		"columns", len(result.Header),
		"sinks", result.Sinks,
	)
	return result, nil
}
