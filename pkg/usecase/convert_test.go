package usecase_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/gradeview/pkg/domain/model"
	"github.com/secmon-lab/gradeview/pkg/repository"
	"github.com/secmon-lab/gradeview/pkg/usecase"
)

const sampleCSV = `Term,Subject,Catalog Number,A+,A,A-,B+,B,B-,C+,C,C-,DFW,Course GPA,# of Students
Fall 2023,CS,101,5,10,3,2,1,0,0,0,0,1,3.42,22
Fall 2023,MATH, 201 ,1,1,1,1,1,1,1,1,1,1,2.90,10
Spring 2024,CS,101,0,0,0,0,0,0,0,0,0,4,0.00,4
Fall 2023,CS,101,9,9,9,9,9,9,9,9,9,9,2.50,90
`

func TestConvert(t *testing.T) {
	t.Run("rows become records keyed by header", func(t *testing.T) {
		ctx := context.Background()
		repo := repository.NewMemory()
		uc := usecase.NewConvert(repo)

		result, err := uc.Convert(ctx, strings.NewReader(sampleCSV))
		gt.NoError(t, err).Required()
		gt.Equal(t, result.Rows, 4)
		gt.Equal(t, result.Sinks, []string{"memory"})

		records, err := repo.ListRecords(ctx)
		gt.NoError(t, err).Required()
		gt.A(t, records).Length(4)
		for _, r := range records {
			gt.Equal(t, r.Keys(), result.Header)
		}
		gt.Equal(t, records[1].Value("Catalog Number"), " 201 ")
		gt.Equal(t, records[3].Value("Course GPA"), "2.50")
	})

	t.Run("writes to every sink", func(t *testing.T) {
		ctx := context.Background()
		first := repository.NewMemory()
		second := repository.NewMemory()

		result, err := usecase.NewConvert(first, second).Convert(ctx, strings.NewReader(sampleCSV))
		gt.NoError(t, err).Required()
		gt.A(t, result.Sinks).Length(2)

		a, err := first.ListRecords(ctx)
		gt.NoError(t, err).Required()
		b, err := second.ListRecords(ctx)
		gt.NoError(t, err).Required()
		gt.Equal(t, a, b)
	})

	t.Run("no sinks", func(t *testing.T) {
		_, err := usecase.NewConvert().Convert(context.Background(), strings.NewReader(sampleCSV))
		gt.Error(t, err)
	})

	t.Run("cancelled context writes nothing", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		repo := repository.NewMemory()
		_, err := usecase.NewConvert(repo).Convert(ctx, strings.NewReader(sampleCSV))
		gt.Error(t, err)

		records, err := repo.ListRecords(context.Background())
		gt.NoError(t, err).Required()
		gt.Equal(t, len(records), 0)
	})
}

func TestConvertFile(t *testing.T) {
	t.Run("CSV to pretty JSON file", func(t *testing.T) {
		ctx := context.Background()
		dir := t.TempDir()
		input := filepath.Join(dir, "LARGE-DATA.csv")
		output := filepath.Join(dir, "public", "LARGE-DATA.json")
		gt.NoError(t, os.WriteFile(input, []byte(sampleCSV), 0o644)).Required()

		result, err := usecase.NewConvert(repository.NewJSONFile(output)).ConvertFile(ctx, input)
		gt.NoError(t, err).Required()
		gt.Equal(t, result.Rows, 4)

		data, err := os.ReadFile(output)
		gt.NoError(t, err).Required()
		gt.S(t, string(data)).Contains("\n  {\n    \"Term\": \"Fall 2023\",")

		var objects []map[string]string
		gt.NoError(t, json.Unmarshal(data, &objects)).Required()
		gt.A(t, objects).Length(4)
		for _, obj := range objects {
			gt.Equal(t, len(obj), len(result.Header))
			for _, h := range result.Header {
				_, ok := obj[h]
				gt.True(t, ok)
			}
		}
	})

	t.Run("output is overwritten", func(t *testing.T) {
		ctx := context.Background()
		dir := t.TempDir()
		input := filepath.Join(dir, "in.csv")
		output := filepath.Join(dir, "out.json")
		gt.NoError(t, os.WriteFile(input, []byte("a,b\n1,2\n"), 0o644)).Required()
		gt.NoError(t, os.WriteFile(output, []byte(strings.Repeat("x", 4096)), 0o644)).Required()

		_, err := usecase.NewConvert(repository.NewJSONFile(output)).ConvertFile(ctx, input)
		gt.NoError(t, err).Required()

		data, err := os.ReadFile(output)
		gt.NoError(t, err).Required()
		gt.Equal(t, string(data), "[\n  {\n    \"a\": \"1\",\n    \"b\": \"2\"\n  }\n]")
	})

	t.Run("missing input is a file access error and writes nothing", func(t *testing.T) {
		ctx := context.Background()
		dir := t.TempDir()
		output := filepath.Join(dir, "out.json")

		_, err := usecase.NewConvert(repository.NewJSONFile(output)).ConvertFile(ctx, filepath.Join(dir, "missing.csv"))
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, model.ErrTagFileAccess))

		_, statErr := os.Stat(output)
		gt.True(t, os.IsNotExist(statErr))
	})

	t.Run("terms survive the JSON round trip", func(t *testing.T) {
		ctx := context.Background()
		dir := t.TempDir()
		input := filepath.Join(dir, "in.csv")
		output := filepath.Join(dir, "out.json")
		gt.NoError(t, os.WriteFile(input, []byte(sampleCSV), 0o644)).Required()

		mem := repository.NewMemory()
		_, err := usecase.NewConvert(repository.NewJSONFile(output), mem).ConvertFile(ctx, input)
		gt.NoError(t, err).Required()

		fromFile, err := repository.NewJSONFile(output).ListRecords(ctx)
		gt.NoError(t, err).Required()
		fromMemory, err := mem.ListRecords(ctx)
		gt.NoError(t, err).Required()

		gt.Equal(t, model.NewDataset(fromFile).Terms(), model.NewDataset(fromMemory).Terms())
		gt.Equal(t, model.NewDataset(fromFile).Terms(), []string{"Fall 2023", "Spring 2024"})
	})
}
