package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	httpCtrl "github.com/secmon-lab/gradeview/pkg/controller/http"
	"github.com/secmon-lab/gradeview/pkg/domain/model"
	"github.com/secmon-lab/gradeview/pkg/domain/types"
	"github.com/secmon-lab/gradeview/pkg/repository"
	"github.com/secmon-lab/gradeview/pkg/service/donut"
	"github.com/secmon-lab/gradeview/pkg/usecase"
)

const sampleCSV = `Term,Subject,Catalog Number,A+,A,A-,B+,B,B-,C+,C,C-,DFW,Course GPA,# of Students
Fall 2023,CS,101,5,10,3,2,1,0,0,0,0,1,3.42,22
Fall 2023,MATH,201,1,1,1,1,1,1,1,1,1,1,2.90,10
Spring 2024,CS,101,10,90,0,0,0,0,0,0,0,0,3.90,100
`

type fixture struct {
	handler   http.Handler
	dashboard *usecase.DashboardUseCase
	dataset   string
}

func newFixture(t *testing.T, load bool) *fixture {
	t.Helper()
	ctx := context.Background()

	dataset := filepath.Join(t.TempDir(), "LARGE-DATA.json")
	repo := repository.NewJSONFile(dataset)
	_, err := usecase.NewConvert(repo).Convert(ctx, strings.NewReader(sampleCSV))
	gt.NoError(t, err).Required()

	renderer, err := donut.New(nil, donut.WithCache(0))
	gt.NoError(t, err).Required()

	dashboard := usecase.NewDashboard(repo, renderer)
	if load {
		gt.NoError(t, dashboard.Load(ctx)).Required()
	}

	server, err := httpCtrl.NewServer(ctx, ":0", dashboard,
		httpCtrl.WithDatasetFile(dataset),
		httpCtrl.WithFrontend(http.Dir("testdata/spa")),
	)
	gt.NoError(t, err).Required()

	return &fixture{handler: server.Handler, dashboard: dashboard, dataset: dataset}
}

func (f *fixture) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &v)).Required()
	return v
}

type seriesBody struct {
	Labels    []string  `json:"labels"`
	Counts    []int     `json:"counts"`
	Percents  []float64 `json:"percents"`
	ShowLabel []bool    `json:"showLabel"`
	GPA       string    `json:"gpa"`
	Students  string    `json:"students"`
	Center    []string  `json:"center"`
	Matched   bool      `json:"matched"`
}

func TestHealth(t *testing.T) {
	f := newFixture(t, false)
	w := f.get(t, "/health")

	gt.Equal(t, w.Code, http.StatusOK)
	body := decode[map[string]string](t, w)
	gt.Equal(t, body["status"], "healthy")
	gt.Equal(t, body["service"], "gradeview")
}

func TestAPIBeforeLoad(t *testing.T) {
	f := newFixture(t, false)

	for _, target := range []string{
		"/api/terms",
		"/api/series?term=Fall+2023&subject=CS&catalog=101",
		"/api/series.csv?term=Fall+2023&subject=CS&catalog=101",
		"/api/chart.png?term=Fall+2023&subject=CS&catalog=101",
	} {
		t.Run(target, func(t *testing.T) {
			w := f.get(t, target)
			gt.Equal(t, w.Code, http.StatusServiceUnavailable)

			body := decode[map[string]string](t, w)
			gt.Equal(t, body["state"], "loading")
			gt.NotEqual(t, body["error"], "")
		})
	}

	t.Run("dataset summary is always available", func(t *testing.T) {
		w := f.get(t, "/api/dataset")
		gt.Equal(t, w.Code, http.StatusOK)
		summary := decode[model.DatasetSummary](t, w)
		gt.Equal(t, summary.State, types.DatasetStateLoading)
	})
}

func TestAPIAfterFailedLoad(t *testing.T) {
	f := newFixture(t, false)
	gt.NoError(t, os.Remove(f.dataset)).Required()
	gt.Error(t, f.dashboard.Load(context.Background()))

	w := f.get(t, "/api/terms")
	gt.Equal(t, w.Code, http.StatusServiceUnavailable)
	gt.Equal(t, decode[map[string]string](t, w)["state"], "failed")
}

func TestAPI(t *testing.T) {
	f := newFixture(t, true)

	t.Run("dataset", func(t *testing.T) {
		w := f.get(t, "/api/dataset")
		gt.Equal(t, w.Code, http.StatusOK)

		summary := decode[model.DatasetSummary](t, w)
		gt.Equal(t, summary.State, types.DatasetStateReady)
		gt.Equal(t, summary.Records, 3)
		gt.Equal(t, summary.Terms, 2)
	})

	t.Run("terms", func(t *testing.T) {
		w := f.get(t, "/api/terms")
		gt.Equal(t, w.Code, http.StatusOK)
		gt.Equal(t, w.Header().Get("Access-Control-Allow-Origin"), "*")

		body := decode[map[string][]string](t, w)
		gt.Equal(t, body["terms"], []string{"Fall 2023", "Spring 2024"})
	})

	t.Run("series for a matching selection", func(t *testing.T) {
		w := f.get(t, "/api/series?term=Fall+2023&subject=cs&catalog=+101+")
		gt.Equal(t, w.Code, http.StatusOK)

		body := decode[seriesBody](t, w)
		gt.True(t, body.Matched)
		gt.Equal(t, body.Counts, []int{5, 10, 3, 2, 1, 0, 0, 0, 0, 1})
		gt.Equal(t, body.GPA, "3.42")
		gt.Equal(t, body.Students, "22")
		gt.Equal(t, body.Center, []string{"3.42 GPA", "22 Students"})
		gt.A(t, body.Labels).Length(10)
		gt.Equal(t, body.Labels[9], "DFW")
	})

	t.Run("labels follow the five percent threshold", func(t *testing.T) {
		w := f.get(t, "/api/series?term=Spring+2024&subject=CS&catalog=101")
		gt.Equal(t, w.Code, http.StatusOK)

		body := decode[seriesBody](t, w)
		gt.Equal(t, body.Percents[0], 10.0)
		gt.Equal(t, body.Percents[1], 90.0)
		gt.Equal(t, body.ShowLabel, []bool{true, true, false, false, false, false, false, false, false, false})
	})

	t.Run("no match", func(t *testing.T) {
		w := f.get(t, "/api/series?term=fall+2023&subject=CS&catalog=101")
		gt.Equal(t, w.Code, http.StatusOK)

		body := decode[seriesBody](t, w)
		gt.False(t, body.Matched)
		gt.Equal(t, body.Counts, []int{0, 0, 0, 0, 0, 0, 0, 0, 0, 0})
		gt.Equal(t, body.GPA, "0.00")
		gt.Equal(t, body.Students, "0")
	})

	t.Run("series as CSV", func(t *testing.T) {
		w := f.get(t, "/api/series.csv?term=Spring+2024&subject=CS&catalog=101")
		gt.Equal(t, w.Code, http.StatusOK)
		gt.Equal(t, w.Header().Get("Content-Type"), "text/csv; charset=utf-8")

		lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
		gt.A(t, lines).Length(11)
		gt.Equal(t, lines[0], "bucket,count,percent,label")
		gt.Equal(t, lines[2], "A,90,90.0,true")
	})

	t.Run("chart", func(t *testing.T) {
		w := f.get(t, "/api/chart.png?term=Fall+2023&subject=CS&catalog=101")
		gt.Equal(t, w.Code, http.StatusOK)
		gt.Equal(t, w.Header().Get("Content-Type"), "image/png")
		gt.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG\r\n\x1a\n")))
	})

	t.Run("CORS preflight", func(t *testing.T) {
		w := httptest.NewRecorder()
		f.handler.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/terms", nil))
		gt.Equal(t, w.Code, http.StatusNoContent)
	})
}

func TestStaticRoutes(t *testing.T) {
	f := newFixture(t, true)

	t.Run("dataset asset", func(t *testing.T) {
		w := f.get(t, "/LARGE-DATA.json")
		gt.Equal(t, w.Code, http.StatusOK)

		var objects []map[string]string
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &objects)).Required()
		gt.A(t, objects).Length(3)
		gt.Equal(t, objects[0]["Term"], "Fall 2023")
	})

	t.Run("page", func(t *testing.T) {
		w := f.get(t, "/")
		gt.Equal(t, w.Code, http.StatusOK)
		gt.S(t, w.Body.String()).Contains(`<div id="app">`)
	})
}
