package http

import (
	"bytes"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gradeview/pkg/domain/interfaces"
	"github.com/secmon-lab/gradeview/pkg/domain/model"
	"github.com/secmon-lab/gradeview/pkg/domain/types"
	"github.com/secmon-lab/gradeview/pkg/service/csvrows"
	"github.com/secmon-lab/gradeview/pkg/utils/apperr"
)

type apiHandler struct {
	dashboard interfaces.Dashboard
}

func newAPIHandler(dashboard interfaces.Dashboard) *apiHandler {
	return &apiHandler{dashboard: dashboard}
}

type termsResponse struct {
	Terms []string `json:"terms"`
}

type seriesResponse struct {
	Labels    []string  `json:"labels"`
	Counts    []int     `json:"counts"`
	Percents  []float64 `json:"percents"`
	ShowLabel []bool    `json:"showLabel"`
	GPA       string    `json:"gpa"`
	Students  string    `json:"students"`
	Center    []string  `json:"center"`
	Matched   bool      `json:"matched"`
}

type errorResponse struct {
	Error string             `json:"error"`
	State types.DatasetState `json:"state"`
}

func newSeriesResponse(s model.ChartSeries) seriesResponse {
	gpa, students := s.CenterText()
	return seriesResponse{
		Labels:    model.GradeBuckets[:],
		Counts:    s.Values(),
		Percents:  s.Percents(),
		ShowLabel: s.LabelVisibility(),
		GPA:       s.GPA,
		Students:  s.Students,
		Center:    []string{gpa, students},
		Matched:   s.Matched,
	}
}

// selectionFromQuery reads the selection as typed. Normalisation happens in
// the lookup.
func selectionFromQuery(r *http.Request) model.Selection {
	q := r.URL.Query()
	return model.Selection{
		Term:    q.Get("term"),
		Subject: q.Get("subject"),
		Catalog: q.Get("catalog"),
	}
}

func (h *apiHandler) handleDataset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.dashboard.Summary())
}

func (h *apiHandler) handleTerms(w http.ResponseWriter, r *http.Request) {
	terms, err := h.dashboard.Terms()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, termsResponse{Terms: terms})
}

func (h *apiHandler) handleSeries(w http.ResponseWriter, r *http.Request) {
	series, err := h.dashboard.Series(selectionFromQuery(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newSeriesResponse(series))
}

func (h *apiHandler) handleSeriesCSV(w http.ResponseWriter, r *http.Request) {
	series, err := h.dashboard.Series(selectionFromQuery(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := csvrows.WriteSeries(&buf, series); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="grade-distribution.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		apperr.Handle(r.Context(), goerr.Wrap(err, "failed to write series CSV"))
	}
}

func (h *apiHandler) handleChart(w http.ResponseWriter, r *http.Request) {
	img, contentType, err := h.dashboard.Chart(selectionFromQuery(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img); err != nil {
		apperr.Handle(r.Context(), goerr.Wrap(err, "failed to write chart image"))
	}
}

func (h *apiHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.StatusCode(err)
	message := "dataset is not available"
	if status == http.StatusInternalServerError {
		apperr.Handle(r.Context(), err)
		message = "internal server error"
	}

	writeJSON(w, r, status, errorResponse{
		Error: message,
		State: h.dashboard.State(),
	})
}
