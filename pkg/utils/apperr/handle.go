package apperr

import (
	"context"
	"errors"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gradeview/pkg/domain/model"
)

// Handle logs an error that cannot be returned to a caller
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}
	logger := ctxlog.From(ctx)
	logger.Error("application error", "error", err)
}

// StatusCode maps an error to the HTTP status reported to clients
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, model.ErrDatasetNotReady):
		return http.StatusServiceUnavailable
	case goerr.HasTag(err, model.ErrTagDatasetLoad):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
