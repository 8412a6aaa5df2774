package apperr_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/gradeview/pkg/domain/model"
	"github.com/secmon-lab/gradeview/pkg/utils/apperr"
)

func TestStatusCode(t *testing.T) {
	gt.Equal(t, apperr.StatusCode(nil), http.StatusOK)
	gt.Equal(t, apperr.StatusCode(goerr.Wrap(model.ErrDatasetNotReady, "wrapped")), http.StatusServiceUnavailable)
	gt.Equal(t, apperr.StatusCode(goerr.New("load", goerr.T(model.ErrTagDatasetLoad))), http.StatusServiceUnavailable)
	gt.Equal(t, apperr.StatusCode(goerr.New("boom")), http.StatusInternalServerError)
}

func TestHandleNil(t *testing.T) {
	apperr.Handle(context.Background(), nil)
}
