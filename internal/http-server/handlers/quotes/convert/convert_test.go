package convert_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitter-service/api"
	"fitter-service/internal/http-server/handlers/quotes/convert"
	"fitter-service/internal/models"
	"fitter-service/internal/service"
	"fitter-service/pkg/response"
)

type stubConverter struct {
	job *api.JobResponse
	err error
	got *service.ConversionRequest
}

func (s *stubConverter) ConvertQuote(_ context.Context, req *service.ConversionRequest) (*api.JobResponse, error) {
	s.got = req
	return s.job, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRequest(t *testing.T, quoteID string, body any) *http.Request {
	t.Helper()

	buf, err := json.Marshal(body)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/quotes/"+quoteID+"/convert", bytes.NewReader(buf))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", quoteID)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestConvertHandler_Success(t *testing.T) {
	stub := &stubConverter{job: &api.JobResponse{ID: 7, OrderNumber: "Q7", Status: "pending"}}
	handler := convert.New(discardLogger(), stub)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, newRequest(t, "7", api.ConvertQuoteRequest{
		FitterID:    3,
		FittingDate: "2025-03-10",
		TimePeriod:  "am",
	}))

	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, stub.got)
	assert.Equal(t, int64(7), stub.got.QuoteID)
	assert.Equal(t, int64(3), stub.got.FitterID)
	assert.Equal(t, models.PeriodAM, stub.got.TimePeriod)
	require.NotNil(t, stub.got.FittingDate)
	assert.Equal(t, "2025-03-10", stub.got.FittingDate.Format("2006-01-02"))

	var resp convert.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Job)
	assert.Equal(t, "pending", resp.Job.Status)
}

func TestConvertHandler_ConflictCarriesKind(t *testing.T) {
	stub := &stubConverter{err: &response.ConflictError{
		Kind:    string(models.ConflictHalfDayBooked),
		Message: "fitter already has a morning job",
	}}
	handler := convert.New(discardLogger(), stub)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, newRequest(t, "7", api.ConvertQuoteRequest{
		FitterID:    3,
		FittingDate: "2025-03-10",
		TimePeriod:  "am",
	}))

	require.Equal(t, http.StatusConflict, w.Code)

	var resp convert.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Conflict)
	assert.Equal(t, "HALF_DAY_BOOKED", resp.Conflict.Kind)
	assert.Equal(t, "fitter already has a morning job", resp.Conflict.Message)
}

func TestConvertHandler_InvalidPeriodRejected(t *testing.T) {
	stub := &stubConverter{}
	handler := convert.New(discardLogger(), stub)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, newRequest(t, "7", api.ConvertQuoteRequest{
		FitterID:   3,
		TimePeriod: "morning",
	}))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, stub.got)
}
