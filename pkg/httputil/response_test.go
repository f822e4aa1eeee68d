package httputil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/YousefAboschwaly/ecommerce-V2/pkg/errors"
	"github.com/YousefAboschwaly/ecommerce-V2/pkg/logger"
	"github.com/YousefAboschwaly/ecommerce-V2/pkg/validator"
)

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, Response{Data: map[string]string{"id": "cart-1"}})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestWriteError_AppError(t *testing.T) {
	log := logger.NewWithWriter("test", "info", &bytes.Buffer{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()

	WriteError(rec, req, apperrors.NotFound("cart line", "line-1"), log, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "line-1")
}

func TestWriteError_WrappedSentinel(t *testing.T) {
	log := logger.NewWithWriter("test", "info", &bytes.Buffer{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()

	WriteError(rec, req, fmt.Errorf("refresh cart: %w", apperrors.ErrUpstream), log, nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UPSTREAM_ERROR", resp.Error.Code)
}

func TestWriteError_UnknownErrorLogsAndHides(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("test", "info", &buf)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()

	WriteError(rec, req, fmt.Errorf("pool exhausted"), log, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	// Internal details stay in the log, never in the response.
	assert.NotContains(t, resp.Error.Message, "pool exhausted")
	assert.Contains(t, buf.String(), "pool exhausted")
}

func TestWriteError_IncludesNotice(t *testing.T) {
	log := logger.NewWithWriter("test", "info", &bytes.Buffer{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()

	notice := &Notice{Level: "error", Message: "Couldn't add product to cart"}
	WriteError(rec, req, apperrors.Upstream("status fail"), log, notice)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Notice)
	assert.Equal(t, "error", resp.Notice.Level)
	assert.Equal(t, "Couldn't add product to cart", resp.Notice.Message)
}

func TestWriteError_IncludesRequestID(t *testing.T) {
	log := logger.NewWithWriter("test", "info", &bytes.Buffer{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req = req.WithContext(logger.WithCorrelationID(req.Context(), "corr-42"))
	rec := httptest.NewRecorder()

	WriteError(rec, req, apperrors.Unauthorized("login required"), log, nil)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "corr-42", resp.Error.RequestID)
}

func TestWriteValidationError_FieldErrors(t *testing.T) {
	type input struct {
		Email string `validate:"required,email"`
	}
	err := validator.Validate(input{Email: "nope"})
	require.Error(t, err)

	rec := httptest.NewRecorder()
	WriteValidationError(rec, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Equal(t, "must be a valid email address", resp.Error.Fields["Email"])
}

func TestWriteValidationError_PlainError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteValidationError(rec, fmt.Errorf("decode request body: unexpected EOF"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	assert.Empty(t, resp.Error.Fields)
}
