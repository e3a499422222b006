// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/animeapi/internal/platform/apperr"
	"github.com/taibuivan/animeapi/internal/platform/respond"
	"github.com/taibuivan/animeapi/pkg/pagination"
)

/*
TestError_AppError renders the client-safe message and status of an AppError.
*/
func TestError_AppError(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	respond.Error(recorder, request, apperr.ValidationError("Validation failed",
		apperr.FieldError{Field: "name", Message: "This field is required"}))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var body respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "name", body.Details[0].Field)
}

/*
TestError_PlainError hides raw errors behind a generic 500.
*/
func TestError_PlainError(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	respond.Error(recorder, request, errors.New("pq: relation does not exist"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "relation")
}

/*
TestPaginated writes the data and meta blocks.
*/
func TestPaginated(t *testing.T) {
	recorder := httptest.NewRecorder()

	respond.Paginated(recorder, []string{"a", "b"}, pagination.NewMeta(1, 2, 5))

	var body struct {
		Data []string        `json:"data"`
		Meta pagination.Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, []string{"a", "b"}, body.Data)
	assert.Equal(t, 3, body.Meta.TotalPages)
}

/*
TestStatus keeps the success envelope under a non-200 code.
*/
func TestStatus(t *testing.T) {
	recorder := httptest.NewRecorder()

	respond.Status(recorder, http.StatusConflict, map[string]int{"failureCount": 1})

	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.JSONEq(t, `{"data":{"failureCount":1}}`, recorder.Body.String())
}
