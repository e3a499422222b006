// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/animeapi/internal/platform/apperr"
	requestutil "github.com/taibuivan/animeapi/internal/platform/request"
)

func withParams(request *http.Request, pairs ...string) *http.Request {
	routeCtx := chi.NewRouteContext()
	for i := 0; i+1 < len(pairs); i += 2 {
		routeCtx.URLParams.Add(pairs[i], pairs[i+1])
	}
	return request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, routeCtx))
}

/*
TestDecodeJSON covers valid, malformed and empty bodies.
*/
func TestDecodeJSON(t *testing.T) {
	var target struct {
		Name string `json:"name"`
	}

	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Naruto"}`))
	require.NoError(t, requestutil.DecodeJSON(request, &target))
	assert.Equal(t, "Naruto", target.Name)

	request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	assert.True(t, apperr.HasCode(requestutil.DecodeJSON(request, &target), apperr.CodeValidation))

	request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.True(t, apperr.HasCode(requestutil.DecodeJSON(request, &target), apperr.CodeValidation))
}

/*
TestParam decodes escaped path segments.
*/
func TestParam(t *testing.T) {
	request := withParams(httptest.NewRequest(http.MethodGet, "/", nil), "name", "One%20Piece")
	assert.Equal(t, "One Piece", requestutil.Param(request, "name"))
}

/*
TestIntParam rejects non-numeric segments.
*/
func TestIntParam(t *testing.T) {
	request := withParams(httptest.NewRequest(http.MethodGet, "/", nil), "startIndex", "20", "pageSize", "abc")

	value, err := requestutil.IntParam(request, "startIndex")
	require.NoError(t, err)
	assert.Equal(t, 20, value)

	_, err = requestutil.IntParam(request, "pageSize")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}
