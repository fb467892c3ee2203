package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalogHandlerOK(t *testing.T) {
	svc, err := NewService(ServiceConfig{Queries: fixtureQueries()})
	require.NoError(t, err)
	h := NewHandler(HandlerConfig{Service: svc})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog?mode=general", nil)
	rec := httptest.NewRecorder()
	h.Catalog(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data []Category `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
}

func TestCatalogHandlerDefaultsToGeneral(t *testing.T) {
	q := fixtureQueries()
	svc, err := NewService(ServiceConfig{Queries: q})
	require.NoError(t, err)
	h := NewHandler(HandlerConfig{Service: svc})

	rec := httptest.NewRecorder()
	h.Catalog(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "general", q.gotMode)
}

func TestCatalogHandlerRejectsUnknownMode(t *testing.T) {
	svc, err := NewService(ServiceConfig{Queries: fixtureQueries()})
	require.NoError(t, err)
	h := NewHandler(HandlerConfig{Service: svc})

	rec := httptest.NewRecorder()
	h.Catalog(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog?mode=corporate", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "INVALID_MODE")
}
