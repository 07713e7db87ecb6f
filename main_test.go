package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixtureServer(t *testing.T) *Server {
	t.Helper()
	floor, err := LoadMap(fixtureMapPath)
	require.NoError(t, err)
	return NewServer(Default(), floor, newVirtualClock(100*time.Millisecond))
}

func postRoute(t *testing.T, handler http.Handler, body string) (*httptest.ResponseRecorder, RouteResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/route", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var resp RouteResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestRouteHandlerFindsRoute(t *testing.T) {
	handler := newFixtureServer(t).Handler()

	rec, resp := postRoute(t, handler, `{"from": "A", "to": "C"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	assert.True(t, resp.Success)
	assert.Equal(t, Route{"A", "B", "C"}, resp.Path)
	assert.Equal(t, []Point{{X: 10, Y: 10}, {X: 40, Y: 10}, {X: 70, Y: 10}}, resp.Points)
	assert.Equal(t, 2, resp.Hops)
	assert.InDelta(t, 60.0, resp.Length, 1e-9)
}

func TestRouteHandlerUnreachable(t *testing.T) {
	handler := newFixtureServer(t).Handler()

	rec, resp := postRoute(t, handler, `{"from": "A", "to": "F"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.False(t, resp.Success)
	assert.Empty(t, resp.Path)
	assert.Contains(t, resp.Message, ErrEmptyRoute.Error())
}

func TestRouteHandlerRejectsBadRequests(t *testing.T) {
	handler := newFixtureServer(t).Handler()

	tests := []struct {
		name   string
		method string
		body   string
		want   int
	}{
		{name: "wrong method", method: http.MethodGet, want: http.StatusMethodNotAllowed},
		{name: "malformed body", method: http.MethodPost, body: "{", want: http.StatusBadRequest},
		{name: "missing destination", method: http.MethodPost, body: `{"from": "A"}`, want: http.StatusBadRequest},
		{name: "preflight", method: http.MethodOptions, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/route", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHealthHandler(t *testing.T) {
	get := func(s *Server) map[string]any {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return body
	}

	body := get(newFixtureServer(t))
	assert.Equal(t, "ready", body["status"])
	assert.EqualValues(t, 4, body["numLocations"])
	assert.EqualValues(t, 2, body["numJunctions"])
	assert.EqualValues(t, 4, body["numEdges"])

	body = get(NewServer(Default(), nil, newVirtualClock(time.Millisecond)))
	assert.Equal(t, ErrMapNotLoaded.Error(), body["status"])
}

func TestGraphLinesHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	newFixtureServer(t).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphLines", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success  bool      `json:"success"`
		Lines    [][]Point `json:"lines"`
		NumNodes int       `json:"numNodes"`
		NumEdges int       `json:"numEdges"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.True(t, body.Success)
	assert.Equal(t, 6, body.NumNodes)
	assert.Equal(t, 4, body.NumEdges)
	require.Len(t, body.Lines, 4)
	assert.Equal(t, []Point{{X: 10, Y: 10}, {X: 40, Y: 10}}, body.Lines[0])
}

func TestMapHandlerServesDataset(t *testing.T) {
	handler := newFixtureServer(t).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/map", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	raw, err := os.ReadFile(fixtureMapPath)
	require.NoError(t, err)
	assert.Equal(t, raw, rec.Body.Bytes())

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/map", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	handler := newFixtureServer(t).Handler()
	postRoute(t, handler, `{"from": "A", "to": "E"}`)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "floornav_routes_total")
}
