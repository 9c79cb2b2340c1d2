package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plasmidmap/plasmidmap/pkg/cache"
	"github.com/plasmidmap/plasmidmap/pkg/pipeline"
	"github.com/plasmidmap/plasmidmap/pkg/plasmid"
)

func newTestServer(t *testing.T) *httptest.Server {
	return newTestServerWith(t, Config{})
}

func newTestServerWith(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := New(pipeline.NewRunner(fc, nil, logger), logger, cfg)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func genbankContent(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("../../pkg/io/genbank/testdata/puc_fragment.gb")
	require.NoError(t, err)
	return string(data)
}

func post(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) errorResponse {
	t.Helper()
	var e errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	return e
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(HeaderRequestID))
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestRequestIDEchoed(t *testing.T) {
	ts := newTestServer(t)
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get(HeaderRequestID))
}

func TestPalettes(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/v1/palettes")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Groups []struct {
			Name   string   `json:"name"`
			Colors []string `json:"colors"`
		} `json:"groups"`
		Aliases map[string]string `json:"aliases"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Groups, 3)
	assert.Equal(t, "Pastel", body.Groups[0].Name)
	assert.NotEmpty(t, body.Aliases)
}

func TestParse(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts.URL+"/api/v1/parse", map[string]any{
		"filename": "puc.gb",
		"content":  genbankContent(t),
		"seed":     7,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var ds plasmid.Dataset
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ds))
	assert.Equal(t, "pTEST", ds.Name)
	assert.Len(t, ds.Elements, 4)
}

func TestParseErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body any
		code string
	}{
		{"no content", map[string]any{"format": "csv"}, "INVALID_INPUT"},
		{"missing column", map[string]any{"format": "csv", "content": "Element,Start\nx,1\n"}, "MISSING_COLUMN"},
		{"bad format", map[string]any{"format": "fasta", "content": ">x\nACGT\n"}, "INVALID_FORMAT"},
		{"path traversal", map[string]any{"filename": "../x.gb", "content": "x"}, "INVALID_PATH"},
		{"unknown field", map[string]any{"content": "x", "colour": "red"}, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/api/v1/parse", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.code, decodeError(t, resp).Code)
		})
	}
}

func TestRenderSVGAndCache(t *testing.T) {
	ts := newTestServer(t)
	body := map[string]any{
		"filename": "puc.gb",
		"content":  genbankContent(t),
		"seed":     3,
		"config":   map[string]any{"font_size": 12, "show_sizes": true},
	}

	first := post(t, ts.URL+"/api/v1/render", body)
	require.Equal(t, http.StatusOK, first.StatusCode)
	assert.Equal(t, "image/svg+xml", first.Header.Get("Content-Type"))
	assert.Equal(t, "miss", first.Header.Get(HeaderCache))
	svg, err := io.ReadAll(first.Body)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(svg, []byte("<svg")))

	second := post(t, ts.URL+"/api/v1/render", body)
	require.Equal(t, http.StatusOK, second.StatusCode)
	assert.Equal(t, "hit", second.Header.Get(HeaderCache))
	assert.Equal(t, first.Header.Get(HeaderSceneHash), second.Header.Get(HeaderSceneHash))
}

func TestRenderElementsPNG(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts.URL+"/api/v1/render", map[string]any{
		"name": "manual",
		"elements": []map[string]any{
			{"element": "promoter", "start": 1, "end": 120, "position": "Up", "colour": "lightgreen", "arrow": "Pointed", "promoter": true},
			{"element": "GFP", "start": 200, "end": 920, "position": "Down", "colour": "green", "arrow": "Flat"},
		},
		"output": "png",
		"dpi":    25,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestRenderNothingToRender(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts.URL+"/api/v1/render", map[string]any{
		"filename": "puc.gb",
		"content":  genbankContent(t),
		"seed":     3,
		"config":   map[string]any{"region": map[string]int{"start": 5000, "end": 6000}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "NOTHING_TO_RENDER", decodeError(t, resp).Code)
}

func TestRenderErrors(t *testing.T) {
	ts := newTestServer(t)
	content := genbankContent(t)

	tests := []struct {
		name string
		body map[string]any
		code string
	}{
		{"bad output", map[string]any{"filename": "a.gb", "content": content, "output": "gif"}, "INVALID_FORMAT"},
		{"bad font size", map[string]any{"filename": "a.gb", "content": content, "config": map[string]any{"font_size": 40}}, "INVALID_CONFIG"},
		{"content and elements", map[string]any{"filename": "a.gb", "content": content, "elements": []any{map[string]any{"element": "x"}}}, "INVALID_INPUT"},
		{"bad override side", map[string]any{"filename": "a.gb", "content": content, "overrides": []any{map[string]any{"index": 0, "name": "x", "side": "left"}}}, "INVALID_CONFIG"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/api/v1/render", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.code, decodeError(t, resp).Code)
		})
	}
}

func TestRenderDPILimit(t *testing.T) {
	content := genbankContent(t)
	render := func(ts *httptest.Server, output string, dpi float64) *http.Response {
		return post(t, ts.URL+"/api/v1/render", map[string]any{
			"filename": "puc.gb", "content": content, "seed": 3, "output": output, "dpi": dpi,
		})
	}

	// 1200 dpi is a valid render setting but too large for the default limit.
	resp := render(newTestServer(t), "png", 1200)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_CONFIG", decodeError(t, resp).Code)

	ts := newTestServerWith(t, Config{MaxDPI: 20})
	resp = render(ts, "png", 25)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeError(t, resp).Message, "limit of 20")

	assert.Equal(t, http.StatusOK, render(ts, "png", 20).StatusCode)
	assert.Equal(t, http.StatusOK, render(ts, "svg", 1200).StatusCode, "dpi only bounds raster output")
}

func TestNotFoundAndMethod(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/v1/render")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestBodyTooLarge(t *testing.T) {
	fc := cache.NewNullCache()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := New(pipeline.NewRunner(fc, nil, logger), logger, Config{MaxBodySize: 64})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader(`{"content":"`+strings.Repeat("x", 200)+`"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
