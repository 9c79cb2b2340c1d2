package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/plasmidmap/plasmidmap/pkg/buildinfo"
	perrors "github.com/plasmidmap/plasmidmap/pkg/errors"
	pio "github.com/plasmidmap/plasmidmap/pkg/io"
	"github.com/plasmidmap/plasmidmap/pkg/palette"
	"github.com/plasmidmap/plasmidmap/pkg/pipeline"
	"github.com/plasmidmap/plasmidmap/pkg/plasmid"
	"github.com/plasmidmap/plasmidmap/pkg/render/layout"
	"github.com/plasmidmap/plasmidmap/pkg/render/sink"
)

// Response headers set by /api/v1/render.
const (
	HeaderCache     = "X-Cache"
	HeaderSceneHash = "X-Scene-Hash"
)

// source is the annotation part of a request body. Content holds the file
// text, or base64 when Base64 is set (XLSX uploads).
type source struct {
	Format   string `json:"format,omitempty"`
	Filename string `json:"filename,omitempty"`
	Content  string `json:"content,omitempty"`
	Base64   bool   `json:"base64,omitempty"`
	Seed     uint64 `json:"seed,omitempty"`
}

type parseRequest struct {
	source
}

type renderRequest struct {
	source
	Name       string               `json:"name,omitempty"`
	Elements   json.RawMessage      `json:"elements,omitempty"` // entry list, as in a YAML/JSON element file
	Config     plasmid.RenderConfig `json:"config"`
	Overrides  []pio.OverrideEntry  `json:"overrides,omitempty"`
	Hide       []string             `json:"hide,omitempty"`
	Output     string               `json:"output,omitempty"`
	DPI        float64              `json:"dpi,omitempty"`
	Background string               `json:"background,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) handlePalettes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Groups  []palette.Group   `json:"groups"`
		Aliases map[string]string `json:"aliases"`
		Default string            `json:"default"`
	}{palette.Groups(), palette.Aliases(), palette.Default})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if !s.decode(w, r, &req) {
		return
	}
	opts, err := req.options()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Timeout)
	defer cancel()
	ds, err := s.runner.Parse(ctx, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !s.decode(w, r, &req) {
		return
	}
	opts, err := req.options()
	if err == nil && opts.Formats[0] == pipeline.FormatPNG && opts.DPI > s.cfg.MaxDPI {
		err = perrors.New(perrors.ErrCodeInvalidConfig, "dpi %g exceeds this server's limit of %g", opts.DPI, s.cfg.MaxDPI)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Timeout)
	defer cancel()
	result, err := s.runner.Execute(ctx, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	format := opts.Formats[0]
	cache := "miss"
	if result.CacheInfo.RenderHit {
		cache = "hit"
	}
	data := result.Artifacts[format]
	w.Header().Set("Content-Type", sink.ContentType(format))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set(HeaderCache, cache)
	w.Header().Set(HeaderSceneHash, result.SceneHash)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// options turns the annotation part of a request into pipeline input.
func (src source) options() (pipeline.Options, error) {
	if src.Content == "" {
		return pipeline.Options{}, perrors.New(perrors.ErrCodeInvalidInput, "content is required")
	}
	if src.Filename != "" {
		if err := perrors.ValidateFilename(src.Filename); err != nil {
			return pipeline.Options{}, err
		}
	}
	data := []byte(src.Content)
	if src.Base64 {
		var err error
		if data, err = base64.StdEncoding.DecodeString(src.Content); err != nil {
			return pipeline.Options{}, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "decode base64 content")
		}
	}
	opts := pipeline.Options{Data: data, Filename: src.Filename, Format: src.Format, Seed: src.Seed}
	return opts, opts.ValidateForParse()
}

func (req renderRequest) options() (pipeline.Options, error) {
	var opts pipeline.Options
	switch {
	case hasElements(req.Elements) && req.Content != "":
		return opts, perrors.New(perrors.ErrCodeInvalidInput, "send either content or elements, not both")
	case hasElements(req.Elements):
		data, err := json.Marshal(struct {
			Name     string          `json:"name,omitempty"`
			Elements json.RawMessage `json:"elements"`
		}{req.Name, req.Elements})
		if err != nil {
			return opts, err
		}
		opts = pipeline.Options{Data: data, Format: string(pio.FormatEntries), Seed: req.Seed}
	default:
		var err error
		if opts, err = req.source.options(); err != nil {
			return opts, err
		}
	}

	output := req.Output
	if output == "" {
		output = pipeline.FormatSVG
	}
	o, err := pio.OverridesFromEntries(req.Overrides)
	if err != nil {
		return opts, err
	}
	opts.Overrides = o
	opts.Hide = req.Hide
	opts.Config = req.Config
	opts.Formats = []string{output}
	opts.DPI = req.DPI
	opts.Background = req.Background
	return opts, opts.ValidateAndSetDefaults()
}

func hasElements(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

// decode reads a JSON body, answering 400 itself on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, string(perrors.ErrCodeInvalidInput),
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		writeError(w, http.StatusBadRequest, string(perrors.ErrCodeInvalidInput), "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// fail maps a pipeline error onto a status code and error body.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, layout.ErrNothingToRender):
		writeError(w, http.StatusUnprocessableEntity, "NOTHING_TO_RENDER", "every element is hidden or outside the region")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, string(perrors.ErrCodeTimeout), "request timed out")
	case perrors.IsInput(err):
		writeError(w, http.StatusBadRequest, string(perrors.GetCode(err)), perrors.UserMessage(err))
	default:
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, string(perrors.ErrCodeInternal), "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, "encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
