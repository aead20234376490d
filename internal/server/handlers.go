package server

import (
	"encoding/json"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/laidout/impose/pkg/buildinfo"
	"github.com/laidout/impose/pkg/disposition"
	"github.com/laidout/impose/pkg/errors"
	"github.com/laidout/impose/pkg/net"
	"github.com/laidout/impose/pkg/pipeline"
	"github.com/laidout/impose/pkg/store"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) handleKinds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"kinds": disposition.Kinds()})
}

// =============================================================================
// Impose
// =============================================================================

// imposeRequest is a pipeline run, optionally starting from a stored preset.
type imposeRequest struct {
	pipeline.Options
	Preset string `json:"preset,omitempty"`
}

type imposeResponse struct {
	RequestID  string                `json:"request_id"`
	Name       string                `json:"name"`
	Layout     string                `json:"layout"`
	ConfigHash string                `json:"config_hash"`
	Pages      int                   `json:"pages"`
	Papers     int                   `json:"papers"`
	Spreads    [][]disposition.Range `json:"spreads"`
	Artifacts  map[string][]byte     `json:"artifacts"`
	Cached     cacheResponse         `json:"cached"`
	Timing     timingResponse        `json:"timing_ms"`
}

type cacheResponse struct {
	Layout bool `json:"layout"`
	Render bool `json:"render"`
}

type timingResponse struct {
	Layout float64 `json:"layout"`
	Render float64 `json:"render"`
}

func (s *Server) handleImpose(w http.ResponseWriter, r *http.Request) {
	var req imposeRequest
	if !s.decode(w, r, &req) {
		return
	}
	opts := req.Options
	if req.Preset != "" {
		p, err := s.Store.Get(r.Context(), req.Preset)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		opts.Kind = p.Kind
		opts.Options = p.Options
	}

	raw := r.URL.Query().Get("format")
	if raw != "" {
		opts.Formats = []string{raw}
	}
	opts.Logger = s.Logger.With("request_id", RequestIDFrom(r.Context()))

	res, err := s.Runner.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if raw != "" {
		w.Header().Set("Content-Type", contentTypes[raw])
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(res.Artifacts[raw])
		return
	}

	resp := imposeResponse{
		RequestID:  RequestIDFrom(r.Context()),
		Name:       res.Document.Name,
		Layout:     res.Document.Layout.String(),
		ConfigHash: res.ConfigHash,
		Pages:      res.Stats.Pages,
		Papers:     res.Stats.Papers,
		Artifacts:  res.Artifacts,
		Cached:     cacheResponse{Layout: res.CacheInfo.LayoutHit, Render: res.CacheInfo.RenderHit},
		Timing: timingResponse{
			Layout: float64(res.Stats.LayoutTime.Microseconds()) / 1000,
			Render: float64(res.Stats.RenderTime.Microseconds()) / 1000,
		},
	}
	for _, sp := range res.Document.Spreads {
		resp.Spreads = append(resp.Spreads, sp.PageRanges())
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// Presets
// =============================================================================

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	list, err := s.Store.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"presets": list})
}

func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	p, err := s.Store.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePutPreset(w http.ResponseWriter, r *http.Request) {
	var p store.Preset
	if !s.decode(w, r, &p) {
		return
	}
	p.Name = chi.URLParam(r, "name")
	p.ID, p.CreatedAt = "", time.Time{}
	if err := s.Store.Put(r.Context(), &p); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, &p)
}

func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Nets
// =============================================================================

func (s *Server) handleListNets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"nets": net.BuiltinNames()})
}

func (s *Server) handleNet(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	ext := path.Ext(file)
	name := strings.TrimSuffix(file, ext)
	format := strings.TrimPrefix(ext, ".")
	if format == "" {
		format = pipeline.FormatDOT
	}

	data, err := s.Runner.RenderNet(r.Context(), name, format)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	_, _ = w.Write(data)
}

// =============================================================================
// Helpers
// =============================================================================

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusFor maps error codes onto HTTP statuses.
func statusFor(err error) int {
	switch code := errors.GetCode(err); {
	case code == errors.ErrCodeNotFound:
		return http.StatusNotFound
	case code == errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case code == errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.IsInvalid(err):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(errors.GetCodeOr(err, errors.ErrCodeInternal))
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", RequestIDFrom(r.Context()))
		msg = "internal error"
	}
	writeError(w, status, code, msg)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, string(errors.ErrCodeInvalidFormat), "decode request: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
