package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/treesquares/treesquares/pkg/buildinfo"
	"github.com/treesquares/treesquares/pkg/errors"
	"github.com/treesquares/treesquares/pkg/pipeline"
	"github.com/treesquares/treesquares/pkg/render/svg"
	"github.com/treesquares/treesquares/pkg/render/treemap/styles"
	"github.com/treesquares/treesquares/pkg/table"
)

// Response headers set by /render.
const (
	HeaderCache       = "X-Cache"
	HeaderDiagnostics = "X-Diagnostics"
	HeaderTableHash   = "X-Table-Hash"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatPNG:  "image/png",
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type formatsResponse struct {
	Formats      []string          `json:"formats"`
	Canvases     []string          `json:"canvases"`
	Orientations []svg.Orientation `json:"orientations"`
}

type errorResponse struct {
	Error     string      `json:"error"`
	Code      errors.Code `json:"code,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version})
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, formatsResponse{
		Formats:      []string{pipeline.FormatSVG, pipeline.FormatJSON, pipeline.FormatPDF, pipeline.FormatPNG},
		Canvases:     svg.FormatNames(),
		Orientations: []svg.Orientation{svg.Landscape, svg.Portrait},
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, csvOpts, err := parseRenderQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	t, err := table.ReadCSV(body, csvOpts...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), t, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := opts.Formats[0]
	h := w.Header()
	h.Set("Content-Type", contentTypes[format])
	h.Set(HeaderTableHash, result.TableHash)
	h.Set(HeaderDiagnostics, strconv.Itoa(len(result.Diagnostics)))
	if result.CacheInfo.RenderHit {
		h.Set(HeaderCache, "hit")
	} else {
		h.Set(HeaderCache, "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// parseRenderQuery maps the /render query string onto pipeline options.
func parseRenderQuery(r *http.Request) (pipeline.Options, []table.CSVOption, error) {
	q := r.URL.Query()

	opts := pipeline.Options{
		Source:  q.Get("name"),
		Area:    q.Get("area"),
		Quality: q.Get("quality"),
		Canvas:  q.Get("canvas"),
		Title:   q.Get("title"),
	}
	if opts.Source == "" {
		opts.Source = "request"
	}
	for _, level := range strings.Split(q.Get("levels"), ",") {
		if level = strings.TrimSpace(level); level != "" {
			opts.Hierarchy = append(opts.Hierarchy, level)
		}
	}

	rules, err := styles.ParseRuleSpecs(q["rule"])
	if err != nil {
		return opts, nil, err
	}
	opts.Rules = rules

	if f := q.Get("format"); f != "" {
		if err := pipeline.ValidateFormat(f); err != nil {
			return opts, nil, err
		}
		opts.Formats = []string{f}
	}

	switch o := svg.Orientation(q.Get("orientation")); o {
	case "", svg.Landscape, svg.Portrait:
		opts.Orientation = o
	default:
		return opts, nil, errors.New(errors.ErrCodeInvalidCanvas, "orientation must be landscape or portrait, got %q", o)
	}

	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil || scale <= 0 {
			return opts, nil, errors.New(errors.ErrCodeInvalidInput, "invalid scale %q", v)
		}
		opts.Scale = scale
	}
	opts.Refresh = q.Get("refresh") == "true"

	csvOpts := []table.CSVOption{table.WithName(opts.Source)}
	if d := q.Get("delimiter"); d != "" {
		c, size := utf8.DecodeRuneInString(d)
		if size != len(d) || c == '"' || c == '\n' {
			return opts, nil, errors.New(errors.ErrCodeInvalidInput, "delimiter must be a single character, got %q", d)
		}
		csvOpts = append(csvOpts, table.WithDelimiter(c))
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, nil, err
	}
	return opts, csvOpts, nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("render failed", "err", err, "id", RequestIDFrom(r.Context()))
	}
	writeJSON(w, status, errorResponse{
		Error:     errors.UserMessage(err),
		Code:      errors.GetCode(err),
		RequestID: RequestIDFrom(r.Context()),
	})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidCanvas,
		errors.ErrCodeInvalidRule:
		return http.StatusBadRequest
	case errors.ErrCodeMissingColumn:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
