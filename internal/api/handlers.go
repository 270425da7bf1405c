package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/leonardomso/lessonblocks/internal/block"
	"github.com/leonardomso/lessonblocks/internal/parser"
	"github.com/leonardomso/lessonblocks/internal/render"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

// ParseRequest is the JSON body accepted by /parse and /render.
// A text/plain body is treated as Content.
type ParseRequest struct {
	Content     string `json:"content"`
	FencePolicy string `json:"fence_policy,omitempty"`
}

// ParseResponse is returned by POST /parse.
type ParseResponse struct {
	FencePolicy string         `json:"fence_policy"`
	Blocks      []block.Record `json:"blocks"`
	Counts      map[string]int `json:"counts"`
}

// Handler holds API route handlers.
type Handler struct {
	parser     *parser.Parser
	renderOpts render.Options
}

// NewHandler creates a handler. Requests that name no fence policy use p.
func NewHandler(p *parser.Parser, renderOpts render.Options) *Handler {
	if p == nil {
		p = parser.Default()
	}
	return &Handler{parser: p, renderOpts: renderOpts}
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Parse handles POST /parse.
func (h *Handler) Parse(w http.ResponseWriter, r *http.Request) {
	req, p, ok := h.decode(w, r)
	if !ok {
		return
	}

	blocks := p.Parse(req.Content)

	counts := make(map[string]int, len(block.Kinds()))
	for k, n := range block.Document(blocks).CountByKind() {
		counts[string(k)] = n
	}

	writeJSON(w, http.StatusOK, ParseResponse{
		FencePolicy: p.Policy().String(),
		Blocks:      block.Records(blocks),
		Counts:      counts,
	})
}

// Render handles POST /render?as=html|terminal|markdown.
// Optional query parameters width and font_size tune the terminal renderer.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := h.renderOpts
	if v := q.Get("width"); v != "" {
		width, err := strconv.Atoi(v)
		if err != nil || width < 0 {
			writeJSON(w, http.StatusBadRequest, errorBody("width must be a non-negative integer"))
			return
		}
		opts.Width = width
	}
	if v := q.Get("font_size"); v != "" {
		size, err := render.ParseFontSize(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		opts.FontSize = size
	}

	name := q.Get("as")
	if name == "" {
		name = "html"
	}
	renderer, err := render.New(name, opts)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	req, p, ok := h.decode(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(renderer.Name()))
	w.WriteHeader(http.StatusOK)
	_ = render.Render(w, renderer, p.Parse(req.Content))
}

// decode reads the request body and picks the parser for it. It writes the
// error response itself and returns ok=false on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (ParseRequest, *parser.Parser, bool) {
	var req ParseRequest

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("request body too large"))
		} else {
			writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		}
		return req, nil, false
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "text/plain" {
		req.Content = string(body)
	} else if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return req, nil, false
	}

	if req.FencePolicy == "" {
		return req, h.parser, true
	}
	policy, ok := parser.ParseFencePolicy(req.FencePolicy)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("fence_policy must be skip or duplicate"))
		return req, nil, false
	}
	return req, parser.New(parser.WithFencePolicy(policy)), true
}

func contentTypeFor(renderer string) string {
	switch strings.ToLower(renderer) {
	case "html":
		return "text/html; charset=utf-8"
	case "markdown":
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}
