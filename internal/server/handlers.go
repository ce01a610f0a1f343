package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/coinvenn/coinvenn/pkg/errors"
	"github.com/coinvenn/coinvenn/pkg/holdings"
	"github.com/coinvenn/coinvenn/pkg/pipeline"
	"github.com/coinvenn/coinvenn/pkg/render/sink"
	"github.com/coinvenn/coinvenn/pkg/scene"
)

// indexResponse wraps the index with its freshness timestamp.
type indexResponse struct {
	LastUpdated time.Time       `json:"last_updated"`
	Index       *holdings.Index `json:"index"`
}

// sceneResponse wraps a scene with its freshness timestamp.
type sceneResponse struct {
	LastUpdated time.Time   `json:"last_updated"`
	Scene       scene.Scene `json:"scene"`
}

type errorResponse struct {
	Error string         `json:"error"`
	Code  apperrors.Code `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	idx, updatedAt := s.currentIndex()
	status := map[string]any{
		"status": "ok",
		"ready":  idx != nil,
	}
	if idx != nil {
		status["last_updated"] = updatedAt
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	idx, updatedAt := s.currentIndex()
	if idx == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error: "no snapshot available yet",
			Code:  apperrors.ErrCodeSnapshotNotFound,
		})
		return
	}
	writeJSON(w, http.StatusOK, indexResponse{LastUpdated: updatedAt, Index: idx})
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	idx, updatedAt := s.currentIndex()
	if idx == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error: "no snapshot available yet",
			Code:  apperrors.ErrCodeSnapshotNotFound,
		})
		return
	}

	opts, err := s.layoutOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	sc, err := s.runner.Layout(r.Context(), idx, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sceneResponse{LastUpdated: updatedAt, Scene: sc})
}

func (s *Server) handleSceneSVG(w http.ResponseWriter, r *http.Request) {
	idx, _ := s.currentIndex()
	if idx == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error: "no snapshot available yet",
			Code:  apperrors.ErrCodeSnapshotNotFound,
		})
		return
	}

	opts, err := s.layoutOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	sc, err := s.runner.Layout(r.Context(), idx, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	svg := sink.RenderSVG(sc,
		sink.WithLegend(r.URL.Query().Get("legend") != "false"),
		sink.WithGuides(r.URL.Query().Get("guides") != "false"))

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.Refresh(r.Context()); err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error: apperrors.UserMessage(err),
			Code:  apperrors.GetCode(err),
		})
		return
	}
	idx, updatedAt := s.currentIndex()
	writeJSON(w, http.StatusOK, map[string]any{
		"last_updated": updatedAt,
		"entities":     len(idx.Entities),
		"assets":       len(idx.Assets),
	})
}

// layoutOptions derives per-request layout options from the query string.
// entities and assets are comma-separated; absence selects everything.
// Identifiers are validated before they reach the layout stage.
func (s *Server) layoutOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.opts
	q := r.URL.Query()
	opts.Entities = splitList(q.Get("entities"))
	opts.Assets = splitList(q.Get("assets"))
	for _, name := range opts.Entities {
		if err := apperrors.ValidateEntityName(name); err != nil {
			return pipeline.Options{}, err
		}
	}
	for _, sym := range opts.Assets {
		if err := apperrors.ValidateAssetSymbol(sym); err != nil {
			return pipeline.Options{}, err
		}
	}
	return opts, nil
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps application error codes onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(apperrors.GetCode(err)), errorResponse{
		Error: apperrors.UserMessage(err),
		Code:  apperrors.GetCode(err),
	})
}

func statusFor(code apperrors.Code) int {
	switch code {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidFormat,
		apperrors.ErrCodeInvalidSelection, apperrors.ErrCodeInvalidEntity,
		apperrors.ErrCodeInvalidAsset:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeEntityNotFound,
		apperrors.ErrCodeSnapshotNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeNetwork, apperrors.ErrCodeTimeout:
		return http.StatusBadGateway
	case apperrors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
