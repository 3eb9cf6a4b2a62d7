package app

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sgaunet/s3browse/pkg/folderops"
)

type keysRequest struct {
	// Keys replaces the selection for the operation when not empty.
	Keys        []string `json:"keys"`
	Destination string   `json:"destination,omitempty"`
}

// DeleteHandler deletes the selection, or the keys of the body.
func (s *App) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	var req keysRequest
	if err := s.decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, r, err)
		return
	}
	if len(req.Keys) == 0 {
		s.deleteSelected(w, r)
		return
	}
	if err := s.checkScope(req.Keys...); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.session.DeleteKeys(r.Context(), req.Keys)
	s.writeBatch(w, r, res, err)
}

func (s *App) deleteSelected(w http.ResponseWriter, r *http.Request) {
	if err := s.checkScope(s.session.SelectedKeys()...); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.session.DeleteSelected(r.Context())
	s.writeBatch(w, r, res, err)
}

// MoveHandler moves the selected files, or the keys of the body, under
// destination. Folders are reported as failures.
func (s *App) MoveHandler(w http.ResponseWriter, r *http.Request) {
	var req keysRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.checkScope(req.Destination); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Keys) == 0 {
		if err := s.checkScope(s.session.SelectedKeys()...); err != nil {
			s.writeError(w, r, err)
			return
		}
		res, err := s.session.MoveSelected(r.Context(), req.Destination)
		s.writeBatch(w, r, res, err)
		return
	}
	if err := s.checkScope(req.Keys...); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.session.MoveKeys(r.Context(), req.Keys, req.Destination)
	s.writeBatch(w, r, res, err)
}

func (s *App) writeBatch(w http.ResponseWriter, r *http.Request, res *folderops.Result, err error) {
	if res == nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if err != nil {
		s.log.Warn("Batch finished with failures",
			slog.String("op", res.Op),
			slog.Int("succeeded", len(res.Succeeded)),
			slog.Int("failed", len(res.Failures)))
		status = http.StatusMultiStatus
	}
	s.writeJSON(w, status, newBatchResponse(res))
}
