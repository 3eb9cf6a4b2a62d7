package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sgaunet/s3browse/pkg/folderops"
	"github.com/sgaunet/s3browse/pkg/keypath"
)

type createFolderRequest struct {
	Name string `json:"name"`
}

type keyResponse struct {
	Key string `json:"key"`
}

// CreateFolderHandler creates a folder under the current prefix.
func (s *App) CreateFolderHandler(w http.ResponseWriter, r *http.Request) {
	var req createFolderRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	key, err := s.session.CreateFolder(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, keyResponse{Key: key})
}

type renameRequest struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

type partialRenameResponse struct {
	Error     string            `json:"error"`
	OldPrefix string            `json:"oldPrefix"`
	NewPrefix string            `json:"newPrefix"`
	Copied    []string          `json:"copied"`
	Failures  []failureResponse `json:"failures"`
}

// RenameHandler renames a file or a folder in place.
func (s *App) RenameHandler(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Key == "" {
		s.writeError(w, r, ErrMissingKeyParam)
		return
	}
	if err := s.checkScope(req.Key); err != nil {
		s.writeError(w, r, err)
		return
	}
	if !s.newKeyInScope(req.Key) {
		s.writeError(w, r, fmt.Errorf("%w: cannot rename %q", ErrOutsidePrefix, req.Key))
		return
	}

	newKey, err := s.session.Rename(r.Context(), req.Key, req.Name)
	var partial *folderops.PartialRenameError
	switch {
	case errors.As(err, &partial):
		resp := partialRenameResponse{
			Error:     partial.Error(),
			OldPrefix: partial.OldPrefix,
			NewPrefix: partial.NewPrefix,
			Copied:    partial.Copied,
		}
		for _, f := range partial.Failures {
			resp.Failures = append(resp.Failures, failureResponse{Key: f.Key, Error: f.Err.Error()})
		}
		s.writeJSON(w, http.StatusMultiStatus, resp)
	case err != nil:
		s.writeError(w, r, err)
	default:
		s.writeJSON(w, http.StatusOK, keyResponse{Key: newKey})
	}
}

// newKeyInScope reports whether a rename of key stays under the configured
// prefix. A rename keeps the parent folder.
func (s *App) newKeyInScope(key string) bool {
	return s.inScope(keypath.ParentPrefix(key))
}
