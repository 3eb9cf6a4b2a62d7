package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sgaunet/s3browse/pkg/folderops"
	"github.com/sgaunet/s3browse/pkg/keypath"
	"github.com/sgaunet/s3browse/pkg/selection"
	"github.com/sgaunet/s3browse/pkg/session"
	"github.com/sgaunet/s3browse/pkg/store"
	"github.com/sgaunet/s3browse/pkg/transfer"
)

var (
	// ErrMissingKeyParam is returned when the key query parameter is absent.
	ErrMissingKeyParam = errors.New("missing key parameter")
	// ErrOutsidePrefix is returned for keys outside the configured prefix.
	ErrOutsidePrefix = errors.New("key is outside the configured prefix")
	// ErrBucketLocked is returned when the configuration pins the bucket.
	ErrBucketLocked = errors.New("bucket changes are not permitted when a bucket is set in configuration")
	// ErrBadRequestBody is returned when a JSON body cannot be decoded.
	ErrBadRequestBody = errors.New("invalid request body")
	// ErrMethodNotAllowed is returned when a route exists for another method.
	ErrMethodNotAllowed = errors.New("method not allowed")
)

type errorResponse struct {
	Error string `json:"error"`
}

type failureResponse struct {
	Key   string `json:"key"`
	Error string `json:"error"`
}

// batchResponse is the body of bulk operations. Status is 200 when every key
// succeeded and 207 otherwise.
type batchResponse struct {
	Op        string            `json:"op"`
	Succeeded []string          `json:"succeeded"`
	Skipped   []string          `json:"skipped,omitempty"`
	Failures  []failureResponse `json:"failures,omitempty"`
}

func newBatchResponse(res *folderops.Result) batchResponse {
	out := batchResponse{Op: res.Op, Succeeded: res.Succeeded, Skipped: res.Skipped}
	if out.Succeeded == nil {
		out.Succeeded = []string{}
	}
	for _, f := range res.Failures {
		out.Failures = append(out.Failures, failureResponse{Key: f.Key, Error: f.Err.Error()})
	}
	return out
}

func (s *App) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("Failed to encode response", slog.String("error", err.Error()))
	}
}

// writeError logs err and answers with the status matching its kind.
func (s *App) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("Request failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
	} else {
		s.log.Warn("Request rejected", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusOf(err error) int {
	var validation *folderops.ValidationError
	switch {
	case errors.Is(err, session.ErrBusy), errors.Is(err, session.ErrStaleListing):
		return http.StatusConflict
	case errors.Is(err, store.ErrNotFound), errors.Is(err, folderops.ErrEmptyFolder):
		return http.StatusNotFound
	case errors.Is(err, ErrBucketLocked), errors.Is(err, ErrOutsidePrefix):
		return http.StatusForbidden
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, store.ErrSizeExceeded):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, store.ErrNotText):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, session.ErrNotConnected):
		return http.StatusServiceUnavailable
	case errors.Is(err, folderops.ErrIncomplete), errors.Is(err, transfer.ErrIncomplete):
		return http.StatusMultiStatus
	case errors.As(err, &validation),
		errors.Is(err, keypath.ErrEmptyName),
		errors.Is(err, folderops.ErrNotAFolder),
		errors.Is(err, session.ErrNoBucket),
		errors.Is(err, session.ErrEmptySelection),
		errors.Is(err, session.ErrUnknownKey),
		errors.Is(err, selection.ErrUnknownGesture),
		errors.Is(err, selection.ErrMissingKey),
		errors.Is(err, selection.ErrUnknownModifier),
		errors.Is(err, ErrMissingKeyParam),
		errors.Is(err, ErrBadRequestBody),
		errors.Is(err, ErrInvalidPageFormat),
		errors.Is(err, ErrInvalidPageValue),
		errors.Is(err, ErrInvalidPerPage),
		errors.Is(err, ErrParseUploadRequest),
		errors.Is(err, ErrNoFileUploaded),
		errors.Is(err, ErrFileTooLarge):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *App) decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequestBody, err)
	}
	return nil
}

// inScope reports whether key lies under the configured prefix.
func (s *App) inScope(key string) bool {
	return s.cfg.S3.Prefix == "" || strings.HasPrefix(key, s.cfg.S3.Prefix)
}

func (s *App) checkScope(keys ...string) error {
	for _, key := range keys {
		if !s.inScope(key) {
			return fmt.Errorf("%w: %q not under %q", ErrOutsidePrefix, key, s.cfg.S3.Prefix)
		}
	}
	return nil
}

// extractAndValidateKey extracts the key parameter from the request and validates it.
func (s *App) extractAndValidateKey(r *http.Request) (string, error) {
	key := r.URL.Query().Get("key")
	if key == "" {
		return "", ErrMissingKeyParam
	}
	if err := s.checkScope(key); err != nil {
		return "", err
	}
	return key, nil
}
