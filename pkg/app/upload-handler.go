package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/sgaunet/s3browse/pkg/keypath"
	"github.com/sgaunet/s3browse/pkg/transfer"
)

const (
	// MaxUploadSize is the maximum size of an upload request (100 MB).
	MaxUploadSize = 100 * 1024 * 1024 // 100 MB
)

var (
	// ErrParseUploadRequest indicates failure to parse the upload form.
	ErrParseUploadRequest = errors.New("failed to parse upload request")
	// ErrNoFileUploaded indicates no file was provided in the upload request.
	ErrNoFileUploaded = errors.New("no file uploaded")
	// ErrFileTooLarge indicates the uploaded file exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")
)

type uploadResponse struct {
	Total     int             `json:"total"`
	Succeeded []string        `json:"succeeded"`
	Failures  []uploadFailure `json:"failures,omitempty"`
}

type uploadFailure struct {
	Source string `json:"source"`
	Key    string `json:"key"`
	Error  string `json:"error"`
}

// UploadHandler uploads the "file" parts of a multipart form under the
// "destination" field, or under the current prefix when it is empty.
func (s *App) UploadHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			const bytesPerMB = 1024 * 1024
			s.writeError(w, r, fmt.Errorf("%w (max %d MB)", ErrFileTooLarge, MaxUploadSize/bytesPerMB))
			return
		}
		s.log.Error("Failed to parse multipart form", slog.String("error", err.Error()))
		s.writeError(w, r, ErrParseUploadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		s.writeError(w, r, ErrNoFileUploaded)
		return
	}

	dest := s.uploadDestination(r)
	if err := s.checkScope(dest); err != nil {
		s.writeError(w, r, err)
		return
	}

	tmpDir, err := os.MkdirTemp("", "s3browse-upload-")
	if err != nil {
		s.writeError(w, r, fmt.Errorf("create staging directory: %w", err))
		return
	}
	defer os.RemoveAll(tmpDir) //nolint:errcheck

	paths := make([]string, 0, len(headers))
	for _, header := range headers {
		path, err := stageFile(tmpDir, header)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		paths = append(paths, path)
	}

	s.log.Info("Upload request", slog.String("destination", dest), slog.Int("files", len(paths)))
	job, err := s.session.Upload(r.Context(), paths, dest)
	if job == nil {
		s.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if err != nil {
		status = http.StatusMultiStatus
	}
	s.writeJSON(w, status, newUploadResponse(job))
}

// uploadDestination returns the destination field, or the current prefix.
func (s *App) uploadDestination(r *http.Request) string {
	dest := r.FormValue("destination")
	if dest == "" {
		_, dest = s.session.Location()
	}
	return keypath.EnsureFolderKey(dest)
}

// stageFile copies an uploaded part to dir under its base name, so the
// object key keeps the client file name.
func stageFile(dir string, header *multipart.FileHeader) (string, error) {
	name := filepath.Base(header.Filename)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return "", fmt.Errorf("%w: invalid file name %q", ErrNoFileUploaded, header.Filename)
	}
	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close() //nolint:errcheck

	path := filepath.Join(dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("stage uploaded file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return "", fmt.Errorf("stage uploaded file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("stage uploaded file: %w", err)
	}
	return path, nil
}

func newUploadResponse(job *transfer.Job) uploadResponse {
	failed := make(map[string]bool, len(job.Failures))
	resp := uploadResponse{Total: job.Total, Succeeded: []string{}}
	for _, f := range job.Failures {
		failed[f.Item.Key] = true
		resp.Failures = append(resp.Failures, uploadFailure{
			Source: filepath.Base(f.Item.Source),
			Key:    f.Item.Key,
			Error:  f.Err.Error(),
		})
	}
	for _, item := range job.Items {
		if !failed[item.Key] {
			resp.Succeeded = append(resp.Succeeded, item.Key)
		}
	}
	return resp
}
