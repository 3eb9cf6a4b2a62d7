package app

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sgaunet/s3browse/pkg/dto"
	"github.com/sgaunet/s3browse/pkg/health"
	"github.com/sgaunet/s3browse/pkg/keypath"
	"github.com/sgaunet/s3browse/pkg/selection"
	"github.com/sgaunet/s3browse/pkg/stats"
	"github.com/sgaunet/s3browse/pkg/store"
)

type listResponse struct {
	dto.Listing
	Breadcrumbs []keypath.Crumb `json:"breadcrumbs"`
	Selected    []string        `json:"selected"`
	Page        int             `json:"page"`
	PerPage     int             `json:"perPage"`
	TotalPages  int             `json:"totalPages"`
}

func (s *App) newListResponse(l dto.Listing, page, perPage int) listResponse {
	paged, page, pages := PageOfListing(l, page, perPage)
	if paged.Folders == nil {
		paged.Folders = []dto.FolderEntry{}
	}
	if paged.Files == nil {
		paged.Files = []dto.ObjectEntry{}
	}
	selected := s.session.SelectedKeys()
	if selected == nil {
		selected = []string{}
	}
	return listResponse{
		Listing:     paged,
		Breadcrumbs: keypath.Breadcrumbs(l.Prefix),
		Selected:    selected,
		Page:        page,
		PerPage:     perPage,
		TotalPages:  pages,
	}
}

// ListHandler lists the current location. With ?prefix= it navigates first,
// with ?up=1 it goes to the parent folder. Navigation clears the selection.
func (s *App) ListHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, perPage, err := ParsePaginationParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var listing dto.Listing
	q := r.URL.Query()
	switch {
	case q.Has("prefix"):
		prefix := keypath.EnsureFolderKey(q.Get("prefix"))
		if prefix == "" {
			prefix = s.cfg.S3.Prefix
		}
		if err := s.checkScope(prefix); err != nil {
			s.writeError(w, r, err)
			return
		}
		listing, err = s.session.Navigate(ctx, prefix)
	case q.Get("up") == "1":
		_, current := s.session.Location()
		if current == s.cfg.S3.Prefix {
			listing, err = s.session.Refresh(ctx)
		} else {
			listing, err = s.session.Up(ctx)
		}
	default:
		listing, err = s.session.Refresh(ctx)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.newListResponse(listing, page, perPage))
}

type selectRequest struct {
	Kind     selection.Kind `json:"kind"`
	Key      string         `json:"key"`
	Modifier string         `json:"modifier"`
}

type selectResponse struct {
	Selected []string `json:"selected"`
}

// SelectHandler applies a pointer or keyboard gesture to the selection.
// The delete-key gesture deletes the selection and answers like DeleteHandler.
func (s *App) SelectHandler(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	modifier, err := selection.ParseModifier(req.Modifier)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Kind == selection.DeleteKey {
		s.deleteSelected(w, r)
		return
	}
	keys, err := s.session.Gesture(selection.Gesture{Kind: req.Kind, Key: req.Key, Modifier: modifier})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	s.writeJSON(w, http.StatusOK, selectResponse{Selected: keys})
}

// DownloadFile streams an object of the current bucket as an attachment.
func (s *App) DownloadFile(w http.ResponseWriter, r *http.Request) {
	key, err := s.extractAndValidateKey(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body, size, err := s.session.Open(r.Context(), key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer body.Close() //nolint:errcheck

	w.Header().Set("Content-Disposition", `attachment; filename="`+keypath.BaseName(key)+`"`)
	w.Header().Set("Content-Type", store.ContentTypeFor(key))
	if size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}
	if _, err := io.Copy(w, body); err != nil {
		s.log.Error("DownloadFile: copy failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// PreviewHandler returns a small text object as text/plain.
func (s *App) PreviewHandler(w http.ResponseWriter, r *http.Request) {
	key, err := s.extractAndValidateKey(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	text, err := s.session.Preview(r.Context(), key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := io.WriteString(w, text); err != nil {
		s.log.Error("PreviewHandler: write failed", slog.String("error", err.Error()))
	}
}

type presignResponse struct {
	Key       string `json:"key"`
	URL       string `json:"url"`
	ExpiresIn int64  `json:"expiresIn"`
}

// PresignHandler returns a temporary download URL.
func (s *App) PresignHandler(w http.ResponseWriter, r *http.Request) {
	key, err := s.extractAndValidateKey(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := s.session.PresignedURL(r.Context(), key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ttl := s.cfg.Transfer.PresignTTL
	if ttl <= 0 {
		ttl = store.DefaultPresignTTL
	}
	s.writeJSON(w, http.StatusOK, presignResponse{Key: key, URL: u, ExpiresIn: int64(ttl.Seconds())})
}

type statsResponse struct {
	dto.BucketStats
	Summary string `json:"summary"`
	Cached  bool   `json:"cached"`
}

// StatsHandler returns the size and object count of the current bucket.
// ?cached=1 answers from the last computation when no mutation happened since.
func (s *App) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("cached") == "1" {
		if st, ok := s.session.CachedStats(); ok {
			s.writeJSON(w, http.StatusOK, statsResponse{BucketStats: st, Summary: stats.Format(st), Cached: true})
			return
		}
	}
	st, err := s.session.Stats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, statsResponse{BucketStats: st, Summary: stats.Format(st)})
}

// HealthCheckHandler reports the reachability of the store.
func (s *App) HealthCheckHandler(w http.ResponseWriter, _ *http.Request) {
	info := health.Info{Status: health.StatusUnhealthy, LastError: "health monitor not configured"}
	if s.health != nil {
		info = s.health.GetHealthInfo()
	}

	statusCode := http.StatusOK
	if info.Status != health.StatusHealthy {
		statusCode = http.StatusServiceUnavailable
	}
	s.writeJSON(w, statusCode, info)
}
