package app

import "net/http"

// initRouter initializes the router of the App.
// Routes are registered on the root router: a mux subrouter answers 404
// instead of 405 when only the method differs.
func (s *App) initRouter() {
	s.router.HandleFunc("/api/buckets", s.BucketListingHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/api/bucket", s.SwitchBucketHandler).Methods(http.MethodPost)
	s.router.HandleFunc("/api/list", s.ListHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/api/select", s.SelectHandler).Methods(http.MethodPost)
	s.router.HandleFunc("/api/folder", s.CreateFolderHandler).Methods(http.MethodPost)
	s.router.HandleFunc("/api/delete", s.DeleteHandler).Methods(http.MethodPost)
	s.router.HandleFunc("/api/move", s.MoveHandler).Methods(http.MethodPost)
	s.router.HandleFunc("/api/rename", s.RenameHandler).Methods(http.MethodPost)
	s.router.HandleFunc("/api/upload", s.UploadHandler).Methods(http.MethodPost)
	s.router.HandleFunc("/api/download", s.DownloadFile).Methods(http.MethodGet)
	s.router.HandleFunc("/api/stats", s.StatsHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/api/url", s.PresignHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/api/preview", s.PreviewHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/health", s.HealthCheckHandler).Methods(http.MethodGet)
	s.router.MethodNotAllowedHandler = http.HandlerFunc(s.methodNotAllowed)
	s.srv.Handler = s.router
}

func (s *App) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, ErrMethodNotAllowed)
}
