package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	appeval "github.com/bryanwahyu/image-evaluator/internal/application/evaluation"
	appsession "github.com/bryanwahyu/image-evaluator/internal/application/session"
	domain "github.com/bryanwahyu/image-evaluator/internal/domain/evaluation"
	domsession "github.com/bryanwahyu/image-evaluator/internal/domain/session"
	"github.com/bryanwahyu/image-evaluator/internal/middleware"
)

// maxUploadMemory is how much of a multipart body is kept in memory before spilling to disk.
const maxUploadMemory = 32 << 20

// uploadSlack covers multipart headers and boundaries on top of the image bytes.
const uploadSlack = 1 << 20

type Options struct {
	AllowedOrigins []string
	MaxImageBytes  int64
	RateLimiter    *middleware.RateLimiter
	Checkers       map[string]middleware.HealthChecker
	Log            *zap.Logger
}

type Router struct {
	sessionSvc *appsession.Service
	evalSvc    *appeval.Service
	opts       Options
	log        *zap.Logger
}

func NewRouter(sessionSvc *appsession.Service, evalSvc *appeval.Service, opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	r := &Router{sessionSvc: sessionSvc, evalSvc: evalSvc, opts: opts, log: log}
	mux := chi.NewRouter()

	mux.Use(middleware.Logging(log))
	mux.Use(middleware.Metrics)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	mux.Get("/health", middleware.HealthHandler(opts.Checkers))
	mux.Get("/health/ready", middleware.ReadinessHandler)
	mux.Get("/health/live", middleware.LivenessHandler)
	mux.Handle("/metrics", promhttp.Handler())

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/session/login", r.wrap(r.handleLogin))

		rt.Group(func(auth chi.Router) {
			auth.Use(middleware.SessionAuth(sessionSvc))
			if opts.RateLimiter != nil {
				auth.Use(middleware.RateLimit(opts.RateLimiter))
			}

			auth.Post("/session/logout", r.wrap(r.handleLogout))
			auth.Get("/session/me", r.wrap(r.handleMe))
			auth.Post("/images", r.wrap(r.handleUpload))
			auth.Post("/analyses", r.wrap(r.handleAnalyze))
			auth.Get("/analyses/{batchID}", r.wrap(r.handleResults))
			auth.Get("/analyses/{batchID}/records/{id}", r.wrap(r.handleRecord))
			auth.Delete("/analyses/{batchID}", r.wrap(r.handleDiscard))
		})
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidArgument):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, domain.ErrBatchNotFound), errors.Is(err, domain.ErrRecordNotFound):
				writeError(w, http.StatusNotFound, err.Error())
			case errors.Is(err, domsession.ErrUnauthenticated), errors.Is(err, domsession.ErrSessionNotFound):
				writeError(w, http.StatusUnauthorized, "invalid or expired session")
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				// client went away while the analysis was still running
				writeError(w, http.StatusRequestTimeout, "request cancelled")
			default:
				r.log.Error("handler error", zap.String("path", req.URL.Path), zap.Error(err))
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	_ = writeJSON(w, status, map[string]string{"error": msg})
}

func owner(req *http.Request) string {
	return middleware.UserIDFromContext(req.Context())
}

// POST /v1/session/login
func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) error {
	sess, err := r.sessionSvc.Login(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, sess)
}

// POST /v1/session/logout
func (r *Router) handleLogout(w http.ResponseWriter, req *http.Request) error {
	if err := r.sessionSvc.Logout(req.Context(), middleware.BearerToken(req)); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GET /v1/session/me
func (r *Router) handleMe(w http.ResponseWriter, req *http.Request) error {
	sess := middleware.SessionFromContext(req.Context())
	if sess == nil {
		return domsession.ErrUnauthenticated
	}
	return writeJSON(w, http.StatusOK, sess.User)
}

// POST /v1/images (multipart, field "images")
func (r *Router) handleUpload(w http.ResponseWriter, req *http.Request) error {
	if r.opts.MaxImageBytes > 0 {
		req.Body = http.MaxBytesReader(w, req.Body, domain.MaxBatchSize*r.opts.MaxImageBytes+uploadSlack)
	}
	if err := req.ParseMultipartForm(maxUploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
			return nil
		}
		return fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	defer req.MultipartForm.RemoveAll()

	headers := req.MultipartForm.File["images"]
	if len(headers) == 0 {
		return fmt.Errorf("%w: no files in field \"images\"", domain.ErrInvalidArgument)
	}

	files := make([]appeval.UploadFile, 0, len(headers))
	for i, fh := range headers {
		if i < domain.MaxBatchSize {
			name := middleware.SanitizeString(fh.Filename)
			if err := middleware.ValidateImageFile(name, fh.Header.Get("Content-Type"), fh.Size, r.opts.MaxImageBytes); err != nil {
				return err
			}
		}
		files = append(files, uploadFile(fh))
	}

	res, err := r.evalSvc.Upload(req.Context(), owner(req), files)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

func uploadFile(fh *multipart.FileHeader) appeval.UploadFile {
	return appeval.UploadFile{
		Name:        middleware.SanitizeString(fh.Filename),
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// POST /v1/analyses
// Body: {"images": [{"name": "...", "size": 123, "url": "..."}]}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Images []domain.ImageDescriptor `json:"images"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}

	res, err := r.evalSvc.Analyze(req.Context(), owner(req), body.Images)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, res)
}

// GET /v1/analyses/{batchID}?status=all|excellent|good|warning
func (r *Router) handleResults(w http.ResponseWriter, req *http.Request) error {
	id, err := middleware.ValidateBatchID(chi.URLParam(req, "batchID"))
	if err != nil {
		return err
	}
	status, err := middleware.ValidateStatusParam(req.URL.Query().Get("status"))
	if err != nil {
		return err
	}

	view, err := r.evalSvc.Results(req.Context(), owner(req), id, status)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, view)
}

// GET /v1/analyses/{batchID}/records/{id}
func (r *Router) handleRecord(w http.ResponseWriter, req *http.Request) error {
	batchID, err := middleware.ValidateBatchID(chi.URLParam(req, "batchID"))
	if err != nil {
		return err
	}
	id, err := middleware.ValidateRecordID(chi.URLParam(req, "id"))
	if err != nil {
		return err
	}

	rec, err := r.evalSvc.Record(req.Context(), owner(req), batchID, id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rec)
}

// DELETE /v1/analyses/{batchID}
func (r *Router) handleDiscard(w http.ResponseWriter, req *http.Request) error {
	id, err := middleware.ValidateBatchID(chi.URLParam(req, "batchID"))
	if err != nil {
		return err
	}
	if err := r.evalSvc.Discard(req.Context(), owner(req), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
