package httpserver

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	appanalyses "github.com/verilens/verilens/internal/application/analyses"
	appreports "github.com/verilens/verilens/internal/application/reports"
	domanalyses "github.com/verilens/verilens/internal/domain/analyses"
	"github.com/verilens/verilens/internal/domain/analyzer"
	domreports "github.com/verilens/verilens/internal/domain/reports"
	"github.com/verilens/verilens/internal/fingerprint"
	"github.com/verilens/verilens/internal/middleware"
)

// MediaStore persists uploaded media bytes and returns a preview URL.
type MediaStore interface {
	Upload(ctx context.Context, r io.Reader, size int64, key string) (string, error)
}

type Router struct {
	analysesSvc *appanalyses.Service
	reportsSvc  *appreports.Service
	media       MediaStore
	health      http.HandlerFunc
}

func NewRouter(analysesSvc *appanalyses.Service, reportsSvc *appreports.Service, media MediaStore, identities map[string]string, health http.HandlerFunc) http.Handler {
	r := &Router{analysesSvc: analysesSvc, reportsSvc: reportsSvc, media: media, health: health}
	mux := chi.NewRouter()

	// Public demo API: every origin may call it.
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Client-Info", "Apikey"},
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.OptionalIdentity(identities))

	mux.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if r.health != nil {
			r.health(w, req)
			return
		}
		w.Write([]byte("ok"))
	})
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Post("/analyze", r.wrap(r.handleAnalyze))
	mux.Get("/report", r.wrap(r.handleReport))
	mux.Post("/analyses", r.wrap(r.handleSaveAnalysis))
	mux.Post("/reports", r.wrap(r.handleIssueReport))
	mux.Get("/demo/{kind}", r.wrap(r.handleDemo))
	if media != nil {
		mux.Post("/media", r.wrap(r.handleUploadMedia))
	}

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// validationError maps to a 400 with its message as the error body.
type validationError struct{ msg string }

func (e *validationError) Error() string { return e.msg }

func badRequest(msg string) error { return &validationError{msg: msg} }

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var ve *validationError
			if errors.As(err, &ve) {
				writeError(w, http.StatusBadRequest, ve.msg)
				return
			}
			if errors.Is(err, domreports.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Report not found")
				return
			}
			if errors.Is(err, domanalyses.ErrNotFound) || errors.Is(err, sql.ErrNoRows) {
				writeError(w, http.StatusNotFound, "Analysis not found")
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
		}
	}
}

// POST /analyze
// Body: {"fileName": "...", "fileType": "...", "fileHash": "..."}
// Returns a fresh (unpersisted) result record from the wired provider.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body analyzer.Request
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("Missing required fields")
	}
	if body.FileName == "" || body.FileType == "" || body.FileHash == "" {
		return badRequest("Missing required fields")
	}
	if err := middleware.ValidateFileType(body.FileType); err != nil {
		return badRequest(err.Error())
	}
	if err := middleware.ValidateFileName(body.FileName); err != nil {
		return badRequest(err.Error())
	}
	if err := middleware.ValidateFingerprint(body.FileHash); err != nil {
		return badRequest(err.Error())
	}

	a, err := r.analysesSvc.Analyze(req.Context(), body)
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}
	middleware.IncrementAnalyses()

	return writeJSON(w, http.StatusOK, a)
}

// GET /report?id=<token>
func (r *Router) handleReport(w http.ResponseWriter, req *http.Request) error {
	token := req.URL.Query().Get("id")
	if token == "" {
		return badRequest("Report ID is required")
	}
	// A token outside the issued alphabet cannot match anything; answer the
	// same way as an unknown token.
	if err := middleware.ValidateShareToken(token); err != nil {
		return domreports.ErrNotFound
	}

	a, err := r.reportsSvc.Resolve(req.Context(), domreports.ShareToken(token))
	if err != nil {
		return err
	}
	middleware.IncrementReportsResolved()

	return writeJSON(w, http.StatusOK, a)
}

// POST /analyses
// Persists a result record; the caller identity, when present, is attached.
func (r *Router) handleSaveAnalysis(w http.ResponseWriter, req *http.Request) error {
	var body domanalyses.Analysis
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("Invalid request body")
	}
	if body.FileName == "" || body.FileType == "" || body.FileHash == "" {
		return badRequest("Missing required fields")
	}

	identity := middleware.GetIdentityFromContext(req.Context())
	saved, err := r.analysesSvc.Save(req.Context(), &body, identity)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, saved)
}

// POST /reports
// Body: {"analysisId": "<id>"} → share record with a fresh token.
func (r *Router) handleIssueReport(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		AnalysisID string `json:"analysisId"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("Invalid request body")
	}
	if body.AnalysisID == "" {
		return badRequest("analysisId is required")
	}

	rep, err := r.reportsSvc.Issue(req.Context(), domanalyses.AnalysisID(body.AnalysisID))
	if err != nil {
		return err
	}
	middleware.IncrementReportsIssued()

	return writeJSON(w, http.StatusOK, rep)
}

// GET /demo/{kind}
// Canned records for the landing page demo buttons.
func (r *Router) handleDemo(w http.ResponseWriter, req *http.Request) error {
	now := r.analysesSvc.Clock.Now()
	switch chi.URLParam(req, "kind") {
	case "fake":
		return writeJSON(w, http.StatusOK, appanalyses.DemoFake(now))
	case "real":
		return writeJSON(w, http.StatusOK, appanalyses.DemoReal(now))
	default:
		return badRequest("unknown demo kind")
	}
}

// POST /media
// Multipart upload; stores the file and returns its metadata.
// (server-side fingerprint and a preview URL) ready for POST /analyze.
func (r *Router) handleUploadMedia(w http.ResponseWriter, req *http.Request) error {
	const maxUpload = 64 << 20
	if err := req.ParseMultipartForm(maxUpload); err != nil {
		return badRequest("Invalid multipart body")
	}
	file, header, err := req.FormFile("file")
	if err != nil {
		return badRequest("file field is required")
	}
	defer file.Close()

	if err := middleware.ValidateFileName(header.Filename); err != nil {
		return badRequest(err.Error())
	}

	fileType := "unknown"
	if ct := header.Header.Get("Content-Type"); ct != "" {
		fileType = strings.SplitN(ct, "/", 2)[0]
	}
	if err := middleware.ValidateFileType(fileType); err != nil {
		return badRequest(err.Error())
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("reading upload: %w", err)
	}

	key := uuid.New().String() + strings.ToLower(filepath.Ext(header.Filename))
	previewURL, err := r.media.Upload(req.Context(), bytes.NewReader(data), int64(len(data)), key)
	if err != nil {
		return fmt.Errorf("storing media: %w", err)
	}

	return writeJSON(w, http.StatusOK, map[string]string{
		"fileName":   header.Filename,
		"fileType":   fileType,
		"fileHash":   fingerprint.SumBytes(data),
		"previewUrl": previewURL,
	})
}
