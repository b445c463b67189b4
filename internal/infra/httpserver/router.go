package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/bryanwahyu/devscreen/internal/application"
	appscreenings "github.com/bryanwahyu/devscreen/internal/application/screenings"
	"github.com/bryanwahyu/devscreen/internal/domain/questionnaire"
	domain "github.com/bryanwahyu/devscreen/internal/domain/screening"
	"github.com/bryanwahyu/devscreen/internal/infra/storage"
	"github.com/bryanwahyu/devscreen/internal/middleware"
)

// VideoUploader stores caregiver recordings; *storage.Store satisfies it.
type VideoUploader interface {
	Upload(ctx context.Context, in storage.UploadInput, now time.Time) (domain.VideoReference, error)
}

// Options wires the router. Uploads and Limiter are optional.
type Options struct {
	Screenings     *appscreenings.Service
	Uploads        VideoUploader
	DB             middleware.Pinger
	Limiter        *middleware.RateLimiter
	AllowedOrigins []string
	MaxUploadBytes int64
	Clock          application.Clock
}

type Router struct {
	svc       *appscreenings.Service
	uploads   VideoUploader
	maxUpload int64
	clock     application.Clock
}

func NewRouter(opts Options) http.Handler {
	r := &Router{
		svc:       opts.Screenings,
		uploads:   opts.Uploads,
		maxUpload: opts.MaxUploadBytes,
		clock:     opts.Clock,
	}
	if r.maxUpload <= 0 {
		r.maxUpload = storage.DefaultMaxBytes
	}
	if r.clock == nil {
		r.clock = application.SystemClock{}
	}

	mux := chi.NewRouter()
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	if opts.Limiter != nil {
		mux.Use(middleware.RateLimitMiddleware(opts.Limiter))
	}
	if len(opts.AllowedOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			MaxAge:         300,
		}))
	}

	checks := map[string]middleware.HealthChecker{}
	if opts.DB != nil {
		checks["database"] = &middleware.DatabaseHealthChecker{DB: opts.DB}
	}
	mux.Get("/health", middleware.LivenessHandler)
	mux.Get("/healthz", middleware.HealthHandler(checks))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Get("/questionnaires", r.wrap(r.handleQuestionnaire))
		rt.Post("/screenings", r.wrap(r.handleSubmit))
		rt.Get("/screenings", r.wrap(r.handleList))
		rt.Get("/screenings/{id}", r.wrap(r.handleGet))
		rt.Patch("/screenings/{id}", r.wrap(r.handlePatch))
		rt.Post("/videos", r.wrap(r.handleUpload))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			status, msg := classify(err)
			if status >= http.StatusInternalServerError {
				zap.L().Error("request failed",
					zap.String("path", req.URL.Path),
					zap.Error(err),
				)
			}
			writeJSON(w, status, map[string]string{"error": msg})
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// GET /v1/questionnaires?dob=2024-06-01
func (r *Router) handleQuestionnaire(w http.ResponseWriter, req *http.Request) error {
	dob, err := middleware.ParseDate("dob", req.URL.Query().Get("dob"))
	if err != nil {
		return err
	}
	def, err := r.svc.Questionnaire(dob)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, struct {
		AgeMonths int `json:"ageMonths"`
		questionnaire.Definition
	}{
		AgeMonths:  questionnaire.AgeInMonths(dob, r.clock.Now()),
		Definition: def,
	})
}

type submitRequest struct {
	ChildID     string `json:"childId"`
	ParentID    string `json:"parentId"`
	DateOfBirth string `json:"dateOfBirth"`
	Responses   []struct {
		QuestionID string `json:"questionId"`
		Answer     string `json:"answer"`
	} `json:"responses"`
	Videos          []domain.VideoReference `json:"videos"`
	Recommendations []string                `json:"recommendations"`
}

// POST /v1/screenings
func (r *Router) handleSubmit(w http.ResponseWriter, req *http.Request) error {
	var body submitRequest
	if err := decode(req, &body); err != nil {
		return err
	}
	if err := middleware.ValidateID("childId", body.ChildID); err != nil {
		return err
	}
	if err := middleware.ValidateID("parentId", body.ParentID); err != nil {
		return err
	}
	dob, err := middleware.ParseDate("dateOfBirth", body.DateOfBirth)
	if err != nil {
		return err
	}
	for _, v := range body.Videos {
		if err := middleware.ValidateVideoURL(v.URL); err != nil {
			return err
		}
	}

	cmd := appscreenings.SubmitCommand{
		ChildID:         body.ChildID,
		ParentID:        body.ParentID,
		DateOfBirth:     dob,
		Videos:          body.Videos,
		Recommendations: body.Recommendations,
	}
	for _, resp := range body.Responses {
		cmd.Responses = append(cmd.Responses, questionnaire.Response{
			QuestionID: resp.QuestionID,
			Answer:     resp.Answer,
		})
	}

	sc, err := r.svc.Submit(req.Context(), cmd)
	if err != nil {
		middleware.IncrementScreeningsFailed()
		return err
	}
	requested := 0
	for _, v := range sc.Videos {
		if v.URL != "" {
			requested++
		}
	}
	middleware.RecordScreening(string(sc.Assessment.Level), requested, len(sc.Assessment.VideoAnalyses))

	return writeJSON(w, http.StatusCreated, sc)
}

// GET /v1/screenings?child_id= | ?parent_id= | ?all=true&page=&page_size=
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	switch {
	case q.Get("child_id") != "":
		if err := middleware.ValidateID("child_id", q.Get("child_id")); err != nil {
			return err
		}
		list, err := r.svc.ListByChild(req.Context(), q.Get("child_id"))
		if err != nil {
			return err
		}
		return writeJSON(w, http.StatusOK, nonNil(list))
	case q.Get("parent_id") != "":
		if err := middleware.ValidateID("parent_id", q.Get("parent_id")); err != nil {
			return err
		}
		list, err := r.svc.ListByParent(req.Context(), q.Get("parent_id"))
		if err != nil {
			return err
		}
		return writeJSON(w, http.StatusOK, nonNil(list))
	case q.Get("all") == "true":
		page, _ := strconv.Atoi(q.Get("page"))
		size, _ := strconv.Atoi(q.Get("page_size"))
		p, err := r.svc.ListSubmitted(req.Context(), page, size)
		if err != nil {
			return err
		}
		return writeJSON(w, http.StatusOK, p)
	default:
		return validationError("one of child_id, parent_id or all=true is required")
	}
}

// GET /v1/screenings/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateID("id", id); err != nil {
		return err
	}
	sc, err := r.svc.Get(req.Context(), domain.ID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, sc)
}

type patchRequest struct {
	Status     domain.Status       `json:"status"`
	ReviewerID string              `json:"reviewerId"`
	Notes      string              `json:"notes"`
	Action     domain.ReviewAction `json:"action"`
}

// PATCH /v1/screenings/{id}
// A body with reviewerId records a clinician review; otherwise only the status moves.
func (r *Router) handlePatch(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateID("id", id); err != nil {
		return err
	}
	var body patchRequest
	if err := decode(req, &body); err != nil {
		return err
	}

	var (
		sc  *domain.Screening
		err error
	)
	if body.ReviewerID != "" {
		if err := middleware.ValidateID("reviewerId", body.ReviewerID); err != nil {
			return err
		}
		sc, err = r.svc.Review(req.Context(), domain.ID(id), appscreenings.ReviewCommand{
			ReviewerID: body.ReviewerID,
			Notes:      middleware.SanitizeString(body.Notes),
			Action:     body.Action,
			Status:     body.Status,
		})
	} else {
		if !body.Status.Valid() {
			return validationError("status must be one of submitted, under_review, reviewed, actioned")
		}
		sc, err = r.svc.UpdateStatus(req.Context(), domain.ID(id), body.Status)
	}
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, sc)
}

// POST /v1/videos (multipart: file, category, child_id, parent_id)
func (r *Router) handleUpload(w http.ResponseWriter, req *http.Request) error {
	if r.uploads == nil {
		return errUploadsDisabled
	}
	req.Body = http.MaxBytesReader(w, req.Body, r.maxUpload+(1<<20))
	if err := req.ParseMultipartForm(8 << 20); err != nil {
		return tooLargeOr(err)
	}
	defer req.MultipartForm.RemoveAll() //nolint:errcheck

	childID := req.FormValue("child_id")
	parentID := req.FormValue("parent_id")
	if err := middleware.ValidateID("child_id", childID); err != nil {
		return err
	}
	if err := middleware.ValidateID("parent_id", parentID); err != nil {
		return err
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		return validationError("file is required")
	}
	defer file.Close()

	ref, err := r.uploads.Upload(req.Context(), storage.UploadInput{
		ParentID:    parentID,
		ChildID:     childID,
		Category:    domain.VideoCategory(req.FormValue("category")),
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, r.clock.Now())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, ref)
}

func decode(req *http.Request, v any) error {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		return validationError("invalid JSON body: " + err.Error())
	}
	return nil
}

func nonNil(list []*domain.Screening) []*domain.Screening {
	if list == nil {
		return []*domain.Screening{}
	}
	return list
}
