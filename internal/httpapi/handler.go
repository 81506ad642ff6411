package httpapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ZarakiLancelot/NutriSnap/internal/analysis"
	"github.com/ZarakiLancelot/NutriSnap/internal/auth"
	"github.com/ZarakiLancelot/NutriSnap/internal/domain"
	"github.com/ZarakiLancelot/NutriSnap/internal/fit"
	"github.com/ZarakiLancelot/NutriSnap/internal/nutrition"
	"github.com/ZarakiLancelot/NutriSnap/internal/social"
	"github.com/ZarakiLancelot/NutriSnap/internal/store"
)

const (
	serviceTimeout   = 8 * time.Second
	analyzeTimeout   = 45 * time.Second
	maxBodyBytes     = 256 * 1024
	maxImageBodySize = 8 * 1024 * 1024
	fitTokenHeader   = "X-Fit-Token"
)

// Syncer manages the cloud subscription lifecycle. Satisfied by
// *reconcile.Service.
type Syncer interface {
	Subscribe(ctx context.Context, userID string) error
	Flush(ctx context.Context, userID string) error
}

// RegisterRoutes mounts all tracker routes on r. All routes require an
// authenticated user.
func RegisterRoutes(r chi.Router, svc *nutrition.Service, soc *social.Service, syncer Syncer, verifier auth.Verifier, logger *slog.Logger) {
	sessions := newSessions(syncer, logger)

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Recoverer)
		r.Use(auth.Middleware(verifier))

		r.Get("/me", getMe(svc, logger))
		r.Get("/profile", getProfile(svc, logger))
		r.Put("/profile", putProfile(svc, logger))

		r.Post("/analyze", analyzeFood(svc, logger))
		r.Get("/history", getHistory(svc, logger))
		r.Patch("/history/{id}", patchHistoryItem(svc, logger))
		r.Delete("/history/{id}", deleteHistoryItem(svc, logger))

		r.Post("/water", logWater(svc, logger))
		r.Post("/exercise", logExercise(svc, logger))
		r.Delete("/exercise/{id}", deleteExercise(svc, logger))
		r.Post("/weight", logWeight(svc, logger))
		r.Post("/mood", logMood(svc, logger))
		r.Post("/sleep", logSleep(svc, logger))

		r.Get("/goal", getGoal(svc, logger))
		r.Get("/workouts", getWorkouts(svc, logger))
		r.Get("/dashboard/daily", getDailyDashboard(svc, logger))
		r.Get("/dashboard/weekly", getWeeklyDashboard(svc, logger))
		r.Post("/insights", generateInsights(svc, logger))

		r.Post("/fit/sync", syncFit(svc, logger))
		r.Post("/maintenance/images", sanitizeImages(svc, logger))

		if soc != nil {
			r.Get("/partner/search", searchPartner(soc, logger))
			r.Post("/partner/link", linkPartner(soc, logger))
			r.Get("/partner/status", partnerStatus(svc, soc, logger))
		}

		r.Post("/subscribe", sessions.subscribe())
		r.Post("/logout", sessions.logout())
	})
}

func getMe(svc *nutrition.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := requestUserID(r)
		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		data, err := svc.Load(ctx, userID)
		if err != nil {
			respondError(w, r, logger, "failed to load user data", err, userID)
			return
		}
		writeJSON(w, http.StatusOK, data)
	}
}

func getProfile(svc *nutrition.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := requestUserID(r)
		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		data, err := svc.Load(ctx, userID)
		if err != nil {
			respondError(w, r, logger, "failed to load profile", err, userID)
			return
		}
		writeJSON(w, http.StatusOK, data.Profile)
	}
}

func putProfile(svc *nutrition.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := requestUserID(r)

		var profile domain.Profile
		if !decodeBody(w, r, &profile) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		if err := svc.SaveProfile(ctx, userID, profile); err != nil {
			respondError(w, r, logger, "failed to save profile", err, userID)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

func analyzeFood(svc *nutrition.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := requestUserID(r)
		r.Body = http.MaxBytesReader(w, r.Body, maxImageBodySize)

		var body struct {
			Image    string `json:"image"`
			MIMEType string `json:"mimeType"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		raw, err := base64.StdEncoding.DecodeString(stripDataURL(body.Image))
		if err != nil || len(raw) == 0 {
			writeError(w, http.StatusBadRequest, "image must be base64 encoded")
			return
		}
		mime := body.MIMEType
		if mime == "" {
			mime = "image/jpeg"
		}

		ctx, cancel := context.WithTimeout(r.Context(), analyzeTimeout)
		defer cancel()

		res, err := svc.AnalyzeFood(ctx, userID, analysis.ImageInput{Data: raw, MIMEType: mime}, fitToken(r))
		if err != nil {
			respondError(w, r, logger, "food analysis failed", err, userID)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func getHistory(svc *nutrition.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := requestUserID(r)
		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		data, err := svc.Load(ctx, userID)
		if err != nil {
			respondError(w, r, logger, "failed to load history", err, userID)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"history":         data.History,
			"exerciseHistory": data.ExerciseHistory,
			"waterLog":        data.WaterLog,
		})
	}
}

func patchHistoryItem(svc *nutrition.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := requestUserID(r)
		id := chi.URLParam(r, "id")

		var update nutrition.HistoryUpdate
		if !decodeBody(w, r, &update) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		item, err := svc.UpdateHistoryItem(ctx, userID, id, update)
		if err != nil {
			respondError(w, r, logger, "failed to update history item", err, userID)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

func deleteHistoryItem(svc *nutrition.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := requestUserID(r)
		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		if err := svc.DeleteHistoryItem(ctx, userID, id); err != nil {
			respondError(w, r, logger, "failed to delete history item", err, userID)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func logWater(svc *nutrition.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := requestUserID(r)

		var body struct {
			Delta int `json:"delta"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if body.Delta == 0 {
			writeError(w, http.StatusBadRequest, "delta must be non-zero")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		res, err := svc.LogWater(ctx, userID, body.Delta)
		if err != nil {
			respondError(w, r, logger, "failed to log water", err, userID)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func logExercise(svc *nutrition.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := requestUserID(r)

		var entry nutrition.ExerciseEntry
		if !decodeBody(w, r, &entry) {
			return
		}
		if strings.TrimSpace(entry.Type) == "" || entry.Amount <= 0 {
			writeError(w, http.StatusBadRequest, "type and positive amount are required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		res, err := svc.LogExercise(ctx, userID, entry, fitToken(r))
		if err != nil {
			respondError(w, r, logger, "failed to log exercise", err, userID)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func deleteExercise(svc *nutrition.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := requestUserID(r)
		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		if err := svc.DeleteExercise(ctx, userID, id); err != nil {
			respondError(w, r, logger, "failed to delete exercise", err, userID)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func logWeight(svc *nutrition.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := requestUserID(r)

		var body struct {
			Weight float64 `json:"weight"`
			Date   string  `json:"date"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if body.Weight <= 0 {
			writeError(w, http.StatusBadRequest, "weight must be positive")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		res, err := svc.LogWeight(ctx, userID, body.Weight, body.Date, fitToken(r))
		if err != nil {
			respondError(w, r, logger, "failed to log weight", err, userID)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func logMood(svc *nutrition.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := requestUserID(r)

		var body struct {
			Mood string `json:"mood"`
			Note string `json:"note"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if strings.TrimSpace(body.Mood) == "" {
			writeError(w, http.StatusBadRequest, "mood is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		note, err := svc.LogMood(ctx, userID, domain.DailyMood(body.Mood), body.Note)
		if err != nil {
			respondError(w, r, logger, "failed to log mood", err, userID)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"notification": note})
	}
}

func logSleep(svc *nutrition.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := requestUserID(r)

		var body struct {
			Hours float64 `json:"hours"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if body.Hours <= 0 || body.Hours > 24 {
			writeError(w, http.StatusBadRequest, "hours must be between 0 and 24")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		if err := svc.LogSleep(ctx, userID, body.Hours); err != nil {
			respondError(w, r, logger, "failed to log sleep", err, userID)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func getGoal(svc *nutrition.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := requestUserID(r)
		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		projection, err := svc.Projection(ctx, userID)
		if err != nil {
			respondError(w, r, logger, "failed to build goal projection", err, userID)
			return
		}
		writeJSON(w, http.StatusOK, projection)
	}
}

func getWorkouts(svc *nutrition.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := requestUserID(r)
		shuffle, _ := strconv.Atoi(r.URL.Query().Get("shuffle"))

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		plan, err := svc.Workouts(ctx, userID, shuffle)
		if err != nil {
			respondError(w, r, logger, "failed to rank workouts", err, userID)
			return
		}
		writeJSON(w, http.StatusOK, plan)
	}
}

func getDailyDashboard(svc *nutrition.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := requestUserID(r)
		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		days, err := svc.DailyReport(ctx, userID)
		if err != nil {
			respondError(w, r, logger, "failed to build daily dashboard", err, userID)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"days": days})
	}
}

func getWeeklyDashboard(svc *nutrition.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := requestUserID(r)
		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		weeks, err := svc.WeeklyReport(ctx, userID)
		if err != nil {
			respondError(w, r, logger, "failed to build weekly dashboard", err, userID)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"weeks": weeks})
	}
}

func generateInsights(svc *nutrition.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := requestUserID(r)
		ctx, cancel := context.WithTimeout(r.Context(), analyzeTimeout)
		defer cancel()

		report, err := svc.Insights(ctx, userID)
		if err != nil {
			respondError(w, r, logger, "failed to generate insights", err, userID)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func syncFit(svc *nutrition.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := requestUserID(r)
		token := fitToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing fitness token")
			return
		}

		var body struct {
			Force bool `json:"force"`
		}
		// An empty body means an automatic sync.
		_ = json.NewDecoder(r.Body).Decode(&body)

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		res, err := svc.SyncFit(ctx, userID, token, body.Force)
		if err != nil {
			respondError(w, r, logger, "fitness sync failed", err, userID)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func sanitizeImages(svc *nutrition.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := requestUserID(r)
		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		changed, err := svc.SanitizeImages(ctx, userID)
		if err != nil {
			respondError(w, r, logger, "image sanitization failed", err, userID)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"recompressed": changed})
	}
}

func searchPartner(soc *social.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := requestUserID(r)
		email := strings.TrimSpace(r.URL.Query().Get("email"))
		if email == "" {
			writeError(w, http.StatusBadRequest, "email is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		partner, err := soc.FindByEmail(ctx, email)
		if err != nil {
			respondError(w, r, logger, "partner search failed", err, userID)
			return
		}
		writeJSON(w, http.StatusOK, partner)
	}
}

func linkPartner(soc *social.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := requestUserID(r)

		var partner social.PartnerInfo
		if !decodeBody(w, r, &partner) {
			return
		}
		if partner.UserID == "" {
			writeError(w, http.StatusBadRequest, "partner userId is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		if err := soc.Link(ctx, userID, partner); err != nil {
			respondError(w, r, logger, "failed to link partner", err, userID)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func partnerStatus(svc *nutrition.Service, soc *social.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := requestUserID(r)

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		data, err := svc.Load(ctx, userID)
		if err != nil {
			respondError(w, r, logger, "failed to load profile", err, userID)
			return
		}
		if data.Profile.Social == nil || data.Profile.Social.PartnerID == "" {
			writeError(w, http.StatusNotFound, "no partner linked")
			return
		}

		// The challenge resolves once per local day.
		today := domain.DateString(time.Now())
		if data.Profile.Social.LastChallengeDate == today {
			writeJSON(w, http.StatusOK, map[string]any{
				"partnerName": data.Profile.Social.PartnerName,
				"checked":     true,
			})
			return
		}

		status, err := soc.PartnerStatus(ctx, data.Profile.Social.PartnerID, time.Now())
		if err != nil {
			respondError(w, r, logger, "partner status check failed", err, userID)
			return
		}

		updated := *data.Profile.Social
		updated.LastChallengeDate = today
		profile := data.Profile
		profile.Social = &updated
		if err := svc.SaveProfile(ctx, userID, profile); err != nil {
			logRequestError(ctx, logger, "failed to stamp challenge date", err, userID)
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"partnerName": updated.PartnerName,
			"status":      status,
			"checked":     false,
		})
	}
}

// sessions owns the long-lived cloud subscription per signed-in user.
// Subscribing twice restarts the watch; logout cancels it and flushes
// any queued writes.
type sessions struct {
	syncer Syncer
	logger *slog.Logger

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

func newSessions(syncer Syncer, logger *slog.Logger) *sessions {
	return &sessions{
		syncer:  syncer,
		logger:  logger,
		cancels: make(map[string]context.CancelFunc),
	}
}

func (s *sessions) subscribe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := requestUserID(r)
		if s.syncer != nil {
			s.start(userID)
		}
		writeJSON(w, http.StatusOK, map[string]bool{"subscribed": s.syncer != nil})
	}
}

func (s *sessions) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := requestUserID(r)
		s.stop(userID)

		if s.syncer != nil {
			ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
			defer cancel()
			if err := s.syncer.Flush(ctx, userID); err != nil {
				respondError(w, r, s.logger, "failed to flush pending writes", err, userID)
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (s *sessions) start(userID string) {
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	if prev, ok := s.cancels[userID]; ok {
		prev()
	}
	s.cancels[userID] = cancel
	s.mu.Unlock()

	go func() {
		err := s.syncer.Subscribe(ctx, userID)
		if err != nil && !errors.Is(err, context.Canceled) && s.logger != nil {
			s.logger.Error("cloud subscription ended", slog.String("userId", userID), slog.Any("error", err))
		}
	}()
}

func (s *sessions) stop(userID string) {
	s.mu.Lock()
	if cancel, ok := s.cancels[userID]; ok {
		cancel()
		delete(s.cancels, userID)
	}
	s.mu.Unlock()
}

func requestUserID(r *http.Request) string {
	if user, ok := auth.UserFromContext(r.Context()); ok {
		return user.UserID
	}
	return ""
}

func fitToken(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(fitTokenHeader))
}

func stripDataURL(s string) string {
	if idx := strings.Index(s, ","); idx >= 0 && strings.HasPrefix(s, "data:") {
		return s[idx+1:]
	}
	return s
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// respondError maps service errors to HTTP statuses. Unexpected errors
// are logged with the request id; expected domain errors are not noise
// worth logging.
func respondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, message string, err error, userID string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "user data not found")
	case errors.Is(err, nutrition.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "item not found")
	case errors.Is(err, social.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, nutrition.ErrBusy):
		writeError(w, http.StatusConflict, "an analysis is already in progress")
	case errors.Is(err, analysis.ErrNotFood):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, analysis.ErrBadResponse):
		logRequestError(r.Context(), logger, message, err, userID)
		writeError(w, http.StatusBadGateway, "analysis service returned an unusable response")
	case errors.Is(err, nutrition.ErrNoData):
		writeError(w, http.StatusUnprocessableEntity, "not enough logged data yet")
	case errors.Is(err, fit.ErrNoToken), errors.Is(err, fit.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "fitness authorization expired")
	default:
		logRequestError(r.Context(), logger, message, err, userID)
		writeError(w, http.StatusInternalServerError, message)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func logRequestError(ctx context.Context, logger *slog.Logger, message string, err error, userID string) {
	if logger == nil || err == nil {
		return
	}
	attrs := []any{
		slog.String("userId", userID),
		slog.Any("error", err),
	}
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		attrs = append(attrs, slog.String("requestId", reqID))
	}
	logger.Error(message, attrs...)
}
