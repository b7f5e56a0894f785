package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/aedstrom/kursbord/internal/app"
	"github.com/aedstrom/kursbord/internal/metrics"
	"github.com/aedstrom/kursbord/internal/models"
	"github.com/aedstrom/kursbord/internal/store"
)

type ScoreHandler struct {
	service *app.Service
}

func NewScoreHandler(service *app.Service) *ScoreHandler {
	return &ScoreHandler{
		service: service,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// HandleSubmit upserts one score keyed on (email, courseName): 201 when
// a record is created, 200 when an existing one is updated. Validation
// and auth failures never reach the store.
func (h *ScoreHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusOK
	defer func() {
		metrics.APIRequestDuration.WithLabelValues(
			r.URL.Path,
			r.Method,
			strconv.Itoa(status),
		).Observe(time.Since(start).Seconds())
	}()

	var sub models.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		status = http.StatusBadRequest
		writeError(w, status, "invalid request body")
		return
	}

	apiKey := r.Header.Get(h.service.Config.API.KeyHeader)
	if err := h.service.Auth.VerifyKey(r.Context(), sub.Email, apiKey); err != nil {
		logger.Debug.Printf("Auth failed for %s: %v", sub.Email, err)
		status = http.StatusUnauthorized
		writeError(w, status, "unauthorized")
		return
	}

	if err := sub.Validate(); err != nil {
		status = http.StatusBadRequest
		writeError(w, status, err.Error())
		return
	}

	rec := sub.Record(time.Now().UTC())
	created, err := h.service.Store.UpsertScore(rec)
	if errors.Is(err, store.ErrConflict) {
		logger.Error.Printf("Conflict storing score for %s/%s: %v", sub.Email, sub.CourseName, err)
		status = http.StatusConflict
		writeError(w, status, "score record conflict")
		return
	}
	if err != nil {
		logger.Error.Printf("Error storing score: %v", err)
		status = http.StatusInternalServerError
		writeError(w, status, "failed to store data")
		return
	}

	outcome := "updated"
	if created {
		outcome = "created"
	}

	metrics.SubmissionsTotal.WithLabelValues(sub.CourseName, outcome).Inc()
	metrics.ScoreHistogram.WithLabelValues(sub.CourseName).Observe(rec.Score)

	status = http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]string{
		"message": "score stored successfully",
		"status":  outcome,
	})
}

// HandleFetch returns every score for the email, oldest first. The
// email is the only filter; name is payload, never a match criterion.
func (h *ScoreHandler) HandleFetch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusOK
	defer func() {
		metrics.APIRequestDuration.WithLabelValues(
			r.URL.Path,
			r.Method,
			strconv.Itoa(status),
		).Observe(time.Since(start).Seconds())
	}()

	email := r.URL.Query().Get("email")
	if email == "" {
		status = http.StatusBadRequest
		writeError(w, status, "email is required")
		return
	}

	records, err := h.service.Store.FetchScoresByEmail(email)
	if err != nil {
		logger.Error.Printf("Error fetching scores for %s: %v", email, err)
		status = http.StatusInternalServerError
		writeError(w, status, "failed to fetch data")
		return
	}

	if len(records) == 0 {
		status = http.StatusNotFound
		writeJSON(w, status, map[string]string{
			"message": "no records found for the given email",
		})
		return
	}

	reports := make([]models.ScoreReport, 0, len(records))
	for i := range records {
		reports = append(reports, records[i].Report())
	}

	writeJSON(w, status, reports)
}
