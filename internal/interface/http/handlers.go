package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/mogwi-hub/mogwi-progress-hub/internal/application/command"
	"github.com/mogwi-hub/mogwi-progress-hub/internal/application/query"
	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/shared"
	"github.com/mogwi-hub/mogwi-progress-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot handles the root endpoint.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not_found", "The requested resource was not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "mogwi-progress-hub",
		"version": "v1",
		"status":  "operational",
	})
}

// handleHealth returns overall service health including backing stores.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, 5*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if s.deps.DatabaseHealth != nil {
		if err := s.deps.DatabaseHealth.Ping(ctx); err != nil {
			checks["database"] = "unhealthy"
			healthy = false
		} else {
			checks["database"] = "healthy"
		}
	}

	if s.deps.CacheHealth != nil {
		if err := s.deps.CacheHealth.Ping(ctx); err != nil {
			// Reports degrade to direct reads without the cache.
			checks["cache"] = "unhealthy"
		} else {
			checks["cache"] = "healthy"
		}
	}

	status := http.StatusOK
	state := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "unhealthy"
	}

	writeJSON(w, status, map[string]interface{}{
		"status": state,
		"uptime": s.Uptime().String(),
		"checks": checks,
	})
}

// handleReady returns readiness status.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, 5*time.Second)
	defer cancel()

	if s.deps.DatabaseHealth != nil {
		if err := s.deps.DatabaseHealth.Ping(ctx); err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "not_ready", "Database is not reachable")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive returns liveness status.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDY HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// gradeCardRequest is the body of POST /api/v1/solve/{cardID}/status.
type gradeCardRequest struct {
	UserHandle string `json:"userHandle"`
	Status     string `json:"status"`
}

// handleGradeCard records a card grade and returns the resulting problem status.
func (s *Server) handleGradeCard(w http.ResponseWriter, r *http.Request) {
	cardID, ok := pathInt64(w, r, "cardID")
	if !ok {
		return
	}

	var req gradeCardRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.GradeCardHandler.Handle(r.Context(), command.GradeCardCommand{
		UserHandle: req.UserHandle,
		CardID:     cardID,
		Status:     req.Status,
	})
	if err != nil {
		s.writeApplicationError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"cardId":        result.CardID,
		"problemId":     result.ProblemID,
		"cardStatus":    string(result.CardStatus),
		"problemStatus": string(result.ProblemStatus),
		"recordedAt":    result.RecordedAt.UTC(),
	})
}

// startStudyRequest is the body of POST /api/v1/solve/start-study.
type startStudyRequest struct {
	UserHandle string `json:"userHandle"`
	ProblemID  int64  `json:"problemId"`
}

// handleStartStudy opens a study session without altering existing progress.
func (s *Server) handleStartStudy(w http.ResponseWriter, r *http.Request) {
	var req startStudyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.StartStudyHandler.Handle(r.Context(), command.StartStudyCommand{
		UserHandle: req.UserHandle,
		ProblemID:  req.ProblemID,
	})
	if err != nil {
		s.writeApplicationError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"problemId":  result.ProblemID,
		"status":     string(result.Status),
		"firstEntry": result.FirstEntry,
	})
}

// markOngoingRequest is the body of POST /api/v1/solve/set-ongoing.
type markOngoingRequest struct {
	UserHandle string `json:"userHandle"`
	ProblemID  int64  `json:"problemId"`
}

// handleMarkOngoing forces a problem into the ongoing state.
func (s *Server) handleMarkOngoing(w http.ResponseWriter, r *http.Request) {
	var req markOngoingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.MarkOngoingHandler.Handle(r.Context(), command.MarkOngoingCommand{
		UserHandle: req.UserHandle,
		ProblemID:  req.ProblemID,
	})
	if err != nil {
		s.writeApplicationError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"problemId": result.ProblemID,
		"status":    string(result.Status),
	})
}

// handleStudyCards returns a problem's cards with the caller's per-card statuses.
func (s *Server) handleStudyCards(w http.ResponseWriter, r *http.Request) {
	problemID, ok := pathInt64(w, r, "problemID")
	if !ok {
		return
	}

	userHandle := r.URL.Query().Get("user")

	result, err := s.deps.StudyCardsHandler.Handle(r.Context(), query.StudyCardsQuery{
		UserHandle: userHandle,
		ProblemID:  problemID,
	})
	if err != nil {
		s.writeApplicationError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// ENGAGEMENT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// toggleEngagementRequest is the body of POST /api/v1/problems/{problemID}/toggle.
type toggleEngagementRequest struct {
	UserHandle string `json:"userHandle"`
	Field      string `json:"field"`
}

// handleToggleEngagement flips a like or scrap flag and returns fresh totals.
func (s *Server) handleToggleEngagement(w http.ResponseWriter, r *http.Request) {
	problemID, ok := pathInt64(w, r, "problemID")
	if !ok {
		return
	}

	var req toggleEngagementRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.ToggleEngagementHandler.Handle(r.Context(), command.ToggleEngagementCommand{
		UserHandle: req.UserHandle,
		ProblemID:  problemID,
		Field:      req.Field,
	})
	if err != nil {
		s.writeApplicationError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"field":       string(result.Field),
		"newValue":    result.NewValue,
		"totalLikes":  result.TotalLikes,
		"totalScraps": result.TotalScraps,
	})
}

// deleteProgressRequest is the body of DELETE /api/v1/problems/{problemID}/progress.
type deleteProgressRequest struct {
	UserHandle string `json:"userHandle"`
}

// handleDeleteProgress removes the caller's progress for one problem.
func (s *Server) handleDeleteProgress(w http.ResponseWriter, r *http.Request) {
	problemID, ok := pathInt64(w, r, "problemID")
	if !ok {
		return
	}

	var req deleteProgressRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.DeleteProgressHandler.Handle(r.Context(), command.DeleteProgressCommand{
		UserHandle: req.UserHandle,
		ProblemID:  problemID,
	})
	if err != nil {
		s.writeApplicationError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"problemId": result.ProblemID,
		"deleted":   true,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// REPORT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleOverallSummary returns aggregate card counts per status.
func (s *Server) handleOverallSummary(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.OverallSummaryHandler.Handle(r.Context(), query.OverallSummaryQuery{
		UserHandle: r.PathValue("userHandle"),
	})
	if err != nil {
		s.writeApplicationError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleProblemDetails returns the per-problem progress report.
func (s *Server) handleProblemDetails(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ProblemDetailsHandler.Handle(r.Context(), query.ProblemDetailsQuery{
		UserHandle: r.PathValue("userHandle"),
	})
	if err != nil {
		s.writeApplicationError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleDailyRecords returns daily grading counts over the past year.
func (s *Server) handleDailyRecords(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.DailyRecordsHandler.Handle(r.Context(), query.DailyRecordsQuery{
		UserHandle: r.PathValue("userHandle"),
	})
	if err != nil {
		s.writeApplicationError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleWeeklyRecords returns grading counts for the five most recent weeks.
func (s *Server) handleWeeklyRecords(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.WeeklyRecordsHandler.Handle(r.Context(), query.WeeklyRecordsQuery{
		UserHandle: r.PathValue("userHandle"),
	})
	if err != nil {
		s.writeApplicationError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleEngagedProblems returns the caller's liked and scrapped problems.
func (s *Server) handleEngagedProblems(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.EngagedProblemsHandler.Handle(r.Context(), query.EngagedProblemsQuery{
		UserHandle: r.PathValue("userHandle"),
	})
	if err != nil {
		s.writeApplicationError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// pathInt64 parses a positive int64 path parameter, writing a 400 on failure.
func pathInt64(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.PathValue(name)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		writeJSONError(w, http.StatusBadRequest, "validation_error",
			fmt.Sprintf("Path parameter %q must be a positive integer", name))
		return 0, false
	}
	return v, true
}

// decodeBody decodes the JSON request body, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "Request body must be valid JSON")
		return false
	}
	return true
}

// contextWithTimeout bounds a request context for health probes.
func contextWithTimeout(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), d)
}

// writeApplicationError maps application errors to HTTP responses.
func (s *Server) writeApplicationError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := getRequestID(r.Context())

	switch {
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, shared.ErrAlreadyExists):
		writeJSONError(w, http.StatusConflict, "conflict", err.Error())
	default:
		s.logger.Error("request failed",
			logger.Err(err),
			logger.String("path", r.URL.Path),
			logger.String("request_id", requestID),
		)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "An internal error occurred")
	}
}
