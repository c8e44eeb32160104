package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/coursebank/backend/internal/services"
)

type EnrollmentHandler struct {
	enrollments *services.EnrollmentService
	progress    *services.ProgressService
	validator   *services.ValidationHelper
}

func NewEnrollmentHandler(enrollments *services.EnrollmentService, progress *services.ProgressService) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollments: enrollments,
		progress:    progress,
		validator:   services.NewValidationHelper(),
	}
}

// RequestEnrollment holds the course price and opens a pending enrollment
// @Summary Request enrollment
// @Description Hold the course price in escrow until an instructor decides. Free courses are validated at once
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{courseId=string,secret=string} true "Enrollment request"
// @Success 201 {object} models.Enrollment
// @Failure 401 {object} services.ErrorResponse
// @Failure 402 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /enrollments [post]
func (h *EnrollmentHandler) RequestEnrollment(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		CourseID string `json:"courseId" validate:"required"`
		// Secret may be empty for free courses.
		Secret string `json:"secret,omitempty"`
	}
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	enrollment, err := h.enrollments.RequestEnrollment(r.Context(), userID, req.CourseID, req.Secret)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, enrollment)
}

// ListMine lists the caller's enrollments with their progress
// @Summary My enrollments
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{enrollments=[]services.StudentEnrollment,count=int}
// @Failure 401 {object} services.ErrorResponse
// @Router /enrollments/me [get]
func (h *EnrollmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	list, err := h.enrollments.ListMine(r.Context(), userID)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"enrollments": list,
		"count":       len(list),
	})
}

// ListPending returns pending payments on the caller's courses
// @Summary Pending enrollments
// @Description Enrollments awaiting a decision by one of their instructors
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{enrollments=[]services.PendingEnrollment,count=int}
// @Failure 401 {object} services.ErrorResponse
// @Router /enrollments/pending [get]
func (h *EnrollmentHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	list, err := h.enrollments.ListPendingFor(r.Context(), userID)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"enrollments": list,
		"count":       len(list),
	})
}

// CheckEnrollment reports the caller's latest enrollment in a course
// @Summary Check enrollment
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} services.EnrollmentCheck
// @Failure 401 {object} services.ErrorResponse
// @Router /enrollments/check/{courseId} [get]
func (h *EnrollmentHandler) CheckEnrollment(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	check, err := h.enrollments.CheckEnrollment(r.Context(), userID, chi.URLParam(r, "courseId"))
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, check)
}

// Decide settles (approve) or refunds (reject) a pending enrollment payment
// @Summary Decide enrollment
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param enrollmentId path string true "Enrollment ID"
// @Param request body object{decision=string} true "approve or reject"
// @Success 200 {object} models.Enrollment
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /enrollments/{enrollmentId}/decision [post]
func (h *EnrollmentHandler) Decide(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Decision string `json:"decision" validate:"required,oneof=approve reject"`
	}
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	enrollment, err := h.enrollments.DecideEnrollment(r.Context(), chi.URLParam(r, "enrollmentId"), userID, services.Decision(req.Decision))
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, enrollment)
}

// MarkProgress marks a material as completed
// @Summary Mark material complete
// @Description Idempotent. The enrollment completes on the call that covers the last material
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param enrollmentId path string true "Enrollment ID"
// @Param request body object{materialId=string} true "Progress request"
// @Success 200 {object} services.ProgressResult
// @Failure 401 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /enrollments/{enrollmentId}/progress [patch]
func (h *EnrollmentHandler) MarkProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		MaterialID string `json:"materialId" validate:"required"`
	}
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	result, err := h.progress.MarkMaterialComplete(r.Context(), userID, chi.URLParam(r, "enrollmentId"), req.MaterialID)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// SubmitQuiz records the first answer to a quiz material
// @Summary Submit quiz answer
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param enrollmentId path string true "Enrollment ID"
// @Param materialId path string true "Quiz material ID"
// @Param request body object{selectedAnswer=int} true "Answer index 0-3"
// @Success 200 {object} services.QuizResult
// @Failure 400 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /enrollments/{enrollmentId}/quizzes/{materialId} [post]
func (h *EnrollmentHandler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		SelectedAnswer *int `json:"selectedAnswer" validate:"required,min=0,max=3"`
	}
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	result, err := h.progress.SubmitQuizAnswer(r.Context(), userID, chi.URLParam(r, "enrollmentId"), chi.URLParam(r, "materialId"), *req.SelectedAnswer)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
