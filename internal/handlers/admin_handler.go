package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/coursebank/backend/internal/models"
	"github.com/coursebank/backend/internal/services"
)

// AdminHandler reviews submitted courses.
type AdminHandler struct {
	courses *services.CourseService
}

func NewAdminHandler(courses *services.CourseService) *AdminHandler {
	return &AdminHandler{courses: courses}
}

// ListPendingCourses lists courses awaiting review
// @Summary List pending courses
// @Description Courses submitted by instructors whose creation fee is still held
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{courses=[]models.Course,count=int}
// @Failure 401 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Router /admin/courses/pending [get]
func (h *AdminHandler) ListPendingCourses(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	courses, err := h.courses.ListPendingCourses(r.Context(), userID)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"courses": courses,
		"count":   len(courses),
	})
}

// ApproveCourse publishes the course and settles its creation fee
// @Summary Approve course
// @Description Publish a pending course and pay its held creation fee to the platform account
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} models.Course
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /admin/courses/{courseId}/approve [post]
func (h *AdminHandler) ApproveCourse(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.courses.ApproveCourse)
}

// DenyCourse rejects the course and refunds its creation fee
// @Summary Deny course
// @Description Deny a pending course and return its held creation fee to the creator
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} models.Course
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /admin/courses/{courseId}/deny [post]
func (h *AdminHandler) DenyCourse(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.courses.DenyCourse)
}

func (h *AdminHandler) review(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, adminID, courseID string) (*models.Course, error)) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	course, err := fn(r.Context(), userID, chi.URLParam(r, "courseId"))
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, course)
}
