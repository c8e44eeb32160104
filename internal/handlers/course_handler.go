package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/coursebank/backend/internal/models"
	"github.com/coursebank/backend/internal/services"
)

type CourseHandler struct {
	courses   *services.CourseService
	access    *services.AccessService
	validator *services.ValidationHelper
}

func NewCourseHandler(courses *services.CourseService, access *services.AccessService) *CourseHandler {
	return &CourseHandler{
		courses:   courses,
		access:    access,
		validator: services.NewValidationHelper(),
	}
}

// CreateCourse submits a course for review and holds its creation fee
// @Summary Create course
// @Description Submit a course for admin review. The creation fee is held from the creator's account
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{title=string,description=string,price=string,coInstructors=[]string,secret=string} true "Course request"
// @Success 201 {object} models.Course
// @Failure 400 {object} services.ErrorResponse
// @Failure 402 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Failure 422 {object} services.ErrorResponse
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Title         string      `json:"title" validate:"required,max=200"`
		Description   string      `json:"description" validate:"max=5000"`
		Price         amountField `json:"price"`
		CoInstructors []string    `json:"coInstructors,omitempty" validate:"omitempty,dive,required"`
		Secret        string      `json:"secret" validate:"required"`
	}
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	price, err := req.Price.Decimal("price")
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	course, err := h.courses.CreateCourse(r.Context(), userID, services.NewCourse{
		Title:         req.Title,
		Description:   req.Description,
		Price:         price,
		CoInstructors: req.CoInstructors,
		Secret:        req.Secret,
	})
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, course)
}

// GetCourse returns the course as the caller may see it
// @Summary Get course
// @Description Materials are included only for instructors, admins and validated students
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} services.CourseView
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /courses/{courseId} [get]
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	view, err := h.access.CourseView(r.Context(), userID, chi.URLParam(r, "courseId"))
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// CheckAccess reports whether the caller may read the course materials
// @Summary Check material access
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} services.AccessDecision
// @Failure 404 {object} services.ErrorResponse
// @Router /courses/{courseId}/access [get]
func (h *CourseHandler) CheckAccess(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	decision, err := h.access.CanAccessMaterials(r.Context(), userID, chi.URLParam(r, "courseId"))
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, decision)
}

// AddMaterial appends a material to a course the caller teaches
// @Summary Add material
// @Description Quiz materials carry one question with four options
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Param request body object{title=string,type=string,url=string,duration=int,quiz=models.QuizQuestion} true "Material request"
// @Success 201 {object} models.Material
// @Failure 400 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Router /courses/{courseId}/materials [post]
func (h *CourseHandler) AddMaterial(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Title    string               `json:"title" validate:"required,max=200"`
		Type     string               `json:"type" validate:"required,oneof=video document link quiz"`
		URL      string               `json:"url,omitempty" validate:"omitempty,max=2048"`
		Duration int                  `json:"duration,omitempty" validate:"gte=0"`
		Quiz     *models.QuizQuestion `json:"quiz,omitempty"`
	}
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	material, err := h.courses.AddMaterial(r.Context(), userID, chi.URLParam(r, "courseId"), services.NewMaterial{
		Title:    req.Title,
		Type:     models.MaterialType(req.Type),
		URL:      req.URL,
		Duration: req.Duration,
		Quiz:     req.Quiz,
	})
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, material)
}
