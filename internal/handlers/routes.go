package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/coursebank/backend/internal/middleware"
	"github.com/coursebank/backend/internal/models"
)

type Handlers struct {
	Auth        *AuthHandler
	Bank        *BankHandler
	Course      *CourseHandler
	Enrollment  *EnrollmentHandler
	Certificate *CertificateHandler
	Admin       *AdminHandler
}

// Mount registers the API routes on r. requireAuth guards everything except
// identity and certificate verification.
func (h *Handlers) Mount(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	// Public endpoints (no auth required)
	r.Post("/auth/register", h.Auth.Register)
	r.Post("/auth/login", h.Auth.Login)
	r.Post("/auth/logout", h.Auth.Logout)
	r.Get("/certificates/{enrollmentId}", h.Certificate.Verify)

	// Protected endpoints (auth required)
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Post("/bank/accounts", h.Bank.OpenAccount)
		r.Get("/bank/accounts/me", h.Bank.GetAccount)
		r.Post("/bank/deposit", h.Bank.Deposit)
		r.Post("/bank/withdraw", h.Bank.Withdraw)

		r.Post("/courses", h.Course.CreateCourse)
		r.Get("/courses/{courseId}", h.Course.GetCourse)
		r.Get("/courses/{courseId}/access", h.Course.CheckAccess)
		r.Post("/courses/{courseId}/materials", h.Course.AddMaterial)

		r.Post("/enrollments", h.Enrollment.RequestEnrollment)
		r.Get("/enrollments/me", h.Enrollment.ListMine)
		r.Get("/enrollments/pending", h.Enrollment.ListPending)
		r.Get("/enrollments/check/{courseId}", h.Enrollment.CheckEnrollment)
		r.Post("/enrollments/{enrollmentId}/decision", h.Enrollment.Decide)
		r.Patch("/enrollments/{enrollmentId}/progress", h.Enrollment.MarkProgress)
		r.Post("/enrollments/{enrollmentId}/quizzes/{materialId}", h.Enrollment.SubmitQuiz)
		r.Get("/enrollments/{enrollmentId}/certificate", h.Certificate.QRCode)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Get("/courses/pending", h.Admin.ListPendingCourses)
			r.Post("/courses/{courseId}/approve", h.Admin.ApproveCourse)
			r.Post("/courses/{courseId}/deny", h.Admin.DenyCourse)
		})
	})
}
