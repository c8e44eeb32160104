package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/coursebank/backend/internal/models"
	"github.com/coursebank/backend/internal/repository"
)

// Access reasons
const (
	AccessInstructor         = "instructor"
	AccessAdmin              = "admin"
	AccessEnrolled           = "enrolled"
	AccessPaymentPending     = "payment_pending"
	AccessEnrollmentRequired = "enrollment_required"
)

// AccessService decides who may read course materials. Only the course
// instructors, admins and students with a validated enrollment get through.
type AccessService struct {
	store repository.Queries
}

type AccessDecision struct {
	CanAccess    bool   `json:"canAccess"`
	Reason       string `json:"reason"`
	EnrollmentID string `json:"enrollmentId,omitempty"`
}

// QuizView is a quiz as shown to a reader. CorrectAnswer is only set for
// instructors and admins.
type QuizView struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer *int     `json:"correctAnswer,omitempty"`
}

type MaterialView struct {
	ID       string              `json:"id"`
	Position int                 `json:"position"`
	Title    string              `json:"title"`
	Type     models.MaterialType `json:"type"`
	URL      string              `json:"url,omitempty"`
	Duration int                 `json:"duration,omitempty"`
	Quiz     *QuizView           `json:"quiz,omitempty"`
}

// CourseView never carries a partial materials list: either all materials
// are present or only MaterialsCount is.
type CourseView struct {
	ID                 string              `json:"id"`
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	Price              decimal.Decimal     `json:"price"`
	InstructorIDs      []string            `json:"instructorIds"`
	Status             models.CourseStatus `json:"status"`
	MaterialsCount     int                 `json:"materialsCount"`
	EnrollmentRequired bool                `json:"enrollmentRequired"`
	Materials          []MaterialView      `json:"materials,omitempty"`
	Access             AccessDecision      `json:"access"`
}

func NewAccessService(store repository.Queries) *AccessService {
	return &AccessService{store: store}
}

func (s *AccessService) CanAccessMaterials(ctx context.Context, userID, courseID string) (*AccessDecision, error) {
	course, err := s.store.Course(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return s.decide(ctx, userID, course)
}

func (s *AccessService) decide(ctx context.Context, userID string, course *models.Course) (*AccessDecision, error) {
	if course.HasInstructor(userID) {
		return &AccessDecision{CanAccess: true, Reason: AccessInstructor}, nil
	}

	user, err := s.store.UserByID(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("unknown user %s: %w", userID, models.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() {
		return &AccessDecision{CanAccess: true, Reason: AccessAdmin}, nil
	}

	enrollment, err := s.store.ActiveEnrollment(ctx, userID, course.ID)
	if errors.Is(err, models.ErrNotFound) {
		return &AccessDecision{Reason: AccessEnrollmentRequired}, nil
	}
	if err != nil {
		return nil, err
	}

	switch enrollment.PaymentStatus {
	case models.PaymentValidated:
		return &AccessDecision{CanAccess: true, Reason: AccessEnrolled, EnrollmentID: enrollment.ID}, nil
	case models.PaymentPending:
		return &AccessDecision{Reason: AccessPaymentPending, EnrollmentID: enrollment.ID}, nil
	default:
		return &AccessDecision{Reason: AccessEnrollmentRequired}, nil
	}
}

// CourseView is the gated read of a course. Unapproved courses are only
// visible to their instructors and admins.
func (s *AccessService) CourseView(ctx context.Context, userID, courseID string) (*CourseView, error) {
	course, err := s.store.Course(ctx, courseID)
	if err != nil {
		return nil, err
	}

	decision, err := s.decide(ctx, userID, course)
	if err != nil {
		return nil, err
	}

	privileged := decision.Reason == AccessInstructor || decision.Reason == AccessAdmin
	if course.Status != models.CourseStatusApproved && !privileged {
		return nil, fmt.Errorf("course %s is not published: %w", courseID, models.ErrForbidden)
	}

	view := &CourseView{
		ID:                 course.ID,
		Title:              course.Title,
		Description:        course.Description,
		Price:              course.Price,
		InstructorIDs:      course.InstructorIDs,
		Status:             course.Status,
		MaterialsCount:     len(course.Materials),
		EnrollmentRequired: !decision.CanAccess,
		Access:             *decision,
	}
	if !decision.CanAccess {
		return view, nil
	}

	view.Materials = make([]MaterialView, 0, len(course.Materials))
	for _, m := range course.Materials {
		view.Materials = append(view.Materials, materialView(m, privileged))
	}
	return view, nil
}

func materialView(m models.Material, withAnswers bool) MaterialView {
	mv := MaterialView{
		ID:       m.ID,
		Position: m.Position,
		Title:    m.Title,
		Type:     m.Type,
		URL:      m.URL,
		Duration: m.Duration,
	}
	if m.Quiz != nil {
		mv.Quiz = &QuizView{
			Question: m.Quiz.Question,
			Options:  append([]string(nil), m.Quiz.Options...),
		}
		if withAnswers {
			answer := m.Quiz.CorrectAnswer
			mv.Quiz.CorrectAnswer = &answer
		}
	}
	return mv
}
