package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coursebank/backend/internal/events"
	"github.com/coursebank/backend/internal/models"
	"github.com/coursebank/backend/internal/repository"
)

const quizOptionCount = 4

// CourseService is the catalog side the escrow core reads from: course
// creation (with an escrowed creation fee), materials, and admin review.
type CourseService struct {
	store   repository.Store
	escrow  *EscrowService
	events  *events.Publisher
	feeRate decimal.Decimal
	now     func() time.Time
}

type NewCourse struct {
	Title         string
	Description   string
	Price         decimal.Decimal
	CoInstructors []string
	// Secret authorizes the creation fee debit.
	Secret string
}

type NewMaterial struct {
	Title    string
	Type     models.MaterialType
	URL      string
	Duration int
	Quiz     *models.QuizQuestion
}

func NewCourseService(store repository.Store, escrow *EscrowService, publisher *events.Publisher, feeRate decimal.Decimal) *CourseService {
	return &CourseService{
		store:   store,
		escrow:  escrow,
		events:  publisher,
		feeRate: feeRate,
		now:     time.Now,
	}
}

// CreationFee is max(1, round(price * rate)).
func (s *CourseService) CreationFee(price decimal.Decimal) decimal.Decimal {
	fee := price.Mul(s.feeRate).Round(0)
	if fee.LessThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return fee
}

// CreateCourse stores a pending course and holds the creation fee from the
// creator's account for the platform. The fee is settled on approval and
// released on denial.
func (s *CourseService) CreateCourse(ctx context.Context, creatorID string, in NewCourse) (*models.Course, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, fmt.Errorf("title is required: %w", models.ErrValidation)
	}
	if in.Price.IsNegative() || in.Price.GreaterThanOrEqual(maxAmount) || !in.Price.Equal(in.Price.Round(2)) {
		return nil, fmt.Errorf("price %s: %w", in.Price.String(), models.ErrInvalidAmount)
	}

	creator, err := s.store.UserByID(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if creator.Role != models.RoleInstructor && creator.Role != models.RoleAdmin {
		return nil, fmt.Errorf("only instructors can create courses: %w", models.ErrForbidden)
	}

	instructors := []string{creatorID}
	for _, id := range in.CoInstructors {
		if id == creatorID || containsID(instructors, id) {
			continue
		}
		user, err := s.store.UserByID(ctx, id)
		if errors.Is(err, models.ErrNotFound) || (err == nil && user.Role != models.RoleInstructor) {
			return nil, fmt.Errorf("co-instructor %s is not an instructor: %w", id, models.ErrValidation)
		}
		if err != nil {
			return nil, err
		}
		instructors = append(instructors, id)
	}

	now := s.now().UTC()
	course := &models.Course{
		ID:            uuid.NewString(),
		Title:         in.Title,
		Description:   strings.TrimSpace(in.Description),
		Price:         in.Price,
		InstructorIDs: instructors,
		Status:        models.CourseStatusPending,
		Materials:     []models.Material{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var transfer *models.EscrowTransfer
	err = s.store.WithTx(ctx, func(tx repository.Tx) error {
		creatorAccount, err := tx.LockAccountByOwner(ctx, creatorID)
		if err != nil {
			return err
		}
		platform, err := tx.AccountByOwner(ctx, PlatformOwnerID)
		if err != nil {
			return fmt.Errorf("platform fee account: %w", err)
		}

		transfer, err = s.escrow.HoldTx(ctx, tx, creatorAccount.ID, platform.ID, s.CreationFee(in.Price), in.Secret, "course-fee:"+course.ID)
		if err != nil {
			return err
		}
		course.FeeTransferID = transfer.ID

		return tx.CreateCourse(ctx, course)
	})
	if err != nil {
		log.Printf("[COURSE] Creation by %s failed: %v", creatorID, err)
		return nil, err
	}

	s.escrow.record(transfer)
	log.Printf("[COURSE] Course %s created by %s, fee %s held", course.ID, creatorID, transfer.Amount.StringFixed(2))
	return course, nil
}

// AddMaterial appends a material to a course the caller teaches.
func (s *CourseService) AddMaterial(ctx context.Context, callerID, courseID string, in NewMaterial) (*models.Material, error) {
	if err := validateMaterial(in); err != nil {
		return nil, err
	}

	material := &models.Material{
		ID:        uuid.NewString(),
		CourseID:  courseID,
		Title:     strings.TrimSpace(in.Title),
		Type:      in.Type,
		URL:       strings.TrimSpace(in.URL),
		Duration:  in.Duration,
		Quiz:      in.Quiz,
		CreatedAt: s.now().UTC(),
	}

	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		course, err := tx.LockCourse(ctx, courseID)
		if err != nil {
			return err
		}
		if !course.HasInstructor(callerID) {
			return fmt.Errorf("only course instructors can add materials: %w", models.ErrForbidden)
		}
		return tx.AddMaterial(ctx, material)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[COURSE] Material %s (%s) added to course %s", material.ID, material.Type, courseID)
	return material, nil
}

func validateMaterial(in NewMaterial) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("material title is required: %w", models.ErrValidation)
	}
	if in.Duration < 0 {
		return fmt.Errorf("duration cannot be negative: %w", models.ErrValidation)
	}

	switch in.Type {
	case models.MaterialQuiz:
		q := in.Quiz
		if q == nil || strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("quiz needs exactly one question: %w", models.ErrValidation)
		}
		if len(q.Options) != quizOptionCount {
			return fmt.Errorf("quiz must have exactly %d options: %w", quizOptionCount, models.ErrValidation)
		}
		for i, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return fmt.Errorf("quiz option %d is empty: %w", i, models.ErrValidation)
			}
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= quizOptionCount {
			return fmt.Errorf("correct answer must be between 0 and %d: %w", quizOptionCount-1, models.ErrValidation)
		}
	case models.MaterialVideo, models.MaterialDocument, models.MaterialLink:
		if in.Quiz != nil {
			return fmt.Errorf("only quiz materials carry questions: %w", models.ErrValidation)
		}
		if !isHTTPURL(in.URL) {
			return fmt.Errorf("%s material needs an http(s) URL: %w", in.Type, models.ErrValidation)
		}
	default:
		return fmt.Errorf("unknown material type %q: %w", in.Type, models.ErrValidation)
	}
	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ApproveCourse publishes a pending course and settles its creation fee.
func (s *CourseService) ApproveCourse(ctx context.Context, adminID, courseID string) (*models.Course, error) {
	return s.review(ctx, adminID, courseID, models.CourseStatusApproved)
}

// DenyCourse rejects a pending course and refunds its creation fee.
func (s *CourseService) DenyCourse(ctx context.Context, adminID, courseID string) (*models.Course, error) {
	return s.review(ctx, adminID, courseID, models.CourseStatusDenied)
}

func (s *CourseService) review(ctx context.Context, adminID, courseID string, to models.CourseStatus) (*models.Course, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	var (
		course   *models.Course
		transfer *models.EscrowTransfer
	)
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		var err error
		course, err = tx.LockCourse(ctx, courseID)
		if err != nil {
			return err
		}
		if course.Status != models.CourseStatusPending {
			return fmt.Errorf("course %s is already %s: %w", courseID, course.Status, models.ErrInvalidState)
		}

		if course.FeeTransferID != "" {
			if to == models.CourseStatusApproved {
				transfer, err = s.escrow.SettleTx(ctx, tx, course.FeeTransferID)
			} else {
				transfer, err = s.escrow.ReleaseTx(ctx, tx, course.FeeTransferID)
			}
			if err != nil {
				return err
			}
		}

		now := s.now().UTC()
		course.Status = to
		course.UpdatedAt = now
		return tx.UpdateCourseStatus(ctx, courseID, to, now)
	})
	if err != nil {
		log.Printf("[ADMIN] Review of course %s by %s failed: %v", courseID, adminID, err)
		return nil, err
	}

	if transfer != nil {
		s.escrow.record(transfer)
		eventType := events.CourseFeeSettled
		if transfer.State == models.TransferReleased {
			eventType = events.CourseFeeReleased
		}
		s.events.Emit(ctx, eventType, course.ID, map[string]string{
			"transferId": transfer.ID,
			"amount":     transfer.Amount.StringFixed(2),
			"reviewedBy": adminID,
		})
	}

	log.Printf("[ADMIN] Course %s %s by %s", courseID, to, adminID)
	return course, nil
}

func (s *CourseService) ListPendingCourses(ctx context.Context, adminID string) ([]models.Course, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.store.CoursesByStatus(ctx, models.CourseStatusPending)
}

func (s *CourseService) requireAdmin(ctx context.Context, userID string) error {
	user, err := s.store.UserByID(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("unknown user %s: %w", userID, models.ErrUnauthorized)
	}
	if err != nil {
		return err
	}
	if !user.IsAdmin() {
		return fmt.Errorf("admin role required: %w", models.ErrForbidden)
	}
	return nil
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
