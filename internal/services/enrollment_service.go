package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/coursebank/backend/internal/events"
	"github.com/coursebank/backend/internal/models"
	"github.com/coursebank/backend/internal/repository"
)

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// EnrollmentService runs the pending -> validated | rejected state machine.
// Each transition and its money movement commit together.
type EnrollmentService struct {
	store  repository.Store
	escrow *EscrowService
	events *events.Publisher
	now    func() time.Time
}

// PendingEnrollment is what an instructor needs to check a payment.
type PendingEnrollment struct {
	models.Enrollment
	CourseTitle          string `json:"courseTitle"`
	StudentName          string `json:"studentName"`
	StudentEmail         string `json:"studentEmail"`
	StudentAccountNumber string `json:"studentAccountNumber"`
}

type StudentEnrollment struct {
	models.Enrollment
	CourseTitle       string `json:"courseTitle"`
	TotalMaterials    int    `json:"totalMaterials"`
	Progress          int    `json:"progress"`
	CertificateIssued bool   `json:"certificateIssued"`
}

// EnrollmentCheck reports the latest enrollment of a student in a course.
// IsEnrolled is true only once payment is validated.
type EnrollmentCheck struct {
	IsEnrolled    bool                 `json:"isEnrolled"`
	EnrollmentID  string               `json:"enrollmentId,omitempty"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus,omitempty"`
	IsPending     bool                 `json:"isPending"`
}

func NewEnrollmentService(store repository.Store, escrow *EscrowService, publisher *events.Publisher) *EnrollmentService {
	return &EnrollmentService{
		store:  store,
		escrow: escrow,
		events: publisher,
		now:    time.Now,
	}
}

// RequestEnrollment holds the course price from the student's account and
// opens a pending enrollment in the same transaction. Free courses are
// validated immediately without touching the ledger.
func (s *EnrollmentService) RequestEnrollment(ctx context.Context, studentID, courseID, secret string) (*models.Enrollment, error) {
	var (
		enrollment *models.Enrollment
		transfer   *models.EscrowTransfer
	)

	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		course, err := tx.Course(ctx, courseID)
		if err != nil {
			return err
		}
		if course.Status != models.CourseStatusApproved {
			return fmt.Errorf("course %s is %s: %w", courseID, course.Status, models.ErrInvalidState)
		}
		if course.HasInstructor(studentID) {
			return fmt.Errorf("instructors cannot enroll in their own course: %w", models.ErrForbidden)
		}
		if len(course.InstructorIDs) == 0 {
			return fmt.Errorf("course %s has no instructor: %w", courseID, models.ErrInvalidState)
		}

		// The student's account lock serializes concurrent requests from the
		// same student before the duplicate check. Free courses need no
		// account and rely on the unique index instead.
		var studentAccount *models.Account
		if !course.Price.IsZero() {
			if studentAccount, err = tx.LockAccountByOwner(ctx, studentID); err != nil {
				return err
			}
		}

		if _, err := tx.ActiveEnrollment(ctx, studentID, courseID); err == nil {
			return models.ErrAlreadyEnrolled
		} else if !errors.Is(err, models.ErrNotFound) {
			return err
		}

		now := s.now().UTC()
		enrollment = &models.Enrollment{
			ID:                 uuid.NewString(),
			CourseID:           course.ID,
			InstructorIDs:      append([]string(nil), course.InstructorIDs...),
			StudentID:          studentID,
			TransactionAmount:  course.Price,
			PaymentStatus:      models.PaymentPending,
			Status:             models.EnrollmentInProgress,
			CompletedMaterials: []string{},
			QuizScores:         map[string]models.QuizScore{},
			CreatedAt:          now,
			UpdatedAt:          now,
		}

		if course.Price.IsZero() {
			enrollment.PaymentStatus = models.PaymentValidated
			enrollment.ValidatedAt = &now
			return tx.CreateEnrollment(ctx, enrollment)
		}

		instructorOfRecord := course.InstructorIDs[0]
		payeeAccount, err := tx.AccountByOwner(ctx, instructorOfRecord)
		if err != nil {
			return fmt.Errorf("instructor %s cannot receive payments: %w", instructorOfRecord, err)
		}

		transfer, err = s.escrow.HoldTx(ctx, tx, studentAccount.ID, payeeAccount.ID, course.Price, secret, "enrollment:"+enrollment.ID)
		if err != nil {
			return err
		}
		enrollment.TransferID = transfer.ID

		return tx.CreateEnrollment(ctx, enrollment)
	})
	if err != nil {
		log.Printf("[ENROLL] Request by student %s for course %s failed: %v", studentID, courseID, err)
		return nil, err
	}

	if transfer != nil {
		s.escrow.record(transfer)
	}

	eventType := events.EnrollmentRequested
	if enrollment.PaymentStatus == models.PaymentValidated {
		eventType = events.EnrollmentValidated
	}
	s.events.Emit(ctx, eventType, enrollment.ID, map[string]string{
		"courseId":  enrollment.CourseID,
		"studentId": enrollment.StudentID,
		"amount":    enrollment.TransactionAmount.StringFixed(2),
	})

	log.Printf("[ENROLL] Student %s requested course %s: enrollment %s is %s", studentID, courseID, enrollment.ID, enrollment.PaymentStatus)
	return enrollment, nil
}

// DecideEnrollment lets an instructor of record settle (approve) or release
// (reject) a pending enrollment's payment.
func (s *EnrollmentService) DecideEnrollment(ctx context.Context, enrollmentID, deciderID string, decision Decision) (*models.Enrollment, error) {
	if decision != DecisionApprove && decision != DecisionReject {
		return nil, fmt.Errorf("unknown decision %q: %w", decision, models.ErrValidation)
	}

	var (
		enrollment *models.Enrollment
		transfer   *models.EscrowTransfer
	)

	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		var err error
		enrollment, err = tx.LockEnrollment(ctx, enrollmentID)
		if err != nil {
			return err
		}
		if !enrollment.HasInstructor(deciderID) {
			return fmt.Errorf("user %s is not an instructor of this enrollment: %w", deciderID, models.ErrUnauthorized)
		}
		if enrollment.PaymentStatus != models.PaymentPending {
			return fmt.Errorf("enrollment %s is already %s: %w", enrollmentID, enrollment.PaymentStatus, models.ErrInvalidState)
		}

		if decision == DecisionApprove {
			transfer, err = s.escrow.SettleTx(ctx, tx, enrollment.TransferID)
			enrollment.PaymentStatus = models.PaymentValidated
		} else {
			transfer, err = s.escrow.ReleaseTx(ctx, tx, enrollment.TransferID)
			enrollment.PaymentStatus = models.PaymentRejected
		}
		if err != nil {
			return err
		}

		now := s.now().UTC()
		enrollment.ValidatedBy = deciderID
		enrollment.ValidatedAt = &now
		enrollment.UpdatedAt = now
		return tx.UpdateEnrollment(ctx, enrollment)
	})
	if err != nil {
		log.Printf("[ENROLL] Decision %s on enrollment %s by %s failed: %v", decision, enrollmentID, deciderID, err)
		return nil, err
	}

	s.escrow.record(transfer)

	eventType := events.EnrollmentValidated
	if enrollment.PaymentStatus == models.PaymentRejected {
		eventType = events.EnrollmentRejected
	}
	s.events.Emit(ctx, eventType, enrollment.ID, map[string]string{
		"courseId":   enrollment.CourseID,
		"studentId":  enrollment.StudentID,
		"decidedBy":  deciderID,
		"amount":     enrollment.TransactionAmount.StringFixed(2),
		"transferId": transfer.ID,
	})

	log.Printf("[ENROLL] Enrollment %s %s by instructor %s", enrollment.ID, enrollment.PaymentStatus, deciderID)
	return enrollment, nil
}

// ListPendingFor returns pending enrollments on courses the instructor teaches.
func (s *EnrollmentService) ListPendingFor(ctx context.Context, instructorID string) ([]PendingEnrollment, error) {
	pending, err := s.store.PendingEnrollmentsForInstructor(ctx, instructorID)
	if err != nil {
		return nil, err
	}

	titles := map[string]string{}
	out := make([]PendingEnrollment, 0, len(pending))
	for _, e := range pending {
		item := PendingEnrollment{Enrollment: e}

		title, ok := titles[e.CourseID]
		if !ok {
			course, err := s.store.Course(ctx, e.CourseID)
			if err != nil {
				return nil, err
			}
			title = course.Title
			titles[e.CourseID] = title
		}
		item.CourseTitle = title

		if student, err := s.store.UserByID(ctx, e.StudentID); err == nil {
			item.StudentName = student.FullName
			item.StudentEmail = student.Email
		} else if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}

		if account, err := s.store.AccountByOwner(ctx, e.StudentID); err == nil {
			item.StudentAccountNumber = account.AccountNumber
		} else if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}

		out = append(out, item)
	}
	return out, nil
}

// ListMine returns the student's enrollments, newest first, with progress.
func (s *EnrollmentService) ListMine(ctx context.Context, studentID string) ([]StudentEnrollment, error) {
	list, err := s.store.EnrollmentsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	courses := map[string]*models.Course{}
	out := make([]StudentEnrollment, 0, len(list))
	for _, e := range list {
		course, ok := courses[e.CourseID]
		if !ok {
			if course, err = s.store.Course(ctx, e.CourseID); err != nil {
				return nil, err
			}
			courses[e.CourseID] = course
		}

		total := len(course.Materials)
		out = append(out, StudentEnrollment{
			Enrollment:        e,
			CourseTitle:       course.Title,
			TotalMaterials:    total,
			Progress:          e.Progress(total),
			CertificateIssued: e.Status == models.EnrollmentCompleted,
		})
	}
	return out, nil
}

func (s *EnrollmentService) CheckEnrollment(ctx context.Context, studentID, courseID string) (*EnrollmentCheck, error) {
	enrollment, err := s.store.ActiveEnrollment(ctx, studentID, courseID)
	if errors.Is(err, models.ErrNotFound) {
		enrollment, err = s.latestEnrollment(ctx, studentID, courseID)
	}
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		return &EnrollmentCheck{}, nil
	}

	return &EnrollmentCheck{
		IsEnrolled:    enrollment.PaymentStatus == models.PaymentValidated,
		EnrollmentID:  enrollment.ID,
		PaymentStatus: enrollment.PaymentStatus,
		IsPending:     enrollment.PaymentStatus == models.PaymentPending,
	}, nil
}

// latestEnrollment finds the most recent (rejected) enrollment, or nil.
func (s *EnrollmentService) latestEnrollment(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
	list, err := s.store.EnrollmentsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].CourseID == courseID {
			return &list[i], nil
		}
	}
	return nil, nil
}
