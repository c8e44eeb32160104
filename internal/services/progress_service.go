package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/coursebank/backend/internal/events"
	"github.com/coursebank/backend/internal/models"
	"github.com/coursebank/backend/internal/repository"
)

// ProgressService tracks completed materials and quiz answers on validated
// enrollments.
type ProgressService struct {
	store  repository.Store
	events *events.Publisher
	now    func() time.Time
}

type ProgressResult struct {
	Enrollment     *models.Enrollment `json:"enrollment"`
	TotalMaterials int                `json:"totalMaterials"`
	Progress       int                `json:"progress"`
	// JustCompleted is true only on the call that completed the course.
	JustCompleted bool `json:"justCompleted"`
}

type QuizResult struct {
	IsCorrect      bool `json:"isCorrect"`
	Score          int  `json:"score"`
	CorrectAnswer  int  `json:"correctAnswer"`
	SelectedAnswer int  `json:"selectedAnswer"`
}

func NewProgressService(store repository.Store, publisher *events.Publisher) *ProgressService {
	return &ProgressService{
		store:  store,
		events: publisher,
		now:    time.Now,
	}
}

// lockOwned loads the caller's validated enrollment and its course.
func lockOwned(ctx context.Context, tx repository.Tx, callerID, enrollmentID string) (*models.Enrollment, *models.Course, error) {
	enrollment, err := tx.LockEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, nil, err
	}
	if enrollment.StudentID != callerID {
		return nil, nil, fmt.Errorf("enrollment %s belongs to another student: %w", enrollmentID, models.ErrUnauthorized)
	}
	if enrollment.PaymentStatus != models.PaymentValidated {
		return nil, nil, fmt.Errorf("enrollment %s payment is %s: %w", enrollmentID, enrollment.PaymentStatus, models.ErrForbidden)
	}

	course, err := tx.Course(ctx, enrollment.CourseID)
	if err != nil {
		return nil, nil, err
	}
	return enrollment, course, nil
}

// MarkMaterialComplete is idempotent. The enrollment becomes completed once,
// on the call that covers the last material.
func (s *ProgressService) MarkMaterialComplete(ctx context.Context, callerID, enrollmentID, materialID string) (*ProgressResult, error) {
	result := &ProgressResult{}

	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		enrollment, course, err := lockOwned(ctx, tx, callerID, enrollmentID)
		if err != nil {
			return err
		}
		if _, ok := course.Material(materialID); !ok {
			return fmt.Errorf("material %s in course %s: %w", materialID, course.ID, models.ErrNotFound)
		}

		result.Enrollment = enrollment
		result.TotalMaterials = len(course.Materials)

		if enrollment.HasCompleted(materialID) {
			result.Progress = enrollment.Progress(result.TotalMaterials)
			return nil
		}

		now := s.now().UTC()
		enrollment.CompletedMaterials = append(enrollment.CompletedMaterials, materialID)
		enrollment.UpdatedAt = now

		if enrollment.Status != models.EnrollmentCompleted && coversAll(enrollment, course) {
			enrollment.Status = models.EnrollmentCompleted
			enrollment.CompletedAt = &now
			result.JustCompleted = true
		}

		result.Progress = enrollment.Progress(result.TotalMaterials)
		return tx.UpdateEnrollment(ctx, enrollment)
	})
	if err != nil {
		log.Printf("[PROGRESS] Marking material %s on enrollment %s failed: %v", materialID, enrollmentID, err)
		return nil, err
	}

	if result.JustCompleted {
		s.events.Emit(ctx, events.EnrollmentCompleted, enrollmentID, map[string]string{
			"courseId":  result.Enrollment.CourseID,
			"studentId": result.Enrollment.StudentID,
		})
		log.Printf("[PROGRESS] Enrollment %s completed", enrollmentID)
	}
	return result, nil
}

func coversAll(enrollment *models.Enrollment, course *models.Course) bool {
	if len(course.Materials) == 0 {
		return false
	}
	for _, m := range course.Materials {
		if !enrollment.HasCompleted(m.ID) {
			return false
		}
	}
	return true
}

// SubmitQuizAnswer records the first answer to a quiz material. A correct
// answer scores 1, anything else 0.
func (s *ProgressService) SubmitQuizAnswer(ctx context.Context, callerID, enrollmentID, materialID string, selected int) (*QuizResult, error) {
	var result *QuizResult

	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		enrollment, course, err := lockOwned(ctx, tx, callerID, enrollmentID)
		if err != nil {
			return err
		}

		material, ok := course.Material(materialID)
		if !ok {
			return fmt.Errorf("material %s in course %s: %w", materialID, course.ID, models.ErrNotFound)
		}
		if material.Type != models.MaterialQuiz || material.Quiz == nil {
			return fmt.Errorf("material %s is not a quiz: %w", materialID, models.ErrValidation)
		}
		if selected < 0 || selected >= len(material.Quiz.Options) {
			return fmt.Errorf("selected answer %d is out of range: %w", selected, models.ErrValidation)
		}
		if _, answered := enrollment.QuizScores[materialID]; answered {
			return models.ErrAlreadyAnswered
		}

		correct := material.Quiz.CorrectAnswer == selected
		score := 0
		if correct {
			score = 1
		}

		err = tx.AddQuizScore(ctx, enrollment.ID, models.QuizScore{
			MaterialID:     materialID,
			Score:          score,
			SelectedAnswer: selected,
			AnsweredAt:     s.now().UTC(),
		})
		if err != nil {
			return err
		}

		result = &QuizResult{
			IsCorrect:      correct,
			Score:          score,
			CorrectAnswer:  material.Quiz.CorrectAnswer,
			SelectedAnswer: selected,
		}
		return nil
	})
	if err != nil {
		log.Printf("[PROGRESS] Quiz answer on material %s for enrollment %s failed: %v", materialID, enrollmentID, err)
		return nil, err
	}

	log.Printf("[PROGRESS] Enrollment %s answered quiz %s: score %d", enrollmentID, materialID, result.Score)
	return result, nil
}
