package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentValidated PaymentStatus = "validated"
	PaymentRejected  PaymentStatus = "rejected"
)

type EnrollmentStatus string

const (
	EnrollmentInProgress EnrollmentStatus = "in-progress"
	EnrollmentCompleted  EnrollmentStatus = "completed"
)

type QuizScore struct {
	MaterialID     string    `json:"materialId" db:"material_id"`
	Score          int       `json:"score" db:"score"`
	SelectedAnswer int       `json:"selectedAnswer" db:"selected_answer"`
	AnsweredAt     time.Time `json:"answeredAt" db:"answered_at"`
}

// Enrollment binds a student, a course and the outcome of one escrow transfer.
// InstructorIDs is a snapshot of the course instructors at request time.
type Enrollment struct {
	ID                 string               `json:"id" db:"id"`
	CourseID           string               `json:"courseId" db:"course_id"`
	InstructorIDs      []string             `json:"instructorIds" db:"instructor_ids"`
	StudentID          string               `json:"studentId" db:"student_id"`
	TransactionAmount  decimal.Decimal      `json:"transactionAmount" db:"transaction_amount"`
	TransferID         string               `json:"transferId,omitempty" db:"transfer_id"`
	PaymentStatus      PaymentStatus        `json:"paymentStatus" db:"payment_status"`
	Status             EnrollmentStatus     `json:"status" db:"status"`
	CompletedMaterials []string             `json:"completedMaterials" db:"completed_materials"`
	QuizScores         map[string]QuizScore `json:"quizScores"`
	ValidatedBy        string               `json:"validatedBy,omitempty" db:"validated_by"`
	ValidatedAt        *time.Time           `json:"validatedAt,omitempty" db:"validated_at"`
	CompletedAt        *time.Time           `json:"completedAt,omitempty" db:"completed_at"`
	CreatedAt          time.Time            `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time            `json:"updatedAt" db:"updated_at"`
}

func (e *Enrollment) HasInstructor(userID string) bool {
	for _, id := range e.InstructorIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (e *Enrollment) HasCompleted(materialID string) bool {
	for _, id := range e.CompletedMaterials {
		if id == materialID {
			return true
		}
	}
	return false
}

// Progress is the completed share of the course materials, 0-100.
func (e *Enrollment) Progress(totalMaterials int) int {
	if totalMaterials <= 0 {
		return 0
	}
	done := len(e.CompletedMaterials)
	if done > totalMaterials {
		done = totalMaterials
	}
	return (done*100 + totalMaterials/2) / totalMaterials
}
