package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type CourseStatus string

const (
	CourseStatusPending  CourseStatus = "pending"
	CourseStatusApproved CourseStatus = "approved"
	CourseStatusDenied   CourseStatus = "denied"
)

type MaterialType string

const (
	MaterialVideo    MaterialType = "video"
	MaterialDocument MaterialType = "document"
	MaterialLink     MaterialType = "link"
	MaterialQuiz     MaterialType = "quiz"
)

// QuizQuestion is a single multiple-choice question with four options.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// Value implements driver.Valuer for the JSONB quiz column
func (q *QuizQuestion) Value() (driver.Value, error) {
	if q == nil {
		return nil, nil
	}
	return json.Marshal(q)
}

// Scan implements sql.Scanner for the JSONB quiz column
func (q *QuizQuestion) Scan(value any) error {
	if value == nil {
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		s, isString := value.(string)
		if !isString {
			return errors.New("type assertion to []byte failed")
		}
		b = []byte(s)
	}

	return json.Unmarshal(b, q)
}

type Material struct {
	ID        string        `json:"id" db:"id"`
	CourseID  string        `json:"courseId" db:"course_id"`
	Position  int           `json:"position" db:"position"`
	Title     string        `json:"title" db:"title"`
	Type      MaterialType  `json:"type" db:"type"`
	URL       string        `json:"url,omitempty" db:"url"`
	Duration  int           `json:"duration,omitempty" db:"duration"`
	Quiz      *QuizQuestion `json:"quiz,omitempty" db:"quiz"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
}

// Course is owned by the catalog side; the core reads price, status,
// instructors and materials.
type Course struct {
	ID            string          `json:"id" db:"id"`
	Title         string          `json:"title" db:"title"`
	Description   string          `json:"description" db:"description"`
	Price         decimal.Decimal `json:"price" db:"price"`
	InstructorIDs []string        `json:"instructorIds" db:"instructor_ids"`
	Status        CourseStatus    `json:"status" db:"status"`
	FeeTransferID string          `json:"feeTransferId,omitempty" db:"fee_transfer_id"`
	Materials     []Material      `json:"materials"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`
}

func (c *Course) HasInstructor(userID string) bool {
	for _, id := range c.InstructorIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (c *Course) Material(id string) (*Material, bool) {
	for i := range c.Materials {
		if c.Materials[i].ID == id {
			return &c.Materials[i], true
		}
	}
	return nil, false
}
