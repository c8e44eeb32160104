// Package repository defines the storage contract shared by the PostgreSQL
// store and the in-memory store.
package repository

import (
	"context"
	"time"

	"github.com/coursebank/backend/internal/models"
)

// Queries are plain reads. Missing rows are reported as models.ErrNotFound.
type Queries interface {
	UserByID(ctx context.Context, id string) (*models.User, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)

	AccountByID(ctx context.Context, id string) (*models.Account, error)
	AccountByOwner(ctx context.Context, ownerID string) (*models.Account, error)
	Entries(ctx context.Context, accountID string) ([]models.LedgerEntry, error)

	Transfer(ctx context.Context, id string) (*models.EscrowTransfer, error)

	Course(ctx context.Context, id string) (*models.Course, error)
	CoursesByStatus(ctx context.Context, status models.CourseStatus) ([]models.Course, error)

	Enrollment(ctx context.Context, id string) (*models.Enrollment, error)
	// ActiveEnrollment returns the non-rejected enrollment for (student, course).
	ActiveEnrollment(ctx context.Context, studentID, courseID string) (*models.Enrollment, error)
	EnrollmentsByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error)
	PendingEnrollmentsForInstructor(ctx context.Context, instructorID string) ([]models.Enrollment, error)
}

// Tx is a failure-atomic unit of work. Lock* reads hold the row until the
// transaction ends.
type Tx interface {
	Queries

	LockAccount(ctx context.Context, id string) (*models.Account, error)
	LockAccountByOwner(ctx context.Context, ownerID string) (*models.Account, error)
	LockTransfer(ctx context.Context, id string) (*models.EscrowTransfer, error)
	LockEnrollment(ctx context.Context, id string) (*models.Enrollment, error)
	LockCourse(ctx context.Context, id string) (*models.Course, error)

	CreateUser(ctx context.Context, user *models.User) error

	// CreateAccount fails with models.ErrConflict on a duplicate owner or number.
	CreateAccount(ctx context.Context, account *models.Account) error
	// SaveBalance writes account.Balance if the stored version still matches
	// account.Version, then bumps account.Version.
	SaveBalance(ctx context.Context, account *models.Account) error
	AppendEntry(ctx context.Context, entry *models.LedgerEntry) error

	CreateTransfer(ctx context.Context, transfer *models.EscrowTransfer) error
	// ResolveTransfer moves a HELD transfer to state, models.ErrInvalidState otherwise.
	ResolveTransfer(ctx context.Context, id string, state models.TransferState, at time.Time) error

	CreateCourse(ctx context.Context, course *models.Course) error
	UpdateCourseStatus(ctx context.Context, id string, status models.CourseStatus, at time.Time) error
	AddMaterial(ctx context.Context, material *models.Material) error

	// CreateEnrollment fails with models.ErrAlreadyEnrolled when a
	// non-rejected enrollment exists for the same student and course.
	CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error
	UpdateEnrollment(ctx context.Context, enrollment *models.Enrollment) error
	// AddQuizScore fails with models.ErrAlreadyAnswered on a second answer.
	AddQuizScore(ctx context.Context, enrollmentID string, score models.QuizScore) error
}

type Store interface {
	Queries
	// WithTx runs fn in a transaction, committing only when fn returns nil.
	WithTx(ctx context.Context, fn func(tx Tx) error) error
}
