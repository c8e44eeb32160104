package services

import (
	"bytes"
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/coursebank/backend/internal/audit"
	"github.com/coursebank/backend/internal/models"
	"github.com/coursebank/backend/internal/repository"
	"github.com/coursebank/backend/internal/repository/memory"
	"github.com/coursebank/backend/internal/secrets"
)

const (
	testSecret     = "4821"
	platformNumber = "0000000001"
)

// testEnv wires every service onto one in-memory store.
type testEnv struct {
	store       *memory.Store
	auditOut    *bytes.Buffer
	ledger      *LedgerService
	escrow      *EscrowService
	enrollments *EnrollmentService
	courses     *CourseService
	access      *AccessService
	progress    *ProgressService
	certs       *CertificateService
	auth        *AuthService
}

func fastHasher() *secrets.Hasher {
	return secrets.NewHasher(secrets.Params{Time: 1, Memory: 1024, Threads: 1})
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.New()
	hasher := fastHasher()
	out := &bytes.Buffer{}
	auditLogger := audit.NewLoggerWith(log.New(out, "", 0))

	ledger := NewLedgerService(store, hasher, auditLogger)
	escrow := NewEscrowService(store, ledger, auditLogger)

	env := &testEnv{
		store:       store,
		auditOut:    out,
		ledger:      ledger,
		escrow:      escrow,
		enrollments: NewEnrollmentService(store, escrow, nil),
		courses:     NewCourseService(store, escrow, nil, decimal.RequireFromString("0.05")),
		access:      NewAccessService(store),
		progress:    NewProgressService(store, nil),
		certs:       NewCertificateService(store, "https://learn.example.com/"),
		auth:        NewAuthService(store, nil, hasher, "test-secret", time.Hour),
	}

	_, err := ledger.EnsurePlatformAccount(context.Background(), platformNumber, "")
	require.NoError(t, err)
	return env
}

func quietLogs(t *testing.T) {
	t.Helper()
	prev := log.Writer()
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(prev) })
}

func (e *testEnv) user(t *testing.T, role models.Role) *models.User {
	t.Helper()
	id := uuid.NewString()
	user := &models.User{
		ID:        id,
		Username:  "user-" + id[:8],
		Email:     id[:8] + "@example.com",
		FullName:  "User " + id[:8],
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	err := e.store.WithTx(context.Background(), func(tx repository.Tx) error {
		return tx.CreateUser(context.Background(), user)
	})
	require.NoError(t, err)
	return user
}

// account opens an account for owner and funds it with balance.
func (e *testEnv) account(t *testing.T, ownerID, balance string) *models.Account {
	t.Helper()
	ctx := context.Background()

	account, err := e.ledger.Open(ctx, ownerID, "acc-"+ownerID[:8], testSecret)
	require.NoError(t, err)

	amount := decimal.RequireFromString(balance)
	if amount.IsPositive() {
		_, err = e.ledger.Deposit(ctx, ownerID, amount)
		require.NoError(t, err)
	}
	return account
}

// approvedCourse stores a published course without going through the fee flow.
func (e *testEnv) approvedCourse(t *testing.T, price string, instructorIDs ...string) *models.Course {
	t.Helper()
	now := time.Now().UTC()
	course := &models.Course{
		ID:            uuid.NewString(),
		Title:         "Concurrency in Practice",
		Description:   "Channels, locks and everything between",
		Price:         decimal.RequireFromString(price),
		InstructorIDs: instructorIDs,
		Status:        models.CourseStatusApproved,
		Materials:     []models.Material{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err := e.store.WithTx(context.Background(), func(tx repository.Tx) error {
		return tx.CreateCourse(context.Background(), course)
	})
	require.NoError(t, err)
	return course
}

func (e *testEnv) video(t *testing.T, instructorID, courseID string) *models.Material {
	t.Helper()
	m, err := e.courses.AddMaterial(context.Background(), instructorID, courseID, NewMaterial{
		Title:    "Lecture",
		Type:     models.MaterialVideo,
		URL:      "https://videos.example.com/lecture.mp4",
		Duration: 600,
	})
	require.NoError(t, err)
	return m
}

func (e *testEnv) quiz(t *testing.T, instructorID, courseID string, correct int) *models.Material {
	t.Helper()
	m, err := e.courses.AddMaterial(context.Background(), instructorID, courseID, NewMaterial{
		Title: "Checkpoint",
		Type:  models.MaterialQuiz,
		Quiz: &models.QuizQuestion{
			Question:      "Which primitive guards shared state?",
			Options:       []string{"goroutine", "mutex", "select", "defer"},
			CorrectAnswer: correct,
		},
	})
	require.NoError(t, err)
	return m
}

// validatedEnrollment enrolls a new student in course and approves the payment.
func (e *testEnv) validatedEnrollment(t *testing.T, course *models.Course) (*models.User, *models.Enrollment) {
	t.Helper()
	ctx := context.Background()

	student := e.user(t, models.RoleStudent)
	e.account(t, student.ID, course.Price.Add(decimal.NewFromInt(10)).String())

	enrollment, err := e.enrollments.RequestEnrollment(ctx, student.ID, course.ID, testSecret)
	require.NoError(t, err)
	if enrollment.PaymentStatus == models.PaymentPending {
		enrollment, err = e.enrollments.DecideEnrollment(ctx, enrollment.ID, course.InstructorIDs[0], DecisionApprove)
		require.NoError(t, err)
	}
	return student, enrollment
}

func (e *testEnv) balance(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	b, err := e.ledger.Balance(context.Background(), accountID)
	require.NoError(t, err)
	return b
}

// requireLedgerConsistent checks that the balance equals the sum of entries.
func (e *testEnv) requireLedgerConsistent(t *testing.T, accountID string) {
	t.Helper()
	history, err := e.ledger.History(context.Background(), accountID)
	require.NoError(t, err)

	sum := decimal.Zero
	for _, entry := range history {
		sum = sum.Add(entry.Amount)
		require.True(t, entry.Balance.Equal(sum), "running balance of entry %d", entry.ID)
	}
	require.True(t, e.balance(t, accountID).Equal(sum), "balance %s != sum of entries %s", e.balance(t, accountID), sum)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
