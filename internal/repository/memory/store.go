// Package memory is an in-process repository.Store. A single writer holds the
// store lock for the whole transaction, which serializes every account.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/coursebank/backend/internal/models"
	"github.com/coursebank/backend/internal/repository"
)

type Store struct {
	mu sync.RWMutex

	users       map[string]*models.User
	accounts    map[string]*models.Account
	entries     map[string][]models.LedgerEntry
	transfers   map[string]*models.EscrowTransfer
	courses     map[string]*models.Course
	enrollments map[string]*models.Enrollment
	nextEntryID int64
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:       map[string]*models.User{},
		accounts:    map[string]*models.Account{},
		entries:     map[string][]models.LedgerEntry{},
		transfers:   map[string]*models.EscrowTransfer{},
		courses:     map[string]*models.Course{},
		enrollments: map[string]*models.Enrollment{},
	}
}

func (s *Store) WithTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{s: s}
	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

// memTx applies writes in place and keeps an undo log for rollback.
type memTx struct {
	s    *Store
	undo []func()
}

func (t *memTx) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (t *memTx) onRollback(fn func()) {
	t.undo = append(t.undo, fn)
}

// Reads outside a transaction

func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userByID(id)
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userByUsername(username)
}

func (s *Store) AccountByID(ctx context.Context, id string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accountByID(id)
}

func (s *Store) AccountByOwner(ctx context.Context, ownerID string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accountByOwner(ownerID)
}

func (s *Store) Entries(ctx context.Context, accountID string) ([]models.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entriesOf(accountID), nil
}

func (s *Store) Transfer(ctx context.Context, id string) (*models.EscrowTransfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transfer(id)
}

func (s *Store) Course(ctx context.Context, id string) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.course(id)
}

func (s *Store) CoursesByStatus(ctx context.Context, status models.CourseStatus) ([]models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coursesByStatus(status), nil
}

func (s *Store) Enrollment(ctx context.Context, id string) (*models.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enrollment(id)
}

func (s *Store) ActiveEnrollment(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeEnrollment(studentID, courseID)
}

func (s *Store) EnrollmentsByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enrollmentsWhere(func(e *models.Enrollment) bool { return e.StudentID == studentID }), nil
}

func (s *Store) PendingEnrollmentsForInstructor(ctx context.Context, instructorID string) ([]models.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pendingFor(instructorID), nil
}

// Reads inside a transaction. The store lock is already held.

func (t *memTx) UserByID(ctx context.Context, id string) (*models.User, error) {
	return t.s.userByID(id)
}

func (t *memTx) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	return t.s.userByUsername(username)
}

func (t *memTx) AccountByID(ctx context.Context, id string) (*models.Account, error) {
	return t.s.accountByID(id)
}

func (t *memTx) AccountByOwner(ctx context.Context, ownerID string) (*models.Account, error) {
	return t.s.accountByOwner(ownerID)
}

func (t *memTx) Entries(ctx context.Context, accountID string) ([]models.LedgerEntry, error) {
	return t.s.entriesOf(accountID), nil
}

func (t *memTx) Transfer(ctx context.Context, id string) (*models.EscrowTransfer, error) {
	return t.s.transfer(id)
}

func (t *memTx) Course(ctx context.Context, id string) (*models.Course, error) {
	return t.s.course(id)
}

func (t *memTx) CoursesByStatus(ctx context.Context, status models.CourseStatus) ([]models.Course, error) {
	return t.s.coursesByStatus(status), nil
}

func (t *memTx) Enrollment(ctx context.Context, id string) (*models.Enrollment, error) {
	return t.s.enrollment(id)
}

func (t *memTx) ActiveEnrollment(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
	return t.s.activeEnrollment(studentID, courseID)
}

func (t *memTx) EnrollmentsByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	return t.s.enrollmentsWhere(func(e *models.Enrollment) bool { return e.StudentID == studentID }), nil
}

func (t *memTx) PendingEnrollmentsForInstructor(ctx context.Context, instructorID string) ([]models.Enrollment, error) {
	return t.s.pendingFor(instructorID), nil
}

func (t *memTx) LockAccount(ctx context.Context, id string) (*models.Account, error) {
	return t.s.accountByID(id)
}

func (t *memTx) LockAccountByOwner(ctx context.Context, ownerID string) (*models.Account, error) {
	return t.s.accountByOwner(ownerID)
}

func (t *memTx) LockTransfer(ctx context.Context, id string) (*models.EscrowTransfer, error) {
	return t.s.transfer(id)
}

func (t *memTx) LockEnrollment(ctx context.Context, id string) (*models.Enrollment, error) {
	return t.s.enrollment(id)
}

func (t *memTx) LockCourse(ctx context.Context, id string) (*models.Course, error) {
	return t.s.course(id)
}

// Writes

func (t *memTx) CreateUser(ctx context.Context, user *models.User) error {
	for _, u := range t.s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return fmt.Errorf("user %s: %w", user.Username, models.ErrConflict)
		}
	}
	if _, ok := t.s.users[user.ID]; ok {
		return fmt.Errorf("user %s: %w", user.ID, models.ErrConflict)
	}

	u := *user
	t.s.users[u.ID] = &u
	t.onRollback(func() { delete(t.s.users, u.ID) })
	return nil
}

func (t *memTx) CreateAccount(ctx context.Context, account *models.Account) error {
	for _, a := range t.s.accounts {
		if a.OwnerID == account.OwnerID {
			return fmt.Errorf("owner %s already has an account: %w", account.OwnerID, models.ErrConflict)
		}
		if a.AccountNumber == account.AccountNumber {
			return fmt.Errorf("account number %s is taken: %w", account.AccountNumber, models.ErrConflict)
		}
	}

	a := *account
	t.s.accounts[a.ID] = &a
	t.onRollback(func() { delete(t.s.accounts, a.ID) })
	return nil
}

func (t *memTx) SaveBalance(ctx context.Context, account *models.Account) error {
	stored, ok := t.s.accounts[account.ID]
	if !ok {
		return fmt.Errorf("account %s: %w", account.ID, models.ErrNotFound)
	}
	if stored.Version != account.Version {
		return fmt.Errorf("optimistic lock failed for account %s", account.ID)
	}

	prev := *stored
	stored.Balance = account.Balance
	stored.Version++
	stored.UpdatedAt = account.UpdatedAt
	account.Version = stored.Version
	t.onRollback(func() { *stored = prev })
	return nil
}

func (t *memTx) AppendEntry(ctx context.Context, entry *models.LedgerEntry) error {
	if _, ok := t.s.accounts[entry.AccountID]; !ok {
		return fmt.Errorf("account %s: %w", entry.AccountID, models.ErrNotFound)
	}

	t.s.nextEntryID++
	entry.ID = t.s.nextEntryID
	accountID := entry.AccountID
	t.s.entries[accountID] = append(t.s.entries[accountID], *entry)
	t.onRollback(func() {
		list := t.s.entries[accountID]
		t.s.entries[accountID] = list[:len(list)-1]
		t.s.nextEntryID--
	})
	return nil
}

func (t *memTx) CreateTransfer(ctx context.Context, transfer *models.EscrowTransfer) error {
	if _, ok := t.s.transfers[transfer.ID]; ok {
		return fmt.Errorf("transfer %s: %w", transfer.ID, models.ErrConflict)
	}

	tr := *transfer
	t.s.transfers[tr.ID] = &tr
	t.onRollback(func() { delete(t.s.transfers, tr.ID) })
	return nil
}

func (t *memTx) ResolveTransfer(ctx context.Context, id string, state models.TransferState, at time.Time) error {
	stored, ok := t.s.transfers[id]
	if !ok {
		return fmt.Errorf("transfer %s: %w", id, models.ErrNotFound)
	}
	if stored.State != models.TransferHeld {
		return fmt.Errorf("transfer %s is %s: %w", id, stored.State, models.ErrInvalidState)
	}

	prev := *stored
	resolvedAt := at
	stored.State = state
	stored.ResolvedAt = &resolvedAt
	t.onRollback(func() { *stored = prev })
	return nil
}

func (t *memTx) CreateCourse(ctx context.Context, course *models.Course) error {
	if _, ok := t.s.courses[course.ID]; ok {
		return fmt.Errorf("course %s: %w", course.ID, models.ErrConflict)
	}

	c := cloneCourse(course)
	t.s.courses[c.ID] = c
	t.onRollback(func() { delete(t.s.courses, c.ID) })
	return nil
}

func (t *memTx) UpdateCourseStatus(ctx context.Context, id string, status models.CourseStatus, at time.Time) error {
	stored, ok := t.s.courses[id]
	if !ok {
		return fmt.Errorf("course %s: %w", id, models.ErrNotFound)
	}

	prevStatus, prevUpdated := stored.Status, stored.UpdatedAt
	stored.Status = status
	stored.UpdatedAt = at
	t.onRollback(func() {
		stored.Status = prevStatus
		stored.UpdatedAt = prevUpdated
	})
	return nil
}

func (t *memTx) AddMaterial(ctx context.Context, material *models.Material) error {
	stored, ok := t.s.courses[material.CourseID]
	if !ok {
		return fmt.Errorf("course %s: %w", material.CourseID, models.ErrNotFound)
	}

	m := *material
	m.Position = len(stored.Materials)
	material.Position = m.Position
	if m.Quiz != nil {
		q := cloneQuiz(m.Quiz)
		m.Quiz = q
	}
	stored.Materials = append(stored.Materials, m)
	t.onRollback(func() { stored.Materials = stored.Materials[:len(stored.Materials)-1] })
	return nil
}

func (t *memTx) CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	if _, err := t.s.activeEnrollment(enrollment.StudentID, enrollment.CourseID); err == nil {
		return models.ErrAlreadyEnrolled
	}

	e := cloneEnrollment(enrollment)
	t.s.enrollments[e.ID] = e
	t.onRollback(func() { delete(t.s.enrollments, e.ID) })
	return nil
}

func (t *memTx) UpdateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	stored, ok := t.s.enrollments[enrollment.ID]
	if !ok {
		return fmt.Errorf("enrollment %s: %w", enrollment.ID, models.ErrNotFound)
	}

	prev := stored
	next := cloneEnrollment(enrollment)
	next.QuizScores = cloneScores(prev.QuizScores)
	t.s.enrollments[enrollment.ID] = next
	t.onRollback(func() { t.s.enrollments[enrollment.ID] = prev })
	return nil
}

func (t *memTx) AddQuizScore(ctx context.Context, enrollmentID string, score models.QuizScore) error {
	stored, ok := t.s.enrollments[enrollmentID]
	if !ok {
		return fmt.Errorf("enrollment %s: %w", enrollmentID, models.ErrNotFound)
	}
	if _, answered := stored.QuizScores[score.MaterialID]; answered {
		return models.ErrAlreadyAnswered
	}

	if stored.QuizScores == nil {
		stored.QuizScores = map[string]models.QuizScore{}
	}
	stored.QuizScores[score.MaterialID] = score
	t.onRollback(func() { delete(stored.QuizScores, score.MaterialID) })
	return nil
}

// Unlocked helpers. Callers hold s.mu.

func (s *Store) userByID(id string) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (s *Store) userByUsername(username string) (*models.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", username, models.ErrNotFound)
}

func (s *Store) accountByID(id string) (*models.Account, error) {
	a, ok := s.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", id, models.ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

func (s *Store) accountByOwner(ownerID string) (*models.Account, error) {
	for _, a := range s.accounts {
		if a.OwnerID == ownerID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("account for owner %s: %w", ownerID, models.ErrNotFound)
}

func (s *Store) entriesOf(accountID string) []models.LedgerEntry {
	list := s.entries[accountID]
	out := make([]models.LedgerEntry, len(list))
	copy(out, list)
	return out
}

func (s *Store) transfer(id string) (*models.EscrowTransfer, error) {
	tr, ok := s.transfers[id]
	if !ok {
		return nil, fmt.Errorf("transfer %s: %w", id, models.ErrNotFound)
	}
	cp := *tr
	return &cp, nil
}

func (s *Store) course(id string) (*models.Course, error) {
	c, ok := s.courses[id]
	if !ok {
		return nil, fmt.Errorf("course %s: %w", id, models.ErrNotFound)
	}
	return cloneCourse(c), nil
}

func (s *Store) coursesByStatus(status models.CourseStatus) []models.Course {
	out := []models.Course{}
	for _, c := range s.courses {
		if c.Status == status {
			out = append(out, *cloneCourse(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *Store) enrollment(id string) (*models.Enrollment, error) {
	e, ok := s.enrollments[id]
	if !ok {
		return nil, fmt.Errorf("enrollment %s: %w", id, models.ErrNotFound)
	}
	return cloneEnrollment(e), nil
}

func (s *Store) activeEnrollment(studentID, courseID string) (*models.Enrollment, error) {
	for _, e := range s.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID && e.PaymentStatus != models.PaymentRejected {
			return cloneEnrollment(e), nil
		}
	}
	return nil, fmt.Errorf("enrollment for student %s in course %s: %w", studentID, courseID, models.ErrNotFound)
}

// enrollmentsWhere returns matches newest first.
func (s *Store) enrollmentsWhere(match func(e *models.Enrollment) bool) []models.Enrollment {
	out := []models.Enrollment{}
	for _, e := range s.enrollments {
		if match(e) {
			out = append(out, *cloneEnrollment(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// pendingFor matches the instructors snapshotted on the enrollment.
func (s *Store) pendingFor(instructorID string) []models.Enrollment {
	return s.enrollmentsWhere(func(e *models.Enrollment) bool {
		return e.PaymentStatus == models.PaymentPending && e.HasInstructor(instructorID)
	})
}

func cloneCourse(c *models.Course) *models.Course {
	cp := *c
	cp.InstructorIDs = append([]string(nil), c.InstructorIDs...)
	cp.Materials = make([]models.Material, len(c.Materials))
	for i, m := range c.Materials {
		cp.Materials[i] = m
		if m.Quiz != nil {
			cp.Materials[i].Quiz = cloneQuiz(m.Quiz)
		}
	}
	return &cp
}

func cloneQuiz(q *models.QuizQuestion) *models.QuizQuestion {
	cp := *q
	cp.Options = append([]string(nil), q.Options...)
	return &cp
}

func cloneEnrollment(e *models.Enrollment) *models.Enrollment {
	cp := *e
	cp.InstructorIDs = append([]string(nil), e.InstructorIDs...)
	cp.CompletedMaterials = append([]string{}, e.CompletedMaterials...)
	cp.QuizScores = cloneScores(e.QuizScores)
	if e.ValidatedAt != nil {
		v := *e.ValidatedAt
		cp.ValidatedAt = &v
	}
	if e.CompletedAt != nil {
		c := *e.CompletedAt
		cp.CompletedAt = &c
	}
	return &cp
}

func cloneScores(in map[string]models.QuizScore) map[string]models.QuizScore {
	out := make(map[string]models.QuizScore, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
