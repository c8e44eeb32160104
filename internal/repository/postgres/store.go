// Package postgres implements repository.Store on PostgreSQL via lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/coursebank/backend/internal/models"
	"github.com/coursebank/backend/internal/repository"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	queries
}

var _ repository.Store = (*Store)(nil)

func New(db *sql.DB) *Store {
	return &Store{db: db, queries: queries{q: db}}
}

func (s *Store) WithTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&pgTx{queries: queries{q: sqlTx}}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

const (
	userColumns       = `id, username, email, full_name, password, role, created_at`
	accountColumns    = `id, owner_id, account_number, secret_hash, balance, version, created_at, updated_at`
	entryColumns      = `id, account_id, kind, amount, balance, counterparty_ref, created_at`
	transferColumns   = `id, payer_account_id, payee_account_id, amount, state, reference, created_at, resolved_at`
	courseColumns     = `id, title, description, price, instructor_ids, status, fee_transfer_id, created_at, updated_at`
	materialColumns   = `id, course_id, position, title, type, url, duration, quiz, created_at`
	enrollmentColumns = `id, course_id, instructor_ids, student_id, transaction_amount, transfer_id, payment_status, status,
		completed_materials, validated_by, validated_at, completed_at, created_at, updated_at`
	scoreColumns = `material_id, score, selected_answer, answered_at`
)

type scanner interface {
	Scan(dest ...any) error
}

// queries holds the reads shared by Store and pgTx.
type queries struct {
	q dbtx
}

func (r queries) UserByID(ctx context.Context, id string) (*models.User, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	v, err := scanUser(row)
	return notFound(v, err, "user", id)
}

func (r queries) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	v, err := scanUser(row)
	return notFound(v, err, "user", username)
}

func (r queries) AccountByID(ctx context.Context, id string) (*models.Account, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	v, err := scanAccount(row)
	return notFound(v, err, "account", id)
}

func (r queries) AccountByOwner(ctx context.Context, ownerID string) (*models.Account, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE owner_id = $1`, ownerID)
	v, err := scanAccount(row)
	return notFound(v, err, "account for owner", ownerID)
}

func (r queries) Entries(ctx context.Context, accountID string) ([]models.LedgerEntry, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY id`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.LedgerEntry{}
	for rows.Next() {
		var e models.LedgerEntry
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Kind, &e.Amount, &e.Balance, &e.CounterpartyRef, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r queries) Transfer(ctx context.Context, id string) (*models.EscrowTransfer, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+transferColumns+` FROM escrow_transfers WHERE id = $1`, id)
	v, err := scanTransfer(row)
	return notFound(v, err, "transfer", id)
}

func (r queries) Course(ctx context.Context, id string) (*models.Course, error) {
	return r.course(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id)
}

func (r queries) CoursesByStatus(ctx context.Context, status models.CourseStatus) ([]models.Course, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+courseColumns+`
		FROM courses
		WHERE status = $1
		ORDER BY created_at`, status)
	if err != nil {
		return nil, err
	}

	courses := []models.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		courses = append(courses, *c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range courses {
		if courses[i].Materials, err = r.materials(ctx, courses[i].ID); err != nil {
			return nil, err
		}
	}
	return courses, nil
}

func (r queries) Enrollment(ctx context.Context, id string) (*models.Enrollment, error) {
	return r.enrollment(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE id = $1`, id)
}

func (r queries) ActiveEnrollment(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
	e, err := r.enrollment(ctx, `
		SELECT `+enrollmentColumns+`
		FROM enrollments
		WHERE student_id = $1 AND course_id = $2 AND payment_status <> 'rejected'`, studentID, courseID)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r queries) EnrollmentsByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	return r.enrollments(ctx, `
		SELECT `+enrollmentColumns+`
		FROM enrollments
		WHERE student_id = $1
		ORDER BY created_at DESC`, studentID)
}

// PendingEnrollmentsForInstructor matches the instructor list snapshotted on
// the enrollment, the same list that authorizes the decision.
func (r queries) PendingEnrollmentsForInstructor(ctx context.Context, instructorID string) ([]models.Enrollment, error) {
	return r.enrollments(ctx, `
		SELECT `+enrollmentColumns+`
		FROM enrollments
		WHERE payment_status = 'pending' AND $1 = ANY(instructor_ids)
		ORDER BY created_at DESC`, instructorID)
}

func (r queries) course(ctx context.Context, query string, id string) (*models.Course, error) {
	c, err := scanCourse(r.q.QueryRowContext(ctx, query, id))
	if c, err = notFound(c, err, "course", id); err != nil {
		return nil, err
	}
	if c.Materials, err = r.materials(ctx, c.ID); err != nil {
		return nil, err
	}
	return c, nil
}

func (r queries) materials(ctx context.Context, courseID string) ([]models.Material, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+materialColumns+`
		FROM course_materials
		WHERE course_id = $1
		ORDER BY position`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	materials := []models.Material{}
	for rows.Next() {
		var (
			m    models.Material
			quiz []byte
		)
		if err := rows.Scan(&m.ID, &m.CourseID, &m.Position, &m.Title, &m.Type, &m.URL, &m.Duration, &quiz, &m.CreatedAt); err != nil {
			return nil, err
		}
		if len(quiz) > 0 {
			m.Quiz = &models.QuizQuestion{}
			if err := m.Quiz.Scan(quiz); err != nil {
				return nil, fmt.Errorf("decode quiz for material %s: %w", m.ID, err)
			}
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

func (r queries) enrollment(ctx context.Context, query string, args ...any) (*models.Enrollment, error) {
	e, err := scanEnrollment(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("enrollment: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if e.QuizScores, err = r.scores(ctx, e.ID); err != nil {
		return nil, err
	}
	return e, nil
}

func (r queries) enrollments(ctx context.Context, query string, args ...any) ([]models.Enrollment, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	list := []models.Enrollment{}
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		list = append(list, *e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range list {
		if list[i].QuizScores, err = r.scores(ctx, list[i].ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r queries) scores(ctx context.Context, enrollmentID string) (map[string]models.QuizScore, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+scoreColumns+` FROM quiz_scores WHERE enrollment_id = $1`, enrollmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := map[string]models.QuizScore{}
	for rows.Next() {
		var s models.QuizScore
		if err := rows.Scan(&s.MaterialID, &s.Score, &s.SelectedAnswer, &s.AnsweredAt); err != nil {
			return nil, err
		}
		scores[s.MaterialID] = s
	}
	return scores, rows.Err()
}

// pgTx adds row locks and writes on top of the shared reads.
type pgTx struct {
	queries
}

func (t *pgTx) LockAccount(ctx context.Context, id string) (*models.Account, error) {
	row := t.q.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id)
	v, err := scanAccount(row)
	return notFound(v, err, "account", id)
}

func (t *pgTx) LockAccountByOwner(ctx context.Context, ownerID string) (*models.Account, error) {
	row := t.q.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE owner_id = $1 FOR UPDATE`, ownerID)
	v, err := scanAccount(row)
	return notFound(v, err, "account for owner", ownerID)
}

func (t *pgTx) LockTransfer(ctx context.Context, id string) (*models.EscrowTransfer, error) {
	row := t.q.QueryRowContext(ctx, `SELECT `+transferColumns+` FROM escrow_transfers WHERE id = $1 FOR UPDATE`, id)
	v, err := scanTransfer(row)
	return notFound(v, err, "transfer", id)
}

func (t *pgTx) LockEnrollment(ctx context.Context, id string) (*models.Enrollment, error) {
	return t.enrollment(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE id = $1 FOR UPDATE`, id)
}

func (t *pgTx) LockCourse(ctx context.Context, id string) (*models.Course, error) {
	return t.course(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1 FOR UPDATE`, id)
}

func (t *pgTx) CreateUser(ctx context.Context, u *models.User) error {
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Username, u.Email, u.FullName, u.PasswordHash, u.Role, u.CreatedAt)
	return mapUniqueViolation(err)
}

func (t *pgTx) CreateAccount(ctx context.Context, a *models.Account) error {
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.OwnerID, a.AccountNumber, a.SecretHash, a.Balance, a.Version, a.CreatedAt, a.UpdatedAt)
	return mapUniqueViolation(err)
}

func (t *pgTx) SaveBalance(ctx context.Context, a *models.Account) error {
	result, err := t.q.ExecContext(ctx, `
		UPDATE accounts
		SET balance = $1, version = version + 1, updated_at = $2
		WHERE id = $3 AND version = $4`,
		a.Balance, a.UpdatedAt, a.ID, a.Version)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("optimistic lock failed for account %s", a.ID)
	}

	a.Version++
	return nil
}

func (t *pgTx) AppendEntry(ctx context.Context, e *models.LedgerEntry) error {
	return t.q.QueryRowContext(ctx, `
		INSERT INTO ledger_entries (account_id, kind, amount, balance, counterparty_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		e.AccountID, e.Kind, e.Amount, e.Balance, e.CounterpartyRef, e.CreatedAt).Scan(&e.ID)
}

func (t *pgTx) CreateTransfer(ctx context.Context, tr *models.EscrowTransfer) error {
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO escrow_transfers (id, payer_account_id, payee_account_id, amount, state, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		tr.ID, tr.PayerAccountID, tr.PayeeAccountID, tr.Amount, tr.State, tr.Reference, tr.CreatedAt)
	return mapUniqueViolation(err)
}

func (t *pgTx) ResolveTransfer(ctx context.Context, id string, state models.TransferState, at time.Time) error {
	result, err := t.q.ExecContext(ctx, `
		UPDATE escrow_transfers
		SET state = $1, resolved_at = $2
		WHERE id = $3 AND state = 'HELD'`,
		state, at, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 1 {
		return nil
	}

	var current models.TransferState
	err = t.q.QueryRowContext(ctx, `SELECT state FROM escrow_transfers WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("transfer %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("transfer %s is %s: %w", id, current, models.ErrInvalidState)
}

func (t *pgTx) CreateCourse(ctx context.Context, c *models.Course) error {
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO courses (`+courseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.Title, c.Description, c.Price, pq.Array(c.InstructorIDs), c.Status, c.FeeTransferID, c.CreatedAt, c.UpdatedAt)
	return mapUniqueViolation(err)
}

func (t *pgTx) UpdateCourseStatus(ctx context.Context, id string, status models.CourseStatus, at time.Time) error {
	result, err := t.q.ExecContext(ctx, `UPDATE courses SET status = $1, updated_at = $2 WHERE id = $3`, status, at, id)
	return affectedOne(result, err, "course", id)
}

func (t *pgTx) AddMaterial(ctx context.Context, m *models.Material) error {
	return t.q.QueryRowContext(ctx, `
		INSERT INTO course_materials (id, course_id, position, title, type, url, duration, quiz, created_at)
		SELECT $1, $2, COALESCE(MAX(position) + 1, 0), $3, $4, $5, $6, $7, $8
		FROM course_materials WHERE course_id = $2
		RETURNING position`,
		m.ID, m.CourseID, m.Title, m.Type, m.URL, m.Duration, m.Quiz, m.CreatedAt).Scan(&m.Position)
}

func (t *pgTx) CreateEnrollment(ctx context.Context, e *models.Enrollment) error {
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO enrollments (`+enrollmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		e.ID, e.CourseID, pq.Array(e.InstructorIDs), e.StudentID, e.TransactionAmount, e.TransferID,
		e.PaymentStatus, e.Status, pq.Array(nonNil(e.CompletedMaterials)), e.ValidatedBy, e.ValidatedAt,
		e.CompletedAt, e.CreatedAt, e.UpdatedAt)
	return mapUniqueViolation(err)
}

func (t *pgTx) UpdateEnrollment(ctx context.Context, e *models.Enrollment) error {
	result, err := t.q.ExecContext(ctx, `
		UPDATE enrollments
		SET payment_status = $1, status = $2, completed_materials = $3, validated_by = $4,
			validated_at = $5, completed_at = $6, updated_at = $7
		WHERE id = $8`,
		e.PaymentStatus, e.Status, pq.Array(nonNil(e.CompletedMaterials)), e.ValidatedBy,
		e.ValidatedAt, e.CompletedAt, e.UpdatedAt, e.ID)
	return affectedOne(result, err, "enrollment", e.ID)
}

func (t *pgTx) AddQuizScore(ctx context.Context, enrollmentID string, s models.QuizScore) error {
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO quiz_scores (enrollment_id, material_id, score, selected_answer, answered_at)
		VALUES ($1, $2, $3, $4, $5)`,
		enrollmentID, s.MaterialID, s.Score, s.SelectedAnswer, s.AnsweredAt)
	return mapUniqueViolation(err)
}

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.PasswordHash, &u.Role, &u.CreatedAt)
	return &u, err
}

func scanAccount(row scanner) (*models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.OwnerID, &a.AccountNumber, &a.SecretHash, &a.Balance, &a.Version, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func scanTransfer(row scanner) (*models.EscrowTransfer, error) {
	var (
		tr         models.EscrowTransfer
		resolvedAt sql.NullTime
	)
	err := row.Scan(&tr.ID, &tr.PayerAccountID, &tr.PayeeAccountID, &tr.Amount, &tr.State, &tr.Reference, &tr.CreatedAt, &resolvedAt)
	if resolvedAt.Valid {
		tr.ResolvedAt = &resolvedAt.Time
	}
	return &tr, err
}

func scanCourse(row scanner) (*models.Course, error) {
	var c models.Course
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Price, pq.Array(&c.InstructorIDs), &c.Status,
		&c.FeeTransferID, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func scanEnrollment(row scanner) (*models.Enrollment, error) {
	var (
		e           models.Enrollment
		validatedAt sql.NullTime
		completedAt sql.NullTime
	)
	err := row.Scan(&e.ID, &e.CourseID, pq.Array(&e.InstructorIDs), &e.StudentID, &e.TransactionAmount,
		&e.TransferID, &e.PaymentStatus, &e.Status, pq.Array(&e.CompletedMaterials), &e.ValidatedBy,
		&validatedAt, &completedAt, &e.CreatedAt, &e.UpdatedAt)
	if validatedAt.Valid {
		e.ValidatedAt = &validatedAt.Time
	}
	if completedAt.Valid {
		e.CompletedAt = &completedAt.Time
	}
	if e.CompletedMaterials == nil {
		e.CompletedMaterials = []string{}
	}
	return &e, err
}

func notFound[T any](v *T, err error, what, key string) (*T, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s %s: %w", what, key, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func affectedOne(result sql.Result, err error, what, key string) error {
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, key, models.ErrNotFound)
	}
	return nil
}

// mapUniqueViolation turns 23505 into the domain error for the violated constraint.
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return err
	}

	switch pqErr.Constraint {
	case "enrollments_active_student_course":
		return models.ErrAlreadyEnrolled
	case "quiz_scores_pkey":
		return models.ErrAlreadyAnswered
	default:
		return fmt.Errorf("%s: %w", pqErr.Constraint, models.ErrConflict)
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
