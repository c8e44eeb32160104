package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursebank/backend/internal/models"
)

func TestProgress_CompletesExactlyOnce(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	instructor := env.user(t, models.RoleInstructor)
	env.account(t, instructor.ID, "0")
	course := env.approvedCourse(t, "40", instructor.ID)
	first := env.video(t, instructor.ID, course.ID)
	second := env.video(t, instructor.ID, course.ID)
	student, enrollment := env.validatedEnrollment(t, course)

	res, err := env.progress.MarkMaterialComplete(ctx, student.ID, enrollment.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, res.Progress)
	assert.Equal(t, 2, res.TotalMaterials)
	assert.False(t, res.JustCompleted)

	// idempotent
	res, err = env.progress.MarkMaterialComplete(ctx, student.ID, enrollment.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, res.Progress)
	assert.Len(t, res.Enrollment.CompletedMaterials, 1)

	res, err = env.progress.MarkMaterialComplete(ctx, student.ID, enrollment.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, res.Progress)
	assert.True(t, res.JustCompleted)
	assert.Equal(t, models.EnrollmentCompleted, res.Enrollment.Status)
	require.NotNil(t, res.Enrollment.CompletedAt)
	completedAt := *res.Enrollment.CompletedAt

	res, err = env.progress.MarkMaterialComplete(ctx, student.ID, enrollment.ID, second.ID)
	require.NoError(t, err)
	assert.False(t, res.JustCompleted)
	assert.Equal(t, completedAt, *res.Enrollment.CompletedAt)

	mine, err := env.enrollments.ListMine(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 100, mine[0].Progress)
	assert.True(t, mine[0].CertificateIssued)
}

func TestProgress_MarkRejected(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	instructor := env.user(t, models.RoleInstructor)
	env.account(t, instructor.ID, "0")
	course := env.approvedCourse(t, "40", instructor.ID)
	material := env.video(t, instructor.ID, course.ID)
	student, enrollment := env.validatedEnrollment(t, course)

	waiting := env.user(t, models.RoleStudent)
	env.account(t, waiting.ID, "100")
	pending, err := env.enrollments.RequestEnrollment(ctx, waiting.ID, course.ID, testSecret)
	require.NoError(t, err)

	tests := []struct {
		name         string
		caller       string
		enrollmentID string
		materialID   string
		wantErr      error
	}{
		{"someone else's enrollment", waiting.ID, enrollment.ID, material.ID, models.ErrUnauthorized},
		{"payment still pending", waiting.ID, pending.ID, material.ID, models.ErrForbidden},
		{"material of another course", student.ID, enrollment.ID, "missing", models.ErrNotFound},
		{"unknown enrollment", student.ID, "missing", material.ID, models.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.progress.MarkMaterialComplete(ctx, tt.caller, tt.enrollmentID, tt.materialID)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestProgress_CourseWithoutMaterialsNeverCompletes(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	instructor := env.user(t, models.RoleInstructor)
	env.account(t, instructor.ID, "0")
	course := env.approvedCourse(t, "0", instructor.ID)
	_, enrollment := env.validatedEnrollment(t, course)

	mine, err := env.enrollments.ListMine(ctx, enrollment.StudentID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 0, mine[0].Progress)
	assert.Equal(t, models.EnrollmentInProgress, mine[0].Status)
}

func TestProgress_SubmitQuizAnswer(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	instructor := env.user(t, models.RoleInstructor)
	env.account(t, instructor.ID, "0")
	course := env.approvedCourse(t, "40", instructor.ID)
	video := env.video(t, instructor.ID, course.ID)
	quiz := env.quiz(t, instructor.ID, course.ID, 1)
	student, enrollment := env.validatedEnrollment(t, course)

	res, err := env.progress.SubmitQuizAnswer(ctx, student.ID, enrollment.ID, quiz.ID, 1)
	require.NoError(t, err)
	assert.True(t, res.IsCorrect)
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, 1, res.CorrectAnswer)

	_, err = env.progress.SubmitQuizAnswer(ctx, student.ID, enrollment.ID, quiz.ID, 2)
	assert.ErrorIs(t, err, models.ErrAlreadyAnswered)

	stored, err := env.store.Enrollment(ctx, enrollment.ID)
	require.NoError(t, err)
	require.Contains(t, stored.QuizScores, quiz.ID)
	assert.Equal(t, 1, stored.QuizScores[quiz.ID].Score)
	assert.Equal(t, 1, stored.QuizScores[quiz.ID].SelectedAnswer)
	// answering does not complete the material
	assert.Empty(t, stored.CompletedMaterials)

	t.Run("wrong answer scores zero", func(t *testing.T) {
		other, otherEnrollment := env.validatedEnrollment(t, course)
		res, err := env.progress.SubmitQuizAnswer(ctx, other.ID, otherEnrollment.ID, quiz.ID, 3)
		require.NoError(t, err)
		assert.False(t, res.IsCorrect)
		assert.Equal(t, 0, res.Score)
		assert.Equal(t, 3, res.SelectedAnswer)
	})

	t.Run("not a quiz", func(t *testing.T) {
		_, err := env.progress.SubmitQuizAnswer(ctx, student.ID, enrollment.ID, video.ID, 0)
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("answer out of range", func(t *testing.T) {
		other, otherEnrollment := env.validatedEnrollment(t, course)
		_, err := env.progress.SubmitQuizAnswer(ctx, other.ID, otherEnrollment.ID, quiz.ID, 4)
		assert.ErrorIs(t, err, models.ErrValidation)
	})
}
