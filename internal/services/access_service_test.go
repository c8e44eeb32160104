package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursebank/backend/internal/models"
)

func TestAccessService_CanAccessMaterials(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	instructor := env.user(t, models.RoleInstructor)
	env.account(t, instructor.ID, "0")
	course := env.approvedCourse(t, "40", instructor.ID)

	admin := env.user(t, models.RoleAdmin)
	enrolled, validated := env.validatedEnrollment(t, course)

	waiting := env.user(t, models.RoleStudent)
	env.account(t, waiting.ID, "100")
	pending, err := env.enrollments.RequestEnrollment(ctx, waiting.ID, course.ID, testSecret)
	require.NoError(t, err)

	rejected := env.user(t, models.RoleStudent)
	env.account(t, rejected.ID, "100")
	r, err := env.enrollments.RequestEnrollment(ctx, rejected.ID, course.ID, testSecret)
	require.NoError(t, err)
	_, err = env.enrollments.DecideEnrollment(ctx, r.ID, instructor.ID, DecisionReject)
	require.NoError(t, err)

	stranger := env.user(t, models.RoleStudent)

	tests := []struct {
		name       string
		userID     string
		wantAccess bool
		wantReason string
		wantEnroll string
	}{
		{"instructor", instructor.ID, true, AccessInstructor, ""},
		{"admin", admin.ID, true, AccessAdmin, ""},
		{"validated student", enrolled.ID, true, AccessEnrolled, validated.ID},
		{"pending student", waiting.ID, false, AccessPaymentPending, pending.ID},
		{"rejected student", rejected.ID, false, AccessEnrollmentRequired, ""},
		{"not enrolled", stranger.ID, false, AccessEnrollmentRequired, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := env.access.CanAccessMaterials(ctx, tt.userID, course.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAccess, decision.CanAccess)
			assert.Equal(t, tt.wantReason, decision.Reason)
			assert.Equal(t, tt.wantEnroll, decision.EnrollmentID)
		})
	}

	t.Run("unknown user", func(t *testing.T) {
		_, err := env.access.CanAccessMaterials(ctx, "ghost", course.ID)
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	})

	t.Run("unknown course", func(t *testing.T) {
		_, err := env.access.CanAccessMaterials(ctx, stranger.ID, "missing")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestAccessService_CourseView(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	instructor := env.user(t, models.RoleInstructor)
	env.account(t, instructor.ID, "0")
	course := env.approvedCourse(t, "40", instructor.ID)
	env.video(t, instructor.ID, course.ID)
	env.quiz(t, instructor.ID, course.ID, 1)

	t.Run("outsider sees metadata only", func(t *testing.T) {
		stranger := env.user(t, models.RoleStudent)
		view, err := env.access.CourseView(ctx, stranger.ID, course.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, view.MaterialsCount)
		assert.True(t, view.EnrollmentRequired)
		assert.Nil(t, view.Materials)
	})

	t.Run("enrolled student sees every material without answers", func(t *testing.T) {
		student, _ := env.validatedEnrollment(t, course)
		view, err := env.access.CourseView(ctx, student.ID, course.ID)
		require.NoError(t, err)
		assert.False(t, view.EnrollmentRequired)
		require.Len(t, view.Materials, 2)
		assert.Equal(t, 0, view.Materials[0].Position)
		require.NotNil(t, view.Materials[1].Quiz)
		assert.Len(t, view.Materials[1].Quiz.Options, 4)
		assert.Nil(t, view.Materials[1].Quiz.CorrectAnswer)
	})

	t.Run("instructor sees answers", func(t *testing.T) {
		view, err := env.access.CourseView(ctx, instructor.ID, course.ID)
		require.NoError(t, err)
		require.Len(t, view.Materials, 2)
		require.NotNil(t, view.Materials[1].Quiz.CorrectAnswer)
		assert.Equal(t, 1, *view.Materials[1].Quiz.CorrectAnswer)
	})
}

func TestAccessService_UnpublishedCourse(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	instructor := env.user(t, models.RoleInstructor)
	env.account(t, instructor.ID, "50")
	admin := env.user(t, models.RoleAdmin)

	course, err := env.courses.CreateCourse(ctx, instructor.ID, NewCourse{Title: "Draft", Price: dec("10"), Secret: testSecret})
	require.NoError(t, err)

	_, err = env.access.CourseView(ctx, env.user(t, models.RoleStudent).ID, course.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	view, err := env.access.CourseView(ctx, instructor.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CourseStatusPending, view.Status)

	view, err = env.access.CourseView(ctx, admin.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, AccessAdmin, view.Access.Reason)
}
