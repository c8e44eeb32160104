package services

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursebank/backend/internal/models"
)

func TestCertificateService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	instructor := env.user(t, models.RoleInstructor)
	env.account(t, instructor.ID, "0")
	course := env.approvedCourse(t, "40", instructor.ID)
	material := env.video(t, instructor.ID, course.ID)
	student, enrollment := env.validatedEnrollment(t, course)

	assert.Equal(t, "https://learn.example.com/api/v1/certificates/"+enrollment.ID, env.certs.VerifyURL(enrollment.ID))

	t.Run("not completed yet", func(t *testing.T) {
		_, err := env.certs.Verify(ctx, enrollment.ID)
		assert.ErrorIs(t, err, models.ErrNotFound)

		_, err = env.certs.QRCode(ctx, student.ID, enrollment.ID)
		assert.ErrorIs(t, err, models.ErrInvalidState)
	})

	_, err := env.progress.MarkMaterialComplete(ctx, student.ID, enrollment.ID, material.ID)
	require.NoError(t, err)

	t.Run("verify completed enrollment", func(t *testing.T) {
		cert, err := env.certs.Verify(ctx, enrollment.ID)
		require.NoError(t, err)
		assert.Equal(t, course.Title, cert.CourseTitle)
		assert.Equal(t, student.FullName, cert.StudentName)
		assert.False(t, cert.CompletedAt.IsZero())
		assert.Equal(t, env.certs.VerifyURL(enrollment.ID), cert.VerifyURL)
	})

	t.Run("owner gets a png", func(t *testing.T) {
		data, err := env.certs.QRCode(ctx, student.ID, enrollment.ID)
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 256, img.Bounds().Dx())
	})

	t.Run("someone else", func(t *testing.T) {
		_, err := env.certs.QRCode(ctx, instructor.ID, enrollment.ID)
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	})

	t.Run("unknown enrollment", func(t *testing.T) {
		_, err := env.certs.Verify(ctx, "missing")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}
