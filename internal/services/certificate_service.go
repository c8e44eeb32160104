package services

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"

	"github.com/coursebank/backend/internal/models"
	"github.com/coursebank/backend/internal/repository"
)

const certificateSize = 256

// CertificateService issues QR certificates for completed enrollments. The
// code encodes the public verification URL of the enrollment.
type CertificateService struct {
	store   repository.Queries
	baseURL string
}

type Certificate struct {
	EnrollmentID string    `json:"enrollmentId"`
	CourseID     string    `json:"courseId"`
	CourseTitle  string    `json:"courseTitle"`
	StudentName  string    `json:"studentName"`
	CompletedAt  time.Time `json:"completedAt"`
	VerifyURL    string    `json:"verifyUrl"`
}

func NewCertificateService(store repository.Queries, publicBaseURL string) *CertificateService {
	return &CertificateService{
		store:   store,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (s *CertificateService) VerifyURL(enrollmentID string) string {
	return fmt.Sprintf("%s/api/v1/certificates/%s", s.baseURL, enrollmentID)
}

// Verify returns the certificate of a completed enrollment, NotFound otherwise.
func (s *CertificateService) Verify(ctx context.Context, enrollmentID string) (*Certificate, error) {
	enrollment, err := s.store.Enrollment(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.Status != models.EnrollmentCompleted || enrollment.CompletedAt == nil {
		return nil, fmt.Errorf("no certificate for enrollment %s: %w", enrollmentID, models.ErrNotFound)
	}
	return s.certificate(ctx, enrollment)
}

// QRCode renders the certificate PNG for the enrollment's own student.
func (s *CertificateService) QRCode(ctx context.Context, callerID, enrollmentID string) ([]byte, error) {
	enrollment, err := s.store.Enrollment(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.StudentID != callerID {
		return nil, fmt.Errorf("enrollment %s belongs to another student: %w", enrollmentID, models.ErrUnauthorized)
	}
	if enrollment.Status != models.EnrollmentCompleted {
		return nil, fmt.Errorf("enrollment %s is not completed: %w", enrollmentID, models.ErrInvalidState)
	}

	qr, err := qrcode.New(s.VerifyURL(enrollmentID), qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode certificate: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(certificateSize)); err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *CertificateService) certificate(ctx context.Context, enrollment *models.Enrollment) (*Certificate, error) {
	course, err := s.store.Course(ctx, enrollment.CourseID)
	if err != nil {
		return nil, err
	}

	cert := &Certificate{
		EnrollmentID: enrollment.ID,
		CourseID:     course.ID,
		CourseTitle:  course.Title,
		CompletedAt:  *enrollment.CompletedAt,
		VerifyURL:    s.VerifyURL(enrollment.ID),
	}
	if student, err := s.store.UserByID(ctx, enrollment.StudentID); err == nil {
		cert.StudentName = student.FullName
	}
	return cert, nil
}
