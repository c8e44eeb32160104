package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/coursebank/backend/internal/services"
)

type CertificateHandler struct {
	service *services.CertificateService
}

func NewCertificateHandler(service *services.CertificateService) *CertificateHandler {
	return &CertificateHandler{service: service}
}

// QRCode returns the completion certificate of the caller's enrollment
// @Summary Certificate QR code
// @Description PNG QR code encoding the public verification URL
// @Tags certificates
// @Produce png
// @Security BearerAuth
// @Param enrollmentId path string true "Enrollment ID"
// @Success 200 {file} binary
// @Failure 401 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /enrollments/{enrollmentId}/certificate [get]
func (h *CertificateHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	enrollmentID := chi.URLParam(r, "enrollmentId")
	png, err := h.service.QRCode(r.Context(), userID, enrollmentID)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	log.Printf("[CERT] Certificate issued for enrollment %s", enrollmentID)
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// Verify is the public target of the certificate QR code
// @Summary Verify certificate
// @Description Confirm that an enrollment was completed. No authentication required
// @Tags certificates
// @Produce json
// @Param enrollmentId path string true "Enrollment ID"
// @Success 200 {object} object{valid=bool,certificate=services.Certificate}
// @Failure 404 {object} services.ErrorResponse
// @Router /certificates/{enrollmentId} [get]
func (h *CertificateHandler) Verify(w http.ResponseWriter, r *http.Request) {
	cert, err := h.service.Verify(r.Context(), chi.URLParam(r, "enrollmentId"))
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"valid":       true,
		"certificate": cert,
	})
}
