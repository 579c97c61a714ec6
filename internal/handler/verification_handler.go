package handler

import (
	"net/http"

	"github.com/dlsms/dlsms-backend/internal/model"
	"github.com/dlsms/dlsms-backend/internal/response"
	"github.com/dlsms/dlsms-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// VerificationHandler handles the endpoints shared by both roles.
type VerificationHandler struct {
	authService AuthService
	log         zerolog.Logger
}

// NewVerificationHandler creates a new VerificationHandler.
func NewVerificationHandler(authService AuthService, log zerolog.Logger) *VerificationHandler {
	return &VerificationHandler{
		authService: authService,
		log:         log.With().Str("component", "verification_handler").Logger(),
	}
}

// VerifyEmail godoc
// GET /verify-email/:token
func (h *VerificationHandler) VerifyEmail(c *gin.Context) {
	account, err := h.authService.VerifyEmail(c.Request.Context(), c.Param("token"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "Email verified", gin.H{
		"id":   account.ID,
		"role": account.Role,
	})
}

// ResendVerification godoc
// POST /resend-verification-code
// Emails a fresh verification link. Earlier links remain valid.
func (h *VerificationHandler) ResendVerification(c *gin.Context) {
	var req model.ResendVerificationRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	if _, err := h.authService.ResendVerification(c.Request.Context(), req.Email); err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "Verification email sent successfully", nil)
}

// Logout godoc
// POST /logout
// Sessions are stateless; the client discards its token.
func (h *VerificationHandler) Logout(c *gin.Context) {
	response.Success(c, http.StatusOK, "Logout successful", nil)
}
