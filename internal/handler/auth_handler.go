package handler

import (
	"net/http"

	"github.com/dlsms/dlsms-backend/internal/middleware"
	"github.com/dlsms/dlsms-backend/internal/model"
	"github.com/dlsms/dlsms-backend/internal/response"
	"github.com/dlsms/dlsms-backend/internal/service"
	"github.com/dlsms/dlsms-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthHandler handles signup, login and profile endpoints for both roles.
type AuthHandler struct {
	authService AuthService
	log         zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log.With().Str("component", "auth_handler").Logger(),
	}
}

// TutorSignup godoc
// POST /tutor/signup
// Registers an unverified tutor and emails a verification link.
func (h *AuthHandler) TutorSignup(c *gin.Context) {
	var req model.TutorSignupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	h.register(c, service.RegisterInput{
		Role:        model.RoleTutor,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Institution: req.Institution,
		Email:       req.Email,
		Password:    req.Password,
	})
}

// StudentSignup godoc
// POST /student/signup
// Registers an unverified student and emails a verification link.
func (h *AuthHandler) StudentSignup(c *gin.Context) {
	var req model.StudentSignupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	h.register(c, service.RegisterInput{
		Role:        model.RoleStudent,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Institution: req.Institution,
		StudentID:   req.StudentID,
		Email:       req.Email,
		Password:    req.Password,
	})
}

func (h *AuthHandler) register(c *gin.Context, in service.RegisterInput) {
	account, err := h.authService.Register(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, in.Role.Title()+" created", gin.H{
		"id":   account.ID,
		"role": account.Role,
	})
}

// TutorLogin godoc
// POST /tutor/login
func (h *AuthHandler) TutorLogin(c *gin.Context) {
	h.login(c, model.RoleTutor)
}

// StudentLogin godoc
// POST /student/login
func (h *AuthHandler) StudentLogin(c *gin.Context) {
	h.login(c, model.RoleStudent)
}

func (h *AuthHandler) login(c *gin.Context, role model.Role) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), role, req.Email, req.Password)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "Login successful", result)
}

// Me godoc
// GET /tutor/me, GET /student/me
// Returns the profile of the authenticated account.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	account, err := h.authService.Profile(c.Request.Context(), claims.Role, claims.UserID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "Profile fetched successfully", account.Profile())
}
