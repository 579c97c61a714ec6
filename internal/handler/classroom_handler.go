package handler

import (
	"net/http"

	"github.com/dlsms/dlsms-backend/internal/middleware"
	"github.com/dlsms/dlsms-backend/internal/model"
	"github.com/dlsms/dlsms-backend/internal/response"
	"github.com/dlsms/dlsms-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ClassroomHandler handles classroom endpoints for tutors and students.
type ClassroomHandler struct {
	classroomService ClassroomService
	log              zerolog.Logger
}

// NewClassroomHandler creates a new ClassroomHandler.
func NewClassroomHandler(classroomService ClassroomService, log zerolog.Logger) *ClassroomHandler {
	return &ClassroomHandler{
		classroomService: classroomService,
		log:              log.With().Str("component", "classroom_handler").Logger(),
	}
}

// CreateClassroom godoc
// POST /tutor/create-classroom
// Creates a classroom owned by the authenticated tutor.
func (h *ClassroomHandler) CreateClassroom(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateClassroomRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	classroom, err := h.classroomService.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, "Classroom created successfully", classroom)
}

// ListTutorClassrooms godoc
// GET /tutor/classrooms
func (h *ClassroomHandler) ListTutorClassrooms(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	classrooms, err := h.classroomService.ListForTutor(c.Request.Context(), claims.UserID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "Classrooms fetched successfully", classrooms)
}

// ListStudentClassrooms godoc
// GET /student/classrooms
func (h *ClassroomHandler) ListStudentClassrooms(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	classrooms, err := h.classroomService.ListForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "Joined classrooms fetched successfully", classrooms)
}

// GetClassroomByCode godoc
// GET /student/classroom/:code
// Lets a student look a classroom up before joining it.
func (h *ClassroomHandler) GetClassroomByCode(c *gin.Context) {
	classroom, err := h.classroomService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "Classroom fetched successfully", classroom)
}

// JoinClassroom godoc
// POST /student/classroom/:code/join
func (h *ClassroomHandler) JoinClassroom(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	classroom, err := h.classroomService.Join(c.Request.Context(), claims.UserID, c.Param("code"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "Joined classroom successfully", classroom)
}
