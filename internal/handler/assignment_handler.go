package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/dlsms/dlsms-backend/internal/middleware"
	"github.com/dlsms/dlsms-backend/internal/model"
	"github.com/dlsms/dlsms-backend/internal/response"
	"github.com/dlsms/dlsms-backend/internal/service"
	"github.com/dlsms/dlsms-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AssignmentHandler handles assignment endpoints.
type AssignmentHandler struct {
	assignmentService AssignmentService
	classroomService  ClassroomService
	mediaService      MediaService
	log               zerolog.Logger
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(
	assignmentService AssignmentService,
	classroomService ClassroomService,
	mediaService MediaService,
	log zerolog.Logger,
) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
		classroomService:  classroomService,
		mediaService:      mediaService,
		log:               log.With().Str("component", "assignment_handler").Logger(),
	}
}

// CreateAssignment godoc
// POST /tutor/create-assignment
// Accepts multipart/form-data with the assignment fields and any number of
// files under "files" (or "files[]").
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var form model.CreateAssignmentForm
	if fields := validator.BindForm(c, &form); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	classroomID, err := uuid.Parse(form.ClassroomID)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	dueAt, err := service.ParseDueAt(form.DueDate, form.DueTime)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	ctx := c.Request.Context()

	// Ownership is checked before anything is written to storage.
	if _, err := h.classroomService.Authorize(ctx, principal, classroomID); err != nil {
		writeError(c, h.log, err)
		return
	}

	files, err := h.mediaService.SaveUploads(ctx, uploadedFiles(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	assignment, err := h.assignmentService.Create(ctx, principal.ID, service.CreateAssignmentInput{
		ClassroomID:  classroomID,
		Title:        form.Title,
		Instructions: form.Instructions,
		DueAt:        dueAt,
		Points:       form.Points,
		Files:        files,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, "Assignment created successfully", assignment)
}

// ListAssignments godoc
// GET /tutor/classrooms/:id/assignments, GET /student/classrooms/:id/assignments
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	classroomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	assignments, err := h.assignmentService.List(c.Request.Context(), principal, classroomID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, "Assignments fetched successfully", assignments)
}

func uploadedFiles(c *gin.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return append(form.File["files"], form.File["files[]"]...)
}
