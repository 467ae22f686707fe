package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/course-service/internal/services"
	"github.com/SAP-F-2025/course-service/internal/utils"
)

type EnrollmentHandler struct {
	BaseHandler
	enrollmentService services.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService services.EnrollmentService, logger utils.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		enrollmentService: enrollmentService,
	}
}

// BrowseAvailable lists courses the calling student can still enroll in.
func (h *EnrollmentHandler) BrowseAvailable(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	courses, err := h.enrollmentService.BrowseAvailable(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

// Enroll adds the calling student to a course.
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Enrolling in course", "course_id", id)

	if err := h.enrollmentService.Enroll(c.Request.Context(), id, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Enrolled successfully",
	})
}

// Unenroll removes the calling student from a course.
func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Unenrolling from course", "course_id", id)

	if err := h.enrollmentService.Unenroll(c.Request.Context(), id, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Unenrolled successfully",
	})
}

// MyCourses lists the caller's slice of the catalog: owned courses for
// teachers, enrolled ones for students.
func (h *EnrollmentHandler) MyCourses(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	courses, err := h.enrollmentService.ListCourses(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"courses": courses})
}
