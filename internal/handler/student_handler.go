package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-vault-api/internal/models"
	"github.com/noah-isme/school-vault-api/internal/service"
	appErrors "github.com/noah-isme/school-vault-api/pkg/errors"
	"github.com/noah-isme/school-vault-api/pkg/response"
)

// StudentHandler wires HTTP endpoints to the student service.
type StudentHandler struct {
	service *service.StudentService
}

// NewStudentHandler creates a new handler.
func NewStudentHandler(svc *service.StudentService) *StudentHandler {
	return &StudentHandler{service: svc}
}

// healthUpdateRequest carries a targeted edit of the physical fields. An
// omitted subjects array keeps the current list; a present one replaces it.
type healthUpdateRequest struct {
	Height      string           `json:"height"`
	Weight      string           `json:"weight"`
	HealthNotes string           `json:"healthNotes"`
	Subjects    []models.Subject `json:"subjects"`
}

// List godoc
// @Summary List students
// @Description List the roster of the logged-in user
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.service.All()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, "")
}

// Get godoc
// @Summary Fetch one student
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.service.ByID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, "")
}

// Save godoc
// @Summary Create or update a student
// @Description Upsert by registration number; an existing record keeps its id and creation time
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body models.Student true "Student payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Save(c *gin.Context) {
	var req models.Student
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student payload"))
		return
	}

	student, err := h.service.Save(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, "student saved")
}

// UpdateHealth godoc
// @Summary Update health fields
// @Description Edit only height, weight, health notes and optionally the subject list of one student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body handler.healthUpdateRequest true "Health payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/health [patch]
func (h *StudentHandler) UpdateHealth(c *gin.Context) {
	var req healthUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid health payload"))
		return
	}

	student, err := h.service.UpdateHealth(c.Param("id"), service.HealthUpdate{
		Height:      req.Height,
		Weight:      req.Weight,
		HealthNotes: req.HealthNotes,
		Subjects:    req.Subjects,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, "health details updated")
}

// Delete godoc
// @Summary Delete one student
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Clear godoc
// @Summary Delete the whole roster
// @Tags Students
// @Produce json
// @Success 204 {object} response.Envelope
// @Router /students [delete]
func (h *StudentHandler) Clear(c *gin.Context) {
	if err := h.service.Clear(); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
