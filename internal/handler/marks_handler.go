package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-vault-api/internal/models"
	"github.com/noah-isme/school-vault-api/internal/service"
	appErrors "github.com/noah-isme/school-vault-api/pkg/errors"
	"github.com/noah-isme/school-vault-api/pkg/response"
)

// MarksHandler wires HTTP endpoints to the marks service.
type MarksHandler struct {
	service *service.MarksService
}

// NewMarksHandler creates a new handler.
func NewMarksHandler(svc *service.MarksService) *MarksHandler {
	return &MarksHandler{service: svc}
}

// saveTermRequest carries one term's subject marks for one student.
type saveTermRequest struct {
	Term     string           `json:"term"`
	Subjects models.TermMarks `json:"subjects"`
}

// Get godoc
// @Summary Fetch the full marks book
// @Tags Marks
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /marks [get]
func (h *MarksHandler) Get(c *gin.Context) {
	book, err := h.service.All()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, book, "")
}

// ForStudent godoc
// @Summary Fetch one student's marks
// @Tags Marks
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /marks/{id} [get]
func (h *MarksHandler) ForStudent(c *gin.Context) {
	marks, err := h.service.ForStudent(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, marks, "")
}

// SaveTerm godoc
// @Summary Save one term's marks for a student
// @Description The student's other terms are preserved; out-of-range marks are blanked and reported as warnings
// @Tags Marks
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body handler.saveTermRequest true "Term marks payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /marks/{id} [put]
func (h *MarksHandler) SaveTerm(c *gin.Context) {
	var req saveTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid marks payload"))
		return
	}
	if req.Term == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "term is required"))
		return
	}

	warnings, err := h.service.SaveTerm(c.Param("id"), req.Term, req.Subjects)
	if err != nil {
		response.Error(c, err)
		return
	}

	var meta map[string]interface{}
	message := "marks saved"
	if len(warnings) > 0 {
		meta = map[string]interface{}{"warnings": warnings}
		message = "marks saved with corrections"
	}
	response.JSON(c, http.StatusOK, nil, message, meta)
}

// Clear godoc
// @Summary Delete the whole marks book
// @Tags Marks
// @Produce json
// @Success 204 {object} response.Envelope
// @Router /marks [delete]
func (h *MarksHandler) Clear(c *gin.Context) {
	if err := h.service.Clear(); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
