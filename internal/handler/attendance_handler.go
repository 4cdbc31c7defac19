package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-vault-api/internal/models"
	"github.com/noah-isme/school-vault-api/internal/service"
	appErrors "github.com/noah-isme/school-vault-api/pkg/errors"
	"github.com/noah-isme/school-vault-api/pkg/response"
)

// AttendanceHandler wires HTTP endpoints to the attendance service.
type AttendanceHandler struct {
	service *service.AttendanceService
}

// NewAttendanceHandler creates a new handler.
func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// Get godoc
// @Summary Fetch the attendance sheet
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) Get(c *gin.Context) {
	sheet, err := h.service.All()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheet, "")
}

// Save godoc
// @Summary Save attendance cells
// @Description Merge cells into the sheet; out-of-range values are clamped and reported as warnings
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body models.AttendanceSheet true "Attendance cells"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /attendance [put]
func (h *AttendanceHandler) Save(c *gin.Context) {
	var req models.AttendanceSheet
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid attendance payload"))
		return
	}

	warnings, err := h.service.Save(req)
	if err != nil {
		response.Error(c, err)
		return
	}

	var meta map[string]interface{}
	message := "attendance saved"
	if len(warnings) > 0 {
		meta = map[string]interface{}{"warnings": warnings}
		message = "attendance saved with corrections"
	}
	response.JSON(c, http.StatusOK, nil, message, meta)
}

// Summary godoc
// @Summary Attendance totals per student
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance/summary [get]
func (h *AttendanceHandler) Summary(c *gin.Context) {
	summaries, err := h.service.Summary()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summaries, "")
}

// Clear godoc
// @Summary Delete the whole attendance sheet
// @Tags Attendance
// @Produce json
// @Success 204 {object} response.Envelope
// @Router /attendance [delete]
func (h *AttendanceHandler) Clear(c *gin.Context) {
	if err := h.service.Clear(); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
