package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-vault-api/internal/models"
	"github.com/noah-isme/school-vault-api/internal/service"
	appErrors "github.com/noah-isme/school-vault-api/pkg/errors"
	"github.com/noah-isme/school-vault-api/pkg/response"
)

// ReportHandler wires HTTP endpoints to the result-sheet service.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler creates a new handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// createSheetRequest asks for one student's result sheet.
type createSheetRequest struct {
	StudentID string             `json:"studentId"`
	Format    models.SheetFormat `json:"format"`
}

// Create godoc
// @Summary Queue a result sheet
// @Description Render one student's annual result sheet in the background
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body handler.createSheetRequest true "Sheet request"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports [post]
func (h *ReportHandler) Create(c *gin.Context) {
	var req createSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid sheet request"))
		return
	}
	if req.Format == "" {
		req.Format = models.SheetFormatPDF
	}

	job, err := h.service.Create(req.StudentID, req.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, "sheet queued")
}

// Status godoc
// @Summary Check a sheet job
// @Tags Reports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/jobs/{id} [get]
func (h *ReportHandler) Status(c *gin.Context) {
	job, err := h.service.Status(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, "")
}

// Download godoc
// @Summary Download a rendered sheet
// @Description The signed token in the path is the only credential needed
// @Tags Reports
// @Produce application/octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/download/{token} [get]
func (h *ReportHandler) Download(c *gin.Context) {
	download, err := h.service.ResolveDownload(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close()

	info, err := download.File.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat sheet file"))
		return
	}

	contentType := "application/pdf"
	if download.Format == models.SheetFormatCSV {
		contentType = "text/csv"
	}
	headers := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", download.Filename),
	}
	c.DataFromReader(http.StatusOK, info.Size(), contentType, download.File, headers)
}
