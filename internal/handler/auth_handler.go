package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-vault-api/internal/models"
	"github.com/noah-isme/school-vault-api/internal/service"
	appErrors "github.com/noah-isme/school-vault-api/pkg/errors"
	"github.com/noah-isme/school-vault-api/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth and session services.
type AuthHandler struct {
	auth     *service.AuthService
	sessions *service.SessionService
	metrics  *service.MetricsService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(auth *service.AuthService, sessions *service.SessionService, metrics *service.MetricsService) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, metrics: metrics}
}

// Register godoc
// @Summary Register a new account
// @Description Create an account and log it in immediately
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.RegisterRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}

	session, err := h.auth.Register(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sessionView(session), "account created")
}

// Login godoc
// @Summary Authenticate user
// @Description Verify credentials and open the session
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	session, err := h.auth.Login(req)
	if err != nil {
		switch {
		case appErrors.Is(err, appErrors.ErrRateLimited):
			h.metrics.RecordLogin("blocked")
		default:
			h.metrics.RecordLogin("failure")
		}
		response.Error(c, err)
		return
	}

	h.metrics.RecordLogin("success")
	response.JSON(c, http.StatusOK, sessionView(session), "")
}

// Logout godoc
// @Summary End the current session
// @Tags Authentication
// @Produce json
// @Success 204 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Session godoc
// @Summary Inspect the current session
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	session, err := h.sessions.Current()
	if err != nil {
		response.Error(c, err)
		return
	}
	if session == nil {
		response.JSON(c, http.StatusOK, nil, "no active session")
		return
	}
	response.JSON(c, http.StatusOK, sessionView(session), "")
}

func sessionView(session *models.Session) *models.SessionInfo {
	if session == nil {
		return nil
	}
	return &models.SessionInfo{Username: session.Username, LoginTime: session.LoginTime}
}
