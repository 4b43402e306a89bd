package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sistema-escolar/internal/models"
	"github.com/noah-isme/sistema-escolar/internal/service"
	"github.com/noah-isme/sistema-escolar/pkg/response"
)

type authService interface {
	Login(ctx context.Context, req service.LoginRequest) (*models.User, error)
}

// LoginResponse is the body returned on a successful login. The frontend reads the
// user from the top-level `usuario` key rather than `data`.
type LoginResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *models.User `json:"usuario"`
}

// AuthHandler exposes the login endpoint.
type AuthHandler struct {
	auth authService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth authService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login godoc
// @Summary Check credentials
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body service.LoginRequest true "Credentials"
// @Success 200 {object} handler.LoginResponse
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, LoginResponse{Success: true, Message: "Login realizado com sucesso", User: user})
}
