package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/edugen-backend/internal/http/response"
	"github.com/yungbote/edugen-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// POST /api/register
func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username        string `json:"username"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.ConfirmPassword != "" && req.ConfirmPassword != req.Password {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", errors.New("passwords do not match"))
		return
	}
	user, err := ah.authService.RegisterUser(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"user": user})
}

// POST /api/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	accessToken, err := ah.authService.LoginUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"access_token": accessToken,
		"token_type":   "bearer",
		"expires_in":   int(ah.authService.GetAccessTTL().Seconds()),
	})
}
