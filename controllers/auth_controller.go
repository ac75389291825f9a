package controllers

import (
	"net/http"

	"github.com/Mapachitomamalon/CosmoFood/middleware"
	"github.com/Mapachitomamalon/CosmoFood/services"
	"github.com/gin-gonic/gin"
)

// AuthController handles HTTP requests for accounts and sessions.
type AuthController struct {
	authService services.AuthService
}

// NewAuthController creates a new AuthController.
func NewAuthController(authService services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register handles POST /auth/register.
func (ac *AuthController) Register(ctx *gin.Context) {
	var req services.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	user, svcErr := ac.authService.Register(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"user": user})
}

// CreateStaff handles POST /auth/staff (admin only).
func (ac *AuthController) CreateStaff(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req services.StaffRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	user, svcErr := ac.authService.CreateStaff(ctx.Request.Context(), actor, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login handles POST /auth/login.
func (ac *AuthController) Login(ctx *gin.Context) {
	var req services.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	pair, user, svcErr := ac.authService.Login(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"tokens": pair, "user": user})
}

// Refresh handles POST /auth/refresh.
func (ac *AuthController) Refresh(ctx *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	pair, svcErr := ac.authService.Refresh(ctx.Request.Context(), req.RefreshToken)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"tokens": pair})
}

// Me handles GET /auth/me.
func (ac *AuthController) Me(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, svcErr := ac.authService.Me(ctx.Request.Context(), actor)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": user})
}
