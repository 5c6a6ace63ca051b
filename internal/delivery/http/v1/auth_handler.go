package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"go-workspace-portal/config"
	"go-workspace-portal/internal/delivery/http/response"
	"go-workspace-portal/internal/domain"
	"go-workspace-portal/pkg/apperror"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC      domain.AuthUsecase
	workspaceUC domain.WorkspaceUsecase
	config      *config.Config
	client      *http.Client
}

func NewAuthHandler(public *gin.RouterGroup, protected *gin.RouterGroup, authUC domain.AuthUsecase, workspaceUC domain.WorkspaceUsecase, cfg *config.Config) {
	handler := &AuthHandler{
		authUC:      authUC,
		workspaceUC: workspaceUC,
		config:      cfg,
		client:      &http.Client{Timeout: 10 * time.Second},
	}

	// Public Routes
	publicAuth := public.Group("/auth")
	{
		publicAuth.POST("/login", handler.Login)
		publicAuth.POST("/register", handler.Register)
		publicAuth.POST("/forgot-password", handler.ForgotPassword)
		publicAuth.POST("/reset-password", handler.ResetPassword)
		// Email verification is handled directly by Supabase via email link
	}

	// Protected Routes
	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.POST("/sync", handler.SyncProfile)
		protectedAuth.GET("/me", handler.Me)
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
	CaptchaToken string `json:"captchaToken"` // Cloudflare Turnstile Token
}

// supabaseAuthURL builds a GoTrue endpoint path.
func (h *AuthHandler) supabaseAuthURL(path string) string {
	return fmt.Sprintf("%s/auth/v1/%s", h.config.SupabaseUrl, path)
}

// forwardToSupabase performs a GoTrue call on behalf of the client,
// carrying the client IP and user agent (required for captcha checks).
func (h *AuthHandler) forwardToSupabase(c *gin.Context, url string, body map[string]interface{}) (*http.Response, error) {
	jsonBody, _ := json.Marshal(body)
	httpReq, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("apikey", h.config.SupabaseAnonKey)
	httpReq.Header.Set("X-Forwarded-For", c.ClientIP())
	httpReq.Header.Set("User-Agent", c.Request.UserAgent())
	return h.client.Do(httpReq)
}

// supabaseErrorMessage extracts a human message from a GoTrue error body.
func supabaseErrorMessage(resp *http.Response, fallback string) string {
	var errResp map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&errResp)
	if m, ok := errResp["msg"].(string); ok {
		return m
	}
	if m, ok := errResp["error_description"].(string); ok {
		return m
	}
	return fallback
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	// Cheap local pre-check before hitting the identity provider. A lookup
	// failure is not fatal; GoTrue enforces uniqueness either way.
	if exists, err := h.authUC.CheckEmailExists(c.Request.Context(), req.Email); err == nil && exists {
		c.Error(apperror.Conflict("An account with this email already exists"))
		return
	}

	reqBody := map[string]interface{}{
		"email":    req.Email,
		"password": req.Password,
		"options": map[string]interface{}{
			"emailRedirectTo": h.config.FrontendURL + "/verify",
		},
	}
	if req.CaptchaToken != "" {
		reqBody["gotrue_meta_security"] = map[string]interface{}{
			"captcha_token": req.CaptchaToken,
		}
	}

	resp, err := h.forwardToSupabase(c, h.supabaseAuthURL("signup"), reqBody)
	if err != nil {
		c.Error(apperror.New(http.StatusInternalServerError, "Registration service unavailable", err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		c.Error(apperror.BadRequest(supabaseErrorMessage(resp, "Registration failed")))
		return
	}

	var supabaseUser struct {
		ID          string `json:"id"`
		Email       string `json:"email"`
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&supabaseUser); err != nil {
		c.Error(apperror.New(http.StatusInternalServerError, "Failed to parse response", err))
		return
	}

	// The local user row is created on first login, after the email is
	// verified. Auto-confirmed signups get synced immediately.
	msg := "Registration successful. Please check your email to confirm."
	var data interface{}

	if supabaseUser.AccessToken != "" {
		user := &domain.User{
			ID:    supabaseUser.ID,
			Email: req.Email,
			Role:  domain.RoleClient,
		}
		if err := h.authUC.EnsureUserExists(c.Request.Context(), user); err != nil {
			c.Error(err)
			return
		}
		msg = "Registration successful"
		data = gin.H{
			"token": supabaseUser.AccessToken,
			"user":  user,
		}
	}

	response.Success(c, http.StatusCreated, msg, data)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	resp, err := h.forwardToSupabase(c, h.supabaseAuthURL("token?grant_type=password"), map[string]interface{}{
		"email":    req.Email,
		"password": req.Password,
	})
	if err != nil {
		c.Error(apperror.New(http.StatusInternalServerError, "Login service unavailable", err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		c.Error(apperror.Unauthorized(supabaseErrorMessage(resp, "Invalid email or password")))
		return
	}

	var tokenResp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
		User         struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		c.Error(apperror.New(http.StatusInternalServerError, "Failed to parse response", err))
		return
	}

	// Sync the local row so the gate has a profile to route on
	user := &domain.User{
		ID:    tokenResp.User.ID,
		Email: tokenResp.User.Email,
	}
	if err := h.authUC.EnsureUserExists(c.Request.Context(), user); err != nil {
		c.Error(err)
		return
	}
	synced, err := h.authUC.GetCurrentUser(c.Request.Context(), tokenResp.User.ID)
	if err == nil && synced != nil {
		user = synced
	}
	if user.IsDisabled {
		c.Error(apperror.Forbidden("This account has been disabled"))
		return
	}

	response.Success(c, http.StatusOK, "Login successful", gin.H{
		"token":         tokenResp.AccessToken,
		"refresh_token": tokenResp.RefreshToken,
		"expires_in":    tokenResp.ExpiresIn,
		"user":          user,
	})
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	resp, err := h.forwardToSupabase(c, h.supabaseAuthURL("recover"), map[string]interface{}{
		"email": req.Email,
	})
	if err != nil {
		c.Error(apperror.New(http.StatusInternalServerError, "Password recovery service unavailable", err))
		return
	}
	defer resp.Body.Close()

	// Do not reveal whether the address exists
	response.Success(c, http.StatusOK, "If that email is registered, a reset link has been sent.", nil)
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

// ResetPassword updates the password for the session carried in the
// recovery token the frontend obtained from the reset link.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.Error(apperror.Unauthorized("Recovery token required"))
		return
	}

	jsonBody, _ := json.Marshal(map[string]interface{}{"password": req.Password})
	httpReq, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPut, h.supabaseAuthURL("user"), bytes.NewBuffer(jsonBody))
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("apikey", h.config.SupabaseAnonKey)
	httpReq.Header.Set("Authorization", authHeader)

	resp, err := h.client.Do(httpReq)
	if err != nil {
		c.Error(apperror.New(http.StatusInternalServerError, "Password reset service unavailable", err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		c.Error(apperror.BadRequest(supabaseErrorMessage(resp, "Password reset failed")))
		return
	}

	response.Success(c, http.StatusOK, "Password updated", nil)
}

// SyncProfile re-syncs the local user row from the verified token identity.
func (h *AuthHandler) SyncProfile(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	email := c.GetString(string(domain.KeyUserEmail))

	user := &domain.User{ID: userID, Email: email}
	if err := h.authUC.EnsureUserExists(c.Request.Context(), user); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile synced", user)
}

// Me returns the current user plus the workspace flag the frontend needs
// for its own routing.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	user, err := h.authUC.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		c.Error(apperror.NotFound("User not found"))
		return
	}

	response.Success(c, http.StatusOK, "OK", gin.H{
		"user":          user,
		"has_workspace": user.HasWorkspace(),
	})
}
