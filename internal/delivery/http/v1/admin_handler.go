package v1

import (
	"go-workspace-portal/internal/delivery/http/response"
	"go-workspace-portal/internal/domain"
	"go-workspace-portal/pkg/apperror"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminUC domain.AdminUsecase
}

func NewAdminHandler(protected *gin.RouterGroup, adminUC domain.AdminUsecase) {
	handler := &AdminHandler{adminUC: adminUC}

	// Role enforcement lives in the usecase, from the context role
	admin := protected.Group("/admin")
	{
		admin.GET("/stats", handler.GetStats)
		admin.GET("/users", handler.ListUsers)
		admin.PATCH("/users/:id/role", handler.UpdateUserRole)
		admin.PATCH("/users/:id/disable", handler.DisableUser)
		admin.GET("/workspaces", handler.ListWorkspaces)
		admin.POST("/onboarding/:workspaceID/review", handler.ReviewOnboarding)
	}
}

func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminUC.GetStats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", stats)
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	return page, pageSize
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, pageSize := pageParams(c)
	result, err := h.adminUC.ListUsers(c.Request.Context(), c.Query("role"), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", result)
}

func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	var req domain.UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	user, err := h.adminUC.UpdateUserRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Role updated", user)
}

func (h *AdminHandler) DisableUser(c *gin.Context) {
	var req domain.DisableUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if err := h.adminUC.DisableUser(c.Request.Context(), c.Param("id"), req.Disable); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User updated", nil)
}

func (h *AdminHandler) ListWorkspaces(c *gin.Context) {
	page, pageSize := pageParams(c)
	result, err := h.adminUC.ListWorkspaces(c.Request.Context(), c.Query("status"), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", result)
}

func (h *AdminHandler) ReviewOnboarding(c *gin.Context) {
	workspaceID, err := strconv.ParseInt(c.Param("workspaceID"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid workspace id"))
		return
	}

	var req domain.ReviewOnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	record, err := h.adminUC.ReviewOnboarding(c.Request.Context(), workspaceID, &req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Review recorded", record)
}
