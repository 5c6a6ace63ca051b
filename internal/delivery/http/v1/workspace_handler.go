package v1

import (
	"go-workspace-portal/internal/delivery/http/response"
	"go-workspace-portal/internal/domain"
	"go-workspace-portal/pkg/apperror"
	"net/http"

	"github.com/gin-gonic/gin"
)

type WorkspaceHandler struct {
	workspaceUC domain.WorkspaceUsecase
}

func NewWorkspaceHandler(protected *gin.RouterGroup, workspaceUC domain.WorkspaceUsecase) {
	handler := &WorkspaceHandler{workspaceUC: workspaceUC}

	ws := protected.Group("/workspaces")
	{
		ws.POST("", handler.Create)
		ws.GET("/me", handler.GetMine)
		ws.PATCH("/me", handler.UpdateMine)
	}
}

func (h *WorkspaceHandler) Create(c *gin.Context) {
	var req domain.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	userID := c.GetString(string(domain.KeyUserID))
	ws, err := h.workspaceUC.CreateWorkspace(c.Request.Context(), userID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Workspace created", ws)
}

func (h *WorkspaceHandler) GetMine(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	ws, err := h.workspaceUC.GetMyWorkspace(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "OK", ws)
}

func (h *WorkspaceHandler) UpdateMine(c *gin.Context) {
	var req domain.UpdateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	userID := c.GetString(string(domain.KeyUserID))
	ws, err := h.workspaceUC.UpdateMyWorkspace(c.Request.Context(), userID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Workspace updated", ws)
}
