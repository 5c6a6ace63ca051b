package v1

import (
	"go-workspace-portal/internal/delivery/http/response"
	"go-workspace-portal/internal/domain"
	"go-workspace-portal/pkg/apperror"
	"net/http"

	"github.com/gin-gonic/gin"
)

type OnboardingHandler struct {
	onboardingUC domain.OnboardingUsecase
}

func NewOnboardingHandler(protected *gin.RouterGroup, onboardingUC domain.OnboardingUsecase) {
	handler := &OnboardingHandler{onboardingUC: onboardingUC}

	ob := protected.Group("/onboarding")
	{
		ob.GET("", handler.Get)
		ob.PUT("", handler.Save)
		ob.POST("/submit", handler.Submit)
	}
}

// Get returns the caller's onboarding record, creating a pending one on
// first access.
func (h *OnboardingHandler) Get(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	record, err := h.onboardingUC.GetOnboarding(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "OK", record)
}

func (h *OnboardingHandler) Save(c *gin.Context) {
	var req domain.SaveOnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	userID := c.GetString(string(domain.KeyUserID))
	record, err := h.onboardingUC.SaveAnswers(c.Request.Context(), userID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Answers saved", record)
}

// Submit finalizes the questionnaire for review. Clients send an
// Idempotency-Key header so a double click or second tab cannot submit
// twice.
func (h *OnboardingHandler) Submit(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	idempotencyKey := c.GetHeader("Idempotency-Key")

	record, err := h.onboardingUC.Submit(c.Request.Context(), userID, idempotencyKey)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Onboarding submitted for review", record)
}
