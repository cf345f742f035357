package handler

import (
	"net/http"
	"strconv"

	"avatarapp/internal/flow"
	"avatarapp/internal/middleware"
	"avatarapp/internal/service"

	"github.com/gin-gonic/gin"
)

type FlowHandler struct {
	svc *service.FlowService
}

func NewFlowHandler(svc *service.FlowService) *FlowHandler {
	return &FlowHandler{svc: svc}
}

// Status computes the caller's onboarding flow status. The client passes
// its selected person profile as ?profile_id= and may pass its current
// ?path= to get the route-guard verdict in the same round trip.
// GET /me/flow-status
func (h *FlowHandler) Status(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var activeProfileID *uint
	if raw := c.Query("profile_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile_id"})
			return
		}
		v := uint(id)
		activeProfileID = &v
	}

	status, err := h.svc.ComputeStatus(userID, activeProfileID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not compute flow status"})
		return
	}

	resp := gin.H{"status": status}
	if path := c.Query("path"); path != "" {
		if target, ok := flow.ResolveRedirectTarget(path, status.State); ok {
			resp["redirect_to"] = target
		} else {
			resp["redirect_to"] = nil
		}
	}
	c.JSON(http.StatusOK, resp)
}
