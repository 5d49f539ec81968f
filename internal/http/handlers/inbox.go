package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/talkbase/talkbase-backend/internal/http/response"
	"github.com/talkbase/talkbase-backend/internal/requestdata"
	"github.com/talkbase/talkbase-backend/internal/services"
)

type InboxHandler struct {
	inboxService services.InboxService
}

func NewInboxHandler(inboxService services.InboxService) *InboxHandler {
	return &InboxHandler{inboxService: inboxService}
}

// POST /inboxes
func (ih *InboxHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var req struct {
		Name            string `json:"name"`
		Provider        string `json:"provider"`
		ConnectionToken string `json:"connection_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ib, err := ih.inboxService.Create(c.Request.Context(), rd.AccountID, req.Name, req.Provider, req.ConnectionToken)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, ib)
}

// GET /inboxes
func (ih *InboxHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	inboxes, err := ih.inboxService.List(c.Request.Context(), rd.AccountID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"inboxes": inboxes})
}

// PATCH /inboxes/:id/status
// body: { "status": "connected" | "disconnected" }
func (ih *InboxHandler) SetStatus(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	inboxID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := ih.inboxService.SetStatus(c.Request.Context(), rd.AccountID, inboxID, req.Status); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
