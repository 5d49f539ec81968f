package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/talkbase/talkbase-backend/internal/http/response"
	"github.com/talkbase/talkbase-backend/internal/requestdata"
	"github.com/talkbase/talkbase-backend/internal/services"
)

type DedupeHandler struct {
	dedupeService services.DedupeService
}

func NewDedupeHandler(dedupeService services.DedupeService) *DedupeHandler {
	return &DedupeHandler{dedupeService: dedupeService}
}

// GET /contacts/duplicates
func (dh *DedupeHandler) Detect(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	sets, err := dh.dedupeService.DetectDuplicates(c.Request.Context(), rd.AccountID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"duplicate_sets": sets})
}

// POST /contacts/duplicates/dismiss
// body: { "contact_id_1": "...", "contact_id_2": "..." }
func (dh *DedupeHandler) Dismiss(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var req struct {
		ContactID1 uuid.UUID `json:"contact_id_1"`
		ContactID2 uuid.UUID `json:"contact_id_2"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := dh.dedupeService.DismissDuplicate(c.Request.Context(), rd.AccountID, req.ContactID1, req.ContactID2, rd.UserID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
