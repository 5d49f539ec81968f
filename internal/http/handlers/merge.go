package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/talkbase/talkbase-backend/internal/http/response"
	"github.com/talkbase/talkbase-backend/internal/requestdata"
	"github.com/talkbase/talkbase-backend/internal/services"
)

type MergeHandler struct {
	mergeService services.MergeService
}

func NewMergeHandler(mergeService services.MergeService) *MergeHandler {
	return &MergeHandler{mergeService: mergeService}
}

// POST /contacts/merge
// body: { "contact_ids": ["..."], "merge_data": { ... } }
func (mh *MergeHandler) Merge(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var req struct {
		ContactIDs []uuid.UUID        `json:"contact_ids"`
		MergeData  services.MergeData `json:"merge_data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	dto, err := mh.mergeService.MergeContacts(c.Request.Context(), rd.AccountID, req.ContactIDs, req.MergeData, rd.UserID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, dto)
}

// GET /contacts/merge-history?limit=50
func (mh *MergeHandler) History(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		limit = n
	}
	records, err := mh.mergeService.ListMergeHistory(c.Request.Context(), rd.AccountID, limit)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"merges": records})
}
