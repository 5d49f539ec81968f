package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/talkbase/talkbase-backend/internal/clients/wapi"
	types "github.com/talkbase/talkbase-backend/internal/domain"
	"github.com/talkbase/talkbase-backend/internal/http/response"
	"github.com/talkbase/talkbase-backend/internal/requestdata"
	"github.com/talkbase/talkbase-backend/internal/services"
)

type ImportHandler struct {
	importService services.ImportService
}

func NewImportHandler(importService services.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// POST /contacts/import
// body: { "contacts": [{ "phone": "...", "name": "...", "jid": "...", "avatar_url": "..." }] }
func (ih *ImportHandler) ImportContacts(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var req struct {
		Contacts []wapi.ContactRecord `json:"contacts"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if len(req.Contacts) == 0 {
		response.RespondError(c, http.StatusBadRequest, "contacts_required", nil)
		return
	}
	result, err := ih.importService.ImportContacts(c.Request.Context(), rd.AccountID, rd.TenantID, req.Contacts, types.ContactSourceImport, nil)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, result)
}

// POST /inboxes/:id/import
func (ih *ImportHandler) ImportFromInbox(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	inboxID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := ih.importService.ImportFromInbox(c.Request.Context(), rd.AccountID, rd.TenantID, inboxID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, result)
}
