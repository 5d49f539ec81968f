package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/talkbase/talkbase-backend/internal/http/response"
	"github.com/talkbase/talkbase-backend/internal/requestdata"
	"github.com/talkbase/talkbase-backend/internal/services"
)

type GroupHandler struct {
	groupService services.GroupService
}

func NewGroupHandler(groupService services.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// POST /groups
func (gh *GroupHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	group, err := gh.groupService.Create(c.Request.Context(), rd.AccountID, req.Name, req.Description)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, group)
}

// GET /groups
func (gh *GroupHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	groups, err := gh.groupService.List(c.Request.Context(), rd.AccountID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"groups": groups})
}

// PATCH /groups/:id
func (gh *GroupHandler) Update(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	group, err := gh.groupService.Update(c.Request.Context(), rd.AccountID, groupID, req.Name, req.Description)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, group)
}

// DELETE /groups/:id
func (gh *GroupHandler) Delete(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := gh.groupService.Delete(c.Request.Context(), rd.AccountID, groupID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /groups/:id/contacts
// body: { "contact_ids": ["..."] }
func (gh *GroupHandler) AttachContacts(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var req struct {
		ContactIDs []uuid.UUID `json:"contact_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := gh.groupService.AttachContacts(c.Request.Context(), rd.AccountID, groupID, req.ContactIDs)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, result)
}

// DELETE /groups/:id/contacts/:contactId
func (gh *GroupHandler) DetachContact(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	contactID, err := uuid.Parse(c.Param("contactId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := gh.groupService.DetachContact(c.Request.Context(), rd.AccountID, groupID, contactID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
