package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/talkbase/talkbase-backend/internal/http/response"
	"github.com/talkbase/talkbase-backend/internal/requestdata"
	"github.com/talkbase/talkbase-backend/internal/services"
)

type TagHandler struct {
	tagService services.TagService
}

func NewTagHandler(tagService services.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// POST /tags
func (th *TagHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	tag, err := th.tagService.Create(c.Request.Context(), rd.AccountID, req.Name, req.Color)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, tag)
}

// GET /tags
func (th *TagHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	tags, err := th.tagService.List(c.Request.Context(), rd.AccountID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"tags": tags})
}

// PATCH /tags/:id
func (th *TagHandler) Update(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	tagID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var req struct {
		Name  *string `json:"name"`
		Color *string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	tag, err := th.tagService.Update(c.Request.Context(), rd.AccountID, tagID, req.Name, req.Color)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, tag)
}

// DELETE /tags/:id
func (th *TagHandler) Delete(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	tagID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := th.tagService.Delete(c.Request.Context(), rd.AccountID, tagID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /tags/:id/contacts
// body: { "contact_ids": ["..."] }
func (th *TagHandler) AttachContacts(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	tagID, err := uuid.Parse(c.Param("id"))
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
	result, err := th.tagService.AttachContacts(c.Request.Context(), rd.AccountID, tagID, req.ContactIDs)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, result)
}

// DELETE /tags/:id/contacts/:contactId
func (th *TagHandler) DetachContact(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	tagID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	contactID, err := uuid.Parse(c.Param("contactId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := th.tagService.DetachContact(c.Request.Context(), rd.AccountID, tagID, contactID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
