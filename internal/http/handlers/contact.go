package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/talkbase/talkbase-backend/internal/http/response"
	"github.com/talkbase/talkbase-backend/internal/requestdata"
	"github.com/talkbase/talkbase-backend/internal/services"
)

type ContactHandler struct {
	contactService services.ContactService
	avatarService  services.AvatarService
}

func NewContactHandler(contactService services.ContactService, avatarService services.AvatarService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		avatarService:  avatarService,
	}
}

// POST /contacts
func (ch *ContactHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var req services.ContactInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	dto, err := ch.contactService.Create(c.Request.Context(), rd.AccountID, rd.TenantID, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, dto)
}

// GET /contacts
func (ch *ContactHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	dtos, err := ch.contactService.List(c.Request.Context(), rd.AccountID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contacts": dtos})
}

// GET /contacts/:id
func (ch *ContactHandler) Get(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	dto, err := ch.contactService.Get(c.Request.Context(), rd.AccountID, contactID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, dto)
}

// PATCH /contacts/:id
func (ch *ContactHandler) Update(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var req services.ContactUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	dto, err := ch.contactService.Update(c.Request.Context(), rd.AccountID, contactID, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, dto)
}

// DELETE /contacts/:id
func (ch *ContactHandler) Delete(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := ch.contactService.Delete(c.Request.Context(), rd.AccountID, contactID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /contacts/:id/avatar (multipart/form-data, field "file")
func (ch *ContactHandler) UploadAvatar(c *gin.Context) {
	const maxBytes = 10 << 20

	rd := requestdata.GetRequestData(c.Request.Context())
	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if ch.avatarService == nil {
		response.RespondError(c, http.StatusServiceUnavailable, "avatar_storage_unconfigured", nil)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_file", err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "open_file_failed", err)
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "read_file_failed", err)
		return
	}
	if len(raw) > maxBytes {
		response.RespondError(c, http.StatusBadRequest, "file_too_large", nil)
		return
	}

	dto, err := ch.contactService.Get(c.Request.Context(), rd.AccountID, contactID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	if err := ch.avatarService.UploadContactAvatar(c.Request.Context(), nil, dto.Contact, raw); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"avatar_url": dto.Contact.AvatarURL})
}
