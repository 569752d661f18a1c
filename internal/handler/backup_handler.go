package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-admin-api/internal/middleware"
	"github.com/noah-isme/academy-admin-api/internal/service"
	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
	"github.com/noah-isme/academy-admin-api/pkg/response"
)

const maxBackupSize = 32 << 20

// BackupHandler exposes backup download, restore and archiving.
type BackupHandler struct {
	backups *service.BackupService
}

// NewBackupHandler constructs BackupHandler.
func NewBackupHandler(backups *service.BackupService) *BackupHandler {
	return &BackupHandler{backups: backups}
}

// Download godoc
// @Summary Download a backup of the current session
// @Tags Backup
// @Produce json
// @Success 200 {file} file
// @Router /backup [get]
func (h *BackupHandler) Download(c *gin.Context) {
	payload, err := h.backups.EncodeJSON(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("backup_%s.json", time.Now().Format("2006-01-02"))
	response.Attachment(c, filename, "application/json; charset=utf-8", payload)
}

// Restore godoc
// @Summary Restore a backup
// @Description Accepts the backup as the raw request body or as multipart field "file".
// @Tags Backup
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /backup/restore [post]
func (h *BackupHandler) Restore(c *gin.Context) {
	raw, err := readBackupBody(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.backups.Restore(c.Request.Context(), raw)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "warnings", len(result.Warnings))
	response.JSON(c, http.StatusOK, result, nil, middleware.ExtractMeta(c))
}

func readBackupBody(c *gin.Context) ([]byte, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("file")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "missing backup file")
		}
		file, err := header.Open()
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable backup file")
		}
		defer file.Close()
		return io.ReadAll(io.LimitReader(file, maxBackupSize))
	}
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBackupSize))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable request body")
	}
	return raw, nil
}

// Archive godoc
// @Summary Archive the current backup to storage
// @Tags Backup
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /backup/archive [post]
func (h *BackupHandler) Archive(c *gin.Context) {
	info, err := h.backups.Archive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, info)
}

// Archives godoc
// @Summary List archived backups
// @Tags Backup
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /backup/archives [get]
func (h *BackupHandler) Archives(c *gin.Context) {
	files, err := h.backups.Archives(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, files, nil)
}

// Latest godoc
// @Summary Download the most recent archived backup
// @Tags Backup
// @Produce json
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /backup/latest [get]
func (h *BackupHandler) Latest(c *gin.Context) {
	payload, err := h.backups.Latest(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, "backup_latest.json", "application/json; charset=utf-8", payload)
}
