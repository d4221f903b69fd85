package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/facilitator-console/internal/http/response"
	"github.com/yungbote/facilitator-console/internal/platform/logger"
	"github.com/yungbote/facilitator-console/internal/platform/objectstore"
	"github.com/yungbote/facilitator-console/internal/upload"
)

const defaultUploadFolder = "uploads"

var errTooLarge = errors.New("file exceeds the upload size limit")

type UploadConfig struct {
	MaxBytes int64
	// SpoolDir holds request bodies while detached uploads run; empty means os.TempDir.
	SpoolDir string
}

// UploadHandler exposes the session's upload manager. Starting an upload
// returns at once; progress arrives over /events or by polling the field.
type UploadHandler struct {
	log  *logger.Logger
	pool *upload.Pool
	cfg  UploadConfig
}

func NewUploadHandler(log *logger.Logger, pool *upload.Pool, cfg UploadConfig) *UploadHandler {
	return &UploadHandler{log: log.With("handler", "UploadHandler"), pool: pool, cfg: cfg}
}

func (h *UploadHandler) manager(c *gin.Context) *upload.Manager {
	return h.pool.Get(sessionID(c))
}

// Start stores the multipart "file" under the "folder" form value and tracks
// it as :field. With ?wait=true it answers only once the object is stored.
func (h *UploadHandler) Start(c *gin.Context) {
	field := c.Param("field")
	fh, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_file", err)
		return
	}
	if h.cfg.MaxBytes > 0 && fh.Size > h.cfg.MaxBytes {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large", errTooLarge)
		return
	}
	body, cleanup, err := h.spool(fh)
	if err != nil {
		h.log.Error("spool upload failed", "field", field, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "spool_failed", err)
		return
	}
	file := upload.File{
		Name:        fh.Filename,
		ContentType: objectstore.ContentTypeFor(fh.Filename, fh.Header.Get("Content-Type")),
		Size:        fh.Size,
		Body:        body,
	}
	folder := cleanFolder(c.PostForm("folder"))
	m := h.manager(c)

	if c.Query("wait") == "true" {
		defer cleanup()
		url, err := m.UploadFile(c.Request.Context(), file, folder, field, nil)
		if err != nil {
			respondErr(c, err)
			return
		}
		response.RespondOK(c, gin.H{"field": field, "url": url, "state": m.State(field)})
		return
	}

	ctx := context.WithoutCancel(c.Request.Context())
	go func() {
		defer cleanup()
		if _, err := m.UploadFile(ctx, file, folder, field, nil); err != nil &&
			!errors.Is(err, upload.ErrSuperseded) && !errors.Is(err, context.Canceled) {
			h.log.Warn("detached upload failed", "field", field, "error", err)
		}
	}()
	c.JSON(http.StatusAccepted, gin.H{
		"field": field,
		"state": upload.State{Uploading: true, FileName: fh.Filename},
	})
}

// spool copies the request file to disk so the upload can outlive the request.
func (h *UploadHandler) spool(fh *multipart.FileHeader) (*os.File, func(), error) {
	src, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	defer src.Close()
	tmp, err := os.CreateTemp(h.cfg.SpoolDir, "upload-*")
	if err != nil {
		return nil, nil, fmt.Errorf("create spool file: %w", err)
	}
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}
	if _, err := io.Copy(tmp, src); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("spool upload: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		cleanup()
		return nil, nil, err
	}
	return tmp, cleanup, nil
}

func (h *UploadHandler) List(c *gin.Context) {
	response.RespondOK(c, gin.H{"fields": h.manager(c).States()})
}

func (h *UploadHandler) State(c *gin.Context) {
	field := c.Param("field")
	response.RespondOK(c, gin.H{"field": field, "state": h.manager(c).State(field)})
}

func (h *UploadHandler) Cancel(c *gin.Context) {
	h.manager(c).CancelUpload(c.Param("field"))
	response.RespondNoContent(c)
}

// Assign records a pasted link for the field, replacing any upload in flight.
func (h *UploadHandler) Assign(c *gin.Context) {
	var req struct {
		URL string `json:"url"`
	}
	if !bindJSON(c, &req) {
		return
	}
	field := c.Param("field")
	m := h.manager(c)
	m.Assign(field, strings.TrimSpace(req.URL))
	response.RespondOK(c, gin.H{"field": field, "state": m.State(field)})
}

// Remove deletes the stored object (best effort) and clears the field.
func (h *UploadHandler) Remove(c *gin.Context) {
	h.manager(c).RemoveFile(c.Request.Context(), c.Param("field"), c.Query("url"))
	response.RespondNoContent(c)
}

// cleanFolder keeps folder inside the bucket: no empty, dot or dot-dot segments.
func cleanFolder(raw string) string {
	var parts []string
	for _, seg := range strings.Split(raw, "/") {
		seg = strings.TrimSpace(seg)
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		parts = append(parts, objectstore.SanitizeFilename(seg))
	}
	if len(parts) == 0 {
		return defaultUploadFolder
	}
	return strings.Join(parts, "/")
}
