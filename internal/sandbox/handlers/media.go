package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace/client/internal/models"
	"marketplace/client/internal/sandbox/middleware"
)

func (h HandlerSet) ListMedia(c *gin.Context) {
	c.JSON(http.StatusOK, h.uploads.ListMedia(c.Request.Context(), c.Param("productId")))
}

func (h HandlerSet) GetMedia(c *gin.Context) {
	m, err := h.uploads.GetMedia(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m.Media)
}

func (h HandlerSet) DownloadMedia(c *gin.Context) {
	m, err := h.uploads.GetMedia(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", m.OriginalFilename))
	c.Data(http.StatusOK, m.ContentType, m.Data)
}

func (h HandlerSet) UploadMedia(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	file, ok := h.readUpload(c)
	if !ok {
		return
	}

	m, err := h.uploads.UploadMedia(c.Request.Context(), actor, c.PostForm("productId"), file)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h HandlerSet) DeleteMedia(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	if err := h.uploads.DeleteMedia(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// readUpload pulls the "file" part into memory, reading at most one byte past
// the size ceiling so oversized uploads are still reported by size.
func (h HandlerSet) readUpload(c *gin.Context) (models.File, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "File is empty or not provided")
		return models.File{}, false
	}
	f, err := header.Open()
	if err != nil {
		h.fail(c, fmt.Errorf("open upload: %w", err))
		return models.File{}, false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		h.fail(c, fmt.Errorf("read upload: %w", err))
		return models.File{}, false
	}
	return models.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     data,
	}, true
}
