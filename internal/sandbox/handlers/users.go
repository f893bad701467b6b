package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace/client/internal/sandbox/middleware"
)

func (h HandlerSet) UploadAvatar(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	file, ok := h.readUpload(c)
	if !ok {
		return
	}

	name, err := h.uploads.UploadAvatar(c.Request.Context(), actor, c.Param("id"), file)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Avatar uploaded successfully", "avatar": name})
}

func (h HandlerSet) GetAvatar(c *gin.Context) {
	user, err := h.auth.User(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if user.Avatar == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Avatar not found"})
		return
	}
	c.Data(http.StatusOK, user.AvatarType, user.AvatarData)
}
