package handler

import (
	"net/http"
	"strconv"
	"strings"

	"avatarapp/internal/middleware"
	"avatarapp/internal/repository"
	"avatarapp/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UploadHandler struct {
	cloud       cloudinary.Client
	profileRepo *repository.ProfileRepository
}

func NewUploadHandler(cloud cloudinary.Client, profileRepo *repository.ProfileRepository) *UploadHandler {
	return &UploadHandler{cloud: cloud, profileRepo: profileRepo}
}

// UploadAvatar replaces the caller's avatar with the uploaded image.
// POST /me/avatar (multipart, field "file")
func (h *UploadHandler) UploadAvatar(c *gin.Context) {
	if h.cloud == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads not configured"})
		return
	}
	userID := middleware.GetUserID(c)
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	if file.Size > 5<<20 {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	publicID := "u" + strconv.FormatUint(uint64(userID), 10) + "_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	url, err := h.cloud.UploadAvatar(c.Request.Context(), f, publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	p, err := h.profileRepo.GetByUserID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	p.AvatarURL = url
	if err := h.profileRepo.Update(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save avatar"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}
