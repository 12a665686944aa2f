package handler

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/inkline/internal/db"
	"github.com/inkline/internal/service"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"
)

type mediaCreateRequest struct {
	PostID  uint   `json:"post_id" binding:"required"`
	FileURL string `json:"file_url" binding:"required"`
	Type    string `json:"type" binding:"required,mediatype"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

type mediaBulkRequest struct {
	PostID uint `json:"post_id" binding:"required"`
	Items  []struct {
		FileURL string `json:"file_url" binding:"required"`
		Type    string `json:"type" binding:"required,mediatype"`
		Width   int    `json:"width"`
		Height  int    `json:"height"`
	} `json:"items" binding:"required,min=1"`
}

type mediaUpdateRequest struct {
	FileURL *string `json:"file_url"`
	Type    *string `json:"type" binding:"omitempty,mediatype"`
}

// ListMedia returns a filtered, paginated media listing.
func (a *API) ListMedia(c *gin.Context) {
	actor := currentActor(c)

	result, err := a.media.List(actor, service.MediaFilter{
		PostID:  parseUintQuery(c, "post_id"),
		Type:    c.Query("type"),
		Page:    parseIntQuery(c, "page", 1),
		PerPage: parseIntQuery(c, "per_page", 0),
	})
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"media": result.Media, "pagination": result.Pagination})
}

// ListPostMedia returns all media attached to one post.
func (a *API) ListPostMedia(c *gin.Context) {
	postID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid post id")
		return
	}

	media, err := a.media.ListByPost(postID)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"media": media})
}

// GetMedia returns a single media row.
func (a *API) GetMedia(c *gin.Context) {
	actor := currentActor(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid media id")
		return
	}

	media, err := a.media.Get(id, actor)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"media": media})
}

// CreateMedia attaches an already-hosted file to a post.
func (a *API) CreateMedia(c *gin.Context) {
	actor := currentActor(c)

	var req mediaCreateRequest
	if !bindJSON(c, &req, "post_id, file_url and type are required") {
		return
	}

	media, err := a.media.Create(actor, service.MediaInput{
		PostID:  req.PostID,
		FileURL: req.FileURL,
		Type:    req.Type,
		Width:   req.Width,
		Height:  req.Height,
	})
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"media": media})
}

// BulkCreateMedia attaches several files to a post in one transaction.
func (a *API) BulkCreateMedia(c *gin.Context) {
	actor := currentActor(c)

	var req mediaBulkRequest
	if !bindJSON(c, &req, "post_id and at least one item are required") {
		return
	}

	inputs := make([]service.MediaInput, 0, len(req.Items))
	for _, item := range req.Items {
		inputs = append(inputs, service.MediaInput{
			PostID:  req.PostID,
			FileURL: item.FileURL,
			Type:    item.Type,
			Width:   item.Width,
			Height:  item.Height,
		})
	}

	media, err := a.media.BulkCreate(actor, req.PostID, inputs)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"media": media})
}

// UploadMedia stores an uploaded file on disk under a unique name and
// attaches it to a post. Image dimensions are recorded when decodable.
func (a *API) UploadMedia(c *gin.Context) {
	actor := currentActor(c)

	postID := parseUintFormValue(c, "post_id")
	if postID == 0 {
		respondError(c, http.StatusBadRequest, "post_id is required")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "no file in request")
		return
	}

	mediaType := mediaTypeFromContentType(file.Header.Get("Content-Type"))
	if mediaType == "" {
		respondError(c, http.StatusBadRequest, "unsupported content type")
		return
	}

	if err := os.MkdirAll(a.uploadDir, 0755); err != nil {
		a.logger.Error("create upload dir", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal error")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	name := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	dst := filepath.Join(a.uploadDir, name)

	if err := c.SaveUploadedFile(file, dst); err != nil {
		a.logger.Error("save upload", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal error")
		return
	}

	width, height := 0, 0
	if mediaType == db.MediaTypeImage {
		width, height = imageDimensions(file)
	}

	media, err := a.media.Create(actor, service.MediaInput{
		PostID:  postID,
		FileURL: a.uploadURL + "/" + name,
		Type:    mediaType,
		Width:   width,
		Height:  height,
	})
	if err != nil {
		os.Remove(dst)
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"media": media})
}

// UpdateMedia changes a media row's URL or type.
func (a *API) UpdateMedia(c *gin.Context) {
	actor := currentActor(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid media id")
		return
	}

	var req mediaUpdateRequest
	if !bindJSON(c, &req, "invalid media payload") {
		return
	}

	media, err := a.media.Update(id, actor, service.MediaUpdateInput{
		FileURL: req.FileURL,
		Type:    req.Type,
	})
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"media": media})
}

// DeleteMedia removes a media row.
func (a *API) DeleteMedia(c *gin.Context) {
	actor := currentActor(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid media id")
		return
	}

	if err := a.media.Delete(id, actor); err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeletePostMedia removes every media row attached to a post.
func (a *API) DeletePostMedia(c *gin.Context) {
	actor := currentActor(c)

	postID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid post id")
		return
	}

	if err := a.media.DeleteByPost(postID, actor); err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func mediaTypeFromContentType(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return db.MediaTypeImage
	case strings.HasPrefix(contentType, "video/"):
		return db.MediaTypeVideo
	case strings.HasPrefix(contentType, "audio/"):
		return db.MediaTypeAudio
	case contentType == "application/pdf", contentType == "text/plain":
		return db.MediaTypeDocument
	}
	return ""
}

// imageDimensions decodes just the header of the uploaded image.
// Unsupported or corrupt files yield zero dimensions rather than an error.
func imageDimensions(file *multipart.FileHeader) (int, int) {
	reader, err := file.Open()
	if err != nil {
		return 0, 0
	}
	defer reader.Close()

	cfg, _, err := image.DecodeConfig(reader)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

func parseUintFormValue(c *gin.Context, key string) uint {
	raw := c.PostForm(key)
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(value)
}
