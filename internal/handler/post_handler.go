package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkline/internal/service"
)

type postCreateRequest struct {
	Title       string     `json:"title" binding:"required"`
	Content     string     `json:"content" binding:"required"`
	Status      string     `json:"status" binding:"omitempty,poststatus"`
	PublishAt   *time.Time `json:"publish_at"`
	TagIDs      []uint     `json:"tag_ids"`
	CategoryIDs []uint     `json:"category_ids"`
}

type postUpdateRequest struct {
	Title       *string    `json:"title"`
	Content     *string    `json:"content"`
	Status      *string    `json:"status" binding:"omitempty,poststatus"`
	PublishAt   *time.Time `json:"publish_at"`
	TagIDs      *[]uint    `json:"tag_ids"`
	CategoryIDs *[]uint    `json:"category_ids"`
}

// ListPosts returns a filtered, paginated post listing.
func (a *API) ListPosts(c *gin.Context) {
	filter := service.PostFilter{
		Status:     c.Query("status"),
		TagID:      parseUintQuery(c, "tag_id"),
		CategoryID: parseUintQuery(c, "category_id"),
		AuthorID:   parseUintQuery(c, "author_id"),
		Page:       parseIntQuery(c, "page", 1),
		PerPage:    parseIntQuery(c, "per_page", 0),
	}

	result, err := a.posts.List(filter)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": result.Posts, "pagination": result.Pagination})
}

// GetPost returns a single post with its rendered HTML body.
func (a *API) GetPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid post id")
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":         post,
		"content_html": service.RenderMarkdown(post.Content),
	})
}

// CreatePost creates a post owned by the authenticated user.
func (a *API) CreatePost(c *gin.Context) {
	actor := currentActor(c)

	var req postCreateRequest
	if !bindJSON(c, &req, "title and content are required") {
		return
	}

	post, err := a.posts.Create(actor, service.PostInput{
		Title:       req.Title,
		Content:     req.Content,
		Status:      req.Status,
		PublishAt:   req.PublishAt,
		TagIDs:      req.TagIDs,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// UpdatePost applies a partial update. Only the owner or an admin may call it.
func (a *API) UpdatePost(c *gin.Context) {
	actor := currentActor(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid post id")
		return
	}

	var req postUpdateRequest
	if !bindJSON(c, &req, "invalid post payload") {
		return
	}

	post, err := a.posts.Update(id, actor, service.PostUpdateInput{
		Title:       req.Title,
		Content:     req.Content,
		Status:      req.Status,
		PublishAt:   req.PublishAt,
		TagIDs:      req.TagIDs,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// DeletePost removes a post. Only the owner or an admin may call it.
func (a *API) DeletePost(c *gin.Context) {
	actor := currentActor(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid post id")
		return
	}

	if err := a.posts.Delete(id, actor); err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
