package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkline/internal/service"
)

type commentCreateRequest struct {
	Content  string `json:"content" binding:"required"`
	ParentID *uint  `json:"parent_id"`
}

type commentUpdateRequest struct {
	Content string `json:"content" binding:"required"`
}

// ListPostComments returns top-level comments for a post with replies.
func (a *API) ListPostComments(c *gin.Context) {
	postID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid post id")
		return
	}

	result, err := a.comments.ListByPost(postID,
		parseIntQuery(c, "page", 1),
		parseIntQuery(c, "per_page", 0),
	)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": result.Comments, "pagination": result.Pagination})
}

// GetComment returns a single comment.
func (a *API) GetComment(c *gin.Context) {
	actor := currentActor(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid comment id")
		return
	}

	comment, err := a.comments.Get(id, actor)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

// CreateComment adds a comment, optionally as a reply, to a post.
func (a *API) CreateComment(c *gin.Context) {
	actor := currentActor(c)

	postID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid post id")
		return
	}

	var req commentCreateRequest
	if !bindJSON(c, &req, "comment content is required") {
		return
	}

	comment, err := a.comments.Create(actor, service.CommentInput{
		PostID:   postID,
		ParentID: req.ParentID,
		Content:  req.Content,
	})
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// UpdateComment edits a comment's content. Only the author or an admin may call it.
func (a *API) UpdateComment(c *gin.Context) {
	actor := currentActor(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid comment id")
		return
	}

	var req commentUpdateRequest
	if !bindJSON(c, &req, "comment content is required") {
		return
	}

	comment, err := a.comments.Update(id, actor, req.Content)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

// DeleteComment removes a comment and its replies. Only the author or an admin may call it.
func (a *API) DeleteComment(c *gin.Context) {
	actor := currentActor(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid comment id")
		return
	}

	if err := a.comments.Delete(id, actor); err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
