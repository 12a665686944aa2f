package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkline/internal/service"
)

type tagRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// ListTags returns tags ordered by name with usage counts.
func (a *API) ListTags(c *gin.Context) {
	result, err := a.tags.List(service.TagFilter{
		Search:  c.Query("search"),
		Page:    parseIntQuery(c, "page", 1),
		PerPage: parseIntQuery(c, "per_page", 0),
	})
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tags": result.Tags, "pagination": result.Pagination})
}

// GetTag returns a single tag with its post count.
func (a *API) GetTag(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid tag id")
		return
	}

	tag, err := a.tags.Get(id)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tag": tag})
}

// CreateTag creates a tag. Admin only.
func (a *API) CreateTag(c *gin.Context) {
	actor := currentActor(c)

	var req tagRequest
	if !bindJSON(c, &req, "tag name is required") {
		return
	}

	tag, err := a.tags.Create(actor, service.TagInput{Name: req.Name, Description: req.Description})
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"tag": tag})
}

// UpdateTag renames or redescribes a tag. Admin only.
func (a *API) UpdateTag(c *gin.Context) {
	actor := currentActor(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid tag id")
		return
	}

	var req tagRequest
	if !bindJSON(c, &req, "tag name is required") {
		return
	}

	tag, err := a.tags.Update(id, actor, service.TagInput{Name: req.Name, Description: req.Description})
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tag": tag})
}

// DeleteTag removes a tag and detaches it from posts. Admin only.
func (a *API) DeleteTag(c *gin.Context) {
	actor := currentActor(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid tag id")
		return
	}

	if err := a.tags.Delete(id, actor); err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
