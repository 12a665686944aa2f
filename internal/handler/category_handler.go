package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkline/internal/service"
)

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// ListCategories returns categories ordered by name with usage counts.
func (a *API) ListCategories(c *gin.Context) {
	result, err := a.categories.List(service.CategoryFilter{
		Search:  c.Query("search"),
		Page:    parseIntQuery(c, "page", 1),
		PerPage: parseIntQuery(c, "per_page", 0),
	})
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": result.Categories, "pagination": result.Pagination})
}

// GetCategory returns a single category with its post count.
func (a *API) GetCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid category id")
		return
	}

	category, err := a.categories.Get(id)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// CreateCategory creates a category. Admin only.
func (a *API) CreateCategory(c *gin.Context) {
	actor := currentActor(c)

	var req categoryRequest
	if !bindJSON(c, &req, "category name is required") {
		return
	}

	category, err := a.categories.Create(actor, service.CategoryInput{Name: req.Name, Description: req.Description})
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// UpdateCategory renames or redescribes a category. Admin only.
func (a *API) UpdateCategory(c *gin.Context) {
	actor := currentActor(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid category id")
		return
	}

	var req categoryRequest
	if !bindJSON(c, &req, "category name is required") {
		return
	}

	category, err := a.categories.Update(id, actor, service.CategoryInput{Name: req.Name, Description: req.Description})
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory removes a category and detaches it from posts. Admin only.
func (a *API) DeleteCategory(c *gin.Context) {
	actor := currentActor(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := a.categories.Delete(id, actor); err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
