package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/inkline/internal/service"
)

type reactionRequest struct {
	EntityType string `json:"entity_type" binding:"required,entitytype"`
	EntityID   uint   `json:"entity_id" binding:"required"`
	Kind       string `json:"kind" binding:"required,reactionkind"`
}

// ToggleReaction cycles the caller's reaction on an entity.
// Reacting with the current kind removes it, a different kind replaces it.
func (a *API) ToggleReaction(c *gin.Context) {
	actor := currentActor(c)

	var req reactionRequest
	if !bindJSON(c, &req, "entity_type, entity_id and kind are required") {
		return
	}

	reaction, err := a.reactions.Toggle(actor, service.ReactionInput{
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		Kind:       req.Kind,
	})
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	if reaction == nil {
		c.JSON(http.StatusOK, gin.H{"reaction": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reaction": reaction})
}

// GetReactions returns per-kind counts for an entity plus the viewer's
// own reaction when the request carries a valid token.
func (a *API) GetReactions(c *gin.Context) {
	entityType := c.Param("entityType")
	entityID, err := strconv.ParseUint(c.Param("entityId"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid entity id")
		return
	}

	summary, err := a.reactions.Summary(entityType, uint(entityID))
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	payload := gin.H{"summary": summary, "viewer_reaction": nil}
	if claims := currentClaims(c); claims != nil {
		viewer, err := a.reactions.UserReaction(claims.UserID, entityType, uint(entityID))
		if err != nil {
			a.respondServiceError(c, err)
			return
		}
		if viewer != nil {
			payload["viewer_reaction"] = viewer
		}
	}

	c.JSON(http.StatusOK, payload)
}
