package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListUserAuditLogs returns the audit trail for one user.
// Users may read their own trail, admins may read anyone's.
func (a *API) ListUserAuditLogs(c *gin.Context) {
	claims := currentClaims(c)

	userID, err := parseUintParam(c, "userId")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	if claims == nil || (claims.UserID != userID && !claims.IsAdmin()) {
		respondError(c, http.StatusForbidden, "forbidden")
		return
	}

	result, err := a.audits.ListByUser(userID,
		parseIntQuery(c, "page", 1),
		parseIntQuery(c, "per_page", 0),
	)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": result.Logs, "pagination": result.Pagination})
}

// ListEntityAuditLogs returns the audit trail for one entity. Admin only.
func (a *API) ListEntityAuditLogs(c *gin.Context) {
	entityType := c.Param("entityType")

	entityID, err := parseUintParam(c, "entityId")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid entity id")
		return
	}

	result, err := a.audits.ListByEntity(entityType, entityID,
		parseIntQuery(c, "page", 1),
		parseIntQuery(c, "per_page", 0),
	)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": result.Logs, "pagination": result.Pagination})
}
