package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkline/internal/service"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
	Bio      string `json:"bio"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type profileUpdateRequest struct {
	Name           *string `json:"name"`
	Phone          *string `json:"phone"`
	Bio            *string `json:"bio"`
	ProfilePicture *string `json:"profile_picture"`
}

// Register creates an account and returns the user with a signed token.
func (a *API) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req, "name, email and a password of at least 8 characters are required") {
		return
	}

	user, token, err := a.users.Register(service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Bio:      req.Bio,
	})
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

// Login exchanges credentials for a bearer token.
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req, "email and password are required") {
		return
	}

	user, token, err := a.users.Login(req.Email, req.Password)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// Me returns the authenticated user's profile.
func (a *API) Me(c *gin.Context) {
	actor := currentActor(c)

	user, err := a.users.Get(actor.ID)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateMe applies a partial profile update to the authenticated user.
func (a *API) UpdateMe(c *gin.Context) {
	actor := currentActor(c)

	var req profileUpdateRequest
	if !bindJSON(c, &req, "invalid profile payload") {
		return
	}

	user, err := a.users.UpdateProfile(actor.ID, actor, service.ProfileUpdateInput{
		Name:           req.Name,
		Phone:          req.Phone,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GetUser returns a user's public profile.
func (a *API) GetUser(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := a.users.Get(id)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
