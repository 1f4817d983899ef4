package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aam9063/dogwalk/internal/apperr"
	"github.com/aam9063/dogwalk/internal/model"
)

// Thin CRUD over the collaborator records (users, dogs, catalog). No booking
// invariants live here.

type registerUserRequest struct {
	Email       string     `json:"email" binding:"required,email"`
	DisplayName string     `json:"display_name" binding:"required"`
	Role        model.Role `json:"role" binding:"required"`
}

func (a *API) registerUser(c *gin.Context) {
	var req registerUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.respondError(c, apperr.Validation("invalid request body: %v", err))
		return
	}
	if req.Role != model.RoleOwner && req.Role != model.RoleWalker {
		a.respondError(c, apperr.Validation("role must be owner or walker"))
		return
	}

	user := &model.User{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        req.Role,
	}
	if err := a.users.Create(c.Request.Context(), user); err != nil {
		a.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

type createDogRequest struct {
	Name  string `json:"name" binding:"required"`
	Breed string `json:"breed"`
}

func (a *API) createDog(c *gin.Context) {
	principal := principalFrom(c)
	if principal.Role != model.RoleOwner {
		a.respondError(c, apperr.Authorization("only dog owners may register dogs"))
		return
	}

	var req createDogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.respondError(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	dog := &model.Dog{
		OwnerID: principal.UserID,
		Name:    req.Name,
		Breed:   req.Breed,
	}
	if err := a.dogs.Create(c.Request.Context(), dog); err != nil {
		a.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"dog": dog})
}

func (a *API) listDogs(c *gin.Context) {
	principal := principalFrom(c)

	dogs, err := a.dogs.ListByOwner(c.Request.Context(), principal.UserID)
	if err != nil {
		a.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dogs": dogs})
}

type createServiceRequest struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes" binding:"required"`
}

func (a *API) createService(c *gin.Context) {
	if !principalFrom(c).IsAdmin() {
		a.respondError(c, apperr.Authorization("only admins may manage the catalog"))
		return
	}

	var req createServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.respondError(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	svc := &model.WalkService{
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
	}
	if err := a.services.Create(c.Request.Context(), svc); err != nil {
		a.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"service": svc})
}

func (a *API) listServices(c *gin.Context) {
	services, err := a.services.List(c.Request.Context())
	if err != nil {
		a.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"services": services})
}
