package handlers

import (
	"net/http"

	"canteen_manager/internal/apperr"
	"canteen_manager/internal/middleware"
	"canteen_manager/internal/models"
	"canteen_manager/internal/repository"
	"canteen_manager/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users services.UserService
}

func NewUserHandler(users services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(c *gin.Context) {
	var filter repository.UserFilter
	if raw := c.Query("role"); raw != "" {
		role, ok := models.ParseRole(raw)
		if !ok {
			respondError(c, apperr.Validation("unknown role %q", raw))
			return
		}
		filter.Role = role
	}
	canteenID, ok := queryID(c, "canteen_id")
	if !ok {
		return
	}
	filter.CanteenID = canteenID

	users, err := h.users.ListUsers(c.Request.Context(), middleware.ActorFrom(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.users.GetUser(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req services.CreateUserInput
	if !bind(c, &req) {
		return
	}
	user, err := h.users.CreateUser(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.UpdateUserInput
	if !bind(c, &req) {
		return
	}
	user, err := h.users.UpdateUser(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.users.DeleteUser(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
