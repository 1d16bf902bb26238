package handlers

import (
	"net/http"

	"canteen_manager/internal/middleware"
	"canteen_manager/internal/services"

	"github.com/gin-gonic/gin"
)

type MenuHandler struct {
	menu services.MenuService
}

func NewMenuHandler(menu services.MenuService) *MenuHandler {
	return &MenuHandler{menu: menu}
}

func (h *MenuHandler) List(c *gin.Context) {
	canteenID, ok := queryID(c, "canteen_id")
	if !ok {
		return
	}
	availableOnly, ok := queryBool(c, "available")
	if !ok {
		return
	}
	items, err := h.menu.ListMenu(c.Request.Context(), middleware.ActorFrom(c), services.MenuQuery{
		CanteenID:     canteenID,
		Category:      c.Query("category"),
		AvailableOnly: availableOnly,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *MenuHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.menu.GetMenuItem(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) Create(c *gin.Context) {
	var req services.MenuItemInput
	if !bind(c, &req) {
		return
	}
	item, err := h.menu.CreateMenuItem(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *MenuHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.MenuItemUpdate
	if !bind(c, &req) {
		return
	}
	item, err := h.menu.UpdateMenuItem(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) SetAvailability(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		IsAvailable *bool `json:"is_available" binding:"required"`
	}
	if !bind(c, &req) {
		return
	}
	item, err := h.menu.SetAvailability(c.Request.Context(), middleware.ActorFrom(c), id, *req.IsAvailable)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.menu.DeleteMenuItem(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
