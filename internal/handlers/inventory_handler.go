package handlers

import (
	"net/http"

	"canteen_manager/internal/middleware"
	"canteen_manager/internal/services"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventory services.InventoryService
}

func NewInventoryHandler(inventory services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

func (h *InventoryHandler) List(c *gin.Context) {
	canteenID, ok := queryID(c, "canteen_id")
	if !ok {
		return
	}
	items, err := h.inventory.ListInventory(c.Request.Context(), middleware.ActorFrom(c), canteenID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *InventoryHandler) LowStock(c *gin.Context) {
	canteenID, ok := queryID(c, "canteen_id")
	if !ok {
		return
	}
	items, err := h.inventory.GetLowStock(c.Request.Context(), middleware.ActorFrom(c), canteenID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *InventoryHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.inventory.GetInventoryItem(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) Create(c *gin.Context) {
	var req services.InventoryInput
	if !bind(c, &req) {
		return
	}
	item, err := h.inventory.CreateInventoryItem(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *InventoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.InventoryUpdate
	if !bind(c, &req) {
		return
	}
	item, err := h.inventory.UpdateInventoryItem(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) Adjust(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Delta float64 `json:"delta"`
	}
	if !bind(c, &req) {
		return
	}
	item, err := h.inventory.AdjustQuantity(c.Request.Context(), middleware.ActorFrom(c), id, req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.inventory.DeleteInventoryItem(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
