package handlers

import (
	"net/http"

	"canteen_manager/internal/middleware"
	"canteen_manager/internal/services"

	"github.com/gin-gonic/gin"
)

type CanteenHandler struct {
	canteens services.CanteenService
	orders   services.OrderService
}

func NewCanteenHandler(canteens services.CanteenService, orders services.OrderService) *CanteenHandler {
	return &CanteenHandler{canteens: canteens, orders: orders}
}

func (h *CanteenHandler) List(c *gin.Context) {
	canteens, err := h.canteens.ListCanteens(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"canteens": canteens})
}

func (h *CanteenHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	canteen, err := h.canteens.GetCanteen(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, canteen)
}

func (h *CanteenHandler) Rating(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	summary, err := h.orders.CanteenRating(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *CanteenHandler) Create(c *gin.Context) {
	var req services.CanteenInput
	if !bind(c, &req) {
		return
	}
	canteen, err := h.canteens.CreateCanteen(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, canteen)
}

func (h *CanteenHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.CanteenInput
	if !bind(c, &req) {
		return
	}
	canteen, err := h.canteens.UpdateCanteen(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, canteen)
}

func (h *CanteenHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.canteens.DeleteCanteen(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
