package handlers

import (
	"net/http"

	"github.com/omarch7/APIS-On-Rails/internal/serializers"
	"github.com/omarch7/APIS-On-Rails/internal/services"

	"github.com/gin-gonic/gin"
)

type orderCreateRequest struct {
	Order struct {
		ProductIDs []uint `json:"product_ids"`
		// Pairs of [product_id, quantity]; takes precedence over ProductIDs.
		ProductIDsAndQuantities [][]int `json:"product_ids_and_quantities"`
	} `json:"order"`
}

func (h *Handler) ListOrders(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	orders, err := h.orderService.List(userID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializers.Orders(orders))
}

func (h *Handler) ShowOrder(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"errors": "record not found"})
		return
	}

	order, err := h.orderService.Find(userID, id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializers.Order(order))
}

func (h *Handler) CreateOrder(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var req orderCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	var items []services.OrderItemDTO
	if len(req.Order.ProductIDsAndQuantities) > 0 {
		for _, pair := range req.Order.ProductIDsAndQuantities {
			if len(pair) == 0 || pair[0] <= 0 {
				continue
			}
			item := services.OrderItemDTO{ProductID: uint(pair[0])}
			if len(pair) > 1 {
				item.Quantity = pair[1]
			}
			items = append(items, item)
		}
	} else {
		for _, id := range req.Order.ProductIDs {
			items = append(items, services.OrderItemDTO{ProductID: id})
		}
	}

	order, err := h.orderService.Create(userID, items, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializers.Order(order))
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"errors": "record not found"})
		return
	}

	if err := h.orderService.Delete(userID, id, c.ClientIP(), c.Request.UserAgent()); err != nil {
		h.renderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
