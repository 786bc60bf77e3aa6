package handler

import (
	"net/http"

	"warung-pos/internal/services"
	"warung-pos/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductHandler handles product catalog HTTP endpoints.
type ProductHandler struct {
	products *services.ProductService
}

func NewProductHandler(products *services.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req httpdto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	p, err := h.products.Create(c.Request.Context(), toProductInput(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(p))
}

// List returns products; ?all=true includes deactivated ones, ?q= searches.
func (h *ProductHandler) List(c *gin.Context) {
	if q := c.Query("q"); q != "" {
		products, err := h.products.Search(c.Request.Context(), q)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(products))
		return
	}

	activeOnly := c.Query("all") != "true"
	products, err := h.products.List(c.Request.Context(), activeOnly)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(products))
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid product id", "INVALID_REQUEST"))
		return
	}
	p, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(p))
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid product id", "INVALID_REQUEST"))
		return
	}

	var req httpdto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	p, err := h.products.Update(c.Request.Context(), id, toProductInput(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(p))
}

func (h *ProductHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid product id", "INVALID_REQUEST"))
		return
	}
	if err := h.products.Deactivate(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "deactivated"}))
}

func (h *ProductHandler) Restock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid product id", "INVALID_REQUEST"))
		return
	}

	var req httpdto.RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	p, err := h.products.Restock(c.Request.Context(), id, req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(p))
}

func (h *ProductHandler) LowStock(c *gin.Context) {
	products, err := h.products.LowStock(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(products))
}

func toProductInput(req httpdto.ProductRequest) services.ProductInput {
	return services.ProductInput{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		CostPrice:   req.CostPrice,
		Stock:       req.Stock,
		MinStock:    req.MinStock,
		Unit:        req.Unit,
	}
}
