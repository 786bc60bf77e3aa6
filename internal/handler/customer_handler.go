package handler

import (
	"net/http"

	"warung-pos/internal/services"
	"warung-pos/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CustomerHandler handles customer HTTP endpoints.
type CustomerHandler struct {
	customers *services.CustomerService
}

func NewCustomerHandler(customers *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req httpdto.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	result, err := h.customers.Create(c.Request.Context(), toCustomerInput(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(result))
}

func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.customers.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(customers))
}

func (h *CustomerHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("customerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid customer id", "INVALID_REQUEST"))
		return
	}
	result, err := h.customers.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(result))
}

func (h *CustomerHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("customerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid customer id", "INVALID_REQUEST"))
		return
	}

	var req httpdto.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	result, err := h.customers.Update(c.Request.Context(), id, toCustomerInput(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(result))
}

func (h *CustomerHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("customerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid customer id", "INVALID_REQUEST"))
		return
	}
	if err := h.customers.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "deleted"}))
}

func toCustomerInput(req httpdto.CustomerRequest) services.CustomerInput {
	return services.CustomerInput{
		Name:             req.Name,
		Phone:            req.Phone,
		Address:          req.Address,
		Notes:            req.Notes,
		DeliverySchedule: req.DeliverySchedule,
		IsRegular:        req.IsRegular,
	}
}
