package handler

import (
	"net/http"
	"strconv"
	"time"

	"warung-pos/internal/services"
	"warung-pos/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransactionHandler handles checkout and transaction HTTP endpoints.
type TransactionHandler struct {
	transactions *services.TransactionService
}

func NewTransactionHandler(transactions *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// Checkout runs the sale.
func (h *TransactionHandler) Checkout(c *gin.Context) {
	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	var req httpdto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	in := services.CheckoutInput{
		UserID:          userID,
		TransactionType: req.TransactionType,
		PaymentMethod:   req.PaymentMethod,
		Discount:        req.Discount,
		DeliveryFee:     req.DeliveryFee,
		PaidAmount:      req.PaidAmount,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
	}
	if req.CustomerID != "" {
		customerID, err := uuid.Parse(req.CustomerID)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid customer id", "INVALID_REQUEST"))
			return
		}
		in.CustomerID = &customerID
	}
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid product id", "INVALID_REQUEST"))
			return
		}
		in.Items = append(in.Items, services.CheckoutItem{
			ProductID: productID,
			Quantity:  item.Quantity,
			Discount:  item.Discount,
		})
	}

	detail, err := h.transactions.Checkout(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(detail))
}

// List returns recent transactions; ?date=YYYY-MM-DD filters to one day.
func (h *TransactionHandler) List(c *gin.Context) {
	if date := c.Query("date"); date != "" {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid date", "INVALID_REQUEST"))
			return
		}
		transactions, err := h.transactions.ListByDate(c.Request.Context(), day)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(transactions))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	transactions, err := h.transactions.List(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(transactions))
}

func (h *TransactionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("transactionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid transaction id", "INVALID_REQUEST"))
		return
	}
	detail, err := h.transactions.GetDetail(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(detail))
}

// Complete settles a pending tempo transaction.
func (h *TransactionHandler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("transactionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid transaction id", "INVALID_REQUEST"))
		return
	}

	var req httpdto.CompletePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	t, err := h.transactions.CompletePayment(c.Request.Context(), id, req.PaidAmount)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(t))
}
