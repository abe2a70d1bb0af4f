package handlers

import (
	"net/http"

	"invest_platform/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type depositRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string          `json:"payment_method" binding:"required"`
}

// CreateDeposit files a pending deposit claim for admin review.
func (h *Handler) CreateDeposit(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount and payment_method are required"})
		return
	}

	deposit, err := h.Ledger.RecordDeposit(c.Request.Context(), userID, req.Amount, domain.PaymentMethod(req.PaymentMethod))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, deposit)
}

// MyDeposits returns the caller's deposit history, newest first.
func (h *Handler) MyDeposits(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	deposits, err := h.Ledger.ListDeposits(c.Request.Context(), userID, listLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deposits": deposits})
}
