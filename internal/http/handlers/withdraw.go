package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type withdrawRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	WalletAddress string          `json:"wallet_address" binding:"required"`
	Notes         string          `json:"notes"`
}

// RequestWithdrawal reserves available funds for payout pending admin
// review.
func (h *Handler) RequestWithdrawal(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req withdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount and wallet_address are required"})
		return
	}

	withdrawal, err := h.Ledger.RequestWithdrawal(c.Request.Context(), userID, req.Amount, req.WalletAddress, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, withdrawal)
}

// MyWithdrawals returns the caller's withdrawal history, newest first.
func (h *Handler) MyWithdrawals(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	withdrawals, err := h.Ledger.ListWithdrawals(c.Request.Context(), userID, listLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"withdrawals": withdrawals})
}
