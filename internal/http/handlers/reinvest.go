package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type reinvestRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// CreateReinvestment converts available funds into a term position.
func (h *Handler) CreateReinvestment(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req reinvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount is required"})
		return
	}

	reinvestment, err := h.Ledger.Reinvest(c.Request.Context(), userID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reinvestment)
}

// MyReinvestments returns the caller's positions, maturity applied at read
// time.
func (h *Handler) MyReinvestments(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	reinvestments, err := h.Ledger.ListReinvestments(c.Request.Context(), userID, listLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reinvestments": reinvestments})
}
