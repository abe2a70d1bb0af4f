package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReferralStats returns the caller's per-level referral aggregation.
func (h *Handler) ReferralStats(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	stats, err := h.Ledger.ReferralStats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// MyReferralEarnings returns the caller's referral income, newest first.
func (h *Handler) MyReferralEarnings(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	earnings, err := h.Ledger.ListReferralEarnings(c.Request.Context(), userID, listLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"earnings": earnings})
}
