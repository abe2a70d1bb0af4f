package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Me returns the authenticated account together with its derived balance.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	account, err := h.AuthService.GetAccount(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	balance, err := h.Ledger.ComputeBalance(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":            account.ID,
			"email":         account.Email,
			"display_name":  account.DisplayName,
			"referral_code": account.ReferralCode,
			"role":          account.Role,
			"created_at":    account.CreatedAt,
		},
		"balance": balance,
	})
}

// Balance returns just the derived balance view.
func (h *Handler) Balance(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	balance, err := h.Ledger.ComputeBalance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}
