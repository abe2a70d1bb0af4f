package handlers

import (
	"net/http"
	"strconv"

	"invest_platform/internal/domain"

	"github.com/gin-gonic/gin"
)

// AdminStats returns the platform summary.
func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.AdminService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// AdminUsers lists registered accounts.
func (h *Handler) AdminUsers(c *gin.Context) {
	accounts, err := h.AdminService.ListUsers(c.Request.Context(), listLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}

	users := make([]gin.H, 0, len(accounts))
	for _, a := range accounts {
		users = append(users, gin.H{
			"id":               a.ID,
			"email":            a.Email,
			"display_name":     a.DisplayName,
			"referral_code":    a.ReferralCode,
			"referred_by_code": a.ReferredByCode,
			"role":             a.Role,
			"created_at":       a.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// AdminDeposits returns the deposit review queue. ?status= filters; empty
// returns recent deposits across all states.
func (h *Handler) AdminDeposits(c *gin.Context) {
	status := domain.DepositStatus(c.Query("status"))
	deposits, err := h.AdminService.DepositQueue(c.Request.Context(), status, listLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deposits": deposits})
}

// AdminReviewDeposit approves or rejects a pending deposit.
func (h *Handler) AdminReviewDeposit(c *gin.Context) {
	account, ok := getAccount(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin only"})
		return
	}

	depositID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deposit id"})
		return
	}

	var req struct {
		Approve bool `json:"approve"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "approve flag is required"})
		return
	}

	ctx := c.Request.Context()
	if req.Approve {
		err = h.Ledger.ApproveDeposit(ctx, account, depositID)
	} else {
		err = h.Ledger.RejectDeposit(ctx, account, depositID)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// AdminWithdrawals returns the withdrawal review queue, oldest first.
func (h *Handler) AdminWithdrawals(c *gin.Context) {
	withdrawals, err := h.AdminService.WithdrawalQueue(c.Request.Context(), listLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": withdrawals})
}

// AdminReviewWithdrawal approves or rejects a pending withdrawal.
func (h *Handler) AdminReviewWithdrawal(c *gin.Context) {
	account, ok := getAccount(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin only"})
		return
	}

	withdrawalID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid withdrawal id"})
		return
	}

	var req struct {
		Approve bool `json:"approve"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "approve flag is required"})
		return
	}

	ctx := c.Request.Context()
	if req.Approve {
		err = h.Ledger.ApproveWithdrawal(ctx, account, withdrawalID)
	} else {
		err = h.Ledger.RejectWithdrawal(ctx, account, withdrawalID)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// AdminSettings lists platform settings.
func (h *Handler) AdminSettings(c *gin.Context) {
	settings, err := h.Ledger.ListSettings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// AdminUpdateSetting writes a platform setting. Existing reinvestments keep
// their frozen terms.
func (h *Handler) AdminUpdateSetting(c *gin.Context) {
	account, ok := getAccount(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin only"})
		return
	}

	var req struct {
		Key   string `json:"key" binding:"required"`
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key and value are required"})
		return
	}

	if err := h.Ledger.UpdatePlatformSetting(c.Request.Context(), account, req.Key, req.Value); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// AdminAuditLogs returns recent audit entries, optionally by category.
func (h *Handler) AdminAuditLogs(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		category = domain.AuditCategoryLedger
	}

	logs, err := h.AuditService.GetLogsByCategory(c.Request.Context(), category, listLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
