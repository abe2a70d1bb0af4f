package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"invest_platform/internal/domain"
	"invest_platform/internal/service"
	"invest_platform/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB           *pgxpool.Pool
	AuthService  *service.AuthService
	Ledger       *service.LedgerService
	AdminService *service.AdminService
	AuditService *service.AuditService
	Hub          *ws.Hub
}

func NewHandler(db *pgxpool.Pool, hub *ws.Hub) *Handler {
	audit := service.NewAuditService(db)
	return &Handler{
		DB:           db,
		AuthService:  service.NewAuthService(db, audit),
		Ledger:       service.NewLedgerService(db, audit, hub),
		AdminService: service.NewAdminService(db),
		AuditService: audit,
		Hub:          hub,
	}
}

// getUserID extracts the authenticated user id set by the JWT middleware.
func getUserID(c *gin.Context) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// getAccount extracts the account loaded by the RequireAdmin middleware.
func getAccount(c *gin.Context) (*domain.Account, bool) {
	val, ok := c.Get("account")
	if !ok {
		return nil, false
	}
	account, ok := val.(*domain.Account)
	return account, ok
}

// respondError maps domain errors onto HTTP status codes. Anything not a
// known sentinel is a 500 with a generic body; the detail stays server-side.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrUnknownReferralCode),
		errors.Is(err, domain.ErrUnknownSettingKey):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrIncorrectCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAdminOnly):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInsufficientFunds):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func listLimit(c *gin.Context) int {
	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	return limit
}
