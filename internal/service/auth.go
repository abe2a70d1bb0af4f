package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"invest_platform/internal/domain"
	"invest_platform/internal/logger"
	"invest_platform/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// AuthService registers accounts and issues session tokens.
type AuthService struct {
	accounts *repository.AccountRepository
	audit    *AuditService
}

func NewAuthService(db *pgxpool.Pool, audit *AuditService) *AuthService {
	return &AuthService{
		accounts: repository.NewAccountRepository(db),
		audit:    audit,
	}
}

// Register creates an account and returns it with a session token. An empty
// referral code means the user signed up without a referrer; a non-empty one
// must belong to an existing account.
func (s *AuthService) Register(ctx context.Context, email, password, displayName, referralCode string) (*domain.Account, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, "", fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	var referredBy *string
	if referralCode != "" {
		referrer, err := s.accounts.GetByReferralCode(ctx, referralCode)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, "", domain.ErrUnknownReferralCode
			}
			return nil, "", fmt.Errorf("lookup referrer: %w", err)
		}
		referredBy = &referrer.ReferralCode
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	account := &domain.Account{
		Email:          email,
		PasswordHash:   string(hash),
		DisplayName:    displayName,
		ReferredByCode: referredBy,
		Role:           domain.RoleMember,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, "", err
	}

	token, err := GenerateJWT(account.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	s.audit.Log(ctx, account.ID, domain.AuditActionRegister, domain.AuditCategoryAuth, map[string]interface{}{
		"email":    account.Email,
		"referred": referredBy != nil,
	})
	logger.Info("account registered", "user_id", account.ID, "referred", referredBy != nil)

	return account, token, nil
}

// Login checks credentials and returns the account with a fresh token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Account, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrIncorrectCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrIncorrectCredentials
	}

	token, err := GenerateJWT(account.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	s.audit.Log(ctx, account.ID, domain.AuditActionLogin, domain.AuditCategoryAuth, nil)

	return account, token, nil
}

// GetAccount loads an account by ID.
func (s *AuthService) GetAccount(ctx context.Context, userID int64) (*domain.Account, error) {
	return s.accounts.GetByID(ctx, userID)
}
