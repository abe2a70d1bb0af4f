package integration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"invest_platform/internal/domain"
	"invest_platform/internal/repository"
	"invest_platform/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)
	applyMigrations(t, db)
	return db
}

func createAccount(t *testing.T, repo *repository.AccountRepository, role domain.Role, referredBy *string) *domain.Account {
	t.Helper()
	a := &domain.Account{
		Email:          fmt.Sprintf("user%d@example.com", time.Now().UnixNano()),
		PasswordHash:   "x",
		ReferredByCode: referredBy,
		Role:           role,
	}
	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("create account: %v", err)
	}
	return a
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLedgerLifecycle(t *testing.T) {
	db := testPool(t)
	ctx := context.Background()

	accounts := repository.NewAccountRepository(db)
	audit := service.NewAuditService(db)
	ledger := service.NewLedgerService(db, audit, nil)

	admin := createAccount(t, accounts, domain.RoleAdmin, nil)
	grandReferrer := createAccount(t, accounts, domain.RoleMember, nil)
	referrer := createAccount(t, accounts, domain.RoleMember, &grandReferrer.ReferralCode)
	investor := createAccount(t, accounts, domain.RoleMember, &referrer.ReferralCode)

	// below the minimum is rejected
	if _, err := ledger.RecordDeposit(ctx, investor.ID, dec("5"), domain.PaymentBankTransfer); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("tiny deposit error = %v, want ErrValidation", err)
	}

	dep, err := ledger.RecordDeposit(ctx, investor.ID, dec("500"), domain.PaymentBankTransfer)
	if err != nil {
		t.Fatalf("record deposit: %v", err)
	}

	// pending deposits count toward nothing
	bal, err := ledger.ComputeBalance(ctx, investor.ID)
	if err != nil {
		t.Fatalf("compute balance: %v", err)
	}
	if !bal.Available.IsZero() {
		t.Fatalf("available before approval = %s, want 0", bal.Available)
	}

	// non-admin cannot review
	if err := ledger.ApproveDeposit(ctx, investor, dep.ID); !errors.Is(err, domain.ErrAdminOnly) {
		t.Fatalf("member approval error = %v, want ErrAdminOnly", err)
	}

	if err := ledger.ApproveDeposit(ctx, admin, dep.ID); err != nil {
		t.Fatalf("approve deposit: %v", err)
	}

	// second review of the same deposit must fail
	if err := ledger.ApproveDeposit(ctx, admin, dep.ID); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("double approval error = %v, want ErrInvalidState", err)
	}
	if err := ledger.RejectDeposit(ctx, admin, dep.ID); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("reject after approve error = %v, want ErrInvalidState", err)
	}

	bal, err = ledger.ComputeBalance(ctx, investor.ID)
	if err != nil {
		t.Fatalf("compute balance: %v", err)
	}
	if !bal.Available.Equal(dec("500")) {
		t.Fatalf("available after approval = %s, want 500", bal.Available)
	}
	if !bal.Total.Equal(dec("500")) {
		t.Fatalf("total after approval = %s, want 500", bal.Total)
	}

	// referral commissions landed with the approval
	refBal, err := ledger.ComputeBalance(ctx, referrer.ID)
	if err != nil {
		t.Fatalf("compute referrer balance: %v", err)
	}
	if !refBal.ReferralEarnings.Equal(dec("50")) {
		t.Fatalf("level 1 commission = %s, want 50", refBal.ReferralEarnings)
	}
	grandBal, err := ledger.ComputeBalance(ctx, grandReferrer.ID)
	if err != nil {
		t.Fatalf("compute grand referrer balance: %v", err)
	}
	if !grandBal.ReferralEarnings.Equal(dec("25")) {
		t.Fatalf("level 2 commission = %s, want 25", grandBal.ReferralEarnings)
	}

	// reinvest the full amount: availability drains, total holds
	ri, err := ledger.Reinvest(ctx, investor.ID, dec("500"))
	if err != nil {
		t.Fatalf("reinvest: %v", err)
	}
	if !ri.BonusAmount.Equal(dec("50")) {
		t.Fatalf("bonus = %s, want 50", ri.BonusAmount)
	}

	bal, err = ledger.ComputeBalance(ctx, investor.ID)
	if err != nil {
		t.Fatalf("compute balance: %v", err)
	}
	if !bal.Available.IsZero() {
		t.Fatalf("available after reinvest = %s, want 0", bal.Available)
	}
	if !bal.Total.Equal(dec("500")) {
		t.Fatalf("total after reinvest = %s, want 500", bal.Total)
	}

	// nothing left to spend
	if _, err := ledger.Reinvest(ctx, investor.ID, dec("1")); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("overdraw error = %v, want ErrInsufficientFunds", err)
	}
}

func TestWithdrawalReservation(t *testing.T) {
	db := testPool(t)
	ctx := context.Background()

	accounts := repository.NewAccountRepository(db)
	audit := service.NewAuditService(db)
	ledger := service.NewLedgerService(db, audit, nil)

	admin := createAccount(t, accounts, domain.RoleAdmin, nil)
	user := createAccount(t, accounts, domain.RoleMember, nil)

	dep, err := ledger.RecordDeposit(ctx, user.ID, dec("100"), domain.PaymentBMLCard)
	if err != nil {
		t.Fatalf("record deposit: %v", err)
	}
	if err := ledger.ApproveDeposit(ctx, admin, dep.ID); err != nil {
		t.Fatalf("approve deposit: %v", err)
	}

	const wallet = "MVR0000111122223333444455"

	w, err := ledger.RequestWithdrawal(ctx, user.ID, dec("60"), wallet, "")
	if err != nil {
		t.Fatalf("request withdrawal: %v", err)
	}

	// the pending request holds the funds
	bal, err := ledger.ComputeBalance(ctx, user.ID)
	if err != nil {
		t.Fatalf("compute balance: %v", err)
	}
	if !bal.Available.Equal(dec("40")) {
		t.Fatalf("available with reservation = %s, want 40", bal.Available)
	}

	if _, err := ledger.RequestWithdrawal(ctx, user.ID, dec("50"), wallet, ""); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("over-reserve error = %v, want ErrInsufficientFunds", err)
	}

	// short wallet addresses are rejected before touching the ledger
	if _, err := ledger.RequestWithdrawal(ctx, user.ID, dec("10"), "short", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("short address error = %v, want ErrValidation", err)
	}

	// rejection releases the reservation
	if err := ledger.RejectWithdrawal(ctx, admin, w.ID); err != nil {
		t.Fatalf("reject withdrawal: %v", err)
	}
	if err := ledger.ApproveWithdrawal(ctx, admin, w.ID); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("review after reject error = %v, want ErrInvalidState", err)
	}

	bal, err = ledger.ComputeBalance(ctx, user.ID)
	if err != nil {
		t.Fatalf("compute balance: %v", err)
	}
	if !bal.Available.Equal(dec("100")) {
		t.Fatalf("available after rejection = %s, want 100", bal.Available)
	}

	// approval keeps the deduction permanent
	w2, err := ledger.RequestWithdrawal(ctx, user.ID, dec("30"), wallet, "rent")
	if err != nil {
		t.Fatalf("request withdrawal: %v", err)
	}
	if err := ledger.ApproveWithdrawal(ctx, admin, w2.ID); err != nil {
		t.Fatalf("approve withdrawal: %v", err)
	}
	bal, err = ledger.ComputeBalance(ctx, user.ID)
	if err != nil {
		t.Fatalf("compute balance: %v", err)
	}
	if !bal.Available.Equal(dec("70")) {
		t.Fatalf("available after approved payout = %s, want 70", bal.Available)
	}
}

func TestConcurrentReinvest_OnlyOneWins(t *testing.T) {
	db := testPool(t)
	ctx := context.Background()

	accounts := repository.NewAccountRepository(db)
	audit := service.NewAuditService(db)
	ledger := service.NewLedgerService(db, audit, nil)

	admin := createAccount(t, accounts, domain.RoleAdmin, nil)
	user := createAccount(t, accounts, domain.RoleMember, nil)

	dep, err := ledger.RecordDeposit(ctx, user.ID, dec("500"), domain.PaymentMIBTransfer)
	if err != nil {
		t.Fatalf("record deposit: %v", err)
	}
	if err := ledger.ApproveDeposit(ctx, admin, dep.ID); err != nil {
		t.Fatalf("approve deposit: %v", err)
	}

	// two racing reinvestments of 300 against 500 available: the account
	// row lock serializes them and the loser must see insufficient funds
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ledger.Reinvest(ctx, user.ID, dec("300"))
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientFunds):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || insufficient != 1 {
		t.Fatalf("got %d successes and %d insufficient-funds, want exactly 1 of each", ok, insufficient)
	}

	bal, err := ledger.ComputeBalance(ctx, user.ID)
	if err != nil {
		t.Fatalf("compute balance: %v", err)
	}
	if !bal.Available.Equal(dec("200")) {
		t.Fatalf("available after race = %s, want 200", bal.Available)
	}
	if !bal.Total.Equal(dec("500")) {
		t.Fatalf("total after race = %s, want 500", bal.Total)
	}
}

func TestPlatformSettingsChangeFutureTermsOnly(t *testing.T) {
	db := testPool(t)
	ctx := context.Background()

	accounts := repository.NewAccountRepository(db)
	audit := service.NewAuditService(db)
	ledger := service.NewLedgerService(db, audit, nil)

	admin := createAccount(t, accounts, domain.RoleAdmin, nil)
	user := createAccount(t, accounts, domain.RoleMember, nil)

	dep, err := ledger.RecordDeposit(ctx, user.ID, dec("200"), domain.PaymentBankTransfer)
	if err != nil {
		t.Fatalf("record deposit: %v", err)
	}
	if err := ledger.ApproveDeposit(ctx, admin, dep.ID); err != nil {
		t.Fatalf("approve deposit: %v", err)
	}

	if err := ledger.UpdatePlatformSetting(ctx, admin, domain.SettingReinvestmentBonusPercentage, "20"); err != nil {
		t.Fatalf("update setting: %v", err)
	}
	// restore the default afterwards, other tests read the same table
	defer func() {
		if err := ledger.UpdatePlatformSetting(ctx, admin, domain.SettingReinvestmentBonusPercentage, "10"); err != nil {
			t.Errorf("restore setting: %v", err)
		}
	}()

	ri, err := ledger.Reinvest(ctx, user.ID, dec("100"))
	if err != nil {
		t.Fatalf("reinvest: %v", err)
	}
	if !ri.BonusAmount.Equal(dec("20")) {
		t.Fatalf("bonus at 20%% = %s, want 20", ri.BonusAmount)
	}
	if !ri.BonusPercentage.Equal(dec("20")) {
		t.Fatalf("frozen percentage = %s, want 20", ri.BonusPercentage)
	}

	if err := ledger.UpdatePlatformSetting(ctx, user, domain.SettingMinimumDeposit, "50"); !errors.Is(err, domain.ErrAdminOnly) {
		t.Fatalf("member setting update error = %v, want ErrAdminOnly", err)
	}
	if err := ledger.UpdatePlatformSetting(ctx, admin, "unknown_key", "1"); !errors.Is(err, domain.ErrUnknownSettingKey) {
		t.Fatalf("unknown key error = %v, want ErrUnknownSettingKey", err)
	}
}
