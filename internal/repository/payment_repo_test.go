package repository

import (
	"testing"
	"time"

	"avatarapp/internal/domain"
	"avatarapp/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Payment{}, &models.Patient{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestMarkCompletedFlipsPendingOnce(t *testing.T) {
	db := newRepoTestDB(t)
	repo := NewPaymentRepository(db)

	require.NoError(t, repo.Create(&models.Payment{
		UserID:         1,
		PlanCode:       "basic",
		AmountCents:    29900,
		Currency:       "PLN",
		Provider:       "stripe",
		ProviderRef:    "cs_test_123",
		Status:         domain.PaymentStatusPending,
		IdempotencyKey: "idem-1",
	}))

	p, completed, err := repo.MarkCompleted("cs_test_123", time.Now())
	require.NoError(t, err)
	assert.True(t, completed)
	assert.Equal(t, domain.PaymentStatusCompleted, p.Status)
	require.NotNil(t, p.CompletedAt)

	// Webhook retry: the second delivery must not count as a fresh
	// completion, or fulfillment side effects would run twice.
	_, completed, err = repo.MarkCompleted("cs_test_123", time.Now())
	require.NoError(t, err)
	assert.False(t, completed)
}

func TestMarkCompletedUnknownSession(t *testing.T) {
	db := newRepoTestDB(t)
	repo := NewPaymentRepository(db)

	_, completed, err := repo.MarkCompleted("cs_missing", time.Now())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.False(t, completed)
}

func TestMarkExpiredOnlyTouchesPending(t *testing.T) {
	db := newRepoTestDB(t)
	repo := NewPaymentRepository(db)

	require.NoError(t, repo.Create(&models.Payment{
		UserID: 1, PlanCode: "basic", AmountCents: 29900, Provider: "stripe",
		ProviderRef: "cs_a", Status: domain.PaymentStatusPending, IdempotencyKey: "k-a",
	}))
	_, _, err := repo.MarkCompleted("cs_a", time.Now())
	require.NoError(t, err)

	require.NoError(t, repo.MarkExpired("cs_a"))
	p, err := repo.GetByProviderRef("cs_a")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCompleted, p.Status)
}
