package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halloway/centavo/internal/model"
)

func TestDueLifecycle(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()
	profile := seedProfile(t, store)
	account := seedAccount(t, store, profile.ID, "Checking", "1000")

	due := &model.Due{
		ProfileID:          profile.ID,
		Name:               "Rent",
		Amount:             mustDecimal(t, "900"),
		Currency:           "USD",
		AccountID:          &account.ID,
		IsRecurring:        true,
		RecurrenceInterval: 1,
		RecurrenceUnit:     model.RecurrenceMonths,
	}

	id, err := store.CreateDue(ctx, due)
	require.NoError(t, err)
	require.Positive(t, id)

	t.Run("round trip preserves every field", func(t *testing.T) {
		got, err := store.GetDueByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Rent", got.Name)
		assert.True(t, got.Amount.Equal(mustDecimal(t, "900")))
		assert.True(t, got.IsRecurring)
		assert.Equal(t, 1, got.RecurrenceInterval)
		assert.Equal(t, model.RecurrenceMonths, got.RecurrenceUnit)
		require.NotNil(t, got.AccountID)
		assert.Equal(t, account.ID, *got.AccountID)
		assert.Nil(t, got.CardID)
		assert.Nil(t, got.LastPaymentDate)
	})

	t.Run("update rewrites the row", func(t *testing.T) {
		paid := dayMillis(t, "2026-04-01")
		due.Amount = mustDecimal(t, "950")
		due.LastPaymentDate = &paid
		require.NoError(t, store.UpdateDue(ctx, due))

		got, err := store.GetDueByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, got.Amount.Equal(mustDecimal(t, "950")))
		require.NotNil(t, got.LastPaymentDate)
		assert.Equal(t, paid, *got.LastPaymentDate)
	})

	t.Run("list returns the profile's dues", func(t *testing.T) {
		sourceless := &model.Due{
			ProfileID: profile.ID,
			Name:      "Gym",
			Amount:    mustDecimal(t, "30"),
			Currency:  "USD",
		}
		_, err := store.CreateDue(ctx, sourceless)
		require.NoError(t, err)

		dues, err := store.ListDues(ctx, profile.ID)
		require.NoError(t, err)
		assert.Len(t, dues, 2)
	})

	t.Run("delete removes the row", func(t *testing.T) {
		ok, err := store.DeleteDueByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, ok)

		got, err := store.GetDueByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, got)

		ok, err = store.DeleteDueByID(ctx, id)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestDueSourceClearedWhenAccountDeleted(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()
	profile := seedProfile(t, store)
	account := seedAccount(t, store, profile.ID, "Checking", "1000")

	due := &model.Due{
		ProfileID: profile.ID,
		Name:      "Insurance",
		Amount:    mustDecimal(t, "80"),
		Currency:  "USD",
		AccountID: &account.ID,
	}
	id, err := store.CreateDue(ctx, due)
	require.NoError(t, err)

	ok, err := store.DeleteAccountByID(ctx, account.ID)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := store.GetDueByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.AccountID)
	assert.False(t, got.HasFundingSource())
}
