package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halloway/centavo/internal/model"
)

func TestAccountLifecycle(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()
	profile := seedProfile(t, store)

	t.Run("create assigns dense display order", func(t *testing.T) {
		a := seedAccount(t, store, profile.ID, "Checking", "100")
		b := seedAccount(t, store, profile.ID, "Savings", "2500")

		assert.Equal(t, 0, a.DisplayOrder)
		assert.Equal(t, 1, b.DisplayOrder)
	})

	t.Run("list follows display order", func(t *testing.T) {
		accounts, err := store.ListAccounts(ctx, profile.ID)
		require.NoError(t, err)
		require.Len(t, accounts, 2)
		assert.Equal(t, "Checking", accounts[0].Name)
		assert.Equal(t, "Savings", accounts[1].Name)
	})

	t.Run("update rewrites the row", func(t *testing.T) {
		accounts, err := store.ListAccounts(ctx, profile.ID)
		require.NoError(t, err)

		accounts[0].Balance = mustDecimal(t, "75.25")
		accounts[0].IsDefault = true
		ok, err := store.UpdateAccount(ctx, &accounts[0])
		require.NoError(t, err)
		assert.True(t, ok)

		got, err := store.GetAccountByID(ctx, accounts[0].ID)
		require.NoError(t, err)
		assert.True(t, got.Balance.Equal(mustDecimal(t, "75.25")))
		assert.True(t, got.IsDefault)
	})

	t.Run("update of a missing row reports false", func(t *testing.T) {
		ghost := &model.Account{ID: 9999, ProfileID: profile.ID, Name: "Ghost", Currency: "USD"}
		ok, err := store.UpdateAccount(ctx, ghost)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestReorderAccounts(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()
	profile := seedProfile(t, store)

	a := seedAccount(t, store, profile.ID, "A", "0")
	b := seedAccount(t, store, profile.ID, "B", "0")
	c := seedAccount(t, store, profile.ID, "C", "0")

	t.Run("full permutation is applied", func(t *testing.T) {
		require.NoError(t, store.ReorderAccounts(ctx, profile.ID, []int64{c.ID, a.ID, b.ID}))

		accounts, err := store.ListAccounts(ctx, profile.ID)
		require.NoError(t, err)
		assert.Equal(t, "C", accounts[0].Name)
		assert.Equal(t, "A", accounts[1].Name)
		assert.Equal(t, "B", accounts[2].Name)
	})

	t.Run("partial set is rejected", func(t *testing.T) {
		err := store.ReorderAccounts(ctx, profile.ID, []int64{a.ID, b.ID})
		assert.Error(t, err)
	})

	t.Run("foreign id is rejected", func(t *testing.T) {
		err := store.ReorderAccounts(ctx, profile.ID, []int64{a.ID, b.ID, 9999})
		assert.Error(t, err)
	})
}

func TestDeleteAccountCompactsOrderAndCascades(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()
	profile := seedProfile(t, store)

	a := seedAccount(t, store, profile.ID, "A", "100")
	b := seedAccount(t, store, profile.ID, "B", "100")
	c := seedAccount(t, store, profile.ID, "C", "100")

	expense := seedExpense(t, store, model.Expense{
		ProfileID: profile.ID,
		Title:     "Funded by B",
		Amount:    mustDecimal(t, "10"),
		IsSend:    true,
		AccountID: &b.ID,
	})

	ok, err := store.DeleteAccountByID(ctx, b.ID)
	require.NoError(t, err)
	require.True(t, ok)

	accounts, err := store.ListAccounts(ctx, profile.ID)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, a.ID, accounts[0].ID)
	assert.Equal(t, 0, accounts[0].DisplayOrder)
	assert.Equal(t, c.ID, accounts[1].ID)
	assert.Equal(t, 1, accounts[1].DisplayOrder)

	// The funded expense cascades away with its account.
	got, err := store.GetExpenseByID(ctx, expense.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting again reports false.
	ok, err = store.DeleteAccountByID(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCardLifecycle(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()
	profile := seedProfile(t, store)

	card := seedCard(t, store, profile.ID, "Visa", "300")

	got, err := store.GetCardByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, "Visa", got.Name)
	assert.Equal(t, "12/28", got.Expiry)
	assert.Equal(t, "4242", got.LastFourDigits)
	assert.True(t, got.Balance.Equal(mustDecimal(t, "300")))

	got.Balance = mustDecimal(t, "150.50")
	ok, err := store.UpdateCard(ctx, got)
	require.NoError(t, err)
	require.True(t, ok)

	again, err := store.GetCardByID(ctx, card.ID)
	require.NoError(t, err)
	assert.True(t, again.Balance.Equal(mustDecimal(t, "150.50")))

	ok, err = store.DeleteCardByID(ctx, card.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	cards, err := store.ListCards(ctx, profile.ID)
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestCategoryLifecycle(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()
	profile := seedProfile(t, store)

	food := seedCategory(t, store, profile.ID, "Food")
	travel := seedCategory(t, store, profile.ID, "Travel")

	account := seedAccount(t, store, profile.ID, "Checking", "100")
	expense := seedExpense(t, store, model.Expense{
		ProfileID:  profile.ID,
		Title:      "Lunch",
		Amount:     mustDecimal(t, "9"),
		IsSend:     true,
		AccountID:  &account.ID,
		CategoryID: &food.ID,
	})

	require.NoError(t, store.ReorderCategories(ctx, profile.ID, []int64{travel.ID, food.ID}))
	categories, err := store.ListCategories(ctx, profile.ID)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Travel", categories[0].Name)

	ok, err := store.DeleteCategoryByID(ctx, food.ID)
	require.NoError(t, err)
	require.True(t, ok)

	// The expense survives; its category reference is cleared.
	got, err := store.GetExpenseByID(ctx, expense.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.CategoryID)
}
