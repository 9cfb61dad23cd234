package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/tcg-tools/cardvault/internal/errs"
	"github.com/tcg-tools/cardvault/internal/model"
)

func TestCollectionRepo_AddAccumulate_ReturnsExistingRowID(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCollectionRepo(db)
	ctx := context.Background()

	userID := uuid.Must(uuid.NewV4())
	existing := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(`INSERT INTO user_collections .*ON CONFLICT \(user_id, card_id, condition\).*DO UPDATE SET quantity = user_collections\.quantity \+ EXCLUDED\.quantity.*RETURNING id`).
		WithArgs(pgxmock.AnyArg(), userID, "base1-4", 2, model.ConditionNearMint, "en").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(existing))

	id, err := r.AddAccumulate(ctx, userID, "base1-4", 2, model.ConditionNearMint, "en")
	require.NoError(t, err)
	require.Equal(t, existing, id)
}

func TestCollectionRepo_UpdateQuantity_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCollectionRepo(db)
	ctx := context.Background()

	userID := uuid.Must(uuid.NewV4())
	itemID := uuid.Must(uuid.NewV4())

	mock.ExpectExec(`UPDATE user_collections SET quantity=\$3 WHERE id=\$1 AND user_id=\$2`).
		WithArgs(itemID, userID, 3).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := r.UpdateQuantity(ctx, userID, itemID, 3)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestCollectionRepo_Delete(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCollectionRepo(db)
	ctx := context.Background()

	userID := uuid.Must(uuid.NewV4())
	itemID := uuid.Must(uuid.NewV4())

	mock.ExpectExec(`DELETE FROM user_collections WHERE id=\$1 AND user_id=\$2`).
		WithArgs(itemID, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, r.Delete(ctx, userID, itemID))

	mock.ExpectExec(`DELETE FROM user_collections WHERE id=\$1 AND user_id=\$2`).
		WithArgs(itemID, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	require.ErrorIs(t, r.Delete(ctx, userID, itemID), errs.ErrNotFound)
}

func TestCollectionRepo_ListByUser(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCollectionRepo(db)
	ctx := context.Background()

	userID := uuid.Must(uuid.NewV4())
	itemID := uuid.Must(uuid.NewV4())
	price := 12.5
	now := time.Now()

	cols := []string{
		"id", "user_id", "card_id", "quantity", "condition", "language",
		"is_holo", "is_first_edition", "is_shadowless", "is_reverse_holo",
		"purchase_price", "purchase_date", "purchase_location", "notes", "created_at",
	}
	mock.ExpectQuery(`SELECT .* FROM user_collections WHERE user_id=\$1 ORDER BY created_at DESC`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(itemID, userID, "base1-4", 3, model.ConditionNearMint, "en",
				true, false, false, false, &price, &now, "card shop", "binder 2", now))

	items, err := r.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "base1-4", items[0].CardID)
	require.Equal(t, 3, items[0].Quantity)
	require.True(t, items[0].IsHolo)
	require.NotNil(t, items[0].PurchasePrice)
	require.InDelta(t, 12.5, *items[0].PurchasePrice, 0.001)
}

func TestCollectionRepo_Stats(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCollectionRepo(db)
	ctx := context.Background()

	userID := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(`SELECT total_cards, unique_cards, total_value, sets_collected, completion_percentage FROM get_user_collection_stats\(\$1\)`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{
			"total_cards", "unique_cards", "total_value", "sets_collected", "completion_percentage",
		}).AddRow(42, 17, 310.25, 4, 12.5))

	st, err := r.Stats(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 42, st.TotalCards)
	require.Equal(t, 17, st.UniqueCards)
	require.InDelta(t, 310.25, st.TotalValue, 0.001)
	require.Equal(t, 4, st.SetsCollected)
}
