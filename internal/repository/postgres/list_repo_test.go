package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/tcg-tools/cardvault/internal/errs"
	"github.com/tcg-tools/cardvault/internal/model"
)

func TestWishlistRepo_Add_OK_and_Duplicate(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewWishlistRepo(db)
	ctx := context.Background()

	userID := uuid.Must(uuid.NewV4())
	e := &model.WishlistEntry{
		UserID:             userID,
		CardID:             "base1-4",
		Priority:           5,
		PreferredCondition: model.ConditionNearMint,
		PreferredLanguage:  "en",
	}

	created := time.Now()
	mock.ExpectQuery(`INSERT INTO user_wishlists`).
		WithArgs(pgxmock.AnyArg(), userID, e.CardID, 5, e.MaxPrice, e.PreferredCondition, "en", "").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(created))
	require.NoError(t, r.Add(ctx, e))
	require.NotEqual(t, uuid.Nil, e.ID)
	require.Equal(t, created, e.CreatedAt)

	mock.ExpectQuery(`INSERT INTO user_wishlists`).
		WithArgs(pgxmock.AnyArg(), userID, e.CardID, 5, e.MaxPrice, e.PreferredCondition, "en", "").
		WillReturnError(&pgconn.PgError{Code: "23505"})
	require.ErrorIs(t, r.Add(ctx, e), errs.ErrAlreadyExists)
}

func TestWishlistRepo_ListByUser(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewWishlistRepo(db)
	ctx := context.Background()

	userID := uuid.Must(uuid.NewV4())
	id := uuid.Must(uuid.NewV4())
	maxPrice := 99.5
	mock.ExpectQuery(`SELECT id, user_id, card_id, priority, max_price, preferred_condition, preferred_language, notes, created_at FROM user_wishlists WHERE user_id=\$1 ORDER BY priority DESC, created_at DESC`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "card_id", "priority", "max_price",
			"preferred_condition", "preferred_language", "notes", "created_at",
		}).AddRow(id, userID, "base1-4", 5, &maxPrice, model.ConditionMint, "en", "grail", time.Now()))

	got, err := r.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "base1-4", got[0].CardID)
	require.NotNil(t, got[0].MaxPrice)
	require.Equal(t, 99.5, *got[0].MaxPrice)
}

func TestWishlistRepo_Delete_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewWishlistRepo(db)
	ctx := context.Background()

	userID := uuid.Must(uuid.NewV4())
	id := uuid.Must(uuid.NewV4())
	mock.ExpectExec(`DELETE FROM user_wishlists WHERE id=\$1 AND user_id=\$2`).
		WithArgs(id, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	require.ErrorIs(t, r.Delete(ctx, userID, id), errs.ErrNotFound)
}

func TestWatchlistRepo_Add_and_List(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewWatchlistRepo(db)
	ctx := context.Background()

	userID := uuid.Must(uuid.NewV4())
	e := &model.WatchlistEntry{
		UserID:      userID,
		CardID:      "base1-4",
		TargetPrice: 120,
		Condition:   model.ConditionNearMint,
		Active:      true,
	}
	mock.ExpectQuery(`INSERT INTO user_watchlists`).
		WithArgs(pgxmock.AnyArg(), userID, e.CardID, 120.0, e.Condition, true).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	require.NoError(t, r.Add(ctx, e))
	require.NotEqual(t, uuid.Nil, e.ID)

	id := uuid.Must(uuid.NewV4())
	mock.ExpectQuery(`SELECT id, user_id, card_id, target_price, condition, is_active, created_at FROM user_watchlists WHERE user_id=\$1 ORDER BY created_at DESC`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "card_id", "target_price", "condition", "is_active", "created_at",
		}).AddRow(id, userID, "base1-4", 120.0, model.ConditionNearMint, true, time.Now()))

	got, err := r.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.True(t, got[0].Active)
	require.Equal(t, 120.0, got[0].TargetPrice)
}

func TestWatchlistRepo_Delete_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewWatchlistRepo(db)
	ctx := context.Background()

	userID := uuid.Must(uuid.NewV4())
	id := uuid.Must(uuid.NewV4())
	mock.ExpectExec(`DELETE FROM user_watchlists WHERE id=\$1 AND user_id=\$2`).
		WithArgs(id, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, r.Delete(ctx, userID, id))
	require.NoError(t, mock.ExpectationsWereMet())
}
