package repository

import (
	"context"
	"regexp"
	"testing"

	"campusmap/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestInteractionRepository_UpsertLikeUsesConflictUpdate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewInteractionRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT ("place_id","user_id") DO UPDATE SET "is_like"="excluded"."is_like"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "likes" WHERE place_id = $1 AND user_id = $2`)).
		WithArgs(3, 9, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "place_id", "user_id", "is_like"}).AddRow(7, 3, 9, false))

	like, err := repo.UpsertLike(context.Background(), 3, 9, false)
	require.NoError(t, err)
	assert.Equal(t, uint(7), like.ID)
	assert.False(t, like.IsLike)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceRepository_RankByLikesOuterJoinsLikes(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPlaceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`LEFT JOIN likes ON likes.place_id = places.id AND likes.is_like = $1 GROUP BY places.id, places.created_at ORDER BY like_count DESC, places.created_at DESC, places.id DESC`)).
		WithArgs(true, 3).
		WillReturnRows(sqlmock.NewRows([]string{"place_id", "like_count"}).
			AddRow(2, 5).
			AddRow(1, 5).
			AddRow(3, 0))

	ranked, err := repo.RankByLikes(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []RankedPlace{{2, 5}, {1, 5}, {3, 0}}, ranked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceRepository_DeleteOwnedScopesByOwner(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{"owner deletes", 1, true},
		{"missing or not owned", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewPlaceRepository(db)

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "places" WHERE id = $1 AND user_id = $2`)).
				WithArgs(4, 8).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))
			mock.ExpectCommit()

			deleted, err := repo.DeleteOwned(context.Background(), 4, 8)
			require.NoError(t, err)
			assert.Equal(t, tt.want, deleted)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEngagementRepository_CountsIssuesThreeQueries(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewEngagementRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "likes" WHERE place_id = $1 AND is_like = $2`)).
		WithArgs(5, true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "likes" WHERE place_id = $1 AND is_like = $2`)).
		WithArgs(5, false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "favorites" WHERE place_id = $1`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	counts, err := repo.Counts(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, models.EngagementCounts{LikeCount: 4, DislikeCount: 1, FavoriteCount: 2}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEngagementRepository_CountsWrapsErrors(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewEngagementRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "likes"`)).
		WillReturnError(assert.AnError)

	_, err := repo.Counts(context.Background(), 5)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeInternal))
}
