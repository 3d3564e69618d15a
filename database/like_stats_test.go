package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (Querier, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestTotalLikesEmptyInputIssuesNoQuery(t *testing.T) {
	db, mock := newMockDB(t)

	counts, err := TotalLikes(context.Background(), db, nil)
	require.NoError(t, err)
	assert.Empty(t, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTotalLikesGroupsByImage(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT image_id, COUNT\(id\) FROM likes WHERE image_id IN \(\?,\?,\?\) GROUP BY image_id`).
		WithArgs(1, 2, 3).
		WillReturnRows(sqlmock.NewRows([]string{"image_id", "count"}).
			AddRow(int64(1), int64(4)).
			AddRow(int64(3), int64(1)))

	counts, err := TotalLikes(context.Background(), db, []uint{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int64{1: 4, 3: 1}, counts)
	_, hasTwo := counts[2]
	assert.False(t, hasTwo, "images without likes must be absent")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTotalLikesPropagatesQueryError(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`FROM likes`).WillReturnError(errors.New("disk I/O error"))

	_, err := TotalLikes(context.Background(), db, []uint{7})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")
}

func TestLikedByUserShortCircuits(t *testing.T) {
	tests := []struct {
		name     string
		ids      []uint
		userHash string
	}{
		{name: "no ids", ids: nil, userHash: "u1"},
		{name: "blank hash", ids: []uint{1, 2}, userHash: ""},
		{name: "whitespace hash", ids: []uint{1}, userHash: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)

			liked, err := LikedByUser(context.Background(), db, tt.ids, tt.userHash)
			require.NoError(t, err)
			assert.Empty(t, liked)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLikedByUserReturnsSubset(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT image_id FROM likes WHERE image_id IN \(\?,\?\) AND user_hash = \?`).
		WithArgs(10, 11, "u1").
		WillReturnRows(sqlmock.NewRows([]string{"image_id"}).AddRow(int64(11)))

	liked, err := LikedByUser(context.Background(), db, []uint{10, 11}, "u1")
	require.NoError(t, err)
	assert.Equal(t, map[uint]struct{}{11: {}}, liked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrendingScoreScopesToWindow(t *testing.T) {
	db, mock := newMockDB(t)
	windowStart := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(id\) FROM likes WHERE image_id = \? AND created_at >= \?`).
		WithArgs(5, windowStart).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))

	score, err := TrendingScore(context.Background(), db, 5, windowStart)
	require.NoError(t, err)
	assert.Equal(t, int64(2), score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrendingScoreSubqueryIsCorrelated(t *testing.T) {
	windowStart := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)

	sqlStr, args, err := TrendingScoreSubquery(windowStart).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(likes.id) FROM likes WHERE likes.image_id = images.id AND likes.created_at >= ?", sqlStr)
	assert.Equal(t, []interface{}{windowStart}, args)
}

func TestNormalizeSortOrder(t *testing.T) {
	assert.Equal(t, SortRecent, NormalizeSortOrder("recent"))
	assert.Equal(t, SortPopular, NormalizeSortOrder("popular"))
	assert.Equal(t, SortTrending, NormalizeSortOrder("trending"))
	assert.Equal(t, SortRecent, NormalizeSortOrder("bogus"))
	assert.Equal(t, SortRecent, NormalizeSortOrder(""))
}

func TestWithSQLiteDefaults(t *testing.T) {
	assert.Equal(t, "app.db?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", WithSQLiteDefaults("app.db"))
	assert.Equal(t,
		"file:x?mode=memory&cache=shared&_foreign_keys=on&_busy_timeout=5000",
		WithSQLiteDefaults("file:x?mode=memory&cache=shared"))
}
