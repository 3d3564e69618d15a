package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// TotalLikes returns the like count for every id in imageIDs that has at least
// one like. Ids without likes are absent from the map; callers default to 0.
// An empty input returns an empty map without touching the database.
func TotalLikes(ctx context.Context, db Querier, imageIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(imageIDs))
	if len(imageIDs) == 0 {
		return counts, nil
	}

	queryBuilder := psql.Select("image_id", "COUNT(id)").
		From("likes").
		Where(sq.Eq{"image_id": imageIDs}).
		GroupBy("image_id")

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL query for TotalLikes: %w", err)
	}

	rows, err := db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query total likes for %d images: %w", len(imageIDs), err)
	}
	defer rows.Close()

	for rows.Next() {
		var imageID uint
		var count int64
		if err := rows.Scan(&imageID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan total likes row: %w", err)
		}
		counts[imageID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating total likes rows: %w", err)
	}
	return counts, nil
}

// LikedByUser returns the subset of imageIDs liked by userHash. Empty ids or a
// blank hash short-circuit to an empty set.
func LikedByUser(ctx context.Context, db Querier, imageIDs []uint, userHash string) (map[uint]struct{}, error) {
	liked := make(map[uint]struct{})
	if len(imageIDs) == 0 || strings.TrimSpace(userHash) == "" {
		return liked, nil
	}

	queryBuilder := psql.Select("image_id").
		From("likes").
		Where(sq.Eq{"image_id": imageIDs, "user_hash": userHash})

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL query for LikedByUser: %w", err)
	}

	rows, err := db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query liked images for user: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var imageID uint
		if err := rows.Scan(&imageID); err != nil {
			return nil, fmt.Errorf("failed to scan liked image row: %w", err)
		}
		liked[imageID] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating liked image rows: %w", err)
	}
	return liked, nil
}

// TrendingScoreSubquery is the correlated count of likes created at or after
// windowStart for the image on the current row of the outer "images" query.
func TrendingScoreSubquery(windowStart time.Time) sq.SelectBuilder {
	return psql.Select("COUNT(likes.id)").
		From("likes").
		Where("likes.image_id = images.id").
		Where(sq.GtOrEq{"likes.created_at": windowStart.UTC()})
}

// TrendingScore counts the likes of one image created at or after windowStart.
func TrendingScore(ctx context.Context, db Querier, imageID uint, windowStart time.Time) (int64, error) {
	queryBuilder := psql.Select("COUNT(id)").
		From("likes").
		Where(sq.Eq{"image_id": imageID}).
		Where(sq.GtOrEq{"created_at": windowStart.UTC()})

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build SQL query for TrendingScore: %w", err)
	}

	var score int64
	if err := db.QueryRowContext(ctx, sqlStr, args...).Scan(&score); err != nil {
		return 0, fmt.Errorf("failed to query trending score for image %d: %w", imageID, err)
	}
	return score, nil
}
