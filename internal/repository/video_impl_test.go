package repository

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoRepository_ExistingIDs(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT video_id FROM videos").
		WillReturnRows(pgxmock.NewRows([]string{"video_id"}).
			AddRow("vid1").
			AddRow("vid2"))

	repo := NewVideoRepository(mock)
	ids, err := repo.ExistingIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"vid1": true, "vid2": true}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	published := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT video_id, channel_id, title").
		WithArgs(10, 0).
		WillReturnRows(pgxmock.NewRows([]string{
			"video_id", "channel_id", "title", "description", "published_at",
			"view_count", "like_count", "tags", "default_lang", "duration_sec",
		}).AddRow("vid1", "UC1", "Resort review", "desc", published,
			int64(5000), int64(321), []string{"hotel"}, "ko", 754.0))

	repo := NewVideoRepository(mock)
	videos, err := repo.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "vid1", videos[0].ID)
	assert.Equal(t, published, videos[0].PublishedAt)
	assert.Equal(t, []string{"hotel"}, videos[0].Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoRepository_ExistingIDs_DatabaseError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT video_id FROM videos").
		WillReturnError(assert.AnError)

	repo := NewVideoRepository(mock)
	_, err = repo.ExistingIDs(context.Background())
	assert.Error(t, err)
}
