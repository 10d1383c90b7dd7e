package repository

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelRepository_ListUploadsPlaylists(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT uploads_playlist FROM channels").
		WillReturnRows(pgxmock.NewRows([]string{"uploads_playlist"}).
			AddRow("UU111").
			AddRow("UU222"))

	repo := NewChannelRepository(mock)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	playlists, err := repo.ListUploadsPlaylists(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"UU111", "UU222"}, playlists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChannelRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT channel_id, channel_title, channel_subs").
		WithArgs(10, 0).
		WillReturnRows(pgxmock.NewRows([]string{
			"channel_id", "channel_title", "channel_subs", "country", "uploads_playlist",
		}).AddRow("UC1", "Hotel Tours", int64(120000), "KR", "UU1"))

	repo := NewChannelRepository(mock)

	channels, err := repo.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.Equal(t, "UC1", channels[0].ID)
	assert.Equal(t, "Hotel Tours", channels[0].Title)
	assert.Equal(t, int64(120000), channels[0].SubscriberCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChannelRepository_List_DatabaseError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT channel_id").
		WithArgs(10, 0).
		WillReturnError(assert.AnError)

	repo := NewChannelRepository(mock)

	_, err = repo.List(context.Background(), 10, 0)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	assert.Equal(t, "KR", nullable("KR"))
}
