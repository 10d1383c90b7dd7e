package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayscout/yt-reviews/internal/model"
)

func testSubtitleRepository(mock pgxmock.PgxPoolIface, now time.Time) *subtitleRepository {
	return &subtitleRepository{
		loader: loader{pool: mock, stagingName: fixedStagingName},
		pool:   mock,
		now:    func() time.Time { return now },
	}
}

func TestSubtitleRepository_UpsertOutcomes(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	track := model.NewSubtitleTrack("vid1", "en", model.SourceManual,
		[]model.CaptionSegment{
			{Index: 0, StartSec: 0, DurSec: 1.5, Text: "hello"},
			{Index: 1, StartSec: 2, DurSec: 1, Text: "world"},
		}, "hello world")

	outcomes := []model.AcquisitionOutcome{
		model.Success(track),
		model.NoCaptions("vid2"),
		model.Failure("vid3", "extract_failed: boom"),
	}

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE subtitles_stg_test").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"subtitles_stg_test"}, subtitleMergeSpec.Columns).
		WillReturnResult(3)
	mock.ExpectExec("MERGE INTO subtitles T").
		WillReturnResult(pgxmock.NewResult("MERGE", 3))
	mock.ExpectExec("DROP TABLE IF EXISTS subtitles_stg_test").
		WillReturnResult(pgxmock.NewResult("DROP", 0))

	repo := testSubtitleRepository(mock, now)
	require.NoError(t, repo.UpsertOutcomes(context.Background(), outcomes))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubtitleRepository_UpsertOutcomes_EmptyBatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := testSubtitleRepository(mock, time.Now())
	assert.NoError(t, repo.UpsertOutcomes(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubtitleRepository_ListTargets(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT video_id FROM to_fetch_subs").
		WillReturnRows(pgxmock.NewRows([]string{"video_id"}).
			AddRow("vid1").
			AddRow("vid2"))

	repo := testSubtitleRepository(mock, time.Now())
	ids, err := repo.ListTargets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"vid1", "vid2"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
