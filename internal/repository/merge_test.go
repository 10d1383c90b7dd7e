package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedStagingName(table string) string {
	return table + "_stg_test"
}

func TestBuildMergeSQL(t *testing.T) {
	spec := MergeSpec{
		Table:      "subtitles",
		Columns:    []string{"video_id", "lang", "segments"},
		KeyColumns: []string{"video_id", "lang"},
		Expressions: map[string]string{
			"segments": "COALESCE(segments, '[]'::jsonb)",
		},
	}

	sql := buildMergeSQL(spec, "subtitles_stg_test")

	assert.Contains(t, sql, "MERGE INTO subtitles T")
	assert.Contains(t, sql, "USING (SELECT video_id, lang, COALESCE(segments, '[]'::jsonb) AS segments FROM subtitles_stg_test) S")
	assert.Contains(t, sql, "T.video_id IS NOT DISTINCT FROM S.video_id AND T.lang IS NOT DISTINCT FROM S.lang")
	// Key columns are never updated.
	assert.Contains(t, sql, "WHEN MATCHED THEN UPDATE SET segments = S.segments")
	assert.NotContains(t, sql, "video_id = S.video_id")
	assert.Contains(t, sql, "WHEN NOT MATCHED THEN INSERT (video_id, lang, segments) VALUES (S.video_id, S.lang, S.segments)")
}

func TestBuildMergeSQL_ExpressionSharedByBothBranches(t *testing.T) {
	spec := MergeSpec{
		Table:       "videos",
		Columns:     []string{"video_id", "tags"},
		KeyColumns:  []string{"video_id"},
		Expressions: map[string]string{"tags": "COALESCE(tags, '{}'::text[])"},
	}

	sql := buildMergeSQL(spec, "videos_stg_test")

	// The projection is computed once in USING; both branches read S.tags.
	assert.Contains(t, sql, "COALESCE(tags, '{}'::text[]) AS tags")
	assert.Contains(t, sql, "tags = S.tags")
	assert.Contains(t, sql, "VALUES (S.video_id, S.tags)")
	assert.Equal(t, 1, strings.Count(sql, "COALESCE"))
}

func TestLoader_Upsert(t *testing.T) {
	spec := MergeSpec{
		Table:      "channels",
		Columns:    []string{"channel_id", "channel_title"},
		KeyColumns: []string{"channel_id"},
	}
	rows := [][]any{
		{"UC1", "First"},
		{"UC2", "Second"},
	}

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr bool
	}{
		{
			name: "successful merge",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("CREATE TABLE channels_stg_test \\(LIKE channels INCLUDING DEFAULTS\\)").
					WillReturnResult(pgxmock.NewResult("CREATE", 0))
				mock.ExpectCopyFrom(pgx.Identifier{"channels_stg_test"}, []string{"channel_id", "channel_title"}).
					WillReturnResult(2)
				mock.ExpectExec("MERGE INTO channels T").
					WillReturnResult(pgxmock.NewResult("MERGE", 2))
				mock.ExpectExec("DROP TABLE IF EXISTS channels_stg_test").
					WillReturnResult(pgxmock.NewResult("DROP", 0))
			},
			wantErr: false,
		},
		{
			name: "staging creation fails",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("CREATE TABLE channels_stg_test").
					WillReturnError(assert.AnError)
			},
			wantErr: true,
		},
		{
			name: "copy fails and staging is still dropped",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("CREATE TABLE channels_stg_test").
					WillReturnResult(pgxmock.NewResult("CREATE", 0))
				mock.ExpectCopyFrom(pgx.Identifier{"channels_stg_test"}, []string{"channel_id", "channel_title"}).
					WillReturnError(assert.AnError)
				mock.ExpectExec("DROP TABLE IF EXISTS channels_stg_test").
					WillReturnResult(pgxmock.NewResult("DROP", 0))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.setup(mock)

			l := &loader{pool: mock, stagingName: fixedStagingName}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			err = l.Upsert(ctx, spec, rows)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "pgxmock expectations were not met")
		})
	}
}

func TestLoader_Upsert_EmptyBatchIsNoOp(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	l := &loader{pool: mock, stagingName: fixedStagingName}
	assert.NoError(t, l.Upsert(context.Background(), channelMergeSpec, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
