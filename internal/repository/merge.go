package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// MergeSpec describes one staging+merge upsert destination.
type MergeSpec struct {
	// Table is the destination table name.
	Table string
	// Columns lists every column loaded into staging, in row order.
	Columns []string
	// KeyColumns is the composite natural key; matching is null-safe.
	KeyColumns []string
	// Expressions optionally overrides the staging-side projection for a
	// column. Both merge branches reference the one precomputed projection,
	// so structured columns cannot diverge between update and insert.
	Expressions map[string]string
}

// loader implements the staging+merge upsert protocol:
//
//	1. create a staging table whose schema is copied from the destination
//	   (never inferred from the rows),
//	2. bulk-load the batch with COPY,
//	3. MERGE into the destination with null-safe key matching,
//	4. drop the staging table.
//
// The protocol is idempotent per batch but not isolated against concurrent
// writers on the same destination; run one ingestion job per table.
type loader struct {
	pool Pool
	// stagingName overrides staging-table naming; nil means a random suffix.
	stagingName func(table string) string
}

// Upsert merges rows into spec.Table. An empty batch is a no-op.
func (l *loader) Upsert(ctx context.Context, spec MergeSpec, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	name := l.stagingName
	if name == nil {
		name = func(table string) string {
			return fmt.Sprintf("%s_stg_%s", table, uuid.New().String()[:8])
		}
	}
	staging := name(spec.Table)

	createSQL := fmt.Sprintf("CREATE TABLE %s (LIKE %s INCLUDING DEFAULTS)", staging, spec.Table)
	if _, err := l.pool.Exec(ctx, createSQL); err != nil {
		return handlePostgreSQLError(err, "failed to create staging table for "+spec.Table)
	}
	defer func() {
		// Best-effort cleanup; a leftover staging table is harmless and the
		// next run uses a fresh name anyway.
		if _, err := l.pool.Exec(ctx, "DROP TABLE IF EXISTS "+staging); err != nil {
			log.Warn().Err(err).Str("table", staging).Msg("failed to drop staging table")
		}
	}()

	if _, err := l.pool.CopyFrom(ctx, pgx.Identifier{staging}, spec.Columns, pgx.CopyFromRows(rows)); err != nil {
		return handlePostgreSQLError(err, "failed to load staging table for "+spec.Table)
	}

	if _, err := l.pool.Exec(ctx, buildMergeSQL(spec, staging)); err != nil {
		return handlePostgreSQLError(err, "failed to merge into "+spec.Table)
	}

	log.Debug().Str("table", spec.Table).Int("rows", len(rows)).Msg("batch merged")
	return nil
}

// buildMergeSQL renders the MERGE statement for spec against a staging table.
// Key matching uses IS NOT DISTINCT FROM so NULL key parts still pair up.
func buildMergeSQL(spec MergeSpec, staging string) string {
	var using strings.Builder
	for i, col := range spec.Columns {
		if i > 0 {
			using.WriteString(", ")
		}
		if expr, ok := spec.Expressions[col]; ok {
			fmt.Fprintf(&using, "%s AS %s", expr, col)
		} else {
			using.WriteString(col)
		}
	}

	keySet := make(map[string]bool, len(spec.KeyColumns))
	var on strings.Builder
	for i, k := range spec.KeyColumns {
		keySet[k] = true
		if i > 0 {
			on.WriteString(" AND ")
		}
		fmt.Fprintf(&on, "T.%s IS NOT DISTINCT FROM S.%s", k, k)
	}

	var updates []string
	for _, col := range spec.Columns {
		if !keySet[col] {
			updates = append(updates, fmt.Sprintf("%s = S.%s", col, col))
		}
	}

	insertCols := strings.Join(spec.Columns, ", ")
	var insertVals strings.Builder
	for i, col := range spec.Columns {
		if i > 0 {
			insertVals.WriteString(", ")
		}
		insertVals.WriteString("S." + col)
	}

	return fmt.Sprintf(`MERGE INTO %s T
USING (SELECT %s FROM %s) S
ON %s
WHEN MATCHED THEN UPDATE SET %s
WHEN NOT MATCHED THEN INSERT (%s) VALUES (%s)`,
		spec.Table,
		using.String(),
		staging,
		on.String(),
		strings.Join(updates, ", "),
		insertCols,
		insertVals.String(),
	)
}
