package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/stayscout/yt-reviews/internal/model"
)

// ragRepository implements RAGRepository using warehouse table functions
type ragRepository struct {
	pool Pool
	// llmConnection is an internal connection identifier, never user input.
	// It is the only value inlined into SQL text; everything user-supplied
	// travels as a bound parameter.
	llmConnection string
}

// NewRAGRepository creates a new instance of RAGRepository
func NewRAGRepository(pool Pool, llmConnection string) RAGRepository {
	return &ragRepository{pool: pool, llmConnection: llmConnection}
}

const retrieveSQL = `SELECT hotel_norm, aspect, sentiment, review_summary,
	yt_link, video_title, channel_title, evidence_sec, score
FROM rag_candidates_semantic($1, $2, $3, $4, $5, $6)
ORDER BY score DESC`

// Retrieve runs the semantic candidate search for one question
func (r *ragRepository) Retrieve(ctx context.Context, req *model.QueryRequest) ([]*model.ReviewCandidate, error) {
	rows, err := r.pool.Query(ctx, retrieveSQL,
		req.Question, req.LangFilter, req.ExcludePaidAds, req.MinViews, req.MinSubs, req.TopK)
	if err != nil {
		return nil, handlePostgreSQLError(err, "failed to retrieve review candidates")
	}
	defer rows.Close()

	var candidates []*model.ReviewCandidate
	for rows.Next() {
		var c model.ReviewCandidate
		if err := rows.Scan(&c.HotelNorm, &c.Aspect, &c.Sentiment, &c.ReviewSummary,
			&c.Link, &c.VideoTitle, &c.ChannelTitle, &c.EvidenceSec, &c.Score); err != nil {
			return nil, handlePostgreSQLError(err, "failed to scan review candidate")
		}
		candidates = append(candidates, &c)
	}
	return candidates, rows.Err()
}

// Generate runs one deterministic text-generation call with the given prompt
func (r *ragRepository) Generate(ctx context.Context, prompt string) (string, error) {
	sql := fmt.Sprintf(
		"SELECT ai_generate($1, connection => '%s', temperature => 0)",
		r.llmConnection,
	)
	var answer string
	if err := r.pool.QueryRow(ctx, sql, prompt).Scan(&answer); err != nil {
		return "", handlePostgreSQLError(err, "failed to generate answer")
	}
	return strings.TrimSpace(answer), nil
}
