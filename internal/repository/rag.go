package repository

import (
	"context"

	"github.com/stayscout/yt-reviews/internal/model"
)

// RAGRepository invokes the warehouse-side retrieval and generation functions
type RAGRepository interface {
	// Retrieve runs the semantic candidate search for one question
	Retrieve(ctx context.Context, req *model.QueryRequest) ([]*model.ReviewCandidate, error)
	// Generate runs one deterministic text-generation call with the given prompt
	Generate(ctx context.Context, prompt string) (string, error)
}
