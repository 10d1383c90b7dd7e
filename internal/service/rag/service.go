package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/stayscout/yt-reviews/internal/model"
	"github.com/stayscout/yt-reviews/internal/repository"
)

// NoMatchSummary is returned when retrieval yields zero candidates
const NoMatchSummary = "No review candidates matched your question or filters."

// Service answers free-text questions over the stored review corpus
type Service interface {
	// Ask resolves one question into a summary plus citations
	Ask(ctx context.Context, req *model.QueryRequest) (*model.AnswerResult, error)
}

// service implements Service. Each request issues at most two warehouse
// queries: one retrieval call and, only when candidates exist, one
// generation call.
type service struct {
	repo repository.RAGRepository
}

// NewService creates a new instance of Service
func NewService(repo repository.RAGRepository) Service {
	return &service{repo: repo}
}

// Ask resolves one question into a summary plus citations
func (s *service) Ask(ctx context.Context, req *model.QueryRequest) (*model.AnswerResult, error) {
	candidates, err := s.repo.Retrieve(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		log.Debug().Str("question", req.Question).Msg("no review candidates; skipping generation")
		return &model.AnswerResult{
			Summary:   NoMatchSummary,
			Citations: []model.Citation{},
		}, nil
	}

	citations := make([]model.Citation, len(candidates))
	for i, c := range candidates {
		citations[i] = model.Citation{
			Review:       fmt.Sprintf("%s — %s: %s", c.HotelNorm, c.Aspect, c.ReviewSummary),
			Link:         c.Link,
			VideoTitle:   c.VideoTitle,
			ChannelTitle: c.ChannelTitle,
			EvidenceSec:  c.EvidenceSec,
		}
	}

	summary, err := s.repo.Generate(ctx, buildPrompt(req.Question, candidates))
	if err != nil {
		return nil, err
	}
	return &model.AnswerResult{Summary: summary, Citations: citations}, nil
}

// buildPrompt composes the deterministic generation prompt from the question
// and a bullet list of candidate reviews. The model is instructed to answer
// in the question's language and to ground itself only in the bullets.
func buildPrompt(question string, candidates []*model.ReviewCandidate) string {
	var b strings.Builder
	b.WriteString("You are a hotel review assistant. Answer the question in the same language as the question, in 2-3 sentences, using only the review notes below. Do not invent details.\n\n")
	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\n\nReview notes:\n")
	for _, c := range candidates {
		fmt.Fprintf(&b, "- %s — %s (%s): %s\n", c.HotelNorm, c.Aspect, c.Sentiment, c.ReviewSummary)
	}
	return b.String()
}
