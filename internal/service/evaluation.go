package service

import (
	"context"
	"errors"

	"github.com/Harshitk-cp/tombench/internal/domain"
	"github.com/Harshitk-cp/tombench/internal/llm"
	"github.com/Harshitk-cp/tombench/internal/scoring"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// AnswerFailed is recorded when the model could not be reached. It is scored
// like any other wrong answer.
const AnswerFailed = "ERROR: API call failed"

var ErrNoAnswerer = errors.New("no model configured")

type EvaluationService struct {
	answerer    domain.Answerer
	concurrency int
	limiter     *rate.Limiter
	logger      *zap.Logger
}

// NewEvaluationService asks answerer at most rps times per second with at
// most concurrency questions in flight. A non-positive rps disables throttling.
func NewEvaluationService(answerer domain.Answerer, concurrency int, rps float64, logger *zap.Logger) *EvaluationService {
	if concurrency < 1 {
		concurrency = 1
	}
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &EvaluationService{
		answerer:    answerer,
		concurrency: concurrency,
		limiter:     rate.NewLimiter(limit, max(1, int(rps))),
		logger:      logger,
	}
}

// Tasks flattens QA sets into unanswered results in set, category, pair order.
func Tasks(sets []domain.QASet) []domain.EvaluationResult {
	var out []domain.EvaluationResult
	for _, q := range sets {
		for _, cat := range domain.AllQACategories() {
			for _, pair := range q.Pairs[cat] {
				out = append(out, domain.EvaluationResult{
					InstanceIndex:     q.InstanceIndex,
					Category:          cat,
					Setting:           q.Setting,
					Question:          pair.Question,
					GroundTruthAnswer: pair.Answer,
				})
			}
		}
	}
	return out
}

// Evaluate asks the model every question of sets and scores the answers.
// A failed model call does not stop the run; only cancellation does.
func (s *EvaluationService) Evaluate(ctx context.Context, sets []domain.QASet) ([]domain.EvaluationResult, domain.EvaluationSummary, error) {
	if s.answerer == nil {
		return nil, domain.EvaluationSummary{}, ErrNoAnswerer
	}
	stories := make(map[int][]string, len(sets))
	for _, q := range sets {
		stories[q.InstanceIndex] = q.FullStory
	}

	results := Tasks(sets)
	model := s.answerer.Model()
	s.logger.Info("evaluation started", zap.String("model", model), zap.Int("questions", len(results)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range results {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := s.limiter.Wait(gctx); err != nil {
				return err
			}
			r := &results[i]
			prompt := llm.QuestionPrompt(stories[r.InstanceIndex], r.Question)
			answer, err := s.answerer.Answer(gctx, llm.SystemPrompt, prompt)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.logger.Warn("model call failed",
					zap.Int("instance_index", r.InstanceIndex),
					zap.String("qa_category", string(r.Category)),
					zap.Error(err))
				answer = AnswerFailed
			}
			r.Model = model
			r.LLMAnswer = answer
			r.IsCorrect = answer != AnswerFailed && scoring.Equivalent(answer, r.GroundTruthAnswer)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, domain.EvaluationSummary{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, domain.EvaluationSummary{}, err
	}

	summary := Summarize(model, results)
	s.logger.Info("evaluation finished",
		zap.String("model", model),
		zap.Int("correct", summary.OverallAccuracy.Correct),
		zap.Int("total", summary.OverallAccuracy.Total))
	return results, summary, nil
}

// Summarize computes overall and per-category accuracy.
func Summarize(model string, results []domain.EvaluationResult) domain.EvaluationSummary {
	sum := domain.EvaluationSummary{
		Model:              model,
		AccuracyByCategory: make(map[domain.QACategory]domain.Accuracy),
	}
	for _, r := range results {
		sum.OverallAccuracy.Add(r.IsCorrect)
		acc := sum.AccuracyByCategory[r.Category]
		acc.Add(r.IsCorrect)
		sum.AccuracyByCategory[r.Category] = acc
	}
	return sum
}
