package evaluation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/khansaheem825/grammar-evaluator/internal/llm"
	"github.com/khansaheem825/grammar-evaluator/internal/metrics"
	"github.com/khansaheem825/grammar-evaluator/internal/prompt"
	"github.com/khansaheem825/grammar-evaluator/internal/rating"
	"github.com/khansaheem825/grammar-evaluator/internal/session"
	"github.com/khansaheem825/grammar-evaluator/pkg/logger"
)

// FeedbackCache is the optional read-through cache in front of the external
// model. Implementations must be safe for concurrent use.
type FeedbackCache interface {
	GetFeedback(ctx context.Context, model, verbosity, text string) (string, error)
	SetFeedback(ctx context.Context, model, verbosity, text, feedback string) error
}

// Evaluator runs text through the external grading model and keeps the
// session history a complete audit trail, failures included.
type Evaluator struct {
	generator llm.Generator
	cache     FeedbackCache
}

// Result is the outcome of one evaluation.
type Result struct {
	Feedback  string
	Rating    *float64
	Band      rating.Band
	Model     string
	Failed    bool
	Cached    bool
	ElapsedMS int64
}

// BatchResult is one row of a batch run.
type BatchResult struct {
	Sentence string `json:"sentence"`
	Feedback string `json:"feedback"`
}

func NewEvaluator(generator llm.Generator, cache FeedbackCache) *Evaluator {
	return &Evaluator{
		generator: generator,
		cache:     cache,
	}
}

// Evaluate grades text with the session's selected model and the given
// verbosity. Exactly one history record is appended whether the external
// call succeeds or fails; a failure is converted into placeholder feedback
// and never propagated. Callers must reject blank input before this point.
func (e *Evaluator) Evaluate(ctx context.Context, sess *session.Session, text string, verbosity prompt.Verbosity) Result {
	settings := sess.Settings()
	start := time.Now()

	feedback, cached, err := e.generate(ctx, settings, text, verbosity)
	elapsed := time.Since(start)

	result := Result{
		Model:     settings.Model,
		Cached:    cached,
		ElapsedMS: elapsed.Milliseconds(),
	}

	if err != nil {
		logger.Error("Evaluation failed",
			zap.String("model", settings.Model),
			zap.Error(err),
		)
		result.Feedback = fmt.Sprintf("Error processing request: %v", err)
		result.Failed = true
		metrics.EvaluationTotal.WithLabelValues(settings.Model, "error").Inc()
	} else {
		result.Feedback = strings.TrimSpace(feedback)
		metrics.EvaluationTotal.WithLabelValues(settings.Model, "success").Inc()

		if value, ok := rating.Parse(result.Feedback); ok {
			result.Rating = &value
			result.Band = rating.BandFor(value)
			metrics.RatingExtracted.Observe(value)
		} else {
			metrics.RatingParseFailures.Inc()
		}
	}

	metrics.EvaluationDuration.WithLabelValues(settings.Model).Observe(elapsed.Seconds())

	// The original text is stored untrimmed; failed attempts are recorded
	// too so the history stays a complete audit trail.
	sess.Append(session.Record{
		Timestamp: time.Now(),
		Original:  text,
		Feedback:  result.Feedback,
		Model:     settings.Model,
	})
	metrics.HistoryRecords.Inc()

	return result
}

// SplitBatch breaks multi-line input into the trimmed non-blank lines to be
// evaluated, preserving order.
func SplitBatch(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// EvaluateBatch grades each non-blank line independently and sequentially,
// always with Concise verbosity regardless of the session setting. A failing
// line becomes error feedback for that row and never aborts the rest. The
// optional progress callback fires after each line with (done, total).
func (e *Evaluator) EvaluateBatch(ctx context.Context, sess *session.Session, text string, progress func(done, total int)) []BatchResult {
	lines := SplitBatch(text)
	if len(lines) == 0 {
		return nil
	}

	metrics.BatchLines.Observe(float64(len(lines)))

	results := make([]BatchResult, 0, len(lines))
	for i, line := range lines {
		res := e.Evaluate(ctx, sess, line, prompt.VerbosityConcise)
		results = append(results, BatchResult{
			Sentence: line,
			Feedback: res.Feedback,
		})
		if progress != nil {
			progress(i+1, len(lines))
		}
	}

	return results
}

func (e *Evaluator) generate(ctx context.Context, settings session.Settings, text string, verbosity prompt.Verbosity) (feedback string, cached bool, err error) {
	if e.cache != nil {
		if hit, cerr := e.cache.GetFeedback(ctx, settings.Model, string(verbosity), text); cerr == nil {
			metrics.CacheHits.Inc()
			return hit, true, nil
		}
		metrics.CacheMisses.Inc()
	}

	instruction := prompt.Build(text, verbosity)

	feedback, err = e.generator.Generate(ctx, llm.GenerateRequest{
		Model:       settings.Model,
		Prompt:      instruction,
		Temperature: settings.Temperature,
		MaxTokens:   settings.MaxTokens,
	})
	if err != nil {
		return "", false, err
	}

	if e.cache != nil {
		if cerr := e.cache.SetFeedback(ctx, settings.Model, string(verbosity), text, feedback); cerr != nil {
			logger.Warn("Failed to cache feedback", zap.Error(cerr))
		}
	}

	return feedback, false, nil
}
