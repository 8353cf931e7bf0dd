package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/khansaheem825/grammar-evaluator/internal/evaluation"
	"github.com/khansaheem825/grammar-evaluator/internal/middleware/sessions"
	"github.com/khansaheem825/grammar-evaluator/pkg/logger"
)

type EvaluateHandler struct {
	evaluator     *evaluation.Evaluator
	maxTextLength int
}

func NewEvaluateHandler(evaluator *evaluation.Evaluator, maxTextLength int) *EvaluateHandler {
	return &EvaluateHandler{
		evaluator:     evaluator,
		maxTextLength: maxTextLength,
	}
}

type evaluateRequest struct {
	Text string `json:"text"`
}

type evaluateResponse struct {
	Feedback  string   `json:"feedback"`
	Rating    *float64 `json:"rating,omitempty"`
	Band      string   `json:"band,omitempty"`
	Model     string   `json:"model"`
	Failed    bool     `json:"failed"`
	Cached    bool     `json:"cached"`
	ElapsedMS int64    `json:"elapsed_ms"`
}

// HandleEvaluate grades a single piece of text with the session's current
// model and verbosity.
func (h *EvaluateHandler) HandleEvaluate(c *fiber.Ctx) error {
	var req evaluateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// Blank input never reaches the external model and creates no record.
	if strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"warning": "Please enter text before requesting analysis.",
		})
	}

	if len(req.Text) > h.maxTextLength {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Text too long: %d characters (max %d)", len(req.Text), h.maxTextLength),
		})
	}

	sess := sessions.FromCtx(c)
	result := h.evaluator.Evaluate(c.Context(), sess, req.Text, sess.Settings().Verbosity)

	return c.JSON(evaluateResponse{
		Feedback:  result.Feedback,
		Rating:    result.Rating,
		Band:      string(result.Band),
		Model:     result.Model,
		Failed:    result.Failed,
		Cached:    result.Cached,
		ElapsedMS: result.ElapsedMS,
	})
}

type batchRequest struct {
	Text string `json:"text"`
}

// HandleBatch grades each non-blank line of a multi-line payload
// independently, always with Concise verbosity.
func (h *EvaluateHandler) HandleBatch(c *fiber.Ctx) error {
	var req batchRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if len(req.Text) > h.maxTextLength {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Text too long: %d characters (max %d)", len(req.Text), h.maxTextLength),
		})
	}

	lines := evaluation.SplitBatch(req.Text)
	if len(lines) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"warning": "Please enter some text to analyze.",
		})
	}

	sess := sessions.FromCtx(c)
	results := h.evaluator.EvaluateBatch(c.Context(), sess, req.Text, nil)

	return c.JSON(fiber.Map{
		"count":   len(results),
		"results": results,
	})
}
