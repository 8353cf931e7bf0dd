package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/khansaheem825/grammar-evaluator/internal/middleware/sessions"
	"github.com/khansaheem825/grammar-evaluator/internal/rating"
)

type HistoryHandler struct{}

func NewHistoryHandler() *HistoryHandler {
	return &HistoryHandler{}
}

type historyEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Original  string    `json:"original"`
	Feedback  string    `json:"feedback"`
	Model     string    `json:"model"`
	Rating    *float64  `json:"rating,omitempty"`
}

// HandleList returns the session history newest-first, with the best-effort
// extracted rating attached where one parses.
func (h *HistoryHandler) HandleList(c *fiber.Ctx) error {
	sess := sessions.FromCtx(c)
	records := sess.Records()

	entries := make([]historyEntry, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		entry := historyEntry{
			Timestamp: rec.Timestamp,
			Original:  rec.Original,
			Feedback:  rec.Feedback,
			Model:     rec.Model,
		}
		if value, ok := rating.Parse(rec.Feedback); ok {
			entry.Rating = &value
		}
		entries = append(entries, entry)
	}

	return c.JSON(fiber.Map{
		"count":   len(entries),
		"history": entries,
	})
}

// HandleClear atomically empties the session history.
func (h *HistoryHandler) HandleClear(c *fiber.Ctx) error {
	sessions.FromCtx(c).Clear()

	return c.JSON(fiber.Map{
		"message": "History cleared",
	})
}

// HandleStats aggregates ratings over the session history. Records without a
// parsable rating are excluded from the average and the best score, never
// counted as zero.
func (h *HistoryHandler) HandleStats(c *fiber.Ctx) error {
	sess := sessions.FromCtx(c)
	records := sess.Records()

	feedbacks := make([]string, len(records))
	for i, rec := range records {
		feedbacks[i] = rec.Feedback
	}

	summary := rating.Summarize(feedbacks)
	if !summary.HasData() {
		return c.JSON(fiber.Map{
			"total_records": summary.TotalRecords,
			"has_data":      false,
			"message":       "No rating data available in history",
		})
	}

	return c.JSON(fiber.Map{
		"total_records":  summary.TotalRecords,
		"rated_records":  summary.RatedRecords,
		"average_rating": summary.Average,
		"best_rating":    summary.Best,
		"has_data":       true,
	})
}
