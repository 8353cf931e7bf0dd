package handlers

import (
	"context"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/khansaheem825/grammar-evaluator/internal/evaluation"
	"github.com/khansaheem825/grammar-evaluator/internal/session"
	"github.com/khansaheem825/grammar-evaluator/pkg/logger"
)

// WebSocketHandler streams per-line progress while a batch run executes, so
// clients can show a progress indicator instead of waiting on one long POST.
type WebSocketHandler struct {
	evaluator *evaluation.Evaluator
	manager   *session.Manager
}

func NewWebSocketHandler(evaluator *evaluation.Evaluator, manager *session.Manager) *WebSocketHandler {
	return &WebSocketHandler{
		evaluator: evaluator,
		manager:   manager,
	}
}

func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")

	defer func() {
		c.Close()
		logger.Info("WebSocket connection closed")
	}()

	for {
		var msg struct {
			Type      string `json:"type"`
			Text      string `json:"text"`
			SessionID string `json:"session_id"`
		}

		if err := c.ReadJSON(&msg); err != nil {
			logger.Debug("WebSocket read ended", zap.Error(err))
			break
		}

		if msg.Type != "batch" {
			continue
		}

		h.runBatch(c, msg.SessionID, msg.Text)
	}
}

func (h *WebSocketHandler) runBatch(c *websocket.Conn, sessionID, text string) {
	lines := evaluation.SplitBatch(text)
	if len(lines) == 0 {
		h.send(c, map[string]interface{}{
			"type":  "error",
			"error": "Please enter some text to analyze",
		})
		return
	}

	sess := h.manager.GetOrCreate(sessionID)

	h.send(c, map[string]interface{}{
		"type":       "start",
		"session_id": sess.ID,
		"total":      len(lines),
	})

	results := h.evaluator.EvaluateBatch(context.Background(), sess, text, func(done, total int) {
		h.send(c, map[string]interface{}{
			"type":  "progress",
			"done":  done,
			"total": total,
		})
	})

	h.send(c, map[string]interface{}{
		"type":    "complete",
		"count":   len(results),
		"results": results,
	})
}

func (h *WebSocketHandler) send(c *websocket.Conn, msg map[string]interface{}) {
	if err := c.WriteJSON(msg); err != nil {
		logger.Error("Failed to write WebSocket message", zap.Error(err))
	}
}
