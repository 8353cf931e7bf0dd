package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khansaheem825/grammar-evaluator/internal/api/handlers"
	"github.com/khansaheem825/grammar-evaluator/internal/evaluation"
	"github.com/khansaheem825/grammar-evaluator/internal/llm"
	"github.com/khansaheem825/grammar-evaluator/internal/middleware/sessions"
	"github.com/khansaheem825/grammar-evaluator/internal/session"
)

type stubGenerator struct {
	fn func(req llm.GenerateRequest) (string, error)
}

func (s *stubGenerator) Generate(_ context.Context, req llm.GenerateRequest) (string, error) {
	return s.fn(req)
}

func setupApp(t *testing.T, fn func(req llm.GenerateRequest) (string, error)) *fiber.App {
	t.Helper()

	manager := session.NewManager(session.ManagerConfig{
		DefaultModel: "gemini-1.5-flash",
		MaxRecords:   200,
		SessionTTL:   time.Hour,
	})
	t.Cleanup(manager.Stop)

	evaluator := evaluation.NewEvaluator(&stubGenerator{fn: fn}, nil)

	evaluateHandler := handlers.NewEvaluateHandler(evaluator, 10000)
	historyHandler := handlers.NewHistoryHandler()
	settingsHandler := handlers.NewSettingsHandler()
	modelsHandler := handlers.NewModelsHandler()

	app := fiber.New()
	api := app.Group("/api/v1", sessions.Middleware(manager))

	api.Post("/evaluate", evaluateHandler.HandleEvaluate)
	api.Post("/evaluate/batch", evaluateHandler.HandleBatch)
	api.Get("/history", historyHandler.HandleList)
	api.Delete("/history", historyHandler.HandleClear)
	api.Get("/history/stats", historyHandler.HandleStats)
	api.Get("/models", modelsHandler.HandleList)
	api.Get("/settings", settingsHandler.HandleGet)
	api.Put("/settings", settingsHandler.HandleUpdate)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, sessionID string, body interface{}) (int, map[string]interface{}, string) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set(sessions.HeaderName, sessionID)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}

	return resp.StatusCode, decoded, resp.Header.Get(sessions.HeaderName)
}

func TestEvaluateBlankInputRejected(t *testing.T) {
	app := setupApp(t, func(llm.GenerateRequest) (string, error) {
		t.Fatal("blank input must never reach the model")
		return "", nil
	})

	for _, text := range []string{"", "   ", "\n\t "} {
		status, body, sessionID := doJSON(t, app, "POST", "/api/v1/evaluate", "", map[string]string{"text": text})
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Contains(t, body["warning"], "Please enter text")

		// No history record was created.
		status, hist, _ := doJSON(t, app, "GET", "/api/v1/history", sessionID, nil)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, float64(0), hist["count"])
	}
}

func TestEvaluateSuccess(t *testing.T) {
	app := setupApp(t, func(llm.GenerateRequest) (string, error) {
		return "- Overall Rating: 7/10\n- Identified Issues: none", nil
	})

	status, body, sessionID := doJSON(t, app, "POST", "/api/v1/evaluate", "", map[string]string{"text": "A good sentence."})
	require.Equal(t, fiber.StatusOK, status)
	require.NotEmpty(t, sessionID)

	assert.Equal(t, 7.0, body["rating"])
	assert.Equal(t, "mid", body["band"])
	assert.Equal(t, "gemini-1.5-flash", body["model"])
	assert.Equal(t, false, body["failed"])
	assert.Contains(t, body["feedback"], "Overall Rating: 7/10")

	status, hist, _ := doJSON(t, app, "GET", "/api/v1/history", sessionID, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(1), hist["count"])
}

func TestEvaluateFailureSurfacesInline(t *testing.T) {
	app := setupApp(t, func(llm.GenerateRequest) (string, error) {
		return "", errors.New("network unreachable")
	})

	status, body, sessionID := doJSON(t, app, "POST", "/api/v1/evaluate", "", map[string]string{"text": "text"})
	require.Equal(t, fiber.StatusOK, status)

	assert.Equal(t, true, body["failed"])
	assert.Equal(t, "Error processing request: network unreachable", body["feedback"])
	assert.Nil(t, body["rating"])

	// The failed attempt is still recorded.
	_, hist, _ := doJSON(t, app, "GET", "/api/v1/history", sessionID, nil)
	assert.Equal(t, float64(1), hist["count"])
}

func TestEvaluateTextTooLong(t *testing.T) {
	app := setupApp(t, func(llm.GenerateRequest) (string, error) {
		return "ok", nil
	})

	status, body, _ := doJSON(t, app, "POST", "/api/v1/evaluate", "", map[string]string{
		"text": strings.Repeat("x", 10001),
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["error"], "Text too long")
}

func TestBatchEvaluate(t *testing.T) {
	app := setupApp(t, func(llm.GenerateRequest) (string, error) {
		return "Concise feedback here", nil
	})

	status, body, _ := doJSON(t, app, "POST", "/api/v1/evaluate/batch", "", map[string]string{
		"text": "a\n\nb\n  \nc",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(3), body["count"])

	results := body["results"].([]interface{})
	require.Len(t, results, 3)
	first := results[0].(map[string]interface{})
	assert.Equal(t, "a", first["sentence"])
	assert.Equal(t, "Concise feedback here", first["feedback"])
}

func TestBatchBlankInputRejected(t *testing.T) {
	app := setupApp(t, func(llm.GenerateRequest) (string, error) {
		t.Fatal("blank batch must never reach the model")
		return "", nil
	})

	status, body, _ := doJSON(t, app, "POST", "/api/v1/evaluate/batch", "", map[string]string{"text": "\n  \n"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["warning"], "Please enter some text")
}

func TestHistoryStatsAndClear(t *testing.T) {
	ratings := []string{"Overall Rating: 3/10", "no rating here", "Overall Rating: 9/10"}
	i := 0
	app := setupApp(t, func(llm.GenerateRequest) (string, error) {
		fb := ratings[i%len(ratings)]
		i++
		return fb, nil
	})

	_, _, sessionID := doJSON(t, app, "POST", "/api/v1/evaluate", "", map[string]string{"text": "one"})
	doJSON(t, app, "POST", "/api/v1/evaluate", sessionID, map[string]string{"text": "two"})
	doJSON(t, app, "POST", "/api/v1/evaluate", sessionID, map[string]string{"text": "three"})

	status, stats, _ := doJSON(t, app, "GET", "/api/v1/history/stats", sessionID, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, stats["has_data"])
	assert.Equal(t, float64(3), stats["total_records"])
	assert.Equal(t, float64(2), stats["rated_records"])
	assert.InDelta(t, 6.0, stats["average_rating"].(float64), 1e-9)
	assert.Equal(t, 9.0, stats["best_rating"])

	// History is newest-first.
	_, hist, _ := doJSON(t, app, "GET", "/api/v1/history", sessionID, nil)
	entries := hist["history"].([]interface{})
	require.Len(t, entries, 3)
	assert.Equal(t, "three", entries[0].(map[string]interface{})["original"])
	assert.Equal(t, "one", entries[2].(map[string]interface{})["original"])

	status, _, _ = doJSON(t, app, "DELETE", "/api/v1/history", sessionID, nil)
	require.Equal(t, fiber.StatusOK, status)

	_, stats, _ = doJSON(t, app, "GET", "/api/v1/history/stats", sessionID, nil)
	assert.Equal(t, false, stats["has_data"])
	assert.Equal(t, float64(0), stats["total_records"])
}

func TestModelsList(t *testing.T) {
	app := setupApp(t, func(llm.GenerateRequest) (string, error) { return "", nil })

	status, body, _ := doJSON(t, app, "GET", "/api/v1/models", "", nil)
	require.Equal(t, fiber.StatusOK, status)

	models := body["models"].([]interface{})
	require.Len(t, models, 3)
	first := models[0].(map[string]interface{})
	assert.Equal(t, "fast", first["tier"])
	assert.Equal(t, "gemini-1.5-flash", first["model"])
}

func TestSettingsUpdateAndValidation(t *testing.T) {
	app := setupApp(t, func(llm.GenerateRequest) (string, error) { return "", nil })

	status, body, sessionID := doJSON(t, app, "GET", "/api/v1/settings", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "fast", body["model"])
	assert.Equal(t, "Detailed", body["verbosity"])

	status, body, _ = doJSON(t, app, "PUT", "/api/v1/settings", sessionID, map[string]interface{}{
		"model":       "balanced",
		"verbosity":   "Concise",
		"dark_mode":   true,
		"temperature": 0.2,
		"max_tokens":  500,
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "balanced", body["model"])
	assert.Equal(t, "gemini-1.5-pro", body["model_id"])
	assert.Equal(t, "Concise", body["verbosity"])
	assert.Equal(t, true, body["dark_mode"])

	invalid := []map[string]interface{}{
		{"model": "turbo"},
		{"verbosity": "Chatty"},
		{"temperature": 1.5},
		{"max_tokens": 50},
		{"max_tokens": 2000},
	}
	for _, payload := range invalid {
		status, _, _ := doJSON(t, app, "PUT", "/api/v1/settings", sessionID, payload)
		assert.Equal(t, fiber.StatusBadRequest, status, "payload %v should be rejected", payload)
	}

	// A rejected update changes nothing.
	_, body, _ = doJSON(t, app, "GET", "/api/v1/settings", sessionID, nil)
	assert.Equal(t, "balanced", body["model"])
	assert.Equal(t, "Concise", body["verbosity"])
}

func TestSessionHeaderRoundTrip(t *testing.T) {
	app := setupApp(t, func(llm.GenerateRequest) (string, error) { return "ok", nil })

	_, _, first := doJSON(t, app, "POST", "/api/v1/evaluate", "", map[string]string{"text": "hello"})
	require.NotEmpty(t, first)

	// Reusing the id keeps the same session; a bogus id gets a new one.
	_, _, again := doJSON(t, app, "POST", "/api/v1/evaluate", first, map[string]string{"text": "world"})
	assert.Equal(t, first, again)

	_, _, fresh := doJSON(t, app, "GET", "/api/v1/history", "bogus-id", nil)
	assert.NotEqual(t, first, fresh)

	_, hist, _ := doJSON(t, app, "GET", "/api/v1/history", first, nil)
	assert.Equal(t, float64(2), hist["count"])
}
