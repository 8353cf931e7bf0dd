package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/khansaheem825/grammar-evaluator/internal/llm"
	"github.com/khansaheem825/grammar-evaluator/internal/middleware/sessions"
	"github.com/khansaheem825/grammar-evaluator/internal/prompt"
	"github.com/khansaheem825/grammar-evaluator/internal/session"
	"github.com/khansaheem825/grammar-evaluator/pkg/logger"
)

type SettingsHandler struct{}

func NewSettingsHandler() *SettingsHandler {
	return &SettingsHandler{}
}

type settingsPayload struct {
	Model       *string  `json:"model,omitempty"`
	Verbosity   *string  `json:"verbosity,omitempty"`
	DarkMode    *bool    `json:"dark_mode,omitempty"`
	Temperature *float32 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
}

type settingsResponse struct {
	Model       string  `json:"model"`
	ModelID     string  `json:"model_id"`
	Verbosity   string  `json:"verbosity"`
	DarkMode    bool    `json:"dark_mode"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

func (h *SettingsHandler) HandleGet(c *fiber.Ctx) error {
	sess := sessions.FromCtx(c)
	return c.JSON(toResponse(sess.Settings()))
}

// HandleUpdate applies a partial settings update. Every supplied field is
// validated before anything is written, so a bad payload changes nothing.
func (h *SettingsHandler) HandleUpdate(c *fiber.Ctx) error {
	var req settingsPayload
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	sess := sessions.FromCtx(c)
	settings := sess.Settings()

	if req.Model != nil {
		model, ok := llm.ResolveTier(*req.Model)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Unknown model tier: %s", *req.Model),
			})
		}
		settings.Model = model
	}

	if req.Verbosity != nil {
		verbosity, ok := prompt.ParseVerbosity(*req.Verbosity)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Unknown verbosity level: %s", *req.Verbosity),
			})
		}
		settings.Verbosity = verbosity
	}

	if req.DarkMode != nil {
		settings.DarkMode = *req.DarkMode
	}

	if req.Temperature != nil {
		if *req.Temperature < 0 || *req.Temperature > 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Temperature must be between 0.0 and 1.0",
			})
		}
		settings.Temperature = *req.Temperature
	}

	if req.MaxTokens != nil {
		if *req.MaxTokens < 100 || *req.MaxTokens > 1000 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Max response length must be between 100 and 1000",
			})
		}
		settings.MaxTokens = *req.MaxTokens
	}

	sess.UpdateSettings(settings)

	return c.JSON(toResponse(settings))
}

func toResponse(s session.Settings) settingsResponse {
	tier, _ := llm.TierForModel(s.Model)
	return settingsResponse{
		Model:       string(tier),
		ModelID:     s.Model,
		Verbosity:   string(s.Verbosity),
		DarkMode:    s.DarkMode,
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
	}
}
