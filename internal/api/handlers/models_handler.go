package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/khansaheem825/grammar-evaluator/internal/llm"
)

type ModelsHandler struct{}

func NewModelsHandler() *ModelsHandler {
	return &ModelsHandler{}
}

// HandleList returns the fixed model tier enumeration.
func (h *ModelsHandler) HandleList(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"models": llm.Models(),
	})
}
