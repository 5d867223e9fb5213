package handlers

import (
	"context"
	"log"
	"strconv"

	"gem-bridge/internal/converter/repository"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Jobs Handler
// ============================================================

// Jobs lists recent translation runs, newest first. The handler works
// without a repository, like recordJob, and then reports an empty history.
func (h *TranslateHandler) Jobs(c fiber.Ctx) error {
	if h.repo == nil {
		return c.JSON(fiber.Map{"jobs": []repository.Job{}})
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	jobs, err := h.repo.Recent(context.Background(), limit)
	if err != nil {
		log.Printf("[JOBS] Query error: %v", err)
		return c.Status(500).JSON(fiber.Map{
			"error": "failed to list jobs",
		})
	}

	return c.JSON(fiber.Map{"jobs": jobs})
}
