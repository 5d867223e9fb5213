package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"path/filepath"
	"strings"

	"gem-bridge/internal/converter/models"
	"gem-bridge/internal/converter/parser"
	"gem-bridge/internal/converter/repository"
	"gem-bridge/internal/converter/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Translate Handler
// ============================================================

type TranslateHandler struct {
	repo       *repository.Repository
	translator *service.Translator
	storage    *service.FileStorage
}

func NewTranslateHandler(repo *repository.Repository, translator *service.Translator, storage *service.FileStorage) *TranslateHandler {
	return &TranslateHandler{repo: repo, translator: translator, storage: storage}
}

type convertResponse struct {
	Gem         string              `json:"gem"`
	Path        string              `json:"path,omitempty"`
	EntityCount int                 `json:"entity_count"`
	Diagnostics []models.Diagnostic `json:"diagnostics,omitempty"`
}

type importResponse struct {
	Model       *models.Model       `json:"model"`
	Diagnostics []models.Diagnostic `json:"diagnostics,omitempty"`
}

// Convert translates an uploaded building-model JSON file into GEM text.
func (h *TranslateHandler) Convert(c fiber.Ctx) error {
	log.Printf("[CONVERT] Received request, content-length: %d", len(c.Body()))

	file, err := c.FormFile("file")
	if err != nil {
		log.Printf("[CONVERT] FormFile error: %v", err)
		return c.Status(400).JSON(fiber.Map{
			"error": "file required in multipart/form-data",
		})
	}

	f, err := file.Open()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "failed to open file",
		})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "failed to read file",
		})
	}

	var model models.Model
	if err := json.Unmarshal(data, &model); err != nil {
		log.Printf("[CONVERT] Decode error: %v", err)
		return c.Status(400).JSON(fiber.Map{
			"error": "invalid model JSON: " + err.Error(),
		})
	}

	text, result, err := h.translator.ExportString(&model)
	if err != nil {
		log.Printf("[CONVERT] Translation error: %v", err)
		return c.Status(422).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	base := baseName(file.Filename, model.Identifier)
	path := h.storage.GemPath(base)
	if err := h.storage.SaveFile(path, []byte(text)); err != nil {
		log.Printf("[CONVERT] Save error: %v", err)
		path = ""
	}

	h.recordJob(&repository.Job{
		Kind:            "export",
		InputName:       file.Filename,
		OutputPath:      path,
		EntityCount:     len(result.Entities),
		DiagnosticCount: len(result.Diagnostics),
	})

	log.Printf("[CONVERT] Translated %d entities, %d diagnostics", len(result.Entities), len(result.Diagnostics))
	return c.JSON(convertResponse{
		Gem:         text,
		Path:        path,
		EntityCount: len(result.Entities),
		Diagnostics: result.Diagnostics,
	})
}

// Import parses a GEM text body back into a model-shaped structure.
func (h *TranslateHandler) Import(c fiber.Ctx) error {
	log.Printf("[IMPORT] Received request, content-length: %d", len(c.Body()))

	if len(c.Body()) == 0 {
		return c.Status(400).JSON(fiber.Map{
			"error": "body required",
		})
	}

	name := c.Query("name", "model")
	model, diags, err := h.translator.ImportString(name, string(c.Body()))
	if err != nil {
		var parseErr *parser.ParseError
		if errors.As(err, &parseErr) {
			log.Printf("[IMPORT] Parse error: %v", err)
			return c.Status(422).JSON(fiber.Map{
				"error": parseErr.Error(),
				"line":  parseErr.Line,
				"field": parseErr.Field,
			})
		}
		log.Printf("[IMPORT] Error: %v", err)
		return c.Status(500).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	h.recordJob(&repository.Job{
		Kind:            "import",
		InputName:       name,
		EntityCount:     len(model.Rooms) + len(model.Shades),
		DiagnosticCount: len(diags),
	})

	log.Printf("[IMPORT] Assembled %d rooms, %d shades", len(model.Rooms), len(model.Shades))
	return c.JSON(importResponse{Model: model, Diagnostics: diags})
}

func (h *TranslateHandler) recordJob(job *repository.Job) {
	if h.repo == nil {
		return
	}
	if err := h.repo.Insert(context.Background(), job); err != nil {
		log.Printf("[JOBS] Record error: %v", err)
	}
}

func baseName(filename, fallback string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if base == "" || base == "." {
		base = fallback
	}
	if base == "" {
		base = "model"
	}
	return base
}
