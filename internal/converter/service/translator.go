package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gem-bridge/internal/converter/mapper"
	"gem-bridge/internal/converter/models"
	"gem-bridge/internal/converter/parser"
	"gem-bridge/internal/converter/writer"
)

// ============================================================
// Translator
// ============================================================

// Translator is the thin adapter over the mapper, writer and parser. It owns
// defaults (file naming, folder creation) and no translation logic; mapping
// and parse failures propagate unchanged.
type Translator struct{}

func New() *Translator {
	return &Translator{}
}

// ExportString translates a model to GEM text without touching storage.
func (t *Translator) ExportString(model *models.Model) (string, *models.TranslationResult, error) {
	m := mapper.New()
	result, err := m.Map(model)
	if err != nil {
		return "", nil, err
	}
	text, err := writer.New().Render(result.Entities)
	if err != nil {
		return "", nil, err
	}
	return text, result, nil
}

// ExportModel writes the model as <folder>/<name>.gem and returns the
// resolved path. The name defaults to the model display name, then its
// identifier. An empty model yields a header-only file, not an error.
func (t *Translator) ExportModel(model *models.Model, folder, name string) (string, *models.TranslationResult, error) {
	text, result, err := t.ExportString(model)
	if err != nil {
		return "", nil, err
	}

	if name == "" {
		name = model.DisplayName
	}
	if name == "" {
		name = model.Identifier
	}
	if name == "" {
		name = "model"
	}
	if !strings.HasSuffix(strings.ToLower(name), ".gem") {
		name += ".gem"
	}

	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", nil, fmt.Errorf("mkdir output folder: %w", err)
	}
	path := filepath.Join(folder, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", nil, fmt.Errorf("write gem file: %w", err)
	}
	return path, result, nil
}

// ImportString parses GEM text into a model-shaped structure. The name seeds
// the model identifier and display name.
func (t *Translator) ImportString(name, text string) (*models.Model, []models.Diagnostic, error) {
	entities, err := parser.Parse(text)
	if err != nil {
		return nil, nil, err
	}
	model, diags := AssembleModel(name, entities)
	return model, diags, nil
}

// ImportModel reads and parses a GEM file.
func (t *Translator) ImportModel(path string) (*models.Model, []models.Diagnostic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read gem file: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return t.ImportString(base, string(data))
}
