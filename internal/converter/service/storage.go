package service

import (
	"fmt"
	"os"
	"path/filepath"
)

// ============================================================
// File Storage
// ============================================================

// FileStorage lays out the on-disk artifacts of the translation service:
// exported GEM units and imported model JSON files under one root.
type FileStorage struct {
	root string
}

func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root}
}

func (s *FileStorage) Root() string {
	return s.root
}

func (s *FileStorage) GemDir() string {
	return filepath.Join(s.root, "gem")
}

func (s *FileStorage) GemPath(base string) string {
	return filepath.Join(s.GemDir(), base+".gem")
}

func (s *FileStorage) ModelDir() string {
	return filepath.Join(s.root, "models")
}

func (s *FileStorage) ModelPath(base string) string {
	return filepath.Join(s.ModelDir(), base+".json")
}

func (s *FileStorage) EnsureGemDir() error {
	if err := os.MkdirAll(s.GemDir(), 0o755); err != nil {
		return fmt.Errorf("mkdir gem dir: %w", err)
	}
	return nil
}

func (s *FileStorage) EnsureModelDir() error {
	if err := os.MkdirAll(s.ModelDir(), 0o755); err != nil {
		return fmt.Errorf("mkdir models dir: %w", err)
	}
	return nil
}

func (s *FileStorage) SaveFile(target string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("mkdir target dir: %w", err)
	}
	return os.WriteFile(target, data, 0o644)
}
