package generate

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/nexus/internal/logger"
)

// Writer persists generated documents. Writes are plain overwrites; in dry
// run mode nothing touches the disk and the target is logged instead.
type Writer struct {
	dryRun bool
	logger logger.Logger
}

func NewWriter(dryRun bool, log logger.Logger) *Writer {
	return &Writer{dryRun: dryRun, logger: log}
}

// DryRun reports whether writes are skipped.
func (w *Writer) DryRun() bool { return w.dryRun }

// Render encodes v as YAML with two-space indentation.
func Render(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteYAML writes v to path, creating parent directories.
func (w *Writer) WriteYAML(path string, v any) error {
	return w.WriteYAMLWithHeader(path, "", v)
}

// WriteYAMLWithHeader writes header verbatim followed by v.
func (w *Writer) WriteYAMLWithHeader(path, header string, v any) error {
	body, err := Render(v)
	if err != nil {
		return err
	}
	data := append([]byte(header), body...)

	if w.dryRun {
		w.logger.Info("[DRY RUN] would write file",
			logger.String("path", path),
			logger.Int("bytes", len(data)))
		w.logger.Debug("[DRY RUN] content",
			logger.String("path", path),
			logger.String("yaml", string(data)))
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	w.logger.Info("wrote file",
		logger.String("path", path),
		logger.Int("bytes", len(data)))
	return nil
}
