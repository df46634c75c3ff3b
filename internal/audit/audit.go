package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Archive writes maintenance reports as JSON files into a directory.
type Archive struct {
	Dir    string
	logger *zap.Logger
}

func NewArchive(dir string, logger *zap.Logger) *Archive {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archive{Dir: dir, logger: logger}
}

// SaveJSON stores data under "<kind>-<date>-<uuid>.json" and returns the
// file name.
func (a *Archive) SaveJSON(kind string, data any) (string, error) {
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	filename := fmt.Sprintf("%s-%s-%s.json", kind, time.Now().UTC().Format("20060102"), uuid.New())
	path := filepath.Join(a.Dir, filename)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	a.logger.Info("report saved", zap.String("path", path))
	return filename, nil
}
