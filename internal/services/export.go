package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"barcode-batcher/internal/logger"
	"barcode-batcher/internal/models"
)

// ExportService writes barcode images from the repository to disk
type ExportService struct {
	repository *models.BarcodeRepository
	logger     logger.Logger
}

// NewExportService creates a new export service
func NewExportService(repo *models.BarcodeRepository, log logger.Logger) *ExportService {
	if log == nil {
		log = logger.NewNop()
	}
	return &ExportService{
		repository: repo,
		logger:     log,
	}
}

// FileName returns the on-disk name for the record at index i of the batch
func FileName(prefix string, i int, payload string) string {
	return fmt.Sprintf("%s%d_%s.png", prefix, i+1, payload)
}

// ExportSelected writes every selected record into dir and returns the written paths
func (es *ExportService) ExportSelected(dir, prefix string) ([]string, error) {
	return es.export(dir, prefix, es.repository.Selected())
}

// ExportAll writes every record into dir, ignoring selection flags
func (es *ExportService) ExportAll(dir, prefix string) ([]string, error) {
	indices := make([]int, es.repository.Len())
	for i := range indices {
		indices[i] = i
	}
	return es.export(dir, prefix, indices)
}

func (es *ExportService) export(dir, prefix string, indices []int) ([]string, error) {
	if err := CheckDirectory(dir); err != nil {
		return nil, err
	}

	written := make([]string, 0, len(indices))
	for _, i := range indices {
		record, ok := es.repository.Record(i)
		if !ok {
			continue
		}

		path := filepath.Join(dir, FileName(prefix, i, record.Payload))
		if err := os.WriteFile(path, record.Image, 0o644); err != nil {
			failure := &models.IOFailure{Path: path, Cause: err}
			es.logger.Error("ExportService", failure, map[string]interface{}{
				"written": len(written),
			})
			return written, failure
		}
		written = append(written, path)
	}

	es.logger.Info("ExportService", "export complete", map[string]interface{}{
		"directory": dir,
		"files":     len(written),
	})
	return written, nil
}

// CheckDirectory reports ErrMissingDirectory unless dir names an existing directory
func CheckDirectory(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return models.ErrMissingDirectory
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrMissingDirectory, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", models.ErrMissingDirectory, dir)
	}
	return nil
}
