package ingestion

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bbrewington/data-liberation-project-datasets/internal/database"
	"github.com/bbrewington/data-liberation-project-datasets/internal/models"
)

// Processor defines the interface for file processing operations.
type Processor interface {
	ScanForFiles(rootPath string) ([]models.FileInfo, error)
	UpdateFileStatus(fileErrorsMap *models.FileErrorMap, fileMap *models.FileMap) error
}

// FileProcessor discovers raw extracts and records their final status in
// the file ledger.
type FileProcessor struct {
	dbManager database.Manager
}

func NewFileProcessor(dbManager database.Manager) *FileProcessor {
	return &FileProcessor{
		dbManager: dbManager,
	}
}

// ScanForFiles walks a directory collecting the CSV extracts to process.
// Non-CSV files are skipped with a log line, not an error.
func (fp *FileProcessor) ScanForFiles(rootPath string) ([]models.FileInfo, error) {
	var fileInfos []models.FileInfo
	log.Printf("Scanning for files in: %s", rootPath)

	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".csv") {
			log.Printf("Skipping non-CSV file: %s", path)
			return nil
		}
		fileInfos = append(fileInfos, models.FileInfo{Path: path})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", rootPath, err)
	}

	log.Printf("Found %d files to process.", len(fileInfos))
	return fileInfos, nil
}

func (fp *FileProcessor) UpdateFileStatus(fileErrorsMap *models.FileErrorMap, fileMap *models.FileMap) error {
	for fileID := range *fileMap {
		appErrors := fileErrorsMap.Errors[fileID]
		status := database.FILE_STATUS_DONE
		if len(appErrors) > 0 {
			status = database.FILE_STATUS_DONE_WITH_ERRORS
		}

		if err := fp.dbManager.UpdateFileStatus(fileID, status, appErrors); err != nil {
			log.Printf("Failed to update status for fileID %s: %v\n", fileID, err)
		}
	}
	return nil
}
