package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bbrewington/data-liberation-project-datasets/internal/database"
	"github.com/bbrewington/data-liberation-project-datasets/internal/models"
)

func TestFileProcessor_ScanForFiles(t *testing.T) {
	tempDir := t.TempDir()

	assert.NoError(t, os.WriteFile(filepath.Join(tempDir, "a.csv"), []byte("x"), 0644))
	assert.NoError(t, os.WriteFile(filepath.Join(tempDir, "B.CSV"), []byte("x"), 0644))
	assert.NoError(t, os.WriteFile(filepath.Join(tempDir, "notes.txt"), []byte("x"), 0644))
	nested := filepath.Join(tempDir, "nested")
	assert.NoError(t, os.Mkdir(nested, 0755))
	assert.NoError(t, os.WriteFile(filepath.Join(nested, "c.csv"), []byte("x"), 0644))

	fp := NewFileProcessor(new(MockManager))

	fileInfos, err := fp.ScanForFiles(tempDir)
	assert.NoError(t, err)

	var paths []string
	for _, fi := range fileInfos {
		paths = append(paths, fi.Path)
	}
	assert.ElementsMatch(t, []string{
		filepath.Join(tempDir, "a.csv"),
		filepath.Join(tempDir, "B.CSV"),
		filepath.Join(nested, "c.csv"),
	}, paths)
}

func TestFileProcessor_ScanForFilesMissingDirectory(t *testing.T) {
	fp := NewFileProcessor(new(MockManager))

	_, err := fp.ScanForFiles(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}

func TestFileProcessor_UpdateFileStatus(t *testing.T) {
	dbManager := new(MockManager)
	fp := NewFileProcessor(dbManager)

	fileMap := models.FileMap{
		"clean-file": "/data/a.csv",
		"dirty-file": "/data/b.csv",
	}
	fileErrorsMap := &models.FileErrorMap{
		Errors: map[string][]models.AppError{
			"dirty-file": {{FileID: "dirty-file", Message: "bad row"}},
		},
	}

	dbManager.On("UpdateFileStatus", "clean-file", database.FILE_STATUS_DONE, mock.Anything).Return(nil)
	dbManager.On("UpdateFileStatus", "dirty-file", database.FILE_STATUS_DONE_WITH_ERRORS, mock.Anything).Return(nil)

	err := fp.UpdateFileStatus(fileErrorsMap, &fileMap)
	assert.NoError(t, err)

	dbManager.AssertExpectations(t)
}
