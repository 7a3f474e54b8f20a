package ingestion

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bbrewington/data-liberation-project-datasets/internal/boating"
	"github.com/bbrewington/data-liberation-project-datasets/internal/config"
	"github.com/bbrewington/data-liberation-project-datasets/internal/database"
	"github.com/bbrewington/data-liberation-project-datasets/internal/models"
)

// MockManager is a mock implementation of the database.Manager interface.
type MockManager struct {
	mock.Mock
}

func (m *MockManager) CreateFileRecordsTable() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockManager) CreatePublishedTable(spec database.TableSpec) error {
	args := m.Called(spec)
	return args.Error(0)
}

func (m *MockManager) CreateWorkerStagingTables(spec database.TableSpec, numTables int) ([]string, error) {
	args := m.Called(spec, numTables)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockManager) DropWorkerStagingTable(tableName string) error {
	args := m.Called(tableName)
	return args.Error(0)
}

func (m *MockManager) InsertRows(tableName string, columns []string, rows [][]any) error {
	args := m.Called(tableName, columns, rows)
	return args.Error(0)
}

func (m *MockManager) DeleteRowsForFiles(spec database.TableSpec, fileNames []string) error {
	args := m.Called(spec, fileNames)
	return args.Error(0)
}

func (m *MockManager) PublishFromStaging(spec database.TableSpec, stagingTables []string) error {
	args := m.Called(spec, stagingTables)
	return args.Error(0)
}

func (m *MockManager) SelectRows(spec database.TableSpec) ([][]any, error) {
	args := m.Called(spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]any), args.Error(1)
}

func (m *MockManager) ExportParquet(spec database.TableSpec, outPath string) error {
	args := m.Called(spec, outPath)
	return args.Error(0)
}

func (m *MockManager) InsertFileRecord(fileName string, processedAt time.Time, status string, checksum string) (string, error) {
	args := m.Called(fileName, processedAt, status, checksum)
	return args.String(0), args.Error(1)
}

func (m *MockManager) UpdateFileStatus(fileID string, status string, appErrors []models.AppError) error {
	args := m.Called(fileID, status, appErrors)
	return args.Error(0)
}

func (m *MockManager) IsFileAlreadyProcessed(checksum string) (bool, error) {
	args := m.Called(checksum)
	return args.Bool(0), args.Error(1)
}

// MockPublisher is a mock implementation of the Publisher interface.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(spec database.TableSpec, rows [][]any) error {
	args := m.Called(spec, rows)
	return args.Error(0)
}

const boatingCSV = "Accident ID,Accident Date,Accident Time,Day of Week,State\n" +
	"B-1,20190608,1435,SATURDAY,MO\n" +
	"B-2,20190609,,SUNDAY,MO\n"

func writeBoatingExtract(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.NoError(t, os.WriteFile(path, []byte(boatingCSV), 0644))
	return path
}

func testConfig() config.Config {
	return config.Config{
		OutputDir:          ".",
		NumParserWorkers:   2,
		NumDBWorkers:       1,
		ResultsChannelSize: 100,
		DBBatchSize:        100,
	}
}

func newBoatingService(dbManager database.Manager, publisher Publisher, cfg config.Config) *Service[*models.BoatingAccident] {
	pipeline := boating.New()
	worker := NewAsyncWorker[*models.BoatingAccident](dbManager, pipeline, AsyncWorkerConfig{DBBatchSize: cfg.DBBatchSize})
	processor := NewFileProcessor(dbManager)
	return NewService[*models.BoatingAccident](
		dbManager,
		Setup[*models.BoatingAccident]{},
		worker,
		processor,
		pipeline,
		publisher,
		cfg,
	)
}

func TestService_Execute(t *testing.T) {
	tempDir := t.TempDir()
	path := writeBoatingExtract(t, tempDir, "accidents_2023.csv")

	dbManager := new(MockManager)
	spec := boating.Table

	dbManager.On("CreateFileRecordsTable").Return(nil)
	dbManager.On("CreatePublishedTable", spec).Return(nil)
	dbManager.On("CreateWorkerStagingTables", spec, 1).Return([]string{"staging_1"}, nil)
	dbManager.On("IsFileAlreadyProcessed", mock.Anything).Return(false, nil)
	dbManager.On("InsertFileRecord", mock.Anything, mock.Anything, database.FILE_STATUS_PROCESSING, mock.Anything).Return("file-1", nil)
	dbManager.On("InsertRows", "staging_1", spec.Columns, mock.Anything).Return(nil)
	dbManager.On("DeleteRowsForFiles", spec, []string{path}).Return(nil)
	dbManager.On("PublishFromStaging", spec, []string{"staging_1"}).Return(nil)
	dbManager.On("UpdateFileStatus", "file-1", database.FILE_STATUS_DONE, mock.Anything).Return(nil)
	dbManager.On("ExportParquet", spec, filepath.Join(".", spec.Name+".parquet")).Return(nil)
	dbManager.On("DropWorkerStagingTable", "staging_1").Return(nil)

	service := newBoatingService(dbManager, nil, testConfig())

	err := service.Execute(tempDir)
	assert.NoError(t, err)

	dbManager.AssertExpectations(t)

	// Both rows of the extract must reach the staging insert: no filtering
	// anywhere in the chain.
	inserted := 0
	for _, call := range dbManager.Calls {
		if call.Method == "InsertRows" {
			inserted += len(call.Arguments.Get(2).([][]any))
		}
	}
	assert.Equal(t, 2, inserted)
}

func TestService_ExecuteSkipsProcessedFiles(t *testing.T) {
	tempDir := t.TempDir()
	writeBoatingExtract(t, tempDir, "accidents_2023.csv")

	dbManager := new(MockManager)
	spec := boating.Table

	dbManager.On("CreateFileRecordsTable").Return(nil)
	dbManager.On("CreatePublishedTable", spec).Return(nil)
	dbManager.On("CreateWorkerStagingTables", spec, 1).Return([]string{"staging_1"}, nil)
	dbManager.On("IsFileAlreadyProcessed", mock.Anything).Return(true, nil)
	dbManager.On("PublishFromStaging", spec, []string{"staging_1"}).Return(nil)
	dbManager.On("ExportParquet", spec, mock.Anything).Return(nil)
	dbManager.On("DropWorkerStagingTable", "staging_1").Return(nil)

	service := newBoatingService(dbManager, nil, testConfig())

	err := service.Execute(tempDir)
	assert.NoError(t, err)

	// The already-ingested file is skipped entirely; the export still runs
	// so re-runs re-emit the identical artifact.
	dbManager.AssertNotCalled(t, "InsertFileRecord", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	dbManager.AssertNotCalled(t, "InsertRows", mock.Anything, mock.Anything, mock.Anything)
	dbManager.AssertNotCalled(t, "DeleteRowsForFiles", mock.Anything, mock.Anything)
	dbManager.AssertCalled(t, "ExportParquet", spec, mock.Anything)
}

func TestService_ExecutePublishesWhenConfigured(t *testing.T) {
	tempDir := t.TempDir()
	writeBoatingExtract(t, tempDir, "accidents_2023.csv")

	dbManager := new(MockManager)
	publisher := new(MockPublisher)
	spec := boating.Table

	published := [][]any{{"B-1"}, {"B-2"}}

	dbManager.On("CreateFileRecordsTable").Return(nil)
	dbManager.On("CreatePublishedTable", spec).Return(nil)
	dbManager.On("CreateWorkerStagingTables", spec, 1).Return([]string{"staging_1"}, nil)
	dbManager.On("IsFileAlreadyProcessed", mock.Anything).Return(false, nil)
	dbManager.On("InsertFileRecord", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("file-1", nil)
	dbManager.On("InsertRows", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	dbManager.On("DeleteRowsForFiles", spec, mock.Anything).Return(nil)
	dbManager.On("PublishFromStaging", spec, mock.Anything).Return(nil)
	dbManager.On("UpdateFileStatus", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	dbManager.On("ExportParquet", spec, mock.Anything).Return(nil)
	dbManager.On("SelectRows", spec).Return(published, nil)
	dbManager.On("DropWorkerStagingTable", mock.Anything).Return(nil)

	publisher.On("Publish", spec, published).Return(nil)

	service := newBoatingService(dbManager, publisher, testConfig())

	err := service.Execute(tempDir)
	assert.NoError(t, err)

	publisher.AssertExpectations(t)
}

func TestService_ExecuteReplacesRowsOfReprocessedFiles(t *testing.T) {
	// A run that died after publishing but before its status write leaves the
	// ledger entry PROCESSING, so the file is dispatched again on the next
	// run. The rows it published last time must be deleted before this run's
	// staged rows are published, or the table accumulates a duplicate of
	// every row. Same story when an extract is revised under the same name.
	tempDir := t.TempDir()
	path := writeBoatingExtract(t, tempDir, "accidents_2023.csv")

	dbManager := new(MockManager)
	spec := boating.Table

	var callOrder []string
	dbManager.On("CreateFileRecordsTable").Return(nil)
	dbManager.On("CreatePublishedTable", spec).Return(nil)
	dbManager.On("CreateWorkerStagingTables", spec, 1).Return([]string{"staging_1"}, nil)
	dbManager.On("IsFileAlreadyProcessed", mock.Anything).Return(false, nil)
	dbManager.On("InsertFileRecord", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("file-2", nil)
	dbManager.On("InsertRows", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	dbManager.On("DeleteRowsForFiles", spec, []string{path}).
		Run(func(mock.Arguments) { callOrder = append(callOrder, "delete") }).
		Return(nil)
	dbManager.On("PublishFromStaging", spec, mock.Anything).
		Run(func(mock.Arguments) { callOrder = append(callOrder, "publish") }).
		Return(nil)
	dbManager.On("UpdateFileStatus", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	dbManager.On("ExportParquet", spec, mock.Anything).Return(nil)
	dbManager.On("DropWorkerStagingTable", mock.Anything).Return(nil)

	service := newBoatingService(dbManager, nil, testConfig())

	err := service.Execute(tempDir)
	assert.NoError(t, err)

	assert.Equal(t, []string{"delete", "publish"}, callOrder)
	dbManager.AssertCalled(t, "DeleteRowsForFiles", spec, []string{path})
}

func TestService_ExecuteFailsOnMissingDirectory(t *testing.T) {
	dbManager := new(MockManager)

	service := newBoatingService(dbManager, nil, testConfig())

	err := service.Execute(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}

func TestService_ExecuteAggregatesRowErrors(t *testing.T) {
	tempDir := t.TempDir()

	// A structurally broken row (bare quote) is reported per file and the
	// file ends DONE_WITH_ERRORS; the good rows still land.
	content := "Accident ID,Accident Date\nB-1,20190608\n\"broken,20190609\n"
	path := filepath.Join(tempDir, "accidents_2023.csv")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))

	dbManager := new(MockManager)
	spec := boating.Table

	dbManager.On("CreateFileRecordsTable").Return(nil)
	dbManager.On("CreatePublishedTable", spec).Return(nil)
	dbManager.On("CreateWorkerStagingTables", spec, 1).Return([]string{"staging_1"}, nil)
	dbManager.On("IsFileAlreadyProcessed", mock.Anything).Return(false, nil)
	dbManager.On("InsertFileRecord", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("file-1", nil)
	dbManager.On("InsertRows", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	dbManager.On("DeleteRowsForFiles", spec, mock.Anything).Return(nil)
	dbManager.On("PublishFromStaging", spec, mock.Anything).Return(nil)
	dbManager.On("UpdateFileStatus", "file-1", database.FILE_STATUS_DONE_WITH_ERRORS, mock.Anything).Return(nil)
	dbManager.On("ExportParquet", spec, mock.Anything).Return(nil)
	dbManager.On("DropWorkerStagingTable", mock.Anything).Return(nil)

	service := newBoatingService(dbManager, nil, testConfig())

	err := service.Execute(tempDir)
	assert.NoError(t, err)

	dbManager.AssertCalled(t, "UpdateFileStatus", "file-1", database.FILE_STATUS_DONE_WITH_ERRORS, mock.Anything)
}
