package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for every file the system reads or
// writes.
type Paths struct {
	ExecutableDir string
	DataDir       string
	OutputsDir    string
	LogsDir       string

	// Dataset input files (root of the data directory)
	DetectionsCSV string
	InjectionsCSV string
	ObjectMetaCSV string
	ManifestJSON  string

	// Pipeline-ready output files (outputs directory)
	TimeSeriesMatrixCSV string
	AnomalyLabelsCSV    string
	MetadataJSON        string
}

// GetPaths returns the application paths relative to the executable
// location. Paths are never resolved against the current working directory.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	exeDir := filepath.Dir(exe)

	// Directory structure:
	// <exe dir>/
	//   ├── data/
	//   │   ├── detections.csv
	//   │   ├── injections.csv
	//   │   ├── object_meta.csv
	//   │   ├── manifest.json
	//   │   └── outputs/
	//   │       ├── time_series_matrix.csv
	//   │       ├── anomaly_labels.csv
	//   │       └── data_metadata.json
	//   └── logs/

	paths := PathsForDataDir(filepath.Join(exeDir, DefaultDataDir))
	paths.ExecutableDir = exeDir
	paths.LogsDir = filepath.Join(exeDir, DefaultLogsDir)
	return paths, nil
}

// PathsForDataDir builds the path set for an explicit data directory, as
// used by the CLI -dir flags. The outputs directory defaults to
// <dataDir>/outputs. ExecutableDir and LogsDir are left empty; callers that
// need them use GetPaths.
func PathsForDataDir(dataDir string) *Paths {
	outputsDir := filepath.Join(dataDir, DefaultOutputsDir)
	return &Paths{
		DataDir:    dataDir,
		OutputsDir: outputsDir,

		DetectionsCSV: filepath.Join(dataDir, DetectionsFileName),
		InjectionsCSV: filepath.Join(dataDir, InjectionsFileName),
		ObjectMetaCSV: filepath.Join(dataDir, ObjectMetaFileName),
		ManifestJSON:  filepath.Join(dataDir, ManifestFileName),

		TimeSeriesMatrixCSV: filepath.Join(outputsDir, TimeSeriesMatrixFileName),
		AnomalyLabelsCSV:    filepath.Join(outputsDir, AnomalyLabelsFileName),
		MetadataJSON:        filepath.Join(outputsDir, MetadataFileName),
	}
}

// WithOutputsDir returns a copy of the path set with the output files
// rehomed under dir.
func (p *Paths) WithOutputsDir(dir string) *Paths {
	clone := *p
	clone.OutputsDir = dir
	clone.TimeSeriesMatrixCSV = filepath.Join(dir, TimeSeriesMatrixFileName)
	clone.AnomalyLabelsCSV = filepath.Join(dir, AnomalyLabelsFileName)
	clone.MetadataJSON = filepath.Join(dir, MetadataFileName)
	return &clone
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.OutputsDir,
	}
	if p.LogsDir != "" {
		directories = append(directories, p.LogsDir)
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}

		if logger != nil {
			logger.Debug("Ensured directory exists",
				slog.String("directory", dir))
		}
	}

	return nil
}

// InputFiles returns the three dataset input paths keyed by filename.
func (p *Paths) InputFiles() map[string]string {
	return map[string]string{
		DetectionsFileName: p.DetectionsCSV,
		InjectionsFileName: p.InjectionsCSV,
		ObjectMetaFileName: p.ObjectMetaCSV,
	}
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs detailed path resolution information for debugging
func (p *Paths) LogPathResolution() {
	logger := slog.Default()
	if logger == nil {
		return
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("executable", p.ExecutableDir),
			slog.String("data", p.DataDir),
			slog.String("outputs", p.OutputsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("input_files",
			slog.String("detections", p.DetectionsCSV),
			slog.String("injections", p.InjectionsCSV),
			slog.String("object_meta", p.ObjectMetaCSV),
		),
		slog.Group("output_files",
			slog.String("time_series_matrix", p.TimeSeriesMatrixCSV),
			slog.String("anomaly_labels", p.AnomalyLabelsCSV),
			slog.String("metadata", p.MetadataJSON),
		))
}
