package config

import "time"

// Application constants for the lcpipe system
const (
	// Application Info
	AppName    = "lcpipe"
	AppVendor  = "lcpipe project"

	// Dataset input files (fixed names under the data directory)
	DetectionsFileName = "detections.csv"
	InjectionsFileName = "injections.csv"
	ObjectMetaFileName = "object_meta.csv"
	ManifestFileName   = "manifest.json"

	// Pipeline-ready output files (fixed names under the outputs directory)
	TimeSeriesMatrixFileName = "time_series_matrix.csv"
	AnomalyLabelsFileName    = "anomaly_labels.csv"
	MetadataFileName         = "data_metadata.json"

	// Directory layout (relative to executable)
	DefaultDataDir    = "data"
	DefaultLogsDir    = "logs"
	DefaultOutputsDir = "outputs"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// Operation Timeouts
	DefaultTransformTimeout = 5 * time.Minute

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogFile   = "logs/lcpipe.log"
)

// API Endpoints (internal)
const (
	APIBasePath        = "/api"
	HealthEndpoint     = "/api/health"
	ValidationEndpoint = "/api/validation"
	TransformEndpoint  = "/api/transform"
	DatasetEndpoint    = "/api/dataset"
	MetricsEndpoint    = "/metrics"
)
