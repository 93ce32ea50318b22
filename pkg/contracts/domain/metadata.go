package domain

// Fixed descriptive fields of the metadata summary.
const (
	DataTypeTimeSeries = "time_series"
	SourceUploaded     = "uploaded_dataset"
)

// DatasetMetadata summarizes a pipeline-ready dataset. Field order matches
// the on-disk JSON layout of data_metadata.json.
type DatasetMetadata struct {
	NObjects    int     `json:"n_objects"`
	NTimestamps int     `json:"n_timestamps"`
	AnomalyRate float64 `json:"anomaly_rate"`
	DataType    string  `json:"data_type"`
	Source      string  `json:"source"`
}

// NewDatasetMetadata builds the summary for a matrix of the given shape and
// mean label rate.
func NewDatasetMetadata(nObjects, nTimestamps int, anomalyRate float64) *DatasetMetadata {
	return &DatasetMetadata{
		NObjects:    nObjects,
		NTimestamps: nTimestamps,
		AnomalyRate: anomalyRate,
		DataType:    DataTypeTimeSeries,
		Source:      SourceUploaded,
	}
}
