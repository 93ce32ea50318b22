package domain

// Canonical column names of the detections table.
const (
	ColObjectID    = "object_id"
	ColEpochDay    = "epoch_day"
	ColMag         = "mag"
	ColFlux        = "flux"
	ColMagErr      = "mag_err"
	ColFluxErr     = "flux_err"
	ColIsInjection = "is_injection"
	ColInjectionID = "injection_id"
)

// RequiredDetectionColumns lists the columns every detections table must
// carry. is_injection and injection_id are optional.
var RequiredDetectionColumns = []string{
	ColObjectID, ColEpochDay, ColMag, ColFlux, ColMagErr, ColFluxErr,
}

// CriticalColumns lists the columns in which no missing values are
// permitted.
var CriticalColumns = []string{ColObjectID, ColEpochDay, ColMag, ColFlux}

// Magnitude and flux sanity bounds. Violations are flagged by validation,
// never corrected.
const (
	MagMin = 10.0
	MagMax = 30.0
)

// Detection represents a single photometric observation of an object at one
// epoch.
type Detection struct {
	ObjectID    string  `json:"object_id" validate:"required"`
	EpochDay    float64 `json:"epoch_day"`
	Mag         float64 `json:"mag" validate:"min=10,max=30"`
	Flux        float64 `json:"flux" validate:"min=0"`
	MagErr      float64 `json:"mag_err"`
	FluxErr     float64 `json:"flux_err"`
	IsInjection int     `json:"is_injection,omitempty"`
	InjectionID string  `json:"injection_id,omitempty"`
}

// Injection represents a synthetic signal inserted into the data stream for
// calibration. Attributes beyond the identifier are carried through but not
// consumed by validation.
type Injection struct {
	InjectionID string  `json:"injection_id" validate:"required"`
	ObjectID    string  `json:"object_id,omitempty"`
	PeakMag     float64 `json:"peak_mag,omitempty"`
	Model       string  `json:"model,omitempty"`
}

// ObjectMeta represents descriptive metadata for an observed object.
type ObjectMeta struct {
	ObjectID string  `json:"object_id" validate:"required"`
	RA       float64 `json:"ra,omitempty"`
	Dec      float64 `json:"dec,omitempty"`
	Field    string  `json:"field,omitempty"`
}
