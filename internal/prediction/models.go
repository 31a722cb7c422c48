package prediction

import (
	httpclient "carprice/internal/common/http"
	"carprice/internal/common/logger"
	"carprice/internal/common/observability"
)

// Canonical instance keys, in form order.
const (
	ColumnCarID        = "CAR_ID"
	ColumnBrand        = "BRAND"
	ColumnYear         = "YEAR"
	ColumnEngineSize   = "ENGINE_SIZE"
	ColumnFuelType     = "FUEL_TYPE"
	ColumnTransmission = "TRANSMISSION"
	ColumnMileage      = "MILEAGE"
	ColumnCondition    = "CONDITION"
	ColumnModel        = "MODEL"
)

var Columns = []string{
	ColumnCarID,
	ColumnBrand,
	ColumnYear,
	ColumnEngineSize,
	ColumnFuelType,
	ColumnTransmission,
	ColumnMileage,
	ColumnCondition,
	ColumnModel,
}

// ChoiceColumns are the columns offered as dropdowns. CAR_ID and MILEAGE are
// free text.
var ChoiceColumns = []string{
	ColumnBrand,
	ColumnYear,
	ColumnEngineSize,
	ColumnFuelType,
	ColumnTransmission,
	ColumnCondition,
	ColumnModel,
}

// FeatureVector is one car as collected from a form, API body or job.
type FeatureVector struct {
	CarID        string `json:"carId" form:"CAR_ID"`
	Brand        string `json:"brand" form:"BRAND"`
	Year         string `json:"year" form:"YEAR"`
	EngineSize   string `json:"engineSize" form:"ENGINE_SIZE"`
	FuelType     string `json:"fuelType" form:"FUEL_TYPE"`
	Transmission string `json:"transmission" form:"TRANSMISSION"`
	Mileage      string `json:"mileage" form:"MILEAGE"`
	Condition    string `json:"condition" form:"CONDITION"`
	Model        string `json:"model" form:"MODEL"`
}

// Values maps canonical column names to the raw field values.
func (f FeatureVector) Values() map[string]string {
	return map[string]string{
		ColumnCarID:        f.CarID,
		ColumnBrand:        f.Brand,
		ColumnYear:         f.Year,
		ColumnEngineSize:   f.EngineSize,
		ColumnFuelType:     f.FuelType,
		ColumnTransmission: f.Transmission,
		ColumnMileage:      f.Mileage,
		ColumnCondition:    f.Condition,
		ColumnModel:        f.Model,
	}
}

type Request struct {
	Instances []map[string]interface{} `json:"instances"`
}

type Response struct {
	Predictions     []map[string]interface{} `json:"predictions"`
	DeployedModelID string                   `json:"deployedModelId,omitempty"`
	Error           string                   `json:"error,omitempty"`
	RequestID       string                   `json:"-"`
}

// State is a step of a single prediction call.
type State string

const (
	StateIdle            State = "idle"
	StateValidating      State = "validating"
	StateDispatched      State = "dispatched"
	StateSucceeded       State = "succeeded"
	StateFailedEmpty     State = "failed_empty"
	StateFailedTransport State = "failed_transport"
	StateInvalid         State = "invalid"
)

// Result is what a caller sees. Absent remote fields stay nil.
type Result struct {
	Succeeded       bool     `json:"succeeded"`
	State           State    `json:"state"`
	Message         string   `json:"message,omitempty"`
	PredictedPrice  *float64 `json:"predictedPrice,omitempty"`
	UpperBound      *float64 `json:"upperBound,omitempty"`
	TimeTaken       *float64 `json:"timeTaken,omitempty"`
	PredictionGraph *string  `json:"predictionGraph,omitempty"`
	RequestID       string   `json:"requestId,omitempty"`
	ErrorCode       string   `json:"errorCode,omitempty"` // StandardError code of a failed call
}

type ServiceDependencies struct {
	Logger logger.Logger
	Client *httpclient.Client
}

type HandlerOptions struct {
	Config        *Config
	Logger        logger.Logger
	Client        *httpclient.Client
	Observability *observability.Observability
}
