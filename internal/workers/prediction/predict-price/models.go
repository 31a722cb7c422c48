package predictprice

import (
	"context"

	"carprice/internal/prediction"
)

// Predictor is satisfied by *prediction.Handler.
type Predictor interface {
	Execute(ctx context.Context, fv prediction.FeatureVector) (*prediction.Result, error)
}

type Output struct {
	*prediction.Result
}

// ToVariables is the job completion payload. Absent estimates are omitted.
func (o *Output) ToVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"predictionSucceeded": o.Succeeded,
		"predictionState":     string(o.State),
		"predictionRequestId": o.RequestID,
	}
	if o.Message != "" {
		vars["predictionMessage"] = o.Message
	}
	if o.ErrorCode != "" {
		vars["predictionErrorCode"] = o.ErrorCode
	}
	if o.PredictedPrice != nil {
		vars["predictedPrice"] = *o.PredictedPrice
	}
	if o.UpperBound != nil {
		vars["predictionUpperBound"] = *o.UpperBound
	}
	if o.TimeTaken != nil {
		vars["predictionTimeTaken"] = *o.TimeTaken
	}
	if o.PredictionGraph != nil {
		vars["predictionGraph"] = *o.PredictionGraph
	}
	return vars
}
