package preparedataset

import "carprice/internal/common/logger"

type Input struct {
	InputPath    string `json:"inputPath"`
	OutputPath   string `json:"outputPath,omitempty"`
	TargetColumn string `json:"targetColumn,omitempty"`
}

type Output struct {
	OutputPath string `json:"outputPath"`
	Target     string `json:"target"`
	Total      int    `json:"total"`
	Missing    int    `json:"missing"`
	Retained   int    `json:"retained"`
}

// ToVariables is the job completion payload.
func (o *Output) ToVariables() map[string]interface{} {
	return map[string]interface{}{
		"datasetPath":     o.OutputPath,
		"datasetTarget":   o.Target,
		"datasetTotal":    o.Total,
		"datasetMissing":  o.Missing,
		"datasetRetained": o.Retained,
	}
}

type ServiceDependencies struct {
	Logger logger.Logger
}
