package preparedataset

import (
	"context"

	"carprice/internal/dataprep"
)

type Service struct {
	config *Config
	prep   *dataprep.Service
}

func NewService(deps ServiceDependencies, cfg *Config) *Service {
	return &Service{
		config: cfg,
		prep:   dataprep.NewService(deps.Logger),
	}
}

// Execute fills in the output path and target defaults and runs the pipeline.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	output := input.OutputPath
	if output == "" {
		output = dataprep.OutputPath(input.InputPath, s.config.OutputSuffix)
	}
	target := input.TargetColumn
	if target == "" {
		target = s.config.TargetColumn
	}

	report, err := s.prep.Prepare(ctx, input.InputPath, output, target)
	if err != nil {
		return nil, err
	}

	return &Output{
		OutputPath: output,
		Target:     report.Target,
		Total:      report.Total,
		Missing:    report.Missing,
		Retained:   report.Retained,
	}, nil
}
