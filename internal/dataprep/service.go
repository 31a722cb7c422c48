package dataprep

import (
	"context"

	"carprice/internal/common/logger"
	"carprice/internal/common/metrics"
)

// Service runs the load, normalize, validate and save pipeline.
type Service struct {
	logger logger.Logger
}

func NewService(log logger.Logger) *Service {
	return &Service{logger: log.WithFields(map[string]interface{}{"component": "dataprep"})}
}

// Prepare cleans input and writes the result to output. Only a missing input
// file or a missing target column is an error; dropped rows are reported.
func (s *Service) Prepare(ctx context.Context, input, output, target string) (Report, error) {
	table, err := Load(input)
	if err != nil {
		return Report{}, err
	}
	metrics.DatasetRowsLoaded.Add(float64(table.Len()))

	s.logger.Info("dataset loaded", map[string]interface{}{
		"path":    input,
		"rows":    table.Len(),
		"columns": table.Columns,
	})

	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	table, report, err := s.Clean(table, target)
	if err != nil {
		return Report{}, err
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}

	if err := Save(table, output); err != nil {
		return report, err
	}

	s.logger.Info("cleaned dataset saved", map[string]interface{}{
		"path":     output,
		"retained": report.Retained,
	})
	return report, nil
}

// Clean normalizes the header and validates the target, logging how many
// rows were dropped.
func (s *Service) Clean(table *Table, target string) (*Table, Report, error) {
	normalized := NormalizeColumns(table)
	s.logger.Debug("columns renamed", map[string]interface{}{
		"before": table.Columns,
		"after":  normalized.Columns,
	})

	cleaned, report, err := ValidateTarget(normalized, target)
	if err != nil {
		s.logger.Error("target column missing", map[string]interface{}{
			"target":  NormalizeName(target),
			"columns": normalized.Columns,
		})
		return nil, Report{}, err
	}

	if report.Missing > 0 {
		metrics.DatasetRowsDropped.WithLabelValues(report.Target).Add(float64(report.Missing))
		s.logger.Warn("non-numeric or missing target values dropped", map[string]interface{}{
			"target":  report.Target,
			"missing": report.Missing,
		})
	}
	if report.Retained == 0 && report.Total > 0 {
		s.logger.Warn("no rows retained", map[string]interface{}{"target": report.Target})
	}

	return cleaned, report, nil
}
