// Command prepare cleans a car-sales CSV for model training. It normalizes the
// header, drops rows whose target is not numeric and writes the result next
// to the input as <name>_processed.csv unless -output is given.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"carprice/internal/common/config"
	"carprice/internal/common/errors"
	"carprice/internal/common/logger"
	"carprice/internal/dataprep"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to a config file (default: configs/config.yaml)")
	input := flag.String("input", "", "source CSV (default: dataset.input_path)")
	output := flag.String("output", "", "cleaned CSV (default: sibling file with dataset.output_suffix)")
	target := flag.String("target", "", "target column (default: dataset.target_column)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		return 1
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)

	in := firstNonEmpty(*input, cfg.Dataset.InputPath)
	if in == "" {
		log.Error("no input file given", map[string]interface{}{"hint": "pass -input or set dataset.input_path"})
		return 2
	}
	out := firstNonEmpty(*output, dataprep.OutputPath(in, cfg.Dataset.OutputSuffix))
	col := firstNonEmpty(*target, cfg.Dataset.TargetColumn)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := dataprep.NewService(log).Prepare(ctx, in, out, col)
	if err != nil {
		stdErr := errors.Normalize(err)
		log.Error("dataset preparation failed", map[string]interface{}{
			"code":    string(stdErr.Code),
			"message": stdErr.Message,
			"details": stdErr.Details,
			"fatal":   stdErr.Fatal(),
		})
		return 1
	}

	log.Info("dataset preparation finished", map[string]interface{}{
		"input":    in,
		"output":   out,
		"target":   report.Target,
		"total":    report.Total,
		"missing":  report.Missing,
		"retained": report.Retained,
	})
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
