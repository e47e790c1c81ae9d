package main

import (
	"encoding/json"
	"flag"
	"io"
	"os"

	"github.com/noshow-ai/platform/pkg/calibration"
	"github.com/noshow-ai/platform/pkg/catalog"
	"github.com/noshow-ai/platform/pkg/common/config"
	"github.com/noshow-ai/platform/pkg/common/logger"
	"github.com/noshow-ai/platform/pkg/common/models"
	"github.com/noshow-ai/platform/pkg/features"
	"github.com/noshow-ai/platform/pkg/pipeline"
	"github.com/noshow-ai/platform/pkg/serving/predictor"
)

// predict scores a single appointment payload and writes exactly one JSON
// object to stdout. The payload comes from the first positional argument,
// or from stdin when no argument is given; diagnostics go to stderr only,
// so the caller can consume stdout as the structured result.
func main() {
	debugFeatures := flag.Bool("debug-features", false, "print the extracted feature mapping instead of a prediction")
	flag.Parse()

	logger.Init()
	cfg := config.Load()

	payload, err := readPayload(flag.Args())
	if err != nil {
		emit(&models.ErrorResponse{Success: false, Error: "Payload inválido"})
		os.Exit(1)
	}

	var record models.AppointmentRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		emit(&models.ErrorResponse{Success: false, Error: "Payload inválido"})
		os.Exit(1)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Log.WithError(err).Warn("Falling back to default encoding catalog")
		cat = catalog.DefaultCatalog()
	}

	extractor := features.NewExtractor(cat, features.DefaultsFromConfig(cfg))
	gateway := predictor.Load(cfg.ModelArtifactPath)
	engine := calibration.NewEngine(cfg)
	pipe := pipeline.New(extractor, gateway, engine)

	if *debugFeatures {
		emit(pipe.ExtractFeatures(&record))
		return
	}

	result, ok := pipe.Run(&record)
	emit(result)
	if !ok {
		os.Exit(1)
	}
}

func readPayload(args []string) ([]byte, error) {
	if len(args) > 0 {
		return []byte(args[0]), nil
	}
	return io.ReadAll(os.Stdin)
}

func emit(result interface{}) {
	encoder := json.NewEncoder(os.Stdout)
	if err := encoder.Encode(result); err != nil {
		logger.Log.WithError(err).Error("Failed to write result")
		os.Exit(1)
	}
}
