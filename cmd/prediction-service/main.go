package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/noshow-ai/platform/pkg/calibration"
	"github.com/noshow-ai/platform/pkg/catalog"
	"github.com/noshow-ai/platform/pkg/common/config"
	"github.com/noshow-ai/platform/pkg/common/database"
	"github.com/noshow-ai/platform/pkg/common/kafka"
	"github.com/noshow-ai/platform/pkg/common/logger"
	"github.com/noshow-ai/platform/pkg/common/models"
	"github.com/noshow-ai/platform/pkg/features"
	"github.com/noshow-ai/platform/pkg/history"
	"github.com/noshow-ai/platform/pkg/observability/metrics"
	"github.com/noshow-ai/platform/pkg/pipeline"
	"github.com/noshow-ai/platform/pkg/serving/predictor"
)

type PredictionService struct {
	pipeline *pipeline.Pipeline
	gateway  *predictor.Gateway
	history  *history.Store
	producer *kafka.Producer
}

func main() {
	logger.Init()
	cfg := config.Load()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Log.WithError(err).Warn("Falling back to default encoding catalog")
		cat = catalog.DefaultCatalog()
	}

	gateway := predictor.Load(cfg.ModelArtifactPath)
	extractor := features.NewExtractor(cat, features.DefaultsFromConfig(cfg))
	engine := calibration.NewEngine(cfg)

	service := &PredictionService{
		pipeline: pipeline.New(extractor, gateway, engine),
		gateway:  gateway,
	}

	if cfg.HistoryEnabled {
		db, err := database.GetPostgres(cfg)
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to connect to appointment ledger")
		}
		store := history.NewStore(db, database.GetRedis(cfg), cfg.HistoryCacheTTL)
		if err := store.AutoMigrate(); err != nil {
			logger.Log.WithError(err).Fatal("Failed to migrate ledger tables")
		}
		service.history = store
	}

	if cfg.PublishEvents {
		service.producer = kafka.NewProducer(cfg.KafkaTopic)
		defer service.producer.Close()
	}

	router := mux.NewRouter()
	router.HandleFunc("/health", service.handleHealth).Methods("GET")
	router.HandleFunc("/api/v1/predict", service.handlePredict).Methods("POST")
	router.HandleFunc("/api/v1/model", service.handleModel).Methods("GET")
	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods("GET")

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host":            cfg.ServerHost,
			"port":            cfg.ServerPort,
			"model_available": gateway.Available(),
		}).Info("Prediction Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Prediction Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("Prediction Service stopped")
}

func (s *PredictionService) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "healthy",
		"model_available": s.gateway.Available(),
	})
}

func (s *PredictionService) handlePredict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var record models.AppointmentRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		metrics.ObserveFailure(false)
		writeJSON(w, http.StatusBadRequest, &models.ErrorResponse{
			Success: false,
			Error:   "Payload inválido",
		})
		return
	}

	if r.URL.Query().Get("debug") == "features" {
		writeJSON(w, http.StatusOK, s.pipeline.ExtractFeatures(&record))
		return
	}

	ctx := r.Context()
	if s.history != nil {
		s.history.Enrich(ctx, &record, recordPatientID(&record))
	}

	prediction, patientID, err := s.pipeline.Predict(&record)
	if err != nil {
		unavailable := errors.Is(err, predictor.ErrUnavailable)
		metrics.ObserveFailure(unavailable)
		status := http.StatusInternalServerError
		if unavailable {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, pipeline.AssembleError(err, patientID))
		return
	}

	metrics.ObservePrediction(prediction.RiskLevel)

	if s.producer != nil {
		// Fire and forget: a dead broker must not fail the prediction.
		if err := s.producer.PublishPrediction(ctx, patientID, prediction); err != nil {
			logger.Log.WithError(err).Warn("Prediction event not published")
		}
	}

	logger.Log.WithFields(map[string]interface{}{
		"patient_id": patientID,
		"risk_level": prediction.RiskLevel,
		"latency_ms": time.Since(start).Milliseconds(),
	}).Info("Prediction completed")

	writeJSON(w, http.StatusOK, &models.PredictionResponse{
		Success:    true,
		Prediction: prediction,
		PatientID:  patientID,
	})
}

func (s *PredictionService) handleModel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"available": s.gateway.Available(),
		"version":   s.gateway.Version(),
		"features":  features.Names,
	})
}

func recordPatientID(record *models.AppointmentRecord) string {
	if id, ok := record.PacienteID.(string); ok {
		return id
	}
	if record.PacienteID == nil {
		return ""
	}
	return fmt.Sprintf("%v", record.PacienteID)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
