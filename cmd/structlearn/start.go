package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/0x6flab/namegenerator"
	"github.com/caarlos0/env/v11"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/structlearn/structlearn"
	"github.com/structlearn/structlearn/dataset"
	"github.com/structlearn/structlearn/pkg/mqtt"
	"github.com/structlearn/structlearn/pkg/storage"
	"github.com/structlearn/structlearn/problem/binary"
	"github.com/structlearn/structlearn/trainer"
	"github.com/structlearn/structlearn/trainer/api"
	"github.com/structlearn/structlearn/trainer/middleware"
)

const (
	svcName = "trainer"
	pathEnv = ".env"
)

var namegen = namegenerator.NewGenerator()

type envConfig struct {
	LogLevel    string        `env:"STRUCTLEARN_LOG_LEVEL"    envDefault:"info"`
	InstanceID  string        `env:"STRUCTLEARN_INSTANCE_ID"`
	HTTPHost    string        `env:"STRUCTLEARN_HTTP_HOST"    envDefault:"localhost"`
	HTTPPort    string        `env:"STRUCTLEARN_HTTP_PORT"    envDefault:"7070"`
	MQTTQoS     uint8         `env:"STRUCTLEARN_MQTT_QOS"     envDefault:"2"`
	MQTTTimeout time.Duration `env:"STRUCTLEARN_MQTT_TIMEOUT" envDefault:"30s"`
}

func startTrainer(ctx context.Context, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if _, err := os.Stat(pathEnv); err == nil {
		_ = godotenv.Load(pathEnv)
	}

	cfg := envConfig{}
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.InstanceID == "" {
		cfg.InstanceID = uuid.NewString()
	}
	runName := namegen.Generate()

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	fileCfg, err := structlearn.LoadConfig(configPath)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(fileCfg.Data.Seed))
	patterns, labels := binary.Generate(rng, fileCfg.Data.Examples, fileCfg.Data.Dimension, fileCfg.Data.Margin)
	train, err := dataset.New(patterns, labels, fileCfg.Training.Partitions)
	if err != nil {
		return err
	}

	var test *dataset.Store[[]float64, int]
	if fileCfg.Data.TestExamples > 0 {
		tp, tl := binary.Generate(rng, fileCfg.Data.TestExamples, fileCfg.Data.Dimension, fileCfg.Data.Margin)
		test, err = dataset.New(tp, tl, 1)
		if err != nil {
			return err
		}
	}

	opts := []trainer.Option{
		trainer.WithLogger(logger),
		trainer.WithRun(cfg.InstanceID, runName),
	}

	switch fileCfg.Output.RoundLog {
	case "", "stdout":
		opts = append(opts, trainer.WithLogWriter(os.Stdout))
	default:
		f, err := os.Create(fileCfg.Output.RoundLog)
		if err != nil {
			return fmt.Errorf("failed to create round log: %w", err)
		}
		defer f.Close()
		opts = append(opts, trainer.WithLogWriter(f))
	}

	var checkpoints storage.Storage
	if fileCfg.Output.CheckpointDir != "" {
		checkpoints, err = storage.NewBadgerStorage(fileCfg.Output.CheckpointDir)
		if err != nil {
			return err
		}
	} else {
		checkpoints = storage.NewInMemoryStorage()
	}
	defer checkpoints.Close()
	opts = append(opts, trainer.WithCheckpoints(checkpoints))

	if fileCfg.Output.MQTTAddress != "" {
		pub, err := mqtt.NewPublisher(fileCfg.Output.MQTTAddress, cfg.MQTTQoS, cfg.InstanceID, cfg.MQTTTimeout, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := pub.Disconnect(context.Background()); err != nil {
				logger.Error("failed to disconnect MQTT client", slog.Any("error", err))
			}
		}()
		topic := fileCfg.Output.MQTTTopic
		if topic == "" {
			topic = "structlearn/rounds"
		}
		opts = append(opts, trainer.WithPublisher(pub, topic))
	}

	svc, err := trainer.New(binary.Problem{}, train, test, fileCfg.TrainerConfig(), opts...)
	if err != nil {
		return err
	}

	svc = middleware.Logging[[]float64, int](logger, svc)
	counter := kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Namespace: "structlearn",
		Subsystem: svcName,
		Name:      "request_count",
		Help:      "Number of service requests.",
	}, []string{"method"})
	latency := kitprometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
		Namespace: "structlearn",
		Subsystem: svcName,
		Name:      "request_latency_microseconds",
		Help:      "Total duration of requests in microseconds.",
	}, []string{"method"})
	svc = middleware.Metrics[[]float64, int](counter, latency, svc)
	tracer := noop.NewTracerProvider().Tracer(svcName)
	svc = middleware.Tracing[[]float64, int](tracer, svc)

	server := &http.Server{
		Addr:    cfg.HTTPHost + ":" + cfg.HTTPPort,
		Handler: api.MakeHandler[[]float64, int](svc, cfg.InstanceID),
	}

	g.Go(func() error {
		logger.Info("trainer status API started",
			slog.String("instance_id", cfg.InstanceID),
			slog.String("address", server.Addr),
		)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()

		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		defer cancel()

		res, err := svc.Run(ctx)
		if err != nil {
			return err
		}
		logger.Info("training finished",
			slog.String("run_name", runName),
			slog.Int("rounds", res.Rounds),
			slog.Float64("weight_norm", res.Model.WeightNorm()),
		)

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service terminated with error: %s", svcName, err))

		return err
	}

	return nil
}
