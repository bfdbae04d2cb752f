package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"fuelyt"
	"fuelyt/agent"
	"fuelyt/notify"
	"fuelyt/oracle"
	"fuelyt/oracle/bedrock"
	"fuelyt/oracle/ollama"
	"fuelyt/oracle/openai"
	"fuelyt/store"
	"fuelyt/tools"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		slog.Info("SETUP: No .env file loaded", "reason", err)
	}

	var modelConfig fuelyt.ModelConfig
	if err := envdecode.Decode(&modelConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	var agentConfig fuelyt.AgentConfig
	if err := envdecode.Decode(&agentConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	records := store.NewFileRecordStore(agentConfig.DatabasePath)
	registry, err := tools.NewRegistry(records)
	if err != nil {
		slog.Error("SETUP: Failed to create tool registry", "error", err)
		return
	}
	slog.Info("SETUP: File record store initialized", "path", agentConfig.DatabasePath)

	logger, cleanup, err := newTurnLogger(modelConfig.ModelID)
	if err != nil {
		slog.Error("SETUP: Failed to create turn logger", "error", err)
		return
	}
	defer func() {
		if err := cleanup(); err != nil {
			slog.Error("SETUP: Failed to flush turn log", "error", err)
		}
	}()

	llm, err := newOracle(ctx, modelConfig, agentConfig)
	if err != nil {
		slog.Error("SETUP: Failed to create LLM client", "error", err)
		return
	}

	tracerProvider, _, otelShutdown, err := fuelyt.InitOtel(ctx)
	if err != nil {
		slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
		return
	}
	defer func() {
		if err := otelShutdown(ctx); err != nil {
			slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
		}
	}()

	coach, err := agent.New(agent.Config{
		Oracle:        llm,
		Tools:         registry,
		Records:       records,
		Logger:        logger,
		MaxIterations: agentConfig.MaxIterations,
		TurnTimeout:   agentConfig.TurnTimeout,
		HistoryLimit:  agentConfig.MaxConversationHistory,
	})
	if err != nil {
		slog.Error("SETUP: Failed to create agent", "error", err)
		return
	}

	userID := argOr(1, "demo-user")
	message := argOr(2, "Hi! I just finished a 45-minute run and had a chicken salad for lunch. Can you log those and tell me how I'm doing?")

	tracer := tracerProvider.Tracer(fuelyt.TracerNameAgent)
	ctx, span := tracer.Start(ctx, fuelyt.TracerNameAgent, trace.WithAttributes(
		attribute.String("model.id", modelConfig.ModelID),
		attribute.String("model.provider", modelConfig.Provider),
		attribute.String("user.id", userID),
	))
	defer span.End()

	result, err := coach.HandleTurn(ctx, userID, message, nil, func(fragment string) {
		fmt.Print(fragment)
	})
	fmt.Println()
	if err != nil {
		slog.Error("FAILURE: Error handling turn", "error", err)
		return
	}

	slog.Info("RESULT: Turn complete",
		"actions_taken", result.ActionsTaken,
		"recommendations", len(result.Recommendations),
	)
	if os.Getenv("DEBUG_DUMP") != "" {
		fuelyt.Dump(result)
	}

	if agentConfig.NotifyWebhookURL != "" {
		notifier := notify.NewClient(agentConfig.NotifyWebhookURL, http.DefaultClient)
		summary := notify.TurnSummary(agentConfig.NotifyChannel, userID, result.ActionsTaken)
		if err := notifier.PostTurn(ctx, summary); err != nil {
			slog.Error("Failed to post turn summary", "error", err)
		}
	}
}

func newOracle(ctx context.Context, modelConfig fuelyt.ModelConfig, agentConfig fuelyt.AgentConfig) (oracle.Client, error) {
	switch modelConfig.Provider {
	case "openai":
		return openai.NewClient(openai.ClientOptions{
			APIKey:      os.Getenv("OPENAI_API_KEY"),
			ModelID:     modelConfig.ModelID,
			MaxTokens:   modelConfig.MaxTokens,
			Temperature: modelConfig.Temperature,
			TopP:        modelConfig.TopP,
		}), nil

	case "bedrock":
		awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRetryMaxAttempts(5))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		return bedrock.NewClient(bedrockruntime.NewFromConfig(awsCfg), bedrock.ClientOptions{
			ModelID:     modelConfig.ModelID,
			MaxTokens:   modelConfig.MaxTokens,
			Temperature: modelConfig.Temperature,
			TopP:        modelConfig.TopP,
		}), nil

	case "ollama":
		return ollama.NewClient(ollama.ClientOpts{
			BaseEndpoint: agentConfig.BaseOllamaEndpoint,
			ModelID:      modelConfig.ModelID,
			HTTPClient:   http.DefaultClient,
			Temperature:  float64(modelConfig.Temperature),
			TopP:         float64(modelConfig.TopP),
		})

	default:
		return nil, fmt.Errorf("unknown model provider %q", modelConfig.Provider)
	}
}

func argOr(i int, def string) string {
	if len(os.Args) > i {
		return os.Args[i]
	}
	return def
}

func newTurnLogger(modelID string) (fuelyt.TurnLogger, func() error, error) {
	logFilePath := fuelyt.NewTurnLogFilePath(modelID)
	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, func() error { return err }, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := fuelyt.NewFileTurnLogger(logFile)
	cleanup := func() error {
		return errors.Join(logger.Flush(), logFile.Close())
	}
	return logger, cleanup, nil
}
