package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joeshaw/envdecode"

	"fuelyt"
	"fuelyt/agent"
	"fuelyt/oracle/bedrock"
	"fuelyt/store"
	"fuelyt/tools"
)

type Params struct {
	UserID  string         `json:"user_id"`
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
}

type Results struct {
	Response        string                  `json:"response"`
	ActionsTaken    []string                `json:"actions_taken"`
	Recommendations []fuelyt.Recommendation `json:"recommendations"`
}

func main() {
	fn := func(ctx context.Context, params Params) (Results, error) {
		var modelConfig fuelyt.ModelConfig
		if err := envdecode.Decode(&modelConfig); err != nil {
			log.Fatalf("Failed to decode: %s", err)
		}

		var agentConfig fuelyt.AgentConfig
		if err := envdecode.Decode(&agentConfig); err != nil {
			log.Fatalf("Failed to decode: %s", err)
		}

		s3Bucket := os.Getenv("RECORDS_S3_BUCKET")
		s3Prefix := os.Getenv("RECORDS_S3_PREFIX")
		if s3Bucket == "" {
			return Results{}, fmt.Errorf("missing S3 config: RECORDS_S3_BUCKET must be set")
		}

		awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRetryMaxAttempts(5))
		if err != nil {
			return Results{}, fmt.Errorf("failed to load AWS config: %w", err)
		}

		records := store.NewS3RecordStore(s3.NewFromConfig(awsCfg), s3Bucket, s3Prefix)
		registry, err := tools.NewRegistry(records)
		if err != nil {
			slog.Error("SETUP: Failed to create tool registry", "error", err)
			return Results{}, err
		}
		slog.Info("SETUP: S3 record store initialized", "bucket", s3Bucket, "prefix", s3Prefix)

		llm := bedrock.NewClient(bedrockruntime.NewFromConfig(awsCfg), bedrock.ClientOptions{
			ModelID:     modelConfig.ModelID,
			MaxTokens:   modelConfig.MaxTokens,
			Temperature: modelConfig.Temperature,
			TopP:        modelConfig.TopP,
		})

		coach, err := agent.New(agent.Config{
			Oracle:        llm,
			Tools:         registry,
			Records:       records,
			Logger:        fuelyt.NewStdoutTurnLogger(),
			MaxIterations: agentConfig.MaxIterations,
			TurnTimeout:   agentConfig.TurnTimeout,
			HistoryLimit:  agentConfig.MaxConversationHistory,
		})
		if err != nil {
			slog.Error("SETUP: Failed to create agent", "error", err)
			return Results{}, err
		}

		result, err := coach.HandleTurn(ctx, params.UserID, params.Message, params.Context, nil)
		if err != nil {
			slog.Error("RESULT: Error handling turn", "error", err)
			return Results{}, err
		}

		return Results{
			Response:        result.Response,
			ActionsTaken:    result.ActionsTaken,
			Recommendations: result.Recommendations,
		}, nil
	}

	lambda.Start(fn)
}
