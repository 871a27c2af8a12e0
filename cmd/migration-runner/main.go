package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/lambda"
	awscfg "github.com/aws/aws-sdk-go-v2/config"

	"github.com/AshantiAI/hyperswitch-cdk/internal/migration"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	h, err := newHandler(context.Background(), log)
	if err != nil {
		log.Error("fatal", "error", err)
		os.Exit(1)
	}
	lambda.Start(cfn.LambdaWrap(h.handle))
}

// newHandler wires the production handler: Secrets Manager credential
// source, the migration Runner, and the optional CloudWatch Logs sink.
func newHandler(ctx context.Context, log *slog.Logger) (*handler, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	secrets, err := migration.NewSecretsManagerSource(ctx, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("secret source: %w", err)
	}

	runner := migration.NewRunner(secrets, cfg.AssetRoot)
	if cfg.ToolPath != "" {
		runner.ToolPath = cfg.ToolPath
	}

	var sink outputSink
	if cfg.LogGroup != "" {
		awsCfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		sink = newLogsSink(awsCfg, cfg.LogGroup)
	}

	return &handler{
		cfg:        cfg,
		newTrigger: func() *migration.Trigger { return migration.NewTrigger(runner) },
		sink:       sink,
		log:        log,
	}, nil
}
