package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	bedrockruntime "github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"go.uber.org/zap"

	"backend/internal/ai"
	"backend/internal/db"
	"backend/internal/handlers"
	"backend/internal/secrets"
	"backend/internal/store"
	"backend/internal/users"
)

func main() {
	ctx := context.Background()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}

	ddb, err := db.NewDynamoClient(ctx)
	if err != nil {
		log.Fatalf("init dynamodb: %v", err)
	}

	table := db.UsersTableName()
	repo := store.NewRepository(ddb, table, logger)
	alerts := users.NewAlerts(ddb, sns.NewFromConfig(cfg), table, logger)

	keys := secrets.NewResolver(ssm.NewFromConfig(cfg), logger)
	router := ai.NewRouterFromEnv(ctx, keys, bedrockruntime.NewFromConfig(cfg), logger)

	h := handlers.NewPortalHandler(repo, alerts, router, logger)
	lambda.Start(h.Handle)
}
