package db

import (
	"context"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

func NewDynamoClient(ctx context.Context) (*dynamodb.Client, error) {
	// Uses Lambda’s execution role creds automatically
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(cfg), nil
}

// UsersTableName is the single per-user record table. One item per
// userId holds cart, orders, provider preference and chat history.
func UsersTableName() string {
	t := strings.TrimSpace(os.Getenv("USERS_TABLE"))
	if t == "" {
		return "ai-assistant-users-dev"
	}
	return t
}
