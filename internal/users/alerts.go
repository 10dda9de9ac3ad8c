package users

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"

	"backend/internal/store"
)

// SNSAPI is the slice of SNS the alert flow needs.
type SNSAPI interface {
	CreateTopic(ctx context.Context, params *sns.CreateTopicInput, optFns ...func(*sns.Options)) (*sns.CreateTopicOutput, error)
	Subscribe(ctx context.Context, params *sns.SubscribeInput, optFns ...func(*sns.Options)) (*sns.SubscribeOutput, error)
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// DynamoAPI covers the single-attribute reads/writes on the user record.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// Alerts manages per-user SNS order notifications. Each user gets a
// dedicated topic (created lazily, ARN memoized on the user record)
// with one email subscription the user confirms once.
type Alerts struct {
	ddb    DynamoAPI
	sns    SNSAPI
	table  string
	logger *zap.Logger
}

func NewAlerts(ddb DynamoAPI, snsClient SNSAPI, table string, logger *zap.Logger) *Alerts {
	return &Alerts{ddb: ddb, sns: snsClient, table: table, logger: logger}
}

func shortHashUser(userID string) string {
	h := sha1.Sum([]byte(userID))
	// 8 bytes -> 16 hex chars, stable and short
	return hex.EncodeToString(h[:8])
}

// EnsureEmailAlerts creates the user's topic and email subscription if
// they don't exist yet and returns the topic ARN.
func (a *Alerts) EnsureEmailAlerts(ctx context.Context, userID, email string) (string, error) {
	userID = strings.TrimSpace(userID)
	email = strings.TrimSpace(email)
	if userID == "" || email == "" {
		return "", nil
	}

	existing, _ := a.TopicArn(ctx, userID)
	if existing != "" {
		return existing, nil
	}

	stage := strings.TrimSpace(os.Getenv("STAGE"))
	if stage == "" {
		stage = "dev"
	}

	// SNS topic names must be simple (no slashes, etc.)
	topicName := fmt.Sprintf("ai-pro-order-alerts-%s-%s", stage, shortHashUser(userID))

	ct, err := a.sns.CreateTopic(ctx, &sns.CreateTopicInput{
		Name: aws.String(topicName),
	})
	if err != nil {
		return "", fmt.Errorf("alerts CreateTopic: %w", err)
	}
	topicArn := aws.ToString(ct.TopicArn)

	// Requires the user to click the confirm link once.
	_, err = a.sns.Subscribe(ctx, &sns.SubscribeInput{
		TopicArn: aws.String(topicArn),
		Protocol: aws.String("email"),
		Endpoint: aws.String(email),
	})
	if err != nil {
		return "", fmt.Errorf("alerts Subscribe: %w", err)
	}

	_, err = a.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(a.table),
		Key:              key(userID),
		UpdateExpression: aws.String("SET alerts_topic_arn = :arn, alerts_email = :email"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":arn":   &ddbtypes.AttributeValueMemberS{Value: topicArn},
			":email": &ddbtypes.AttributeValueMemberS{Value: email},
		},
	})
	if err != nil {
		a.logger.Warn("alerts topic arn save failed",
			zap.String("userId", userID), zap.Error(err))
	}

	return topicArn, nil
}

// TopicArn returns the memoized topic ARN, empty when alerts were never
// set up.
func (a *Alerts) TopicArn(ctx context.Context, userID string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", nil
	}
	out, err := a.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(a.table),
		Key:       key(userID),
	})
	if err != nil || out.Item == nil {
		return "", err
	}
	if v, ok := out.Item["alerts_topic_arn"].(*ddbtypes.AttributeValueMemberS); ok {
		return v.Value, nil
	}
	return "", nil
}

// PublishOrder sends the order receipt to the user's topic. Users
// without alerts configured are skipped silently.
func (a *Alerts) PublishOrder(ctx context.Context, userID string, order store.Order) error {
	topicArn, err := a.TopicArn(ctx, userID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(topicArn) == "" {
		return nil
	}

	lines := []string{
		"AI Pro Order Confirmation",
		"",
		fmt.Sprintf("Order: #%s", order.OrderID),
		fmt.Sprintf("Total: $%.2f", order.Total),
		fmt.Sprintf("Tracking: %s", order.TrackingNumber),
		fmt.Sprintf("Estimated delivery: %s", order.EstimatedDelivery),
		"",
	}
	for i, item := range order.Items {
		lines = append(lines, fmt.Sprintf("%d. %s - $%.2f", i+1, item.Name, item.Price))
	}

	_, err = a.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(topicArn),
		Subject:  aws.String(fmt.Sprintf("AI Pro: order #%s confirmed", order.OrderID)),
		Message:  aws.String(strings.Join(lines, "\n")),
	})
	if err != nil {
		return fmt.Errorf("alerts Publish: %w", err)
	}
	a.logger.Info("order alert published",
		zap.String("userId", userID), zap.String("orderId", order.OrderID))
	return nil
}

func key(userID string) map[string]ddbtypes.AttributeValue {
	return map[string]ddbtypes.AttributeValue{
		"userId": &ddbtypes.AttributeValueMemberS{Value: userID},
	}
}
