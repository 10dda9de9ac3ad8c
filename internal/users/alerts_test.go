package users_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"backend/internal/catalog"
	"backend/internal/store"
	"backend/internal/users"
)

type fakeSNS struct {
	createErr  error
	created    []*sns.CreateTopicInput
	subscribed []*sns.SubscribeInput
	published  []*sns.PublishInput
}

func (f *fakeSNS) CreateTopic(_ context.Context, in *sns.CreateTopicInput, _ ...func(*sns.Options)) (*sns.CreateTopicOutput, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, in)
	arn := "arn:aws:sns:us-east-1:123456789012:" + aws.ToString(in.Name)
	return &sns.CreateTopicOutput{TopicArn: aws.String(arn)}, nil
}

func (f *fakeSNS) Subscribe(_ context.Context, in *sns.SubscribeInput, _ ...func(*sns.Options)) (*sns.SubscribeOutput, error) {
	f.subscribed = append(f.subscribed, in)
	return &sns.SubscribeOutput{}, nil
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.published = append(f.published, in)
	return &sns.PublishOutput{}, nil
}

type fakeDynamo struct {
	item    map[string]ddbtypes.AttributeValue
	updates []*dynamodb.UpdateItemInput
}

func (f *fakeDynamo) GetItem(_ context.Context, _ *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{Item: f.item}, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updates = append(f.updates, in)
	return &dynamodb.UpdateItemOutput{}, nil
}

const userID = "amzn1.ask.account.test"

func TestEnsureEmailAlertsCreatesTopicAndSubscribes(t *testing.T) {
	t.Setenv("STAGE", "dev")
	snsClient := &fakeSNS{}
	ddb := &fakeDynamo{}
	a := users.NewAlerts(ddb, snsClient, "users", zap.NewNop())

	arn, err := a.EnsureEmailAlerts(context.Background(), userID, "shopper@example.com")
	require.NoError(t, err)
	assert.Contains(t, arn, "ai-pro-order-alerts-dev-")

	require.Len(t, snsClient.created, 1)
	assert.Contains(t, aws.ToString(snsClient.created[0].Name), "ai-pro-order-alerts-dev-")

	require.Len(t, snsClient.subscribed, 1)
	assert.Equal(t, "email", aws.ToString(snsClient.subscribed[0].Protocol))
	assert.Equal(t, "shopper@example.com", aws.ToString(snsClient.subscribed[0].Endpoint))

	// The ARN is memoized on the user record.
	require.Len(t, ddb.updates, 1)
	assert.Contains(t, *ddb.updates[0].UpdateExpression, "alerts_topic_arn")
}

func TestEnsureEmailAlertsReturnsMemoizedTopic(t *testing.T) {
	snsClient := &fakeSNS{}
	ddb := &fakeDynamo{item: map[string]ddbtypes.AttributeValue{
		"alerts_topic_arn": &ddbtypes.AttributeValueMemberS{Value: "arn:aws:sns:us-east-1:123456789012:existing"},
	}}
	a := users.NewAlerts(ddb, snsClient, "users", zap.NewNop())

	arn, err := a.EnsureEmailAlerts(context.Background(), userID, "shopper@example.com")
	require.NoError(t, err)
	assert.Equal(t, "arn:aws:sns:us-east-1:123456789012:existing", arn)
	assert.Empty(t, snsClient.created)
	assert.Empty(t, snsClient.subscribed)
}

func TestEnsureEmailAlertsRequiresUserAndEmail(t *testing.T) {
	snsClient := &fakeSNS{}
	a := users.NewAlerts(&fakeDynamo{}, snsClient, "users", zap.NewNop())

	arn, err := a.EnsureEmailAlerts(context.Background(), "", "shopper@example.com")
	assert.NoError(t, err)
	assert.Empty(t, arn)

	arn, err = a.EnsureEmailAlerts(context.Background(), userID, "   ")
	assert.NoError(t, err)
	assert.Empty(t, arn)
	assert.Empty(t, snsClient.created)
}

func TestEnsureEmailAlertsCreateTopicFailure(t *testing.T) {
	snsClient := &fakeSNS{createErr: errors.New("denied")}
	a := users.NewAlerts(&fakeDynamo{}, snsClient, "users", zap.NewNop())

	_, err := a.EnsureEmailAlerts(context.Background(), userID, "shopper@example.com")
	assert.Error(t, err)
}

func TestPublishOrderSkipsWithoutTopic(t *testing.T) {
	snsClient := &fakeSNS{}
	a := users.NewAlerts(&fakeDynamo{}, snsClient, "users", zap.NewNop())

	err := a.PublishOrder(context.Background(), userID, store.Order{OrderID: "A1B2C3D4"})
	assert.NoError(t, err)
	assert.Empty(t, snsClient.published)
}

func TestPublishOrderSendsReceipt(t *testing.T) {
	snsClient := &fakeSNS{}
	ddb := &fakeDynamo{item: map[string]ddbtypes.AttributeValue{
		"alerts_topic_arn": &ddbtypes.AttributeValueMemberS{Value: "arn:aws:sns:us-east-1:123456789012:topic"},
	}}
	a := users.NewAlerts(ddb, snsClient, "users", zap.NewNop())

	order := store.Order{
		OrderID:           "A1B2C3D4",
		Total:             129.98,
		TrackingNumber:    "AIPRO-A1B2C3D4",
		EstimatedDelivery: "3-5 business days",
		Items: []catalog.Product{
			{Name: "Anker Soundcore Life Q30", Price: 79.99},
			{Name: "Ninja AF101 Air Fryer", Price: 49.99},
		},
	}
	err := a.PublishOrder(context.Background(), userID, order)
	require.NoError(t, err)

	require.Len(t, snsClient.published, 1)
	msg := aws.ToString(snsClient.published[0].Message)
	assert.Contains(t, msg, "Order: #A1B2C3D4")
	assert.Contains(t, msg, "Total: $129.98")
	assert.Contains(t, msg, "1. Anker Soundcore Life Q30 - $79.99")
	assert.Contains(t, msg, "2. Ninja AF101 Air Fryer - $49.99")
	assert.Contains(t, aws.ToString(snsClient.published[0].Subject), "order #A1B2C3D4")
}
