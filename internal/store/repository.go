package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// Client is the slice of the DynamoDB API the repository needs.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// Repository reads and writes the single per-user record. Every
// operation is one GetItem or UpdateItem on the userId key; there is no
// locking, last writer wins across devices.
type Repository struct {
	ddb    Client
	table  string
	logger *zap.Logger
}

func NewRepository(ddb Client, table string, logger *zap.Logger) *Repository {
	return &Repository{ddb: ddb, table: table, logger: logger}
}

func (r *Repository) key(userID string) map[string]ddbtypes.AttributeValue {
	return map[string]ddbtypes.AttributeValue{
		"userId": &ddbtypes.AttributeValueMemberS{Value: userID},
	}
}

// getStringAttr fetches one string attribute off the user record.
// A missing item or attribute is not an error.
func (r *Repository) getStringAttr(ctx context.Context, userID, attr string) (string, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       r.key(userID),
	})
	if err != nil {
		return "", fmt.Errorf("user record GetItem: %w", err)
	}
	if out.Item == nil {
		return "", nil
	}
	if v, ok := out.Item[attr].(*ddbtypes.AttributeValueMemberS); ok {
		return v.Value, nil
	}
	return "", nil
}

// GetCart returns the persisted cart, or an empty cart when the user
// has none yet.
func (r *Repository) GetCart(ctx context.Context, userID string) (Cart, error) {
	raw, err := r.getStringAttr(ctx, userID, "shopping_cart")
	if err != nil {
		return Cart{}, err
	}
	if raw == "" {
		return Cart{}, nil
	}
	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		// A corrupt blob should not strand the user with an unusable
		// cart; start fresh and log it.
		r.logger.Warn("corrupt shopping_cart attribute, resetting",
			zap.String("userId", userID), zap.Error(err))
		return Cart{}, nil
	}
	return cart, nil
}

// SaveCart overwrites the cart blob and bumps last_updated.
func (r *Repository) SaveCart(ctx context.Context, userID string, cart Cart) error {
	b, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("cart marshal: %w", err)
	}
	_, err = r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.table),
		Key:              r.key(userID),
		UpdateExpression: aws.String("SET shopping_cart = :cart, last_updated = :ts"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":cart": &ddbtypes.AttributeValueMemberS{Value: string(b)},
			":ts":   &ddbtypes.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
		},
	})
	if err != nil {
		return fmt.Errorf("cart UpdateItem: %w", err)
	}
	r.logger.Info("cart saved",
		zap.String("userId", userID), zap.Int("items", len(cart.Items)))
	return nil
}

// SaveOrder stores the order as last_order and appends it to the
// order_history list. Orders are native DynamoDB maps so history stays
// queryable without unpacking a blob.
func (r *Repository) SaveOrder(ctx context.Context, userID string, order Order) error {
	item, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("order marshal: %w", err)
	}
	_, err = r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.table),
		Key:       r.key(userID),
		UpdateExpression: aws.String(
			"SET last_order = :order, order_history = list_append(if_not_exists(order_history, :empty), :new)"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":order": &ddbtypes.AttributeValueMemberM{Value: item},
			":new": &ddbtypes.AttributeValueMemberL{Value: []ddbtypes.AttributeValue{
				&ddbtypes.AttributeValueMemberM{Value: item},
			}},
			":empty": &ddbtypes.AttributeValueMemberL{Value: []ddbtypes.AttributeValue{}},
		},
	})
	if err != nil {
		return fmt.Errorf("order UpdateItem: %w", err)
	}
	r.logger.Info("order saved",
		zap.String("userId", userID), zap.String("orderId", order.OrderID))
	return nil
}

// GetPreferredProvider returns the stored AI provider name, empty when
// the user never picked one.
func (r *Repository) GetPreferredProvider(ctx context.Context, userID string) (string, error) {
	return r.getStringAttr(ctx, userID, "preferred_ai_provider")
}

func (r *Repository) SetPreferredProvider(ctx context.Context, userID, provider string) error {
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.table),
		Key:              r.key(userID),
		UpdateExpression: aws.String("SET preferred_ai_provider = :provider"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":provider": &ddbtypes.AttributeValueMemberS{Value: provider},
		},
	})
	if err != nil {
		return fmt.Errorf("provider UpdateItem: %w", err)
	}
	return nil
}

// GetConversation returns the persisted chat history, oldest first.
func (r *Repository) GetConversation(ctx context.Context, userID string) ([]Turn, error) {
	raw, err := r.getStringAttr(ctx, userID, "conversation_history")
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var turns []Turn
	if err := json.Unmarshal([]byte(raw), &turns); err != nil {
		r.logger.Warn("corrupt conversation_history attribute, resetting",
			zap.String("userId", userID), zap.Error(err))
		return nil, nil
	}
	return turns, nil
}

// AppendConversation adds one user/assistant exchange, keeping only the
// most recent MaxConversationTurns entries.
func (r *Repository) AppendConversation(ctx context.Context, userID, userMsg, assistantMsg string) error {
	turns, err := r.GetConversation(ctx, userID)
	if err != nil {
		return err
	}
	turns = append(turns,
		Turn{Role: "user", Content: userMsg},
		Turn{Role: "assistant", Content: assistantMsg},
	)
	if len(turns) > MaxConversationTurns {
		turns = turns[len(turns)-MaxConversationTurns:]
	}

	b, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("conversation marshal: %w", err)
	}
	_, err = r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.table),
		Key:              r.key(userID),
		UpdateExpression: aws.String("SET conversation_history = :history, last_updated = :ts"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":history": &ddbtypes.AttributeValueMemberS{Value: string(b)},
			":ts":      &ddbtypes.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
		},
	})
	if err != nil {
		return fmt.Errorf("conversation UpdateItem: %w", err)
	}
	return nil
}
