package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"bank-chat-gateway/internal/domain"
)

const (
	pkPrefixUser = "USER#"
	skPrefixTurn = "TURN#"
	ttlDuration  = 30 * 24 * time.Hour // 30-day TTL

	// Fixed width so sort keys order lexicographically by time.
	skTimeLayout = "2006-01-02T15:04:05.000000000Z"
)

// dynamodbAPI is the minimal DynamoDB interface required by DynamoStore.
// Defined here for testability.
type dynamodbAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// DynamoStore keeps conversation history in a DynamoDB table keyed by user.
type DynamoStore struct {
	api       dynamodbAPI
	tableName string
	clock     *clock
}

func NewDynamoStore(api dynamodbAPI, tableName string) (*DynamoStore, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &DynamoStore{api: api, tableName: tableName, clock: newClock()}, nil
}

// userPK returns the partition key holding one user's conversation.
func userPK(userID string) string {
	return pkPrefixUser + userID
}

// turnSK returns the sort key for a turn; the id suffix keeps keys unique.
func turnSK(ts time.Time, id string) string {
	return skPrefixTurn + ts.UTC().Format(skTimeLayout) + "#" + id
}

// ttlValue returns a Unix timestamp 30 days after ts.
func ttlValue(ts time.Time) int64 {
	return ts.Add(ttlDuration).Unix()
}

func (s *DynamoStore) AppendTurn(ctx context.Context, userID string, role domain.Role, message string) (domain.ConversationTurn, error) {
	if err := validateTurn(userID, role, message); err != nil {
		return domain.ConversationTurn{}, err
	}
	turn := newTurn(s.clock, userID, role, message)

	_, err := s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                turnItem(turn),
		ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
	})
	if err != nil {
		return domain.ConversationTurn{}, fmt.Errorf("repository: AppendTurn: %w", err)
	}
	return turn, nil
}

// RecentTurns returns the last limit turns of userID, oldest first. A
// non-positive limit pages through the whole history.
func (s *DynamoStore) RecentTurns(ctx context.Context, userID string, limit int) ([]domain.ConversationTurn, error) {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: userPK(userID)},
			":prefix": &types.AttributeValueMemberS{Value: skPrefixTurn},
		},
		// Read newest first so LIMIT favors the most recent context.
		ScanIndexForward: aws.Bool(false),
	}
	if limit > 0 {
		in.Limit = aws.Int32(int32(limit))
	}

	var turns []domain.ConversationTurn
	for {
		out, err := s.api.Query(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("repository: RecentTurns query: %w", err)
		}
		for _, item := range out.Items {
			turn, err := itemToTurn(item)
			if err != nil {
				return nil, fmt.Errorf("repository: RecentTurns unmarshal: %w", err)
			}
			turns = append(turns, turn)
		}
		if limit > 0 || len(out.LastEvaluatedKey) == 0 {
			break
		}
		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
	reverse(turns)
	return turns, nil
}

func turnItem(turn domain.ConversationTurn) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK":      &types.AttributeValueMemberS{Value: userPK(turn.UserID)},
		"SK":      &types.AttributeValueMemberS{Value: turnSK(turn.Timestamp, turn.ID)},
		"id":      &types.AttributeValueMemberS{Value: turn.ID},
		"userId":  &types.AttributeValueMemberS{Value: turn.UserID},
		"role":    &types.AttributeValueMemberS{Value: string(turn.Role)},
		"message": &types.AttributeValueMemberS{Value: turn.Message},
		"ts":      &types.AttributeValueMemberS{Value: turn.Timestamp.UTC().Format(time.RFC3339Nano)},
		"ttl":     &types.AttributeValueMemberN{Value: strconv.FormatInt(ttlValue(turn.Timestamp), 10)},
	}
}

// itemToTurn converts a DynamoDB attribute map to a ConversationTurn.
func itemToTurn(item map[string]types.AttributeValue) (domain.ConversationTurn, error) {
	id, err := strAttr(item, "id")
	if err != nil {
		return domain.ConversationTurn{}, err
	}
	userID, err := strAttr(item, "userId")
	if err != nil {
		return domain.ConversationTurn{}, err
	}
	role, err := strAttr(item, "role")
	if err != nil {
		return domain.ConversationTurn{}, err
	}
	message, err := strAttr(item, "message")
	if err != nil {
		return domain.ConversationTurn{}, err
	}
	rawTS, err := strAttr(item, "ts")
	if err != nil {
		return domain.ConversationTurn{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, rawTS)
	if err != nil {
		return domain.ConversationTurn{}, fmt.Errorf("repository: parse attribute %q: %w", "ts", err)
	}

	return domain.ConversationTurn{
		ID:        id,
		UserID:    userID,
		Role:      domain.Role(role),
		Message:   message,
		Timestamp: ts,
	}, nil
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("repository: missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("repository: attribute %q is not a string", key)
	}
	return s.Value, nil
}
