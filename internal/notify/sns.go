package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSAPI is the part of the SNS client the notifier uses.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const (
	EventOrderConfirmed = "order.confirmed"
	EventPasswordReset  = "password.reset_requested"
)

// SNSNotifier publishes notifications as JSON events to a topic; a mailer
// subscribed to the topic does the delivery.
type SNSNotifier struct {
	client   SNSAPI
	topicARN string
}

func NewSNSNotifier(client SNSAPI, topicARN string) (*SNSNotifier, error) {
	if topicARN == "" {
		return nil, fmt.Errorf("SNS_TOPIC_ARN not set")
	}
	return &SNSNotifier{client: client, topicARN: topicARN}, nil
}

func (n *SNSNotifier) SendOrderConfirmation(ctx context.Context, c OrderConfirmation) error {
	payload := struct {
		OrderConfirmation
		Invoice string `json:"invoice"`
	}{c, c.Invoice()}
	return n.publish(ctx, EventOrderConfirmed, payload)
}

func (n *SNSNotifier) SendPasswordReset(ctx context.Context, r PasswordReset) error {
	return n.publish(ctx, EventPasswordReset, r)
}

func (n *SNSNotifier) publish(ctx context.Context, eventType string, payload interface{}) error {
	body, err := json.Marshal(event{Type: eventType, Payload: payload})
	if err != nil {
		return fmt.Errorf("encode %s event: %w", eventType, err)
	}

	_, err = n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(eventType),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish failed for topic %s: %w", n.topicARN, err)
	}
	return nil
}
