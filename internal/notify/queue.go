package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/wolfman30/luxe-salon/internal/events"
)

// SQSAPI is the subset of the SQS client used by SQSPublisher.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSPublisher hands confirmations to a downstream mail worker as
// booking.confirmed.v1 envelopes.
type SQSPublisher struct {
	client   SQSAPI
	queueURL string
	now      func() time.Time
}

func NewSQSPublisher(client SQSAPI, queueURL string) *SQSPublisher {
	if client == nil {
		panic("notify: SQS client cannot be nil")
	}
	if queueURL == "" {
		panic("notify: SQS queueURL cannot be empty")
	}
	return &SQSPublisher{client: client, queueURL: queueURL, now: time.Now}
}

func (p *SQSPublisher) SendConfirmation(ctx context.Context, payload ConfirmationPayload) error {
	evt := events.BookingConfirmedV1{
		BookingID:       payload.BookingID,
		ClientName:      payload.ToName,
		ClientEmail:     payload.ToEmail,
		ClientPhone:     payload.ClientPhone,
		ServiceName:     payload.ServiceName,
		StylistName:     payload.StylistName,
		AppointmentDate: payload.AppointmentDate,
		AppointmentTime: payload.AppointmentTime,
		SpecialNotes:    payload.SpecialNotes,
		ConfirmedAt:     p.now().UTC(),
	}
	env, err := events.Wrap(evt, evt.ConfirmedAt)
	if err != nil {
		return fmt.Errorf("notify: build confirmation event: %w", err)
	}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("notify: marshal confirmation: %w", err)
	}
	attrs := make(map[string]sqstypes.MessageAttributeValue)
	for name, value := range env.Attributes() {
		attrs[name] = sqstypes.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(value)}
	}
	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:          aws.String(p.queueURL),
		MessageBody:       aws.String(string(body)),
		MessageAttributes: attrs,
	})
	if err != nil {
		return fmt.Errorf("notify: failed to send SQS message: %w", err)
	}
	return nil
}

var _ ConfirmationSender = (*SQSPublisher)(nil)
