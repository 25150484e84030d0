package confirmation

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/wolfman30/luxe-salon/pkg/logging"
)

// S3API is the subset of the S3 client used by Archive.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archive keeps a copy of every confirmation in S3. With no bucket it does nothing.
type Archive struct {
	bucket string
	client S3API
	logger *logging.Logger
}

func NewArchive(client S3API, bucket string, logger *logging.Logger) *Archive {
	if logger == nil {
		logger = logging.Default()
	}
	return &Archive{bucket: bucket, client: client, logger: logger}
}

// Enabled reports whether a bucket and client are configured.
func (a *Archive) Enabled() bool {
	return a != nil && a.bucket != "" && a.client != nil
}

// Key is the object key for bookingID confirmed at the given time.
func Key(bookingID string, at time.Time) string {
	at = at.UTC()
	return fmt.Sprintf("confirmations/%d/%02d/%02d/%s", at.Year(), at.Month(), at.Day(), Filename(bookingID))
}

// Put uploads body and returns the key it was stored under. Disabled archives
// return an empty key and no error.
func (a *Archive) Put(ctx context.Context, bookingID string, at time.Time, body []byte) (string, error) {
	if !a.Enabled() {
		return "", nil
	}
	key := Key(bookingID, at)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(a.bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(body),
		ContentType:        aws.String(ContentType),
		ContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", Filename(bookingID))),
		Metadata:           map[string]string{"booking-id": bookingID},
	})
	if err != nil {
		return "", fmt.Errorf("confirmation: s3 put %s: %w", key, err)
	}
	a.logger.Info("archived confirmation to S3", "booking_id", bookingID, "s3_key", key)
	return key, nil
}
