package bootstrap

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/wolfman30/luxe-salon/internal/catalog"
	appconfig "github.com/wolfman30/luxe-salon/internal/config"
	"github.com/wolfman30/luxe-salon/internal/confirmation"
	"github.com/wolfman30/luxe-salon/internal/notify"
	"github.com/wolfman30/luxe-salon/pkg/logging"
)

// BuildConfirmationDispatcher wires the configured confirmation transport behind
// an async dispatcher. awsCfg may be nil unless the transport is ses or sqs.
func BuildConfirmationDispatcher(cfg *appconfig.Config, awsCfg *aws.Config, salon catalog.Salon, recorder notify.OutcomeRecorder, logger *logging.Logger) (*notify.AsyncDispatcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	transportCfg := notify.TransportConfig{
		Transport: cfg.NotifyTransport,
		Salon:     salon,
		SendGrid: notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		},
		SES:      notify.SESConfig{FromEmail: cfg.SESFromEmail, FromName: salon.Name},
		QueueURL: cfg.NotifyQueueURL,
	}
	if awsCfg != nil {
		switch cfg.NotifyTransport {
		case notify.TransportSES:
			transportCfg.SESClient = sesv2.NewFromConfig(*awsCfg)
		case notify.TransportSQS:
			transportCfg.SQSClient = sqs.NewFromConfig(*awsCfg)
		}
	}

	sender, err := notify.NewConfirmationSender(transportCfg, logger)
	if err != nil {
		return nil, err
	}
	transport := cfg.NotifyTransport
	if transport == "" {
		transport = notify.TransportStub
	}
	logger.Info("confirmation transport ready", "transport", transport)
	return notify.NewAsyncDispatcher(sender, transport, cfg.NotifyTimeout, recorder, logger), nil
}

// BuildContactSender returns the email sender used for contact form messages.
// It follows the confirmation transport, falling back to the logging stub for sqs.
func BuildContactSender(cfg *appconfig.Config, awsCfg *aws.Config, salon catalog.Salon, logger *logging.Logger) notify.EmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg != nil {
		switch cfg.NotifyTransport {
		case notify.TransportSendGrid:
			if sender := notify.NewSendGridSender(notify.SendGridConfig{
				APIKey:    cfg.SendGridAPIKey,
				FromEmail: cfg.SendGridFromEmail,
				FromName:  cfg.SendGridFromName,
			}, logger); sender != nil {
				return sender
			}
		case notify.TransportSES:
			if awsCfg != nil && cfg.SESFromEmail != "" {
				return notify.NewSESSender(sesv2.NewFromConfig(*awsCfg), notify.SESConfig{FromEmail: cfg.SESFromEmail, FromName: salon.Name}, logger)
			}
		}
	}
	return notify.NewStubEmailSender(logger)
}

// BuildArchive returns the S3 confirmation archive, or a disabled archive when
// no bucket is configured.
func BuildArchive(cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) *confirmation.Archive {
	if cfg == nil || cfg.ConfirmationBucket == "" || awsCfg == nil {
		return confirmation.NewArchive(nil, "", logger)
	}
	client := s3.NewFromConfig(*awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.AWSEndpointOverride != ""
	})
	return confirmation.NewArchive(client, cfg.ConfirmationBucket, logger)
}
