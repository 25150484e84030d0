package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wolfman30/luxe-salon/internal/catalog"
	"github.com/wolfman30/luxe-salon/pkg/logging"
)

const defaultDispatchTimeout = 15 * time.Second

// ConfirmationDispatcher starts delivery and returns immediately. Failures are
// logged and counted, never reported to the caller.
type ConfirmationDispatcher interface {
	Dispatch(ctx context.Context, payload ConfirmationPayload)
}

// OutcomeRecorder counts delivery attempts by transport and outcome.
type OutcomeRecorder interface {
	ObserveNotification(transport, outcome string)
}

// AsyncDispatcher delivers each payload on its own goroutine.
type AsyncDispatcher struct {
	sender    ConfirmationSender
	transport string
	timeout   time.Duration
	recorder  OutcomeRecorder
	logger    *logging.Logger
	wg        sync.WaitGroup
}

// NewAsyncDispatcher wraps sender. transport is only used as a log and metric label.
func NewAsyncDispatcher(sender ConfirmationSender, transport string, timeout time.Duration, recorder OutcomeRecorder, logger *logging.Logger) *AsyncDispatcher {
	if sender == nil {
		panic("notify: confirmation sender required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = defaultDispatchTimeout
	}
	return &AsyncDispatcher{
		sender:    sender,
		transport: transport,
		timeout:   timeout,
		recorder:  recorder,
		logger:    logger,
	}
}

// Dispatch detaches from ctx cancellation so the request finishing does not
// abort delivery.
func (d *AsyncDispatcher) Dispatch(ctx context.Context, payload ConfirmationPayload) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("notify: confirmation dispatch panicked", "booking_id", payload.BookingID, "panic", fmt.Sprint(r))
				d.observe("panic")
			}
		}()

		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		if err := d.sender.SendConfirmation(sendCtx, payload); err != nil {
			outcome := "error"
			if errors.Is(err, context.DeadlineExceeded) {
				outcome = "timeout"
			}
			d.logger.Warn("notify: confirmation not delivered",
				"booking_id", payload.BookingID,
				"transport", d.transport,
				"error", err,
			)
			d.observe(outcome)
			return
		}
		d.logger.Info("notify: confirmation delivered", "booking_id", payload.BookingID, "transport", d.transport)
		d.observe("sent")
	}()
}

// Wait blocks until every dispatched delivery has finished. Used on shutdown.
func (d *AsyncDispatcher) Wait() {
	d.wg.Wait()
}

func (d *AsyncDispatcher) observe(outcome string) {
	if d.recorder != nil {
		d.recorder.ObserveNotification(d.transport, outcome)
	}
}

// Transport names accepted by NOTIFY_TRANSPORT.
const (
	TransportStub     = "stub"
	TransportSendGrid = "sendgrid"
	TransportSES      = "ses"
	TransportSQS      = "sqs"
)

var ErrUnknownTransport = errors.New("notify: unknown transport")

// TransportConfig selects and configures the confirmation transport.
type TransportConfig struct {
	Transport string
	Salon     catalog.Salon
	SendGrid  SendGridConfig
	SES       SESConfig
	SESClient SESAPI
	SQSClient SQSAPI
	QueueURL  string
}

// NewConfirmationSender builds the sender named by cfg.Transport. An empty name
// means the logging stub.
func NewConfirmationSender(cfg TransportConfig, logger *logging.Logger) (ConfirmationSender, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Transport)) {
	case "", TransportStub:
		return NewEmailConfirmations(NewStubEmailSender(logger), cfg.Salon), nil
	case TransportSendGrid:
		sender := NewSendGridSender(cfg.SendGrid, logger)
		if sender == nil {
			return nil, fmt.Errorf("notify: sendgrid transport requires SENDGRID_API_KEY")
		}
		if cfg.SendGrid.FromEmail == "" {
			return nil, fmt.Errorf("notify: sendgrid transport requires SENDGRID_FROM_EMAIL")
		}
		return NewEmailConfirmations(sender, cfg.Salon), nil
	case TransportSES:
		if cfg.SES.FromEmail == "" {
			return nil, fmt.Errorf("notify: ses transport requires SES_FROM_EMAIL")
		}
		sender := NewSESSender(cfg.SESClient, cfg.SES, logger)
		if sender == nil {
			return nil, fmt.Errorf("notify: ses transport requires an SES client")
		}
		return NewEmailConfirmations(sender, cfg.Salon), nil
	case TransportSQS:
		if cfg.SQSClient == nil || cfg.QueueURL == "" {
			return nil, fmt.Errorf("notify: sqs transport requires a client and NOTIFY_QUEUE_URL")
		}
		return NewSQSPublisher(cfg.SQSClient, cfg.QueueURL), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, cfg.Transport)
	}
}

var _ ConfirmationDispatcher = (*AsyncDispatcher)(nil)
