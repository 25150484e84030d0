package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/luxe-salon/pkg/logging"
)

// DefaultDelay matches the pause the booking form showed while "processing".
const DefaultDelay = 2 * time.Second

var ErrInvalidCharge = errors.New("payments: invalid charge")

// Charge is what the booking flow asks the processor to collect.
type Charge struct {
	SessionID  string
	Amount     float64
	CardLast4  string
	NameOnCard string
}

// Receipt records an accepted charge.
type Receipt struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount"`
	CardLast4   string    `json:"cardLast4"`
	ProcessedAt time.Time `json:"processedAt"`
}

// Processor collects a charge. Implementations block until the charge settles
// or ctx is done.
type Processor interface {
	Process(ctx context.Context, charge Charge) (*Receipt, error)
}

// SimulatedProcessor accepts every well-formed charge after a fixed delay. No
// money moves and no card data leaves the process.
type SimulatedProcessor struct {
	delay  time.Duration
	now    func() time.Time
	logger *logging.Logger
}

// NewSimulatedProcessor returns a processor that waits delay before approving.
// A negative delay is treated as zero.
func NewSimulatedProcessor(delay time.Duration, logger *logging.Logger) *SimulatedProcessor {
	if logger == nil {
		logger = logging.Default()
	}
	if delay < 0 {
		delay = 0
	}
	return &SimulatedProcessor{delay: delay, now: time.Now, logger: logger}
}

// Delay reports the configured processing pause.
func (p *SimulatedProcessor) Delay() time.Duration {
	return p.delay
}

func (p *SimulatedProcessor) Process(ctx context.Context, charge Charge) (*Receipt, error) {
	if charge.SessionID == "" {
		return nil, fmt.Errorf("%w: session id required", ErrInvalidCharge)
	}
	if charge.Amount < 0 {
		return nil, fmt.Errorf("%w: negative amount", ErrInvalidCharge)
	}

	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			p.logger.Warn("simulated payment cancelled", "session_id", charge.SessionID, "error", ctx.Err())
			return nil, fmt.Errorf("payments: processing cancelled: %w", ctx.Err())
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("payments: processing cancelled: %w", err)
	}

	receipt := &Receipt{
		ID:          "sim_" + uuid.NewString(),
		Amount:      charge.Amount,
		CardLast4:   charge.CardLast4,
		ProcessedAt: p.now().UTC(),
	}
	p.logger.Info("simulated payment approved",
		"session_id", charge.SessionID,
		"receipt_id", receipt.ID,
		"amount", charge.Amount,
	)
	return receipt, nil
}

var _ Processor = (*SimulatedProcessor)(nil)
