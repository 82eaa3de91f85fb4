package bon

import (
	"context"
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/stockroom/internal/session"
)

// Endpoint selects the inventory API route a record is posted to.
type Endpoint string

const (
	SingleEndpoint   Endpoint = "/bon"
	MultipleEndpoint Endpoint = "/bon/multiple"
)

// Outcome classifies a delivery attempt.
type Outcome int

const (
	// Delivered means the inventory API stored the record.
	Delivered Outcome = iota
	// NoSession means no attempt was made because there is no token.
	NoSession
	// Unauthorized means the API rejected the token.
	Unauthorized
	// NetworkFailed covers transport failures and non-2xx responses.
	NetworkFailed
)

func (o Outcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case NoSession:
		return "no_session"
	case Unauthorized:
		return "unauthorized"
	default:
		return "network_failed"
	}
}

// Attempt is the explicit result of trying to deliver a record. Record is
// the canonical stored record when Outcome is Delivered.
type Attempt struct {
	Outcome Outcome
	Record  Record
	Err     error
}

// Deliverer sends a record to the inventory API.
type Deliverer interface {
	DeliverBon(ctx context.Context, sess session.Session, endpoint Endpoint, rec Record) Attempt
}

// FallbackStore keeps records locally when the API cannot take them. Append
// assigns the local identifier and returns the stored record.
type FallbackStore interface {
	Append(ctx context.Context, rec Record) (Record, error)
}

// StockSource is the product store the pipeline checks and refreshes.
type StockSource interface {
	Available(productID int) (int, bool)
	Refresh(ctx context.Context) error
}

// FallbackError means the record could not be kept anywhere.
type FallbackError struct {
	Cause   error
	Attempt Outcome
}

func (e *FallbackError) Error() string {
	return fmt.Sprintf("unable to save withdrawal locally after %s: %v", e.Attempt, e.Cause)
}

func (e *FallbackError) Unwrap() error { return e.Cause }

// Receipt reports where a submitted record was stored.
//
// swagger:model
type Receipt struct {
	Record  Record `json:"record"`
	Origin  Origin `json:"origin"`
	Message string `json:"message"`
}

// Pipeline validates and submits bons for one session.
type Pipeline struct {
	session   session.Session
	deliverer Deliverer
	fallback  FallbackStore
	stock     StockSource
	validator *Validator
	logger    hclog.Logger
	now       func() time.Time
}

func NewPipeline(
	sess session.Session,
	deliverer Deliverer,
	fallback FallbackStore,
	stock StockSource,
	logger hclog.Logger,
) *Pipeline {
	return &Pipeline{
		session:   sess,
		deliverer: deliverer,
		fallback:  fallback,
		stock:     stock,
		validator: NewValidator(),
		logger:    logger,
		now:       time.Now,
	}
}

// Submit validates the selection and delivers it as a multi-item bon.
// The caller clears the selection only when Submit returns no error.
func (p *Pipeline) Submit(ctx context.Context, form Form, sel Selection) (Receipt, error) {
	return p.submit(ctx, MultipleEndpoint, form, sel.Items())
}

// SubmitSingle delivers a one-item bon for the single product route.
func (p *Pipeline) SubmitSingle(ctx context.Context, form Form, item Item) (Receipt, error) {
	return p.submit(ctx, SingleEndpoint, form, []Item{item})
}

func (p *Pipeline) submit(ctx context.Context, endpoint Endpoint, form Form, items []Item) (Receipt, error) {
	form = form.Trimmed()
	if verr := p.validator.Check(form, items, p.stock.Available); verr != nil {
		p.logger.Debug("Bon rejected by validation", "kind", verr.Kind, "field", verr.Field)
		return Receipt{}, verr
	}

	candidate := Record{
		Requester: form.Requester,
		Purpose:   form.Purpose,
		Items:     items,
		Date:      strfmt.DateTime(p.now().UTC()),
	}

	attempt := p.attempt(ctx, endpoint, candidate)

	switch attempt.Outcome {
	case Delivered:
		p.logger.Info("Bon stored by inventory API", "id", attempt.Record.ID, "items", len(items))
		if err := p.stock.Refresh(ctx); err != nil {
			p.logger.Error("Unable to refresh products after bon", "error", err)
		}
		return Receipt{
			Record:  attempt.Record,
			Origin:  OriginServer,
			Message: fmt.Sprintf("Withdrawal saved for %d component(s). Requester: %s. Purpose: %s", len(items), form.Requester, form.Purpose),
		}, nil
	default:
		p.logger.Warn("Inventory API unavailable, saving bon locally", "outcome", attempt.Outcome, "error", attempt.Err)
		stored, err := p.fallback.Append(ctx, candidate)
		if err != nil {
			p.logger.Error("Unable to save bon locally", "error", err)
			return Receipt{}, &FallbackError{Cause: err, Attempt: attempt.Outcome}
		}
		return Receipt{
			Record:  stored,
			Origin:  OriginLocal,
			Message: fmt.Sprintf("Withdrawal saved locally for %d component(s); stock levels are not updated until it is synced. Requester: %s. Purpose: %s", len(items), form.Requester, form.Purpose),
		}, nil
	}
}

func (p *Pipeline) attempt(ctx context.Context, endpoint Endpoint, rec Record) Attempt {
	if !p.session.Active() {
		return Attempt{Outcome: NoSession}
	}
	return p.deliverer.DeliverBon(ctx, p.session, endpoint, rec)
}
