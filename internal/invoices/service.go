package invoices

import (
	"context"
	"fmt"
	"time"

	"go-pos/internal/models"
)

// Store is the persistence side of the invoice read path.
type Store interface {
	// ListInvoices returns every invoice with its items, newest first.
	ListInvoices(ctx context.Context) ([]models.Invoice, error)
	// FindInvoice returns nil, nil when no invoice has that id.
	FindInvoice(ctx context.Context, id uint) (*models.Invoice, error)
}

// Update is one emission of Watch. Err is set when the snapshot could not be
// loaded; the subscription stays open and retries on the next change.
type Update struct {
	Invoices []Summary
	Err      error
}

type Service struct {
	store    Store
	notifier Notifier
	clock    Clock
}

func NewService(store Store, notifier Notifier, clock Clock) *Service {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Service{store: store, notifier: notifier, clock: clock}
}

// Location is the zone invoice dates are rendered in.
func (s *Service) Location() *time.Location { return s.clock.Location() }

// List returns the current invoice summaries.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	records, err := s.store.ListInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return SummarizeAll(records, s.clock.Location()), nil
}

// Get returns the detail of invoice id. A missing invoice is reported with
// ok == false and a nil error.
func (s *Service) Get(ctx context.Context, id uint) (Detail, bool, error) {
	record, err := s.store.FindInvoice(ctx, id)
	if err != nil {
		return Detail{}, false, fmt.Errorf("find invoice %d: %w", id, err)
	}
	if record == nil {
		return Detail{}, false, nil
	}
	return Describe(*record, s.clock.Location()), true, nil
}

// Watch emits the current listing and then a fresh listing after every
// change notification, until ctx is done. The returned channel is closed
// when the subscription ends. Calling Watch again starts an independent
// subscription. A consumer that falls behind gets only the latest listing.
func (s *Service) Watch(ctx context.Context) (<-chan Update, error) {
	signals, err := s.notifier.Subscribe(ctx)
	if err != nil {
		return nil, fmt.Errorf("subscribe to invoice changes: %w", err)
	}

	out := make(chan Update)
	go func() {
		defer close(out)
		update := s.snapshot(ctx)
		for {
			select {
			case out <- update:
			case _, ok := <-signals:
				// newer rows replace the undelivered snapshot
				if !ok {
					return
				}
				update = s.snapshot(ctx)
				continue
			case <-ctx.Done():
				return
			}

			select {
			case _, ok := <-signals:
				if !ok {
					return
				}
				update = s.snapshot(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// Publish forwards a change notification when the notifier can publish.
func (s *Service) Publish(ctx context.Context) error {
	if p, ok := s.notifier.(Publisher); ok {
		return p.Publish(ctx)
	}
	return nil
}

func (s *Service) snapshot(ctx context.Context) Update {
	var update Update
	update.Invoices, update.Err = s.List(ctx)
	return update
}
