// Package syncjob runs the periodic background synchronization: it mirrors
// stock levels into the cache and nudges invoice watchers to reload.
package syncjob

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"go-pos/internal/models"
)

// StockMirror receives the current stock level of every product.
type StockMirror interface {
	SetStocks(ctx context.Context, levels map[uint]int) error
}

// Publisher announces that invoice rows may have changed.
type Publisher interface {
	Publish(ctx context.Context) error
}

// DefaultInterval is used when the runner is given a non-positive interval.
const DefaultInterval = 5 * time.Minute

type Runner struct {
	db       *gorm.DB
	mirror   StockMirror // optional
	invoices Publisher   // optional
	interval time.Duration
}

func NewRunner(db *gorm.DB, mirror StockMirror, invoices Publisher, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Runner{db: db, mirror: mirror, invoices: invoices, interval: interval}
}

// Run syncs once immediately and then every interval until ctx is done.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if err := r.SyncOnce(ctx); err != nil && ctx.Err() == nil {
			log.Printf("sync: %v", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// SyncOnce performs a single pass.
func (r *Runner) SyncOnce(ctx context.Context) error {
	if r.mirror != nil {
		var products []models.Product
		if err := r.db.WithContext(ctx).Select("id", "stock_quantity").Find(&products).Error; err != nil {
			return fmt.Errorf("load stock: %w", err)
		}
		levels := make(map[uint]int, len(products))
		for _, p := range products {
			levels[p.ID] = p.StockQuantity
		}
		if err := r.mirror.SetStocks(ctx, levels); err != nil {
			return fmt.Errorf("mirror stock: %w", err)
		}
	}

	if r.invoices != nil {
		if err := r.invoices.Publish(ctx); err != nil {
			return fmt.Errorf("publish invoice refresh: %w", err)
		}
	}
	return nil
}
