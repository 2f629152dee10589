// Package ledger exchanges points for catalog items.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/vytor/mathcat/internal/errors"
	"github.com/vytor/mathcat/internal/gateway"
	"github.com/vytor/mathcat/internal/logger"
	"github.com/vytor/mathcat/internal/models"
	"github.com/vytor/mathcat/internal/schedule"
)

// HighlightWindow is how long a bought item stays highlighted.
const HighlightWindow = 1200 * time.Millisecond

// SummaryRefresher reloads the authoritative balance. The score synchronizer
// satisfies it.
type SummaryRefresher interface {
	Refresh(ctx context.Context) (*models.Summary, error)
}

// Receipt is a completed purchase. Summary is the refreshed balance, or nil
// when the refresh after the purchase failed.
type Receipt struct {
	ItemID  string                `json:"item_id"`
	Result  models.PurchaseResult `json:"result"`
	Summary *models.Summary       `json:"summary,omitempty"`
}

// Overview is the catalog and balance loaded together.
type Overview struct {
	Items   []models.CatalogItem `json:"items"`
	Summary *models.Summary      `json:"summary"`
}

// Ledger runs purchases. Different items may be bought concurrently; a second
// purchase of an item already in flight is refused locally. The balance is
// never decremented here: after a purchase the summary is refreshed.
type Ledger struct {
	mu        sync.Mutex
	userID    int64
	catalog   gateway.CatalogService
	scores    SummaryRefresher
	inFlight  map[string]struct{}
	highlight *schedule.Pulse[string]
	log       *logger.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithScheduler sets the scheduler driving the purchase highlight.
func WithScheduler(sched schedule.Scheduler) Option {
	return func(l *Ledger) {
		l.highlight = schedule.NewPulse[string](sched, HighlightWindow)
	}
}

func New(userID int64, catalog gateway.CatalogService, scores SummaryRefresher, opts ...Option) *Ledger {
	l := &Ledger{
		userID:    userID,
		catalog:   catalog,
		scores:    scores,
		inFlight:  map[string]struct{}{},
		highlight: schedule.NewPulse[string](schedule.Real{}, HighlightWindow),
		log:       logger.Default().WithPrefix("ledger").WithField("user_id", userID),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Purchase buys itemID and then refreshes the balance. If the purchase went
// through but the refresh did not, the receipt is returned along with the
// refresh error.
func (l *Ledger) Purchase(ctx context.Context, itemID string) (*Receipt, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return nil, apperrors.NewPreconditionError("no item selected")
	}
	if err := l.acquire(itemID); err != nil {
		return nil, err
	}
	defer l.release(itemID)

	log := l.log.WithField("item_id", itemID)
	res, err := l.catalog.Purchase(ctx, l.userID, itemID)
	if err != nil {
		log.Warn("purchase failed: %v", err)
		return nil, err
	}
	if !res.Success {
		log.Warn("purchase declined")
		return nil, apperrors.NewServiceError(0, "the purchase was declined")
	}
	log.Info("purchase accepted: new_total_score=%d", res.NewTotalScore)
	l.highlight.Set(itemID)

	receipt := &Receipt{ItemID: itemID, Result: *res}
	summary, err := l.scores.Refresh(ctx)
	if err != nil {
		return receipt, fmt.Errorf("refresh after purchase: %w", err)
	}
	receipt.Summary = summary
	return receipt, nil
}

func (l *Ledger) acquire(itemID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.inFlight[itemID]; busy {
		return apperrors.NewConflictError("this item is already being purchased")
	}
	l.inFlight[itemID] = struct{}{}
	return nil
}

func (l *Ledger) release(itemID string) {
	l.mu.Lock()
	delete(l.inFlight, itemID)
	l.mu.Unlock()
}

// Pending lists the items with a purchase in flight, sorted.
func (l *Ledger) Pending() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := make([]string, 0, len(l.inFlight))
	for id := range l.inFlight {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Highlighted is the item bought most recently, for a short while after.
func (l *Ledger) Highlighted() string {
	return l.highlight.Get()
}

func (l *Ledger) Items(ctx context.Context) ([]models.CatalogItem, error) {
	items, err := l.catalog.ListItems(ctx)
	if err != nil {
		l.log.Warn("failed to list items: %v", err)
		return nil, err
	}
	return items, nil
}

// Overview loads the catalog and refreshes the balance concurrently. Either
// failure fails the whole load.
func (l *Ledger) Overview(ctx context.Context) (*Overview, error) {
	var (
		items   []models.CatalogItem
		summary *models.Summary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = l.Items(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = l.scores.Refresh(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Overview{Items: items, Summary: summary}, nil
}

// Close cancels the pending highlight reset.
func (l *Ledger) Close() {
	l.highlight.Stop()
}
