package processors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/cache"
	"storefront/internal/logger"
	"storefront/internal/services"
	"storefront/internal/worker/processors/validation"
)

var ErrUnknownEvent = errors.New("unknown event type")

// Invalidator evicts cache families. resource.Layer satisfies it.
type Invalidator interface {
	Invalidate(ctx context.Context, prefixes ...cache.Key) int
}

// families maps the event namespace (the part before the dot) to the cache
// families its mutations make stale.
var families = map[string][]cache.Key{
	"product":   {services.KeyProducts, services.KeyFilters, services.KeyStock},
	"category":  {services.KeyCategories, services.KeyFilters, services.KeyProducts},
	"attribute": {services.KeyAdminAttributes, services.KeyFilters},
	"coupon":    {services.KeyAdminCoupons, cache.NewKey("coupons")},
	"stock":     {services.KeyStock, services.KeyProducts, services.KeyAdminDashboard},
	"order":     {services.KeyOrders, services.KeyAdminDashboard, services.KeyAdminCustomers},
}

// Families returns the cache families stale after an event of eventType.
func Families(eventType string) ([]cache.Key, bool) {
	ns, _, _ := strings.Cut(eventType, ".")
	keys, ok := families[ns]
	return keys, ok
}

type EventProcessor struct {
	logger      *logger.Logger
	validator   *validation.Validator
	invalidator Invalidator
}

func NewEventProcessor(invalidator Invalidator, logger *logger.Logger) *EventProcessor {
	return &EventProcessor{
		logger:      logger,
		validator:   validation.New(logger),
		invalidator: invalidator,
	}
}

// Process evicts every cache family the event touches.
func (ep *EventProcessor) Process(ctx context.Context, event Event) error {
	if err := ep.validator.ValidateEvent(event); err != nil {
		return err
	}

	keys, ok := Families(event.Type)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEvent, event.Type)
	}

	n := ep.invalidator.Invalidate(ctx, keys...)
	ep.logger.Info("Event %s (%s) evicted %d cache entries", event.Type, event.ID, n)
	return nil
}
