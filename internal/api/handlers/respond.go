package handlers

import (
	"errors"
	"math"
	"net/http"

	"storefront/internal/apiclient"
	"storefront/internal/logger"
	"storefront/internal/notify"
	"storefront/internal/query"
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto the gateway response. Remote API
// errors keep their status; transport failures become 502.
func respondError(c *gin.Context, log *logger.Logger, err error, fallback string) {
	if errors.Is(err, services.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = fallback
		}
		c.JSON(apiErr.Status, gin.H{"error": msg})
		return
	}

	log.Error("%s: %v", fallback, err)
	c.JSON(http.StatusBadGateway, gin.H{"error": fallback})
}

// newSink returns a per-request recorder whose notifications are echoed in
// the response, mirrored to the service log.
func newSink(log *logger.Logger) (*notify.Recorder, notify.Sink) {
	rec := notify.NewRecorder()
	return rec, notify.Multi{rec, notify.NewLogSink(log)}
}

type priceRangeView struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

type filterView struct {
	Search     interface{}        `json:"search,omitempty"`
	Categories []string           `json:"categories,omitempty"`
	PriceRange *priceRangeView    `json:"priceRange,omitempty"`
	Page       interface{}        `json:"page,omitempty"`
	SortBy     interface{}        `json:"sortBy,omitempty"`
	SortOrder  interface{}        `json:"sortOrder,omitempty"`
	Options    []query.OptionPair `json:"options,omitempty"`
}

// viewFilters renders a FilterState for JSON. Repeated scalars stay lists and
// bounds that are not finite numbers are left out.
func viewFilters(s query.FilterState) filterView {
	v := filterView{
		Search:     valueView(s.Search),
		Categories: s.Categories,
		Page:       valueView(s.Page),
		SortBy:     valueView(s.SortBy),
		SortOrder:  valueView(s.SortOrder),
		Options:    s.Options,
	}
	if s.PriceRange != nil {
		pr := &priceRangeView{}
		if f, ok := s.PriceRange.MinValid(); ok && !math.IsInf(f, 0) {
			pr.Min = &f
		}
		if f, ok := s.PriceRange.MaxValid(); ok && !math.IsInf(f, 0) {
			pr.Max = &f
		}
		if pr.Min != nil || pr.Max != nil {
			v.PriceRange = pr
		}
	}
	return v
}

func valueView(v *query.Value) interface{} {
	if v == nil {
		return nil
	}
	if v.IsList() {
		return v.Items()
	}
	return v.String()
}
