package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"

	"storefront/internal/cache"
	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/resource"
)

type StockService struct {
	layer    *resource.Layer
	validate *validator.Validate
}

var stockFamilies = []cache.Key{KeyStock, KeyProducts, KeyAdminDashboard}

func (s *StockService) Summary(ctx context.Context, productID string) (*models.ProductStockSummary, error) {
	return fetchPtr[models.ProductStockSummary](ctx, s.layer, resource.Query{
		Key:  KeyStock.Append("summary", productID),
		Path: "/admin/stock/" + pathID(productID),
	})
}

// MovementsFilter narrows the stock history. Zero values are omitted.
type MovementsFilter struct {
	ProductID string `form:"productId"`
	VariantID string `form:"variantId"`
	Type      string `form:"type"`
	Reason    string `form:"reason"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
}

func (f MovementsFilter) params() url.Values {
	params := url.Values{}
	set := func(k, v string) {
		if v != "" {
			params.Set(k, v)
		}
	}
	set("productId", f.ProductID)
	set("variantId", f.VariantID)
	set("type", f.Type)
	set("reason", f.Reason)
	if f.Page > 0 {
		params.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		params.Set("limit", strconv.Itoa(f.Limit))
	}
	return params
}

func (s *StockService) Movements(ctx context.Context, filter MovementsFilter) (*models.StockMovementsResponse, error) {
	params := filter.params()
	return fetchPtr[models.StockMovementsResponse](ctx, s.layer, resource.Query{
		Key:    KeyStock.Append("movements", params.Encode()),
		Path:   "/admin/stock/movements",
		Params: params,
	})
}

func (s *StockService) Adjust(ctx context.Context, input models.StockAdjustmentInput, sink notify.Sink) (*models.StockMovement, error) {
	if err := check(s.validate, input); err != nil {
		return nil, err
	}
	return mutatePtr[models.StockMovement](ctx, s.layer, sink, resource.Mutation{
		Method:      http.MethodPost,
		Path:        "/admin/stock/adjust",
		Body:        input,
		Invalidates: stockFamilies,
		Success:     "Stock ajusté avec succès",
		Failure:     "Erreur lors de l'ajustement du stock",
	})
}

func (s *StockService) BulkAdjust(ctx context.Context, input models.BulkStockAdjustmentInput, sink notify.Sink) (*models.BulkStockAdjustmentResult, error) {
	if err := check(s.validate, input); err != nil {
		return nil, err
	}
	return mutatePtr[models.BulkStockAdjustmentResult](ctx, s.layer, sink, resource.Mutation{
		Method:      http.MethodPost,
		Path:        "/admin/stock/bulk-adjust",
		Body:        input,
		Invalidates: stockFamilies,
		Success:     "Stocks ajustés avec succès",
		Failure:     "Erreur lors de l'ajustement des stocks",
	})
}

// AdminService serves the back-office read models.
type AdminService struct {
	layer *resource.Layer
}

func (s *AdminService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	return fetchPtr[models.DashboardStats](ctx, s.layer, resource.Query{
		Key:  KeyAdminDashboard,
		Path: "/admin/stats/dashboard",
	})
}

func (s *AdminService) Customers(ctx context.Context, page, limit int) (*models.AdminCustomersResponse, error) {
	params := url.Values{}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return fetchPtr[models.AdminCustomersResponse](ctx, s.layer, resource.Query{
		Key:    KeyAdminCustomers.Append(strconv.Itoa(page), strconv.Itoa(limit)),
		Path:   "/admin/customers",
		Params: params,
	})
}
