package services

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"

	"storefront/internal/cache"
	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/resource"
)

type OrderService struct {
	layer    *resource.Layer
	validate *validator.Validate
}

func (s *OrderService) List(ctx context.Context) (*models.OrdersResponse, error) {
	return fetchPtr[models.OrdersResponse](ctx, s.layer, personalQuery(ctx, KeyOrders, "/orders", 0))
}

func (s *OrderService) Get(ctx context.Context, id string) (*models.OrderDetails, error) {
	q := personalQuery(ctx, KeyOrders, "/orders/"+pathID(id), 0)
	if q.Key != nil {
		q.Key = q.Key.Append(id)
	}
	return fetchPtr[models.OrderDetails](ctx, s.layer, q)
}

// Create places an order from the shopper's cart, which the backend empties.
func (s *OrderService) Create(ctx context.Context, input models.CreateOrderInput, sink notify.Sink) (*models.OrderDetails, error) {
	if err := check(s.validate, input); err != nil {
		return nil, err
	}
	return mutatePtr[models.OrderDetails](ctx, s.layer, sink, resource.Mutation{
		Method:      http.MethodPost,
		Path:        "/orders",
		Body:        input,
		Invalidates: []cache.Key{personalKey(ctx, KeyCart), personalKey(ctx, KeyOrders), KeyProducts},
		Success:     "Order placed successfully!",
		Failure:     "Failed to place order!",
	})
}

func (s *OrderService) Cancel(ctx context.Context, id string, sink notify.Sink) (*models.OrderDetails, error) {
	return mutatePtr[models.OrderDetails](ctx, s.layer, sink, resource.Mutation{
		Method:      http.MethodPatch,
		Path:        "/orders/" + pathID(id) + "/cancel",
		Invalidates: []cache.Key{personalKey(ctx, KeyOrders)},
		Success:     "Order cancelled successfully!",
		Failure:     "Failed to cancel order!",
	})
}

func (s *OrderService) RequestRefund(ctx context.Context, id string, sink notify.Sink) (*models.OrderDetails, error) {
	return mutatePtr[models.OrderDetails](ctx, s.layer, sink, resource.Mutation{
		Method:      http.MethodPatch,
		Path:        "/orders/" + pathID(id) + "/refund-request",
		Invalidates: []cache.Key{personalKey(ctx, KeyOrders)},
		Success:     "Refund requested successfully!",
		Failure:     "Failed to request refund!",
	})
}

// UpdateStatus is the admin transition. Every shopper's order cache goes.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, input models.UpdateOrderStatusInput, sink notify.Sink) (*models.OrderDetails, error) {
	if err := check(s.validate, input); err != nil {
		return nil, err
	}
	return mutatePtr[models.OrderDetails](ctx, s.layer, sink, resource.Mutation{
		Method:      http.MethodPatch,
		Path:        "/admin/orders/" + pathID(id) + "/status",
		Body:        input,
		Invalidates: []cache.Key{KeyOrders, KeyAdminDashboard},
		Success:     "Statut de la commande mis à jour",
		Failure:     "Erreur lors de la mise à jour du statut",
	})
}
