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

type CartService struct {
	layer    *resource.Layer
	validate *validator.Validate
}

func (s *CartService) Get(ctx context.Context) (*models.CartWithItems, error) {
	return fetchPtr[models.CartWithItems](ctx, s.layer, personalQuery(ctx, KeyCart, "/carts", CartStaleTime))
}

// Cart writes also evict products: stock shown on listings moves with them.
func (s *CartService) invalidates(ctx context.Context) []cache.Key {
	return []cache.Key{personalKey(ctx, KeyCart), KeyProducts}
}

func (s *CartService) AddItem(ctx context.Context, input models.AddCartItemInput, sink notify.Sink) (*models.CartWithItems, error) {
	if err := check(s.validate, input); err != nil {
		return nil, err
	}
	return mutatePtr[models.CartWithItems](ctx, s.layer, sink, resource.Mutation{
		Method:      http.MethodPost,
		Path:        "/carts/items",
		Body:        input,
		Invalidates: s.invalidates(ctx),
		Success:     "Product added to cart",
		Failure:     "Error adding to cart",
	})
}

func (s *CartService) UpdateItem(ctx context.Context, input models.UpdateCartItemInput, sink notify.Sink) (*models.CartWithItems, error) {
	if err := check(s.validate, input); err != nil {
		return nil, err
	}
	return mutatePtr[models.CartWithItems](ctx, s.layer, sink, resource.Mutation{
		Method:      http.MethodPatch,
		Path:        "/carts/items",
		Body:        input,
		Invalidates: s.invalidates(ctx),
		Failure:     "Error updating item",
	})
}

func (s *CartService) RemoveItem(ctx context.Context, input models.RemoveCartItemInput, sink notify.Sink) (*models.CartWithItems, error) {
	if err := check(s.validate, input); err != nil {
		return nil, err
	}
	return mutatePtr[models.CartWithItems](ctx, s.layer, sink, resource.Mutation{
		Method:      http.MethodDelete,
		Path:        "/carts/items",
		Body:        input,
		Invalidates: s.invalidates(ctx),
		Success:     "Product removed from cart successfully",
		Failure:     "Error removing item",
	})
}

func (s *CartService) Clear(ctx context.Context, sink notify.Sink) (*models.CartWithItems, error) {
	return mutatePtr[models.CartWithItems](ctx, s.layer, sink, resource.Mutation{
		Method:      http.MethodDelete,
		Path:        "/carts",
		Invalidates: s.invalidates(ctx),
		Success:     "Cart cleared successfully",
		Failure:     "Error clearing cart",
	})
}

type WishlistService struct {
	layer    *resource.Layer
	validate *validator.Validate
}

func (s *WishlistService) Get(ctx context.Context) (*models.WishlistWithItems, error) {
	return fetchPtr[models.WishlistWithItems](ctx, s.layer, personalQuery(ctx, KeyWishlist, "/wishlists", CartStaleTime))
}

func (s *WishlistService) AddItem(ctx context.Context, input models.WishlistItemInput, sink notify.Sink) (*models.WishlistWithItems, error) {
	if err := check(s.validate, input); err != nil {
		return nil, err
	}
	return mutatePtr[models.WishlistWithItems](ctx, s.layer, sink, resource.Mutation{
		Method:      http.MethodPost,
		Path:        "/wishlists/items",
		Body:        input,
		Invalidates: []cache.Key{personalKey(ctx, KeyWishlist)},
		Success:     "Product added to wishlist",
		Failure:     "Error adding to wishlist",
	})
}

func (s *WishlistService) RemoveItem(ctx context.Context, input models.WishlistItemInput, sink notify.Sink) (*models.WishlistWithItems, error) {
	if err := check(s.validate, input); err != nil {
		return nil, err
	}
	return mutatePtr[models.WishlistWithItems](ctx, s.layer, sink, resource.Mutation{
		Method:      http.MethodDelete,
		Path:        "/wishlists/items",
		Body:        input,
		Invalidates: []cache.Key{personalKey(ctx, KeyWishlist)},
		Success:     "Product removed from wishlist",
		Failure:     "Error removing item",
	})
}

func (s *WishlistService) Clear(ctx context.Context, sink notify.Sink) (*models.WishlistWithItems, error) {
	return mutatePtr[models.WishlistWithItems](ctx, s.layer, sink, resource.Mutation{
		Method:      http.MethodDelete,
		Path:        "/wishlists",
		Invalidates: []cache.Key{personalKey(ctx, KeyWishlist)},
		Success:     "Wishlist cleared",
		Failure:     "Error clearing wishlist",
	})
}
