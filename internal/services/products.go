package services

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"storefront/internal/cache"
	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/query"
	"storefront/internal/resource"
)

type ProductService struct {
	layer    *resource.Layer
	validate *validator.Validate
}

// ListKey is the cache key of one listing page. Filters are keyed without the
// page so every page of a filter set lives under one family.
func ListKey(state query.FilterState) cache.Key {
	return KeyProducts.Append("list", query.CacheKeyParams(state).Encode(), state.Page.String())
}

// List fetches one page of products matching state.
func (s *ProductService) List(ctx context.Context, state query.FilterState) (*models.ProductsResponse, error) {
	return fetchPtr[models.ProductsResponse](ctx, s.layer, resource.Query{
		Key:    ListKey(state),
		Path:   "/products",
		Params: query.BackendParams(state),
	})
}

func (s *ProductService) Get(ctx context.Context, slug string) (*models.ProductWithDetails, error) {
	return fetchPtr[models.ProductWithDetails](ctx, s.layer, resource.Query{
		Key:  KeyProducts.Append("detail", slug),
		Path: "/products/" + pathID(slug),
	})
}

func (s *ProductService) Related(ctx context.Context, slug string) ([]models.ProductWithDetails, error) {
	return resource.Fetch[[]models.ProductWithDetails](ctx, s.layer, resource.Query{
		Key:  KeyProducts.Append("related", slug),
		Path: "/products/" + pathID(slug) + "/related",
	})
}

func (s *ProductService) Featured(ctx context.Context) ([]models.ProductWithDetails, error) {
	return resource.Fetch[[]models.ProductWithDetails](ctx, s.layer, resource.Query{
		Key:  KeyProducts.Append("featured"),
		Path: "/products/featured",
	})
}

func (s *ProductService) RecentDiscount(ctx context.Context) (*models.ProductWithDetails, error) {
	return fetchPtr[models.ProductWithDetails](ctx, s.layer, resource.Query{
		Key:  KeyProducts.Append("recent-discount"),
		Path: "/products/recent-discount",
	})
}

func (s *ProductService) Create(ctx context.Context, input models.CreateProductInput, sink notify.Sink) (*models.ProductWithDetails, error) {
	if err := check(s.validate, input); err != nil {
		return nil, err
	}
	return mutatePtr[models.ProductWithDetails](ctx, s.layer, sink, resource.Mutation{
		Method:      http.MethodPost,
		Path:        "/products",
		Body:        input,
		Invalidates: []cache.Key{KeyProducts, KeyFilters},
		Success:     "Produit créé avec succès",
		Failure:     "Erreur lors de la création du produit",
	})
}

func (s *ProductService) Update(ctx context.Context, id string, input models.UpdateProductInput, sink notify.Sink) (*models.ProductWithDetails, error) {
	if err := check(s.validate, input); err != nil {
		return nil, err
	}
	return mutatePtr[models.ProductWithDetails](ctx, s.layer, sink, resource.Mutation{
		Method:      http.MethodPatch,
		Path:        "/products/" + pathID(id),
		Body:        input,
		Invalidates: []cache.Key{KeyProducts, KeyFilters},
		Success:     "Produit mis à jour avec succès",
		Failure:     "Erreur lors de la mise à jour du produit",
	})
}

func (s *ProductService) Delete(ctx context.Context, id string, sink notify.Sink) error {
	_, err := resource.Mutate[json.RawMessage](ctx, s.layer, sink, resource.Mutation{
		Method:      http.MethodDelete,
		Path:        "/products/" + pathID(id),
		Invalidates: []cache.Key{KeyProducts, KeyFilters},
		Success:     "Produit supprimé avec succès",
		Failure:     "Erreur lors de la suppression du produit",
	})
	return err
}

func fetchPtr[T any](ctx context.Context, layer *resource.Layer, q resource.Query) (*T, error) {
	v, err := resource.Fetch[T](ctx, layer, q)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func mutatePtr[T any](ctx context.Context, layer *resource.Layer, sink notify.Sink, m resource.Mutation) (*T, error) {
	v, err := resource.Mutate[T](ctx, layer, sink, m)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
