package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"

	"storefront/internal/cache"
	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/resource"
)

type FilterService struct {
	layer *resource.Layer
}

// Get returns every facet the listing can filter on.
func (s *FilterService) Get(ctx context.Context) (*models.FiltersResponse, error) {
	return fetchPtr[models.FiltersResponse](ctx, s.layer, resource.Query{
		Key:       KeyFilters,
		Path:      "/filters",
		StaleTime: FiltersStaleTime,
	})
}

type SearchService struct {
	layer    *resource.Layer
	validate *validator.Validate
}

func (s *SearchService) Search(ctx context.Context, input models.SearchInput) (*models.SearchResponse, error) {
	if err := check(s.validate, input); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", input.Query)
	if input.Limit > 0 {
		params.Set("limit", strconv.Itoa(input.Limit))
	}
	if input.Offset > 0 {
		params.Set("offset", strconv.Itoa(input.Offset))
	}
	if input.CategoryID != "" {
		params.Set("categoryId", input.CategoryID)
	}
	if input.MinPrice != nil {
		params.Set("minPrice", strconv.FormatFloat(*input.MinPrice, 'f', -1, 64))
	}
	if input.MaxPrice != nil {
		params.Set("maxPrice", strconv.FormatFloat(*input.MaxPrice, 'f', -1, 64))
	}

	return fetchPtr[models.SearchResponse](ctx, s.layer, resource.Query{
		Key:       KeySearch.Append("results", params.Encode()),
		Path:      "/search",
		Params:    params,
		StaleTime: SearchStaleTime,
	})
}

func (s *SearchService) Suggestions(ctx context.Context, q string, limit int) ([]models.SearchSuggestion, error) {
	if limit <= 0 {
		limit = 10
	}
	params := limitParams(limit)
	params.Set("q", q)
	return resource.Fetch[[]models.SearchSuggestion](ctx, s.layer, resource.Query{
		Key:       KeySearch.Append("suggestions", q, strconv.Itoa(limit)),
		Path:      "/search/suggestions",
		Params:    params,
		StaleTime: SearchStaleTime,
	})
}

func (s *SearchService) Popular(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	return resource.Fetch[[]string](ctx, s.layer, resource.Query{
		Key:    KeySearch.Append("popular", strconv.Itoa(limit)),
		Path:   "/search/popular",
		Params: limitParams(limit),
	})
}

func (s *SearchService) Instant(ctx context.Context, q string) (*models.InstantSearchResponse, error) {
	return fetchPtr[models.InstantSearchResponse](ctx, s.layer, resource.Query{
		Key:       KeySearch.Append("instant", q),
		Path:      "/search/instant",
		Params:    url.Values{"q": {q}},
		StaleTime: SearchStaleTime,
	})
}

type CategoryService struct {
	layer    *resource.Layer
	validate *validator.Validate
}

func (s *CategoryService) List(ctx context.Context) ([]models.CategoryWithChildren, error) {
	return resource.Fetch[[]models.CategoryWithChildren](ctx, s.layer, resource.Query{
		Key:  KeyCategories.Append("all"),
		Path: "/categories",
	})
}

func (s *CategoryService) Get(ctx context.Context, slug string) (*models.CategoryWithChildren, error) {
	return fetchPtr[models.CategoryWithChildren](ctx, s.layer, resource.Query{
		Key:  KeyCategories.Append("detail", slug),
		Path: "/categories/" + pathID(slug),
	})
}

func (s *CategoryService) BestSelling(ctx context.Context) ([]models.CategoryWithChildren, error) {
	return resource.Fetch[[]models.CategoryWithChildren](ctx, s.layer, resource.Query{
		Key:  KeyCategories.Append("best-selling"),
		Path: "/categories/best-selling",
	})
}

func (s *CategoryService) Create(ctx context.Context, input models.CategoryInput, sink notify.Sink) (*models.Category, error) {
	if err := check(s.validate, input); err != nil {
		return nil, err
	}
	return mutatePtr[models.Category](ctx, s.layer, sink, resource.Mutation{
		Method:      http.MethodPost,
		Path:        "/categories",
		Body:        input,
		Invalidates: []cache.Key{KeyCategories, KeyFilters},
		Success:     "Catégorie créée avec succès",
		Failure:     "Erreur lors de la création de la catégorie",
	})
}

func (s *CategoryService) Update(ctx context.Context, id string, input models.CategoryInput, sink notify.Sink) (*models.Category, error) {
	if err := check(s.validate, input); err != nil {
		return nil, err
	}
	return mutatePtr[models.Category](ctx, s.layer, sink, resource.Mutation{
		Method:      http.MethodPatch,
		Path:        "/categories/" + pathID(id),
		Body:        input,
		Invalidates: []cache.Key{KeyCategories, KeyFilters},
		Success:     "Catégorie mise à jour avec succès",
		Failure:     "Erreur lors de la mise à jour de la catégorie",
	})
}

func (s *CategoryService) Delete(ctx context.Context, id string, sink notify.Sink) error {
	_, err := resource.Mutate[json.RawMessage](ctx, s.layer, sink, resource.Mutation{
		Method:      http.MethodDelete,
		Path:        "/categories/" + pathID(id),
		Invalidates: []cache.Key{KeyCategories, KeyFilters, KeyProducts},
		Success:     "Catégorie supprimée avec succès",
		Failure:     "Erreur lors de la suppression de la catégorie",
	})
	return err
}

// AttributeService manages the admin attribute catalog the variant
// combinator draws from.
type AttributeService struct {
	layer    *resource.Layer
	validate *validator.Validate
}

var attributeFamilies = []cache.Key{KeyAdminAttributes, KeyFilters}

func (s *AttributeService) List(ctx context.Context, includeInactive bool) ([]models.Attribute, error) {
	var params url.Values
	if includeInactive {
		params = url.Values{"includeInactive": {"true"}}
	}
	return resource.Fetch[[]models.Attribute](ctx, s.layer, resource.Query{
		Key:    KeyAdminAttributes.Append("list", strconv.FormatBool(includeInactive)),
		Path:   "/admin/attributes",
		Params: params,
	})
}

func (s *AttributeService) Get(ctx context.Context, id string) (*models.Attribute, error) {
	return fetchPtr[models.Attribute](ctx, s.layer, resource.Query{
		Key:  KeyAdminAttributes.Append("detail", id),
		Path: "/admin/attributes/" + pathID(id),
	})
}

func (s *AttributeService) Create(ctx context.Context, input models.CreateAttributeInput, sink notify.Sink) (*models.Attribute, error) {
	if err := check(s.validate, input); err != nil {
		return nil, err
	}
	return mutatePtr[models.Attribute](ctx, s.layer, sink, resource.Mutation{
		Method:      http.MethodPost,
		Path:        "/admin/attributes",
		Body:        input,
		Invalidates: attributeFamilies,
		Success:     "Attribut créé avec succès",
		Failure:     "Erreur lors de la création de l'attribut",
	})
}

func (s *AttributeService) Update(ctx context.Context, id string, input models.UpdateAttributeInput, sink notify.Sink) (*models.Attribute, error) {
	if err := check(s.validate, input); err != nil {
		return nil, err
	}
	return mutatePtr[models.Attribute](ctx, s.layer, sink, resource.Mutation{
		Method:      http.MethodPatch,
		Path:        "/admin/attributes/" + pathID(id),
		Body:        input,
		Invalidates: attributeFamilies,
		Success:     "Attribut mis à jour avec succès",
		Failure:     "Erreur lors de la mise à jour de l'attribut",
	})
}

func (s *AttributeService) Delete(ctx context.Context, id string, sink notify.Sink) error {
	_, err := resource.Mutate[json.RawMessage](ctx, s.layer, sink, resource.Mutation{
		Method:      http.MethodDelete,
		Path:        "/admin/attributes/" + pathID(id),
		Invalidates: attributeFamilies,
		Success:     "Attribut supprimé avec succès",
		Failure:     "Erreur lors de la suppression de l'attribut",
	})
	return err
}

func (s *AttributeService) Options(ctx context.Context, attributeID string) ([]models.AttributeOption, error) {
	return resource.Fetch[[]models.AttributeOption](ctx, s.layer, resource.Query{
		Key:  KeyAdminAttributes.Append("options", attributeID),
		Path: "/admin/attributes/" + pathID(attributeID) + "/options",
	})
}

func (s *AttributeService) CreateOption(ctx context.Context, attributeID string, input models.CreateOptionInput, sink notify.Sink) (*models.AttributeOption, error) {
	if err := check(s.validate, input); err != nil {
		return nil, err
	}
	return mutatePtr[models.AttributeOption](ctx, s.layer, sink, resource.Mutation{
		Method:      http.MethodPost,
		Path:        "/admin/attributes/" + pathID(attributeID) + "/options",
		Body:        input,
		Invalidates: attributeFamilies,
		Success:     "Option créée avec succès",
		Failure:     "Erreur lors de la création de l'option",
	})
}

func (s *AttributeService) UpdateOption(ctx context.Context, optionID string, input models.UpdateOptionInput, sink notify.Sink) (*models.AttributeOption, error) {
	if err := check(s.validate, input); err != nil {
		return nil, err
	}
	return mutatePtr[models.AttributeOption](ctx, s.layer, sink, resource.Mutation{
		Method:      http.MethodPatch,
		Path:        "/admin/attributes/options/" + pathID(optionID),
		Body:        input,
		Invalidates: attributeFamilies,
		Success:     "Option mise à jour avec succès",
		Failure:     "Erreur lors de la mise à jour de l'option",
	})
}

func (s *AttributeService) DeleteOption(ctx context.Context, optionID string, sink notify.Sink) error {
	_, err := resource.Mutate[json.RawMessage](ctx, s.layer, sink, resource.Mutation{
		Method:      http.MethodDelete,
		Path:        "/admin/attributes/options/" + pathID(optionID),
		Invalidates: attributeFamilies,
		Success:     "Option supprimée avec succès",
		Failure:     "Erreur lors de la suppression de l'option",
	})
	return err
}
