package service

import (
	"context"
	"database/sql"
	"errors"

	"storekeeper/internal/domain"
	"storekeeper/internal/repository"
)

const (
	categoryEntity = "category"
	productEntity  = "product"
)

// CatalogService manages categories and products. Products reference a
// category by foreign key; the store enforces the reference and violations
// surface as ConstraintError.
type CatalogService struct {
	categories repository.Repository[domain.Category]
	products   repository.Repository[domain.Product]
}

func NewCatalogService(
	categories repository.Repository[domain.Category],
	products repository.Repository[domain.Product],
) *CatalogService {
	return &CatalogService{categories: categories, products: products}
}

func (s *CatalogService) CreateCategory(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	if c.ID != 0 {
		return nil, &BadRequestError{
			Entity:  categoryEntity,
			Key:     KeyIDExists,
			Message: "a new category cannot already have an id",
		}
	}
	if err := c.Validate(); err != nil {
		return nil, invalid(categoryEntity, err)
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, translateStoreError(categoryEntity, 0, err)
	}
	return c, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	c, err := s.categories.GetOne(ctx, id)
	if err != nil {
		return nil, translateStoreError(categoryEntity, id, err)
	}
	return c, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.GetAll(ctx)
}

func (s *CatalogService) UpdateCategory(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	if c.ID == 0 {
		return nil, &BadRequestError{
			Entity:  categoryEntity,
			Key:     KeyIDNull,
			Message: "an existing category must have an id",
		}
	}
	if err := c.Validate(); err != nil {
		return nil, invalid(categoryEntity, err)
	}
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, translateStoreError(categoryEntity, c.ID, err)
	}
	return c, nil
}

// DeleteCategory removes a category. When products still reference it the
// store rejects the delete and the caller sees a ConstraintError.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return translateStoreError(categoryEntity, id, err)
	}
	return nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if p.ID != 0 {
		return nil, &BadRequestError{
			Entity:  productEntity,
			Key:     KeyIDExists,
			Message: "a new product cannot already have an id",
		}
	}
	if err := p.Validate(); err != nil {
		return nil, invalid(productEntity, err)
	}
	p.Category = nil
	if err := s.products.Create(ctx, p); err != nil {
		return nil, translateStoreError(productEntity, 0, err)
	}
	return p, nil
}

// GetProduct returns a product with its category relation loaded.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p := new(domain.Product)
	err := s.products.NewSelect().
		Model(p).
		Relation("Category").
		Where("p.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: productEntity, ID: id}
		}
		return nil, translateStoreError(productEntity, id, err)
	}
	return p, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.products.GetAll(ctx)
}

// ListProductsPage returns one page of products ordered by id.
func (s *CatalogService) ListProductsPage(ctx context.Context, page, pageSize int) (*repository.Pagination[domain.Product], error) {
	req := repository.NewPageRequest(page, pageSize, nil, []string{"id ASC"})
	return s.products.Page(ctx, req)
}

// ListProductsByCategory lists the products belonging to a category.
func (s *CatalogService) ListProductsByCategory(ctx context.Context, categoryID int64) ([]*domain.Product, error) {
	return s.products.List(ctx, repository.NewQueryFilter("category_id = ?", categoryID))
}

func (s *CatalogService) UpdateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if p.ID == 0 {
		return nil, &BadRequestError{
			Entity:  productEntity,
			Key:     KeyIDNull,
			Message: "an existing product must have an id",
		}
	}
	if err := p.Validate(); err != nil {
		return nil, invalid(productEntity, err)
	}
	p.Category = nil
	if err := s.products.Update(ctx, p); err != nil {
		return nil, translateStoreError(productEntity, p.ID, err)
	}
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return translateStoreError(productEntity, id, err)
	}
	return nil
}
