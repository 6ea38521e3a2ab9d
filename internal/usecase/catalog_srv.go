package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"appliance-store/internal/data/entity"
	"appliance-store/internal/data/repository"
	"appliance-store/internal/dto/request"
	"appliance-store/internal/dto/response"
	"appliance-store/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spaolacci/murmur3"
	"go.uber.org/zap"
)

type CatalogService interface {
	ListProducts(ctx context.Context, req *request.ProductListRequest) (*response.PaginatedResponse[response.ProductResponse], error)
	GetProduct(ctx context.Context, productID string) (*response.ProductResponse, error)
	ListCategories(ctx context.Context) ([]response.CategoryResponse, error)
}

type catalogService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewCatalogService(repo *repository.Repository, config *utils.Config, log *zap.Logger) CatalogService {
	return &catalogService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) ListProducts(ctx context.Context, req *request.ProductListRequest) (*response.PaginatedResponse[response.ProductResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	filter := entity.ProductFilter{
		Query:     strings.TrimSpace(req.Query),
		MinRating: req.Rating,
	}

	if req.Price != "" {
		low, high, err := ParsePriceRange(req.Price)
		if err != nil {
			return nil, err
		}
		filter.MinPrice = &low
		filter.MaxPrice = &high
	}

	if req.Category != "" {
		categoryID, err := uuid.Parse(req.Category)
		if err != nil {
			return nil, fmt.Errorf("category: %w", ErrValidation)
		}
		filter.CategoryID = &categoryID
	}

	total, err := s.repo.Product.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	perPage := s.config.Cart.PageSize
	if perPage < 1 {
		perPage = 4
	}
	page := utils.ClampPage(req.Page, total, perPage)

	filter.Limit = perPage
	filter.Offset = utils.CalculateOffset(page, perPage)

	products, err := s.repo.Product.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	items := make([]response.ProductResponse, 0, len(products))
	for _, product := range products {
		items = append(items, DecorateProduct(product))
	}

	return response.NewPaginatedResponse(items, page, perPage, total), nil
}

func (s *catalogService) GetProduct(ctx context.Context, productID string) (*response.ProductResponse, error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return nil, fmt.Errorf("product id: %w", ErrValidation)
	}

	product, err := s.repo.Product.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("product: %w", ErrNotFound)
	}

	resp := DecorateProduct(product)
	return &resp, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]response.CategoryResponse, error) {
	categories, err := s.repo.Category.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	resp := make([]response.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		resp = append(resp, response.CategoryResponse{ID: category.ID.String(), Name: category.Name})
	}
	return resp, nil
}

// ParsePriceRange reads "low-high" as two inclusive integer bounds
func ParsePriceRange(raw string) (int, int, error) {
	parts := strings.Split(raw, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("price range %q: %w", raw, ErrValidation)
	}

	low, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("price range %q: %w", raw, ErrValidation)
	}
	high, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("price range %q: %w", raw, ErrValidation)
	}

	return low, high, nil
}

// DecorateProduct fills the storefront display fields. They are derived from
// a hash of the product id so a product shows the same numbers every time:
// review count in [20,120], original price = price x [1.100,1.300] rounded
// to whole units.
func DecorateProduct(product *entity.Product) response.ProductResponse {
	resp := response.ProductToResponse(product)

	h := murmur3.Sum64(product.ID[:])
	resp.ReviewCount = 20 + int(h%101)

	multiplier := decimal.New(1100+int64((h>>16)%201), -3)
	resp.OriginalPrice = product.Price.Mul(multiplier).RoundBank(0)

	if resp.OriginalPrice.IsPositive() {
		ratio := product.Price.Div(resp.OriginalPrice).Mul(decimal.NewFromInt(100))
		resp.DiscountPercent = 100 - int(ratio.IntPart())
	}

	return resp
}
