package usecase

import (
	"appliance-store/internal/data/repository"
	"appliance-store/pkg/cache"
	"appliance-store/pkg/events"
	"appliance-store/pkg/mailer"
	"appliance-store/pkg/payment"
	"appliance-store/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth     AuthService
	User     UserService
	Catalog  CatalogService
	Cart     CartService
	Checkout CheckoutService
	Order    OrderService
}

// Deps are the outside collaborators the services talk to
type Deps struct {
	Mailer    mailer.Sender
	Gateway   payment.Gateway
	Publisher events.Publisher
	Clock     cache.Clock
}

func NewService(repo *repository.Repository, deps Deps, config *utils.Config, log *zap.Logger) *Service {
	cart := NewCartService(repo, config, log)

	return &Service{
		Auth:     NewAuthService(repo, config, deps.Mailer, deps.Publisher, deps.Clock, log),
		User:     NewUserService(repo.User, repo.Session, log),
		Catalog:  NewCatalogService(repo, config, log),
		Cart:     cart,
		Checkout: NewCheckoutService(repo, cart, deps.Gateway, deps.Publisher, deps.Clock, config, log),
		Order:    NewOrderService(repo.Order, deps.Publisher, deps.Clock, log),
	}
}
