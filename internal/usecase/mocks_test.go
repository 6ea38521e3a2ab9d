package usecase

import (
	"context"
	"sync"

	"appliance-store/internal/data/entity"
	"appliance-store/pkg/events"
	"appliance-store/pkg/mailer"
	"appliance-store/pkg/payment"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// ==================== REPOSITORY MOCKS ====================

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	args := m.Called(ctx, limit, offset)
	users, _ := args.Get(0).([]*entity.User)
	return users, args.Error(1)
}

func (m *mockUserRepo) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockSessionRepo struct{ mock.Mock }

func (m *mockSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *mockSessionRepo) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	args := m.Called(ctx, token)
	session, _ := args.Get(0).(*entity.Session)
	return session, args.Error(1)
}

func (m *mockSessionRepo) Revoke(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockSessionRepo) RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockSessionRepo) CleanExpiredSessions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockProductRepo struct{ mock.Mock }

func (m *mockProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*entity.Product)
	return product, args.Error(1)
}

func (m *mockProductRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Product, error) {
	args := m.Called(ctx, ids)
	products, _ := args.Get(0).(map[uuid.UUID]*entity.Product)
	return products, args.Error(1)
}

func (m *mockProductRepo) FindAll(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error) {
	args := m.Called(ctx, filter)
	products, _ := args.Get(0).([]*entity.Product)
	return products, args.Error(1)
}

func (m *mockProductRepo) CountAll(ctx context.Context, filter entity.ProductFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type mockCartRepo struct{ mock.Mock }

func (m *mockCartRepo) GetOrCreate(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	args := m.Called(ctx, userID)
	cart, _ := args.Get(0).(*entity.Cart)
	return cart, args.Error(1)
}

func (m *mockCartRepo) FindItems(ctx context.Context, cartID uuid.UUID) ([]*entity.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]*entity.CartItem)
	return items, args.Error(1)
}

func (m *mockCartRepo) FindItem(ctx context.Context, cartID, productID uuid.UUID) (*entity.CartItem, error) {
	args := m.Called(ctx, cartID, productID)
	item, _ := args.Get(0).(*entity.CartItem)
	return item, args.Error(1)
}

func (m *mockCartRepo) AddItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) error {
	return m.Called(ctx, cartID, productID, quantity).Error(0)
}

func (m *mockCartRepo) SetQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) error {
	return m.Called(ctx, cartID, productID, quantity).Error(0)
}

func (m *mockCartRepo) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error {
	return m.Called(ctx, cartID, productID).Error(0)
}

func (m *mockCartRepo) Clear(ctx context.Context, cartID uuid.UUID) error {
	return m.Called(ctx, cartID).Error(0)
}

type mockWishlistRepo struct{ mock.Mock }

func (m *mockWishlistRepo) Add(ctx context.Context, userID, productID uuid.UUID) error {
	return m.Called(ctx, userID, productID).Error(0)
}

func (m *mockWishlistRepo) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	return m.Called(ctx, userID, productID).Error(0)
}

func (m *mockWishlistRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.WishlistItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]*entity.WishlistItem)
	return items, args.Error(1)
}

type mockAddressRepo struct{ mock.Mock }

func (m *mockAddressRepo) Create(ctx context.Context, address *entity.SavedAddress) error {
	return m.Called(ctx, address).Error(0)
}

func (m *mockAddressRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.SavedAddress, error) {
	args := m.Called(ctx, userID)
	addresses, _ := args.Get(0).([]*entity.SavedAddress)
	return addresses, args.Error(1)
}

type mockOrderRepo struct{ mock.Mock }

func (m *mockOrderRepo) Create(ctx context.Context, order *entity.Order, cartID uuid.UUID) error {
	return m.Called(ctx, order, cartID).Error(0)
}

func (m *mockOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	args := m.Called(ctx, id)
	order, _ := args.Get(0).(*entity.Order)
	return order, args.Error(1)
}

func (m *mockOrderRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	args := m.Called(ctx, userID)
	orders, _ := args.Get(0).([]*entity.Order)
	return orders, args.Error(1)
}

func (m *mockOrderRepo) MarkPaid(ctx context.Context, id uuid.UUID, gatewayPaymentID string) error {
	return m.Called(ctx, id, gatewayPaymentID).Error(0)
}

func (m *mockOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

// ==================== OUTSIDE COLLABORATORS ====================

type captureMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (c *captureMailer) Send(_ context.Context, msg mailer.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, msg)
	return nil
}

func (c *captureMailer) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (c *capturePublisher) Publish(_ context.Context, event events.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *capturePublisher) Close() error { return nil }

func (c *capturePublisher) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.Type)
	}
	return out
}

type mockGateway struct{ mock.Mock }

func (m *mockGateway) Enabled() bool { return m.Called().Bool(0) }

func (m *mockGateway) KeyID() string { return m.Called().String(0) }

func (m *mockGateway) CreateOrder(ctx context.Context, req payment.OrderRequest) (*payment.Order, error) {
	args := m.Called(ctx, req)
	order, _ := args.Get(0).(*payment.Order)
	return order, args.Error(1)
}

func (m *mockGateway) VerifySignature(cb payment.Callback) bool {
	return m.Called(cb).Bool(0)
}
