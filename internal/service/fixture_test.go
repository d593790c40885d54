package service

import (
	"context"
	"ecommerce-shop/internal/cart"
	"ecommerce-shop/internal/model"
	"ecommerce-shop/internal/notify"
	"ecommerce-shop/internal/repository"
	"ecommerce-shop/internal/testutil"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu            sync.Mutex
	confirmations []notify.OrderConfirmation
	resets        []notify.PasswordReset
	err           error
}

func (n *recordingNotifier) SendOrderConfirmation(_ context.Context, c notify.OrderConfirmation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.confirmations = append(n.confirmations, c)
	return nil
}

func (n *recordingNotifier) SendPasswordReset(_ context.Context, r notify.PasswordReset) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.resets = append(n.resets, r)
	return nil
}

func (n *recordingNotifier) Confirmations() []notify.OrderConfirmation {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.OrderConfirmation(nil), n.confirmations...)
}

func (n *recordingNotifier) Resets() []notify.PasswordReset {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.PasswordReset(nil), n.resets...)
}

type fixture struct {
	db         *gorm.DB
	carts      *cart.MemoryStore
	notifier   *recordingNotifier
	dispatcher *notify.Dispatcher

	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	reviewRepo  repository.ReviewRepository

	catalog  CatalogService
	cart     CartService
	checkout CheckoutService
	orders   OrderService
	reviews  ReviewService
	reset    *passwordResetServiceImpl
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	f := &fixture{
		db:          db,
		carts:       cart.NewMemoryStore(time.Hour),
		notifier:    &recordingNotifier{},
		dispatcher:  notify.NewDispatcher(zap.NewNop(), 5*time.Second),
		userRepo:    repository.NewUserRepository(db),
		productRepo: repository.NewProductRepository(db),
		orderRepo:   repository.NewOrderRepository(db),
		reviewRepo:  repository.NewReviewRepository(db),
	}
	storeRepo := repository.NewStoreRepository(db)

	f.reviews = NewReviewService(f.reviewRepo, f.productRepo, f.orderRepo)
	f.catalog = NewCatalogService(storeRepo, f.productRepo, f.reviewRepo, f.reviews)
	f.cart = NewCartService(f.carts, f.productRepo)
	f.checkout = NewCheckoutService(db, f.carts, f.userRepo, f.productRepo, f.orderRepo, f.notifier, f.dispatcher, zap.NewNop())
	f.orders = NewOrderService(f.orderRepo)
	f.reset = NewPasswordResetService(db, f.userRepo, repository.NewResetTokenRepository(db),
		f.notifier, f.dispatcher, "http://shop.test/", 30*time.Minute).(*passwordResetServiceImpl)

	t.Cleanup(f.dispatcher.Wait)
	return f
}

func actorOf(user *model.User) Actor {
	return Actor{UserID: user.ID, Role: user.Role}
}
