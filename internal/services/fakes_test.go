package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"campus-canteen/internal/events"
	"campus-canteen/internal/models"
)

// fakeProducts is a map-backed ProductRepository
type fakeProducts struct {
	items  map[int]*models.Product
	nextID int
}

func newFakeProducts(products ...*models.Product) *fakeProducts {
	f := &fakeProducts{items: make(map[int]*models.Product), nextID: 1}
	for _, p := range products {
		f.items[p.ID] = p
		if p.ID >= f.nextID {
			f.nextID = p.ID + 1
		}
	}
	return f
}

func (f *fakeProducts) Create(ctx context.Context, req *models.ProductCreateRequest) (*models.Product, error) {
	p := &models.Product{ID: f.nextID, Name: req.Name, Description: req.Description, Price: req.Price, Image: req.Image, Available: true, CreatedAt: time.Now()}
	f.items[p.ID] = p
	f.nextID++
	return p, nil
}

func (f *fakeProducts) GetByID(ctx context.Context, id int) (*models.Product, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeProducts) GetByIDs(ctx context.Context, ids []int) (map[int]*models.Product, error) {
	out := make(map[int]*models.Product)
	for _, id := range ids {
		if p, ok := f.items[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeProducts) sorted(onlyAvailable bool) []*models.Product {
	out := []*models.Product{}
	for _, p := range f.items {
		if onlyAvailable && !p.Available {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeProducts) ListAvailable(ctx context.Context) ([]*models.Product, error) {
	return f.sorted(true), nil
}

func (f *fakeProducts) ListAll(ctx context.Context) ([]*models.Product, error) {
	return f.sorted(false), nil
}

func (f *fakeProducts) ToggleAvailability(ctx context.Context, id int) (*models.Product, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	p.Available = !p.Available
	return p, nil
}

func (f *fakeProducts) Delete(ctx context.Context, id int) error {
	if _, ok := f.items[id]; !ok {
		return models.ErrProductNotFound
	}
	delete(f.items, id)
	return nil
}

// fakeOrders keeps wallets and orders in memory and applies the wallet debit
// the same way the SQL repository does.
type fakeOrders struct {
	wallets map[int]float64
	orders  []*models.Order
	failErr error
}

func newFakeOrders(wallets map[int]float64) *fakeOrders {
	return &fakeOrders{wallets: wallets}
}

func (f *fakeOrders) record(req *models.OrderCreateRequest) *models.Order {
	order := &models.Order{
		ID:            len(f.orders) + 1,
		UserID:        req.UserID,
		TotalAmount:   req.Total(),
		Status:        req.Status,
		PaymentMethod: req.PaymentMethod,
		CreatedAt:     time.Now(),
	}
	for i, item := range req.Items {
		pid := item.ProductID
		order.Items = append(order.Items, models.OrderItem{
			ID: i + 1, OrderID: order.ID, ProductID: &pid,
			ProductName: item.ProductName, Quantity: item.Quantity, Price: item.Price,
		})
	}
	f.orders = append(f.orders, order)
	return order
}

func (f *fakeOrders) PlaceWalletOrder(ctx context.Context, req *models.OrderCreateRequest) (*models.Order, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	balance, ok := f.wallets[req.UserID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	total := req.Total()
	if balance < total {
		return nil, models.ErrInsufficientFunds
	}
	f.wallets[req.UserID] = balance - total
	return f.record(req), nil
}

func (f *fakeOrders) Create(ctx context.Context, req *models.OrderCreateRequest) (*models.Order, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	return f.record(req), nil
}

func (f *fakeOrders) ListByUser(ctx context.Context, userID int) ([]*models.Order, error) {
	out := []*models.Order{}
	for i := len(f.orders) - 1; i >= 0; i-- {
		if f.orders[i].UserID == userID {
			out = append(out, f.orders[i])
		}
	}
	return out, nil
}

func (f *fakeOrders) ListAll(ctx context.Context) ([]*models.Order, error) {
	out := []*models.Order{}
	for i := len(f.orders) - 1; i >= 0; i-- {
		out = append(out, f.orders[i])
	}
	return out, nil
}

// fakeUsers is a map-backed UserRepository
type fakeUsers struct {
	users map[int]*models.User
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{users: make(map[int]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(ctx context.Context, req *models.UserCreateRequest) (*models.User, error) {
	u := &models.User{ID: len(f.users) + 1, Name: req.Name, Email: req.Email, PasswordHash: req.Password, IsAdmin: req.IsAdmin, Wallet: req.Wallet}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id int) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (f *fakeUsers) List(ctx context.Context) ([]*models.User, error) {
	out := []*models.User{}
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsers) Credit(ctx context.Context, id int, amount float64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	u.Wallet += amount
	return u, nil
}

type fakeTickets struct {
	tickets []*models.Ticket
}

func (f *fakeTickets) Create(ctx context.Context, t *models.Ticket) (*models.Ticket, error) {
	created := *t
	created.ID = len(f.tickets) + 1
	created.CreatedAt = time.Now()
	f.tickets = append(f.tickets, &created)
	return &created, nil
}

func (f *fakeTickets) ListByUser(ctx context.Context, userID int) ([]*models.Ticket, error) {
	out := []*models.Ticket{}
	for i := len(f.tickets) - 1; i >= 0; i-- {
		if t := f.tickets[i]; t.UserID != nil && *t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeFeedback struct {
	items []*models.Feedback
}

func (f *fakeFeedback) Create(ctx context.Context, fb *models.Feedback) (*models.Feedback, error) {
	created := *fb
	created.ID = len(f.items) + 1
	f.items = append(f.items, &created)
	return &created, nil
}

// recordingPublisher captures published order events
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
	err    error
}

func (p *recordingPublisher) PublishOrder(ctx context.Context, event events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

// failingPayments always fails session creation
type failingPayments struct{}

func (failingPayments) CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSession, error) {
	return nil, errors.New("connection refused")
}

func canteenMenu() []*models.Product {
	return []*models.Product{
		{ID: 1, Name: "Samosa", Price: 20, Available: true},
		{ID: 2, Name: "Fried Rice", Price: 60, Available: true},
		{ID: 3, Name: "Tea", Price: 10, Available: true},
	}
}

var (
	customer = &models.Principal{UserID: 2, Name: "Pooja", Email: "pooja@example.com"}
	admin    = &models.Principal{UserID: 1, Name: "Admin", Email: "admin@example.com", IsAdmin: true}
)
