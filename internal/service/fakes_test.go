package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tienda-backend/internal/dto"
	"tienda-backend/internal/mercadopago"
	"tienda-backend/internal/model"
	"tienda-backend/internal/rabbit"
	"tienda-backend/internal/repository"
)

// Fakes en memoria de los repositorios, para probar los servicios sin Mongo.

type fakeProductRepo struct {
	products map[string]*model.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]*model.Product{}}
}

func (f *fakeProductRepo) Create(ctx context.Context, p *model.Product) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	f.products[p.ID.Hex()] = p
	return nil
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id string) (*model.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) FindBySlug(ctx context.Context, s string) (*model.Product, error) {
	for _, p := range f.products {
		if p.Slug == s {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProductRepo) Find(ctx context.Context, filters dto.ProductFilters) ([]*model.Product, error) {
	var out []*model.Product
	for _, p := range f.products {
		if filters.Category != "" && p.CategoryID != filters.Category {
			continue
		}
		if filters.Brand != "" && p.Brand != filters.Brand {
			continue
		}
		if filters.Active != nil && p.Active != *filters.Active {
			continue
		}
		if filters.Featured != nil && p.Featured != *filters.Featured {
			continue
		}
		if filters.InStock != nil && (p.Stock > 0) != *filters.InStock {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeProductRepo) Update(ctx context.Context, id string, update bson.M) error {
	if _, ok := f.products[id]; !ok {
		return repository.ErrNotFound
	}
	return nil
}

func (f *fakeProductRepo) AppendImages(ctx context.Context, id string, urls []string) error {
	p, ok := f.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Images = append(p.Images, urls...)
	return nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) DistinctBrands(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var brands []string
	for _, p := range f.products {
		if p.Brand != "" && !seen[p.Brand] {
			seen[p.Brand] = true
			brands = append(brands, p.Brand)
		}
	}
	sort.Strings(brands)
	return brands, nil
}

type fakeCategoryRepo struct {
	categories map[string]*model.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[string]*model.Category{}}
}

func (f *fakeCategoryRepo) Create(ctx context.Context, c *model.Category) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	f.categories[c.ID.Hex()] = c
	return nil
}

func (f *fakeCategoryRepo) FindAll(ctx context.Context) ([]*model.Category, error) {
	var out []*model.Category
	for _, c := range f.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCategoryRepo) FindByID(ctx context.Context, id string) (*model.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (f *fakeCategoryRepo) FindBySlug(ctx context.Context, s string) (*model.Category, error) {
	for _, c := range f.categories {
		if c.Slug == s {
			return c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCategoryRepo) Update(ctx context.Context, id string, update bson.M) error {
	if _, ok := f.categories[id]; !ok {
		return repository.ErrNotFound
	}
	return nil
}

func (f *fakeCategoryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.categories, id)
	return nil
}

type fakeCartRepo struct {
	carts   map[string]*model.Cart
	expired map[string]bool
	failOn  string // nombre de método que debe fallar, para probar errores
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[string]*model.Cart{}, expired: map[string]bool{}}
}

func (f *fakeCartRepo) Save(ctx context.Context, cart *model.Cart) error {
	if f.failOn == "Save" {
		return context.DeadlineExceeded
	}
	cart.LastModified = time.Now()
	if cart.Status == "" {
		cart.Status = model.CartStatusActive
	}
	clone := *cart
	clone.Items = append([]model.CartItem(nil), cart.Items...)
	f.carts[cart.ID] = &clone
	return nil
}

func (f *fakeCartRepo) FindByID(ctx context.Context, id string) (*model.Cart, error) {
	cart, ok := f.carts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *cart
	clone.Items = append([]model.CartItem(nil), cart.Items...)
	return &clone, nil
}

func (f *fakeCartRepo) MarkExpired(ctx context.Context, id string) error {
	cart, ok := f.carts[id]
	if !ok {
		return repository.ErrNotFound
	}
	cart.Status = model.CartStatusExpired
	f.expired[id] = true
	return nil
}

type fakeCustomerRepo struct {
	customers map[string]*model.Customer
	addFails  bool
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: map[string]*model.Customer{}}
}

func (f *fakeCustomerRepo) Insert(ctx context.Context, c *model.Customer) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	f.customers[c.ID] = c
	return nil
}

func (f *fakeCustomerRepo) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (f *fakeCustomerRepo) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	for _, c := range f.customers {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCustomerRepo) Update(ctx context.Context, id string, update bson.M) error {
	c, ok := f.customers[id]
	if !ok {
		return repository.ErrNotFound
	}
	if v, ok := update["phone"].(string); ok {
		c.Phone = v
	}
	if v, ok := update["first_name"].(string); ok {
		c.FirstName = v
	}
	if v, ok := update["last_name"].(string); ok {
		c.LastName = v
	}
	if v, ok := update["street"].(string); ok {
		c.Street = v
	}
	return nil
}

func (f *fakeCustomerRepo) AddOrder(ctx context.Context, customerID, orderID string) error {
	if f.addFails {
		return context.DeadlineExceeded
	}
	c, ok := f.customers[customerID]
	if !ok {
		return repository.ErrNotFound
	}
	c.OrderIDs = append(c.OrderIDs, orderID)
	return nil
}

type fakeOrderRepo struct {
	orders map[string]*model.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*model.Order{}}
}

func (f *fakeOrderRepo) Insert(ctx context.Context, o *model.Order) error {
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now
	f.orders[o.ID] = o
	return nil
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, id string) (*model.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrderRepo) Delete(ctx context.Context, id string) error {
	delete(f.orders, id)
	return nil
}

func (f *fakeOrderRepo) AppendStatus(ctx context.Context, orderID string, status model.OrderStatus, record model.StatusRecord) error {
	o, ok := f.orders[orderID]
	if !ok {
		return repository.ErrNotFound
	}
	o.Status = status
	o.StatusHistory = append(o.StatusHistory, record)
	o.UpdatedAt = time.Now()
	return nil
}

func (f *fakeOrderRepo) UpdatePayment(ctx context.Context, orderID, paymentID, paymentStatus string, status model.OrderStatus, record model.StatusRecord) error {
	o, ok := f.orders[orderID]
	if !ok {
		return repository.ErrNotFound
	}
	o.PaymentID = paymentID
	o.PaymentStatus = paymentStatus
	o.Status = status
	o.StatusHistory = append(o.StatusHistory, record)
	o.UpdatedAt = time.Now()
	return nil
}

func (f *fakeOrderRepo) FindPage(ctx context.Context, filters dto.OrderFilters, cursor *dto.OrderCursor, limit int) ([]*model.Order, error) {
	var out []*model.Order
	for _, o := range f.orders {
		if filters.Status != "" && o.Status != filters.Status {
			continue
		}
		if filters.PaymentStatus != "" && o.PaymentStatus != filters.PaymentStatus {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if cursor != nil {
		idx := 0
		for i, o := range out {
			if o.ID == cursor.ID {
				idx = i + 1
				break
			}
		}
		out = out[idx:]
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeGateway struct {
	lastPreference *mercadopago.Preference
}

func (f *fakeGateway) CreatePreference(ctx context.Context, pref *mercadopago.Preference) (*mercadopago.PreferenceResponse, error) {
	f.lastPreference = pref
	return &mercadopago.PreferenceResponse{
		ID:        "pref_123",
		InitPoint: "https://mercadopago.test/init/pref_123",
	}, nil
}

type fakePublisher struct {
	events []rabbit.StatusChangedEvent
}

func (f *fakePublisher) Publish(ctx context.Context, event rabbit.StatusChangedEvent) error {
	f.events = append(f.events, event)
	return nil
}

type fakeImageStore struct {
	uploaded map[string]string // url -> contenido
	deleted  []string
	failURL  string
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{uploaded: map[string]string{}}
}

func (f *fakeImageStore) Upload(ctx context.Context, productID, filename string, src io.Reader) (string, error) {
	data, _ := io.ReadAll(src)
	url := "/images/products/" + productID + "/" + filename
	f.uploaded[url] = string(data)
	return url, nil
}

func (f *fakeImageStore) DeleteByURL(ctx context.Context, url string) error {
	if f.failURL != "" && strings.Contains(url, f.failURL) {
		return context.DeadlineExceeded
	}
	f.deleted = append(f.deleted, url)
	delete(f.uploaded, url)
	return nil
}
