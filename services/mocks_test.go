package services_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dogworld/backend/database"
	"github.com/dogworld/backend/models"
	"github.com/dogworld/backend/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Counters ---

type memCounters struct {
	mu   sync.Mutex
	seqs map[string]int64
}

func newMemCounters() *memCounters { return &memCounters{seqs: make(map[string]int64)} }

func (c *memCounters) Next(_ context.Context, name string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seqs[name]++
	return c.seqs[name], nil
}

func (c *memCounters) EnsureAtLeast(_ context.Context, name string, floor int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seqs[name] < floor {
		c.seqs[name] = floor
	}
	return nil
}

type brokenCounters struct{}

func (brokenCounters) Next(context.Context, string) (int64, error) {
	return 0, errors.New("counter store unavailable")
}
func (brokenCounters) EnsureAtLeast(context.Context, string, int64) error { return nil }

// --- Products ---

// memProducts honours the conditional decrement contract of the Mongo repository.
type memProducts struct {
	mu         sync.Mutex
	products   map[primitive.ObjectID]*models.Product
	reserveErr error
}

func newMemProducts(products ...*models.Product) *memProducts {
	m := &memProducts{products: make(map[primitive.ObjectID]*models.Product)}
	for _, p := range products {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		m.products[p.ID] = p
	}
	return m
}

func (m *memProducts) stock(id primitive.ObjectID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id].Stock
}

func (m *memProducts) Create(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.products {
		if existing.ProductID == p.ProductID {
			return fmt.Errorf("%w: productId", repository.ErrDuplicate)
		}
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *memProducts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProducts) List(_ context.Context, f models.ProductFilter) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Product
	for _, p := range m.products {
		if p.IsActive && (f.Category == "" || f.Category == "all" || f.Category == p.Category) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (m *memProducts) ListBySeller(_ context.Context, sellerID primitive.ObjectID) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Product
	for _, p := range m.products {
		if p.SellerID == sellerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProducts) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for k, v := range updates {
		switch k {
		case "name":
			p.Name = v.(string)
		case "description":
			p.Description = v.(string)
		case "price":
			p.Price = v.(float64)
		case "category":
			p.Category = v.(string)
		case "brand":
			p.Brand = v.(string)
		case "stock":
			p.Stock = v.(int)
		case "image":
			p.Image = v.(string)
		}
	}
	cp := *p
	return &cp, nil
}

func (m *memProducts) Deactivate(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.IsActive = false
	return nil
}

func (m *memProducts) DistinctActive(_ context.Context, field string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, p := range m.products {
		if !p.IsActive {
			continue
		}
		v := p.Category
		if field == "brand" {
			v = p.Brand
		}
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memProducts) ReserveStock(_ context.Context, id primitive.ObjectID, qty int) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reserveErr != nil {
		return nil, m.reserveErr
	}
	p, ok := m.products[id]
	if !ok || !p.IsActive {
		return nil, repository.ErrNotFound
	}
	if p.Stock < qty {
		return nil, repository.ErrInsufficientStock
	}
	p.Stock -= qty
	p.SoldCount += qty
	cp := *p
	return &cp, nil
}

func (m *memProducts) ReleaseStock(_ context.Context, id primitive.ObjectID, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Stock += qty
	p.SoldCount -= qty
	return nil
}

// --- Accessory orders ---

type memOrders struct {
	mu        sync.Mutex
	orders    map[primitive.ObjectID]*models.AccessoryOrder
	createErr error
}

func newMemOrders() *memOrders {
	return &memOrders{orders: make(map[primitive.ObjectID]*models.AccessoryOrder)}
}

func (m *memOrders) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

func (m *memOrders) Create(_ context.Context, o *models.AccessoryOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.orders {
		if existing.OrderID == o.OrderID {
			return fmt.Errorf("%w: orderId", repository.ErrDuplicate)
		}
	}
	o.ID = primitive.NewObjectID()
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *memOrders) FindByID(_ context.Context, id primitive.ObjectID) (*models.AccessoryOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memOrders) FindByOrderID(_ context.Context, orderID string) (*models.AccessoryOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.OrderID == orderID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memOrders) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.AccessoryOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.AccessoryOrder
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memOrders) ListBySeller(_ context.Context, sellerID primitive.ObjectID) ([]models.AccessoryOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.AccessoryOrder
	for _, o := range m.orders {
		for _, item := range o.Products {
			if item.SellerID == sellerID {
				out = append(out, *o)
				break
			}
		}
	}
	return out, nil
}

func (m *memOrders) UpdateStatus(_ context.Context, id primitive.ObjectID, from, to models.OrderStatus) (*models.AccessoryOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if o.Status != from {
		return nil, repository.ErrStaleStatus
	}
	o.Status = to
	cp := *o
	return &cp, nil
}

func (m *memOrders) UpdatePaymentStatus(_ context.Context, id primitive.ObjectID, to string) (*models.AccessoryOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if o.PaymentMethod != models.PaymentMethodOnline || o.PaymentStatus != models.PaymentStatusPending {
		return nil, repository.ErrStaleStatus
	}
	o.PaymentStatus = to
	cp := *o
	return &cp, nil
}

// --- Dogs and adoptions ---

type memDogs struct {
	mu   sync.Mutex
	dogs map[primitive.ObjectID]*models.Dog
	// availabilityErr, when set, fails every SetAvailability call.
	availabilityErr error
}

func newMemDogs(dogs ...*models.Dog) *memDogs {
	m := &memDogs{dogs: make(map[primitive.ObjectID]*models.Dog)}
	for _, d := range dogs {
		if d.ID.IsZero() {
			d.ID = primitive.NewObjectID()
		}
		m.dogs[d.ID] = d
	}
	return m
}

func (m *memDogs) Create(_ context.Context, d *models.Dog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d.ID = primitive.NewObjectID()
	cp := *d
	m.dogs[d.ID] = &cp
	return nil
}

func (m *memDogs) FindByID(_ context.Context, id primitive.ObjectID) (*models.Dog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.dogs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *memDogs) ListAvailable(_ context.Context, _ models.DogFilter) ([]models.Dog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Dog
	for _, d := range m.dogs {
		if d.IsAvailable {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *memDogs) ListBySeller(_ context.Context, sellerID primitive.ObjectID) ([]models.Dog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Dog
	for _, d := range m.dogs {
		if d.SellerID == sellerID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *memDogs) SetAvailability(_ context.Context, id primitive.ObjectID, available bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.availabilityErr != nil {
		return m.availabilityErr
	}
	d, ok := m.dogs[id]
	if !ok {
		return repository.ErrNotFound
	}
	d.IsAvailable = available
	return nil
}

func (m *memDogs) available(id primitive.ObjectID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dogs[id].IsAvailable
}

// memAdoptions enforces one active order per dog, like the partial unique index.
type memAdoptions struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]*models.AdoptionOrder
}

func newMemAdoptions() *memAdoptions {
	return &memAdoptions{orders: make(map[primitive.ObjectID]*models.AdoptionOrder)}
}

func (m *memAdoptions) Create(_ context.Context, o *models.AdoptionOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.Active = o.Status.IsActive()
	if o.Active {
		for _, existing := range m.orders {
			if existing.DogID == o.DogID && existing.Active {
				return fmt.Errorf("%w: index %s", repository.ErrDuplicate, database.ActiveAdoptionIndex)
			}
		}
	}
	o.ID = primitive.NewObjectID()
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *memAdoptions) FindByID(_ context.Context, id primitive.ObjectID) (*models.AdoptionOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memAdoptions) list(match func(*models.AdoptionOrder) bool) []models.AdoptionOrder {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.AdoptionOrder
	for _, o := range m.orders {
		if match(o) {
			out = append(out, *o)
		}
	}
	return out
}

func (m *memAdoptions) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.AdoptionOrder, error) {
	return m.list(func(o *models.AdoptionOrder) bool { return o.UserID == userID }), nil
}

func (m *memAdoptions) ListBySeller(_ context.Context, sellerID primitive.ObjectID) ([]models.AdoptionOrder, error) {
	return m.list(func(o *models.AdoptionOrder) bool { return o.SellerID == sellerID }), nil
}

func (m *memAdoptions) HasActive(_ context.Context, dogID primitive.ObjectID) (bool, error) {
	return len(m.list(func(o *models.AdoptionOrder) bool { return o.DogID == dogID && o.Active })) > 0, nil
}

func (m *memAdoptions) AdoptedDogs(_ context.Context, dogIDs []primitive.ObjectID) (map[primitive.ObjectID]bool, error) {
	out := make(map[primitive.ObjectID]bool)
	for _, o := range m.list(func(o *models.AdoptionOrder) bool {
		return o.Status == models.AdoptionStatusConfirmed || o.Status == models.AdoptionStatusCompleted
	}) {
		out[o.DogID] = true
	}
	return out, nil
}

func (m *memAdoptions) UpdateStatus(_ context.Context, id primitive.ObjectID, from, to models.AdoptionStatus) (*models.AdoptionOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if o.Status != from {
		return nil, repository.ErrStaleStatus
	}
	o.Status = to
	o.Active = to.IsActive()
	cp := *o
	return &cp, nil
}

// --- Users ---

type memUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newMemUsers() *memUsers { return &memUsers{users: make(map[primitive.ObjectID]*models.User)} }

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return fmt.Errorf("%w: email", repository.ErrDuplicate)
		}
	}
	u.ID = primitive.NewObjectID()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// --- Bookings ---

// memBookings enforces one scheduled booking per slot, like the partial unique index.
type memBookings struct {
	mu       sync.Mutex
	bookings map[primitive.ObjectID]*models.DoctorBooking
}

func newMemBookings() *memBookings {
	return &memBookings{bookings: make(map[primitive.ObjectID]*models.DoctorBooking)}
}

func (m *memBookings) Create(_ context.Context, b *models.DoctorBooking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.bookings {
		if existing.Status == models.BookingStatusScheduled && b.Status == models.BookingStatusScheduled &&
			existing.AppointmentDate.Equal(b.AppointmentDate) && existing.AppointmentTime == b.AppointmentTime {
			return fmt.Errorf("%w: index %s", repository.ErrDuplicate, database.BookingSlotIndex)
		}
	}
	b.ID = primitive.NewObjectID()
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *memBookings) FindByID(_ context.Context, id primitive.ObjectID) (*models.DoctorBooking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memBookings) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.DoctorBooking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.DoctorBooking
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memBookings) BookedSlots(_ context.Context, day time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, b := range m.bookings {
		if b.Status == models.BookingStatusScheduled && b.AppointmentDate.Equal(day) {
			out = append(out, b.AppointmentTime)
		}
	}
	return out, nil
}

func (m *memBookings) UpdateStatus(_ context.Context, id primitive.ObjectID, from, to models.BookingStatus) (*models.DoctorBooking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if b.Status != from {
		return nil, repository.ErrStaleStatus
	}
	b.Status = to
	cp := *b
	return &cp, nil
}

// --- Posts ---

type memPosts struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]*models.Post
}

func newMemPosts() *memPosts { return &memPosts{posts: make(map[primitive.ObjectID]*models.Post)} }

func (m *memPosts) Create(_ context.Context, p *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = primitive.NewObjectID()
	cp := *p
	m.posts[p.ID] = &cp
	return nil
}

func (m *memPosts) FindActive(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok || !p.IsActive {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPosts) List(_ context.Context, _ string, skip, limit int64) ([]models.Post, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var active []models.Post
	for _, p := range m.posts {
		if p.IsActive {
			active = append(active, *p)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].PostID > active[j].PostID })
	total := int64(len(active))
	if skip >= total {
		return []models.Post{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return active[skip:end], total, nil
}

func (m *memPosts) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Post
	for _, p := range m.posts {
		if p.UserID == userID && p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memPosts) ToggleLike(_ context.Context, id, userID primitive.ObjectID) (bool, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return false, 0, repository.ErrNotFound
	}
	for i, liker := range p.Likes {
		if liker == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return false, len(p.Likes), nil
		}
	}
	p.Likes = append(p.Likes, userID)
	return true, len(p.Likes), nil
}

func (m *memPosts) AddComment(_ context.Context, id primitive.ObjectID, c models.Comment) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.Comments = append(p.Comments, c)
	cp := *p
	return &cp, nil
}

func (m *memPosts) Deactivate(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.IsActive = false
	return nil
}

// --- Health records ---

type memHealth struct {
	mu      sync.Mutex
	records map[primitive.ObjectID]*models.HealthRecord
}

func newMemHealth() *memHealth {
	return &memHealth{records: make(map[primitive.ObjectID]*models.HealthRecord)}
}

func (m *memHealth) Create(_ context.Context, r *models.HealthRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = primitive.NewObjectID()
	cp := *r
	m.records[r.ID] = &cp
	return nil
}

func (m *memHealth) FindByID(_ context.Context, id primitive.ObjectID) (*models.HealthRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memHealth) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.HealthRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.HealthRecord
	for _, r := range m.records {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memHealth) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.HealthRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if v, ok := updates["dogName"].(string); ok {
		r.DogName = v
	}
	if v, ok := updates["breed"].(string); ok {
		r.Breed = v
	}
	if v, ok := updates["weight"].(float64); ok {
		r.Weight = v
	}
	cp := *r
	return &cp, nil
}

func (m *memHealth) AddVaccination(_ context.Context, id primitive.ObjectID, v models.Vaccination) (*models.HealthRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	r.Vaccinations = append(r.Vaccinations, v)
	cp := *r
	return &cp, nil
}

func (m *memHealth) AddVetVisit(_ context.Context, id primitive.ObjectID, v models.VetVisit) (*models.HealthRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	r.VetVisits = append(r.VetVisits, v)
	cp := *r
	return &cp, nil
}

// --- Notifications ---

type published struct {
	Topic string
	Type  string
	Data  interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, topic, eventType string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{Topic: topic, Type: eventType, Data: data})
	return p.err
}

func (p *recordingPublisher) ofType(eventType string) []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []published
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
