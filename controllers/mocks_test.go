package controllers_test

import (
	"context"

	"github.com/dogworld/backend/models"
	"github.com/dogworld/backend/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockOrderService struct {
	checkoutFn      func(ctx context.Context, userID primitive.ObjectID, req *models.CheckoutRequest) (*models.AccessoryOrder, error)
	listUserFn      func(ctx context.Context, userID primitive.ObjectID) ([]models.AccessoryOrder, error)
	listSellerFn    func(ctx context.Context, sellerID primitive.ObjectID) ([]models.SellerOrderView, error)
	getFn           func(ctx context.Context, userID primitive.ObjectID, id string) (*models.AccessoryOrder, error)
	updateStatusFn  func(ctx context.Context, sellerID primitive.ObjectID, id, status string) (*models.AccessoryOrder, error)
	updatePaymentFn func(ctx context.Context, sellerID primitive.ObjectID, id, paymentStatus string) (*models.AccessoryOrder, error)
}

var _ services.AccessoryOrderService = (*mockOrderService)(nil)

func (m *mockOrderService) Checkout(ctx context.Context, userID primitive.ObjectID, req *models.CheckoutRequest) (*models.AccessoryOrder, error) {
	return m.checkoutFn(ctx, userID, req)
}
func (m *mockOrderService) ListUserOrders(ctx context.Context, userID primitive.ObjectID) ([]models.AccessoryOrder, error) {
	return m.listUserFn(ctx, userID)
}
func (m *mockOrderService) ListSellerOrders(ctx context.Context, sellerID primitive.ObjectID) ([]models.SellerOrderView, error) {
	return m.listSellerFn(ctx, sellerID)
}
func (m *mockOrderService) GetUserOrder(ctx context.Context, userID primitive.ObjectID, id string) (*models.AccessoryOrder, error) {
	return m.getFn(ctx, userID, id)
}
func (m *mockOrderService) UpdateStatus(ctx context.Context, sellerID primitive.ObjectID, id, status string) (*models.AccessoryOrder, error) {
	return m.updateStatusFn(ctx, sellerID, id, status)
}
func (m *mockOrderService) UpdatePaymentStatus(ctx context.Context, sellerID primitive.ObjectID, id, paymentStatus string) (*models.AccessoryOrder, error) {
	return m.updatePaymentFn(ctx, sellerID, id, paymentStatus)
}
func (m *mockOrderService) ApplyPaymentResult(context.Context, string, string) error { return nil }

type mockProductService struct {
	listFn       func(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	categoriesFn func(ctx context.Context) (*models.CategoriesResponse, error)
	getFn        func(ctx context.Context, id string) (*models.Product, error)
	createFn     func(ctx context.Context, sellerID primitive.ObjectID, req *models.CreateProductRequest) (*models.Product, error)
	deleteFn     func(ctx context.Context, sellerID primitive.ObjectID, id string) error
}

var _ services.ProductService = (*mockProductService)(nil)

func (m *mockProductService) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	return m.listFn(ctx, filter)
}
func (m *mockProductService) Categories(ctx context.Context) (*models.CategoriesResponse, error) {
	return m.categoriesFn(ctx)
}
func (m *mockProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	return m.getFn(ctx, id)
}
func (m *mockProductService) ListBySeller(context.Context, primitive.ObjectID) ([]models.Product, error) {
	return []models.Product{}, nil
}
func (m *mockProductService) Create(ctx context.Context, sellerID primitive.ObjectID, req *models.CreateProductRequest) (*models.Product, error) {
	return m.createFn(ctx, sellerID, req)
}
func (m *mockProductService) Update(context.Context, primitive.ObjectID, string, *models.UpdateProductRequest) (*models.Product, error) {
	return nil, nil
}
func (m *mockProductService) Delete(ctx context.Context, sellerID primitive.ObjectID, id string) error {
	return m.deleteFn(ctx, sellerID, id)
}

type mockAuthService struct {
	registerFn func(ctx context.Context, role string, req *models.RegisterRequest) (*models.AuthResponse, error)
	loginFn    func(ctx context.Context, role string, req *models.LoginRequest) (*models.AuthResponse, error)
	refreshFn  func(ctx context.Context, token string) (*models.AuthResponse, error)
}

var _ services.AuthService = (*mockAuthService)(nil)

func (m *mockAuthService) Register(ctx context.Context, role string, req *models.RegisterRequest) (*models.AuthResponse, error) {
	return m.registerFn(ctx, role, req)
}
func (m *mockAuthService) Login(ctx context.Context, role string, req *models.LoginRequest) (*models.AuthResponse, error) {
	return m.loginFn(ctx, role, req)
}
func (m *mockAuthService) Refresh(ctx context.Context, token string) (*models.AuthResponse, error) {
	return m.refreshFn(ctx, token)
}

type mockBookingService struct {
	slotsFn func(ctx context.Context, date string) (*models.AvailableSlotsResponse, error)
	bookFn  func(ctx context.Context, userID primitive.ObjectID, req *models.CreateBookingRequest) (*models.DoctorBooking, error)
}

var _ services.BookingService = (*mockBookingService)(nil)

func (m *mockBookingService) Doctors() []models.Doctor {
	return []models.Doctor{{Name: "Dr. Sharma"}}
}
func (m *mockBookingService) AvailableSlots(ctx context.Context, date string) (*models.AvailableSlotsResponse, error) {
	return m.slotsFn(ctx, date)
}
func (m *mockBookingService) Book(ctx context.Context, userID primitive.ObjectID, req *models.CreateBookingRequest) (*models.DoctorBooking, error) {
	return m.bookFn(ctx, userID, req)
}
func (m *mockBookingService) MyAppointments(context.Context, primitive.ObjectID) ([]models.DoctorBooking, error) {
	return []models.DoctorBooking{}, nil
}
func (m *mockBookingService) Cancel(context.Context, primitive.ObjectID, string) (*models.DoctorBooking, error) {
	return nil, nil
}

type mockPostService struct {
	listFn func(ctx context.Context, page, limit int, sort string) (*models.PostPage, error)
	likeFn func(ctx context.Context, userID primitive.ObjectID, id string) (*models.LikeResponse, error)
}

var _ services.PostService = (*mockPostService)(nil)

func (m *mockPostService) List(ctx context.Context, page, limit int, sort string) (*models.PostPage, error) {
	return m.listFn(ctx, page, limit, sort)
}
func (m *mockPostService) Create(context.Context, primitive.ObjectID, *models.CreatePostRequest) (*models.Post, error) {
	return nil, nil
}
func (m *mockPostService) ToggleLike(ctx context.Context, userID primitive.ObjectID, id string) (*models.LikeResponse, error) {
	return m.likeFn(ctx, userID, id)
}
func (m *mockPostService) Comment(context.Context, primitive.ObjectID, string, string) (*models.Comment, error) {
	return nil, nil
}
func (m *mockPostService) ListMine(context.Context, primitive.ObjectID) ([]models.Post, error) {
	return []models.Post{}, nil
}
func (m *mockPostService) Delete(context.Context, primitive.ObjectID, string) error { return nil }
