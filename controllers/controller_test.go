package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dogworld/backend/controllers"
	"github.com/dogworld/backend/middleware"
	"github.com/dogworld/backend/models"
	"github.com/dogworld/backend/pkg/apperrors"
	"github.com/dogworld/backend/pkg/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testUserID = primitive.NewObjectID()

// withIdentity stands in for AuthMiddleware.
func withIdentity(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserContextKey, testUserID.Hex())
		c.Set(middleware.RoleContextKey, role)
		c.Next()
	}
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func orderRouter(svc *mockOrderService) *gin.Engine {
	r := gin.New()
	oc := controllers.NewAccessoryOrderController(svc)
	r.Use(withIdentity(auth.RoleUser))
	r.POST("/orders", oc.Checkout)
	r.GET("/orders/:id", oc.GetOrder)
	r.PUT("/orders/:id/status", oc.UpdateStatus)
	r.GET("/seller/orders", oc.ListSellerOrders)
	return r
}

func TestCheckout_Created(t *testing.T) {
	var gotUser primitive.ObjectID
	svc := &mockOrderService{
		checkoutFn: func(_ context.Context, userID primitive.ObjectID, req *models.CheckoutRequest) (*models.AccessoryOrder, error) {
			gotUser = userID
			assert.Len(t, req.Products, 1)
			return &models.AccessoryOrder{OrderID: "ACC00001", TotalAmount: 200, Status: models.OrderStatusPending}, nil
		},
	}

	w := doJSON(orderRouter(svc), http.MethodPost, "/orders", gin.H{
		"products":      []gin.H{{"productId": "PROD0001", "quantity": 2}},
		"paymentMethod": "cod",
		"shippingAddress": gin.H{
			"street": "1 Main", "city": "Pune", "state": "MH", "pincode": "411001",
		},
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, testUserID, gotUser)
	resp := decode(t, w)
	order := resp["order"].(map[string]any)
	assert.Equal(t, "ACC00001", order["orderId"])
	assert.Equal(t, 200.0, order["totalAmount"])
	assert.Equal(t, "pending", order["status"])
}

func TestCheckout_MalformedBody(t *testing.T) {
	r := orderRouter(&mockOrderService{})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckout_ServiceErrorsMapToStatus(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", apperrors.Validation("Quantity must be at least 1"), http.StatusBadRequest, "Quantity must be at least 1"},
		{"not found", apperrors.NotFound("Product PROD9999 not found"), http.StatusNotFound, "Product PROD9999 not found"},
		{"stock", apperrors.InsufficientStock("Insufficient stock for Leash"), http.StatusConflict, "Insufficient stock for Leash"},
		{"internal hides cause", errors.New("mongo: connection refused"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockOrderService{
				checkoutFn: func(context.Context, primitive.ObjectID, *models.CheckoutRequest) (*models.AccessoryOrder, error) {
					return nil, tt.err
				},
			}
			w := doJSON(orderRouter(svc), http.MethodPost, "/orders", gin.H{"products": []gin.H{}})
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, decode(t, w)["error"])
			assert.NotContains(t, w.Body.String(), "connection refused")
		})
	}
}

func TestUpdateOrderStatus_PassesPathAndBody(t *testing.T) {
	svc := &mockOrderService{
		updateStatusFn: func(_ context.Context, sellerID primitive.ObjectID, id, status string) (*models.AccessoryOrder, error) {
			assert.Equal(t, testUserID, sellerID)
			assert.Equal(t, "ACC00007", id)
			if status != "shipped" {
				return nil, apperrors.Validation("Invalid status transition")
			}
			return &models.AccessoryOrder{OrderID: id, Status: models.OrderStatusShipped}, nil
		},
	}
	r := orderRouter(svc)

	w := doJSON(r, http.MethodPut, "/orders/ACC00007/status", gin.H{"status": "shipped"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "shipped", decode(t, w)["status"])

	w = doJSON(r, http.MethodPut, "/orders/ACC00007/status", gin.H{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOrder_NotFound(t *testing.T) {
	svc := &mockOrderService{
		getFn: func(context.Context, primitive.ObjectID, string) (*models.AccessoryOrder, error) {
			return nil, apperrors.NotFound("Order not found")
		},
	}
	w := doJSON(orderRouter(svc), http.MethodGet, "/orders/ACC00001", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListSellerOrders(t *testing.T) {
	svc := &mockOrderService{
		listSellerFn: func(context.Context, primitive.ObjectID) ([]models.SellerOrderView, error) {
			return []models.SellerOrderView{{OrderID: "ACC00001", Subtotal: 40.28}}, nil
		},
	}
	w := doJSON(orderRouter(svc), http.MethodGet, "/seller/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var views []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, 40.28, views[0]["totalAmount"])
}

func TestMissingIdentityIsUnauthorized(t *testing.T) {
	r := gin.New()
	oc := controllers.NewAccessoryOrderController(&mockOrderService{})
	r.POST("/orders", oc.Checkout)

	w := doJSON(r, http.MethodPost, "/orders", gin.H{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListProducts_ParsesFilter(t *testing.T) {
	var got models.ProductFilter
	svc := &mockProductService{
		listFn: func(_ context.Context, filter models.ProductFilter) ([]models.Product, error) {
			got = filter
			return []models.Product{}, nil
		},
	}
	r := gin.New()
	pc := controllers.NewProductController(svc)
	r.GET("/products", pc.ListProducts)

	w := doJSON(r, http.MethodGet, "/products?category=toys&search=ball&minPrice=10&maxPrice=99.5&sort=price-low", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "toys", got.Category)
	assert.Equal(t, "ball", got.Search)
	require.NotNil(t, got.MinPrice)
	require.NotNil(t, got.MaxPrice)
	assert.Equal(t, 10.0, *got.MinPrice)
	assert.Equal(t, 99.5, *got.MaxPrice)

	w = doJSON(r, http.MethodGet, "/products?minPrice=cheap", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAndDeleteProduct(t *testing.T) {
	svc := &mockProductService{
		createFn: func(_ context.Context, sellerID primitive.ObjectID, req *models.CreateProductRequest) (*models.Product, error) {
			return &models.Product{ProductID: "PROD0001", Name: req.Name, SellerID: sellerID}, nil
		},
		deleteFn: func(context.Context, primitive.ObjectID, string) error {
			return apperrors.Forbidden("You can only delete your own products")
		},
	}
	r := gin.New()
	pc := controllers.NewProductController(svc)
	r.Use(withIdentity(auth.RoleSeller))
	r.POST("/products", pc.CreateProduct)
	r.DELETE("/products/:id", pc.DeleteProduct)

	w := doJSON(r, http.MethodPost, "/products", gin.H{"name": "Chew Toy"})
	require.Equal(t, http.StatusCreated, w.Code)
	product := decode(t, w)["product"].(map[string]any)
	assert.Equal(t, "PROD0001", product["productId"])

	w = doJSON(r, http.MethodDelete, "/products/abc", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthController_RoleIsBoundPerRoute(t *testing.T) {
	var roles []string
	svc := &mockAuthService{
		registerFn: func(_ context.Context, role string, _ *models.RegisterRequest) (*models.AuthResponse, error) {
			roles = append(roles, role)
			return &models.AuthResponse{Success: true, Token: "t", UserType: role}, nil
		},
		loginFn: func(context.Context, string, *models.LoginRequest) (*models.AuthResponse, error) {
			return nil, apperrors.Unauthorized("Invalid email or password")
		},
		refreshFn: func(_ context.Context, token string) (*models.AuthResponse, error) {
			assert.Equal(t, "r1", token)
			return &models.AuthResponse{Success: true, Token: "t2"}, nil
		},
	}
	r := gin.New()
	ac := controllers.NewAuthController(svc)
	r.POST("/auth/user/register", ac.Register(auth.RoleUser))
	r.POST("/auth/seller/register", ac.Register(auth.RoleSeller))
	r.POST("/auth/user/login", ac.Login(auth.RoleUser))
	r.POST("/auth/refresh", ac.Refresh)

	assert.Equal(t, http.StatusCreated, doJSON(r, http.MethodPost, "/auth/user/register", gin.H{"name": "A"}).Code)
	assert.Equal(t, http.StatusCreated, doJSON(r, http.MethodPost, "/auth/seller/register", gin.H{"name": "B"}).Code)
	assert.Equal(t, []string{auth.RoleUser, auth.RoleSeller}, roles)

	w := doJSON(r, http.MethodPost, "/auth/user/login", gin.H{"email": "a@b.com", "password": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", decode(t, w)["error"])

	w = doJSON(r, http.MethodPost, "/auth/refresh", gin.H{"refreshToken": "r1"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "t2", decode(t, w)["token"])
}

func TestAvailableSlots_RequiresDate(t *testing.T) {
	svc := &mockBookingService{
		slotsFn: func(_ context.Context, date string) (*models.AvailableSlotsResponse, error) {
			return &models.AvailableSlotsResponse{Date: date, AvailableSlots: []string{"09:00 AM"}}, nil
		},
	}
	r := gin.New()
	bc := controllers.NewBookingController(svc)
	r.GET("/slots", bc.AvailableSlots)
	r.GET("/doctors", bc.Doctors)

	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/slots", nil).Code)

	w := doJSON(r, http.MethodGet, "/slots?date=2030-01-02", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2030-01-02", decode(t, w)["date"])

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/doctors", nil).Code)
}

func TestBook_Conflict(t *testing.T) {
	svc := &mockBookingService{
		bookFn: func(context.Context, primitive.ObjectID, *models.CreateBookingRequest) (*models.DoctorBooking, error) {
			return nil, apperrors.Conflict("This time slot is already booked")
		},
	}
	r := gin.New()
	bc := controllers.NewBookingController(svc)
	r.Use(withIdentity(auth.RoleUser))
	r.POST("/book", bc.Book)

	w := doJSON(r, http.MethodPost, "/book", gin.H{"appointmentDate": "2030-01-02", "appointmentTime": "09:00 AM"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListPosts_Pagination(t *testing.T) {
	var gotPage, gotLimit int
	svc := &mockPostService{
		listFn: func(_ context.Context, page, limit int, _ string) (*models.PostPage, error) {
			gotPage, gotLimit = page, limit
			return &models.PostPage{Posts: []models.Post{}}, nil
		},
	}
	r := gin.New()
	pc := controllers.NewPostController(svc)
	r.GET("/posts", pc.ListPosts)

	tests := []struct {
		query       string
		page, limit int
	}{
		{"", 1, 10},
		{"?page=3&limit=5", 3, 5},
		{"?page=-1&limit=abc", 1, 10},
		{"?limit=500", 1, 50},
	}
	for _, tt := range tests {
		w := doJSON(r, http.MethodGet, "/posts"+tt.query, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, tt.page, gotPage, tt.query)
		assert.Equal(t, tt.limit, gotLimit, tt.query)
	}
}

func TestToggleLike(t *testing.T) {
	svc := &mockPostService{
		likeFn: func(_ context.Context, _ primitive.ObjectID, id string) (*models.LikeResponse, error) {
			if id == "missing" {
				return nil, apperrors.NotFound("Post not found")
			}
			return &models.LikeResponse{Liked: true, LikesCount: 1}, nil
		},
	}
	r := gin.New()
	pc := controllers.NewPostController(svc)
	r.Use(withIdentity(auth.RoleUser))
	r.POST("/posts/:id/like", pc.ToggleLike)

	w := doJSON(r, http.MethodPost, "/posts/p1/like", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["liked"])

	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodPost, "/posts/missing/like", nil).Code)
}
