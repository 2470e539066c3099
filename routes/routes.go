package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/dogworld/backend/controllers"
	"github.com/dogworld/backend/database"
	"github.com/dogworld/backend/middleware"
	"github.com/dogworld/backend/pkg/auth"
	"github.com/dogworld/backend/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// Controllers groups every HTTP controller the router mounts.
type Controllers struct {
	Auth            *controllers.AuthController
	Dogs            *controllers.DogController
	Adoptions       *controllers.AdoptionController
	Products        *controllers.ProductController
	AccessoryOrders *controllers.AccessoryOrderController
	Bookings        *controllers.BookingController
	Posts           *controllers.PostController
	Health          *controllers.HealthController
	Uploads         *controllers.UploadController
	WS              *controllers.WSController
}

// Register mounts the whole API on r.
func Register(r *gin.Engine, c Controllers, tokens middleware.TokenValidator, uploadDir string) {
	RegisterSystemRoutes(r, uploadDir)
	RegisterAuthRoutes(r, c.Auth)

	api := r.Group("/api")
	requireAuth := middleware.AuthMiddleware(tokens)
	RegisterDogRoutes(api, c.Dogs, requireAuth)
	RegisterAdoptionRoutes(api, c.Adoptions, requireAuth)
	RegisterProductRoutes(api, c.Products, requireAuth)
	RegisterAccessoryOrderRoutes(api, c.AccessoryOrders, requireAuth)
	RegisterBookingRoutes(api, c.Bookings, requireAuth)
	RegisterPostRoutes(api, c.Posts, requireAuth)
	RegisterHealthRoutes(api, c.Health, requireAuth)
	RegisterUploadRoutes(api, c.Uploads, requireAuth)

	r.GET("/ws", c.WS.Connect)

	r.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})
}

// RegisterSystemRoutes mounts liveness, Prometheus and local upload serving.
func RegisterSystemRoutes(r *gin.Engine, uploadDir string) {
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "connected"
		if err := database.Ping(ctx); err != nil {
			dbStatus = "disconnected"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"service":   "dogworld-backend",
			"database":  dbStatus,
			"timestamp": time.Now().UTC(),
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if uploadDir != "" {
		r.Static("/uploads", uploadDir)
	}
}

func RegisterAuthRoutes(r *gin.Engine, ac *controllers.AuthController) {
	authRoutes := r.Group("/auth")
	authRoutes.POST("/user/register", ac.Register(auth.RoleUser))
	authRoutes.POST("/user/login", ac.Login(auth.RoleUser))
	authRoutes.POST("/seller/register", ac.Register(auth.RoleSeller))
	authRoutes.POST("/seller/login", ac.Login(auth.RoleSeller))
	authRoutes.POST("/refresh", ac.Refresh)
}

func RegisterDogRoutes(api *gin.RouterGroup, dc *controllers.DogController, requireAuth gin.HandlerFunc) {
	dogs := api.Group("/dogs")
	dogs.GET("", dc.ListDogs)
	dogs.GET("/seller/mine", requireAuth, middleware.RequireRole(auth.RoleSeller), dc.ListSellerDogs)
	dogs.GET("/:id", dc.GetDog)
	dogs.POST("", requireAuth, middleware.RequireRole(auth.RoleSeller), dc.CreateDog)
}

func RegisterAdoptionRoutes(api *gin.RouterGroup, ac *controllers.AdoptionController, requireAuth gin.HandlerFunc) {
	adoptions := api.Group("/adoptions", requireAuth)
	adoptions.POST("", middleware.RequireRole(auth.RoleUser), ac.CreateAdoption)
	adoptions.GET("/mine", middleware.RequireRole(auth.RoleUser), ac.ListMine)
	adoptions.GET("/seller", middleware.RequireRole(auth.RoleSeller), ac.ListSeller)
	adoptions.PUT("/:id/status", middleware.RequireRole(auth.RoleSeller), ac.UpdateStatus)
}

func RegisterProductRoutes(api *gin.RouterGroup, pc *controllers.ProductController, requireAuth gin.HandlerFunc) {
	products := api.Group("/products")
	products.GET("", pc.ListProducts)
	products.GET("/categories", pc.Categories)
	products.GET("/:id", pc.GetProduct)

	seller := products.Group("", requireAuth, middleware.RequireRole(auth.RoleSeller))
	seller.GET("/seller/mine", pc.ListSellerProducts)
	seller.POST("", pc.CreateProduct)
	seller.PUT("/:id", pc.UpdateProduct)
	seller.DELETE("/:id", pc.DeleteProduct)
}

func RegisterAccessoryOrderRoutes(api *gin.RouterGroup, oc *controllers.AccessoryOrderController, requireAuth gin.HandlerFunc) {
	orders := api.Group("/accessory-orders", requireAuth)
	orders.POST("", middleware.RequireRole(auth.RoleUser), oc.Checkout)
	orders.GET("/user/orders", middleware.RequireRole(auth.RoleUser), oc.ListUserOrders)
	orders.GET("/seller/orders", middleware.RequireRole(auth.RoleSeller), oc.ListSellerOrders)
	orders.GET("/:id", middleware.RequireRole(auth.RoleUser), oc.GetOrder)
	orders.PUT("/:id/status", middleware.RequireRole(auth.RoleSeller), oc.UpdateStatus)
	orders.PUT("/:id/payment", middleware.RequireRole(auth.RoleSeller), oc.UpdatePayment)
}

func RegisterBookingRoutes(api *gin.RouterGroup, bc *controllers.BookingController, requireAuth gin.HandlerFunc) {
	doctors := api.Group("/doctors")
	doctors.GET("/doctors", bc.Doctors)
	doctors.GET("/available-slots", bc.AvailableSlots)

	booked := doctors.Group("", requireAuth)
	booked.POST("/book", bc.Book)
	booked.GET("/my-appointments", bc.MyAppointments)
	booked.PUT("/:id/cancel", bc.Cancel)
}

func RegisterPostRoutes(api *gin.RouterGroup, pc *controllers.PostController, requireAuth gin.HandlerFunc) {
	posts := api.Group("/posts")
	posts.GET("", pc.ListPosts)

	authed := posts.Group("", requireAuth)
	authed.POST("", pc.CreatePost)
	authed.GET("/my-posts", pc.ListMine)
	authed.POST("/:id/like", pc.ToggleLike)
	authed.POST("/:id/comment", pc.Comment)
	authed.DELETE("/:id", pc.DeletePost)
}

func RegisterHealthRoutes(api *gin.RouterGroup, hc *controllers.HealthController, requireAuth gin.HandlerFunc) {
	health := api.Group("/health", requireAuth)
	health.GET("", hc.ListRecords)
	health.POST("", hc.CreateRecord)
	health.GET("/upcoming-vaccinations", hc.UpcomingVaccinations)
	health.PUT("/:id", hc.UpdateRecord)
	health.POST("/:id/vaccinations", hc.AddVaccination)
	health.POST("/:id/vet-visits", hc.AddVetVisit)
}

func RegisterUploadRoutes(api *gin.RouterGroup, uc *controllers.UploadController, requireAuth gin.HandlerFunc) {
	uploads := api.Group("/uploads", requireAuth)
	uploads.POST("/presign", uc.Presign)
}
