package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tienda-backend/internal/cache"
	"tienda-backend/internal/config"
	"tienda-backend/internal/controller"
	"tienda-backend/internal/email"
	"tienda-backend/internal/mercadopago"
	"tienda-backend/internal/middleware"
	"tienda-backend/internal/rabbit"
	"tienda-backend/internal/repository"
	"tienda-backend/internal/service"
	"tienda-backend/internal/storage"
)

func main() {
	cfg := config.Load()

	// Conexión a MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal(err)
	}
	db := client.Database(cfg.MongoDBName)

	// Repositorios
	productRepo := repository.NewMongoProductRepository(db)
	categoryRepo := repository.NewMongoCategoryRepository(db)
	cartRepo := repository.NewMongoCartRepository(db)
	customerRepo := repository.NewMongoCustomerRepository(db)
	orderRepo := repository.NewMongoOrderRepository(db)

	imageStore, err := storage.NewImageStore(db)
	if err != nil {
		log.Fatal(err)
	}

	// Conexión a RabbitMQ
	conn, err := amqp091.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("Error conectando a RabbitMQ: %v", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("Error creando canal en RabbitMQ: %v", err)
	}

	publisher, err := rabbit.NewStatusPublisher(ch)
	if err != nil {
		log.Fatalf("Error declarando exchange: %v", err)
	}

	// Colaboradores externos
	gateway := mercadopago.NewClient(cfg.MPAccessToken, cfg.MPIntegratorID, cfg.MPWebhookSecret)
	sender := email.NewSender(cfg.ResendAPIKey, cfg.FromEmail)

	// Caché de listados y sesiones de checkout
	appCache := cache.New(5 * time.Minute)

	// Servicios
	catalogService := service.NewCatalogService(productRepo, categoryRepo, imageStore)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, customerRepo, publisher)
	checkoutService := service.NewCheckoutService(
		cartRepo, customerRepo, orderRepo, orderService, gateway,
		appCache, cfg.BaseURL, cfg.StoreName,
	)
	notificationService := service.NewNotificationService(orderRepo, customerRepo, sender)
	authService := service.NewAuthService(cfg.AuthURL)

	// Handlers
	catalogCtl := controller.NewCatalogController(catalogService, appCache)
	categoryCtl := controller.NewCategoryController(catalogService, appCache)
	cartCtl := controller.NewCartController(cartService)
	checkoutCtl := controller.NewCheckoutController(checkoutService)
	orderCtl := controller.NewOrderController(orderService)
	webhookCtl := controller.NewWebhookController(gateway, orderService)
	emailCtl := controller.NewEmailController(notificationService)
	imageCtl := controller.NewImageController(imageStore)

	// Router
	r := gin.Default()

	// Rutas públicas de la tienda
	v1 := r.Group("/v1")
	{
		v1.GET("/products", catalogCtl.ListProducts)
		v1.GET("/products/:id", catalogCtl.GetProduct)
		v1.GET("/products/slug/:slug", catalogCtl.GetProductBySlug)
		v1.GET("/brands", catalogCtl.ListBrands)
		v1.GET("/categories", categoryCtl.ListCategories)
		v1.GET("/categories/:slug", categoryCtl.GetCategoryBySlug)

		v1.POST("/carts", cartCtl.InitCart)
		v1.GET("/carts/:id", cartCtl.GetCart)
		v1.POST("/carts/:id/items", cartCtl.AddItem)
		v1.PATCH("/carts/:id/items/:productId", cartCtl.UpdateQuantity)
		v1.DELETE("/carts/:id/items/:productId", cartCtl.RemoveItem)
		v1.DELETE("/carts/:id/items", cartCtl.ClearCart)

		v1.GET("/checkout/:cartId", checkoutCtl.GetSession)
		v1.POST("/checkout/:cartId/customer", checkoutCtl.SubmitCustomerInfo)
		v1.POST("/checkout/:cartId/payment", checkoutCtl.HandlePaymentResult)
		v1.POST("/checkout/:cartId/reset", checkoutCtl.Reset)
	}

	r.GET("/images/*path", imageCtl.ServeImage)

	// Webhooks y rutas internas
	r.POST("/api/webhook/mercadopago", webhookCtl.HandleMercadoPago)
	r.POST("/api/email", emailCtl.SendOrderStatusEmail)

	// Rutas admin (requieren token)
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(authService))
	admin.Use(middleware.AdminOnly())

	admin.POST("/products", catalogCtl.CreateProduct)
	admin.PATCH("/products/:id", catalogCtl.UpdateProduct)
	admin.DELETE("/products/:id", catalogCtl.DeleteProduct)
	admin.POST("/products/:id/images", catalogCtl.UploadProductImages)

	admin.POST("/categories", categoryCtl.CreateCategory)
	admin.PATCH("/categories/:id", categoryCtl.UpdateCategory)
	admin.DELETE("/categories/:id", categoryCtl.DeleteCategory)

	admin.GET("/orders", orderCtl.ListOrders)
	admin.GET("/orders/:orderId", orderCtl.GetOrderDetail)
	admin.PATCH("/orders/:orderId/status", orderCtl.UpdateStatus)

	// Worker de emails
	rabbit.SetupConsumers(ch, notificationService)

	// Ejecutar servidor
	log.Printf("🚀 Tienda backend ejecutándose en puerto %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
