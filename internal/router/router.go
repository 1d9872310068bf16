package router

import (
	"time"

	"tiendapos/internal/config"
	"tiendapos/internal/handler"
	"tiendapos/internal/infra"
	"tiendapos/internal/middleware"
	"tiendapos/internal/repository"
	"tiendapos/internal/service"
	"tiendapos/internal/worker"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// New wires all dependencies and returns the configured Gin engine plus
// the dispatcher handlers for the worker pool.
// Dependency graph: Handler ← Service ← Repository ← DB
func New(cfg *config.Config, db *gorm.DB) (*gin.Engine, *worker.Dispatcher, worker.Handlers) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	var mailer *infra.Mailer
	if cfg.SMTPHost != "" {
		mailer = infra.NewMailer(cfg)
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	productRepo := repository.NewProductRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	sessionSvc := service.NewSessionService(sessionRepo)
	authSvc := service.NewAuthService(userRepo, sessionSvc, cfg)
	catalogSvc := service.NewCatalogService(productRepo, supplierRepo)
	supplierSvc := service.NewSupplierService(supplierRepo)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(cfg.JobQueueSize)
	handlers := worker.Handlers{
		Sessions: sessionSvc,
		Bonuses:  userRepo,
		Receipts: worker.NewReceiptWorker(mailer, cfg.PDFStoragePath),
	}

	saleSvc := service.NewSaleService(saleRepo, productRepo, branchRepo, userRepo, dispatcher)
	purchaseSvc := service.NewPurchaseService(purchaseRepo, productRepo, branchRepo, userRepo, catalogSvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	purchasesH := handler.NewPurchasesHandler(purchaseSvc)
	productsH := handler.NewProductsHandler(catalogSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	sessionsH := handler.NewSessionsHandler(sessionSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, dispatcher))

	// Auth
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.POST("/auth/logout", authH.Logout)

		// Roles: cashier, supervisor, admin — declared per-endpoint
		v1.POST("/sales", middleware.RequireRole("cashier", "supervisor", "admin"), salesH.CreateSale)
		v1.GET("/sales", middleware.RequireRole("cashier", "supervisor", "admin"), salesH.ListSales)
		v1.GET("/sales/:id", middleware.RequireRole("cashier", "supervisor", "admin"), salesH.GetSale)

		// Catalog reads are open to every role (POS needs them to sell)
		v1.GET("/products", middleware.RequireRole("cashier", "supervisor", "admin"), productsH.ListProducts)
		v1.GET("/products/:id", middleware.RequireRole("cashier", "supervisor", "admin"), productsH.GetProduct)
		// Catalog writes — supervisor or admin
		prods := v1.Group("/products", middleware.RequireRole("supervisor", "admin"))
		{
			prods.POST("", productsH.CreateProduct)
			prods.PUT("/:id", productsH.UpdateProduct)
			prods.DELETE("/:id", productsH.DeactivateProduct)
			prods.POST("/:id/presentations", productsH.AddPresentation)
			prods.PUT("/:id/presentations/:presentation_id", productsH.UpdatePresentation)
			prods.DELETE("/:id/presentations/:presentation_id", productsH.RemovePresentation)
		}

		purchases := v1.Group("/purchases", middleware.RequireRole("supervisor", "admin"))
		{
			purchases.POST("", purchasesH.CreatePurchase)
			purchases.GET("", purchasesH.ListPurchases)
			purchases.GET("/:id", purchasesH.GetPurchase)
			purchases.POST("/:id/approve", purchasesH.ApprovePurchase)
			purchases.POST("/:id/receive", purchasesH.ReceivePurchase)
			purchases.POST("/:id/cancel", purchasesH.CancelPurchase)
		}

		suppliers := v1.Group("/suppliers", middleware.RequireRole("supervisor", "admin"))
		{
			suppliers.POST("", suppliersH.CreateSupplier)
			suppliers.GET("", suppliersH.ListSuppliers)
			suppliers.PUT("/:id", suppliersH.UpdateSupplier)
			suppliers.DELETE("/:id", suppliersH.DeactivateSupplier)
		}

		sessions := v1.Group("/sessions", middleware.RequireRole("cashier", "supervisor", "admin"))
		{
			sessions.POST("/:branch_id/start", sessionsH.StartSession)
			sessions.GET("/:branch_id/current", sessionsH.CurrentSession)
			sessions.POST("/close", sessionsH.CloseSession)
		}
	}

	return r, dispatcher, handlers
}
