package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"ms-storefront/internal/auth"
	"ms-storefront/internal/cart/cart_api"
	cartdb "ms-storefront/internal/cart/db"
	cart "ms-storefront/internal/cart/service"
	"ms-storefront/internal/catalog/catalog_api"
	catalogdb "ms-storefront/internal/catalog/db"
	catalog "ms-storefront/internal/catalog/service"
	"ms-storefront/internal/config"
	"ms-storefront/internal/health"
	"ms-storefront/internal/kafka"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/order"
	orderdb "ms-storefront/internal/order/db"
	"ms-storefront/internal/order/order_api"
	rediswrap "ms-storefront/internal/order/redis"
	resaledb "ms-storefront/internal/resale/db"
	"ms-storefront/internal/resale/resale_api"
	resale "ms-storefront/internal/resale/service"
	ticketdb "ms-storefront/internal/tickets/db"
	qr "ms-storefront/internal/tickets/qr_generator"
	tickets "ms-storefront/internal/tickets/service"
	"ms-storefront/internal/tickets/ticket_api"
	"ms-storefront/internal/utils"
)

// Dependencies are the process-wide resources the router is built from.
// Redis, Events and Verifier are optional.
type Dependencies struct {
	DB       *bun.DB
	Redis    *redis.Client
	Events   *kafka.Events
	Verifier auth.Verifier
	Logger   *logger.Logger
	Config   *config.Config
}

func NewRouter(deps Dependencies) http.Handler {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{}
	}

	var (
		lock         order.CartLocker
		orderEvents  order.EventPublisher
		resaleEvents resale.EventPublisher
	)
	if deps.Redis != nil {
		lock = rediswrap.NewRedis(deps.Redis, cfg.Redis.CartLockTTL, log)
	}
	if deps.Events != nil {
		orderEvents = deps.Events
		resaleEvents = deps.Events
	}

	orderService := order.NewOrderService(orderdb.New(deps.DB), lock, orderEvents, log, order.Options{
		TotalFromIssued: cfg.Checkout.TotalFromIssued,
	})
	cartService := cart.NewCartService(cartdb.New(deps.DB), log)
	resaleService := resale.NewResaleService(resaledb.New(deps.DB), resaleEvents, log)
	ticketService := tickets.NewTicketService(ticketdb.New(deps.DB), qr.NewQRGenerator(cfg.QR.SecretKey, cfg.QR.Size), log)
	catalogService := catalog.NewCatalogService(catalogdb.New(deps.DB), log)

	orderHandler := order_api.NewHandler(orderService, log)
	cartHandler := cart_api.NewHandler(cartService, log)
	resaleHandler := resale_api.NewHandler(resaleService, log)
	ticketHandler := ticket_api.NewHandler(ticketService, log)
	catalogHandler := catalog_api.NewHandler(catalogService, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(utils.RequestLogger(log))

	r.Method(http.MethodGet, "/health", health.NewHandler(deps.DB, deps.Redis, log))

	r.Route("/api", func(r chi.Router) {
		orderHandler.Routes(r)
		cartHandler.Routes(r)
		resaleHandler.Routes(r)
		catalogHandler.Routes(r)
		ticketHandler.Routes(r)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(deps.Verifier, log))
			catalogHandler.WriteRoutes(r)
			ticketHandler.WriteRoutes(r)
		})
	})

	return otelhttp.NewHandler(r, "storefront",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
