package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/cinetix/checkout-service/internal/checkout"
	"github.com/cinetix/checkout-service/internal/config"
	"github.com/cinetix/checkout-service/internal/handler"
	"github.com/cinetix/checkout-service/internal/inventory"
	"github.com/cinetix/checkout-service/internal/payment"
	"github.com/cinetix/checkout-service/internal/router"
)

func main() {
	// Load .env when present; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	cfg := config.Load()
	rlCfg := config.LoadRateLimitConfig()

	// Redis is optional: without it the rate limiter passes requests
	// through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting disabled")
	}

	store := checkout.NewStore(nil)
	inv := inventory.NewClient(cfg.InventoryBaseURL, cfg.InventoryTimeout)
	pay := payment.NewClient(cfg.PaymentBaseURL, cfg.PaymentTimeout)
	h := handler.NewCheckoutHandler(store, inv, pay)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterCheckout(e, h, cfg.JWTSecret, rlCfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
