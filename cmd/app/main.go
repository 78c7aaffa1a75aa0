package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avolkov/flightbooking/api"
	"github.com/avolkov/flightbooking/config"
	"github.com/avolkov/flightbooking/internal/bootstrap"
	"github.com/avolkov/flightbooking/internal/cache"
	"github.com/avolkov/flightbooking/internal/clock"
	"github.com/avolkov/flightbooking/internal/kafka"
	"github.com/avolkov/flightbooking/internal/repository"
	"github.com/avolkov/flightbooking/internal/service/booking"
	"github.com/avolkov/flightbooking/internal/service/flights"
	"github.com/avolkov/flightbooking/internal/service/payment"
	"github.com/avolkov/flightbooking/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := migrations.Apply(ctx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FlightsCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	txManager := repository.NewTxManager(pool)
	flightRepo := repository.NewFlightRepository(pool)
	seatRepo := repository.NewSeatRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	airlineRepo := repository.NewAirlineRepository(pool)

	flightService := flights.NewFlightService(txManager, flightRepo, seatRepo, redisCache)
	bookingService := booking.NewBookingService(
		txManager,
		bookingRepo,
		flightRepo,
		seatRepo,
		userRepo,
		clock.NewSystem(),
		booking.WithCache(redisCache),
		booking.WithProducer(producer, cfg.Kafka.BookingEventsTopic),
	)
	paymentService := payment.NewPaymentService(paymentRepo, bookingRepo)

	err = bootstrap.Run(ctx, cfg,
		api.NewFlightHandler(flightService),
		api.NewBookingHandler(bookingService),
		api.NewPaymentHandler(paymentService),
		api.NewUserHandler(userRepo),
		api.NewAirlineHandler(airlineRepo),
	)
	if err != nil {
		log.Fatalf("server error: %v", err)
	}
}
