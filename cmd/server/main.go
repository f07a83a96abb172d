package main

import (
	"cab-booking-service/internal/adapters/notify"
	"cab-booking-service/internal/adapters/store"
	"cab-booking-service/internal/api"
	"cab-booking-service/internal/config"
	"cab-booking-service/internal/platform/db"
	"cab-booking-service/internal/ports"
	"cab-booking-service/internal/services"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// main is the application composition root.
// It wires concrete adapters (record store, notification sink) behind ports
// and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	if err := seed(ctx, st, cfg.SeedPath); err != nil {
		log.Fatal(err)
	}

	sink, closeSink, err := openSink(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeSink()

	locks := services.NewVehicleLocks()
	fleet := store.NewFleetRepository(st)
	planner := services.NewTripPlanner(store.NewEdgeRepository(st), fleet)
	dispatcher := services.NewNotificationDispatcher(sink, cfg.NotifyQueueSize)
	lifecycle := services.NewBookingLifecycle(st, planner, locks, dispatcher)
	dispatcher.OnDelivered(lifecycle.MarkNotified)
	dispatcher.Start(context.WithoutCancel(ctx))
	defer dispatcher.Close()

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.Deps{
		Planner:     planner,
		Lifecycle:   lifecycle,
		Routes:      services.NewRouteService(st),
		Fleet:       services.NewFleetService(st, fleet, locks),
		Bookings:    store.NewBookingRepository(st),
		AdminSecret: cfg.AdminJWTSecret,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("Server listening addr=:%s store=%s notify=%s", cfg.Port, cfg.StoreDriver, cfg.NotifyDriver)
	if err := serve(ctx, srv, ln, 10*time.Second); err != nil {
		log.Fatal(err)
	}
	log.Printf("Server stopped")
}

// serve runs srv on ln until ctx is done, then shuts it down. It returns only
// after in-flight handlers finished or grace ran out, so the deferred closes
// in main never run under a live request.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, grace time.Duration) error {
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown failed: %v", err)
		}
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-shutdownDone
	return nil
}

func openStore(ctx context.Context, cfg config.Config) (ports.Store, func(), error) {
	var (
		conn    *sql.DB
		dialect store.Dialect
		err     error
	)

	switch cfg.StoreDriver {
	case "memory":
		return store.NewMemoryStore(), func() {}, nil
	case "postgres":
		conn, err = db.Open(cfg.DatabaseURL)
		dialect = store.PostgresDialect
	default:
		conn, err = db.OpenSQLite(cfg.DBPath)
		dialect = store.SQLiteDialect
	}
	if err != nil {
		return nil, nil, err
	}

	if err := store.InitSchema(ctx, conn, dialect); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return store.NewSQLStore(conn, dialect), func() { _ = conn.Close() }, nil
}

// seed loads the seed file, or the built-in network and fleet when the file
// does not exist.
func seed(ctx context.Context, st ports.Store, path string) error {
	s, err := store.LoadSeed(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("seed file %q not found, using built-in defaults", path)
		s = defaultSeed()
	} else if err != nil {
		return err
	}

	routes, cabs, err := s.Apply(ctx, st)
	if err != nil {
		return err
	}
	log.Printf("Seed applied routes=%d cabs=%d", routes, cabs)
	return nil
}

func defaultSeed() store.Seed {
	s := store.Seed{}
	for _, e := range services.DefaultRoutes {
		s.Routes = append(s.Routes, store.RouteSeed{From: e.From.String(), To: e.To.String(), DurationMinutes: e.DurationMinutes})
	}
	for _, v := range services.DefaultVehicles {
		s.Cabs = append(s.Cabs, store.CabSeed{ID: v.ID, Name: v.Name, RatePerMinute: v.RatePerMinute})
	}
	return s
}

func openSink(ctx context.Context, cfg config.Config) (ports.NotificationSink, func(), error) {
	switch cfg.NotifyDriver {
	case "amqp":
		sink, err := notify.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return nil, nil, err
		}
		return sink, closer(sink), nil
	case "redis":
		client, err := notify.DialRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return notify.NewRedisStreamSink(client, cfg.RedisStream), closer(client), nil
	default:
		return notify.LogSink{}, func() {}, nil
	}
}

func closer(c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			log.Printf("close failed: %v", err)
		}
	}
}
