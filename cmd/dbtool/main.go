package main

import (
	"cab-booking-service/internal/adapters/store"
	"cab-booking-service/internal/config"
	"cab-booking-service/internal/platform/db"
	"context"
	"database/sql"
	"flag"
	"log"
	"strings"

	"github.com/joho/godotenv"
)

// dbtool initializes the record tables and seeds the default network and
// fleet into Postgres (default) or SQLite.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	driver := flag.String("driver", config.Get("STORE_DRIVER", "postgres"), "postgres or sqlite")
	flag.Parse()

	conn, dialect, err := open(*driver)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/default.json")
	if err := initAndSeed(context.Background(), conn, dialect, seedPath); err != nil {
		log.Fatal(err)
	}
}

func open(driver string) (*sql.DB, store.Dialect, error) {
	dialect, err := store.DialectFor(strings.ToLower(driver))
	if err != nil {
		return nil, store.Dialect{}, err
	}

	if dialect.Name == store.SQLiteDialect.Name {
		conn, err := db.OpenSQLite(config.Get("DB_PATH", "data/app.db"))
		return conn, dialect, err
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	conn, err := db.Open(databaseURL)
	return conn, dialect, err
}

func initAndSeed(ctx context.Context, conn *sql.DB, dialect store.Dialect, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := store.InitSchema(ctx, conn, dialect); err != nil {
		return err
	}
	log.Println("Schema ready.")

	log.Println("Seeding database...")
	routes, cabs, err := store.SeedFromJSON(ctx, store.NewSQLStore(conn, dialect), seedPath)
	if err != nil {
		return err
	}
	log.Printf("Seeding complete. routes=%d cabs=%d", routes, cabs)

	return nil
}
