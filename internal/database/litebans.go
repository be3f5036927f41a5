package database

import (
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"github.com/bytemc-uz/bytemc-backend/internal/config"
)

// LitebansDB is the pooled connection to the punishment plugin's database.
// Nil when the service runs in file-fallback mode.
var LitebansDB *sqlx.DB

// ConnectLitebans opens the LiteBans pool and verifies the connection.
func ConnectLitebans(cfg *config.Config) error {
	driver, dsn, err := litebansDSN(cfg)
	if err != nil {
		return err
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return err
	}

	// The schema is externally owned; keep our footprint small.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return err
	}

	LitebansDB = db
	log.Printf("LiteBans DB mode enabled: %s@%s:%d/%s (driver=%s, ssl=%v)",
		cfg.LitebansUser, cfg.LitebansHost, cfg.LitebansPort, cfg.LitebansName, driver, cfg.LitebansSSL)
	return nil
}

func litebansDSN(cfg *config.Config) (driver, dsn string, err error) {
	switch cfg.LitebansDriver {
	case "mysql", "mariadb", "":
		tls := "false"
		if cfg.LitebansSSL {
			tls = "skip-verify"
		}
		return "mysql", fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?tls=%s",
			cfg.LitebansUser, cfg.LitebansPass, cfg.LitebansHost, cfg.LitebansPort, cfg.LitebansName, tls), nil
	case "postgres", "postgresql":
		sslmode := "disable"
		if cfg.LitebansSSL {
			sslmode = "require"
		}
		return "postgres", fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.LitebansHost, cfg.LitebansPort, cfg.LitebansUser, cfg.LitebansPass, cfg.LitebansName, sslmode), nil
	default:
		return "", "", fmt.Errorf("unsupported LITEBANS_DB_DRIVER %q (mysql or postgres)", cfg.LitebansDriver)
	}
}

// DisconnectLitebans closes the LiteBans pool.
func DisconnectLitebans() error {
	if LitebansDB != nil {
		return LitebansDB.Close()
	}
	return nil
}
