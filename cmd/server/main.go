package main

import (
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"pokerarena-server/internal/config"
	"pokerarena-server/internal/mux"
	"pokerarena-server/pkg/db"
	"pokerarena-server/pkg/ledger"
	"pokerarena-server/pkg/room"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", ":5000", "the listen address")

func main() {
	flag.Parse()
	setupLogger()

	cfg := config.Instance()

	recorder := newRecorder(cfg)
	defer recorder.Close()

	pitBoss := room.NewPitBoss(cfg.TableOptions(), cfg.TurnTimeout(), recorder)
	pitBoss.StartShift()

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "Authorization"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	})

	srv := &http.Server{
		Addr:         *addr,
		Handler:      loggingHandler(c.Handler(mux.NewMux(Version, pitBoss))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	logrus.WithField("addr", srv.Addr).Info("listening")
	logrus.Fatal(srv.ListenAndServe())
}

// newRecorder returns the hand-event recorder. Without a database the table
// still runs; hands just are not persisted.
func newRecorder(cfg config.Config) ledger.Recorder {
	if cfg.DisableLedger {
		logrus.Info("ledger disabled")
		return ledger.NopRecorder{}
	}

	if cfg.PGDSN != "" {
		_ = os.Setenv("PG_DSN", cfg.PGDSN)
	}

	if cfg.MigrationsPath != "" {
		_ = os.Setenv("MIGRATIONS_PATH", cfg.MigrationsPath)
	}

	// run the db migrations
	db.Migrate()

	return ledger.NewPostgresRecorder(db.Instance())
}

func loggingHandler(next http.Handler) http.Handler {
	if config.Instance().Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
