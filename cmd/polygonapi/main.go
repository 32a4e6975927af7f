// Command polygonapi runs the polygon store REST API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zone-marker/internal/server"
	"zone-marker/internal/store"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	defaultAddr   = ":5000"
	defaultDBPath = "polygons.db"
)

func main() {
	_ = godotenv.Load()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if os.Getenv("POLYGON_API_DEBUG") != "" {
		logrus.SetLevel(logrus.DebugLevel)
	}

	addr := os.Getenv("POLYGON_API_ADDR")
	if addr == "" {
		addr = defaultAddr
	}
	dbPath := os.Getenv("POLYGON_DB_PATH")
	if dbPath == "" {
		dbPath = defaultDBPath
	}

	st, err := store.NewSQLite(dbPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open polygon store")
	}
	defer st.Close()

	srv := &http.Server{
		Addr:    addr,
		Handler: server.New(st).Router(),
	}

	go func() {
		logrus.WithFields(logrus.Fields{"addr": addr, "db": dbPath}).Info("polygon API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logrus.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("shutdown failed")
	}
}
