// Package main provides the entry point for the Zone Marker application.
package main

import (
	"context"
	"log"
	"os"

	"zone-marker/internal/api"
	"zone-marker/internal/app"
	"zone-marker/internal/session"
	syncctl "zone-marker/internal/sync"
	"zone-marker/ui/mainwindow"
	"zone-marker/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

const (
	appTitle       = "Zone Marker"
	defaultBaseURL = "http://localhost:5000"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s", appTitle)

	fyneApp := fyneapp.NewWithID("zone-marker")

	appPrefs := prefs.Load()
	baseURL := os.Getenv("POLYGON_API_URL")
	if baseURL == "" {
		baseURL = appPrefs.StringWithFallback(prefs.KeyAPIBaseURL, defaultBaseURL)
	}
	log.Printf("Polygon store: %s", baseURL)

	events := app.NewEvents()
	client := api.NewClient(baseURL)
	ctrl := syncctl.NewController(client, events)
	sess := session.New(ctrl, events)

	win := mainwindow.New(fyneApp, events, ctrl, sess, appPrefs)

	// A background image path on the command line overrides the saved one.
	if len(os.Args) > 1 {
		if err := win.LoadBackground(os.Args[1]); err != nil {
			log.Printf("Failed to load background %s: %v", os.Args[1], err)
		}
	}

	// Initial fetch of the saved collection.
	go func() {
		_ = ctrl.Refresh(context.Background())
	}()

	win.ShowAndRun()
}
