// Package sync mediates all remote reads and writes of the polygon collection.
package sync

import (
	"context"
	"errors"
	gosync "sync"

	"zone-marker/internal/api"
	"zone-marker/internal/app"
	"zone-marker/internal/polygon"

	"github.com/sirupsen/logrus"
)

// ErrBusy is returned when an operation is requested while another remote
// call is still in flight. Callers treat it as a no-op.
var ErrBusy = errors.New("a remote operation is already in progress")

// Store is the remote polygon collection consumed by the controller.
type Store interface {
	List(ctx context.Context) ([]polygon.Polygon, error)
	Create(ctx context.Context, name string, points [][2]float64) error
	Delete(ctx context.Context, id int64) error
}

// Controller owns the locally cached polygon collection and the loading flag.
// The cache is fully replaced on every successful fetch; it is never merged
// or optimistically updated.
type Controller struct {
	store  Store
	events *app.Events
	log    *logrus.Entry

	mu       gosync.Mutex
	polygons []polygon.Polygon
	loading  bool
}

// NewController creates a controller backed by the given store.
func NewController(store Store, events *app.Events) *Controller {
	return &Controller{
		store:  store,
		events: events,
		log:    logrus.WithField("component", "sync"),
	}
}

// Polygons returns a snapshot of the cached collection.
func (c *Controller) Polygons() []polygon.Polygon {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]polygon.Polygon, len(c.polygons))
	copy(out, c.polygons)
	return out
}

// Loading reports whether a remote call (including any chained refetch) is in
// flight. All mutating UI actions are gated on this flag.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Refresh fetches the collection and replaces the cache atomically. On
// failure the cache is left untouched and a notification is surfaced.
func (c *Controller) Refresh(ctx context.Context) error {
	if !c.begin() {
		return ErrBusy
	}
	defer c.end()

	return c.fetch(ctx)
}

// CreatePolygon validates and submits a candidate polygon, then refetches the
// collection on success. api.ErrDuplicateName is propagated so the caller can
// keep the draft alive; any other failure is reported generically.
func (c *Controller) CreatePolygon(ctx context.Context, name string, points [][2]float64) error {
	trimmed, err := polygon.ValidateName(name)
	if err != nil {
		c.events.Notify(app.LevelError, "Polygon name must not be empty")
		return err
	}
	if len(points) < polygon.MinPoints {
		c.events.Notify(app.LevelError, "A polygon needs at least 3 points")
		return polygon.ErrTooFewPoints
	}

	if !c.begin() {
		return ErrBusy
	}
	defer c.end()

	if err := c.store.Create(ctx, trimmed, points); err != nil {
		if errors.Is(err, api.ErrDuplicateName) {
			c.log.WithField("name", trimmed).Warn("duplicate polygon name rejected")
			c.events.Notify(app.LevelError, "A polygon with this name already exists")
			return err
		}
		c.log.WithError(err).Error("failed to create polygon")
		c.events.Notify(app.LevelError, "Failed to save polygon")
		return err
	}

	c.log.WithFields(logrus.Fields{"name": trimmed, "points": len(points)}).Info("polygon created")
	c.events.Notify(app.LevelInfo, "Polygon saved")

	// Resynchronize instead of appending locally; the server assigns ids and
	// its response is authoritative.
	return c.fetch(ctx)
}

// DeletePolygon removes a polygon by id and refetches on success. The caller
// is responsible for having confirmed the action with the user.
func (c *Controller) DeletePolygon(ctx context.Context, id int64) error {
	if !c.begin() {
		return ErrBusy
	}
	defer c.end()

	if err := c.store.Delete(ctx, id); err != nil {
		c.log.WithError(err).WithField("id", id).Error("failed to delete polygon")
		c.events.Notify(app.LevelError, "Failed to delete polygon")
		return err
	}

	c.log.WithField("id", id).Info("polygon deleted")
	c.events.Notify(app.LevelInfo, "Polygon deleted")

	return c.fetch(ctx)
}

// fetch performs the list call and replaces the cache. The caller must hold
// the loading flag.
func (c *Controller) fetch(ctx context.Context) error {
	polygons, err := c.store.List(ctx)
	if err != nil {
		c.log.WithError(err).Error("failed to fetch polygons")
		c.events.Notify(app.LevelError, "Failed to load polygons")
		return err
	}

	c.mu.Lock()
	c.polygons = polygons
	c.mu.Unlock()

	c.events.Emit(app.EventPolygonsChanged, polygons)
	return nil
}

// begin acquires the loading flag. Returns false if a call is already in flight.
func (c *Controller) begin() bool {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return false
	}
	c.loading = true
	c.mu.Unlock()

	c.events.Emit(app.EventLoadingChanged, true)
	return true
}

// end releases the loading flag on every exit path.
func (c *Controller) end() {
	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()

	c.events.Emit(app.EventLoadingChanged, false)
}
