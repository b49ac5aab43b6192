package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/train-seat-reservation/internal/allocation"
	"github.com/iliyamo/train-seat-reservation/internal/middleware"
	"github.com/iliyamo/train-seat-reservation/internal/model"
	"github.com/iliyamo/train-seat-reservation/internal/queue"
	"github.com/iliyamo/train-seat-reservation/internal/repository"
)

// TrainHandler exposes the seat map and the book/unbook/reset
// operations.  All mutation goes through the allocation engine; the
// handler's own job is request parsing, error mapping and the
// after-commit side effects (cache invalidation, event publishing).
type TrainHandler struct {
	Engine        *allocation.Engine
	Publisher     queue.Publisher // nil disables event publishing
	Cache         *redis.Client   // nil disables cache invalidation
	CachePrefix   string
	DefaultLayout model.Layout
}

// NewTrainHandler constructs a TrainHandler.
func NewTrainHandler(engine *allocation.Engine, pub queue.Publisher, cache *redis.Client, cachePrefix string, layout model.Layout) *TrainHandler {
	if engine == nil {
		panic("nil engine passed to NewTrainHandler")
	}
	return &TrainHandler{
		Engine:        engine,
		Publisher:     pub,
		Cache:         cache,
		CachePrefix:   cachePrefix,
		DefaultLayout: layout,
	}
}

// GetState handles GET /v1/train.  Alongside the full aggregate it
// returns the simplified per-seat booked flags the original UI feeds
// its seat grid from.
func (h *TrainHandler) GetState(c echo.Context) error {
	train, err := h.Engine.State(c.Request().Context())
	if err != nil {
		return h.errorResponse(c, err)
	}
	flags := make([]bool, 0, len(train.Seats))
	for _, s := range train.Seats {
		flags = append(flags, s.IsBooked)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "success",
		"train":  train,
		"seats":  flags,
	})
}

// Book handles POST /v1/train/book.  Body: {"num_seats": n}.
func (h *TrainHandler) Book(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"status": "error", "message": "unauthorized"})
	}
	var body struct {
		NumSeats int `json:"num_seats"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"status": "error", "message": "invalid request body"})
	}

	booking, err := h.Engine.Book(c.Request().Context(), userID, body.NumSeats)
	if err != nil {
		return h.errorResponse(c, err)
	}
	h.afterCommit(c, queue.SeatsEvent{
		Action:     queue.ActionBooked,
		UserID:     userID,
		BookingRef: booking.Ref,
		Seats:      booking.Seats,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusOK, echo.Map{
		"status":      "success",
		"booking_ref": booking.Ref,
		"seats":       booking.Seats,
	})
}

// Unbook handles POST /v1/train/unbook.  Body: {"seats": [n...]}.
func (h *TrainHandler) Unbook(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"status": "error", "message": "unauthorized"})
	}
	var body struct {
		Seats []int `json:"seats"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"status": "error", "message": "invalid request body"})
	}

	released, err := h.Engine.Unbook(c.Request().Context(), userID, body.Seats)
	if err != nil {
		return h.errorResponse(c, err)
	}
	h.afterCommit(c, queue.SeatsEvent{
		Action:     queue.ActionUnbooked,
		UserID:     userID,
		Seats:      released,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusOK, echo.Map{
		"status":         "success",
		"unbooked_seats": released,
	})
}

// Reset handles POST /v1/train/reset.  All fields are optional; the
// layout falls back to the configured default and prebook defaults to
// true, matching the original seeding script.
func (h *TrainHandler) Reset(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"status": "error", "message": "unauthorized"})
	}
	var body struct {
		Rows         int   `json:"rows"`
		SeatsPerRow  int   `json:"seats_per_row"`
		LastRowSeats int   `json:"last_row_seats"`
		Prebook      *bool `json:"prebook"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"status": "error", "message": "invalid request body"})
	}
	layout := h.DefaultLayout
	if body.Rows > 0 {
		layout.Rows = body.Rows
	}
	if body.SeatsPerRow > 0 {
		layout.SeatsPerRow = body.SeatsPerRow
	}
	if body.LastRowSeats > 0 {
		layout.LastRowSeats = body.LastRowSeats
	}
	prebook := true
	if body.Prebook != nil {
		prebook = *body.Prebook
	}

	train, err := h.Engine.Reset(c.Request().Context(), layout, prebook)
	if err != nil {
		return h.errorResponse(c, err)
	}
	middleware.InvalidateCache(c.Request().Context(), h.Cache, h.CachePrefix)
	return c.JSON(http.StatusOK, echo.Map{
		"status": "success",
		"train":  train,
	})
}

// afterCommit runs the post-commit side effects: drop cached seat maps
// and emit the seat-change event.  Both are best effort.
func (h *TrainHandler) afterCommit(c echo.Context, ev queue.SeatsEvent) {
	middleware.InvalidateCache(c.Request().Context(), h.Cache, h.CachePrefix)
	if h.Publisher != nil {
		if err := h.Publisher.PublishSeatsEvent(c.Request().Context(), ev); err != nil {
			log.Printf("train: publish %s event failed: %v", ev.Action, err)
		}
	}
}

// errorResponse maps engine failures onto the API's status/message
// body convention.  Business signals come back as status "info" so
// clients can tell them apart from hard errors.
func (h *TrainHandler) errorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, allocation.ErrInvalidRequest):
		return c.JSON(http.StatusBadRequest, echo.Map{"status": "info", "message": err.Error()})
	case errors.Is(err, allocation.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, echo.Map{"status": "error", "message": "unauthorized"})
	case errors.Is(err, allocation.ErrNoSeatsAvailable):
		return c.JSON(http.StatusBadRequest, echo.Map{"status": "info", "message": "No seats available"})
	case errors.Is(err, allocation.ErrNothingToUnbook):
		return c.JSON(http.StatusBadRequest, echo.Map{"status": "info", "message": "No seats were unbooked"})
	case errors.Is(err, allocation.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"status": "error", "message": "Seat map changed concurrently, please retry"})
	case errors.Is(err, repository.ErrTrainNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"status": "error", "message": "Train not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"status": "error", "message": "Server error"})
	}
}
