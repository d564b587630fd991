package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/harrisonrobin/taskplan/pkg/colors"
	"github.com/harrisonrobin/taskplan/pkg/index"
	"github.com/harrisonrobin/taskplan/pkg/model"
)

// Outcome says what SyncEvent did to the calendar.
type Outcome int

const (
	Unchanged Outcome = iota
	Created
	Updated
)

// CalendarClient publishes task rows to one Google calendar.
type CalendarClient struct {
	srv        *calendar.Service
	calendarID string
	index      *index.EventIndex
	colors     *colors.ColorCache
	logger     *slog.Logger
}

// NewCalendarClient wraps an authenticated service. idx and cache may be nil.
func NewCalendarClient(srv *calendar.Service, calendarID string, idx *index.EventIndex, cache *colors.ColorCache, logger *slog.Logger) *CalendarClient {
	return &CalendarClient{srv: srv, calendarID: calendarID, index: idx, colors: cache, logger: logger}
}

func (c *CalendarClient) colorFor(t model.Task) string {
	if c.colors == nil {
		return "1"
	}
	return c.colors.ColorID(t.Name)
}

// SyncEvent creates the event for t or patches the existing one.
func (c *CalendarClient) SyncEvent(ctx context.Context, t model.Task, today model.Date) (*calendar.Event, Outcome, error) {
	event, err := ConvertTaskToEvent(t, today, c.colorFor(t))
	if err != nil {
		return nil, Unchanged, err
	}
	key := t.Key()

	var existing *calendar.Event
	if c.index != nil {
		if eventID := c.index.Get(key); eventID != "" {
			existing, err = c.srv.Events.Get(c.calendarID, eventID).Context(ctx).Do()
			if err != nil || existing.Status == "cancelled" {
				c.logger.Debug("indexed event unavailable, searching", "key", key, "event", eventID, "err", err)
				existing = nil
			}
		}
	}

	if existing == nil {
		existing, err = c.GetEventByKey(ctx, key)
		if err != nil {
			return nil, Unchanged, fmt.Errorf("error searching for event: %w", err)
		}
	}

	if existing != nil {
		patch := EventNeedsUpdate(existing, event)
		if patch == nil {
			c.remember(key, existing.Id)
			return existing, Unchanged, nil
		}
		updated, err := c.srv.Events.Patch(c.calendarID, existing.Id, patch).Context(ctx).Do()
		if err != nil {
			return nil, Unchanged, fmt.Errorf("patch event %s: %w", existing.Id, err)
		}
		c.remember(key, updated.Id)
		return updated, Updated, nil
	}

	created, err := c.srv.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, Unchanged, fmt.Errorf("insert event: %w", err)
	}
	c.remember(key, created.Id)
	return created, Created, nil
}

func (c *CalendarClient) remember(key, eventID string) {
	if c.index != nil {
		c.index.Set(key, eventID)
	}
}

// DeleteEvent deletes an event from the calendar. An event that is already
// gone counts as deleted.
func (c *CalendarClient) DeleteEvent(ctx context.Context, eventID string) error {
	err := c.srv.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && (gerr.Code == http.StatusNotFound || gerr.Code == http.StatusGone) {
		c.logger.Debug("event already deleted", "event_id", eventID)
		return nil
	}
	return err
}

// GetEventByKey searches for the event carrying the row key.
func (c *CalendarClient) GetEventByKey(ctx context.Context, key string) (*calendar.Event, error) {
	events, err := c.srv.Events.List(c.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%s", KeyProperty, key)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	if len(events.Items) > 0 {
		return events.Items[0], nil
	}
	return nil, nil
}

// Result counts what one Publish did.
type Result struct {
	Created   int
	Updated   int
	Unchanged int
	Skipped   int
	Removed   int
}

// Publish syncs every scheduled row and deletes indexed events whose rows
// are gone. Unscheduled rows are skipped. A failing row is logged and the
// rest still publish; the joined errors are returned.
func (c *CalendarClient) Publish(ctx context.Context, rows []model.Task, today model.Date) (Result, error) {
	var res Result
	var errs []error
	live := make(map[string]bool, len(rows))

	for _, t := range rows {
		if !t.Scheduled() {
			res.Skipped++
			continue
		}
		live[t.Key()] = true
		_, outcome, err := c.SyncEvent(ctx, t, today)
		if err != nil {
			c.logger.Warn("publish failed", "row", t.Label(), "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", t.Label(), err))
			continue
		}
		switch outcome {
		case Created:
			res.Created++
		case Updated:
			res.Updated++
		default:
			res.Unchanged++
		}
	}

	if c.index != nil {
		for _, key := range c.index.Keys() {
			if live[key] {
				continue
			}
			if err := c.DeleteEvent(ctx, c.index.Get(key)); err != nil {
				c.logger.Warn("could not delete stale event", "key", key, "err", err)
				errs = append(errs, err)
				continue
			}
			c.index.Remove(key)
			res.Removed++
		}
	}
	return res, errors.Join(errs...)
}
