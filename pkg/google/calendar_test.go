package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/harrisonrobin/taskplan/pkg/colors"
	"github.com/harrisonrobin/taskplan/pkg/index"
	"github.com/harrisonrobin/taskplan/pkg/logging"
	"github.com/harrisonrobin/taskplan/pkg/model"
	"github.com/harrisonrobin/taskplan/pkg/seed"
)

// fakeCalendar serves the subset of the Calendar v3 API the client uses.
type fakeCalendar struct {
	mu     sync.Mutex
	events map[string]*calendar.Event
	next   int
}

func newFakeCalendar(t *testing.T) (*fakeCalendar, *calendar.Service) {
	t.Helper()
	f := &fakeCalendar{events: make(map[string]*calendar.Event)}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/me/calendarList", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, &calendar.CalendarList{Items: []*calendar.CalendarListEntry{
			{Id: "personal", Summary: "Personal"},
			{Id: "cal-tasks", Summary: "Tasks"},
		}})
	})
	mux.HandleFunc("GET /calendars/{cal}/events", f.list)
	mux.HandleFunc("POST /calendars/{cal}/events", f.insert)
	mux.HandleFunc("GET /calendars/{cal}/events/{id}", f.get)
	mux.HandleFunc("PATCH /calendars/{cal}/events/{id}", f.patch)
	mux.HandleFunc("DELETE /calendars/{cal}/events/{id}", f.remove)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	srv, err := calendar.NewService(context.Background(),
		option.WithEndpoint(ts.URL+"/"),
		option.WithHTTPClient(ts.Client()),
	)
	require.NoError(t, err)
	return f, srv
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeCalendar) list(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := r.URL.Query().Get("privateExtendedProperty")
	out := &calendar.Events{}
	for _, e := range f.events {
		if e.ExtendedProperties != nil {
			for k, v := range e.ExtendedProperties.Private {
				if want == k+"="+v {
					out.Items = append(out.Items, e)
				}
			}
		}
	}
	writeJSON(w, out)
}

func (f *fakeCalendar) insert(w http.ResponseWriter, r *http.Request) {
	var e calendar.Event
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	f.next++
	e.Id = fmt.Sprintf("evt%d", f.next)
	f.events[e.Id] = &e
	f.mu.Unlock()
	writeJSON(w, &e)
}

func (f *fakeCalendar) get(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[r.PathValue("id")]
	if !ok {
		http.Error(w, `{"error":{"code":404,"message":"Not Found"}}`, http.StatusNotFound)
		return
	}
	writeJSON(w, e)
}

func (f *fakeCalendar) patch(w http.ResponseWriter, r *http.Request) {
	var p calendar.Event
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[r.PathValue("id")]
	if !ok {
		http.Error(w, `{"error":{"code":404,"message":"Not Found"}}`, http.StatusNotFound)
		return
	}
	if p.Summary != "" {
		e.Summary = p.Summary
	}
	if p.Description != "" {
		e.Description = p.Description
	}
	if p.ColorId != "" {
		e.ColorId = p.ColorId
	}
	if p.Start != nil {
		e.Start, e.End = p.Start, p.End
	}
	writeJSON(w, e)
}

func (f *fakeCalendar) remove(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := r.PathValue("id")
	if _, ok := f.events[id]; !ok {
		http.Error(w, `{"error":{"code":410,"message":"Resource has been deleted"}}`, http.StatusGone)
		return
	}
	delete(f.events, id)
	w.WriteHeader(http.StatusNoContent)
}

// drop deletes an event behind the client's back.
func (f *fakeCalendar) drop(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.events, id)
}

func (f *fakeCalendar) summaries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, e := range f.events {
		out = append(out, e.Summary)
	}
	return out
}

func newTestClient(t *testing.T) (*fakeCalendar, *CalendarClient, *index.EventIndex) {
	t.Helper()
	f, srv := newFakeCalendar(t)
	dir := t.TempDir()
	idx, err := index.NewEventIndex(dir)
	require.NoError(t, err)
	cache, err := colors.NewColorCache(dir)
	require.NoError(t, err)

	id, err := FindCalendar(context.Background(), srv, "Tasks")
	require.NoError(t, err)
	assert.Equal(t, "cal-tasks", id)
	return f, NewCalendarClient(srv, id, idx, cache, logging.Discard()), idx
}

func TestPublishLifecycle(t *testing.T) {
	ctx := context.Background()
	f, client, idx := newTestClient(t)
	rows := seed.Project()
	today := model.NewDate(2024, 8, 8)

	res, err := client.Publish(ctx, rows, today)
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 8}, res)
	assert.Len(t, idx.Keys(), 8)
	assert.Contains(t, f.summaries(), "✓ Design / Requirement Gathering")

	res, err = client.Publish(ctx, rows, today)
	require.NoError(t, err)
	assert.Equal(t, Result{Unchanged: 8}, res)

	rows[2].Status = model.StatusInProgress
	res, err = client.Publish(ctx, rows, today)
	require.NoError(t, err)
	assert.Equal(t, Result{Updated: 1, Unchanged: 7}, res)
	assert.Contains(t, f.summaries(), "‣ Design / Approval")

	res, err = client.Publish(ctx, rows[:7], today)
	require.NoError(t, err)
	assert.Equal(t, Result{Unchanged: 7, Removed: 1}, res)
	assert.NotContains(t, strings.Join(f.summaries(), "|"), "Go Live")
}

func TestSyncFallsBackToPropertySearch(t *testing.T) {
	ctx := context.Background()
	_, client, idx := newTestClient(t)
	row := seed.Project()[0]
	today := model.NewDate(2024, 8, 8)

	created, outcome, err := client.SyncEvent(ctx, row, today)
	require.NoError(t, err)
	assert.Equal(t, Created, outcome)

	idx.Remove(row.Key())
	found, outcome, err := client.SyncEvent(ctx, row, today)
	require.NoError(t, err)
	assert.Equal(t, Unchanged, outcome)
	assert.Equal(t, created.Id, found.Id)
	assert.Equal(t, created.Id, idx.Get(row.Key()))
}

func TestPublishSkipsUnscheduledRows(t *testing.T) {
	_, client, _ := newTestClient(t)
	rows := []model.Task{{Name: "Backlog", Status: model.StatusNotStarted}}
	res, err := client.Publish(context.Background(), rows, model.NewDate(2024, 8, 8))
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 1}, res)
}

func TestPublishForgetsEventsDeletedByHand(t *testing.T) {
	ctx := context.Background()
	f, client, idx := newTestClient(t)
	rows := seed.Project()
	today := model.NewDate(2024, 8, 8)

	_, err := client.Publish(ctx, rows, today)
	require.NoError(t, err)

	gone := rows[len(rows)-1].Key()
	f.drop(idx.Get(gone))

	res, err := client.Publish(ctx, rows[:len(rows)-1], today)
	require.NoError(t, err)
	assert.Equal(t, Result{Unchanged: 7, Removed: 1}, res)
	assert.Empty(t, idx.Get(gone))

	res, err = client.Publish(ctx, rows[:len(rows)-1], today)
	require.NoError(t, err)
	assert.Equal(t, Result{Unchanged: 7}, res)
}
