package records_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityaanikam/AI-agent-project/internal/dispatch"
	"github.com/adityaanikam/AI-agent-project/internal/records"
	"github.com/adityaanikam/AI-agent-project/pkg/database"
	"github.com/adityaanikam/AI-agent-project/pkg/pagination"
	"github.com/adityaanikam/AI-agent-project/pkg/query"
	"github.com/adityaanikam/AI-agent-project/pkg/routes"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stepClock advances one second on every reading.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newSystem(t *testing.T) records.System {
	t.Helper()

	cfg := database.Config{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "records.db"),
	}
	require.NoError(t, cfg.Finalize(nil))

	db, err := database.New(&cfg, discard())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, records.EnsureSchema(context.Background(), db.Connection(), db.Driver()))

	var page pagination.Config
	require.NoError(t, page.Finalize(nil))

	clock := &stepClock{now: time.Date(2024, 2, 20, 10, 0, 0, 0, time.UTC)}
	return records.New(db.Connection(), discard(), page, records.WithClock(clock.Now))
}

func TestCreateAndFind(t *testing.T) {
	sys := newSystem(t)
	ctx := context.Background()

	created, err := sys.Create(ctx, records.CreateCommand{
		InputFormat:   records.FormatEmail,
		InputMetadata: map[string]any{"filename": "invoice.eml", "size": 42.0},
	})
	require.NoError(t, err)

	assert.Equal(t, records.StatusPending, created.Status)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.Empty(t, created.ActionsTriggered)

	found, err := sys.Find(ctx, created.ID)
	require.NoError(t, err)

	if diff := cmp.Diff(created, found); diff != "" {
		t.Errorf("record mismatch (-created +found):\n%s", diff)
	}
}

func TestWrittenRecordMatchesStoredForm(t *testing.T) {
	sys := newSystem(t)
	ctx := context.Background()

	created, err := sys.Create(ctx, records.CreateCommand{
		InputFormat: records.FormatEmail,
		InputMetadata: map[string]any{
			"filename": "invoice.eml",
			"size":     1024,
			"tags":     []string{"inbound"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1024.0, created.InputMetadata["size"])

	found, err := sys.Find(ctx, created.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(created, found); diff != "" {
		t.Errorf("create mismatch (-created +found):\n%s", diff)
	}

	updated, err := sys.Update(ctx, created.ID, func(r *records.Record) error {
		r.Classification = &records.Classification{
			Format:   records.FormatEmail,
			Metadata: map[string]any{"word_count": 12},
		}
		r.Status = records.StatusClassified
		return nil
	})
	require.NoError(t, err)

	found, err = sys.Find(ctx, created.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(updated, found); diff != "" {
		t.Errorf("update mismatch (-updated +found):\n%s", diff)
	}
}

func TestCreateDefaultsFormat(t *testing.T) {
	sys := newSystem(t)

	rec, err := sys.Create(context.Background(), records.CreateCommand{})
	require.NoError(t, err)

	assert.Equal(t, records.FormatUnknown, rec.InputFormat)
	assert.NotNil(t, rec.InputMetadata)
}

func TestFindNotFound(t *testing.T) {
	sys := newSystem(t)

	_, err := sys.Find(context.Background(), uuid.New())
	assert.ErrorIs(t, err, records.ErrNotFound)
}

func TestUpdateLifecycle(t *testing.T) {
	sys := newSystem(t)
	ctx := context.Background()

	rec, err := sys.Create(ctx, records.CreateCommand{InputFormat: records.FormatStructured})
	require.NoError(t, err)

	classification := &records.Classification{
		Format:         records.FormatStructured,
		BusinessIntent: "invoice",
		Confidence:     0.8,
		Metadata:       map[string]any{"has_amount": true},
	}
	result := dispatch.Result{
		ActionKind: dispatch.KindCRM,
		Success:    true,
		Mocked:     true,
		Response:   map[string]any{"status": "success"},
		Attempts:   4,
		Timestamp:  time.Date(2024, 2, 20, 10, 5, 0, 0, time.UTC),
	}

	steps := []func(*records.Record) error{
		func(r *records.Record) error {
			r.Classification = classification
			r.Status = records.StatusClassified
			return nil
		},
		func(r *records.Record) error {
			r.AnalysisOutput = map[string]any{"amount": 15000.0}
			r.Status = records.StatusProcessed
			return nil
		},
		func(r *records.Record) error {
			r.ActionsTriggered = append(r.ActionsTriggered, result)
			r.Status = records.StatusCompleted
			return nil
		},
	}

	var last *records.Record
	for _, step := range steps {
		prev := rec.UpdatedAt
		rec, err = sys.Update(ctx, rec.ID, step)
		require.NoError(t, err)
		assert.True(t, rec.UpdatedAt.After(prev))
		last = rec
	}

	found, err := sys.Find(ctx, rec.ID)
	require.NoError(t, err)

	if diff := cmp.Diff(last, found); diff != "" {
		t.Errorf("record mismatch (-updated +found):\n%s", diff)
	}
	assert.Equal(t, records.StatusCompleted, found.Status)
	assert.Equal(t, "invoice", found.Classification.BusinessIntent)
	assert.Equal(t, 15000.0, found.AnalysisOutput["amount"])
	require.Len(t, found.ActionsTriggered, 1)
	assert.True(t, found.ActionsTriggered[0].Mocked)
}

func TestUpdateRejectsSkippedStage(t *testing.T) {
	sys := newSystem(t)
	ctx := context.Background()

	rec, err := sys.Create(ctx, records.CreateCommand{})
	require.NoError(t, err)

	_, err = sys.Update(ctx, rec.ID, func(r *records.Record) error {
		r.Status = records.StatusCompleted
		return nil
	})
	assert.ErrorIs(t, err, records.ErrInvalidTransition)

	found, err := sys.Find(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, records.StatusPending, found.Status)
}

func TestUpdateFail(t *testing.T) {
	sys := newSystem(t)
	ctx := context.Background()

	rec, err := sys.Create(ctx, records.CreateCommand{})
	require.NoError(t, err)

	rec, err = sys.Update(ctx, rec.ID, func(r *records.Record) error {
		r.Fail("classification failed")
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, records.StatusError, rec.Status)
	require.NotNil(t, rec.Error)
	assert.Equal(t, "classification failed", *rec.Error)

	_, err = sys.Update(ctx, rec.ID, func(r *records.Record) error {
		r.Status = records.StatusClassified
		return nil
	})
	assert.ErrorIs(t, err, records.ErrInvalidTransition)
}

func TestUpdateCallbackError(t *testing.T) {
	sys := newSystem(t)
	ctx := context.Background()
	boom := errors.New("boom")

	rec, err := sys.Create(ctx, records.CreateCommand{})
	require.NoError(t, err)

	_, err = sys.Update(ctx, rec.ID, func(r *records.Record) error {
		r.Status = records.StatusClassified
		return boom
	})
	assert.ErrorIs(t, err, boom)

	found, err := sys.Find(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, records.StatusPending, found.Status)
}

func TestUpdateKeepsIdentity(t *testing.T) {
	sys := newSystem(t)
	ctx := context.Background()

	rec, err := sys.Create(ctx, records.CreateCommand{})
	require.NoError(t, err)

	updated, err := sys.Update(ctx, rec.ID, func(r *records.Record) error {
		r.ID = uuid.New()
		r.CreatedAt = time.Time{}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, rec.ID, updated.ID)
	assert.True(t, rec.CreatedAt.Equal(updated.CreatedAt))
}

func TestUpdateNotFound(t *testing.T) {
	sys := newSystem(t)

	_, err := sys.Update(context.Background(), uuid.New(), func(*records.Record) error { return nil })
	assert.ErrorIs(t, err, records.ErrNotFound)
}

func seed(t *testing.T, sys records.System) []*records.Record {
	t.Helper()
	ctx := context.Background()

	formats := []records.Format{records.FormatEmail, records.FormatStructured, records.FormatEmail}
	created := make([]*records.Record, 0, len(formats))
	for _, f := range formats {
		rec, err := sys.Create(ctx, records.CreateCommand{InputFormat: f})
		require.NoError(t, err)
		created = append(created, rec)
	}

	_, err := sys.Update(ctx, created[1].ID, func(r *records.Record) error {
		r.Fail("boom")
		return nil
	})
	require.NoError(t, err)
	return created
}

func TestHistory(t *testing.T) {
	sys := newSystem(t)
	created := seed(t, sys)
	ctx := context.Background()

	str := func(s string) *string { return &s }

	tests := []struct {
		name      string
		page      pagination.PageRequest
		filters   records.Filters
		wantTotal int
		wantIDs   []uuid.UUID
	}{
		{
			name:      "newest first",
			page:      pagination.PageRequest{Page: 1, PageSize: 2},
			wantTotal: 3,
			wantIDs:   []uuid.UUID{created[2].ID, created[1].ID},
		},
		{
			name:      "second page",
			page:      pagination.PageRequest{Page: 2, PageSize: 2},
			wantTotal: 3,
			wantIDs:   []uuid.UUID{created[0].ID},
		},
		{
			name:      "status filter",
			page:      pagination.PageRequest{Page: 1},
			filters:   records.Filters{Status: str("error")},
			wantTotal: 1,
			wantIDs:   []uuid.UUID{created[1].ID},
		},
		{
			name:      "format filter oldest first",
			page:      pagination.PageRequest{Page: 1, Sort: []query.SortField{{Field: "created_at"}}},
			filters:   records.Filters{Format: str("email")},
			wantTotal: 2,
			wantIDs:   []uuid.UUID{created[0].ID, created[2].ID},
		},
		{
			name:      "unknown sort ignored",
			page:      pagination.PageRequest{Page: 1, PageSize: 1, Sort: []query.SortField{{Field: "id; DROP TABLE"}}},
			wantTotal: 3,
			wantIDs:   []uuid.UUID{created[2].ID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := sys.History(ctx, tt.page, tt.filters)
			require.NoError(t, err)

			assert.Equal(t, tt.wantTotal, result.Total)

			ids := make([]uuid.UUID, len(result.Data))
			for i, s := range result.Data {
				ids[i] = s.ID
			}
			if diff := cmp.Diff(tt.wantIDs, ids); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func newServer(t *testing.T, sys records.System) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler().Routes())
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHandlerStatus(t *testing.T) {
	sys := newSystem(t)
	rec, err := sys.Create(context.Background(), records.CreateCommand{InputFormat: records.FormatDocument})
	require.NoError(t, err)

	srv := newServer(t, sys)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"found", "/status/" + rec.ID.String(), http.StatusOK},
		{"unknown id", "/status/" + uuid.NewString(), http.StatusNotFound},
		{"malformed id", "/status/not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, rec.ID.String(), body["id"])
				assert.Equal(t, "document", body["input_format"])
				assert.Equal(t, "pending", body["status"])
			} else {
				assert.Contains(t, body, "error")
			}
		})
	}
}

func TestHandlerHistory(t *testing.T) {
	sys := newSystem(t)
	created := seed(t, sys)
	srv := newServer(t, sys)

	resp, err := http.Get(srv.URL + "/history?limit=1")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page pagination.PageResult[records.Summary]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))

	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Data, 1)
	assert.Equal(t, created[2].ID, page.Data[0].ID)
}

func TestStatusCanTransition(t *testing.T) {
	tests := []struct {
		from, to records.Status
		want     bool
	}{
		{records.StatusPending, records.StatusClassified, true},
		{records.StatusClassified, records.StatusProcessed, true},
		{records.StatusProcessed, records.StatusCompleted, true},
		{records.StatusPending, records.StatusProcessed, false},
		{records.StatusCompleted, records.StatusPending, false},
		{records.StatusProcessed, records.StatusError, true},
		{records.StatusError, records.StatusError, true},
		{records.StatusError, records.StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in     string
		want   records.Format
		wantOK bool
	}{
		{"email", records.FormatEmail, true},
		{"EML", records.FormatEmail, true},
		{"json", records.FormatStructured, true},
		{"structured-data", records.FormatStructured, true},
		{" pdf ", records.FormatDocument, true},
		{"spreadsheet", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := records.ParseFormat(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
