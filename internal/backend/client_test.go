package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Synchronicityai-org/tinywins/internal/config"
	"github.com/Synchronicityai-org/tinywins/internal/domain"
	"github.com/Synchronicityai-org/tinywins/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBackendConfig(endpoint string) config.Backend {
	return config.Backend{
		Endpoint:   endpoint,
		Region:     "eu-west-1",
		APIKey:     "test-key",
		TimeoutMs:  2000,
		MaxRetries: 2,
	}
}

func writePage(w http.ResponseWriter, items []any, nextToken string) {
	raws := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		data, _ := json.Marshal(item)
		raws = append(raws, data)
	}
	json.NewEncoder(w).Encode(listResponse{Items: raws, NextToken: nextToken})
}

func TestClient_List_SendsFilterAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/records", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "eu-west-1", r.Header.Get("X-Service-Region"))
		assert.Equal(t, "MILESTONE", r.URL.Query().Get("recordType"))
		assert.Equal(t, "kid-1", r.URL.Query().Get("kidProfileId"))
		assert.Equal(t, "page-2", r.URL.Query().Get("nextToken"))
		writePage(w, []any{map[string]any{"id": "m-1", "title": "First words"}}, "")
	}))
	defer srv.Close()

	store := NewRemoteMilestoneStore(NewClient(testBackendConfig(srv.URL), nil))
	milestones, next, err := store.ListMilestones(context.Background(), "kid-1", "page-2")
	require.NoError(t, err)
	assert.Empty(t, next)
	require.Len(t, milestones, 1)
	assert.Equal(t, "m-1", milestones[0].ID)
	assert.Equal(t, "First words", milestones[0].Title)
}

func TestClient_List_PassesTokenThroughUnchanged(t *testing.T) {
	var tokens []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokens = append(tokens, r.URL.Query().Get("nextToken"))
		switch len(tokens) {
		case 1:
			writePage(w, []any{map[string]any{"id": "m-1"}}, "opaque-abc")
		default:
			writePage(w, []any{map[string]any{"id": "m-2"}}, "")
		}
	}))
	defer srv.Close()

	store := NewRemoteMilestoneStore(NewClient(testBackendConfig(srv.URL), nil))
	ctx := context.Background()

	_, next, err := store.ListMilestones(ctx, "kid-1", "")
	require.NoError(t, err)
	assert.Equal(t, "opaque-abc", next)

	_, next, err = store.ListMilestones(ctx, "kid-1", next)
	require.NoError(t, err)
	assert.Empty(t, next)
	assert.Equal(t, []string{"", "opaque-abc"}, tokens)
}

// Records without an id are garbage from older app versions; they are
// dropped, never an error.
func TestList_DropsRecordsWithoutID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writePage(w, []any{
			map[string]any{"id": "t-1", "title": "ok", "sentiment": "love"},
			map[string]any{"title": "no id"},
			map[string]any{"id": "", "title": "blank id"},
			map[string]any{"id": "t-2", "sentiment": true},
		}, "")
	}))
	defer srv.Close()

	store := NewRemoteMilestoneStore(NewClient(testBackendConfig(srv.URL), nil))
	tasks, _, err := store.ListTasks(context.Background(), "kid-1", "")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "t-1", tasks[0].ID)
	assert.Equal(t, domain.SentimentLove, tasks[0].Sentiment)
	assert.Equal(t, domain.SentimentPositive, tasks[1].Sentiment)
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writePage(w, nil, "")
	}))
	defer srv.Close()

	store := NewRemoteMilestoneStore(NewClient(testBackendConfig(srv.URL), nil))
	_, _, err := store.ListMilestones(context.Background(), "kid-1", "")
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestClient_RetryExhausted(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := testBackendConfig(srv.URL)
	cfg.MaxRetries = 2
	store := NewRemoteMilestoneStore(NewClient(cfg, nil))
	_, _, err := store.ListMilestones(context.Background(), "kid-1", "")
	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.Equal(t, 3, attempts, "attempts = 1 + MaxRetries")
}

func TestClient_NoRetryOnClientErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	store := NewRemoteMilestoneStore(NewClient(testBackendConfig(srv.URL), nil))
	_, _, err := store.ListMilestones(context.Background(), "kid-1", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, attempts)
}

func TestClient_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	store := NewRemoteMilestoneStore(NewClient(testBackendConfig(srv.URL), nil))
	_, err := store.GetMilestone(context.Background(), "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// Deleting a record that is already gone succeeds.
	assert.NoError(t, store.DeleteMilestone(context.Background(), "nope"))
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	cfg := testBackendConfig(srv.URL)
	cfg.TimeoutMs = 50
	store := NewRemoteMilestoneStore(NewClient(cfg, nil))
	_, _, err := store.ListMilestones(context.Background(), "kid-1", "")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClient_Unavailable(t *testing.T) {
	cfg := testBackendConfig("http://127.0.0.1:1") // nothing listening
	cfg.MaxRetries = 0
	store := NewRemoteMilestoneStore(NewClient(cfg, nil))
	_, _, err := store.ListMilestones(context.Background(), "kid-1", "")
	assert.ErrorIs(t, err, ErrUnavailable)
}

type recordingObserver struct {
	events []CallEvent
}

func (o *recordingObserver) OnCallComplete(e CallEvent) {
	o.events = append(o.events, e)
}

func TestObserver_SeesAttemptsAndOutcome(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writePage(w, nil, "")
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	store := NewRemoteMilestoneStore(NewClient(testBackendConfig(srv.URL), obs))
	_, _, err := store.ListMilestones(context.Background(), "kid-1", "")
	require.NoError(t, err)

	require.Len(t, obs.events, 1)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, 2, obs.events[0].Attempts)
	assert.Equal(t, "/records", obs.events[0].Path)
}
