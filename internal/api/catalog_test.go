package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesavant42/dexsome/internal/models"
)

// testRecord builds a valid record with the given id and types
func testRecord(id int, name string, types ...string) models.FullRecord {
	rec := models.FullRecord{ID: id, Name: name, Height: 7, Weight: 69}
	for i, t := range types {
		rec.Types = append(rec.Types, models.TypeSlot{Slot: i + 1, Type: models.NamedRef{Name: t}})
	}
	for _, s := range []string{"hp", "attack", "defense", "special-attack", "special-defense", "speed"} {
		rec.Stats = append(rec.Stats, models.StatEntry{BaseStat: 45, Stat: models.NamedRef{Name: s}})
	}
	return rec
}

// newCatalogServer serves /pokemon and /pokemon/{id} for ids 1..size
func newCatalogServer(t *testing.T, size int) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/pokemon", func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		page := models.IndexPage{Count: size}
		for id := offset + 1; id <= size && id <= offset+limit; id++ {
			page.Results = append(page.Results, models.RecordSummary{
				Name: fmt.Sprintf("mon-%d", id),
				URL:  fmt.Sprintf("http://%s/pokemon/%d/", r.Host, id),
			})
		}
		_ = json.NewEncoder(w).Encode(page)
	})
	mux.HandleFunc("/pokemon/", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/pokemon/"))
		if err != nil || id < 1 || id > size {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(testRecord(id, fmt.Sprintf("mon-%d", id), "normal"))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestFetchIndex(t *testing.T) {
	server := newCatalogServer(t, 30)
	client := NewCatalogClient(server.URL, time.Second, nil)

	page, err := client.FetchIndex(context.Background(), 20, 10)
	require.NoError(t, err)
	assert.Equal(t, 30, page.Count)
	require.Len(t, page.Results, 20)
	assert.Equal(t, 11, page.Results[0].ID())
	assert.Equal(t, 30, page.Results[19].ID())
}

func TestFetchRecord(t *testing.T) {
	server := newCatalogServer(t, 5)
	client := NewCatalogClient(server.URL, time.Second, nil)

	rec, err := client.FetchRecord(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, 3, rec.ID)
	assert.Equal(t, []string{"normal"}, rec.Categories())

	_, err = client.FetchRecord(context.Background(), "99")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetworkFailure)
}

func TestFetchRecordMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 7, "name": "squirtle", "types": []}`)
	}))
	t.Cleanup(server.Close)

	client := NewCatalogClient(server.URL, time.Second, nil)
	_, err := client.FetchRecord(context.Background(), "7")
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestFetchSpecies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pokemon-species/25", r.URL.Path)
		fmt.Fprint(w, `{"id": 25, "name": "pikachu",
			"flavor_text_entries": [{"flavor_text": "Stores\felectricity", "language": {"name": "en"}}],
			"genera": [{"genus": "Mouse Pokémon", "language": {"name": "en"}}]}`)
	}))
	t.Cleanup(server.Close)

	client := NewCatalogClient(server.URL, time.Second, nil)
	species, err := client.FetchSpecies(context.Background(), 25)
	require.NoError(t, err)
	assert.Equal(t, "Stores electricity", species.Description("en"))
	assert.Equal(t, "Mouse Pokémon", species.Genus("en"))
}

// stubFetcher serves records from a map and fails for listed identifiers
type stubFetcher struct {
	mu       sync.Mutex
	fail     map[string]bool
	calls    []string
	inFlight atomic.Int32
	peak     atomic.Int32
	delay    func(id string) time.Duration
}

func (s *stubFetcher) FetchRecord(ctx context.Context, nameOrID string) (*models.FullRecord, error) {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}

	s.mu.Lock()
	s.calls = append(s.calls, nameOrID)
	s.mu.Unlock()

	if s.delay != nil {
		time.Sleep(s.delay(nameOrID))
	}
	if s.fail[nameOrID] {
		return nil, fmt.Errorf("%w: boom", ErrNetworkFailure)
	}
	id, err := strconv.Atoi(nameOrID)
	if err != nil {
		id = len(nameOrID)
	}
	rec := testRecord(id, nameOrID, "normal")
	return &rec, nil
}

func TestResolvePreservesInputOrder(t *testing.T) {
	// later slots finish first
	fetcher := &stubFetcher{delay: func(id string) time.Duration {
		n, _ := strconv.Atoi(id)
		return time.Duration(10-n) * time.Millisecond
	}}
	bf := NewBatchFetcher(fetcher, nil)

	ids := []string{"1", "2", "3", "4", "5", "6", "7"}
	records, err := bf.Resolve(context.Background(), ids, 3)
	require.NoError(t, err)
	require.Len(t, records, len(ids))
	for i, rec := range records {
		require.NotNil(t, rec)
		assert.Equal(t, i+1, rec.ID)
	}
	assert.LessOrEqual(t, fetcher.peak.Load(), int32(3))
}

func TestResolveReportsFailureIndexAligned(t *testing.T) {
	fetcher := &stubFetcher{fail: map[string]bool{"b": true}}
	bf := NewBatchFetcher(fetcher, nil)

	records, err := bf.Resolve(context.Background(), []string{"a", "b", "c"}, 3)
	require.Error(t, err)

	var batchErr *BatchError
	require.True(t, errors.As(err, &batchErr))
	require.Len(t, batchErr.Failures, 1)
	assert.Equal(t, "b", batchErr.Failures[0].Identifier)
	assert.Equal(t, []string{"b"}, batchErr.FailedIdentifiers())
	assert.ErrorIs(t, err, ErrNetworkFailure)

	require.Len(t, records, 3)
	require.NotNil(t, records[0])
	assert.Nil(t, records[1])
	require.NotNil(t, records[2])
	assert.Equal(t, "a", records[0].Name)
	assert.Equal(t, "c", records[2].Name)
}

func TestResolveStopsAfterFailedBatch(t *testing.T) {
	fetcher := &stubFetcher{fail: map[string]bool{"3": true}}
	bf := NewBatchFetcher(fetcher, nil)

	var progress []int
	records, err := bf.ResolveWithProgress(context.Background(), []string{"1", "2", "3", "4", "5", "6"}, 2,
		func(done, total int) { progress = append(progress, done) })

	var batchErr *BatchError
	require.True(t, errors.As(err, &batchErr))
	assert.Equal(t, 1, batchErr.Batch)

	// first batch intact, second batch partial, third never started
	assert.NotNil(t, records[0])
	assert.NotNil(t, records[1])
	assert.Nil(t, records[2])
	assert.NotNil(t, records[3])
	assert.Nil(t, records[4])
	assert.Nil(t, records[5])
	assert.Len(t, fetcher.calls, 4)
	assert.Equal(t, []int{2}, progress)
}

func TestResolveMalformedCountsAsNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name": "nobody"}`)
	}))
	t.Cleanup(server.Close)

	bf := NewBatchFetcher(NewCatalogClient(server.URL, time.Second, nil), nil)
	_, err := bf.Resolve(context.Background(), []string{"1"}, 0)
	assert.ErrorIs(t, err, ErrNetworkFailure)
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestResolveHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &stubFetcher{}
	records, err := NewBatchFetcher(fetcher, nil).Resolve(ctx, []string{"1", "2"}, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, records, 2)
	assert.Empty(t, fetcher.calls)
}
