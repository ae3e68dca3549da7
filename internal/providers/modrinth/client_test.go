package modrinth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SteakTheStake/SummitMC/internal/cache"
	"github.com/SteakTheStake/SummitMC/internal/providers/modrinth"
)

const projectID = "summit"

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// fakeModrinth - тестовый сервер API с подсчетом запросов.
type fakeModrinth struct {
	server         *httptest.Server
	projectHits    atomic.Int32
	versionHits    atomic.Int32
	projectStatus  int
	projectBody    string
	versionsBody   string
	versionsStatus atomic.Int32
	lastUserAgent  atomic.Value
}

func newFakeModrinth(t *testing.T) *fakeModrinth {
	t.Helper()
	f := &fakeModrinth{
		projectStatus: http.StatusOK,
		projectBody:   `{"downloads": 12345, "followers": 321, "versions": ["a", "b", "c"]}`,
		versionsBody:  `[]`,
	}
	f.versionsStatus.Store(http.StatusOK)
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/project/"+projectID, func(w http.ResponseWriter, r *http.Request) {
		f.projectHits.Add(1)
		f.lastUserAgent.Store(r.Header.Get("User-Agent"))
		w.WriteHeader(f.projectStatus)
		_, _ = w.Write([]byte(f.projectBody))
	})
	mux.HandleFunc("/v2/project/"+projectID+"/version", func(w http.ResponseWriter, _ *http.Request) {
		f.versionHits.Add(1)
		w.WriteHeader(int(f.versionsStatus.Load()))
		_, _ = w.Write([]byte(f.versionsBody))
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func newClient(f *fakeModrinth, clock *fakeClock) *modrinth.Client {
	mem := cache.NewMemory(cache.WithClock(clock.Now))
	return modrinth.NewClient(modrinth.Config{
		BaseURL:     f.server.URL + "/v2",
		ProjectID:   projectID,
		UserAgent:   "summit-test",
		Timeout:     2 * time.Second,
		CacheTTL:    5 * time.Minute,
		Resolutions: []string{"32x", "64x"},
	}, mem, modrinth.WithClock(clock.Now))
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func TestGetProjectStats_CacheTTL(t *testing.T) {
	f := newFakeModrinth(t)
	clock := newClock()
	client := newClient(f, clock)
	ctx := context.Background()

	first := client.GetProjectStats(ctx)
	clock.Advance(time.Second)
	second := client.GetProjectStats(ctx)

	require.NotNil(t, first)
	assert.Equal(t, int64(12345), first.Downloads)
	assert.Equal(t, int64(321), first.Followers)
	assert.Equal(t, 3, first.Versions)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), f.projectHits.Load(), "в пределах TTL только один запрос")
	assert.Equal(t, "summit-test", f.lastUserAgent.Load())

	clock.Advance(5 * time.Minute)
	third := client.GetProjectStats(ctx)
	require.NotNil(t, third)
	assert.Equal(t, int32(2), f.projectHits.Load(), "после TTL выполняется новый запрос")
}

func TestGetProjectStats_Failure(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "Статус 500", status: http.StatusInternalServerError, body: `{"error":"boom"}`},
		{name: "Статус 404", status: http.StatusNotFound, body: `{"error":"not_found"}`},
		{name: "Некорректный JSON", status: http.StatusOK, body: `{"downloads":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeModrinth(t)
			f.projectStatus = tt.status
			f.projectBody = tt.body
			client := newClient(f, newClock())

			assert.Nil(t, client.GetProjectStats(context.Background()))
			// Ошибка не кэшируется.
			assert.Nil(t, client.GetProjectStats(context.Background()))
			assert.Equal(t, int32(2), f.projectHits.Load())
		})
	}
}

func TestGetProjectStats_NetworkError(t *testing.T) {
	f := newFakeModrinth(t)
	client := newClient(f, newClock())
	f.server.Close()

	assert.Nil(t, client.GetProjectStats(context.Background()))
}

func TestGetProjectStats_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	client := modrinth.NewClient(modrinth.Config{
		BaseURL:   server.URL,
		ProjectID: projectID,
		Timeout:   50 * time.Millisecond,
	}, cache.NewMemory())

	start := time.Now()
	assert.Nil(t, client.GetProjectStats(context.Background()))
	assert.Less(t, time.Since(start), 2*time.Second)
}

const versionsJSON = `[
  {"name": "Summit 2.1", "version_number": "2.1", "changelog": "старая", "downloads": 500,
   "date_published": "2025-01-10T10:00:00Z",
   "files": [{"url": "https://cdn.modrinth.com/old-32.zip", "filename": "SummitMC-32x.zip", "primary": true}]},
  {"name": "Summit 2.3", "version_number": "2.3", "changelog": "новая", "downloads": 900,
   "date_published": "2025-05-01T10:00:00Z",
   "files": [
     {"url": "https://cdn.modrinth.com/new-32.zip", "filename": "SummitMC-32x.zip", "primary": true},
     {"url": "https://cdn.modrinth.com/new-64.zip", "filename": "SummitMC-64x.zip", "primary": false}
   ]},
  {"name": "Summit 2.2", "version_number": "2.2", "changelog": "средняя", "downloads": 700,
   "date_published": "2025-03-01T10:00:00Z",
   "files": [{"url": "https://cdn.modrinth.com/mid-64.zip", "filename": "SummitMC-64x.zip", "primary": true}]}
]`

func TestGetVersionStats(t *testing.T) {
	f := newFakeModrinth(t)
	f.versionsBody = versionsJSON
	client := newClient(f, newClock())
	ctx := context.Background()

	stats := client.GetVersionStats(ctx)
	require.Len(t, stats, 3)
	assert.Equal(t, "2.1", stats[0].Version)
	assert.Equal(t, int64(500), stats[0].Downloads)
	assert.Equal(t, time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC), stats[0].Date.UTC())

	require.Len(t, client.GetVersionStats(ctx), 3)
	assert.Equal(t, int32(1), f.versionHits.Load(), "статистика версий кэшируется")
}

func TestGetVersionStats_Failure(t *testing.T) {
	f := newFakeModrinth(t)
	f.versionsStatus.Store(http.StatusBadGateway)
	client := newClient(f, newClock())

	assert.Nil(t, client.GetVersionStats(context.Background()))
}

func TestGetLatestVersion(t *testing.T) {
	t.Run("Сортировка по дате публикации", func(t *testing.T) {
		f := newFakeModrinth(t)
		f.versionsBody = versionsJSON
		client := newClient(f, newClock())

		latest := client.GetLatestVersion(context.Background())
		require.NotNil(t, latest)
		assert.Equal(t, "2.3", latest.Version)
		assert.Equal(t, int64(900), latest.Downloads)
		assert.Equal(t, "новая", latest.Changelog)
	})

	t.Run("Пустой список версий", func(t *testing.T) {
		f := newFakeModrinth(t)
		client := newClient(f, newClock())

		assert.Nil(t, client.GetLatestVersion(context.Background()))
	})

	t.Run("Ошибка провайдера", func(t *testing.T) {
		f := newFakeModrinth(t)
		f.versionsStatus.Store(http.StatusInternalServerError)
		client := newClient(f, newClock())

		assert.Nil(t, client.GetLatestVersion(context.Background()))
	})
}

func TestGetResolutionDownloadLinks(t *testing.T) {
	tests := []struct {
		name     string
		versions string
		expected map[string]string // пустая строка - ссылка отсутствует
	}{
		{
			name:     "Самая новая версия побеждает",
			versions: versionsJSON,
			expected: map[string]string{
				"32x": "https://cdn.modrinth.com/new-32.zip",
				"64x": "https://cdn.modrinth.com/new-64.zip",
			},
		},
		{
			name: "Файлы в разных версиях",
			versions: `[
			  {"version_number": "1.1", "date_published": "2025-02-01T00:00:00Z",
			   "files": [{"url": "https://cdn/a.zip", "filename": "SummitMC-32x.zip", "primary": true}]},
			  {"version_number": "1.0", "date_published": "2025-01-01T00:00:00Z",
			   "files": [{"url": "https://cdn/b.zip", "filename": "SummitMC-64x.zip", "primary": true}]}
			]`,
			expected: map[string]string{"32x": "https://cdn/a.zip", "64x": "https://cdn/b.zip"},
		},
		{
			name: "Основной файл по маркеру в названии версии",
			versions: `[
			  {"name": "Summit 64x", "version_number": "3.0-64x", "date_published": "2025-02-01T00:00:00Z",
			   "files": [
			     {"url": "https://cdn/extra.txt", "filename": "readme.txt", "primary": false},
			     {"url": "https://cdn/pack.zip", "filename": "pack.zip", "primary": true}
			   ]}
			]`,
			expected: map[string]string{"32x": "", "64x": "https://cdn/pack.zip"},
		},
		{
			name: "Нет совпадений - карта полная, ссылки nil",
			versions: `[
			  {"version_number": "1.0", "date_published": "2025-01-01T00:00:00Z",
			   "files": [{"url": "https://cdn/pack.zip", "filename": "pack.zip", "primary": true}]}
			]`,
			expected: map[string]string{"32x": "", "64x": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeModrinth(t)
			f.versionsBody = tt.versions
			clock := newClock()
			client := newClient(f, clock)

			result := client.GetResolutionDownloadLinks(context.Background())
			require.NotNil(t, result)
			assert.Equal(t, "modrinth", result.Provider)
			assert.Equal(t, clock.Now(), result.UpdatedAt)
			require.Len(t, result.Links, len(tt.expected))

			for res, want := range tt.expected {
				got, ok := result.Links[res]
				require.True(t, ok, "нет ключа %s", res)
				if want == "" {
					assert.Nil(t, got, "для %s ссылки быть не должно", res)
					continue
				}
				require.NotNil(t, got, "для %s должна быть ссылка", res)
				assert.Equal(t, want, *got)
			}
		})
	}
}

func TestGetResolutionDownloadLinks_CachedAndFailure(t *testing.T) {
	f := newFakeModrinth(t)
	f.versionsBody = versionsJSON
	clock := newClock()
	client := newClient(f, clock)
	ctx := context.Background()

	require.NotNil(t, client.GetResolutionDownloadLinks(ctx))
	require.NotNil(t, client.GetResolutionDownloadLinks(ctx))
	assert.Equal(t, int32(1), f.versionHits.Load())

	clock.Advance(6 * time.Minute)
	f.versionsStatus.Store(http.StatusServiceUnavailable)
	assert.Nil(t, client.GetResolutionDownloadLinks(ctx))
}

func TestRefresh_KeepsCacheWarm(t *testing.T) {
	f := newFakeModrinth(t)
	f.versionsBody = versionsJSON
	clock := newClock()
	client := newClient(f, clock)
	ctx := context.Background()

	require.NoError(t, client.Refresh(ctx))
	clock.Advance(5*time.Minute - time.Millisecond)
	require.NoError(t, client.Refresh(ctx))
	assert.Equal(t, int32(2), f.projectHits.Load(), "каждое обновление обращается к API")
	assert.Equal(t, int32(2), f.versionHits.Load())

	clock.Advance(2 * time.Millisecond)
	require.NotNil(t, client.GetProjectStats(ctx))
	require.NotNil(t, client.GetVersionStats(ctx))
	links := client.GetResolutionDownloadLinks(ctx)
	require.NotNil(t, links)
	assert.True(t, clock.Now().Add(-2*time.Millisecond).Equal(links.UpdatedAt), "ссылки построены при последнем обновлении")

	assert.Equal(t, int32(2), f.projectHits.Load(), "запрос после обновления отдается из кэша")
	assert.Equal(t, int32(2), f.versionHits.Load())
}

func TestRefresh_FailureKeepsPreviousValue(t *testing.T) {
	f := newFakeModrinth(t)
	f.versionsBody = versionsJSON
	clock := newClock()
	client := newClient(f, clock)
	ctx := context.Background()

	require.NoError(t, client.Refresh(ctx))
	clock.Advance(time.Minute)
	f.versionsStatus.Store(http.StatusServiceUnavailable)

	require.Error(t, client.Refresh(ctx))
	assert.NotNil(t, client.GetVersionStats(ctx), "прежний список версий остается в кэше")
	assert.NotNil(t, client.GetResolutionDownloadLinks(ctx))
}
