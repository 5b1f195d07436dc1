//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/anushST/landset-nasa/internal/api/handlers"
	"github.com/anushST/landset-nasa/internal/cache"
	"github.com/anushST/landset-nasa/internal/catalog"
	"github.com/anushST/landset-nasa/internal/domain"
	"github.com/anushST/landset-nasa/internal/jobs"
	"github.com/anushST/landset-nasa/internal/queue"
	"github.com/anushST/landset-nasa/internal/repository"
	"github.com/anushST/landset-nasa/internal/server"
	"github.com/anushST/landset-nasa/internal/service"
	"github.com/anushST/landset-nasa/internal/testutil"
)

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T            *testing.T
	Ctx          context.Context
	PostgresC    *testutil.PostgresContainer
	RedisC       *testutil.RedisContainer
	Pool         *pgxpool.Pool
	Redis        *redis.Client
	Catalog      *FakeCatalog
	Repo         *repository.AcquisitionRepository
	ServerURL    string
	ServerCloser func()
	BinaryDir    string
	HTTPClient   *http.Client
}

// FakeCatalog is an in-process STAC stand-in. Set Features on it and
// every /search returns them; set FailStatus to a non-zero code and
// the next search fails with that status instead.
type FakeCatalog struct {
	mu         sync.Mutex
	Features   []domain.SceneFeature
	FailStatus int
	server     *httptest.Server
}

func NewFakeCatalog() *FakeCatalog {
	fc := &FakeCatalog{}
	fc.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		fc.mu.Lock()
		status := fc.FailStatus
		features := fc.Features
		fc.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"features": features})
	}))
	return fc
}

func (fc *FakeCatalog) SetFeatures(features []domain.SceneFeature) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.Features = features
	fc.FailStatus = 0
}

func (fc *FakeCatalog) SetFailStatus(status int) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.FailStatus = status
}

func (fc *FakeCatalog) URL() string { return fc.server.URL }

func (fc *FakeCatalog) Close() { fc.server.Close() }

// SetupE2EEnv creates a full E2E test environment with containers,
// a fake catalog, and a running server with the scene worker attached.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	redisC := testutil.NewRedisContainer(ctx, t)

	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	rdb := redis.NewClient(&redis.Options{Addr: redisC.Addr()})
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Fatalf("failed to ping redis: %v", err)
	}

	fakeCatalog := NewFakeCatalog()

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	repo := repository.NewAcquisitionRepository(pool)
	serverURL, serverCloser := startServer(t, repo, rdb, fakeCatalog, port)

	env := &E2ETestEnv{
		T:            t,
		Ctx:          ctx,
		PostgresC:    pgC,
		RedisC:       redisC,
		Pool:         pool,
		Redis:        rdb,
		Catalog:      fakeCatalog,
		Repo:         repo,
		ServerURL:    serverURL,
		ServerCloser: serverCloser,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}

	return env
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
	if e.Catalog != nil {
		e.Catalog.Close()
	}
	if e.Redis != nil {
		e.Redis.Close()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.RedisC != nil {
		e.RedisC.Terminate(e.Ctx)
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
	if e.BinaryDir != "" {
		os.RemoveAll(e.BinaryDir)
	}
}

// BuildBinaries builds the landset and landsetd binaries
func (e *E2ETestEnv) BuildBinaries() {
	tmpDir, err := os.MkdirTemp("", "landset-e2e-*")
	if err != nil {
		e.T.Fatalf("failed to create temp dir: %v", err)
	}
	e.BinaryDir = tmpDir

	cmd := exec.Command("go", "build", "-o", filepath.Join(tmpDir, "landsetd"), "./cmd/landsetd")
	cmd.Dir = "../.."
	if out, err := cmd.CombinedOutput(); err != nil {
		e.T.Fatalf("failed to build landsetd: %v\n%s", err, out)
	}

	cmd = exec.Command("go", "build", "-o", filepath.Join(tmpDir, "landset"), "./cmd/landset")
	cmd.Dir = "../.."
	if out, err := cmd.CombinedOutput(); err != nil {
		e.T.Fatalf("failed to build landset: %v\n%s", err, out)
	}
}

// RunLandset runs the landset CLI command against the test server
func (e *E2ETestEnv) RunLandset(args ...string) (string, error) {
	cmd := exec.Command(filepath.Join(e.BinaryDir, "landset"), args...)
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("LANDSET_API_URL=%s", e.ServerURL),
	)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// Get performs a GET request and returns the status code and raw body
func (e *E2ETestEnv) Get(path string) (int, []byte, error) {
	return e.doRequest("GET", path, nil)
}

// Post performs a POST request and returns the status code and raw body
func (e *E2ETestEnv) Post(path string, body interface{}) (int, []byte, error) {
	return e.doRequest("POST", path, body)
}

func (e *E2ETestEnv) doRequest(method, path string, body interface{}) (int, []byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, e.ServerURL+path, reqBody)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}

	return resp.StatusCode, respBody, nil
}

// PollStatus polls the status endpoint until it leaves in_progress or
// the timeout elapses. It returns the final status code and body.
func (e *E2ETestEnv) PollStatus(requestID string, timeout time.Duration) (int, []byte, error) {
	deadline := time.Now().Add(timeout)
	for {
		status, body, err := e.Get("/scenes/status?request_id=" + requestID)
		if err != nil {
			return 0, nil, err
		}
		if status != http.StatusAccepted {
			return status, body, nil
		}
		if time.Now().After(deadline) {
			return status, body, fmt.Errorf("search %s still in progress after %v", requestID, timeout)
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// startServer wires the full pipeline against the test containers and
// the fake catalog, starts the scene worker, and serves HTTP.
func startServer(t *testing.T, repo *repository.AcquisitionRepository, rdb *redis.Client, fc *FakeCatalog, port int) (string, func()) {
	requestQueue := queue.NewRedisQueue(rdb, queue.DefaultKey)
	resultCache := cache.NewRedisCache(rdb, 2*time.Minute)
	catalogClient := catalog.NewClient(fc.URL(), "", "", 10*time.Second)

	sceneWorker := jobs.NewSceneSearchWorker(requestQueue, resultCache, catalogClient, 0.04, "landsat-c2l2-sr")
	worker := jobs.NewWorker("scene-search", sceneWorker, 100*time.Millisecond)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	go worker.Start(workerCtx)

	sceneSvc := service.NewSceneService(requestQueue, resultCache)
	acquisitionSvc := service.NewAcquisitionService(repo)

	router := server.NewRouter(server.RouterConfig{
		SceneHandler:       handlers.NewSceneHandler(sceneSvc, nil),
		AcquisitionHandler: handlers.NewAcquisitionHandler(acquisitionSvc),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := fmt.Sprintf("http://localhost:%d", port)
	waitForServer(t, serverURL, 10*time.Second)

	return serverURL, func() {
		cancelWorker()
		worker.Stop()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}

func waitForServer(t *testing.T, url string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server did not start within %v", timeout)
}

func getFreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
