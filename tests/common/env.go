// Package common provides shared test infrastructure
package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/numeralab/numera/internal/app"
	icommon "github.com/numeralab/numera/internal/common"
	"github.com/numeralab/numera/internal/server"
	"github.com/numeralab/numera/internal/storage/surrealdb"
)

// Env is an in-process test environment: the full application wired to a
// containerized SurrealDB, exposed through an httptest server.
type Env struct {
	t      *testing.T
	App    *app.App
	HTTP   *httptest.Server
	Config *icommon.Config
}

// NewEnv builds a full application against the shared SurrealDB container,
// using a unique database per test for isolation.
func NewEnv(t *testing.T) *Env {
	return NewEnvWithConfig(t, nil)
}

// NewEnvWithConfig builds an Env, letting the caller adjust config before the
// app is wired (e.g. to enable auth or rate limiting).
func NewEnvWithConfig(t *testing.T, mutate func(*icommon.Config)) *Env {
	t.Helper()

	sc := StartSurrealDB(t)

	config := icommon.NewDefaultConfig()
	config.Storage.Address = sc.Address()
	config.Storage.Namespace = "numera_test"
	sanitized := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	config.Storage.Database = fmt.Sprintf("t_%s_%d", sanitized, time.Now().UnixNano()%100000)
	config.Server.RateLimit = 0
	if mutate != nil {
		mutate(config)
	}

	logger := icommon.NewSilentLogger()
	storage, err := surrealdb.NewManager(logger, config)
	if err != nil {
		t.Fatalf("initialize storage: %v", err)
	}

	a := app.NewAppWithStorage(config, logger, storage)
	ts := httptest.NewServer(server.NewServer(a).Handler())

	env := &Env{t: t, App: a, HTTP: ts, Config: config}
	t.Cleanup(env.Cleanup)
	return env
}

// Cleanup tears down the HTTP server and storage.
func (e *Env) Cleanup() {
	if e == nil {
		return
	}
	if e.HTTP != nil {
		e.HTTP.Close()
		e.HTTP = nil
	}
	if e.App != nil {
		e.App.Close()
		e.App = nil
	}
}

// HTTPGet issues a GET against the test server.
func (e *Env) HTTPGet(path string) (*http.Response, error) {
	return http.Get(e.HTTP.URL + path)
}

// HTTPPost issues a POST with a JSON body against the test server.
func (e *Env) HTTPPost(path string, body interface{}) (*http.Response, error) {
	return e.do(http.MethodPost, path, body)
}

// HTTPPut issues a PUT with a JSON body against the test server.
func (e *Env) HTTPPut(path string, body interface{}) (*http.Response, error) {
	return e.do(http.MethodPut, path, body)
}

// HTTPDelete issues a DELETE against the test server.
func (e *Env) HTTPDelete(path string) (*http.Response, error) {
	return e.do(http.MethodDelete, path, nil)
}

func (e *Env) do(method, path string, body interface{}) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequest(method, e.HTTP.URL+path, &buf)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return http.DefaultClient.Do(req)
}
