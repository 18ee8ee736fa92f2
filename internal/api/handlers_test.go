// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/tripwise/internal/catalog"
	"github.com/tomtom215/tripwise/internal/inference"
	"github.com/tomtom215/tripwise/internal/middleware"
	"github.com/tomtom215/tripwise/internal/recommend"
)

// fixedScorer returns preset scores for known place IDs.
type fixedScorer struct {
	scores map[string]float64
	err    error
}

func (s *fixedScorer) Name() string { return "fixed" }

func (s *fixedScorer) Score(ctx context.Context, req *inference.Request) (inference.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	var resp inference.Response
	for _, p := range req.Places {
		if v, ok := s.scores[p.ID]; ok {
			resp = append(resp, inference.Score{PlaceID: p.ID, Score: v})
		}
	}
	return resp, nil
}

type fakeBreaker string

func (b fakeBreaker) State() string { return string(b) }

func beachPlace() recommend.Place {
	return recommend.Place{
		ID:         "p1",
		Name:       "Unawatuna Beach",
		PlaceTypes: []string{recommend.PlaceTypeBeach},
		Images:     []string{"unawatuna.jpg"},
		Suitability: recommend.Suitability{
			AgeRange:      &recommend.AgeRange{Min: 18, Max: 45},
			GenderNeutral: recommend.Bool(true),
			Hobbies:       []string{recommend.HobbySurfing},
			Climates:      []string{recommend.ClimateTropical},
		},
	}
}

func templePlace() recommend.Place {
	return recommend.Place{
		ID:         "p2",
		Name:       "Temple of the Tooth",
		PlaceTypes: []string{recommend.PlaceTypeReligious, recommend.PlaceTypeHistorical},
		Suitability: recommend.Suitability{
			Hobbies:  []string{recommend.HobbySightseeing},
			Climates: []string{recommend.ClimateTemperate},
		},
	}
}

type testEnv struct {
	server *httptest.Server
	store  catalog.Store
}

type envOptions struct {
	scorer  inference.Scorer
	policy  recommend.FallbackPolicy
	breaker BreakerStatus
	mw      *ChiMiddlewareConfig
	// wrap replaces the seeded store handed to the handler.
	wrap func(catalog.Store) catalog.Store
}

// failingCountStore reports every Count as a storage failure.
type failingCountStore struct {
	catalog.Store
}

func (failingCountStore) Count(context.Context) (int, error) {
	return 0, errors.New("catalog offline")
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()

	cfg := recommend.DefaultConfig()
	if opts.policy != "" {
		cfg.FallbackPolicy = opts.policy
	}
	engine, err := recommend.NewEngine(cfg, opts.scorer, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	store := catalog.NewMemoryStore()
	pkg := &catalog.TourPackage{
		ID:       "south-coast",
		Name:     "Southern Coast Explorer",
		Duration: "5 days",
		District: "Galle",
		Places:   []recommend.Place{templePlace(), beachPlace()},
	}
	if err := store.Put(context.Background(), pkg); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var served catalog.Store = store
	if opts.wrap != nil {
		served = opts.wrap(store)
	}
	handler, err := NewHandler(HandlerDeps{
		Engine:  engine,
		Store:   served,
		Backend: "python3 ml/predict.py",
		Breaker: opts.breaker,
		Version: "test",
	})
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}

	mw := opts.mw
	if mw == nil {
		mw = DefaultChiMiddlewareConfig()
		mw.RateLimitDisabled = true
	}
	srv := httptest.NewServer(NewRouter(handler, mw, zerolog.Nop()).SetupChi())
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, store: store}
}

type envelope struct {
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data"`
	Metadata struct {
		RequestID string `json:"request_id"`
		Cached    bool   `json:"cached"`
	} `json:"metadata"`
	Error *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*http.Response, envelope) {
	t.Helper()
	req, err := http.NewRequestWithContext(t.Context(), method, e.server.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode %s %s: %v", method, path, err)
	}
	return resp, env
}

type recommendationsData struct {
	Package *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"package"`
	UserPreferences struct {
		Age    int    `json:"age"`
		Gender string `json:"gender"`
	} `json:"userPreferences"`
	Recommendations []struct {
		ID             string   `json:"id"`
		Score          float64  `json:"score"`
		RuleScore      int      `json:"ruleScore"`
		ExternalScore  *float64 `json:"externalScore"`
		WhyRecommended []string `json:"whyRecommended"`
		Images         []string `json:"images"`
	} `json:"recommendations"`
	Algorithm    string `json:"algorithm"`
	ModelVersion string `json:"modelVersion"`
	Degraded     bool   `json:"degraded"`
}

const surferPrefs = `{"age":30,"gender":"Male","placeType":["Beach"],"hobby":["Surfing"],"climate":"Tropical"}`

func TestCustomizePackage_Hybrid(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{scorer: &fixedScorer{scores: map[string]float64{"p1": 90, "p2": 40}}})

	resp, body := env.do(t, http.MethodPost, "/api/v1/packages/south-coast/customize", surferPrefs)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, error = %+v", resp.StatusCode, body.Error)
	}
	if resp.Header.Get(middleware.RequestIDHeader) == "" {
		t.Error("response should carry a request ID header")
	}
	if body.Metadata.RequestID != resp.Header.Get(middleware.RequestIDHeader) {
		t.Errorf("metadata request_id = %q, header = %q", body.Metadata.RequestID, resp.Header.Get(middleware.RequestIDHeader))
	}

	var data recommendationsData
	if err := json.Unmarshal(body.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.Package == nil || data.Package.ID != "south-coast" {
		t.Errorf("package = %+v", data.Package)
	}
	if data.Algorithm != recommend.AlgorithmHybrid || data.ModelVersion != "1.0" {
		t.Errorf("algorithm = %q, modelVersion = %q", data.Algorithm, data.ModelVersion)
	}
	if data.UserPreferences.Gender != "male" {
		t.Errorf("gender = %q, want normalized male", data.UserPreferences.Gender)
	}
	if len(data.Recommendations) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(data.Recommendations))
	}
	top := data.Recommendations[0]
	if top.ID != "p1" || top.RuleScore != 100 || top.Score != 94 {
		t.Errorf("top = %+v, want p1 with rule 100 and score 94", top)
	}
	if top.ExternalScore == nil || *top.ExternalScore != 90 {
		t.Errorf("externalScore = %v, want 90", top.ExternalScore)
	}
	if len(top.WhyRecommended) == 0 || top.WhyRecommended[0] != recommend.ReasonHighlyRecommended {
		t.Errorf("whyRecommended = %v", top.WhyRecommended)
	}
	if data.Recommendations[1].Images == nil {
		t.Error("images should be an empty array, not null")
	}
}

func TestCustomizePackage_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     envOptions
		path     string
		body     string
		wantCode int
		wantErr  string
	}{
		{
			name:     "age zero",
			path:     "/api/v1/packages/south-coast/customize",
			body:     `{"age":0}`,
			wantCode: http.StatusBadRequest,
			wantErr:  "VALIDATION_ERROR",
		},
		{
			name:     "age above range",
			path:     "/api/v1/packages/south-coast/customize",
			body:     `{"age":150}`,
			wantCode: http.StatusBadRequest,
			wantErr:  "VALIDATION_ERROR",
		},
		{
			name:     "unknown place type",
			path:     "/api/v1/packages/south-coast/customize",
			body:     `{"age":30,"placeType":["Volcano"]}`,
			wantCode: http.StatusBadRequest,
			wantErr:  "VALIDATION_ERROR",
		},
		{
			name:     "malformed body",
			path:     "/api/v1/packages/south-coast/customize",
			body:     `{"age":`,
			wantCode: http.StatusBadRequest,
			wantErr:  "VALIDATION_ERROR",
		},
		{
			name:     "empty body",
			path:     "/api/v1/packages/south-coast/customize",
			body:     ``,
			wantCode: http.StatusBadRequest,
			wantErr:  "VALIDATION_ERROR",
		},
		{
			name:     "unknown package",
			path:     "/api/v1/packages/nowhere/customize",
			body:     surferPrefs,
			wantCode: http.StatusNotFound,
			wantErr:  "NOT_FOUND",
		},
		{
			name: "strict policy propagates backend failure",
			opts: envOptions{
				scorer: &fixedScorer{err: &inference.NonZeroExitError{ExitCode: 2, Stderr: "boom"}},
				policy: recommend.FallbackStrict,
			},
			path:     "/api/v1/packages/south-coast/customize",
			body:     surferPrefs,
			wantCode: http.StatusServiceUnavailable,
			wantErr:  "INFERENCE_UNAVAILABLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, tt.opts)
			resp, body := env.do(t, http.MethodPost, tt.path, tt.body)
			if resp.StatusCode != tt.wantCode {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantCode)
			}
			if body.Status != "error" || body.Error == nil || body.Error.Code != tt.wantErr {
				t.Fatalf("body = %+v, want error code %s", body, tt.wantErr)
			}
		})
	}
}

func TestCustomizePackage_RuleOnlyFallback(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{scorer: &fixedScorer{err: errors.New("backend exploded")}})

	resp, body := env.do(t, http.MethodPost, "/api/v1/packages/south-coast/customize", surferPrefs)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var data recommendationsData
	if err := json.Unmarshal(body.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.Algorithm != recommend.AlgorithmRuleBased || !data.Degraded {
		t.Errorf("algorithm = %q, degraded = %v", data.Algorithm, data.Degraded)
	}
	top := data.Recommendations[0]
	if top.ExternalScore != nil || top.Score != 100 {
		t.Errorf("top = %+v, want rule score only", top)
	}
}

func TestRecommendations(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	places, err := json.Marshal([]recommend.Place{templePlace(), beachPlace()})
	if err != nil {
		t.Fatal(err)
	}
	body := `{"preferences":` + surferPrefs + `,"places":` + string(places) + `}`

	resp, env2 := env.do(t, http.MethodPost, "/api/v1/recommendations", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, error = %+v", resp.StatusCode, env2.Error)
	}

	var data recommendationsData
	if err := json.Unmarshal(env2.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.Package != nil {
		t.Error("ad-hoc recommendations carry no package")
	}
	if data.Algorithm != recommend.AlgorithmRuleBased || data.Degraded {
		t.Errorf("algorithm = %q, degraded = %v; rules-only mode is not degraded", data.Algorithm, data.Degraded)
	}
	if got := data.Recommendations[0].ID; got != "p1" {
		t.Errorf("top = %q, want p1", got)
	}

	t.Run("no places", func(t *testing.T) {
		resp, body := env.do(t, http.MethodPost, "/api/v1/recommendations", `{"preferences":`+surferPrefs+`,"places":[]}`)
		if resp.StatusCode != http.StatusBadRequest || body.Error.Code != "VALIDATION_ERROR" {
			t.Errorf("status = %d, body = %+v", resp.StatusCode, body.Error)
		}
	})

	t.Run("place without id", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodPost, "/api/v1/recommendations", `{"preferences":`+surferPrefs+`,"places":[{"name":"x"}]}`)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}

func TestPackages(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	resp, body := env.do(t, http.MethodGet, "/api/v1/packages", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var list struct {
		Packages []catalog.TourPackage `json:"packages"`
		Count    int                   `json:"count"`
	}
	if err := json.Unmarshal(body.Data, &list); err != nil {
		t.Fatal(err)
	}
	if list.Count != 1 || list.Packages[0].ID != "south-coast" {
		t.Errorf("list = %+v", list)
	}
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("API responses should carry security headers")
	}

	resp, body = env.do(t, http.MethodGet, "/api/v1/packages/south-coast", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	var pkg catalog.TourPackage
	if err := json.Unmarshal(body.Data, &pkg); err != nil {
		t.Fatal(err)
	}
	if len(pkg.Places) != 2 || pkg.District != "Galle" {
		t.Errorf("package = %+v", pkg)
	}

	resp, body = env.do(t, http.MethodGet, "/api/v1/packages/missing", "")
	if resp.StatusCode != http.StatusNotFound || body.Error.Code != "NOT_FOUND" {
		t.Errorf("missing package: status = %d, body = %+v", resp.StatusCode, body.Error)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	type healthData struct {
		Status   string            `json:"status"`
		Checks   map[string]string `json:"checks"`
		Backend  string            `json:"backend"`
		Breaker  string            `json:"breaker"`
		Packages int               `json:"packages"`
	}

	t.Run("live", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, envOptions{})
		resp, body := env.do(t, http.MethodGet, "/health/live", "")
		if resp.StatusCode != http.StatusOK || body.Status != "success" {
			t.Errorf("status = %d, body = %+v", resp.StatusCode, body)
		}
	})

	t.Run("ready hybrid", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, envOptions{scorer: &fixedScorer{}, breaker: fakeBreaker("closed")})
		resp, body := env.do(t, http.MethodGet, "/health/ready", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		var h healthData
		if err := json.Unmarshal(body.Data, &h); err != nil {
			t.Fatal(err)
		}
		if h.Status != "healthy" || h.Breaker != "closed" || h.Packages != 1 || h.Backend == "" {
			t.Errorf("health = %+v", h)
		}
	})

	t.Run("open breaker with rule fallback is degraded", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, envOptions{scorer: &fixedScorer{}, breaker: fakeBreaker("open")})
		resp, body := env.do(t, http.MethodGet, "/health/ready", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		var h healthData
		if err := json.Unmarshal(body.Data, &h); err != nil {
			t.Fatal(err)
		}
		if h.Status != "degraded" {
			t.Errorf("status = %q, want degraded", h.Status)
		}
	})

	t.Run("open breaker with strict policy is not ready", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, envOptions{
			scorer:  &fixedScorer{},
			breaker: fakeBreaker("open"),
			policy:  recommend.FallbackStrict,
		})
		resp, body := env.do(t, http.MethodGet, "/health/ready", "")
		if resp.StatusCode != http.StatusServiceUnavailable || body.Error == nil {
			t.Fatalf("status = %d, body = %+v", resp.StatusCode, body)
		}
		if body.Error.Code != "INFERENCE_UNAVAILABLE" {
			t.Errorf("code = %q, want INFERENCE_UNAVAILABLE", body.Error.Code)
		}
	})

	t.Run("catalog failure is not ready", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, envOptions{
			scorer:  &fixedScorer{},
			breaker: fakeBreaker("closed"),
			wrap: func(s catalog.Store) catalog.Store {
				return failingCountStore{Store: s}
			},
		})
		resp, body := env.do(t, http.MethodGet, "/health/ready", "")
		if resp.StatusCode != http.StatusServiceUnavailable || body.Error == nil {
			t.Fatalf("status = %d, body = %+v", resp.StatusCode, body)
		}
		if body.Error.Code != "CATALOG_UNAVAILABLE" {
			t.Errorf("code = %q, want CATALOG_UNAVAILABLE", body.Error.Code)
		}
	})
}

func TestNewHandler_RequiresDeps(t *testing.T) {
	t.Parallel()
	if _, err := NewHandler(HandlerDeps{}); err == nil {
		t.Error("expected error without engine")
	}
	engine, err := recommend.NewEngine(recommend.DefaultConfig(), nil, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewHandler(HandlerDeps{Engine: engine}); err == nil {
		t.Error("expected error without store")
	}
}
