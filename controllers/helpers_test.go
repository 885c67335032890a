package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/atmacsn/agriadmin/auth"
	"github.com/atmacsn/agriadmin/controllers"
	"github.com/atmacsn/agriadmin/events"
	"github.com/atmacsn/agriadmin/metrics"
	"github.com/atmacsn/agriadmin/models"
	"github.com/atmacsn/agriadmin/ratelimit"
	"github.com/atmacsn/agriadmin/repository"
	"github.com/atmacsn/agriadmin/routes"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type envelope struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

type listPage[T any] struct {
	Data         []T   `json:"data"`
	Page         int   `json:"page"`
	PerPage      int   `json:"perPage"`
	CurrentCount int   `json:"currentCount"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) ofType(eventType string) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Event
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

type fakeObjectStore struct {
	names []string
	types []string
	sizes []int64
}

func (s *fakeObjectStore) Put(_ context.Context, name string, body io.Reader, size int64, contentType string) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	s.names = append(s.names, name)
	s.types = append(s.types, contentType)
	s.sizes = append(s.sizes, size)
	return "https://cdn.example.com/" + name, nil
}

type testEnv struct {
	t      *testing.T
	router *gin.Engine
	stores *repository.Stores
	tokens *auth.TokenService
	events *recordingPublisher
	files  *fakeObjectStore
}

func newEnv(t *testing.T, configure ...func(*controllers.Options)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	stores := repository.NewMemoryStores()
	ledger := repository.NewTokenLedger(stores.Revoked)
	tokens := auth.NewTokenService(auth.TokenConfig{AccessSecret: "access-secret", RefreshSecret: "refresh-secret"})
	pub := &recordingPublisher{}
	files := &fakeObjectStore{}
	logger, _ := test.NewNullLogger()
	m := metrics.New()

	opts := controllers.Options{
		Stores:            stores,
		Tokens:            tokens,
		Ledger:            ledger,
		Cookies:           auth.CookieConfig{Secure: true},
		Events:            pub,
		Metrics:           m,
		Logger:            logger,
		Files:             files,
		AdminRegistration: true,
	}
	for _, fn := range configure {
		fn(&opts)
	}

	router := routes.NewRouter(routes.Options{
		Controller:   controllers.New(opts),
		Tokens:       tokens,
		Ledger:       ledger,
		Metrics:      m,
		LoginLimiter: ratelimit.NewMemoryLimiter(100, time.Minute),
		Logger:       logger,
	})
	return &testEnv{t: t, router: router, stores: stores, tokens: tokens, events: pub, files: files}
}

type request struct {
	method  string
	path    string
	body    any
	token   string
	cookies []*http.Cookie
}

func (e *testEnv) do(r request) (*httptest.ResponseRecorder, envelope) {
	e.t.Helper()
	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		require.NoError(e.t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(r.method, r.path, body)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	for _, c := range r.cookies {
		req.AddCookie(c)
	}
	return e.serve(req)
}

func (e *testEnv) serve(req *http.Request) (*httptest.ResponseRecorder, envelope) {
	e.t.Helper()
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out), string(env.Data))
	return out
}

func refreshCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.RefreshCookieName {
			return c
		}
	}
	return nil
}

// seedAccount stores an account directly and returns it with an access
// token for it.
func (e *testEnv) seedAccount(email, password string, role models.Role, subDistrict *bson.ObjectID) (*models.Account, string) {
	e.t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(e.t, err)

	now := time.Now().UTC()
	account := &models.Account{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		SubDistrict:  subDistrict,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	id, err := e.stores.Accounts.Insert(context.Background(), account)
	require.NoError(e.t, err)
	account.ID = id

	token, _, err := e.tokens.IssueAccess(account)
	require.NoError(e.t, err)
	return account, token
}

type geography struct {
	district    bson.ObjectID
	subDistrict bson.ObjectID
	village     bson.ObjectID
}

// seedGeography creates one district with one sub-district holding one
// village. Codes are derived from prefix.
func (e *testEnv) seedGeography(prefix string) geography {
	e.t.Helper()
	ctx := context.Background()

	districtID, err := e.stores.Districts.Insert(ctx, &models.District{DistrictCode: prefix + "-D", DistrictName: prefix + " District"})
	require.NoError(e.t, err)
	subID, err := e.stores.SubDistricts.Insert(ctx, &models.SubDistrict{
		SubDistrictCode: prefix + "-SD",
		SubDistrictName: prefix + " Taluka",
		District:        districtID,
	})
	require.NoError(e.t, err)
	villageID, err := e.stores.Villages.Insert(ctx, &models.Village{
		VillageCode: prefix + "-V",
		VillageName: prefix + " Village",
		SubDistrict: subID,
	})
	require.NoError(e.t, err)
	return geography{district: districtID, subDistrict: subID, village: villageID}
}

func (e *testEnv) seedFarmer(name string, g geography, owner bson.ObjectID) bson.ObjectID {
	e.t.Helper()
	id, err := e.stores.Farmers.Insert(context.Background(), &models.Farmer{
		Name:        name,
		Village:     g.village,
		SubDistrict: g.subDistrict,
		User:        owner,
		Status:      models.StatusPending,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	})
	require.NoError(e.t, err)
	return id
}

func errorFields(t *testing.T, env envelope) []string {
	t.Helper()
	data := decodeData[struct {
		Errors []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}](t, env)
	fields := make([]string, 0, len(data.Errors))
	for _, e := range data.Errors {
		fields = append(fields, e.Field)
	}
	return fields
}
