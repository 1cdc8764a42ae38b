package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/you/booklib/internal/app"
	"github.com/you/booklib/internal/infrastructure/database"
	"github.com/you/booklib/internal/logging"
	"github.com/you/booklib/internal/mocks"
	testconfig "github.com/you/booklib/internal/tests/config"
)

var otpPattern = regexp.MustCompile(`OTP\): ([0-9a-f]+)`)

// TestSuite runs the fully wired service on sqlite and miniredis, with email and bucket captured in memory
type TestSuite struct {
	Container *app.Container
	Server    *httptest.Server
	Redis     *miniredis.Miniredis
	Mailer    *mocks.MockNotificationService
	Storage   *mocks.MockObjectStorage
}

func newSuite(t *testing.T) *TestSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	mr := miniredis.RunT(t)
	suite := &TestSuite{
		Redis:   mr,
		Mailer:  mocks.NewMockNotificationService(),
		Storage: mocks.NewMockObjectStorage(),
	}

	c, err := app.Build(testconfig.LoadTestConfig(), app.Infra{
		DB:      db,
		Redis:   redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		Mailer:  suite.Mailer,
		Storage: suite.Storage,
	}, logging.Nop())
	require.NoError(t, err)
	suite.Container = c
	suite.Server = httptest.NewServer(c.Router)

	t.Cleanup(func() {
		suite.Server.Close()
		_ = c.Close()
	})
	return suite
}

// Response is a decoded API envelope
type Response struct {
	Status  int
	Cookies []*http.Cookie
	Body    map[string]interface{}
}

// Data returns the "data" object of a success envelope
func (r *Response) Data() map[string]interface{} {
	data, _ := r.Body["data"].(map[string]interface{})
	return data
}

func (r *Response) Cookie(name string) *http.Cookie {
	for _, c := range r.Cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Do sends a JSON request. A non-empty token is sent as a Bearer header.
func (s *TestSuite) Do(t *testing.T, method, path, token string, body interface{}, cookies ...*http.Cookie) *Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.Server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return s.send(t, req)
}

func (s *TestSuite) send(t *testing.T, req *http.Request) *Response {
	t.Helper()

	resp, err := s.Server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := &Response{Status: resp.StatusCode, Cookies: resp.Cookies()}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out.Body), string(raw))
	}
	return out
}

// LastOTP extracts the code from the most recent verification email sent to email
func (s *TestSuite) LastOTP(t *testing.T, email string) string {
	t.Helper()

	sent := s.Mailer.Sent()
	for i := len(sent) - 1; i >= 0; i-- {
		if sent[i].To != email {
			continue
		}
		m := otpPattern.FindStringSubmatch(sent[i].Body)
		require.Len(t, m, 2, "no code in %q", sent[i].Body)
		return m[1]
	}
	t.Fatalf("no email sent to %s", email)
	return ""
}
