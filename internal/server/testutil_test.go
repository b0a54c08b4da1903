package server

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/blogverse/backend/internal/config"
	"github.com/blogverse/backend/internal/database"
	"github.com/blogverse/backend/internal/models"
	"github.com/blogverse/backend/internal/notify"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:      "0",
		JWTSecret: "test-secret",
		UploadDir: t.TempDir(),
		OTPTTL:    10 * time.Minute,
	}
}

// newTestRouter builds the real route table on top of a fresh in-memory
// sqlite database.
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := testConfig(t)
	router := NewRouter(cfg, db, notify.New(cfg), nil)
	return router, db
}

// jar is a minimal cookie jar for walking multi-step flows.
type jar struct {
	cookies map[string]*http.Cookie
}

func newJar() *jar {
	return &jar{cookies: make(map[string]*http.Cookie)}
}

func (j *jar) update(resp *http.Response) {
	for _, c := range resp.Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(j.cookies, c.Name)
			continue
		}
		j.cookies[c.Name] = c
	}
}

func (j *jar) apply(req *http.Request) {
	for _, c := range j.cookies {
		req.AddCookie(c)
	}
}

func doForm(t *testing.T, router *gin.Engine, j *jar, method, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if j != nil {
		j.apply(req)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if j != nil {
		j.update(w.Result())
	}
	return w
}

// pendingCode reads the OTP straight from the pending-verification row,
// standing in for the email/SMS the user would receive.
func pendingCode(t *testing.T, db *gorm.DB, gmail, purpose string) string {
	t.Helper()

	var pending models.PendingVerification
	err := db.Where("gmail = ? AND purpose = ?", gmail, purpose).
		Order("created_at desc").First(&pending).Error
	require.NoError(t, err)
	return pending.Code
}

// register walks the full register and verify-OTP flow for a new account.
func register(t *testing.T, router *gin.Engine, db *gorm.DB, name, gmail, password string) {
	t.Helper()

	j := newJar()
	w := doForm(t, router, j, http.MethodPost, "/register", url.Values{
		"name":     {name},
		"gmail":    {gmail},
		"password": {password},
		"confirm":  {password},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "verify_otp")

	code := pendingCode(t, db, gmail, models.PurposeRegister)
	w = doForm(t, router, j, http.MethodPost, "/verify_otp", url.Values{"otp": {code}})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))
}

// login returns a jar holding a valid session cookie.
func login(t *testing.T, router *gin.Engine, gmail, password string) *jar {
	t.Helper()

	j := newJar()
	w := doForm(t, router, j, http.MethodPost, "/login", url.Values{
		"gmail":    {gmail},
		"password": {password},
	})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
	return j
}

// signUp registers and logs in, returning the authenticated jar.
func signUp(t *testing.T, router *gin.Engine, db *gorm.DB, name, gmail, password string) *jar {
	t.Helper()
	register(t, router, db, name, gmail, password)
	return login(t, router, gmail, password)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func userByGmail(t *testing.T, db *gorm.DB, gmail string) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.Where("gmail = ?", gmail).First(&user).Error)
	return &user
}
