package router

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-shop-api/internal/blob"
	"go-shop-api/internal/config"
	"go-shop-api/internal/handler"
	"go-shop-api/internal/middleware"
	"go-shop-api/internal/model"
	"go-shop-api/internal/repository"
	"go-shop-api/internal/service"
)

const (
	testSecret   = "test-secret"
	testPassword = "admin123"
)

type testEnv struct {
	server   *httptest.Server
	products *repository.MockProductRepository
	carts    *repository.MockCartRepository
	blobDir  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	blobRoot := t.TempDir()
	store, err := blob.NewDiskStore(blobRoot, "product-images", "")
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	identity := model.AdminIdentity{Username: "admin", PasswordHash: string(hash)}
	authService := service.NewAuthService(identity, testSecret, time.Hour)

	products := new(repository.MockProductRepository)
	carts := new(repository.MockCartRepository)

	cfg := &config.Config{
		ServerPort:       "8080",
		RequestTimeout:   30 * time.Second,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     0,
		AuthRateLimitRPM: 1000,
		MaxUploadSize:    10 * 1024 * 1024,
	}

	appRouter := New(cfg, middleware.NewAuthMiddleware(authService), Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Product: handler.NewProductHandler(service.NewCatalogService(products, store, 64), cfg.MaxUploadSize),
		Cart:    handler.NewCartHandler(service.NewCartService(carts)),
		Media:   handler.NewMediaHandler(store),
	})

	server := httptest.NewServer(appRouter)
	t.Cleanup(server.Close)

	return &testEnv{
		server:   server,
		products: products,
		carts:    carts,
		blobDir:  filepath.Join(blobRoot, "product-images"),
	}
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()

	body, err := json.Marshal(map[string]string{"username": "admin", "password": testPassword})
	require.NoError(t, err)

	resp, err := http.Post(e.server.URL+"/admin/enter", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	require.NotEmpty(t, parsed.Data.Token)
	return parsed.Data.Token
}

func (e *testEnv) blobCount(t *testing.T) int {
	t.Helper()

	entries, err := os.ReadDir(e.blobDir)
	require.NoError(t, err)
	return len(entries)
}

func (e *testEnv) do(t *testing.T, method, path, token string, body io.Reader, contentType string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, e.server.URL+path, body)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func productForm(t *testing.T, withImage bool) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("name", "mug"))
	require.NoError(t, writer.WriteField("price", "9.99"))
	require.NoError(t, writer.WriteField("description", "a mug"))
	require.NoError(t, writer.WriteField("quantity", "3"))

	if withImage {
		part, err := writer.CreateFormFile("image", "mug.png")
		require.NoError(t, err)
		require.NoError(t, png.Encode(part, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	}

	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestLiveness(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Server is up and running", string(body))
}

func TestAdminEnter_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)

	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	resp, err := http.Post(env.server.URL+"/admin/enter", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(raw), "token")
}

func TestPrivilegedRoutes_RejectWithoutAdminToken(t *testing.T) {
	env := newTestEnv(t)

	// Missing token
	resp := env.do(t, http.MethodDelete, "/products/p1", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Garbage token
	resp = env.do(t, http.MethodDelete, "/products/p1", "garbage", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Expired token, signed with the right secret
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "admin",
		"role":     model.RoleAdmin,
		"exp":      time.Now().Add(-time.Minute).Unix(),
	})
	expiredToken, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)
	resp = env.do(t, http.MethodDelete, "/products/p1", expiredToken, nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Valid signature but not an admin
	viewer := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "bob",
		"role":     "viewer",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	viewerToken, err := viewer.SignedString([]byte(testSecret))
	require.NoError(t, err)
	resp = env.do(t, http.MethodDelete, "/products/p1", viewerToken, nil, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	env.products.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestAddProduct_MissingImage(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	body, contentType := productForm(t, false)
	resp := env.do(t, http.MethodPost, "/products/add-product", token, body, contentType)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Nothing was written anywhere.
	assert.Zero(t, env.blobCount(t))
	env.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAddProduct_CreatesDocumentAndBlob(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	var stored model.Product
	env.products.On("Create", mock.Anything, mock.AnythingOfType("model.Product")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(model.Product) }).
		Return(nil).Once()

	body, contentType := productForm(t, true)
	resp := env.do(t, http.MethodPost, "/products/add-product", token, body, contentType)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var parsed struct {
		Data model.Product `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.Equal(t, "mug", parsed.Data.Name)
	assert.Equal(t, 9.99, parsed.Data.Price)
	require.NotEmpty(t, parsed.Data.ImageURL)
	assert.Equal(t, stored.ImageURL, parsed.Data.ImageURL)

	// One image blob plus its thumbnail.
	assert.Equal(t, 2, env.blobCount(t))

	// The public URL resolves against this server.
	mediaResp, err := http.Get(env.server.URL + parsed.Data.ImageURL)
	require.NoError(t, err)
	defer mediaResp.Body.Close()
	assert.Equal(t, http.StatusOK, mediaResp.StatusCode)
	assert.Equal(t, "image/png", mediaResp.Header.Get("Content-Type"))
}

func TestListProducts_Public(t *testing.T) {
	env := newTestEnv(t)

	env.products.On("List", mock.Anything).
		Return([]model.Product{{ID: "p1", Name: "mug"}}, nil).Once()

	resp, err := http.Get(env.server.URL + "/products/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed struct {
		Data []model.Product `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	require.Len(t, parsed.Data, 1)
	assert.Equal(t, "p1", parsed.Data[0].ID)
}

func TestGetProduct_NotFound(t *testing.T) {
	env := newTestEnv(t)

	env.products.On("FindByID", mock.Anything, "missing").
		Return(model.Product{}, model.ErrProductNotFound).Once()

	resp, err := http.Get(env.server.URL + "/products/missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	env.products.On("FindByID", mock.Anything, "missing").
		Return(model.Product{}, model.ErrProductNotFound).Once()

	body, contentType := productForm(t, false)
	resp := env.do(t, http.MethodPut, "/products/missing", token, body, contentType)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	env.products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteProduct(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	env.products.On("Delete", mock.Anything, "missing").Return(model.ErrProductNotFound).Once()
	resp := env.do(t, http.MethodDelete, "/products/missing", token, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	env.products.On("Delete", mock.Anything, "p1").Return(nil).Once()
	resp = env.do(t, http.MethodDelete, "/products/p1", token, nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCartRoutes_RequireUserIDHeader(t *testing.T) {
	env := newTestEnv(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/cart/"},
		{http.MethodPost, "/cart/"},
		{http.MethodDelete, "/cart/p1"},
	} {
		resp := env.do(t, route.method, route.path, "", strings.NewReader("{}"), "application/json")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "%s %s", route.method, route.path)
	}
}

func TestCartRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	doCart := func(method, path string, body io.Reader) *http.Response {
		req, err := http.NewRequest(method, env.server.URL+path, body)
		require.NoError(t, err)
		req.Header.Set("user-id", "u1")
		req.Header.Set("Content-Type", "application/json")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { _ = resp.Body.Close() })
		return resp
	}

	// Merge items in.
	env.carts.On("Save", mock.Anything, "u1", []model.CartItem{{ProductID: "p1"}}).Return(nil).Once()
	resp := doCart(http.MethodPost, "/cart/", strings.NewReader(`{"items":[{"productId":"p1"}]}`))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Fetch them back.
	env.carts.On("Find", mock.Anything, "u1").
		Return(model.Cart{UserID: "u1", Items: []model.CartItem{{ProductID: "p1"}}}, nil).Once()
	resp = doCart(http.MethodGet, "/cart/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed struct {
		Data model.Cart `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	require.Len(t, parsed.Data.Items, 1)
	assert.Equal(t, "p1", parsed.Data.Items[0].ProductID)

	// Remove the item.
	env.carts.On("Find", mock.Anything, "u1").
		Return(model.Cart{UserID: "u1", Items: []model.CartItem{{ProductID: "p1"}}}, nil).Once()
	env.carts.On("Save", mock.Anything, "u1", []model.CartItem{}).Return(nil).Once()
	resp = doCart(http.MethodDelete, "/cart/p1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCartMerge_InvalidItems(t *testing.T) {
	env := newTestEnv(t)

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/cart/", strings.NewReader(`{"items":[{"quantity":2}]}`))
	require.NoError(t, err)
	req.Header.Set("user-id", "u1")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	env.carts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartGet_NotFound(t *testing.T) {
	env := newTestEnv(t)

	env.carts.On("Find", mock.Anything, "u1").Return(model.Cart{}, model.ErrCartNotFound).Once()

	req, err := http.NewRequest(http.MethodGet, env.server.URL+"/cart/", nil)
	require.NoError(t, err)
	req.Header.Set("user-id", "u1")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMedia_MissingBlob(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/media/nope.png")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
