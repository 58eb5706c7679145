package shopify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelopoggi/PFSH-Parser/internal/config"
	apperrors "github.com/angelopoggi/PFSH-Parser/pkg/errors"
)

func TestNewClientNormalizesShopDomain(t *testing.T) {
	c := NewClient(config.ShopifyConfig{ShopDomain: "https://jcbean.myshopify.com/", AccessToken: "tok", APIVersion: "2024-04"}, nil)
	assert.Equal(t, "https://jcbean.myshopify.com/admin/api/2024-04", c.baseURL)
}

func TestClientAttachesAccessToken(t *testing.T) {
	var gotToken, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Shopify-Access-Token")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL+"/admin/api/2024-04/", "shpat_abc", nil)
	resp, err := c.Get(context.Background(), "/orders/1.json", nil)
	require.NoError(t, err)

	assert.Equal(t, "shpat_abc", gotToken)
	assert.Equal(t, "/admin/api/2024-04/orders/1.json", gotPath)
	assert.True(t, resp.IsJSON())
}

func TestClientNonSuccessIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":"bad"}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL, "tok", nil)
	_, err := c.Post(context.Background(), "orders/5/close.json", nil)

	var apiErr *apperrors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, http.MethodPost, apiErr.Method)
	assert.Equal(t, `{"errors":"bad"}`, apiErr.Body)
}

func TestClientConnectionFailureIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClientWithBaseURL(url, "tok", nil)
	_, err := c.Get(context.Background(), "orders.json", nil)

	var te *apperrors.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "GET /orders.json", te.Op)
}

func TestNextPageURL(t *testing.T) {
	tests := []struct {
		name string
		link string
		want string
	}{
		{"empty", "", ""},
		{"next only", `<https://s.myshopify.com/admin/api/2024-04/orders.json?page_info=abc&limit=250>; rel="next"`,
			"https://s.myshopify.com/admin/api/2024-04/orders.json?page_info=abc&limit=250"},
		{"previous and next", `<https://s/a?page_info=p>; rel="previous", <https://s/a?page_info=n>; rel="next"`, "https://s/a?page_info=n"},
		{"previous only", `<https://s/a?page_info=p>; rel="previous"`, ""},
		{"malformed", `https://s/a; rel="next"`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextPageURL(tt.link))
		})
	}
}
