package devproxy

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidates(t *testing.T) {
	_, err := New("luoxu_api", "http://example.com")
	assert.Error(t, err)
	_, err = New("/", "http://example.com")
	assert.Error(t, err)
	_, err = New("/luoxu_api", "example.com")
	assert.Error(t, err)
	_, err = New("/luoxu_api", "http://example.com:9008")
	assert.NoError(t, err)
}

func TestMatchAndRewrite(t *testing.T) {
	p, err := New("/luoxu_api", "http://example.com")
	require.NoError(t, err)

	assert.True(t, p.Match("/luoxu_api"))
	assert.True(t, p.Match("/luoxu_api/search"))
	assert.True(t, p.Match("/luoxu_apis"))
	assert.False(t, p.Match("/luoxu"))
	assert.False(t, p.Match("/api/config"))

	assert.Equal(t, "/", p.Rewrite("/luoxu_api"))
	assert.Equal(t, "/search", p.Rewrite("/luoxu_api/search"))
	assert.Equal(t, "/a/b/", p.Rewrite("/luoxu_api/a/b/"))
	assert.Equal(t, "/s", p.Rewrite("/luoxu_apis"))
}

func TestProxyForwardsStrippedPath(t *testing.T) {
	type seen struct {
		path, query, host, origin string
	}
	got := make(chan seen, 1)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- seen{r.URL.Path, r.URL.RawQuery, r.Host, r.Header.Get("Origin")}
		_, _ = io.WriteString(w, "upstream")
	}))
	defer upstream.Close()

	p, err := New("/luoxu_api", upstream.URL)
	require.NoError(t, err)
	front := httptest.NewServer(p)
	defer front.Close()

	req, err := http.NewRequest(http.MethodGet, front.URL+"/luoxu_api/groups/search?q=go", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "upstream", string(body))

	s := <-got
	u, _ := url.Parse(upstream.URL)
	assert.Equal(t, "/groups/search", s.path)
	assert.Equal(t, "q=go", s.query)
	assert.Equal(t, u.Host, s.host)
	assert.Equal(t, upstream.URL, s.origin)
}

func TestProxyTargetWithBasePath(t *testing.T) {
	got := make(chan string, 1)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r.URL.Path
	}))
	defer upstream.Close()

	p, err := New("/luoxu_api", upstream.URL+"/v1/")
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	p.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/luoxu_api/items", nil))
	assert.Equal(t, "/v1/items", <-got)
}

func TestProxyIgnoresOtherPaths(t *testing.T) {
	p, err := New("/luoxu_api", "http://example.com")
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	p.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/config", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestProxyUpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	target := upstream.URL
	upstream.Close()

	p, err := New("/luoxu_api", target)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	p.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/luoxu_api/x", nil))
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}
