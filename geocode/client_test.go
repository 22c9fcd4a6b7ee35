package geocode

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"pvsizer/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	conf := &config.Config{}
	conf.Geocode.Enabled = true
	conf.Geocode.Url = server.URL
	conf.Geocode.UserAgent = "pvsizer-test"
	conf.Geocode.TimeoutSeconds = 5
	return New(conf)
}

func TestLookup_ReturnsCoordinates(t *testing.T) {
	var query, userAgent string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("q")
		userAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`[{"lat":"-20.4600","lon":"-54.6200"}]`))
	})

	lat, lon, err := client.Lookup("Campo Grande")
	require.NoError(t, err)
	assert.InDelta(t, -20.46, lat, 1e-9)
	assert.InDelta(t, -54.62, lon, 1e-9)
	assert.Equal(t, "Campo Grande", query)
	assert.Equal(t, "pvsizer-test", userAgent)
}

func TestLookup_NoMatch(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	_, _, err := client.Lookup("nowhere at all")
	assert.Error(t, err)
}

func TestLookup_EmptyName(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	_, _, err := client.Lookup("")
	assert.Error(t, err)
}

func TestLookup_Non200(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	_, _, err := client.Lookup("Campo Grande")
	assert.Error(t, err)
}

func TestNew_DisabledReturnsNil(t *testing.T) {
	conf := &config.Config{}
	assert.Nil(t, New(conf))
}
