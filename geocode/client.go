package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"pvsizer/internal/config"
	"pvsizer/utility"
)

// Client resolves place names to coordinates via the Nominatim search API.
type Client struct {
	client    *http.Client
	url       string
	userAgent string
	timeout   time.Duration
}

type place struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func New(conf *config.Config) *Client {
	if !conf.Geocode.Enabled {
		return nil
	}
	return &Client{
		client:    &http.Client{},
		url:       conf.Geocode.Url,
		userAgent: conf.Geocode.UserAgent,
		timeout:   time.Duration(conf.Geocode.TimeoutSeconds) * time.Second,
	}
}

// Lookup returns the coordinates of the best match for the given place name.
func (c *Client) Lookup(name string) (lat, lon float64, err error) {
	if name == "" {
		return 0, 0, utility.Err("empty location name")
	}

	params := url.Values{}
	params.Set("q", name)
	params.Set("format", "json")
	params.Set("limit", "1")

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	requestUrl := fmt.Sprintf("%s?%s", c.url, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestUrl, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("sending request: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, 0, fmt.Errorf("reading response body: %w", err)
	}

	var places []place
	if err = json.Unmarshal(body, &places); err != nil {
		return 0, 0, fmt.Errorf("parsing response: %w", err)
	}
	if len(places) == 0 {
		return 0, 0, utility.Err(fmt.Sprintf("no match for %s", name))
	}

	lat, err = strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing latitude: %w", err)
	}
	lon, err = strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing longitude: %w", err)
	}
	return lat, lon, nil
}
