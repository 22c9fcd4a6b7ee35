package pvwatts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pvsizer/entity"
	"pvsizer/internal/config"
	"pvsizer/metrics/counters"
	"pvsizer/utility"
)

// Client calls the NREL PVWatts v8 simulation API. One blocking request with
// a bounded timeout; retries are the caller's concern.
type Client struct {
	client     *http.Client
	url        string
	apiKey     string
	timeout    time.Duration
	moduleType int
	losses     float64
	arrayType  int
}

type response struct {
	Errors  []string `json:"errors"`
	Outputs struct {
		ACAnnual  float64   `json:"ac_annual"`
		ACMonthly []float64 `json:"ac_monthly"`
		Errors    []string  `json:"errors"`
	} `json:"outputs"`
}

func New(conf *config.Config) (*Client, error) {
	if conf.Pvwatts.ApiKey == "" {
		return nil, utility.Err("missed ApiKey parameter in PVWatts configuration")
	}
	return &Client{
		client:     &http.Client{},
		url:        conf.Pvwatts.Url,
		apiKey:     conf.Pvwatts.ApiKey,
		timeout:    time.Duration(conf.Pvwatts.TimeoutSeconds) * time.Second,
		moduleType: conf.Pvwatts.ModuleType,
		losses:     conf.Pvwatts.Losses,
		arrayType:  conf.Pvwatts.ArrayType,
	}, nil
}

// EstimateYield simulates a system of the given capacity in kW and returns
// its annual energy in kWh plus the monthly series when the API provides one.
func (c *Client) EstimateYield(site entity.Site, capacityKw float64) (*entity.YieldEstimate, error) {
	if capacityKw <= 0 {
		return nil, utility.Err("capacity must be positive")
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("system_capacity", strconv.FormatFloat(capacityKw, 'f', -1, 64))
	params.Set("module_type", strconv.Itoa(c.moduleType))
	params.Set("losses", strconv.FormatFloat(c.losses, 'f', -1, 64))
	params.Set("array_type", strconv.Itoa(c.arrayType))
	params.Set("lat", strconv.FormatFloat(site.Latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(site.Longitude, 'f', -1, 64))
	params.Set("azimuth", strconv.FormatFloat(site.Azimuth, 'f', -1, 64))
	params.Set("tilt", strconv.FormatFloat(site.Tilt, 'f', -1, 64))

	body, err := c.doRequest(params)
	if err != nil {
		counters.CountEstimatorRequest("error")
		return nil, err
	}

	var data response
	if err = json.Unmarshal(body, &data); err != nil {
		counters.CountEstimatorRequest("error")
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if len(data.Errors) > 0 {
		counters.CountEstimatorRequest("error")
		return nil, fmt.Errorf("api error: %s", strings.Join(data.Errors, "; "))
	}
	if len(data.Outputs.Errors) > 0 {
		counters.CountEstimatorRequest("error")
		return nil, fmt.Errorf("api error: %s", strings.Join(data.Outputs.Errors, "; "))
	}
	counters.CountEstimatorRequest("ok")

	estimate := &entity.YieldEstimate{
		Annual: data.Outputs.ACAnnual,
	}
	if len(data.Outputs.ACMonthly) == 12 {
		estimate.Monthly = data.Outputs.ACMonthly
	}
	return estimate, nil
}

func (c *Client) doRequest(params url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	requestUrl := fmt.Sprintf("%s?%s", c.url, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestUrl, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}
