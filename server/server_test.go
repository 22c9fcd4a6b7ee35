package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pvsizer/entity"
	"pvsizer/internal"
	"pvsizer/internal/config"
	"pvsizer/sizing"
	"pvsizer/utility"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) FeatureEvent(string, string, string) {}
func (nopLogger) Debug(string)                        {}
func (nopLogger) Warn(string)                         {}
func (nopLogger) Error(string, error)                 {}

type fakeDatabase struct {
	panels    []entity.PanelModel
	inverters []entity.InverterModel
	results   []*entity.SizingResult
	log       []internal.FeatureLogMessage
}

func (f *fakeDatabase) WriteLogMessage(internal.Data) error { return nil }
func (f *fakeDatabase) ReadLog() (interface{}, error)       { return f.log, nil }
func (f *fakeDatabase) GetPanels() ([]entity.PanelModel, error) {
	return f.panels, nil
}
func (f *fakeDatabase) GetInverters() ([]entity.InverterModel, error) {
	return f.inverters, nil
}
func (f *fakeDatabase) AddPanel(panel *entity.PanelModel) error {
	for _, p := range f.panels {
		if p.Model == panel.Model {
			return utility.Err(fmt.Sprintf("panel model %s already exists", panel.Model))
		}
	}
	f.panels = append(f.panels, *panel)
	return nil
}
func (f *fakeDatabase) AddInverter(inverter *entity.InverterModel) error {
	for _, i := range f.inverters {
		if i.Model == inverter.Model {
			return utility.Err(fmt.Sprintf("inverter model %s already exists", inverter.Model))
		}
	}
	f.inverters = append(f.inverters, *inverter)
	return nil
}
func (f *fakeDatabase) WriteSizingResult(result *entity.SizingResult) error {
	f.results = append(f.results, result)
	return nil
}
func (f *fakeDatabase) GetSubscriptions() ([]entity.UserSubscription, error) { return nil, nil }
func (f *fakeDatabase) AddSubscription(*entity.UserSubscription) error       { return nil }
func (f *fakeDatabase) DeleteSubscription(*entity.UserSubscription) error    { return nil }

type fakeEstimator struct {
	perKwYield float64
}

func (f *fakeEstimator) EstimateYield(_ entity.Site, capacityKw float64) (*entity.YieldEstimate, error) {
	return &entity.YieldEstimate{Annual: f.perKwYield * capacityKw}, nil
}

func testServer(t *testing.T, database *fakeDatabase) (*Api, *httprouter.Router) {
	t.Helper()
	conf := &config.Config{}
	api := NewServerApi(conf, nopLogger{})
	api.SetDatabase(database)
	api.SetSizingService(sizing.NewService(database, &fakeEstimator{perKwYield: 1500}, nopLogger{}))
	router := httprouter.New()
	api.Register(router)
	return api, router
}

func testCatalog() *fakeDatabase {
	return &fakeDatabase{
		panels: []entity.PanelModel{{
			Model:               "P-400",
			Manufacturer:        "ACME",
			MaxPower:            400,
			OpenCircuitVoltage:  40,
			ShortCircuitCurrent: 10,
		}},
		inverters: []entity.InverterModel{{
			Model:          "INV-5000",
			Manufacturer:   "ACME",
			MaxACPower:     5000,
			MaxDCVoltage:   500,
			StartVoltage:   80,
			MaxMPPTCurrent: 12,
			MPPTCount:      2,
		}},
	}
}

func doRequest(router *httprouter.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleSizing_Ok(t *testing.T) {
	database := testCatalog()
	_, router := testServer(t, database)

	w := doRequest(router, http.MethodPost, "/api/v1/sizing", sizingCommand{
		MonthlyConsumption: 300,
		Latitude:           -20.46,
		Longitude:          -54.62,
		Azimuth:            0,
		Tilt:               20,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result entity.SizingResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.InDelta(t, 2.4, result.PeakPower, 1e-9)
	require.Len(t, result.Options, 1)
	assert.Equal(t, 6, result.Options[0].PanelCount)

	require.Len(t, database.results, 1, "result persisted to history")
}

func TestHandleSizing_InvalidInput(t *testing.T) {
	_, router := testServer(t, testCatalog())
	w := doRequest(router, http.MethodPost, "/api/v1/sizing", sizingCommand{MonthlyConsumption: 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "consumption")
}

func TestHandleSizing_EmptyCatalog(t *testing.T) {
	_, router := testServer(t, &fakeDatabase{})
	w := doRequest(router, http.MethodPost, "/api/v1/sizing", sizingCommand{
		MonthlyConsumption: 300,
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandleSizing_BadBody(t *testing.T) {
	_, router := testServer(t, testCatalog())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sizing", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGetPanels(t *testing.T) {
	_, router := testServer(t, testCatalog())
	w := doRequest(router, http.MethodGet, "/api/v1/panels", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var panels []entity.PanelModel
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &panels))
	require.Len(t, panels, 1)
	assert.Equal(t, "P-400", panels[0].Model)
}

func TestHandleAddPanel(t *testing.T) {
	database := testCatalog()
	_, router := testServer(t, database)

	newPanel := entity.PanelModel{
		Model:               "P-550",
		MaxPower:            550,
		OpenCircuitVoltage:  38.4,
		ShortCircuitCurrent: 14,
	}
	w := doRequest(router, http.MethodPost, "/api/v1/panels", newPanel)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, database.panels, 2)

	// same model again is rejected
	w = doRequest(router, http.MethodPost, "/api/v1/panels", newPanel)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Len(t, database.panels, 2)
}

func TestHandleAddPanel_MissingRatings(t *testing.T) {
	_, router := testServer(t, testCatalog())
	w := doRequest(router, http.MethodPost, "/api/v1/panels", entity.PanelModel{Model: "bad"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleAddInverter(t *testing.T) {
	database := testCatalog()
	_, router := testServer(t, database)

	w := doRequest(router, http.MethodPost, "/api/v1/inverters", entity.InverterModel{
		Model:      "INV-8000",
		MaxACPower: 8000,
		MPPTCount:  2,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, database.inverters, 2)

	w = doRequest(router, http.MethodPost, "/api/v1/inverters", entity.InverterModel{Model: "bad"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGetLog(t *testing.T) {
	database := testCatalog()
	database.log = []internal.FeatureLogMessage{
		{Feature: "Dimensioning", RequestId: "req-2", Text: "retained 1 inverter combinations"},
		{Feature: "Dimensioning", RequestId: "req-1", Text: "required peak power 2.400 kWp"},
	}
	_, router := testServer(t, database)

	w := doRequest(router, http.MethodGet, "/api/v1/log", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var messages []internal.FeatureLogMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &messages))
	require.Len(t, messages, 2)
	assert.Equal(t, "req-2", messages[0].RequestId)
	assert.Equal(t, "req-1", messages[1].RequestId)
}

func TestHandleGeocode_Disabled(t *testing.T) {
	_, router := testServer(t, testCatalog())
	w := doRequest(router, http.MethodGet, "/api/v1/geocode?q=Campo+Grande", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
