package server

import (
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"pvsizer/entity"
	"pvsizer/geocode"
	"pvsizer/internal"
	"pvsizer/internal/config"
	"pvsizer/metrics/counters"
	"pvsizer/sizing"
	"pvsizer/utility"

	"github.com/julienschmidt/httprouter"
)

const (
	sizingEndpoint    = "/api/v1/sizing"
	panelsEndpoint    = "/api/v1/panels"
	invertersEndpoint = "/api/v1/inverters"
	geocodeEndpoint   = "/api/v1/geocode"
	logEndpoint       = "/api/v1/log"
	wsLogEndpoint     = "/ws/log"
)

type Api struct {
	conf         *config.Config
	httpServer   *http.Server
	logger       internal.LogHandler
	sizing       *sizing.Service
	database     internal.Database
	geocoder     *geocode.Client
	eventHandler internal.EventHandler
	logStream    *LogStream
}

type sizingCommand struct {
	MonthlyConsumption float64 `json:"monthly_consumption"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	Azimuth            float64 `json:"azimuth"`
	Tilt               float64 `json:"tilt"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewServerApi(conf *config.Config, logger internal.LogHandler) *Api {
	server := Api{
		conf:      conf,
		logger:    logger,
		logStream: NewLogStream(logger),
	}
	router := httprouter.New()
	server.Register(router)
	server.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port),
		Handler: router,
	}
	return &server
}

func (s *Api) SetSizingService(service *sizing.Service) {
	s.sizing = service
}

func (s *Api) SetDatabase(database internal.Database) {
	s.database = database
}

func (s *Api) SetGeocoder(geocoder *geocode.Client) {
	s.geocoder = geocoder
}

func (s *Api) SetEventHandler(eventHandler internal.EventHandler) {
	s.eventHandler = eventHandler
}

// LogStream returns the websocket log sink; register it on the logger as a
// message service to feed connected clients.
func (s *Api) LogStream() *LogStream {
	return s.logStream
}

func (s *Api) Register(router *httprouter.Router) {
	router.POST(sizingEndpoint, s.handleSizing)
	router.GET(panelsEndpoint, s.handleGetPanels)
	router.POST(panelsEndpoint, s.handleAddPanel)
	router.GET(invertersEndpoint, s.handleGetInverters)
	router.POST(invertersEndpoint, s.handleAddInverter)
	router.GET(geocodeEndpoint, s.handleGeocode)
	router.GET(logEndpoint, s.handleGetLog)
	router.GET(wsLogEndpoint, s.logStream.handleWsRequest)
}

func (s *Api) Start() error {
	if s.conf.Listen.TLS {
		cert, err := tls.LoadX509KeyPair(s.conf.Listen.CertFile, s.conf.Listen.KeyFile)
		if err != nil {
			return fmt.Errorf("api: failed to load certificate: %v", err)
		}
		s.httpServer.TLSConfig = &tls.Config{
			MinVersion:   tls.VersionTLS12,
			Certificates: []tls.Certificate{cert},
		}
		return s.httpServer.ListenAndServeTLS("", "")
	}
	return s.httpServer.ListenAndServe()
}

func (s *Api) handleSizing(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var cmd sizingCommand
	if !s.readCommand(w, r, &cmd) {
		return
	}

	requestId := utility.NewUUID()
	request := entity.SizingRequest{
		MonthlyConsumption: cmd.MonthlyConsumption,
		Site: entity.Site{
			Latitude:  cmd.Latitude,
			Longitude: cmd.Longitude,
			Azimuth:   cmd.Azimuth,
			Tilt:      cmd.Tilt,
		},
	}

	start := time.Now()
	result, err := s.sizing.Dimension(requestId, request)
	counters.ObserveSizingDuration(time.Since(start).Seconds())
	if err != nil {
		outcome, status := sizingOutcome(err)
		counters.CountSizingRequest(outcome)
		s.logger.FeatureEvent("Api", requestId, fmt.Sprintf("sizing failed: %s", err))
		if s.eventHandler != nil {
			s.eventHandler.OnSizingFailed(&internal.EventMessage{
				Type:      "sizing_failed",
				RequestId: requestId,
				Time:      time.Now().UTC(),
				Info:      err.Error(),
			})
		}
		s.respondError(w, status, err)
		return
	}

	counters.CountSizingRequest("ok")
	counters.ObserveSizingOptions(len(result.Options))

	if s.database != nil {
		if err = s.database.WriteSizingResult(result); err != nil {
			s.logger.Error("writing sizing result", err)
		}
	}
	if s.eventHandler != nil {
		s.eventHandler.OnSizingCompleted(&internal.EventMessage{
			Type:      "sizing_completed",
			RequestId: requestId,
			Time:      time.Now().UTC(),
			Info:      fmt.Sprintf("%.3f kWp, %d options", result.PeakPower, len(result.Options)),
			Payload:   result,
		})
	}
	s.respond(w, http.StatusOK, result)
}

func (s *Api) handleGetPanels(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if s.database == nil {
		s.respondError(w, http.StatusServiceUnavailable, sizing.ErrCatalogUnavailable)
		return
	}
	panels, err := s.database.GetPanels()
	if err != nil {
		s.logger.Error("reading panel catalog", err)
		s.respondError(w, http.StatusServiceUnavailable, sizing.ErrCatalogUnavailable)
		return
	}
	counters.ObserveCatalogSize("panels", len(panels))
	s.respond(w, http.StatusOK, panels)
}

func (s *Api) handleAddPanel(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var panel entity.PanelModel
	if !s.readCommand(w, r, &panel) {
		return
	}
	if panel.Model == "" || !panel.IsValid() {
		s.respondError(w, http.StatusBadRequest, utility.Err("panel model, power, Voc and Isc are required"))
		return
	}
	if s.database == nil {
		s.respondError(w, http.StatusServiceUnavailable, sizing.ErrCatalogUnavailable)
		return
	}
	if err := s.database.AddPanel(&panel); err != nil {
		s.logger.Error("adding panel", err)
		s.respondError(w, http.StatusConflict, err)
		return
	}
	s.notifyCatalogUpdated(fmt.Sprintf("panel %s added", panel.Model), &panel)
	s.respond(w, http.StatusCreated, panel)
}

func (s *Api) handleGetInverters(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if s.database == nil {
		s.respondError(w, http.StatusServiceUnavailable, sizing.ErrCatalogUnavailable)
		return
	}
	inverters, err := s.database.GetInverters()
	if err != nil {
		s.logger.Error("reading inverter catalog", err)
		s.respondError(w, http.StatusServiceUnavailable, sizing.ErrCatalogUnavailable)
		return
	}
	counters.ObserveCatalogSize("inverters", len(inverters))
	s.respond(w, http.StatusOK, inverters)
}

func (s *Api) handleAddInverter(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var inverter entity.InverterModel
	if !s.readCommand(w, r, &inverter) {
		return
	}
	if inverter.Model == "" || inverter.MaxACPower <= 0 || inverter.MPPTCount <= 0 {
		s.respondError(w, http.StatusBadRequest, utility.Err("inverter model, AC power and MPPT count are required"))
		return
	}
	if s.database == nil {
		s.respondError(w, http.StatusServiceUnavailable, sizing.ErrCatalogUnavailable)
		return
	}
	if err := s.database.AddInverter(&inverter); err != nil {
		s.logger.Error("adding inverter", err)
		s.respondError(w, http.StatusConflict, err)
		return
	}
	s.notifyCatalogUpdated(fmt.Sprintf("inverter %s added", inverter.Model), &inverter)
	s.respond(w, http.StatusCreated, inverter)
}

func (s *Api) handleGetLog(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.logger.Debug(fmt.Sprintf("api: log read from remote %s", r.RemoteAddr))
	if s.database == nil {
		s.respondError(w, http.StatusServiceUnavailable, utility.Err("no database service"))
		return
	}
	data, err := s.database.ReadLog()
	if err != nil {
		s.logger.Error("read log error", err)
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}
	s.respond(w, http.StatusOK, data)
}

func (s *Api) handleGeocode(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if s.geocoder == nil {
		s.respondError(w, http.StatusNotFound, utility.Err("geocoding is not enabled"))
		return
	}
	name := r.URL.Query().Get("q")
	lat, lon, err := s.geocoder.Lookup(name)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("api: geocode lookup for %q failed: %s", name, err))
		s.respondError(w, http.StatusNotFound, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]float64{"latitude": lat, "longitude": lon})
}

func (s *Api) notifyCatalogUpdated(info string, payload interface{}) {
	if s.eventHandler == nil {
		return
	}
	s.eventHandler.OnCatalogUpdated(&internal.EventMessage{
		Type:    "catalog_updated",
		Time:    time.Now().UTC(),
		Info:    info,
		Payload: payload,
	})
}

func (s *Api) readCommand(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("api: error reading body from %s: %s", r.RemoteAddr, err))
		w.WriteHeader(http.StatusBadRequest)
		return false
	}
	if err = json.Unmarshal(body, v); err != nil {
		s.logger.Warn(fmt.Sprintf("api: error parsing command from %s: %s", r.RemoteAddr, err))
		s.respondError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

func (s *Api) respond(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("encoding response", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func (s *Api) respondError(w http.ResponseWriter, status int, err error) {
	s.respond(w, status, errorResponse{Error: err.Error()})
}

func sizingOutcome(err error) (string, int) {
	switch {
	case errors.Is(err, sizing.ErrInvalidInput):
		return "invalid_input", http.StatusBadRequest
	case errors.Is(err, sizing.ErrEstimationUnavailable):
		return "estimation_unavailable", http.StatusBadGateway
	case errors.Is(err, sizing.ErrCatalogUnavailable):
		return "catalog_unavailable", http.StatusServiceUnavailable
	case errors.Is(err, sizing.ErrNoInverterCombination):
		return "no_inverter_combination", http.StatusUnprocessableEntity
	case errors.Is(err, sizing.ErrNoValidArrangement):
		return "no_valid_arrangement", http.StatusUnprocessableEntity
	default:
		return "error", http.StatusInternalServerError
	}
}
