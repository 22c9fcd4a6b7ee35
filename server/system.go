package server

import (
	"fmt"
	"log"
	"time"

	"pvsizer/geocode"
	"pvsizer/internal"
	"pvsizer/internal/config"
	"pvsizer/metrics"
	"pvsizer/pvwatts"
	"pvsizer/sizing"
	"pvsizer/telegram"
	"pvsizer/utility"
)

// System wires the sizing service, its collaborators and the API together.
type System struct {
	conf   *config.Config
	logger *internal.Logger
	api    *Api
	bot    *telegram.TgBot
}

func NewSystem() (*System, error) {
	conf, err := config.GetConfig()
	if err != nil {
		return nil, err
	}

	location, err := time.LoadLocation(conf.TimeZone)
	if err != nil {
		log.Println("invalid time zone, falling back to UTC;", err)
		location = time.UTC
	}

	logger := internal.NewLogger(location)
	if conf.IsDebug != nil {
		logger.SetDebugMode(*conf.IsDebug)
	}

	database, err := internal.NewMongoClient(conf)
	if err != nil {
		return nil, err
	}
	if database == nil {
		return nil, utility.Err("mongo must be enabled: the equipment catalog lives there")
	}
	logger.SetDatabase(database)

	estimator, err := pvwatts.New(conf)
	if err != nil {
		return nil, err
	}

	service := sizing.NewService(database, estimator, logger)

	api := NewServerApi(conf, logger)
	api.SetSizingService(service)
	api.SetDatabase(database)
	api.SetGeocoder(geocode.New(conf))
	logger.SetMessageService(api.LogStream())

	system := &System{
		conf:   conf,
		logger: logger,
		api:    api,
	}

	if conf.TelegramApiKey != "" {
		bot, err := telegram.NewBot(conf.TelegramApiKey)
		if err != nil {
			logger.Error("telegram bot initialization failed", err)
		} else {
			bot.SetDatabase(database)
			api.SetEventHandler(bot)
			system.bot = bot
		}
	}

	return system, nil
}

func (sys *System) Start() {
	go func() {
		if err := metrics.Listen(sys.conf); err != nil {
			sys.logger.Error("metrics server stopped", err)
		}
	}()

	if sys.bot != nil {
		sys.bot.Start()
	}

	sys.logger.FeatureEvent("System", "", fmt.Sprintf("listening on %s:%s", sys.conf.Listen.BindIP, sys.conf.Listen.Port))
	if err := sys.api.Start(); err != nil {
		sys.logger.Error("api server stopped", err)
	}
}
