package internal

import "pvsizer/entity"

type Database interface {
	WriteLogMessage(data Data) error
	ReadLog() (interface{}, error)
	GetPanels() ([]entity.PanelModel, error)
	GetInverters() ([]entity.InverterModel, error)
	AddPanel(panel *entity.PanelModel) error
	AddInverter(inverter *entity.InverterModel) error
	WriteSizingResult(result *entity.SizingResult) error
	GetSubscriptions() ([]entity.UserSubscription, error)
	AddSubscription(subscription *entity.UserSubscription) error
	DeleteSubscription(subscription *entity.UserSubscription) error
}

type Data interface {
	DataType() string
}
