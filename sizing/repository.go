package sizing

import "pvsizer/entity"

type Repository interface {
	GetPanels() ([]entity.PanelModel, error)
	GetInverters() ([]entity.InverterModel, error)
}
