package internal

import "time"

type EventHandler interface {
	OnSizingCompleted(event *EventMessage)
	OnSizingFailed(event *EventMessage)
	OnCatalogUpdated(event *EventMessage)
}

type EventMessage struct {
	Type      string      `json:"type" bson:"type"`
	RequestId string      `json:"request_id" bson:"request_id"`
	Time      time.Time   `json:"time" bson:"time"`
	Info      string      `json:"info" bson:"info"`
	Payload   interface{} `json:"payload" bson:"payload"`
}
