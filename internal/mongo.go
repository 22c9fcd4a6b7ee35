package internal

import (
	"context"
	"fmt"
	"log"

	"pvsizer/entity"
	"pvsizer/internal/config"
	"pvsizer/utility"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionLog           = "sys_log"
	collectionPanels        = "panels"
	collectionInverters     = "inverters"
	collectionSizingHistory = "sizing_history"
	collectionSubscriptions = "subscriptions"
)

type MongoDB struct {
	ctx           context.Context
	clientOptions *options.ClientOptions
	database      string
}

func NewMongoClient(conf *config.Config) (*MongoDB, error) {
	if !conf.Mongo.Enabled {
		return nil, nil
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	client := &MongoDB{
		ctx:           context.Background(),
		clientOptions: clientOptions,
		database:      conf.Mongo.Database,
	}
	return client, nil
}

func (m *MongoDB) connect() (*mongo.Client, error) {
	connection, err := mongo.Connect(m.ctx, m.clientOptions)
	if err != nil {
		return nil, err
	}
	return connection, nil
}

func (m *MongoDB) disconnect(connection *mongo.Client) {
	err := connection.Disconnect(m.ctx)
	if err != nil {
		log.Println("mongodb disconnect error;", err)
	}
}

func (m *MongoDB) write(table string, data interface{}) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)
	collection := connection.Database(m.database).Collection(table)
	_, err = collection.InsertOne(m.ctx, data)
	if err != nil {
		return err
	}
	return nil
}

func (m *MongoDB) WriteLogMessage(data Data) error {
	return m.write(collectionLog, data)
}

func (m *MongoDB) ReadLog() (interface{}, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	var logMessages []FeatureLogMessage
	collection := connection.Database(m.database).Collection(collectionLog)
	filter := bson.D{}
	opts := options.Find().SetSort(bson.D{{Key: "time", Value: -1}}).SetLimit(1000)
	cursor, err := collection.Find(m.ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	if err = cursor.All(m.ctx, &logMessages); err != nil {
		return nil, err
	}
	return logMessages, nil
}

func (m *MongoDB) GetPanels() ([]entity.PanelModel, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	var panels []entity.PanelModel
	collection := connection.Database(m.database).Collection(collectionPanels)
	cursor, err := collection.Find(m.ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	if err = cursor.All(m.ctx, &panels); err != nil {
		return nil, err
	}
	return panels, nil
}

func (m *MongoDB) GetInverters() ([]entity.InverterModel, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	var inverters []entity.InverterModel
	collection := connection.Database(m.database).Collection(collectionInverters)
	cursor, err := collection.Find(m.ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	if err = cursor.All(m.ctx, &inverters); err != nil {
		return nil, err
	}
	return inverters, nil
}

func (m *MongoDB) AddPanel(panel *entity.PanelModel) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionPanels)
	filter := bson.D{{Key: "model", Value: panel.Model}}
	count, err := collection.CountDocuments(m.ctx, filter)
	if err != nil {
		return err
	}
	if count > 0 {
		return utility.Err(fmt.Sprintf("panel model %s already exists", panel.Model))
	}
	_, err = collection.InsertOne(m.ctx, panel)
	return err
}

func (m *MongoDB) AddInverter(inverter *entity.InverterModel) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionInverters)
	filter := bson.D{{Key: "model", Value: inverter.Model}}
	count, err := collection.CountDocuments(m.ctx, filter)
	if err != nil {
		return err
	}
	if count > 0 {
		return utility.Err(fmt.Sprintf("inverter model %s already exists", inverter.Model))
	}
	_, err = collection.InsertOne(m.ctx, inverter)
	return err
}

func (m *MongoDB) WriteSizingResult(result *entity.SizingResult) error {
	return m.write(collectionSizingHistory, result)
}

func (m *MongoDB) GetSubscriptions() ([]entity.UserSubscription, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	var subscriptions []entity.UserSubscription
	collection := connection.Database(m.database).Collection(collectionSubscriptions)
	cursor, err := collection.Find(m.ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	if err = cursor.All(m.ctx, &subscriptions); err != nil {
		return nil, err
	}
	return subscriptions, nil
}

func (m *MongoDB) AddSubscription(subscription *entity.UserSubscription) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)
	collection := connection.Database(m.database).Collection(collectionSubscriptions)
	filter := bson.D{{Key: "user_id", Value: subscription.UserID}}
	update := bson.D{{Key: "$set", Value: subscription}}
	opts := options.Update().SetUpsert(true)
	_, err = collection.UpdateOne(m.ctx, filter, update, opts)
	return err
}

func (m *MongoDB) DeleteSubscription(subscription *entity.UserSubscription) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)
	collection := connection.Database(m.database).Collection(collectionSubscriptions)
	filter := bson.D{{Key: "user_id", Value: subscription.UserID}}
	_, err = collection.DeleteOne(m.ctx, filter)
	return err
}
