package store

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/laidout/impose/pkg/errors"
)

// Defaults for [MongoConfig].
const (
	DefaultMongoDatabase   = "impose"
	DefaultMongoCollection = "presets"
)

// MongoConfig configures a [MongoStore].
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
	// Timeout bounds each operation. Zero means 10 seconds.
	Timeout time.Duration
}

// MongoStore keeps presets in a MongoDB collection with a unique index on
// the preset name.
type MongoStore struct {
	client  *mongo.Client
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoStore connects, pings the server and ensures the name index.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "mongo uri is required")
	}
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetTimeout(cfg.Timeout))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongo")
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create preset index")
	}
	return &MongoStore{client: client, coll: coll, timeout: cfg.Timeout}, nil
}

func (s *MongoStore) Get(ctx context.Context, name string) (*Preset, error) {
	var p Preset
	err := s.coll.FindOne(ctx, bson.M{"name": name}).Decode(&p)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "get preset %q", name)
	}
	return &p, nil
}

func (s *MongoStore) Put(ctx context.Context, p *Preset) error {
	if err := p.Validate(); err != nil {
		return err
	}
	prev, err := s.Get(ctx, p.Name)
	if err != nil && !errors.Is(err, errors.ErrCodeNotFound) {
		return err
	}
	stamp(p, prev, time.Now().UTC())

	_, err = s.coll.ReplaceOne(ctx, bson.M{"name": p.Name}, p, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "put preset %q", p.Name)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, name string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"name": name})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete preset %q", name)
	}
	if res.DeletedCount == 0 {
		return notFound(name)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]*Preset, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list presets")
	}
	var out []*Preset
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode presets")
	}
	return out, nil
}

// Close disconnects from the server.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
