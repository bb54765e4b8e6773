// Package mongo adapts a MongoDB database to store.Client. Document ids are
// stored as string _id values so refs look the same across backends.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/Jannatul-Ferdauss/PathX-sub001/common/telemetry"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/store"
)

var tracer = telemetry.GetTracer("pathx/store/mongo")

const idField = "_id"

type Options struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

type Client struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

func New(ctx context.Context, opts Options, logger *zap.Logger) (*Client, error) {
	if opts.URI == "" || opts.Database == "" {
		return nil, fmt.Errorf("mongo uri and database are required")
	}
	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("connected to mongodb", zap.String("database", opts.Database))
	return &Client{client: client, db: client.Database(opts.Database), logger: logger}, nil
}

func (c *Client) Add(ctx context.Context, collection string, data store.Record) (store.DocumentRef, error) {
	ctx, span := tracer.Start(ctx, "mongo.Add")
	defer span.End()
	span.SetAttributes(telemetry.String("db.collection", collection))

	id := primitive.NewObjectID().Hex()
	if _, err := c.db.Collection(collection).InsertOne(ctx, withID(id, data)); err != nil {
		telemetry.Fail(span, err)
		return store.DocumentRef{}, fmt.Errorf("insert into %s: %w", collection, err)
	}
	return store.DocumentRef{Collection: collection, ID: id}, nil
}

// AddAll inserts the records inside a transaction. Transactions need a
// replica set or sharded cluster; on a standalone server the call fails
// without writing.
func (c *Client) AddAll(ctx context.Context, collection string, data []store.Record) ([]store.DocumentRef, error) {
	ctx, span := tracer.Start(ctx, "mongo.AddAll")
	defer span.End()
	span.SetAttributes(
		telemetry.String("db.collection", collection),
		telemetry.Int("batch.size", len(data)),
	)

	refs := make([]store.DocumentRef, 0, len(data))
	docs := make([]interface{}, 0, len(data))
	for _, rec := range data {
		id := primitive.NewObjectID().Hex()
		docs = append(docs, withID(id, rec))
		refs = append(refs, store.DocumentRef{Collection: collection, ID: id})
	}
	if len(docs) == 0 {
		return refs, nil
	}

	sess, err := c.client.StartSession()
	if err != nil {
		telemetry.Fail(span, err)
		return nil, fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return c.db.Collection(collection).InsertMany(sc, docs)
	})
	if err != nil {
		telemetry.Fail(span, err)
		return nil, fmt.Errorf("transactional insert into %s: %w", collection, err)
	}
	return refs, nil
}

func (c *Client) List(ctx context.Context, collection string, filters ...store.Filter) ([]store.DocumentRef, error) {
	ctx, span := tracer.Start(ctx, "mongo.List")
	defer span.End()
	span.SetAttributes(
		telemetry.String("db.collection", collection),
		telemetry.Int("query.filters", len(filters)),
	)

	query := bson.M{}
	for _, f := range filters {
		query[f.Field] = f.Value
	}

	cursor, err := c.db.Collection(collection).Find(ctx, query)
	if err != nil {
		telemetry.Fail(span, err)
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		telemetry.Fail(span, err)
		return nil, fmt.Errorf("decode %s: %w", collection, err)
	}

	refs := make([]store.DocumentRef, 0, len(docs))
	for _, doc := range docs {
		id, rec := Normalize(doc)
		refs = append(refs, store.DocumentRef{Collection: collection, ID: id, Data: rec})
	}
	span.SetAttributes(telemetry.Int("query.results", len(refs)))
	return refs, nil
}

func (c *Client) Delete(ctx context.Context, ref store.DocumentRef) error {
	ctx, span := tracer.Start(ctx, "mongo.Delete")
	defer span.End()
	span.SetAttributes(
		telemetry.String("db.collection", ref.Collection),
		telemetry.String("db.document_id", ref.ID),
	)

	res, err := c.db.Collection(ref.Collection).DeleteOne(ctx, IDFilter(ref.ID))
	if err != nil {
		telemetry.Fail(span, err)
		return fmt.Errorf("delete %s/%s: %w", ref.Collection, ref.ID, err)
	}
	if res.DeletedCount == 0 {
		err := fmt.Errorf("delete %s/%s: %w", ref.Collection, ref.ID, store.ErrNotFound)
		telemetry.Fail(span, err)
		return err
	}
	return nil
}

// IDFilter matches a document by id. Documents written by other clients
// usually carry ObjectID keys, which Normalize reports as hex, so a hex id
// matches either representation.
func IDFilter(id string) bson.M {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return bson.M{idField: id}
	}
	return bson.M{idField: bson.M{"$in": bson.A{id, oid}}}
}

func (c *Client) Get(ctx context.Context, collection, key string) (store.Record, bool, error) {
	if key == "" {
		return nil, false, store.ErrInvalidKey
	}
	ctx, span := tracer.Start(ctx, "mongo.Get")
	defer span.End()
	span.SetAttributes(telemetry.String("db.collection", collection))

	var doc bson.M
	err := c.db.Collection(collection).FindOne(ctx, IDFilter(key)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		span.SetAttributes(telemetry.Bool("db.found", false))
		return nil, false, nil
	}
	if err != nil {
		telemetry.Fail(span, err)
		return nil, false, fmt.Errorf("get %s/%s: %w", collection, key, err)
	}
	span.SetAttributes(telemetry.Bool("db.found", true))
	_, rec := Normalize(doc)
	return rec, true, nil
}

func (c *Client) Set(ctx context.Context, collection, key string, data store.Record, opts store.SetOptions) error {
	if key == "" {
		return store.ErrInvalidKey
	}
	ctx, span := tracer.Start(ctx, "mongo.Set")
	defer span.End()
	span.SetAttributes(
		telemetry.String("db.collection", collection),
		telemetry.Bool("db.merge", opts.Merge),
	)

	coll := c.db.Collection(collection)
	filter := bson.M{idField: key}

	var err error
	if opts.Merge {
		_, err = coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M(data)}, options.Update().SetUpsert(true))
	} else {
		_, err = coll.ReplaceOne(ctx, filter, withID(key, data), options.Replace().SetUpsert(true))
	}
	if err != nil {
		telemetry.Fail(span, err)
		return fmt.Errorf("set %s/%s: %w", collection, key, err)
	}
	return nil
}

func (c *Client) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

func withID(id string, data store.Record) bson.M {
	doc := make(bson.M, len(data)+1)
	for k, v := range data {
		doc[k] = v
	}
	doc[idField] = id
	return doc
}

// Normalize converts a decoded BSON document into a backend-neutral record
// and returns its id. BSON dates become time.Time, arrays become []any and
// embedded documents become map[string]any.
func Normalize(doc bson.M) (string, store.Record) {
	var id string
	switch v := doc[idField].(type) {
	case string:
		id = v
	case primitive.ObjectID:
		id = v.Hex()
	case nil:
	default:
		id = fmt.Sprint(v)
	}

	rec := make(store.Record, len(doc))
	for k, v := range doc {
		if k == idField {
			continue
		}
		rec[k] = normalizeValue(v)
	}
	return id, rec
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.ObjectID:
		return t.Hex()
	case primitive.A:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalizeValue(item)
		}
		return out
	case bson.M:
		return normalizeMap(t)
	case map[string]any:
		return normalizeMap(t)
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = normalizeValue(e.Value)
		}
		return out
	default:
		return v
	}
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}
