// Package firestore adapts Cloud Firestore to store.Client.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Jannatul-Ferdauss/PathX-sub001/common/telemetry"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/store"
)

var tracer = telemetry.GetTracer("pathx/store/firestore")

// maxBatchWrites is Firestore's limit on writes in a single batch commit.
const maxBatchWrites = 500

type Options struct {
	ProjectID       string
	CredentialsFile string
}

type Client struct {
	fs     *firestore.Client
	logger *zap.Logger
}

func New(ctx context.Context, opts Options, logger *zap.Logger) (*Client, error) {
	if opts.ProjectID == "" {
		return nil, fmt.Errorf("firestore project id is required")
	}

	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}

	fs, err := firestore.NewClient(ctx, opts.ProjectID, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("firestore.NewClient: %w", err)
	}

	logger.Info("connected to firestore", zap.String("project_id", opts.ProjectID))
	return &Client{fs: fs, logger: logger}, nil
}

func (c *Client) Add(ctx context.Context, collection string, data store.Record) (store.DocumentRef, error) {
	ctx, span := tracer.Start(ctx, "firestore.Add")
	defer span.End()
	span.SetAttributes(telemetry.String("db.collection", collection))

	ref, _, err := c.fs.Collection(collection).Add(ctx, map[string]any(data))
	if err != nil {
		telemetry.Fail(span, err)
		return store.DocumentRef{}, fmt.Errorf("add to %s: %w", collection, err)
	}
	return store.DocumentRef{Collection: collection, ID: ref.ID}, nil
}

// AddAll commits the records in a single WriteBatch so that either all of
// them are created or none are.
func (c *Client) AddAll(ctx context.Context, collection string, data []store.Record) ([]store.DocumentRef, error) {
	ctx, span := tracer.Start(ctx, "firestore.AddAll")
	defer span.End()
	span.SetAttributes(
		telemetry.String("db.collection", collection),
		telemetry.Int("batch.size", len(data)),
	)

	if len(data) > maxBatchWrites {
		err := fmt.Errorf("batch of %d exceeds firestore limit of %d writes", len(data), maxBatchWrites)
		telemetry.Fail(span, err)
		return nil, err
	}

	coll := c.fs.Collection(collection)
	batch := c.fs.Batch()
	refs := make([]store.DocumentRef, 0, len(data))
	for _, rec := range data {
		doc := coll.NewDoc()
		batch.Create(doc, map[string]any(rec))
		refs = append(refs, store.DocumentRef{Collection: collection, ID: doc.ID})
	}

	if _, err := batch.Commit(ctx); err != nil {
		telemetry.Fail(span, err)
		return nil, fmt.Errorf("batch commit to %s: %w", collection, err)
	}
	return refs, nil
}

func (c *Client) List(ctx context.Context, collection string, filters ...store.Filter) ([]store.DocumentRef, error) {
	ctx, span := tracer.Start(ctx, "firestore.List")
	defer span.End()
	span.SetAttributes(
		telemetry.String("db.collection", collection),
		telemetry.Int("query.filters", len(filters)),
	)

	q := c.fs.Collection(collection).Query
	for _, f := range filters {
		q = q.Where(f.Field, "==", f.Value)
	}

	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		telemetry.Fail(span, err)
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}

	refs := make([]store.DocumentRef, 0, len(snaps))
	for _, snap := range snaps {
		refs = append(refs, store.DocumentRef{
			Collection: collection,
			ID:         snap.Ref.ID,
			Data:       store.Record(snap.Data()),
		})
	}
	span.SetAttributes(telemetry.Int("query.results", len(refs)))
	return refs, nil
}

func (c *Client) Delete(ctx context.Context, ref store.DocumentRef) error {
	ctx, span := tracer.Start(ctx, "firestore.Delete")
	defer span.End()
	span.SetAttributes(
		telemetry.String("db.collection", ref.Collection),
		telemetry.String("db.document_id", ref.ID),
	)

	if _, err := c.fs.Collection(ref.Collection).Doc(ref.ID).Delete(ctx); err != nil {
		telemetry.Fail(span, err)
		return fmt.Errorf("delete %s/%s: %w", ref.Collection, ref.ID, err)
	}
	return nil
}

func (c *Client) Get(ctx context.Context, collection, key string) (store.Record, bool, error) {
	if key == "" {
		return nil, false, store.ErrInvalidKey
	}
	ctx, span := tracer.Start(ctx, "firestore.Get")
	defer span.End()
	span.SetAttributes(telemetry.String("db.collection", collection))

	snap, err := c.fs.Collection(collection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		span.SetAttributes(telemetry.Bool("db.found", false))
		return nil, false, nil
	}
	if err != nil {
		telemetry.Fail(span, err)
		return nil, false, fmt.Errorf("get %s/%s: %w", collection, key, err)
	}
	span.SetAttributes(telemetry.Bool("db.found", true))
	return store.Record(snap.Data()), true, nil
}

func (c *Client) Set(ctx context.Context, collection, key string, data store.Record, opts store.SetOptions) error {
	if key == "" {
		return store.ErrInvalidKey
	}
	ctx, span := tracer.Start(ctx, "firestore.Set")
	defer span.End()
	span.SetAttributes(
		telemetry.String("db.collection", collection),
		telemetry.Bool("db.merge", opts.Merge),
	)

	var setOpts []firestore.SetOption
	if opts.Merge {
		setOpts = append(setOpts, firestore.MergeAll)
	}

	if _, err := c.fs.Collection(collection).Doc(key).Set(ctx, map[string]any(data), setOpts...); err != nil {
		telemetry.Fail(span, err)
		return fmt.Errorf("set %s/%s: %w", collection, key, err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.fs.Close()
}
