package repository

import (
	"context"
	"fmt"
	"strconv"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gradeview/pkg/domain/interfaces"
	"github.com/secmon-lab/gradeview/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// Field names
	fieldIndex = "index"

	// Document IDs are zero-padded indexes so the console lists them in order
	docIDFormat = "%08d"
)

// firestoreRecord is the stored form of a record. Firestore maps do not keep
// key order, so the column order is stored separately.
type firestoreRecord struct {
	Index   int               `firestore:"index"`
	Columns []string          `firestore:"columns"`
	Values  map[string]string `firestore:"values"`
}

// Firestore implements Repository interface with Firestore
type Firestore struct {
	client     *firestore.Client
	collection string
}

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID, collection string) (interfaces.Repository, error) {
	logger := ctxlog.From(ctx)

	if collection == "" {
		return nil, goerr.New("firestore collection is empty")
	}

	// Create client with database ID
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	// Fail fast on a wrong project ID or missing permissions
	_, err = client.Collection(collection).Limit(1).Documents(ctx).Next()
	if err != nil && err != iterator.Done {
		if status.Code(err) == codes.PermissionDenied || status.Code(err) == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to connect to firestore project",
				goerr.V("firestore error code", status.Code(err).String()),
			)
		}
		logger.Debug("Firestore connection test returned error (may be empty collection)",
			"error", err,
			"errorCode", status.Code(err).String(),
		)
	}

	logger.Info("Firestore repository initialized successfully",
		"projectID", projectID,
		"databaseID", databaseID,
		"collection", collection,
	)

	return &Firestore{
		client:     client,
		collection: collection,
	}, nil
}

// PutRecords writes one document per record and deletes documents left over
// from a longer previous dataset
func (f *Firestore) PutRecords(ctx context.Context, records []model.Record) error {
	stale, err := f.staleDocs(ctx, len(records))
	if err != nil {
		return err
	}

	bw := f.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(records)+len(stale))

	for i, r := range records {
		doc := firestoreRecord{
			Index:   i,
			Columns: r.Keys(),
			Values:  r.Map(),
		}
		job, err := bw.Set(f.client.Collection(f.collection).Doc(fmt.Sprintf(docIDFormat, i)), doc)
		if err != nil {
			bw.End()
			return goerr.Wrap(err, "failed to enqueue record", goerr.V("index", i))
		}
		jobs = append(jobs, job)
	}

	for _, ref := range stale {
		job, err := bw.Delete(ref)
		if err != nil {
			bw.End()
			return goerr.Wrap(err, "failed to enqueue stale record deletion", goerr.V("doc", ref.ID))
		}
		jobs = append(jobs, job)
	}

	bw.End()

	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return goerr.Wrap(err, "failed to write records to firestore",
				goerr.V("collection", f.collection))
		}
	}

	ctxlog.From(ctx).Info("Records saved to firestore",
		"collection", f.collection,
		"count", len(records),
		"deleted", len(stale),
	)
	return nil
}

// staleDocs returns documents whose index is at or beyond n
func (f *Firestore) staleDocs(ctx context.Context, n int) ([]*firestore.DocumentRef, error) {
	iter := f.client.Collection(f.collection).DocumentRefs(ctx)

	var stale []*firestore.DocumentRef
	for {
		ref, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate record documents")
		}

		idx, err := strconv.Atoi(ref.ID)
		if err != nil || idx >= n {
			stale = append(stale, ref)
		}
	}
	return stale, nil
}

// ListRecords reads all documents ordered by index
func (f *Firestore) ListRecords(ctx context.Context) ([]model.Record, error) {
	iter := f.client.Collection(f.collection).OrderBy(fieldIndex, firestore.Asc).Documents(ctx)
	defer iter.Stop()

	records := []model.Record{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate records",
				goerr.V("collection", f.collection),
				goerr.T(model.ErrTagDatasetLoad))
		}

		var stored firestoreRecord
		if err := doc.DataTo(&stored); err != nil {
			return nil, goerr.Wrap(err, "failed to decode record",
				goerr.V("doc", doc.Ref.ID),
				goerr.T(model.ErrTagDatasetLoad))
		}

		records = append(records, stored.toRecord())
	}

	return records, nil
}

func (r firestoreRecord) toRecord() model.Record {
	fields := make([]model.Field, 0, len(r.Columns))
	for _, c := range r.Columns {
		v, ok := r.Values[c]
		if !ok {
			continue
		}
		fields = append(fields, model.Field{Key: c, Value: v})
	}
	return model.NewRecord(fields...)
}

// Name returns the store name
func (f *Firestore) Name() string {
	return "firestore:" + f.collection
}

// Close closes the Firestore client
func (f *Firestore) Close() error {
	return f.client.Close()
}
