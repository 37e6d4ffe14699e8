package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"WordDice/internal/storage"
	"WordDice/internal/tournament"
)

type ReportRepository struct {
	coll *mongo.Collection
}

func NewReportRepository(db *mongo.Database) *ReportRepository {
	return &ReportRepository{
		coll: db.Collection(storage.TableName),
	}
}

// EnsureIndexes 列表按 created_at 倒序查询。
func (r *ReportRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return storage.ErrUnavailable.WithData("collection", storage.TableName).WithCause(err)
	}
	return nil
}

func (r *ReportRepository) Save(ctx context.Context, rep *tournament.Report) error {
	if rep == nil {
		return nil
	}
	if r == nil || r.coll == nil {
		return storage.ErrUnavailable.WithCause(errors.New("mongodb report collection is nil"))
	}
	doc := ReportToDoc(rep)
	_, err := r.coll.ReplaceOne(
		ctx,
		bson.M{"_id": doc.ID},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return storage.ErrUnavailable.WithData("id", rep.ID).WithCause(err)
	}
	return nil
}

func (r *ReportRepository) Get(ctx context.Context, id int64) (*tournament.Report, error) {
	if r == nil || r.coll == nil {
		return nil, storage.ErrUnavailable.WithCause(errors.New("mongodb report collection is nil"))
	}
	var doc ReportDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrReportNotFound.WithData("id", id)
	}
	if err != nil {
		return nil, storage.ErrUnavailable.WithData("id", id).WithCause(err)
	}
	return DocToReport(doc), nil
}

func (r *ReportRepository) List(ctx context.Context, limit int) ([]tournament.Summary, error) {
	if r == nil || r.coll == nil {
		return nil, storage.ErrUnavailable.WithCause(errors.New("mongodb report collection is nil"))
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(storage.NormalizeLimit(limit))).
		SetProjection(bson.M{"groups": 0, "matrix": 0})

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, storage.ErrUnavailable.WithData("limit", limit).WithCause(err)
	}
	var docs []ReportDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storage.ErrUnavailable.WithData("limit", limit).WithCause(err)
	}
	out := make([]tournament.Summary, 0, len(docs))
	for _, d := range docs {
		out = append(out, DocToReport(d).Summary())
	}
	return out, nil
}
