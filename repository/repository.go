// Package repository wraps MongoDB collections behind small typed stores.
//
// Every resource is served by a Collection[T, V]: T is the document as it is
// stored and V is the read model, where referenced documents are joined in
// with $lookup stages.
package repository

import (
	"context"
	"errors"

	"github.com/atmacsn/agriadmin/pagination"
	"github.com/atmacsn/agriadmin/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

// Lookup joins the document referenced by LocalField from collection From
// into the field As. With Many set the joined documents stay an array.
type Lookup struct {
	From       string
	LocalField string
	As         string
	Many       bool
}

// ListQuery describes one page of a List call. Scope is matched against the
// stored document, the search runs over SearchFields after the joins so it
// may reference joined fields such as "districtInfo.districtName".
type ListQuery struct {
	Scope        bson.M
	Page         pagination.Query
	SearchFields []string
	Sort         bson.D
}

// Store is the persistence surface the controllers depend on.
type Store[T any, V any] interface {
	Insert(ctx context.Context, doc *T) (bson.ObjectID, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*T, error)
	FindOne(ctx context.Context, filter bson.M) (*T, error)
	View(ctx context.Context, id bson.ObjectID) (*V, error)
	Update(ctx context.Context, id bson.ObjectID, set bson.M) (*T, error)
	Delete(ctx context.Context, id bson.ObjectID) (*T, error)
	List(ctx context.Context, q ListQuery) ([]V, int64, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	DistinctIDs(ctx context.Context, field string, filter bson.M) ([]bson.ObjectID, error)
}

type Collection[T any, V any] struct {
	col     *mongo.Collection
	lookups []Lookup
}

var _ Store[struct{}, struct{}] = (*Collection[struct{}, struct{}])(nil)

func NewCollection[T any, V any](db *mongo.Database, name string, lookups ...Lookup) *Collection[T, V] {
	return &Collection[T, V]{col: db.Collection(name), lookups: lookups}
}

func (c *Collection[T, V]) Name() string {
	return c.col.Name()
}

func (c *Collection[T, V]) Insert(ctx context.Context, doc *T) (bson.ObjectID, error) {
	res, err := c.col.InsertOne(ctx, doc)
	if err != nil {
		return bson.NilObjectID, mapError(err)
	}
	id, _ := res.InsertedID.(bson.ObjectID)
	return id, nil
}

func (c *Collection[T, V]) FindByID(ctx context.Context, id bson.ObjectID) (*T, error) {
	return c.FindOne(ctx, bson.M{"_id": id})
}

func (c *Collection[T, V]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	var doc T
	if err := c.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapError(err)
	}
	return &doc, nil
}

// View returns the joined read model of one document.
func (c *Collection[T, V]) View(ctx context.Context, id bson.ObjectID) (*V, error) {
	pipeline := mongo.Pipeline{{{Key: "$match", Value: bson.M{"_id": id}}}}
	pipeline = append(pipeline, c.lookupStages()...)
	pipeline = append(pipeline, bson.D{{Key: "$limit", Value: 1}})

	cursor, err := c.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, mapError(err)
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	var view V
	if err := cursor.Decode(&view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Update applies set with $set and returns the document after the update.
func (c *Collection[T, V]) Update(ctx context.Context, id bson.ObjectID, set bson.M) (*T, error) {
	if len(set) == 0 {
		return c.FindByID(ctx, id)
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc T
	err := c.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		return nil, mapError(err)
	}
	return &doc, nil
}

func (c *Collection[T, V]) Delete(ctx context.Context, id bson.ObjectID) (*T, error) {
	var doc T
	if err := c.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, mapError(err)
	}
	return &doc, nil
}

// List returns one page of joined documents and the total number of matches.
func (c *Collection[T, V]) List(ctx context.Context, q ListQuery) ([]V, int64, error) {
	pipeline := mongo.Pipeline{}
	if len(q.Scope) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: q.Scope}})
	}
	pipeline = append(pipeline, c.lookupStages()...)
	if search := q.Page.SearchFilter(q.SearchFields...); len(search) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: search}})
	}

	sort := q.Sort
	if len(sort) == 0 {
		sort = bson.D{{Key: "_id", Value: -1}}
	}
	limit := q.Page.Limit
	if limit < 1 {
		limit = pagination.DefaultLimit
	}
	pipeline = append(pipeline, bson.D{{Key: "$facet", Value: bson.M{
		"data": bson.A{
			bson.M{"$sort": sort},
			bson.M{"$skip": q.Page.Skip()},
			bson.M{"$limit": limit},
		},
		"total": bson.A{bson.M{"$count": "n"}},
	}}})

	cursor, err := c.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer cursor.Close(ctx)

	var out []struct {
		Data  []V `bson:"data"`
		Total []struct {
			N int64 `bson:"n"`
		} `bson:"total"`
	}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	if len(out) == 0 {
		return []V{}, 0, nil
	}

	var total int64
	if len(out[0].Total) > 0 {
		total = out[0].Total[0].N
	}
	items := out[0].Data
	if items == nil {
		items = []V{}
	}
	return items, total, nil
}

func (c *Collection[T, V]) Count(ctx context.Context, filter bson.M) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	return c.col.CountDocuments(ctx, filter)
}

// DistinctIDs returns the distinct object ids stored under field, flattening
// array fields.
func (c *Collection[T, V]) DistinctIDs(ctx context.Context, field string, filter bson.M) ([]bson.ObjectID, error) {
	if filter == nil {
		filter = bson.M{}
	}
	var ids []bson.ObjectID
	if err := c.col.Distinct(ctx, field, filter).Decode(&ids); err != nil {
		return nil, mapError(err)
	}
	return ids, nil
}

func (c *Collection[T, V]) lookupStages() []bson.D {
	stages := make([]bson.D, 0, len(c.lookups)*2)
	for _, l := range c.lookups {
		stages = append(stages, bson.D{{Key: "$lookup", Value: bson.M{
			"from":         l.From,
			"localField":   l.LocalField,
			"foreignField": "_id",
			"as":           l.As,
		}}})
		if !l.Many {
			stages = append(stages, bson.D{{Key: "$unwind", Value: bson.M{
				"path":                       "$" + l.As,
				"preserveNullAndEmptyArrays": true,
			}}})
		}
	}
	return stages
}

func mapError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case utils.IsDuplicateKey(err):
		return errors.Join(ErrDuplicate, err)
	default:
		return err
	}
}
