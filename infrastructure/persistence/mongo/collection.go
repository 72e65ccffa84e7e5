package mongo

import (
	"context"
	"errors"

	"ordercore/domain/shared"

	"go.mongodb.org/mongo-driver/bson"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const backendName = "mongo"

// findPage runs the page query and the count concurrently against one filter,
// ordered by the natural key ascending
func findPage[D any, T any](
	ctx context.Context,
	coll *driver.Collection,
	keyField string,
	filter bson.D,
	page, size int,
	convert func(*D) T,
) (*shared.Page[T], error) {
	fetch := func(ctx context.Context, offset, limit int) ([]T, error) {
		opts := options.Find().
			SetSort(bson.D{{Key: keyField, Value: 1}}).
			SetSkip(int64(offset)).
			SetLimit(int64(limit))
		cur, err := coll.Find(ctx, filter, opts)
		if err != nil {
			return nil, shared.NewPersistenceError(backendName, "find "+coll.Name(), err)
		}
		defer cur.Close(ctx)

		var items []T
		for cur.Next(ctx) {
			var doc D
			if err := cur.Decode(&doc); err != nil {
				return nil, shared.NewPersistenceError(backendName, "decode "+coll.Name(), err)
			}
			items = append(items, convert(&doc))
		}
		if err := cur.Err(); err != nil {
			return nil, shared.NewPersistenceError(backendName, "find "+coll.Name(), err)
		}
		return items, nil
	}
	count := func(ctx context.Context) (int64, error) {
		n, err := coll.CountDocuments(ctx, filter)
		if err != nil {
			return 0, shared.NewPersistenceError(backendName, "count "+coll.Name(), err)
		}
		return n, nil
	}
	return shared.FetchPage(ctx, page, size, fetch, count)
}

// findOne returns found=false when no document has the key
func findOne[D any](ctx context.Context, coll *driver.Collection, keyField, id string) (*D, bool, error) {
	var doc D
	err := coll.FindOne(ctx, bson.D{{Key: keyField, Value: id}}).Decode(&doc)
	if errors.Is(err, driver.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, shared.NewPersistenceError(backendName, "get "+coll.Name(), err)
	}
	return &doc, true, nil
}

// upsert find-and-update keyed on keyField; returns the document after the write
func upsert[D any](ctx context.Context, coll *driver.Collection, keyField, id string, update bson.D) (*D, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc D
	err := coll.FindOneAndUpdate(ctx, bson.D{{Key: keyField, Value: id}}, update, opts).Decode(&doc)
	if err != nil {
		return nil, shared.NewPersistenceError(backendName, "save "+coll.Name(), err)
	}
	return &doc, nil
}

// setUnset builds {$set: doc, $unset: absent optionals}
func setUnset(doc any, optional []string) (bson.D, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var set bson.D
	if err := bson.Unmarshal(raw, &set); err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(set))
	for _, e := range set {
		present[e.Key] = true
	}
	var unset bson.D
	for _, field := range optional {
		if !present[field] {
			unset = append(unset, bson.E{Key: field, Value: ""})
		}
	}

	update := bson.D{{Key: "$set", Value: set}}
	if len(unset) > 0 {
		update = append(update, bson.E{Key: "$unset", Value: unset})
	}
	return update, nil
}
