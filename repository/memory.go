package repository

import (
	"context"
	"reflect"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Memory is a thread-safe in-memory Store that stands in for MongoDB in
// tests. Filters support equality (array fields match on any
// element), $in, $nin, $ne and $or. Lookups are not resolved; views are the
// stored document decoded into V.
type Memory[T any, V any] struct {
	mu     sync.RWMutex
	docs   []bson.M
	unique []string
}

var _ Store[struct{}, struct{}] = (*Memory[struct{}, struct{}])(nil)

// NewMemory creates an empty store enforcing uniqueness of the given fields.
// Empty values are exempt, like a partial index.
func NewMemory[T any, V any](unique ...string) *Memory[T, V] {
	return &Memory[T, V]{unique: unique}
}

func (m *Memory[T, V]) Insert(_ context.Context, doc *T) (bson.ObjectID, error) {
	raw, err := toMap(doc)
	if err != nil {
		return bson.NilObjectID, err
	}
	id, ok := raw["_id"].(bson.ObjectID)
	if !ok || id.IsZero() {
		id = bson.NewObjectID()
		raw["_id"] = id
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conflicts(raw, id) {
		return bson.NilObjectID, ErrDuplicate
	}
	m.docs = append(m.docs, raw)
	return id, nil
}

func (m *Memory[T, V]) FindByID(ctx context.Context, id bson.ObjectID) (*T, error) {
	return m.FindOne(ctx, bson.M{"_id": id})
}

func (m *Memory[T, V]) FindOne(_ context.Context, filter bson.M) (*T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.docs {
		if matches(d, filter) {
			return fromMap[T](d)
		}
	}
	return nil, ErrNotFound
}

func (m *Memory[T, V]) View(_ context.Context, id bson.ObjectID) (*V, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.docs {
		if d["_id"] == id {
			return fromMap[V](d)
		}
	}
	return nil, ErrNotFound
}

func (m *Memory[T, V]) Update(_ context.Context, id bson.ObjectID, set bson.M) (*T, error) {
	patch, err := toMap(set)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range m.docs {
		if d["_id"] != id {
			continue
		}
		next := bson.M{}
		for k, v := range d {
			next[k] = v
		}
		for k, v := range patch {
			next[k] = v
		}
		if m.conflicts(next, id) {
			return nil, ErrDuplicate
		}
		m.docs[i] = next
		return fromMap[T](next)
	}
	return nil, ErrNotFound
}

func (m *Memory[T, V]) Delete(_ context.Context, id bson.ObjectID) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range m.docs {
		if d["_id"] == id {
			m.docs = append(m.docs[:i], m.docs[i+1:]...)
			return fromMap[T](d)
		}
	}
	return nil, ErrNotFound
}

// List walks the documents newest first.
func (m *Memory[T, V]) List(_ context.Context, q ListQuery) ([]V, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	term := strings.ToLower(q.Page.Search)
	var hits []bson.M
	for i := len(m.docs) - 1; i >= 0; i-- {
		d := m.docs[i]
		if !matches(d, q.Scope) {
			continue
		}
		if term != "" && !containsTerm(d, q.SearchFields, term) {
			continue
		}
		hits = append(hits, d)
	}

	total := int64(len(hits))
	start := int(q.Page.Skip())
	if start > len(hits) {
		start = len(hits)
	}
	end := start + q.Page.Limit
	if q.Page.Limit < 1 || end > len(hits) {
		end = len(hits)
	}

	items := make([]V, 0, end-start)
	for _, d := range hits[start:end] {
		v, err := fromMap[V](d)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *v)
	}
	return items, total, nil
}

func (m *Memory[T, V]) Count(_ context.Context, filter bson.M) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, d := range m.docs {
		if matches(d, filter) {
			n++
		}
	}
	return n, nil
}

func (m *Memory[T, V]) DistinctIDs(_ context.Context, field string, filter bson.M) ([]bson.ObjectID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := map[bson.ObjectID]bool{}
	var ids []bson.ObjectID
	add := func(v any) {
		if id, ok := v.(bson.ObjectID); ok && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, d := range m.docs {
		if !matches(d, filter) {
			continue
		}
		switch v := d[field].(type) {
		case bson.A:
			for _, e := range v {
				add(e)
			}
		default:
			add(v)
		}
	}
	return ids, nil
}

func (m *Memory[T, V]) conflicts(doc bson.M, id bson.ObjectID) bool {
	for _, field := range m.unique {
		val, ok := doc[field]
		if !ok || val == nil || val == "" {
			continue
		}
		for _, d := range m.docs {
			if d["_id"] != id && reflect.DeepEqual(d[field], val) {
				return true
			}
		}
	}
	return false
}

func toMap(v any) (bson.M, error) {
	data, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out bson.M
	if err := bson.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func fromMap[T any](m bson.M) (*T, error) {
	data, err := bson.Marshal(m)
	if err != nil {
		return nil, err
	}
	var out T
	if err := bson.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// normalize gives a filter value the same Go type a stored value decodes to.
func normalize(v any) any {
	m, err := toMap(bson.M{"v": v})
	if err != nil {
		return v
	}
	return m["v"]
}

func matches(doc bson.M, filter bson.M) bool {
	for key, cond := range filter {
		if key == "$or" {
			alts, _ := normalize(cond).(bson.A)
			ok := false
			for _, alt := range alts {
				if sub := asMap(alt); sub != nil && matches(doc, sub) {
					ok = true
					break
				}
			}
			if !ok {
				return false
			}
			continue
		}

		val := lookupPath(doc, key)
		if ops, isOps := cond.(bson.M); isOps && hasOperator(ops) {
			if !matchOps(val, ops) {
				return false
			}
			continue
		}
		if !equalOrContains(val, normalize(cond)) {
			return false
		}
	}
	return true
}

func matchOps(val any, ops bson.M) bool {
	for op, arg := range ops {
		switch op {
		case "$ne":
			if equalOrContains(val, normalize(arg)) {
				return false
			}
		case "$in", "$nin":
			list, _ := normalize(arg).(bson.A)
			found := false
			for _, want := range list {
				if equalOrContains(val, want) {
					found = true
					break
				}
			}
			if found != (op == "$in") {
				return false
			}
		}
	}
	return true
}

func hasOperator(m bson.M) bool {
	for k := range m {
		if strings.HasPrefix(k, "$") {
			return true
		}
	}
	return false
}

func equalOrContains(val, want any) bool {
	if arr, ok := val.(bson.A); ok {
		if _, wantArr := want.(bson.A); !wantArr {
			for _, e := range arr {
				if reflect.DeepEqual(e, want) {
					return true
				}
			}
			return false
		}
	}
	return reflect.DeepEqual(val, want)
}

func containsTerm(doc bson.M, fields []string, term string) bool {
	for _, f := range fields {
		if s, ok := lookupPath(doc, f).(string); ok && strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	return false
}

func lookupPath(doc bson.M, path string) any {
	var cur any = doc
	for _, part := range strings.Split(path, ".") {
		sub := asMap(cur)
		if sub == nil {
			return nil
		}
		cur = sub[part]
	}
	return cur
}

func asMap(v any) bson.M {
	switch t := v.(type) {
	case bson.M:
		return t
	case bson.D:
		out := bson.M{}
		for _, e := range t {
			out[e.Key] = e.Value
		}
		return out
	default:
		return nil
	}
}
