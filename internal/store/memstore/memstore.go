// Package memstore is an in-memory store.Store used by tests. It understands
// the subset of the query language the API issues: equality, $and, $or,
// $regex (with $options), $set, $setOnInsert, sort and limit.
package memstore

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"medcamp-api-server/internal/store"
)

type Store struct {
	mu    sync.Mutex
	colls map[string]*Collection
}

func New() *Store {
	return &Store{colls: make(map[string]*Collection)}
}

func (s *Store) Collection(name string) store.Collection {
	return s.collection(name)
}

// Unique makes field behave like a unique index on the named collection,
// partial on string values: documents where field is missing or not a string
// never conflict.
func (s *Store) Unique(name, field string) {
	c := s.collection(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unique = append(c.unique, field)
}

// Len reports how many documents the named collection holds.
func (s *Store) Len(name string) int {
	c := s.collection(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.docs)
}

func (s *Store) collection(name string) *Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.colls[name]
	if !ok {
		c = &Collection{}
		s.colls[name] = c
	}
	return c
}

type Collection struct {
	mu     sync.Mutex
	docs   []bson.M
	unique []string
}

func (c *Collection) FindOne(_ context.Context, filter interface{}, out interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, doc := range c.docs {
		ok, err := matches(doc, filter)
		if err != nil {
			return err
		}
		if ok {
			return decode(doc, out)
		}
	}
	return store.ErrNotFound
}

func (c *Collection) Find(_ context.Context, filter interface{}, opts store.FindOptions, out interface{}) error {
	c.mu.Lock()
	var found []bson.M
	for _, doc := range c.docs {
		ok, err := matches(doc, filter)
		if err != nil {
			c.mu.Unlock()
			return err
		}
		if ok {
			found = append(found, doc)
		}
	}
	c.mu.Unlock()

	if len(opts.Sort) > 0 {
		sort.SliceStable(found, func(i, j int) bool {
			for _, key := range opts.Sort {
				cmp := compare(found[i][key.Key], found[j][key.Key])
				if cmp == 0 {
					continue
				}
				if direction(key.Value) < 0 {
					return cmp > 0
				}
				return cmp < 0
			}
			return false
		})
	}
	if opts.Limit > 0 && int64(len(found)) > opts.Limit {
		found = found[:opts.Limit]
	}

	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("memstore: out must be a pointer to a slice, got %T", out)
	}
	elemType := rv.Elem().Type().Elem()
	slice := reflect.MakeSlice(rv.Elem().Type(), 0, len(found))
	for _, doc := range found {
		elem := reflect.New(elemType)
		if err := decode(doc, elem.Interface()); err != nil {
			return err
		}
		slice = reflect.Append(slice, elem.Elem())
	}
	rv.Elem().Set(slice)
	return nil
}

func (c *Collection) InsertOne(_ context.Context, doc interface{}) (*store.InsertResult, error) {
	m, err := toDoc(doc)
	if err != nil {
		return nil, err
	}
	if id, ok := m["_id"]; !ok || id == nil {
		m["_id"] = primitive.NewObjectID()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkUnique(m, -1); err != nil {
		return nil, err
	}
	c.docs = append(c.docs, m)
	return &store.InsertResult{Acknowledged: true, InsertedID: m["_id"]}, nil
}

func (c *Collection) UpdateOne(_ context.Context, filter, update interface{}, upsert bool) (*store.UpdateResult, error) {
	ops, err := fields(update)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, doc := range c.docs {
		ok, err := matches(doc, filter)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		updated := clone(doc)
		if err := apply(updated, ops, false); err != nil {
			return nil, err
		}
		res := &store.UpdateResult{Acknowledged: true, MatchedCount: 1}
		if !reflect.DeepEqual(updated, doc) {
			if err := c.checkUnique(updated, i); err != nil {
				return nil, err
			}
			c.docs[i] = updated
			res.ModifiedCount = 1
		}
		return res, nil
	}

	if !upsert {
		return &store.UpdateResult{Acknowledged: true}, nil
	}

	// A miss with upsert seeds the new document from the filter's equality
	// conditions, then applies the update.
	seed := bson.M{}
	conds, err := fields(filter)
	if err != nil {
		return nil, err
	}
	for _, e := range conds {
		if strings.HasPrefix(e.Key, "$") || isOperatorDoc(e.Value) {
			continue
		}
		if _, isRegex := e.Value.(primitive.Regex); isRegex {
			continue
		}
		v, err := normalize(e.Value)
		if err != nil {
			return nil, err
		}
		seed[e.Key] = v
	}
	if err := apply(seed, ops, true); err != nil {
		return nil, err
	}
	if id, ok := seed["_id"]; !ok || id == nil {
		seed["_id"] = primitive.NewObjectID()
	}
	if err := c.checkUnique(seed, -1); err != nil {
		return nil, err
	}
	c.docs = append(c.docs, seed)
	return &store.UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: seed["_id"]}, nil
}

func (c *Collection) DeleteOne(_ context.Context, filter interface{}) (*store.DeleteResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, doc := range c.docs {
		ok, err := matches(doc, filter)
		if err != nil {
			return nil, err
		}
		if ok {
			c.docs = append(c.docs[:i], c.docs[i+1:]...)
			return &store.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
		}
	}
	return &store.DeleteResult{Acknowledged: true}, nil
}

func (c *Collection) checkUnique(doc bson.M, skip int) error {
	for i, other := range c.docs {
		if i != skip && compare(other["_id"], doc["_id"]) == 0 {
			return fmt.Errorf("memstore: %w on _id", store.ErrDuplicate)
		}
	}
	for _, field := range c.unique {
		v, ok := doc[field].(string)
		if !ok {
			continue
		}
		for i, other := range c.docs {
			if i == skip {
				continue
			}
			if ov, ok := other[field].(string); ok && ov == v {
				return fmt.Errorf("memstore: %w on %s", store.ErrDuplicate, field)
			}
		}
	}
	return nil
}

func apply(doc bson.M, ops bson.D, inserting bool) error {
	for _, op := range ops {
		switch op.Key {
		case "$set":
		case "$setOnInsert":
			if !inserting {
				continue
			}
		default:
			return fmt.Errorf("memstore: unsupported update operator %q", op.Key)
		}
		sets, err := fields(op.Value)
		if err != nil {
			return err
		}
		for _, s := range sets {
			v, err := normalize(s.Value)
			if err != nil {
				return err
			}
			doc[s.Key] = v
		}
	}
	return nil
}

func matches(doc bson.M, filter interface{}) (bool, error) {
	if filter == nil {
		return true, nil
	}
	conds, err := fields(filter)
	if err != nil {
		return false, err
	}
	for _, cond := range conds {
		ok, err := matchCond(doc, cond)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func matchCond(doc bson.M, cond bson.E) (bool, error) {
	switch cond.Key {
	case "$and", "$or":
		clauses, err := list(cond.Value)
		if err != nil {
			return false, err
		}
		for _, clause := range clauses {
			ok, err := matches(doc, clause)
			if err != nil {
				return false, err
			}
			if cond.Key == "$or" && ok {
				return true, nil
			}
			if cond.Key == "$and" && !ok {
				return false, nil
			}
		}
		return cond.Key == "$and", nil
	}

	value, present := doc[cond.Key]
	switch want := cond.Value.(type) {
	case primitive.Regex:
		return matchRegex(value, want.Pattern, want.Options)
	case *regexp.Regexp:
		s, ok := value.(string)
		return ok && want.MatchString(s), nil
	}

	if isOperatorDoc(cond.Value) {
		ops, _ := fields(cond.Value)
		var pattern, options string
		for _, op := range ops {
			switch op.Key {
			case "$regex":
				pattern, _ = op.Value.(string)
			case "$options":
				options, _ = op.Value.(string)
			case "$eq":
				if compare(value, op.Value) != 0 {
					return false, nil
				}
			case "$exists":
				if want, _ := op.Value.(bool); want != present {
					return false, nil
				}
			default:
				return false, fmt.Errorf("memstore: unsupported query operator %q", op.Key)
			}
		}
		if pattern != "" || options != "" {
			return matchRegex(value, pattern, options)
		}
		return true, nil
	}

	if !present {
		return cond.Value == nil, nil
	}
	return compare(value, cond.Value) == 0, nil
}

func matchRegex(value interface{}, pattern, options string) (bool, error) {
	s, ok := value.(string)
	if !ok {
		return false, nil
	}
	if strings.Contains(options, "i") {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, fmt.Errorf("memstore: bad regex: %w", err)
	}
	return re.MatchString(s), nil
}

func isOperatorDoc(v interface{}) bool {
	es, err := fields(v)
	if err != nil || len(es) == 0 {
		return false
	}
	for _, e := range es {
		if !strings.HasPrefix(e.Key, "$") {
			return false
		}
	}
	return true
}

// fields flattens the document shapes callers use into an ordered list.
func fields(v interface{}) (bson.D, error) {
	switch d := v.(type) {
	case bson.D:
		return d, nil
	case bson.M:
		return mapFields(d), nil
	case map[string]interface{}:
		return mapFields(d), nil
	}
	return nil, fmt.Errorf("memstore: unsupported document type %T", v)
}

func mapFields(m map[string]interface{}) bson.D {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(bson.D, 0, len(keys))
	for _, k := range keys {
		out = append(out, bson.E{Key: k, Value: m[k]})
	}
	return out
}

func list(v interface{}) ([]interface{}, error) {
	switch l := v.(type) {
	case bson.A:
		return l, nil
	case []interface{}:
		return l, nil
	case []bson.M:
		out := make([]interface{}, len(l))
		for i := range l {
			out[i] = l[i]
		}
		return out, nil
	case []bson.D:
		out := make([]interface{}, len(l))
		for i := range l {
			out[i] = l[i]
		}
		return out, nil
	}
	return nil, fmt.Errorf("memstore: unsupported clause list %T", v)
}

func direction(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 1
}

// compare orders values the way the store does for the types the API
// stores: missing/null < numbers < strings < object ids < dates.
func compare(a, b interface{}) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch ra {
	case 0:
		return 0
	case 1:
		fa, fb := number(a), number(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case 2:
		return strings.Compare(a.(string), b.(string))
	case 3:
		return strings.Compare(a.(primitive.ObjectID).Hex(), b.(primitive.ObjectID).Hex())
	case 4:
		ta, tb := asTime(a), asTime(b)
		switch {
		case ta.Before(tb):
			return -1
		case ta.After(tb):
			return 1
		}
		return 0
	case 5:
		switch {
		case a == b:
			return 0
		case !a.(bool):
			return -1
		}
		return 1
	}
	if reflect.DeepEqual(a, b) {
		return 0
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func rank(v interface{}) int {
	switch v.(type) {
	case nil:
		return 0
	case int, int32, int64, float32, float64:
		return 1
	case string:
		return 2
	case primitive.ObjectID:
		return 3
	case primitive.DateTime, time.Time:
		return 4
	case bool:
		return 5
	}
	return 6
}

func number(v interface{}) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

func asTime(v interface{}) time.Time {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time()
	case time.Time:
		return t
	}
	return time.Time{}
}

// toDoc round-trips v through BSON so stored documents hold the same types
// a real store would hand back.
func toDoc(v interface{}) (bson.M, error) {
	data, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("memstore: marshal: %w", err)
	}
	var m bson.M
	if err := bson.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("memstore: unmarshal: %w", err)
	}
	return m, nil
}

func normalize(v interface{}) (interface{}, error) {
	m, err := toDoc(bson.M{"v": v})
	if err != nil {
		return nil, err
	}
	return m["v"], nil
}

func clone(doc bson.M) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func decode(doc bson.M, out interface{}) error {
	data, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("memstore: marshal: %w", err)
	}
	if err := bson.Unmarshal(data, out); err != nil {
		return fmt.Errorf("memstore: decode: %w", err)
	}
	return nil
}
