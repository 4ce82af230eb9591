// docstore/memory.go
package docstore

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var errEmptySet = errors.New("'$set' is empty. You must specify a field like so: {$set: {<field>: ...}}")

// MemoryBackend mantém as coleções em memória. Os dados se perdem ao reiniciar.
// Seguro para uso concorrente.
type MemoryBackend struct {
	mu          sync.Mutex
	collections map[string]*MemoryStore
}

// NewMemoryBackend cria um backend vazio
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{collections: make(map[string]*MemoryStore)}
}

func (b *MemoryBackend) Collection(name string) Store {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.collections[name]; ok {
		return s
	}
	s := NewMemoryStore()
	b.collections[name] = s
	return s
}

func (b *MemoryBackend) Close(context.Context) error { return nil }

// MemoryStore é uma coleção em memória com a mesma semântica do backend MongoDB
type MemoryStore struct {
	mu    sync.RWMutex
	order []bson.ObjectID
	docs  map[bson.ObjectID]Document
}

// NewMemoryStore cria uma coleção vazia
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[bson.ObjectID]Document)}
}

func (m *MemoryStore) Find() *QueryBuilder {
	return NewQueryBuilder(m.find)
}

func (m *MemoryStore) find(_ context.Context, q Query) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Document, 0, len(m.order))
	for _, id := range m.order {
		doc := m.docs[id]
		if q.ID != nil && id != *q.ID {
			continue
		}
		if q.Contains != nil && !containsFold(doc[q.Contains.Field], q.Contains.Substring) {
			continue
		}
		cp := copyDocument(doc)
		for _, f := range q.Exclude {
			delete(cp, f)
		}
		result = append(result, cp)
	}

	sortDocuments(result, q.SortBy)
	return result, nil
}

func (m *MemoryStore) InsertOne(_ context.Context, doc Document) (*InsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := bson.NewObjectID()
	stored := copyDocument(withoutID(doc))
	stored[IDField] = id

	m.docs[id] = stored
	m.order = append(m.order, id)
	return &InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (m *MemoryStore) UpdateOne(_ context.Context, id bson.ObjectID, set Document) (*UpdateResult, error) {
	set = withoutID(set)
	if len(set) == 0 {
		return nil, fmt.Errorf("docstore: update failed: %w", errEmptySet)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	res := &UpdateResult{Acknowledged: true}
	doc, ok := m.docs[id]
	if !ok {
		return res, nil
	}
	res.MatchedCount = 1

	changed := false
	for k, v := range set {
		if current, exists := doc[k]; !exists || !reflect.DeepEqual(current, v) {
			changed = true
		}
	}
	if changed {
		updated := copyDocument(doc)
		for k, v := range copyDocument(set) {
			updated[k] = v
		}
		m.docs[id] = updated
		res.ModifiedCount = 1
	}
	return res, nil
}

func (m *MemoryStore) DeleteOne(_ context.Context, id bson.ObjectID) (*DeleteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := &DeleteResult{Acknowledged: true}
	if _, ok := m.docs[id]; !ok {
		return res, nil
	}
	delete(m.docs, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	res.DeletedCount = 1
	return res, nil
}

// Len retorna a quantidade de documentos armazenados
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

// --- helpers ---

// sortDocuments ordena de forma estável pelo campo, em ordem crescente
func sortDocuments(docs []Document, field string) {
	if field == "" {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return compareValues(docs[i][field], docs[j][field]) < 0
	})
}

// withoutID devolve uma cópia rasa sem o campo _id
func withoutID(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		if k == IDField {
			continue
		}
		out[k] = v
	}
	return out
}

func copyDocument(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch x := v.(type) {
	case Document:
		return copyDocument(x)
	case map[string]any:
		return map[string]any(copyDocument(x))
	case bson.A:
		out := make(bson.A, len(x))
		for i, item := range x {
			out[i] = copyValue(item)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}

func containsFold(v any, substring string) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substring))
}

// compareValues segue a ordem de tipos do MongoDB: ausente < números < strings < demais
func compareValues(a, b any) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		return ra - rb
	}
	switch ra {
	case 1:
		fa, fb := toFloat(a), toFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case 2:
		return strings.Compare(a.(string), b.(string))
	}
	return 0
}

func typeRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case int, int32, int64, float32, float64:
		return 1
	case string:
		return 2
	default:
		return 3
	}
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case float32:
		return float64(x)
	case float64:
		return x
	}
	return 0
}
