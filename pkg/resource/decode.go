package resource

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/raywall/livros-api/docstore"
)

const maxBodyBytes = 1 << 20

var errTrailingData = errors.New("dados extras após o objeto JSON")

// decodeDocument lê o corpo como objeto JSON ou formulário urlencoded.
// Corpo vazio vira documento vazio, para que a validação reporte os campos ausentes.
func decodeDocument(w http.ResponseWriter, r *http.Request) (docstore.Document, error) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()

	if isForm(r) {
		return decodeForm(body)
	}

	dec := json.NewDecoder(body)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return docstore.Document{}, nil
		}
		return nil, err
	}
	if dec.More() {
		return nil, errTrailingData
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return docstore.Document(normalize(raw).(map[string]any)), nil
}

// normalize troca json.Number por int64 (inteiros) ou float64
func normalize(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case map[string]any:
		for k, item := range x {
			x[k] = normalize(item)
		}
		return x
	case []any:
		for i, item := range x {
			x[i] = normalize(item)
		}
		return x
	default:
		return v
	}
}

func isForm(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/x-www-form-urlencoded"
}

// decodeForm aceita a notação de colchetes: "autor[nome]=x" vira objeto e
// "tags[]=a&tags[]=b" vira lista. Valores são sempre strings.
func decodeForm(body io.Reader) (docstore.Document, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	doc := docstore.Document{}
	for _, k := range keys {
		assignForm(doc, formPath(k), values[k])
	}
	return doc, nil
}

// formPath quebra "a[b][]" em ["a", "b", ""]; chave malformada fica literal
func formPath(key string) []string {
	idx := strings.IndexByte(key, '[')
	if idx <= 0 {
		return []string{key}
	}

	segs := []string{key[:idx]}
	rest := key[idx:]
	for rest != "" {
		end := strings.IndexByte(rest, ']')
		if rest[0] != '[' || end < 0 {
			return []string{key}
		}
		segs = append(segs, rest[1:end])
		rest = rest[end+1:]
	}
	return segs
}

func assignForm(doc map[string]any, segs []string, vals []string) {
	key := segs[0]
	if len(segs) == 1 {
		if len(vals) == 1 {
			doc[key] = vals[0]
		} else {
			doc[key] = toList(vals)
		}
		return
	}

	if segs[1] == "" {
		list, _ := doc[key].([]any)
		doc[key] = append(list, toList(vals)...)
		return
	}

	child, ok := doc[key].(map[string]any)
	if !ok {
		child = map[string]any{}
		doc[key] = child
	}
	assignForm(child, segs[1:], vals)
}

func toList(vals []string) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}
