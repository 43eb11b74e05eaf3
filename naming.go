package jsonconfig

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/iancoleman/orderedmap"
)

// NamingPolicy renames untagged struct fields in the serialized document.
// Fields with an explicit `json:"name"` tag keep their tag name. Map keys are
// never renamed.
type NamingPolicy int

const (
	// NamingDefault keeps Go field names, as encoding/json does.
	NamingDefault NamingPolicy = iota
	// CamelCase renders MaxRetries as maxRetries.
	CamelCase
	// SnakeCase renders MaxRetries as max_retries.
	SnakeCase
	// KebabCase renders MaxRetries as max-retries.
	KebabCase
	// ScreamingSnakeCase renders MaxRetries as MAX_RETRIES.
	ScreamingSnakeCase
)

func (p NamingPolicy) String() string {
	switch p {
	case NamingDefault:
		return "default"
	case CamelCase:
		return "camelCase"
	case SnakeCase:
		return "snake_case"
	case KebabCase:
		return "kebab-case"
	case ScreamingSnakeCase:
		return "SCREAMING_SNAKE_CASE"
	}
	return "unknown"
}

// Apply converts a Go identifier according to the policy.
func (p NamingPolicy) Apply(name string) string {
	if p == NamingDefault || name == "" {
		return name
	}
	words := splitWords(name)
	switch p {
	case CamelCase:
		var b strings.Builder
		for i, w := range words {
			if i == 0 {
				b.WriteString(strings.ToLower(w))
				continue
			}
			b.WriteString(title(w))
		}
		return b.String()
	case SnakeCase:
		return strings.ToLower(strings.Join(words, "_"))
	case KebabCase:
		return strings.ToLower(strings.Join(words, "-"))
	case ScreamingSnakeCase:
		return strings.ToUpper(strings.Join(words, "_"))
	}
	return name
}

// splitWords splits an identifier on lower→upper transitions and at the end
// of an acronym (APIKey → API, Key). Letters and digits stay together so that
// ApiKey2FA → Api, Key2FA. Underscores and hyphens are separators.
func splitWords(s string) []string {
	var words []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' }) {
		runes := []rune(part)
		start := 0
		for i := 1; i < len(runes); i++ {
			var next rune
			if i+1 < len(runes) {
				next = runes[i+1]
			}
			if isBoundary(runes[i-1], runes[i], next) {
				words = append(words, string(runes[start:i]))
				start = i
			}
		}
		words = append(words, string(runes[start:]))
	}
	return words
}

func isBoundary(prev, curr, next rune) bool {
	if unicode.IsLower(prev) && unicode.IsUpper(curr) {
		return true
	}
	return unicode.IsUpper(prev) && unicode.IsUpper(curr) && unicode.IsLower(next)
}

func title(w string) string {
	runes := []rune(strings.ToLower(w))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// jsonField is a struct field as encoding/json sees it.
type jsonField struct {
	name   string
	tagged bool
	typ    reflect.Type
}

// jsonFields lists the serialized fields of t, flattening untagged embedded
// structs the way encoding/json does.
func jsonFields(t reflect.Type) []jsonField {
	var fields []jsonField
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if sf.Anonymous && name == "" {
			et := sf.Type
			if et.Kind() == reflect.Pointer {
				et = et.Elem()
			}
			if et.Kind() == reflect.Struct {
				fields = append(fields, jsonFields(et)...)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		if name == "" {
			fields = append(fields, jsonField{name: sf.Name, typ: sf.Type})
		} else {
			fields = append(fields, jsonField{name: name, tagged: true, typ: sf.Type})
		}
	}
	return fields
}

var (
	jsonMarshalerType   = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	jsonUnmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// opaque reports whether t controls its own encoding, in which case its
// document shape is left alone.
func opaque(t reflect.Type) bool {
	pt := reflect.PointerTo(t)
	for _, it := range []reflect.Type{jsonMarshalerType, jsonUnmarshalerType, textMarshalerType, textUnmarshalerType} {
		if t.Implements(it) || pt.Implements(it) {
			return true
		}
	}
	return false
}

// renamer rewrites object keys of a decoded document tree guided by the Go
// type the document encodes. Objects are either orderedmap values (encode
// direction, order matters) or plain maps (decode direction).
type renamer struct {
	policy     NamingPolicy
	decode     bool
	escapeHTML bool
}

func (r renamer) walk(v any, t reflect.Type) (any, error) {
	if t == nil || v == nil {
		return v, nil
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if opaque(t) {
		return v, nil
	}
	switch t.Kind() {
	case reflect.Struct:
		index, err := r.index(t)
		if err != nil {
			return nil, err
		}
		return r.rebuild(v, func(k string) (string, reflect.Type) {
			if f, ok := index[k]; ok {
				return f.name, f.typ
			}
			return k, nil
		})
	case reflect.Map:
		elem := t.Elem()
		return r.rebuild(v, func(k string) (string, reflect.Type) { return k, elem })
	case reflect.Slice, reflect.Array:
		if items, ok := v.([]any); ok {
			for i := range items {
				item, err := r.walk(items[i], t.Elem())
				if err != nil {
					return nil, err
				}
				items[i] = item
			}
		}
	}
	return v, nil
}

// index maps incoming document keys to the outgoing key and field type. Two
// distinct fields sharing a key under the policy are an error.
func (r renamer) index(t reflect.Type) (map[string]jsonField, error) {
	fields := jsonFields(t)
	index := make(map[string]jsonField, len(fields))
	owner := make(map[string]string, len(fields))
	for _, f := range fields {
		renamed := f.name
		if !f.tagged {
			renamed = r.policy.Apply(f.name)
		}
		if prev, ok := owner[renamed]; ok && prev != f.name {
			return nil, fmt.Errorf("%s: fields %s and %s both map to key %q under %s",
				t, prev, f.name, renamed, r.policy)
		}
		owner[renamed] = f.name
		if r.decode {
			index[renamed] = jsonField{name: f.name, tagged: f.tagged, typ: f.typ}
		} else {
			index[f.name] = jsonField{name: renamed, tagged: f.tagged, typ: f.typ}
		}
	}
	return index, nil
}

func (r renamer) rebuild(v any, key func(string) (string, reflect.Type)) (any, error) {
	switch m := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			nk, t := key(k)
			item, err := r.walk(val, t)
			if err != nil {
				return nil, err
			}
			out[nk] = item
		}
		return out, nil
	case *orderedmap.OrderedMap:
		out := orderedmap.New()
		out.SetEscapeHTML(r.escapeHTML)
		for _, k := range m.Keys() {
			val, _ := m.Get(k)
			nk, t := key(k)
			item, err := r.walk(val, t)
			if err != nil {
				return nil, err
			}
			out.Set(nk, item)
		}
		return out, nil
	}
	return v, nil
}

// decodeOrdered reads one JSON value from dec into a tree of orderedmap
// objects, []any arrays and scalars. dec must have UseNumber set so numbers
// keep their original text.
func decodeOrdered(dec *json.Decoder, escapeHTML bool) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		om := orderedmap.New()
		om.SetEscapeHTML(escapeHTML)
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			k, _ := kt.(string)
			val, err := decodeOrdered(dec, escapeHTML)
			if err != nil {
				return nil, err
			}
			om.Set(k, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return om, nil
	case '[':
		items := []any{}
		for dec.More() {
			val, err := decodeOrdered(dec, escapeHTML)
			if err != nil {
				return nil, err
			}
			items = append(items, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return items, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %v", delim)
}
