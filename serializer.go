package jsonconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/iancoleman/orderedmap"
	"gopkg.in/yaml.v3"
)

// Settings are passed through to a Serializer.
type Settings struct {
	// Indent is the per-level indentation. Empty produces compact output.
	Indent string
	// EscapeHTML escapes <, > and & inside strings.
	EscapeHTML bool
	// NamingPolicy renames untagged struct fields.
	NamingPolicy NamingPolicy
	// AllowComments strips // and /* */ comments before decoding.
	AllowComments bool
	// DisallowUnknownFields fails decoding on keys with no matching field.
	DisallowUnknownFields bool
}

// DefaultSettings returns two-space indented output with default naming.
func DefaultSettings() Settings {
	return Settings{Indent: "  "}
}

// Serializer encodes configuration values to documents and back.
//
// Unmarshal receives a pointer to a pointer (**T). A document holding the null
// literal, or nothing at all, must leave the inner pointer nil.
type Serializer interface {
	Marshal(v any, s Settings) ([]byte, error)
	Unmarshal(data []byte, target any, s Settings) error
	// Ext is the file extension used for default paths, including the dot.
	Ext() string
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// JSON is the default Serializer, backed by encoding/json.
type JSON struct{}

func (JSON) Ext() string { return ".json" }

// Marshal encodes v followed by a newline.
func (JSON) Marshal(v any, s Settings) ([]byte, error) {
	payload := v
	if s.NamingPolicy != NamingDefault {
		tree, err := orderedTree(v, s)
		if err != nil {
			return nil, err
		}
		payload = tree
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(s.EscapeHTML)
	enc.SetIndent("", s.Indent)
	if err := enc.Encode(payload); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (JSON) Unmarshal(data []byte, target any, s Settings) error {
	data = bytes.TrimPrefix(data, utf8BOM)
	if s.AllowComments {
		data = StripComments(data)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if s.NamingPolicy != NamingDefault {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var tree any
		if err := decodeSingle(dec, &tree); err != nil {
			return err
		}
		if tree == nil {
			return nil
		}
		tree, err := renamer{policy: s.NamingPolicy, decode: true}.walk(tree, reflect.TypeOf(target))
		if err != nil {
			return err
		}
		raw, err := json.Marshal(tree)
		if err != nil {
			return err
		}
		data = raw
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if s.DisallowUnknownFields {
		dec.DisallowUnknownFields()
	}
	return decodeSingle(dec, target)
}

// decodeSingle decodes one value and rejects anything but whitespace after it.
func decodeSingle(dec *json.Decoder, target any) error {
	if err := dec.Decode(target); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("invalid character after top-level value")
	}
	return nil
}

// orderedTree encodes v and reshapes the result into an order-preserving tree
// with the naming policy applied. Numbers keep their encoded text.
func orderedTree(v any, s Settings) (any, error) {
	tree, err := encodeTree(v, s.EscapeHTML)
	if err != nil {
		return nil, err
	}
	r := renamer{policy: s.NamingPolicy, escapeHTML: s.EscapeHTML}
	return r.walk(tree, reflect.TypeOf(v))
}

// encodeTree encodes v with encoding/json and decodes the result with
// decodeOrdered.
func encodeTree(v any, escapeHTML bool) (any, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(escapeHTML)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	dec := json.NewDecoder(&buf)
	dec.UseNumber()
	return decodeOrdered(dec, escapeHTML)
}

// YAML stores configuration as YAML documents using gopkg.in/yaml.v3. The
// document is shaped by the JSON encoding first, so `json` tags and the
// naming policy apply to both formats and key order follows field order.
type YAML struct{}

func (YAML) Ext() string { return ".yaml" }

func (YAML) Marshal(v any, s Settings) ([]byte, error) {
	raw, err := JSON{}.Marshal(v, Settings{NamingPolicy: s.NamingPolicy})
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	tree, err := decodeOrdered(dec, false)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent(s.Indent))
	if err := enc.Encode(yamlNode(tree)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (YAML) Unmarshal(data []byte, target any, s Settings) error {
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return err
	}
	if tree == nil {
		return nil
	}
	raw, err := json.Marshal(stringKeys(tree))
	if err != nil {
		return err
	}
	return JSON{}.Unmarshal(raw, target, Settings{
		NamingPolicy:          s.NamingPolicy,
		DisallowUnknownFields: s.DisallowUnknownFields,
	})
}

func yamlIndent(indent string) int {
	if indent == "" || strings.Trim(indent, " ") != "" {
		return 2
	}
	return len(indent)
}

func yamlNode(v any) *yaml.Node {
	switch val := v.(type) {
	case *orderedmap.OrderedMap:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range val.Keys() {
			item, _ := val.Get(k)
			n.Content = append(n.Content, yamlString(k), yamlNode(item))
		}
		return n
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range val {
			n.Content = append(n.Content, yamlNode(item))
		}
		return n
	case string:
		return yamlString(val)
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(val)}
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(string(val), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: val.String()}
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fmt.Sprint(v)}
}

// yamlString quotes strings a YAML 1.1 reader would take for booleans, as
// yaml.v3 does when encoding Go strings.
func yamlString(s string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	switch s {
	case "y", "Y", "yes", "Yes", "YES", "on", "On", "ON",
		"n", "N", "no", "No", "NO", "off", "Off", "OFF":
		n.Style = yaml.DoubleQuotedStyle
	}
	return n
}

// stringKeys converts YAML mappings with non-string keys so the tree can be
// re-encoded as JSON.
func stringKeys(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = stringKeys(item)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = stringKeys(item)
		}
		return out
	case []any:
		for i, item := range val {
			val[i] = stringKeys(item)
		}
		return val
	}
	return v
}
