package load

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/luminiadev/lumigen/schema"
)

// A schema document in YAML:
//
//	package: cn.nukkit.item
//	entities:
//	  - name: ToolMaterial
//	    parent: ItemMaterial
//	    comment: Material of a tool item.
//	    annotations:
//	      - lombok.Getter
//	      - name: Deprecated
//	        args: {since: "1.2"}
//	    fields:
//	      - name: durability
//	        type: int
//	        default: 250
//	      - name: repairItem
//	        type: ItemMaterial?
//	        mutable: true
//	  - name: Sound
//	    kind: enum
//	    fields:
//	      - {name: key, type: string}
//	    constants:
//	      - {name: RANDOM_CLICK, args: [random.click]}
//
// The document package applies to the entities that declare none. Types
// use the syntax of schema.ParseTypeRef. A mapping value with an "@type"
// key names its declaring type, e.g. a nested annotation.
type (
	document struct {
		Package  string       `yaml:"package,omitempty"`
		Entities []*entityDoc `yaml:"entities"`
	}

	entityDoc struct {
		Name        string      `yaml:"name"`
		Package     string      `yaml:"package,omitempty"`
		Kind        string      `yaml:"kind,omitempty"`
		Parent      string      `yaml:"parent,omitempty"`
		Comment     string      `yaml:"comment,omitempty"`
		Annotations []yaml.Node `yaml:"annotations,omitempty"`
		Fields      []*fieldDoc `yaml:"fields,omitempty"`
		Constants   []yaml.Node `yaml:"constants,omitempty"`
	}

	fieldDoc struct {
		Name        string      `yaml:"name"`
		Type        string      `yaml:"type"`
		Mutable     bool        `yaml:"mutable,omitempty"`
		Default     yaml.Node   `yaml:"default,omitempty"`
		Comment     string      `yaml:"comment,omitempty"`
		Annotations []yaml.Node `yaml:"annotations,omitempty"`
	}
)

// typeKey is the mapping key naming the declaring type of a map value.
const typeKey = "@type"

// maxValueDepth bounds value nesting, which also stops alias cycles.
const maxValueDepth = 256

func parseDocument(data []byte) (*schema.Schema, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return schema.New(), nil
		}
		return nil, yamlError(err)
	}
	n := resolve(&root)
	if n.Kind == yaml.DocumentNode {
		n = resolve(n.Content[0])
	}
	keys, err := mapping(n, "package", "entities")
	if err != nil {
		return nil, err
	}
	pkg, err := str(keys["package"])
	if err != nil {
		return nil, err
	}
	nodes, err := sequence(keys["entities"])
	if err != nil {
		return nil, err
	}
	s := schema.New()
	for _, en := range nodes {
		e, err := decodeEntity(en)
		if err != nil {
			return nil, err
		}
		if e.Package == "" {
			e.Package = pkg
		}
		s.Entities = append(s.Entities, e)
	}
	return s, nil
}

// yamlError converts a syntax error of the yaml package into an Error.
// The package reports positions as a "yaml: line N:" prefix.
func yamlError(err error) error {
	msg := err.Error()
	var line int
	if _, scanErr := fmt.Sscanf(msg, "yaml: line %d:", &line); scanErr == nil {
		_, msg, _ = strings.Cut(msg, ": ")
		_, msg, _ = strings.Cut(msg, ": ")
		return errorf(line, 0, "%s", msg)
	}
	return &Error{Err: err}
}

func decodeEntity(n *yaml.Node) (*schema.Entity, error) {
	keys, err := mapping(n, "name", "package", "kind", "parent", "comment", "annotations", "fields", "constants")
	if err != nil {
		return nil, err
	}
	e := &schema.Entity{}
	if e.Name, err = required(n, keys, "name"); err != nil {
		return nil, err
	}
	wrap := func(err error) error {
		return prefixed(err, "entity %s: ", e.Name)
	}
	for _, kv := range []struct {
		key string
		dst *string
	}{{"package", &e.Package}, {"parent", &e.Parent}, {"comment", &e.Comment}} {
		if *kv.dst, err = str(keys[kv.key]); err != nil {
			return nil, wrap(err)
		}
	}
	kind, err := str(keys["kind"])
	if err != nil {
		return nil, wrap(err)
	}
	if e.Kind, err = parseKind(kind); err != nil {
		return nil, wrap(at(keys["kind"], err))
	}
	if e.Annotations, err = decodeAnnotations(keys["annotations"]); err != nil {
		return nil, wrap(err)
	}
	fields, err := sequence(keys["fields"])
	if err != nil {
		return nil, wrap(err)
	}
	for _, fn := range fields {
		f, err := decodeField(fn)
		if err != nil {
			return nil, wrap(err)
		}
		e.Fields = append(e.Fields, f)
	}
	constants, err := sequence(keys["constants"])
	if err != nil {
		return nil, wrap(err)
	}
	for _, cn := range constants {
		c, err := decodeConstant(cn)
		if err != nil {
			return nil, wrap(err)
		}
		e.Constants = append(e.Constants, c)
	}
	return e, nil
}

func parseKind(s string) (schema.EntityKind, error) {
	switch strings.ToLower(s) {
	case "", "class":
		return schema.Class, nil
	case "abstract":
		return schema.Abstract, nil
	case "enum":
		return schema.Enum, nil
	}
	return 0, fmt.Errorf("unknown entity kind %q", s)
}

func decodeField(n *yaml.Node) (*schema.Field, error) {
	keys, err := mapping(n, "name", "type", "mutable", "default", "comment", "annotations")
	if err != nil {
		return nil, err
	}
	f := &schema.Field{}
	if f.Name, err = required(n, keys, "name"); err != nil {
		return nil, err
	}
	wrap := func(err error) error {
		return prefixed(err, "field %s: ", f.Name)
	}
	typ, err := required(n, keys, "type")
	if err != nil {
		return nil, wrap(err)
	}
	if f.Type, err = schema.ParseTypeRef(typ); err != nil {
		return nil, wrap(at(keys["type"], err))
	}
	if f.Mutable, err = boolean(keys["mutable"]); err != nil {
		return nil, wrap(err)
	}
	if dn := keys["default"]; dn != nil {
		if f.Default, err = decodeValue(dn, 0); err != nil {
			return nil, wrap(err)
		}
	}
	if f.Comment, err = str(keys["comment"]); err != nil {
		return nil, wrap(err)
	}
	if f.Annotations, err = decodeAnnotations(keys["annotations"]); err != nil {
		return nil, wrap(err)
	}
	return f, nil
}

// decodeConstant accepts a bare name or a mapping with name, args and comment.
func decodeConstant(n *yaml.Node) (*schema.Constant, error) {
	if n.Kind == yaml.ScalarNode {
		name, err := str(n)
		if err != nil || name == "" {
			return nil, errorf(n.Line, n.Column, "constant name must be a non-empty string")
		}
		return &schema.Constant{Name: name}, nil
	}
	keys, err := mapping(n, "name", "args", "comment")
	if err != nil {
		return nil, err
	}
	c := &schema.Constant{}
	if c.Name, err = required(n, keys, "name"); err != nil {
		return nil, err
	}
	if c.Comment, err = str(keys["comment"]); err != nil {
		return nil, err
	}
	args, err := sequence(keys["args"])
	if err != nil {
		return nil, err
	}
	for _, an := range args {
		v, err := decodeValue(an, 0)
		if err != nil {
			return nil, prefixed(err, "constant %s: ", c.Name)
		}
		c.Args = append(c.Args, *v)
	}
	return c, nil
}

// decodeAnnotations accepts a sequence of bare names and mappings with a
// name and ordered args.
func decodeAnnotations(n *yaml.Node) ([]*schema.Annotation, error) {
	nodes, err := sequence(n)
	if err != nil {
		return nil, err
	}
	var list []*schema.Annotation
	for _, an := range nodes {
		if an.Kind == yaml.ScalarNode {
			name, err := str(an)
			if err != nil {
				return nil, err
			}
			list = append(list, &schema.Annotation{Name: name})
			continue
		}
		keys, err := mapping(an, "name", "args")
		if err != nil {
			return nil, err
		}
		a := &schema.Annotation{}
		if a.Name, err = required(an, keys, "name"); err != nil {
			return nil, err
		}
		if args := keys["args"]; args != nil {
			v, err := decodeValue(args, 0)
			if err != nil {
				return nil, prefixed(err, "annotation %s: ", a.Name)
			}
			if v.Kind != schema.ValueMap || v.Type != "" {
				return nil, errorf(args.Line, args.Column, "annotation %s: args must be a mapping", a.Name)
			}
			a.Args = v.Entries
		}
		list = append(list, a)
	}
	return list, nil
}

// decodeValue converts a YAML node into a literal. Mappings keep their key
// order.
func decodeValue(n *yaml.Node, depth int) (*schema.Value, error) {
	if depth > maxValueDepth {
		return nil, errorf(n.Line, n.Column, "value nested deeper than %d levels", maxValueDepth)
	}
	n = resolve(n)
	switch n.Kind {
	case yaml.ScalarNode:
		return scalarValue(n)
	case yaml.SequenceNode:
		l := &schema.Value{Kind: schema.ValueList, List: make([]schema.Value, 0, len(n.Content))}
		for _, c := range n.Content {
			v, err := decodeValue(c, depth+1)
			if err != nil {
				return nil, err
			}
			l.List = append(l.List, *v)
		}
		return l, nil
	case yaml.MappingNode:
		m := schema.MapValue()
		seen := make(map[string]bool, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := resolve(n.Content[i])
			if k.Kind != yaml.ScalarNode {
				return nil, errorf(k.Line, k.Column, "mapping keys must be scalars")
			}
			if seen[k.Value] {
				return nil, errorf(k.Line, k.Column, "duplicate key %q", k.Value)
			}
			seen[k.Value] = true
			if k.Value == typeKey {
				typ, err := str(n.Content[i+1])
				if err != nil {
					return nil, err
				}
				m.Type = typ
				continue
			}
			v, err := decodeValue(n.Content[i+1], depth+1)
			if err != nil {
				return nil, err
			}
			m.Entries = append(m.Entries, schema.NewArg(k.Value, v))
		}
		return m, nil
	}
	return nil, errorf(n.Line, n.Column, "unexpected %s", nodeKind(n))
}

func scalarValue(n *yaml.Node) (*schema.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return schema.NullValue(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, at(n, err)
		}
		return schema.BoolValue(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, errorf(n.Line, n.Column, "integer %s out of range", n.Value)
		}
		return schema.IntValue(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, at(n, err)
		}
		return schema.FloatValue(f), nil
	default:
		return schema.StringValue(n.Value), nil
	}
}

// resolve follows aliases to the anchored node.
func resolve(n *yaml.Node) *yaml.Node {
	for i := 0; n != nil && n.Kind == yaml.AliasNode && i < maxValueDepth; i++ {
		n = n.Alias
	}
	return n
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "node"
}

// mapping returns the values of a mapping node by key, rejecting unknown
// and duplicate keys. A nil or null node is an empty mapping.
func mapping(n *yaml.Node, known ...string) (map[string]*yaml.Node, error) {
	n = resolve(n)
	keys := make(map[string]*yaml.Node)
	if n == nil || isNull(n) {
		return keys, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, errorf(n.Line, n.Column, "expected a mapping, got %s", nodeKind(n))
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		var ok bool
		for _, name := range known {
			ok = ok || name == k.Value
		}
		switch {
		case !ok:
			return nil, errorf(k.Line, k.Column, "unknown key %q", k.Value)
		case keys[k.Value] != nil:
			return nil, errorf(k.Line, k.Column, "duplicate key %q", k.Value)
		}
		keys[k.Value] = resolve(n.Content[i+1])
	}
	return keys, nil
}

// sequence returns the items of a sequence node. A nil or null node is
// an empty sequence.
func sequence(n *yaml.Node) ([]*yaml.Node, error) {
	n = resolve(n)
	if n == nil || isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, errorf(n.Line, n.Column, "expected a sequence, got %s", nodeKind(n))
	}
	items := make([]*yaml.Node, len(n.Content))
	for i, c := range n.Content {
		items[i] = resolve(c)
	}
	return items, nil
}

// str returns the text of a scalar node. A nil or null node is empty.
func str(n *yaml.Node) (string, error) {
	n = resolve(n)
	if n == nil || isNull(n) {
		return "", nil
	}
	if n.Kind != yaml.ScalarNode {
		return "", errorf(n.Line, n.Column, "expected a string, got %s", nodeKind(n))
	}
	return n.Value, nil
}

func boolean(n *yaml.Node) (bool, error) {
	n = resolve(n)
	if n == nil || isNull(n) {
		return false, nil
	}
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!bool" {
		return false, errorf(n.Line, n.Column, "expected a boolean, got %q", n.Value)
	}
	var b bool
	if err := n.Decode(&b); err != nil {
		return false, at(n, err)
	}
	return b, nil
}

func required(parent *yaml.Node, keys map[string]*yaml.Node, key string) (string, error) {
	s, err := str(keys[key])
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", errorf(parent.Line, parent.Column, "missing %s", key)
	}
	return s, nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

// at positions err at node n, unless it is positioned already.
func at(n *yaml.Node, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Line: n.Line, Column: n.Column, Err: err}
}

// prefixed adds context to the message of a loading error.
func prefixed(err error, format string, args ...any) error {
	var e *Error
	if !errors.As(err, &e) {
		return fmt.Errorf(format+"%w", append(args, err)...)
	}
	e.Err = fmt.Errorf(format+"%w", append(args, e.Err)...)
	return err
}

func marshalYAML(s *schema.Schema) ([]byte, error) {
	doc, err := toDocument(s)
	if err != nil {
		return nil, err
	}
	var b bytes.Buffer
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("load: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("load: encode yaml: %w", err)
	}
	return b.Bytes(), nil
}

// marshalJSON writes the document tree as JSON, keeping the key order.
func marshalJSON(s *schema.Schema) ([]byte, error) {
	doc, err := toDocument(s)
	if err != nil {
		return nil, err
	}
	var n yaml.Node
	if err := n.Encode(doc); err != nil {
		return nil, fmt.Errorf("load: encode json: %w", err)
	}
	var compact bytes.Buffer
	if err := writeJSON(&compact, &n); err != nil {
		return nil, err
	}
	var b bytes.Buffer
	if err := json.Indent(&b, compact.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("load: encode json: %w", err)
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func writeJSON(b *bytes.Buffer, n *yaml.Node) error {
	n = resolve(n)
	switch n.Kind {
	case yaml.DocumentNode:
		return writeJSON(b, n.Content[0])
	case yaml.MappingNode:
		b.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				b.WriteByte(',')
			}
			k, err := json.Marshal(n.Content[i].Value)
			if err != nil {
				return fmt.Errorf("load: encode json: %w", err)
			}
			b.Write(k)
			b.WriteByte(':')
			if err := writeJSON(b, n.Content[i+1]); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	case yaml.SequenceNode:
		b.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := writeJSON(b, c); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			b.WriteString("null")
		case "!!bool", "!!int":
			var v any
			if err := n.Decode(&v); err != nil {
				return fmt.Errorf("load: encode json: %w", err)
			}
			out, _ := json.Marshal(v)
			b.Write(out)
		case "!!float":
			if !json.Valid([]byte(n.Value)) {
				return fmt.Errorf("load: encode json: %s cannot be represented in JSON", n.Value)
			}
			b.WriteString(n.Value)
		default:
			out, err := json.Marshal(n.Value)
			if err != nil {
				return fmt.Errorf("load: encode json: %w", err)
			}
			b.Write(out)
		}
	default:
		return fmt.Errorf("load: encode json: unexpected %s", nodeKind(n))
	}
	return nil
}

func toDocument(s *schema.Schema) (*document, error) {
	doc := &document{Entities: make([]*entityDoc, 0, len(s.Entities))}
	for _, e := range s.Entities {
		if e == nil {
			return nil, errors.New("load: nil entity")
		}
		ed := &entityDoc{
			Name:    e.Name,
			Package: e.Package,
			Parent:  e.Parent,
			Comment: e.Comment,
		}
		if e.Kind != schema.Class {
			ed.Kind = e.Kind.String()
		}
		ed.Annotations = annotationNodes(e.Annotations)
		for _, f := range e.Fields {
			if f == nil || f.Type == nil {
				return nil, fmt.Errorf("load: entity %s: field without a type", e.Name)
			}
			fd := &fieldDoc{
				Name:        f.Name,
				Type:        f.Type.String(),
				Mutable:     f.Mutable,
				Comment:     f.Comment,
				Annotations: annotationNodes(f.Annotations),
			}
			if f.Default != nil {
				fd.Default = *valueNode(*f.Default)
			}
			ed.Fields = append(ed.Fields, fd)
		}
		for _, c := range e.Constants {
			ed.Constants = append(ed.Constants, *constantNode(c))
		}
		doc.Entities = append(doc.Entities, ed)
	}
	return doc, nil
}

func constantNode(c *schema.Constant) *yaml.Node {
	if len(c.Args) == 0 && c.Comment == "" {
		return strNode(c.Name)
	}
	n := &yaml.Node{Kind: yaml.MappingNode}
	n.Content = append(n.Content, strNode("name"), strNode(c.Name))
	if len(c.Args) > 0 {
		args := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, a := range c.Args {
			args.Content = append(args.Content, valueNode(a))
		}
		n.Content = append(n.Content, strNode("args"), args)
	}
	if c.Comment != "" {
		n.Content = append(n.Content, strNode("comment"), strNode(c.Comment))
	}
	return n
}

func annotationNodes(list []*schema.Annotation) []yaml.Node {
	var nodes []yaml.Node
	for _, a := range list {
		if len(a.Args) == 0 {
			nodes = append(nodes, *strNode(a.Name))
			continue
		}
		n := yaml.Node{Kind: yaml.MappingNode}
		n.Content = append(n.Content, strNode("name"), strNode(a.Name), strNode("args"), valueNode(*schema.MapValue(a.Args...)))
		nodes = append(nodes, n)
	}
	return nodes
}

// valueNode converts a literal into a YAML node. Floats always carry a
// decimal point so they load back as floats.
func valueNode(v schema.Value) *yaml.Node {
	switch v.Kind {
	case schema.ValueString:
		return strNode(v.Str)
	case schema.ValueInt:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v.Int, 10)}
	case schema.ValueFloat:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatFloat(v.Float)}
	case schema.ValueBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.Bool)}
	case schema.ValueList:
		n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, e := range v.List {
			n.Content = append(n.Content, valueNode(e))
		}
		return n
	case schema.ValueMap:
		n := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
		if v.Type != "" {
			n.Content = append(n.Content, strNode(typeKey), strNode(v.Type))
		}
		for _, e := range v.Entries {
			n.Content = append(n.Content, strNode(e.Name), valueNode(e.Value))
		}
		return n
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
