// Package value models decoded block payloads as an explicit tagged union,
// so that callers can check the shape of a node with typed accessors rather
// than walking a dynamic data model tree.
package value

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/storacha/go-carbites/core/ipld"
)

type Kind uint8

const (
	Null Kind = iota
	Bool
	Int
	Float
	String
	Bytes
	List
	Map
	Link
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Bytes:
		return "bytes"
	case List:
		return "list"
	case Map:
		return "map"
	case Link:
		return "link"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Entry is a single key/value pair of a map value. Map entries keep the
// order they were decoded in.
type Entry struct {
	Key   string
	Value Value
}

// Value is a decoded data model value. Exactly one of the payload fields is
// meaningful, selected by the kind.
type Value struct {
	kind    Kind
	b       bool
	i       int64
	f       float64
	s       string
	bytes   []byte
	list    []Value
	entries []Entry
	link    cid.Cid
}

func NewNull() Value                { return Value{kind: Null} }
func NewBool(b bool) Value          { return Value{kind: Bool, b: b} }
func NewInt(i int64) Value          { return Value{kind: Int, i: i} }
func NewFloat(f float64) Value      { return Value{kind: Float, f: f} }
func NewString(s string) Value      { return Value{kind: String, s: s} }
func NewBytes(b []byte) Value       { return Value{kind: Bytes, bytes: b} }
func NewList(items ...Value) Value  { return Value{kind: List, list: items} }
func NewMap(entries ...Entry) Value { return Value{kind: Map, entries: entries} }
func NewLink(c cid.Cid) Value       { return Value{kind: Link, link: c} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) AsBool() (bool, bool) { return v.b, v.kind == Bool }

func (v Value) AsInt() (int64, bool) { return v.i, v.kind == Int }

func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == Float }

func (v Value) AsString() (string, bool) { return v.s, v.kind == String }

func (v Value) AsBytes() ([]byte, bool) { return v.bytes, v.kind == Bytes }

func (v Value) AsList() ([]Value, bool) { return v.list, v.kind == List }

func (v Value) AsLink() (cid.Cid, bool) { return v.link, v.kind == Link }

// Entries returns the entries of a map value in decode order.
func (v Value) Entries() ([]Entry, bool) { return v.entries, v.kind == Map }

// Field looks up a key of a map value. It reports false for missing keys and
// for values that are not maps.
func (v Value) Field(key string) (Value, bool) {
	if v.kind != Map {
		return Value{}, false
	}
	for _, e := range v.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// FromNode converts a go-ipld-prime node into a [Value]. Absent fields of
// typed nodes are omitted.
func FromNode(n datamodel.Node) (Value, error) {
	switch n.Kind() {
	case datamodel.Kind_Null:
		return NewNull(), nil
	case datamodel.Kind_Bool:
		b, err := n.AsBool()
		if err != nil {
			return Value{}, err
		}
		return NewBool(b), nil
	case datamodel.Kind_Int:
		i, err := n.AsInt()
		if err != nil {
			return Value{}, err
		}
		return NewInt(i), nil
	case datamodel.Kind_Float:
		f, err := n.AsFloat()
		if err != nil {
			return Value{}, err
		}
		return NewFloat(f), nil
	case datamodel.Kind_String:
		s, err := n.AsString()
		if err != nil {
			return Value{}, err
		}
		return NewString(s), nil
	case datamodel.Kind_Bytes:
		b, err := n.AsBytes()
		if err != nil {
			return Value{}, err
		}
		return NewBytes(b), nil
	case datamodel.Kind_Link:
		l, err := n.AsLink()
		if err != nil {
			return Value{}, err
		}
		c, err := ipld.AsCid(l)
		if err != nil {
			return Value{}, fmt.Errorf("converting link %s: %w", l, err)
		}
		return NewLink(c), nil
	case datamodel.Kind_List:
		items := make([]Value, 0, n.Length())
		it := n.ListIterator()
		for !it.Done() {
			_, item, err := it.Next()
			if err != nil {
				return Value{}, err
			}
			v, err := FromNode(item)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return NewList(items...), nil
	case datamodel.Kind_Map:
		entries := make([]Entry, 0, n.Length())
		it := n.MapIterator()
		for !it.Done() {
			k, item, err := it.Next()
			if err != nil {
				return Value{}, err
			}
			if item.IsAbsent() {
				continue
			}
			key, err := k.AsString()
			if err != nil {
				return Value{}, fmt.Errorf("map key: %w", err)
			}
			v, err := FromNode(item)
			if err != nil {
				return Value{}, fmt.Errorf("map value %q: %w", key, err)
			}
			entries = append(entries, Entry{key, v})
		}
		return NewMap(entries...), nil
	default:
		return Value{}, fmt.Errorf("unsupported data model kind: %s", n.Kind())
	}
}
