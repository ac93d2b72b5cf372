// Copyright 2019 CERN. All Rights Reserved.

package zapi

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// Element is one node of a query or result tree: a name, optional text
// content, optional attributes, and an ordered list of children. Queries are
// built once per logical call and treated as immutable afterwards; deriving
// the next page's query goes through WithTag, which never mutates its
// receiver.
type Element struct {
	name     string
	text     string
	attrs    []xml.Attr
	children []*Element
}

// New creates a container element with the given children, in order.
func New(name string, children ...*Element) *Element {
	return &Element{name: name, children: children}
}

// Str creates a leaf element with string text content.
func Str(name, value string) *Element {
	return &Element{name: name, text: value}
}

// Int creates a leaf element whose text is the decimal representation of value.
func Int(name string, value int) *Element {
	return Str(name, strconv.Itoa(value))
}

// Int64 creates a leaf element whose text is the decimal representation of value.
func Int64(name string, value int64) *Element {
	return Str(name, strconv.FormatInt(value, 10))
}

// Bool creates a leaf element carrying the literal string "true" or "false".
func Bool(name string, value bool) *Element {
	return Str(name, strconv.FormatBool(value))
}

func (e *Element) Name() string { return e.name }

// Content returns the element's text. Text decoded from a response is
// trimmed of the surrounding whitespace pretty-printing introduces.
func (e *Element) Content() string { return e.text }

func (e *Element) Children() []*Element { return e.children }

// Attr returns the named attribute's value and whether it was present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Append adds children to a query element under construction.
func (e *Element) Append(children ...*Element) *Element {
	e.children = append(e.children, children...)
	return e
}

// Child returns the first direct child with the given name, or nil.
func (e *Element) Child(name string) *Element {
	for _, c := range e.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// Find resolves a slash-separated path of child names, e.g.
// "volume-id-attributes/name", returning nil if any step is missing.
func (e *Element) Find(path string) *Element {
	node := e
	for _, step := range strings.Split(path, "/") {
		node = node.Child(step)
		if node == nil {
			return nil
		}
	}
	return node
}

// FindText returns the text content at the given path, or "" if absent.
func (e *Element) FindText(path string) string {
	if node := e.Find(path); node != nil {
		return node.Content()
	}
	return ""
}

// WithTag derives the query for the next page: a copy of e with any existing
// <tag> child removed and a new one carrying the given value appended, every
// other child preserved unchanged and in order. At most one <tag> child ever
// exists.
func (e *Element) WithTag(tag string) *Element {
	next := &Element{name: e.name, text: e.text}
	next.children = make([]*Element, 0, len(e.children)+1)
	for _, c := range e.children {
		if c.name == "tag" {
			continue
		}
		next.children = append(next.children, c)
	}
	next.children = append(next.children, Str("tag", tag))
	return next
}

// ToXML converts this object into an xml string representation
func (e *Element) ToXML() (string, error) {
	output, err := xml.MarshalIndent(e, " ", "    ")
	return string(output), err
}

// MarshalXML implements xml.Marshaler. Booleans and numbers were already
// rendered to text by the leaf constructors, so every node serializes as
// plain text content or nested children.
func (e *Element) MarshalXML(enc *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: e.name}
	start.Attr = nil
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if e.text != "" {
		if err := enc.EncodeToken(xml.CharData(e.text)); err != nil {
			return err
		}
	}
	for _, c := range e.children {
		if err := enc.Encode(c); err != nil {
			return err
		}
	}
	return enc.EncodeToken(xml.EndElement{Name: start.Name})
}

// UnmarshalXML implements xml.Unmarshaler, building a generic tree from a
// response document. Namespaces are ignored; the API uses a single fixed one.
func (e *Element) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	e.name = start.Name.Local
	e.attrs = start.Attr
	for {
		token, err := d.Token()
		if err != nil {
			return err
		}
		switch t := token.(type) {
		case xml.StartElement:
			child := &Element{}
			if err := child.UnmarshalXML(d, t); err != nil {
				return err
			}
			e.children = append(e.children, child)
		case xml.CharData:
			e.text += string(t)
		case xml.EndElement:
			e.text = strings.TrimSpace(e.text)
			return nil
		}
	}
}
