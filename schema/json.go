package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	j "github.com/goccy/go-json"
)

// ParseJSON decodes a JSON schema document keeping object key order and the
// exact text of numbers.
func ParseJSON(uri string, data []byte) (*Document, error) {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	root, err := decodeJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("schema: %s: invalid JSON: %w", uri, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("schema: %s: trailing data after document", uri)
	}
	doc := &Document{URI: uri, Root: root}
	root.attach(doc, "")
	return doc, nil
}

func decodeJSONValue(dec *j.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			obj := newObject()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, want string", kt)
				}
				child, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				obj.set(key, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := newArray()
			for dec.More() {
				child, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				arr.items = append(arr.items, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", rune(v))
	case string:
		return newString(v), nil
	case j.Number:
		return newNumber(string(v)), nil
	case float64:
		return newNumber(strconv.FormatFloat(v, 'g', -1, 64)), nil
	case bool:
		return newBool(v), nil
	case nil:
		return newNull(), nil
	default:
		return nil, fmt.Errorf("unexpected token %T", tok)
	}
}
