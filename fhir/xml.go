// Copyright (c) 2025 Canvas Medical and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package fhir

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"slices"
	"strconv"
)

const xmlNamespace = "http://hl7.org/fhir"

// MarshalXML renders a resource document, as produced by [Document],
// in the FHIR XML style: one element per field with scalar values held
// in a value attribute and repeating fields as repeated elements.
// Object members are emitted in sorted key order so the output is
// identical across runs.
func MarshalXML(doc map[string]any, pretty bool) ([]byte, error) {
	rt, ok := doc["resourceType"].(string)
	if !ok || rt == "" {
		return nil, fmt.Errorf("fhir: document is missing a resourceType element")
	}

	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if pretty {
		enc.Indent("", "  ")
	}

	root := xml.StartElement{
		Name: xml.Name{Local: rt},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns"}, Value: xmlNamespace},
		},
	}
	err := enc.EncodeToken(root)
	if err != nil {
		return nil, err
	}

	err = encodeMembers(enc, doc, true)
	if err != nil {
		return nil, err
	}

	err = enc.EncodeToken(root.End())
	if err != nil {
		return nil, err
	}

	err = enc.Flush()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeMembers(enc *xml.Encoder, obj map[string]any, root bool) error {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		if root && k == "resourceType" {
			continue
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		err := encodeValue(enc, k, obj[k])
		if err != nil {
			return err
		}
	}
	return nil
}

func encodeValue(enc *xml.Encoder, name string, v any) error {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		for _, item := range t {
			err := encodeValue(enc, name, item)
			if err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		start := xml.StartElement{Name: xml.Name{Local: name}}
		err := enc.EncodeToken(start)
		if err != nil {
			return err
		}
		err = encodeMembers(enc, t, false)
		if err != nil {
			return err
		}
		return enc.EncodeToken(start.End())
	default:
		s, err := scalarString(t)
		if err != nil {
			return fmt.Errorf("fhir: element %q: %w", name, err)
		}

		elem := xml.StartElement{
			Name: xml.Name{Local: name},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "value"}, Value: s},
			},
		}
		err = enc.EncodeToken(elem)
		if err != nil {
			return err
		}
		return enc.EncodeToken(elem.End())
	}
}

func scalarString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case json.Number:
		return t.String(), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported scalar type %T", v)
	}
}
