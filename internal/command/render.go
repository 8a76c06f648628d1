package command

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// field is one key/value pair of a rendered object. Values are strings or
// bools, which is all the protocol emits.
type field struct {
	key   string
	value any
}

type object []field

// renderArray writes objects in the spaced layout clients match against:
// [ { "name": "main", "active": true }, { ... } ]. An empty list renders as [ ].
func renderArray(items []object) string {
	if len(items) == 0 {
		return "[ ]"
	}
	var buf bytes.Buffer
	buf.WriteString("[ ")
	for i, item := range items {
		if i > 0 {
			buf.WriteString(", ")
		}
		writeSpacedObject(&buf, item)
	}
	buf.WriteString(" ]")
	return buf.String()
}

func writeSpacedObject(buf *bytes.Buffer, obj object) {
	if len(obj) == 0 {
		buf.WriteString("{ }")
		return
	}
	buf.WriteString("{ ")
	for i, f := range obj {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(quote(f.key))
		buf.WriteString(": ")
		buf.WriteString(renderValue(f.value))
	}
	buf.WriteString(" }")
}

// renderMessage writes the compact single-line form used for results:
// {"success": "switch to workspace test"}.
func renderMessage(obj object) string {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range obj {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(quote(f.key))
		buf.WriteString(": ")
		buf.WriteString(renderValue(f.value))
	}
	buf.WriteByte('}')
	return buf.String()
}

func successBody(message string) string {
	return renderMessage(object{{"success", message}})
}

func errorBody(err *Error) string {
	return renderMessage(object{{"error", err.Message}, {"kind", string(err.Kind)}})
}

func renderValue(v any) string {
	switch value := v.(type) {
	case bool:
		return strconv.FormatBool(value)
	case string:
		return quote(value)
	default:
		return "null"
	}
}

func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `""`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
