package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"turtile/internal/termui"
)

// orderedObject keeps JSON object keys in their wire order.
type orderedObject struct {
	keys   []string
	values map[string]string
}

func (o *orderedObject) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}
	o.values = make(map[string]string)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if _, seen := o.values[key]; !seen {
			o.keys = append(o.keys, key)
		}
		o.values[key] = scalarText(raw)
	}
	return nil
}

func scalarText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return termui.YesNo(b)
	}
	return strings.TrimSpace(string(raw))
}

// renderHuman prints a reply body for people: arrays become tables, success
// and error objects become a single line.
func renderHuman(w io.Writer, body string, colorize bool) error {
	trimmed := strings.TrimSpace(body)
	switch {
	case strings.HasPrefix(trimmed, "["):
		var rows []orderedObject
		if err := json.Unmarshal([]byte(trimmed), &rows); err != nil {
			return fmt.Errorf("decode reply: %w", err)
		}
		if len(rows) == 0 {
			fmt.Fprintln(w, "(none)")
			return nil
		}
		headers := columnHeaders(rows)
		cells := make([][]string, 0, len(rows))
		for _, row := range rows {
			line := make([]string, len(headers))
			for i, key := range headers {
				line[i] = row.values[key]
			}
			cells = append(cells, line)
		}
		fmt.Fprint(w, termui.RenderTable(headers, cells, nil))
		return nil
	case strings.HasPrefix(trimmed, "{"):
		var obj orderedObject
		if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
			return fmt.Errorf("decode reply: %w", err)
		}
		if msg, ok := obj.values["error"]; ok {
			fmt.Fprintln(w, termui.Colored("error: "+msg, termui.Error, colorize))
			return nil
		}
		if msg, ok := obj.values["success"]; ok {
			fmt.Fprintln(w, termui.Colored(msg, termui.OK, colorize))
			return nil
		}
		for _, key := range obj.keys {
			fmt.Fprintf(w, "%s: %s\n", key, obj.values[key])
		}
		return nil
	default:
		fmt.Fprintln(w, body)
		return nil
	}
}

func columnHeaders(rows []orderedObject) []string {
	seen := make(map[string]struct{})
	var headers []string
	for _, row := range rows {
		for _, key := range row.keys {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			headers = append(headers, key)
		}
	}
	return headers
}
