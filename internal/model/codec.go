package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var ErrMalformedList = errors.New("model: malformed todo list")

const listSchemaURL = "todo-list.schema.json"

const listSchemaText = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "array",
	"items": {"type": "string"}
}`

var listSchema = jsonschema.MustCompileString(listSchemaURL, listSchemaText)

// Encode renders items as a JSON array of strings in the form JSON.stringify
// produces: HTML characters and U+2028/U+2029 are written raw.
func Encode(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(items); err != nil {
		return "", fmt.Errorf("encode todo list: %w", err)
	}
	return unescapeLineSeparators(strings.TrimSuffix(buf.String(), "\n")), nil
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes encoding/json
// always emits back into raw characters. Other escapes are copied as pairs so
// an escaped backslash followed by "u2028" is left alone.
func unescapeLineSeparators(s string) string {
	if !strings.Contains(s, `\u202`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			continue
		}
		switch rest := s[i:]; {
		case strings.HasPrefix(rest, `\u2028`):
			b.WriteString("\u2028")
			i += len(`\u2028`) - 1
		case strings.HasPrefix(rest, `\u2029`):
			b.WriteString("\u2029")
			i += len(`\u2029`) - 1
		default:
			b.WriteByte(s[i])
			if i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			}
		}
	}
	return b.String()
}

// Decode parses the serialized form produced by Encode. Anything that is not
// a JSON array of strings is rejected with ErrMalformedList.
func Decode(raw string) ([]string, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedList, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after list", ErrMalformedList)
	}
	if err := listSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedList, schemaMessage(err))
	}

	values := doc.([]any)
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, v.(string))
	}
	return out, nil
}

func schemaMessage(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return fmt.Sprintf("%s: %s", loc, ve.Message)
}
