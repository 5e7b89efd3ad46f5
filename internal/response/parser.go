// Package response extracts structured JSON from loosely formatted model output.
//
// Model output may be bare JSON, JSON inside a markdown code fence, or JSON
// surrounded by prose. Parsing is attempted in that order and the first
// success wins. Nothing in this package returns an error: unusable output
// yields an empty result.
package response

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/mitchellh/mapstructure"
)

var (
	fenceRe  = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")
	arrayRe  = regexp.MustCompile(`(?s)\[.*\]`)
	objectRe = regexp.MustCompile(`(?s)\{.*\}`)
)

// ParseArray returns the JSON objects found in raw. A lone object is treated
// as a one-element array. Non-object array elements are dropped.
func ParseArray(raw string) []map[string]any {
	for _, candidate := range candidates(raw, arrayRe, objectRe) {
		if items, ok := decodeArray(candidate); ok {
			return items
		}
	}
	return []map[string]any{}
}

// ParseObject returns the first JSON object found in raw, or an empty map.
func ParseObject(raw string) map[string]any {
	for _, candidate := range candidates(raw, objectRe) {
		if obj, ok := decodeObject(candidate); ok {
			return obj
		}
	}
	return map[string]any{}
}

// Decode copies a loosely typed object into target, which must be a pointer
// to a struct tagged with json tags. String numbers and similar mismatches
// are converted where possible.
func Decode(obj map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(obj)
}

// candidates lists the texts worth trying, in order: the whole input, fenced
// block contents, then the widest span matched by each of spans.
func candidates(raw string, spans ...*regexp.Regexp) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	out := []string{raw}
	for _, match := range fenceRe.FindAllStringSubmatch(raw, -1) {
		if body := strings.TrimSpace(match[1]); body != "" {
			out = append(out, body)
		}
	}
	for _, re := range spans {
		if span := re.FindString(raw); span != "" {
			out = append(out, span)
		}
	}
	return out
}

func decodeArray(text string) ([]map[string]any, bool) {
	var value any
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return nil, false
	}

	switch v := value.(type) {
	case []any:
		items := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok {
				items = append(items, obj)
			}
		}
		return items, true
	case map[string]any:
		return []map[string]any{v}, true
	default:
		return nil, false
	}
}

func decodeObject(text string) (map[string]any, bool) {
	var value any
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return nil, false
	}

	switch v := value.(type) {
	case map[string]any:
		return v, true
	case []any:
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok {
				return obj, true
			}
		}
	}
	return nil, false
}
