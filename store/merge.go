package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DeepMerge applies patch onto doc field by field. Nested maps merge
// recursively; every other value (including slices) overwrites. Dotted
// keys such as "profile.name" address leaves without clobbering sibling
// fields. doc is modified in place and returned.
func DeepMerge(doc, patch map[string]any) map[string]any {
	if doc == nil {
		doc = map[string]any{}
	}
	for key, val := range patch {
		if strings.Contains(key, ".") {
			mergePath(doc, strings.Split(key, "."), val)
			continue
		}
		doc[key] = mergeValue(doc[key], val)
	}
	return doc
}

func mergePath(doc map[string]any, path []string, val any) {
	d := doc
	for _, part := range path[:len(path)-1] {
		next, ok := d[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			d[part] = next
		}
		d = next
	}
	leaf := path[len(path)-1]
	d[leaf] = mergeValue(d[leaf], val)
}

func mergeValue(existing, incoming any) any {
	in, inOK := incoming.(map[string]any)
	ex, exOK := existing.(map[string]any)
	if inOK && exOK {
		return DeepMerge(ex, in)
	}
	if inOK {
		return DeepMerge(map[string]any{}, in)
	}
	return incoming
}

// toDocument normalizes any JSON-encodable value (typed record sections
// included) into the generic map shape the merge operates on.
func toDocument(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// normalizePatch JSON round-trips every patch value so typed sections and
// generic maps merge identically.
func normalizePatch(patch map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(patch))
	for k, v := range patch {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode patch field %q: %w", k, err)
		}
		var generic any
		if err := json.Unmarshal(b, &generic); err != nil {
			return nil, fmt.Errorf("decode patch field %q: %w", k, err)
		}
		out[k] = generic
	}
	return out, nil
}

func decodeRecord(doc map[string]any) (*UserRecord, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var rec UserRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &rec, nil
}

// applyPatch merges a normalized patch into a raw record document and
// stamps updated_at.
func applyPatch(doc, patch map[string]any) (map[string]any, error) {
	normalized, err := normalizePatch(patch)
	if err != nil {
		return nil, err
	}
	doc = DeepMerge(doc, normalized)
	doc["updated_at"] = time.Now().UTC().Format(time.RFC3339Nano)
	return doc, nil
}
