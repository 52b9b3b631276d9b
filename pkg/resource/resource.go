// Package resource defines the canonical cloud resource model.
//
// A Resource is the shape-independent representation of one imported cloud
// object. The normalizer produces Resources from any of the supported input
// documents; the inferencer assigns parents; the graph builder turns them
// into diagram nodes. Provider-specific fields survive verbatim in
// Properties so the diagram surface can display and edit them later.
package resource

// Resource is one physical or logical cloud object.
type Resource struct {
	// ID is globally unique within an import. Content-derived from the
	// provider identifier where possible (see pkg/idgen).
	ID string `json:"id"`

	// SourceID is the raw provider identifier (VpcId, InstanceId, ...) the
	// ID was derived from. Cross-reference scanning matches on SourceID
	// because embedded references in properties use provider identifiers.
	SourceID string `json:"source_id,omitempty"`

	// Kind is the canonical resource type. Unknown input types map to
	// KindGeneric and are kept, never dropped.
	Kind Kind `json:"kind"`

	// Name is the display label. Falls back to ID when the input carries
	// no name.
	Name string `json:"name"`

	// Region the resource lives in, when known.
	Region string `json:"region,omitempty"`

	// Properties holds the raw provider fields verbatim (CIDR blocks,
	// instance class, engine, tags, ...). Never interpreted for layout.
	Properties map[string]any `json:"properties,omitempty"`

	// ParentID is the containing resource's id. Set once by the
	// inferencer; empty means root (region, standalone VPC, or a pseudo
	// resource such as the internet node).
	ParentID string `json:"parent_id,omitempty"`

	// Tier classifies subnets as "public" or "private" when inferable.
	// Empty for every other kind and for subnets whose tier could not be
	// determined.
	Tier string `json:"tier,omitempty"`
}

// DisplayName returns Name, falling back to ID.
func (r Resource) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

// StringProp returns the first non-empty string value among the candidate
// keys, reading keys in the given priority order. Non-string values are
// skipped. This is the permissive multi-key read the input shapes require:
// the same concept appears under different names depending on the producer.
func StringProp(props map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := props[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// BoolProp returns the boolean value at the first present candidate key.
// JSON booleans and the strings "true"/"false" are both accepted.
func BoolProp(props map[string]any, keys ...string) (value, ok bool) {
	for _, key := range keys {
		v, present := props[key]
		if !present {
			continue
		}
		switch t := v.(type) {
		case bool:
			return t, true
		case string:
			if t == "true" {
				return true, true
			}
			if t == "false" {
				return false, true
			}
		}
	}
	return false, false
}

// SliceProp returns the slice value at the first present candidate key.
func SliceProp(props map[string]any, keys ...string) []any {
	for _, key := range keys {
		if v, ok := props[key]; ok {
			if s, ok := v.([]any); ok {
				return s
			}
		}
	}
	return nil
}

// MapProp returns the object value at the first present candidate key.
func MapProp(props map[string]any, keys ...string) map[string]any {
	for _, key := range keys {
		if v, ok := props[key]; ok {
			if m, ok := v.(map[string]any); ok {
				return m
			}
		}
	}
	return nil
}

// TagValue extracts the value for key from a provider tag list shaped like
// [{"Key": ..., "Value": ...}]. Returns fallback when the key is absent or
// the tag list is malformed.
func TagValue(props map[string]any, key, fallback string) string {
	tags := SliceProp(props, "Tags", "tags")
	for _, t := range tags {
		tag, ok := t.(map[string]any)
		if !ok {
			continue
		}
		if k, _ := tag["Key"].(string); k == key {
			if v, _ := tag["Value"].(string); v != "" {
				return v
			}
			return fallback
		}
	}
	return fallback
}
