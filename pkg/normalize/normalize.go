// Package normalize turns heterogeneous cloud inventory documents into the
// canonical resource list.
//
// Three input shapes are accepted; none carries a header declaring its
// format, so detection is structural:
//
//   - Region-keyed inventory: {"us-east-1": {"vpcs": [...], "subnets": [...], ...}}
//     with raw describe-API records (PascalCase fields, {Key,Value} tags).
//   - Flat per-region array: [{"region": ..., "total_resources": N,
//     "resources": [{"resource_type": ..., "resource_property": {...}, ...}]}].
//   - Wrapped or bare resource list: a top-level array of tagged records, or
//     {"resources": [...]}, or an array of per-region wrappers.
//
// Field extraction is intentionally permissive: every canonical field reads
// from multiple candidate keys in a fixed priority order (see fields.go),
// because the producers do not agree on naming. Unknown resource types are
// kept with a generic kind and a warning; only a document matching none of
// the shapes is rejected.
package normalize

import (
	"encoding/json"
	"sort"

	"github.com/cloudweave/cloudweave/pkg/errors"
	"github.com/cloudweave/cloudweave/pkg/idgen"
	"github.com/cloudweave/cloudweave/pkg/resource"
)

// Shape identifies which input structure a document matched.
type Shape string

// Supported input shapes.
const (
	ShapeUnknown         Shape = ""
	ShapeRegionInventory Shape = "region_inventory"
	ShapeRegionList      Shape = "region_list"
	ShapeResourceList    Shape = "resource_list"
)

// Options configures a normalization pass.
type Options struct {
	// DefaultRegion tags resources whose document provides no region.
	DefaultRegion string

	// IDs generates fallback ids for records without an extractable
	// identifier. A fresh generator is used when nil.
	IDs *idgen.Generator
}

// Result is the outcome of normalizing one document.
type Result struct {
	// Shape the document was detected as.
	Shape Shape `json:"shape"`

	// Resources in input order (region-keyed documents are processed in
	// sorted region order so repeated runs are reproducible).
	Resources []resource.Resource `json:"resources"`

	// Warnings collected along the way. Never fatal.
	Warnings []errors.Warning `json:"warnings,omitempty"`
}

// Normalize detects the document shape and decodes it into canonical
// resources. A document matching none of the shapes fails with an
// ErrCodeInvalidFormat error naming the expected structures; there is no
// partial result in that case.
func Normalize(doc []byte, opts Options) (*Result, error) {
	if opts.IDs == nil {
		opts.IDs = idgen.New()
	}

	root, shape, err := DetectShape(doc)
	if err != nil {
		return nil, err
	}

	switch shape {
	case ShapeRegionInventory:
		return decodeRegionInventory(root.(map[string]any), opts)
	case ShapeRegionList:
		return decodeRegionList(root.([]any), opts)
	case ShapeResourceList:
		return decodeResourceList(root, opts)
	default:
		return nil, formatError()
	}
}

// DetectShape parses the document and classifies its top-level structure.
// The returned value is the decoded JSON root, handed back so decoders do
// not parse twice.
func DetectShape(doc []byte) (any, Shape, error) {
	var root any
	if err := json.Unmarshal(doc, &root); err != nil {
		return nil, ShapeUnknown, errors.Wrap(errors.ErrCodeInvalidFormat, err, "input is not valid JSON")
	}

	switch v := root.(type) {
	case map[string]any:
		// A top-level "resources" array marks the wrapped resource list.
		// An empty one is a valid empty inventory.
		if arr, ok := v["resources"].([]any); ok && (len(arr) == 0 || allTaggedRecords(arr)) {
			return root, ShapeResourceList, nil
		}
		// A region-keyed inventory has at least one region object holding
		// a known resource-family array.
		for _, rv := range v {
			if regionObj, ok := rv.(map[string]any); ok && hasFamilyKey(regionObj) {
				return root, ShapeRegionInventory, nil
			}
		}
	case []any:
		if len(v) == 0 {
			// A bare empty list is a valid (empty) resource list.
			return root, ShapeResourceList, nil
		}
		if allRegionWrappers(v) {
			return root, ShapeRegionList, nil
		}
		if allTaggedRecords(v) {
			return root, ShapeResourceList, nil
		}
	}

	return nil, ShapeUnknown, formatError()
}

// formatError names the unmet structural expectations. It is surfaced to
// the user verbatim, so it spells out all three accepted shapes.
func formatError() *errors.Error {
	return errors.New(errors.ErrCodeInvalidFormat,
		"input matches no known inventory shape: expected a region-keyed object "+
			"of resource-family arrays (vpcs, subnets, instances, ...), an array of "+
			"{region, resources} wrappers, or a list of {resource_type, resource_property} records")
}

// allTaggedRecords reports whether every element looks like a tagged
// resource record (resource_type, resource_property, cloud_resource_id or
// resource_name present).
func allTaggedRecords(arr []any) bool {
	for _, el := range arr {
		rec, ok := el.(map[string]any)
		if !ok || !isTaggedRecord(rec) {
			return false
		}
	}
	return len(arr) > 0
}

// isTaggedRecord reports whether rec carries any of the envelope keys the
// flat shapes use.
func isTaggedRecord(rec map[string]any) bool {
	for _, key := range []string{"resource_type", "resource_property", "cloud_resource_id", "resource_name"} {
		if _, ok := rec[key]; ok {
			return true
		}
	}
	return false
}

// allRegionWrappers reports whether every element is a {region, resources}
// wrapper.
func allRegionWrappers(arr []any) bool {
	for _, el := range arr {
		rec, ok := el.(map[string]any)
		if !ok {
			return false
		}
		if _, ok := rec["region"].(string); !ok {
			return false
		}
		if _, ok := rec["resources"].([]any); !ok {
			return false
		}
	}
	return len(arr) > 0
}

// sortedKeys returns the map keys in sorted order. JSON object order is not
// preserved by Go maps, so region-keyed documents are processed in sorted
// region order to keep output reproducible.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
