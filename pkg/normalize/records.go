package normalize

import (
	"github.com/cloudweave/cloudweave/pkg/resource"
)

// decodeRegionList handles the flat per-region array shape: each element is
// a {region, total_resources, resources} wrapper whose resources are tagged
// records.
func decodeRegionList(root []any, opts Options) (*Result, error) {
	res := &Result{Shape: ShapeRegionList}

	for _, el := range root {
		wrapper, ok := el.(map[string]any)
		if !ok {
			continue
		}
		region, _ := wrapper["region"].(string)
		arr, ok := wrapper["resources"].([]any)
		if !ok {
			continue
		}
		decodeTaggedRecords(res, arr, region, opts)
	}

	return res, nil
}

// decodeResourceList handles the wrapped or bare resource list shape. The
// root is either a bare array of tagged records or an object with a
// "resources" array.
func decodeResourceList(root any, opts Options) (*Result, error) {
	res := &Result{Shape: ShapeResourceList}

	var arr []any
	switch v := root.(type) {
	case []any:
		arr = v
	case map[string]any:
		arr, _ = v["resources"].([]any)
	}

	decodeTaggedRecords(res, arr, "", opts)
	return res, nil
}

// decodeTaggedRecords appends one canonical resource per tagged record,
// resolving the declared type through the alias table. Records declaring a
// type nothing maps to become generic resources with a warning; records
// that are not objects at all are skipped.
func decodeTaggedRecords(res *Result, arr []any, wrapperRegion string, opts Options) {
	for _, el := range arr {
		envelope, ok := el.(map[string]any)
		if !ok {
			continue
		}
		props := resolveProperties(envelope)
		declared := resolveType(envelope)

		kind, known := resource.ParseKind(declared)
		if !known {
			r, w := decodeGenericRecord(declared, envelope, props, wrapperRegion, opts)
			res.Resources = append(res.Resources, r)
			res.Warnings = append(res.Warnings, w)
			continue
		}

		res.Resources = append(res.Resources, decodeRecord(kind, envelope, props, wrapperRegion, opts))
	}
}
