package normalize

import (
	"github.com/cloudweave/cloudweave/pkg/errors"
	"github.com/cloudweave/cloudweave/pkg/resource"
)

// familyOrder fixes the processing order of resource-family arrays inside a
// region object. Containers come first so that downstream passes see a VPC
// before its subnets and a subnet before its instances.
var familyOrder = []string{
	"vpcs",
	"subnets",
	"igws",
	"internet_gateways",
	"nat_gateways",
	"route_tables",
	"security_groups",
	"instances",
	"ec2_instances",
	"rds_instances",
	"db_instances",
	"load_balancers",
	"target_groups",
	"vpc_endpoints",
	"s3_buckets",
	"lambda_functions",
}

// familyKinds maps each family key to its resource kind. Keys not present
// here are decoded as generic resources with a warning.
var familyKinds = map[string]resource.Kind{
	"vpcs":              resource.KindVPC,
	"subnets":           resource.KindSubnet,
	"igws":              resource.KindInternetGateway,
	"internet_gateways": resource.KindInternetGateway,
	"nat_gateways":      resource.KindNATGateway,
	"route_tables":      resource.KindRouteTable,
	"security_groups":   resource.KindSecurityGroup,
	"instances":         resource.KindEC2,
	"ec2_instances":     resource.KindEC2,
	"rds_instances":     resource.KindRDS,
	"db_instances":      resource.KindRDS,
	"load_balancers":    resource.KindLoadBalancer,
	"target_groups":     resource.KindTargetGroup,
	"vpc_endpoints":     resource.KindVPCEndpoint,
	"s3_buckets":        resource.KindS3,
	"lambda_functions":  resource.KindLambda,
}

// familyRank gives each known family its position in familyOrder for O(1)
// ordering lookups.
var familyRank = func() map[string]int {
	rank := make(map[string]int, len(familyOrder))
	for i, f := range familyOrder {
		rank[f] = i
	}
	return rank
}()

// hasFamilyKey reports whether a region object carries at least one known
// resource-family array. Used by shape detection.
func hasFamilyKey(regionObj map[string]any) bool {
	for key, val := range regionObj {
		if _, known := familyKinds[key]; !known {
			continue
		}
		if _, ok := val.([]any); ok {
			return true
		}
	}
	return false
}

// decodeRegionInventory handles the region-keyed inventory shape. Regions
// are visited in sorted order and families in containers-first order so the
// output is identical across runs.
func decodeRegionInventory(root map[string]any, opts Options) (*Result, error) {
	res := &Result{Shape: ShapeRegionInventory}

	for _, region := range sortedKeys(root) {
		regionObj, ok := root[region].(map[string]any)
		if !ok {
			// Tolerate stray scalar keys (counts, metadata) beside regions.
			continue
		}

		for _, family := range regionFamilies(regionObj) {
			arr, ok := regionObj[family].([]any)
			if !ok {
				continue
			}
			kind, known := familyKinds[family]
			if !known {
				kind = resource.KindGeneric
			}

			for _, el := range arr {
				props, ok := el.(map[string]any)
				if !ok {
					continue
				}
				r := decodeRecord(kind, nil, props, region, opts)
				if !known {
					res.Warnings = append(res.Warnings, errors.NewWarning(
						errors.WarnUnknownType, r.ID,
						"unknown resource family %q in region %s, kept as generic", family, region))
				}
				res.Resources = append(res.Resources, r)
			}
		}
	}

	return res, nil
}

// regionFamilies returns the family keys of a region object: known families
// in their fixed order first, then unknown array-valued keys in sorted
// order.
func regionFamilies(regionObj map[string]any) []string {
	var known, unknown []string
	for _, key := range sortedKeys(regionObj) {
		if _, ok := regionObj[key].([]any); !ok {
			continue
		}
		if _, ok := familyKinds[key]; ok {
			known = append(known, key)
		} else {
			unknown = append(unknown, key)
		}
	}
	sortByRank(known)
	return append(known, unknown...)
}

// sortByRank orders known family keys by their familyOrder position.
func sortByRank(families []string) {
	for i := 1; i < len(families); i++ {
		for j := i; j > 0 && familyRank[families[j]] < familyRank[families[j-1]]; j-- {
			families[j], families[j-1] = families[j-1], families[j]
		}
	}
}

// decodeRecord builds one canonical resource from a property object. The
// envelope is nil for raw describe records; tagged records pass their
// envelope for id, name and type extraction.
func decodeRecord(kind resource.Kind, envelope, props map[string]any, wrapperRegion string, opts Options) resource.Resource {
	spec := resource.SpecFor(kind)

	rawID := resolveID(kind, envelope, props)
	id := opts.IDs.NodeID(spec.IDPrefix, rawID)
	if rawID == "" {
		// Minted ids keep downstream references stable within this run
		// even though the record carried no identifier.
		rawID = id
	}

	return resource.Resource{
		ID:         id,
		SourceID:   rawID,
		Kind:       kind,
		Name:       resolveName(kind, envelope, props, rawID),
		Region:     resolveRegion(wrapperRegion, props, opts.DefaultRegion),
		Properties: props,
	}
}

// decodeGenericRecord is decodeRecord for records whose declared type did
// not parse, carrying the declared type through for the warning message.
func decodeGenericRecord(declaredType string, envelope, props map[string]any, wrapperRegion string, opts Options) (resource.Resource, errors.Warning) {
	r := decodeRecord(resource.KindGeneric, envelope, props, wrapperRegion, opts)
	w := errors.NewWarning(errors.WarnUnknownType, r.ID,
		"unknown resource type %q, kept as generic", declaredType)
	return r, w
}
