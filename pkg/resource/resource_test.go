package resource

import "testing"

func TestParseKind(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   Kind
		wantOK bool
	}{
		{"plain", "VPC", KindVPC, true},
		{"lowercase", "subnet", KindSubnet, true},
		{"underscored", "SECURITY_GROUP", KindSecurityGroup, true},
		{"hyphenated", "nat-gateway", KindNATGateway, true},
		{"cloudformation", "AWS::EC2::Instance", KindEC2, true},
		{"cloudformation vpc", "AWS::EC2::VPC", KindVPC, true},
		{"cloudformation rds", "AWS::RDS::DBInstance", KindRDS, true},
		{"cloudformation bucket", "AWS::S3::Bucket", KindS3, true},
		{"terraform", "aws_vpc", KindVPC, true},
		{"terraform s3", "aws_s3_bucket", KindS3, true},
		{"elbv2", "AWS::ElasticLoadBalancingV2::LoadBalancer", KindLoadBalancer, true},
		{"target group", "TARGET_GROUP", KindTargetGroup, true},
		{"route table", "route_table", KindRouteTable, true},
		{"vpc endpoint", "VPC_ENDPOINT", KindVPCEndpoint, true},
		{"internet gateway short", "IGW", KindInternetGateway, true},
		{"lambda", "AWS::Lambda::Function", KindLambda, true},
		{"unknown", "QUANTUM_WIDGET", KindGeneric, false},
		{"empty", "", KindGeneric, false},
		{"whitespace", "   ", KindGeneric, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseKind(tt.raw)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseKind(%q) = (%v, %v), want (%v, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSpecFor(t *testing.T) {
	vpc := SpecFor(KindVPC)
	if !vpc.Container {
		t.Error("VPC spec should be a container")
	}
	if vpc.Width != 1200 || vpc.Height != 700 {
		t.Errorf("VPC default size = %gx%g, want 1200x700", vpc.Width, vpc.Height)
	}
	if vpc.Color != "#8C4FFF" {
		t.Errorf("VPC color = %q, want #8C4FFF", vpc.Color)
	}
	if vpc.IDPrefix != "vpc" {
		t.Errorf("VPC id prefix = %q, want vpc", vpc.IDPrefix)
	}

	ec2 := SpecFor(KindEC2)
	if ec2.Container {
		t.Error("EC2 spec should not be a container")
	}
	if ec2.Width != 120 || ec2.Height != 88 {
		t.Errorf("EC2 default size = %gx%g, want 120x88", ec2.Width, ec2.Height)
	}

	// Unknown kinds fall back to the generic spec.
	unknown := SpecFor(Kind("SOMETHING_ELSE"))
	if unknown.Category != CategoryGeneric {
		t.Errorf("unknown kind category = %q, want %q", unknown.Category, CategoryGeneric)
	}
}

func TestStringProp(t *testing.T) {
	props := map[string]any{
		"VpcId":  "vpc-123",
		"empty":  "",
		"number": 42,
	}

	tests := []struct {
		name string
		keys []string
		want string
	}{
		{"first match", []string{"VpcId"}, "vpc-123"},
		{"priority order", []string{"missing", "VpcId"}, "vpc-123"},
		{"empty skipped", []string{"empty", "VpcId"}, "vpc-123"},
		{"non-string skipped", []string{"number", "VpcId"}, "vpc-123"},
		{"no match", []string{"missing", "also_missing"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StringProp(props, tt.keys...); got != tt.want {
				t.Errorf("StringProp(%v) = %q, want %q", tt.keys, got, tt.want)
			}
		})
	}
}

func TestBoolProp(t *testing.T) {
	props := map[string]any{
		"MapPublicIpOnLaunch": true,
		"IsDefault":           false,
		"stringy":             "true",
		"junk":                "not-a-bool",
	}

	if v, ok := BoolProp(props, "MapPublicIpOnLaunch"); !ok || !v {
		t.Errorf("BoolProp(MapPublicIpOnLaunch) = (%v, %v), want (true, true)", v, ok)
	}
	if v, ok := BoolProp(props, "IsDefault"); !ok || v {
		t.Errorf("BoolProp(IsDefault) = (%v, %v), want (false, true)", v, ok)
	}
	if v, ok := BoolProp(props, "stringy"); !ok || !v {
		t.Errorf("BoolProp(stringy) = (%v, %v), want (true, true)", v, ok)
	}
	if _, ok := BoolProp(props, "junk"); ok {
		t.Error("BoolProp(junk) ok = true, want false")
	}
	if _, ok := BoolProp(props, "missing"); ok {
		t.Error("BoolProp(missing) ok = true, want false")
	}
}

func TestTagValue(t *testing.T) {
	props := map[string]any{
		"Tags": []any{
			map[string]any{"Key": "env", "Value": "prod"},
			map[string]any{"Key": "Name", "Value": "web-server"},
		},
	}

	if got := TagValue(props, "Name", "fallback"); got != "web-server" {
		t.Errorf("TagValue(Name) = %q, want %q", got, "web-server")
	}
	if got := TagValue(props, "missing", "fallback"); got != "fallback" {
		t.Errorf("TagValue(missing) = %q, want %q", got, "fallback")
	}

	// Malformed tag lists fall back rather than panic.
	malformed := map[string]any{"Tags": []any{"not-a-map", 42}}
	if got := TagValue(malformed, "Name", "i-123"); got != "i-123" {
		t.Errorf("TagValue(malformed) = %q, want %q", got, "i-123")
	}
	if got := TagValue(map[string]any{}, "Name", "dflt"); got != "dflt" {
		t.Errorf("TagValue(no tags) = %q, want %q", got, "dflt")
	}
}

func TestDisplayName(t *testing.T) {
	named := Resource{ID: "vpc-vpc-1", Name: "prod-vpc"}
	if got := named.DisplayName(); got != "prod-vpc" {
		t.Errorf("DisplayName() = %q, want %q", got, "prod-vpc")
	}

	unnamed := Resource{ID: "vpc-vpc-1"}
	if got := unnamed.DisplayName(); got != "vpc-vpc-1" {
		t.Errorf("DisplayName() = %q, want %q", got, "vpc-vpc-1")
	}
}
