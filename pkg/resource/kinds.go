package resource

import "strings"

// Kind is the canonical resource type tag.
type Kind string

// Canonical resource kinds.
const (
	KindRegion          Kind = "REGION"
	KindVPC             Kind = "VPC"
	KindSubnet          Kind = "SUBNET"
	KindEC2             Kind = "EC2"
	KindRDS             Kind = "RDS"
	KindS3              Kind = "S3"
	KindSecurityGroup   Kind = "SECURITY_GROUP"
	KindInternetGateway Kind = "INTERNET_GATEWAY"
	KindNATGateway      Kind = "NAT_GATEWAY"
	KindRouteTable      Kind = "ROUTE_TABLE"
	KindLoadBalancer    Kind = "LOAD_BALANCER"
	KindTargetGroup     Kind = "TARGET_GROUP"
	KindVPCEndpoint     Kind = "VPC_ENDPOINT"
	KindAPIGateway      Kind = "API_GATEWAY"
	KindLambda          Kind = "LAMBDA"
	KindInternet        Kind = "INTERNET"
	KindGeneric         Kind = "GENERIC"
)

// Presentation categories. Used for grouping and edge styling only, never
// for layout correctness.
const (
	CategoryNetworking  = "networking"
	CategoryCompute     = "compute"
	CategoryDatabase    = "database"
	CategoryStorage     = "storage"
	CategorySecurity    = "security"
	CategoryIntegration = "integration"
	CategoryGeneric     = "generic"
)

// Spec carries the presentation and sizing defaults for one resource kind.
type Spec struct {
	Label       string  // human-readable kind name
	Category    string  // presentation category
	Icon        string  // icon identifier for the diagram surface
	Description string  // short description shown in the side panel
	Color       string  // hex accent color
	Width       float64 // default box width
	Height      float64 // default box height
	Container   bool    // container nodes own children and can grow
	IDPrefix    string  // prefix for content-derived node ids
}

// specs is the kind registry. Colors and sizes follow the AWS service
// palette the diagram surface renders with.
var specs = map[Kind]Spec{
	KindRegion: {
		Label: "Region", Category: CategoryNetworking, Icon: "vpc",
		Description: "AWS Region", Color: "#3949AB",
		Width: 1400, Height: 900, Container: true, IDPrefix: "region",
	},
	KindVPC: {
		Label: "VPC", Category: CategoryNetworking, Icon: "vpc",
		Description: "Virtual private cloud", Color: "#8C4FFF",
		Width: 1200, Height: 700, Container: true, IDPrefix: "vpc",
	},
	KindSubnet: {
		Label: "Subnet", Category: CategoryNetworking, Icon: "vpc",
		Description: "Virtual subnet", Color: "#8C4FFF",
		Width: 360, Height: 160, Container: true, IDPrefix: "subnet",
	},
	KindEC2: {
		Label: "EC2 Instance", Category: CategoryCompute, Icon: "ec2",
		Description: "Virtual server in the cloud", Color: "#FF9900",
		Width: 120, Height: 88, IDPrefix: "instance",
	},
	KindRDS: {
		Label: "RDS Instance", Category: CategoryDatabase, Icon: "rds",
		Description: "Managed relational database", Color: "#C925D1",
		Width: 120, Height: 88, IDPrefix: "rds",
	},
	KindS3: {
		Label: "S3 Bucket", Category: CategoryStorage, Icon: "s3",
		Description: "Object storage", Color: "#7AA116",
		Width: 120, Height: 88, IDPrefix: "s3",
	},
	KindSecurityGroup: {
		Label: "Security Group", Category: CategorySecurity, Icon: "waf",
		Description: "Security group", Color: "#DD344C",
		Width: 120, Height: 88, IDPrefix: "sg",
	},
	KindInternetGateway: {
		Label: "Internet Gateway", Category: CategoryNetworking, Icon: "elb",
		Description: "Internet gateway", Color: "#FF9900",
		Width: 120, Height: 88, IDPrefix: "igw",
	},
	KindNATGateway: {
		Label: "NAT Gateway", Category: CategoryNetworking, Icon: "elb",
		Description: "NAT gateway", Color: "#FF9900",
		Width: 120, Height: 88, IDPrefix: "nat",
	},
	KindRouteTable: {
		Label: "Route Table", Category: CategoryNetworking, Icon: "vpc",
		Description: "Route table", Color: "#8C4FFF",
		Width: 120, Height: 88, IDPrefix: "rt",
	},
	KindLoadBalancer: {
		Label: "Load Balancer", Category: CategoryNetworking, Icon: "elb",
		Description: "Application load balancer", Color: "#8C4FFF",
		Width: 120, Height: 88, IDPrefix: "alb",
	},
	KindTargetGroup: {
		Label: "Target Group", Category: CategoryNetworking, Icon: "elb",
		Description: "Load balancer target group", Color: "#8C4FFF",
		Width: 120, Height: 88, IDPrefix: "tg",
	},
	KindVPCEndpoint: {
		Label: "VPC Endpoint", Category: CategoryNetworking, Icon: "vpc",
		Description: "VPC endpoint", Color: "#8C4FFF",
		Width: 120, Height: 88, IDPrefix: "vpce",
	},
	KindAPIGateway: {
		Label: "API Gateway", Category: CategoryIntegration, Icon: "apigateway",
		Description: "Managed API gateway", Color: "#E7157B",
		Width: 120, Height: 88, IDPrefix: "apigw",
	},
	KindLambda: {
		Label: "Lambda Function", Category: CategoryCompute, Icon: "lambda",
		Description: "Serverless function", Color: "#FF9900",
		Width: 120, Height: 88, IDPrefix: "lambda",
	},
	KindInternet: {
		Label: "Internet", Category: CategoryNetworking, Icon: "internet",
		Description: "Public internet", Color: "#232F3E",
		Width: 120, Height: 88, IDPrefix: "internet",
	},
	KindGeneric: {
		Label: "Resource", Category: CategoryGeneric, Icon: "generic",
		Description: "Unrecognized resource", Color: "#999999",
		Width: 120, Height: 88, IDPrefix: "generic",
	},
}

// SpecFor returns the presentation spec for a kind. Unknown kinds get the
// generic spec so callers never need a presence check.
func SpecFor(k Kind) Spec {
	if s, ok := specs[k]; ok {
		return s
	}
	return specs[KindGeneric]
}

// kindAliases maps normalized raw type strings to canonical kinds. Raw
// strings are uppercased and stripped of separators before lookup, so one
// row covers "vpc", "VPC", "aws_vpc" and "AWS::EC2::VPC" style spellings.
var kindAliases = map[string]Kind{
	"REGION": KindRegion,
	"VPC":    KindVPC,
	"SUBNET": KindSubnet,

	"EC2":         KindEC2,
	"EC2INSTANCE": KindEC2,
	"INSTANCE":    KindEC2,

	"RDS":         KindRDS,
	"RDSINSTANCE": KindRDS,
	"DBINSTANCE":  KindRDS,

	"S3":       KindS3,
	"S3BUCKET": KindS3,
	"BUCKET":   KindS3,

	"SECURITYGROUP": KindSecurityGroup,
	"SG":            KindSecurityGroup,

	"INTERNETGATEWAY": KindInternetGateway,
	"IGW":             KindInternetGateway,
	"NATGATEWAY":      KindNATGateway,
	"NAT":             KindNATGateway,
	"ROUTETABLE":      KindRouteTable,

	"LOADBALANCER":            KindLoadBalancer,
	"ALB":                     KindLoadBalancer,
	"ELB":                     KindLoadBalancer,
	"ELASTICLOADBALANCER":     KindLoadBalancer,
	"APPLICATIONLOADBALANCER": KindLoadBalancer,
	"TARGETGROUP":             KindTargetGroup,

	"VPCENDPOINT": KindVPCEndpoint,
	"ENDPOINT":    KindVPCEndpoint,

	"APIGATEWAY": KindAPIGateway,
	"RESTAPI":    KindAPIGateway,

	"LAMBDA":         KindLambda,
	"LAMBDAFUNCTION": KindLambda,
	"FUNCTION":       KindLambda,

	"INTERNET": KindInternet,
}

// ParseKind maps a raw resource_type string to a canonical Kind. It accepts
// plain names ("VPC"), terraform-style names ("aws_vpc"), and CloudFormation
// names ("AWS::EC2::VPC"). Unknown types return KindGeneric and ok=false;
// they are never an error, so unmodeled resources still reach the diagram.
func ParseKind(raw string) (Kind, bool) {
	normalized := normalizeTypeName(raw)
	if normalized == "" {
		return KindGeneric, false
	}
	if k, ok := kindAliases[normalized]; ok {
		return k, true
	}
	return KindGeneric, false
}

// normalizeTypeName uppercases raw and strips separators and well-known
// provider prefixes. "AWS::EC2::Instance" and "aws_instance" both become
// "INSTANCE".
func normalizeTypeName(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	// CloudFormation style: keep the last path component.
	if i := strings.LastIndex(s, "::"); i >= 0 {
		s = s[i+2:]
	}

	s = strings.NewReplacer("_", "", "-", "", " ", "", ".", "").Replace(s)
	s = strings.TrimPrefix(s, "AWS")
	return s
}
