package collect

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/rds"
)

// ---------------------------------------------------------------------------
// Narrow client interfaces
//
// Each interface lists only the SDK operations this package calls. The real
// *ec2.Client, *elasticloadbalancingv2.Client, and *rds.Client satisfy them
// automatically; tests swap in stubs.
// ---------------------------------------------------------------------------

// ec2Client covers the EC2 describe operations used for inventory
// collection. The DescribeInstances method also satisfies
// ec2.DescribeInstancesAPIClient, enabling the SDK v2 paginator.
type ec2Client interface {
	DescribeVpcs(ctx context.Context, params *ec2svc.DescribeVpcsInput, optFns ...func(*ec2svc.Options)) (*ec2svc.DescribeVpcsOutput, error)
	DescribeSubnets(ctx context.Context, params *ec2svc.DescribeSubnetsInput, optFns ...func(*ec2svc.Options)) (*ec2svc.DescribeSubnetsOutput, error)
	DescribeInternetGateways(ctx context.Context, params *ec2svc.DescribeInternetGatewaysInput, optFns ...func(*ec2svc.Options)) (*ec2svc.DescribeInternetGatewaysOutput, error)
	DescribeNatGateways(ctx context.Context, params *ec2svc.DescribeNatGatewaysInput, optFns ...func(*ec2svc.Options)) (*ec2svc.DescribeNatGatewaysOutput, error)
	DescribeRouteTables(ctx context.Context, params *ec2svc.DescribeRouteTablesInput, optFns ...func(*ec2svc.Options)) (*ec2svc.DescribeRouteTablesOutput, error)
	DescribeSecurityGroups(ctx context.Context, params *ec2svc.DescribeSecurityGroupsInput, optFns ...func(*ec2svc.Options)) (*ec2svc.DescribeSecurityGroupsOutput, error)
	DescribeVpcEndpoints(ctx context.Context, params *ec2svc.DescribeVpcEndpointsInput, optFns ...func(*ec2svc.Options)) (*ec2svc.DescribeVpcEndpointsOutput, error)
	DescribeInstances(ctx context.Context, params *ec2svc.DescribeInstancesInput, optFns ...func(*ec2svc.Options)) (*ec2svc.DescribeInstancesOutput, error)
}

// elbClient covers the ELBv2 describe operations. DescribeLoadBalancers
// satisfies elasticloadbalancingv2.DescribeLoadBalancersAPIClient for the
// paginator.
type elbClient interface {
	DescribeLoadBalancers(ctx context.Context, params *elbv2.DescribeLoadBalancersInput, optFns ...func(*elbv2.Options)) (*elbv2.DescribeLoadBalancersOutput, error)
	DescribeTargetGroups(ctx context.Context, params *elbv2.DescribeTargetGroupsInput, optFns ...func(*elbv2.Options)) (*elbv2.DescribeTargetGroupsOutput, error)
}

// rdsClient covers the RDS describe operations. Satisfies
// rds.DescribeDBInstancesAPIClient for the paginator.
type rdsClient interface {
	DescribeDBInstances(ctx context.Context, params *rds.DescribeDBInstancesInput, optFns ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error)
}

// ClientSet bundles the per-region service clients.
type ClientSet struct {
	EC2 ec2Client
	ELB elbClient
	RDS rdsClient
}

// ClientFactory builds a ClientSet for one region from a resolved AWS
// config. Tests inject a factory returning stubs.
type ClientFactory func(cfg aws.Config, region string) ClientSet

// NewClientSet is the production factory backed by the real SDK clients.
func NewClientSet(cfg aws.Config, region string) ClientSet {
	regional := cfg.Copy()
	regional.Region = region
	return ClientSet{
		EC2: ec2svc.NewFromConfig(regional),
		ELB: elbv2.NewFromConfig(regional),
		RDS: rds.NewFromConfig(regional),
	}
}
