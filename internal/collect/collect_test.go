package collect

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/charmbracelet/log"

	"github.com/cloudweave/cloudweave/pkg/normalize"
)

// stubEC2 returns canned describe outputs. Single-page responses keep the
// paginators to one call.
type stubEC2 struct {
	vpcs    []ec2types.Vpc
	subnets []ec2types.Subnet
	err     error
}

func (s *stubEC2) DescribeVpcs(context.Context, *ec2svc.DescribeVpcsInput, ...func(*ec2svc.Options)) (*ec2svc.DescribeVpcsOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &ec2svc.DescribeVpcsOutput{Vpcs: s.vpcs}, nil
}

func (s *stubEC2) DescribeSubnets(context.Context, *ec2svc.DescribeSubnetsInput, ...func(*ec2svc.Options)) (*ec2svc.DescribeSubnetsOutput, error) {
	return &ec2svc.DescribeSubnetsOutput{Subnets: s.subnets}, nil
}

func (s *stubEC2) DescribeInternetGateways(context.Context, *ec2svc.DescribeInternetGatewaysInput, ...func(*ec2svc.Options)) (*ec2svc.DescribeInternetGatewaysOutput, error) {
	return &ec2svc.DescribeInternetGatewaysOutput{}, nil
}

func (s *stubEC2) DescribeNatGateways(context.Context, *ec2svc.DescribeNatGatewaysInput, ...func(*ec2svc.Options)) (*ec2svc.DescribeNatGatewaysOutput, error) {
	return &ec2svc.DescribeNatGatewaysOutput{}, nil
}

func (s *stubEC2) DescribeRouteTables(context.Context, *ec2svc.DescribeRouteTablesInput, ...func(*ec2svc.Options)) (*ec2svc.DescribeRouteTablesOutput, error) {
	return &ec2svc.DescribeRouteTablesOutput{}, nil
}

func (s *stubEC2) DescribeSecurityGroups(context.Context, *ec2svc.DescribeSecurityGroupsInput, ...func(*ec2svc.Options)) (*ec2svc.DescribeSecurityGroupsOutput, error) {
	return &ec2svc.DescribeSecurityGroupsOutput{}, nil
}

func (s *stubEC2) DescribeVpcEndpoints(context.Context, *ec2svc.DescribeVpcEndpointsInput, ...func(*ec2svc.Options)) (*ec2svc.DescribeVpcEndpointsOutput, error) {
	return &ec2svc.DescribeVpcEndpointsOutput{
		VpcEndpoints: []ec2types.VpcEndpoint{{
			VpcEndpointId:   aws.String("vpce-1"),
			VpcId:           aws.String("vpc-1"),
			ServiceName:     aws.String("com.amazonaws.us-east-1.s3"),
			VpcEndpointType: ec2types.VpcEndpointTypeGateway,
			State:           ec2types.StateAvailable,
		}},
	}, nil
}

func (s *stubEC2) DescribeInstances(context.Context, *ec2svc.DescribeInstancesInput, ...func(*ec2svc.Options)) (*ec2svc.DescribeInstancesOutput, error) {
	return &ec2svc.DescribeInstancesOutput{
		Reservations: []ec2types.Reservation{{
			Instances: []ec2types.Instance{{
				InstanceId:   aws.String("i-1"),
				InstanceType: ec2types.InstanceTypeT3Micro,
				SubnetId:     aws.String("subnet-1"),
				VpcId:        aws.String("vpc-1"),
				State:        &ec2types.InstanceState{Name: ec2types.InstanceStateNameRunning},
				SecurityGroups: []ec2types.GroupIdentifier{
					{GroupId: aws.String("sg-1"), GroupName: aws.String("web")},
				},
				Tags: []ec2types.Tag{{Key: aws.String("Name"), Value: aws.String("web-1")}},
			}},
		}},
	}, nil
}

type stubELB struct{ err error }

func (s *stubELB) DescribeLoadBalancers(context.Context, *elbv2.DescribeLoadBalancersInput, ...func(*elbv2.Options)) (*elbv2.DescribeLoadBalancersOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &elbv2.DescribeLoadBalancersOutput{
		LoadBalancers: []elbtypes.LoadBalancer{{
			LoadBalancerArn:  aws.String("arn:lb/web"),
			LoadBalancerName: aws.String("web"),
			VpcId:            aws.String("vpc-1"),
			Type:             elbtypes.LoadBalancerTypeEnumApplication,
			AvailabilityZones: []elbtypes.AvailabilityZone{
				{SubnetId: aws.String("subnet-1")},
			},
		}},
	}, nil
}

func (s *stubELB) DescribeTargetGroups(context.Context, *elbv2.DescribeTargetGroupsInput, ...func(*elbv2.Options)) (*elbv2.DescribeTargetGroupsOutput, error) {
	return &elbv2.DescribeTargetGroupsOutput{}, nil
}

type stubRDS struct{}

func (s *stubRDS) DescribeDBInstances(context.Context, *rds.DescribeDBInstancesInput, ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error) {
	return &rds.DescribeDBInstancesOutput{
		DBInstances: []rdstypes.DBInstance{{
			DBInstanceIdentifier: aws.String("prod-db"),
			Engine:               aws.String("postgres"),
			DBSubnetGroup: &rdstypes.DBSubnetGroup{
				VpcId:   aws.String("vpc-1"),
				Subnets: []rdstypes.Subnet{{SubnetIdentifier: aws.String("subnet-2")}},
			},
		}},
	}, nil
}

func testClients(ec2 *stubEC2, elb *stubELB) ClientFactory {
	return func(aws.Config, string) ClientSet {
		return ClientSet{EC2: ec2, ELB: elb, RDS: &stubRDS{}}
	}
}

func testEC2() *stubEC2 {
	return &stubEC2{
		vpcs: []ec2types.Vpc{{
			VpcId:     aws.String("vpc-1"),
			CidrBlock: aws.String("10.0.0.0/16"),
			Tags:      []ec2types.Tag{{Key: aws.String("Name"), Value: aws.String("prod")}},
		}},
		subnets: []ec2types.Subnet{{
			SubnetId:            aws.String("subnet-1"),
			VpcId:               aws.String("vpc-1"),
			AvailabilityZone:    aws.String("us-east-1a"),
			MapPublicIpOnLaunch: aws.Bool(true),
		}},
	}
}

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestCollectRegion(t *testing.T) {
	c := NewCollectorWithFactory(testClients(testEC2(), &stubELB{}), testLogger())

	families, err := c.collectRegion(context.Background(), aws.Config{}, "us-east-1")
	if err != nil {
		t.Fatalf("collectRegion: %v", err)
	}

	wantFamilies := []string{"vpcs", "subnets", "vpc_endpoints", "instances", "load_balancers", "rds_instances"}
	for _, fam := range wantFamilies {
		if len(families[fam]) == 0 {
			t.Errorf("family %q missing from collected region", fam)
		}
	}
	if _, ok := families["nat_gateways"]; ok {
		t.Error("empty family should be omitted")
	}

	inst := families["instances"][0]
	if inst["InstanceId"] != "i-1" || inst["SubnetId"] != "subnet-1" {
		t.Errorf("instance record = %v", inst)
	}
}

func TestCollectRegionVPCFailureIsFatal(t *testing.T) {
	ec2 := testEC2()
	ec2.err = context.DeadlineExceeded
	c := NewCollectorWithFactory(testClients(ec2, &stubELB{}), testLogger())

	if _, err := c.collectRegion(context.Background(), aws.Config{}, "us-east-1"); err == nil {
		t.Fatal("expected error when VPCs cannot be described")
	}
}

func TestCollectRegionFamilyFailureDegrades(t *testing.T) {
	c := NewCollectorWithFactory(testClients(testEC2(), &stubELB{err: context.DeadlineExceeded}), testLogger())

	families, err := c.collectRegion(context.Background(), aws.Config{}, "us-east-1")
	if err != nil {
		t.Fatalf("collectRegion: %v", err)
	}
	if _, ok := families["load_balancers"]; ok {
		t.Error("failed family should be absent, not partial")
	}
	if len(families["vpcs"]) == 0 {
		t.Error("other families should survive a family failure")
	}
}

// The collected document must round-trip through the normalizer as the
// region-keyed inventory shape.
func TestCollectedDocumentNormalizes(t *testing.T) {
	c := NewCollectorWithFactory(testClients(testEC2(), &stubELB{}), testLogger())

	families, err := c.collectRegion(context.Background(), aws.Config{}, "us-east-1")
	if err != nil {
		t.Fatalf("collectRegion: %v", err)
	}

	doc := map[string]map[string][]map[string]any{"us-east-1": families}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	result, err := normalize.Normalize(data, normalize.Options{DefaultRegion: "us-east-1"})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if result.Shape != normalize.ShapeRegionInventory {
		t.Errorf("shape = %q, want %q", result.Shape, normalize.ShapeRegionInventory)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
	// 1 VPC + 1 subnet + 1 endpoint + 1 instance + 1 LB + 1 DB
	if len(result.Resources) != 6 {
		t.Errorf("resources = %d, want 6", len(result.Resources))
	}
}
