package collect

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// Records carry the same PascalCase keys the describe APIs use, so the
// collected document is indistinguishable from a hand-exported one and the
// normalizer's field-resolution tables apply unchanged.

func collectVPCs(ctx context.Context, client ec2Client) ([]map[string]any, error) {
	out, err := client.DescribeVpcs(ctx, &ec2svc.DescribeVpcsInput{})
	if err != nil {
		return nil, err
	}
	records := make([]map[string]any, 0, len(out.Vpcs))
	for _, vpc := range out.Vpcs {
		records = append(records, map[string]any{
			"VpcId":     aws.ToString(vpc.VpcId),
			"CidrBlock": aws.ToString(vpc.CidrBlock),
			"IsDefault": aws.ToBool(vpc.IsDefault),
			"Tags":      tagList(vpc.Tags),
		})
	}
	return records, nil
}

func collectSubnets(ctx context.Context, client ec2Client) ([]map[string]any, error) {
	out, err := client.DescribeSubnets(ctx, &ec2svc.DescribeSubnetsInput{})
	if err != nil {
		return nil, err
	}
	records := make([]map[string]any, 0, len(out.Subnets))
	for _, subnet := range out.Subnets {
		records = append(records, map[string]any{
			"SubnetId":            aws.ToString(subnet.SubnetId),
			"VpcId":               aws.ToString(subnet.VpcId),
			"CidrBlock":           aws.ToString(subnet.CidrBlock),
			"AvailabilityZone":    aws.ToString(subnet.AvailabilityZone),
			"MapPublicIpOnLaunch": aws.ToBool(subnet.MapPublicIpOnLaunch),
			"Tags":                tagList(subnet.Tags),
		})
	}
	return records, nil
}

func collectInternetGateways(ctx context.Context, client ec2Client) ([]map[string]any, error) {
	out, err := client.DescribeInternetGateways(ctx, &ec2svc.DescribeInternetGatewaysInput{})
	if err != nil {
		return nil, err
	}
	records := make([]map[string]any, 0, len(out.InternetGateways))
	for _, igw := range out.InternetGateways {
		attachments := make([]map[string]any, 0, len(igw.Attachments))
		for _, att := range igw.Attachments {
			attachments = append(attachments, map[string]any{
				"VpcId": aws.ToString(att.VpcId),
				"State": string(att.State),
			})
		}
		records = append(records, map[string]any{
			"InternetGatewayId": aws.ToString(igw.InternetGatewayId),
			"Attachments":       attachments,
			"Tags":              tagList(igw.Tags),
		})
	}
	return records, nil
}

func collectNATGateways(ctx context.Context, client ec2Client) ([]map[string]any, error) {
	paginator := ec2svc.NewDescribeNatGatewaysPaginator(client, &ec2svc.DescribeNatGatewaysInput{})

	var records []map[string]any
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeNatGateways page: %w", err)
		}
		for _, nat := range page.NatGateways {
			records = append(records, map[string]any{
				"NatGatewayId": aws.ToString(nat.NatGatewayId),
				"SubnetId":     aws.ToString(nat.SubnetId),
				"VpcId":        aws.ToString(nat.VpcId),
				"State":        string(nat.State),
				"Tags":         tagList(nat.Tags),
			})
		}
	}
	return records, nil
}

func collectRouteTables(ctx context.Context, client ec2Client) ([]map[string]any, error) {
	out, err := client.DescribeRouteTables(ctx, &ec2svc.DescribeRouteTablesInput{})
	if err != nil {
		return nil, err
	}
	records := make([]map[string]any, 0, len(out.RouteTables))
	for _, rt := range out.RouteTables {
		routes := make([]map[string]any, 0, len(rt.Routes))
		for _, route := range rt.Routes {
			r := map[string]any{
				"DestinationCidrBlock": aws.ToString(route.DestinationCidrBlock),
			}
			if gw := aws.ToString(route.GatewayId); gw != "" {
				r["GatewayId"] = gw
			}
			if nat := aws.ToString(route.NatGatewayId); nat != "" {
				r["NatGatewayId"] = nat
			}
			routes = append(routes, r)
		}

		associations := make([]map[string]any, 0, len(rt.Associations))
		for _, assoc := range rt.Associations {
			associations = append(associations, map[string]any{
				"SubnetId": aws.ToString(assoc.SubnetId),
				"Main":     aws.ToBool(assoc.Main),
			})
		}

		records = append(records, map[string]any{
			"RouteTableId": aws.ToString(rt.RouteTableId),
			"VpcId":        aws.ToString(rt.VpcId),
			"Routes":       routes,
			"Associations": associations,
			"Tags":         tagList(rt.Tags),
		})
	}
	return records, nil
}

func collectSecurityGroups(ctx context.Context, client ec2Client) ([]map[string]any, error) {
	out, err := client.DescribeSecurityGroups(ctx, &ec2svc.DescribeSecurityGroupsInput{})
	if err != nil {
		return nil, err
	}
	records := make([]map[string]any, 0, len(out.SecurityGroups))
	for _, sg := range out.SecurityGroups {
		records = append(records, map[string]any{
			"GroupId":     aws.ToString(sg.GroupId),
			"GroupName":   aws.ToString(sg.GroupName),
			"VpcId":       aws.ToString(sg.VpcId),
			"Description": aws.ToString(sg.Description),
			"Tags":        tagList(sg.Tags),
		})
	}
	return records, nil
}

func collectVPCEndpoints(ctx context.Context, client ec2Client) ([]map[string]any, error) {
	paginator := ec2svc.NewDescribeVpcEndpointsPaginator(client, &ec2svc.DescribeVpcEndpointsInput{})

	var records []map[string]any
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeVpcEndpoints page: %w", err)
		}
		for _, ep := range page.VpcEndpoints {
			records = append(records, map[string]any{
				"VpcEndpointId":   aws.ToString(ep.VpcEndpointId),
				"VpcId":           aws.ToString(ep.VpcId),
				"ServiceName":     aws.ToString(ep.ServiceName),
				"VpcEndpointType": string(ep.VpcEndpointType),
				"State":           string(ep.State),
				"Tags":            tagList(ep.Tags),
			})
		}
	}
	return records, nil
}

func collectInstances(ctx context.Context, client ec2Client) ([]map[string]any, error) {
	paginator := ec2svc.NewDescribeInstancesPaginator(client, &ec2svc.DescribeInstancesInput{})

	var records []map[string]any
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeInstances page: %w", err)
		}
		for _, reservation := range page.Reservations {
			for _, inst := range reservation.Instances {
				records = append(records, toInstanceRecord(inst))
			}
		}
	}
	return records, nil
}

func toInstanceRecord(inst ec2types.Instance) map[string]any {
	groups := make([]map[string]any, 0, len(inst.SecurityGroups))
	for _, g := range inst.SecurityGroups {
		groups = append(groups, map[string]any{
			"GroupId":   aws.ToString(g.GroupId),
			"GroupName": aws.ToString(g.GroupName),
		})
	}

	var state string
	if inst.State != nil {
		state = string(inst.State.Name)
	}

	return map[string]any{
		"InstanceId":     aws.ToString(inst.InstanceId),
		"InstanceType":   string(inst.InstanceType),
		"State":          state,
		"SubnetId":       aws.ToString(inst.SubnetId),
		"VpcId":          aws.ToString(inst.VpcId),
		"PrivateIp":      aws.ToString(inst.PrivateIpAddress),
		"SecurityGroups": groups,
		"Tags":           tagList(inst.Tags),
	}
}

// tagList converts SDK tags into the {Key, Value} array form the raw
// describe JSON uses.
func tagList(tags []ec2types.Tag) []map[string]any {
	if len(tags) == 0 {
		return nil
	}
	out := make([]map[string]any, 0, len(tags))
	for _, t := range tags {
		out = append(out, map[string]any{
			"Key":   aws.ToString(t.Key),
			"Value": aws.ToString(t.Value),
		})
	}
	return out
}
