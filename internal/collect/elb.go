package collect

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
)

func collectLoadBalancers(ctx context.Context, client elbClient) ([]map[string]any, error) {
	paginator := elbv2.NewDescribeLoadBalancersPaginator(client, &elbv2.DescribeLoadBalancersInput{})

	var records []map[string]any
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeLoadBalancers page: %w", err)
		}
		for _, lb := range page.LoadBalancers {
			subnets := make([]string, 0, len(lb.AvailabilityZones))
			for _, az := range lb.AvailabilityZones {
				if id := aws.ToString(az.SubnetId); id != "" {
					subnets = append(subnets, id)
				}
			}
			groups := make([]string, 0, len(lb.SecurityGroups))
			groups = append(groups, lb.SecurityGroups...)

			records = append(records, map[string]any{
				"LoadBalancerArn":  aws.ToString(lb.LoadBalancerArn),
				"LoadBalancerName": aws.ToString(lb.LoadBalancerName),
				"VpcId":            aws.ToString(lb.VpcId),
				"Type":             string(lb.Type),
				"Scheme":           string(lb.Scheme),
				"Subnets":          subnets,
				"SecurityGroups":   groups,
			})
		}
	}
	return records, nil
}

func collectTargetGroups(ctx context.Context, client elbClient) ([]map[string]any, error) {
	paginator := elbv2.NewDescribeTargetGroupsPaginator(client, &elbv2.DescribeTargetGroupsInput{})

	var records []map[string]any
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeTargetGroups page: %w", err)
		}
		for _, tg := range page.TargetGroups {
			arns := make([]string, 0, len(tg.LoadBalancerArns))
			arns = append(arns, tg.LoadBalancerArns...)

			records = append(records, map[string]any{
				"TargetGroupArn":   aws.ToString(tg.TargetGroupArn),
				"TargetGroupName":  aws.ToString(tg.TargetGroupName),
				"VpcId":            aws.ToString(tg.VpcId),
				"Protocol":         string(tg.Protocol),
				"Port":             aws.ToInt32(tg.Port),
				"LoadBalancerArns": arns,
			})
		}
	}
	return records, nil
}
