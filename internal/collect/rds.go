package collect

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
)

func collectDBInstances(ctx context.Context, client rdsClient) ([]map[string]any, error) {
	paginator := rds.NewDescribeDBInstancesPaginator(client, &rds.DescribeDBInstancesInput{})

	var records []map[string]any
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeDBInstances page: %w", err)
		}
		for _, db := range page.DBInstances {
			record := map[string]any{
				"DBInstanceIdentifier": aws.ToString(db.DBInstanceIdentifier),
				"Engine":               aws.ToString(db.Engine),
				"DBInstanceClass":      aws.ToString(db.DBInstanceClass),
				"AvailabilityZone":     aws.ToString(db.AvailabilityZone),
				"MultiAZ":              aws.ToBool(db.MultiAZ),
			}

			if db.DBSubnetGroup != nil {
				subnets := make([]map[string]any, 0, len(db.DBSubnetGroup.Subnets))
				for _, s := range db.DBSubnetGroup.Subnets {
					subnets = append(subnets, map[string]any{
						"SubnetIdentifier": aws.ToString(s.SubnetIdentifier),
					})
				}
				record["DBSubnetGroup"] = map[string]any{
					"VpcId":   aws.ToString(db.DBSubnetGroup.VpcId),
					"Subnets": subnets,
				}
			}

			groups := make([]map[string]any, 0, len(db.VpcSecurityGroups))
			for _, g := range db.VpcSecurityGroups {
				groups = append(groups, map[string]any{
					"VpcSecurityGroupId": aws.ToString(g.VpcSecurityGroupId),
				})
			}
			if len(groups) > 0 {
				record["VpcSecurityGroups"] = groups
			}

			records = append(records, record)
		}
	}
	return records, nil
}
