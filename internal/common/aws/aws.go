// internal/common/aws/aws.go

// Package aws holds the SDK clients behind the notification sinks:
// SNS for pipeline events, SES for the analysis digest mail.
package aws

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

func loadConfig(ctx context.Context, region string) (awssdk.Config, error) {
	return config.LoadDefaultConfig(ctx, config.WithRegion(region))
}
