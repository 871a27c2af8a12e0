package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// stsAPI is the subset of the STS client used by the preflight check.
type stsAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// newSTSClient builds the real STS client for the configured region.
func newSTSClient(ctx context.Context, region string) (stsAPI, error) {
	awsCfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return sts.NewFromConfig(awsCfg), nil
}

// preflight verifies the caller's AWS account matches the configured
// account before any registry write or stack application, catching
// misdirected credentials while everything is still read-only.
func preflight(ctx context.Context, client stsAPI, cfg *Config) error {
	if cfg.AccountID == "" {
		return nil
	}

	identity, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return fmt.Errorf("STS GetCallerIdentity: %w", err)
	}
	caller := aws.ToString(identity.Account)
	if caller != cfg.AccountID {
		return fmt.Errorf(
			"AWS caller account %s does not match configured account %s"+
				" - check your AWS credentials or update account_id",
			caller, cfg.AccountID,
		)
	}
	return nil
}
