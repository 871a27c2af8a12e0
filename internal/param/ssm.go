package param

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// ownerTagKey is the parameter tag recording the producing stack. Ownership
// conflicts on publish are detected by comparing this tag, since the
// parameter store itself has no notion of a writer identity.
const ownerTagKey = "hyperswitch:owner"

// ssmAPI is the subset of the SSM client used by SSMRegistry.
type ssmAPI interface {
	PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
	ListTagsForResource(ctx context.Context, params *ssm.ListTagsForResourceInput, optFns ...func(*ssm.Options)) (*ssm.ListTagsForResourceOutput, error)
}

// SSMRegistry implements Registry on AWS Systems Manager Parameter Store.
type SSMRegistry struct {
	client ssmAPI
}

// NewSSMRegistry builds an SSMRegistry for the given region using the
// default AWS credential chain.
func NewSSMRegistry(ctx context.Context, region string) (*SSMRegistry, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &SSMRegistry{client: ssm.NewFromConfig(cfg)}, nil
}

// NewSSMRegistryWithClient builds an SSMRegistry with a custom client.
func NewSSMRegistryWithClient(client ssmAPI) *SSMRegistry {
	return &SSMRegistry{client: client}
}

// Publish implements Registry.
func (r *SSMRegistry) Publish(ctx context.Context, path, owner, value string) error {
	return r.put(ctx, path, owner, value, types.ParameterTypeString)
}

// PublishList implements Registry.
func (r *SSMRegistry) PublishList(ctx context.Context, path, owner string, values []string) error {
	return r.put(ctx, path, owner, joinList(values), types.ParameterTypeStringList)
}

// put creates the parameter, tagging it with the owner. If the parameter
// already exists the stored owner tag decides: same owner overwrites
// idempotently, a different owner is a hard RegistryWriteError.
func (r *SSMRegistry) put(ctx context.Context, path, owner, value string, typ types.ParameterType) error {
	if err := ValidatePath(path); err != nil {
		return err
	}

	_, err := r.client.PutParameter(ctx, &ssm.PutParameterInput{
		Name:      aws.String(path),
		Value:     aws.String(value),
		Type:      typ,
		Overwrite: aws.Bool(false),
		Tags: []types.Tag{
			{Key: aws.String(ownerTagKey), Value: aws.String(owner)},
		},
	})
	if err == nil {
		return nil
	}

	var exists *types.ParameterAlreadyExists
	if !errors.As(err, &exists) {
		return fmt.Errorf("put parameter %s: %w", path, err)
	}

	current, err := r.ownerOf(ctx, path)
	if err != nil {
		return err
	}
	if current != owner {
		return &RegistryWriteError{Path: path, Owner: owner, CurrentOwner: current}
	}

	// Same owner re-publishing (stack update): overwrite in place. Tags
	// cannot be combined with Overwrite and are already correct.
	_, err = r.client.PutParameter(ctx, &ssm.PutParameterInput{
		Name:      aws.String(path),
		Value:     aws.String(value),
		Type:      typ,
		Overwrite: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("overwrite parameter %s: %w", path, err)
	}
	return nil
}

// ownerOf reads the owner tag of an existing parameter.
func (r *SSMRegistry) ownerOf(ctx context.Context, path string) (string, error) {
	out, err := r.client.ListTagsForResource(ctx, &ssm.ListTagsForResourceInput{
		ResourceType: types.ResourceTypeForTaggingParameter,
		ResourceId:   aws.String(path),
	})
	if err != nil {
		return "", fmt.Errorf("list tags for parameter %s: %w", path, err)
	}
	for _, tag := range out.TagList {
		if aws.ToString(tag.Key) == ownerTagKey {
			return aws.ToString(tag.Value), nil
		}
	}
	return "", nil
}

// Resolve implements Registry.
func (r *SSMRegistry) Resolve(ctx context.Context, path string) (string, error) {
	out, err := r.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(path),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		var notFound *types.ParameterNotFound
		if errors.As(err, &notFound) {
			return "", &UnresolvedParameterError{Path: path}
		}
		return "", fmt.Errorf("get parameter %s: %w", path, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", &UnresolvedParameterError{Path: path, Reason: "parameter has no value"}
	}
	return aws.ToString(out.Parameter.Value), nil
}

// ResolveList implements Registry.
func (r *SSMRegistry) ResolveList(ctx context.Context, path string, count int) ([]string, error) {
	stored, err := r.Resolve(ctx, path)
	if err != nil {
		return nil, err
	}
	return takeList(path, stored, count)
}
