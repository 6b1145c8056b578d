// Package secrets resolves the upstream API key, trying AWS SSM Parameter
// Store first and a static configuration value second.
package secrets

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"

	"finance_backend/internal/feature/market/domain"
)

// KeySource resolves the upstream API key.
type KeySource interface {
	APIKey(ctx context.Context) (string, error)
}

// ssmAPI is the subset of the SSM client used here.
// Defined consumer-side so tests can substitute a mock.
type ssmAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// ParameterStore reads the API key from AWS SSM Parameter Store.
type ParameterStore struct {
	client ssmAPI
	name   string
}

var _ KeySource = (*ParameterStore)(nil)

// NewParameterStore creates a ParameterStore source reading the named parameter.
func NewParameterStore(client ssmAPI, name string) *ParameterStore {
	return &ParameterStore{client: client, name: name}
}

// NewSSMClient builds an SSM client from the default AWS config chain.
func NewSSMClient(ctx context.Context) (*ssm.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return ssm.NewFromConfig(cfg), nil
}

// APIKey fetches and decrypts the parameter value.
func (p *ParameterStore) APIKey(ctx context.Context) (string, error) {
	if p.name == "" {
		return "", domain.NewValidation("parameter name is required")
	}

	out, err := p.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(p.name),
		WithDecryption: aws.Bool(true), // SecureString parameters
	})
	if err != nil {
		var notFound *ssmtypes.ParameterNotFound
		if errors.As(err, &notFound) {
			return "", domain.NewNotFound("parameter", p.name)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return "", domain.NewTimeout(err)
		}
		return "", domain.NewConnectionFailed(err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil || *out.Parameter.Value == "" {
		return "", domain.NewNotFound("parameter", p.name)
	}
	return *out.Parameter.Value, nil
}

// Static is a fixed API key from configuration (development fallback).
type Static string

var _ KeySource = Static("")

// APIKey returns the configured value, or a configuration error when empty.
func (s Static) APIKey(context.Context) (string, error) {
	if s == "" {
		return "", domain.NewConfiguration("API key is not configured")
	}
	return string(s), nil
}

// Chain tries each source in order and returns the first key found.
type Chain []KeySource

var _ KeySource = Chain(nil)

// APIKey walks the chain. Failures short of the last source are logged and
// skipped; the last source's failure is returned as-is.
func (c Chain) APIKey(ctx context.Context) (string, error) {
	if len(c) == 0 {
		return "", domain.NewConfiguration("no API key source configured")
	}
	var lastErr error
	for i, src := range c {
		key, err := src.APIKey(ctx)
		if err == nil {
			return key, nil
		}
		lastErr = err
		if i < len(c)-1 {
			slog.Debug("API key source failed, trying next", "error", err)
		}
	}
	return "", lastErr
}
