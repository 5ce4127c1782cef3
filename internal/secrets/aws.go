package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
)

// AWSSource reads the bundle from AWS Secrets Manager.
type AWSSource struct {
	client   secretsmanageriface.SecretsManagerAPI
	secretID string
}

// NewAWSSource uses the default credential chain (env, shared config, instance role).
func NewAWSSource(region, secretID string) (*AWSSource, error) {
	cfg := aws.NewConfig()
	if region != "" {
		cfg = cfg.WithRegion(region)
	}
	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            *cfg,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, fmt.Errorf("secrets: aws session: %w", err)
	}
	return NewAWSSourceWithClient(secretsmanager.New(sess), secretID), nil
}

func NewAWSSourceWithClient(client secretsmanageriface.SecretsManagerAPI, secretID string) *AWSSource {
	return &AWSSource{client: client, secretID: secretID}
}

func (s *AWSSource) Load(ctx context.Context) (Bundle, error) {
	if s.secretID == "" {
		return Bundle{}, errors.New("secrets: aws secret id is required")
	}
	out, err := s.client.GetSecretValueWithContext(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(s.secretID),
	})
	if err != nil {
		return Bundle{}, fmt.Errorf("secrets: get %s: %w", s.secretID, err)
	}

	var data []byte
	switch {
	case out.SecretString != nil:
		data = []byte(aws.StringValue(out.SecretString))
	case len(out.SecretBinary) > 0:
		data = out.SecretBinary
	default:
		return Bundle{}, fmt.Errorf("secrets: %s has no value", s.secretID)
	}
	return parseDocument(data)
}
