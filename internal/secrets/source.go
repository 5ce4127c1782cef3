package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"razorpayBack/internal/config"
	"razorpayBack/internal/razorpay"
)

// Bundle carries the gateway credentials. It is loaded once at start-up.
type Bundle struct {
	KeyID         string
	KeySecret     *razorpay.Credential
	WebhookSecret *razorpay.Credential
}

func (b Bundle) Validate() error {
	if strings.TrimSpace(b.KeyID) == "" || b.KeySecret.Empty() {
		return errors.New("secrets: key_id and key_secret are required")
	}
	return nil
}

// Source loads a Bundle from some backing store.
type Source interface {
	Load(ctx context.Context) (Bundle, error)
}

// NewSource picks the source named in cfg.
func NewSource(cfg config.SecretsConfig) (Source, error) {
	switch cfg.Source {
	case config.SourceEnv, "":
		return EnvSource{}, nil
	case config.SourceAWS:
		src, err := NewAWSSource(cfg.AWSRegion, cfg.AWSSecretID)
		if err != nil {
			return nil, err
		}
		return src, nil
	case config.SourceGCP:
		return NewGCPSource(cfg.GCPSecretName, cfg.GCPCredentialsFile), nil
	default:
		return nil, fmt.Errorf("secrets: unknown source %q", cfg.Source)
	}
}

// EnvSource reads RAZORPAY_KEY_ID, RAZORPAY_KEY_SECRET and RAZORPAY_WEBHOOK_SECRET.
type EnvSource struct{}

func (EnvSource) Load(context.Context) (Bundle, error) {
	b := Bundle{
		KeyID:         strings.TrimSpace(os.Getenv("RAZORPAY_KEY_ID")),
		KeySecret:     razorpay.NewCredential(os.Getenv("RAZORPAY_KEY_SECRET")),
		WebhookSecret: razorpay.NewCredential(os.Getenv("RAZORPAY_WEBHOOK_SECRET")),
	}
	if err := b.Validate(); err != nil {
		return Bundle{}, fmt.Errorf("%w (env RAZORPAY_KEY_ID/RAZORPAY_KEY_SECRET)", err)
	}
	return b, nil
}

// secretDocument is the JSON layout shared by the cloud secret stores.
type secretDocument struct {
	KeyID         string `json:"key_id"`
	KeySecret     string `json:"key_secret"`
	WebhookSecret string `json:"webhook_secret"`
}

func parseDocument(data []byte) (Bundle, error) {
	var doc secretDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		// The decoder error can quote the payload.
		return Bundle{}, errors.New("secrets: secret payload is not valid JSON")
	}
	b := Bundle{
		KeyID:         strings.TrimSpace(doc.KeyID),
		KeySecret:     razorpay.NewCredential(doc.KeySecret),
		WebhookSecret: razorpay.NewCredential(doc.WebhookSecret),
	}
	if err := b.Validate(); err != nil {
		return Bundle{}, err
	}
	return b, nil
}
