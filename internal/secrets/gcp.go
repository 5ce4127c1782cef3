package secrets

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	secretmanager "google.golang.org/api/secretmanager/v1"
)

// GCPSource reads the bundle from Google Cloud Secret Manager.
type GCPSource struct {
	name string
	opts []option.ClientOption
}

// NewGCPSource accepts "projects/p/secrets/s" or a full version resource name.
// Without a credentials file Application Default Credentials are used.
func NewGCPSource(name, credentialsFile string, opts ...option.ClientOption) *GCPSource {
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	return &GCPSource{name: versionName(name), opts: opts}
}

func versionName(name string) string {
	name = strings.Trim(strings.TrimSpace(name), "/")
	if name == "" || strings.Contains(name, "/versions/") {
		return name
	}
	return name + "/versions/latest"
}

func (s *GCPSource) Load(ctx context.Context) (Bundle, error) {
	if s.name == "" {
		return Bundle{}, errors.New("secrets: gcp secret name is required")
	}
	svc, err := secretmanager.NewService(ctx, s.opts...)
	if err != nil {
		return Bundle{}, fmt.Errorf("secrets: gcp client: %w", err)
	}
	resp, err := svc.Projects.Secrets.Versions.Access(s.name).Context(ctx).Do()
	if err != nil {
		return Bundle{}, fmt.Errorf("secrets: access %s: %w", s.name, err)
	}
	if resp.Payload == nil || resp.Payload.Data == "" {
		return Bundle{}, fmt.Errorf("secrets: %s has no payload", s.name)
	}
	data, err := base64.StdEncoding.DecodeString(resp.Payload.Data)
	if err != nil {
		data, err = base64.URLEncoding.DecodeString(resp.Payload.Data)
		if err != nil {
			return Bundle{}, fmt.Errorf("secrets: %s payload is not base64", s.name)
		}
	}
	return parseDocument(data)
}
