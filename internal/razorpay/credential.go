package razorpay

import "log/slog"

const redacted = "[REDACTED]"

// Credential holds a shared secret. The raw value is only reachable from this
// package; every formatting path prints a placeholder instead.
type Credential struct {
	secret []byte
}

// NewCredential wraps secret. Callers should create one Credential per secret
// and pass the pointer around.
func NewCredential(secret string) *Credential {
	return &Credential{secret: []byte(secret)}
}

// Empty reports whether no secret is configured.
func (c *Credential) Empty() bool {
	return c == nil || len(c.secret) == 0
}

func (c *Credential) key() []byte {
	if c == nil {
		return nil
	}
	return c.secret
}

func (c *Credential) String() string   { return redacted }
func (c *Credential) GoString() string { return redacted }

func (c *Credential) LogValue() slog.Value { return slog.StringValue(redacted) }

func (c *Credential) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}
