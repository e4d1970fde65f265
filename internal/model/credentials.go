package model

// Credentials is a venue API key pair, held in memory for the lifetime
// of the owning client. The secret must never appear in logs.
type Credentials struct {
	Key    string `json:"key"`
	Secret string `json:"secret"`
}

// Redacted returns a loggable form of the key with most characters
// masked. There is deliberately no counterpart for the secret.
func (c Credentials) Redacted() string {
	const visible = 4
	if len(c.Key) <= visible {
		return "****"
	}
	return c.Key[:visible] + "****"
}

// IsZero reports whether both fields are empty.
func (c Credentials) IsZero() bool {
	return c.Key == "" && c.Secret == ""
}
