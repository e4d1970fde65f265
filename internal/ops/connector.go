package ops

import (
	"fmt"

	"main/internal/logger"
	"main/internal/model"
)

// DialFunc establishes a client for one venue, e.g. by constructing an
// order-manager delegator with the given credentials.
type DialFunc func(venue string, credentials model.Credentials) error

// Connector wires named venues to their clients using a keyring. Only
// the redacted key ever reaches the log.
type Connector struct {
	keyring Keyring
	dial    DialFunc
	logger  *logger.Logger
}

// NewConnector creates a Connector. logger may be nil.
func NewConnector(keyring Keyring, dial DialFunc, log *logger.Logger) *Connector {
	return &Connector{
		keyring: keyring,
		dial:    dial,
		logger:  log,
	}
}

// Connect dials every named venue that has credentials, logging the
// outcome per venue, and returns the names that connected.
func (c *Connector) Connect(venues ...string) []string {
	if c == nil || c.dial == nil {
		return nil
	}

	connected := make([]string, 0, len(venues))
	for _, venue := range venues {
		credentials, ok := c.keyring.Lookup(venue)
		if !ok {
			_ = c.logger.Error(fmt.Sprintf("API keys for %s not found", venue))
			continue
		}

		if err := c.dial(venue, credentials); err != nil {
			_ = c.logger.Error(fmt.Sprintf("connecting to %s failed: %v", venue, err))
			continue
		}

		_ = c.logger.Log(fmt.Sprintf(
			"connecting to %s with key %s... successful", venue, credentials.Redacted(),
		))
		connected = append(connected, venue)
	}

	return connected
}
