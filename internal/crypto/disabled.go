package crypto

import "errors"

// ErrCipherDisabled is returned by the Disabled stand-in.
var ErrCipherDisabled = errors.New("content cipher not configured: set CONTENT_PASSPHRASE")

// Disabled stands in for a Cipher when no content passphrase is configured.
// Every call fails, so plaintext articles keep working and only operations
// touching encrypted bodies surface the misconfiguration.
type Disabled struct{}

func (Disabled) Encode(string) (string, error) { return "", ErrCipherDisabled }
func (Disabled) Decode(string) (string, error) { return "", ErrCipherDisabled }
