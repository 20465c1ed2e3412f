package token

import "fmt"

// TokenAcquisitionFailed reports a failed client-credentials grant. It carries
// the upstream status and payload so misconfiguration is diagnosable.
type TokenAcquisitionFailed struct {
	Provider string
	Status   int
	Body     string
	Err      error
}

func (e *TokenAcquisitionFailed) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("token acquisition failed for %s: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("token acquisition failed for %s: upstream status %d: %s", e.Provider, e.Status, e.Body)
}

func (e *TokenAcquisitionFailed) Unwrap() error {
	return e.Err
}
