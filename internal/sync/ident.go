package sync

import (
	"errors"
	"fmt"
	"strings"

	"mls-go/internal/model"
)

// ErrInvalidRecord marks a record that cannot produce a sync identifier.
// This is a programmer error in the caller, not a runtime condition:
// callers must not retry it.
var ErrInvalidRecord = errors.New("invalid media record")

// DeriveIdentifier turns a record's (provider, category, externalId) triple
// into its canonical sync identifier "provider:category:externalId".
//
// The derivation is pure and deterministic: the same triple always yields
// the same identifier, and distinct triples never collide because provider
// and category are colon-free lowercase tags and the externalId may not
// contain whitespace, ':' or '/'.
func DeriveIdentifier(rec *model.MediaRecord) (string, error) {
	provider := strings.ToLower(strings.TrimSpace(rec.Provider))
	category := strings.ToLower(strings.TrimSpace(string(rec.Category)))
	externalID := strings.TrimSpace(rec.ExternalID)

	if provider == "" {
		return "", fmt.Errorf("%w: missing provider", ErrInvalidRecord)
	}
	if category == "" {
		return "", fmt.Errorf("%w: missing category", ErrInvalidRecord)
	}
	if externalID == "" {
		return "", fmt.Errorf("%w: missing external ID", ErrInvalidRecord)
	}
	if strings.ContainsAny(provider, ": /\t\n") || strings.ContainsAny(category, ": /\t\n") {
		return "", fmt.Errorf("%w: provider/category must be plain lowercase tags", ErrInvalidRecord)
	}
	if strings.ContainsAny(externalID, ": /\t\n") {
		return "", fmt.Errorf("%w: external ID %q contains reserved characters", ErrInvalidRecord, externalID)
	}

	return provider + ":" + category + ":" + externalID, nil
}
