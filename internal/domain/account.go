package domain

import (
	"strings"
	"time"
)

// Account is a single unissued credential in a platform's pool.
type Account struct {
	ID         string
	Platform   string
	Credential string
	CreatedAt  time.Time
}

// PlatformSummary describes one platform and its remaining pool size.
type PlatformSummary struct {
	Name      string
	Remaining int
}

// Issued is the result of handing an account to a user. The credential is a
// copy; the account row it came from no longer exists.
type Issued struct {
	Platform   string
	Credential string
	IssuedAt   time.Time
}

// SplitCredential splits an "identifier:secret" record on the first colon.
// The secret may itself contain colons.
func SplitCredential(credential string) (identifier, secret string) {
	identifier, secret, _ = strings.Cut(credential, ":")
	return identifier, secret
}

// ValidCredential reports whether a raw line is an ingestible record.
func ValidCredential(line string) bool {
	return strings.Contains(line, ":")
}
