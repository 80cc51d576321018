package domain

import "strings"

// AnyCompound is the wire token for an open start or goal in a compound chain.
const AnyCompound = "any"

// Endpoint is either a concrete ID or the wildcard. The zero value is the
// wildcard, so an unset source or target in a filter means "no constraint".
type Endpoint struct {
	id       string
	concrete bool
}

// Wildcard matches every reaction or compound.
var Wildcard = Endpoint{}

// Concrete returns an endpoint bound to id.
func Concrete(id string) Endpoint {
	return Endpoint{id: id, concrete: true}
}

// ParseEndpoint maps the "any" token (case-insensitive) and the empty string
// to Wildcard and everything else to a concrete endpoint.
func ParseEndpoint(token string) Endpoint {
	token = strings.TrimSpace(token)
	if token == "" || strings.EqualFold(token, AnyCompound) {
		return Wildcard
	}
	return Concrete(token)
}

// IsWildcard reports whether e is the wildcard.
func (e Endpoint) IsWildcard() bool {
	return !e.concrete
}

// ID returns the bound ID and true, or "" and false for the wildcard.
func (e Endpoint) ID() (string, bool) {
	return e.id, e.concrete
}

func (e Endpoint) String() string {
	if !e.concrete {
		return AnyCompound
	}
	return e.id
}

// MarshalText encodes e as its wire token.
func (e Endpoint) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText decodes a wire token with ParseEndpoint.
func (e *Endpoint) UnmarshalText(text []byte) error {
	*e = ParseEndpoint(string(text))
	return nil
}
