package auth

import (
	"errors"
	"strings"
)

const (
	// HeaderAuthorization is the request header carrying the token.
	HeaderAuthorization = "Authorization"

	// BearerScheme is the scheme name preceding the token.
	BearerScheme = "Bearer"

	bearerPrefix = BearerScheme + " "
)

// ParseAuthorizationHeader extracts the raw token from an Authorization header value.
//
// An empty header means the request is anonymous: present is false and err is nil.
// A header that does not use the Bearer scheme, or carries no token, is malformed.
func ParseAuthorizationHeader(header string) (token string, present bool, err error) {
	if header == "" {
		return "", false, nil
	}

	rest, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok {
		return "", true, malformed(errors.New("unexpected authorization scheme"))
	}

	token = strings.TrimSpace(rest)
	if token == "" {
		return "", true, malformed(errors.New("empty bearer token"))
	}

	return token, true, nil
}

// BearerValue formats a token for the Authorization header.
func BearerValue(token string) string {
	return bearerPrefix + token
}
