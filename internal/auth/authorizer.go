// Package auth decides whether a request may reach the user API. The
// decision is a plain boolean: every failure mode, from a missing
// header to an unreachable identity provider, collapses into a denial.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/userdir/userdir-server/internal/logger"
)

var errMalformedHeader = errors.New("missing or malformed authorization header")

// Authorizer verifies bearer tokens against the identity provider's
// key set.
type Authorizer struct {
	keys   KeyfuncProvider
	issuer string
	logger *logger.Logger
}

// NewAuthorizer creates an Authorizer. When issuer is non-empty the
// token's iss claim must match it.
func NewAuthorizer(keys KeyfuncProvider, issuer string, logger *logger.Logger) *Authorizer {
	return &Authorizer{keys: keys, issuer: issuer, logger: logger}
}

// Authorize resolves an Authorization header value to an allow/deny
// decision. It never returns an error: if the key set cannot be
// fetched the decision is deny.
func (a *Authorizer) Authorize(ctx context.Context, header string) bool {
	raw, err := parseBearer(header)
	if err != nil {
		a.logger.Debug("authorization denied", "reason", err.Error())
		return false
	}

	keyfunc, err := a.keys.Keyfunc(ctx)
	if err != nil {
		// Fail closed: an unreachable provider denies everyone.
		a.logger.Error("authorization denied, key set unavailable", "error", err)
		return false
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	token, err := jwt.Parse(raw, keyfunc, opts...)
	if err != nil {
		a.logger.Debug("authorization denied, token rejected", "error", err)
		return false
	}
	if !token.Valid {
		a.logger.Debug("authorization denied, token invalid")
		return false
	}

	return true
}

// parseBearer extracts the token from a standard Authorization header
// value, stripping the scheme prefix.
func parseBearer(header string) (string, error) {
	if header == "" {
		return "", errMalformedHeader
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errMalformedHeader
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errMalformedHeader
	}
	return token, nil
}
