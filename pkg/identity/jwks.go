package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier validates provider-issued access tokens.
// The abstraction enables testing with mock implementations.
type TokenVerifier interface {
	// VerifyAccessToken validates an access token string and returns its
	// claims. Returns an error if the token is invalid, expired, or from an
	// unauthorized issuer.
	VerifyAccessToken(tokenString string) (*Claims, error)
}

// JWKSConfig contains configuration for the JWKS verifier.
type JWKSConfig struct {
	// EnableVerification controls whether token signatures are verified.
	// Set to false for development mode (parses tokens without verification).
	EnableVerification bool
	// JWKSEndpoints maps issuer URLs to their JWKS endpoint URLs.
	// Only tokens from issuers in this map are accepted.
	JWKSEndpoints map[string]string
}

// JWKSVerifier validates access tokens using the provider's JWKS (JSON Web
// Key Set) endpoints. Only tokens from whitelisted issuers are accepted.
type JWKSVerifier struct {
	endpoints map[string]keyfunc.Keyfunc
	config    *JWKSConfig
}

// NewJWKSVerifier creates a verifier with the given configuration.
// If EnableVerification is true, it fetches JWKS from all configured
// endpoints up front and fails if any endpoint cannot be loaded.
func NewJWKSVerifier(config *JWKSConfig) (*JWKSVerifier, error) {
	v := &JWKSVerifier{
		endpoints: make(map[string]keyfunc.Keyfunc),
		config:    config,
	}

	if !config.EnableVerification {
		return v, nil
	}

	for issuer, jwksURL := range config.JWKSEndpoints {
		jwks, err := keyfunc.NewDefaultCtx(context.Background(), []string{jwksURL})
		if err != nil {
			return nil, fmt.Errorf("failed to create JWKS client for %s: %w", issuer, err)
		}
		v.endpoints[issuer] = jwks
	}

	return v, nil
}

// VerifyAccessToken validates an access token and returns its claims.
// If verification is disabled, it parses the token without signature
// validation; otherwise it verifies the signature against the issuer's JWKS.
func (v *JWKSVerifier) VerifyAccessToken(tokenString string) (*Claims, error) {
	if !v.config.EnableVerification {
		return v.parseUnverifiedToken(tokenString)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		claims, ok := token.Claims.(*Claims)
		if !ok {
			return nil, errors.New("invalid claims type")
		}

		jwks, exists := v.endpoints[claims.Issuer]
		if !exists {
			return nil, fmt.Errorf("unauthorized issuer: %s", claims.Issuer)
		}

		keyfuncFn := jwks.KeyfuncCtx(context.Background())
		return keyfuncFn(token)
	})

	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}

	return claims, nil
}

// parseUnverifiedToken parses a token without verifying the signature.
// Used in development mode when EnableVerification is false.
func (v *JWKSVerifier) parseUnverifiedToken(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, _, err := parser.ParseUnverified(tokenString, &Claims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}

	return claims, nil
}

// Ensure JWKSVerifier implements TokenVerifier at compile time.
var _ TokenVerifier = (*JWKSVerifier)(nil)
