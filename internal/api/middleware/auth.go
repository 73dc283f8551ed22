package middleware

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	apierrors "github.com/waycover/waycover/internal/api/shared/errors"
	"github.com/waycover/waycover/internal/logger"
)

// contextKey keeps gin context keys collision-free
type contextKey string

const (
	AUTH_TYPE_KEY    contextKey = "auth_type"
	AUTH_SUBJECT_KEY contextKey = "auth_subject"
	JWT_CLAIMS_KEY   contextKey = "jwt_claims"
)

// AuthConfig carries the credentials mutating endpoints are checked
// against: an RSA public key in PEM form for Bearer tokens and a set of
// static API keys.
type AuthConfig struct {
	JWTPublicKey string
	APIKeys      []string
}

// AuthResult reports how a request authenticated. AuthType is "jwt" or
// "apikey"; Claims and AuthSubject are only populated for JWT requests.
type AuthResult struct {
	Success     bool
	AuthType    string
	Claims      *jwt.RegisteredClaims
	AuthSubject string
	Error       error
}

func authFailure(err error) AuthResult {
	return AuthResult{Error: err}
}

// Authenticate checks an Authorization header against the configured
// credentials. Both "Bearer <jwt>" and "ApiKey <key>" schemes are
// accepted; scheme matching is case-insensitive.
func Authenticate(authHeader string, cfg AuthConfig) AuthResult {
	if authHeader == "" {
		return authFailure(errors.New("missing Authorization header"))
	}

	scheme, credentials, found := strings.Cut(authHeader, " ")
	if !found {
		return authFailure(errors.New("invalid Authorization header format"))
	}

	switch strings.ToLower(scheme) {
	case "bearer":
		claims, err := verifyJWT(credentials, cfg.JWTPublicKey)
		if err != nil {
			return authFailure(err)
		}
		return AuthResult{
			Success:     true,
			AuthType:    "jwt",
			Claims:      claims,
			AuthSubject: claims.Subject,
		}

	case "apikey":
		if err := verifyAPIKey(credentials, cfg.APIKeys); err != nil {
			return authFailure(err)
		}
		return AuthResult{Success: true, AuthType: "apikey"}

	default:
		return authFailure(fmt.Errorf("unsupported authorization type: %s", scheme))
	}
}

// Auth gates a route on Authenticate, rejecting with 401 and recording
// the outcome in the request context on success.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := Authenticate(c.GetHeader("Authorization"), cfg)
		if !result.Success {
			logger.Warn("Authentication failed",
				zap.Error(result.Error),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				apierrors.NewUnauthorizedError("Authentication failed", result.Error.Error()))
			return
		}

		c.Set(string(AUTH_TYPE_KEY), result.AuthType)
		if result.Claims != nil {
			c.Set(string(JWT_CLAIMS_KEY), result.Claims)
		}
		if result.AuthSubject != "" {
			c.Set(string(AUTH_SUBJECT_KEY), result.AuthSubject)
		}
		logger.Debug("Request authenticated",
			zap.String("auth_type", result.AuthType),
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()),
		)

		c.Next()
	}
}

// verifyJWT parses a Bearer token and checks its RSA signature. Registered
// claims such as exp and nbf are validated by the jwt library during
// parsing.
func verifyJWT(tokenString, publicKeyPEM string) (*jwt.RegisteredClaims, error) {
	if publicKeyPEM == "" {
		return nil, errors.New("JWT public key not configured")
	}

	publicKey, err := decodeRSAPublicKey(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// decodeRSAPublicKey accepts PEM-encoded keys in either PKIX or PKCS1 form
func decodeRSAPublicKey(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing public key")
	}

	if pub, err := x509.ParsePKIXPublicKey(block.Bytes); err == nil {
		rsaKey, ok := pub.(*rsa.PublicKey)
		if !ok {
			return nil, errors.New("public key is not an RSA key")
		}
		return rsaKey, nil
	}

	return x509.ParsePKCS1PublicKey(block.Bytes)
}

// verifyAPIKey matches the presented key against the configured set.
// Empty keys in the configuration are ignored so a blank entry can never
// authenticate.
func verifyAPIKey(apiKey string, validKeys []string) error {
	if len(validKeys) == 0 {
		return errors.New("no API keys configured")
	}

	for _, key := range validKeys {
		if key != "" && key == apiKey {
			return nil
		}
	}
	return errors.New("invalid API key")
}
