package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/goliatone/go-translations/internal/identity"
	"github.com/goliatone/go-translations/internal/logging"
	"github.com/goliatone/go-translations/pkg/interfaces"
)

// ErrSecretRequired is returned when Auth is configured without a signing key.
var ErrSecretRequired = errors.New("middleware: jwt secret is required")

// AuthConfig configures bearer token verification. Tokens must be HS256.
type AuthConfig struct {
	Secret   []byte
	Issuer   string
	Audience string
	Leeway   time.Duration
	Logger   interfaces.Logger
}

// Actor is the authenticated caller.
type Actor struct {
	Subject string
	ID      uuid.UUID
}

type actorKey struct{}

// ActorFromContext returns the caller stored by Auth.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}

// ActorID returns the caller id, or uuid.Nil for unauthenticated requests.
func ActorID(ctx context.Context) uuid.UUID {
	actor, _ := ActorFromContext(ctx)
	return actor.ID
}

// WithActor stores actor on ctx.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// Auth rejects requests without a valid bearer token and stores the token
// subject as the request actor.
func Auth(cfg AuthConfig) (Middleware, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrSecretRequired
	}
	logger := logging.OrNoOp(cfg.Logger)

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	if cfg.Leeway > 0 {
		opts = append(opts, jwt.WithLeeway(cfg.Leeway))
	}
	parser := jwt.NewParser(opts...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeError(w, http.StatusUnauthorized, "Authentication required", "UNAUTHORIZED")
				return
			}

			claims := jwt.RegisteredClaims{}
			token, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
				return cfg.Secret, nil
			})
			if err != nil || !token.Valid {
				logger.WithContext(r.Context()).Warn("http.auth.rejected",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				writeError(w, http.StatusUnauthorized, "Invalid or expired token", "UNAUTHORIZED")
				return
			}
			if strings.TrimSpace(claims.Subject) == "" {
				writeError(w, http.StatusUnauthorized, "Token subject is required", "UNAUTHORIZED")
				return
			}

			actor := Actor{Subject: claims.Subject, ID: identity.ActorUUID(claims.Subject)}
			ctx := WithActor(r.Context(), actor)
			ctx = logging.ContextWithFields(ctx, map[string]any{"actor_id": actor.ID.String()})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}, nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
