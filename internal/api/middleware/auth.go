package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bikawo/bikawo-booking-service/internal/api/handlers"
	"github.com/bikawo/bikawo-booking-service/internal/domain"
)

const (
	msgMissingToken = "authorization header is required"
	msgInvalidToken = "invalid or expired token"
	msgUnknownRole  = "unknown user role"
	msgForbidden    = "insufficient permissions"
)

type contextKey string

const actorKey contextKey = "actor"

// SupabaseClaims claims access-токена Supabase.
// Роль в приложении хранится в app_metadata, ее может менять только сервер.
type SupabaseClaims struct {
	Email       string `json:"email,omitempty"`
	AppMetadata struct {
		Role string `json:"role"`
	} `json:"app_metadata"`
	jwt.RegisteredClaims
}

// Authenticator проверяет Bearer-токены Supabase (HS256)
type Authenticator struct {
	secret   []byte
	audience string
	logger   Logger
}

// NewAuthenticator создает middleware аутентификации.
// Пустой audience отключает проверку aud.
func NewAuthenticator(secret, audience string, logger Logger) *Authenticator {
	return &Authenticator{
		secret:   []byte(secret),
		audience: audience,
		logger:   logger,
	}
}

// Middleware кладет domain.Actor в контекст запроса
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			handlers.RespondUnauthorized(w, msgMissingToken)
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			handlers.RespondUnauthorized(w, msgInvalidToken)
			return
		}

		actor, err := a.parse(tokenString)
		if err != nil {
			a.logger.Warn("Auth: rejected token for %s %s: %v", r.Method, r.URL.Path, err)
			if errors.Is(err, errUnknownRole) {
				handlers.RespondUnauthorized(w, msgUnknownRole)
				return
			}
			handlers.RespondUnauthorized(w, msgInvalidToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

var errUnknownRole = errors.New("unknown role")

func (a *Authenticator) parse(tokenString string) (domain.Actor, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.audience != "" {
		opts = append(opts, jwt.WithAudience(a.audience))
	}

	claims := &SupabaseClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return domain.Actor{}, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.Actor{}, errors.New("subject is not a uuid")
	}

	role := claims.AppMetadata.Role
	switch role {
	case "":
		role = domain.RoleClient
	case domain.RoleClient, domain.RoleProvider, domain.RoleAdmin:
	default:
		return domain.Actor{}, errUnknownRole
	}

	return domain.Actor{UserID: userID, Role: role}, nil
}

// RequireRole пропускает только пользователей с одной из ролей
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := GetActor(r.Context())
			if !ok {
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}
			for _, role := range roles {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			handlers.RespondForbidden(w, msgForbidden)
		})
	}
}

// WithActor кладет пользователя в контекст
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActor получает пользователя из контекста
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}

// GetUserID получает ID пользователя из контекста
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	actor, ok := GetActor(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return actor.UserID, true
}
