package handler

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/srgjo27/tour_booking/internal/core/domain"
	"golang.org/x/time/rate"
)

// Claims is the token issued by the identity service. The subject is the
// user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type actorKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(domain.Actor)
	return actor, ok
}

type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

func (a *Authenticator) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		header := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			writeMessage(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		actor, err := a.parse(tokenString)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next(w, r.WithContext(WithActor(r.Context(), actor)), ps)
	}
}

func (a *Authenticator) parse(tokenString string) (domain.Actor, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domain.Actor{}, err
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.Actor{}, err
	}

	role := domain.Role(claims.Role)
	if !role.Valid() {
		return domain.Actor{}, jwt.ErrTokenInvalidClaims
	}

	return domain.Actor{ID: id, Role: role}, nil
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per actor. Buckets idle for longer
// than idleTTL are dropped on the next sweep.
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		visitors:  make(map[string]*visitor),
		limit:     rate.Limit(rps),
		burst:     burst,
		idleTTL:   10 * time.Minute,
		lastSweep: time.Now(),
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastSweep) > rl.idleTTL {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) > rl.idleTTL {
				delete(rl.visitors, k)
			}
		}
		rl.lastSweep = now
	}

	v, exists := rl.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now

	return v.limiter
}

// Limit must run after Authenticate; requests without an actor are keyed by
// remote address.
func (rl *RateLimiter) Limit(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		key := r.RemoteAddr
		if actor, ok := ActorFromContext(r.Context()); ok {
			key = actor.ID.String()
		}

		if !rl.getLimiter(key).Allow() {
			writeMessage(w, http.StatusTooManyRequests, "too many requests")
			return
		}

		next(w, r, ps)
	}
}
