package http

import (
	"bufio"
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"ieee-quiz-service/internal/app"
	"ieee-quiz-service/internal/domain"
)

type contextKey string

const userIDKey contextKey = "userID"

// NewRouter wires the quiz use cases to their HTTP routes.
func NewRouter(service *app.QuizService, identity app.IdentityResolver) *mux.Router {
	api := NewAPIHandler(service)
	ws := NewWSHandler(service)

	r := mux.NewRouter()
	r.Use(logRequests)
	r.HandleFunc("/health", api.Health).Methods(http.MethodGet)

	authed := r.NewRoute().Subrouter()
	authed.Use(requireAuth(identity))
	authed.HandleFunc("/auth/signup", api.Signup).Methods(http.MethodPost)
	authed.HandleFunc("/auth/user", api.User).Methods(http.MethodGet)
	authed.HandleFunc("/quiz/check-eligibility", api.CheckEligibility).Methods(http.MethodGet)
	authed.HandleFunc("/quiz/questions", api.Questions).Methods(http.MethodGet)
	authed.HandleFunc("/quiz/submit", api.Submit).Methods(http.MethodPost)
	authed.HandleFunc("/leaderboard", api.Leaderboard).Methods(http.MethodGet)
	authed.HandleFunc("/ws/leaderboard", ws.ServeWS).Methods(http.MethodGet)
	return r
}

// requireAuth resolves the bearer token once per request and stores the user id in the context.
// Browsers cannot set headers on websocket upgrades, so access_token is accepted as a query fallback.
func requireAuth(identity app.IdentityResolver) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				token = r.URL.Query().Get("access_token")
			}
			userID, err := identity.Resolve(r.Context(), token)
			if err != nil {
				writeError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func userIDFrom(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", domain.ErrUnauthenticated
	}
	return userID, nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack keeps websocket upgrades working behind the recorder.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
