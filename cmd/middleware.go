package main

import (
	"fmt"
	"net/http"
	"strings"

	"razorpayBack/internal/models"
)

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		next.ServeHTTP(w, r)
	})
}

func makeResponseJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.infoLog.Printf("%s - %s %s %s", r.RemoteAddr, r.Proto, r.Method, r.URL.RequestURI())
		next.ServeHTTP(w, r)
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverError(w, fmt.Errorf("%s", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// rateLimit caps order creation per client IP. Redis errors let the request through.
func (app *application) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !app.limiter.Enabled() {
			next.ServeHTTP(w, r)
			return
		}
		ok, err := app.limiter.Allow(r.Context(), clientIP(r))
		if err != nil {
			app.errorLog.Printf("rate limit check failed: %v", err)
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			app.clientError(w, http.StatusTooManyRequests, models.ErrorBody{Code: "TOO_MANY_REQUESTS", Description: "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (app *application) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.tokens == nil {
			next.ServeHTTP(w, r)
			return
		}
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			app.clientError(w, http.StatusUnauthorized, models.ErrorBody{Code: "UNAUTHORIZED", Description: "authorization header missing or invalid"})
			return
		}
		subject, err := app.tokens.Parse(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			app.clientError(w, http.StatusUnauthorized, models.ErrorBody{Code: "UNAUTHORIZED", Description: "invalid token"})
			return
		}
		app.infoLog.Printf("authorized %s for %s", subject, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
