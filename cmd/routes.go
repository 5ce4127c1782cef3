package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func traced(route string, h http.HandlerFunc) http.Handler {
	return otelhttp.NewHandler(h, route)
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	orderMiddleware := standardMiddleware.Append(app.rateLimit, app.requireBearer)

	mux := pat.New()

	// Payments
	mux.Post("/create-order", orderMiddleware.Then(traced("POST /create-order", app.paymentHandler.CreateOrder)))
	mux.Post("/verify-payment", standardMiddleware.Then(traced("POST /verify-payment", app.paymentHandler.VerifyPayment)))
	mux.Post("/webhook", standardMiddleware.Then(traced("POST /webhook", app.paymentHandler.Webhook)))

	mux.Get("/health", standardMiddleware.ThenFunc(app.paymentHandler.Health))

	return mux
}
