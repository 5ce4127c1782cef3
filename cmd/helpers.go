package main

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"

	"razorpayBack/internal/models"
)

func (app *application) serverError(w http.ResponseWriter, err error) {
	trace := fmt.Sprintf("%s\n%s", err.Error(), debug.Stack())
	_ = app.errorLog.Output(2, trace)

	app.clientError(w, http.StatusInternalServerError, models.ErrorBody{Code: "SERVER_ERROR", Description: "internal server error"})
}

func (app *application) clientError(w http.ResponseWriter, status int, body models.ErrorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.ErrorResponse{Status: models.StatusError, Error: body})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
