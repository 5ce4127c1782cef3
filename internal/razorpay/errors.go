package razorpay

import (
	"encoding/json"
	"fmt"
	"strings"
)

// GatewayError is a non-2xx answer from the Razorpay API.
type GatewayError struct {
	StatusCode  int
	Status      string
	Code        string
	Description string
	Body        string
}

func newGatewayError(statusCode int, status string, body []byte) *GatewayError {
	e := &GatewayError{StatusCode: statusCode, Status: status, Body: trim(string(body), 2000)}

	var apiErr struct {
		Error struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil {
		e.Code = strings.TrimSpace(apiErr.Error.Code)
		e.Description = strings.TrimSpace(apiErr.Error.Description)
	}
	return e
}

func (e *GatewayError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Code != "" {
		return fmt.Sprintf("razorpay error: %s: %s: %s", e.Status, e.Code, e.Description)
	}
	bt := strings.TrimSpace(e.Body)
	if bt == "" {
		return fmt.Sprintf("razorpay error: %s", e.Status)
	}
	return fmt.Sprintf("razorpay error: %s: %s", e.Status, bt)
}

func trim(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
