package api

import (
	"net/http"
	"strings"
)

// User-facing messages for failed calls.
const (
	MsgNetwork          = "Network error. Please check your internet connection."
	MsgInvalidLogin     = "Invalid email or password."
	MsgSessionExpired   = "Session expired. Please log in again."
	MsgPermissionDenied = "You do not have permission to perform this action."
	MsgNotFound         = "Resource not found."
	MsgValidation       = "Validation error"
	MsgTooManyRequests  = "Too many requests. Please try again later."
	MsgServerError      = "Server error. Please try again later."
	MsgUnexpected       = "An unexpected error occurred."
)

// Outcome is what the gateway does about a failed call.
type Outcome struct {
	Notification Notification
	ClearTokens  bool
}

// Classify decides the notification and session side effect for a failed
// call. status is 0 when no response was received. loginCall marks a call to
// the login endpoint, where a 401 means bad credentials rather than an
// expired session. backendMessage may be empty.
func Classify(status int, loginCall bool, backendMessage string) Outcome {
	or := func(fallback string) string {
		if backendMessage != "" {
			return backendMessage
		}
		return fallback
	}

	switch status {
	case 0:
		return notify(MsgNetwork)
	case http.StatusUnauthorized:
		if loginCall {
			return notify(or(MsgInvalidLogin))
		}
		o := notify(MsgSessionExpired)
		o.ClearTokens = true
		return o
	case http.StatusForbidden:
		return notify(MsgPermissionDenied)
	case http.StatusNotFound:
		return notify(or(MsgNotFound))
	case http.StatusUnprocessableEntity:
		return notify(or(MsgValidation))
	case http.StatusTooManyRequests:
		return notify(MsgTooManyRequests)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return notify(MsgServerError)
	default:
		return notify(or(MsgUnexpected))
	}
}

func notify(msg string) Outcome {
	return Outcome{Notification: Notification{Level: LevelError, Message: msg}}
}

// IsLoginCall reports whether path targets the login endpoint.
func IsLoginCall(path string) bool {
	return strings.Contains(path, "/"+EndpointAuthLogin)
}
