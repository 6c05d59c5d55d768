// Package api implements the Pinboard REST API using chi.
package api

import "net/http"

// Decision is the outcome of the two-stage access gate. A zero Status
// means the request is authorized; otherwise Status and Reason describe
// the rejection.
type Decision struct {
	Token  string
	Status int
	Reason string
}

// Authorized reports whether the gate let the request through.
func (d Decision) Authorized() bool {
	return d.Status == 0
}

// CheckAccess applies the application-key check first, then the user-token
// presence check unless tokenExempt. The app key must match the configured
// secret exactly; the user token is an opaque tenant key, never parsed or
// format-validated here.
func CheckAccess(appKey, userToken, secret string, tokenExempt bool) Decision {
	if appKey == "" || appKey != secret {
		return Decision{Status: http.StatusForbidden, Reason: "unauthorized app access"}
	}
	if tokenExempt {
		return Decision{}
	}
	if userToken == "" {
		return Decision{Status: http.StatusUnauthorized, Reason: "user token required"}
	}
	return Decision{Token: userToken}
}
