package api

import (
	"context"
	"net/http"
)

// Header names of the two-stage gate.
const (
	HeaderAppKey    = "x-app-key"
	HeaderUserToken = "x-user-token"
)

type ctxKey int

const userTokenKey ctxKey = iota

// AppKeyMiddleware rejects any request whose x-app-key header does not
// exactly match the configured application secret. No token handling
// happens here; a rejected request never reaches the token check.
func AppKeyMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := CheckAccess(r.Header.Get(HeaderAppKey), "", secret, true)
			if !d.Authorized() {
				writeJSON(w, d.Status, errorBody(d.Reason))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserTokenMiddleware requires a non-empty x-user-token header and attaches
// it to the request context. The token-generation route is mounted outside
// this middleware, since a client minting its first token cannot have one.
func UserTokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := r.Header.Get(HeaderUserToken)
		if tok == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody("user token required"))
			return
		}
		ctx := context.WithValue(r.Context(), userTokenKey, tok)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserToken returns the tenant token the gate attached to ctx, or empty.
func UserToken(ctx context.Context) string {
	tok, _ := ctx.Value(userTokenKey).(string)
	return tok
}
