// Package session identifies browser sessions with a UUID cookie.
// Analysis results are stored per session so concurrent users never
// overwrite each other's result file.
package session

import (
	"net/http"

	"github.com/google/uuid"
)

// CookieName is the name of the session cookie.
const CookieName = "analyzer_session"

// FromRequest returns the session ID carried by r, if it is a canonical UUID.
func FromRequest(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	id, err := uuid.Parse(c.Value)
	if err != nil || id.String() != c.Value {
		return "", false
	}
	return c.Value, true
}

// Ensure returns the request's session ID, issuing a new cookie when it is missing or malformed.
func Ensure(w http.ResponseWriter, r *http.Request) string {
	if id, ok := FromRequest(r); ok {
		return id
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
