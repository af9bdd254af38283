package cookie

import (
	"net/http"
	"time"
)

// Session cookie field names, namespaced by the transport prefix on the wire.
const (
	FieldTokenType    = "token_type"
	FieldAccessToken  = "access_token"
	FieldTokenExpires = "token_expires"
)

// Transport writes session tokens into HTTP cookies and reads them back.
// Attribute choices depend on the deployment environment: production gets
// Secure + SameSite=None so the cookies survive cross-site requests, any
// other environment falls back to Lax without Secure.
type Transport struct {
	prefix     string
	domain     string
	production bool
}

func NewTransport(prefix string, domain string, production bool) *Transport {
	return &Transport{prefix: prefix, domain: domain, production: production}
}

// Attach writes one cookie per field. A zero or negative lifetime produces
// an already-expired cookie, which is how sign-out removes them: overwrite
// and expire, never a separate deletion mechanism.
func (t *Transport) Attach(w http.ResponseWriter, fields map[string]string, lifetime time.Duration) {
	sameSite := http.SameSiteLaxMode
	if t.production {
		sameSite = http.SameSiteNoneMode
	}

	for name, value := range fields {
		c := &http.Cookie{
			Name:     t.prefix + name,
			Value:    value,
			Path:     "/",
			Domain:   t.domain,
			HttpOnly: true,
			Secure:   t.production,
			SameSite: sameSite,
		}

		if lifetime > 0 {
			c.Expires = time.Now().Add(lifetime)
			c.MaxAge = int(lifetime.Seconds())
		} else {
			c.Expires = time.Unix(0, 0)
			c.MaxAge = -1
		}

		http.SetCookie(w, c)
	}
}

// Clear expires the whole session cookie set on the client.
func (t *Transport) Clear(w http.ResponseWriter) {
	t.Attach(w, map[string]string{
		FieldTokenType:    "",
		FieldAccessToken:  "",
		FieldTokenExpires: "",
	}, 0)
}

// Read returns the value of one prefixed cookie, or "" when absent.
func (t *Transport) Read(r *http.Request, field string) string {
	c, err := r.Cookie(t.prefix + field)
	if err != nil {
		return ""
	}
	return c.Value
}

// Token returns the access token carried by the request cookies, if any.
func (t *Transport) Token(r *http.Request) string {
	return t.Read(r, FieldAccessToken)
}

// HasSession reports whether the full cookie set is present and non-empty.
func (t *Transport) HasSession(r *http.Request) bool {
	return t.Read(r, FieldTokenType) != "" &&
		t.Read(r, FieldAccessToken) != "" &&
		t.Read(r, FieldTokenExpires) != ""
}
