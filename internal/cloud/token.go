package cloud

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expiresWithin reports whether a JWT's exp claim falls inside the next
// leeway. The signature is not verified here: only the server can do that,
// the client just wants to refresh before sending a token the server will
// reject. Tokens that cannot be parsed or carry no exp count as expired.
func expiresWithin(token string, leeway time.Duration) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return time.Until(exp.Time) < leeway
}
