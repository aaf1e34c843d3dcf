package identity

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const (
	HeaderUserID = "X-User-ID"
	HeaderAdmin  = "X-User-Admin"
)

// HeaderProvider trusts identity headers set by a fronting proxy. Only for development and tests.
type HeaderProvider struct{}

func (HeaderProvider) Resolve(r *http.Request) (Session, error) {
	raw := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if raw == "" {
		return Session{}, ErrNoIdentity
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		return Session{}, fmt.Errorf("%w: %s must be a positive integer", ErrInvalidCredentials, HeaderUserID)
	}
	admin, _ := strconv.ParseBool(strings.TrimSpace(r.Header.Get(HeaderAdmin)))
	return Session{UserID: userID, IsAdmin: admin}, nil
}
