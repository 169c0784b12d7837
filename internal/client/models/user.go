// Package models defines the client-side data shared by the session store,
// the crop pipeline and the front-ends.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultProfileImage is shown whenever the user has no usable picture.
const DefaultProfileImage = "/static/images/user.png"

var ErrTokenExpired = errors.New("token expired")

// User is the record the backend returns on login and signup and the one
// persisted locally. Fields the client does not know about are kept in
// Extra and written back unchanged.
type User struct {
	ID                 string                     `json:"id,omitempty"`
	Email              string                     `json:"email"`
	Token              string                     `json:"token,omitempty"`
	DisplayName        string                     `json:"displayName,omitempty"`
	ProfileImageURL    Optional[string]           `json:"profileImageUrl,omitzero"`
	ImageURLExpiration Optional[Timestamp]        `json:"imageUrlExpiration,omitzero"`
	Extra              map[string]json.RawMessage `json:"-"`
}

var knownUserFields = map[string]struct{}{
	"id":                 {},
	"email":              {},
	"token":              {},
	"displayName":        {},
	"profileImageUrl":    {},
	"imageUrlExpiration": {},
}

type userAlias User

func (u User) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(userAlias(u))
	if err != nil {
		return nil, err
	}
	if len(u.Extra) == 0 {
		return known, nil
	}

	merged := make(map[string]json.RawMessage, len(u.Extra)+len(knownUserFields))
	for k, v := range u.Extra {
		if _, ok := knownUserFields[k]; !ok {
			merged[k] = v
		}
	}
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	return json.Marshal(merged)
}

func (u *User) UnmarshalJSON(data []byte) error {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}

	var a userAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	if url, ok := a.ProfileImageURL.Get(); ok && strings.TrimSpace(url) == "" {
		a.ProfileImageURL = None[string]()
	}

	if exp, ok := a.ImageURLExpiration.Get(); ok && exp.IsZero() {
		a.ImageURLExpiration = None[Timestamp]()
	}

	a.Extra = nil
	for k, v := range all {
		if _, ok := knownUserFields[k]; ok {
			continue
		}
		if a.Extra == nil {
			a.Extra = make(map[string]json.RawMessage)
		}
		a.Extra[k] = v
	}

	*u = User(a)
	return nil
}

// Validate reports whether the record can back an authenticated session:
// it needs an email, and a JWT token must not be past its exp claim.
// Tokens that are not JWTs are accepted as opaque.
func (u User) Validate(now time.Time) error {
	if strings.TrimSpace(u.Email) == "" {
		return errors.New("user record has no email")
	}
	if u.Token == "" {
		return nil
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(u.Token, &claims); err != nil {
		return nil
	}
	if claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time) {
		return fmt.Errorf("%w at %s", ErrTokenExpired, claims.ExpiresAt.Time.UTC().Format(time.RFC3339))
	}
	return nil
}

// WithProfileImage returns a copy of u carrying the uploaded image data.
func (u User) WithProfileImage(r UploadResult) User {
	u.ProfileImageURL = r.ProfileImageURL
	if url, ok := u.ProfileImageURL.Get(); ok && strings.TrimSpace(url) == "" {
		u.ProfileImageURL = None[string]()
	}
	u.ImageURLExpiration = r.ImageURLExpiration
	if exp, ok := u.ImageURLExpiration.Get(); ok && exp.IsZero() {
		u.ImageURLExpiration = None[Timestamp]()
	}
	return u
}

// Name is what the front-ends greet the user with.
func (u User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}
