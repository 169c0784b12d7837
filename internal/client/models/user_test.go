package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return s
}

func TestUser_RoundTripPreservesUnknownFields(t *testing.T) {
	in := `{"id":"42","email":"a@b.co","token":"opaque","role":"admin","prefs":{"dark":true}}`

	var u User
	require.NoError(t, json.Unmarshal([]byte(in), &u))
	require.Equal(t, "42", u.ID)
	require.Equal(t, "a@b.co", u.Email)
	require.Len(t, u.Extra, 2)

	out, err := json.Marshal(u)
	require.NoError(t, err)
	require.JSONEq(t, in, string(out))
}

func TestUser_EmptyProfileImageURLIsAbsent(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"email":"a@b.co","profileImageUrl":"","imageUrlExpiration":""}`), &u))
	require.True(t, u.ProfileImageURL.IsZero())
	require.True(t, u.ImageURLExpiration.IsZero())

	out, err := json.Marshal(u)
	require.NoError(t, err)
	require.JSONEq(t, `{"email":"a@b.co"}`, string(out))
}

func TestUser_KnownFieldsWinOverExtra(t *testing.T) {
	u := User{Email: "new@b.co", Extra: map[string]json.RawMessage{"email": json.RawMessage(`"old@b.co"`)}}
	out, err := json.Marshal(u)
	require.NoError(t, err)
	require.JSONEq(t, `{"email":"new@b.co"}`, string(out))
}

func TestUser_UnmarshalRejectsNonObject(t *testing.T) {
	var u User
	require.Error(t, json.Unmarshal([]byte(`"just a string"`), &u))
}

func TestUser_Validate(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.Error(t, User{}.Validate(now))
	require.NoError(t, User{Email: "a@b.co"}.Validate(now))
	require.NoError(t, User{Email: "a@b.co", Token: "not-a-jwt"}.Validate(now))
	require.NoError(t, User{Email: "a@b.co", Token: signedToken(t, now.Add(time.Hour))}.Validate(now))

	err := User{Email: "a@b.co", Token: signedToken(t, now.Add(-time.Minute))}.Validate(now)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestUser_WithProfileImage(t *testing.T) {
	exp := time.Date(2025, 1, 1, 1, 0, 0, 0, time.UTC)
	u := User{Email: "a@b.co", Extra: map[string]json.RawMessage{"role": json.RawMessage(`"x"`)}}

	got := u.WithProfileImage(UploadResult{
		ProfileImageURL:    Some("https://cdn/img.jpg"),
		ImageURLExpiration: Some(Timestamp{exp}),
	})

	url, ok := got.ProfileImageURL.Get()
	require.True(t, ok)
	require.Equal(t, "https://cdn/img.jpg", url)
	gotExp, ok := got.ImageURLExpiration.Get()
	require.True(t, ok)
	require.True(t, exp.Equal(gotExp.Time))
	require.Equal(t, u.Extra, got.Extra)

	cleared := got.WithProfileImage(UploadResult{ProfileImageURL: Some("")})
	require.True(t, cleared.ProfileImageURL.IsZero())
	require.True(t, cleared.ImageURLExpiration.IsZero())
}

func TestUser_Name(t *testing.T) {
	require.Equal(t, "a@b.co", User{Email: "a@b.co"}.Name())
	require.Equal(t, "Ann", User{Email: "a@b.co", DisplayName: "Ann"}.Name())
}
