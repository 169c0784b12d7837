package cryptox

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveKey(password, salt)
	key2 := DeriveKey(password, salt)

	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}

	expectedHex := "34f7a1c64df63ab1ad5b5ee06e64db5713b35f81839823304db63e8e5e6a6a39"
	if hex.EncodeToString(key1) != expectedHex {
		t.Errorf("expected %s, got %s", expectedHex, hex.EncodeToString(key1))
	}
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	password := []byte("secret-password")

	if bytes.Equal(DeriveKey(password, []byte("salt-1")), DeriveKey(password, []byte("salt-2"))) {
		t.Errorf("expected different results for different salts, got same")
	}
}

func TestSealer_RoundTrip(t *testing.T) {
	s, err := NewSealer(DeriveKey([]byte("k"), []byte("salt")))
	require.NoError(t, err)

	plain := []byte(`{"email":"alice@example.com"}`)
	sealed := s.Seal(plain)
	require.NotContains(t, string(sealed), "alice")

	got, err := s.Open(sealed)
	require.NoError(t, err)
	require.Equal(t, plain, got)
}

func TestSealer_NonceIsFresh(t *testing.T) {
	s, err := NewSealer(DeriveKey([]byte("k"), []byte("salt")))
	require.NoError(t, err)

	require.NotEqual(t, s.Seal([]byte("same")), s.Seal([]byte("same")))
}

func TestSealer_WrongKeyFails(t *testing.T) {
	a, err := NewSealer(DeriveKey([]byte("a"), []byte("salt")))
	require.NoError(t, err)
	b, err := NewSealer(DeriveKey([]byte("b"), []byte("salt")))
	require.NoError(t, err)

	_, err = b.Open(a.Seal([]byte("data")))
	require.Error(t, err)
}

func TestSealer_ShortInput(t *testing.T) {
	s, err := NewSealer(DeriveKey([]byte("k"), []byte("salt")))
	require.NoError(t, err)

	_, err = s.Open([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrSealedTooShort)
}

func TestNewSealer_BadKeyLength(t *testing.T) {
	_, err := NewSealer([]byte("short"))
	require.Error(t, err)
}
