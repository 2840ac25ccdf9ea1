package cryptox

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	secret := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveKey(secret, salt)
	key2 := DeriveKey(secret, salt)

	// одинаковые входы -> одинаковый вывод
	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}

	// можно зафиксировать известный результат (snapshot test)
	expectedHex := "9290403300158e19f27e48e7087f7383b03065bf5b25ef23ebc40229616cd8b3"
	if hex.EncodeToString(key1) != expectedHex {
		t.Errorf("expected %s, got %s", expectedHex, hex.EncodeToString(key1))
	}
}

func TestDeriveKey_DifferentInputs(t *testing.T) {
	secret := []byte("secret-password")
	salt1 := []byte("salt-1")
	salt2 := []byte("salt-2")

	key1 := DeriveKey(secret, salt1)
	key2 := DeriveKey(secret, salt2)

	// разные соли должны дать разные ключи
	if bytes.Equal(key1, key2) {
		t.Errorf("expected different results for different salts, got same")
	}
}

type testSession struct {
	User  string `json:"user"`
	Token string `json:"token"`
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"))

	in := testSession{User: "alice", Token: "tok-123"}
	ciphertext, nonce, err := Seal(in, key)
	require.NoError(t, err)
	require.NotEmpty(t, ciphertext)
	require.Len(t, nonce, 12)

	var out testSession
	require.NoError(t, Open(ciphertext, nonce, key, &out))
	require.Equal(t, in, out)
}

func TestOpen_WrongKeyFails(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"))
	other := DeriveKey([]byte("pw2"), []byte("salt"))

	ciphertext, nonce, err := Seal(testSession{User: "bob"}, key)
	require.NoError(t, err)

	var out testSession
	require.Error(t, Open(ciphertext, nonce, other, &out))
}

func TestOpen_TamperedCiphertextFails(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"))

	ciphertext, nonce, err := Seal(testSession{User: "bob"}, key)
	require.NoError(t, err)

	ciphertext[0] ^= 0xFF

	var out testSession
	require.Error(t, Open(ciphertext, nonce, key, &out))
}
