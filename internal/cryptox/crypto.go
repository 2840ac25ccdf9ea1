// Package cryptox wraps the small amount of cryptography the app needs:
// argon2id key derivation and AES-GCM sealing of JSON-serializable values.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"

	"golang.org/x/crypto/argon2"
)

// DeriveKey stretches a low-entropy secret into a 32-byte AES key using
// argon2id. The salt must be stored alongside the sealed data so the key
// can be derived again.
func DeriveKey(secret []byte, salt []byte) []byte {
	x := argon2.IDKey(secret, salt, 1, 64*1024, 4, 32)
	return x
}

// Seal serializes the given value to JSON and encrypts it using AES-GCM.
//
// The key must be a valid AES key length (16, 24, or 32 bytes for AES-128,
// AES-192, or AES-256 respectively). A new random 12-byte nonce is generated
// for each encryption. The ciphertext and nonce are returned separately.
//
// Example:
//
//	type Session struct {
//	    User  string `json:"user"`
//	    Token string `json:"token"`
//	}
//
//	key := make([]byte, 32) // 256-bit key
//	if _, err := rand.Read(key); err != nil {
//	    log.Fatal(err)
//	}
//
//	ciphertext, nonce, err := cryptox.Seal(Session{User: "alice"}, key)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Seal(v any, key []byte) (ciphertext, nonce []byte, err error) {

	// serializing JSON
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}

	// nonce
	nonce = make([]byte, 12)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	// new cypher
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	// encrypting
	ciphertext = aesgcm.Seal(nil, nonce, plaintext, nil)

	return ciphertext, nonce, nil
}

// Open decrypts the given ciphertext using AES-GCM and unmarshals the
// resulting JSON into the provided value v.
//
// The key must be the same AES key that was used by Seal, and the nonce must
// be the 12-byte nonce Seal returned. Decryption fails if either is wrong or
// the ciphertext was tampered with.
func Open(ciphertext, nonce, key []byte, v any) error {
	block, err := aes.NewCipher(key)
	if err != nil {
		return err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return err
	}

	return json.Unmarshal(plaintext, v)
}
