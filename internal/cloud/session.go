package cloud

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/cryptox"
	"github.com/dmitrijs2005/daybook/internal/repositories/metadata"
	"github.com/google/uuid"
)

// Metadata keys owned by the session shelf.
const (
	deviceIDKey     = "device_id"
	deviceSecretKey = "device_secret"
	sessionKey      = "cloud_session"
)

// Session is the API provider's persisted state: who is signed in and the
// token pair proving it. It survives restarts so connect can silently
// resume instead of prompting again.
type Session struct {
	Username     string `json:"username"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// sealedSession is the at-rest envelope: argon2id parameters ride along so
// the key can be derived again on load.
type sealedSession struct {
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// SessionShelf persists the session in the metadata table, sealed with
// AES-GCM under a key derived from a per-device random secret. The secret
// never leaves the local database; sealing keeps the token pair out of
// casual reads and backups of the file.
type SessionShelf struct {
	meta metadata.Repository
}

func NewSessionShelf(meta metadata.Repository) *SessionShelf {
	return &SessionShelf{meta: meta}
}

// DeviceID returns the stable random id of this device, allocating it on
// first use.
func (s *SessionShelf) DeviceID(ctx context.Context) (string, error) {
	raw, err := s.meta.Get(ctx, deviceIDKey)
	if err != nil {
		return "", err
	}
	if len(raw) > 0 {
		return string(raw), nil
	}
	id := uuid.NewString()
	if err := s.meta.Set(ctx, deviceIDKey, []byte(id)); err != nil {
		return "", err
	}
	return id, nil
}

func (s *SessionShelf) deviceSecret(ctx context.Context) ([]byte, error) {
	raw, err := s.meta.Get(ctx, deviceSecretKey)
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		return raw, nil
	}
	secret := common.GenerateRandByteArray(32)
	if err := s.meta.Set(ctx, deviceSecretKey, secret); err != nil {
		return nil, err
	}
	return secret, nil
}

// Save seals the session and writes it to the shelf.
func (s *SessionShelf) Save(ctx context.Context, sess *Session) error {
	secret, err := s.deviceSecret(ctx)
	if err != nil {
		return fmt.Errorf("failed to load device secret: %w", err)
	}

	salt := common.GenerateRandByteArray(16)
	key := cryptox.DeriveKey(secret, salt)
	defer common.WipeByteArray(key)

	ciphertext, nonce, err := cryptox.Seal(sess, key)
	if err != nil {
		return fmt.Errorf("failed to seal session: %w", err)
	}

	envelope, err := json.Marshal(sealedSession{Salt: salt, Nonce: nonce, Ciphertext: ciphertext})
	if err != nil {
		return err
	}
	return s.meta.Set(ctx, sessionKey, envelope)
}

// Load reads and unseals the stored session. It returns (nil, nil) when no
// session is stored or the stored one cannot be opened; a session that does
// not unseal is useless, so it is treated the same as absent.
func (s *SessionShelf) Load(ctx context.Context) (*Session, error) {
	raw, err := s.meta.Get(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var envelope sealedSession
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, nil
	}

	secret, err := s.deviceSecret(ctx)
	if err != nil {
		return nil, err
	}
	key := cryptox.DeriveKey(secret, envelope.Salt)
	defer common.WipeByteArray(key)

	var sess Session
	if err := cryptox.Open(envelope.Ciphertext, envelope.Nonce, key, &sess); err != nil {
		return nil, nil
	}
	return &sess, nil
}

// Clear drops the stored session. The device id and secret stay.
func (s *SessionShelf) Clear(ctx context.Context) error {
	return s.meta.Delete(ctx, sessionKey)
}
