package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/logging"
	"github.com/dmitrijs2005/daybook/internal/netx"
)

// refreshLeeway is how close to its exp claim an access token may get
// before the provider refreshes it ahead of a request.
const refreshLeeway = 30 * time.Second

// backupTimestampHeader carries the snapshot time on backup uploads, so
// the server records when the backup was taken rather than received.
const backupTimestampHeader = "X-Backup-Timestamp"

// APIConfig holds the HTTP backend settings.
type APIConfig struct {
	BaseURL string
}

// APIProvider talks to the Daybook HTTP API. It keeps a bearer token pair,
// refreshing the access token ahead of expiry and once more on a 401, and
// persists the pair in the session shelf so restarts resume silently.
type APIProvider struct {
	cfg    APIConfig
	client *http.Client
	shelf  *SessionShelf
	log    logging.Logger

	deviceID string
	session  *Session

	// pending credentials for the next SignIn, wiped after use
	username string
	password string
}

var _ Provider = (*APIProvider)(nil)

func NewAPIProvider(cfg APIConfig, shelf *SessionShelf, log logging.Logger) *APIProvider {
	return &APIProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		shelf:  shelf,
		log:    log,
	}
}

// SetCredentials stores the username and password the next SignIn will use
// when no stored session can be resumed.
func (p *APIProvider) SetCredentials(username, password string) {
	p.username = username
	p.password = password
}

// Initialize checks the endpoint is reachable and loads the device id.
func (p *APIProvider) Initialize(ctx context.Context) error {
	if p.cfg.BaseURL == "" {
		return fmt.Errorf("api base url is not configured")
	}

	id, err := p.shelf.DeviceID(ctx)
	if err != nil {
		return fmt.Errorf("failed to load device id: %w", err)
	}
	p.deviceID = id

	return netx.CheckEndpoint(ctx, p.client, p.endpoint("/api/health"))
}

// SignIn resumes the stored session when its tokens are still usable,
// otherwise logs in with the credentials given to SetCredentials.
func (p *APIProvider) SignIn(ctx context.Context) error {
	if sess, err := p.shelf.Load(ctx); err != nil {
		return err
	} else if sess != nil && p.resumable(sess) {
		p.session = sess
		p.log.Info(ctx, "resumed cloud session", "username", sess.Username)
		return nil
	}

	if p.username == "" {
		return fmt.Errorf("%w: no stored session and no credentials", common.ErrorUnauthorized)
	}

	body, err := json.Marshal(map[string]string{
		"username": p.username,
		"password": p.password,
	})
	p.password = ""
	if err != nil {
		return err
	}

	resp, err := p.do(ctx, http.MethodPost, "/api/auth/login", bytes.NewReader(body), false)
	if err != nil {
		return err
	}

	var tokens struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(resp, &tokens); err != nil {
		return fmt.Errorf("failed to parse login response: %w", err)
	}

	p.session = &Session{
		Username:     p.username,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}
	if err := p.shelf.Save(ctx, p.session); err != nil {
		p.log.Warn(ctx, "failed to persist session", "error", err)
	}
	p.log.Info(ctx, "signed in", "username", p.session.Username)
	return nil
}

// resumable reports whether a stored session can skip the login prompt:
// either the access token is still fresh or the refresh token can mint one.
func (p *APIProvider) resumable(sess *Session) bool {
	if !expiresWithin(sess.AccessToken, refreshLeeway) {
		return true
	}
	return sess.RefreshToken != "" && !expiresWithin(sess.RefreshToken, refreshLeeway)
}

// SignOut drops the session locally. The server is not told: tokens just
// expire.
func (p *APIProvider) SignOut(ctx context.Context) error {
	p.session = nil
	return p.shelf.Clear(ctx)
}

func (p *APIProvider) IsAuthenticated() bool {
	return p.session != nil
}

func (p *APIProvider) SaveData(ctx context.Context, data []byte) error {
	_, err := p.do(ctx, http.MethodPut, "/api/data", bytes.NewReader(data), true)
	return err
}

func (p *APIProvider) LoadData(ctx context.Context) ([]byte, error) {
	data, err := p.do(ctx, http.MethodGet, "/api/data", nil, true)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (p *APIProvider) SaveBackup(ctx context.Context, data []byte, ts time.Time) error {
	_, err := p.doWithHeaders(ctx, http.MethodPost, "/api/backups", bytes.NewReader(data), true,
		map[string]string{backupTimestampHeader: ts.UTC().Format(time.RFC3339Nano)})
	return err
}

func (p *APIProvider) ListBackups(ctx context.Context) ([]BackupInfo, error) {
	resp, err := p.do(ctx, http.MethodGet, "/api/backups", nil, true)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		ID        string    `json:"id"`
		Timestamp time.Time `json:"timestamp"`
		Size      int64     `json:"size"`
	}
	if err := json.Unmarshal(resp, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse backup list: %w", err)
	}

	out := make([]BackupInfo, 0, len(rows))
	for _, r := range rows {
		out = append(out, BackupInfo{ID: r.ID, Timestamp: r.Timestamp, Size: r.Size})
	}
	return out, nil
}

func (p *APIProvider) LoadBackup(ctx context.Context, id string) ([]byte, error) {
	data, err := p.do(ctx, http.MethodGet, "/api/backups/"+url.PathEscape(id), nil, true)
	if isNotFound(err) {
		return nil, common.ErrBackupNotFound
	}
	return data, err
}

func (p *APIProvider) DeleteBackup(ctx context.Context, id string) error {
	_, err := p.do(ctx, http.MethodDelete, "/api/backups/"+url.PathEscape(id), nil, true)
	if isNotFound(err) {
		return common.ErrBackupNotFound
	}
	return err
}

func (p *APIProvider) CleanupOldBackups(ctx context.Context, maxCount int) error {
	list, err := p.ListBackups(ctx)
	if err != nil {
		return err
	}
	if len(list) <= maxCount {
		return nil
	}
	for _, b := range list[maxCount:] {
		if err := p.DeleteBackup(ctx, b.ID); err != nil {
			return err
		}
		p.log.Debug(ctx, "pruned old backup", "id", b.ID)
	}
	return nil
}

func (p *APIProvider) endpoint(path string) string {
	return strings.TrimRight(p.cfg.BaseURL, "/") + path
}

func (p *APIProvider) do(ctx context.Context, method, path string, body io.Reader, authed bool) ([]byte, error) {
	return p.doWithHeaders(ctx, method, path, body, authed, nil)
}

// doWithHeaders performs one API call. Authenticated calls refresh the
// access token ahead of its expiry; a 401 that still slips through gets one
// refresh-and-retry before the error is surfaced.
func (p *APIProvider) doWithHeaders(ctx context.Context, method, path string, body io.Reader, authed bool, headers map[string]string) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = io.ReadAll(body); err != nil {
			return nil, err
		}
	}

	if authed {
		if p.session == nil {
			return nil, common.ErrNotConnected
		}
		if expiresWithin(p.session.AccessToken, refreshLeeway) {
			if err := p.refresh(ctx); err != nil {
				return nil, err
			}
		}
	}

	resp, status, err := p.roundTrip(ctx, method, path, payload, authed, headers)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized && authed && p.session.RefreshToken != "" {
		if err := p.refresh(ctx); err != nil {
			return nil, err
		}
		resp, status, err = p.roundTrip(ctx, method, path, payload, authed, headers)
		if err != nil {
			return nil, err
		}
	}

	switch {
	case status >= 200 && status < 300:
		return resp, nil
	case status == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: %s %s", common.ErrorUnauthorized, method, path)
	case status == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s %s", common.ErrorNotFound, method, path)
	default:
		return nil, fmt.Errorf("api call %s %s failed with status %d", method, path, status)
	}
}

func (p *APIProvider) roundTrip(ctx context.Context, method, path string, payload []byte, authed bool, headers map[string]string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, p.endpoint(path), bytes.NewReader(payload))
	if err != nil {
		return nil, 0, err
	}

	req.Header.Set("Content-Type", "application/octet-stream")
	if strings.HasPrefix(path, "/api/auth/") {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(common.DeviceIDHeaderName, p.deviceID)
	if authed {
		req.Header.Set(common.AccessTokenHeaderName, "Bearer "+p.session.AccessToken)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("api call %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read api response: %w", err)
	}
	return data, resp.StatusCode, nil
}

// refresh swaps the refresh token for a fresh pair and persists it.
func (p *APIProvider) refresh(ctx context.Context) error {
	if p.session == nil || p.session.RefreshToken == "" {
		return common.ErrTokenExpired
	}

	body, err := json.Marshal(map[string]string{"refreshToken": p.session.RefreshToken})
	if err != nil {
		return err
	}

	resp, status, err := p.roundTrip(ctx, http.MethodPost, "/api/auth/refresh", body, false, nil)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		return common.ErrRefreshTokenExpired
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("token refresh failed with status %d", status)
	}

	var tokens struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(resp, &tokens); err != nil {
		return fmt.Errorf("failed to parse refresh response: %w", err)
	}

	p.session.AccessToken = tokens.AccessToken
	p.session.RefreshToken = tokens.RefreshToken
	if err := p.shelf.Save(ctx, p.session); err != nil {
		p.log.Warn(ctx, "failed to persist refreshed session", "error", err)
	}
	p.log.Debug(ctx, "access token refreshed")
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, common.ErrorNotFound)
}
