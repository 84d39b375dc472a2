package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DownloadTokenSigner mints and verifies time-limited tokens that reference an
// archived report. The token carries the filename and an expiry, signed with
// an HMAC so staff can share a download link without sharing their session.
type DownloadTokenSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewDownloadTokenSigner constructs a signer with the given secret and TTL.
func NewDownloadTokenSigner(secret string, ttl time.Duration) *DownloadTokenSigner {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &DownloadTokenSigner{secret: []byte(secret), ttl: ttl}
}

// Generate returns a signed token for the archived filename.
func (s *DownloadTokenSigner) Generate(filename string) (string, time.Time, error) {
	if filename == "" {
		return "", time.Time{}, fmt.Errorf("filename required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := time.Now().Add(s.ttl)
	encoded := base64.RawURLEncoding.EncodeToString([]byte(filename))
	ts := strconv.FormatInt(expiresAt.Unix(), 10)
	token := strings.Join([]string{encoded, ts, s.sign(encoded, ts)}, ".")
	return token, expiresAt, nil
}

// Parse verifies a token's signature and expiry and returns the filename it
// references.
func (s *DownloadTokenSigner) Parse(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid token format")
	}
	encoded, ts, signature := parts[0], parts[1], parts[2]

	if !hmac.Equal([]byte(s.sign(encoded, ts)), []byte(signature)) {
		return "", fmt.Errorf("invalid token signature")
	}
	expUnix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid token timestamp")
	}
	if time.Now().After(time.Unix(expUnix, 0)) {
		return "", fmt.Errorf("token expired")
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode filename: %w", err)
	}
	return string(raw), nil
}

func (s *DownloadTokenSigner) sign(encoded, ts string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(encoded + "|" + ts))
	return hex.EncodeToString(mac.Sum(nil))
}
