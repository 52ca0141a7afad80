package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pquerna/otp/totp"
)

const (
	credentialPassword = "pihole-password"
	credentialTOTP     = "pihole-totp"
)

var ErrNoPassword = errors.New("app: no Pi-hole password configured")

// Credentials are the secrets used to open a Pi-hole API session.
type Credentials struct {
	Password   string
	TOTPSecret string
}

// LoadCredentials prefers systemd credential files over environment values.
func LoadCredentials(cfg Config) (Credentials, error) {
	creds := Credentials{Password: cfg.Password, TOTPSecret: cfg.TOTPSecret}

	if cfg.CredentialsDir != "" {
		if v, ok, err := readCredential(cfg.CredentialsDir, credentialPassword); err != nil {
			return Credentials{}, err
		} else if ok {
			creds.Password = v
		}

		if v, ok, err := readCredential(cfg.CredentialsDir, credentialTOTP); err != nil {
			return Credentials{}, err
		} else if ok {
			creds.TOTPSecret = v
		}
	}

	if creds.Password == "" {
		return Credentials{}, ErrNoPassword
	}
	return creds, nil
}

func readCredential(dir, name string) (string, bool, error) {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read credential %s: %w", name, err)
	}
	return strings.TrimRight(string(b), "\r\n"), true, nil
}

// TOTPCode returns the current second factor code. ok is false when no secret
// is configured.
func (c Credentials) TOTPCode(now time.Time) (code int, ok bool, err error) {
	if c.TOTPSecret == "" {
		return 0, false, nil
	}

	s, err := totp.GenerateCode(c.TOTPSecret, now)
	if err != nil {
		return 0, false, fmt.Errorf("generate totp code: %w", err)
	}
	code, err = strconv.Atoi(s)
	if err != nil {
		return 0, false, fmt.Errorf("generate totp code: %w", err)
	}
	return code, true, nil
}
