package app

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestLoadCredentials(t *testing.T) {
	t.Parallel()

	t.Run("credential file wins", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "pihole-password"), []byte("from-file\n"), 0o600))

		creds, err := LoadCredentials(Config{CredentialsDir: dir, Password: "from-env"})
		require.NoError(t, err)
		require.Equal(t, "from-file", creds.Password)
		require.Empty(t, creds.TOTPSecret)
	})

	t.Run("falls back to environment", func(t *testing.T) {
		creds, err := LoadCredentials(Config{CredentialsDir: t.TempDir(), Password: "from-env", TOTPSecret: "JBSWY3DPEHPK3PXP"})
		require.NoError(t, err)
		require.Equal(t, "from-env", creds.Password)
		require.Equal(t, "JBSWY3DPEHPK3PXP", creds.TOTPSecret)
	})

	t.Run("totp credential file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "pihole-password"), []byte("pw"), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "pihole-totp"), []byte("JBSWY3DPEHPK3PXP\n"), 0o600))

		creds, err := LoadCredentials(Config{CredentialsDir: dir})
		require.NoError(t, err)
		require.Equal(t, "JBSWY3DPEHPK3PXP", creds.TOTPSecret)
	})

	t.Run("missing password", func(t *testing.T) {
		_, err := LoadCredentials(Config{})
		require.ErrorIs(t, err, ErrNoPassword)
	})
}

func TestTOTPCode(t *testing.T) {
	t.Parallel()

	_, ok, err := Credentials{Password: "pw"}.TOTPCode(time.Now())
	require.NoError(t, err)
	require.False(t, ok)

	const secret = "JBSWY3DPEHPK3PXP"
	now := time.Now()
	code, ok, err := Credentials{Password: "pw", TOTPSecret: secret}.TOTPCode(now)
	require.NoError(t, err)
	require.True(t, ok)

	valid, err := totp.ValidateCustom(fmt.Sprintf("%06d", code), secret, now, totp.ValidateOpts{
		Period: 30,
		Digits: 6,
	})
	require.NoError(t, err)
	require.True(t, valid)

	_, _, err = Credentials{Password: "pw", TOTPSecret: "not base32!"}.TOTPCode(now)
	require.Error(t, err)
}
