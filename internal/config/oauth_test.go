package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validOAuthClient = `{
  "installed": {
    "client_id": "test-client-id.apps.googleusercontent.com",
    "project_id": "test-project",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "auth_provider_x509_cert_url": "https://www.googleapis.com/oauth2/v1/certs",
    "client_secret": "test-secret",
    "redirect_uris": ["http://localhost"]
  }
}`

func TestLoadOAuthClientFromPath_Valid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oauthClient.json")
	require.NoError(t, os.WriteFile(path, []byte(validOAuthClient), 0600))

	cfg, err := LoadOAuthClientFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "test-client-id.apps.googleusercontent.com", cfg.Installed.ClientID)
	assert.Equal(t, []string{"http://localhost"}, cfg.Installed.RedirectURIs)
}

func TestLoadOAuthClientFromPath_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "malformed json",
			content: `{"installed":`,
			wantErr: "failed to parse oauth client file",
		},
		{
			name:    "missing client id",
			content: `{"installed": {"project_id": "p", "auth_uri": "https://a", "token_uri": "https://t", "auth_provider_x509_cert_url": "https://c", "client_secret": "s", "redirect_uris": ["http://localhost"]}}`,
			wantErr: "ClientID",
		},
		{
			name:    "invalid url",
			content: `{"installed": {"client_id": "c", "project_id": "p", "auth_uri": "not-a-url", "token_uri": "https://t", "auth_provider_x509_cert_url": "https://c", "client_secret": "s", "redirect_uris": ["http://localhost"]}}`,
			wantErr: "AuthURI",
		},
		{
			name:    "no redirect uris",
			content: `{"installed": {"client_id": "c", "project_id": "p", "auth_uri": "https://a", "token_uri": "https://t", "auth_provider_x509_cert_url": "https://c", "client_secret": "s", "redirect_uris": []}}`,
			wantErr: "RedirectURIs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "oauthClient.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			_, err := LoadOAuthClientFromPath(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadOAuthClientWithEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	require.NoError(t, os.WriteFile("oauthClient.test.json", []byte(validOAuthClient), 0600))

	cfg, err := LoadOAuthClientWithEnv("test")
	require.NoError(t, err)
	assert.Equal(t, "test-project", cfg.Installed.ProjectID)

	_, err = LoadOAuthClientWithEnv("prod")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oauthClient.prod.json not found")
}
