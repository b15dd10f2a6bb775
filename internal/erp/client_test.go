package erp

import (
	"context"
	"net/url"
	"testing"

	"github.com/jolix/portal-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildConnectionString(t *testing.T) {
	tests := []struct {
		name       string
		rawURL     string
		wantHost   string
		wantDBName string
	}{
		{"host port and database", "sqlhost.example.com:1433/accounting", "sqlhost.example.com:1433", "accounting"},
		{"host only gets default port", "sqlhost.example.com", "sqlhost.example.com:1433", ""},
		{"custom port no database", "sqlhost.example.com:14330", "sqlhost.example.com:14330", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			connStr, err := buildConnectionString(&config.AccountingConfig{
				URL:      tt.rawURL,
				User:     "portal_reader",
				Password: "s3cret",
			})
			require.NoError(t, err)

			u, err := url.Parse(connStr)
			require.NoError(t, err)

			assert.Equal(t, "sqlserver", u.Scheme)
			assert.Equal(t, tt.wantHost, u.Host)
			assert.Equal(t, "portal_reader", u.User.Username())
			password, _ := u.User.Password()
			assert.Equal(t, "s3cret", password)

			query := u.Query()
			assert.Equal(t, "true", query.Get("encrypt"))
			assert.Equal(t, tt.wantDBName, query.Get("database"))
		})
	}
}

func TestClient_NilSafety(t *testing.T) {
	var c *Client

	assert.False(t, c.IsEnabled())
	assert.NoError(t, c.Close())
	assert.Equal(t, "disabled", c.HealthCheck(context.Background()).Status)
}
