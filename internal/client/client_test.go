package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonFir/multitool/internal/auth"
	"github.com/JonFir/multitool/pkg/tracker"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  *tracker.Config
		wantErr error
	}{
		{
			name:   "valid config",
			config: &tracker.Config{Token: "token", OrgID: "org"},
		},
		{
			name:    "nil config",
			config:  nil,
			wantErr: tracker.ErrConfigRequired,
		},
		{
			name:    "missing token",
			config:  &tracker.Config{OrgID: "org"},
			wantErr: tracker.ErrTokenRequired,
		},
		{
			name:    "missing org",
			config:  &tracker.Config{Token: "token"},
			wantErr: tracker.ErrOrgIDRequired,
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			client, err := New(testCase.config)

			if testCase.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, testCase.wantErr)
				assert.Nil(t, client)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, client)
			assert.NotNil(t, client.Issues())
			assert.NotNil(t, client.Queues())
			assert.NotNil(t, client.Search())
			assert.NotNil(t, client.Users())
			assert.NotNil(t, client.GetTokenManager())
		})
	}
}

func TestNewRequestHeaders(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "OAuth secret-token", request.Header.Get("Authorization"))
		assert.Equal(t, "org-42", request.Header.Get("X-Org-ID"))
		assert.Equal(t, "ru", request.Header.Get("Accept-Language"))
		writeJSON(writer, http.StatusOK, tracker.User{Login: "me"})
	}))
	defer server.Close()

	config := &tracker.Config{
		BaseURL:  server.URL,
		Token:    "secret-token",
		OrgID:    "org-42",
		Language: "ru",
	}

	client, err := New(config)
	require.NoError(t, err)

	user, err := client.Users().Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "me", user.Login)
}

func TestNewWithTokenManager(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "OAuth managed-token", request.Header.Get("Authorization"))
		writeJSON(writer, http.StatusOK, tracker.User{Login: "me"})
	}))
	defer server.Close()

	manager := auth.NewStaticTokenManager("managed-token")

	client, err := NewWithTokenManager(&tracker.Config{BaseURL: server.URL, OrgID: "org"}, manager)
	require.NoError(t, err)
	assert.Same(t, auth.TokenManager(manager), client.GetTokenManager())

	_, err = client.Users().Current(context.Background())
	require.NoError(t, err)
}

func TestNewWithTokenManagerRequiresOrg(t *testing.T) {
	t.Parallel()

	manager := auth.NewStaticTokenManager("token")

	client, err := NewWithTokenManager(&tracker.Config{}, manager)
	require.Error(t, err)
	assert.ErrorIs(t, err, tracker.ErrOrgIDRequired)
	assert.Nil(t, client)
}
