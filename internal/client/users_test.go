package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonFir/multitool/pkg/apiclient"
	"github.com/JonFir/multitool/pkg/tracker"
)

func TestUsersCurrent(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v3/myself", request.URL.Path)
		assert.Equal(t, "GET", request.Method)

		writeJSON(writer, http.StatusOK, tracker.User{
			Login:   "jdoe",
			Display: "John Doe",
			Email:   "jdoe@example.com",
		})
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	user, err := client.Users().Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "jdoe", user.Login)
	assert.Equal(t, "John Doe", user.Display)
}

func TestUsersCurrentUnauthorized(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writeAPIError(writer, http.StatusUnauthorized, "Invalid token")
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	user, err := client.Users().Current(context.Background())
	require.Error(t, err)
	assert.Nil(t, user)
	assert.True(t, apiclient.IsAuthentication(err))
}

func TestUsersGet(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v3/users/jdoe", request.URL.Path)

		writeJSON(writer, http.StatusOK, tracker.User{Login: "jdoe"})
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	user, err := client.Users().Get(context.Background(), "jdoe")
	require.NoError(t, err)
	assert.Equal(t, "jdoe", user.Login)
}

func TestUsersGetEmptyLogin(t *testing.T) {
	t.Parallel()

	client := NewTestClient("http://localhost")

	user, err := client.Users().Get(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, tracker.ErrLoginRequired)
	assert.Nil(t, user)
}

func TestUsersList(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v3/users", request.URL.Path)

		writePagedJSON(writer, 1, 2, []tracker.User{
			{Login: "jdoe"},
			{Login: "asmith"},
		})
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	page, err := client.Users().List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "asmith", page.Items[1].Login)
}
