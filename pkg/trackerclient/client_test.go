package trackerclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonFir/multitool/pkg/tracker"
	"github.com/JonFir/multitool/pkg/trackerclient"
)

func TestNew(t *testing.T) {
	t.Parallel()

	client, err := trackerclient.New(tracker.NewConfig("token", "org"))
	require.NoError(t, err)
	assert.NotNil(t, client.Issues())
	assert.NotNil(t, client.Queues())
	assert.NotNil(t, client.Search())
	assert.NotNil(t, client.Users())
}

func TestNewNilConfig(t *testing.T) {
	t.Parallel()

	client, err := trackerclient.New(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, tracker.ErrConfigRequired)
	assert.Nil(t, client)
}

func TestNewNormalizesEndpoint(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v3/myself", request.URL.Path)
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"login":"me"}`))
	}))
	defer server.Close()

	config := tracker.NewConfig("token", "org")
	config.BaseURL = server.URL + "/"

	client, err := trackerclient.New(config)
	require.NoError(t, err)

	_, err = client.Users().Current(context.Background())
	require.NoError(t, err)

	// The caller's config keeps its original endpoint; normalization
	// happens on the client's own copy.
	assert.Equal(t, server.URL+"/", config.BaseURL)
}

func TestNewDoesNotModifyConfig(t *testing.T) {
	t.Parallel()

	config := &tracker.Config{
		BaseURL: "api.tracker.example.com/",
		Token:   "token",
		OrgID:   "org",
	}
	original := *config

	_, err := trackerclient.New(config)
	require.NoError(t, err)
	assert.Equal(t, original, *config)
}

func TestNewWithToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "OAuth my-token", request.Header.Get("Authorization"))
		assert.Equal(t, "my-org", request.Header.Get("X-Org-ID"))
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"login":"me"}`))
	}))
	defer server.Close()

	config := tracker.NewConfig("my-token", "my-org")
	config.BaseURL = server.URL

	client, err := trackerclient.New(config)
	require.NoError(t, err)

	user, err := client.Users().Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "me", user.Login)
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv(tracker.EnvToken, "env-token")
	t.Setenv(tracker.EnvOrgID, "env-org")

	client, err := trackerclient.NewFromEnv()
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewFromEnvMissingVars(t *testing.T) {
	t.Setenv(tracker.EnvToken, "")
	t.Setenv(tracker.EnvOrgID, "")

	client, err := trackerclient.NewFromEnv()
	require.Error(t, err)
	assert.ErrorIs(t, err, tracker.ErrEnvVarNotSet)
	assert.Nil(t, client)
}

func TestWithCache(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		count := calls.Add(1)
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"key":"TEST","name":"queue ` + strconv.Itoa(int(count)) + `"}`))
	}))
	defer server.Close()

	config := tracker.NewConfig("token", "org")
	config.BaseURL = server.URL

	client, err := trackerclient.New(config, trackerclient.WithCache(tracker.NewMemoryCache(10), time.Minute))
	require.NoError(t, err)

	first, err := client.Queues().Get(context.Background(), "TEST")
	require.NoError(t, err)

	second, err := client.Queues().Get(context.Background(), "TEST")
	require.NoError(t, err)

	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, int32(1), calls.Load(), "second read must come from the cache")
}
