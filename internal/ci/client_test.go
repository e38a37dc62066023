package ci_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"gitstory.dev/gitstory/internal/ci"
	storyerrors "gitstory.dev/gitstory/internal/errors"
)

func serve(t *testing.T, code int, body string) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

type payload struct {
	Result string `json:"result"`
	Build  int    `json:"build_number"`
	Commit struct {
		ID string `json:"id"`
	} `json:"commit"`
}

func TestClient_GetJSON(t *testing.T) {
	client := ci.NewClient(ci.ClientOptions{})

	t.Run("decodes known fields and ignores unknown ones", func(t *testing.T) {
		server := serve(t, http.StatusOK, `{"result":"passed","build_number":12,"commit":{"id":"abc"},"extra":{"nested":true}}`)
		var out payload
		require.NoError(t, client.GetJSON(context.Background(), server.URL, nil, &out))
		require.Equal(t, "passed", out.Result)
		require.Equal(t, 12, out.Build)
		require.Equal(t, "abc", out.Commit.ID)
	})

	t.Run("fields of the wrong type default to empty", func(t *testing.T) {
		server := serve(t, http.StatusOK, `{"result":"passed","build_number":"twelve","commit":{"id":"abc"}}`)
		var out payload
		require.NoError(t, client.GetJSON(context.Background(), server.URL, nil, &out))
		require.Equal(t, "passed", out.Result)
		require.Zero(t, out.Build)
		require.Equal(t, "abc", out.Commit.ID)
	})

	t.Run("empty body leaves the target untouched", func(t *testing.T) {
		server := serve(t, http.StatusOK, "")
		var out payload
		require.NoError(t, client.GetJSON(context.Background(), server.URL, nil, &out))
		require.Empty(t, out.Result)
	})

	t.Run("malformed JSON is a transport error", func(t *testing.T) {
		server := serve(t, http.StatusOK, `{"result":`)
		var out payload
		err := client.GetJSON(context.Background(), server.URL, nil, &out)
		require.True(t, errors.Is(err, storyerrors.ErrTransport))
	})

	t.Run("sends headers", func(t *testing.T) {
		got := make(chan string, 1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got <- r.Header.Get("X-TrackerToken")
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()
		var out payload
		require.NoError(t, client.GetJSON(context.Background(), server.URL, map[string]string{"X-TrackerToken": "secret"}, &out))
		require.Equal(t, "secret", <-got)
	})
}

func TestClient_Errors(t *testing.T) {
	t.Run("401 is an auth error naming the token", func(t *testing.T) {
		server := serve(t, http.StatusUnauthorized, `{"message":"nope"}`)
		client := ci.NewClient(ci.ClientOptions{TokenHint: "env var SEMAPHORE_AUTH_TOKEN"})

		var out payload
		err := client.GetJSON(context.Background(), server.URL+"/status?auth_token=secret", nil, &out)
		require.True(t, errors.Is(err, storyerrors.ErrUnauthorized))

		var authErr *storyerrors.AuthError
		require.True(t, errors.As(err, &authErr))
		require.Contains(t, err.Error(), "SEMAPHORE_AUTH_TOKEN invalid?")
		require.NotContains(t, err.Error(), "secret")
	})

	t.Run("other failures carry the status code", func(t *testing.T) {
		server := serve(t, http.StatusNotFound, `{}`)
		client := ci.NewClient(ci.ClientOptions{})

		var out payload
		err := client.GetJSON(context.Background(), server.URL, nil, &out)
		var transportErr *storyerrors.TransportError
		require.True(t, errors.As(err, &transportErr))
		require.Equal(t, http.StatusNotFound, transportErr.StatusCode)
	})

	t.Run("server errors are retried then reported", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()
		client := ci.NewClient(ci.ClientOptions{RetryMax: 1})

		var out payload
		err := client.GetJSON(context.Background(), server.URL, nil, &out)
		var transportErr *storyerrors.TransportError
		require.True(t, errors.As(err, &transportErr))
		require.Equal(t, http.StatusBadGateway, transportErr.StatusCode)
		require.Equal(t, int32(2), calls.Load())
	})

	t.Run("connection failures are transport errors", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()
		client := ci.NewClient(ci.ClientOptions{})

		var out payload
		err := client.GetJSON(context.Background(), url, nil, &out)
		require.True(t, errors.Is(err, storyerrors.ErrTransport))
	})
}

func TestRedactURL(t *testing.T) {
	require.Equal(t, "https://ci.example.com/status?auth_token=REDACTED", ci.RedactURL("https://ci.example.com/status?auth_token=abc"))
	require.Equal(t, "https://ci.example.com/status", ci.RedactURL("https://ci.example.com/status"))
}
