package hako

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFetchAllWalksPagesInOrder(t *testing.T) {
	var pages []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages = append(pages, r.URL.Query().Get("page"))
		w.Write([]byte("<html>page " + r.URL.Query().Get("page") + "</html>"))
	}))
	defer server.Close()

	client, err := NewClient(Options{BaseUrl: server.URL, MaxPages: 3})
	require.NoError(t, err)

	bodies, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2", "3"}, pages)
	require.Len(t, bodies, 3)
	require.Contains(t, bodies[1], "page 2")
}

func TestFetchPageUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer server.Close()

	client, err := NewClient(Options{BaseUrl: server.URL, MaxPages: 1})
	require.NoError(t, err)

	_, err = client.FetchPage(context.Background(), 1)
	require.Error(t, err)
	require.True(t, errors.Is(err, FetchFailed))
}

func TestFetchAllAbortsOnFirstFailure(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Query().Get("page") == "2" {
			http.Error(w, "oops", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("<html>ok</html>"))
	}))
	defer server.Close()

	client, err := NewClient(Options{BaseUrl: server.URL, MaxPages: 4})
	require.NoError(t, err)

	_, err = client.FetchAll(context.Background())
	require.True(t, errors.Is(err, FetchFailed))
	require.Equal(t, 2, requests)
}
