package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infinite-experiment/router/internal/models"
	"infinite-experiment/router/internal/models/dtos/requests"
)

func TestRoutesClient_CreateSendsBodyWithoutContentType(t *testing.T) {
	var gotMethod, gotPath, gotContentType string
	var gotBody map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotContentType = r.Method, r.URL.Path, r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	status, err := NewRoutesClient(server.URL+"/").Create(context.Background(),
		requests.CreateRouteRequest{From: "A", To: "B", Type: models.RouteTypeProxy})

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, RoutesPath, gotPath)
	assert.Empty(t, gotContentType)
	assert.Equal(t, map[string]string{"from": "A", "to": "B", "type": "proxy"}, gotBody)
}

func TestRoutesClient_DeleteStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":"error","error":"validation failed"}`))
	}))
	defer server.Close()

	status, err := NewRoutesClient(server.URL).Delete(context.Background(), requests.DeleteRouteRequest{From: "X"})

	assert.Equal(t, http.StatusBadRequest, status)
	var serr *StatusError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, http.MethodDelete, serr.Method)
	assert.Equal(t, "validation failed", serr.Message)
	assert.False(t, errors.Is(err, ErrTransport))
}

func TestRoutesClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	status, err := NewRoutesClient(url).Delete(context.Background(), requests.DeleteRouteRequest{From: "X"})

	assert.Equal(t, 0, status)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestRoutesClient_List(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"status":"success","data":{"routes":[{"from":"a","to":"b","type":"redirect"}],"count":1}}`))
	}))
	defer server.Close()

	routes, err := NewRoutesClient(server.URL).List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []models.RouteView{{From: "a", To: "b", Type: models.RouteTypeRedirect}}, routes)
}
