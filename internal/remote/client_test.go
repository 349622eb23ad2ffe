package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/domain"
	apperrors "github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/errors"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/httpclient"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	doer := httpclient.New(httpclient.Config{
		Timeout:         2 * time.Second,
		MaxRetries:      0,
		RetryWaitMin:    time.Millisecond,
		RetryWaitMax:    time.Millisecond,
		MaxConnsPerHost: 4,
	})
	return NewClient(doer, srv.URL+"/api/", logger.Discard())
}

func TestWishlistClient_List_Shapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"bare ids", `["a","b"]`, []string{"a", "b"}},
		{"wishlist envelope", `{"wishlist":["a"]}`, []string{"a"}},
		{"data envelope of entities", `{"success":true,"data":[{"_id":"a","name":"x"},{"id":7}]}`, []string{"a", "7"}},
		{"data items", `{"data":{"items":[{"product":{"_id":"p1"}},{"product":"p2"}]}}`, []string{"p1", "p2"}},
		{"productId entities", `[{"_id":"row1","productId":"p9"}]`, []string{"p9"}},
		{"duplicates collapse", `["a","a","b"]`, []string{"a", "b"}},
		{"unknown elements skipped", `["a",true,{"name":"no id"}]`, []string{"a"}},
		{"null", `null`, []string{}},
		{"unrecognised object", `{"message":"ok"}`, []string{}},
		{"not json", `<html>`, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/api/wishlist", r.URL.Path)
				_, _ = io.WriteString(w, tt.body)
			})
			ids, err := NewWishlistClient(c).List(context.Background(), "tok")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestWishlistClient_AddRemove(t *testing.T) {
	var calls []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		calls = append(calls, r.Method+" "+r.URL.EscapedPath())
		w.WriteHeader(http.StatusNoContent)
	})
	wc := NewWishlistClient(c)

	require.NoError(t, wc.Add(context.Background(), "tok", "p 1"))
	require.NoError(t, wc.Remove(context.Background(), "tok", "p2"))
	assert.Equal(t, []string{"POST /api/wishlist/p%201", "DELETE /api/wishlist/p2"}, calls)
}

func TestWishlistClient_Non2xxIsNetworkFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"success":false,"message":"jwt expired"}`)
	})

	err := NewWishlistClient(c).Add(context.Background(), "tok", "p1")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNetworkFailure)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.True(t, apperrors.IsRecoverable(err))
}

func TestWishlistClient_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := NewWishlistClient(c).List(context.Background(), "tok")
	assert.ErrorIs(t, err, apperrors.ErrNetworkFailure)
}

func TestWishlistClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(httpclient.New(httpclient.Config{Timeout: time.Second}), url, logger.Discard())
	err := NewWishlistClient(c).Add(context.Background(), "tok", "p1")
	assert.ErrorIs(t, err, apperrors.ErrNetworkFailure)
}

func TestCartClient(t *testing.T) {
	var gotQty quantityRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/cart":
			_, _ = io.WriteString(w, `{"data":{"items":[
				{"product":{"_id":"p1"},"quantity":2},
				{"productId":"p2","qty":"3"},
				{"product":"p1","quantity":1},
				{"product":"p3","quantity":0},
				{"product":"p4"},
				{"product":"p5","quantity":5000}
			]}}`)
		case r.Method == http.MethodPost && r.URL.Path == "/api/cart/p1":
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotQty))
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodDelete && r.URL.Path == "/api/cart/p1":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	cc := NewCartClient(c)

	lines, err := cc.List(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, []domain.CartLine{
		{ProductID: "p1", Quantity: 3},
		{ProductID: "p2", Quantity: 3},
		{ProductID: "p4", Quantity: 1},
		{ProductID: "p5", Quantity: domain.MaxLineQuantity},
	}, lines)

	require.NoError(t, cc.SetQuantity(context.Background(), "tok", "p1", 4))
	assert.Equal(t, 4, gotQty.Quantity)
	require.NoError(t, cc.Remove(context.Background(), "tok", "p1"))

	err = cc.Remove(context.Background(), "tok", "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, err, apperrors.ErrNetworkFailure)
}

func TestCategoryClient_List(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"success":true,"data":[
			{"_id":"c1","name":"Sweets","status":"active"},
			{"name":"orphan"},
			{"id":"c2","categoryName":"Dairy","isActive":false}
		]}`)
	})

	cats, err := NewCategoryClient(c).List(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "c1", cats[0].ID)
	assert.Equal(t, "Dairy", cats[1].Name)
	assert.Equal(t, domain.StatusInactive, cats[1].Status)
}
