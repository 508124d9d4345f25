package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionClientCarriesSessionID(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get(sessionHeader))
		w.Header().Set(sessionHeader, "s-1")
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()
	host = srv.URL

	c := newSessionClient()
	require.NoError(t, c.expect(c.post("/api/session/login", map[string]string{"playerId": "p1"})))
	require.NoError(t, c.expect(c.get("/api/session")))
	assert.Equal(t, []string{"", "s-1"}, seen)

	assert.Error(t, c.expect(c.post("/fail", nil)))
}

func TestWithDryRun(t *testing.T) {
	dryRun = false
	assert.Equal(t, "/tasks/sweep", withDryRun("/tasks/sweep"))

	dryRun = true
	defer func() { dryRun = false }()
	assert.Equal(t, "/tasks/sweep?dry_run=true", withDryRun("/tasks/sweep"))
	assert.Equal(t, "/tasks/refresh-ranks?days=7&dry_run=true", withDryRun("/tasks/refresh-ranks?days=7"))
}
