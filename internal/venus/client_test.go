package venus

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remdambrosio/bridgetroll/internal/device"
)

func TestStarlinkInterfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/routers", r.URL.Path)
		assert.Equal(t, "Bearer venus-token", r.Header.Get("Authorization"))
		fmt.Fprint(w, `[
			{"name":"van00012","links":[
				{"isp":"Telus","interface":"ge-0/0/0"},
				{"isp":"Starlink","interface":"ge-0/0/3"}
			]},
			{"name":"kel00007","links":[{"isp":"Telus","interface":"ge-0/0/0"}]},
			{"name":"pg000003","links":null}
		]`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "venus-token", zerolog.Nop())
	interfaces, err := client.StarlinkInterfaces(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "ge-0/0/3", interfaces[device.ID("VAN00012")])

	// Routers without a Starlink link stay out of the map entirely.
	_, ok := interfaces[device.ID("KEL00007")]
	assert.False(t, ok)
	_, ok = interfaces[device.ID("PG000003")]
	assert.False(t, ok)
}

func TestStarlinkInterfacesBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "t", zerolog.Nop())
	_, err := client.StarlinkInterfaces(context.Background())
	assert.Error(t, err)
}
