package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remdambrosio/bridgetroll/internal/device"
	"github.com/remdambrosio/bridgetroll/internal/snapshot"
)

func starlinkServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/service-lines":
			fmt.Fprint(w, `{"content":{"results":[
				{"serviceLineNumber":"SL-100","nickname":"SITE7-SKvan00012-BACKUP","active":true},
				{"serviceLineNumber":"SL-200","nickname":"DEPOT-SKkel00007-PRIMARY","active":true},
				{"serviceLineNumber":"SL-300","nickname":"no router here","active":true},
				{"serviceLineNumber":"SL-400","nickname":"OLD-SKret00099-","active":false}
			],"isLastPage":true}}`)
		case "/service-lines/SL-100/data-usage":
			fmt.Fprint(w, `{"content":{"billingCycles":[
				{"startDate":"2024-09-01T00:00:00Z","endDate":"2024-10-01T00:00:00Z",
				 "dailyDataUsages":[
					{"dataUsageBins":[{"totalGB":60.0},{"totalGB":30.0}]},
					{"dataUsageBins":[{"totalGB":30.0}]}
				]}
			]}}`)
		case "/service-lines/SL-200/data-usage":
			// Zero cycles: malformed payload, router excluded loudly.
			fmt.Fprint(w, `{"content":{"billingCycles":[]}}`)
		default:
			http.NotFound(w, r)
		}
	}))
}

func venusServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/routers", r.URL.Path)
		fmt.Fprint(w, `[
			{"name":"van00012","links":[{"isp":"Starlink","interface":"ge-0/0/3"}]}
		]`)
	}))
}

func TestPullAssemblesCompleteRouters(t *testing.T) {
	star := starlinkServer(t)
	defer star.Close()
	ven := venusServer(t)
	defer ven.Close()

	aresSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024-08-31 17:00:00", r.URL.Query().Get("start"))
		assert.Equal(t, "2024-09-30 17:00:00", r.URL.Query().Get("end"))
		fmt.Fprint(w, "van00012-gw1,ge-0/0/3,IF-MIB.ifHCInOctets,=,100000000000\n"+
			"van00012-gw1,ge-0/0/3,IF-MIB.ifHCOutOctets,=,18000000000\n")
	}))
	defer aresSrv.Close()

	snapshotPath := filepath.Join(t.TempDir(), "output.json")
	config := &Config{
		Settings: Settings{
			StarlinkURL: star.URL,
			VenusURL:    ven.URL,
			AresURL:     aresSrv.URL,
		},
		SnapshotPath: snapshotPath,
		FlowLocation: time.FixedZone("UTC-7", -7*60*60),
	}

	routers, window, err := pull(context.Background(), config, "run-1", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "2024-09-01", window.StartDate())

	// Only the router with a usable payload was assembled; the zero-cycle
	// payload excluded SL-200's router entirely.
	require.Len(t, routers, 1)
	van := routers[device.ID("VAN00012")]
	require.NotNil(t, van)
	assert.True(t, van.Complete())
	assert.InDelta(t, 120.0, van.PrimaryTotal, 1e-9)
	assert.InDelta(t, 1.03, van.Leeway, 1e-9)
	assert.InDelta(t, 118.0, van.SecondaryTotal, 1e-9)

	// The pull leaves a replayable snapshot behind.
	snap, err := snapshot.Load(snapshotPath)
	require.NoError(t, err)
	assert.Equal(t, "run-1", snap.RunID)
	assert.Len(t, snap.Routers, 1)
}

func TestPullEmptyBatchSkipsFlowQuery(t *testing.T) {
	star := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"content":{"results":[],"isLastPage":true}}`)
	}))
	defer star.Close()
	ven := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer ven.Close()

	aresSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("flow-accounting query must be skipped for an empty batch")
		http.Error(w, "unexpected", http.StatusTeapot)
	}))
	defer aresSrv.Close()

	config := &Config{
		Settings: Settings{
			StarlinkURL: star.URL,
			VenusURL:    ven.URL,
			AresURL:     aresSrv.URL,
		},
		SnapshotPath: filepath.Join(t.TempDir(), "output.json"),
		FlowLocation: time.FixedZone("UTC-7", -7*60*60),
	}

	routers, window, err := pull(context.Background(), config, "run-2", zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, routers)
	assert.True(t, window.IsZero())
}

func TestPullRouterWithoutInterfaceStaysIncomplete(t *testing.T) {
	star := starlinkServer(t)
	defer star.Close()

	// Venus knows no routers, so no interface mapping exists.
	ven := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer ven.Close()

	aresSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "van00012-gw1,ge-0/0/3,IF-MIB.ifHCInOctets,=,100000000000\n")
	}))
	defer aresSrv.Close()

	config := &Config{
		Settings: Settings{
			StarlinkURL: star.URL,
			VenusURL:    ven.URL,
			AresURL:     aresSrv.URL,
		},
		SnapshotPath: filepath.Join(t.TempDir(), "output.json"),
		FlowLocation: time.FixedZone("UTC-7", -7*60*60),
	}

	routers, _, err := pull(context.Background(), config, "run-3", zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, routers, 1)

	van := routers[device.ID("VAN00012")]
	require.NotNil(t, van)
	assert.True(t, van.HasPrimary)
	assert.False(t, van.HasSecondary, "no interface mapping means no secondary total")
	assert.False(t, van.Complete())
}
