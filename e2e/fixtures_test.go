//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/stretchr/testify/require"

	"github.com/teletab/teletab/cmd/teletab/server"
	"github.com/teletab/teletab/pkg/harness"
)

// startServer launches the application under test on a random port and
// registers its shutdown with the test. Returns the browser-facing base URL.
func startServer(t *testing.T) string {
	t.Helper()

	srv, err := server.NewServer(server.DefaultConfig())
	require.NoError(t, err, "create server")

	addr, err := srv.Start()
	require.NoError(t, err, "start server")
	t.Logf("server started on %s", addr)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			t.Errorf("server shutdown error: %v", err)
		}
	})

	return srv.BaseURL()
}

// newPage launches a browser owned exclusively by this test case and opens
// a blank page for it.
func newPage(t *testing.T) *rod.Page {
	t.Helper()

	client, err := harness.NewBrowserClient(harness.DefaultBrowserConfig())
	require.NoError(t, err, "launch browser")
	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Errorf("browser close error: %v", err)
		}
	})

	page, err := client.NewPage()
	require.NoError(t, err, "open page")
	return page
}

// createObjectWithDefaults creates a domain object of the given type
// through the fixture API, with a server-assigned default name.
func createObjectWithDefaults(baseURL string, typ server.ObjectType) (server.Object, error) {
	payload, err := json.Marshal(map[string]string{"type": string(typ)})
	if err != nil {
		return server.Object{}, err
	}

	resp, err := http.Post(baseURL+"/api/objects", "application/json", bytes.NewReader(payload))
	if err != nil {
		return server.Object{}, fmt.Errorf("create %q: %w", typ, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return server.Object{}, fmt.Errorf("create %q: status %d: %s", typ, resp.StatusCode, body)
	}

	var obj server.Object
	if err := json.NewDecoder(resp.Body).Decode(&obj); err != nil {
		return server.Object{}, fmt.Errorf("create %q: decode response: %w", typ, err)
	}
	return obj, nil
}

// Locators for the telemetry table widget.
var (
	sourceSelect   = harness.ByCSS("#source-select")
	addSourceBtn   = harness.ByRole("button", "Add Source")
	realTimeToggle = harness.ByRole("button", "Real-Time")
	pauseBtn       = harness.ByRole("button", "Pause")
	resumeBtn      = harness.ByRole("button", "Resume")
	headerCells    = harness.ByCSS("#header-row th")
	tableBody      = harness.ByCSS("#table-body")
	tableRows      = harness.ByCSS("#table-body tr")
	firstValueCell = harness.ByCSS("#table-body tr:first-child td.value-cell")
	tableViewport  = harness.ByCSS("#table-wrapper")
)

// setRealTimeMode switches the widget into real-time mode, in which the
// table continuously reflects newly arriving telemetry.
func setRealTimeMode(sc *harness.Scenario) {
	sc.Click(realTimeToggle)
}

// addSource selects the named telemetry source and adds it to the table.
func addSource(sc *harness.Scenario, name string) {
	sc.SelectOption(sourceSelect, name)
	sc.Click(addSourceBtn)
}

// setUpTableWithSource runs the shared fixture sequence: create a sine
// wave generator and a telemetry table, open the table view, and wire the
// generator in as a source. The select options load asynchronously, so the
// source is polled for before it is chosen.
func setUpTableWithSource(t *testing.T, sc *harness.Scenario, baseURL string) (gen, table server.Object) {
	t.Helper()

	sc.Setup("Sine Wave Generator", func() error {
		var err error
		gen, err = createObjectWithDefaults(baseURL, server.TypeSineWaveGenerator)
		return err
	})
	sc.Setup("Telemetry Table", func() error {
		var err error
		table, err = createObjectWithDefaults(baseURL, server.TypeTelemetryTable)
		return err
	})

	sc.Navigate(baseURL + table.URL)
	sc.WaitFor("source options loaded", 10*time.Second, func(page *rod.Page) (bool, error) {
		res, err := page.Eval(`() => document.querySelectorAll('#source-select option').length`)
		if err != nil {
			return false, err
		}
		return res.Value.Int() >= 2, nil
	})
	addSource(sc, gen.Name)
	return gen, table
}

// waitForRows polls until the table holds at least n rows.
func waitForRows(sc *harness.Scenario, n int, timeout time.Duration) {
	sc.WaitFor(fmt.Sprintf("at least %d rows", n), timeout, func(page *rod.Page) (bool, error) {
		res, err := page.Eval(`() => document.querySelectorAll('#table-body tr').length`)
		if err != nil {
			return false, err
		}
		return res.Value.Int() >= n, nil
	})
}
