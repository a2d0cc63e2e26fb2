// browser.go provides the Chrome lifecycle for e2e scenarios.
// It wraps Rod so each test case gets an exclusively-owned session.

package harness

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// BrowserConfig configures Chrome launch options.
type BrowserConfig struct {
	Headless bool          // Run in headless mode (default: true)
	Stealth  bool          // Create pages with stealth patches applied
	Timeout  time.Duration // Default operation timeout (default: 30s)
}

// DefaultBrowserConfig returns sensible defaults for e2e testing.
func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		Headless: true,
		Timeout:  30 * time.Second,
	}
}

// BrowserClient wraps a Rod browser. One client owns one Chrome process;
// concurrent test cases each launch their own client, so no page state is
// ever shared between cases.
type BrowserClient struct {
	browser *rod.Browser
	cfg     BrowserConfig
}

// NewBrowserClient launches headless Chrome and connects to it.
// The no-sandbox and disable-gpu flags keep it working inside containers.
func NewBrowserClient(cfg BrowserConfig) (*BrowserClient, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	l := launcher.New().
		Headless(cfg.Headless).
		Set("no-sandbox").
		Set("disable-gpu")

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("harness: launch Chrome: %w", err)
	}

	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("harness: connect to Chrome: %w", err)
	}

	return &BrowserClient{browser: browser, cfg: cfg}, nil
}

// Browser exposes the underlying Rod browser.
func (c *BrowserClient) Browser() *rod.Browser { return c.browser }

// NewPage opens a blank page. With Stealth enabled the page carries the
// stealth evasion patches before any navigation happens.
func (c *BrowserClient) NewPage() (*rod.Page, error) {
	if c.browser == nil {
		return nil, errors.New("harness: browser not connected")
	}
	if c.cfg.Stealth {
		page, err := stealth.Page(c.browser)
		if err != nil {
			return nil, fmt.Errorf("harness: create stealth page: %w", err)
		}
		return page, nil
	}
	page, err := c.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("harness: create page: %w", err)
	}
	return page, nil
}

// Timeout returns the default operation timeout for this client.
func (c *BrowserClient) Timeout() time.Duration { return c.cfg.Timeout }

// Close cleans up browser resources.
// Always call this (via defer) to prevent orphaned Chrome processes.
func (c *BrowserClient) Close() error {
	if c.browser != nil {
		return c.browser.Close()
	}
	return nil
}
