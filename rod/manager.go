package rod

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultRecycleAfter is the default number of rendered pages before the
// browser is recycled.
const DefaultRecycleAfter = 75

// BrowserManager owns the headless browser lifecycle and recycles the
// process periodically. Chrome accumulates memory as pages are opened
// and closed and never returns to its baseline, so long crawls need a
// fresh process every so often.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	browser      *rod.Browser
	launcher     *launcher.Launcher
	rendered     int64
	recycleAfter int64
	mu           sync.Mutex
	closed       atomic.Bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithRecycleAfter sets how many pages are rendered before the browser
// process is recycled. Defaults to DefaultRecycleAfter.
func WithRecycleAfter(n int64) ManagerOption {
	return func(m *BrowserManager) {
		m.recycleAfter = n
	}
}

// NewBrowserManager launches a headless Chrome browser. Close must be
// called when the manager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	m := &BrowserManager{
		recycleAfter: DefaultRecycleAfter,
	}
	for _, opt := range opts {
		opt(m)
	}

	if err := m.launch(); err != nil {
		return nil, err
	}
	return m, nil
}

// Browser returns the current browser, recycling the process first when
// the rendered-page count has reached the threshold. Callers should call
// PageRendered after each rendered page.
func (m *BrowserManager) Browser() *rod.Browser {
	m.mu.Lock()
	defer m.mu.Unlock()

	if atomic.LoadInt64(&m.rendered) >= m.recycleAfter {
		m.recycle()
	}
	return m.browser
}

// PageRendered records one rendered page toward the recycling threshold.
func (m *BrowserManager) PageRendered() {
	atomic.AddInt64(&m.rendered, 1)
}

// Close releases browser resources. Safe to call multiple times.
func (m *BrowserManager) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shutdown()
}

// launch starts a new browser process with stability flags.
func (m *BrowserManager) launch() error {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	m.browser = browser
	m.launcher = lnchr
	return nil
}

// shutdown closes the current browser and launcher. Must be called with
// mu held.
func (m *BrowserManager) shutdown() error {
	var err error
	if m.browser != nil {
		err = m.browser.Close()
		m.browser = nil
	}
	if m.launcher != nil {
		m.launcher.Kill()
		m.launcher = nil
	}
	return err
}

// recycle swaps in a fresh browser process. The old browser is kept when
// the new launch fails. Must be called with mu held.
func (m *BrowserManager) recycle() {
	oldBrowser := m.browser
	oldLauncher := m.launcher
	m.browser = nil
	m.launcher = nil

	if err := m.launch(); err != nil {
		m.browser = oldBrowser
		m.launcher = oldLauncher
		return
	}

	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	atomic.StoreInt64(&m.rendered, 0)
}

// LauncherPID returns the process ID of the browser launcher, for tests
// that verify process cleanup.
func (m *BrowserManager) LauncherPID() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.launcher == nil {
		return 0
	}
	return m.launcher.PID()
}
