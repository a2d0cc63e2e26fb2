// Package harness runs browser e2e scenarios against a live web
// application. A Scenario is an imperative script of setup, navigation,
// interaction, wait, and assertion steps executed against one exclusively
// owned page; the first failing step latches the scenario into the Failed
// phase and every later step becomes a no-op, so tests read top to bottom
// without error plumbing and still stop at the first broken expectation.
package harness

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Phase is the scenario lifecycle state. Transitions only move forward:
// Init -> FixtureSetup -> Navigated -> (Interacting | Waiting)* ->
// Asserting -> Passed | Failed. Passed and Failed are terminal.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseFixtureSetup
	PhaseNavigated
	PhaseInteracting
	PhaseWaiting
	PhaseAsserting
	PhasePassed
	PhaseFailed
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "Init"
	case PhaseFixtureSetup:
		return "FixtureSetup"
	case PhaseNavigated:
		return "Navigated"
	case PhaseInteracting:
		return "Interacting"
	case PhaseWaiting:
		return "Waiting"
	case PhaseAsserting:
		return "Asserting"
	case PhasePassed:
		return "Passed"
	case PhaseFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Scenario executes one test case as a deterministic step sequence.
// It is not safe for concurrent use; each test case owns its scenario.
type Scenario struct {
	name    string
	page    *rod.Page
	log     *slog.Logger
	timeout time.Duration

	phase Phase
	err   *StepError
}

// Option configures a Scenario.
type Option func(*Scenario)

// WithLogger sets the structured logger for step tracing.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scenario) { s.log = l }
}

// WithTimeout sets the element resolution and navigation timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Scenario) { s.timeout = d }
}

// New creates a scenario bound to a page. The page must already be
// connected; the scenario never opens or closes pages itself.
func New(name string, page *rod.Page, opts ...Option) *Scenario {
	s := &Scenario{
		name:    name,
		page:    page,
		log:     slog.Default(),
		timeout: 10 * time.Second,
		phase:   PhaseInit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the scenario name.
func (s *Scenario) Name() string { return s.name }

// Phase returns the current lifecycle phase.
func (s *Scenario) Phase() Phase { return s.phase }

// Err returns the first step failure, or nil while the scenario is healthy.
func (s *Scenario) Err() error {
	if s.err == nil {
		return nil
	}
	return s.err
}

// Result finalizes the scenario: a healthy scenario transitions to Passed
// and returns nil, a failed one stays Failed and returns the first error.
func (s *Scenario) Result() error {
	if s.err != nil {
		return s.err
	}
	s.phase = PhasePassed
	s.log.Debug("scenario passed", "scenario", s.name)
	return nil
}

// fail latches the scenario into the Failed phase. Only the first failure
// is recorded.
func (s *Scenario) fail(e *StepError) {
	if s.err != nil {
		return
	}
	s.err = e
	s.phase = PhaseFailed
	s.log.Error("scenario step failed",
		"scenario", s.name, "step", e.Step, "error", e.Err)
}

// active reports whether steps should still execute.
func (s *Scenario) active() bool { return s.err == nil }

// Setup runs a fixture creation function. Any error is classified as a
// fixture creation failure and ends the scenario.
func (s *Scenario) Setup(desc string, fn func() error) {
	if !s.active() {
		return
	}
	s.phase = PhaseFixtureSetup
	s.log.Debug("setup", "scenario", s.name, "fixture", desc)
	if err := fn(); err != nil {
		s.fail(&StepError{
			Step: fmt.Sprintf("setup %s", desc),
			Err:  fmt.Errorf("%w: %v", ErrFixtureCreation, err),
		})
	}
}

// Navigate loads a URL and waits for the load event. A timeout here is
// fatal; there is no retry.
func (s *Scenario) Navigate(url string) {
	if !s.active() {
		return
	}
	s.log.Debug("navigate", "scenario", s.name, "url", url)

	p := s.page.Timeout(s.timeout)
	err := p.Navigate(url)
	if err == nil {
		err = p.WaitLoad()
	}
	if err != nil {
		s.fail(&StepError{
			Step: fmt.Sprintf("navigate %s", url),
			Err:  fmt.Errorf("%w: %v", ErrNavigationTimeout, err),
		})
		return
	}
	s.phase = PhaseNavigated
}

// Click resolves the locator and clicks the element. The element must be
// interactable: a hidden or covered element fails the scenario.
func (s *Scenario) Click(loc Locator) {
	s.interact(fmt.Sprintf("click %s", loc), loc, func(el *rod.Element) error {
		if _, err := el.Interactable(); err != nil {
			return fmt.Errorf("%w: %v", ErrElementNotInteractable, err)
		}
		return el.Click(proto.InputMouseButtonLeft, 1)
	})
}

// SelectOption resolves a select element and chooses the option with the
// given visible text.
func (s *Scenario) SelectOption(loc Locator, option string) {
	s.interact(fmt.Sprintf("select %q in %s", option, loc), loc, func(el *rod.Element) error {
		return el.Select([]string{option}, true, rod.SelectorTypeText)
	})
}

// ScrollTo sets the vertical scroll offset of the element matching the
// locator, e.g. to move a table viewport into its history.
func (s *Scenario) ScrollTo(loc Locator, offset float64) {
	s.interact(fmt.Sprintf("scroll %s to %v", loc, offset), loc, func(el *rod.Element) error {
		_, err := el.Eval(`(y) => { this.scrollTop = y }`, offset)
		return err
	})
}

// Input resolves the locator and types text into the element.
func (s *Scenario) Input(loc Locator, text string) {
	s.interact(fmt.Sprintf("input %q into %s", text, loc), loc, func(el *rod.Element) error {
		return el.Input(text)
	})
}

func (s *Scenario) interact(step string, loc Locator, fn func(*rod.Element) error) {
	if !s.active() {
		return
	}
	s.phase = PhaseInteracting
	s.log.Debug("interact", "scenario", s.name, "step", step)

	el, err := loc.resolve(s.page, s.timeout)
	if err == nil {
		err = fn(el)
	}
	if err != nil {
		s.fail(&StepError{Step: step, Locator: loc.String(), Err: err})
	}
}

// Wait suspends the scenario for a fixed duration, as a synchronization
// proxy for asynchronous updates in the application under test. Durations
// are empirically chosen and environment-sensitive; prefer WaitFor when
// the awaited condition is observable.
func (s *Scenario) Wait(d time.Duration) {
	if !s.active() {
		return
	}
	s.phase = PhaseWaiting
	s.log.Debug("wait", "scenario", s.name, "duration", d)
	time.Sleep(d)
	s.phase = PhaseInteracting
}

// WaitFor polls cond until it holds or the timeout elapses.
func (s *Scenario) WaitFor(desc string, timeout time.Duration, cond func(page *rod.Page) (bool, error)) {
	if !s.active() {
		return
	}
	s.phase = PhaseWaiting
	s.log.Debug("wait for", "scenario", s.name, "condition", desc)
	err := Poll(context.Background(), timeout, DefaultPollInterval, func() (bool, error) {
		return cond(s.page)
	})
	if err != nil {
		s.fail(&StepError{Step: fmt.Sprintf("wait for %s", desc), Err: err})
		return
	}
	s.phase = PhaseInteracting
}

// CaptureText reads the text content of the element matching the locator.
func (s *Scenario) CaptureText(label string, loc Locator) Snapshot {
	return s.capture(label, loc, func(el *rod.Element) (Snapshot, error) {
		txt, err := el.Text()
		if err != nil {
			return Snapshot{}, err
		}
		return TextSnapshot(label, txt), nil
	})
}

// CaptureCount counts the elements currently matching the locator. Zero
// matches is a valid observation, not an error.
func (s *Scenario) CaptureCount(label string, loc Locator) Snapshot {
	if !s.active() {
		return Snapshot{Label: label}
	}
	s.phase = PhaseAsserting
	els, err := loc.all(s.page)
	if err != nil {
		s.fail(&StepError{Step: fmt.Sprintf("capture %s", label), Locator: loc.String(), Err: err})
		return Snapshot{Label: label}
	}
	snap := NumSnapshot(label, float64(len(els)))
	s.log.Debug("capture", "scenario", s.name, "snapshot", snap.String())
	return snap
}

// CaptureScrollTop reads the vertical scroll offset of the element.
func (s *Scenario) CaptureScrollTop(label string, loc Locator) Snapshot {
	return s.capture(label, loc, func(el *rod.Element) (Snapshot, error) {
		res, err := el.Eval(`() => this.scrollTop`)
		if err != nil {
			return Snapshot{}, err
		}
		return NumSnapshot(label, res.Value.Num()), nil
	})
}

func (s *Scenario) capture(label string, loc Locator, fn func(*rod.Element) (Snapshot, error)) Snapshot {
	if !s.active() {
		return Snapshot{Label: label}
	}
	s.phase = PhaseAsserting

	el, err := loc.resolve(s.page, s.timeout)
	if err != nil {
		s.fail(&StepError{Step: fmt.Sprintf("capture %s", label), Locator: loc.String(), Err: err})
		return Snapshot{Label: label}
	}
	snap, err := fn(el)
	if err != nil {
		s.fail(&StepError{
			Step:    fmt.Sprintf("capture %s", label),
			Locator: loc.String(),
			Err:     fmt.Errorf("harness: read value: %w", err),
		})
		return Snapshot{Label: label}
	}
	s.log.Debug("capture", "scenario", s.name, "snapshot", snap.String())
	return snap
}

// AssertEqual fails the scenario unless both snapshots hold the same value.
func (s *Scenario) AssertEqual(a, b Snapshot) {
	s.assert(fmt.Sprintf("%s == %s", a.Label, b.Label), a.equal(b), b.Text(), a.Text())
}

// AssertNotEqual fails the scenario when both snapshots hold the same value.
func (s *Scenario) AssertNotEqual(a, b Snapshot) {
	s.assert(fmt.Sprintf("%s != %s", a.Label, b.Label), !a.equal(b),
		fmt.Sprintf("anything but %q", b.Text()), a.Text())
}

// AssertGreater fails the scenario unless a's numeric value exceeds b's.
func (s *Scenario) AssertGreater(a, b Snapshot) {
	s.assert(fmt.Sprintf("%s > %s", a.Label, b.Label), a.Num() > b.Num(),
		fmt.Sprintf("> %s", b.Text()), a.Text())
}

// AssertGreaterOrEqual fails the scenario unless a's numeric value is at
// least b's.
func (s *Scenario) AssertGreaterOrEqual(a, b Snapshot) {
	s.assert(fmt.Sprintf("%s >= %s", a.Label, b.Label), a.Num() >= b.Num(),
		fmt.Sprintf(">= %s", b.Text()), a.Text())
}

// AssertVisible fails the scenario unless the element exists and is
// visible on the page.
func (s *Scenario) AssertVisible(loc Locator) {
	if !s.active() {
		return
	}
	s.phase = PhaseAsserting

	el, err := loc.resolve(s.page, s.timeout)
	if err != nil {
		s.fail(&StepError{Step: fmt.Sprintf("assert visible %s", loc), Locator: loc.String(), Err: err})
		return
	}
	visible, err := el.Visible()
	if err != nil {
		s.fail(&StepError{Step: fmt.Sprintf("assert visible %s", loc), Locator: loc.String(), Err: err})
		return
	}
	if !visible {
		s.fail(&StepError{
			Step:     fmt.Sprintf("assert visible %s", loc),
			Locator:  loc.String(),
			Expected: "visible",
			Actual:   "hidden",
			Err:      ErrAssertionFailed,
		})
	}
}

func (s *Scenario) assert(desc string, ok bool, expected, actual string) {
	if !s.active() {
		return
	}
	s.phase = PhaseAsserting
	s.log.Debug("assert", "scenario", s.name, "predicate", desc, "ok", ok)
	if !ok {
		s.fail(&StepError{
			Step:     fmt.Sprintf("assert %s", desc),
			Expected: expected,
			Actual:   actual,
			Err:      ErrAssertionFailed,
		})
	}
}
