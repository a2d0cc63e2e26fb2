package harness

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/go-rod/rod"
)

// Locator describes how to find one element on the live page. Two query
// styles are supported: role + accessible name (preferred, survives markup
// churn) and a raw CSS selector for structural queries. Locators hold no
// element identity: they are resolved fresh on every use and never cached
// across navigations.
type Locator struct {
	role     string
	name     string
	selector string
}

// ByRole locates an element by its role and accessible name. The name is
// matched as a substring of the element's visible text.
func ByRole(role, name string) Locator {
	return Locator{role: role, name: name}
}

// ByCSS locates an element by a CSS selector.
func ByCSS(selector string) Locator {
	return Locator{selector: selector}
}

// String returns the locator in a human-readable form for error messages.
func (l Locator) String() string {
	if l.selector != "" {
		return fmt.Sprintf("css=%q", l.selector)
	}
	return fmt.Sprintf("role=%s name=%q", l.role, l.name)
}

// cssQuery returns the selector used to enumerate candidate elements.
func (l Locator) cssQuery() string {
	if l.selector != "" {
		return l.selector
	}
	return roleSelector(l.role)
}

// roleSelector maps an ARIA role to the CSS selector covering both the
// native element carrying that role implicitly and any element with an
// explicit role attribute.
func roleSelector(role string) string {
	switch role {
	case "button":
		return `button, [role="button"]`
	case "combobox":
		return `select, [role="combobox"]`
	case "link":
		return `a, [role="link"]`
	case "heading":
		return `h1, h2, h3, h4, h5, h6, [role="heading"]`
	case "table":
		return `table, [role="table"]`
	case "row":
		return `tr, [role="row"]`
	case "columnheader":
		return `th, [role="columnheader"]`
	case "cell":
		return `td, [role="cell"]`
	default:
		return fmt.Sprintf(`[role=%q]`, role)
	}
}

// resolve finds the first matching element within the timeout. It returns
// ErrElementNotFound (wrapped) when nothing matches before the deadline.
func (l Locator) resolve(page *rod.Page, timeout time.Duration) (*rod.Element, error) {
	p := page.Timeout(timeout)

	var el *rod.Element
	var err error
	if l.selector != "" {
		el, err = p.Element(l.selector)
	} else {
		// Rod's ElementR matches by selector + text regexp, the same
		// query shape as role-based lookups in accessibility trees.
		el, err = p.ElementR(l.cssQuery(), regexp.QuoteMeta(l.name))
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", ErrElementNotFound, l)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrElementNotFound, l, err)
	}
	// The element keeps the step deadline, so a follow-up interaction
	// on it cannot hang past the step timeout either.
	return el, nil
}

// all returns every element currently matching the locator. Unlike resolve
// it does not wait: a page with zero matches yields an empty slice.
func (l Locator) all(page *rod.Page) (rod.Elements, error) {
	els, err := page.Elements(l.cssQuery())
	if err != nil {
		return nil, fmt.Errorf("harness: query %s: %w", l, err)
	}
	if l.name == "" {
		return els, nil
	}
	re := regexp.MustCompile(regexp.QuoteMeta(l.name))
	var out rod.Elements
	for _, el := range els {
		txt, err := el.Text()
		if err != nil {
			continue
		}
		if re.MatchString(txt) {
			out = append(out, el)
		}
	}
	return out, nil
}
