package browser

import (
	"sales-tracker-scraper/internal/session"

	"github.com/playwright-community/playwright-go"
)

// toPlaywright converts stored cookies for BrowserContext.AddCookies.
// Cookies without a domain cannot be installed and are skipped.
func toPlaywright(cookies []session.Cookie) []playwright.OptionalCookie {
	out := make([]playwright.OptionalCookie, 0, len(cookies))
	for _, c := range cookies {
		if c.Domain == "" {
			continue
		}
		path := c.Path
		if path == "" {
			path = "/"
		}

		pwCookie := playwright.OptionalCookie{
			Name:   c.Name,
			Value:  c.Value,
			Domain: playwright.String(c.Domain),
			Path:   playwright.String(path),
		}
		// session cookies (expires -1 or 0) get no expiry at all
		if c.Expires > 0 {
			pwCookie.Expires = playwright.Float(c.Expires)
		}
		if c.HTTPOnly {
			pwCookie.HttpOnly = playwright.Bool(true)
		}
		if c.Secure {
			pwCookie.Secure = playwright.Bool(true)
		}

		switch c.SameSite {
		case "Lax":
			pwCookie.SameSite = playwright.SameSiteAttributeLax
		case "Strict":
			pwCookie.SameSite = playwright.SameSiteAttributeStrict
		case "None":
			pwCookie.SameSite = playwright.SameSiteAttributeNone
		}
		out = append(out, pwCookie)
	}
	return out
}

// fromPlaywright converts cookies read back from a browser context.
func fromPlaywright(cookies []playwright.Cookie) []session.Cookie {
	out := make([]session.Cookie, len(cookies))
	for i, c := range cookies {
		out[i] = session.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HttpOnly,
			Secure:   c.Secure,
		}
		if c.SameSite != nil {
			out[i].SameSite = string(*c.SameSite)
		}
	}
	return out
}
