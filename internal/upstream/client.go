// Package upstream talks to the BuscaCursos catalog site. The site sits
// behind Cloudflare-style anti-bot checks, so the client has to look like a
// real browser at the TLS/HTTP level and keep looking like the same browser
// for the whole session: one resty client, one cookie jar, one fixed
// user-agent. Rebuilding the client (and with it the fingerprint) mid-session
// is what gets sessions blocked.
package upstream

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	appErrors "github.com/cristianvalmo/buscacursos-api/pkg/errors"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

const vacanciesPath = "/informacionVacReserva.ajax.php"

// Client issues catalog requests through a single fingerprinted session.
// It fails fast: no retries live here.
type Client struct {
	http    *resty.Client
	baseURL *url.URL
}

// NewClient builds the session. rateLimit caps outbound requests per second
// to stay inside the upstream's anti-bot tolerance.
func NewClient(baseURL string, timeout time.Duration, rateLimit float64) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream base url: %w", err)
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(baseURL)

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)

	httpClient.SetHeader("user-agent", userAgent)
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(parsed.Hostname()))
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient.SetTimeout(timeout)

	if rateLimit <= 0 {
		rateLimit = 2
	}
	// max burst >= limit just means no request is ever dropped, only delayed
	limiter := rate.NewLimiter(rate.Limit(rateLimit), int(rateLimit))
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	return &Client{http: httpClient, baseURL: parsed}, nil
}

// SearchCourses fetches the results page for a course code and term and
// returns the raw HTML.
func (c *Client) SearchCourses(ctx context.Context, code, term string) (string, error) {
	return c.get(ctx, "/", map[string]string{
		"cxml_semestre":                        term,
		"cxml_sigla":                           strings.ToUpper(code),
		"cxml_nrc":                             "",
		"cxml_nombre":                          "",
		"cxml_profesor":                        "",
		"cxml_campus":                          "",
		"cxml_unidad_academica":                "",
		"cxml_horario_tipo_busqueda":           "si_tenga",
		"cxml_horario_tipo_busqueda_actividad": "",
	})
}

// SemestersPage fetches the bare search page, whose term dropdown lists the
// available semesters.
func (c *Client) SemestersPage(ctx context.Context) (string, error) {
	return c.get(ctx, "/", nil)
}

// VacanciesPage fetches the reserved-vacancy detail fragment for one NRC.
func (c *Client) VacanciesPage(ctx context.Context, nrc, term string) (string, error) {
	return c.get(ctx, vacanciesPath, map[string]string{
		"nrc":      nrc,
		"termcode": term,
	})
}

func (c *Client) get(ctx context.Context, path string, params map[string]string) (string, error) {
	req := c.http.R().SetContext(ctx)
	if params != nil {
		req.SetQueryParams(params)
	}

	resp, err := req.Get(path)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrUpstreamUnreachable.Code,
			appErrors.ErrUpstreamUnreachable.Status, appErrors.ErrUpstreamUnreachable.Message)
	}

	body := resp.String()
	if resp.StatusCode() != 200 {
		return "", appErrors.Clone(appErrors.ErrUpstreamBlocked,
			fmt.Sprintf("course catalog answered HTTP %d", resp.StatusCode()))
	}
	if isChallenge(body) {
		return "", appErrors.ErrUpstreamBlocked
	}

	return body, nil
}

// isChallenge recognises the Cloudflare interstitial by its body markers.
func isChallenge(body string) bool {
	return strings.Contains(body, "Just a moment") && strings.Contains(body, "Cloudflare")
}
