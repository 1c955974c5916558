// Package brreg is a read-only client for the Norwegian business registry
// (Enhetsregisteret). Lookups are collapsed with singleflight and rate
// limited so a burst of enrichment requests cannot hammer the public API.
package brreg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"driftpro/internal/shared/apperror"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://data.brreg.no/enhetsregisteret/api"

var (
	orgNumberPattern = regexp.MustCompile(`^\d{9}$`)

	ErrInvalidOrgNumber = apperror.New(
		apperror.CodeInvalidInput,
		"organization number must be exactly 9 digits",
		http.StatusBadRequest,
	)
	ErrCompanyNotFound = apperror.New(
		apperror.CodeNotFound,
		"no company registered under this organization number",
		http.StatusNotFound,
	)
	ErrRegistryUnavailable = apperror.New(
		apperror.CodeUpstreamError,
		"company registry is unavailable",
		http.StatusBadGateway,
	)
)

type Client struct {
	baseURL string
	httpc   *http.Client
	sf      *singleflight.Group
	limiter *rate.Limiter
	logger  *zap.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		sf:      &singleflight.Group{},
		limiter: rate.NewLimiter(rate.Limit(5), 10),
		logger:  zap.L().Named("brreg.client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ValidateOrgNumber checks the 9-digit format. It never touches the network.
func (c *Client) ValidateOrgNumber(value string) bool {
	return orgNumberPattern.MatchString(strings.TrimSpace(value))
}

func (c *Client) GetCompanyInfo(ctx context.Context, orgNumber string) (*CompanyInfo, error) {
	orgNumber = strings.TrimSpace(orgNumber)
	if !c.ValidateOrgNumber(orgNumber) {
		return nil, ErrInvalidOrgNumber
	}

	v, err, _ := c.sf.Do("enhet:"+orgNumber, func() (interface{}, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		var e enhet
		status, err := c.getJSON(ctx, fmt.Sprintf("%s/enheter/%s", c.baseURL, orgNumber), &e)
		if err != nil {
			return nil, err
		}
		if status == http.StatusNotFound {
			return nil, ErrCompanyNotFound
		}
		if status != http.StatusOK {
			c.logger.Warn("registry lookup failed",
				zap.String("org_number", orgNumber),
				zap.Int("status", status),
			)
			return nil, ErrRegistryUnavailable
		}

		return mapEnhet(e), nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*CompanyInfo), nil
}

func (c *Client) SearchCompanies(ctx context.Context, term string) ([]CompanyInfo, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperror.RequiredField("search term")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var page searchPage
	status, err := c.getJSON(ctx, fmt.Sprintf("%s/enheter?navn=%s", c.baseURL, url.QueryEscape(term)), &page)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		c.logger.Warn("registry search failed",
			zap.String("term", term),
			zap.Int("status", status),
		)
		return nil, ErrRegistryUnavailable
	}

	results := make([]CompanyInfo, len(page.Embedded.Enheter))
	for i, e := range page.Embedded.Enheter {
		results[i] = *mapEnhet(e)
	}
	return results, nil
}

// getJSON returns the HTTP status so callers can treat 404 as a domain
// outcome rather than an error. The body is only decoded on 200.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, apperror.Wrap(err, apperror.CodeUpstreamError, "company registry is unavailable", http.StatusBadGateway)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, apperror.Wrap(err, apperror.CodeUpstreamError, "company registry returned a malformed response", http.StatusBadGateway)
	}
	return resp.StatusCode, nil
}

func mapEnhet(e enhet) *CompanyInfo {
	return &CompanyInfo{
		OrgNumber:        e.Organisasjonsnummer,
		Name:             e.Navn,
		OrgForm:          e.Organisasjonsform.Kode,
		Address:          strings.Join(e.Forretningsadresse.Adresse, ", "),
		PostalCode:       e.Forretningsadresse.Postnummer,
		City:             e.Forretningsadresse.Poststed,
		IndustryCode:     e.Naeringskode1.Kode,
		IndustryText:     e.Naeringskode1.Beskrivelse,
		EmployeeCount:    e.AntallAnsatte,
		RegistrationDate: e.RegistreringsdatoEnhet,
		Website:          e.Hjemmeside,
	}
}
