package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	AmadeusTestURL       = "https://test.api.amadeus.com"
	AmadeusProductionURL = "https://api.amadeus.com"

	amadeusTokenPath        = "/v1/security/oauth2/token"
	amadeusFlightOffersPath = "/v2/shopping/flight-offers"
	amadeusLocationsPath    = "/v1/reference-data/locations"
	amadeusPricingPath      = "/v1/shopping/flight-offers/pricing"

	defaultAmadeusTimeout = 10 * time.Second
)

type AmadeusConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	Timeout      time.Duration
}

// AmadeusProvider talks to the Amadeus Self-Service REST APIs. Access tokens
// are obtained with the client-credentials grant and refreshed by the oauth2
// transport.
type AmadeusProvider struct {
	baseURL    string
	httpClient *http.Client
}

func NewAmadeusProvider(cfg AmadeusConfig) (*AmadeusProvider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = AmadeusTestURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultAmadeusTimeout
	}

	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     baseURL + amadeusTokenPath,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: timeout})
	httpClient := cc.Client(tokenCtx)
	httpClient.Timeout = timeout

	return &AmadeusProvider{
		baseURL:    baseURL,
		httpClient: httpClient,
	}, nil
}

func (p *AmadeusProvider) Name() string {
	return "amadeus"
}

func (p *AmadeusProvider) SearchFlights(ctx context.Context, q FlightQuery) (*OfferBatch, error) {
	params := url.Values{}
	params.Set("originLocationCode", strings.ToUpper(q.Origin))
	params.Set("destinationLocationCode", strings.ToUpper(q.Destination))
	params.Set("departureDate", q.DepartDate)
	if q.ReturnDate != nil && *q.ReturnDate != "" {
		params.Set("returnDate", *q.ReturnDate)
	}
	adults := q.Adults
	if adults <= 0 {
		adults = 1
	}
	params.Set("adults", strconv.Itoa(adults))
	if q.Max > 0 {
		params.Set("max", strconv.Itoa(q.Max))
	}
	if q.Currency != "" {
		params.Set("currencyCode", q.Currency)
	}

	var resp flightOffersResponse
	if err := p.get(ctx, amadeusFlightOffersPath, params, &resp); err != nil {
		return nil, err
	}

	return &OfferBatch{
		Offers:       resp.Data,
		Dictionaries: resp.Dictionaries,
	}, nil
}

func (p *AmadeusProvider) SearchAirports(ctx context.Context, keyword string) ([]LocationRecord, error) {
	params := url.Values{}
	params.Set("keyword", strings.ToUpper(strings.TrimSpace(keyword)))
	params.Set("subType", "CITY,AIRPORT")

	var resp locationsResponse
	if err := p.get(ctx, amadeusLocationsPath, params, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// PriceOffer re-prices a previously returned offer. The offer is posted back
// exactly as the vendor sent it.
func (p *AmadeusProvider) PriceOffer(ctx context.Context, offer FlightOffer) (*OfferBatch, error) {
	body, err := json.Marshal(pricingEnvelope{
		Data: pricingData{
			Type:         "flight-offers-pricing",
			FlightOffers: []FlightOffer{offer},
		},
	})
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Kind: KindPermanent, Err: fmt.Errorf("encoding pricing request: %w", err)}
	}

	var resp pricingResponse
	if err := p.do(ctx, http.MethodPost, amadeusPricingPath, nil, body, &resp); err != nil {
		return nil, err
	}
	return &OfferBatch{
		Offers:       resp.Data.FlightOffers,
		Dictionaries: resp.Dictionaries,
	}, nil
}

func (p *AmadeusProvider) get(ctx context.Context, path string, query url.Values, result any) error {
	return p.do(ctx, http.MethodGet, path, query, nil, result)
}

func (p *AmadeusProvider) do(ctx context.Context, method, path string, query url.Values, body []byte, result any) error {
	start := time.Now()

	u, err := url.Parse(p.baseURL + path)
	if err != nil {
		return &ProviderError{Provider: p.Name(), Kind: KindPermanent, Err: fmt.Errorf("parsing URL: %w", err)}
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return &ProviderError{Provider: p.Name(), Kind: KindPermanent, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/vnd.amadeus+json")
		req.Header.Set("X-HTTP-Method-Override", "GET")
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		slog.Debug("vendor request failed",
			slog.String("provider", p.Name()),
			slog.String("path", path),
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return p.transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		slog.Debug("vendor request returned error",
			slog.String("provider", p.Name()),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return p.parseError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &ProviderError{
			Provider:   p.Name(),
			Kind:       KindPermanent,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decoding response: %w", err),
		}
	}

	slog.Debug("vendor request completed",
		slog.String("provider", p.Name()),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}

// transportError classifies failures that never produced an API response.
// A rejected token request is classified by its status like any API error.
func (p *AmadeusProvider) transportError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		status := retrieveErr.Response.StatusCode
		return &ProviderError{
			Provider:   p.Name(),
			Kind:       KindForStatus(status),
			StatusCode: status,
			Title:      "token request rejected",
			Detail:     strings.TrimSpace(retrieveErr.ErrorDescription),
			Err:        err,
		}
	}
	return NewProviderError(p.Name(), err)
}

func (p *AmadeusProvider) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var errResp amadeusErrorResponse
	if json.Unmarshal(body, &errResp) == nil && len(errResp.Errors) > 0 {
		first := errResp.Errors[0]
		code := ""
		if first.Code != 0 {
			code = strconv.Itoa(first.Code)
		}
		return NewStatusError(p.Name(), resp.StatusCode, code, first.Title, first.Detail)
	}
	return NewStatusError(p.Name(), resp.StatusCode, "", http.StatusText(resp.StatusCode), strings.TrimSpace(string(body)))
}
