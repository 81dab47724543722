// Package geocode turns Dutch postcode + house number pairs into coordinates
// and memoizes the results.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"buurtmarkt/internal/domain/entities"
)

// DefaultTimeout bounds a single geocoder call.
const DefaultTimeout = 8 * time.Second

// DefaultPDOKBaseURL is the public Locatieserver free-text search endpoint.
const DefaultPDOKBaseURL = "https://api.pdok.nl/bzk/locatieserver/search/v3_1/free"

// Client resolves a well-formed address. Callers validate the query first;
// a Client performs exactly one outbound call per Geocode and never retries.
//
// Errors wrap entities.ErrNotFound, entities.ErrTimeout or
// entities.ErrServiceError.
type Client interface {
	Geocode(ctx context.Context, q entities.AddressQuery) (entities.GeocodeResult, error)
}

// PDOKClient is a Client backed by the PDOK Locatieserver, the Dutch
// government's address database.
type PDOKClient struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	log        *zap.Logger
}

// NewPDOKClient creates a client. An empty baseURL selects the public
// endpoint and a zero timeout selects DefaultTimeout.
func NewPDOKClient(baseURL string, timeout time.Duration, log *zap.Logger) *PDOKClient {
	if baseURL == "" {
		baseURL = DefaultPDOKBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PDOKClient{
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: &http.Client{},
		log:        log.Named("pdok"),
	}
}

// pdokResponse mirrors the relevant parts of the Locatieserver payload.
type pdokResponse struct {
	Response struct {
		NumFound int `json:"numFound"`
		Docs     []struct {
			Weergavenaam string `json:"weergavenaam"`
			CentroideLL  string `json:"centroide_ll"`
		} `json:"docs"`
	} `json:"response"`
}

// Geocode looks up one address. The call is bounded by the client timeout
// in addition to any deadline already on ctx.
func (c *PDOKClient) Geocode(ctx context.Context, q entities.AddressQuery) (entities.GeocodeResult, error) {
	q = q.Normalize()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("q", fmt.Sprintf("postcode:%s and huisnummer:%s", q.Postcode, q.HouseNumber))
	params.Set("fq", "type:adres")
	params.Set("fl", "weergavenaam,centroide_ll")
	params.Set("rows", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return entities.GeocodeResult{}, fmt.Errorf("%w: build request: %v", entities.ErrServiceError, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return entities.GeocodeResult{}, fmt.Errorf("%w: %s after %s", entities.ErrTimeout, q.Key(), c.timeout)
		}
		return entities.GeocodeResult{}, fmt.Errorf("%w: %v", entities.ErrServiceError, err)
	}
	defer resp.Body.Close()

	c.log.Debug("lookup finished",
		zap.String("key", q.Key()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return entities.GeocodeResult{}, fmt.Errorf("%w: unexpected status %d", entities.ErrServiceError, resp.StatusCode)
	}

	var payload pdokResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		if isTimeout(ctx, err) {
			return entities.GeocodeResult{}, fmt.Errorf("%w: reading response for %s", entities.ErrTimeout, q.Key())
		}
		return entities.GeocodeResult{}, fmt.Errorf("%w: decode response: %v", entities.ErrServiceError, err)
	}

	if payload.Response.NumFound == 0 || len(payload.Response.Docs) == 0 {
		return entities.GeocodeResult{}, fmt.Errorf("%w: %s", entities.ErrNotFound, q.Key())
	}

	doc := payload.Response.Docs[0]
	coord, err := parsePoint(doc.CentroideLL)
	if err != nil {
		return entities.GeocodeResult{}, fmt.Errorf("%w: %v", entities.ErrServiceError, err)
	}

	return entities.GeocodeResult{
		Coordinate:       coord,
		FormattedAddress: doc.Weergavenaam,
	}, nil
}

// parsePoint parses a WKT point "POINT(lng lat)" into a Coordinate.
func parsePoint(wkt string) (entities.Coordinate, error) {
	s := strings.TrimSpace(wkt)
	if !strings.HasPrefix(strings.ToUpper(s), "POINT(") || !strings.HasSuffix(s, ")") {
		return entities.Coordinate{}, fmt.Errorf("malformed point %q", wkt)
	}
	fields := strings.Fields(s[len("POINT(") : len(s)-1])
	if len(fields) != 2 {
		return entities.Coordinate{}, fmt.Errorf("malformed point %q", wkt)
	}
	lng, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return entities.Coordinate{}, fmt.Errorf("malformed longitude in %q", wkt)
	}
	lat, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return entities.Coordinate{}, fmt.Errorf("malformed latitude in %q", wkt)
	}
	coord := entities.NewCoordinate(lat, lng)
	if !coord.Valid() {
		return entities.Coordinate{}, fmt.Errorf("point out of range %q", wkt)
	}
	return coord, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
