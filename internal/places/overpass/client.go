// Package overpass implements the place provider against the OpenStreetMap
// Overpass API.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tripwise/tripwise/internal/geocode"
	"github.com/tripwise/tripwise/internal/places"
	"github.com/tripwise/tripwise/internal/provider/resilience"
	"github.com/tripwise/tripwise/pkg/geo"
)

const (
	// ProviderName identifies this place provider.
	ProviderName = "overpass"

	// DefaultBaseURL is the public Overpass interpreter endpoint.
	DefaultBaseURL = "https://overpass-api.de/api/interpreter"

	// searchRadiusMeters bounds the area searched around the destination.
	searchRadiusMeters = 25000

	// maxTagsPerInterest limits query fan-out per interest.
	maxTagsPerInterest = 2

	// maxElementsPerTag limits results taken from each tag query.
	maxElementsPerTag = 5

	// maxSpots caps the total result list.
	maxSpots = 20

	// defaultRating is assumed for OSM places, which carry no ratings.
	defaultRating = 4.0
)

// osmTagsByInterest maps planner interest categories to OSM tag queries.
var osmTagsByInterest = map[string][]string{
	"nature":     {"leisure=park", "tourism=zoo"},
	"heritage":   {"tourism=museum", "tourism=attraction"},
	"adventure":  {"tourism=theme_park", "leisure=water_park"},
	"beach":      {"natural=beach", "leisure=beach_resort"},
	"culture":    {"tourism=museum", "tourism=gallery"},
	"food":       {"amenity=restaurant", "amenity=cafe"},
	"hotel":      {"tourism=hotel", "tourism=guest_house"},
	"restaurant": {"amenity=restaurant", "amenity=cafe"},
}

// visit durations in hours by OSM tag.
var visitHoursByTag = map[string]float64{
	"tourism=museum":      2,
	"leisure=park":        3,
	"tourism=zoo":         4,
	"amenity=restaurant":  1,
	"amenity=cafe":        0.5,
	"tourism=hotel":       0,
	"tourism=guest_house": 0,
	"natural=beach":       3,
	"tourism=attraction":  2.5,
	"tourism=theme_park":  5,
	"leisure=water_park":  4,
	"leisure=beach_resort": 3,
	"tourism=gallery":     1.5,
}

// entry costs in currency units by OSM tag.
var costByTag = map[string]float64{
	"tourism=museum":      150,
	"leisure=park":        50,
	"tourism=zoo":         300,
	"amenity=restaurant":  500,
	"amenity=cafe":        300,
	"tourism=hotel":       2500,
	"tourism=guest_house": 1500,
	"natural=beach":       0,
	"tourism=attraction":  200,
	"tourism=theme_park":  800,
	"leisure=water_park":  600,
	"leisure=beach_resort": 400,
	"tourism=gallery":     100,
}

// ClientConfig configures the Overpass place provider.
type ClientConfig struct {
	// BaseURL overrides the Overpass endpoint (used in tests).
	BaseURL string

	// Geocoder resolves destination names to search centers.
	Geocoder geocode.Geocoder

	// HTTPClient is the resilient client to use. Nil builds a default.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client queries the Overpass API for points of interest.
type Client struct {
	baseURL    string
	geocoder   geocode.Geocoder
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates an Overpass place provider.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		baseURL:    baseURL,
		geocoder:   cfg.Geocoder,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Search returns points of interest around the destination for the given
// interests. Hotels and restaurants are always included so the scheduler has
// lodging and meal candidates even when the requester did not ask for them.
func (c *Client) Search(ctx context.Context, destination string, interests []string) ([]places.Spot, error) {
	center, err := c.geocoder.Locate(ctx, destination)
	if err != nil {
		c.logger.Debug().Err(err).Str("destination", destination).
			Msg("geocoding fell back to static coordinates")
	}

	queried := append(append([]string{}, interests...), places.CategoryHotel, places.CategoryRestaurant)

	seen := make(map[string]struct{})
	var spots []places.Spot

	for _, interest := range queried {
		tags, ok := osmTagsByInterest[strings.ToLower(interest)]
		if !ok {
			continue
		}
		if len(tags) > maxTagsPerInterest {
			tags = tags[:maxTagsPerInterest]
		}

		for _, tag := range tags {
			elements, err := c.queryTag(ctx, center, tag)
			if err != nil {
				// One failing tag query must not sink the whole search.
				c.logger.Warn().Err(err).Str("tag", tag).Msg("overpass tag query failed")
				continue
			}

			for _, el := range elements {
				name := el.Tags["name"]
				if name == "" {
					continue
				}
				if _, dup := seen[name]; dup {
					continue
				}

				point, ok := el.point()
				if !ok {
					continue
				}

				seen[name] = struct{}{}
				spots = append(spots, places.Spot{
					Name:          name,
					Category:      strings.ToLower(interest),
					Location:      point,
					AvgVisitHours: visitHours(tag),
					EstimatedCost: entryCost(tag),
					Rating:        defaultRating,
					Tags:          []string{tag},
				})

				if len(spots) >= maxSpots {
					return spots, nil
				}
			}
		}
	}

	return spots, nil
}

// queryTag runs one Overpass query for a single tag around the center.
func (c *Client) queryTag(ctx context.Context, center geo.Point, tag string) ([]element, error) {
	query := fmt.Sprintf(`[out:json][timeout:25];
(
  node[%[1]s](around:%[2]d,%.4[3]f,%.4[4]f);
  way[%[1]s](around:%[2]d,%.4[3]f,%.4[4]f);
);
out center %[5]d;`, tag, searchRadiusMeters, center.Lat, center.Lon, maxElementsPerTag)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader("data="+query))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", places.ErrProviderUnavailable, resp.StatusCode)
	}

	var body overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	elements := body.Elements
	if len(elements) > maxElementsPerTag {
		elements = elements[:maxElementsPerTag]
	}
	return elements, nil
}

type overpassResponse struct {
	Elements []element `json:"elements"`
}

type element struct {
	Type   string            `json:"type"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *elementCenter    `json:"center,omitempty"`
	Tags   map[string]string `json:"tags"`
}

type elementCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// point returns the element coordinate: nodes carry it directly, ways carry
// a computed center.
func (e element) point() (geo.Point, bool) {
	if e.Type == "node" {
		return geo.Point{Lat: e.Lat, Lon: e.Lon}, true
	}
	if e.Center != nil {
		return geo.Point{Lat: e.Center.Lat, Lon: e.Center.Lon}, true
	}
	return geo.Point{}, false
}

func visitHours(tag string) float64 {
	if hours, ok := visitHoursByTag[tag]; ok {
		return hours
	}
	return 2
}

func entryCost(tag string) float64 {
	if cost, ok := costByTag[tag]; ok {
		return cost
	}
	return 100
}
