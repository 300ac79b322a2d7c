package api

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// SearchResponse is one raw aggregator search-response document: the
// itinerary graph, the fare products, and the offers cross-referencing them.
// The pricePlans and offers containers are JSON objects whose declaration
// order is load-bearing for row ordering downstream, so they are decoded into
// insertion-order-preserving maps.
type SearchResponse struct {
	Itineraries []Itinerary                               `json:"itineraries"`
	PricePlans  *orderedmap.OrderedMap[string, PricePlan] `json:"pricePlans,omitempty"`
	Offers      *orderedmap.OrderedMap[string, Offer]     `json:"offers"`
	Passengers  *orderedmap.OrderedMap[string, Passenger] `json:"passengers,omitempty"`
}

// ParseResponse decodes a raw search-response document. Structural problems
// (undecodable JSON, missing required containers) surface as
// MalformedInputError; absent optional fields are treated as no data.
func ParseResponse(data []byte) (*SearchResponse, error) {
	var resp SearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, Malformedf("decoding search response: %v", err)
	}
	if err := resp.Validate(); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Validate checks the required containers. itineraries and offers must be
// present; pricePlans and passengers may legitimately be empty or absent.
func (r *SearchResponse) Validate() error {
	if r.Itineraries == nil {
		return Malformedf("missing itineraries container")
	}
	if r.Offers == nil {
		return Malformedf("missing offers container")
	}
	return nil
}
