// Package api holds the wire contracts shared by the offer index, the
// rate-matrix generator and the offer-set merger. Field names and nesting
// mirror the aggregator search-response format exactly, since downstream
// consumers read the enriched objects by field name.
package api

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Segment is one flown leg of an itinerary. Immutable once parsed.
// Timestamps stay strings so a response serializes back byte-compatibly.
type Segment struct {
	Operator      Operator `json:"operator"`
	Origin        Location `json:"origin"`
	Destination   Location `json:"destination"`
	DepartureTime string   `json:"departureTime"`
	ArrivalTime   string   `json:"arrivalTime"`
	SegmentID     string   `json:"segmentId"`
}

// Operator identifies the carrier flying a segment.
type Operator struct {
	OperatorType string `json:"operatorType"`
	IataCode     string `json:"iataCode"`
	FlightNumber string `json:"flightNumber"`
}

// Location is an origin or destination endpoint.
type Location struct {
	LocationType string `json:"locationType"`
	IataCode     string `json:"iataCode"`
}

// Itinerary is an ordered sequence of segments forming one directional
// journey, keyed by itinId within a response.
type Itinerary struct {
	ItinID   string    `json:"itinId"`
	Segments []Segment `json:"segments"`
}

// Clone returns a copy detached from the receiver's segment storage.
func (i Itinerary) Clone() Itinerary {
	c := i
	c.Segments = slices.Clone(i.Segments)
	return c
}

// PricePlan is a named fare product (fare family). PricePlanID is injected by
// the index; raw responses key plans by identifier instead.
type PricePlan struct {
	PricePlanID     string            `json:"pricePlanId,omitempty"`
	Name            string            `json:"name"`
	Amenities       []string          `json:"amenities"`
	CheckedBaggages *BaggageAllowance `json:"checkedBaggages,omitempty"`
}

// BaggageAllowance is the checked baggage entitlement of a fare product.
type BaggageAllowance struct {
	Quantity int `json:"quantity"`
}

// Clone returns a copy detached from the receiver's storage.
func (p PricePlan) Clone() PricePlan {
	c := p
	c.Amenities = slices.Clone(p.Amenities)
	if p.CheckedBaggages != nil {
		b := *p.CheckedBaggages
		c.CheckedBaggages = &b
	}
	return c
}

// Price carries the monetary fields of an offer. Amounts are decimal values
// carried as strings; they are never held in binary floating point.
type Price struct {
	Currency   string `json:"currency"`
	Public     string `json:"public"`
	Commission string `json:"commission"`
	Taxes      string `json:"taxes"`
}

// Add sums two currency-matched prices field by field. A currency mismatch is
// reported with ErrCurrencyMismatch so callers can treat it as a skippable
// pairing rather than a malformed document.
func (p Price) Add(other Price) (Price, error) {
	if p.Currency != other.Currency {
		return Price{}, fmt.Errorf("cannot add %s to %s: %w", other.Currency, p.Currency, ErrCurrencyMismatch)
	}
	public, err := sumAmounts(p.Public, other.Public)
	if err != nil {
		return Price{}, fmt.Errorf("public: %w", err)
	}
	commission, err := sumAmounts(p.Commission, other.Commission)
	if err != nil {
		return Price{}, fmt.Errorf("commission: %w", err)
	}
	taxes, err := sumAmounts(p.Taxes, other.Taxes)
	if err != nil {
		return Price{}, fmt.Errorf("taxes: %w", err)
	}
	return Price{Currency: p.Currency, Public: public, Commission: commission, Taxes: taxes}, nil
}

// PublicAmount parses the public fare as an exact decimal. An absent amount
// counts as zero.
func (p Price) PublicAmount() (decimal.Decimal, error) {
	return parseAmount(p.Public)
}

func sumAmounts(a, b string) (string, error) {
	da, err := parseAmount(a)
	if err != nil {
		return "", err
	}
	db, err := parseAmount(b)
	if err != nil {
		return "", err
	}
	return da.Add(db).StringFixed(2), nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal amount %q: %w", s, err)
	}
	return d, nil
}

// OfferItem maps an offer-item identifier to its passenger references.
type OfferItem struct {
	PassengerReferences string `json:"passengerReferences"`
}

// PricePlanReference lists the itineraries a fare product applies to within
// one offer.
type PricePlanReference struct {
	Flights []string `json:"flights"`
}

// Clone returns a copy detached from the receiver's flights storage.
func (r PricePlanReference) Clone() PricePlanReference {
	c := r
	c.Flights = slices.Clone(r.Flights)
	return c
}

// Offer is the purchasable unit. OfferID is injected by the index; raw
// responses key offers by identifier instead. Its itinerary coverage is
// derived by enumerating PricePlansReferences, never stored directly.
type Offer struct {
	OfferID              string                                             `json:"offerId,omitempty"`
	Expiration           string                                             `json:"expiration,omitempty"`
	Price                Price                                              `json:"price"`
	OfferItems           *orderedmap.OrderedMap[string, OfferItem]          `json:"offerItems,omitempty"`
	PricePlansReferences *orderedmap.OrderedMap[string, PricePlanReference] `json:"pricePlansReferences"`
}

// Clone returns a deep copy so callers can hold and mutate an offer without
// reaching into index storage.
func (o Offer) Clone() Offer {
	c := o
	c.OfferItems = cloneOrdered(o.OfferItems, func(v OfferItem) OfferItem { return v })
	c.PricePlansReferences = cloneOrdered(o.PricePlansReferences, PricePlanReference.Clone)
	return c
}

// Passenger describes one traveler referenced by offer items.
type Passenger struct {
	Type  string `json:"type"`
	Count int    `json:"count,omitempty"`
}

func cloneOrdered[V any](m *orderedmap.OrderedMap[string, V], cloneValue func(V) V) *orderedmap.OrderedMap[string, V] {
	if m == nil {
		return nil
	}
	c := orderedmap.New[string, V]()
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		c.Set(pair.Key, cloneValue(pair.Value))
	}
	return c
}
