// Package merge combines two one-way search-response documents into one
// round-trip document. Aggregators that answer outbound and inbound searches
// separately leave the pairing to us: every (outbound offer, inbound offer)
// pair becomes one synthetic round-trip offer with summed pricing. The
// merged document is a plain search response; it is re-indexed like any
// other and carries no special query logic.
package merge

import (
	"errors"
	"time"

	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"fareindex/pkg/api"
)

// pairNamespace seeds the name-based UUIDs for merged offers. Fixed so the
// same (outbound, inbound) pair always yields the same identifier; downstream
// caches key off offer identifiers.
var pairNamespace = uuid.MustParse("2d3a9c6e-1f74-4b08-9a5d-c14c5be0a77d")

// SkippedPair records a pairing that could not be priced because the two
// source offers are denominated in different currencies. Skipped pairings are
// reported, never silently dropped.
type SkippedPair struct {
	OutboundOfferID  string `json:"outboundOfferId"`
	InboundOfferID   string `json:"inboundOfferId"`
	OutboundCurrency string `json:"outboundCurrency"`
	InboundCurrency  string `json:"inboundCurrency"`
}

// Result carries the merged document together with the pairings that had to
// be skipped.
type Result struct {
	Response *api.SearchResponse
	Skipped  []SkippedPair
}

// Combine builds the merged round-trip document from an outbound and an
// inbound one-way response. Neither input is mutated. Itinerary and
// price-plan identifiers are assumed namespaced distinctly per source; a
// collision across the two documents is a MalformedInputError.
func Combine(outbound, inbound *api.SearchResponse) (*Result, error) {
	if outbound == nil || inbound == nil {
		return nil, api.Malformedf("nil search response")
	}
	if err := outbound.Validate(); err != nil {
		return nil, err
	}
	if err := inbound.Validate(); err != nil {
		return nil, err
	}

	merged := &api.SearchResponse{
		Itineraries: make([]api.Itinerary, 0, len(outbound.Itineraries)+len(inbound.Itineraries)),
		PricePlans:  orderedmap.New[string, api.PricePlan](),
		Offers:      orderedmap.New[string, api.Offer](),
	}

	seenItins := make(map[string]struct{})
	for _, doc := range []*api.SearchResponse{outbound, inbound} {
		for _, itin := range doc.Itineraries {
			if _, dup := seenItins[itin.ItinID]; dup {
				return nil, api.Malformedf("itinerary identifier %s present in both responses", itin.ItinID)
			}
			seenItins[itin.ItinID] = struct{}{}
			merged.Itineraries = append(merged.Itineraries, itin.Clone())
		}
		if doc.PricePlans != nil {
			for pair := doc.PricePlans.Oldest(); pair != nil; pair = pair.Next() {
				if _, dup := merged.PricePlans.Get(pair.Key); dup {
					return nil, api.Malformedf("price plan identifier %s present in both responses", pair.Key)
				}
				merged.PricePlans.Set(pair.Key, pair.Value.Clone())
			}
		}
	}
	merged.Passengers = mergePassengers(outbound, inbound)

	var skipped []SkippedPair
	for out := outbound.Offers.Oldest(); out != nil; out = out.Next() {
		for in := inbound.Offers.Oldest(); in != nil; in = in.Next() {
			price, err := out.Value.Price.Add(in.Value.Price)
			if errors.Is(err, api.ErrCurrencyMismatch) {
				skipped = append(skipped, SkippedPair{
					OutboundOfferID:  out.Key,
					InboundOfferID:   in.Key,
					OutboundCurrency: out.Value.Price.Currency,
					InboundCurrency:  in.Value.Price.Currency,
				})
				continue
			}
			if err != nil {
				return nil, api.Malformedf("pricing pair %s/%s: %v", out.Key, in.Key, err)
			}
			refs, err := mergePlanReferences(out.Value, in.Value)
			if err != nil {
				return nil, err
			}
			merged.Offers.Set(MergedOfferID(out.Key, in.Key), api.Offer{
				Expiration:           earlierExpiration(out.Value.Expiration, in.Value.Expiration),
				Price:                price,
				OfferItems:           mergeOfferItems(out.Value, in.Value),
				PricePlansReferences: refs,
			})
		}
	}

	return &Result{Response: merged, Skipped: skipped}, nil
}

// MergedOfferID derives the identifier of the merged offer for one
// (outbound, inbound) offer pair. Name-based, so it is unique per pair and
// reproducible from the same pair.
func MergedOfferID(outboundOfferID, inboundOfferID string) string {
	return uuid.NewSHA1(pairNamespace, []byte(outboundOfferID+"+"+inboundOfferID)).String()
}

func mergePlanReferences(out, in api.Offer) (*orderedmap.OrderedMap[string, api.PricePlanReference], error) {
	refs := orderedmap.New[string, api.PricePlanReference]()
	for _, offer := range []api.Offer{out, in} {
		if offer.PricePlansReferences == nil {
			continue
		}
		for pair := offer.PricePlansReferences.Oldest(); pair != nil; pair = pair.Next() {
			if _, dup := refs.Get(pair.Key); dup {
				return nil, api.Malformedf("price plan reference %s present in both paired offers", pair.Key)
			}
			refs.Set(pair.Key, pair.Value.Clone())
		}
	}
	return refs, nil
}

func mergeOfferItems(out, in api.Offer) *orderedmap.OrderedMap[string, api.OfferItem] {
	if out.OfferItems == nil && in.OfferItems == nil {
		return nil
	}
	items := orderedmap.New[string, api.OfferItem]()
	for _, offer := range []api.Offer{out, in} {
		if offer.OfferItems == nil {
			continue
		}
		for pair := offer.OfferItems.Oldest(); pair != nil; pair = pair.Next() {
			items.Set(pair.Key, pair.Value)
		}
	}
	return items
}

// mergePassengers unions the traveler lists. The same travelers appear in
// both one-way searches, so colliding references keep the outbound entry.
func mergePassengers(outbound, inbound *api.SearchResponse) *orderedmap.OrderedMap[string, api.Passenger] {
	if outbound.Passengers == nil && inbound.Passengers == nil {
		return nil
	}
	passengers := orderedmap.New[string, api.Passenger]()
	for _, doc := range []*api.SearchResponse{outbound, inbound} {
		if doc.Passengers == nil {
			continue
		}
		for pair := doc.Passengers.Oldest(); pair != nil; pair = pair.Next() {
			if _, dup := passengers.Get(pair.Key); !dup {
				passengers.Set(pair.Key, pair.Value)
			}
		}
	}
	return passengers
}

// earlierExpiration picks the first of the two source expirations to lapse;
// the merged offer is only purchasable while both halves are. Unparseable or
// absent timestamps fall back to the outbound value.
func earlierExpiration(out, in string) string {
	if out == "" {
		return in
	}
	if in == "" {
		return out
	}
	outAt, errOut := time.Parse(time.RFC3339, out)
	inAt, errIn := time.Parse(time.RFC3339, in)
	if errOut != nil || errIn != nil {
		return out
	}
	if inAt.Before(outAt) {
		return in
	}
	return out
}
