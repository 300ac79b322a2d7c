// Package offers indexes one aggregator search response and answers the
// cross-reference queries the shopping flow needs: which itineraries an offer
// covers, which fare families price it, and which other offers sell the same
// itinerary combination.
package offers

import (
	"github.com/samber/lo"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"fareindex/pkg/api"
)

// Wrapper owns the lookup indices over a single search response. It is built
// once, read-only afterward, and therefore safe for concurrent readers. All
// query results are detached copies; mutating them cannot corrupt the
// indices.
type Wrapper struct {
	itineraries map[string]api.Itinerary
	pricePlans  map[string]api.PricePlan
	// offers preserves the response's declaration order, which drives
	// alternative-offer and rate-matrix row ordering.
	offers *orderedmap.OrderedMap[string, api.Offer]
}

// New builds the itinerary, price-plan and offer indices in a single pass
// over resp. Plans and offers are enriched with their own identifiers so the
// objects returned by queries are self-describing. It fails only when a
// required container is absent; missing optional fields are no data, not
// errors.
func New(resp *api.SearchResponse) (*Wrapper, error) {
	if resp == nil {
		return nil, api.Malformedf("nil search response")
	}
	if err := resp.Validate(); err != nil {
		return nil, err
	}

	w := &Wrapper{
		itineraries: make(map[string]api.Itinerary, len(resp.Itineraries)),
		pricePlans:  make(map[string]api.PricePlan),
		offers:      orderedmap.New[string, api.Offer](),
	}
	for _, itin := range resp.Itineraries {
		w.itineraries[itin.ItinID] = itin.Clone()
	}
	if resp.PricePlans != nil {
		for pair := resp.PricePlans.Oldest(); pair != nil; pair = pair.Next() {
			plan := pair.Value.Clone()
			plan.PricePlanID = pair.Key
			w.pricePlans[pair.Key] = plan
		}
	}
	for pair := resp.Offers.Oldest(); pair != nil; pair = pair.Next() {
		offer := pair.Value.Clone()
		offer.OfferID = pair.Key
		w.offers.Set(pair.Key, offer)
	}
	return w, nil
}

// Offer returns the offer enriched with its offerId, or nil when the
// identifier is unknown. Unknown identifiers are a routine outcome (stale
// offer after cache expiry), never an error.
func (w *Wrapper) Offer(offerID string) *api.Offer {
	offer, ok := w.offers.Get(offerID)
	if !ok {
		return nil
	}
	c := offer.Clone()
	return &c
}

// Itinerary returns the itinerary enriched with its itinId, or nil when the
// identifier is unknown.
func (w *Wrapper) Itinerary(itinID string) *api.Itinerary {
	itin, ok := w.itineraries[itinID]
	if !ok {
		return nil
	}
	c := itin.Clone()
	return &c
}

// OfferItineraries returns the itineraries an offer covers, in the offer's
// pricePlansReferences declaration order. It returns (nil, nil) for an
// unknown offer and MalformedInputError when the offer references an
// itinerary absent from the response.
func (w *Wrapper) OfferItineraries(offerID string) ([]api.Itinerary, error) {
	offer, ok := w.offers.Get(offerID)
	if !ok {
		return nil, nil
	}
	ids := coveredItineraryIDs(offer)
	itineraries := make([]api.Itinerary, 0, len(ids))
	for _, id := range ids {
		itin, ok := w.itineraries[id]
		if !ok {
			return nil, api.Malformedf("offer %s references unknown itinerary %s", offerID, id)
		}
		itineraries = append(itineraries, itin.Clone())
	}
	return itineraries, nil
}

// OfferPricePlans returns the fare products an offer references, enriched
// with pricePlanId, in reference order. It returns (nil, nil) for an unknown
// offer and MalformedInputError when a referenced plan is absent from the
// response.
func (w *Wrapper) OfferPricePlans(offerID string) ([]api.PricePlan, error) {
	offer, ok := w.offers.Get(offerID)
	if !ok {
		return nil, nil
	}
	if offer.PricePlansReferences == nil {
		return []api.PricePlan{}, nil
	}
	plans := make([]api.PricePlan, 0, offer.PricePlansReferences.Len())
	for pair := offer.PricePlansReferences.Oldest(); pair != nil; pair = pair.Next() {
		plan, ok := w.pricePlans[pair.Key]
		if !ok {
			return nil, api.Malformedf("offer %s references unknown price plan %s", offerID, pair.Key)
		}
		plans = append(plans, plan.Clone())
	}
	return plans, nil
}

// AlternativeOffers returns every offer in the response, the input offer
// included, whose covered-itinerary set equals that of offerID. The result is
// the fare-family comparison set for one physical flight combination. An
// unknown offer covers no itineraries, and by convention no offer shares an
// empty set, so the result is empty.
func (w *Wrapper) AlternativeOffers(offerID string) []api.Offer {
	target, ok := w.offers.Get(offerID)
	if !ok {
		return []api.Offer{}
	}
	want := coveredItineraryIDs(target)
	matches := []api.Offer{}
	for pair := w.offers.Oldest(); pair != nil; pair = pair.Next() {
		got := coveredItineraryIDs(pair.Value)
		if len(got) == len(want) && lo.Every(got, want) {
			matches = append(matches, pair.Value.Clone())
		}
	}
	return matches
}

// offerItineraryIDs derives the set of itinerary identifiers an offer
// covers, duplicate-free, in first-reference order. Unknown offers yield nil.
func (w *Wrapper) offerItineraryIDs(offerID string) []string {
	offer, ok := w.offers.Get(offerID)
	if !ok {
		return nil
	}
	return coveredItineraryIDs(offer)
}

func coveredItineraryIDs(offer api.Offer) []string {
	if offer.PricePlansReferences == nil {
		return nil
	}
	var ids []string
	for pair := offer.PricePlansReferences.Oldest(); pair != nil; pair = pair.Next() {
		ids = append(ids, pair.Value.Flights...)
	}
	return lo.Uniq(ids)
}
