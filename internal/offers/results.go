package offers

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"fareindex/pkg/api"
)

// SortType selects the ordering of search-result trip options.
type SortType string

const (
	SortPrice    SortType = "PRICE"
	SortDuration SortType = "DURATION"
)

// Filters narrows the trip options presented to the shopper.
type Filters struct {
	// MaxStops drops options where any covered itinerary has more stops.
	MaxStops *int
	// MaxPrice drops options whose best public fare exceeds this decimal
	// amount (compared exactly, not as floats).
	MaxPrice *string
}

// TripOption is one search-result card: a distinct itinerary combination
// with the cheapest offer covering it.
type TripOption struct {
	Offer       api.Offer       `json:"bestoffer"`
	Itineraries []api.Itinerary `json:"itineraries"`
	// OfferCount is the number of offers selling this combination, i.e. the
	// size of the fare-family comparison set.
	OfferCount int `json:"offerCount"`
}

type tripGroup struct {
	bestOfferID string
	bestPrice   decimal.Decimal
	segments    int
	count       int
}

// SearchResults groups the response's offers by covered itinerary set, picks
// the cheapest offer per group, applies filters and sorts. Groups appear in
// first-offer-appearance order before sorting; price ties keep that order, so
// the listing is reproducible for identical input.
func (w *Wrapper) SearchResults(sortBy SortType, filters *Filters) ([]TripOption, error) {
	var maxPrice *decimal.Decimal
	if filters != nil && filters.MaxPrice != nil {
		d, err := decimal.NewFromString(*filters.MaxPrice)
		if err != nil {
			return nil, api.Malformedf("invalid max price filter %q: %v", *filters.MaxPrice, err)
		}
		maxPrice = &d
	}

	groups := map[string]*tripGroup{}
	var order []string
	for pair := w.offers.Oldest(); pair != nil; pair = pair.Next() {
		ids := coveredItineraryIDs(pair.Value)
		if len(ids) == 0 {
			continue
		}
		price, err := pair.Value.Price.PublicAmount()
		if err != nil {
			return nil, api.Malformedf("offer %s: %v", pair.Key, err)
		}
		key := groupKey(ids)
		group, ok := groups[key]
		if !ok {
			groups[key] = &tripGroup{bestOfferID: pair.Key, bestPrice: price, count: 1}
			order = append(order, key)
			continue
		}
		group.count++
		if price.LessThan(group.bestPrice) {
			group.bestOfferID = pair.Key
			group.bestPrice = price
		}
	}

	type scoredOption struct {
		option TripOption
		group  *tripGroup
	}
	scored := make([]scoredOption, 0, len(order))
	for _, key := range order {
		group := groups[key]
		if maxPrice != nil && group.bestPrice.GreaterThan(*maxPrice) {
			continue
		}
		itineraries, err := w.OfferItineraries(group.bestOfferID)
		if err != nil {
			return nil, err
		}
		if filters != nil && filters.MaxStops != nil && exceedsStops(itineraries, *filters.MaxStops) {
			continue
		}
		for _, itin := range itineraries {
			group.segments += len(itin.Segments)
		}
		best := w.Offer(group.bestOfferID)
		scored = append(scored, scoredOption{
			option: TripOption{Offer: *best, Itineraries: itineraries, OfferCount: group.count},
			group:  group,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		switch sortBy {
		case SortDuration:
			if scored[i].group.segments != scored[j].group.segments {
				return scored[i].group.segments < scored[j].group.segments
			}
			return scored[i].group.bestPrice.LessThan(scored[j].group.bestPrice)
		default:
			return scored[i].group.bestPrice.LessThan(scored[j].group.bestPrice)
		}
	})
	options := make([]TripOption, 0, len(scored))
	for _, s := range scored {
		options = append(options, s.option)
	}
	return options, nil
}

func exceedsStops(itineraries []api.Itinerary, maxStops int) bool {
	for _, itin := range itineraries {
		if len(itin.Segments)-1 > maxStops {
			return true
		}
	}
	return false
}

func groupKey(ids []string) string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	return strings.Join(sorted, "|")
}
