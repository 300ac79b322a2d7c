package offers

import (
	"fareindex/pkg/api"
)

// RateRow is one cell of the fare comparison grid: a purchasable
// (itinerary, fare plan) pair together with the offer that sells it and that
// offer's price.
type RateRow struct {
	ItinID      string        `json:"itinId"`
	PricePlanID string        `json:"pricePlanId"`
	OfferID     string        `json:"offerId"`
	Price       api.Price     `json:"price"`
	PricePlan   api.PricePlan `json:"pricePlan"`
}

// TripRates produces the rate matrix for the itinerary combination covered by
// offerID: one row per (fare plan, itinerary) reference across every
// alternative offer. Rows follow the offers' declaration order, then each
// offer's pricePlansReferences order, then each reference's flights order, so
// the grid is stable and reproducible for identical input. An unknown offer
// yields an empty grid.
func (w *Wrapper) TripRates(offerID string) ([]RateRow, error) {
	rows := []RateRow{}
	for _, offer := range w.AlternativeOffers(offerID) {
		if offer.PricePlansReferences == nil {
			continue
		}
		for pair := offer.PricePlansReferences.Oldest(); pair != nil; pair = pair.Next() {
			plan, ok := w.pricePlans[pair.Key]
			if !ok {
				return nil, api.Malformedf("offer %s references unknown price plan %s", offer.OfferID, pair.Key)
			}
			for _, itinID := range pair.Value.Flights {
				rows = append(rows, RateRow{
					ItinID:      itinID,
					PricePlanID: pair.Key,
					OfferID:     offer.OfferID,
					Price:       offer.Price,
					PricePlan:   plan.Clone(),
				})
			}
		}
	}
	return rows, nil
}
