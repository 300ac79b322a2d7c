package offers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fareindex/pkg/api"
)

func planFixture(id, name string, baggage int) api.PricePlan {
	return api.PricePlan{
		PricePlanID:     id,
		Name:            name,
		Amenities:       []string{},
		CheckedBaggages: &api.BaggageAllowance{Quantity: baggage},
	}
}

func priceFixture(public, commission, taxes string) api.Price {
	return api.Price{Currency: "EUR", Public: public, Commission: commission, Taxes: taxes}
}

func TestTripRates(t *testing.T) {
	w := loadSampleWrapper(t)

	t.Run("full comparison grid in declaration order", func(t *testing.T) {
		rows, err := w.TripRates(sampleOfferID)
		require.NoError(t, err)

		offer0e := "c74624e5-83a3-44f9-8624-e583a3b4000e"
		offer0f := "c74624e5-83a3-44f9-8624-e583a3b4000f"
		offer10 := "c74624e5-83a3-44f9-8624-e583a3b40010"
		offer11 := "c74624e5-83a3-44f9-8624-e583a3b40011"
		offer12 := "c74624e5-83a3-44f9-8624-e583a3b40012"

		expected := []RateRow{
			{ItinID: "FL5", PricePlanID: "PC2", OfferID: offer0e, Price: priceFixture("650.39", "1.81", "469.39"), PricePlan: planFixture("PC2", "Light", 0)},
			{ItinID: "FL2", PricePlanID: "PC3", OfferID: offer0e, Price: priceFixture("650.39", "1.81", "469.39"), PricePlan: planFixture("PC3", "Light", 0)},
			{ItinID: "FL5", PricePlanID: "PC23", OfferID: offer0f, Price: priceFixture("1832.23", "12.97", "535.23"), PricePlan: planFixture("PC23", "Premium Economy", 2)},
			{ItinID: "FL2", PricePlanID: "PC24", OfferID: offer0f, Price: priceFixture("1832.23", "12.97", "535.23"), PricePlan: planFixture("PC24", "Premium Economy", 2)},
			{ItinID: "FL5", PricePlanID: "PC19", OfferID: offer10, Price: priceFixture("3328.83", "26.29", "699.83"), PricePlan: planFixture("PC19", "Business", 2)},
			{ItinID: "FL2", PricePlanID: "PC24", OfferID: offer10, Price: priceFixture("3328.83", "26.29", "699.83"), PricePlan: planFixture("PC24", "Premium Economy", 2)},
			{ItinID: "FL5", PricePlanID: "PC23", OfferID: offer11, Price: priceFixture("3419.39", "26.64", "755.39"), PricePlan: planFixture("PC23", "Premium Economy", 2)},
			{ItinID: "FL2", PricePlanID: "PC8", OfferID: offer11, Price: priceFixture("3419.39", "26.64", "755.39"), PricePlan: planFixture("PC8", "Business", 2)},
			{ItinID: "FL5", PricePlanID: "PC19", OfferID: offer12, Price: priceFixture("4916.99", "39.97", "919.99"), PricePlan: planFixture("PC19", "Business", 2)},
			{ItinID: "FL2", PricePlanID: "PC8", OfferID: offer12, Price: priceFixture("4916.99", "39.97", "919.99"), PricePlan: planFixture("PC8", "Business", 2)},
		}
		assert.Equal(t, expected, rows)
	})

	t.Run("row count equals total itinerary references across alternatives", func(t *testing.T) {
		for pair := w.offers.Oldest(); pair != nil; pair = pair.Next() {
			rows, err := w.TripRates(pair.Key)
			require.NoError(t, err)

			want := 0
			for _, alt := range w.AlternativeOffers(pair.Key) {
				for refs := alt.PricePlansReferences.Oldest(); refs != nil; refs = refs.Next() {
					want += len(refs.Value.Flights)
				}
			}
			assert.Len(t, rows, want)
		}
	})

	t.Run("unknown offer yields an empty grid", func(t *testing.T) {
		rows, err := w.TripRates("dummy-offer-id")
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})

	t.Run("dangling price plan reference is malformed input", func(t *testing.T) {
		resp := loadSampleResponse(t)
		resp.PricePlans.Delete("PC8")
		broken, err := New(resp)
		require.NoError(t, err)

		_, err = broken.TripRates(sampleOfferID)
		require.Error(t, err)
		assert.True(t, api.IsMalformedInput(err))
	})
}
