package offers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchResults(t *testing.T) {
	w := loadSampleWrapper(t)

	t.Run("one option per itinerary combination, cheapest offer wins", func(t *testing.T) {
		trips, err := w.SearchResults(SortPrice, nil)
		require.NoError(t, err)
		require.Len(t, trips, 2)

		assert.Equal(t, "c74624e5-83a3-44f9-8624-e583a3b40001", trips[0].Offer.OfferID)
		assert.Equal(t, "575.40", trips[0].Offer.Price.Public)
		assert.Equal(t, 1, trips[0].OfferCount)
		assert.Equal(t, "FL1", trips[0].Itineraries[0].ItinID)
		assert.Equal(t, "FL2", trips[0].Itineraries[1].ItinID)

		assert.Equal(t, "c74624e5-83a3-44f9-8624-e583a3b4000e", trips[1].Offer.OfferID)
		assert.Equal(t, "650.39", trips[1].Offer.Price.Public)
		assert.Equal(t, 5, trips[1].OfferCount)
	})

	t.Run("duration sort prefers fewer segments", func(t *testing.T) {
		trips, err := w.SearchResults(SortDuration, nil)
		require.NoError(t, err)
		require.Len(t, trips, 2)
		// FL1+FL2 is two segments total, FL5+FL2 is three.
		assert.Equal(t, "c74624e5-83a3-44f9-8624-e583a3b40001", trips[0].Offer.OfferID)
	})

	t.Run("max price filter", func(t *testing.T) {
		maxPrice := "600.00"
		trips, err := w.SearchResults(SortPrice, &Filters{MaxPrice: &maxPrice})
		require.NoError(t, err)
		require.Len(t, trips, 1)
		assert.Equal(t, "c74624e5-83a3-44f9-8624-e583a3b40001", trips[0].Offer.OfferID)
	})

	t.Run("max stops filter drops connecting itineraries", func(t *testing.T) {
		direct := 0
		trips, err := w.SearchResults(SortPrice, &Filters{MaxStops: &direct})
		require.NoError(t, err)
		require.Len(t, trips, 1)
		assert.Equal(t, "c74624e5-83a3-44f9-8624-e583a3b40001", trips[0].Offer.OfferID)
	})

	t.Run("invalid max price filter", func(t *testing.T) {
		bad := "not-a-number"
		_, err := w.SearchResults(SortPrice, &Filters{MaxPrice: &bad})
		require.Error(t, err)
	})
}
