// fareindex CLI - workbench for captured aggregator search responses
//
// Usage:
//   fareindex inspect --response response.json
//   fareindex rates --response response.json --offer OFFER_ID
//   fareindex alternatives --response response.json --offer OFFER_ID
//   fareindex merge --outbound out.json --inbound in.json [--output merged.json]
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"fareindex/internal/merge"
	"fareindex/internal/offers"
	"fareindex/pkg/api"
	"fareindex/pkg/platform"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	app := &cli.App{
		Name:    "fareindex",
		Usage:   "Index flight search responses, compare fare families, merge one-way offers",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"FAREINDEX_LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			platform.InitLogger(c.String("log-level"))
			return nil
		},

		Commands: []*cli.Command{
			inspectCommand(),
			ratesCommand(),
			alternativesCommand(),
			mergeCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INSPECT COMMAND
// =============================================================================

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Summarize a search response and its offer coverage",
		Flags: []cli.Flag{
			responseFlag(),
			&cli.StringFlag{
				Name:  "sort",
				Value: string(offers.SortPrice),
				Usage: "Trip ordering (PRICE, DURATION)",
			},
		},
		Action: runInspect,
	}
}

func runInspect(c *cli.Context) error {
	wrapper, resp, err := loadWrapper(c.String("response"))
	if err != nil {
		return err
	}

	planCount := 0
	if resp.PricePlans != nil {
		planCount = resp.PricePlans.Len()
	}
	fmt.Printf("Itineraries: %d  Price plans: %d  Offers: %d\n\n",
		len(resp.Itineraries), planCount, resp.Offers.Len())

	trips, err := wrapper.SearchResults(offers.SortType(c.String("sort")), nil)
	if err != nil {
		return err
	}
	fmt.Printf("%-40s %10s %5s %4s  %s\n", "BEST OFFER", "PUBLIC", "CUR", "ALT", "ITINERARIES")
	for _, trip := range trips {
		ids := make([]string, 0, len(trip.Itineraries))
		for _, itin := range trip.Itineraries {
			ids = append(ids, itin.ItinID)
		}
		fmt.Printf("%-40s %10s %5s %4d  %v\n",
			trip.Offer.OfferID, trip.Offer.Price.Public, trip.Offer.Price.Currency, trip.OfferCount, ids)
	}
	return nil
}

// =============================================================================
// RATES COMMAND
// =============================================================================

func ratesCommand() *cli.Command {
	return &cli.Command{
		Name:  "rates",
		Usage: "Print the fare comparison grid for an offer's itinerary combination",
		Flags: []cli.Flag{
			responseFlag(),
			offerFlag(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "table",
				Usage:   "Output format (table, json)",
			},
		},
		Action: runRates,
	}
}

func runRates(c *cli.Context) error {
	wrapper, _, err := loadWrapper(c.String("response"))
	if err != nil {
		return err
	}

	rows, err := wrapper.TripRates(c.String("offer"))
	if err != nil {
		return err
	}
	slog.Debug("rate matrix generated", "offer", c.String("offer"), "rows", len(rows))

	if c.String("format") == "json" {
		return writeJSON(os.Stdout, rows)
	}
	fmt.Printf("%-8s %-12s %-24s %10s %5s  %s\n", "ITIN", "PLAN", "FARE", "PUBLIC", "CUR", "OFFER")
	for _, row := range rows {
		fmt.Printf("%-8s %-12s %-24s %10s %5s  %s\n",
			row.ItinID, row.PricePlanID, row.PricePlan.Name, row.Price.Public, row.Price.Currency, row.OfferID)
	}
	return nil
}

// =============================================================================
// ALTERNATIVES COMMAND
// =============================================================================

func alternativesCommand() *cli.Command {
	return &cli.Command{
		Name:   "alternatives",
		Usage:  "List every offer covering the same itinerary combination",
		Flags:  []cli.Flag{responseFlag(), offerFlag()},
		Action: runAlternatives,
	}
}

func runAlternatives(c *cli.Context) error {
	wrapper, _, err := loadWrapper(c.String("response"))
	if err != nil {
		return err
	}

	alternatives := wrapper.AlternativeOffers(c.String("offer"))
	for _, offer := range alternatives {
		plans, err := wrapper.OfferPricePlans(offer.OfferID)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(plans))
		for _, plan := range plans {
			names = append(names, plan.Name)
		}
		fmt.Printf("%-40s %10s %5s  %v\n", offer.OfferID, offer.Price.Public, offer.Price.Currency, names)
	}
	if len(alternatives) == 0 {
		slog.Warn("no offers found", "offer", c.String("offer"))
	}
	return nil
}

// =============================================================================
// MERGE COMMAND
// =============================================================================

func mergeCommand() *cli.Command {
	return &cli.Command{
		Name:  "merge",
		Usage: "Pair two one-way responses into a round-trip response",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "outbound",
				Usage:    "Path to the outbound one-way search response",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "inbound",
				Usage:    "Path to the inbound one-way search response",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Path for the merged response (default: stdout)",
			},
		},
		Action: runMerge,
	}
}

func runMerge(c *cli.Context) error {
	outbound, err := loadResponse(c.String("outbound"))
	if err != nil {
		return err
	}
	inbound, err := loadResponse(c.String("inbound"))
	if err != nil {
		return err
	}

	result, err := merge.Combine(outbound, inbound)
	if err != nil {
		return fmt.Errorf("merging responses: %w", err)
	}
	for _, pair := range result.Skipped {
		slog.Warn("skipped pairing with mismatched currencies",
			"outboundOffer", pair.OutboundOfferID, "inboundOffer", pair.InboundOfferID,
			"outboundCurrency", pair.OutboundCurrency, "inboundCurrency", pair.InboundCurrency)
	}
	slog.Info("responses merged",
		"offers", result.Response.Offers.Len(),
		"itineraries", len(result.Response.Itineraries),
		"skippedPairs", len(result.Skipped))

	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		return writeJSON(f, result.Response)
	}
	return writeJSON(os.Stdout, result.Response)
}

// =============================================================================
// HELPERS
// =============================================================================

func responseFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "response",
		Aliases:  []string{"r"},
		Usage:    "Path to a captured search response JSON",
		Required: true,
	}
}

func offerFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "offer",
		Usage:    "Offer identifier",
		Required: true,
	}
}

func loadResponse(path string) (*api.SearchResponse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	resp, err := api.ParseResponse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return resp, nil
}

func loadWrapper(path string) (*offers.Wrapper, *api.SearchResponse, error) {
	resp, err := loadResponse(path)
	if err != nil {
		return nil, nil, err
	}
	wrapper, err := offers.New(resp)
	if err != nil {
		return nil, nil, err
	}
	return wrapper, resp, nil
}

func writeJSON(w *os.File, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
