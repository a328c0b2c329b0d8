package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yegors/flightboard/internal/app"
	"github.com/yegors/flightboard/internal/config"
	"github.com/yegors/flightboard/internal/flights"
	"github.com/yegors/flightboard/pkg/logger"
)

type cliOptions struct {
	configPath string
	debug      bool
	jsonOutput bool

	app *app.App
	out io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &cliOptions{out: out}

	root := &cobra.Command{
		Use:           "flightctl",
		Short:         "Query the flight board engine from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.app != nil {
				return opts.app.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	root.PersistentFlags().BoolVarP(&opts.debug, "debug", "v", false, "Enable debug logs")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Print the raw response as JSON")

	root.AddCommand(
		newFlightsCmd(opts),
		newFlightCmd(opts),
		newOffersCmd(opts),
		newAirportsCmd(opts),
		newHistoryCmd(opts),
	)
	root.SetOut(out)

	return root
}

// setup loads the configuration and wires an in-process engine
func (o *cliOptions) setup() error {
	cfg, err := config.LoadWithFallback(o.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.NewNop()
	if o.debug {
		log, err = logger.New(logger.Config{Level: "debug", Format: "console"})
		if err != nil {
			return err
		}
	}

	o.app, err = app.New(cfg, log)
	return err
}

func newFlightsCmd(opts *cliOptions) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "flights",
		Short: "List the current flight batch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := opts.app.Engine.GetFlights(cmd.Context(), refresh)
			if opts.jsonOutput {
				return opts.printJSON(res)
			}

			fmt.Fprintf(opts.out, "Source: %s  Flights: %d  Batch: %s\n\n", res.Source, len(res.Data), res.BatchID)
			tw := tabwriter.NewWriter(opts.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FLIGHT\tAIRLINE\tFROM\tTO\tDEPARTURE\tARRIVAL\tSTATUS\tPROGRESS")
			for _, r := range res.Data {
				progress := "-"
				if r.Live != nil {
					progress = fmt.Sprintf("%.0f%%", r.Live.Progress*100)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					r.Flight.IATA, r.Airline.Name,
					r.Departure.IATA, r.Arrival.IATA,
					r.Departure.Scheduled, r.Arrival.Scheduled,
					r.FlightStatus, progress)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVarP(&refresh, "refresh", "r", false, "Bypass the cache")

	return cmd
}

func newFlightCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "flight CODE",
		Short: "Show one flight of the current batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, ok := opts.app.Engine.FindFlight(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("flight not found: %s", strings.ToUpper(args[0]))
			}
			return opts.printJSON(r)
		},
	}
}

func newOffersCmd(opts *cliOptions) *cobra.Command {
	var (
		adults int
		cabin  string
	)

	cmd := &cobra.Command{
		Use:   "offers ORIGIN DESTINATION DATE",
		Short: "Search fare offers for a route and date (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := opts.app.Engine.SearchOffers(cmd.Context(), flights.OfferQuery{
				Origin:        args[0],
				Destination:   args[1],
				DepartureDate: args[2],
				Adults:        adults,
				CabinClass:    cabin,
			})
			if opts.jsonOutput {
				return opts.printJSON(res)
			}

			fmt.Fprintf(opts.out, "Source: %s  Offers: %d\n\n", res.Source, len(res.Data))
			tw := tabwriter.NewWriter(opts.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCARRIER\tFLIGHT\tDEPARTURE\tARRIVAL\tPRICE\tSEATS")
			for _, o := range res.Data {
				var seg flights.Segment
				if len(o.Itineraries) > 0 && len(o.Itineraries[0].Segments) > 0 {
					seg = o.Itineraries[0].Segments[0]
				}
				fmt.Fprintf(tw, "%s\t%s\t%s%s\t%s\t%s\t%s %s\t%d\n",
					o.ID, seg.CarrierCode, seg.CarrierCode, seg.Number,
					seg.Departure.At, seg.Arrival.At,
					o.Price.Total, o.Price.Currency, o.NumberOfBookableSeats)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&adults, "adults", "a", 1, "Number of adult passengers")
	cmd.Flags().StringVar(&cabin, "cabin", "ECONOMY", "Cabin class")

	return cmd
}

func newAirportsCmd(opts *cliOptions) *cobra.Command {
	var allowedOnly bool

	cmd := &cobra.Command{
		Use:   "airports",
		Short: "List known airports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all := opts.app.Catalog.All()
			if allowedOnly {
				allowed := make(map[string]bool)
				for _, code := range opts.app.Config.Flights.AllowedAirports {
					allowed[code] = true
				}
				filtered := all[:0]
				for _, a := range all {
					if allowed[a.IATA] {
						filtered = append(filtered, a)
					}
				}
				all = filtered
			}
			if opts.jsonOutput {
				return opts.printJSON(all)
			}

			tw := tabwriter.NewWriter(opts.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "IATA\tNAME\tLAT\tLON")
			for _, a := range all {
				fmt.Fprintf(tw, "%s\t%s\t%.4f\t%.4f\n", a.IATA, a.Name, a.Latitude, a.Longitude)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&allowedOnly, "allowed", false, "Only list allow-listed arrival airports")

	return cmd
}

func newHistoryCmd(opts *cliOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the latest fetch history entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.app.History == nil {
				return fmt.Errorf("fetch history is disabled (set storage.sqlite_path)")
			}
			records, err := opts.app.History.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return opts.printJSON(records)
			}

			tw := tabwriter.NewWriter(opts.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tOPERATION\tSOURCE\tCOUNT\tDURATION\tERROR")
			for _, r := range records {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%dms\t%s\n",
					r.CreatedAt.Format("2006-01-02 15:04:05"), r.Operation, r.Source,
					r.Count, r.DurationMs, r.Error)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries")

	return cmd
}

func (o *cliOptions) printJSON(v any) error {
	enc := json.NewEncoder(o.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
