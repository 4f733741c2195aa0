package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	service "github.com/okian/tcgprice/internal/app"
	"github.com/okian/tcgprice/internal/domain/model"
)

const defaultSearchLimit = 10

type cardFlags struct {
	name   string
	set    string
	number string
}

func (f *cardFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Card name as printed")
	cmd.Flags().StringVar(&f.set, "set", "", "Set name (substring match)")
	cmd.Flags().StringVar(&f.number, "number", "", `Card number, e.g. "4/102"`)
}

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var flags cardFlags

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a typed identification to a catalog card",
		Long: `Resolve looks the card up in the catalog and picks the first candidate whose
set and number match. When the catalog is unreachable or has no match a
synthetic card is printed instead.

Examples:
  cardctl resolve --name Charizard --set "Base" --number 4/102`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(flags.name) == "" {
				return errors.New("--name is required")
			}
			svc, err := ctx.ensureService(cmd.Context())
			if err != nil {
				return err
			}
			res := svc.ResolveCard(cmd.Context(), flags.name, flags.set, flags.number)

			table, err := useTable(cmd, ctx.flags.output)
			if err != nil {
				return err
			}
			if !table {
				return writeJSON(cmd, struct {
					Card       model.CanonicalCard `json:"card"`
					Resolution string              `json:"resolution"`
				}{Card: res.Card, Resolution: string(res.Outcome)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Set", "Number", "Rarity", "Resolution", "Synthetic"},
				[][]string{{res.Card.ID, res.Card.Name, res.Card.SetName, res.Card.Number, res.Card.Rarity, string(res.Outcome), yesNo(res.Card.Synthetic)}},
				nil,
			))
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func newPriceCommand(ctx *commandContext) *cobra.Command {
	var flags cardFlags
	var id string

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Show the aggregated price report for a card",
		Long: `Price resolves the card and aggregates quotes from the configured sources.
Either --id or --name is required.

Examples:
  cardctl price --id base1-4
  cardctl price --name Pikachu --set Jungle --number 60/64 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id = strings.TrimSpace(id)
			if id == "" && strings.TrimSpace(flags.name) == "" {
				return errors.New("either --id or --name is required")
			}
			svc, err := ctx.ensureService(cmd.Context())
			if err != nil {
				return err
			}

			var check service.PriceCheck
			if id != "" {
				check, err = svc.PriceCardByID(cmd.Context(), id)
				if err != nil {
					return err
				}
			} else {
				res := svc.ResolveCard(cmd.Context(), flags.name, flags.set, flags.number)
				check = svc.PriceCard(cmd.Context(), res)
			}
			return printPriceCheck(cmd, ctx.flags.output, check)
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVar(&id, "id", "", "Catalog card id, e.g. base1-4")
	return cmd
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <name>",
		Short: "List catalog candidates for a card name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService(cmd.Context())
			if err != nil {
				return err
			}
			cards, err := svc.SearchCards(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}

			table, err := useTable(cmd, ctx.flags.output)
			if err != nil {
				return err
			}
			if !table {
				if cards == nil {
					cards = []model.CanonicalCard{}
				}
				return writeJSON(cmd, cards)
			}
			rows := make([][]string, 0, len(cards))
			for _, c := range cards {
				rows = append(rows, []string{c.ID, c.Name, c.SetName, c.Number, c.Rarity})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Name", "Set", "Number", "Rarity"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", defaultSearchLimit, "Maximum number of candidates")
	return cmd
}

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	var withPrice bool

	cmd := &cobra.Command{
		Use:   "identify <image>",
		Short: "Identify the card in a photo",
		Long: `Identify sends the photo to the vision model and resolves the answer against
the catalog. Requires vision_api_key to be configured.

Examples:
  cardctl identify ./charizard.jpg
  cardctl identify ./charizard.jpg --price`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}
			mimeType := http.DetectContentType(image)
			if !strings.HasPrefix(mimeType, "image/") {
				return fmt.Errorf("%s is not an image (%s)", args[0], mimeType)
			}

			svc, err := ctx.ensureService(cmd.Context())
			if err != nil {
				return err
			}

			if withPrice {
				check, err := svc.CheckPrice(cmd.Context(), image, mimeType)
				if err != nil {
					return err
				}
				return printPriceCheck(cmd, ctx.flags.output, check)
			}

			ident, err := svc.IdentifyCard(cmd.Context(), image, mimeType)
			if err != nil {
				return err
			}
			table, err := useTable(cmd, ctx.flags.output)
			if err != nil {
				return err
			}
			if !table {
				return writeJSON(cmd, ident)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Set", "Number", "Confidence", "Resolution"},
				[][]string{{ident.CardID, ident.CardName, ident.SetName, ident.CardNumber, ident.Confidence, ident.Resolution}},
				nil,
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&withPrice, "price", false, "Also aggregate prices for the identified card")
	return cmd
}

func printPriceCheck(cmd *cobra.Command, format string, check service.PriceCheck) error {
	table, err := useTable(cmd, format)
	if err != nil {
		return err
	}
	if !table {
		if check.Prices == nil {
			check.Prices = []model.PriceObservation{}
		}
		return writeJSON(cmd, check)
	}

	out := cmd.OutOrStdout()
	title := check.CardID
	if check.CardName != "" {
		title = fmt.Sprintf("%s (%s)", check.CardName, check.CardID)
	}
	fmt.Fprintf(out, "%s\nmarket %s, trend %s, %d quotes\n", title, formatPrice(check.MarketPrice), check.PriceTrend, check.TotalSources)

	rows := make([][]string, 0, len(check.Prices))
	for _, p := range check.Prices {
		price := p.Price
		rows = append(rows, []string{p.Source, p.Condition, formatPrice(&price), p.Currency, yesNo(p.InStock)})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Source", "Condition", "Price", "Currency", "In stock"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	))
	return nil
}
