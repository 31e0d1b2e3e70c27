package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/labelcheck/backend/internal/infrastructure/catalog"
	"github.com/labelcheck/backend/internal/usecase"
)

func newRankCommand(opts *options) *cobra.Command {
	var ocr, catalogPath string
	var limit int

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank catalog products by how well their ingredients match OCR text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ocrText, err := readTextArg(ocr)
			if err != nil {
				return err
			}

			products, err := catalog.LoadFile(catalogPath)
			if err != nil {
				return err
			}

			matches := usecase.FindMatchingProductsByIngredients(ocrText, products.List())
			if limit > 0 && len(matches) > limit {
				matches = matches[:limit]
			}

			if opts.json {
				return writeJSON(cmd, matches)
			}

			out := cmd.OutOrStdout()
			if len(matches) == 0 {
				fmt.Fprintln(out, "No products match")
				return nil
			}

			rows := make([][]string, 0, len(matches))
			for i, match := range matches {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					match.Product.Name,
					match.Product.Barcode,
					formatScore(match.MatchScore),
					joinOrDash(match.MissingIngredients),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Product", "Barcode", "Score", "Missing"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&ocr, "ocr", "", "OCR text, or @path to read it from a file")
	cmd.Flags().StringVar(&catalogPath, "catalog", "config/catalog.yaml", "Product catalog file (YAML or JSON)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most N products (0 shows all)")
	_ = cmd.MarkFlagRequired("ocr")

	return cmd
}
