package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/labelcheck/backend/internal/domain"
	"github.com/labelcheck/backend/internal/usecase"
)

func newVerbageCommand(opts *options) *cobra.Command {
	var ocr, expected string

	cmd := &cobra.Command{
		Use:   "verbage",
		Short: "Check that the expected label wording appears in OCR text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ocrText, err := readTextArg(ocr)
			if err != nil {
				return err
			}
			expectedText, err := readTextArg(expected)
			if err != nil {
				return err
			}

			result := usecase.CompareVerbage(ocrText, expectedText)
			if opts.json {
				return writeJSON(cmd, result)
			}
			return printComparison(cmd.OutOrStdout(), "Word", result)
		},
	}

	cmd.Flags().StringVar(&ocr, "ocr", "", "OCR text, or @path to read it from a file")
	cmd.Flags().StringVar(&expected, "expected", "", "Expected verbage, or @path")
	_ = cmd.MarkFlagRequired("ocr")

	return cmd
}

func newIngredientsCommand(opts *options) *cobra.Command {
	var ocr string
	var ingredients []string

	cmd := &cobra.Command{
		Use:   "ingredients",
		Short: "Check that expected ingredients appear in OCR text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ocrText, err := readTextArg(ocr)
			if err != nil {
				return err
			}

			result := usecase.CompareIngredients(ocrText, domain.IngredientNames(ingredients...))
			if opts.json {
				return writeJSON(cmd, result)
			}
			return printComparison(cmd.OutOrStdout(), "Ingredient", result)
		},
	}

	cmd.Flags().StringVar(&ocr, "ocr", "", "OCR text, or @path to read it from a file")
	cmd.Flags().StringArrayVarP(&ingredients, "ingredient", "i", nil, "Expected ingredient (repeatable)")
	_ = cmd.MarkFlagRequired("ocr")

	return cmd
}

func printComparison(out io.Writer, itemLabel string, result domain.ComparisonResult) error {
	verdict := "MATCH"
	if !result.Matches {
		verdict = "MISMATCH"
	}
	fmt.Fprintf(out, "%s  confidence %s\n", verdict, formatScore(result.Confidence))

	rows := make([][]string, 0, len(result.MatchedText)+len(result.MissingText))
	for _, item := range result.MatchedText {
		rows = append(rows, []string{item, "found"})
	}
	for _, item := range result.MissingText {
		rows = append(rows, []string{item, "missing"})
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "Nothing to compare")
		return nil
	}

	fmt.Fprintln(out, renderTable([]string{itemLabel, "Status"}, rows, nil))
	return nil
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score*100, 'f', 1, 64) + "%"
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
