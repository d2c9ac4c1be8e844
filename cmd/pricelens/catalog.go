package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources [id]",
	Short: "List registered sources, or describe one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSources,
}

var countriesCmd = &cobra.Command{
	Use:   "countries [code]",
	Short: "List supported countries, or describe one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCountries,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(countriesCmd)
}

func runSources(cmd *cobra.Command, args []string) error {
	_, app, err := loadApp()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

	if len(args) == 1 {
		info, err := app.Sources.Describe(strings.ToLower(args[0]))
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "ID\t%s\nNAME\t%s\nBASE URL\t%s\nCOUNTRIES\t%s\n",
			info.ID, info.Name, info.BaseURL, strings.Join(info.SupportedCountries, " "))
		return tw.Flush()
	}

	fmt.Fprintln(tw, "ID\tNAME\tBASE URL\tCOUNTRIES")
	for _, info := range app.Sources.Info() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", info.ID, info.Name, info.BaseURL, len(info.SupportedCountries))
	}
	return tw.Flush()
}

func runCountries(cmd *cobra.Command, args []string) error {
	_, app, err := loadApp()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

	if len(args) == 1 {
		country, ok := app.Countries.Country(args[0])
		if !ok {
			return fmt.Errorf("country %s not supported", args[0])
		}
		fmt.Fprintf(tw, "CODE\t%s\nNAME\t%s\nCURRENCY\t%s\nSOURCES\t%s\n",
			country.Code, country.Name, country.Currency, strings.Join(country.Sources, " "))
		return tw.Flush()
	}

	fmt.Fprintln(tw, "CODE\tNAME\tCURRENCY\tSOURCES")
	for _, c := range app.Countries.Countries() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Code, c.Name, c.Currency, strings.Join(c.Sources, ","))
	}
	return tw.Flush()
}
