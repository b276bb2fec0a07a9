package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"styleme/internal/catalog"
	"styleme/internal/domain"
	"styleme/internal/filter"
)

var (
	catalogLocaleFlag string
	catalogCountFlag  int
)

var catalogCmd = &cobra.Command{
	Use:   "catalog <male|female>",
	Short: "List the styles of a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalog,
}

func init() {
	catalogCmd.Flags().StringVarP(&catalogLocaleFlag, "locale", "l", "en", "Label language (en or ar)")
	catalogCmd.Flags().IntVarP(&catalogCountFlag, "count", "n", 0, "Number of styles to list (0 = all)")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	category, err := domain.ParseCategory(args[0])
	if err != nil {
		return err
	}
	cat := catalog.Default()
	count := catalogCountFlag
	if count <= 0 {
		count = cat.Size(category)
	}
	locale := domain.NormalizeLocale(catalogLocaleFlag)
	title := cases.Title(language.English)

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tKEY\tTYPE\tLABEL\tFILTER")
	for i, d := range cat.DescriptorsFor(category, count) {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, d.Key, title.String(string(d.Kind)), d.Labels.In(locale), filter.Format(d.Filter))
	}
	return tw.Flush()
}
