package cmd

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/onsq/onsq/filter"
	"github.com/onsq/onsq/ons"
)

var (
	listLimit  int
	listOffset int
	listFilter string

	searchLimit int

	popularDetails bool
)

// popularFetchLimit bounds concurrent detail fetches for the popular command
const popularFetchLimit = 5

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List datasets",
	Long:  `List one page of the dataset collection, optionally narrowed by a filter expression.`,
	RunE:  runList,
}

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get DATASET_ID",
	Short: "Show a single dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search datasets by title, description or id",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

// dimensionsCmd represents the dimensions command
var dimensionsCmd = &cobra.Command{
	Use:   "dimensions DATASET_ID",
	Short: "List a dataset's dimensions",
	Args:  cobra.ExactArgs(1),
	RunE:  runDimensions,
}

// optionsCmd represents the options command
var optionsCmd = &cobra.Command{
	Use:   "options DATASET_ID DIMENSION_ID",
	Short: "List the option set of a dimension",
	Args:  cobra.ExactArgs(2),
	RunE:  runOptions,
}

// popularCmd represents the popular command
var popularCmd = &cobra.Command{
	Use:   "popular",
	Short: "Show the curated list of popular datasets",
	RunE:  runPopular,
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(dimensionsCmd)
	rootCmd.AddCommand(optionsCmd)
	rootCmd.AddCommand(popularCmd)

	listCmd.Flags().IntVar(&listLimit, "limit", 20, "maximum number of datasets to fetch")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "offset into the dataset collection")
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "", `filter expression, e.g. 'State == "published" and matches("trade")'`)

	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "maximum number of results")

	popularCmd.Flags().BoolVar(&popularDetails, "details", false, "fetch live metadata for each dataset")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	page, err := client.GetDatasets(ctx, listLimit, listOffset)
	if err != nil {
		return err
	}

	datasets := page.Items
	if listFilter != "" {
		f, err := filter.Compile(listFilter)
		if err != nil {
			return err
		}
		datasets, err = f.Apply(datasets)
		if err != nil {
			return err
		}
	}

	if len(datasets) == 0 {
		fmt.Println("No datasets found.")
		return nil
	}

	printDatasetTable(datasets)
	fmt.Printf("\nShowing %d of %d datasets (offset %d)\n", len(datasets), page.TotalCount, page.Offset)
	return nil
}

func runGet(cmd *cobra.Command, args []string) error {
	dataset, err := client.GetDataset(context.Background(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", dataset.Title)
	fmt.Println(strings.Repeat("━", 60))
	fmt.Printf("ID:          %s\n", dataset.ID)
	if dataset.State != "" {
		fmt.Printf("State:       %s\n", dataset.State)
	}
	if dataset.NextRelease != "" {
		fmt.Printf("Next release: %s\n", dataset.NextRelease)
	}
	if dataset.Description != "" {
		fmt.Printf("\n%s\n", dataset.Description)
	}
	if len(dataset.Contacts) > 0 {
		fmt.Println("\nContacts:")
		for _, contact := range dataset.Contacts {
			fmt.Printf("  - %s <%s>\n", contact.Name, contact.Email)
		}
	}
	if dataset.QMI != nil && dataset.QMI.HRef != "" {
		fmt.Printf("\nQMI: %s\n", dataset.QMI.HRef)
	}
	if len(dataset.Dimensions) > 0 {
		fmt.Println("\nDimensions:")
		for _, dimension := range dataset.Dimensions {
			fmt.Printf("  - %s (%s)\n", dimension.Label, dimension.ID)
		}
	}
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	results, err := client.SearchDatasets(context.Background(), args[0], searchLimit)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Printf("No datasets matching %q.\n", args[0])
		return nil
	}

	printDatasetTable(results)
	return nil
}

func runDimensions(cmd *cobra.Command, args []string) error {
	dimensions, err := client.GetDatasetDimensions(context.Background(), args[0])
	if err != nil {
		return err
	}

	if len(dimensions) == 0 {
		fmt.Printf("Dataset %s has no dimensions.\n", args[0])
		return nil
	}

	fmt.Println(strings.Repeat("━", 60))
	fmt.Printf("%-20s %-25s %s\n", "ID", "NAME", "LABEL")
	fmt.Println(strings.Repeat("━", 60))
	for _, dimension := range dimensions {
		fmt.Printf("%-20s %-25s %s\n", dimension.ID, dimension.Name, dimension.Label)
	}
	return nil
}

func runOptions(cmd *cobra.Command, args []string) error {
	options, err := client.GetDimensionOptions(context.Background(), args[0], args[1])
	if err != nil {
		return err
	}

	if len(options.Items) == 0 {
		fmt.Printf("Dimension %s has no options.\n", args[1])
		return nil
	}

	fmt.Println(strings.Repeat("━", 60))
	fmt.Printf("%-30s %s\n", "OPTION", "LABEL")
	fmt.Println(strings.Repeat("━", 60))
	for _, option := range options.Items {
		fmt.Printf("%-30s %s\n", option.Option, option.Label)
	}
	fmt.Printf("\n%d of %d options\n", len(options.Items), options.TotalCount)
	return nil
}

func runPopular(cmd *cobra.Command, args []string) error {
	popular := ons.PopularDatasets()

	if !popularDetails {
		fmt.Println(strings.Repeat("━", 80))
		fmt.Printf("%-45s %s\n", "ID", "TITLE")
		fmt.Println(strings.Repeat("━", 80))
		for _, dataset := range popular {
			fmt.Printf("%-45s %s\n", dataset.ID, truncate(dataset.Title, 34))
		}
		return nil
	}

	ctx := context.Background()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(popularFetchLimit)

	var mu sync.Mutex
	details := make(map[string]*ons.Dataset, len(popular))

	for _, dataset := range popular {
		g.Go(func() error {
			fetched, err := client.GetDataset(ctx, dataset.ID)
			if err != nil {
				logger.Warn().Err(err).Str("dataset", dataset.ID).Msg("Failed to fetch dataset details")
				// Keep going; the curated entry still prints.
				return nil
			}
			mu.Lock()
			details[dataset.ID] = fetched
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Println(strings.Repeat("━", 80))
	fmt.Printf("%-45s %-12s %s\n", "ID", "STATE", "TITLE")
	fmt.Println(strings.Repeat("━", 80))
	for _, dataset := range popular {
		state := "-"
		title := dataset.Title
		if fetched, ok := details[dataset.ID]; ok {
			if fetched.State != "" {
				state = fetched.State
			}
			if fetched.Title != "" {
				title = fetched.Title
			}
		}
		fmt.Printf("%-45s %-12s %s\n", dataset.ID, state, truncate(title, 22))
	}
	return nil
}

func printDatasetTable(datasets []ons.Dataset) {
	fmt.Println(strings.Repeat("━", 100))
	fmt.Printf("%-45s %-12s %s\n", "ID", "STATE", "TITLE")
	fmt.Println(strings.Repeat("━", 100))
	for _, dataset := range datasets {
		fmt.Printf("%-45s %-12s %s\n", dataset.ID, dataset.State, truncate(dataset.Title, 40))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
