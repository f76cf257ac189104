package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/onsq/onsq/ons"
)

var (
	obsEdition    string
	obsVersion    string
	obsDimensions []string
)

// observationsCmd represents the observations command
var observationsCmd = &cobra.Command{
	Use:   "observations DATASET_ID",
	Short: "Fetch observations filtered by dimension values",
	Long: `Fetch the observations of a dataset version addressed by dimension
selections. Each selection is an id=value pair; use the dimensions and
options commands to discover valid ids and values.

Example:

  onsq observations cpih01 -d time=Oct-19 -d geography=K02000001 -d aggregate=cpih1dim1A0`,
	Args: cobra.ExactArgs(1),
	RunE: runObservations,
}

func init() {
	rootCmd.AddCommand(observationsCmd)

	observationsCmd.Flags().StringVar(&obsEdition, "edition", "time-series", "dataset edition")
	observationsCmd.Flags().StringVar(&obsVersion, "version", ons.VersionLatest, "edition version")
	observationsCmd.Flags().StringArrayVarP(&obsDimensions, "dimension", "d", nil, "dimension selection as id=value (repeatable)")
}

func runObservations(cmd *cobra.Command, args []string) error {
	dimensions, err := parseDimensions(obsDimensions)
	if err != nil {
		return err
	}

	result, err := client.GetObservations(context.Background(), args[0], obsEdition, obsVersion, dimensions)
	if err != nil {
		return err
	}

	if len(result.Observations) == 0 {
		fmt.Println("No observations returned.")
		return nil
	}

	for _, observation := range result.Observations {
		fmt.Printf("%s", observation.Observation)
		if result.UnitOfMeasure != "" {
			fmt.Printf(" %s", result.UnitOfMeasure)
		}
		if len(observation.Dimensions) > 0 {
			fmt.Printf("  [%s]", formatObservationDimensions(observation.Dimensions))
		}
		fmt.Println()
	}

	fmt.Printf("\n%d of %d observations\n", len(result.Observations), result.TotalObservations)
	return nil
}

// parseDimensions converts repeated id=value flags into a selection map.
func parseDimensions(pairs []string) (map[string]string, error) {
	dimensions := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		id, value, ok := strings.Cut(pair, "=")
		if !ok || id == "" || value == "" {
			return nil, fmt.Errorf("invalid dimension %q: expected id=value", pair)
		}
		dimensions[id] = value
	}
	return dimensions, nil
}

func formatObservationDimensions(dimensions map[string]*ons.DimensionItem) string {
	ids := make([]string, 0, len(dimensions))
	for id := range dimensions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		item := dimensions[id]
		if item == nil {
			continue
		}
		label := item.Label
		if label == "" {
			label = item.ID
		}
		parts = append(parts, fmt.Sprintf("%s=%s", id, label))
	}
	return strings.Join(parts, ", ")
}
