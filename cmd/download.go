package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var downloadEdition string

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download DATASET_ID",
	Short: "Resolve the CSV download link for a dataset",
	Long:  `Resolve the CSV download link of the latest version of a dataset edition.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVar(&downloadEdition, "edition", "time-series", "dataset edition")
}

func runDownload(cmd *cobra.Command, args []string) error {
	url, err := client.GetDownloadURL(context.Background(), args[0], downloadEdition)
	if err != nil {
		return err
	}

	if url == "" {
		fmt.Printf("No CSV download available for %s (edition %s).\n", args[0], downloadEdition)
		return nil
	}

	fmt.Println(url)
	return nil
}
