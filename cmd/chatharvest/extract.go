package main

import (
	"github.com/LouYuanbo1/chatharvest/internal/report"
	"github.com/LouYuanbo1/chatharvest/internal/service/harvest"
	"github.com/spf13/cobra"
)

var extractFile string

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Parse a saved chat page without opening a browser",
	Long: `Runs one harvest pass over a chat page saved from the browser
(File > Save Page As) and prints the resulting conversation.`,
	Example: `  chatharvest extract --file chat.html --format table`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := report.ParseFormat(flags.format)
		if err != nil {
			return err
		}
		conv, err := harvest.InitExtractService(appcfg, logger).Extract(cmd.Context(), extractFile)
		if err != nil {
			return err
		}
		return writeResult(cmd.OutOrStdout(), format, conv, nil)
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractFile, "file", "f", "", "saved HTML page")
	_ = extractCmd.MarkFlagRequired("file")
}
