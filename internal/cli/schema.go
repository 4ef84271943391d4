package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/llm"
)

var flagLenient bool

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the extraction JSON schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := llm.BuildExtractionSchema()
		if flagLenient {
			s = llm.BuildResponseSchema()
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	},
}

func init() {
	schemaCmd.Flags().BoolVar(&flagLenient, "response", false, "print the lenient schema responses are validated against")
	rootCmd.AddCommand(schemaCmd)
}
