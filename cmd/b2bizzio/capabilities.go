package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"b2bizzio/internal/app"
	"b2bizzio/internal/domain"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

func newCapabilitiesCmd(logging app.Logging) *cobra.Command {
	output := outputJSON
	cmd := &cobra.Command{
		Use:   "capabilities",
		Short: "Print the tools, resources and prompts this server exposes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := app.New(logging).Capabilities()
			if err != nil {
				return err
			}
			return writeCapabilities(cmd.OutOrStdout(), set, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", output, "output format (json or yaml)")
	return cmd
}

func writeCapabilities(w io.Writer, set domain.CapabilitySet, format string) error {
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return err
	}
	switch format {
	case outputJSON:
		_, err = fmt.Fprintln(w, string(data))
		return err
	case outputYAML:
		// Round-trip through JSON so input schemas keep their JSON field names.
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return err
		}
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(generic); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return exitWithMessage(2, fmt.Sprintf("unknown output format %q (want json or yaml)", format))
	}
}
