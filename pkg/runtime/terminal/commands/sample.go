package commands

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/de-tools/sales-report/pkg/models/api"
	"github.com/de-tools/sales-report/pkg/models/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type SampleCmd struct {
	output string
}

func NewSampleCmd() *cobra.Command {
	sc := &SampleCmd{}
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print the sample week as render input",
		RunE:  sc.run,
	}

	cmd.Flags().StringVarP(&sc.output, "output", "o", "yaml", "Output encoding (json, yaml)")

	return cmd
}

func (sc *SampleCmd) run(cmd *cobra.Command, _ []string) error {
	req := api.NewReportRequest(domain.SampleReport())

	data, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode sample: %w", err)
	}

	switch sc.output {
	case "json":
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	case "yaml", "yml":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var doc any
		if err := dec.Decode(&doc); err != nil {
			return fmt.Errorf("failed to encode sample: %w", err)
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(toYAMLValue(doc)); err != nil {
			return fmt.Errorf("failed to encode sample: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output encoding %q", sc.output)
	}
}
