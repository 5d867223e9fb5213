package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"gem-bridge/internal/converter/models"
	"gem-bridge/internal/converter/service"

	"github.com/spf13/cobra"
)

// ============================================================
// gemtool CLI
// ============================================================

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gemtool",
		Short:         "Translate building models to and from IES GEM files",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newModelToGemCmd())
	root.AddCommand(newGemToModelCmd())
	return root
}

func newModelToGemCmd() *cobra.Command {
	var folder string
	var name string

	cmd := &cobra.Command{
		Use:   "model-to-gem <model-file>",
		Short: "Translate a building-model JSON file to an IES GEM file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read model file: %w", err)
			}

			var model models.Model
			if err := json.Unmarshal(data, &model); err != nil {
				return fmt.Errorf("decode model JSON: %w", err)
			}

			path, result, err := service.New().ExportModel(&model, folder, name)
			if err != nil {
				return err
			}

			for _, d := range result.Diagnostics {
				log.Printf("[%s] %s: %s", d.Severity, d.Entity, d.Message)
			}
			fmt.Println(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&folder, "folder", "f", ".", "target folder for the GEM file")
	cmd.Flags().StringVarP(&name, "name", "n", "", "output file name (default: model name)")
	return cmd
}

func newGemToModelCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "gem-to-model <gem-file>",
		Short: "Translate an IES GEM file to a building-model JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, diags, err := service.New().ImportModel(args[0])
			if err != nil {
				return err
			}

			for _, d := range diags {
				log.Printf("[%s] %s: %s", d.Severity, d.Entity, d.Message)
			}

			data, err := json.MarshalIndent(model, "", "  ")
			if err != nil {
				return fmt.Errorf("encode model JSON: %w", err)
			}

			if output == "" {
				fmt.Println(string(data))
				return nil
			}
			if err := os.WriteFile(output, append(data, '\n'), 0o644); err != nil {
				return fmt.Errorf("write model file: %w", err)
			}
			fmt.Println(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output JSON path (default: stdout)")
	return cmd
}
