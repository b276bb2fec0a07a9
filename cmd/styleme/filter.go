package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"styleme/internal/capture"
	"styleme/internal/filter"
)

var filterSpecFlag string

var filterCmd = &cobra.Command{
	Use:   "filter <input> <output.png>",
	Short: "Apply a filter spec to an image",
	Args:  cobra.ExactArgs(2),
	RunE:  runFilter,
}

func init() {
	filterCmd.Flags().StringVarP(&filterSpecFlag, "spec", "s", "", `Filter spec, e.g. "brightness(1.1) contrast(1.2) hue-rotate(15deg)"`)
	_ = filterCmd.MarkFlagRequired("spec")
}

func runFilter(cmd *cobra.Command, args []string) error {
	spec, err := filter.ParseSpec(filterSpecFlag)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	src, err := capture.NewAdapter(capture.Options{Logger: logger}).FromUpload(data)
	if err != nil {
		return err
	}
	out, err := filter.Apply(src, spec)
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[1], out.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", args[1], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", args[1], filter.Format(spec))
	return nil
}
