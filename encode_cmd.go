package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <text>",
		Short: "Prints the base64 form of text, e.g. to produce URL_BASE.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), Encode(args[0]))
			return nil
		},
	}
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <base64>",
		Short: "Prints the text a base64 value decodes to.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decoded, err := Decode(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), decoded)
			return nil
		},
	}
}
