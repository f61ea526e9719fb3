package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360/scanstream/gs1"
)

func init() {
	cmd := &cobra.Command{
		Use:   "convert [input]",
		Short: "Convert between GS and parenthesized syntax",
		Long:  "Decode one element string and re-encode it in the target syntax. GS separators in the output are rendered as {GS}.",
		Args:  cobra.ExactArgs(1),
		Run:   runConvert,
	}

	cmd.Flags().StringP("to", "t", "paren", "Target syntax: gs or paren")

	rootCmd.AddCommand(cmd)
}

func runConvert(cmd *cobra.Command, args []string) {
	target, _ := cmd.Flags().GetString("to")

	result := gs1.Decode(expandGS(args[0]))
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "parse error at %d: %s\n", e.Pos, e.Reason)
	}
	if len(result.Elements) == 0 {
		exitErr("convert", fmt.Errorf("no elements decoded"))
	}

	switch target {
	case "paren":
		fmt.Println(gs1.EncodeParenthesized(result.Elements))
	case "gs":
		fmt.Println(strings.ReplaceAll(gs1.EncodeGS(result.Elements), string(gs1.GS), "{GS}"))
	default:
		exitErr("convert", fmt.Errorf("unknown target syntax %q (gs, paren)", target))
	}
}
