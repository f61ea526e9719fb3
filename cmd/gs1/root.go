// Package main implements the gs1 CLI for decoding, converting, and
// inspecting GS1 element strings without running the full service.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360/scanstream/gs1"
	"github.com/c360/scanstream/vocabulary"
)

var (
	outputFlag  string
	overlayFlag string
)

var rootCmd = &cobra.Command{
	Use:   "gs1",
	Short: "Decode and inspect GS1 element strings",
	Long: "Decode GS-separated or parenthesized GS1 element strings, convert between " +
		"the two syntaxes, and browse the AI vocabulary. The token {GS} in raw input " +
		"stands for the ASCII group separator (0x1D).",
	PersistentPreRunE: loadOverlay,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "json", "Output format: json or text")
	rootCmd.PersistentFlags().StringVar(&overlayFlag, "overlay", "", "Path to AI definition overlay file")
}

func loadOverlay(_ *cobra.Command, _ []string) error {
	if overlayFlag == "" {
		return nil
	}
	if _, err := vocabulary.LoadOverlay(overlayFlag); err != nil {
		return fmt.Errorf("load overlay: %w", err)
	}
	return nil
}

// expandGS substitutes the printable {GS} token with the real separator
// so raw scanner data can be passed as a shell argument.
func expandGS(input string) string {
	return strings.ReplaceAll(input, "{GS}", string(gs1.GS))
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
