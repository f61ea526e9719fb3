package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360/scanstream/gs1"
)

func init() {
	cmd := &cobra.Command{
		Use:   "decode [input]",
		Short: "Decode a GS1 element string",
		Long:  "Decode and validate one element string. Input syntax is detected automatically unless --format forces it.",
		Args:  cobra.ExactArgs(1),
		Run:   runDecode,
	}

	cmd.Flags().StringP("format", "f", "auto", "Input syntax: auto, gs, or paren")

	rootCmd.AddCommand(cmd)
}

func runDecode(cmd *cobra.Command, args []string) {
	syntax, _ := cmd.Flags().GetString("format")
	input := expandGS(args[0])

	var result gs1.ParseResult
	switch syntax {
	case "auto":
		result = gs1.Decode(input)
	case "gs":
		result = gs1.DecodeGS(input)
	case "paren":
		result = gs1.DecodeParenthesized(input)
	default:
		exitErr("decode", fmt.Errorf("unknown input syntax %q (auto, gs, paren)", syntax))
	}

	data := gs1.Validate(result)

	if outputFlag == "text" {
		printDecodeText(result, data)
		return
	}

	printJSON(struct {
		Input  string           `json:"input"`
		Format gs1.Format       `json:"format"`
		OK     bool             `json:"ok"`
		Errors []gs1.ParseError `json:"errors,omitempty"`
		Data   gs1.ParsedData   `json:"data"`
	}{result.Input, result.Format, result.OK, result.Errors, data})
}

func printDecodeText(result gs1.ParseResult, data gs1.ParsedData) {
	for _, el := range data.Elements {
		status := "ok"
		if !el.Valid {
			status = el.Err
			if status == "" {
				status = "invalid"
			}
		}
		fmt.Printf("%-24s (%s): %s  [%s]\n", el.Title(), el.AI, el.Value, status)
	}
	for _, e := range result.Errors {
		fmt.Printf("parse error at %d: %s\n", e.Pos, e.Reason)
	}
	for _, msg := range data.GlobalErrors {
		fmt.Printf("error: %s\n", msg)
	}
	if data.PrimaryKey != nil {
		fmt.Printf("primary key: (%s) %s\n", data.PrimaryKey.AI, data.PrimaryKey.Value)
	}
	fmt.Printf("valid: %v\n", data.Valid)
}
