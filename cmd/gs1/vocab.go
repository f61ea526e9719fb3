package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360/scanstream/vocabulary"
)

func init() {
	vocabCmd := &cobra.Command{
		Use:   "vocab",
		Short: "Browse the AI vocabulary",
	}

	vocabCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all registered AI definitions",
		Run:   runVocabList,
	})

	vocabCmd.AddCommand(&cobra.Command{
		Use:   "search [query]",
		Short: "Search definitions by code, title, or description",
		Args:  cobra.MinimumNArgs(1),
		Run:   runVocabSearch,
	})

	vocabCmd.AddCommand(&cobra.Command{
		Use:   "get [ai]",
		Short: "Show one AI definition",
		Args:  cobra.ExactArgs(1),
		Run:   runVocabGet,
	})

	rootCmd.AddCommand(vocabCmd)
}

func runVocabList(_ *cobra.Command, _ []string) {
	printDefinitions(vocabulary.List())
}

func runVocabSearch(_ *cobra.Command, args []string) {
	printDefinitions(vocabulary.Search(strings.Join(args, " ")))
}

func runVocabGet(_ *cobra.Command, args []string) {
	def := vocabulary.Lookup(args[0])
	if def == nil {
		exitErr("vocab get", fmt.Errorf("no definition for AI %q", args[0]))
	}

	if outputFlag == "text" {
		printDefinitionText(def)
		return
	}
	printJSON(def)
}

func printDefinitions(defs []vocabulary.AIDefinition) {
	if outputFlag == "text" {
		for i := range defs {
			d := &defs[i]
			fmt.Printf("%-6s %-28s %s\n", d.Code, d.Title, d.Format)
		}
		return
	}

	if defs == nil {
		defs = []vocabulary.AIDefinition{}
	}
	printJSON(defs)
}

func printDefinitionText(d *vocabulary.AIDefinition) {
	fmt.Printf("AI:     %s\n", d.Code)
	fmt.Printf("Title:  %s\n", d.Title)
	fmt.Printf("Format: %s\n", d.Format)
	if d.Description != "" {
		fmt.Printf("Description: %s\n", d.Description)
	}
	if len(d.Requires) > 0 {
		fmt.Printf("Requires one of: %s\n", strings.Join(d.Requires, ", "))
	}
	if len(d.Excludes) > 0 {
		fmt.Printf("Excludes: %s\n", strings.Join(d.Excludes, ", "))
	}
	if d.PrimaryKey {
		fmt.Println("Digital Link primary key")
	}
}
