package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/viant/sovereign/engine"
	"github.com/viant/sovereign/vectordb/meta"
	"github.com/viant/sovereign/vectorstores"
)

func (a *app) ingestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <path>...",
		Short: "Ingest documents into the private index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, _, err := a.open(cmd.Context(), nil, true)
			if err != nil {
				return err
			}
			defer eng.Close()
			failed := 0
			for _, location := range args {
				result, err := eng.IngestFile(cmd.Context(), location)
				if err != nil {
					failed++
					fmt.Fprintln(cmd.OutOrStdout(), engine.IngestMessage(location, err))
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), engine.SuccessMessage(result))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed", failed, len(args))
			}
			return nil
		},
	}
}

func (a *app) askCmd() *cobra.Command {
	var k int
	var showSources bool
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question from the private index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, _, err := a.open(cmd.Context(), nil, true)
			if err != nil {
				return err
			}
			defer eng.Close()
			answer, err := eng.Query(cmd.Context(), strings.Join(args, " "), k)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), engine.QueryMessage(err))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer.Text)
			if showSources {
				for _, src := range answer.Sources {
					fmt.Fprintf(cmd.OutOrStdout(), "  - %s (page %d, score %.3f)\n", src.Path, src.Page, src.Score)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&k, "k", "k", 0, "number of chunks to retrieve (default from config)")
	cmd.Flags().BoolVar(&showSources, "sources", false, "print the sources used")
	return cmd
}

func (a *app) searchCmd() *cobra.Command {
	var limit, offset int
	var minScore float32
	var source string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Show the chunks nearest to a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, _, err := a.open(cmd.Context(), nil, true)
			if err != nil {
				return err
			}
			defer eng.Close()
			var opts []vectorstores.Option
			if offset > 0 {
				opts = append(opts, vectorstores.WithOffset(offset))
			}
			if minScore > 0 {
				opts = append(opts, vectorstores.WithMinScore(minScore))
			}
			if source != "" {
				opts = append(opts, vectorstores.WithSource(source))
			}
			docs, err := eng.Search(cmd.Context(), strings.Join(args, " "), limit, opts...)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(docs)
			}
			for i, doc := range docs {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s [page %d, chunk %d] score=%.4f\n%s\n\n",
					i+1, doc.Source(), doc.Page(), meta.GetInt(doc.Metadata, meta.SeqKey), doc.Score, doc.PageContent)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of chunks (default from config)")
	cmd.Flags().IntVar(&offset, "offset", 0, "skip the first N ranked chunks")
	cmd.Flags().Float32Var(&minScore, "min-score", 0, "minimum cosine similarity")
	cmd.Flags().StringVar(&source, "source", "", "restrict to one ingested source path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func (a *app) seedCmd() *cobra.Command {
	var folder string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Ingest the data folder when the index is empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, _, _, err := a.open(cmd.Context(), nil, false)
			if err != nil {
				return err
			}
			defer eng.Close()
			report, err := eng.EnsureSeeded(cmd.Context(), folder)
			if err != nil {
				return err
			}
			if report.Skipped {
				fmt.Fprintf(cmd.OutOrStdout(), "Database ready with %d document chunks.\n", report.Existing)
				return nil
			}
			for _, f := range report.Files {
				fmt.Fprintln(cmd.OutOrStdout(), f.Message)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d of %d documents from %s.\n", report.Ingested(), len(report.Files), report.Folder)
			return nil
		},
	}
	cmd.Flags().StringVar(&folder, "folder", "", "folder to scan (default from config)")
	return cmd
}

func (a *app) countCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of indexed chunks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, _, _, err := a.open(cmd.Context(), nil, true)
			if err != nil {
				return err
			}
			defer eng.Close()
			n, err := eng.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}
