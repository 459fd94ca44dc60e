package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"aelfgpt/internal/knowledge"
)

var (
	ingestPatterns []string
	queryTopK      int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [dir]",
	Short: "Chunk, embed and index the documents under dir",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, a, _, cleanup, err := bootstrap(cmd, false)
		if err != nil {
			return err
		}
		defer cleanup()

		out, err := a.Knowledge.Ingest(ctx, knowledge.IngestInput{Root: args[0], Patterns: ingestPatterns})
		if err != nil {
			return err
		}
		printIngestOutput(cmd.OutOrStdout(), out)
		return nil
	},
}

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Show the nodes retrieved for a question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, a, _, cleanup, err := bootstrap(cmd, false)
		if err != nil {
			return err
		}
		defer cleanup()

		out, err := a.Knowledge.Retrieve(ctx, knowledge.RetrieveInput{Query: args[0], TopK: queryTopK})
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		for i, n := range out.Nodes {
			fmt.Fprintf(w, "%d. %s (score %.4f)\n%s\n\n", i+1, n.ID, n.Score, n.Text)
		}
		if len(out.Nodes) == 0 {
			fmt.Fprintln(w, "No matching nodes.")
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [document-id]",
	Short: "Remove every node of a document from the index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, a, _, cleanup, err := bootstrap(cmd, false)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := a.Knowledge.DeleteDocument(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

func printIngestOutput(w io.Writer, out knowledge.IngestOutput) {
	fmt.Fprintf(w, "Indexed %d document(s) as %d node(s), skipped %d\n", out.Documents, out.Nodes, len(out.Skipped))
	for _, path := range out.Skipped {
		fmt.Fprintf(w, "  skipped %s\n", path)
	}
}

func init() {
	ingestCmd.Flags().StringSliceVarP(&ingestPatterns, "pattern", "p", nil, "Glob pattern relative to dir (repeatable, default from config)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", knowledge.DefaultTopK, "Number of nodes to retrieve")
}
