package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/amishk599/resumetailor/internal/render"
	"github.com/amishk599/resumetailor/internal/store"
	"github.com/spf13/cobra"
)

var (
	historyLimit  int
	historyPretty bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored results",
	Long:  "Lists results recorded while history.enabled is true, newest first.",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print one stored result",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of results to list (0 = all)")
	historyShowCmd.Flags().BoolVar(&historyPretty, "pretty", false, "render the markdown for the terminal")
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory() (*store.SQLiteStore, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, errors.New("history is disabled (set history.enabled: true in config.yaml)")
	}
	return store.NewSQLiteStore(cfg.History.Path)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	st, err := openHistory()
	if err != nil {
		return err
	}
	defer st.Close()

	completions, err := st.List(historyLimit)
	if err != nil {
		return err
	}
	if len(completions) == 0 {
		fmt.Println("No stored results.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODE\tCREATED\tSTATUS\tJOB")
	for _, c := range completions {
		status := "ok"
		if c.Failed {
			status = "failed"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.Mode, c.CreatedAt.Local().Format("2006-01-02 15:04"), status, snippet(c.JobDescription, 48))
	}
	return w.Flush()
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	st, err := openHistory()
	if err != nil {
		return err
	}
	defer st.Close()

	c, err := st.Get(args[0])
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no stored result with id %s", args[0])
	}
	if err != nil {
		return err
	}

	if historyPretty {
		fmt.Print(render.Terminal(c.Result, 100))
		return nil
	}
	fmt.Println(c.Result)
	return nil
}

// snippet returns the first line of s, cut to n runes.
func snippet(s string, n int) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}
