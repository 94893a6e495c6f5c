package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/legalkb/pkg/legalkb/article"
	"github.com/cognicore/legalkb/pkg/legalkb/query"
	"github.com/cognicore/legalkb/pkg/legalkb/rank"
)

func articleCmd(a *app) *cobra.Command {
	var code string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "article [number]",
		Short: "Show an article by number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 {
				return fmt.Errorf("invalid article number %q", args[0])
			}
			kb, err := a.knowledgeBase(cmd.Context())
			if err != nil {
				return err
			}

			var arts []article.Article
			if code != "" {
				arts = kb.FindArticle(code, n)
			} else {
				arts = kb.FindArticleAnyCode(n)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), orEmpty(arts))
			}
			if len(arts) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No article %d found\n", n)
				return nil
			}
			printArticles(cmd.OutOrStdout(), arts, kb.Label())
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Restrict to one code id")
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Output as JSON")

	return cmd
}

func searchCmd(a *app) *cobra.Command {
	var (
		code    string
		max     int
		explain bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Rank articles by keyword overlap",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, err := a.knowledgeBase(cmd.Context())
			if err != nil {
				return err
			}
			if max <= 0 {
				max = a.cfg.MaxResults
			}
			q := strings.Join(args, " ")

			if explain {
				scored := kb.Explain(q, code, max)
				if asJSON {
					if scored == nil {
						scored = []rank.Scored{}
					}
					return writeJSON(cmd.OutOrStdout(), scored)
				}
				printScored(cmd.OutOrStdout(), scored, kb.Label())
				return nil
			}

			arts := kb.SearchByKeywords(q, code, max)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), orEmpty(arts))
			}
			printResults(cmd.OutOrStdout(), arts, kb.Label())
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Restrict to one code id")
	cmd.Flags().IntVarP(&max, "max", "n", 0, "Maximum results (default from config)")
	cmd.Flags().BoolVar(&explain, "explain", false, "Show the score breakdown")
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Output as JSON")

	return cmd
}

func topicCmd(a *app) *cobra.Command {
	var (
		code   string
		max    int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "topic [topic]",
		Short: "Search with the topic's legal vocabulary",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, err := a.knowledgeBase(cmd.Context())
			if err != nil {
				return err
			}
			if max <= 0 {
				max = a.cfg.MaxResults
			}
			t := strings.Join(args, " ")

			arts := kb.SearchByTopic(t, code, max)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), orEmpty(arts))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Searching: %s\n\n", kb.ExpandTopic(t))
			printResults(cmd.OutOrStdout(), arts, kb.Label())
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Restrict to one code id")
	cmd.Flags().IntVarP(&max, "max", "n", 0, "Maximum results (default from config)")
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Output as JSON")

	return cmd
}

func codesCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "codes",
		Short: "List the loaded legal codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, err := a.knowledgeBase(cmd.Context())
			if err != nil {
				return err
			}
			codes := kb.AvailableCodes()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), codes)
			}
			w := cmd.OutOrStdout()
			if len(codes) == 0 {
				fmt.Fprintln(w, "No codes loaded")
				return nil
			}
			for _, c := range codes {
				fmt.Fprintf(w, "%-24s %s (%s) - %d articles\n", c.CodeID, c.Name, c.LawNumber, c.ArticleCount)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Output as JSON")
	return cmd
}

func statsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show code and article counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, err := a.knowledgeBase(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), kb.Stats())
		},
	}
}

func reportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show what the last load read, skipped and discarded",
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, err := a.knowledgeBase(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), kb.Report())
		},
	}
}

func askCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Gather the articles relevant to a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, err := a.knowledgeBase(cmd.Context())
			if err != nil {
				return err
			}
			res := query.NewPlanner(kb).Retrieve(strings.Join(args, " "))
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprint(cmd.OutOrStdout(), res.Context())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Output as JSON")
	return cmd
}

func printArticles(w io.Writer, arts []article.Article, label string) {
	for i, art := range arts {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, art.FullTextWith(label))
	}
}

func printResults(w io.Writer, arts []article.Article, label string) {
	if len(arts) == 0 {
		fmt.Fprintln(w, "No results")
		return
	}
	for i, art := range arts {
		fmt.Fprintf(w, "%d. %s\n   %s\n", i+1, art.CitationWith(label), snippet(art.Content, 160))
	}
}

func printScored(w io.Writer, scored []rank.Scored, label string) {
	if len(scored) == 0 {
		fmt.Fprintln(w, "No results")
		return
	}
	for i, s := range scored {
		b := s.Breakdown
		fmt.Fprintf(w, "%d. %s  score=%.1f (title=%.1f content=%.1f bonus=%.1f) matched=%s\n",
			i+1, s.Article.CitationWith(label), s.Score, b.Title, b.Content, b.Bonus, strings.Join(s.Matched, ","))
	}
}

func snippet(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

func orEmpty(arts []article.Article) []article.Article {
	if arts == nil {
		return []article.Article{}
	}
	return arts
}
