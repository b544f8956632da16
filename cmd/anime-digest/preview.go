package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/anime-digest/internal/app"
	"github.com/jsamuelsen/anime-digest/internal/domain"
)

type previewOptions struct {
	ranking string
	limit   int
	table   bool
}

func newPreviewCommand(opts *rootOptions) *cobra.Command {
	var po previewOptions

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the digest that would be posted, without posting it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var category domain.RankingType
			if po.ranking != "" {
				parsed, err := domain.ParseRankingType(po.ranking)
				if err != nil {
					return err
				}

				category = parsed
			}

			if po.limit < 0 || po.limit > 500 {
				return fmt.Errorf("--limit must be between 1 and 500 (0 uses digest.limit), got %d", po.limit)
			}

			ctx := cmd.Context()

			p, err := newPipeline(ctx, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer p.close(ctx)

			digest, err := p.service.Preview(ctx, category, po.limit)
			if err != nil {
				return err
			}

			return writePreview(cmd.OutOrStdout(), digest, po.table)
		},
	}

	cmd.Flags().StringVar(&po.ranking, "ranking", "", "Ranking type (all, airing, upcoming, tv, ova, movie, special, bypopularity, favorite)")
	cmd.Flags().IntVar(&po.limit, "limit", 0, "Number of entries; 0 uses digest.limit")
	cmd.Flags().BoolVar(&po.table, "table", false, "Print a summary table instead of the message text")

	return cmd
}

func writePreview(w io.Writer, digest *domain.Digest, asTable bool) error {
	if !asTable {
		_, err := fmt.Fprintln(w, digest.Text)
		return err
	}

	rows := make([][]string, 0, len(digest.Entries))
	for _, e := range digest.Entries {
		rows = append(rows, []string{
			strconv.Itoa(e.Rank),
			":" + string(e.Marker) + ":",
			string(e.Source),
			e.Anime.Title,
			e.Anime.MediaType,
			app.SeasonLabel(e.Anime.StartSeason),
		})
	}

	_, err := fmt.Fprintln(w, renderTable(
		[]string{"Rank", "Marker", "Source", "Title", "Media", "Season"},
		rows,
		[]columnAlignment{alignRight},
	))

	return err
}
