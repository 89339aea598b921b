package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	matchQuery   string
	outputFormat string
)

var pageCmd = &cobra.Command{
	Use:   "page [N]",
	Short: "Print one page of coins by market cap",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n := 1
		if len(args) == 1 {
			v, err := strconv.Atoi(args[0])
			if err != nil || v < 1 {
				return fmt.Errorf("invalid page %q", args[0])
			}
			n = v
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Market.Timeout)
		defer cancel()

		page, err := a.market.FetchPage(ctx, n)
		if err != nil {
			return err
		}
		if page.FromCache {
			fmt.Fprintf(cmd.ErrOrStderr(), "Offline: showing page %d cached at %s\n",
				page.Number, page.FetchedAt.Local().Format("Jan 2 15:04"))
		}
		writeCoinTable(cmd.OutOrStdout(), page.Coins, terminalWidth())
		return nil
	},
}

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Work with starred coins",
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List starred coins",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := parseFormat(outputFormat)
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return writeFavorites(cmd.OutOrStdout(), a.favorites.Search(matchQuery), format, terminalWidth())
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the offline cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached pages and responses; favorites are kept",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		pages := a.store.PageNumbers()
		a.market.ClearCache()
		fmt.Fprintln(cmd.OutOrStdout(), clearedSummary(pages))
		return nil
	},
}

func init() {
	favoritesListCmd.Flags().StringVar(&matchQuery, "match", "", "fuzzy match on name or id")
	favoritesListCmd.Flags().StringVar(&outputFormat, "format", string(formatTable), "output format: table, json or yaml")
	favoritesCmd.AddCommand(favoritesListCmd)

	cacheCmd.AddCommand(cacheClearCmd)
}

// terminalWidth returns the stdout width, or 100 when it is not a terminal
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 100
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return 100
	}
	return w
}
