package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pfbtools/pfbgen/pkg/vector"
)

var (
	cacheDomainStyle = lipgloss.NewStyle().Bold(true)
	cacheKeyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	cacheSizeStyle   = lipgloss.NewStyle().Faint(true)

	cacheCmd = &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the test vector cache",
	}

	cacheLsCmd = &cobra.Command{
		Use:   "ls",
		Short: "List committed cache entries",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cfg, err := pipelineConfig()
			if err != nil {
				return err
			}
			cache := vector.NewCache(cfg, log.Default())

			entries, err := cache.Entries()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("Cache is empty.")
				return nil
			}

			for _, e := range entries {
				fmt.Printf("%s  %s  %s\n",
					cacheDomainStyle.Render(fmt.Sprintf("%-4s", e.Domain)),
					cacheKeyStyle.Render(fmt.Sprintf("%-28s", e.Key)),
					cacheSizeStyle.Render(humanize.Bytes(uint64(e.Size))))
				if e.Meta != nil && e.Meta.InvertedFile != "" {
					fmt.Printf("      %s -> %s -> %s\n", e.Meta.InputFile, e.Meta.ChannelizedFile, e.Meta.InvertedFile)
				}
			}
			return nil
		},
	}

	cacheClearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Remove every cache entry",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cfg, err := pipelineConfig()
			if err != nil {
				return err
			}
			return vector.NewCache(cfg, log.Default()).Clear()
		},
	}
)

func init() {
	cacheCmd.AddCommand(cacheLsCmd, cacheClearCmd)
}
