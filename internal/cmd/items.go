package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcinsik/knowledge-assistant/internal/api"
	"github.com/marcinsik/knowledge-assistant/internal/config"
	"github.com/marcinsik/knowledge-assistant/internal/store"
)

// ItemsCmd returns the `knowassist items` command group.
func ItemsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Work with knowledge items from the command line",
	}
	cmd.AddCommand(itemsListCmd())
	cmd.AddCommand(itemsSearchCmd())
	return cmd
}

func itemsListCmd() *cobra.Command {
	var (
		tags     []string
		itemType string
		sortBy   string
		order    string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List knowledge items",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			client := api.NewClient(cfg.APIURL)

			items, err := client.ListItems()
			if err != nil {
				return fmt.Errorf("list items: %w", err)
			}

			filters := store.FilterState{
				Tags:      tags,
				Type:      store.ItemType(itemType),
				SortBy:    sortBy,
				SortOrder: order,
			}
			items = store.Filter(items, "", filters)

			if len(items) == 0 {
				fmt.Println("no items found")
				return nil
			}
			printItems(items)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "only items carrying one of these tags")
	cmd.Flags().StringVar(&itemType, "type", string(store.TypeAll), "item type: all, text or pdf")
	cmd.Flags().StringVar(&sortBy, "sort", store.SortByDate, "sort field: date or title")
	cmd.Flags().StringVar(&order, "order", store.SortDesc, "sort order: asc or desc")
	return cmd
}

func itemsSearchCmd() *cobra.Command {
	var topK int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Semantic search over the knowledge base",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			client := api.NewClient(cfg.APIURL)

			if topK <= 0 {
				topK = cfg.SearchTopK
			}
			items, err := client.SemanticSearch(strings.Join(args, " "), topK)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			if len(items) == 0 {
				fmt.Println("no results")
				return nil
			}
			printItems(items)
			return nil
		},
	}
	cmd.Flags().IntVar(&topK, "top-k", 0, "number of results (defaults to the configured value)")
	return cmd
}

func printItems(items []api.KnowledgeItem) {
	for _, item := range items {
		kind := "text"
		if item.IsPDF() {
			kind = "pdf"
		}
		line := fmt.Sprintf("%4d  %-4s  %s", item.ID, kind, item.Title)
		if len(item.Tags) > 0 {
			line += "  [" + strings.Join(item.Tags, ", ") + "]"
		}
		fmt.Println(line)
	}
}
