package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"precivox-base/pkg/analytics"
	"precivox-base/pkg/catalog"
	"precivox-base/pkg/config"
	"precivox-base/pkg/liststore"
	"precivox-base/pkg/logger"
	"precivox-base/pkg/models"
	"precivox-base/pkg/notify"
	"precivox-base/pkg/pricemath"
	"precivox-base/pkg/reconciler"
	"precivox-base/pkg/storage"
)

var (
	cfg     config.Config
	adapter storage.Adapter
	store   *liststore.Store
	rec     *reconciler.Reconciler
)

func openAdapter(cfg config.Config) (storage.Adapter, error) {
	switch cfg.StorageBackend {
	case "memory":
		return storage.NewMemory(), nil
	case "file":
		return storage.NewFile(cfg.FileDir)
	case "sqlite":
		return storage.NewSQLite(cfg.SQLitePath)
	case "redis":
		return storage.NewRedis(cfg.RedisAddr)
	case "postgres":
		return storage.NewPostgres(storage.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPassword,
			DBName:   cfg.PostgresDB,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func openCatalog() (catalog.Provider, error) {
	return catalog.NewFileProvider(cfg.CatalogPath)
}

func printList(list models.Lista) {
	fmt.Printf("%s (%s)\n", list.Name, list.ID)
	if len(list.Items) == 0 {
		fmt.Println("  (lista vazia)")
		return
	}
	for _, item := range list.Items {
		mark := " "
		if item.Purchased {
			mark = "x"
		}
		fmt.Printf("  [%s] %dx %-40s %s  %s\n",
			mark, item.Quantity, item.Product.Name,
			pricemath.FormatPrice(item.Product.Price), item.Product.Store)
	}
	s := analytics.Summarize(list.Items, 0)
	fmt.Printf("  %s | %s | %s\n", s.Items, s.Stores, s.Total)
}

func main() {
	root := &cobra.Command{
		Use:           "precivox",
		Short:         "Shopping list engine for the Precivox price comparison app",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			adapter, err = openAdapter(cfg)
			if err != nil {
				return err
			}
			store = liststore.New(adapter)
			store.Hydrate()

			sink := notify.NewThrottled(notify.LogSink{}, cfg.NotifyRatePerSec, cfg.NotifyBurst)
			rec = reconciler.New(sink, reconciler.Options{
				AllowDuplicateOnSuggestedAdd: cfg.AllowDuplicateOnSuggestedAdd,
			})
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if adapter != nil {
				adapter.Close()
			}
			logger.Sync()
		},
	}

	root.AddCommand(
		showCmd(), addCmd(), removeCmd(), qtyCmd(), newCmd(),
		listsCmd(), duplicateCmd(), deleteCmd(), saveCmd(),
		analyzeCmd(), applyCmd(),
	)

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the working list",
		RunE: func(cmd *cobra.Command, args []string) error {
			printList(store.Current())
			return nil
		},
	}
}

func addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <product-id> [quantity]",
		Short: "Add a catalog product to the working list",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := openCatalog()
			if err != nil {
				return err
			}

			qty := 1
			if len(args) == 2 {
				qty, err = strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid quantity %q", args[1])
				}
			}

			product, err := provider.ProductByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			printList(store.AddProduct(product, qty))
			return nil
		},
	}
}

func removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the working list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printList(store.RemoveProduct(args[0]))
			return nil
		},
	}
}

func qtyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "qty <product-id> <quantity>",
		Short: "Set the exact quantity of a product (0 removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			printList(store.SetProductQuantity(args[0], quantity))
			return nil
		},
	}
}

func newCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Create a fresh empty list and make it the working list",
		RunE: func(cmd *cobra.Command, args []string) error {
			printList(store.NewEmptyList())
			return nil
		},
	}
}

func listsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "Print all saved lists",
		RunE: func(cmd *cobra.Command, args []string) error {
			all := store.AllLists()
			if len(all) == 0 {
				fmt.Println("(nenhuma lista salva)")
				return nil
			}
			for _, list := range all {
				s := analytics.Summarize(list.Items, 0)
				fmt.Printf("%-30s %s  %s  %s\n", list.Name, list.ID, s.Items, s.Total)
			}
			return nil
		},
	}
}

func duplicateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate",
		Short: "Duplicate the working list into the saved collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			dup := store.DuplicateList(store.Current())
			printList(dup)
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <list-id>",
		Short: "Delete a saved list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store.DeleteList(args[0])
			fmt.Println("lista removida")
			return nil
		},
	}
}

func saveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Promote the working list into the saved collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			store.SaveCurrent()
			fmt.Println("lista salva")
			return nil
		},
	}
}

func analyzeCmd() *cobra.Command {
	var aiSavings float64

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze the working list: totals, breakdowns and insights",
		RunE: func(cmd *cobra.Command, args []string) error {
			list := store.Current()
			r := analytics.Analyze(list.Items, aiSavings)

			fmt.Printf("%d itens, %d unidades, total %s\n",
				r.TotalItems, r.TotalQuantity, pricemath.FormatPrice(r.TotalValue))
			if r.TotalCombinedSavings > 0 {
				fmt.Printf("economia: %s (%.1f%%)\n",
					pricemath.FormatPrice(r.TotalCombinedSavings), r.TotalSavingsPercentage)
			}
			fmt.Printf("concluído: %.0f%%\n", r.CompletionPercentage)

			for _, s := range r.Insights {
				fmt.Println("insight:", s)
			}
			for _, s := range r.Recommendations {
				fmt.Println("recomendação:", s)
			}
			for _, s := range r.Warnings {
				fmt.Println("aviso:", s)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&aiSavings, "ai-savings", 0, "savings already applied by AI suggestions")
	return cmd
}

func applyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <suggestion.json | ->",
		Short: "Apply an AI suggestion (or array of suggestions) to the working list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if args[0] == "-" {
				data, err = io.ReadAll(os.Stdin)
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			list := store.Current()

			var result models.Result
			var batch []models.Suggestion
			if err := json.Unmarshal(data, &batch); err == nil {
				result = rec.ApplyAll(batch, &list, store.ReplaceCurrent)
			} else {
				var s models.Suggestion
				if err := json.Unmarshal(data, &s); err != nil {
					return fmt.Errorf("invalid suggestion payload: %w", err)
				}
				result = rec.Apply(&s, &list, store.ReplaceCurrent)
			}

			fmt.Printf("success=%t: %s\n", result.Success, result.Message)
			printList(store.Current())
			return nil
		},
	}
}
