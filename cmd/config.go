package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/KaramelBytes/alsobought-cli/internal/buyer"
	cfgpkg "github.com/KaramelBytes/alsobought-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set AlsoBought configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "buyer_column: %s\n", cfg.BuyerColumn)
		fmt.Fprintf(w, "item_columns: %s\n", strings.Join(cfg.ItemColumns, ","))
		fmt.Fprintf(w, "quantity_column: %s\n", cfg.QuantityColumn)
		fmt.Fprintf(w, "top_items: %d\n", cfg.TopItems)
		fmt.Fprintf(w, "top_k: %d\n", cfg.TopK)
		fmt.Fprintf(w, "min_buyer_orders: %d\n", cfg.MinBuyerOrders)
		fmt.Fprintf(w, "missing_buyer: %s\n", cfg.MissingBuyer)
		fmt.Fprintf(w, "bare_usernames: %t\n", cfg.BareUsernames)
		fmt.Fprintf(w, "http_addr: %s\n", cfg.HTTPAddr)
		fmt.Fprintf(w, "max_upload_mb: %d\n", cfg.MaxUploadMB)
		fmt.Fprintf(w, "cache_size: %d\n", cfg.CacheSize)
		fmt.Fprintf(w, "cache_ttl_min: %d\n", cfg.CacheTTLMin)
		fmt.Fprintf(w, "log_env: %s\n", cfg.LogEnv)
		fmt.Fprintf(w, "log_level: %s\n", cfg.LogLevel)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "buyer_column":
			cfg.BuyerColumn = val
		case "item_columns":
			var cols []string
			for _, c := range strings.Split(val, ",") {
				if c = strings.TrimSpace(c); c != "" {
					cols = append(cols, c)
				}
			}
			if len(cols) == 0 {
				return fmt.Errorf("item_columns needs at least one column name")
			}
			cfg.ItemColumns = cols
		case "quantity_column":
			cfg.QuantityColumn = val
		case "top_items", "top_k", "min_buyer_orders", "max_upload_mb", "cache_size", "cache_ttl_min":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid positive int for %s: %v", key, val)
			}
			setInt(cfg, key, i)
		case "missing_buyer":
			p, err := buyer.ParseMissingPolicy(val)
			if err != nil {
				return err
			}
			cfg.MissingBuyer = string(p)
		case "bare_usernames":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for bare_usernames: %v", val)
			}
			cfg.BareUsernames = b
		case "http_addr":
			cfg.HTTPAddr = val
		case "log_env":
			switch val {
			case "dev", "local", "prod":
				cfg.LogEnv = val
			default:
				return fmt.Errorf("invalid log_env: %s (use dev or prod)", val)
			}
		case "log_level":
			if _, err := zapcore.ParseLevel(val); err != nil {
				return fmt.Errorf("invalid log_level: %s (use debug|info|warn|error)", val)
			}
			cfg.LogLevel = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func setInt(c *cfgpkg.Global, key string, v int) {
	switch key {
	case "top_items":
		c.TopItems = v
	case "top_k":
		c.TopK = v
	case "min_buyer_orders":
		c.MinBuyerOrders = v
	case "max_upload_mb":
		c.MaxUploadMB = v
	case "cache_size":
		c.CacheSize = v
	case "cache_ttl_min":
		c.CacheTTLMin = v
	}
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
