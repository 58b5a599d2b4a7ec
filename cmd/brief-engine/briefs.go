// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meshintel/brief-engine/internal/store"
	"github.com/meshintel/brief-engine/pkg/types"
)

var briefsCmd = &cobra.Command{
	Use:   "briefs",
	Short: "Browse the brief archive (list, show, stats)",
	Long: `Briefs manages the local archive of finished research briefs.
Use subcommands to list a user's briefs, show one in full, or view
archive-wide statistics.`,
}

// --- list subcommand ---

var briefsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived briefs for a user",
	RunE:  runBriefsList,
}

func runBriefsList(cmd *cobra.Command, args []string) error {
	userID, _ := cmd.Flags().GetString("user")
	limit, _ := cmd.Flags().GetInt("limit")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.UserBriefs(userID, limit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No briefs found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-40s  %-7s  %-5s  %s\n",
		"Request ID", "Topic", "Depth", "Conf", "Created")
	for _, r := range records {
		topic := r.Topic
		if len(topic) > 40 {
			topic = topic[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-40s  %-7s  %-5.1f  %s\n",
			r.RequestID, topic, r.Depth, r.Confidence, r.CreatedAt.Format(time.DateOnly))
	}
	fmt.Fprintf(os.Stdout, "\n%d briefs\n", len(records))
	return nil
}

// --- show subcommand ---

var briefsShowCmd = &cobra.Command{
	Use:   "show [request-id]",
	Short: "Show one archived brief in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runBriefsShow,
}

func runBriefsShow(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	brief, err := st.BriefByRequestID(args[0])
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(brief)
	}
	printBrief(brief)
	return nil
}

// --- export subcommand ---

var briefsExportCmd = &cobra.Command{
	Use:   "export [output-file]",
	Short: "Export a user's archived briefs to YAML or JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runBriefsExport,
}

func runBriefsExport(cmd *cobra.Command, args []string) error {
	userID, _ := cmd.Flags().GetString("user")
	format, _ := cmd.Flags().GetString("format")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	switch format {
	case "yaml":
		err = st.ExportYAML(userID, args[0])
	case "json":
		err = st.ExportJSON(userID, args[0])
	default:
		return fmt.Errorf("unknown export format %q (want yaml or json)", format)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Exported briefs for %s to %s\n", userID, args[0])
	return nil
}

// --- stats subcommand ---

var briefsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show archive-wide statistics",
	RunE:  runBriefsStats,
}

func runBriefsStats(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := st.Stats()
	if err != nil {
		return err
	}

	fmt.Printf("Briefs:          %d\n", stats.BriefCount)
	fmt.Printf("Users:           %d\n", stats.UserCount)
	fmt.Printf("Exchanges:       %d\n", stats.ExchangeCount)
	fmt.Printf("Avg confidence:  %.1f/10\n", stats.AvgConfidence)
	return nil
}

func openStore() (*store.Store, error) {
	viper.SetDefault("store.data_dir", "data")
	viper.SetDefault("store.max_history", 10)
	return store.NewStore(types.StoreConfig{
		DataDir:    viper.GetString("store.data_dir"),
		MaxHistory: viper.GetInt("store.max_history"),
	})
}

func init() {
	briefsListCmd.Flags().String("user", "cli", "user ID to list briefs for")
	briefsListCmd.Flags().Int("limit", 20, "maximum briefs to list")
	briefsShowCmd.Flags().Bool("json", false, "output the brief as JSON")
	briefsExportCmd.Flags().String("user", "cli", "user ID to export briefs for")
	briefsExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	briefsCmd.AddCommand(briefsListCmd)
	briefsCmd.AddCommand(briefsShowCmd)
	briefsCmd.AddCommand(briefsExportCmd)
	briefsCmd.AddCommand(briefsStatsCmd)
	rootCmd.AddCommand(briefsCmd)
}
