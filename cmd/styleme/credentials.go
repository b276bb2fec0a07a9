package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"styleme/internal/infra"
	"styleme/internal/infra/credentials"
)

var (
	credProviderFlag string
	credKeyFlag      string
)

var credentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Manage remote provider keys stored in Postgres",
}

var credentialsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store a provider key (reads DATABASE_URL)",
	RunE:  runCredentialsSet,
}

func init() {
	credentialsSetCmd.Flags().StringVarP(&credProviderFlag, "provider", "p", credentials.ProviderGemini, "Provider to configure")
	credentialsSetCmd.Flags().StringVarP(&credKeyFlag, "key", "k", "", "API key (falls back to GEMINI_API_KEY)")
	credentialsCmd.AddCommand(credentialsSetCmd)
}

func runCredentialsSet(cmd *cobra.Command, args []string) error {
	provider := strings.ToLower(strings.TrimSpace(credProviderFlag))
	key := strings.TrimSpace(credKeyFlag)
	if key == "" && provider == credentials.ProviderGemini {
		key = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	}
	if key == "" {
		return errors.New("key is required via --key or GEMINI_API_KEY")
	}
	cfg := &infra.Config{DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL"))}

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	store := credentials.NewStore(infra.NewSQLRunner(pool, logger.With().Str("cmd", "credentials").Logger()))
	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("prepare integration_tokens: %w", err)
	}
	if err := store.SetToken(ctx, provider, key); err != nil {
		return fmt.Errorf("store %s key: %w", provider, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s key stored\n", strings.ToUpper(provider))
	return nil
}
