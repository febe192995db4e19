package main

import (
	"fmt"
	"os"
	"strconv"

	"databazaar/internal/app"
	"databazaar/internal/bazaar"
	"databazaar/internal/config"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(app.ExitCode(err))
	}
}

// newApp reads the config and creates a BazaarApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "create", "upload").
func newApp(cmd *cobra.Command, operation string) (*app.BazaarApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	caller, _ := cmd.Flags().GetString("as")
	a, err := app.NewBazaarApp(cfg, operation, caller)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid listing id %q: %w", s, err)
	}
	return id, nil
}

var rootCmd = &cobra.Command{
	Use:          "bazaar",
	Short:        "Data listing marketplace",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		// Each installation acts as its own principal unless --as is given.
		identity := uuid.New().String()
		cfg := config.NewConfig(identity, defaults.BaseDir)

		if err := config.Init(defaults.ConfigPath, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults.ConfigPath)
		fmt.Printf("Identity: %s\n", identity)
		fmt.Printf("Base Dir: %s\n", defaults.BaseDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults.ConfigPath)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults.ConfigPath)
		fmt.Printf("Identity:  %s\n", cfg.Identity)
		fmt.Printf("Base Dir:  %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:   %s\n", cfg.LogDir)
		fmt.Printf("Log Level: %s\n", cfg.LogLevel)
		fmt.Printf("Store:     %s %s\n", cfg.Store.Type, cfg.Store.DataDir)
		return nil
	},
}

// keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage payload encryption keys",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the payload encryption key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		passphrase, err := readPassphrase("New passphrase: ", true)
		if err != nil {
			return err
		}

		a, err := newApp(cmd, "keys-init")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.SetupKeys(passphrase); err != nil {
			return fmt.Errorf("setting up keys: %w", err)
		}
		fmt.Println("Encryption keys created")
		return nil
	},
}

// listing command
var listingCmd = &cobra.Command{
	Use:   "listing",
	Short: "Create, upload and browse listings",
}

var listingCreateCmd = &cobra.Command{
	Use:   "create NAME DESCRIPTION PRICE",
	Short: "Create a listing owned by the caller",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		price, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid price %q: %w", args[2], err)
		}

		a, err := newApp(cmd, "create")
		if err != nil {
			return err
		}
		defer a.Close()

		id, err := a.CreateListing(args[0], args[1], price)
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}

var listingUploadCmd = &cobra.Command{
	Use:   "upload ID FILE",
	Short: "Replace the payload of a listing with the contents of FILE",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		encrypt, _ := cmd.Flags().GetBool("encrypt")

		a, err := newApp(cmd, "upload")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.UploadFile(id, args[1], encrypt); err != nil {
			return err
		}
		fmt.Println(bazaar.UploadSucceeded)
		return nil
	},
}

var listingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all listings",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		a, err := newApp(cmd, "list")
		if err != nil {
			return err
		}
		defer a.Close()

		listings, err := a.ListAllListings()
		if err != nil {
			return err
		}
		return app.RenderListings(os.Stdout, format, listings)
	},
}

var listingMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List the caller's listings",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		a, err := newApp(cmd, "mine")
		if err != nil {
			return err
		}
		defer a.Close()

		listings, err := a.GetMyListings()
		if err != nil {
			return err
		}
		return app.RenderListings(os.Stdout, format, listings)
	},
}

var listingGetCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Show a listing including its payload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")
		decrypt, _ := cmd.Flags().GetBool("decrypt")

		a, err := newApp(cmd, "get")
		if err != nil {
			return err
		}
		defer a.Close()

		l, err := a.GetListing(id)
		if err != nil {
			return err
		}

		if decrypt {
			passphrase, err := readPassphrase("Passphrase: ", false)
			if err != nil {
				return err
			}
			plain, err := a.DecryptPayload(l, passphrase)
			if err != nil {
				return err
			}
			l.DataContent = plain
		}

		if out != "" {
			if err := os.WriteFile(out, l.DataContent, 0644); err != nil {
				return fmt.Errorf("writing payload: %w", err)
			}
		}
		return app.RenderListing(os.Stdout, format, l)
	},
}

// db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect and back up the listing store",
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the schema version of the sqlite store",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "db-status")
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := a.MigrationStatus()
		if err != nil {
			return err
		}
		fmt.Printf("Schema version: %d (latest %d)\n", st.Current, st.Latest)
		if st.Dirty {
			fmt.Println("Schema is dirty: a migration failed part way")
		} else if st.UpToDate() {
			fmt.Println("Schema is up to date")
		}
		return nil
	},
}

var dbBackupCmd = &cobra.Command{
	Use:   "backup DEST",
	Short: "Write a consistent copy of the store to DEST",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "db-backup")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Backup(args[0]); err != nil {
			return err
		}
		fmt.Printf("Backup written to %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("as", "", "Act as this caller identity instead of the configured one")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	keysCmd.AddCommand(keysInitCmd)

	// listing subcommands
	listingCmd.AddCommand(listingCreateCmd)
	listingCmd.AddCommand(listingUploadCmd)
	listingUploadCmd.Flags().Bool("encrypt", false, "Encrypt the payload to the configured public key")
	listingCmd.AddCommand(listingListCmd)
	listingListCmd.Flags().StringP("format", "f", app.FormatText, "Output format: text, json or yaml")
	listingCmd.AddCommand(listingMineCmd)
	listingMineCmd.Flags().StringP("format", "f", app.FormatText, "Output format: text, json or yaml")
	listingCmd.AddCommand(listingGetCmd)
	listingGetCmd.Flags().StringP("format", "f", app.FormatText, "Output format: text, json or yaml")
	listingGetCmd.Flags().StringP("out", "o", "", "Write the payload to this file")
	listingGetCmd.Flags().Bool("decrypt", false, "Decrypt the payload with the private key")

	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbBackupCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(listingCmd)
	rootCmd.AddCommand(dbCmd)
}
