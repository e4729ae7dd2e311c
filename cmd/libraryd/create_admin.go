package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/AntonStoeckl/library-lending-ledger/library/accounts"
	"github.com/AntonStoeckl/library-lending-ledger/library/shell/config"
)

var errPasswordsDiffer = errors.New("passwords do not match")

type createAdminFlags struct {
	name     string
	email    string
	password string
}

func newCreateAdminCommand(flags *rootFlags) *cobra.Command {
	adminFlags := &createAdminFlags{}

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Register a verified admin account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)

			password := adminFlags.password
			if password == "" {
				password, err = promptPassword(cmd.OutOrStdout())
				if err != nil {
					return err
				}
			}

			store, err := openStore(cmd.Context(), cfg, logger, telemetry{})
			if err != nil {
				return err
			}
			defer store.close()

			if cfg.Store == config.StoreMemory {
				logger.Warn("the admin only lives as long as this process")
			}

			// creating an admin issues no token
			service := accounts.NewService(store.eventStore, nil, accounts.WithLogger(logger))

			readerID, err := service.CreateAdmin(cmd.Context(), adminFlags.name, adminFlags.email, password)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "admin %s created with id %s\n", adminFlags.email, readerID)

			return err
		},
	}

	cmd.Flags().StringVar(&adminFlags.name, "name", "", "display name of the admin")
	cmd.Flags().StringVar(&adminFlags.email, "email", "", "login email of the admin")
	cmd.Flags().StringVar(&adminFlags.password, "password", "", "password, prompted for when omitted")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// promptPassword reads the password twice from the terminal without echo.
func promptPassword(out io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("no terminal to prompt for the password, use --password")
	}

	read := func(prompt string) (string, error) {
		_, _ = fmt.Fprint(out, prompt)
		raw, err := term.ReadPassword(fd)
		_, _ = fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}

		return strings.TrimSpace(string(raw)), nil
	}

	password, err := read("Password: ")
	if err != nil {
		return "", err
	}

	repeated, err := read("Repeat password: ")
	if err != nil {
		return "", err
	}

	if password != repeated {
		return "", errPasswordsDiffer
	}

	return password, nil
}
