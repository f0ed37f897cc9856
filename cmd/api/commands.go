package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/spec-kit/school-portal/internal/persistence"
	"github.com/spec-kit/school-portal/internal/service"
)

// readPassword reads a line from the terminal without echo.
var readPassword = term.ReadPassword

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := loadConfigAndLogger()
			defer logger.Sync() //nolint:errcheck

			pg, err := persistence.NewPostgres(cmd.Context(), cfg.Postgres, logger)
			if err != nil {
				return err
			}
			defer pg.Close()
			return persistence.RunMigrations(cmd.Context(), pg.Pool, logger)
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed roles, default tags, contact subjects and the optional admin",
		Long: `Insert reference data. The administrator is created when
SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD are set. Running it twice is safe.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := loadConfigAndLogger()
			defer logger.Sync() //nolint:errcheck

			c, err := newContainer(cmd.Context(), cfg, logger, true)
			if err != nil {
				return err
			}
			defer c.close()

			var admin *service.RegisterInput
			if cfg.Seed.AdminEmail != "" && cfg.Seed.AdminPassword != "" {
				admin = &service.RegisterInput{
					Email:    cfg.Seed.AdminEmail,
					Username: cfg.Seed.AdminUsername,
					FullName: cfg.Seed.AdminFullName,
					Password: cfg.Seed.AdminPassword,
				}
			}
			return c.seed.Run(cmd.Context(), admin)
		},
	}
}

func createAdminCmd() *cobra.Command {
	var in service.RegisterInput

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Long: `Create an administrator. The password is read from the terminal
when --password is omitted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Password == "" {
				password, err := promptPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				in.Password = password
			}

			cfg, logger := loadConfigAndLogger()
			defer logger.Sync() //nolint:errcheck

			c, err := newContainer(cmd.Context(), cfg, logger, true)
			if err != nil {
				return err
			}
			defer c.close()

			return createAdmin(cmd.Context(), c, in, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "Administrator email (required)")
	cmd.Flags().StringVar(&in.Username, "username", "", "Administrator username (required)")
	cmd.Flags().StringVar(&in.FullName, "full-name", "", "Administrator full name (required)")
	cmd.Flags().StringVar(&in.Password, "password", "", "Administrator password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("full-name")

	return cmd
}

func createAdmin(ctx context.Context, c *container, in service.RegisterInput, out io.Writer) error {
	if err := c.roles.EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	user, err := c.authService.CreateAdministrator(ctx, in)
	if err != nil {
		return err
	}
	c.logger.Info("administrator created", zap.Int64("user_id", user.ID))
	fmt.Fprintf(out, "created administrator %s (id %d)\n", user.Email, user.ID)
	return nil
}

// promptPassword reads a password twice. Input that is not a terminal is read
// as a single line.
func promptPassword(in io.Reader, out io.Writer) (string, error) {
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		password := strings.TrimRight(line, "\r\n")
		if password == "" {
			return "", errors.New("password is required")
		}
		return password, nil
	}

	fmt.Fprint(out, "Password: ")
	first, err := readPassword(int(f.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	fmt.Fprint(out, "Confirm password: ")
	second, err := readPassword(int(f.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	if len(first) == 0 {
		return "", errors.New("password is required")
	}
	return string(first), nil
}
