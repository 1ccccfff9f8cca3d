package cli

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/cargodesk/internal/filex"
	"github.com/dmitrijs2005/cargodesk/internal/server/archive"
	"github.com/dmitrijs2005/cargodesk/internal/server/auth"
	"github.com/dmitrijs2005/cargodesk/internal/server/config"
	"github.com/dmitrijs2005/cargodesk/internal/server/lock"
	"github.com/dmitrijs2005/cargodesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cargodesk/internal/server/services"
	"github.com/dmitrijs2005/cargodesk/internal/server/snapshot"
	"github.com/dmitrijs2005/cargodesk/internal/server/vault"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

func (a *App) backupService(db *sql.DB, rm *repomanager.SQLRepositoryManager) *services.BackupService {
	return services.NewBackupService(db, rm, a.logger, nil)
}

func (a *App) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(db *sql.DB, rm *repomanager.SQLRepositoryManager) error {
				fmt.Fprintln(a.out, "migrations applied")
				return nil
			})
		},
	}
}

func (a *App) seedCmd() *cobra.Command {
	var opts services.SeedOptions

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a manager account and a minimal data set in an empty store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(db *sql.DB, rm *repomanager.SQLRepositoryManager) error {
				res, err := services.NewSeedService(db, rm, a.logger).Seed(cmd.Context(), opts)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "seeded: manager %s, shipment %s\n", res.ManagerID, res.ShipmentID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&opts.ManagerEmail, "email", "admin@cargodesk.local", "manager e-mail")
	cmd.Flags().StringVar(&opts.ManagerPassword, "password", "", "manager password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *App) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print record counts per entity kind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(db *sql.DB, rm *repomanager.SQLRepositoryManager) error {
				st, err := a.backupService(db, rm).Stats(cmd.Context())
				if err != nil {
					return err
				}
				return a.printJSON(st)
			})
		},
	}
}

func (a *App) exportCmd() *cobra.Command {
	var output string
	var upload bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the store to a snapshot archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" && !upload {
				return errors.New("either --output or --upload is required")
			}
			ctx := cmd.Context()

			return a.withStore(ctx, func(db *sql.DB, rm *repomanager.SQLRepositoryManager) error {
				data, manifest, err := a.backupService(db, rm).ExportArchive(ctx)
				if err != nil {
					return err
				}

				if output != "" {
					err := filex.WriteFileAtomic(output, func(w io.Writer) error {
						_, err := io.Copy(w, bytes.NewReader(data))
						return err
					})
					if err != nil {
						return fmt.Errorf("write %s: %w", output, err)
					}
					fmt.Fprintf(a.out, "exported %d records to %s\n", manifest.Total(), output)
				}

				if upload {
					key, err := a.uploadArchive(ctx, data, manifest)
					if err != nil {
						return err
					}
					fmt.Fprintf(a.out, "uploaded %d records to s3://%s/%s\n", manifest.Total(), a.config.S3Bucket, key)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "archive file to write")
	cmd.Flags().BoolVar(&upload, "upload", false, "upload the archive to the S3 vault")
	return cmd
}

func (a *App) uploadArchive(ctx context.Context, data []byte, m *snapshot.Manifest) (string, error) {
	if !a.config.VaultEnabled() {
		return "", errors.New("S3 vault is not configured")
	}
	return vault.New(a.config).Upload(ctx, data, m.ExportDate)
}

func (a *App) importCmd() *cobra.Command {
	var s3Key string

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Replace the store with the contents of a snapshot archive",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := a.readArchive(ctx, args, s3Key)
			if err != nil {
				return err
			}

			locker, closeLocker, err := importLocker(ctx, a.config)
			if err != nil {
				return err
			}
			defer closeLocker()

			release, err := locker.Acquire(ctx)
			if err != nil {
				return err
			}
			defer release(context.WithoutCancel(ctx))

			return a.withStore(ctx, func(db *sql.DB, rm *repomanager.SQLRepositoryManager) error {
				report, err := a.backupService(db, rm).Restore(ctx, data)
				if err != nil {
					return err
				}
				return a.printJSON(report)
			})
		},
	}
	cmd.Flags().StringVar(&s3Key, "from-s3", "", "object key of an archive in the S3 vault")
	return cmd
}

// importLocker returns the lock a CLI import must hold. With Redis
// configured it is the lock the server's import endpoint takes.
var importLocker = func(ctx context.Context, cfg *config.Config) (lock.Locker, func(), error) {
	if cfg.RedisAddress == "" {
		return lock.NewLocal(), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis %s: %w", cfg.RedisAddress, err)
	}
	return lock.NewRedis(rdb, cfg.ImportLockTTL), func() { _ = rdb.Close() }, nil
}

// readArchive loads an archive from the single file argument or, when
// s3Key is set, from the vault.
func (a *App) readArchive(ctx context.Context, args []string, s3Key string) ([]byte, error) {
	switch {
	case s3Key != "" && len(args) > 0:
		return nil, errors.New("give either a file or --from-s3, not both")
	case s3Key != "":
		if !a.config.VaultEnabled() {
			return nil, errors.New("S3 vault is not configured")
		}
		return vault.New(a.config).Download(ctx, s3Key, a.config.MaxUploadSize)
	case len(args) == 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", args[0], err)
		}
		return data, nil
	default:
		return nil, errors.New("an archive file or --from-s3 is required")
	}
}

func (a *App) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Print the manifest of a snapshot archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			m, err := archive.ReadManifest(data)
			if err != nil {
				return err
			}
			return a.printJSON(m)
		},
	}
}

func (a *App) tokenCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an API access token for an active user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.withStore(ctx, func(db *sql.DB, rm *repomanager.SQLRepositoryManager) error {
				user, err := rm.Accounts(db).GetUserByEmail(ctx, email)
				if err != nil {
					return fmt.Errorf("lookup %s: %w", email, err)
				}
				if !user.IsActive {
					return fmt.Errorf("user %s is inactive", email)
				}

				token, err := auth.GenerateToken(user.ID, user.Role, []byte(a.config.SecretKey), a.config.AccessTokenValidityDuration)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, token)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "user e-mail")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
