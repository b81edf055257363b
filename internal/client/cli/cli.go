package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/iudanet/gophtodo/internal/client/api"
	"github.com/iudanet/gophtodo/internal/client/auth"
	"github.com/iudanet/gophtodo/internal/client/iocli"
	"github.com/iudanet/gophtodo/internal/client/storage/boltdb"
)

const (
	defaultServerURL = "http://localhost:8080"
	defaultDBPath    = "gophtodo-client.db"

	// annotationNoStorage помечает команды, которым не нужна локальная БД
	annotationNoStorage = "no-storage"
)

// Options configures the command tree
type Options struct {
	IO        iocli.IO
	Logger    *slog.Logger
	Version   string
	BuildDate string
	GitCommit string
}

// Cli holds state shared by all commands of one invocation
type Cli struct {
	opts   Options
	io     iocli.IO
	logger *slog.Logger

	serverURL string
	dbPath    string

	storage     *boltdb.Storage
	apiClient   *api.Client
	authService *auth.Service
}

// New создает CLI. Хранилище открывается перед выполнением команды.
func New(opts Options) *Cli {
	if opts.IO == nil {
		opts.IO = iocli.NewStdio()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Cli{
		opts:   opts,
		io:     opts.IO,
		logger: opts.Logger,
	}
}

// RootCmd builds the gophtodo command tree
func (c *Cli) RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gophtodo",
		Short: "GophTodo - personal task list client",
		Long: `GophTodo client talks to a GophTodo server.
The login session is kept in a local database until logout.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[annotationNoStorage] == "true" {
				return nil
			}
			return c.open(cmd.Context())
		},
	}

	cmd.SetOut(c.io)
	cmd.SetErr(c.io)

	// Глобальные флаги
	cmd.PersistentFlags().StringVar(&c.serverURL, "server", defaultServerURL, "server URL")
	cmd.PersistentFlags().StringVar(&c.dbPath, "db", defaultDBPath, "path to local database")

	cmd.AddCommand(c.newVersionCmd())
	cmd.AddCommand(c.newRegisterCmd())
	cmd.AddCommand(c.newLoginCmd())
	cmd.AddCommand(c.newLoginGoogleCmd())
	cmd.AddCommand(c.newLogoutCmd())
	cmd.AddCommand(c.newStatusCmd())
	cmd.AddCommand(c.newProfileCmd())
	cmd.AddCommand(c.newTasksCmd())

	return cmd
}

// Execute runs the command tree with args and releases resources
func (c *Cli) Execute(ctx context.Context, args []string) error {
	defer func() {
		if err := c.Close(); err != nil {
			c.logger.ErrorContext(ctx, "failed to close database", slog.Any("error", err))
		}
	}()

	cmd := c.RootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// Close closes the local database if it was opened
func (c *Cli) Close() error {
	if c.storage == nil {
		return nil
	}
	err := c.storage.Close()
	c.storage = nil
	return err
}

func (c *Cli) open(ctx context.Context) error {
	store, err := boltdb.New(ctx, c.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	c.storage = store
	c.apiClient = api.NewClient(c.serverURL)
	c.authService = auth.NewService(c.logger, c.apiClient, store, c.serverURL)
	return nil
}

func (c *Cli) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		Annotations: map[string]string{annotationNoStorage: "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.io.Println("GophTodo Client")
			c.io.Printf("Version:    %s\n", c.opts.Version)
			c.io.Printf("Build Date: %s\n", c.opts.BuildDate)
			c.io.Printf("Git Commit: %s\n", c.opts.GitCommit)
			return nil
		},
	}
}

// token возвращает действующий токен или понятную пользователю ошибку
func (c *Cli) token(ctx context.Context) (string, error) {
	token, err := c.authService.Token(ctx)
	switch {
	case errors.Is(err, auth.ErrNotLoggedIn):
		return "", fmt.Errorf("not authenticated. Please run 'gophtodo login' first")
	case errors.Is(err, auth.ErrSessionExpired):
		return "", fmt.Errorf("session expired. Please run 'gophtodo login' again")
	case err != nil:
		return "", err
	}
	return token, nil
}

// serverError превращает 401 в подсказку и удаляет отозванную сессию
func (c *Cli) serverError(ctx context.Context, err error) error {
	if !api.IsUnauthorized(err) {
		return err
	}
	if forgetErr := c.authService.Forget(ctx); forgetErr != nil {
		c.logger.WarnContext(ctx, "failed to delete rejected session", slog.Any("error", forgetErr))
	}
	return fmt.Errorf("session is no longer valid. Please run 'gophtodo login' again")
}
