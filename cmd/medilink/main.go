package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/medilink-hms/client/internal/api"
	"github.com/medilink-hms/client/internal/api/dto"
	"github.com/medilink-hms/client/internal/config"
	"github.com/medilink-hms/client/internal/domain"
	"github.com/medilink-hms/client/internal/events"
	"github.com/medilink-hms/client/internal/feed"
	"github.com/medilink-hms/client/internal/observability"
	"github.com/medilink-hms/client/internal/persistence"
	"github.com/medilink-hms/client/internal/realtime"
	"github.com/medilink-hms/client/internal/router"
	"github.com/medilink-hms/client/internal/session"
	"github.com/medilink-hms/client/internal/toast"
	"github.com/medilink-hms/client/internal/worker"
)

// app bundles the client object graph shared by every command.
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	nav        *router.Navigator
	vault      persistence.Vault
	dispatcher events.Dispatcher
	store      *session.Store
	feed       *feed.Feed
	toaster    *toast.Toaster
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	nav := router.NewNavigator()
	vault := persistence.NewFileVault(cfg.Vault, logger)
	metrics := observability.NewMetrics()
	client := api.NewClient(cfg.API, vault, nav, metrics, logger)
	dispatcher := events.NewInMemoryDispatcher(logger)
	store := session.NewStore(vault, client, dispatcher, nav, logger)

	return &app{
		cfg:        cfg,
		logger:     logger,
		nav:        nav,
		vault:      vault,
		dispatcher: dispatcher,
		store:      store,
		feed:       feed.New(cfg.Feed),
		toaster:    toast.NewToaster(cfg.Toast),
	}, nil
}

func main() {
	root := &cobra.Command{
		Use:           "medilink",
		Short:         "MediLink portal client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		loginCmd(),
		registerCmd(),
		verifyOTPCmd(),
		whoamiCmd(),
		logoutCmd(),
		watchCmd(),
	)

	if err := root.Execute(); err != nil {
		log.Fatalf("medilink: %v", err)
	}
}

func loginCmd() *cobra.Command {
	var email, password, roleFlag string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and persist the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.logger.Sync() //nolint:errcheck

			role, err := domain.ParseRole(roleFlag)
			if err != nil {
				return err
			}

			result := a.store.Login(cmd.Context(), dto.LoginRequest{Email: email, Password: password}, role)
			if !result.Success {
				return fmt.Errorf("login failed: %s", result.Message)
			}

			snap := a.store.Snapshot()
			fmt.Printf("signed in as %s (%s)\n", snap.Identity.Name, snap.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&roleFlag, "role", string(domain.RolePatient), "portal role: patient, doctor or admin")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func registerCmd() *cobra.Command {
	var roleFlag, formJSON string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Submit a registration form",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.logger.Sync() //nolint:errcheck

			role, err := domain.ParseRole(roleFlag)
			if err != nil {
				return err
			}

			var form dto.RegisterForm
			if err := json.Unmarshal([]byte(formJSON), &form); err != nil {
				return fmt.Errorf("invalid --form payload: %w", err)
			}

			result := a.store.Register(cmd.Context(), form, role)
			if !result.Success {
				return fmt.Errorf("registration failed: %s", result.Message)
			}
			fmt.Println(result.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&roleFlag, "role", string(domain.RolePatient), "portal role: patient, doctor or admin")
	cmd.Flags().StringVar(&formJSON, "form", "", "registration fields as a JSON object")
	_ = cmd.MarkFlagRequired("form")
	return cmd
}

func verifyOTPCmd() *cobra.Command {
	var email, otp string

	cmd := &cobra.Command{
		Use:   "verify-otp",
		Short: "Verify a one-time code sent during registration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.logger.Sync() //nolint:errcheck

			result := a.store.VerifyOTP(cmd.Context(), dto.VerifyOTPRequest{Email: email, OTP: otp})
			if !result.Success {
				return fmt.Errorf("verification failed: %s", result.Message)
			}
			fmt.Println(result.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&otp, "otp", "", "one-time code")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("otp")
	return cmd
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the restored session identity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.logger.Sync() //nolint:errcheck

			a.store.Restore(cmd.Context())
			snap := a.store.Snapshot()
			if !snap.Authenticated {
				fmt.Println("not signed in")
				return nil
			}
			fmt.Printf("%s <%s> role=%s phase=%s\n", snap.Identity.Name, snap.Identity.Email, snap.Role, snap.Phase)
			return nil
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.logger.Sync() //nolint:errcheck

			a.store.Logout()
			fmt.Println("signed out")
			return nil
		},
	}
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream live notifications for the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.logger.Sync() //nolint:errcheck
			defer a.toaster.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			notifications := worker.NewNotificationWorker(a.dispatcher, a.feed, a.toaster, a.logger)
			notifications.RegisterHandlers()
			a.dispatcher.Subscribe(events.EventNotificationReceived, func(_ context.Context, event events.Event) error {
				if payload, ok := event.Payload.(events.NotificationPayload); ok {
					fmt.Printf("[%s] %s\n", payload.Notification.ReceivedAt.Format("15:04:05"), payload.Notification.Content)
				}
				return nil
			})

			manager := realtime.NewManager(a.cfg.Realtime, realtime.GorillaDialer, a.dispatcher, a.logger)
			manager.Start(ctx)

			a.store.Restore(ctx)
			snap := a.store.Snapshot()
			if !snap.Authenticated {
				return fmt.Errorf("not signed in; run `medilink login` first")
			}
			fmt.Printf("watching notifications for %s, ctrl-c to stop\n", snap.Identity.Name)

			waitForShutdown(a.logger)
			cancel()
			<-manager.Done()
			return nil
		},
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
