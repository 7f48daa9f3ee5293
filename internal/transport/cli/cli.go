package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/KotFed0t/extrol_cli/internal/model"
	"github.com/KotFed0t/extrol_cli/internal/projection"
	"github.com/KotFed0t/extrol_cli/internal/service"
	"github.com/KotFed0t/extrol_cli/utils"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type ExtrolService interface {
	Startup(ctx context.Context) error
	Login(ctx context.Context, sess model.Session) error
	Logout(ctx context.Context)
	Refresh(ctx context.Context) error
	SetSearch(text string)
	SetSort(key model.SortKey)
	SubmitCreate(ctx context.Context, draft model.EntryDraft) error
	SubmitUpdate(ctx context.Context, id string, draft model.EntryDraft) error
	SubmitDelete(ctx context.Context, id string) error
	Entries() []model.Entry
	Stats() model.Stats
	Session() model.Session
}

type AuthApi interface {
	Login(ctx context.Context, email, password string) (model.Session, error)
	Signup(ctx context.Context, name, email, password string) (model.Session, error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, entries []model.Entry, stats model.Stats) (fileBytes []byte, fileExtension string, err error)
}

type CloudStorage interface {
	UploadFile(ctx context.Context, reader io.Reader, filename string) (downloadLink string, err error)
}

type Scheduler interface {
	NewIntervalJob(name string, fn func(ctx context.Context) error, interval time.Duration, startImmediately bool)
	Start()
	Stop()
}

type Controller struct {
	service         ExtrolService
	authApi         AuthApi
	view            *View
	reportGenerator ReportGenerator
	// cloud storage needs credentials, so it is built only when --upload
	// is actually used
	newCloudStorage func(ctx context.Context) (CloudStorage, error)
	scheduler       Scheduler
	refreshInterval time.Duration
}

func NewController(
	service ExtrolService,
	authApi AuthApi,
	view *View,
	reportGenerator ReportGenerator,
	newCloudStorage func(ctx context.Context) (CloudStorage, error),
	scheduler Scheduler,
	refreshInterval time.Duration,
) *Controller {
	return &Controller{
		service:         service,
		authApi:         authApi,
		view:            view,
		reportGenerator: reportGenerator,
		newCloudStorage: newCloudStorage,
		scheduler:       scheduler,
		refreshInterval: refreshInterval,
	}
}

// RootCmd builds the command tree. Every command creates its own
// request-scoped context, like the teacher's per-update handlers.
func (ctrl *Controller) RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "extrol",
		Short:         "Extrol expense tracker client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		ctrl.loginCmd(),
		ctrl.signupCmd(),
		ctrl.logoutCmd(),
		ctrl.listCmd(),
		ctrl.addCmd(),
		ctrl.editCmd(),
		ctrl.rmCmd(),
		ctrl.watchCmd(),
		ctrl.exportCmd(),
	)

	return root
}

func (ctrl *Controller) loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := utils.CreateCtxWithRqID(cmd.Context())

			ctrl.view.SetQuiet(true)
			sess, err := ctrl.authApi.Login(ctx, email, password)
			if err != nil {
				ctrl.view.ShowError("Login failed")
				return err
			}

			if err := ctrl.service.Login(ctx, sess); err != nil {
				return err
			}

			ctrl.view.ShowSuccess(fmt.Sprintf("Logged in as %s", sess.User.DisplayName()))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func (ctrl *Controller) signupCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := utils.CreateCtxWithRqID(cmd.Context())

			ctrl.view.SetQuiet(true)
			sess, err := ctrl.authApi.Signup(ctx, name, email, password)
			if err != nil {
				ctrl.view.ShowError("Signup failed")
				return err
			}

			if err := ctrl.service.Login(ctx, sess); err != nil {
				return err
			}

			ctrl.view.ShowSuccess(fmt.Sprintf("Logged in as %s", sess.User.DisplayName()))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func (ctrl *Controller) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Destroy the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := utils.CreateCtxWithRqID(cmd.Context())
			ctrl.service.Logout(ctx)
			ctrl.view.ShowSuccess("Logged out")
			return nil
		},
	}
}

func (ctrl *Controller) listCmd() *cobra.Command {
	var search, sortKey string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show entries and aggregates",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := utils.CreateCtxWithRqID(cmd.Context())

			// params go in before the session restores, so the hydrate
			// renders land already filtered and sorted
			ctrl.service.SetSearch(search)
			ctrl.service.SetSort(model.SortKey(sortKey))

			return ctrl.startup(ctx)
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "substring filter over note and date")
	cmd.Flags().StringVar(&sortKey, "sort", string(model.SortDateDesc), "date_desc|date_asc|price_desc|price_asc")

	return cmd
}

func (ctrl *Controller) addCmd() *cobra.Command {
	var date, price, note string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := utils.CreateCtxWithRqID(cmd.Context())

			draft, err := parseDraft(date, price, note)
			if err != nil {
				ctrl.view.ShowError(err.Error())
				return err
			}

			ctrl.view.SetQuiet(true)
			if err := ctrl.startup(ctx); err != nil {
				return err
			}

			return ctrl.service.SubmitCreate(ctx, draft)
		},
	}

	cmd.Flags().StringVar(&date, "date", time.Now().Format("2006-01-02"), "entry date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&price, "price", "", "entry price")
	cmd.Flags().StringVar(&note, "note", "", "free-text note")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}

func (ctrl *Controller) editCmd() *cobra.Command {
	var date, price, note string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := utils.CreateCtxWithRqID(cmd.Context())

			draft, err := parseDraft(date, price, note)
			if err != nil {
				ctrl.view.ShowError(err.Error())
				return err
			}

			ctrl.view.SetQuiet(true)
			if err := ctrl.startup(ctx); err != nil {
				return err
			}

			return ctrl.service.SubmitUpdate(ctx, args[0], draft)
		},
	}

	cmd.Flags().StringVar(&date, "date", time.Now().Format("2006-01-02"), "entry date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&price, "price", "", "entry price")
	cmd.Flags().StringVar(&note, "note", "", "free-text note")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}

func (ctrl *Controller) rmCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := utils.CreateCtxWithRqID(cmd.Context())

			if !yes && !confirm(cmd.InOrStdin(), "Delete this entry?") {
				fmt.Println("Aborted.")
				return nil
			}

			ctrl.view.SetQuiet(true)
			if err := ctrl.startup(ctx); err != nil {
				return err
			}

			return ctrl.service.SubmitDelete(ctx, args[0])
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")

	return cmd
}

func (ctrl *Controller) watchCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the dashboard refreshed on an interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := utils.CreateCtxWithRqID(cmd.Context())

			if err := ctrl.startup(ctx); err != nil {
				return err
			}

			if interval <= 0 {
				interval = ctrl.refreshInterval
			}

			ctrl.scheduler.NewIntervalJob("refresh entries", func(jobCtx context.Context) error {
				return ctrl.service.Refresh(utils.CreateCtxWithRqID(jobCtx))
			}, interval, false)
			ctrl.scheduler.Start()
			defer ctrl.scheduler.Stop()

			<-cmd.Context().Done()
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "refresh interval (default from config)")

	return cmd
}

func (ctrl *Controller) exportCmd() *cobra.Command {
	var out string
	var upload bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export entries to an xlsx report",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := utils.CreateCtxWithRqID(cmd.Context())

			ctrl.view.SetQuiet(true)
			if err := ctrl.startup(ctx); err != nil {
				return err
			}

			entries := projection.Sort(ctrl.service.Entries(), model.SortDateDesc)
			fileBytes, ext, err := ctrl.reportGenerator.Generate(ctx, entries, ctrl.service.Stats())
			if err != nil {
				ctrl.view.ShowError(err.Error())
				return err
			}

			filename := out
			if filename == "" {
				filename = fmt.Sprintf("extrol_report_%s%s", time.Now().Format("2006-01-02"), ext)
			}

			if upload {
				storage, err := ctrl.newCloudStorage(ctx)
				if err != nil {
					ctrl.view.ShowError("Cloud storage is not configured")
					return err
				}
				link, err := storage.UploadFile(ctx, bytes.NewReader(fileBytes), filename)
				if err != nil {
					ctrl.view.ShowError("Upload failed")
					return err
				}
				ctrl.view.ShowSuccess(fmt.Sprintf("Uploaded: %s", link))
				return nil
			}

			if err := os.WriteFile(filename, fileBytes, 0o644); err != nil {
				ctrl.view.ShowError("Failed to write report file")
				return err
			}
			ctrl.view.ShowSuccess(fmt.Sprintf("Report written to %s", filename))
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output file path")
	cmd.Flags().BoolVar(&upload, "upload", false, "upload to Google Drive and print the share link")

	return cmd
}

// startup restores the cached session and hydrates the store; commands
// that need a session bail out with guidance when none is found.
func (ctrl *Controller) startup(ctx context.Context) error {
	if err := ctrl.service.Startup(ctx); err != nil {
		return err
	}
	if !ctrl.service.Session().IsAuthenticated() {
		ctrl.view.ShowError("Not logged in. Run 'extrol login' first.")
		return service.ErrUnauthenticated
	}
	return nil
}

func parseDraft(date, price, note string) (model.EntryDraft, error) {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return model.EntryDraft{}, errors.New("Enter a valid price")
	}
	return model.EntryDraft{Date: date, Price: p, Note: note}, nil
}

func confirm(in io.Reader, prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
