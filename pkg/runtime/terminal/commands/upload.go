package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/telco-tools/cdr-uplink/pkg/export"
	"github.com/telco-tools/cdr-uplink/pkg/export/htmlpage"
	"github.com/telco-tools/cdr-uplink/pkg/models/api"
	"github.com/telco-tools/cdr-uplink/pkg/runtime/terminal/view"
	"github.com/telco-tools/cdr-uplink/pkg/services/config"
	"github.com/telco-tools/cdr-uplink/pkg/services/report"
	"github.com/telco-tools/cdr-uplink/pkg/services/upload"
	"github.com/telco-tools/cdr-uplink/pkg/store/history"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type UploadCmd struct {
	cfgPath      string
	baseURL      string
	collectCalls bool
	htmlOut      string
	out          io.Writer
}

func NewUploadCmd(out io.Writer) *cobra.Command {
	uc := &UploadCmd{out: out}
	cmd := &cobra.Command{
		Use:   "upload <target> <file>",
		Short: "Upload a file to the billing server",
		Long: "Upload a file to one of the billing server targets: " +
			"tariffs, subscribers or cdr. The cdr target returns a tariffing " +
			"report which is rendered after the transfer completes.",
		Args: cobra.ExactArgs(2),
		RunE: uc.run,
	}

	cmd.Flags().StringVar(&uc.cfgPath, "config", "", "Path to the configuration file")
	cmd.Flags().StringVar(&uc.baseURL, "base-url", "", "Billing server base URL (overrides config)")
	cmd.Flags().BoolVar(&uc.collectCalls, "collect-calls", false,
		"Ask the server to include per-call detail (cdr target)")
	cmd.Flags().StringVar(&uc.htmlOut, "html", "",
		"Write the rendered report page to this file (cdr target)")

	return cmd
}

func (uc *UploadCmd) run(cmd *cobra.Command, args []string) error {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
		With().Timestamp().Logger()

	cfg, err := config.Load(uc.cfgPath)
	if err != nil {
		return err
	}

	base := cfg.BaseURL
	if cmd.Flags().Changed("base-url") {
		base = uc.baseURL
	}
	collect := cfg.CollectCalls
	if cmd.Flags().Changed("collect-calls") {
		collect = uc.collectCalls
	}

	reporter := export.NewReporter(uc.out)
	onReport := func(rep *api.TariffReport) {
		fmt.Fprintln(uc.out)
		if err := reporter.Handle(rep.ToDomain()); err != nil {
			logger.Warn().Err(err).Msg("failed to render report")
		}
		if uc.htmlOut != "" {
			uc.writeHTML(rep, logger)
		}
	}

	registry := upload.NewRegistry(base, onReport)
	target, err := registry.Get(args[0])
	if err != nil {
		return err
	}

	ctrl := upload.NewController(
		target,
		view.NewStatusView(uc.out),
		upload.NewUploader(&http.Client{Timeout: cfg.UploadTimeout}),
		func() upload.Snapshot { return upload.Snapshot{CollectCalls: collect} },
		logger,
	)

	out, err := ctrl.HandlePick(cmd.Context(), args[1])
	if err != nil {
		return err
	}

	uc.record(cmd.Context(), cfg, logger, target.Name, args[1], out)

	switch out.Kind {
	case upload.OutcomeProtocolError:
		return fmt.Errorf("upload rejected with HTTP %d", out.StatusCode)
	case upload.OutcomeTransportError:
		return fmt.Errorf("upload failed: %w", out.Err)
	default:
		return nil
	}
}

func (uc *UploadCmd) writeHTML(rep *api.TariffReport, logger zerolog.Logger) {
	page := htmlpage.New()
	report.NewRenderer(page.View()).Render(rep)

	if err := os.WriteFile(uc.htmlOut, []byte(page.Render()), 0o644); err != nil {
		logger.Warn().Err(err).Str("path", uc.htmlOut).Msg("failed to write report page")
		return
	}
	logger.Info().Str("path", uc.htmlOut).Msg("report page written")
}

// record stores the upload outcome in the local history db. History is best
// effort: a failure here never fails the upload itself.
func (uc *UploadCmd) record(
	ctx context.Context,
	cfg *config.Config,
	logger zerolog.Logger,
	target, path string,
	out upload.Outcome,
) {
	db, err := history.NewDB(history.Settings{DbPath: cfg.HistoryDB})
	if err != nil {
		logger.Warn().Err(err).Msg("upload history disabled")
		return
	}
	defer db.Close()

	store, err := history.NewStore(db)
	if err != nil {
		logger.Warn().Err(err).Msg("upload history disabled")
		return
	}

	entry := history.Entry{
		Target:     target,
		FileName:   filepath.Base(path),
		Outcome:    out.Kind.String(),
		StatusCode: out.StatusCode,
		ElapsedMs:  float64(out.Elapsed.Microseconds()) / 1000,
	}
	if st, err := os.Stat(path); err == nil {
		entry.SizeBytes = st.Size()
	}
	if out.Kind == upload.OutcomeSuccess && out.Report != nil {
		entry.ReportJSON = out.Body
	}

	if err := store.Add(ctx, entry); err != nil {
		logger.Warn().Err(err).Msg("failed to record upload")
	}
}
