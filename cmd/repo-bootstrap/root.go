package main

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/unkn0wn-root/repo-bootstrap/internal/bootstrap"
	"github.com/unkn0wn-root/repo-bootstrap/internal/config"
	"github.com/unkn0wn-root/repo-bootstrap/internal/errdef"
	"github.com/unkn0wn-root/repo-bootstrap/internal/fetch"
	"github.com/unkn0wn-root/repo-bootstrap/internal/logging"
	"github.com/unkn0wn-root/repo-bootstrap/internal/telemetry"
)

const shutdownTimeout = 5 * time.Second

type rootFlags struct {
	configPath     string
	owner          string
	repo           string
	ref            string
	rawBase        string
	projectName    string
	dir            string
	overwrite      bool
	dryRun         bool
	writeReadme    bool
	patchGitignore bool
	list           bool
	verbose        bool
	noColor        bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var f rootFlags

	cmd := &cobra.Command{
		Use:   "repo-bootstrap [flags] [dir]",
		Short: "Scaffold agent governance files from a template repository",
		Long: heredoc.Doc(`
			Bootstrap a repository into the standard agent project layout.

			Creates the .tmp, execution, directives and .agent directories and pulls
			the canonical governance files from the template repository. Existing
			files are left alone unless --overwrite is given, so running it twice is
			safe.

			Settings are read from built-in defaults, then the config file, then
			REPO_BOOTSTRAP_* environment variables (a local .env is honoured), then
			flags.

			Exit status is 2 when any template file could not be fetched.
		`),
		Example: heredoc.Doc(`
			repo-bootstrap --dry-run
			repo-bootstrap --write-readme --project-name "Billing API" --patch-gitignore
			repo-bootstrap --ref v2.1.0 --overwrite ./services/billing
		`),
		Version:       version,
		Args:          maxOneDir,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.run(cmd, args, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("repo-bootstrap {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errdef.Wrap(errdef.CodeUsage, err, "")
	})

	fl := cmd.Flags()
	fl.StringVar(&f.owner, "owner", config.DefaultOwner, "Template repo owner/org")
	fl.StringVar(&f.repo, "repo", config.DefaultRepo, "Template repo name")
	fl.StringVar(&f.ref, "ref", config.DefaultRef, "Template repo ref (branch or tag)")
	fl.StringVar(&f.rawBase, "raw-base", fetch.DefaultRawBase, "Base URL serving raw template files")
	fl.BoolVar(&f.overwrite, "overwrite", false, "Overwrite existing files")
	fl.BoolVar(&f.dryRun, "dry-run", false, "Print actions without writing anything")
	fl.StringVar(&f.projectName, "project-name", "", "Project name to inject into README.md")
	fl.BoolVar(&f.writeReadme, "write-readme", false,
		"Create README.md from README_TEMPLATE.md (if missing unless --overwrite)")
	fl.BoolVar(&f.patchGitignore, "patch-gitignore", false,
		"Ensure .gitignore excludes .env, .tmp, and credential files")
	fl.StringVar(&f.dir, "dir", bootstrap.DefaultDir, "Target directory")
	fl.StringVar(&f.configPath, "config", "", "Config file (.toml or .yaml)")
	fl.BoolVar(&f.list, "list", false, "List managed directories and files, then exit")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "Write debug logs to stderr")
	fl.BoolVar(&f.noColor, "no-color", false, "Disable colored output")
	return cmd
}

func maxOneDir(_ *cobra.Command, args []string) error {
	if len(args) > 1 {
		return errdef.New(errdef.CodeUsage, "unexpected args: %s", strings.Join(args, " "))
	}
	return nil
}

func (f *rootFlags) run(cmd *cobra.Command, args []string, stdout, stderr io.Writer) error {
	if len(args) == 1 {
		if cmd.Flags().Changed("dir") {
			return errdef.New(errdef.CodeUsage, "target given twice: --dir %s and %s", f.dir, args[0])
		}
		f.dir = args[0]
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	f.applyTo(cmd.Flags(), &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	logger := logging.New(stderr, f.verbose)
	defer func() { _ = logger.Sync() }()

	tcfg := telemetry.FromEnv(os.Getenv)
	tcfg.Version = version
	tp, err := telemetry.Setup(ctx, tcfg)
	if err != nil {
		logger.Warn("tracing disabled", zap.Error(err))
		tp = telemetry.Provider{}
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(sctx); err != nil {
			logger.Warn("tracing shutdown", zap.Error(err))
		}
	}()

	client, err := fetch.NewClient(nil, fetch.Source{Owner: cfg.Owner, Repo: cfg.Repo, Ref: cfg.Ref})
	if err != nil {
		return errdef.Wrap(errdef.CodeConfig, err, "")
	}
	client = client.WithBase(cfg.RawBase).WithLogger(logger).WithTracer(tp.Tracer())

	logger.Debug("starting bootstrap",
		zap.String("source", client.Source().String()),
		zap.String("raw_base", cfg.RawBase),
		zap.Bool("dry_run", f.dryRun),
	)

	sum, err := bootstrap.New(client).
		WithLogger(logger).
		WithTracer(tp.Tracer()).
		Run(ctx, bootstrap.Opt{
			Dir:            f.dir,
			Overwrite:      f.overwrite,
			DryRun:         f.dryRun,
			ProjectName:    cfg.ProjectName,
			WriteReadme:    cfg.WriteReadme,
			PatchGitignore: cfg.PatchGitignore,
			List:           f.list,
			NoColor:        f.noColor,
			Out:            stdout,
			Err:            stderr,
		})
	if err != nil {
		return err
	}
	return sum.Err()
}

// applyTo copies explicitly set flags over cfg. Unset flags keep whatever
// the file or environment provided.
func (f *rootFlags) applyTo(fl *pflag.FlagSet, cfg *config.Config) {
	str := func(name string, dst *string, v string) {
		if fl.Changed(name) {
			*dst = v
		}
	}
	str("owner", &cfg.Owner, f.owner)
	str("repo", &cfg.Repo, f.repo)
	str("ref", &cfg.Ref, f.ref)
	str("raw-base", &cfg.RawBase, f.rawBase)
	str("project-name", &cfg.ProjectName, f.projectName)

	if fl.Changed("write-readme") {
		cfg.WriteReadme = f.writeReadme
	}
	if fl.Changed("patch-gitignore") {
		cfg.PatchGitignore = f.patchGitignore
	}
}
