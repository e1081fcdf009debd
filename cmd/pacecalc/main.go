// Package main provides the CLI entrypoint for pacecalc.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/pacecalc/internal/calculator"
	"github.com/verte-zerg/pacecalc/internal/config"
	"github.com/verte-zerg/pacecalc/internal/model"
	"github.com/verte-zerg/pacecalc/internal/pace"
	"github.com/verte-zerg/pacecalc/internal/registry"
	"github.com/verte-zerg/pacecalc/internal/report"
	"github.com/verte-zerg/pacecalc/internal/store"
	"github.com/verte-zerg/pacecalc/internal/tui"
)

const (
	defaultShowSplits = true
	defaultInstances  = 1
	maxInstances      = 50
)

var (
	uiShowSplits  bool
	uiInstances   int
	uiPlaceholder string

	calcLabel    string
	calcPace     string
	calcSplits   string
	calcDistance string
	calcHide     bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pacecalc",
		Short:         "TUI pace calculator",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runUICmd,
	}

	rootCmd.Flags().BoolVar(&uiShowSplits, "show-splits", defaultShowSplits, "show split tables of new calculators")
	rootCmd.Flags().IntVar(&uiInstances, "instances", defaultInstances, "number of calculators at startup")
	rootCmd.Flags().StringVar(&uiPlaceholder, "placeholder", pace.Placeholder, "text shown while the total duration is undefined")

	rootCmd.AddCommand(newCalcCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func loadConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyBoolConfig(cmd, "show-splits", &uiShowSplits, fileCfg.Calculator.ShowSplits)
	applyIntConfig(cmd, "instances", &uiInstances, fileCfg.Calculator.Instances)
	applyStringConfig(cmd, "placeholder", &uiPlaceholder, fileCfg.Calculator.Placeholder)

	cfg := model.Config{
		ShowSplits:  uiShowSplits,
		Instances:   uiInstances,
		Placeholder: uiPlaceholder,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

// openRegistry creates the in-memory store and a registry holding
// cfg.Instances calculators.
func openRegistry(ctx context.Context, cfg model.Config) (*registry.Registry, func(), error) {
	st, err := store.Open(store.MemoryPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	closeStore := func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close store: %v\n", cerr)
		}
	}
	defaults := model.DefaultFormState()
	defaults.ShowSplits = cfg.ShowSplits
	reg, err := registry.New(ctx, st, defaults)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	for i := 1; i < cfg.Instances; i++ {
		if _, err := reg.Add(ctx); err != nil {
			closeStore()
			return nil, nil, err
		}
	}
	return reg, closeStore, nil
}

func runUICmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := context.Background()
	reg, closeStore, err := openRegistry(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	program := tea.NewProgram(tui.NewModel(ctx, reg, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newCalcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Print total duration and splits without the TUI",
		Args:  cobra.NoArgs,
		RunE:  runCalcCmd,
	}
	cmd.Flags().StringVar(&calcLabel, "label", "", "label printed above the plan")
	cmd.Flags().StringVar(&calcPace, "pace", "", "pace per km (mm:ss)")
	cmd.Flags().StringVar(&calcSplits, "splits", "", "split interval in meters")
	cmd.Flags().StringVar(&calcDistance, "distance", "", "distance in meters")
	cmd.Flags().BoolVar(&calcHide, "hide-splits", false, "omit the split table")
	return cmd
}

func runCalcCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	reg, closeStore, err := openRegistry(ctx, model.Config{ShowSplits: !calcHide, Instances: 1})
	if err != nil {
		return err
	}
	defer closeStore()

	input := model.PlanInput{
		Label:    calcLabel,
		Pace:     calcPace,
		Splits:   calcSplits,
		Distance: calcDistance,
	}
	calc, err := applyPlanInput(ctx, calculator.New(ctx, reg, reg.List()[0]), input)
	if err != nil {
		return err
	}
	return report.WritePlan(cmd.OutOrStdout(), calc, report.Options{Width: outputWidth(cmd.OutOrStdout())})
}

// applyPlanInput feeds every non-empty input through the calculator and
// stops at the first rejected field.
func applyPlanInput(ctx context.Context, calc *calculator.Calculator, input model.PlanInput) (*calculator.Calculator, error) {
	if input.Label != "" {
		calc.EditLabel(ctx, input.Label)
	}
	edits := []struct {
		field model.Field
		raw   string
	}{
		{model.FieldPace, input.Pace},
		{model.FieldSplitInterval, input.Splits},
		{model.FieldDistance, input.Distance},
	}
	for _, e := range edits {
		if e.raw == "" {
			continue
		}
		if st := calc.Edit(ctx, e.field, e.raw); st.Err != nil {
			return nil, fmt.Errorf("invalid --%s value: %w", flagName(e.field), st.Err)
		}
	}
	return calc, nil
}

func flagName(f model.Field) string {
	switch f {
	case model.FieldPace:
		return "pace"
	case model.FieldSplitInterval:
		return "splits"
	default:
		return "distance"
	}
}

func outputWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# pacecalc configuration
# Uncomment a value to enable it. CLI flags override config values.

[calculator]
# show-splits = %t        # Show split tables of new calculators
# instances = %d            # Number of calculators at startup (1-%d)
# placeholder = %q        # Total duration text while undefined
`,
		defaultShowSplits,
		defaultInstances,
		maxInstances,
		pace.Placeholder,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Instances < 1 || cfg.Instances > maxInstances {
		return fmt.Errorf("--instances must be between 1 and %d", maxInstances)
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
