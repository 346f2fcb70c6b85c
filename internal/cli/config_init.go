package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	cfg "pipr/internal/config"
	"pipr/internal/system"
)

var initForce bool

func init() {
	configInitCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configFile()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to replace it)", path)
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		v := newInitValues(cfg.Default())
		if err := initForm(&v).Run(); err != nil {
			return err // form canceled or failed
		}
		c, err := v.apply(cfg.Default())
		if err != nil {
			return err
		}
		if err := cfg.Write(path, c); err != nil {
			return err
		}
		system.Logger.Debug("config written", "path", path)
		fmt.Fprintf(cmd.OutOrStdout(), "\n✓ wrote %s\n\n", path)
		return nil
	},
}

// initValues are the form fields, kept as strings where huh edits text.
type initValues struct {
	evalEnv     string
	timeout     string
	historySize string
	autoeval    bool
	paranoid    bool
	raw         bool
	finishHook  string
}

func newInitValues(c cfg.Config) initValues {
	return initValues{
		evalEnv:     strings.Join(c.EvalEnvironment, " "),
		timeout:     c.Timeout,
		historySize: strconv.Itoa(c.HistorySize),
		autoeval:    c.AutoevalDefault,
		paranoid:    c.ParanoidHistoryDefault,
		raw:         c.RawMode,
		finishHook:  c.FinishHook,
	}
}

// apply copies the form values onto base and validates the result.
func (v initValues) apply(base cfg.Config) (cfg.Config, error) {
	base.EvalEnvironment = strings.Fields(v.evalEnv)
	base.Timeout = strings.TrimSpace(v.timeout)
	n, err := strconv.Atoi(strings.TrimSpace(v.historySize))
	if err != nil {
		return cfg.Config{}, fmt.Errorf("history size: %w", err)
	}
	base.HistorySize = n
	base.AutoevalDefault = v.autoeval
	base.ParanoidHistoryDefault = v.paranoid
	base.RawMode = v.raw
	base.FinishHook = strings.TrimSpace(v.finishHook)
	return base, base.Validate()
}

func validateDuration(s string) error {
	if _, err := time.ParseDuration(strings.TrimSpace(s)); err != nil {
		return errors.New("expected a duration such as 10s or 500ms")
	}
	return nil
}

func validatePositive(s string) error {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err != nil || n <= 0 {
		return errors.New("expected a positive number")
	}
	return nil
}

func initForm(v *initValues) *huh.Form {
	green := lipgloss.Color("#4d9375")
	theme := huh.ThemeCharm()
	theme.FieldSeparator = lipgloss.NewStyle()
	theme.Blurred.Title = theme.Blurred.Title.Width(22).Foreground(lipgloss.Color("7"))
	theme.Focused.Title = theme.Focused.Title.Width(22).Foreground(green).Bold(true)
	theme.Focused.Base.BorderForeground(green)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title("pipr").Description("Write a new pipr.yaml. Snippets and viewers keep their defaults."),
			huh.NewInput().
				Title("Shell").
				Description("argv prefix the command is appended to").
				Value(&v.evalEnv).
				Validate(func(s string) error {
					if len(strings.Fields(s)) == 0 {
						return errors.New("required")
					}
					return nil
				}),
			huh.NewInput().Title("Timeout").Value(&v.timeout).Validate(validateDuration),
			huh.NewInput().Title("History size").Value(&v.historySize).Validate(validatePositive),
		),
		huh.NewGroup(
			huh.NewConfirm().Title("Autoeval on start").Value(&v.autoeval),
			huh.NewConfirm().Title("Paranoid history").Value(&v.paranoid),
			huh.NewConfirm().Title("Raw mode").Description("join lines with newlines").Value(&v.raw),
			huh.NewInput().Title("Finish hook").Description("receives the final command on stdin").Value(&v.finishHook),
		),
	).WithTheme(theme).WithWidth(64)
}
