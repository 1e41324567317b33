package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/haukened/rr-screen/internal/screen/common/log"
	"github.com/haukened/rr-screen/internal/screen/config"
	"github.com/haukened/rr-screen/internal/screen/domain"
	"github.com/haukened/rr-screen/internal/screen/gateways/transport"
	"github.com/haukened/rr-screen/internal/screen/repos/bundle"
)

// cli owns the Application built for the running command.
type cli struct {
	app *Application
}

// runCLI executes the command line and releases any stores it opened.
func runCLI(args []string, out io.Writer) error {
	c := &cli{}
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	err := root.Execute()
	if c.app != nil {
		c.app.Close()
	}
	return err
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Call and SMS admission engine",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}
			if err := log.Configure(cfg.Env, cfg.Log.Level); err != nil {
				return fmt.Errorf("logging configuration error: %w", err)
			}
			app, err := buildApplication(cfg)
			if err != nil {
				return err
			}
			c.app = app
			return nil
		},
	}
	root.AddCommand(c.serveCmd(), c.callCmd(), c.smsCmd(), c.rulesCmd(), c.importCmd())
	return root
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve HTTP intake until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := c.app
			log.Info(map[string]any{
				"version":   version,
				"env":       app.config.Env,
				"log_level": app.config.Log.Level,
				"listen":    app.config.HTTP.Listen,
			}, "Starting screening server")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if err := app.Run(ctx); err != nil {
				return err
			}
			log.Info(nil, "Screening server stopped gracefully")
			return nil
		},
	}
}

func (c *cli) callCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call <sender>",
		Short: "Evaluate an inbound call",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, c.app.call.Evaluate(args[0]))
		},
	}
}

func (c *cli) smsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sms <sender> <content...>",
		Short: "Evaluate an inbound SMS",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, c.app.sms.Evaluate(args[0], strings.Join(args[1:], " ")))
		},
	}
}

func (c *cli) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <bundle.yaml|bundle.toml|bundle.json>",
		Short: "Merge a rule bundle into both rule stores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := bundle.Load(args[0])
			if err != nil {
				return err
			}
			app := c.app
			sum, err := b.Apply(app.call, app.sms)
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d, rejected %d\n", sum.Applied, sum.Rejected)
			return err
		},
	}
}

// listTarget is the list surface both screeners share.
type listTarget interface {
	AddBlocked(sender string) error
	RemoveBlocked(sender string) (bool, error)
	AddWhitelisted(sender string) error
	RemoveWhitelisted(sender string) (bool, error)
	ToggleActive() (bool, error)
	ToggleBlockNonContacts() (bool, error)
}

func channelTarget(app *Application, channel string) (listTarget, error) {
	switch domain.Channel(channel) {
	case domain.ChannelCall:
		return app.call, nil
	case domain.ChannelSMS:
		return app.sms, nil
	default:
		return nil, fmt.Errorf("unknown channel %q (want call or sms)", channel)
	}
}

func (c *cli) rulesCmd() *cobra.Command {
	rules := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and change the rule stores",
	}
	rules.AddCommand(
		&cobra.Command{
			Use:   "show <call|sms>",
			Short: "Print a rule store",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				app := c.app
				switch domain.Channel(args[0]) {
				case domain.ChannelCall:
					return printJSON(cmd, transport.NewCallRulesView(app.call.Rules()))
				case domain.ChannelSMS:
					return printJSON(cmd, transport.NewSMSRulesView(app.sms.Rules()))
				default:
					return fmt.Errorf("unknown channel %q (want call or sms)", args[0])
				}
			},
		},
		c.listCmd("block <call|sms> <sender>", "Add a sender to the block list", func(t listTarget, s string) (string, error) {
			return "blocked", t.AddBlocked(s)
		}),
		c.listCmd("unblock <call|sms> <sender>", "Remove a sender from the block list", func(t listTarget, s string) (string, error) {
			return presence(t.RemoveBlocked(s))
		}),
		c.listCmd("allow <call|sms> <sender>", "Whitelist a sender", func(t listTarget, s string) (string, error) {
			return "whitelisted", t.AddWhitelisted(s)
		}),
		c.listCmd("disallow <call|sms> <sender>", "Remove a sender from the whitelist", func(t listTarget, s string) (string, error) {
			return presence(t.RemoveWhitelisted(s))
		}),
		c.toggleCmd(),
		c.addRuleCmd(),
		c.keywordCmd(),
		c.categoryCmd(),
		c.quietHoursCmd(),
		c.limitsCmd(),
	)
	return rules
}

func presence(removed bool, err error) (string, error) {
	if removed {
		return "removed", err
	}
	return "not present", err
}

func (c *cli) listCmd(use, short string, op func(listTarget, string) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := channelTarget(c.app, args[0])
			if err != nil {
				return err
			}
			msg, err := op(t, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

// parseSet reads the optional --set flag; empty means toggle.
func parseSet(raw string) (*bool, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid --set value %q: %w", raw, err)
	}
	return &v, nil
}

func printState(cmd *cobra.Command, name string, on bool, err error) error {
	if err != nil {
		return err
	}
	state := "off"
	if on {
		state = "on"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", name, state)
	return nil
}

func (c *cli) toggleCmd() *cobra.Command {
	var set string
	cmd := &cobra.Command{
		Use:   "toggle <call|sms> <active|non-contacts|quiet-hours|frequency-limits>",
		Short: "Flip a switch; quiet-hours and frequency-limits accept --set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := c.app
			t, err := channelTarget(app, args[0])
			if err != nil {
				return err
			}
			explicit, err := parseSet(set)
			if err != nil {
				return err
			}
			switch args[1] {
			case "active":
				on, err := t.ToggleActive()
				return printState(cmd, "screening", on, err)
			case "non-contacts":
				on, err := t.ToggleBlockNonContacts()
				return printState(cmd, "block non-contacts", on, err)
			}
			if domain.Channel(args[0]) != domain.ChannelSMS {
				return fmt.Errorf("%q is only available on the sms channel", args[1])
			}
			switch args[1] {
			case "quiet-hours":
				on, err := app.sms.ToggleTimeRestrictions(explicit)
				return printState(cmd, "quiet hours", on, err)
			case "frequency-limits":
				on, err := app.sms.ToggleFrequencyLimits(explicit)
				return printState(cmd, "frequency limits", on, err)
			default:
				return fmt.Errorf("unknown setting %q", args[1])
			}
		},
	}
	cmd.Flags().StringVar(&set, "set", "", "set to true or false instead of flipping")
	return cmd
}

func (c *cli) addRuleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-rule <prefix|pattern> <value>",
		Short: "Append a custom call rule",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseRuleKind(args[0])
			if err != nil {
				return err
			}
			if err := c.app.call.AddRule(kind, args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "rule added")
			return nil
		},
	}
}

func (c *cli) keywordCmd() *cobra.Command {
	var ham bool
	add := &cobra.Command{
		Use:   "add <keyword>",
		Short: "Add an SMS keyword filter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.sms.AddKeywordFilter(args[0], !ham); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "keyword added")
			return nil
		},
	}
	add.Flags().BoolVar(&ham, "not-spam", false, "record the keyword without blocking on it")

	remove := &cobra.Command{
		Use:   "remove <keyword>",
		Short: "Remove an SMS keyword filter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := presence(c.app.sms.RemoveKeywordFilter(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	kw := &cobra.Command{Use: "keyword", Short: "Manage SMS keyword filters"}
	kw.AddCommand(add, remove)
	return kw
}

func (c *cli) categoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "category <name>",
		Short: "Flip an SMS spam category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := c.app.sms.ToggleCategory(args[0])
			return printState(cmd, args[0], on, err)
		},
	}
}

// optionalInt returns a pointer to the flag value when it was set.
func optionalInt(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return nil
	}
	return &v
}

func (c *cli) quietHoursCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiet-hours",
		Short: "Set SMS quiet hour bounds (0-23); out-of-range values are ignored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := c.app
			if err := app.sms.SetQuietHours(optionalInt(cmd, "start"), optionalInt(cmd, "end")); err != nil {
				return err
			}
			q := app.sms.Rules().Quiet
			fmt.Fprintf(cmd.OutOrStdout(), "quiet hours %02d:00-%02d:00\n", q.Start, q.End)
			return nil
		},
	}
	cmd.Flags().Int("start", domain.DefaultQuietStart, "first quiet hour")
	cmd.Flags().Int("end", domain.DefaultQuietEnd, "hour quiet hours end")
	return cmd
}

func (c *cli) limitsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "limits",
		Short: "Set SMS frequency caps; values below 1 are ignored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := c.app
			if err := app.sms.SetFrequencyLimits(optionalInt(cmd, "per-hour"), optionalInt(cmd, "per-day")); err != nil {
				return err
			}
			l := app.sms.Rules().Limits
			fmt.Fprintf(cmd.OutOrStdout(), "limits %d/hour %d/day\n", l.MaxPerHour, l.MaxPerDay)
			return nil
		},
	}
	cmd.Flags().Int("per-hour", domain.DefaultMaxPerHour, "messages per sender per hour")
	cmd.Flags().Int("per-day", domain.DefaultMaxPerDay, "messages per sender per day")
	return cmd
}
