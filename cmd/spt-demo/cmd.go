package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/derekg/setproctitle"
	"github.com/derekg/setproctitle/internal/config"
	"github.com/derekg/setproctitle/internal/i18n"
	"github.com/derekg/setproctitle/internal/native"
	"github.com/derekg/setproctitle/internal/thread"
)

// Style definitions using lipgloss
var (
	primaryColor = lipgloss.Color("#04B575")
	warningColor = lipgloss.Color("#FFA500")
	infoColor    = lipgloss.Color("#3B82F6")

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	infoStyle = lipgloss.NewStyle().
			Foreground(infoColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			Underline(true)
)

// NewRootCmd creates the root command with its subcommands.
func NewRootCmd() *cobra.Command {
	var lang string

	rootCmd := &cobra.Command{
		Use:          "spt-demo",
		Short:        i18n.T("root_short"),
		Long:         titleStyle.Render("spt-demo") + " - " + i18n.T("root_short"),
		SilenceUsage: true,
		Version:      config.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if lang != "" {
				i18n.Init(lang)
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&lang, "lang", "", i18n.T("flag_lang_help"))

	rootCmd.AddCommand(
		newSetCmd(),
		newGetCmd(),
		newInfoCmd(),
		newThreadsCmd(),
		newPromptCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func newSetCmd() *cobra.Command {
	var hold time.Duration

	cmd := &cobra.Command{
		Use:   "set TITLE",
		Short: i18n.T("set_short"),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(cmd.Context(), cmd.OutOrStdout(), strings.Clone(args[0]), hold)
		},
	}
	cmd.Flags().DurationVar(&hold, "hold", 0, i18n.T("flag_hold_help"))
	return cmd
}

func runSet(ctx context.Context, w io.Writer, title string, hold time.Duration) error {
	fmt.Fprintln(w, infoStyle.Render(i18n.T("title_before", setproctitle.GetProcessTitle())))
	setproctitle.SetProcessTitle(title)
	fmt.Fprintln(w, successStyle.Render(i18n.T("title_after", setproctitle.GetProcessTitle())))
	printDegraded(w)
	return holdFor(ctx, w, hold)
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: i18n.T("get_short"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, i18n.T("title_current", setproctitle.GetProcessTitle()))
			if name := setproctitle.ShortName(); name != "" {
				fmt.Fprintln(w, i18n.T("short_name", name))
			}
			return nil
		},
	}
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: i18n.T("info_short"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printInfo(cmd.OutOrStdout())
			return nil
		},
	}
}

func printInfo(w io.Writer) {
	caps := setproctitle.Capabilities()
	// Reading the title finishes setup, so the status has a capacity.
	_ = setproctitle.GetProcessTitle()
	st := setproctitle.GetStatus()

	fmt.Fprintln(w, headerStyle.Render(caps.OS+" / "+caps.Strategy.String()))
	fmt.Fprintln(w, caps.String())
	if st.Backend != "" {
		fmt.Fprintln(w, i18n.T("backend", st.Backend))
	}
	if st.Capacity < 0 {
		fmt.Fprintln(w, i18n.T("capacity_unbounded"))
	} else {
		fmt.Fprintln(w, i18n.T("capacity", humanize.IBytes(uint64(st.Capacity)), st.Capacity))
	}
	if st.EnvironmentBytes > 0 {
		fmt.Fprintln(w, i18n.T("environment", humanize.IBytes(uint64(st.EnvironmentBytes)), st.Relocated))
	}
	printDegraded(w)
}

func newThreadsCmd() *cobra.Command {
	var hold time.Duration

	cmd := &cobra.Command{
		Use:   "threads NAME...",
		Short: i18n.T("threads_short"),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThreads(cmd.Context(), cmd.OutOrStdout(), args, hold)
		},
	}
	cmd.Flags().DurationVar(&hold, "hold", 0, i18n.T("flag_hold_help"))
	return cmd
}

// runThreads names one locked thread per name and keeps them alive until
// the listing is printed and the hold has passed. The threads are
// discarded afterwards and the main thread is never renamed.
func runThreads(ctx context.Context, w io.Writer, names []string, hold time.Duration) error {
	type named struct {
		tid  int
		name string
	}

	var (
		ready   sync.WaitGroup
		release = make(chan struct{})
		results = make([]named, len(names))
	)
	ready.Add(len(names))
	for i, name := range names {
		go thread.RunLocked(func() {
			setproctitle.SetThreadTitle(name)
			results[i] = named{tid: thread.ID(), name: setproctitle.GetThreadTitle()}
			ready.Done()
			<-release
		})
	}
	ready.Wait()
	defer close(release)

	if all, err := native.ThreadNames(os.Getpid()); err == nil {
		tids := make([]int, 0, len(all))
		for tid := range all {
			tids = append(tids, tid)
		}
		sort.Ints(tids)
		for _, tid := range tids {
			fmt.Fprintln(w, i18n.T("thread_named", tid, all[tid]))
		}
	} else {
		for _, r := range results {
			fmt.Fprintln(w, i18n.T("thread_named", r.tid, r.name))
		}
	}
	printDegraded(w)
	return holdFor(ctx, w, hold)
}

func newPromptCmd() *cobra.Command {
	var hold time.Duration

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: i18n.T("prompt_short"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return errors.New(i18n.T("not_a_terminal"))
			}

			title := setproctitle.GetProcessTitle()
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title(headerStyle.Render(i18n.T("prompt_title"))).
						Description(i18n.T("prompt_description")).
						Value(&title).
						Validate(func(s string) error {
							if strings.TrimSpace(s) == "" {
								return errors.New(i18n.T("title_empty"))
							}
							return nil
						}),
				),
			)
			if err := form.Run(); err != nil {
				return err
			}
			return runSet(cmd.Context(), cmd.OutOrStdout(), title, hold)
		},
	}
	cmd.Flags().DurationVar(&hold, "hold", 0, i18n.T("flag_hold_help"))
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: i18n.T("version_short"),
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (commit %s, built %s)\n",
				config.ClientName, config.Version, config.GitCommit, config.BuildTime)
		},
	}
}

func printDegraded(w io.Writer) {
	if cause := setproctitle.GetStatus().Cause; cause != nil {
		fmt.Fprintln(w, warningStyle.Render(i18n.T("degraded", cause)))
	}
}

// holdFor blocks for d or until ctx is done.
func holdFor(ctx context.Context, w io.Writer, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	fmt.Fprintln(w, infoStyle.Render(i18n.T("holding", d, os.Getpid())))

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return nil
	}
}

// ExecuteWithFang runs the CLI with Fang enhancements.
func ExecuteWithFang(ctx context.Context) error {
	i18n.Init(i18n.DetectLanguageFromArgs(os.Args))
	return fang.Execute(ctx, NewRootCmd())
}
