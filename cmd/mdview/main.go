package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/version"

	"pkt.systems/mdview"
	"pkt.systems/mdview/bridge"
	"pkt.systems/mdview/internal/config"
	"pkt.systems/mdview/internal/sidebar"
	"pkt.systems/mdview/lex"
)

const (
	defaultWidth     = 80
	defaultChunkSize = 3
	defaultDelay     = 20 * time.Millisecond
)

func init() {
	version.SetDefaultModule("pkt.systems/mdview")
}

// renderFlags are shared by the root and sidebar commands.
type renderFlags struct {
	tokens     bool
	strict     bool
	themeName  string
	width      int
	osc8       string
	boring     bool
	traceLevel string
}

func (f *renderFlags) bind(fs *pflag.FlagSet) {
	fs.BoolVar(&f.tokens, "tokens", false, "Read marked-style token JSON instead of Markdown")
	fs.BoolVar(&f.strict, "strict", false, "Fail on malformed tokens instead of showing them as fallbacks")
	fs.StringVarP(&f.themeName, "theme", "t", "default", "Theme name")
	fs.IntVarP(&f.width, "width", "w", 0, "Output width override (0 uses terminal width if available)")
	fs.StringVarP(&f.osc8, "osc8", "8", "auto", "OSC8 hyperlinks: auto|on|off")
	fs.BoolVarP(&f.boring, "boring", "b", false, "Generate non-ANSI output")
	fs.StringVar(&f.traceLevel, "trace", "Error", "Trace level [Debug|Info|Error]")
}

// merge fills every flag the user did not set from the loaded configuration.
func (f *renderFlags) merge(fs *pflag.FlagSet, cfg config.Config) {
	if !fs.Changed("theme") {
		f.themeName = cfg.Render.Theme
	}
	if !fs.Changed("width") {
		f.width = cfg.Render.Width
	}
	if !fs.Changed("osc8") {
		f.osc8 = cfg.Render.OSC8
	}
	if !fs.Changed("boring") {
		f.boring = cfg.Render.Boring
	}
	if !fs.Changed("trace") {
		f.traceLevel = cfg.Trace.Level
	}
}

func (f *renderFlags) theme() (mdview.Theme, error) {
	if f.boring {
		return boringTheme(), nil
	}
	theme, ok := mdview.ThemeByName(f.themeName)
	if !ok {
		if s := mdview.SuggestTheme(f.themeName); s != "" {
			return nil, fmt.Errorf("unknown theme %q (did you mean %q?)", f.themeName, s)
		}
		return nil, fmt.Errorf("unknown theme %q; see --list-themes", f.themeName)
	}
	return theme, nil
}

func (f *renderFlags) readTokens(args []string) ([]mdview.Token, error) {
	reader, closer, err := openInputs(args)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return f.tokenize(data)
}

func (f *renderFlags) tokenize(data []byte) ([]mdview.Token, error) {
	if f.tokens {
		return mdview.DecodeTokens(data, mdview.WithStrict(f.strict))
	}
	return lex.Markdown(data)
}

func main() {
	var (
		rf         renderFlags
		format     string
		outPath    string
		listThemes bool
	)

	rootCmd := &cobra.Command{
		Use:           "mdview [flags] [inputs...]",
		Short:         "Render Markdown (or its token stream) for the terminal or as HTML",
		Long:          "Render Markdown for the terminal or as HTML.\n\nIf no input is provided, Markdown is read from stdin. Inputs may be files,\nfile:// URLs or http(s):// URLs.",
		Version:       version.Current(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listThemes {
				printThemes(cmd.OutOrStdout())
				return nil
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			rf.merge(cmd.Flags(), cfg)
			if err := setupTracing(rf.traceLevel); err != nil {
				return err
			}
			tokens, err := rf.readTokens(args)
			if err != nil {
				return err
			}
			writer, closeOut, err := resolveOutput(outPath)
			if err != nil {
				return fmt.Errorf("open output: %w", err)
			}
			if closeOut != nil {
				defer func() { _ = closeOut.Close() }()
			}
			tracer().Infof("rendering %d tokens as %s", len(tokens), format)
			return renderTo(writer, tokens, format, &rf)
		},
	}
	rf.bind(rootCmd.PersistentFlags())
	rootCmd.Flags().StringVarP(&format, "format", "f", "ansi", "Output format: ansi|html|tokens")
	rootCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output file instead of stdout")
	rootCmd.Flags().BoolVar(&listThemes, "list-themes", false, "List available themes")

	rootCmd.AddCommand(sidebarCommand(&rf))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "mdview: %v\n", err)
		os.Exit(1)
	}
}

func renderTo(w io.Writer, tokens []mdview.Token, format string, rf *renderFlags) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "ansi":
		theme, err := rf.theme()
		if err != nil {
			return err
		}
		osc8, err := resolveOSC8(rf.osc8)
		if err != nil {
			return fmt.Errorf("invalid --osc8 %q: %w", rf.osc8, err)
		}
		return mdview.Render(mdview.RenderRequest{
			Tokens:  tokens,
			Writer:  w,
			Width:   resolveWidth(rf.width),
			Theme:   theme,
			Options: []mdview.RenderOption{mdview.WithOSC8(osc8)},
		})
	case "html":
		return mdview.WriteHTML(w, mdview.View(tokens, nil))
	case "tokens", "json":
		data, err := mdview.EncodeTokens(tokens)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown format %q: expected ansi|html|tokens", format)
	}
}

func sidebarCommand(rf *renderFlags) *cobra.Command {
	var (
		target       string
		simulate     bool
		simChunkSize int
		simDelay     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "sidebar [flags] [inputs...]",
		Short: "Show a response in an interactive panel with Apply buttons",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			rf.merge(cmd.Flags(), cfg)
			if !cmd.Flags().Changed("bridge") {
				target = cfg.Bridge.Target
			}
			if err := setupTracing(rf.traceLevel); err != nil {
				return err
			}
			theme, err := rf.theme()
			if err != nil {
				return err
			}
			osc8, err := resolveOSC8(rf.osc8)
			if err != nil {
				return fmt.Errorf("invalid --osc8 %q: %w", rf.osc8, err)
			}
			host, err := resolveBridge(target)
			if err != nil {
				return err
			}

			opts := sidebar.Options{
				Title:     "mdview " + strings.Join(args, " "),
				Bridge:    host,
				Theme:     theme,
				OSC8:      osc8,
				Streaming: simulate,
			}
			if !simulate {
				if opts.Tokens, err = rf.readTokens(args); err != nil {
					return err
				}
			} else if rf.tokens {
				return errors.New("--simulate streams Markdown; it cannot be combined with --tokens")
			}

			progOpts := []tea.ProgramOption{tea.WithAltScreen()}
			if target == "stdout" {
				// stdout carries bridge messages, so the panel draws on stderr
				progOpts = append(progOpts, tea.WithOutput(os.Stderr))
			}
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				progOpts = append(progOpts, tea.WithInputTTY())
			}
			p := tea.NewProgram(sidebar.New(opts), progOpts...)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			if simulate {
				reader, closer, err := openInputs(args)
				if err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				if closer != nil {
					defer func() { _ = closer.Close() }()
				}
				go func() {
					if err := sidebar.Stream(ctx, sidebar.StreamRequest{
						Reader:    reader,
						ChunkSize: simChunkSize,
						Delay:     simDelay,
						Send:      p.Send,
					}); err != nil && !errors.Is(err, context.Canceled) {
						tracer().Errorf("stream: %v", err)
					}
				}()
			}
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().StringVar(&target, "bridge", "stdout", "Host bridge: stdout|none|<http(s) URL>")
	cmd.Flags().BoolVar(&simulate, "simulate", false, "Stream the input in chunks, re-rendering after each")
	cmd.Flags().IntVar(&simChunkSize, "simulate-chunk", defaultChunkSize, "Runes per stream chunk")
	cmd.Flags().DurationVar(&simDelay, "simulate-delay", defaultDelay, "Delay per stream chunk")
	return cmd
}

func resolveBridge(target string) (mdview.Bridge, error) {
	switch strings.ToLower(strings.TrimSpace(target)) {
	case "", "stdout":
		return bridge.NewWriter(os.Stdout), nil
	case "none":
		return nil, nil
	}
	h, err := bridge.NewHTTP(target, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid --bridge %q: %w", target, err)
	}
	return h, nil
}

func printThemes(w io.Writer) {
	names := mdview.AvailableThemes()
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
}

func resolveWidth(width int) int {
	if width > 0 {
		return width
	}
	return terminalWidth(defaultWidth)
}

func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if w, err := strconvAtoi(value); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

func resolveOSC8(mode string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return mdview.DetectOSC8Support(), nil
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("expected auto|on|off")
	}
}

func boringTheme() mdview.Theme {
	return mdview.NewTheme("boring", mdview.Styles{})
}

func strconvAtoi(value string) (int, error) {
	if value == "" {
		return 0, fmt.Errorf("invalid int")
	}
	var n int
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return 0, fmt.Errorf("invalid int")
		}
		n = n*10 + int(value[i]-'0')
	}
	return n, nil
}
