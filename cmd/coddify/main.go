// Package main provides the Coddify CLI application entry point.
// Coddify is a conversational tutor for students and teachers, streaming
// answers from a generative-language service with a typing-style reveal.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"coddify/internal/config"
	"coddify/internal/llm"
	"coddify/internal/logger"
	"coddify/internal/render"
	"coddify/internal/session"
	"coddify/pkg/tutortypes"
)

var (
	logLevel   string
	logFile    string
	testMode   bool
	configPath string
	version    = "0.1.0" // This could be set at build time
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "coddify",
	Short: "Coddify - AI tutor chat",
	Long: `Coddify is a conversational AI tutor. After a short onboarding
(student with grade, or teacher) it answers study questions in a streamed,
character-by-character reveal, with typed links for resources, images, and
lesson plans.`,
	Run: runChat,
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("Coddify v%s\n", version)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr")
	rootCmd.PersistentFlags().BoolVar(&testMode, "test-mode", false, "Run in deterministic test mode")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")

	if err := viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding log-level flag: %v\n", err)
		os.Exit(1)
	}
	if err := viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding log-file flag: %v\n", err)
		os.Exit(1)
	}

	rootCmd.AddCommand(versionCmd)
}

func runChat(_ *cobra.Command, _ []string) {
	if err := logger.Configure(logLevel, logFile, testMode); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	factory := llm.NewClientFactory(cfg.Provider)
	client, err := factory.GetClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error selecting provider: %v\n", err)
		os.Exit(1)
	}

	renderer, err := render.NewRenderer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating renderer: %v\n", err)
		os.Exit(1)
	}

	// shown tracks what the reveal callback already printed, so each call
	// emits only the new characters. A prefix that does not extend it means
	// the turn was rewritten (a classified failure); start a fresh line.
	// The mutex covers shown against the ticker goroutine.
	var (
		displayMu sync.Mutex
		shown     string
	)
	resetLine := func() {
		displayMu.Lock()
		shown = ""
		displayMu.Unlock()
	}
	ctrl := session.NewController(cfg, client,
		session.WithTickCallback(func(suffix string) {
			displayMu.Lock()
			defer displayMu.Unlock()
			if shown != "" {
				// The reveal owns the line now
				return
			}
			fmt.Printf("\rthinking%-3s", suffix)
		}),
		session.WithRevealCallback(func(prefix string) {
			displayMu.Lock()
			defer displayMu.Unlock()
			if shown == "" {
				fmt.Print("\r            \rtutor> ")
			}
			if !strings.HasPrefix(prefix, shown) {
				fmt.Print("\ntutor> ")
				shown = ""
			}
			fmt.Print(prefix[len(shown):])
			shown = prefix
		}),
	)
	defer ctrl.Close()

	ctx := context.Background()
	reader := bufio.NewScanner(os.Stdin)

	onboard(ctx, ctrl, reader)
	fmt.Println()
	resetLine()

	for {
		fmt.Print("you> ")
		if !reader.Scan() {
			return
		}
		input := strings.TrimSpace(reader.Text())

		switch {
		case input == "":
			continue
		case input == "/quit" || input == "/exit":
			return
		case input == "/history":
			for _, turn := range ctrl.Snapshot() {
				fmt.Println(renderer.Turn(turn, ctrl.SegmentContent(turn.Content)))
			}
			continue
		case strings.HasPrefix(input, "/attach "):
			path := strings.TrimSpace(strings.TrimPrefix(input, "/attach "))
			if failure, ok := ctrl.AttachFile(path); !ok {
				fmt.Println(failure.Message)
			} else {
				fmt.Println("attached:", path)
			}
			continue
		}

		ctrl.Submit(ctx, input)
		fmt.Println()
		resetLine()
		printLinks(ctrl, renderer)
	}
}

// onboard loops until role and grade validate.
func onboard(ctx context.Context, ctrl *session.Controller, reader *bufio.Scanner) {
	ctrl.BeginOnboarding()
	for {
		fmt.Print("Are you a student or a teacher? ")
		if !reader.Scan() {
			os.Exit(0)
		}
		role := strings.TrimSpace(reader.Text())

		grade := ""
		if strings.EqualFold(role, "student") {
			fmt.Print("Which grade (1-11)? ")
			if !reader.Scan() {
				os.Exit(0)
			}
			grade = strings.TrimSpace(reader.Text())
		}

		if err := ctrl.CompleteOnboarding(ctx, role, grade); err != nil {
			fmt.Println(err)
			continue
		}
		return
	}
}

// printLinks prints the typed links of the newest model turn on their own
// lines; the text itself was already revealed live.
func printLinks(ctrl *session.Controller, renderer *render.Renderer) {
	turns := ctrl.Snapshot()
	if len(turns) == 0 {
		return
	}
	last := turns[len(turns)-1]
	if last.Role != tutortypes.RoleModel {
		return
	}

	var links []tutortypes.Segment
	for _, seg := range ctrl.SegmentContent(last.Content) {
		if seg.IsLink() {
			links = append(links, seg)
		}
	}
	if len(links) > 0 {
		fmt.Println(renderer.Segments(links))
	}
}
