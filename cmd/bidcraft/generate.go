package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/amishk599/bidcraft/internal/config"
	"github.com/amishk599/bidcraft/internal/model"
)

var (
	genJob        string
	genFile       string
	genExperience string
	genName       string
	genVariants   int
	genSeed       uint64
	genJSON       bool
	genNotify     bool
)

var (
	bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("34"))
	metaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate proposals for a job posting",
	Long: `Reads a job posting from --job, --file, or stdin and prints proposal drafts.

Experience and name default to author.experience and author.name from the config.`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&genJob, "job", "j", "", "job description text")
	f.StringVarP(&genFile, "file", "f", "", "read the job description from a file")
	f.StringVarP(&genExperience, "experience", "e", "", "similar work you did (overrides author.experience)")
	f.StringVarP(&genName, "name", "n", "", "your name (overrides author.name)")
	f.IntVar(&genVariants, "variants", 0, "number of versions to generate (default: generation.variants)")
	f.Uint64Var(&genSeed, "seed", 0, "seed for reproducible wording (default: generation.seed)")
	f.BoolVar(&genJSON, "json", false, "print proposals as JSON")
	f.BoolVar(&genNotify, "notify", false, "also send proposals through the configured notifier")
	generateCmd.MarkFlagsMutuallyExclusive("job", "file")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	job, err := readJob(genJob, genFile, cmd.InOrStdin())
	if err != nil {
		return err
	}

	req := buildRequest(cfg, job)
	if req.Variants < 1 || req.Variants > config.MaxVariants {
		return fmt.Errorf("--variants must be between 1 and %d", config.MaxVariants)
	}

	seed := cfg.Generation.Seed
	if genSeed != 0 {
		seed = genSeed
	}
	gen, err := setupGenerator(cfg, seed, logger)
	if err != nil {
		logger.Error("failed to load templates", "error", err)
		os.Exit(1)
	}

	proposals, err := gen.Generate(req)
	if errors.Is(err, model.ErrEmptyJobDescription) {
		return errors.New("no job description, paste the job posting and try again")
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if genJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(proposals); err != nil {
			return fmt.Errorf("encode proposals: %w", err)
		}
	} else {
		printProposals(out, proposals)
	}

	if genNotify {
		n := setupNotifier(cfg, newHTTPClient(), logger)
		if err := n.Notify(proposals); err != nil {
			logger.Error("notification failed", "error", err)
			os.Exit(1)
		}
	}
	return nil
}

// readJob returns the job text from the flag, the file, or stdin, in that order.
func readJob(text, file string, stdin io.Reader) (string, error) {
	switch {
	case text != "":
		return text, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read job file: %w", err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
}

// buildRequest fills flag values over the configured author defaults.
func buildRequest(cfg *config.Config, job string) model.Request {
	req := model.Request{
		JobDescription: job,
		Experience:     cfg.Author.Experience,
		AuthorName:     cfg.Author.Name,
		Variants:       cfg.Generation.Variants,
	}
	if genExperience != "" {
		req.Experience = genExperience
	}
	if genName != "" {
		req.AuthorName = genName
	}
	if genVariants != 0 {
		req.Variants = genVariants
	}
	return req
}

func printProposals(w io.Writer, proposals []model.Proposal) {
	rule := strings.Repeat("=", 50)
	for _, p := range proposals {
		fmt.Fprintln(w, rule)
		fmt.Fprintln(w, bannerStyle.Render(fmt.Sprintf("YOUR PROPOSAL (version %d of %d)", p.Version, len(proposals))))
		fmt.Fprintln(w, rule)
		fmt.Fprintln(w)
		fmt.Fprintln(w, p.Text)
		fmt.Fprintln(w)
		fmt.Fprintln(w, metaStyle.Render(fmt.Sprintf("Job type: %s · %d words", p.Category.Title(), p.WordCount)))
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Before submitting:")
	fmt.Fprintln(w, "1. Add specifics from the job post")
	fmt.Fprintln(w, "2. Remove parts that do not fit")
	fmt.Fprintln(w, "3. Keep it short")
}
