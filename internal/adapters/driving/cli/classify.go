package cli

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/drewgilbert-lab/content-automation-app/internal/adapters/driving/tui"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/logger"
)

// ErrNoInputs is returned when the patterns match no files.
var ErrNoInputs = errors.New("no files matched")

var classifyCmd = &cobra.Command{
	Use:   "classify <file|dir|glob>...",
	Short: "Parse, classify and review local documents",
	Long: `Parse local documents, classify each one against the knowledge base
and submit the ones you approve to the review queue.

Arguments may be files, directories (searched recursively) or doublestar
globs such as 'docs/**/*.md'. On a terminal an interactive review list is
shown; otherwise results are printed and --approve-above decides what is
submitted.

Examples:
  content-automation classify docs/personas/*.md
  content-automation classify --plain --approve-above 0.9 'briefs/**/*.{pdf,docx}'
  content-automation classify --export review.xlsx ./inbox`,
	Args:        cobra.MinimumNArgs(1),
	Annotations: needsServices(),
	RunE:        runClassify,
}

func init() {
	f := classifyCmd.Flags()
	f.String("submitter", defaultSubmitter(), "Submitter recorded on submissions")
	f.Float64("approve-above", 0, "Approve results not needing review with at least this confidence")
	f.String("export", "", "Write results to an .xlsx workbook")
	f.Bool("plain", false, "Print results instead of the interactive review list")
	rootCmd.AddCommand(classifyCmd)
}

func defaultSubmitter() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "cli"
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	f := cmd.Flags()
	submitter, _ := f.GetString("submitter")
	approveAbove, _ := f.GetFloat64("approve-above")
	exportPath, _ := f.GetString("export")
	plain, _ := f.GetBool("plain")

	if approveAbove < 0 || approveAbove > 1 {
		return fmt.Errorf("invalid --approve-above %v: must be in [0, 1]", approveAbove)
	}

	paths, err := expandInputs(args)
	if err != nil {
		return err
	}
	files, err := readUploads(paths)
	if err != nil {
		return err
	}

	batch, err := services.Parser.ParseBatch(ctx, files, services.Limits)
	if err != nil {
		return err
	}
	for _, e := range batch.Errors {
		cmd.PrintErrf("warning: %s\n", e)
	}

	sess, err := services.Sessions.Create(ctx, batch.Documents)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	filenames := make([]string, len(sess.Documents))
	for i, d := range sess.Documents {
		filenames[i] = d.Filename
	}

	var result *domain.ApproveResult
	if !plain && term.IsTerminal(int(os.Stdout.Fd())) {
		result, err = runInteractive(ctx, sess.ID, filenames, submitter, approveAbove)
	} else {
		result, err = runPlain(cmd, sess.ID, submitter, approveAbove)
	}
	if err != nil {
		return err
	}

	printApproveResult(cmd, filenames, result)

	if exportPath != "" {
		if err := exportWorkbook(ctx, exportPath, sess.ID, result); err != nil {
			return err
		}
		cmd.Printf("Exported %d documents to %s\n", len(filenames), exportPath)
	}
	return nil
}

func runInteractive(ctx context.Context, sessionID string, filenames []string, submitter string, preselect float64) (*domain.ApproveResult, error) {
	app, err := tui.NewApp(&tui.Ports{
		Streamer: services.Streamer,
		Review:   services.Review,
	}, tui.Batch{
		SessionID:      sessionID,
		Filenames:      filenames,
		Submitter:      submitter,
		PreselectAbove: preselect,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(ctx).Run(); err != nil {
		return nil, fmt.Errorf("TUI error: %w", err)
	}
	return app.Result(), app.Err()
}

// runPlain streams events as text lines and approves by threshold.
func runPlain(cmd *cobra.Command, sessionID, submitter string, approveAbove float64) (*domain.ApproveResult, error) {
	ctx := cmd.Context()
	events, err := services.Streamer.Stream(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var selected []int
	for ev := range events {
		switch ev.Kind {
		case domain.EventProgress:
			cmd.Printf("[%d/%d] %s\n", ev.Index+1, ev.Total, ev.Filename)
		case domain.EventResult:
			c := ev.Classification
			if c == nil {
				continue
			}
			flag := ""
			if c.NeedsReview {
				flag = " (needs review)"
			}
			cmd.Printf("  -> %s %q %.2f%s\n", c.ObjectType, c.ObjectName, c.Confidence, flag)
			if approveAbove > 0 && !c.NeedsReview && c.Confidence >= approveAbove {
				selected = append(selected, ev.Index)
			}
		case domain.EventError:
			cmd.Printf("  !! %s\n", ev.Message)
		case domain.EventDone:
			cmd.Printf("Classified %d of %d, %d failed\n", ev.Classified, ev.Total, ev.Failed)
		}
	}

	if len(selected) == 0 {
		return nil, nil
	}
	return services.Review.Approve(ctx, domain.ApproveRequest{
		SessionID: sessionID,
		Indexes:   selected,
		Submitter: submitter,
	})
}

func printApproveResult(cmd *cobra.Command, filenames []string, result *domain.ApproveResult) {
	if result == nil {
		cmd.Println("Nothing submitted")
		return
	}
	cmd.Printf("Submitted %d, failed %d\n", len(result.Submissions), len(result.Errors))
	for _, s := range result.Submissions {
		cmd.Printf("  %s -> %s\n", nameAt(filenames, s.Index), s.SubmissionID)
	}
	for _, e := range result.Errors {
		cmd.Printf("  %s: %s\n", nameAt(filenames, e.Index), e.Message)
	}
}

func nameAt(filenames []string, i int) string {
	if i >= 0 && i < len(filenames) {
		return filenames[i]
	}
	return fmt.Sprintf("#%d", i)
}

// expandInputs resolves files, directories and globs into a sorted,
// de-duplicated list of regular files.
func expandInputs(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, arg := range args {
		pattern := arg
		if info, err := os.Stat(arg); err == nil {
			if !info.IsDir() {
				add(arg)
				continue
			}
			pattern = filepath.Join(arg, "**", "*")
		} else if !strings.ContainsAny(arg, "*?[{") {
			return nil, fmt.Errorf("reading %s: %w", arg, err)
		}

		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return nil, fmt.Errorf("invalid pattern %q", arg)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", arg, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoInputs, strings.Join(args, " "))
	}
	return out, nil
}

// readUploads loads every path with a MIME type guessed from the extension.
func readUploads(paths []string) ([]domain.UploadedFile, error) {
	files := make([]domain.UploadedFile, 0, len(paths))
	var total uint64
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		total += uint64(len(data))
		files = append(files, domain.UploadedFile{
			Filename: filepath.Base(p),
			MIMEType: mime.TypeByExtension(filepath.Ext(p)),
			Content:  data,
		})
	}
	if len(files) > 0 {
		logger.Debug("read %d files (%s)", len(files), humanize.IBytes(total))
	}
	return files, nil
}
