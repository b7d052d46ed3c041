// Command analyze scores a resume file from the command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"resume-optimizer/internal/analysis"
	"resume-optimizer/internal/extract"
	"resume-optimizer/internal/llm"
	"resume-optimizer/internal/llm/gemini"
	"resume-optimizer/internal/llm/openai"
	"resume-optimizer/internal/shared/config"
)

var (
	industry string
	offline  bool
	seed     uint64
	showText bool
)

var rootCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a resume file and print the result as JSON",
	Long:  "Analyze a PDF, DOCX or plain-text resume against an industry keyword set. Without a configured model, or with --offline, the heuristic scorer is used.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	rootCmd.Flags().StringVarP(&industry, "industry", "i", "technology", "Industry keyword set")
	rootCmd.Flags().BoolVar(&offline, "offline", false, "Skip the model and use the heuristic scorer")
	rootCmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for reproducible heuristic output")
	rootCmd.Flags().BoolVar(&showText, "text", false, "Include the extracted text in the output")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	ctx := cmd.Context()
	cfg := config.Load()

	client := llm.Client(llm.PlaceholderClient{})
	if !offline {
		if client, err = modelClient(ctx, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v; using heuristic scorer\n", err)
			client = llm.PlaceholderClient{}
		}
	}

	opts := []analysis.Option{
		analysis.WithExtractor(extract.New()),
		analysis.WithTimeout(cfg.AnalysisTimeout),
	}
	if seed > 0 {
		opts = append(opts, analysis.WithRand(analysis.NewSeededRand(seed)))
	}
	analyzer := analysis.NewAnalyzer(client, opts...)

	name := filepath.Base(path)
	doc := analysis.Document{Text: string(data), FileName: name}
	switch mimeType := extract.Sniff(data, "", name); mimeType {
	case extract.MimePDF, extract.MimeDOC, extract.MimeDOCX:
		doc = analysis.Document{Data: data, MimeType: mimeType, FileName: name}
	}

	result, text := analyzer.AnalyzeWithText(ctx, doc, industry)

	out := struct {
		File     string `json:"file"`
		Industry string `json:"industry"`
		Text     string `json:"text,omitempty"`
		analysis.Result
	}{File: name, Industry: industry, Result: result}
	if showText {
		out.Text = text
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func modelClient(ctx context.Context, cfg config.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "none":
		return llm.PlaceholderClient{}, nil
	case "gemini":
		return gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
	default:
		var opts []openai.Option
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.OpenAIBaseURL))
		}
		return openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, opts...)
	}
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
