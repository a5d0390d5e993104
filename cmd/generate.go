package cmd

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"os"
	"strings"

	"github.com/spigell/resume-tuner/internal/ai"
	"github.com/spigell/resume-tuner/internal/ai/gemini"
	"github.com/spigell/resume-tuner/internal/jobdesc"
	"github.com/spigell/resume-tuner/internal/keywords"
	"github.com/spigell/resume-tuner/internal/logger"
	"github.com/spigell/resume-tuner/internal/optimizer"
	"github.com/spigell/resume-tuner/internal/render"
	"github.com/spigell/resume-tuner/internal/resume"
	"github.com/spigell/resume-tuner/internal/scoring"
	"github.com/spigell/resume-tuner/internal/secrets"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	defaultPortfolio = "portfolio.yaml"
	geminiKeyEnv     = "GEMINI_API_KEY"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Rewrite the portfolio for a role, render it and grade the result",
	Run: func(cmd *cobra.Command, _ []string) {
		generate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("portfolio", "p", defaultPortfolio, "portfolio YAML file")
	generateCmd.Flags().StringP("role", "r", "", "target job role, e.g. \"Senior Data Engineer\"")
	generateCmd.Flags().StringP("company", "c", "", "target company type (default FAANG)")
	generateCmd.Flags().StringP("job-description", "J", "", "job description as a URL, an HTML file or a text file")
	generateCmd.Flags().StringP("template", "t", "", "LaTeX template name (see the templates command)")
	generateCmd.Flags().StringP("output", "o", "", "output .tex file (default resume-<template>.tex)")
	generateCmd.Flags().Bool("dry-run", false, "do not call the generator: fallback keywords, original text")
	generateCmd.Flags().BoolP("yes", "y", false, "do not prompt for missing role or template")

	for _, name := range []string{"portfolio", "role", "company", "job-description", "template", "output"} {
		viper.BindPFlag(name, generateCmd.Flags().Lookup(name))
	}
}

func generate(cmd *cobra.Command) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		stdlog.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		config = &Config{}
	}

	interactive := !flagIsSet(cmd, "yes")
	dryRun := flagIsSet(cmd, "dry-run")

	role := strings.TrimSpace(config.Role)
	if role == "" && interactive {
		if role, err = promptRole(); err != nil {
			log.Fatal("reading role", zap.Error(err))
		}
	}
	if role == "" {
		log.Fatal("target role is required", zap.String("hint", "pass --role or set 'role' in the configuration file"))
	}

	registry := render.NewRegistry()
	templateName := strings.TrimSpace(config.Template)
	if templateName == "" && interactive {
		if templateName, err = promptTemplate(registry.List()); err != nil {
			log.Fatal("choosing template", zap.Error(err))
		}
	}

	tmpl, found, err := registry.Get(templateName)
	if err != nil {
		log.Fatal("loading template", zap.Error(err))
	}
	if !found && templateName != "" {
		log.Warn("unknown template, using default",
			zap.String("requested", templateName),
			zap.String("default", tmpl.Name()),
			zap.Strings("available", registry.Names()),
		)
	}

	log = logger.WithRun(log, uuid.NewString(), tmpl.Name())
	log.Info("starting the resume-tuner",
		zap.String("version", buildVersion()),
		zap.String("role", role),
		zap.Bool("dry_run", dryRun),
	)

	data, err := resume.LoadFile(config.Portfolio)
	if err != nil {
		log.Fatal("loading portfolio", zap.Error(err), zap.String("path", config.Portfolio))
	}

	description, err := jobdesc.New(log).Load(ctx, config.JobDescription)
	if err != nil {
		log.Fatal("loading job description", zap.Error(err))
	}
	if description != "" {
		log.Info("job description loaded", zap.Int("length", len(description)))
	}

	var generator ai.Generator
	if !dryRun {
		generator, err = newGenerator(ctx, config.AI, log)
		if err != nil {
			log.Warn("generator unavailable, keeping original text and fallback keywords", zap.Error(err))
		}
	}

	profile := keywords.NewBuilder(generator, log).GenerateKeywords(ctx, keywords.Request{
		Role:           role,
		JobDescription: description,
		Experience:     data.UserExperience(),
		TargetCompany:  config.Company,
	})

	tuned := data
	if generator != nil {
		var stats optimizer.Stats
		tuned, stats = optimizer.NewEngine(generator, log).OptimizeResume(ctx, data, profile)
		logStats(log, stats)
	}

	doc, err := render.Document(tmpl, tuned)
	if err != nil {
		log.Fatal("rendering document", zap.Error(err))
	}
	if err := render.Validate(doc); err != nil {
		log.Warn("document structure check failed", zap.Error(err))
	}

	output := strings.TrimSpace(config.Output)
	if output == "" {
		output = fmt.Sprintf("resume-%s.tex", tmpl.Name())
	}
	if err := os.WriteFile(output, []byte(doc), 0o644); err != nil {
		log.Fatal("writing document", zap.Error(err), zap.String("path", output))
	}

	report := scoring.NewAnalyzer(log).AnalyzeComprehensive(doc)
	logReport(log, report)

	log.Info("document written", zap.String("path", output))
}

func flagIsSet(cmd *cobra.Command, name string) bool {
	flag := cmd.Flag(name)
	return flag != nil && strings.EqualFold(flag.Value.String(), "true")
}

func promptRole() (string, error) {
	prompt := promptui.Prompt{
		Label: "Target role",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("role must not be empty")
			}
			return nil
		},
	}
	role, err := prompt.Run()
	return strings.TrimSpace(role), err
}

func promptTemplate(templates []render.Info) (string, error) {
	prompt := promptui.Select{
		Label: "Choose a template",
		Items: templates,
		Templates: &promptui.SelectTemplates{
			Active:   "▸ {{ .Name | cyan }} {{ .Description | faint }}",
			Inactive: "  {{ .Name }} {{ .Description | faint }}",
			Selected: "template: {{ .Name }}",
		},
	}
	idx, _, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return templates[idx].Name, nil
}

func newGenerator(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Generator, error) {
	if cfg == nil {
		cfg = &AIConfig{}
	}
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	gcfg := cfg.Gemini
	if gcfg == nil {
		gcfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: gcfg.APIKey,
		File:  gcfg.APIKeyFile,
		Env:   geminiKeyEnv,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or %s)", err, geminiKeyEnv)
	}

	generator, err := gemini.NewGenerator(ctx, gemini.Config{
		APIKey:      apiKey,
		Model:       gcfg.Model,
		MaxRetries:  gcfg.MaxRetries,
		Temperature: gcfg.Temperature,
	}, log)
	if err != nil {
		return nil, err
	}
	return generator, nil
}

func logStats(log *zap.Logger, stats optimizer.Stats) {
	top := make([]string, 0, len(stats.TopVerbs))
	for _, v := range stats.TopVerbs {
		top = append(top, fmt.Sprintf("%s=%d", v.Verb, v.Count))
	}

	log.Info("rewrite summary",
		zap.Int("sections_optimized", stats.SectionsOptimized),
		zap.Int("bullets_optimized", stats.BulletsOptimized),
		zap.Int("keywords_added", stats.KeywordsAdded),
		zap.Int("repetitions_fixed", stats.RepetitionsFixed),
		zap.Int("metrics_added", stats.MetricsAdded),
		zap.Int("verbs_varied", stats.VerbsVaried),
		zap.Int("rejected", stats.Rejected),
		zap.Int("no_response", stats.NoResponse),
		zap.Float64("metric_coverage", stats.Coverage),
		zap.Strings("top_verbs", top),
	)
}

func logReport(log *zap.Logger, report scoring.Report) {
	s := report.Score
	log.Info("document score",
		zap.Float64("overall", s.Overall),
		zap.String("grade", s.Grade),
		zap.Float64("content", s.Content),
		zap.Float64("format", s.Format),
		zap.Float64("keywords", s.Keywords),
		zap.Float64("technical", s.Technical),
	)

	for _, failed := range report.Compliance.Failed {
		log.Warn("compliance check failed", zap.String("check", failed))
	}
	for _, warning := range report.Compliance.Warnings {
		log.Warn("compliance warning", zap.String("warning", warning))
	}
	for i, rec := range report.Recommendations {
		log.Info("recommendation", zap.Int("n", i+1), zap.String("text", rec))
	}
}
