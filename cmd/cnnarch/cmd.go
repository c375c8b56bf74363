package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/TrellixVulnTeam/DL-PJIE/backend/cpu"
	"github.com/TrellixVulnTeam/DL-PJIE/internal/config"
	"github.com/TrellixVulnTeam/DL-PJIE/models"
	"github.com/TrellixVulnTeam/DL-PJIE/nn"
	"github.com/TrellixVulnTeam/DL-PJIE/tensor"
)

const version = "v0.1.0"

var errNoInput = errors.New("input shape unknown: set `input: [C, H, W]` in the model file")

// NewCLI returns the root command.
func NewCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cnnarch",
		Short: "Build and inspect convolutional classifiers",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Disable usage printing on errors
			cmd.SilenceUsage = true

			level := slog.LevelInfo
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().StringP("file", "f", "", "Model file (defaults to $"+config.EnvFile+")")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log every assembled stage")

	cobra.EnableCommandSorting = false

	rootCmd.AddCommand(
		NewSummaryCmd(),
		NewForwardCmd(),
		NewValidateCmd(),
		NewVersionCmd(),
	)

	return rootCmd
}

// loaded is a model built from a model file.
type loaded struct {
	file  *config.File
	model nn.Module[*cpu.Backend]
	input tensor.Shape // (C, H, W)
	back  *cpu.Backend
}

func loadModel(cmd *cobra.Command) (*loaded, error) {
	flag, _ := cmd.Flags().GetString("file")
	path, err := config.Resolve(flag)
	if err != nil {
		return nil, err
	}

	f, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if f.Seed != 0 {
		nn.Seed(f.Seed)
	}

	backend := cpu.New()
	model, err := models.Build(models.Kind(f.Kind), f.Model, backend)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Debug("model built", "file", path, "kind", f.Kind, "layer", models.LayerName(model))

	input, err := inputShape(f, model)
	if err != nil {
		return nil, err
	}
	return &loaded{file: f, model: model, input: input, back: backend}, nil
}

// inputShape prefers the file's explicit input and falls back to a
// classifier's configured in_size.
func inputShape(f *config.File, model nn.Module[*cpu.Backend]) (tensor.Shape, error) {
	if f.Input != nil {
		return tensor.Shape(f.Input), nil
	}
	if c, ok := model.(*models.ConvClassifier[*cpu.Backend]); ok {
		return c.InSize(), nil
	}
	return nil, errNoInput
}

func batchShape(batch int, input tensor.Shape) tensor.Shape {
	return append(tensor.Shape{batch}, input...)
}

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cnnarch %s\n", version)
		},
	}
}

func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Build the model and check its geometry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loadModel(cmd)
			if err != nil {
				return err
			}
			out, err := l.model.OutputShape(batchShape(1, l.input))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %s, output %v, %d parameters\n",
				models.LayerName(l.model), out, nn.CountParameters(l.model.Parameters()))
			return nil
		},
	}
}
