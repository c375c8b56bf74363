package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/TrellixVulnTeam/DL-PJIE/backend/cpu"
	"github.com/TrellixVulnTeam/DL-PJIE/nn"
	"github.com/TrellixVulnTeam/DL-PJIE/tensor"
)

func NewForwardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forward",
		Short: "Run a random batch through the model",
		Args:  cobra.NoArgs,
		RunE:  forwardHandler,
	}
	cmd.Flags().IntP("batch", "b", 1, "Batch size")
	cmd.Flags().Bool("train", false, "Run in training mode (batch statistics, dropout)")

	return cmd
}

func forwardHandler(cmd *cobra.Command, args []string) error {
	l, err := loadModel(cmd)
	if err != nil {
		return err
	}
	batch, _ := cmd.Flags().GetInt("batch")
	if batch < 1 {
		return fmt.Errorf("batch must be at least 1, got %d", batch)
	}
	train, _ := cmd.Flags().GetBool("train")

	shape := batchShape(batch, l.input)
	if _, err := l.model.OutputShape(shape); err != nil {
		return err
	}

	seed := l.file.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	x := tensor.Randn(shape, rand.New(rand.NewSource(seed)), l.back) //nolint:gosec // G404: synthetic input

	nn.SetTraining[*cpu.Backend](l.model, train)
	start := time.Now()
	y := l.model.Forward(x)
	slog.Debug("forward pass", "input", shape, "output", y.Shape(), "train", train, "elapsed", time.Since(start))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "input:  %v\noutput: %v\n", shape, y.Shape())
	if s := y.Shape(); len(s) == 2 {
		fmt.Fprintf(out, "scores[0]: %v\n", y.Data()[:s[1]])
	}
	return nil
}
