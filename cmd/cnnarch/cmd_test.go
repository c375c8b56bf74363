package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TrellixVulnTeam/DL-PJIE/internal/config"
)

const cnnYAML = `
kind: cnn
seed: 7
model:
  in_size: [3, 16, 16]
  out_classes: 4
  channels: [8, 8]
  pool_every: 2
  hidden_dims: [12]
  conv_params: {kernel_size: 3, padding: 1}
  pooling_params: {kernel_size: 2}
`

const blockYAML = `
kind: bottleneck_block
input: [16, 8, 8]
model:
  in_out_channels: 16
  inner_channels: [4]
  inner_kernel_sizes: [3]
`

func writeModel(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewCLI()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSummaryCmd(t *testing.T) {
	path := writeModel(t, cnnYAML)
	out, err := run(t, "summary", "--file", path)
	require.NoError(t, err)

	assert.Contains(t, out, "ConvClassifier")
	assert.Contains(t, out, "feature_extractor.0")
	assert.Contains(t, out, "[1, 8, 8, 8]")
	assert.Contains(t, out, "features: 512  pools: 1")
}

func TestSummaryCmd_Depth(t *testing.T) {
	path := writeModel(t, cnnYAML)
	out, err := run(t, "summary", "-f", path, "--depth", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "feature_extractor")
	assert.NotContains(t, out, "feature_extractor.0")
}

func TestForwardCmd(t *testing.T) {
	path := writeModel(t, cnnYAML)
	out, err := run(t, "forward", "--file", path, "--batch", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "input:  [3, 3, 16, 16]")
	assert.Contains(t, out, "output: [3, 4]")
	assert.Contains(t, out, "scores[0]:")
}

func TestForwardCmd_Block(t *testing.T) {
	path := writeModel(t, blockYAML)
	out, err := run(t, "forward", "--file", path, "--batch", "2", "--train")
	require.NoError(t, err)
	assert.Contains(t, out, "output: [2, 16, 8, 8]")
	assert.NotContains(t, out, "scores[0]")
}

func TestValidateCmd(t *testing.T) {
	t.Setenv(config.EnvFile, writeModel(t, cnnYAML))
	out, err := run(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "ok: ConvClassifier, output [1, 4]")
}

func TestValidateCmd_Errors(t *testing.T) {
	t.Setenv(config.EnvFile, "")
	_, err := run(t, "validate")
	assert.ErrorIs(t, err, config.ErrNoFile)

	bad := writeModel(t, "kind: cnn\nmodel:\n  in_size: [3, 4, 4]\n  out_classes: 2\n  channels: [4]\n  pool_every: 1\n  hidden_dims: [4]\n  conv_params: {kernel_size: 7}\n  pooling_params: {kernel_size: 2}\n")
	_, err = run(t, "validate", "--file", bad)
	assert.ErrorContains(t, err, "conv[0]")

	noInput := writeModel(t, "kind: residual_block\nmodel:\n  in_channels: 3\n  channels: [4]\n  kernel_sizes: [3]\n")
	_, err = run(t, "validate", "--file", noInput)
	assert.ErrorIs(t, err, errNoInput)
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "cnnarch "+version+"\n", out)
}
