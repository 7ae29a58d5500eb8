package main

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validContextPath = filepath.Join("..", "..", "testdata", "valid", "report_context.json")

func TestRenderCommand_RequiresInputOrStudent(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "render")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "must provide either --input or --student-id")
}

func TestRenderCommand_StudentNeedsGrade(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "render", "--student-id", "3")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "--grade-id is required")
}

func TestRenderCommand_RejectsBothSources(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "render", "--input", validContextPath, "--student-id", "3", "--grade-id", "1")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "cannot use --student-id with --input")
}

func TestRenderCommand_WritesPDF(t *testing.T) {
	binaryPath := getBinaryPath(t)
	outDir := t.TempDir()

	cmd := exec.Command(binaryPath, "render", "--input", validContextPath, "--out", outDir, "--formats", "PDF")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, string(output))

	data, err := os.ReadFile(filepath.Join(outDir, "Aliya_Khan_B5A1.pdf"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Contains(t, string(output), "Wrote")
}

func TestRenderCommand_UnknownFormat(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "render", "--input", validContextPath, "--out", t.TempDir(), "--formats", "DOCX")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "DOCX")
}

func TestValidateContextCommand(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "validate-context", "--input", validContextPath)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, string(output))
	assert.Contains(t, string(output), "Validation passed")

	invalid := filepath.Join("..", "..", "testdata", "invalid", "report_context_missing_name.json")
	cmd = exec.Command(binaryPath, "validate-context", "--input", invalid)
	output, err = cmd.CombinedOutput()
	assert.Error(t, err)
	assert.Contains(t, string(output), "Validation failed")
}

func TestValidateContextCommand_MissingInputFlag(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "validate-context")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "required flag(s) \"input\" not set")
}

func TestBatchCommand_RequiresSource(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "batch")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "must provide either --grade-id or --inputs")
}

func TestBatchCommand_FromDirectory(t *testing.T) {
	binaryPath := getBinaryPath(t)

	inputs := t.TempDir()
	source, err := os.ReadFile(validContextPath)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(source, &doc))
	for i, name := range []string{"Aliya Khan", "Bilal Noor"} {
		doc["student_name"] = name
		doc["student_id"] = i + 1
		data, err := json.Marshal(doc)
		require.NoError(t, err)
		file := strings.ReplaceAll(strings.ToLower(name), " ", "_") + ".json"
		require.NoError(t, os.WriteFile(filepath.Join(inputs, file), data, 0644))
	}

	archive := filepath.Join(t.TempDir(), "class.zip")
	cmd := exec.Command(binaryPath, "batch", "--inputs", inputs, "--out", archive, "--formats", "PDF")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, string(output))
	assert.Contains(t, string(output), "Rendered 2 of 2 reports")

	zr, err := zip.OpenReader(archive)
	require.NoError(t, err)
	defer func() { _ = zr.Close() }()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Aliya_Khan_B5A1.pdf", "Bilal_Noor_B5A1.pdf"}, names)
}
