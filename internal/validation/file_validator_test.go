package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInputFile(t *testing.T) {
	validator := NewFileValidator(nil)
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "transactions.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("InvoiceNo\n"), 0644))

	dirAsFile := filepath.Join(dir, "not-a-file.csv")
	require.NoError(t, os.Mkdir(dirAsFile, 0755))

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"readable csv", csvPath, ""},
		{"unsupported extension", filepath.Join(dir, "transactions.txt"), "unsupported input format"},
		{"missing file", filepath.Join(dir, "absent.xlsx"), "does not exist"},
		{"directory instead of file", dirAsFile, "is a directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateInputFile(tt.path)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateOutputDirectory(t *testing.T) {
	validator := NewFileValidator(nil)

	t.Run("creates missing directories", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "reports", "nested")
		require.NoError(t, validator.ValidateOutputDirectory(dir))

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("leaves no write-test file behind", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, validator.ValidateOutputDirectory(dir))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
