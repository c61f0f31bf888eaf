//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// CreateTestWorkspace creates a temporary directory to search
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	tmpDir := tf.t.TempDir()
	tf.workspace = tmpDir
	return tmpDir, nil
}

// WriteFiles writes files (relative path -> contents) into the workspace
func (tf *TUITestFramework) WriteFiles(files map[string]string) error {
	if tf.workspace == "" {
		return fmt.Errorf("workspace not created")
	}
	for rel, content := range files {
		path := filepath.Join(tf.workspace, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

// ReadFile returns the contents of a workspace file
func (tf *TUITestFramework) ReadFile(rel string) (string, error) {
	data, err := os.ReadFile(filepath.Join(tf.workspace, filepath.FromSlash(rel)))
	return string(data), err
}
