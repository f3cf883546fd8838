package hcl

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/leowmjw/go-temporal-chartview/pkg/view"
)

// MergeHCLFiles combines multiple HCL files into a single HCL file body,
// the way Terraform loads all .tf files of a directory.
func MergeHCLFiles(filePaths []string) (*hcl.File, error) {
	parser := hclparse.NewParser()
	var mergedContent bytes.Buffer

	for _, path := range filePaths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", path, err)
		}

		mergedContent.Write(content)
		mergedContent.WriteString("\n")
	}

	file, diags := parser.ParseHCL(mergedContent.Bytes(), "merged.hcl")
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse merged HCL content: %s", diags.Error())
	}

	return file, nil
}

// FindHCLFiles lists the HCL files under dirPath in lexical order
func FindHCLFiles(dirPath string) ([]string, error) {
	var hclFiles []string
	err := filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsHCLBasedOnExtension(d.Name()) {
			hclFiles = append(hclFiles, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", dirPath, err)
	}

	if len(hclFiles) == 0 {
		return nil, fmt.Errorf("no HCL files found in directory %s", dirPath)
	}
	sort.Strings(hclFiles)
	return hclFiles, nil
}

// ParseHCLDirectory parses every widget file in a directory as one config
func ParseHCLDirectory(dirPath string) ([]view.Config, error) {
	hclFiles, err := FindHCLFiles(dirPath)
	if err != nil {
		return nil, err
	}

	mergedFile, err := MergeHCLFiles(hclFiles)
	if err != nil {
		return nil, err
	}

	return parseHCLWidgetsFromFile(mergedFile, newFileEvalContext())
}

// LoadWidgets parses path as a directory of widget files or a single file
func LoadWidgets(path string) ([]view.Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return ParseHCLDirectory(path)
	}
	return ParseHCLWidgetFile(path)
}
