package tools

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type FileFinder interface {
	GetCsvFilesToImport(input string, folderProcessing bool, recursive bool) ([]string, error)
}

type StandardFileFinder struct{}

func NewStandardFileFinder() FileFinder {
	return &StandardFileFinder{}
}

func (f *StandardFileFinder) GetCsvFilesToImport(input string, folderProcessing bool, recursive bool) ([]string, error) {
	// If folder processing is not enabled then the csv file is given by -input flag, otherwise look for csv in -input folder
	// eventually excluding nested folders if recursive is disabled
	if !folderProcessing {
		return []string{input}, nil
	}

	return f.getCsvFilesFromInputFolder(input, recursive)
}

func (f *StandardFileFinder) getCsvFilesFromInputFolder(input string, recursive bool) ([]string, error) {
	var csvFiles = make([]string, 0)

	baseInfo, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	err = filepath.Walk(
		input,
		func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() && !recursive && !os.SameFile(info, baseInfo) {
				return filepath.SkipDir
			} else if !info.IsDir() && strings.ToLower(filepath.Ext(info.Name())) == ".csv" {
				csvFiles = append(csvFiles, path)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	sort.Strings(csvFiles)
	return csvFiles, nil
}
