package ui

import (
	"github.com/charmbracelet/huh"
)

// SelectFiles asks which of files to act on. Every file starts selected.
func SelectFiles(title string, files []string) ([]string, error) {
	var selectedFiles []string
	var options []huh.Option[string]

	for _, file := range files {
		options = append(options, huh.NewOption(file, file).Selected(true))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title(title).
				Options(options...).
				Value(&selectedFiles),
		),
	)

	err := form.Run()
	if err != nil {
		return nil, err
	}

	return selectedFiles, nil
}
