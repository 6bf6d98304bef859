package git

import (
	"bufio"
	"strings"
)

// Porcelain XY pairs git uses for unmerged paths.
var unmergedCodes = map[string]bool{
	"DD": true,
	"AU": true,
	"UD": true,
	"UA": true,
	"DU": true,
	"AA": true,
	"UU": true,
}

func (repo *GitRepo) AddFiles(files []string) error {
	if len(files) == 0 {
		return nil
	}

	args := append([]string{"add", "--"}, files...)
	_, err := repo.run("add files", args...)
	return err
}

// GetConflictedFiles lists paths git reports as unmerged, relative to the
// repository root.
func (repo *GitRepo) GetConflictedFiles() ([]string, error) {
	output, err := repo.run("get status", "status", "--porcelain=v1")
	if err != nil {
		return nil, err
	}
	return parseUnmerged(output), nil
}

func parseUnmerged(output string) []string {
	var files []string
	scanner := bufio.NewScanner(strings.NewReader(output))

	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 4 || !unmergedCodes[line[:2]] {
			continue
		}

		filePath := strings.TrimSpace(line[3:])

		// Git quotes filenames with special characters - remove the quotes
		if strings.HasPrefix(filePath, "\"") && strings.HasSuffix(filePath, "\"") {
			filePath = filePath[1 : len(filePath)-1]
		}

		files = append(files, filePath)
	}

	return files
}
