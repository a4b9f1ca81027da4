package factor

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/felixgeelhaar/tascade/internal/recommendation/domain"
)

var (
	backtickFilePattern  = regexp.MustCompile("`([^`]+\\.[a-zA-Z0-9]+)`")
	quotedFilePattern    = regexp.MustCompile(`['"]([^'"]+\.[a-zA-Z0-9]+)['"]`)
	extensionFilePattern = regexp.MustCompile(`\b([a-zA-Z0-9_\-/.]+\.(?:go|py|js|ts|html|css|md|json|yaml|yml|xml|txt|sql|proto))\b`)
	wordPattern          = regexp.MustCompile(`\b[a-zA-Z]+\b`)
)

// ContextMatcher extracts file references and keywords from task text and
// scores their overlap with the user's current working context. The
// matching rules are: filename equality or substring containment for
// files, directory-name overlap for categories, and keyword substring
// containment for commands.
type ContextMatcher struct{}

// NewContextMatcher creates a matcher.
func NewContextMatcher() *ContextMatcher { return &ContextMatcher{} }

// TaskFiles extracts file paths referenced in a task description:
// backtick-quoted names, quoted names, and bare names with common source
// extensions.
func (m *ContextMatcher) TaskFiles(description string) []string {
	var files []string
	for _, pattern := range []*regexp.Regexp{backtickFilePattern, quotedFilePattern, extensionFilePattern} {
		for _, match := range pattern.FindAllStringSubmatch(description, -1) {
			files = append(files, match[1])
		}
	}
	return files
}

// TaskKeywords collects the lowercased keywords of a task: category,
// type, tags, and the words of title and description, de-duplicated.
func (m *ContextMatcher) TaskKeywords(task *domain.TaskRecord) []string {
	seen := map[string]struct{}{}
	var keywords []string

	add := func(kw string) {
		kw = strings.ToLower(kw)
		if kw == "" {
			return
		}
		if _, dup := seen[kw]; dup {
			return
		}
		seen[kw] = struct{}{}
		keywords = append(keywords, kw)
	}

	add(task.Category)
	add(task.Type)
	for _, tag := range task.Tags {
		add(tag)
	}
	for _, word := range wordPattern.FindAllString(strings.ToLower(task.Title), -1) {
		add(word)
	}
	for _, word := range wordPattern.FindAllString(strings.ToLower(task.Description), -1) {
		add(word)
	}

	return keywords
}

// FileScore scores the overlap between task-referenced files and the
// files currently open: an exact filename match or substring containment
// scores 1.0, a shared directory 0.7, nothing 0.
func (m *ContextMatcher) FileScore(taskFiles, currentFiles []string) float64 {
	if len(currentFiles) == 0 || len(taskFiles) == 0 {
		return 0
	}

	score := 0.0
	for _, taskFile := range taskFiles {
		for _, currentFile := range currentFiles {
			name := filepath.Base(currentFile)
			if taskFile == name || strings.Contains(currentFile, taskFile) {
				score = 1.0
				break
			}
		}
		if score == 1.0 {
			break
		}
	}

	if score < 0.5 {
		for _, taskFile := range taskFiles {
			taskDir := filepath.Dir(taskFile)
			if taskDir == "." || taskDir == "" {
				continue
			}
			for _, currentFile := range currentFiles {
				currentDir := filepath.Dir(currentFile)
				if strings.Contains(currentDir, taskDir) || strings.Contains(taskDir, currentDir) {
					if score < 0.7 {
						score = 0.7
					}
					break
				}
			}
		}
	}

	return score
}

// DirectoryScore scores the overlap between a task category and the
// current working directory name, checking the parent directory for
// weaker matches.
func (m *ContextMatcher) DirectoryScore(category, currentDirectory string) float64 {
	if currentDirectory == "" || category == "" {
		return 0
	}

	category = strings.ToLower(category)
	dirName := strings.ToLower(filepath.Base(currentDirectory))

	switch {
	case category == dirName:
		return 1.0
	case strings.Contains(dirName, category) || strings.Contains(category, dirName):
		return 0.8
	}

	parent := strings.ToLower(filepath.Base(filepath.Dir(currentDirectory)))
	switch {
	case category == parent:
		return 0.7
	case strings.Contains(parent, category) || strings.Contains(category, parent):
		return 0.5
	}

	return 0
}

// CommandScore scores keyword overlap with recently executed commands:
// any containment scores 0.6, containment of a longer keyword 0.8, an
// exact command match 1.0.
func (m *ContextMatcher) CommandScore(keywords, recentCommands []string) float64 {
	if len(recentCommands) == 0 || len(keywords) == 0 {
		return 0
	}

	score := 0.0
	for _, command := range recentCommands {
		command = strings.ToLower(command)
		for _, keyword := range keywords {
			if !strings.Contains(command, keyword) {
				continue
			}
			if score < 0.6 {
				score = 0.6
			}
			if len(keyword) > 5 && score < 0.8 {
				score = 0.8
			}
			if keyword == command {
				score = 1.0
			}
		}
	}

	return score
}
