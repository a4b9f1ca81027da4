package factor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/tascade/internal/recommendation/domain"
)

func TestContextMatcher_TaskFiles(t *testing.T) {
	m := NewContextMatcher()

	t.Run("extracts backtick-quoted names", func(t *testing.T) {
		files := m.TaskFiles("Fix the parser in `parser.go` before release")
		assert.Contains(t, files, "parser.go")
	})

	t.Run("extracts quoted names", func(t *testing.T) {
		files := m.TaskFiles(`Update "config.yaml" and 'main.py'`)
		assert.Contains(t, files, "config.yaml")
		assert.Contains(t, files, "main.py")
	})

	t.Run("extracts bare names with known extensions", func(t *testing.T) {
		files := m.TaskFiles("Regenerate api.proto and docs/README.md")
		assert.Contains(t, files, "api.proto")
		assert.Contains(t, files, "docs/README.md")
	})

	t.Run("empty description yields nothing", func(t *testing.T) {
		assert.Empty(t, m.TaskFiles(""))
	})
}

func TestContextMatcher_TaskKeywords(t *testing.T) {
	m := NewContextMatcher()

	task := &domain.TaskRecord{
		ID:          "t1",
		Title:       "Fix login flow",
		Description: "The login page hangs",
		Category:    "auth",
		Type:        "bug",
		Tags:        []string{"Frontend"},
	}

	keywords := m.TaskKeywords(task)
	assert.Contains(t, keywords, "auth")
	assert.Contains(t, keywords, "bug")
	assert.Contains(t, keywords, "frontend")
	assert.Contains(t, keywords, "login")
	assert.Contains(t, keywords, "hangs")

	// "login" appears in both title and description but only once here.
	count := 0
	for _, kw := range keywords {
		if kw == "login" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestContextMatcher_FileScore(t *testing.T) {
	m := NewContextMatcher()

	t.Run("empty inputs score zero", func(t *testing.T) {
		assert.Zero(t, m.FileScore(nil, []string{"a.go"}))
		assert.Zero(t, m.FileScore([]string{"a.go"}, nil))
	})

	t.Run("basename match scores full", func(t *testing.T) {
		score := m.FileScore([]string{"auth.go"}, []string{"/repo/internal/auth/auth.go"})
		assert.Equal(t, 1.0, score)
	})

	t.Run("path containment scores full", func(t *testing.T) {
		score := m.FileScore([]string{"auth/auth.go"}, []string{"/repo/internal/auth/auth.go"})
		assert.Equal(t, 1.0, score)
	})

	t.Run("shared directory scores partial", func(t *testing.T) {
		score := m.FileScore([]string{"internal/auth/token.go"}, []string{"/repo/internal/auth/session.go"})
		assert.Equal(t, 0.7, score)
	})

	t.Run("unrelated files score zero", func(t *testing.T) {
		score := m.FileScore([]string{"billing.py"}, []string{"/repo/web/app.js"})
		assert.Zero(t, score)
	})
}

func TestContextMatcher_DirectoryScore(t *testing.T) {
	m := NewContextMatcher()

	tests := []struct {
		name      string
		category  string
		directory string
		want      float64
	}{
		{"empty inputs", "", "/repo/auth", 0},
		{"exact directory name", "auth", "/repo/auth", 1.0},
		{"substring of directory name", "auth", "/repo/auth-service", 0.8},
		{"exact parent name", "services", "/repo/services/auth", 0.7},
		{"substring of parent name", "service", "/repo/services/auth", 0.5},
		{"unrelated", "billing", "/repo/web/frontend", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.DirectoryScore(tt.category, tt.directory))
		})
	}
}

func TestContextMatcher_CommandScore(t *testing.T) {
	m := NewContextMatcher()

	t.Run("empty inputs score zero", func(t *testing.T) {
		assert.Zero(t, m.CommandScore(nil, []string{"go test"}))
		assert.Zero(t, m.CommandScore([]string{"test"}, nil))
	})

	t.Run("short keyword containment scores low", func(t *testing.T) {
		assert.Equal(t, 0.6, m.CommandScore([]string{"test"}, []string{"go test ./..."}))
	})

	t.Run("long keyword containment scores higher", func(t *testing.T) {
		assert.Equal(t, 0.8, m.CommandScore([]string{"migrate"}, []string{"dbmate migrate up"}))
	})

	t.Run("exact command match scores full", func(t *testing.T) {
		assert.Equal(t, 1.0, m.CommandScore([]string{"make"}, []string{"make"}))
	})

	t.Run("no overlap scores zero", func(t *testing.T) {
		assert.Zero(t, m.CommandScore([]string{"billing"}, []string{"ls -la"}))
	})
}
