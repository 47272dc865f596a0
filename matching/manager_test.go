package matching

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/sovereign/matching/option"
)

func TestManager_IsExcluded(t *testing.T) {
	var testCases = []struct {
		description string
		path        string
		size        int
		options     []option.Option
		excluded    bool
	}{
		{description: "defaults allow pdf", path: "policy.pdf", size: 1, excluded: false},
		{description: "defaults skip office lock file", path: "~$report.docx", size: 1, excluded: true},
		{description: "defaults skip DS_Store", path: "nested/.DS_Store", size: 1, excluded: true},
		{
			description: "include pdf only",
			path:        "notes.txt",
			size:        1,
			options:     []option.Option{option.WithInclusionPatterns("*.pdf")},
			excluded:    true,
		},
		{
			description: "include pdf matches nested",
			path:        "s3://bucket/hr/handbook.pdf",
			size:        1,
			options:     []option.Option{option.WithInclusionPatterns("*.pdf")},
			excluded:    false,
		},
		{
			description: "max size excludes",
			path:        "big.pdf",
			size:        101,
			options:     []option.Option{option.WithMaxIndexableSize(100)},
			excluded:    true,
		},
		{
			description: "max size allows smaller",
			path:        "small.pdf",
			size:        99,
			options:     []option.Option{option.WithMaxIndexableSize(100)},
			excluded:    false,
		},
		{
			description: "directory pattern does not match substring",
			path:        "archived/file.txt",
			size:        1,
			options:     []option.Option{option.WithExclusionPatterns("archive/")},
			excluded:    false,
		},
		{
			description: "windows path",
			path:        `C:\docs\draft\plan.tmp`,
			size:        1,
			excluded:    true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			m := New(testCase.options...)
			assert.Equal(t, testCase.excluded, m.IsExcluded(testCase.path, testCase.size))
		})
	}
}

func TestManager_IsExcluded_WithGitignore(t *testing.T) {
	ignore := strings.NewReader(`
# drafts are never ingested
*.log
drafts/
!keep.log
/private
docs/*.md
**/cache/**
`)
	m := New(option.WithGitignore(ignore))

	var testCases = []struct {
		path     string
		excluded bool
	}{
		{path: "app/debug.log", excluded: true},
		{path: "app/keep.log", excluded: false},
		{path: "drafts/plan.docx", excluded: true},
		{path: "hr/drafts/plan.docx", excluded: true},
		{path: "hr/policy.docx", excluded: false},
		{path: "private/salaries.xlsx", excluded: true},
		{path: "hr/private/salaries.xlsx", excluded: false},
		{path: "docs/readme.md", excluded: true},
		{path: "hr/docs/readme.md", excluded: false},
		{path: "hr/cache/file.txt", excluded: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.path, func(t *testing.T) {
			assert.Equal(t, testCase.excluded, m.IsExcluded(testCase.path, 1))
		})
	}
}
