package localdump

import (
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	mdplugin "github.com/JohannesKaufmann/html-to-markdown/plugin"
	"gopkg.in/yaml.v3"
)

var blankLinesRe = regexp.MustCompile(`\n{3,}`)

// FrontMatter is the YAML header prepended to every exported document.
// Field order here is the order in the output file.
type FrontMatter struct {
	Title    string `yaml:"title"`
	ThreadID string `yaml:"thread_id"`
	QuipURL  string `yaml:"quip_url"`

	// UpdatedUsec is nil (serialised as null) for threads without a
	// version token.
	UpdatedUsec *int64 `yaml:"updated_usec"`

	// ExportedAt is epoch seconds of this export run.
	ExportedAt int64 `yaml:"exported_at"`

	// AssetsDir is the thread's asset directory, relative to this file.
	AssetsDir string `yaml:"assets_dir"`

	FolderPath string `yaml:"folder_path,omitempty"`
}

// HTMLToMarkdown converts a thread's HTML body to GitHub-flavoured Markdown.
func HTMLToMarkdown(rawHTML string) (string, error) {
	converter := md.NewConverter("", true, nil)
	// Github flavoured Markdown knows about tables 👍
	converter.Use(mdplugin.GitHubFlavored())

	markdown, err := converter.ConvertString(rawHTML)
	if err != nil {
		return "", fmt.Errorf("localdump: failed to convert to Markdown: %w", err)
	}

	// collapse runs of blank lines that the converter tends to leave behind
	markdown = blankLinesRe.ReplaceAllString(markdown, "\n\n")
	return strings.TrimRight(markdown, "\n") + "\n", nil
}

func renderDocument(header FrontMatter, body string) (string, error) {
	yamlHeader, err := yaml.Marshal(header)
	if err != nil {
		return "", fmt.Errorf("localdump: couldn't marshal header YAML: %w", err)
	}

	return fmt.Sprintf(`---
%s
---

%s`,
		strings.TrimSpace(string(yamlHeader)),
		body), nil
}
