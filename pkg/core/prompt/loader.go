package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"text/template"

	"grant_finder/pkg/core/utils"
)

//go:embed defaults
var defaultPrompts embed.FS

// LoadDefaults registers the prompts compiled into the binary.
func LoadDefaults(r *Registry) error {
	return loadPrompts(r, defaultPrompts, "defaults")
}

// LoadFromDirectory loads override prompts from a directory structure.
// Expected structure:
//
//	baseDir/
//	  category1/
//	    prompt1.json
//	  category2/
//	    prompt2.json
//
// A prompt with the same ID as a built-in one replaces it. Files may use
// comments and trailing commas.
func LoadFromDirectory(r *Registry, baseDir string) (int, error) {
	if _, err := os.Stat(baseDir); os.IsNotExist(err) {
		return 0, fmt.Errorf("prompts directory not found: %s", baseDir)
	}
	before := r.Count()
	if err := loadPrompts(r, os.DirFS(baseDir), "."); err != nil {
		return 0, fmt.Errorf("failed to load prompts: %w", err)
	}
	return r.Count() - before, nil
}

// loadPrompts recursively loads all .json files under root
func loadPrompts(r *Registry, fsys fs.FS, root string) error {
	return fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip directories and non-JSON files
		if d.IsDir() || path.Ext(p) != ".json" {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}

		var pt PromptTemplate
		if err := utils.DecodeLenient(data, &pt); err != nil {
			return fmt.Errorf("failed to parse %s: %w", p, err)
		}

		rel := p
		if root != "." {
			rel = strings.TrimPrefix(p, root+"/")
		}

		// Auto-generate ID from path if not specified
		if pt.ID == "" {
			pt.ID = generateIDFromPath(rel)
		}

		// Auto-detect category from folder name if not specified
		if pt.Category == "" {
			pt.Category = detectCategory(rel)
		}

		if err := r.Register(&pt); err != nil {
			return fmt.Errorf("failed to register %s: %w", pt.ID, err)
		}

		return nil
	})
}

// generateIDFromPath creates a prompt ID from the relative file path
// e.g., "research/grants.json" -> "research.grants"
func generateIDFromPath(rel string) string {
	rel = strings.TrimSuffix(rel, ".json")
	return strings.ReplaceAll(rel, "/", ".")
}

// detectCategory extracts the category from the folder structure
func detectCategory(rel string) string {
	parts := strings.Split(rel, "/")
	if len(parts) > 1 {
		return parts[0]
	}
	return "default"
}

// RenderSystemPrompt executes the system prompt template with the given context
func RenderSystemPrompt(pt *PromptTemplate, ctx *PromptExecutionContext) (string, error) {
	return render(pt.ID+".system", pt.SystemPrompt, ctx)
}

// RenderUserPrompt executes the user prompt template with the given context
func RenderUserPrompt(pt *PromptTemplate, ctx *PromptExecutionContext) (string, error) {
	return render(pt.ID+".user", pt.UserPromptTmpl, ctx)
}

func render(name, text string, ctx *PromptExecutionContext) (string, error) {
	if text == "" {
		return "", nil
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx.Variables); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
