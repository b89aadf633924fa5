package validation

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-site-feeds/internal/content"
	"github.com/goliatone/go-site-feeds/internal/runtimeconfig"
)

var stringList = map[string]any{
	"type":  "array",
	"items": map[string]any{"type": "string"},
}

// FrontMatterSchema returns the JSON schema expected of items of the given
// collection type.
func FrontMatterSchema(itemType string) map[string]any {
	properties := map[string]any{
		"title":       map[string]any{"type": "string", "minLength": 1},
		"date":        map[string]any{"type": "string", "minLength": 1},
		"description": map[string]any{"type": "string"},
		"published":   map[string]any{"type": "boolean"},
		"tags":        stringList,
	}
	required := []any{"title", "date", "published"}

	switch itemType {
	case content.TypeProject:
		properties["name"] = map[string]any{"type": "string", "minLength": 1}
		properties["website"] = map[string]any{"type": "string", "pattern": "^https?://"}
		properties["github"] = map[string]any{"type": "string", "pattern": "^https?://"}
		properties["icon"] = map[string]any{"type": "string"}
		properties["thumbnail"] = map[string]any{"type": "string"}
		required = []any{"date", "published"}
		return map[string]any{
			"type":       "object",
			"properties": properties,
			"required":   required,
			"anyOf": []any{
				map[string]any{"required": []any{"name"}},
				map[string]any{"required": []any{"title"}},
			},
		}
	default:
		properties["image"] = map[string]any{"type": "string"}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// Problem is one lint finding.
type Problem struct {
	Path     string
	Location string
	Message  string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s %s: %s", p.Path, issueLocation(p.Location), p.Message)
}

// LintReport summarises a lint run.
type LintReport struct {
	Files    int
	Problems []Problem
}

// OK reports whether the run found no problems.
func (r *LintReport) OK() bool {
	return r != nil && len(r.Problems) == 0
}

// Linter validates the front-matter, dates and slugs of every content file.
type Linter struct {
	source     content.Source
	validators map[string]*Validator
}

// NewLinter compiles a validator per collection type. Overrides replace the
// built-in schema for a type.
func NewLinter(source content.Source, overrides map[string]map[string]any) (*Linter, error) {
	if source == nil {
		return nil, errors.New("validation: content source is required")
	}
	validators := map[string]*Validator{}
	for _, itemType := range []string{content.TypeBlog, content.TypeProject} {
		schema := FrontMatterSchema(itemType)
		if override, ok := overrides[itemType]; ok {
			schema = override
		}
		validator, err := NewValidator(schema)
		if err != nil {
			return nil, fmt.Errorf("validation: %s schema: %w", itemType, err)
		}
		validators[itemType] = validator
	}
	return &Linter{source: source, validators: validators}, nil
}

// Lint checks every module of the given collections. Unreadable files are
// reported as problems; only context cancellation aborts the run.
func (l *Linter) Lint(ctx context.Context, collections []runtimeconfig.CollectionConfig) (*LintReport, error) {
	report := &LintReport{}
	for _, collection := range collections {
		modules, err := l.source.Modules(ctx, collection.Name)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			report.Problems = append(report.Problems, Problem{Path: collection.Name, Message: err.Error()})
			continue
		}
		validator := l.validators[collection.Type]
		if validator == nil {
			validator = l.validators[content.TypeBlog]
		}
		for _, module := range modules {
			report.Files++
			problems, err := l.lintModule(ctx, module, validator)
			if err != nil {
				return nil, err
			}
			report.Problems = append(report.Problems, problems...)
		}
	}
	return report, nil
}

func (l *Linter) lintModule(ctx context.Context, module content.Module, validator *Validator) ([]Problem, error) {
	if module.Load == nil {
		return nil, nil
	}
	meta, err := module.Load(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return []Problem{{Path: module.Path, Message: err.Error()}}, nil
	}

	var problems []Problem
	if slug := content.DirectorySlug(module.Path); !content.IsValidSlug(slug) {
		problems = append(problems, Problem{Path: module.Path, Message: fmt.Sprintf("slug %q is not url-safe", slug)})
	}
	if err := validator.Validate(meta); err != nil {
		for _, issue := range Issues(err) {
			problems = append(problems, Problem{Path: module.Path, Location: issue.Location, Message: issue.Message})
		}
	}
	if raw := content.FromMetadata(module.Path, "", meta).Date; raw != "" {
		if _, ok := content.ParseDate(raw); !ok {
			problems = append(problems, Problem{Path: module.Path, Location: "/date", Message: fmt.Sprintf("date %q is not a recognised format", raw)})
		}
	}
	return problems, nil
}
