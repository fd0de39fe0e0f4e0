// Package qmd is the top-level entry point: it ties source registration,
// scanning, lifting, postprocessing and YAML frontmatter extraction into one
// Parse call, the same role org.Configuration.Parse plays for go-org - a
// small struct carrying options plus a single method that orchestrates the
// rest of the packages.
package qmd

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/quarto-dev/q2-sub016/ast"
	"github.com/quarto-dev/q2-sub016/diag"
	"github.com/quarto-dev/q2-sub016/lift"
	"github.com/quarto-dev/q2-sub016/postprocess"
	"github.com/quarto-dev/q2-sub016/source"
	"github.com/quarto-dev/q2-sub016/yamlbridge"
)

// Options configures one Parse call, mirroring org.Configuration.
type Options struct {
	// ExtractYAML controls whether frontmatter is decoded into Document.Meta;
	// when false the frontmatter is still recognized and skipped but left
	// undecoded (Meta stays its zero value).
	ExtractYAML bool
	// ReportErrorState is accepted but Parse does not read it: diagnostics
	// carry no (state, symbol) details whatever its value.
	ReportErrorState bool
	// SmartTypography toggles dash/quote/ellipsis rewriting in lift.
	SmartTypography bool
	// FilterPasses is reserved for a future AST-filter pipeline stage; a
	// name qmd.Parse doesn't recognize is silently ignored today.
	FilterPasses []string
	// Log receives Parse's own logs (a recovered panic, a frontmatter YAML
	// error) - never user-facing diagnostics, which always travel through
	// diag.Message. The scanner, lifter, postprocessor and writers do not
	// log. Defaults to logrus.StandardLogger() when nil.
	Log *logrus.Logger
	// FS abstracts file reads for source.Registry.Register so tests can
	// register documents against an in-memory afero.NewMemMapFs().
	FS afero.Fs
}

func (o Options) logger() *logrus.Logger {
	if o.Log != nil {
		return o.Log
	}
	return logrus.StandardLogger()
}

// ASTContext is everything about a parse beyond the AST itself: the file
// registry needed to resolve any source.Info the AST or its diagnostics
// carry back to a human-readable location.
type ASTContext struct {
	Files     *source.Registry
	Filenames []string
}

// MapOffset resolves info+offset to a Position, satisfying diag.Resolver.
func (c *ASTContext) MapOffset(info source.Info, offset int) (source.Position, bool) {
	return c.Files.MapOffset(info, offset)
}

// Path satisfies diag.Resolver.
func (c *ASTContext) Path(file source.FileId) string {
	return c.Files.Path(file)
}

// Parse registers src under filename, scans and lifts it into an AST, runs
// postprocessing, and (when ExtractYAML is set) decodes any YAML
// frontmatter into Document.Meta. It never panics: a single top-level
// recover converts any unexpected failure into a Q-0-1 internal-error
// diagnostic, the same contract org.Configuration.Parse gives callers via
// its own deferred recover.
func Parse(src []byte, filename string, opts Options) (doc *ast.Document, actx *ASTContext, diags []diag.Message, err error) {
	log := opts.logger()
	defer func() {
		if r := recover(); r != nil {
			log.WithField("filename", filename).Errorf("qmd: recovered panic: %v", r)
			diags = append(diags, diag.Internal(fmt.Sprintf("qmd.Parse: %v", r), nil))
			err = fmt.Errorf("qmd: internal error parsing %s: %v", filename, r)
		}
	}()

	reg := source.NewRegistry()
	fileID, regErr := reg.Register(opts.FS, filename, src)
	if regErr != nil {
		return nil, nil, nil, fmt.Errorf("qmd: %w", regErr)
	}
	actx = &ASTContext{Files: reg, Filenames: reg.Filenames()}

	result := lift.Lift(src, fileID, opts.SmartTypography)
	doc = result.Document
	diags = append(diags, result.Diagnostics...)

	if opts.ExtractYAML && result.Frontmatter != nil {
		raw := stripYAMLDelimiters(result.Frontmatter.Text)
		// raw starts after the opening fence line, so the YAML node offsets
		// are anchored to a Substring covering just that body.
		bodyInfo := result.Frontmatter.Info
		if nl := strings.IndexByte(result.Frontmatter.Text, '\n'); nl >= 0 {
			bodyInfo = source.NewSubstring(bodyInfo, nl+1, nl+1+len(raw))
		}
		meta, yerr := yamlbridge.ExtractFrontmatter(raw, bodyInfo)
		if yerr != nil {
			log.WithField("filename", filename).Warnf("qmd: frontmatter YAML error: %v", yerr)
			diags = append(diags, diag.New("invalid YAML frontmatter", diag.KindWarning).
				WithProblem(yerr.Error()).WithPrimary(result.Frontmatter.Info))
		} else {
			doc.Meta = meta
		}
	}

	diags = append(diags, postprocess.Run(doc)...)
	return doc, actx, diags, nil
}

// stripYAMLDelimiters removes the leading and trailing "---"/"+++" lines
// lift.Lift retained in the raw frontmatter block, leaving plain YAML text
// for yamlbridge.
func stripYAMLDelimiters(raw string) string {
	firstNL := strings.IndexByte(raw, '\n')
	if firstNL < 0 {
		return ""
	}
	body := raw[firstNL+1:]
	lastNL := strings.LastIndexByte(body, '\n')
	if lastNL < 0 {
		return ""
	}
	return body[:lastNL]
}
