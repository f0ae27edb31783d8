// Package generate runs the whole generation pipeline: it builds a workspace
// from a config, scans and classifies each target, runs the unity pass and
// writes the IDE project files.
package generate

import (
	"context"
	"crypto/sha1"
	"fmt"
	"io"
	"path"
	"strings"

	"projgen/pkg/config"
	"projgen/pkg/pbxproj"
	"projgen/pkg/platform"
	"projgen/pkg/scan"
	"projgen/pkg/unity"
	"projgen/pkg/vcxproj"
	"projgen/pkg/workspace"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Overrides are command line values that take precedence over the config.
type Overrides struct {
	Unity   *bool
	Buckets int
	OutDir  string
	Format  string
}

// Apply folds o into cfg.
func (o Overrides) Apply(cfg *config.Config) {
	if o.Unity != nil {
		cfg.Unity = *o.Unity
	}
	if o.Buckets > 0 {
		cfg.Buckets = o.Buckets
	}
	if o.OutDir != "" {
		cfg.OutDir = o.OutDir
	}
	if o.Format != "" {
		for i := range cfg.Targets {
			cfg.Targets[i].Format = o.Format
		}
	}
}

// SpawnFunc runs a helper program.
type SpawnFunc func(ctx context.Context, logger *zap.Logger, name string, args ...string) (platform.Result, error)

// Generator holds the collaborators of a run.
type Generator struct {
	Fs     afero.Fs
	Logger *zap.Logger
	Spawn  SpawnFunc

	// Workers bounds how many targets are scanned at once; 0 means one per CPU.
	Workers int
}

// New returns a generator over fs. A nil fs means the OS filesystem.
func New(fs afero.Fs, logger *zap.Logger) *Generator {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{Fs: fs, Logger: logger, Spawn: platform.Spawn}
}

// TargetSummary reports what happened to one target.
type TargetSummary struct {
	Label  string
	Format string
	Files  int
	Output string
	Unity  unity.Stats
}

// Summary reports a whole run.
type Summary struct {
	Workspace string
	Targets   []TargetSummary
	Unity     unity.Stats
}

// Build creates the workspace described by cfg and classifies every target's
// files. No files are written.
func (g *Generator) Build(cfg *config.Config) (*workspace.Workspace, error) {
	projects, err := scanTargets(cfg.Targets, g.Workers, scan.NewWalker(g.Fs, g.Logger), g.Logger)
	if err != nil {
		return nil, err
	}
	return &workspace.Workspace{Name: cfg.Name, Targets: projects}, nil
}

// Run generates every target of cfg.
func (g *Generator) Run(ctx context.Context, cfg *config.Config) (*Summary, error) {
	ws, err := g.Build(cfg)
	if err != nil {
		return nil, err
	}

	pass := &unity.Pass{
		Enabled:     cfg.Unity,
		BucketCount: cfg.Buckets,
		Mode:        counterMode(cfg.Counter),
		Cache:       unity.NewFsCache(g.Fs),
		Digester:    digester(cfg.Hash),
		CacheDir:    cfg.CacheDir,
		Logger:      g.Logger,
	}

	summary := &Summary{Workspace: ws.Name}
	for _, p := range ws.Targets {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		files := p.Count()
		stats, err := pass.Run(p)
		if err != nil {
			return summary, err
		}
		out, err := g.emit(p, cfg.OutDir)
		if err != nil {
			return summary, err
		}
		if err := g.runHook(ctx, p); err != nil {
			return summary, err
		}

		summary.Unity.Add(stats)
		summary.Targets = append(summary.Targets, TargetSummary{
			Label:  p.Label(),
			Format: p.Flavor.Name,
			Files:  files,
			Output: out,
			Unity:  stats,
		})
		g.Logger.Info("Generated project",
			zap.String("project", p.Label()),
			zap.String("format", p.Flavor.Name),
			zap.String("output", out),
			zap.Int("files", files))
	}
	return summary, nil
}

// serializers maps flavor names to their document writer and output path.
var serializers = map[string]struct {
	write  func(io.Writer, *workspace.Project) error
	output func(outDir, label string) string
}{
	"msvc": {
		write:  vcxproj.Serialize,
		output: func(outDir, label string) string { return path.Join(outDir, label+".vcxproj") },
	},
	"xcode": {
		write:  pbxproj.Serialize,
		output: func(outDir, label string) string { return path.Join(outDir, label+".xcodeproj", "project.pbxproj") },
	},
}

// OutputPath returns where the project file for p is written.
func OutputPath(p *workspace.Project, outDir string) string {
	s, ok := serializers[p.Flavor.Name]
	if !ok {
		return ""
	}
	return s.output(outDir, p.Label())
}

func (g *Generator) emit(p *workspace.Project, outDir string) (string, error) {
	s, ok := serializers[p.Flavor.Name]
	if !ok {
		return "", fmt.Errorf("no serializer for format %q", p.Flavor.Name)
	}
	out := s.output(outDir, p.Label())
	if err := g.Fs.MkdirAll(path.Dir(out), 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path.Dir(out), err)
	}
	f, err := g.Fs.Create(out)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", out, err)
	}
	if err := s.write(f, p); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", out, err)
	}
	return out, nil
}

func (g *Generator) runHook(ctx context.Context, p *workspace.Project) error {
	name, args := platform.SplitCommand(p.Settings.PostGenerate)
	if name == "" || g.Spawn == nil {
		return nil
	}
	res, err := g.Spawn(ctx, g.Logger, name, args...)
	if err != nil {
		g.Logger.Error("Post-generate command failed",
			zap.String("project", p.Label()),
			zap.String("command", p.Settings.PostGenerate),
			zap.String("stderr", strings.TrimSpace(res.Stderr)),
			zap.Error(err))
		return fmt.Errorf("project %s: post-generate: %w", p.Label(), err)
	}
	return nil
}

func counterMode(name string) unity.CounterMode {
	if name == "reset" {
		return unity.ResetCounter
	}
	return unity.CarryCounter
}

func digester(name string) unity.Digester {
	if name == "sha1" {
		return unity.NewDigester(unity.WithHashFunc(sha1.New))
	}
	return unity.NewDigester()
}
