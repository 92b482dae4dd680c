package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/doxybuild/internal/doxyfile"
	ferrors "git.home.luguber.info/inful/doxybuild/internal/foundation/errors"
	"git.home.luguber.info/inful/doxybuild/internal/generator"
	"git.home.luguber.info/inful/doxybuild/internal/logfields"
	"git.home.luguber.info/inful/doxybuild/internal/style"
)

// stagePrepareDirs creates the output directory and the style directory's parent.
func stagePrepareDirs(_ context.Context, bs *BuildState) error {
	l := bs.p.layout
	for _, dir := range []string{l.OutputDir, filepath.Dir(l.StyleDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			bs.p.printf("Failed to create directory %s: %v\n", dir, err)
			return newFatalStageError(StagePrepareDirs,
				ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create output directory").
					Fatal().
					WithContext("path", dir).
					Build())
		}
	}
	bs.p.printf("Ensured output directory exists: %s\n", l.OutputDir)
	return nil
}

// stageAcquireStyle clones the style repository when its directory is absent.
func stageAcquireStyle(ctx context.Context, bs *BuildState) error {
	p := bs.p
	src := style.Source{URL: p.cfg.Style.URL, Ref: p.cfg.Style.Ref, Depth: style.ShallowDepth}

	t0 := time.Now()
	cloned, err := style.Ensure(ctx, p.cloner, src, p.layout.StyleDir)
	if cloned || err != nil {
		p.recorder.ObserveStyleClone(p.cloner.Name(), time.Since(t0), err == nil)
	}
	if err != nil {
		if ctx.Err() != nil {
			return newCanceledStageError(StageAcquireStyle, canceledError(ctx))
		}
		p.printf("Failed to clone style: %v\n", err)
		return newFatalStageError(StageAcquireStyle, err)
	}

	bs.Report.StyleCloned = cloned
	if cloned {
		p.printf("Cloned style repository %s into %s\n", src.URL, p.layout.StyleDir)
	} else {
		p.printf("Style folder already exists, skipping clone.\n")
	}
	return nil
}

// stageGenerateConfig renders the configuration document and writes it to the root.
func stageGenerateConfig(_ context.Context, bs *BuildState) error {
	p := bs.p
	content, err := doxyfile.Render(doxyfile.ParamsFor(p.cfg, p.layout))
	if err != nil {
		return newFatalStageError(StageGenerateConfig,
			ferrors.WrapError(err, ferrors.CategoryInternal, "failed to render generator config").Build())
	}

	path := p.layout.ConfigFile
	if err := doxyfile.Write(path, content); err != nil {
		p.printf("Failed to write generator config: %v\n", err)
		return newFatalStageError(StageGenerateConfig,
			ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write generator config").
				Fatal().
				WithContext("path", path).
				Build())
	}

	bs.configWritten = true
	bs.Report.ConfigFile = path
	bs.Report.ConfigRetained = true
	p.printf("Generator config file created at: %s\n", path)
	slog.Debug("Generator config written", logfields.Path(path), slog.Int("bytes", len(content)))
	return nil
}

// stageRunGenerator runs the generator against the configuration with the root as
// working directory. A failure or interruption here keeps the configuration file on disk.
func stageRunGenerator(ctx context.Context, bs *BuildState) error {
	p := bs.p
	exe := p.cfg.Generator.Executable
	inv := generator.Invocation{
		Executable: exe,
		ConfigFile: p.cfg.Generator.ConfigFile,
		Dir:        p.layout.Root,
	}
	bs.Report.GeneratorVersion = p.version(ctx, exe, inv.Dir)

	p.printf("Running command: %s\n", strings.Join([]string{inv.Executable, inv.ConfigFile}, " "))
	err := p.runner.Run(ctx, inv)
	if err == nil {
		bs.Report.GeneratorExitCode = 0
		p.printf("Documentation generation completed successfully.\n")
		return nil
	}

	bs.preserveConfig = true
	if ctx.Err() != nil {
		p.printf("Documentation generation interrupted\n")
		return newCanceledStageError(StageRunGenerator, canceledError(ctx))
	}

	code := generator.ExitCode(err)
	bs.Report.GeneratorExitCode = code

	b := ferrors.WrapError(err, ferrors.CategoryGenerator, "documentation generation failed").
		Fatal().
		WithContext("executable", exe).
		WithContext("config", inv.ConfigFile)
	if code >= 0 {
		p.printf("Error: Command failed with code %d\n", code)
		b = b.WithContext("exit_code", code)
	} else {
		p.printf("Documentation generation failed: %v\n", err)
	}
	if errors.Is(err, generator.ErrExecutableNotFound) {
		b = b.WithContext("hint", "install the generator or set generator.executable")
	}
	slog.Error("Generator failed",
		logfields.Executable(exe),
		logfields.ExitCode(code),
		logfields.Error(err))
	return newFatalStageError(StageRunGenerator, b.Build())
}

// stageCleanup deletes the transient configuration file. Failure is only a warning.
func stageCleanup(_ context.Context, bs *BuildState) error {
	if err := bs.p.removeConfig(bs); err != nil {
		bs.p.printf("Failed to delete generator config file: %v\n", err)
		return newWarnStageError(StageCleanup, err)
	}
	return nil
}
