package style

import (
	"context"
	"io"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// GoGitCloner clones in-process with go-git.
type GoGitCloner struct {
	// Progress receives the remote's sideband output; nil discards it.
	Progress io.Writer
}

// Name identifies the backend in logs and errors.
func (c *GoGitCloner) Name() string { return "go-git" }

// Clone performs a shallow, single-branch clone of src into dir.
func (c *GoGitCloner) Clone(ctx context.Context, src Source, dir string) error {
	if _, err := git.PlainCloneContext(ctx, dir, false, c.cloneOptions(src)); err != nil {
		return classifyCloneError(src.URL, err)
	}
	return nil
}

func (c *GoGitCloner) cloneOptions(src Source) *git.CloneOptions {
	depth := src.Depth
	if depth <= 0 {
		depth = ShallowDepth
	}
	opts := &git.CloneOptions{
		URL:          src.URL,
		Depth:        depth,
		SingleBranch: true,
		Tags:         git.NoTags,
		Progress:     c.Progress,
	}
	if src.Ref != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(src.Ref)
	}
	return opts
}
