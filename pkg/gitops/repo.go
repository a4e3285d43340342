package gitops

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotRepository is returned when a directory is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// Repo is a git work tree.
type Repo struct {
	client Client
	root   string
}

// Open locates the work tree containing dir.
func Open(ctx context.Context, client Client, dir string) (*Repo, error) {
	out, err := client.Run(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			return nil, fmt.Errorf("%s: %w", dir, ErrNotRepository)
		}
		return nil, err
	}

	root := strings.TrimSpace(string(out))
	if root == "" {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotRepository)
	}

	return &Repo{client: client, root: root}, nil
}

// Root returns the absolute path of the work tree.
func (r *Repo) Root() string {
	return r.root
}

// HasChanges reports whether the work tree has anything to commit.
func (r *Repo) HasChanges(ctx context.Context) (bool, error) {
	out, err := r.client.Run(ctx, r.root, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("git status: %w", err)
	}
	return strings.TrimSpace(string(out)) != "", nil
}

// AddAll stages every change in the work tree.
func (r *Repo) AddAll(ctx context.Context) error {
	if _, err := r.client.Run(ctx, r.root, "add", "."); err != nil {
		return fmt.Errorf("git add: %w", err)
	}
	return nil
}

// Commit records the staged changes.
func (r *Repo) Commit(ctx context.Context, message string) error {
	if _, err := r.client.Run(ctx, r.root, "commit", "-m", message); err != nil {
		return fmt.Errorf("git commit: %w", err)
	}
	return nil
}

// CurrentBranch returns the checked out branch name.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	out, err := r.client.Run(ctx, r.root, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("resolve current branch: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Push publishes branch to origin and sets its upstream.
func (r *Repo) Push(ctx context.Context, branch string) error {
	if _, err := r.client.Run(ctx, r.root, "push", "-u", "origin", branch); err != nil {
		return fmt.Errorf("git push: %w", err)
	}
	return nil
}

// PushResult describes what CommitAndPush did.
type PushResult struct {
	// Clean is set when there was nothing to commit; nothing was pushed.
	Clean bool

	// Branch is the branch that was pushed.
	Branch string
}

// CommitAndPush stages everything, commits with message and pushes the
// current branch. A clean work tree is not an error.
func (r *Repo) CommitAndPush(ctx context.Context, message string) (PushResult, error) {
	changed, err := r.HasChanges(ctx)
	if err != nil {
		return PushResult{}, err
	}
	if !changed {
		return PushResult{Clean: true}, nil
	}

	if err := r.AddAll(ctx); err != nil {
		return PushResult{}, err
	}
	if err := r.Commit(ctx, message); err != nil {
		return PushResult{}, err
	}

	branch, err := r.CurrentBranch(ctx)
	if err != nil {
		return PushResult{}, err
	}
	if err := r.Push(ctx, branch); err != nil {
		return PushResult{}, err
	}

	return PushResult{Branch: branch}, nil
}
