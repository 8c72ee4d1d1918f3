package driver

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
)

// Provenance records the version-control state a program was built from.
type Provenance struct {
	Commit string
	Branch string
	Dirty  bool
}

// DetectProvenance inspects the git repository containing dir. It returns
// nil without error when dir is not inside a repository or the repository
// has no commits yet.
func DetectProvenance(dir string) (*Provenance, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, nil
		}
		return nil, fmt.Errorf("vcs: open %s: %w", dir, err)
	}
	head, err := repo.Head()
	if err != nil {
		return nil, nil
	}
	prov := &Provenance{Commit: head.Hash().String()}
	if head.Name().IsBranch() {
		prov.Branch = head.Name().Short()
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("vcs: worktree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("vcs: status: %w", err)
	}
	prov.Dirty = !status.IsClean()
	return prov, nil
}

// HeaderLines renders the provenance as comment lines for generated code.
func (p *Provenance) HeaderLines(name string) []string {
	if p == nil {
		return []string{fmt.Sprintf("generated by plc from %s", name)}
	}
	rev := p.Commit
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if p.Branch != "" {
		rev = p.Branch + "@" + rev
	}
	if p.Dirty {
		rev += " (dirty)"
	}
	return []string{
		fmt.Sprintf("generated by plc from %s", name),
		"source revision " + rev,
	}
}
