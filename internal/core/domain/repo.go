package domain

import (
	"fmt"
	"strings"
)

// LocalOwner is the owner assigned to filesystem-sourced repositories.
const LocalOwner = "local"

// RepoRef identifies an indexed repository.
type RepoRef struct {
	// Owner is the repository owner, or "local" for filesystem sources.
	Owner string

	// Name is the repository name.
	Name string
}

// ParseRepoRef parses an "owner/name" identifier.
func ParseRepoRef(repo string) (RepoRef, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(repo), "/")
	if !ok || owner == "" || name == "" {
		return RepoRef{}, fmt.Errorf("%w: repo %q is not owner/name", ErrInvalidInput, repo)
	}
	return RepoRef{Owner: owner, Name: name}, nil
}

// String returns the "owner/name" form.
func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// Key returns the "{owner}-{name}" cache key.
func (r RepoRef) Key() string {
	return r.Owner + "-" + r.Name
}

// IsZero reports whether the reference is empty.
func (r RepoRef) IsZero() bool {
	return r.Owner == "" && r.Name == ""
}
