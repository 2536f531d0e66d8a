package github

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
)

// ResolveRepo turns the repository argument accepted on the command line
// into a RepoRef. Accepted forms:
//
//	owner/name
//	github.com/owner/name
//	https://github.com/owner/name
//	https://github.com/owner/name.git
//	git@github.com:owner/name.git
func ResolveRepo(input string) (domain.RepoRef, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return domain.RepoRef{}, fmt.Errorf("%w: empty repository", domain.ErrInvalidInput)
	}

	// SSH clone URL.
	if rest, ok := strings.CutPrefix(s, "git@github.com:"); ok {
		return refFromPath(rest)
	}

	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		u, err := url.Parse(s)
		if err != nil {
			return domain.RepoRef{}, fmt.Errorf("%w: %q", domain.ErrInvalidInput, input)
		}
		if u.Host != "github.com" && u.Host != "www.github.com" {
			return domain.RepoRef{}, fmt.Errorf("%w: unsupported host %q", domain.ErrInvalidInput, u.Host)
		}
		return refFromPath(u.Path)
	}

	// Bare host prefix without a scheme.
	s = strings.TrimPrefix(s, "www.")
	s = strings.TrimPrefix(s, "github.com/")

	return refFromPath(s)
}

// refFromPath extracts owner/name from a slash path, tolerating a
// leading slash, a .git suffix and trailing path segments such as
// /tree/main.
func refFromPath(p string) (domain.RepoRef, error) {
	p = strings.Trim(p, "/")
	parts := strings.Split(p, "/")
	if len(parts) < 2 {
		return domain.RepoRef{}, fmt.Errorf("%w: expected owner/name, got %q", domain.ErrInvalidInput, p)
	}
	owner := parts[0]
	name := strings.TrimSuffix(parts[1], ".git")
	return domain.ParseRepoRef(owner + "/" + name)
}
