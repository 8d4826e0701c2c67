package model

import "strings"

// RepoRef is a lightweight reference to a repository.
type RepoRef struct {
	Owner string `json:"owner" yaml:"owner"`
	Name  string `json:"name" yaml:"name"`
}

// FullName returns the full repository name in owner/repo format.
func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Name
}

// IsZero reports whether either part of the reference is missing.
func (r RepoRef) IsZero() bool {
	return r.Owner == "" || r.Name == ""
}

// ParseRepoRef parses a full name like "owner/repo" into a RepoRef.
func ParseRepoRef(fullName string) RepoRef {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok {
		return RepoRef{Name: fullName}
	}
	return RepoRef{Owner: owner, Name: name}
}
