package utils

import (
	"fmt"
	"strings"
)

// RemoteInfo is the host and repository path of a git remote
type RemoteInfo struct {
	Hostname string
	// Owner is everything between the host and the repository name, which
	// may contain slashes for nested GitLab groups
	Owner string
	Repo  string
}

// ParseRemoteURL parses SSH (git@host:owner/repo.git, ssh://git@host/owner/repo)
// and HTTPS (https://host/owner/repo.git) remote URLs
func ParseRemoteURL(remoteURL string) (*RemoteInfo, error) {
	remoteURL = strings.TrimSpace(remoteURL)
	remoteURL = strings.TrimSuffix(remoteURL, "/")
	remoteURL = strings.TrimSuffix(remoteURL, ".git")

	var hostname, path string
	switch {
	case strings.Contains(remoteURL, "://"):
		_, rest, _ := strings.Cut(remoteURL, "://")
		if _, afterUser, ok := strings.Cut(rest, "@"); ok {
			rest = afterUser
		}
		hostname, path, _ = strings.Cut(rest, "/")
		// drop an explicit port
		hostname, _, _ = strings.Cut(hostname, ":")
	case strings.Contains(remoteURL, "@"):
		_, hostAndPath, _ := strings.Cut(remoteURL, "@")
		if h, p, ok := strings.Cut(hostAndPath, ":"); ok {
			hostname, path = h, p
		} else {
			hostname, path, _ = strings.Cut(hostAndPath, "/")
		}
	default:
		return nil, fmt.Errorf("unsupported remote URL %q", remoteURL)
	}

	parts := strings.Split(strings.Trim(path, "/"), "/")
	if hostname == "" || len(parts) < 2 {
		return nil, fmt.Errorf("remote URL %q must point at owner/repo", remoteURL)
	}

	info := &RemoteInfo{
		Hostname: hostname,
		Owner:    strings.Join(parts[:len(parts)-1], "/"),
		Repo:     parts[len(parts)-1],
	}
	if info.Owner == "" || info.Repo == "" {
		return nil, fmt.Errorf("remote URL %q must point at owner/repo", remoteURL)
	}
	return info, nil
}

// FullName is "owner/repo"
func (r *RemoteInfo) FullName() string {
	return r.Owner + "/" + r.Repo
}

// WebURL is the repository's home page
func (r *RemoteInfo) WebURL() string {
	return "https://" + r.Hostname + "/" + r.FullName()
}

// CommitURL is the web page of one commit. GitLab hosts use the /-/ prefix.
func (r *RemoteInfo) CommitURL(sha string) string {
	if strings.Contains(r.Hostname, "gitlab") {
		return r.WebURL() + "/-/commit/" + sha
	}
	return r.WebURL() + "/commit/" + sha
}

// BranchURL is the web page of a branch
func (r *RemoteInfo) BranchURL(branch string) string {
	if strings.Contains(r.Hostname, "gitlab") {
		return r.WebURL() + "/-/tree/" + branch
	}
	return r.WebURL() + "/tree/" + branch
}
