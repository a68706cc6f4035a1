package git

import (
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/cache"
)

// CloneConfig contains configuration for cloning a repository
type CloneConfig struct {
	// URL is the repository URL to clone
	URL string

	// Branch is the specific branch to clone (optional)
	Branch string

	// Tag is the specific tag to clone (optional)
	Tag string

	// Commit is the specific commit to clone (optional)
	Commit string

	// Auth holds optional HTTP basic auth credentials
	Auth *AuthConfig
}

// AuthConfig holds credentials for private repositories
type AuthConfig struct {
	Username string
	Password string
}

// RepositoryInfo contains information about a cloned repository
type RepositoryInfo struct {
	// Repository is the go-git repository instance
	Repository *git.Repository

	// Branch is the current branch name
	Branch string

	// RemoteURL is the remote repository URL
	RemoteURL string

	// storerFilesystem holds the in-memory filesystem containing the git
	// object database. It is stored during Clone() and must be explicitly
	// cleared in Cleanup() to release memory, as go-git does not provide
	// automatic cleanup of internal storage structures.
	storerFilesystem billy.Filesystem

	// objectCache holds the LRU cache for decompressed git objects.
	// It must be cleared via Clear() during Cleanup(); the garbage
	// collector cannot reclaim cached objects while this reference exists.
	objectCache cache.Object
}
