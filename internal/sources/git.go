package sources

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/bbsdial/bbsdial/internal/config"
	"github.com/bbsdial/bbsdial/internal/git"
)

// gitHandler fetches entry records from a remote git repository. The
// repository is cloned into an in-memory checkout on every fetch and
// entry files in its tree are parsed exactly like local ones. IDs are
// never written back into a checkout.
type gitHandler struct {
	source    string
	auth      *config.GitAuth
	gitClient git.Client
}

// NewGitHandler creates a handler for a remote git repository source.
// The descriptor may carry an optional "#ref" suffix pinning what is
// cloned: "#main" names a branch, "#tag:v1.2" a tag, and a 40-char hex
// ref a commit.
func NewGitHandler(source string, auth *config.GitAuth) Handler {
	return &gitHandler{
		source:    source,
		auth:      auth,
		gitClient: git.NewDefaultGitClient(),
	}
}

// Validate validates the git source descriptor
func (h *gitHandler) Validate() error {
	repo, _ := splitRef(h.source)
	if strings.TrimSpace(repo) == "" {
		return fmt.Errorf("git repository URL cannot be empty")
	}
	return nil
}

// Describe returns the origin string for this source
func (h *gitHandler) Describe() string {
	return "git:" + h.source
}

// Fetch clones the repository and parses every entry file in its tree
func (h *gitHandler) Fetch(ctx context.Context) (*FetchResult, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}

	repo, ref := splitRef(h.source)
	cloneConfig := refCloneConfig(repo, ref)

	if h.auth != nil && h.auth.Username != "" {
		password, err := h.auth.GetPassword()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve git credentials: %w", err)
		}
		cloneConfig.Auth = &git.AuthConfig{
			Username: h.auth.Username,
			Password: password,
		}
	}

	startTime := time.Now()
	slog.Debug("Starting git clone",
		"repository", repo,
		"branch", cloneConfig.Branch,
		"tag", cloneConfig.Tag,
		"commit", cloneConfig.Commit)

	repoInfo, err := h.gitClient.Clone(ctx, cloneConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to clone repository: %w", err)
	}
	defer func() {
		if cleanupErr := h.gitClient.Cleanup(ctx, repoInfo); cleanupErr != nil {
			slog.Warn("Failed to cleanup repository", "error", cleanupErr)
		}
	}()

	slog.Info("Git clone completed",
		"repository", repo,
		"branch", repoInfo.Branch,
		"duration", time.Since(startTime).String())

	files, err := h.gitClient.ListFiles(repoInfo, entryFileSuffixes...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entry files: %w", err)
	}
	sort.Strings(files)

	result := &FetchResult{}
	hasher := sha256.New()
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := h.gitClient.GetFileContent(repoInfo, file)
		if err != nil {
			result.Skipped = append(result.Skipped, fmt.Errorf("%s: %w", file, err))
			continue
		}
		hasher.Write([]byte(file))
		hasher.Write(data)

		records, err := decodeRecords(data)
		if err != nil {
			result.Skipped = append(result.Skipped, fmt.Errorf("%s: %w", file, err))
			continue
		}

		entries, skipped, _ := parseRecords(records, h.Describe(), file)
		result.Entries = append(result.Entries, entries...)
		result.Skipped = append(result.Skipped, skipped...)
	}
	result.Hash = fmt.Sprintf("%x", hasher.Sum(nil))

	return result, nil
}

// splitRef splits an optional "#ref" suffix off a repository descriptor
func splitRef(source string) (repo, ref string) {
	if i := strings.LastIndex(source, "#"); i > 0 {
		return source[:i], source[i+1:]
	}
	return source, ""
}

// refCloneConfig classifies a descriptor ref into the clone target.
// Branch, tag and commit are mutually exclusive; an empty ref clones
// the default branch.
func refCloneConfig(repo, ref string) *git.CloneConfig {
	cloneConfig := &git.CloneConfig{URL: repo}
	switch {
	case strings.HasPrefix(ref, "tag:"):
		cloneConfig.Tag = strings.TrimPrefix(ref, "tag:")
	case isCommitSHA(ref):
		cloneConfig.Commit = ref
	default:
		cloneConfig.Branch = ref
	}
	return cloneConfig
}

// isCommitSHA reports whether a ref is a full 40-char hex commit hash.
func isCommitSHA(ref string) bool {
	if len(ref) != 40 {
		return false
	}
	for _, r := range ref {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
