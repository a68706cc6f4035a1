package sources

import (
	"fmt"

	"github.com/bbsdial/bbsdial/internal/config"
)

// HandlerFactory creates source handlers from source descriptors
type HandlerFactory interface {
	// CreateHandler creates a handler for the given source descriptor
	CreateHandler(source string) (Handler, error)
}

// defaultHandlerFactory is the default implementation of HandlerFactory
type defaultHandlerFactory struct {
	gitAuth *config.GitAuth
}

var _ HandlerFactory = (*defaultHandlerFactory)(nil)

// NewHandlerFactory creates a new source handler factory. gitAuth is
// optional and only applies to git sources.
func NewHandlerFactory(gitAuth *config.GitAuth) HandlerFactory {
	return &defaultHandlerFactory{gitAuth: gitAuth}
}

// CreateHandler creates a handler for the given source descriptor,
// selecting the implementation by the descriptor's shape.
func (f *defaultHandlerFactory) CreateHandler(source string) (Handler, error) {
	switch kind := config.SourceKind(source); kind {
	case config.SourceKindDir:
		return NewDirHandler(source), nil
	case config.SourceKindGit:
		return NewGitHandler(source, f.gitAuth), nil
	default:
		return nil, fmt.Errorf("unsupported source kind: %s", kind)
	}
}
