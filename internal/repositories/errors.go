package repositories

import (
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/docstore"
)

// IsNotFoundError reports whether err means the requested document is absent.
// Services translate this into their own NotFoundError so raw store errors
// never reach callers.
func IsNotFoundError(err error) bool {
	return docstore.IsNotFound(err)
}
