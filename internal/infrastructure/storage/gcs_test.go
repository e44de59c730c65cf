package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://storage.googleapis.com/b/photos/u-1/x.png", PublicURL("b", "photos/u-1/x.png"))
	assert.Equal(t, "https://storage.googleapis.com/b/resumes/u%201/cv%3F.pdf", PublicURL("b", "resumes/u 1/cv?.pdf"))
}
