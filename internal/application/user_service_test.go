package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/recruitment-accounts/internal/domain/entity"
)

func newUserFixture(t *testing.T) (*UserService, *fakeUserRepo, *fakeFileStore, *recordingIndex, string) {
	t.Helper()
	users := newFakeUserRepo()
	u := &entity.User{Email: "a@x.com", Name: "Ana", PasswordHash: "$2a$04$hash"}
	require.NoError(t, users.Create(context.Background(), u))

	logger, _ := test.NewNullLogger()
	files := &fakeFileStore{}
	index := newRecordingIndex()
	return NewUserService(users, files, index, logger), users, files, index, u.ID
}

func strPtr(s string) *string { return &s }

func TestUserService_GetProfile(t *testing.T) {
	svc, _, _, _, id := newUserFixture(t)
	ctx := context.Background()

	p, err := svc.GetProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", p.Email)
	assert.True(t, p.LocalPassword)

	_, err = svc.GetProfile(ctx, "missing")
	requireCode(t, err, ErrUserNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("applies provided fields", func(t *testing.T) {
		svc, users, _, index, id := newUserFixture(t)
		p, err := svc.UpdateProfile(ctx, id, entity.ProfileUpdate{
			Year:        strPtr("3"),
			SocialLinks: map[string]string{"github": "https://github.com/ana"},
		})
		require.NoError(t, err)
		assert.Equal(t, "3", p.Year)
		assert.Equal(t, "Ana", p.Name)

		stored, _ := users.GetByID(ctx, id)
		assert.Equal(t, "3", stored.Year)
		assert.Equal(t, "$2a$04$hash", stored.PasswordHash)
		assert.Equal(t, "3", index.docs[id].Year)
	})

	t.Run("no change skips the write", func(t *testing.T) {
		svc, users, _, _, id := newUserFixture(t)
		writes := users.writes
		_, err := svc.UpdateProfile(ctx, id, entity.ProfileUpdate{Name: strPtr("Ana")})
		require.NoError(t, err)
		assert.Equal(t, writes, users.writes)
	})

	t.Run("index failure is not fatal", func(t *testing.T) {
		svc, _, _, index, id := newUserFixture(t)
		index.err = errors.New("es down")
		_, err := svc.UpdateProfile(ctx, id, entity.ProfileUpdate{Name: strPtr("Ann")})
		assert.NoError(t, err)
	})

	t.Run("missing user", func(t *testing.T) {
		svc, _, _, _, _ := newUserFixture(t)
		_, err := svc.UpdateProfile(ctx, "missing", entity.ProfileUpdate{Name: strPtr("x")})
		requireCode(t, err, ErrUserNotFound)
	})
}

func TestUserService_Uploads(t *testing.T) {
	ctx := context.Background()

	t.Run("photo", func(t *testing.T) {
		svc, _, files, _, id := newUserFixture(t)
		p, err := svc.UploadPhoto(ctx, id, strings.NewReader("png-bytes"), "Me.PNG", "image/png")
		require.NoError(t, err)
		require.Len(t, files.paths, 1)
		assert.True(t, strings.HasPrefix(files.paths[0], "photos/"+id+"/"))
		assert.True(t, strings.HasSuffix(files.paths[0], ".png"))
		assert.Equal(t, "png-bytes", files.body)
		assert.Equal(t, "https://files.test/"+files.paths[0], p.Photo)
	})

	t.Run("resume", func(t *testing.T) {
		svc, _, files, _, id := newUserFixture(t)
		p, err := svc.UploadResume(ctx, id, strings.NewReader("%PDF"), "cv.pdf", "application/pdf")
		require.NoError(t, err)
		assert.Equal(t, "https://files.test/"+files.paths[0], p.Resume)
	})

	t.Run("wrong content type", func(t *testing.T) {
		svc, _, files, _, id := newUserFixture(t)
		_, err := svc.UploadPhoto(ctx, id, strings.NewReader("x"), "a.pdf", "application/pdf")
		requireCode(t, err, ErrUnsupportedFile)
		_, err = svc.UploadResume(ctx, id, strings.NewReader("x"), "a.png", "image/png")
		requireCode(t, err, ErrUnsupportedFile)
		assert.Empty(t, files.paths)
	})

	t.Run("no file store configured", func(t *testing.T) {
		svc, _, _, _, id := newUserFixture(t)
		svc.Files = nil
		_, err := svc.UploadPhoto(ctx, id, strings.NewReader("x"), "a.png", "image/png")
		requireCode(t, err, ErrUnavailable)
	})

	t.Run("upload failure", func(t *testing.T) {
		svc, users, files, _, id := newUserFixture(t)
		files.err = errors.New("bucket gone")
		_, err := svc.UploadPhoto(ctx, id, strings.NewReader("x"), "a.png", "image/png")
		requireCode(t, err, ErrStoreFailure)
		stored, _ := users.GetByID(ctx, id)
		assert.Empty(t, stored.Photo)
	})
}

func TestUserService_Search(t *testing.T) {
	svc, _, _, index, id := newUserFixture(t)
	ctx := context.Background()
	index.docs[id] = entity.Profile{ID: id, Name: "Ana"}

	out, err := svc.Search(ctx, "  Ana ", 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Ana", index.lastQ)
	assert.Equal(t, 10, index.lastLen)

	_, err = svc.Search(ctx, "Ana", 500)
	require.NoError(t, err)
	assert.Equal(t, 10, index.lastLen)

	_, err = svc.Search(ctx, "Ana", 25)
	require.NoError(t, err)
	assert.Equal(t, 25, index.lastLen)

	index.err = errors.New("es down")
	_, err = svc.Search(ctx, "Ana", 5)
	requireCode(t, err, ErrStoreFailure)
}
