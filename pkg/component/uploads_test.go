package component_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formwire/pkg/component"
	"github.com/goliatone/go-formwire/pkg/field"
)

func TestCommitStopsAtFirstFailure(t *testing.T) {
	host := &profileHost{fields: []field.Field{
		field.File("resume").InDirectory("docs"),
		field.File("avatar").OnDisk("public").Public(),
		field.File("cover").InDirectory("covers"),
	}}
	h := newHarness(t, host)
	h.stage(t, "resume", "cv.pdf", "%PDF-1.4")
	h.stage(t, "avatar", "me.png", "\x89PNG")
	h.stage(t, "cover", "cover.png", "\x89PNG")

	boom := errors.New("bucket offline")
	h.public.FailWith(boom)

	err := h.component.StoreTemporaryUploadedFiles(context.Background())

	var persistErr *component.PersistError
	require.ErrorAs(t, err, &persistErr)
	require.ErrorIs(t, err, boom)
	require.Equal(t, "avatar", persistErr.Field)
	require.Equal(t, []string{"resume"}, persistErr.Persisted)

	require.NotEmpty(t, h.component.Properties().String("resume"))
	require.Len(t, h.local.Paths(), 1)

	_, staged := h.component.TemporaryUploadedFile("avatar")
	require.True(t, staged)
	_, staged = h.component.TemporaryUploadedFile("cover")
	require.True(t, staged)
}

func TestCommitPrivateUpload(t *testing.T) {
	h := newHarness(t, &profileHost{fields: []field.Field{field.File("resume").InDirectory("docs")}})
	h.stage(t, "resume", "cv.pdf", "%PDF-1.4")

	require.NoError(t, h.component.StoreTemporaryUploadedFiles(context.Background()))

	stored := h.component.Properties().String("resume")
	require.False(t, h.local.IsPublic(stored))
	data, ok := h.local.Contents(stored)
	require.True(t, ok)
	require.Equal(t, "%PDF-1.4", string(data))
}

func TestCommitWithNothingStaged(t *testing.T) {
	h := newHarness(t, &profileHost{fields: avatarTree()})
	h.component.Set("avatar", "avatars/existing.png")

	require.NoError(t, h.component.StoreTemporaryUploadedFiles(context.Background()))
	require.Equal(t, "avatars/existing.png", h.component.Properties().String("avatar"))
	require.Empty(t, h.public.Paths())
}

func TestStageNilClearsEntry(t *testing.T) {
	h := newHarness(t, &profileHost{fields: avatarTree()})
	h.stage(t, "avatar", "me.png", "\x89PNG")

	h.component.Stage("avatar", nil)
	_, staged := h.component.TemporaryUploadedFile("avatar")
	require.False(t, staged)
}

func TestRemoveUploadedFile(t *testing.T) {
	h := newHarness(t, &profileHost{fields: avatarTree()})
	h.component.Set("avatar", "avatars/old.png")
	h.stage(t, "avatar", "me.png", "\x89PNG")

	h.component.RemoveUploadedFile("avatar")

	_, ok := h.component.Get("avatar")
	require.False(t, ok)
	_, staged := h.component.TemporaryUploadedFile("avatar")
	require.False(t, staged)

	url, err := h.component.UploadedFileURL("avatar", "public")
	require.NoError(t, err)
	require.Empty(t, url)
}
