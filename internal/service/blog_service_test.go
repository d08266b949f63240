package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlogServiceCreateAndRead(t *testing.T) {
	env := setupServiceTestEnv(t)

	blog, err := env.blogs.Create(CreateBlogInput{
		AuthorID:    env.reader.UserID,
		Name:        "  Field Notes ",
		Description: "Notes from the field",
		Image:       &EncodedImage{Data: []byte{0x89, 0x50}, ContentType: "image/png"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Field Notes", blog.Name)
	assert.Equal(t, "image/png", blog.ContentType)

	got, err := env.blogs.Get(blog.ID)
	require.NoError(t, err)
	assert.Equal(t, blog.Name, got.Name)

	mine, err := env.blogs.ListByAuthor(env.reader.UserID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	all, total, err := env.blogs.List(1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)

	_, err = env.blogs.Get(0)
	assert.ErrorIs(t, err, ErrBlogNotFound)
	_, err = env.blogs.Get(blog.ID + 100)
	assert.ErrorIs(t, err, ErrBlogNotFound)
}

func TestBlogServiceCreateValidation(t *testing.T) {
	env := setupServiceTestEnv(t)

	_, err := env.blogs.Create(CreateBlogInput{AuthorID: env.reader.UserID, Name: "x", Description: ""})
	fieldErrs, ok := AsValidationError(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.True(t, fieldErrs.Has("name", "length"))
	assert.True(t, fieldErrs.Has("description", "required"))

	_, err = env.blogs.Create(CreateBlogInput{AuthorID: 4040, Name: "Orphan", Description: "No author"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
