package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/pixcredit/internal/domain/entity"
	"github.com/oksasatya/pixcredit/internal/infrastructure/cache"
	"github.com/oksasatya/pixcredit/pkg/apperror"
	"github.com/oksasatya/pixcredit/pkg/helpers"
)

func (f *fixture) imageService(gen ImageGenerator, store ObjectStore) *ImageService {
	return NewImageService(f.store, memImages{f.store}, nil, gen, store, f.credits, helpers.NewNopLogger())
}

func TestImageService_Generate(t *testing.T) {
	f := newFixture(t)
	u := seedUser(t, f, 2)
	gen := &mockGenerator{}
	store := &mockObjectStore{}
	png := []byte("png-bytes")
	gen.On("Generate", mock.Anything, "a red fox").Return(png, nil)
	store.On("Upload", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.HasPrefix(p, "images/"+u.ID+"/")
	}), "image/png", png).Return("https://storage.googleapis.com/b/x.png", nil)

	_, err := f.creditService().Balance(context.Background(), u.ID)
	require.NoError(t, err)
	require.True(t, f.mr.Exists(cache.CreditsKey(u.ID)))

	svc := f.imageService(gen, store)
	res, err := svc.Generate(context.Background(), u.ID, "a red fox")
	require.NoError(t, err)
	assert.Equal(t, 1, res.CreditBalance)
	assert.True(t, strings.HasPrefix(res.Image, "data:image/png;base64,"))
	assert.Equal(t, "https://storage.googleapis.com/b/x.png", res.StorageURL)
	assert.False(t, f.mr.Exists(cache.CreditsKey(u.ID)))

	hist, err := svc.History(context.Background(), u.ID, "")
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, "a red fox", hist[0].Prompt)
}

func TestImageService_Generate_NoCredits(t *testing.T) {
	f := newFixture(t)
	u := seedUser(t, f, 0)
	gen := &mockGenerator{}

	_, err := f.imageService(gen, nil).Generate(context.Background(), u.ID, "x")
	require.True(t, errors.Is(err, apperror.ErrInsufficientCredits))
	assert.Equal(t, balanceData{CreditBalance: 0}, apperror.From(err).Data)
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestImageService_Generate_FailureChargesNothing(t *testing.T) {
	f := newFixture(t)
	u := seedUser(t, f, 1)
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, "x").Return(nil, apperror.ExternalService("image generation failed", nil))

	_, err := f.imageService(gen, nil).Generate(context.Background(), u.ID, "x")
	require.Error(t, err)

	got, _ := f.store.GetByID(context.Background(), u.ID)
	assert.Equal(t, 1, got.CreditBalance)
}

func TestImageService_Generate_UploadFailureStillSucceeds(t *testing.T) {
	f := newFixture(t)
	u := seedUser(t, f, 1)
	gen := &mockGenerator{}
	store := &mockObjectStore{}
	gen.On("Generate", mock.Anything, "x").Return([]byte("png"), nil)
	store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("gcs down"))

	res, err := f.imageService(gen, store).Generate(context.Background(), u.ID, "x")
	require.NoError(t, err)
	assert.Equal(t, 0, res.CreditBalance)
	assert.Empty(t, res.StorageURL)
}

type failingIndex struct{ searched int }

func (i *failingIndex) Index(context.Context, *entity.GeneratedImage) error {
	return errors.New("es down")
}

func (i *failingIndex) Search(context.Context, string, string, int) ([]entity.GeneratedImage, error) {
	i.searched++
	return nil, errors.New("es down")
}

func TestImageService_History_FallsBackToStore(t *testing.T) {
	f := newFixture(t)
	u := seedUser(t, f, 1)
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, "a lighthouse").Return([]byte("png"), nil)
	idx := &failingIndex{}
	svc := NewImageService(f.store, memImages{f.store}, idx, gen, nil, f.credits, helpers.NewNopLogger())

	_, err := svc.Generate(context.Background(), u.ID, "a lighthouse")
	require.NoError(t, err)

	hist, err := svc.History(context.Background(), u.ID, "lighthouse")
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, 1, idx.searched)
	assert.Empty(t, hist[0].StorageURL)
}
