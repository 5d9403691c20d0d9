package application

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pixcredit/internal/domain/entity"
	repo "github.com/oksasatya/pixcredit/internal/domain/repository"
	"github.com/oksasatya/pixcredit/pkg/apperror"
)

const historyLimit = 20

type ImageService struct {
	Users     repo.UserRepository
	Images    repo.ImageRepository
	Index     repo.ImageIndex
	Generator ImageGenerator
	Store     ObjectStore
	Credits   CreditStore
	Logger    *logrus.Logger
}

func NewImageService(users repo.UserRepository, images repo.ImageRepository, index repo.ImageIndex,
	gen ImageGenerator, store ObjectStore, credits CreditStore, logger *logrus.Logger) *ImageService {
	return &ImageService{
		Users:     users,
		Images:    images,
		Index:     index,
		Generator: gen,
		Store:     store,
		Credits:   credits,
		Logger:    logger,
	}
}

type GenerateResult struct {
	Image         string `json:"resultImage"`
	CreditBalance int    `json:"creditBalance"`
	StorageURL    string `json:"storageUrl,omitempty"`
}

type balanceData struct {
	CreditBalance int `json:"creditBalance"`
}

// Generate charges one credit for a successfully generated image. Nothing is
// charged when generation fails.
func (s *ImageService) Generate(ctx context.Context, userID, prompt string) (*GenerateResult, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.CreditBalance <= 0 {
		return nil, apperror.InsufficientCredits().WithData(balanceData{CreditBalance: u.CreditBalance})
	}

	png, err := s.Generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	balance, err := s.Users.ConsumeCredit(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrInsufficientCredits) {
			return nil, apperror.InsufficientCredits().WithData(balanceData{CreditBalance: 0})
		}
		return nil, err
	}
	s.invalidateCredits(ctx, userID)
	imagesGenerated.Inc()

	img := &entity.GeneratedImage{ID: uuid.NewString(), UserID: userID, Prompt: prompt}
	if s.Store != nil {
		objectPath := fmt.Sprintf("images/%s/%s.png", userID, img.ID)
		if url, err := s.Store.Upload(ctx, objectPath, "image/png", png); err != nil {
			s.warn(err, userID, "image upload failed")
		} else {
			img.StorageURL = url
		}
	}
	s.record(ctx, img)

	return &GenerateResult{
		Image:         "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		CreditBalance: balance,
		StorageURL:    img.StorageURL,
	}, nil
}

// History searches the user's generated images. The search index is used when
// configured, with the database as fallback.
func (s *ImageService) History(ctx context.Context, userID, query string) ([]entity.GeneratedImage, error) {
	if s.Index != nil {
		out, err := s.Index.Search(ctx, userID, query, historyLimit)
		if err == nil {
			return out, nil
		}
		s.warn(err, userID, "image index search failed")
	}
	return s.Images.Search(ctx, userID, query, historyLimit)
}

// record keeps history; failures here never undo a charged generation.
func (s *ImageService) record(ctx context.Context, img *entity.GeneratedImage) {
	if err := s.Images.Create(ctx, img); err != nil {
		s.warn(err, img.UserID, "image history write failed")
	}
	if s.Index != nil {
		if err := s.Index.Index(ctx, img); err != nil {
			s.warn(err, img.UserID, "image index write failed")
		}
	}
}

func (s *ImageService) invalidateCredits(ctx context.Context, userID string) {
	if s.Credits == nil {
		return
	}
	if err := s.Credits.Invalidate(ctx, userID); err != nil {
		s.warn(err, userID, "credits cache invalidation failed")
	}
}

func (s *ImageService) warn(err error, userID, msg string) {
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn(msg)
	}
}
