package service

import (
	"errors"

	"github.com/tarekkmohamed/ecommerce-backend/internal/app/model"
	"github.com/tarekkmohamed/ecommerce-backend/internal/app/repository"
	"github.com/tarekkmohamed/ecommerce-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewAccessDenied  = errors.New("review access denied")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrReviewAlreadyExists = errors.New("you have already reviewed this product")
)

type ReviewService struct {
	reviewRepo  *repository.ReviewRepository
	productRepo repository.ProductRepository
}

func NewReviewService(reviewRepo *repository.ReviewRepository, productRepo repository.ProductRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

// CreateReview adds a review, one per user per product, and refreshes
// the product's rating aggregates.
func (s *ReviewService) CreateReview(userID, productID uint, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	existing, err := s.reviewRepo.GetReviewByUserAndProduct(userID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrReviewAlreadyExists
	}

	review := &model.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Comment:   comment,
	}

	if err := s.reviewRepo.CreateReview(review); err != nil {
		return nil, err
	}

	s.refreshRatingStats(productID)

	return s.reviewRepo.GetReviewByID(review.ID)
}

func (s *ReviewService) GetReview(id uint) (*model.Review, error) {
	review, err := s.reviewRepo.GetReviewByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) GetProductReviews(productID uint, page, pageSize int) ([]model.Review, int64, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrProductNotFound
		}
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	return s.reviewRepo.GetReviewsByProductID(productID, offset, pageSize)
}

func (s *ReviewService) GetUserReviews(userID uint, page, pageSize int) ([]model.Review, int64, error) {
	offset := (page - 1) * pageSize
	return s.reviewRepo.GetReviewsByUserID(userID, offset, pageSize)
}

// UpdateReview edits the author's own review and refreshes aggregates.
func (s *ReviewService) UpdateReview(reviewID, userID uint, rating *int, comment *string) (*model.Review, error) {
	review, err := s.reviewRepo.GetReviewByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	if review.UserID != userID {
		return nil, ErrReviewAccessDenied
	}

	if rating != nil {
		if *rating < 1 || *rating > 5 {
			return nil, ErrInvalidRating
		}
		review.Rating = *rating
	}
	if comment != nil {
		review.Comment = *comment
	}

	if err := s.reviewRepo.UpdateReview(review); err != nil {
		return nil, err
	}

	s.refreshRatingStats(review.ProductID)

	return review, nil
}

// DeleteReview removes a review. Authors delete their own; admins
// delete anything.
func (s *ReviewService) DeleteReview(reviewID, userID uint, isAdmin bool) error {
	review, err := s.reviewRepo.GetReviewByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	if review.UserID != userID && !isAdmin {
		return ErrReviewAccessDenied
	}

	if err := s.reviewRepo.DeleteReview(reviewID); err != nil {
		return err
	}

	s.refreshRatingStats(review.ProductID)
	return nil
}

// refreshRatingStats recomputes the product's denormalized average and
// count from the reviews table. Failures are logged but never bubble
// up: the review write already succeeded.
func (s *ReviewService) refreshRatingStats(productID uint) {
	count, average, err := s.reviewRepo.GetProductRatingStats(productID)
	if err != nil {
		logger.Error("Failed to compute product rating stats", err, map[string]interface{}{
			"product_id": productID,
		})
		return
	}

	if err := s.productRepo.UpdateRatingStats(productID, average, int(count)); err != nil {
		logger.Error("Failed to update product rating stats", err, map[string]interface{}{
			"product_id": productID,
		})
	}
}
