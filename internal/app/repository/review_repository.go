package repository

import (
	"github.com/tarekkmohamed/ecommerce-backend/internal/app/model"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) CreateReview(review *model.Review) error {
	return r.db.Create(review).Error
}

func (r *ReviewRepository) GetReviewByID(id uint) (*model.Review, error) {
	var review model.Review
	err := r.db.Preload("User").First(&review, id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) GetReviewByUserAndProduct(userID, productID uint) (*model.Review, error) {
	var review model.Review
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) GetReviewsByProductID(productID uint, offset, limit int) ([]model.Review, int64, error) {
	var reviews []model.Review
	var total int64

	query := r.db.Model(&model.Review{}).Where("product_id = ?", productID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("User").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

func (r *ReviewRepository) GetReviewsByUserID(userID uint, offset, limit int) ([]model.Review, int64, error) {
	var reviews []model.Review
	var total int64

	query := r.db.Model(&model.Review{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

func (r *ReviewRepository) UpdateReview(review *model.Review) error {
	return r.db.Save(review).Error
}

func (r *ReviewRepository) DeleteReview(id uint) error {
	return r.db.Delete(&model.Review{}, id).Error
}

// GetProductRatingStats returns the review count and average rating for
// a product, used to refresh the product's denormalized aggregates.
func (r *ReviewRepository) GetProductRatingStats(productID uint) (int64, float64, error) {
	var count int64
	if err := r.db.Model(&model.Review{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return 0, 0, err
	}

	var avg float64
	if count > 0 {
		if err := r.db.Model(&model.Review{}).
			Where("product_id = ?", productID).
			Select("AVG(rating)").
			Scan(&avg).Error; err != nil {
			return 0, 0, err
		}
	}

	return count, avg, nil
}
