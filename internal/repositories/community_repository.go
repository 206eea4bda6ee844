package repositories

import (
	"errors"
	"time"

	"agromart/internal/models"

	"gorm.io/gorm"
)

var (
	ErrCommunityNotFound = errors.New("community not found")
	ErrPostNotFound      = errors.New("post not found")
	ErrAlreadyMember     = errors.New("already a member of this community")
	ErrNotMember         = errors.New("not a member of this community")
	ErrAlreadyLiked      = errors.New("post already liked")
)

type CommunityRepository interface {
	Create(community *models.Community) error
	GetByID(id uint) (*models.Community, error)
	List(limit, offset int) ([]models.Community, int64, error)

	AddMember(communityID, userID uint) error
	RemoveMember(communityID, userID uint) error
	IsMember(communityID, userID uint) (bool, error)

	CreatePost(post *models.CommunityPost) error
	GetPost(postID uint) (*models.CommunityPost, error)
	DeletePost(postID, authorID uint) error
	Feed(communityID uint, limit, offset int) ([]models.CommunityPost, int64, error)

	CreateComment(comment *models.PostComment) error
	ListComments(postID uint, limit, offset int) ([]models.PostComment, error)

	Like(postID, userID uint) error
	Unlike(postID, userID uint) error
}

type communityRepository struct {
	db *gorm.DB
}

func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

func (r *communityRepository) Create(community *models.Community) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(community).Error; err != nil {
			return err
		}
		// Creator joins automatically as moderator.
		member := &models.CommunityMember{
			CommunityID: community.ID,
			UserID:      community.CreatorID,
			Role:        "moderator",
			JoinedAt:    time.Now(),
		}
		if err := tx.Create(member).Error; err != nil {
			return err
		}
		return tx.Model(community).UpdateColumn("member_count", 1).Error
	})
}

func (r *communityRepository) GetByID(id uint) (*models.Community, error) {
	var community models.Community
	if err := r.db.First(&community, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCommunityNotFound
		}
		return nil, err
	}
	return &community, nil
}

func (r *communityRepository) List(limit, offset int) ([]models.Community, int64, error) {
	var total int64
	if err := r.db.Model(&models.Community{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var communities []models.Community
	err := r.db.Order("member_count DESC").Limit(limit).Offset(offset).Find(&communities).Error
	return communities, total, err
}

func (r *communityRepository) AddMember(communityID, userID uint) error {
	member := &models.CommunityMember{
		CommunityID: communityID,
		UserID:      userID,
		JoinedAt:    time.Now(),
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(member).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyMember
			}
			return err
		}
		return tx.Model(&models.Community{}).Where("id = ?", communityID).
			UpdateColumn("member_count", gorm.Expr("member_count + 1")).Error
	})
}

func (r *communityRepository) RemoveMember(communityID, userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("community_id = ? AND user_id = ?", communityID, userID).
			Delete(&models.CommunityMember{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotMember
		}
		return tx.Model(&models.Community{}).Where("id = ? AND member_count > 0", communityID).
			UpdateColumn("member_count", gorm.Expr("member_count - 1")).Error
	})
}

func (r *communityRepository) IsMember(communityID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).Count(&count).Error
	return count > 0, err
}

func (r *communityRepository) CreatePost(post *models.CommunityPost) error {
	return r.db.Create(post).Error
}

func (r *communityRepository) GetPost(postID uint) (*models.CommunityPost, error) {
	var post models.CommunityPost
	if err := r.db.First(&post, postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *communityRepository) DeletePost(postID, authorID uint) error {
	result := r.db.Where("id = ? AND author_id = ?", postID, authorID).
		Delete(&models.CommunityPost{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *communityRepository) Feed(communityID uint, limit, offset int) ([]models.CommunityPost, int64, error) {
	var total int64
	if err := r.db.Model(&models.CommunityPost{}).Where("community_id = ?", communityID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.CommunityPost
	err := r.db.Where("community_id = ?", communityID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&posts).Error
	return posts, total, err
}

func (r *communityRepository) CreateComment(comment *models.PostComment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.CommunityPost{}).Where("id = ?", comment.PostID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error
	})
}

func (r *communityRepository) ListComments(postID uint, limit, offset int) ([]models.PostComment, error) {
	var comments []models.PostComment
	err := r.db.Where("post_id = ?", postID).
		Order("created_at ASC").Limit(limit).Offset(offset).Find(&comments).Error
	return comments, err
}

func (r *communityRepository) Like(postID, userID uint) error {
	like := &models.PostLike{PostID: postID, UserID: userID}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(like).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyLiked
			}
			return err
		}
		return tx.Model(&models.CommunityPost{}).Where("id = ?", postID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
	})
}

func (r *communityRepository) Unlike(postID, userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("post_id = ? AND user_id = ?", postID, userID).
			Delete(&models.PostLike{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil // unliking something never liked is a no-op
		}
		return tx.Model(&models.CommunityPost{}).Where("id = ? AND like_count > 0", postID).
			UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error
	})
}
