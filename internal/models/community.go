package models

import (
	"time"

	"gorm.io/gorm"
)

type Community struct {
	gorm.Model
	Name        string `gorm:"uniqueIndex;not null"`
	Description string `gorm:"type:text"`
	CreatorID   uint   `gorm:"index;not null"`
	CoverKey    string // object storage key
	MemberCount int    `gorm:"default:0"`
}

// CommunityMember rows are unique per (community, user).
type CommunityMember struct {
	ID          uint `gorm:"primarykey"`
	CommunityID uint `gorm:"uniqueIndex:idx_community_user;not null"`
	UserID      uint `gorm:"uniqueIndex:idx_community_user;not null"`
	Role        string `gorm:"default:'member'"` // member or moderator
	JoinedAt    time.Time
}

type CommunityPost struct {
	gorm.Model
	CommunityID  uint   `gorm:"index;not null"`
	AuthorID     uint   `gorm:"index;not null"`
	Body         string `gorm:"type:text;not null"`
	ImageKeys    StringList `gorm:"type:jsonb"`
	LikeCount    int `gorm:"default:0"`
	CommentCount int `gorm:"default:0"`
}

type PostComment struct {
	gorm.Model
	PostID   uint   `gorm:"index;not null"`
	AuthorID uint   `gorm:"index;not null"`
	Body     string `gorm:"type:text;not null"`
}

// PostLike rows are unique per (post, user).
type PostLike struct {
	ID        uint `gorm:"primarykey"`
	PostID    uint `gorm:"uniqueIndex:idx_post_user;not null"`
	UserID    uint `gorm:"uniqueIndex:idx_post_user;not null"`
	CreatedAt time.Time
}
