// Package community covers farmer groups: membership, posts, comments and
// likes. Posting requires membership; moderation is limited to authors
// deleting their own posts and admins deleting anything.
package community

import (
	"errors"
	"fmt"

	"agromart/internal/models"
	"agromart/internal/repositories"
)

var (
	ErrCommunityNotFound = errors.New("community not found")
	ErrPostNotFound      = errors.New("post not found")
	ErrNotMember         = errors.New("join the community before posting")
	ErrAlreadyMember     = errors.New("already a member")
	ErrAlreadyLiked      = errors.New("already liked")
	ErrNotAuthor         = errors.New("only the author can delete this post")
	ErrMissingContent    = errors.New("content is required")
)

type Service interface {
	CreateCommunity(creatorID uint, name, description, coverKey string) (*models.Community, error)
	GetCommunity(communityID uint) (*models.Community, error)
	ListCommunities(limit, offset int) ([]models.Community, int64, error)

	Join(communityID, userID uint) error
	Leave(communityID, userID uint) error

	CreatePost(communityID, authorID uint, body string, imageKeys []string) (*models.CommunityPost, error)
	DeletePost(postID, requesterID uint, isAdmin bool) error
	Feed(communityID uint, limit, offset int) ([]models.CommunityPost, int64, error)

	Comment(postID, authorID uint, body string) (*models.PostComment, error)
	ListComments(postID uint, limit, offset int) ([]models.PostComment, error)

	Like(postID, userID uint) error
	Unlike(postID, userID uint) error
}

type service struct {
	repo repositories.CommunityRepository
}

func NewService(repo repositories.CommunityRepository) Service {
	if repo == nil {
		panic("community repository is required")
	}
	return &service{repo: repo}
}

func (s *service) CreateCommunity(creatorID uint, name, description, coverKey string) (*models.Community, error) {
	if name == "" {
		return nil, errors.New("name is required")
	}
	c := &models.Community{
		CreatorID:   creatorID,
		Name:        name,
		Description: description,
		CoverKey:    coverKey,
	}
	if err := s.repo.Create(c); err != nil {
		return nil, fmt.Errorf("failed to create community: %w", err)
	}
	return c, nil
}

func (s *service) GetCommunity(communityID uint) (*models.Community, error) {
	c, err := s.repo.GetByID(communityID)
	if err != nil {
		if errors.Is(err, repositories.ErrCommunityNotFound) {
			return nil, ErrCommunityNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *service) ListCommunities(limit, offset int) ([]models.Community, int64, error) {
	return s.repo.List(limit, offset)
}

func (s *service) Join(communityID, userID uint) error {
	if _, err := s.GetCommunity(communityID); err != nil {
		return err
	}
	if err := s.repo.AddMember(communityID, userID); err != nil {
		if errors.Is(err, repositories.ErrAlreadyMember) {
			return ErrAlreadyMember
		}
		return fmt.Errorf("failed to join community: %w", err)
	}
	return nil
}

func (s *service) Leave(communityID, userID uint) error {
	if err := s.repo.RemoveMember(communityID, userID); err != nil {
		if errors.Is(err, repositories.ErrNotMember) {
			return ErrNotMember
		}
		return fmt.Errorf("failed to leave community: %w", err)
	}
	return nil
}

func (s *service) CreatePost(communityID, authorID uint, body string, imageKeys []string) (*models.CommunityPost, error) {
	if body == "" && len(imageKeys) == 0 {
		return nil, ErrMissingContent
	}

	member, err := s.repo.IsMember(communityID, authorID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotMember
	}

	post := &models.CommunityPost{
		CommunityID: communityID,
		AuthorID:    authorID,
		Body:        body,
		ImageKeys:   models.StringList(imageKeys),
	}
	if err := s.repo.CreatePost(post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

func (s *service) DeletePost(postID, requesterID uint, isAdmin bool) error {
	post, err := s.repo.GetPost(postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if !isAdmin && post.AuthorID != requesterID {
		return ErrNotAuthor
	}
	return s.repo.DeletePost(postID, post.AuthorID)
}

func (s *service) Feed(communityID uint, limit, offset int) ([]models.CommunityPost, int64, error) {
	return s.repo.Feed(communityID, limit, offset)
}

func (s *service) Comment(postID, authorID uint, body string) (*models.PostComment, error) {
	if body == "" {
		return nil, ErrMissingContent
	}
	post, err := s.repo.GetPost(postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	member, err := s.repo.IsMember(post.CommunityID, authorID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotMember
	}

	comment := &models.PostComment{
		PostID:   postID,
		AuthorID: authorID,
		Body:     body,
	}
	if err := s.repo.CreateComment(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

func (s *service) ListComments(postID uint, limit, offset int) ([]models.PostComment, error) {
	return s.repo.ListComments(postID, limit, offset)
}

func (s *service) Like(postID, userID uint) error {
	if err := s.repo.Like(postID, userID); err != nil {
		if errors.Is(err, repositories.ErrAlreadyLiked) {
			return ErrAlreadyLiked
		}
		if errors.Is(err, repositories.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to like post: %w", err)
	}
	return nil
}

func (s *service) Unlike(postID, userID uint) error {
	return s.repo.Unlike(postID, userID)
}
