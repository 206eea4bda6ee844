package handlers

import (
	"errors"

	"agromart/internal/models"
	"agromart/internal/services/community"
	"agromart/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type CommunityHandler struct {
	communityService community.Service
}

func NewCommunityHandler(communityService community.Service) *CommunityHandler {
	return &CommunityHandler{communityService: communityService}
}

func (h *CommunityHandler) Create(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		CoverKey    string `json:"cover_key"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	created, err := h.communityService.CreateCommunity(userID, input.Name, input.Description, input.CoverKey)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}
	return utils.Created(c, created)
}

func (h *CommunityHandler) List(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, 100)
	communities, total, err := h.communityService.ListCommunities(p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to load communities")
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(communities, p))
}

func (h *CommunityHandler) Get(c *fiber.Ctx) error {
	communityID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid community id")
	}

	found, err := h.communityService.GetCommunity(communityID)
	if err != nil {
		return utils.NotFound(c, "Community not found")
	}
	return utils.Success(c, found)
}

func (h *CommunityHandler) Join(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}
	communityID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid community id")
	}

	if err := h.communityService.Join(communityID, userID); err != nil {
		switch {
		case errors.Is(err, community.ErrCommunityNotFound):
			return utils.NotFound(c, "Community not found")
		case errors.Is(err, community.ErrAlreadyMember):
			return utils.Conflict(c, "Already a member")
		}
		return utils.InternalError(c, "Failed to join community")
	}
	return utils.Success(c, fiber.Map{"message": "Joined community"})
}

func (h *CommunityHandler) Leave(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}
	communityID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid community id")
	}

	if err := h.communityService.Leave(communityID, userID); err != nil {
		if errors.Is(err, community.ErrNotMember) {
			return utils.BadRequest(c, "Not a member of this community")
		}
		return utils.InternalError(c, "Failed to leave community")
	}
	return utils.Success(c, fiber.Map{"message": "Left community"})
}

func (h *CommunityHandler) CreatePost(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}
	communityID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid community id")
	}

	var input struct {
		Body      string   `json:"body"`
		ImageKeys []string `json:"image_keys"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	post, err := h.communityService.CreatePost(communityID, userID, input.Body, input.ImageKeys)
	if err != nil {
		switch {
		case errors.Is(err, community.ErrNotMember):
			return utils.Forbidden(c, "Join the community before posting")
		case errors.Is(err, community.ErrMissingContent):
			return utils.BadRequest(c, "Post cannot be empty")
		}
		return utils.InternalError(c, "Failed to create post")
	}
	return utils.Created(c, post)
}

func (h *CommunityHandler) Feed(c *fiber.Ctx) error {
	communityID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid community id")
	}

	p := utils.GetPagination(c, 1, 100)
	posts, total, err := h.communityService.Feed(communityID, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to load feed")
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(posts, p))
}

func (h *CommunityHandler) DeletePost(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}
	postID, err := parseIDParam(c, "postID")
	if err != nil {
		return utils.BadRequest(c, "Invalid post id")
	}

	err = h.communityService.DeletePost(postID, claims.UserID, claims.Role == models.RoleAdmin)
	if err != nil {
		switch {
		case errors.Is(err, community.ErrPostNotFound):
			return utils.NotFound(c, "Post not found")
		case errors.Is(err, community.ErrNotAuthor):
			return utils.Forbidden(c, "You can only delete your own posts")
		}
		return utils.InternalError(c, "Failed to delete post")
	}
	return utils.Success(c, fiber.Map{"message": "Post deleted"})
}

func (h *CommunityHandler) Comment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}
	postID, err := parseIDParam(c, "postID")
	if err != nil {
		return utils.BadRequest(c, "Invalid post id")
	}

	var input struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	comment, err := h.communityService.Comment(postID, userID, input.Body)
	if err != nil {
		switch {
		case errors.Is(err, community.ErrPostNotFound):
			return utils.NotFound(c, "Post not found")
		case errors.Is(err, community.ErrNotMember):
			return utils.Forbidden(c, "Join the community before commenting")
		case errors.Is(err, community.ErrMissingContent):
			return utils.BadRequest(c, "Comment cannot be empty")
		}
		return utils.InternalError(c, "Failed to comment")
	}
	return utils.Created(c, comment)
}

func (h *CommunityHandler) ListComments(c *fiber.Ctx) error {
	postID, err := parseIDParam(c, "postID")
	if err != nil {
		return utils.BadRequest(c, "Invalid post id")
	}

	p := utils.GetPagination(c, 1, 100)
	comments, err := h.communityService.ListComments(postID, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to load comments")
	}
	return utils.Success(c, comments)
}

func (h *CommunityHandler) Like(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}
	postID, err := parseIDParam(c, "postID")
	if err != nil {
		return utils.BadRequest(c, "Invalid post id")
	}

	if err := h.communityService.Like(postID, userID); err != nil {
		switch {
		case errors.Is(err, community.ErrPostNotFound):
			return utils.NotFound(c, "Post not found")
		case errors.Is(err, community.ErrAlreadyLiked):
			return utils.Conflict(c, "Already liked")
		}
		return utils.InternalError(c, "Failed to like post")
	}
	return utils.Success(c, fiber.Map{"message": "Liked"})
}

func (h *CommunityHandler) Unlike(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}
	postID, err := parseIDParam(c, "postID")
	if err != nil {
		return utils.BadRequest(c, "Invalid post id")
	}

	if err := h.communityService.Unlike(postID, userID); err != nil {
		return utils.InternalError(c, "Failed to unlike post")
	}
	return utils.Success(c, fiber.Map{"message": "Unliked"})
}
