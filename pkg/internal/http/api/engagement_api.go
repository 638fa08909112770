package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/UID-Technologies/acado-engagement/pkg/internal/http/exts"
	"github.com/UID-Technologies/acado-engagement/pkg/internal/models"
	"github.com/gofiber/fiber/v2"
)

func parseID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}

// getPostDetail selects a cached row into the detail slot and returns
// it. Detail reads go through the entity table, so the slot follows
// every later patch to the same post.
func getPostDetail(c *fiber.Ctx) error {
	id, err := parseID(c, "postId")
	if err != nil {
		return err
	}

	post, ok := engagement.FindPost(id)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("post %d is not cached in any view", id))
	}
	engagement.SelectPost(post)

	return c.JSON(post)
}

func reactPost(c *fiber.Ctx) error {
	id, err := parseID(c, "postId")
	if err != nil {
		return err
	}

	var data struct {
		RepostID int64 `json:"repost_id"`
	}
	if len(c.Body()) > 0 {
		if err := exts.BindAndValidate(c, &data); err != nil {
			return err
		}
	}

	var post models.Post
	var ok bool
	if data.RepostID > 0 {
		post, ok = engagement.FindRepost(data.RepostID)
	} else {
		post, ok = engagement.FindPost(id)
	}
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("post %d is not cached in any view", id))
	}

	if err := engagement.LikeDislike(c.UserContext(), post); err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	target, _ := post.EngagementTarget()
	patched, _ := engagement.FindPost(post.ID)
	if post.Repost != nil {
		patched, _ = engagement.FindRepost(post.Repost.ID)
	}
	return c.JSON(fiber.Map{
		"target": target,
		"post":   patched,
	})
}

func listPostComments(c *fiber.Ctx) error {
	id, err := parseID(c, "postId")
	if err != nil {
		return err
	}

	if err := engagement.FetchComments(c.UserContext(), id); err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	return c.JSON(engagement.Comments())
}

func createPostComment(c *fiber.Ctx) error {
	id, err := parseID(c, "postId")
	if err != nil {
		return err
	}

	var data struct {
		Content string `json:"content" validate:"required"`
		Repost  bool   `json:"repost"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}
	if len(strings.TrimSpace(data.Content)) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "comment content cannot be empty")
	}

	if err := engagement.SendComment(c.UserContext(), id, data.Content, data.Repost); err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	return c.JSON(engagement.Comments())
}

func createRepost(c *fiber.Ctx) error {
	id, err := parseID(c, "postId")
	if err != nil {
		return err
	}

	var data struct {
		Description  string  `json:"description" validate:"required"`
		CommunityIDs []int64 `json:"community_ids"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := engagement.Repost(c.UserContext(), id, data.Description, data.CommunityIDs); err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	return c.JSON(engagement.View(models.ViewPosts))
}

func updateRepost(c *fiber.Ctx) error {
	id, err := parseID(c, "repostId")
	if err != nil {
		return err
	}

	var data struct {
		Description  string  `json:"description" validate:"required"`
		CommunityIDs []int64 `json:"community_ids"`
		Status       string  `json:"status"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := engagement.UpdateRepost(c.UserContext(), id, data.Description, data.CommunityIDs, data.Status); err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	return c.JSON(engagement.View(models.ViewPosts))
}

func deletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "postId")
	if err != nil {
		return err
	}

	if err := engagement.DeletePost(c.UserContext(), id); err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	return c.SendStatus(fiber.StatusNoContent)
}
