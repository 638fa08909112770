package api

import (
	"fmt"

	"github.com/UID-Technologies/acado-engagement/pkg/internal/http/exts"
	"github.com/UID-Technologies/acado-engagement/pkg/internal/models"
	"github.com/UID-Technologies/acado-engagement/pkg/internal/store"
	"github.com/gofiber/fiber/v2"
)

// getFeedView reads a view's current model, populating it lazily on
// first read. A failed lazy fetch still returns the (stale) view with
// its error field set, matching the stale-while-error contract.
func getFeedView(c *fiber.Ctx) error {
	view := models.ViewName(c.Params("view"))
	if !view.Valid() {
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("unknown view: %s", view))
	}

	params := store.FetchParams{
		CommunityID: int64(c.QueryInt("communityId")),
		IndustryID:  int64(c.QueryInt("industryId")),
		Tag:         c.Query("tag"),
	}

	if !engagement.Populated(view) || c.QueryBool("refresh", false) {
		_ = engagement.Fetch(c.UserContext(), view, params)
	}

	return c.JSON(engagement.View(view))
}

func refreshFeedView(c *fiber.Ctx) error {
	view := models.ViewName(c.Params("view"))
	if !view.Valid() {
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("unknown view: %s", view))
	}

	var data struct {
		CommunityID int64  `json:"community_id"`
		IndustryID  int64  `json:"industry_id"`
		Tag         string `json:"tag"`
	}
	if len(c.Body()) > 0 {
		if err := exts.BindAndValidate(c, &data); err != nil {
			return err
		}
	}

	if view == models.ViewCommunity && data.CommunityID <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "community_id is required for the community view")
	}
	if view == models.ViewIndustry && data.IndustryID <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "industry_id is required for the industry view")
	}

	params := store.FetchParams{
		CommunityID: data.CommunityID,
		IndustryID:  data.IndustryID,
		Tag:         data.Tag,
	}
	if err := engagement.Fetch(c.UserContext(), view, params); err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	return c.JSON(engagement.View(view))
}
