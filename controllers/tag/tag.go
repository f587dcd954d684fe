package tag

import (
	"net/http"

	"foodgram-backend/controllers/respond"
	"foodgram-backend/services/presenter"
	tagService "foodgram-backend/services/tag"
	"foodgram-backend/structs"

	"github.com/gin-gonic/gin"
)

type TagController struct {
	tags *tagService.TagService
}

func NewTagController(tags *tagService.TagService) *TagController {
	return &TagController{tags: tags}
}

func (tc *TagController) List(c *gin.Context) {
	tags, err := tc.tags.List()
	if err != nil {
		respond.Error(c, err)
		return
	}
	responses := make([]structs.TagResponse, 0, len(tags))
	for _, tag := range tags {
		responses = append(responses, presenter.Tag(tag))
	}
	c.JSON(http.StatusOK, responses)
}

func (tc *TagController) Get(c *gin.Context) {
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}
	tag, err := tc.tags.Get(id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, presenter.Tag(tag))
}
