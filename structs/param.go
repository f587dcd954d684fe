package structs

// CatalogImportQueueParam is the body of a catalog-import queue message.
type CatalogImportQueueParam struct {
	Type      string `json:"type" form:"type"`
	Path      string `json:"path" form:"path"`
	TaskID    uint   `json:"task_id" form:"task_id"`
	Result    string `json:"result" form:"result"`
	QueueType string `json:"queue_type" form:"queue_type"`
}

// MismatchQueueResponse is posted back when a message lands on the wrong queue.
type MismatchQueueResponse struct {
	TaskId    uint   `json:"task_id"`
	Queue     string `json:"queue"`
	QueueType string `json:"queue_type"`
}

// IngredientFilter enumerates the query keys GET /api/ingredients/ accepts.
type IngredientFilter struct {
	Name string `form:"name"`
}

// RecipeFilter enumerates the query keys GET /api/recipes/ accepts.
type RecipeFilter struct {
	Tags             []string `form:"tags"`
	Author           uint     `form:"author"`
	IsFavorited      string   `form:"is_favorited"`
	IsInShoppingCart string   `form:"is_in_shopping_cart"`
}

// PageParam is the page-number pagination query.
type PageParam struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

type SubscriptionParam struct {
	PageParam
	RecipesLimit string `form:"recipes_limit"`
}

type ShoppingListParam struct {
	Format string `form:"format"`
}

const maxPageLimit = 100

// Normalize applies defaultLimit and clamps page and limit to usable values.
func (p PageParam) Normalize(defaultLimit int) (page, limit, offset int) {
	page, limit = p.Page, p.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit < 1 {
		limit = 10
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit, (page - 1) * limit
}
