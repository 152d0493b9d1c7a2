package model

// OpenPlayerRequest opens a new player session for a course, addressed by
// ID or by slug (exactly one must be provided).
type OpenPlayerRequest struct {
	CourseID string `json:"course_id" binding:"omitempty,uuid"`
	Slug     string `json:"slug" binding:"omitempty,min=1,max=255"`
}

// SelectItemRequest changes the player's current item.
type SelectItemRequest struct {
	Kind   string `json:"kind" binding:"required,oneof=content assignment session"`
	ItemID string `json:"item_id" binding:"required,uuid"`
}
