package models

// PageQuery is the bare cursor pagination query.
type PageQuery struct {
	Limit  int   `query:"limit" validate:"omitempty,min=1,max=100"`
	Cursor int64 `query:"cursor"`
}
