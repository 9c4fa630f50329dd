package models

// All lists the relational models in migration order.
func All() []any {
	return []any{
		&User{},
		&UserPhoto{},
		&Organization{},
		&Location{},
		&Event{},
		&EventPhoto{},
		&EventLike{},
		&EventShare{},
		&Friendship{},
		&Notification{},
	}
}
