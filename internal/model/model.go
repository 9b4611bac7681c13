package model

// All lists every persisted record type in migration order.
func All() []any {
	return []any{&User{}, &Chain{}, &Burger{}, &BurgerRating{}, &Review{}}
}
