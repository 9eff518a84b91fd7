package model

import "time"

type MenuItem struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name        string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Price       int       `json:"price" bson:"price" validate:"required,min=1"`
	Taste       string    `json:"taste,omitempty" bson:"taste,omitempty" validate:"omitempty,oneof=sweet sour spicy"`
	IsDrink     bool      `json:"is_drink" bson:"is_drink"`
	Ingredients []string  `json:"ingredients" bson:"ingredients" validate:"omitempty,max=30,dive,min=1,max=60"`
	NumSales    int       `json:"num_sales" bson:"num_sales" validate:"omitempty,min=0"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

type MenuItemUpdate struct {
	Name        string    `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Price       *int      `json:"price,omitempty" validate:"omitempty,min=1"`
	Taste       string    `json:"taste,omitempty" validate:"omitempty,oneof=sweet sour spicy"`
	IsDrink     *bool     `json:"is_drink,omitempty"`
	Ingredients *[]string `json:"ingredients,omitempty" validate:"omitempty,max=30,dive,min=1,max=60"`
	NumSales    *int      `json:"num_sales,omitempty" validate:"omitempty,min=0"`
}
