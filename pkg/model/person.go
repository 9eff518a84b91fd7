package model

import "time"

const (
	WorkChef    = "chef"
	WorkWaiter  = "waiter"
	WorkManager = "manager"
)

// Person is a staff member and, through its credentials, a login account.
// Password carries the plaintext on signup/login requests only; the stored
// bcrypt hash never leaves the service.
type Person struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Username     string    `json:"username" bson:"username" validate:"required,alphanum,min=3,max=30"`
	Password     string    `json:"password,omitempty" bson:"-" validate:"omitempty,min=8,max=72"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Work         string    `json:"work" bson:"work" validate:"required,oneof=chef waiter manager"`
	Mobile       string    `json:"mobile" bson:"mobile" validate:"required,min=7,max=20"`
	Email        string    `json:"email" bson:"email" validate:"required,email"`
	Age          int       `json:"age,omitempty" bson:"age,omitempty" validate:"omitempty,min=16,max=100"`
	Address      string    `json:"address,omitempty" bson:"address,omitempty" validate:"omitempty,max=300"`
	Salary       int       `json:"salary,omitempty" bson:"salary,omitempty" validate:"omitempty,min=0"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

type PersonUpdate struct {
	Name    string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Work    string `json:"work,omitempty" validate:"omitempty,oneof=chef waiter manager"`
	Mobile  string `json:"mobile,omitempty" validate:"omitempty,min=7,max=20"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Age     *int   `json:"age,omitempty" validate:"omitempty,min=16,max=100"`
	Address string `json:"address,omitempty" validate:"omitempty,max=300"`
	Salary  *int   `json:"salary,omitempty" validate:"omitempty,min=0"`
}

type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
