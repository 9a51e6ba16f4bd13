package domain

import (
	"time"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

type User struct {
	ID           string    `json:"_id" bson:"_id" dynamodbav:"id"`
	Name         string    `json:"name" bson:"name" dynamodbav:"name"`
	Email        string    `json:"email" bson:"email" dynamodbav:"email"`
	PasswordHash string    `json:"-" bson:"password_hash" dynamodbav:"password_hash"`
	Role         Role      `json:"role" bson:"role" dynamodbav:"role"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at" dynamodbav:"updated_at"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateUserRequest struct {
	RegisterRequest
	Role Role `json:"role"`
}

type UserPatch struct {
	Name *string `json:"name"`
	Role *Role   `json:"role"`
}

type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
