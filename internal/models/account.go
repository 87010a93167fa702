// Package models содержит доменные сущности session-service.
package models

// Role — роль аккаунта в системе учёта коммитов.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// Valid сообщает, является ли роль одной из известных.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStudent
}

// Account — аккаунт из хранилища пользователей.
// Сервис сессий только читает его и никогда не изменяет.
type Account struct {
	ID       string
	Username string
	Role     Role
	IsActive bool
}
