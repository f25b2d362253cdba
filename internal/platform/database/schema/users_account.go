// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns the repositories query.
package schema

import "strings"

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table     string
	ID        string
	Username  string
	Email     string
	Password  string
	Role      string
	CreatedAt string
	UpdatedAt string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:     "users.account",
	ID:        "id",
	Username:  "username",
	Email:     "email",
	Password:  "passwordhash",
	Role:      "role",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// PublicColumns lists the columns of the public projection, in scan order.
func (t UserAccountTable) PublicColumns() []string {
	return []string{t.ID, t.Username, t.Email, t.Role, t.CreatedAt, t.UpdatedAt}
}

// List joins column names for a SELECT list.
func List(columns []string) string {
	return strings.Join(columns, ", ")
}
