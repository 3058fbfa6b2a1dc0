package dto

import "time"

type CreateTodoRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=200" example:"Complete project documentation"`
	Description string `json:"description" binding:"max=2000"`
	Priority    string `json:"priority" binding:"omitempty,oneof=HIGH MEDIUM LOW" example:"MEDIUM"`
	DueDate     string `json:"dueDate" example:"2024-12-31T23:59:59.000Z"` // optional: "2026-02-19" or RFC3339
	IsPinned    bool   `json:"isPinned"`
}

// UpdateTodoRequest is a partial update: absent keys are left unchanged,
// "dueDate": null or "" clears the due date.
type UpdateTodoRequest struct {
	Title       Optional[string] `json:"title" swaggertype:"string"`
	Description Optional[string] `json:"description" swaggertype:"string"`
	Priority    Optional[string] `json:"priority" swaggertype:"string" enums:"HIGH,MEDIUM,LOW"`
	DueDate     Optional[string] `json:"dueDate" swaggertype:"string"`
	Completed   Optional[bool]   `json:"completed" swaggertype:"boolean"`
	IsPinned    Optional[bool]   `json:"isPinned" swaggertype:"boolean"`
}

// ListTodosQuery is bound from the query string of GET /todos.
type ListTodosQuery struct {
	Completed *bool  `form:"completed"`
	Priority  string `form:"priority" binding:"omitempty,oneof=HIGH MEDIUM LOW"`
	Search    string `form:"search"`
	SortBy    string `form:"sortBy" binding:"omitempty,oneof=createdAt priority dueDate title"`
	SortOrder string `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

type TodoResponse struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Priority    string        `json:"priority"`
	DueDate     *time.Time    `json:"dueDate"`
	Completed   bool          `json:"completed"`
	IsPinned    bool          `json:"isPinned"`
	UserID      string        `json:"userId"`
	User        *UserResponse `json:"user,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type PaginationResponse struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type ListTodosResponse struct {
	Items      []TodoResponse     `json:"items"`
	Pagination PaginationResponse `json:"pagination"`
}

type PriorityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

type StatsResponse struct {
	Total     int            `json:"total"`
	Completed int            `json:"completed"`
	Pending   int            `json:"pending"`
	Priority  PriorityCounts `json:"priority"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
