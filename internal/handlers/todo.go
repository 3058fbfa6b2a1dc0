package handlers

import (
	"errors"
	"net/http"

	"github.com/birlikkoshan/todo-tracker/internal/auth"
	dom "github.com/birlikkoshan/todo-tracker/internal/domain"
	"github.com/birlikkoshan/todo-tracker/internal/dto"
	"github.com/birlikkoshan/todo-tracker/internal/logging"
	"github.com/birlikkoshan/todo-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type TodoHandler struct {
	svc *service.TodoService
	log logging.Logger
}

func NewTodoHandler(svc *service.TodoService, log logging.Logger) *TodoHandler {
	return &TodoHandler{svc: svc, log: log}
}

// Create godoc
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateTodoRequest  true  "Todo body"
// @Success      201   {object}  dto.TodoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	t, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), service.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    dom.Priority(req.Priority),
		DueDate:     req.DueDate,
		IsPinned:    req.IsPinned,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, todoToResponse(t))
}

// List godoc
// @Summary      List the caller's todos
// @Description  Pinned todos always come first. Sorting by priority ranks HIGH > MEDIUM > LOW.
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        completed  query     bool    false  "Filter by completion"
// @Param        priority   query     string  false  "Filter by priority"  Enums(HIGH, MEDIUM, LOW)
// @Param        search     query     string  false  "Case-insensitive match on title or description"
// @Param        sortBy     query     string  false  "Sort key"  Enums(createdAt, priority, dueDate, title)  default(createdAt)
// @Param        sortOrder  query     string  false  "Sort order"  Enums(asc, desc)  default(desc)
// @Param        page       query     int     false  "Page number"  default(1)
// @Param        limit      query     int     false  "Items per page"  default(10)
// @Success      200  {object}  dto.ListTodosResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	var q dto.ListTodosQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	lq := dom.ListQuery{
		Completed: q.Completed,
		Search:    q.Search,
		SortBy:    dom.SortBy(q.SortBy),
		SortOrder: dom.SortOrder(q.SortOrder),
		Page:      q.Page,
		Limit:     q.Limit,
	}
	if q.Priority != "" {
		p := dom.Priority(q.Priority)
		lq.Priority = &p
	}

	page, err := h.svc.List(c.Request.Context(), auth.UserIDFromContext(c), lq)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListTodosResponse{
		Items: todosToResponses(page.Items),
		Pagination: dto.PaginationResponse{
			Page:       page.Pagination.Page,
			Limit:      page.Pagination.Limit,
			Total:      page.Pagination.Total,
			TotalPages: page.Pagination.TotalPages,
		},
	})
}

// Stats godoc
// @Summary      Todo statistics for the caller
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.StatsResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /todos/stats [get]
func (h *TodoHandler) Stats(c *gin.Context) {
	st, err := h.svc.Stats(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatsResponse{
		Total:     st.Total,
		Completed: st.Completed,
		Pending:   st.Pending,
		Priority:  dto.PriorityCounts{High: st.High, Medium: st.Medium, Low: st.Low},
	})
}

// GetByID godoc
// @Summary      Get a todo by ID
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Todo ID"
// @Success      200  {object}  dto.TodoResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /todos/{id} [get]
func (h *TodoHandler) GetByID(c *gin.Context) {
	t, err := h.svc.GetByID(c.Request.Context(), auth.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t))
}

// Update godoc
// @Summary      Update a todo
// @Description  Only the fields present in the body change. "dueDate": null or "" clears the due date.
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Todo ID"
// @Param        body  body      dto.UpdateTodoRequest  true  "Partial update"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /todos/{id} [patch]
func (h *TodoHandler) Update(c *gin.Context) {
	var req dto.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	in, err := updateInput(req)
	if err != nil {
		badRequest(c, err)
		return
	}

	t, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), c.Param("id"), in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t))
}

// Delete godoc
// @Summary      Delete a todo
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Todo ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), auth.UserIDFromContext(c), c.Param("id")); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Todo deleted successfully"})
}

// ToggleComplete godoc
// @Summary      Flip the completed flag
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Todo ID"
// @Success      200  {object}  dto.TodoResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /todos/{id}/toggle-complete [patch]
func (h *TodoHandler) ToggleComplete(c *gin.Context) {
	t, err := h.svc.ToggleComplete(c.Request.Context(), auth.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t))
}

// TogglePin godoc
// @Summary      Flip the pinned flag
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Todo ID"
// @Success      200  {object}  dto.TodoResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /todos/{id}/toggle-pin [patch]
func (h *TodoHandler) TogglePin(c *gin.Context) {
	t, err := h.svc.TogglePin(c.Request.Context(), auth.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t))
}

// updateInput converts the request body. null clears dueDate and is
// rejected for every other field.
func updateInput(req dto.UpdateTodoRequest) (service.UpdateTodoInput, error) {
	var in service.UpdateTodoInput
	if req.Title.Null || req.Description.Null || req.Priority.Null || req.Completed.Null || req.IsPinned.Null {
		return in, errors.New("only dueDate may be null")
	}
	if req.Title.Set {
		in.Title = dom.Some(req.Title.Value)
	}
	if req.Description.Set {
		in.Description = dom.Some(req.Description.Value)
	}
	if req.Priority.Set {
		in.Priority = dom.Some(dom.Priority(req.Priority.Value))
	}
	if req.DueDate.Set {
		in.DueDate = dom.Some(req.DueDate.Value) // null leaves Value empty, which clears
	}
	if req.Completed.Set {
		in.Completed = dom.Some(req.Completed.Value)
	}
	if req.IsPinned.Set {
		in.IsPinned = dom.Some(req.IsPinned.Value)
	}
	return in, nil
}

func todoToResponse(t dom.Todo) dto.TodoResponse {
	out := dto.TodoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		Completed:   t.Completed,
		IsPinned:    t.IsPinned,
		UserID:      t.OwnerID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.Owner != nil {
		u := profileToResponse(*t.Owner)
		out.User = &u
	}
	return out
}

func todosToResponses(list []dom.Todo) []dto.TodoResponse {
	out := make([]dto.TodoResponse, len(list))
	for i := range list {
		out[i] = todoToResponse(list[i])
	}
	return out
}
