package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/store"
)

func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.TodoItems(r.Context())
	if err != nil {
		s.logger.Error("list todo items", "error", err)
		fail(w, http.StatusInternalServerError, "查询失败")
		return
	}
	if items == nil {
		items = []*store.TodoItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    items,
	})
}

func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content *string `json:"content"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Content == nil {
		fail(w, http.StatusBadRequest, "缺少 content 字段")
		return
	}
	content := strings.TrimSpace(*req.Content)
	if content == "" {
		fail(w, http.StatusBadRequest, "内容不能为空")
		return
	}

	item, err := s.store.CreateTodoItem(r.Context(), content)
	if err != nil {
		s.logger.Error("create todo item", "error", err)
		fail(w, http.StatusInternalServerError, "创建失败")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    item,
	})
}

func todoID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		fail(w, http.StatusBadRequest, "无效的 id")
		return 0, false
	}
	return id, true
}

func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}

	var req struct {
		Content   *string `json:"content"`
		Completed *bool   `json:"completed"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Content == nil && req.Completed == nil {
		fail(w, http.StatusBadRequest, "缺少请求体")
		return
	}

	item, err := s.store.UpdateTodoItem(r.Context(), id, req.Content, req.Completed)
	if err != nil {
		s.logger.Error("update todo item", "error", err)
		fail(w, http.StatusInternalServerError, "更新失败")
		return
	}
	if item == nil {
		fail(w, http.StatusNotFound, "更新失败或项目不存在")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    item,
	})
}

func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}

	deleted, err := s.store.DeleteTodoItem(r.Context(), id)
	if err != nil {
		s.logger.Error("delete todo item", "error", err)
		fail(w, http.StatusInternalServerError, "删除失败")
		return
	}
	if !deleted {
		fail(w, http.StatusNotFound, "TODO项不存在或删除失败")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "TODO项删除成功",
	})
}
